package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/gorm"

	"animediary/internal/api/apperror"
	"animediary/internal/api/models"
	"animediary/internal/api/repository"
)

func newUserService(t *testing.T) (UserService, *gorm.DB) {
	db := setupTestDB(t)
	return NewUserService(repository.NewUserRepository(db)), db
}

func TestUserService_Create_Validation(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"short username", "ab", "a@example.com", "password123"},
		{"email without at", "alice", "not-an-email", "password123"},
		{"short password", "alice", "a@example.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.username, tt.email, tt.password)
			require.Error(t, err)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		})
	}
}

func TestUserService_Create_Success(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)

	// The stored password is a hash, never the plaintext.
	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.NotEqual(t, "password123", stored.Password)
	assert.NotEmpty(t, stored.Password)
}

func TestUserService_Create_Conflicts(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "alice", "other@example.com", "password123")
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	_, err = svc.Create(ctx, "bob", "alice@example.com", "password123")
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestUserService_Authenticate(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "alice", "password123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, created.ID, user.ID)

	// Wrong password and unknown user are "no match", not errors.
	user, err = svc.Authenticate(ctx, "alice", "wrong-password")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = svc.Authenticate(ctx, "nobody", "password123")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserService_Update(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	alice, err := svc.Create(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "bob", "bob@example.com", "password123")
	require.NoError(t, err)

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Update(ctx, "00000000-0000-0000-0000-000000000000", strPtr("x@example.com"), nil)
		require.Error(t, err)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("email taken by other user", func(t *testing.T) {
		_, err := svc.Update(ctx, alice.ID, strPtr("bob@example.com"), nil)
		require.Error(t, err)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("short new password", func(t *testing.T) {
		_, err := svc.Update(ctx, alice.ID, nil, strPtr("short"))
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("email and password change", func(t *testing.T) {
		updated, err := svc.Update(ctx, alice.ID, strPtr("alice2@example.com"), strPtr("newpassword1"))
		require.NoError(t, err)
		assert.Equal(t, "alice2@example.com", updated.Email)

		user, err := svc.Authenticate(ctx, "alice", "newpassword1")
		require.NoError(t, err)
		require.NotNil(t, user)
	})
}

func TestUserService_Delete_CascadesDiary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	user := createTestUser(t, db, "alice")
	anime := createTestAnime(t, db, 1, "Cowboy Bebop")

	diarySvc := NewDiaryService(repository.NewDiaryRepository(db), repository.NewAnimeRepo(db), nil, nil)
	_, err := diarySvc.Add(ctx, user.ID, anime.ID, 9, nil, nil, nil)
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var count int64
	require.NoError(t, db.Model(&models.DiaryEntry{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUserService_Delete_NotFound(t *testing.T) {
	svc, _ := newUserService(t)

	deleted, err := svc.Delete(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.False(t, deleted)
}
