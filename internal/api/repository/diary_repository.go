package repository

import (
	"context"

	"gorm.io/gorm"

	"animediary/internal/api/models"
)

// DiaryStats is the aggregate summary of one user's diary.
type DiaryStats struct {
	TotalAnimes   int64   `json:"total_animes"`
	AverageScore  float64 `json:"average_score"`
	Completed     int64   `json:"completed"`
	Watching      int64   `json:"watching"`
	Planned       int64   `json:"planned"`
	Dropped       int64   `json:"dropped"`
	TotalEpisodes int64   `json:"total_episodes"`
}

// sortColumns whitelists the fields a diary listing may be ordered by.
// Anything else falls back to created_at.
var sortColumns = map[string]string{
	"created_at":       "created_at",
	"updated_at":       "updated_at",
	"user_score":       "user_score",
	"episodes_watched": "episodes_watched",
	"status":           "status",
}

type DiaryRepository interface {
	Create(ctx context.Context, entry *models.DiaryEntry) error
	Update(ctx context.Context, entry *models.DiaryEntry) error
	Delete(ctx context.Context, entryID int64, userID string) (int64, error)
	GetByIDAndUser(ctx context.Context, entryID int64, userID string) (*models.DiaryEntry, error)
	ExistsForUserAndAnime(ctx context.Context, userID string, animeID int64) (bool, error)
	ListByUser(ctx context.Context, userID, status, sortBy, order string) ([]models.DiaryEntry, error)
	StatsByUser(ctx context.Context, userID string) (*DiaryStats, error)
}

type diaryRepository struct {
	db *gorm.DB
}

func NewDiaryRepository(db *gorm.DB) DiaryRepository {
	return &diaryRepository{db: db}
}

func (r *diaryRepository) Create(ctx context.Context, entry *models.DiaryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *diaryRepository) Update(ctx context.Context, entry *models.DiaryEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Delete is ownership-scoped: the user id is part of the lookup key.
func (r *diaryRepository) Delete(ctx context.Context, entryID int64, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&models.DiaryEntry{})
	return result.RowsAffected, result.Error
}

func (r *diaryRepository) GetByIDAndUser(ctx context.Context, entryID int64, userID string) (*models.DiaryEntry, error) {
	var entry models.DiaryEntry
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Preload("Anime").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *diaryRepository) ExistsForUserAndAnime(ctx context.Context, userID string, animeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DiaryEntry{}).
		Where("user_id = ? AND anime_id = ?", userID, animeID).
		Count(&count).Error
	return count > 0, err
}

func (r *diaryRepository) ListByUser(ctx context.Context, userID, status, sortBy, order string) ([]models.DiaryEntry, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	// An unrecognized status filter is ignored, not rejected.
	if status != "" && models.ValidStatus(status) {
		query = query.Where("status = ?", status)
	}

	column, ok := sortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if order == "asc" {
		direction = "ASC"
	}

	var entries []models.DiaryEntry
	err := query.
		Preload("Anime").
		Order(column + " " + direction).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// StatsByUser computes the summary in SQL: one aggregate row for count,
// average and episode sum, plus grouped status counts.
func (r *diaryRepository) StatsByUser(ctx context.Context, userID string) (*DiaryStats, error) {
	var totals struct {
		Total    int64
		Average  float64
		Episodes int64
	}
	err := r.db.WithContext(ctx).Model(&models.DiaryEntry{}).
		Select("COUNT(*) as total, COALESCE(AVG(user_score), 0) as average, COALESCE(SUM(episodes_watched), 0) as episodes").
		Where("user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	stats := &DiaryStats{
		TotalAnimes:   totals.Total,
		AverageScore:  totals.Average,
		TotalEpisodes: totals.Episodes,
	}
	if totals.Total == 0 {
		return stats, nil
	}

	var buckets []struct {
		Status string
		Count  int64
	}
	err = r.db.WithContext(ctx).Model(&models.DiaryEntry{}).
		Select("status, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}

	for _, b := range buckets {
		switch b.Status {
		case models.StatusCompleted:
			stats.Completed = b.Count
		case models.StatusWatching:
			stats.Watching = b.Count
		case models.StatusPlanned:
			stats.Planned = b.Count
		case models.StatusDropped:
			stats.Dropped = b.Count
		}
	}
	return stats, nil
}
