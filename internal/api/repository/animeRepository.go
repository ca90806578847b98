package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"animediary/internal/api/models"
)

type AnimeRepo struct {
	db *gorm.DB
}

func NewAnimeRepo(db *gorm.DB) *AnimeRepo {
	return &AnimeRepo{db: db}
}

func (r *AnimeRepo) GetAll(ctx context.Context) ([]models.Anime, error) {
	var list []models.Anime
	if err := r.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *AnimeRepo) GetByID(ctx context.Context, id int64) (*models.Anime, error) {
	var anime models.Anime
	if err := r.db.WithContext(ctx).First(&anime, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &anime, nil
}

func (r *AnimeRepo) GetByMalID(ctx context.Context, malID int64) (*models.Anime, error) {
	var anime models.Anime
	if err := r.db.WithContext(ctx).Where("mal_id = ?", malID).First(&anime).Error; err != nil {
		return nil, err
	}
	return &anime, nil
}

func (r *AnimeRepo) Create(ctx context.Context, anime *models.Anime) error {
	return r.db.WithContext(ctx).Create(anime).Error
}

func (r *AnimeRepo) Update(ctx context.Context, anime *models.Anime) error {
	return r.db.WithContext(ctx).Save(anime).Error
}

// Delete removes an anime. The RESTRICT constraint on diary entries makes
// the store reject the delete while any entry still references it; that
// surfaces as gorm.ErrForeignKeyViolated. Returns rows removed.
func (r *AnimeRepo) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Anime{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

// UpsertFromCatalog persists one batch of catalog hits atomically, keyed by
// mal_id. New records are inserted whole; existing records only get their
// score, episodes and status refreshed, so title, synopsis and image stay
// as first stored. A failing item rolls back the whole batch.
func (r *AnimeRepo) UpsertFromCatalog(ctx context.Context, items []models.Anime) ([]models.Anime, error) {
	saved := make([]models.Anime, 0, len(items))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			var existing models.Anime
			err := tx.Where("mal_id = ?", item.MalID).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				record := item
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
				saved = append(saved, record)
			case err != nil:
				return err
			default:
				if item.Score != nil {
					existing.Score = item.Score
				}
				if item.Episodes != nil {
					existing.Episodes = item.Episodes
				}
				if item.Status != nil {
					existing.Status = item.Status
				}
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
				saved = append(saved, existing)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}
