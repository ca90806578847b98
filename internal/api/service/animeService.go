package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"animediary/internal/api/apperror"
	"animediary/internal/api/models"
	"animediary/internal/api/repository"
	"animediary/internal/ingestion/jikan"
)

// CatalogClient is the slice of the Jikan client the anime service needs.
type CatalogClient interface {
	Search(ctx context.Context, query string, limit int) ([]jikan.AnimeData, error)
}

// AnimeUpdate is a partial update; nil fields are left untouched.
type AnimeUpdate struct {
	Title    *string
	Synopsis *string
	Score    *float64
	Episodes *int
	ImageURL *string
	Status   *string
}

type AnimeService interface {
	Search(ctx context.Context, query string, limit int) ([]models.Anime, error)
	GetAll(ctx context.Context) ([]models.Anime, error)
	GetByID(ctx context.Context, id int64) (*models.Anime, error)
	GetByMalID(ctx context.Context, malID int64) (*models.Anime, error)
	Create(ctx context.Context, anime *models.Anime) error
	Update(ctx context.Context, id int64, update AnimeUpdate) (*models.Anime, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type animeService struct {
	repo    *repository.AnimeRepo
	catalog CatalogClient
}

func NewAnimeService(repo *repository.AnimeRepo, catalog CatalogClient) AnimeService {
	return &animeService{repo: repo, catalog: catalog}
}

const defaultSearchLimit = 12

// Search queries the external catalog and upserts every hit by mal_id
// inside one transaction, so the returned list always carries local ids
// and is never half-persisted.
func (s *animeService) Search(ctx context.Context, query string, limit int) ([]models.Anime, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperror.Validation("query is required")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	hits, err := s.catalog.Search(ctx, query, limit)
	if err != nil {
		return nil, apperror.External(err, "error fetching from Jikan API")
	}

	items := make([]models.Anime, 0, len(hits))
	for _, hit := range hits {
		items = append(items, models.Anime{
			MalID:    hit.MalID,
			Title:    hit.Title,
			Synopsis: hit.Synopsis,
			Score:    hit.Score,
			Episodes: hit.Episodes,
			ImageURL: hit.ImageURL(),
			Status:   hit.Status,
		})
	}

	saved, err := s.repo.UpsertFromCatalog(ctx, items)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return saved, nil
}

func (s *animeService) GetAll(ctx context.Context) ([]models.Anime, error) {
	list, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (s *animeService) GetByID(ctx context.Context, id int64) (*models.Anime, error) {
	anime, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.FromStore(err, "anime not found", "")
	}
	return anime, nil
}

func (s *animeService) GetByMalID(ctx context.Context, malID int64) (*models.Anime, error) {
	anime, err := s.repo.GetByMalID(ctx, malID)
	if err != nil {
		return nil, apperror.FromStore(err, "anime not found", "")
	}
	return anime, nil
}

// Create inserts a manually supplied anime. mal_id and title are required
// and mal_id must not be present yet.
func (s *animeService) Create(ctx context.Context, anime *models.Anime) error {
	if anime.MalID == 0 || strings.TrimSpace(anime.Title) == "" {
		return apperror.Validation("mal_id and title are required")
	}

	if _, err := s.repo.GetByMalID(ctx, anime.MalID); err == nil {
		return apperror.Conflict("anime already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.Internal(err)
	}

	if err := s.repo.Create(ctx, anime); err != nil {
		return apperror.FromStore(err, "anime not found", "anime already exists")
	}
	return nil
}

func (s *animeService) Update(ctx context.Context, id int64, update AnimeUpdate) (*models.Anime, error) {
	anime, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.FromStore(err, "anime not found", "")
	}

	if update.Title != nil {
		anime.Title = *update.Title
	}
	if update.Synopsis != nil {
		anime.Synopsis = update.Synopsis
	}
	if update.Score != nil {
		anime.Score = update.Score
	}
	if update.Episodes != nil {
		anime.Episodes = update.Episodes
	}
	if update.ImageURL != nil {
		anime.ImageURL = update.ImageURL
	}
	if update.Status != nil {
		anime.Status = update.Status
	}

	if err := s.repo.Update(ctx, anime); err != nil {
		return nil, apperror.Internal(err)
	}
	return anime, nil
}

// Delete returns false when the id is unknown. An anime still referenced
// by diary entries is rejected by the store and surfaces as a conflict,
// distinct from not-found.
func (s *animeService) Delete(ctx context.Context, id int64) (bool, error) {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, apperror.FromStore(err, "anime not found", "anime is referenced by diary entries")
	}
	return rows > 0, nil
}
