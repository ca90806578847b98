package service

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"gorm.io/gorm"

	"animediary/internal/api/apperror"
	"animediary/internal/api/models"
	"animediary/internal/api/repository"
	"animediary/internal/cache"
)

// DiaryUpdate is a partial update of one entry; nil fields are untouched.
// EpisodesWatched and Notes are accepted unconditionally, score and status
// go through the same validation as Add.
type DiaryUpdate struct {
	UserScore       *int
	Status          *string
	EpisodesWatched *int
	Notes           *string
}

type DiaryService interface {
	List(ctx context.Context, userID, status, sortBy, order string) ([]models.DiaryEntry, error)
	GetEntry(ctx context.Context, entryID int64, userID string) (*models.DiaryEntry, error)
	Add(ctx context.Context, userID string, animeID int64, score int, status *string, episodesWatched *int, notes *string) (*models.DiaryEntry, error)
	Update(ctx context.Context, entryID int64, userID string, update DiaryUpdate) (*models.DiaryEntry, error)
	Remove(ctx context.Context, entryID int64, userID string) (bool, error)
	Stats(ctx context.Context, userID string) (*repository.DiaryStats, error)
}

type diaryService struct {
	repo       repository.DiaryRepository
	animeRepo  *repository.AnimeRepo
	statsCache *cache.StatsCache
	logger     *slog.Logger
}

// NewDiaryService wires the diary service. statsCache may be nil, which
// disables caching entirely.
func NewDiaryService(repo repository.DiaryRepository, animeRepo *repository.AnimeRepo, statsCache *cache.StatsCache, logger *slog.Logger) DiaryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &diaryService{
		repo:       repo,
		animeRepo:  animeRepo,
		statsCache: statsCache,
		logger:     logger,
	}
}

func (s *diaryService) List(ctx context.Context, userID, status, sortBy, order string) ([]models.DiaryEntry, error) {
	entries, err := s.repo.ListByUser(ctx, userID, status, sortBy, order)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return entries, nil
}

func (s *diaryService) GetEntry(ctx context.Context, entryID int64, userID string) (*models.DiaryEntry, error) {
	entry, err := s.repo.GetByIDAndUser(ctx, entryID, userID)
	if err != nil {
		return nil, apperror.FromStore(err, "entry not found", "")
	}
	return entry, nil
}

// Add creates a diary entry after validating score and status, checking
// the anime exists, and checking the (user, anime) pair is new. A
// concurrent duplicate add still trips the unique constraint at commit and
// comes back as a conflict.
func (s *diaryService) Add(ctx context.Context, userID string, animeID int64, score int, status *string, episodesWatched *int, notes *string) (*models.DiaryEntry, error) {
	if score < 1 || score > 10 {
		return nil, apperror.Validation("user_score must be between 1 and 10")
	}

	entryStatus := models.StatusWatching
	if status != nil {
		if !models.ValidStatus(*status) {
			return nil, apperror.Validation("invalid status, must be one of: watching, completed, planned, dropped")
		}
		entryStatus = *status
	}

	if _, err := s.animeRepo.GetByID(ctx, animeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("anime not found")
		}
		return nil, apperror.Internal(err)
	}

	exists, err := s.repo.ExistsForUserAndAnime(ctx, userID, animeID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("anime already in diary")
	}

	entry := &models.DiaryEntry{
		UserID:    userID,
		AnimeID:   animeID,
		UserScore: score,
		Status:    entryStatus,
	}
	if episodesWatched != nil {
		entry.EpisodesWatched = *episodesWatched
	}
	entry.Notes = notes

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, apperror.FromStore(err, "anime not found", "anime already in diary")
	}

	s.invalidateStats(ctx, userID)
	return s.GetEntry(ctx, entry.ID, userID)
}

// Update mutates an entry looked up by (entry, user): a user can never
// touch another user's entry by id.
func (s *diaryService) Update(ctx context.Context, entryID int64, userID string, update DiaryUpdate) (*models.DiaryEntry, error) {
	entry, err := s.repo.GetByIDAndUser(ctx, entryID, userID)
	if err != nil {
		return nil, apperror.FromStore(err, "entry not found", "")
	}

	if update.UserScore != nil {
		if *update.UserScore < 1 || *update.UserScore > 10 {
			return nil, apperror.Validation("user_score must be between 1 and 10")
		}
		entry.UserScore = *update.UserScore
	}
	if update.Status != nil {
		if !models.ValidStatus(*update.Status) {
			return nil, apperror.Validation("invalid status, must be one of: watching, completed, planned, dropped")
		}
		entry.Status = *update.Status
	}
	if update.EpisodesWatched != nil {
		entry.EpisodesWatched = *update.EpisodesWatched
	}
	if update.Notes != nil {
		entry.Notes = update.Notes
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, apperror.Internal(err)
	}

	s.invalidateStats(ctx, userID)
	return entry, nil
}

func (s *diaryService) Remove(ctx context.Context, entryID int64, userID string) (bool, error) {
	rows, err := s.repo.Delete(ctx, entryID, userID)
	if err != nil {
		return false, apperror.Internal(err)
	}
	if rows > 0 {
		s.invalidateStats(ctx, userID)
	}
	return rows > 0, nil
}

// Stats returns the aggregate summary, zeroed when the diary is empty.
// The cache is consulted first; failures there degrade to the store.
func (s *diaryService) Stats(ctx context.Context, userID string) (*repository.DiaryStats, error) {
	var cached repository.DiaryStats
	if ok, err := s.statsCache.Get(ctx, userID, &cached); err != nil {
		s.logger.Warn("stats cache read failed", "user_id", userID, "error", err)
	} else if ok {
		return &cached, nil
	}

	stats, err := s.repo.StatsByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	stats.AverageScore = math.Round(stats.AverageScore*100) / 100

	if err := s.statsCache.Set(ctx, userID, stats); err != nil {
		s.logger.Warn("stats cache write failed", "user_id", userID, "error", err)
	}
	return stats, nil
}

func (s *diaryService) invalidateStats(ctx context.Context, userID string) {
	if err := s.statsCache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("stats cache invalidation failed", "user_id", userID, "error", err)
	}
}
