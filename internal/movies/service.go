package movies

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cinetix/pkg/cache"
	"cinetix/pkg/logger"
)

var (
	ErrMovieNotFound = errors.New("movie not found")
	ErrInvalidID     = errors.New("invalid movie id")
)

const (
	cacheKeyMovie     = "movies:id:%s"
	cacheKeyMovieList = "movies:list:%s"
	movieCacheTTL     = 10 * time.Minute
)

type Service interface {
	Create(ctx context.Context, req *CreateMovieRequest, createdBy string) (*MovieResponse, error)
	GetByID(ctx context.Context, id string) (*MovieResponse, error)
	List(ctx context.Context, query MovieListQuery) (*MovieListResponse, error)
	NowShowing(ctx context.Context) ([]MovieResponse, error)
	Update(ctx context.Context, id string, req *UpdateMovieRequest, updatedBy string) (*MovieResponse, error)
	Delete(ctx context.Context, id string) error
	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	log          *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		log:  logger.GetDefault(),
	}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) Create(ctx context.Context, req *CreateMovieRequest, createdBy string) (*MovieResponse, error) {
	creatorID, err := uuid.Parse(createdBy)
	if err != nil {
		return nil, ErrInvalidID
	}

	movie := &Movie{
		Title:       req.Title,
		Description: req.Description,
		Genre:       req.Genre,
		Language:    req.Language,
		DurationMin: req.DurationMin,
		Rating:      req.Rating,
		PosterURL:   req.PosterURL,
		ReleaseDate: req.ReleaseDate,
		Status:      StatusComingSoon,
		CreatedBy:   creatorID,
	}

	if err := s.repo.Create(movie); err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	s.invalidateListCache(ctx)

	resp := toMovieResponse(movie)
	return &resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*MovieResponse, error) {
	movieID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var resp MovieResponse
	if s.cacheService != nil {
		key := fmt.Sprintf(cacheKeyMovie, id)
		err := s.cacheService.GetOrSet(ctx, key, movieCacheTTL, func() (interface{}, error) {
			return s.fetchMovie(movieID)
		}, &resp)
		if err != nil {
			if errors.Is(err, ErrMovieNotFound) {
				return nil, ErrMovieNotFound
			}
			return nil, err
		}
		return &resp, nil
	}

	fetched, err := s.fetchMovie(movieID)
	if err != nil {
		return nil, err
	}
	return fetched, nil
}

func (s *service) fetchMovie(movieID uuid.UUID) (*MovieResponse, error) {
	movie, err := s.repo.GetByID(movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	resp := toMovieResponse(movie)
	return &resp, nil
}

func (s *service) List(ctx context.Context, query MovieListQuery) (*MovieListResponse, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 20
	}

	movies, totalCount, err := s.repo.GetAll(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	responses := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		responses = append(responses, toMovieResponse(&movies[i]))
	}

	return &MovieListResponse{
		Movies: responses,
		Pagination: Pagination{
			Page:       query.Page,
			Limit:      query.Limit,
			TotalCount: totalCount,
			TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
		},
	}, nil
}

func (s *service) NowShowing(ctx context.Context) ([]MovieResponse, error) {
	var responses []MovieResponse
	fetch := func() (interface{}, error) {
		movies, err := s.repo.GetByStatus(StatusNowShowing)
		if err != nil {
			return nil, err
		}
		out := make([]MovieResponse, 0, len(movies))
		for i := range movies {
			out = append(out, toMovieResponse(&movies[i]))
		}
		return out, nil
	}

	if s.cacheService != nil {
		key := fmt.Sprintf(cacheKeyMovieList, "now_showing")
		if err := s.cacheService.GetOrSet(ctx, key, movieCacheTTL, fetch, &responses); err != nil {
			return nil, err
		}
		return responses, nil
	}

	result, err := fetch()
	if err != nil {
		return nil, err
	}
	return result.([]MovieResponse), nil
}

func (s *service) Update(ctx context.Context, id string, req *UpdateMovieRequest, updatedBy string) (*MovieResponse, error) {
	movieID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	updaterID, err := uuid.Parse(updatedBy)
	if err != nil {
		return nil, ErrInvalidID
	}

	updates := map[string]interface{}{"updated_by": updaterID}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Genre != nil {
		updates["genre"] = *req.Genre
	}
	if req.Language != nil {
		updates["language"] = *req.Language
	}
	if req.DurationMin != nil {
		updates["duration_min"] = *req.DurationMin
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.PosterURL != nil {
		updates["poster_url"] = *req.PosterURL
	}
	if req.ReleaseDate != nil {
		updates["release_date"] = *req.ReleaseDate
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	movie, err := s.repo.Update(movieID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}

	s.invalidateMovieCache(ctx, id)

	resp := toMovieResponse(movie)
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	movieID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}

	if _, err := s.repo.GetByID(movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMovieNotFound
		}
		return err
	}

	if err := s.repo.Delete(movieID); err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	s.invalidateMovieCache(ctx, id)
	return nil
}

func (s *service) invalidateMovieCache(ctx context.Context, id string) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, fmt.Sprintf(cacheKeyMovie, id)); err != nil {
		s.log.Warn("failed to invalidate movie cache", "movie_id", id, "error", err)
	}
	s.invalidateListCache(ctx)
}

func (s *service) invalidateListCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, "movies:list:*"); err != nil {
		s.log.Warn("failed to invalidate movie list cache", "error", err)
	}
}
