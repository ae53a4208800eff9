package movies

import (
	"time"

	"github.com/google/uuid"
)

type MovieStatus string

const (
	StatusComingSoon MovieStatus = "coming_soon"
	StatusNowShowing MovieStatus = "now_showing"
	StatusArchived   MovieStatus = "archived"
)

type Movie struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string      `json:"title" gorm:"not null;size:255"`
	Description string      `json:"description" gorm:"type:text"`
	Genre       string      `json:"genre" gorm:"not null;size:100"`
	Language    string      `json:"language" gorm:"size:50"`
	DurationMin int         `json:"duration_min" gorm:"not null;check:duration_min > 0"`
	Rating      string      `json:"rating" gorm:"size:10"`
	PosterURL   string      `json:"poster_url" gorm:"size:500"`
	ReleaseDate time.Time   `json:"release_date"`
	Status      MovieStatus `json:"status" gorm:"type:varchar(20);default:'coming_soon'"`

	CreatedBy uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	UpdatedBy *uuid.UUID `json:"updated_by" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

type MovieResponse struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Genre       string      `json:"genre"`
	Language    string      `json:"language"`
	DurationMin int         `json:"duration_min"`
	Rating      string      `json:"rating"`
	PosterURL   string      `json:"poster_url"`
	ReleaseDate time.Time   `json:"release_date"`
	Status      MovieStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type CreateMovieRequest struct {
	Title       string    `json:"title" binding:"required,min=1,max=255"`
	Description string    `json:"description" binding:"max=2000"`
	Genre       string    `json:"genre" binding:"required,min=2,max=100"`
	Language    string    `json:"language" binding:"max=50"`
	DurationMin int       `json:"duration_min" binding:"required,min=1,max=600"`
	Rating      string    `json:"rating" binding:"max=10"`
	PosterURL   string    `json:"poster_url" binding:"omitempty,url"`
	ReleaseDate time.Time `json:"release_date" binding:"required"`
}

type UpdateMovieRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Genre       *string    `json:"genre" binding:"omitempty,min=2,max=100"`
	Language    *string    `json:"language" binding:"omitempty,max=50"`
	DurationMin *int       `json:"duration_min" binding:"omitempty,min=1,max=600"`
	Rating      *string    `json:"rating" binding:"omitempty,max=10"`
	PosterURL   *string    `json:"poster_url" binding:"omitempty,url"`
	ReleaseDate *time.Time `json:"release_date"`
	Status      *string    `json:"status" binding:"omitempty,oneof=coming_soon now_showing archived"`
}

type MovieListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Genre    string `form:"genre"`
	Language string `form:"language"`
	Status   string `form:"status" binding:"omitempty,oneof=coming_soon now_showing archived"`
}

type MovieListResponse struct {
	Movies     []MovieResponse `json:"movies"`
	Pagination Pagination      `json:"pagination"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

func toMovieResponse(m *Movie) MovieResponse {
	return MovieResponse{
		ID:          m.ID.String(),
		Title:       m.Title,
		Description: m.Description,
		Genre:       m.Genre,
		Language:    m.Language,
		DurationMin: m.DurationMin,
		Rating:      m.Rating,
		PosterURL:   m.PosterURL,
		ReleaseDate: m.ReleaseDate,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
