package movies

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(movie *Movie) error
	GetByID(id uuid.UUID) (*Movie, error)
	Update(id uuid.UUID, updates map[string]interface{}) (*Movie, error)
	Delete(id uuid.UUID) error
	GetAll(query MovieListQuery) ([]Movie, int64, error)
	GetByStatus(status MovieStatus) ([]Movie, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(movie *Movie) error {
	return r.db.Create(movie).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Movie, error) {
	var movie Movie
	if err := r.db.Where("id = ?", id).First(&movie).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *repository) Update(id uuid.UUID, updates map[string]interface{}) (*Movie, error) {
	var movie Movie
	if err := r.db.Where("id = ?", id).First(&movie).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&movie).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := r.db.Where("id = ?", id).First(&movie).Error; err != nil {
		return nil, err
	}

	return &movie, nil
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&Movie{}).Error
}

func (r *repository) GetAll(query MovieListQuery) ([]Movie, int64, error) {
	var movies []Movie
	var totalCount int64

	db := r.db.Model(&Movie{})

	if query.Search != "" {
		searchTerm := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	if query.Genre != "" {
		db = db.Where("LOWER(genre) = ?", strings.ToLower(query.Genre))
	}

	if query.Language != "" {
		db = db.Where("LOWER(language) = ?", strings.ToLower(query.Language))
	}

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 20
	}

	err := db.Order("release_date DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&movies).Error
	if err != nil {
		return nil, 0, err
	}

	return movies, totalCount, nil
}

func (r *repository) GetByStatus(status MovieStatus) ([]Movie, error) {
	var movies []Movie
	err := r.db.Where("status = ?", status).Order("release_date DESC").Find(&movies).Error
	return movies, err
}
