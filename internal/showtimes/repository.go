package showtimes

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(showtime *Showtime) error
	GetByID(id uuid.UUID) (*Showtime, error)
	GetAll(query ShowtimeListQuery) ([]Showtime, error)
	Delete(id uuid.UUID) error
	HasOverlap(roomID uuid.UUID, startsAt, endsAt time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(showtime *Showtime) error {
	return r.db.Create(showtime).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Showtime, error) {
	var showtime Showtime
	if err := r.db.Where("id = ?", id).First(&showtime).Error; err != nil {
		return nil, err
	}
	return &showtime, nil
}

func (r *repository) GetAll(query ShowtimeListQuery) ([]Showtime, error) {
	var showtimes []Showtime
	db := r.db.Model(&Showtime{})

	if query.MovieID != "" {
		db = db.Where("movie_id = ?", query.MovieID)
	}
	if query.CinemaID != "" {
		db = db.Where("cinema_id = ?", query.CinemaID)
	}
	if query.Date != "" {
		day, err := time.Parse("2006-01-02", query.Date)
		if err == nil {
			db = db.Where("starts_at >= ? AND starts_at < ?", day, day.Add(24*time.Hour))
		}
	}

	err := db.Order("starts_at ASC").Find(&showtimes).Error
	return showtimes, err
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&Showtime{}).Error
}

func (r *repository) HasOverlap(roomID uuid.UUID, startsAt, endsAt time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&Showtime{}).
		Where("room_id = ? AND starts_at < ? AND ends_at > ?", roomID, endsAt, startsAt).
		Count(&count).Error
	return count > 0, err
}
