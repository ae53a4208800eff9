package bookings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(booking *Booking) error
	GetByID(id uuid.UUID) (*Booking, error)
	GetByUser(userID uuid.UUID, query BookingListQuery) ([]Booking, error)
	GetAll(query AdminBookingListQuery) ([]Booking, error)
	UpdateStatus(id uuid.UUID, status Status) error
	CreatePayment(payment *Payment) error
	BookedSeatIDs(ctx context.Context, showtimeID uuid.UUID) ([]uuid.UUID, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(booking *Booking) error {
	return r.db.Create(booking).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.Preload("Seats").Preload("Payment").Where("id = ?", id).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByUser(userID uuid.UUID, query BookingListQuery) ([]Booking, error) {
	var bookings []Booking
	db := r.db.Preload("Seats").Where("user_id = ?", userID)
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	err := db.Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

func (r *repository) GetAll(query AdminBookingListQuery) ([]Booking, error) {
	var bookings []Booking
	db := r.db.Preload("Seats").Preload("Payment")
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.ShowtimeID != "" {
		db = db.Where("showtime_id = ?", query.ShowtimeID)
	}
	if query.UserID != "" {
		db = db.Where("user_id = ?", query.UserID)
	}
	err := db.Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

func (r *repository) UpdateStatus(id uuid.UUID, status Status) error {
	return r.db.Model(&Booking{}).Where("id = ?", id).Update("status", status).Error
}

func (r *repository) CreatePayment(payment *Payment) error {
	return r.db.Create(payment).Error
}

// BookedSeatIDs lists seats held by bookings that still occupy them.
func (r *repository) BookedSeatIDs(ctx context.Context, showtimeID uuid.UUID) ([]uuid.UUID, error) {
	var seatIDs []uuid.UUID
	err := r.db.WithContext(ctx).Model(&BookingSeat{}).
		Joins("JOIN bookings ON bookings.id = booking_seats.booking_id").
		Where("bookings.showtime_id = ? AND bookings.status IN ?", showtimeID,
			[]Status{StatusPending, StatusConfirmed}).
		Pluck("booking_seats.seat_id", &seatIDs).Error
	return seatIDs, err
}
