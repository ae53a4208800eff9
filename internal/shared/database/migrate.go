package database

import (
	"cinetix/internal/bookings"
	"cinetix/internal/cinemas"
	"cinetix/internal/coupons"
	"cinetix/internal/movies"
	"cinetix/internal/showtimes"
	"cinetix/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&movies.Movie{},
		&cinemas.Cinema{},
		&cinemas.Room{},
		&cinemas.Seat{},
		&showtimes.Showtime{},
		&coupons.Coupon{},
		&bookings.Booking{},
		&bookings.BookingSeat{},
		&bookings.Payment{},
	)
}
