package cinemas

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateCinema(cinema *Cinema) error
	GetCinemaByID(id uuid.UUID) (*Cinema, error)
	GetCinemas(query CinemaListQuery) ([]Cinema, error)
	UpdateCinema(id uuid.UUID, updates map[string]interface{}) (*Cinema, error)
	DeleteCinema(id uuid.UUID) error

	CreateRoomWithSeats(room *Room, seats []Seat) error
	GetRoomByID(id uuid.UUID) (*Room, error)
	GetRoomSeats(roomID uuid.UUID) ([]Seat, error)
	DeleteRoom(id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateCinema(cinema *Cinema) error {
	return r.db.Create(cinema).Error
}

func (r *repository) GetCinemaByID(id uuid.UUID) (*Cinema, error) {
	var cinema Cinema
	err := r.db.Preload("Rooms").Where("id = ?", id).First(&cinema).Error
	if err != nil {
		return nil, err
	}
	return &cinema, nil
}

func (r *repository) GetCinemas(query CinemaListQuery) ([]Cinema, error) {
	var cinemas []Cinema
	db := r.db.Model(&Cinema{})
	if query.City != "" {
		db = db.Where("LOWER(city) = ?", strings.ToLower(query.City))
	}
	err := db.Order("name ASC").Find(&cinemas).Error
	return cinemas, err
}

func (r *repository) UpdateCinema(id uuid.UUID, updates map[string]interface{}) (*Cinema, error) {
	var cinema Cinema
	if err := r.db.Where("id = ?", id).First(&cinema).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&cinema).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &cinema, nil
}

func (r *repository) DeleteCinema(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var roomIDs []uuid.UUID
		if err := tx.Model(&Room{}).Where("cinema_id = ?", id).Pluck("id", &roomIDs).Error; err != nil {
			return err
		}
		if len(roomIDs) > 0 {
			if err := tx.Where("room_id IN ?", roomIDs).Delete(&Seat{}).Error; err != nil {
				return err
			}
			if err := tx.Where("cinema_id = ?", id).Delete(&Room{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", id).Delete(&Cinema{}).Error
	})
}

func (r *repository) CreateRoomWithSeats(room *Room, seats []Seat) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		for i := range seats {
			seats[i].RoomID = room.ID
		}
		return tx.CreateInBatches(seats, 200).Error
	})
}

func (r *repository) GetRoomByID(id uuid.UUID) (*Room, error) {
	var room Room
	err := r.db.Where("id = ?", id).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *repository) GetRoomSeats(roomID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.Where("room_id = ?", roomID).Order("row ASC, number ASC").Find(&seats).Error
	return seats, err
}

func (r *repository) DeleteRoom(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&Seat{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&Room{}).Error
	})
}
