package showtimes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cinetix/internal/cinemas"
)

var (
	ErrShowtimeNotFound = errors.New("showtime not found")
	ErrInvalidID        = errors.New("invalid showtime id")
	ErrRoomConflict     = errors.New("room already scheduled for this time window")
	ErrInvalidWindow    = errors.New("showtime must end after it starts")
)

// BookedSeatSource reports seats already sold for a showtime. Seats on
// PENDING bookings are covered by the redis lock, not this source.
type BookedSeatSource interface {
	BookedSeatIDs(ctx context.Context, showtimeID uuid.UUID) ([]uuid.UUID, error)
}

type Service interface {
	Create(ctx context.Context, req *CreateShowtimeRequest) (*Showtime, error)
	GetByID(ctx context.Context, id string) (*Showtime, error)
	List(ctx context.Context, query ShowtimeListQuery) ([]Showtime, error)
	Delete(ctx context.Context, id string) error
	SeatMap(ctx context.Context, showtimeID string) (*SeatMapResponse, error)
	SetBookedSeatSource(src BookedSeatSource)
}

type service struct {
	repo       Repository
	cinemaRepo cinemas.Repository
	locker     *SeatLocker
	booked     BookedSeatSource
}

func NewService(repo Repository, cinemaRepo cinemas.Repository, locker *SeatLocker) Service {
	return &service{
		repo:       repo,
		cinemaRepo: cinemaRepo,
		locker:     locker,
	}
}

func (s *service) SetBookedSeatSource(src BookedSeatSource) {
	s.booked = src
}

func (s *service) Create(ctx context.Context, req *CreateShowtimeRequest) (*Showtime, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, ErrInvalidWindow
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, ErrInvalidID
	}
	cinemaID, err := uuid.Parse(req.CinemaID)
	if err != nil {
		return nil, ErrInvalidID
	}
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return nil, ErrInvalidID
	}

	if _, err := s.cinemaRepo.GetRoomByID(roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cinemas.ErrRoomNotFound
		}
		return nil, err
	}

	overlap, err := s.repo.HasOverlap(roomID, req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, fmt.Errorf("failed to check room schedule: %w", err)
	}
	if overlap {
		return nil, ErrRoomConflict
	}

	format := req.Format
	if format == "" {
		format = "2D"
	}

	showtime := &Showtime{
		MovieID:   movieID,
		CinemaID:  cinemaID,
		RoomID:    roomID,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		BasePrice: req.BasePrice,
		Format:    format,
	}

	if err := s.repo.Create(showtime); err != nil {
		return nil, fmt.Errorf("failed to create showtime: %w", err)
	}
	return showtime, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Showtime, error) {
	showtimeID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	showtime, err := s.repo.GetByID(showtimeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return showtime, nil
}

func (s *service) List(ctx context.Context, query ShowtimeListQuery) ([]Showtime, error) {
	return s.repo.GetAll(query)
}

func (s *service) Delete(ctx context.Context, id string) error {
	showtimeID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}

	if _, err := s.repo.GetByID(showtimeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShowtimeNotFound
		}
		return err
	}

	return s.repo.Delete(showtimeID)
}

// SeatMap merges three sources of truth: the room layout, confirmed
// bookings in postgres, and live seat locks in redis.
func (s *service) SeatMap(ctx context.Context, showtimeID string) (*SeatMapResponse, error) {
	showtime, err := s.GetByID(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	seats, err := s.cinemaRepo.GetRoomSeats(showtime.RoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load room seats: %w", err)
	}

	taken := make(map[string]bool, len(seats))

	if s.booked != nil {
		bookedIDs, err := s.booked.BookedSeatIDs(ctx, showtime.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load booked seats: %w", err)
		}
		for _, id := range bookedIDs {
			taken[id.String()] = true
		}
	}

	seatIDs := make([]string, 0, len(seats))
	for i := range seats {
		seatIDs = append(seatIDs, seats[i].ID.String())
	}

	if s.locker != nil {
		locked, err := s.locker.LockedSeats(ctx, showtime.ID.String(), seatIDs)
		if err != nil {
			return nil, err
		}
		for id, isLocked := range locked {
			if isLocked {
				taken[id] = true
			}
		}
	}

	availability := make([]SeatAvailability, 0, len(seats))
	for i := range seats {
		id := seats[i].ID.String()
		availability = append(availability, SeatAvailability{
			SeatID: id,
			Label:  seats[i].Label(),
			Taken:  taken[id],
		})
	}

	return &SeatMapResponse{
		ShowtimeID: showtime.ID.String(),
		RoomID:     showtime.RoomID.String(),
		Seats:      availability,
	}, nil
}
