package cinemas

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCinemaNotFound = errors.New("cinema not found")
	ErrRoomNotFound   = errors.New("room not found")
	ErrInvalidID      = errors.New("invalid id")
)

// Seat rows are labelled A, B, C, ... per the room layout.
var rowLabels = []string{
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J",
	"K", "L", "M", "N", "O", "P", "Q", "R", "S", "T",
	"U", "V", "W", "X", "Y", "Z", "AA", "AB", "AC", "AD",
	"AE", "AF", "AG", "AH", "AI", "AJ", "AK", "AL", "AM", "AN",
	"AO", "AP", "AQ", "AR", "AS", "AT", "AU", "AV", "AW", "AX",
}

type Service interface {
	CreateCinema(ctx context.Context, req *CreateCinemaRequest) (*Cinema, error)
	GetCinema(ctx context.Context, id string) (*Cinema, error)
	ListCinemas(ctx context.Context, query CinemaListQuery) ([]Cinema, error)
	UpdateCinema(ctx context.Context, id string, req *UpdateCinemaRequest) (*Cinema, error)
	DeleteCinema(ctx context.Context, id string) error

	CreateRoom(ctx context.Context, cinemaID string, req *CreateRoomRequest) (*Room, error)
	GetRoomSeats(ctx context.Context, roomID string) ([]SeatResponse, error)
	DeleteRoom(ctx context.Context, roomID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateCinema(ctx context.Context, req *CreateCinemaRequest) (*Cinema, error) {
	cinema := &Cinema{
		Name:    req.Name,
		City:    req.City,
		Address: req.Address,
	}
	if err := s.repo.CreateCinema(cinema); err != nil {
		return nil, fmt.Errorf("failed to create cinema: %w", err)
	}
	return cinema, nil
}

func (s *service) GetCinema(ctx context.Context, id string) (*Cinema, error) {
	cinemaID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	cinema, err := s.repo.GetCinemaByID(cinemaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCinemaNotFound
		}
		return nil, err
	}
	return cinema, nil
}

func (s *service) ListCinemas(ctx context.Context, query CinemaListQuery) ([]Cinema, error) {
	return s.repo.GetCinemas(query)
}

func (s *service) UpdateCinema(ctx context.Context, id string, req *UpdateCinemaRequest) (*Cinema, error) {
	cinemaID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}

	cinema, err := s.repo.UpdateCinema(cinemaID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCinemaNotFound
		}
		return nil, err
	}
	return cinema, nil
}

func (s *service) DeleteCinema(ctx context.Context, id string) error {
	cinemaID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}

	if _, err := s.repo.GetCinemaByID(cinemaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCinemaNotFound
		}
		return err
	}

	return s.repo.DeleteCinema(cinemaID)
}

func (s *service) CreateRoom(ctx context.Context, cinemaID string, req *CreateRoomRequest) (*Room, error) {
	cid, err := uuid.Parse(cinemaID)
	if err != nil {
		return nil, ErrInvalidID
	}

	if _, err := s.repo.GetCinemaByID(cid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCinemaNotFound
		}
		return nil, err
	}

	if req.Rows > len(rowLabels) {
		return nil, fmt.Errorf("room cannot have more than %d rows", len(rowLabels))
	}

	room := &Room{
		CinemaID: cid,
		Name:     req.Name,
		Rows:     req.Rows,
		SeatsRow: req.SeatsPerRow,
	}

	seats := make([]Seat, 0, req.Rows*req.SeatsPerRow)
	for row := 0; row < req.Rows; row++ {
		for num := 1; num <= req.SeatsPerRow; num++ {
			seats = append(seats, Seat{
				Row:    rowLabels[row],
				Number: num,
				Type:   SeatStandard,
			})
		}
	}

	if err := s.repo.CreateRoomWithSeats(room, seats); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return room, nil
}

func (s *service) GetRoomSeats(ctx context.Context, roomID string) ([]SeatResponse, error) {
	rid, err := uuid.Parse(roomID)
	if err != nil {
		return nil, ErrInvalidID
	}

	if _, err := s.repo.GetRoomByID(rid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	seats, err := s.repo.GetRoomSeats(rid)
	if err != nil {
		return nil, err
	}

	responses := make([]SeatResponse, 0, len(seats))
	for i := range seats {
		responses = append(responses, toSeatResponse(&seats[i]))
	}
	return responses, nil
}

func (s *service) DeleteRoom(ctx context.Context, roomID string) error {
	rid, err := uuid.Parse(roomID)
	if err != nil {
		return ErrInvalidID
	}

	if _, err := s.repo.GetRoomByID(rid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return err
	}

	return s.repo.DeleteRoom(rid)
}
