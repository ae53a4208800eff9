package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cinetix/internal/cinemas"
	"cinetix/internal/holds"
	"cinetix/internal/movies"
	"cinetix/internal/showtimes"
	"cinetix/pkg/logger"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidID         = errors.New("invalid booking id")
	ErrNotOwner          = errors.New("booking belongs to another user")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrUnknownSeats      = errors.New("seats do not belong to the showtime room")
)

// HoldKeeper is the slice of the hold manager the booking flow needs.
type HoldKeeper interface {
	StartHold(ctx context.Context, userID, bookingID, movieName, step string, data json.RawMessage, path string)
	UpdateProgress(ctx context.Context, bookingID, step string, data json.RawMessage, path string)
	ClearHold(ctx context.Context, bookingID string)
	Get(bookingID string) (holds.BookingHold, bool)
}

// SeatLockKeeper owns the redis seat locks for in-flight bookings.
type SeatLockKeeper interface {
	LockSeats(ctx context.Context, showtimeID, bookingID, userID string, seatIDs []string, ttl time.Duration) error
	ReleaseSeats(ctx context.Context, bookingID string) (int, error)
}

type ShowtimeSource interface {
	GetByID(ctx context.Context, id string) (*showtimes.Showtime, error)
}

type SeatSource interface {
	GetRoomSeats(roomID uuid.UUID) ([]cinemas.Seat, error)
}

type MovieSource interface {
	GetByID(ctx context.Context, id string) (*movies.MovieResponse, error)
}

type CouponRedeemer interface {
	Redeem(ctx context.Context, code string, amount float64) (float64, error)
}

// EventPublisher mirrors booking lifecycle changes to an external sink.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, kind, bookingID, userID string)
}

type Service interface {
	Create(ctx context.Context, userID string, req *CreateBookingRequest) (*BookingResponse, error)
	GetByID(ctx context.Context, userID, id string) (*BookingResponse, error)
	ListForUser(ctx context.Context, userID string, query BookingListQuery) ([]BookingResponse, error)
	ListAll(ctx context.Context, query AdminBookingListQuery) ([]BookingResponse, error)
	Confirm(ctx context.Context, userID, id string, req *ConfirmBookingRequest) (*BookingResponse, error)
	Cancel(ctx context.Context, userID, id string) (*BookingResponse, error)
	UpdateProgress(ctx context.Context, userID, id string, req *UpdateProgressRequest) error
	BookedSeatIDs(ctx context.Context, showtimeID uuid.UUID) ([]uuid.UUID, error)
}

type service struct {
	repo      Repository
	showtimes ShowtimeSource
	seatSrc   SeatSource
	movieSrc  MovieSource
	coupons   CouponRedeemer
	locker    SeatLockKeeper
	holdMgr   HoldKeeper
	publisher EventPublisher
	holdTTL   time.Duration
	log       *logger.Logger
}

type ServiceDeps struct {
	Repo      Repository
	Showtimes ShowtimeSource
	Seats     SeatSource
	Movies    MovieSource
	Coupons   CouponRedeemer
	Locker    SeatLockKeeper
	Holds     HoldKeeper
	Publisher EventPublisher
	HoldTTL   time.Duration
}

func NewService(deps ServiceDeps) Service {
	if deps.HoldTTL <= 0 {
		deps.HoldTTL = 5 * time.Minute
	}
	return &service{
		repo:      deps.Repo,
		showtimes: deps.Showtimes,
		seatSrc:   deps.Seats,
		movieSrc:  deps.Movies,
		coupons:   deps.Coupons,
		locker:    deps.Locker,
		holdMgr:   deps.Holds,
		publisher: deps.Publisher,
		holdTTL:   deps.HoldTTL,
		log:       logger.GetDefault(),
	}
}

// Create reserves the requested seats and opens a PENDING booking with
// a countdown hold. The redis seat locks and the hold share one TTL so
// both fall away together if the user walks off.
func (s *service) Create(ctx context.Context, userID string, req *CreateBookingRequest) (*BookingResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidID
	}

	showtime, err := s.showtimes.GetByID(ctx, req.ShowtimeID)
	if err != nil {
		return nil, err
	}

	roomSeats, err := s.seatSrc.GetRoomSeats(showtime.RoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load room seats: %w", err)
	}

	seatsByID := make(map[string]*cinemas.Seat, len(roomSeats))
	for i := range roomSeats {
		seatsByID[roomSeats[i].ID.String()] = &roomSeats[i]
	}

	bookingID := uuid.New()
	var (
		bookingSeats []BookingSeat
		total        float64
	)
	for _, seatID := range req.SeatIDs {
		seat, ok := seatsByID[seatID]
		if !ok {
			return nil, ErrUnknownSeats
		}
		price := showtime.BasePrice + seat.PriceDelta
		bookingSeats = append(bookingSeats, BookingSeat{
			BookingID: bookingID,
			SeatID:    seat.ID,
			Label:     seat.Label(),
			Price:     price,
		})
		total += price
	}

	if err := s.locker.LockSeats(ctx, showtime.ID.String(), bookingID.String(), userID, req.SeatIDs, s.holdTTL); err != nil {
		return nil, err
	}

	booking := &Booking{
		ID:          bookingID,
		UserID:      uid,
		ShowtimeID:  showtime.ID,
		Status:      StatusPending,
		TotalAmount: total,
		CouponCode:  req.CouponCode,
		Seats:       bookingSeats,
	}

	if err := s.repo.Create(booking); err != nil {
		// Seats must not stay locked for a booking that never existed.
		if _, relErr := s.locker.ReleaseSeats(ctx, bookingID.String()); relErr != nil {
			s.log.ErrorWithContext(ctx, "Failed to release seats after booking create failure", relErr, map[string]interface{}{
				"booking_id": bookingID.String(),
			})
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	movieTitle := s.movieTitle(ctx, showtime.MovieID)

	progressData, _ := json.Marshal(map[string]interface{}{
		"showtime_id": showtime.ID.String(),
		"seat_ids":    req.SeatIDs,
	})
	s.holdMgr.StartHold(ctx, userID, bookingID.String(), movieTitle, "seats_selected",
		progressData, "/seats/"+showtime.ID.String())

	if s.publisher != nil {
		s.publisher.PublishBookingEvent(ctx, "booking_created", bookingID.String(), userID)
	}

	s.log.LogBookingCreated(ctx, bookingID.String(), showtime.ID.String(), userID)

	resp := s.toResponse(booking, movieTitle)
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, userID, id string) (*BookingResponse, error) {
	booking, err := s.ownedBooking(userID, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(booking, s.movieTitleForShowtime(ctx, booking.ShowtimeID)), nil
}

func (s *service) ListForUser(ctx context.Context, userID string, query BookingListQuery) ([]BookingResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidID
	}

	list, err := s.repo.GetByUser(uid, query)
	if err != nil {
		return nil, err
	}

	responses := make([]BookingResponse, 0, len(list))
	for i := range list {
		responses = append(responses, *s.toResponse(&list[i], ""))
	}
	return responses, nil
}

func (s *service) ListAll(ctx context.Context, query AdminBookingListQuery) ([]BookingResponse, error) {
	list, err := s.repo.GetAll(query)
	if err != nil {
		return nil, err
	}

	responses := make([]BookingResponse, 0, len(list))
	for i := range list {
		responses = append(responses, *s.toResponse(&list[i], ""))
	}
	return responses, nil
}

// Confirm moves a PENDING booking to CONFIRMED, records the payment and
// tears down the hold. Coupon redemption happens here, not at creation,
// so abandoned bookings never consume coupon uses.
func (s *service) Confirm(ctx context.Context, userID, id string, req *ConfirmBookingRequest) (*BookingResponse, error) {
	booking, err := s.ownedBooking(userID, id)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(StatusConfirmed) {
		return nil, ErrInvalidTransition
	}

	amount := booking.TotalAmount
	if booking.CouponCode != "" && s.coupons != nil {
		discount, err := s.coupons.Redeem(ctx, booking.CouponCode, amount)
		if err != nil {
			s.log.Warn("Coupon redemption failed, charging full price",
				"booking_id", booking.ID.String(),
				"coupon", booking.CouponCode,
				"error", err.Error())
		} else {
			booking.DiscountAmount = discount
			amount -= discount
		}
	}

	if err := s.repo.UpdateStatus(booking.ID, StatusConfirmed); err != nil {
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}
	booking.Status = StatusConfirmed

	now := time.Now()
	payment := &Payment{
		BookingID: booking.ID,
		Amount:    amount,
		Method:    req.PaymentMethod,
		Status:    PaymentCompleted,
		PaidAt:    &now,
	}
	if err := s.repo.CreatePayment(payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	booking.Payment = payment

	// The seat reservation now lives in postgres; the countdown and the
	// redis locks are done.
	s.holdMgr.ClearHold(ctx, booking.ID.String())
	if _, err := s.locker.ReleaseSeats(ctx, booking.ID.String()); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to release seat locks on confirm", err, map[string]interface{}{
			"booking_id": booking.ID.String(),
		})
	}

	if s.publisher != nil {
		s.publisher.PublishBookingEvent(ctx, "booking_confirmed", booking.ID.String(), userID)
	}

	return s.toResponse(booking, s.movieTitleForShowtime(ctx, booking.ShowtimeID)), nil
}

// Cancel releases a booking's seats and hold. The hold is cleared even
// if the status update fails so the countdown never outlives the
// user's intent to abandon.
func (s *service) Cancel(ctx context.Context, userID, id string) (*BookingResponse, error) {
	booking, err := s.ownedBooking(userID, id)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(StatusCancelled) {
		return nil, ErrInvalidTransition
	}

	s.holdMgr.ClearHold(ctx, booking.ID.String())
	if _, err := s.locker.ReleaseSeats(ctx, booking.ID.String()); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to release seat locks on cancel", err, map[string]interface{}{
			"booking_id": booking.ID.String(),
		})
	}

	if err := s.repo.UpdateStatus(booking.ID, StatusCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	booking.Status = StatusCancelled

	s.log.LogBookingCancelled(ctx, booking.ID.String(), userID)

	if s.publisher != nil {
		s.publisher.PublishBookingEvent(ctx, "booking_cancelled", booking.ID.String(), userID)
	}

	return s.toResponse(booking, ""), nil
}

func (s *service) UpdateProgress(ctx context.Context, userID, id string, req *UpdateProgressRequest) error {
	booking, err := s.ownedBooking(userID, id)
	if err != nil {
		return err
	}

	s.holdMgr.UpdateProgress(ctx, booking.ID.String(), req.Step, req.Data, req.Path)
	return nil
}

// BookedSeatIDs implements the showtimes seat map source.
func (s *service) BookedSeatIDs(ctx context.Context, showtimeID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.BookedSeatIDs(ctx, showtimeID)
}

func (s *service) ownedBooking(userID, id string) (*Booking, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	booking, err := s.repo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if booking.UserID.String() != userID {
		return nil, ErrNotOwner
	}
	return booking, nil
}

func (s *service) movieTitle(ctx context.Context, movieID uuid.UUID) string {
	if s.movieSrc == nil {
		return ""
	}
	movie, err := s.movieSrc.GetByID(ctx, movieID.String())
	if err != nil {
		return ""
	}
	return movie.Title
}

func (s *service) movieTitleForShowtime(ctx context.Context, showtimeID uuid.UUID) string {
	if s.showtimes == nil {
		return ""
	}
	showtime, err := s.showtimes.GetByID(ctx, showtimeID.String())
	if err != nil {
		return ""
	}
	return s.movieTitle(ctx, showtime.MovieID)
}

func (s *service) toResponse(b *Booking, movieTitle string) *BookingResponse {
	resp := &BookingResponse{
		ID:             b.ID.String(),
		UserID:         b.UserID.String(),
		ShowtimeID:     b.ShowtimeID.String(),
		MovieTitle:     movieTitle,
		Status:         b.Status,
		TotalAmount:    b.TotalAmount,
		DiscountAmount: b.DiscountAmount,
		CouponCode:     b.CouponCode,
		Seats:          b.Seats,
		CreatedAt:      b.CreatedAt,
	}

	if b.Status == StatusPending {
		if hold, ok := s.holdMgr.Get(b.ID.String()); ok {
			deadline := hold.Deadline
			resp.HoldExpiresAt = &deadline
		}
	}
	return resp
}
