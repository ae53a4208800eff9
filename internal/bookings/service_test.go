package bookings_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cinetix/internal/bookings"
	"cinetix/internal/cinemas"
	"cinetix/internal/holds"
	"cinetix/internal/movies"
	"cinetix/internal/showtimes"
)

// Mock implementations

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(booking *bookings.Booking) error {
	args := m.Called(booking)
	return args.Error(0)
}

func (m *MockRepository) GetByID(id uuid.UUID) (*bookings.Booking, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookings.Booking), args.Error(1)
}

func (m *MockRepository) GetByUser(userID uuid.UUID, query bookings.BookingListQuery) ([]bookings.Booking, error) {
	args := m.Called(userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bookings.Booking), args.Error(1)
}

func (m *MockRepository) GetAll(query bookings.AdminBookingListQuery) ([]bookings.Booking, error) {
	args := m.Called(query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bookings.Booking), args.Error(1)
}

func (m *MockRepository) UpdateStatus(id uuid.UUID, status bookings.Status) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockRepository) CreatePayment(payment *bookings.Payment) error {
	args := m.Called(payment)
	return args.Error(0)
}

func (m *MockRepository) BookedSeatIDs(ctx context.Context, showtimeID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockShowtimeSource struct {
	mock.Mock
}

func (m *MockShowtimeSource) GetByID(ctx context.Context, id string) (*showtimes.Showtime, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*showtimes.Showtime), args.Error(1)
}

type MockSeatSource struct {
	mock.Mock
}

func (m *MockSeatSource) GetRoomSeats(roomID uuid.UUID) ([]cinemas.Seat, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cinemas.Seat), args.Error(1)
}

type MockMovieSource struct {
	mock.Mock
}

func (m *MockMovieSource) GetByID(ctx context.Context, id string) (*movies.MovieResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movies.MovieResponse), args.Error(1)
}

type MockCouponRedeemer struct {
	mock.Mock
}

func (m *MockCouponRedeemer) Redeem(ctx context.Context, code string, amount float64) (float64, error) {
	args := m.Called(ctx, code, amount)
	return args.Get(0).(float64), args.Error(1)
}

type MockSeatLocker struct {
	mock.Mock
}

func (m *MockSeatLocker) LockSeats(ctx context.Context, showtimeID, bookingID, userID string, seatIDs []string, ttl time.Duration) error {
	args := m.Called(ctx, showtimeID, bookingID, userID, seatIDs, ttl)
	return args.Error(0)
}

func (m *MockSeatLocker) ReleaseSeats(ctx context.Context, bookingID string) (int, error) {
	args := m.Called(ctx, bookingID)
	return args.Int(0), args.Error(1)
}

type MockHoldKeeper struct {
	mock.Mock
}

func (m *MockHoldKeeper) StartHold(ctx context.Context, userID, bookingID, movieName, step string, data json.RawMessage, path string) {
	m.Called(ctx, userID, bookingID, movieName, step, data, path)
}

func (m *MockHoldKeeper) UpdateProgress(ctx context.Context, bookingID, step string, data json.RawMessage, path string) {
	m.Called(ctx, bookingID, step, data, path)
}

func (m *MockHoldKeeper) ClearHold(ctx context.Context, bookingID string) {
	m.Called(ctx, bookingID)
}

func (m *MockHoldKeeper) Get(bookingID string) (holds.BookingHold, bool) {
	args := m.Called(bookingID)
	return args.Get(0).(holds.BookingHold), args.Bool(1)
}

type fixture struct {
	repo     *MockRepository
	shows    *MockShowtimeSource
	seats    *MockSeatSource
	movieSrc *MockMovieSource
	coupons  *MockCouponRedeemer
	locker   *MockSeatLocker
	holds    *MockHoldKeeper
	service  bookings.Service

	userID     uuid.UUID
	showtimeID uuid.UUID
	roomID     uuid.UUID
	movieID    uuid.UUID
	seatA      cinemas.Seat
	seatB      cinemas.Seat
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:     new(MockRepository),
		shows:    new(MockShowtimeSource),
		seats:    new(MockSeatSource),
		movieSrc: new(MockMovieSource),
		coupons:  new(MockCouponRedeemer),
		locker:   new(MockSeatLocker),
		holds:    new(MockHoldKeeper),

		userID:     uuid.New(),
		showtimeID: uuid.New(),
		roomID:     uuid.New(),
		movieID:    uuid.New(),
	}

	f.seatA = cinemas.Seat{ID: uuid.New(), RoomID: f.roomID, Row: "A", Number: 1, PriceDelta: 0}
	f.seatB = cinemas.Seat{ID: uuid.New(), RoomID: f.roomID, Row: "A", Number: 2, PriceDelta: 50}

	f.service = bookings.NewService(bookings.ServiceDeps{
		Repo:      f.repo,
		Showtimes: f.shows,
		Seats:     f.seats,
		Movies:    f.movieSrc,
		Coupons:   f.coupons,
		Locker:    f.locker,
		Holds:     f.holds,
		HoldTTL:   5 * time.Minute,
	})

	return f
}

func (f *fixture) showtime() *showtimes.Showtime {
	return &showtimes.Showtime{
		ID:        f.showtimeID,
		MovieID:   f.movieID,
		RoomID:    f.roomID,
		BasePrice: 200,
	}
}

func TestCreate_LocksSeatsAndStartsHold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.shows.On("GetByID", ctx, f.showtimeID.String()).Return(f.showtime(), nil)
	f.seats.On("GetRoomSeats", f.roomID).Return([]cinemas.Seat{f.seatA, f.seatB}, nil)
	f.locker.On("LockSeats", ctx, f.showtimeID.String(), mock.AnythingOfType("string"), f.userID.String(),
		[]string{f.seatA.ID.String(), f.seatB.ID.String()}, 5*time.Minute).Return(nil)
	f.repo.On("Create", mock.AnythingOfType("*bookings.Booking")).Return(nil)
	f.movieSrc.On("GetByID", ctx, f.movieID.String()).Return(&movies.MovieResponse{Title: "Interstellar"}, nil)
	f.holds.On("StartHold", ctx, f.userID.String(), mock.AnythingOfType("string"), "Interstellar",
		"seats_selected", mock.Anything, "/seats/"+f.showtimeID.String()).Return()
	f.holds.On("Get", mock.AnythingOfType("string")).Return(holds.BookingHold{}, false)

	resp, err := f.service.Create(ctx, f.userID.String(), &bookings.CreateBookingRequest{
		ShowtimeID: f.showtimeID.String(),
		SeatIDs:    []string{f.seatA.ID.String(), f.seatB.ID.String()},
	})
	require.NoError(t, err)

	assert.Equal(t, bookings.StatusPending, resp.Status)
	assert.Equal(t, 450.0, resp.TotalAmount, "base price plus premium seat delta")
	assert.Len(t, resp.Seats, 2)
	assert.Equal(t, "A2", resp.Seats[1].Label)

	f.locker.AssertExpectations(t)
	f.holds.AssertExpectations(t)
	f.repo.AssertExpectations(t)
}

func TestCreate_SeatConflictCreatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.shows.On("GetByID", ctx, f.showtimeID.String()).Return(f.showtime(), nil)
	f.seats.On("GetRoomSeats", f.roomID).Return([]cinemas.Seat{f.seatA}, nil)
	f.locker.On("LockSeats", ctx, f.showtimeID.String(), mock.AnythingOfType("string"), f.userID.String(),
		[]string{f.seatA.ID.String()}, 5*time.Minute).Return(showtimes.ErrSeatTaken)

	_, err := f.service.Create(ctx, f.userID.String(), &bookings.CreateBookingRequest{
		ShowtimeID: f.showtimeID.String(),
		SeatIDs:    []string{f.seatA.ID.String()},
	})
	require.ErrorIs(t, err, showtimes.ErrSeatTaken)

	f.repo.AssertNotCalled(t, "Create", mock.Anything)
	f.holds.AssertNotCalled(t, "StartHold", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_RepoFailureReleasesLocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.shows.On("GetByID", ctx, f.showtimeID.String()).Return(f.showtime(), nil)
	f.seats.On("GetRoomSeats", f.roomID).Return([]cinemas.Seat{f.seatA}, nil)
	f.locker.On("LockSeats", ctx, f.showtimeID.String(), mock.AnythingOfType("string"), f.userID.String(),
		[]string{f.seatA.ID.String()}, 5*time.Minute).Return(nil)
	f.repo.On("Create", mock.AnythingOfType("*bookings.Booking")).Return(errors.New("db down"))
	f.locker.On("ReleaseSeats", ctx, mock.AnythingOfType("string")).Return(1, nil)

	_, err := f.service.Create(ctx, f.userID.String(), &bookings.CreateBookingRequest{
		ShowtimeID: f.showtimeID.String(),
		SeatIDs:    []string{f.seatA.ID.String()},
	})
	require.Error(t, err)

	f.locker.AssertCalled(t, "ReleaseSeats", ctx, mock.AnythingOfType("string"))
	f.holds.AssertNotCalled(t, "StartHold", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_UnknownSeatRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.shows.On("GetByID", ctx, f.showtimeID.String()).Return(f.showtime(), nil)
	f.seats.On("GetRoomSeats", f.roomID).Return([]cinemas.Seat{f.seatA}, nil)

	_, err := f.service.Create(ctx, f.userID.String(), &bookings.CreateBookingRequest{
		ShowtimeID: f.showtimeID.String(),
		SeatIDs:    []string{uuid.NewString()},
	})
	require.ErrorIs(t, err, bookings.ErrUnknownSeats)

	f.locker.AssertNotCalled(t, "LockSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_RecordsPaymentAndTearsDownHold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bookingID := uuid.New()
	pending := &bookings.Booking{
		ID:          bookingID,
		UserID:      f.userID,
		ShowtimeID:  f.showtimeID,
		Status:      bookings.StatusPending,
		TotalAmount: 400,
		CouponCode:  "WELCOME10",
	}

	f.repo.On("GetByID", bookingID).Return(pending, nil)
	f.coupons.On("Redeem", ctx, "WELCOME10", 400.0).Return(40.0, nil)
	f.repo.On("UpdateStatus", bookingID, bookings.StatusConfirmed).Return(nil)
	f.repo.On("CreatePayment", mock.MatchedBy(func(p *bookings.Payment) bool {
		return p.BookingID == bookingID && p.Amount == 360 && p.Status == bookings.PaymentCompleted
	})).Return(nil)
	f.holds.On("ClearHold", ctx, bookingID.String()).Return()
	f.locker.On("ReleaseSeats", ctx, bookingID.String()).Return(2, nil)
	f.shows.On("GetByID", ctx, f.showtimeID.String()).Return(f.showtime(), nil)
	f.movieSrc.On("GetByID", ctx, f.movieID.String()).Return(&movies.MovieResponse{Title: "Interstellar"}, nil)

	resp, err := f.service.Confirm(ctx, f.userID.String(), bookingID.String(), &bookings.ConfirmBookingRequest{
		PaymentMethod: "card",
	})
	require.NoError(t, err)

	assert.Equal(t, bookings.StatusConfirmed, resp.Status)
	assert.Equal(t, 40.0, resp.DiscountAmount)
	f.repo.AssertExpectations(t)
	f.holds.AssertExpectations(t)
	f.locker.AssertExpectations(t)
}

func TestConfirm_OnlyFromPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bookingID := uuid.New()
	f.repo.On("GetByID", bookingID).Return(&bookings.Booking{
		ID:     bookingID,
		UserID: f.userID,
		Status: bookings.StatusConfirmed,
	}, nil)

	_, err := f.service.Confirm(ctx, f.userID.String(), bookingID.String(), &bookings.ConfirmBookingRequest{
		PaymentMethod: "card",
	})
	require.ErrorIs(t, err, bookings.ErrInvalidTransition)

	f.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestCancel_PendingReleasesSeatsAndHold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bookingID := uuid.New()
	f.repo.On("GetByID", bookingID).Return(&bookings.Booking{
		ID:     bookingID,
		UserID: f.userID,
		Status: bookings.StatusPending,
	}, nil)
	f.holds.On("ClearHold", ctx, bookingID.String()).Return()
	f.locker.On("ReleaseSeats", ctx, bookingID.String()).Return(1, nil)
	f.repo.On("UpdateStatus", bookingID, bookings.StatusCancelled).Return(nil)

	resp, err := f.service.Cancel(ctx, f.userID.String(), bookingID.String())
	require.NoError(t, err)

	assert.Equal(t, bookings.StatusCancelled, resp.Status)
	f.holds.AssertExpectations(t)
	f.locker.AssertExpectations(t)
}

func TestCancel_CancelledIsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bookingID := uuid.New()
	f.repo.On("GetByID", bookingID).Return(&bookings.Booking{
		ID:     bookingID,
		UserID: f.userID,
		Status: bookings.StatusCancelled,
	}, nil)

	_, err := f.service.Cancel(ctx, f.userID.String(), bookingID.String())
	require.ErrorIs(t, err, bookings.ErrInvalidTransition)
}

func TestGetByID_EnforcesOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bookingID := uuid.New()
	f.repo.On("GetByID", bookingID).Return(&bookings.Booking{
		ID:     bookingID,
		UserID: uuid.New(), // someone else
		Status: bookings.StatusConfirmed,
	}, nil)

	_, err := f.service.GetByID(ctx, f.userID.String(), bookingID.String())
	require.ErrorIs(t, err, bookings.ErrNotOwner)
}

func TestGetByID_MissingBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bookingID := uuid.New()
	f.repo.On("GetByID", bookingID).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.service.GetByID(ctx, f.userID.String(), bookingID.String())
	require.ErrorIs(t, err, bookings.ErrBookingNotFound)
}

func TestUpdateProgress_ForwardsToHoldManager(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bookingID := uuid.New()
	f.repo.On("GetByID", bookingID).Return(&bookings.Booking{
		ID:     bookingID,
		UserID: f.userID,
		Status: bookings.StatusPending,
	}, nil)

	data := json.RawMessage(`{"seats":["A1"]}`)
	f.holds.On("UpdateProgress", ctx, bookingID.String(), "payment", data, "/payment").Return()

	err := f.service.UpdateProgress(ctx, f.userID.String(), bookingID.String(), &bookings.UpdateProgressRequest{
		Step: "payment",
		Data: data,
		Path: "/payment",
	})
	require.NoError(t, err)

	f.holds.AssertExpectations(t)
}
