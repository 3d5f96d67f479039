package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"shareit-backend/internal/domain"
	"shareit-backend/internal/repository"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockItemRepo
type MockItemRepo struct {
	mock.Mock
}

func (m *MockItemRepo) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockItemRepo) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemRepo) Update(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockItemRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Item, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Item), args.Error(1)
}
func (m *MockItemRepo) ListByRequests(ctx context.Context, requestIDs []int64) ([]domain.Item, error) {
	args := m.Called(ctx, requestIDs)
	return args.Get(0).([]domain.Item), args.Error(1)
}
func (m *MockItemRepo) Search(ctx context.Context, text string) ([]domain.Item, error) {
	args := m.Called(ctx, text)
	return args.Get(0).([]domain.Item), args.Error(1)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockBookingRepo) ListByBooker(ctx context.Context, bookerID int64, state domain.BookingState, now time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, bookerID, state, now)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByOwner(ctx context.Context, ownerID int64, state domain.BookingState, now time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, ownerID, state, now)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListActiveByItem(ctx context.Context, itemID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByBookerAndItem(ctx context.Context, bookerID, itemID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, bookerID, itemID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) LastForItem(ctx context.Context, itemID int64, now time.Time) (*domain.Booking, error) {
	args := m.Called(ctx, itemID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) NextForItem(ctx context.Context, itemID int64, now time.Time) (*domain.Booking, error) {
	args := m.Called(ctx, itemID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

// MockLocker runs fn against Bookings unless the expectation returns an error.
type MockLocker struct {
	mock.Mock
	Bookings repository.BookingRepository
}

func (m *MockLocker) WithItemLock(ctx context.Context, itemID int64, fn func(ctx context.Context, bookings repository.BookingRepository) error) error {
	args := m.Called(ctx, itemID)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m.Bookings)
}

// MockCommentRepo
type MockCommentRepo struct {
	mock.Mock
}

func (m *MockCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}
func (m *MockCommentRepo) ListByItem(ctx context.Context, itemID int64) ([]domain.Comment, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).([]domain.Comment), args.Error(1)
}

// MockRequestRepo
type MockRequestRepo struct {
	mock.Mock
}

func (m *MockRequestRepo) Create(ctx context.Context, req *domain.ItemRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockRequestRepo) GetByID(ctx context.Context, id int64) (*domain.ItemRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ItemRequest), args.Error(1)
}
func (m *MockRequestRepo) ListByRequestor(ctx context.Context, requestorID int64) ([]domain.ItemRequest, error) {
	args := m.Called(ctx, requestorID)
	return args.Get(0).([]domain.ItemRequest), args.Error(1)
}
func (m *MockRequestRepo) ListOthers(ctx context.Context, userID int64, from, size int) ([]domain.ItemRequest, error) {
	args := m.Called(ctx, userID, from, size)
	return args.Get(0).([]domain.ItemRequest), args.Error(1)
}
