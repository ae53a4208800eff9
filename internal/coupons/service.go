package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCouponNotFound = errors.New("coupon not found")
	ErrCouponExists   = errors.New("coupon code already exists")
	ErrInvalidWindow  = errors.New("coupon must expire after it becomes valid")
)

type Service interface {
	Create(ctx context.Context, req *CreateCouponRequest) (*Coupon, error)
	List(ctx context.Context) ([]Coupon, error)
	Validate(ctx context.Context, code string, amount float64) (*ValidateCouponResponse, error)
	// Redeem validates and consumes one use of the coupon, returning the
	// discount applied to amount.
	Redeem(ctx context.Context, code string, amount float64) (float64, error)
	Deactivate(ctx context.Context, id string) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Create(ctx context.Context, req *CreateCouponRequest) (*Coupon, error) {
	if !req.ValidUntil.After(req.ValidFrom) {
		return nil, ErrInvalidWindow
	}

	if _, err := s.repo.GetByCode(req.Code); err == nil {
		return nil, ErrCouponExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	coupon := &Coupon{
		Code:         req.Code,
		Description:  req.Description,
		DiscountType: DiscountType(req.DiscountType),
		Value:        req.Value,
		MaxUses:      req.MaxUses,
		ValidFrom:    req.ValidFrom,
		ValidUntil:   req.ValidUntil,
		Active:       true,
	}

	if err := s.repo.Create(coupon); err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}
	return coupon, nil
}

func (s *service) List(ctx context.Context) ([]Coupon, error) {
	return s.repo.GetAll()
}

func (s *service) Validate(ctx context.Context, code string, amount float64) (*ValidateCouponResponse, error) {
	coupon, err := s.repo.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	if usable, reason := coupon.UsableAt(s.now()); !usable {
		return &ValidateCouponResponse{
			Code:          coupon.Code,
			Valid:         false,
			AmountAfter:   amount,
			InvalidReason: reason,
		}, nil
	}

	discount := coupon.Discount(amount)
	return &ValidateCouponResponse{
		Code:        coupon.Code,
		Valid:       true,
		Discount:    discount,
		AmountAfter: amount - discount,
	}, nil
}

func (s *service) Redeem(ctx context.Context, code string, amount float64) (float64, error) {
	coupon, err := s.repo.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCouponNotFound
		}
		return 0, err
	}

	if usable, reason := coupon.UsableAt(s.now()); !usable {
		return 0, fmt.Errorf("coupon %s not usable: %s", coupon.Code, reason)
	}

	if err := s.repo.IncrementUsage(coupon.ID); err != nil {
		return 0, fmt.Errorf("failed to record coupon usage: %w", err)
	}

	return coupon.Discount(amount), nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	couponID, err := uuid.Parse(id)
	if err != nil {
		return ErrCouponNotFound
	}
	return s.repo.Deactivate(couponID)
}
