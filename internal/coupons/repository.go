package coupons

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(coupon *Coupon) error
	GetByCode(code string) (*Coupon, error)
	GetAll() ([]Coupon, error)
	IncrementUsage(id uuid.UUID) error
	Deactivate(id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(coupon *Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)
	return r.db.Create(coupon).Error
}

func (r *repository) GetByCode(code string) (*Coupon, error) {
	var coupon Coupon
	err := r.db.Where("code = ?", strings.ToUpper(code)).First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *repository) GetAll() ([]Coupon, error) {
	var coupons []Coupon
	err := r.db.Order("created_at DESC").Find(&coupons).Error
	return coupons, err
}

func (r *repository) IncrementUsage(id uuid.UUID) error {
	return r.db.Model(&Coupon{}).
		Where("id = ?", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
}

func (r *repository) Deactivate(id uuid.UUID) error {
	return r.db.Model(&Coupon{}).Where("id = ?", id).Update("active", false).Error
}
