package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/asianbasket/internal/models"
	"github.com/example/asianbasket/internal/voucher"
)

// VoucherRepository implements voucher.Repository over GORM.
type VoucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository constructs a VoucherRepository.
func NewVoucherRepository(db *gorm.DB) *VoucherRepository {
	return &VoucherRepository{db: db}
}

// ListByUser returns all vouchers owned by a user.
func (r *VoucherRepository) ListByUser(userID uuid.UUID) ([]voucher.Voucher, error) {
	var rows []models.Voucher
	if err := r.db.Where("user_id = ?", userID).
		Order("issued_at desc").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	vouchers := make([]voucher.Voucher, 0, len(rows))
	for _, row := range rows {
		vouchers = append(vouchers, toDomain(row))
	}
	return vouchers, nil
}

// Find looks up a user's voucher by code; (nil, nil) when absent.
func (r *VoucherRepository) Find(userID uuid.UUID, code string) (*voucher.Voucher, error) {
	var row models.Voucher
	err := r.db.Where("user_id = ? AND code = ?", userID, code).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	v := toDomain(row)
	return &v, nil
}

// Create persists a newly issued voucher.
func (r *VoucherRepository) Create(userID uuid.UUID, v voucher.Voucher) error {
	return r.db.Create(&models.Voucher{
		UserID:        userID,
		Code:          v.Code,
		Amount:        v.Amount,
		MinOrderValue: v.MinOrderValue,
		IssuedAt:      v.IssuedAt,
		ExpiresAt:     v.ExpiresAt,
		IsUsed:        v.IsUsed,
		OrderNumber:   v.OrderNumber,
	}).Error
}

// MarkUsed flags a voucher as spent.
func (r *VoucherRepository) MarkUsed(userID uuid.UUID, code string) error {
	return r.db.Model(&models.Voucher{}).
		Where("user_id = ? AND code = ?", userID, code).
		Update("is_used", true).Error
}

// CodeExists reports whether any user holds a voucher with this code.
func (r *VoucherRepository) CodeExists(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Voucher{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func toDomain(row models.Voucher) voucher.Voucher {
	return voucher.Voucher{
		Code:          row.Code,
		Amount:        row.Amount,
		MinOrderValue: row.MinOrderValue,
		IssuedAt:      row.IssuedAt,
		ExpiresAt:     row.ExpiresAt,
		IsUsed:        row.IsUsed,
		OrderNumber:   row.OrderNumber,
	}
}
