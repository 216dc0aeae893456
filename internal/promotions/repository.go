package promotions

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	FindActiveByCode(ctx context.Context, code string) (*Promotion, error)
	RecordUsage(ctx context.Context, usage *PromoUsage) error
	ListActive(ctx context.Context) ([]Promotion, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindActiveByCode(ctx context.Context, code string) (*Promotion, error) {
	var promo Promotion
	err := r.db.WithContext(ctx).
		Where("code = ? AND active = true", strings.ToUpper(strings.TrimSpace(code))).
		First(&promo).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// RecordUsage inserts the usage row and bumps the promo's usage counter in
// one transaction.
func (r *repository) RecordUsage(ctx context.Context, usage *PromoUsage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(usage).Error; err != nil {
			return err
		}
		return tx.Model(&Promotion{}).
			Where("id = ?", usage.PromotionID).
			UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
	})
}

func (r *repository) ListActive(ctx context.Context) ([]Promotion, error) {
	var promos []Promotion
	err := r.db.WithContext(ctx).
		Where("active = true").
		Order("created_at DESC").
		Find(&promos).Error
	if err != nil {
		return nil, err
	}
	return promos, nil
}
