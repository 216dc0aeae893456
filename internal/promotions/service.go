package promotions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reipand/TripGo-sub000/pkg/logger"

	"gorm.io/gorm"
)

// Service validates promo codes against an itinerary-aware pricing context
// and computes bounded discounts. Validation is side-effect-free and
// idempotent; usage recording is a separate call the booking flow makes after
// payment preparation.
type Service interface {
	Validate(ctx context.Context, code string, pctx PricingContext) (*ValidationResult, error)
	RecordUsage(ctx context.Context, promo *Promotion, bookingRef string, discountAmount float64) error
	ListActive(ctx context.Context) ([]Promotion, error)
}

type service struct {
	repo     Repository
	producer UsageProducer
	now      func() time.Time
}

func NewService(repo Repository) *service {
	return &service{
		repo: repo,
		now:  time.Now,
	}
}

// SetUsageProducer wires the Kafka usage event producer.
func (s *service) SetUsageProducer(producer UsageProducer) {
	s.producer = producer
}

const msgCodeInvalid = "Kode promo tidak valid atau sudah tidak aktif"

// Validate runs the eligibility checks in order, short-circuiting on the
// first failure. The computed discount never exceeds the pre-discount
// subtotal, and never exceeds the cap for capped percentage promos.
func (s *service) Validate(ctx context.Context, code string, pctx PricingContext) (*ValidationResult, error) {
	promo, err := s.repo.FindActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationResult{Valid: false, Message: msgCodeInvalid}, nil
		}
		return nil, fmt.Errorf("failed to look up promo: %w", err)
	}

	if !promo.IsWithinWindow(s.now()) {
		return &ValidationResult{Valid: false, Message: msgCodeInvalid}, nil
	}

	if pctx.TotalPrice < promo.MinOrderAmount {
		return &ValidationResult{
			Valid: false,
			Message: fmt.Sprintf("Minimal transaksi %s untuk memakai promo ini",
				formatRupiah(promo.MinOrderAmount)),
		}, nil
	}

	if promo.MinPassengers > 0 && pctx.PassengerCount < promo.MinPassengers {
		return &ValidationResult{
			Valid: false,
			Message: fmt.Sprintf("Promo %s hanya berlaku untuk minimal %d penumpang",
				promo.Code, promo.MinPassengers),
		}, nil
	}

	// Train-type restriction is all-or-nothing: every segment of a
	// multi-segment journey must be on an allowed train type.
	if len(promo.TrainTypes) > 0 {
		for _, seg := range pctx.Segments {
			if !promo.AppliesToTrainType(seg.TrainType) {
				return &ValidationResult{
					Valid: false,
					Message: fmt.Sprintf("Promo %s hanya berlaku untuk kereta %s",
						promo.Code, strings.Join(promo.TrainTypes, ", ")),
				}, nil
			}
		}
	}

	discount := s.computeDiscount(promo, pctx.TotalPrice)

	result := &ValidationResult{
		Valid:          true,
		Promo:          promo,
		DiscountAmount: discount,
	}
	if promo.DiscountType == DiscountTypePercentage {
		result.Message = fmt.Sprintf("Promo %s berhasil dipakai: diskon %.0f%% (%s)",
			promo.Code, promo.DiscountValue, formatRupiah(discount))
	} else {
		result.Message = fmt.Sprintf("Promo %s berhasil dipakai: potongan %s",
			promo.Code, formatRupiah(discount))
	}

	return result, nil
}

// computeDiscount applies the promo's shape to the subtotal and clamps the
// result into [0, totalPrice].
func (s *service) computeDiscount(promo *Promotion, totalPrice float64) float64 {
	var discount float64
	switch promo.DiscountType {
	case DiscountTypePercentage:
		discount = totalPrice * promo.DiscountValue / 100
		if promo.MaxDiscount != nil && discount > *promo.MaxDiscount {
			discount = *promo.MaxDiscount
		}
	case DiscountTypeFixed:
		discount = promo.DiscountValue
	}

	if discount < 0 {
		discount = 0
	}
	if discount > totalPrice {
		discount = totalPrice
	}
	return discount
}

// RecordUsage persists the redemption and publishes the usage event. Both
// halves are fire-and-forget for the booking flow: a failure here never rolls
// back the applied discount.
func (s *service) RecordUsage(ctx context.Context, promo *Promotion, bookingRef string, discountAmount float64) error {
	usage := &PromoUsage{
		PromotionID:    promo.ID,
		BookingRef:     bookingRef,
		DiscountAmount: discountAmount,
	}
	if err := s.repo.RecordUsage(ctx, usage); err != nil {
		return fmt.Errorf("failed to record promo usage: %w", err)
	}

	if s.producer != nil {
		event := &UsageEvent{
			PromotionID:    promo.ID.String(),
			Code:           promo.Code,
			BookingRef:     bookingRef,
			DiscountAmount: discountAmount,
		}
		if err := s.producer.PublishUsage(ctx, event); err != nil {
			logger.GetDefault().WithError(err).Warn("failed to publish promo usage event",
				"code", promo.Code, "booking_ref", bookingRef)
		}
	}

	return nil
}

func (s *service) ListActive(ctx context.Context) ([]Promotion, error) {
	return s.repo.ListActive(ctx)
}

// formatRupiah renders an amount as "Rp250.000" with dot thousand separators.
func formatRupiah(amount float64) string {
	n := int64(amount)
	if n < 0 {
		n = -n
	}

	digits := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return "Rp" + b.String()
}
