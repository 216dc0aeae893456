package promotions

import (
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixed      DiscountType = "FIXED"
)

// Promotion is a code-activated discount rule.
type Promotion struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code          string       `gorm:"uniqueIndex;not null" json:"code"`
	Name          string       `gorm:"not null" json:"name"`
	Description   string       `json:"description"`
	DiscountType  DiscountType `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue float64      `gorm:"not null" json:"discount_value"`

	// Eligibility bounds
	MinOrderAmount float64 `json:"min_order_amount"`
	// MaxDiscount caps percentage discounts. Nil means uncapped; a zero
	// sentinel is deliberately not reused for "no cap".
	MaxDiscount   *float64 `json:"max_discount,omitempty"`
	MinPassengers int      `json:"min_passengers"`
	// TrainTypes restricts applicability; empty means all train types.
	TrainTypes []string `gorm:"serializer:json" json:"train_types,omitempty"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	Active    bool      `gorm:"default:true" json:"active"`

	UsageCount int       `gorm:"default:0" json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Promotion) TableName() string {
	return "promotions"
}

// IsWithinWindow reports whether now falls inside the promo's usage window,
// boundaries inclusive.
func (p *Promotion) IsWithinWindow(now time.Time) bool {
	return !now.Before(p.StartDate) && !now.After(p.EndDate)
}

// AppliesToTrainType reports whether one train type passes the applicability
// list. An empty list applies to everything.
func (p *Promotion) AppliesToTrainType(trainType string) bool {
	if len(p.TrainTypes) == 0 {
		return true
	}
	for _, t := range p.TrainTypes {
		if t == trainType {
			return true
		}
	}
	return false
}

// PromoUsage records one redemption of a promotion against a booking.
type PromoUsage struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PromotionID    uuid.UUID `gorm:"type:uuid;index;not null" json:"promotion_id"`
	BookingRef     string    `gorm:"index;not null" json:"booking_ref"`
	DiscountAmount float64   `gorm:"not null" json:"discount_amount"`
	CreatedAt      time.Time `json:"created_at"`
}

func (PromoUsage) TableName() string {
	return "promo_usages"
}

// SegmentContext carries the per-segment facts applicability checks need.
type SegmentContext struct {
	SegmentID string `json:"segment_id"`
	TrainType string `json:"train_type"`
}

// PricingContext is the itinerary-aware input to validation. Segments holds
// one entry per leg for a multi-segment itinerary; for a single-segment
// journey it holds exactly one entry.
type PricingContext struct {
	Segments       []SegmentContext `json:"segments"`
	TotalPrice     float64          `json:"total_price"` // pre-discount subtotal
	PassengerCount int              `json:"passenger_count"`
	DepartureDate  string           `json:"departure_date"`
}

// ValidationResult is the outcome of validating one code against one context.
type ValidationResult struct {
	Valid          bool       `json:"valid"`
	Promo          *Promotion `json:"promo,omitempty"`
	DiscountAmount float64    `json:"discount_amount"`
	Message        string     `json:"message"`
}

// ValidateRequest is the HTTP body for the validation endpoint.
type ValidateRequest struct {
	Code    string         `json:"code" binding:"required"`
	Context PricingContext `json:"context" binding:"required"`
}
