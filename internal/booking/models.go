package booking

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/reipand/TripGo-sub000/internal/passengers"
)

// Session lifecycle states.
const (
	StatusDraft     = "DRAFT"
	StatusSubmitted = "SUBMITTED"
)

// Supported payment methods and their flat fees in rupiah.
var PaymentMethodFees = map[string]float64{
	"bank_transfer":   0,
	"virtual_account": 4000,
	"ewallet":         1500,
	"credit_card":     5000,
}

var (
	ErrSessionNotFound  = errors.New("booking session not found")
	ErrNoItinerary      = errors.New("no itinerary selected")
	ErrOptionNotFound   = errors.New("journey option not found in session")
	ErrInvalidPayment   = errors.New("unsupported payment method")
	ErrAlreadySubmitted = errors.New("booking session already submitted")
)

// ValidationError carries the blocking issues found when a submission is
// attempted on an incomplete session. The session itself is left untouched.
type ValidationError struct {
	Issues []string `json:"issues"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("booking validation failed: %d issue(s)", len(e.Issues))
}

// Request DTOs

type SelectItineraryRequest struct {
	OptionID string `json:"option_id" binding:"required"`
}

type PassengerCountRequest struct {
	Count int `json:"count" binding:"required,min=1"`
}

type ToggleSeatRequest struct {
	SegmentID string `json:"segment_id" binding:"required"`
	SeatID    string `json:"seat_id" binding:"required"`
}

type PassengerDetailsRequest struct {
	Contact    passengers.ContactDetail `json:"contact" binding:"required" validate:"required"`
	Passengers []passengers.Passenger   `json:"passengers" validate:"dive"`
}

type ApplyPromoRequest struct {
	Code string `json:"code" binding:"required"`
}

type PaymentMethodRequest struct {
	Method string `json:"method" binding:"required"`
}

// SubmitResult is returned once a draft passes submission checks.
type SubmitResult struct {
	BookingRef  string         `json:"booking_ref"`
	GrandTotal  float64        `json:"grand_total"`
	SubmittedAt time.Time      `json:"submitted_at"`
	Payment     PaymentPayload `json:"payment"`
}

const bookingRefAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewBookingRef builds a reference like TRG-20260830-K7KQ2M. Ambiguous
// characters are excluded from the random suffix.
func NewBookingRef(now time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = bookingRefAlphabet[rand.Intn(len(bookingRefAlphabet))]
	}
	return fmt.Sprintf("TRG-%s-%s", now.Format("20060102"), suffix)
}
