package pricing

import (
	"github.com/reipand/TripGo-sub000/internal/allocation"
	"github.com/reipand/TripGo-sub000/internal/itinerary"
)

// Breakdown is the derived price decomposition for the current booking state.
// It is recomputed on every relevant state change and always satisfies
// GrandTotal == BasePrice + SeatPriceAdjustment + AdminFee + InsuranceFee +
// PaymentFee - DiscountAmount.
type Breakdown struct {
	BasePrice           float64 `json:"base_price"`
	SeatPriceAdjustment float64 `json:"seat_price_adjustment"`
	AdminFee            float64 `json:"admin_fee"`
	InsuranceFee        float64 `json:"insurance_fee"`
	PaymentFee          float64 `json:"payment_fee"`
	DiscountAmount      float64 `json:"discount_amount"`
	GrandTotal          float64 `json:"grand_total"`
}

// Input collects everything the aggregation needs. A nil itinerary degrades
// base price and seat baselines to zero rather than failing.
type Input struct {
	Itinerary      *itinerary.JourneyOption
	PassengerCount int
	SelectedSeats  []allocation.SelectedSeat
	AdminFee       float64
	InsuranceFee   float64
	PaymentFee     float64
	DiscountAmount float64
}

// Subtotal is the pre-discount, pre-fee amount promo validation runs against.
func (b Breakdown) Subtotal() float64 {
	return b.BasePrice + b.SeatPriceAdjustment
}

// Compute derives the full breakdown. It is a total function: degenerate
// inputs produce a zeroed breakdown, never an error.
//
// The seat adjustment sums, per selected seat, the seat's price minus the
// owning segment's base fare (or the single itinerary's fare when not
// multi-segment). The seat price is trusted as authoritative, so a negative
// delta passes through unclamped.
func Compute(in Input) Breakdown {
	b := Breakdown{
		AdminFee:       in.AdminFee,
		InsuranceFee:   in.InsuranceFee,
		PaymentFee:     in.PaymentFee,
		DiscountAmount: in.DiscountAmount,
	}

	passengerCount := in.PassengerCount
	if passengerCount < 0 {
		passengerCount = 0
	}

	singleFare := 0.0
	baselineBySegment := map[string]float64{}
	if in.Itinerary != nil && len(in.Itinerary.Segments) > 0 {
		singleFare = in.Itinerary.Segments[0].BasePrice

		// Segment fares are per passenger, so the base is always derived
		// from them at the current count. The option's TotalPrice is a
		// display value frozen at compose time and never consulted here.
		perPassenger := 0.0
		for _, seg := range in.Itinerary.Segments {
			baselineBySegment[seg.ID] = seg.BasePrice
			perPassenger += seg.BasePrice
		}
		b.BasePrice = perPassenger * float64(passengerCount)
	}

	for _, seat := range in.SelectedSeats {
		baseline := singleFare
		if in.Itinerary != nil && in.Itinerary.IsMultiSegment {
			if fare, ok := baselineBySegment[seat.SegmentID]; ok {
				baseline = fare
			}
		}
		b.SeatPriceAdjustment += seat.Price - baseline
	}

	b.GrandTotal = b.BasePrice + b.SeatPriceAdjustment + b.AdminFee + b.InsuranceFee + b.PaymentFee - b.DiscountAmount
	return b
}
