package booking

import (
	"fmt"
	"time"

	"github.com/reipand/TripGo-sub000/internal/allocation"
	"github.com/reipand/TripGo-sub000/internal/inventory"
	"github.com/reipand/TripGo-sub000/internal/itinerary"
	"github.com/reipand/TripGo-sub000/internal/passengers"
	"github.com/reipand/TripGo-sub000/internal/pricing"
	"github.com/reipand/TripGo-sub000/internal/promotions"
)

// Session is the single source of truth for one in-progress booking. Every
// mutation goes through a reducer method below; the service layer serializes
// calls per session, so the methods themselves do no locking.
//
// Invariant held by every reducer: for each segment of the chosen itinerary,
// len(selected seats) <= PassengerCount.
type Session struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Search  itinerary.SearchRequest   `json:"search"`
	Options []itinerary.JourneyOption `json:"options"`
	Chosen  *itinerary.JourneyOption  `json:"chosen,omitempty"`

	// Inventories is keyed by segment ID of the chosen itinerary.
	Inventories   map[string]inventory.SeatMap `json:"inventories"`
	SelectedSeats []allocation.SelectedSeat    `json:"selected_seats"`

	Passengers []passengers.Passenger   `json:"passengers"`
	Contact    passengers.ContactDetail `json:"contact"`

	// AutoSelect stays true until the first manual seat toggle and is only
	// restored by an explicit re-enable.
	AutoSelect bool `json:"auto_select"`

	PromoCode      string                `json:"promo_code,omitempty"`
	Promo          *promotions.Promotion `json:"promo,omitempty"`
	DiscountAmount float64               `json:"discount_amount"`
	PromoMessage   string                `json:"promo_message,omitempty"`

	PaymentMethod string  `json:"payment_method,omitempty"`
	PaymentFee    float64 `json:"payment_fee"`
	AdminFee      float64 `json:"admin_fee"`
	InsuranceFee  float64 `json:"insurance_fee"`

	Breakdown pricing.Breakdown `json:"breakdown"`

	Status      string     `json:"status"`
	BookingRef  string     `json:"booking_ref,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewSession opens a draft for one search result set.
func NewSession(id, userID string, search itinerary.SearchRequest, options []itinerary.JourneyOption, adminFee, insuranceFee float64, now time.Time) *Session {
	s := &Session{
		ID:           id,
		UserID:       userID,
		Search:       search,
		Options:      options,
		Inventories:  map[string]inventory.SeatMap{},
		Passengers:   passengers.Resize(nil, search.PassengerCount),
		AutoSelect:   true,
		AdminFee:     adminFee,
		InsuranceFee: insuranceFee,
		Status:       StatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.recompute()
	return s
}

// OptionByID looks the option up in the session's own result set.
func (s *Session) OptionByID(optionID string) *itinerary.JourneyOption {
	for i := range s.Options {
		if s.Options[i].ID == optionID {
			return &s.Options[i]
		}
	}
	return nil
}

// SelectItinerary switches the chosen option. Seat selection and cached
// inventories belong to the previous choice, so both are cleared and the
// auto-select latch is restored.
func (s *Session) SelectItinerary(option itinerary.JourneyOption) {
	s.Chosen = &option
	s.Inventories = map[string]inventory.SeatMap{}
	s.SelectedSeats = nil
	s.AutoSelect = true
	s.recompute()
}

// ApplyInventory installs a loaded seat map for one segment. A seat map for a
// segment that is not part of the currently chosen itinerary is stale, most
// likely from a load that raced an itinerary switch, and is discarded. The
// return value reports whether the map was applied.
func (s *Session) ApplyInventory(segmentID string, sm inventory.SeatMap) bool {
	if s.Chosen == nil || s.Chosen.SegmentByID(segmentID) == nil {
		return false
	}
	s.Inventories[segmentID] = sm

	if s.AutoSelect && allocation.CountForSegment(s.SelectedSeats, segmentID) == 0 {
		s.SelectedSeats = append(s.SelectedSeats,
			allocation.AutoSelect(sm.Wagons, s.Search.PassengerCount, segmentID)...)
	}
	s.recompute()
	return true
}

// SetPassengerCount resizes the roster and reconciles seats per segment:
// auto-select re-runs when the latch is on, otherwise the most recent manual
// picks beyond the new count are dropped.
func (s *Session) SetPassengerCount(count int) {
	if count < 1 {
		count = 1
	}
	s.Search.PassengerCount = count
	s.Passengers = passengers.Resize(s.Passengers, count)

	// Option totals were scaled at compose time, so the whole result set is
	// rescaled to the new count.
	for i := range s.Options {
		s.Options[i].ScaleTotal(count)
	}

	if s.Chosen != nil {
		s.Chosen.ScaleTotal(count)
		for _, seg := range s.Chosen.Segments {
			if s.AutoSelect {
				if sm, ok := s.Inventories[seg.ID]; ok {
					s.SelectedSeats = allocation.DropSegment(s.SelectedSeats, seg.ID)
					s.SelectedSeats = append(s.SelectedSeats,
						allocation.AutoSelect(sm.Wagons, count, seg.ID)...)
					continue
				}
			}
			s.SelectedSeats = allocation.TrimSegment(s.SelectedSeats, seg.ID, count)
		}
	}
	s.recompute()
}

// ToggleSeat flips one seat for one segment and permanently drops the session
// out of auto-select mode. Unknown seats and unavailable seats are ignored.
func (s *Session) ToggleSeat(segmentID, seatID string) {
	sm, ok := s.Inventories[segmentID]
	if !ok {
		return
	}
	seat, wagon := sm.FindSeat(seatID)
	if seat == nil {
		return
	}

	s.AutoSelect = false
	s.SelectedSeats = allocation.Toggle(s.SelectedSeats, *seat, *wagon, segmentID, s.Search.PassengerCount)
	s.recompute()
}

// EnableAutoSelect restores the latch and replaces every segment's selection
// with a fresh automatic pick.
func (s *Session) EnableAutoSelect() {
	s.AutoSelect = true
	if s.Chosen == nil {
		s.recompute()
		return
	}
	for _, seg := range s.Chosen.Segments {
		s.SelectedSeats = allocation.DropSegment(s.SelectedSeats, seg.ID)
		if sm, ok := s.Inventories[seg.ID]; ok {
			s.SelectedSeats = append(s.SelectedSeats,
				allocation.AutoSelect(sm.Wagons, s.Search.PassengerCount, seg.ID)...)
		}
	}
	s.recompute()
}

// SetPassengerDetails replaces identities while keeping the roster size
// pinned to the passenger count. Seat bindings are re-derived afterwards.
func (s *Session) SetPassengerDetails(contact passengers.ContactDetail, list []passengers.Passenger) {
	s.Contact = contact
	s.Passengers = passengers.Resize(list, s.Search.PassengerCount)
	s.Passengers = passengers.ApplyContact(s.Passengers, contact)
	s.recompute()
}

// ApplyPromo records a successful validation outcome on the session.
func (s *Session) ApplyPromo(result *promotions.ValidationResult) {
	s.Promo = result.Promo
	s.PromoCode = result.Promo.Code
	s.DiscountAmount = result.DiscountAmount
	s.PromoMessage = result.Message
	s.recompute()
}

// RemovePromo clears any applied promotion. The message explains why when the
// removal was forced by a failed revalidation.
func (s *Session) RemovePromo(message string) {
	s.Promo = nil
	s.PromoCode = ""
	s.DiscountAmount = 0
	s.PromoMessage = message
	s.recompute()
}

// SetPaymentMethod applies the flat fee for a supported method.
func (s *Session) SetPaymentMethod(method string) error {
	fee, ok := PaymentMethodFees[method]
	if !ok {
		return ErrInvalidPayment
	}
	s.PaymentMethod = method
	s.PaymentFee = fee
	s.recompute()
	return nil
}

// PaymentPayload is the fully assembled hand-off to the external payment
// preparation step. The booking core itself writes no booking records.
type PaymentPayload struct {
	BookingRef    string                    `json:"booking_ref"`
	Contact       passengers.ContactDetail  `json:"contact"`
	Passengers    []passengers.Passenger    `json:"passengers"`
	Itinerary     *itinerary.JourneyOption  `json:"itinerary"`
	SelectedSeats []allocation.SelectedSeat `json:"selected_seats"`
	Breakdown     pricing.Breakdown         `json:"breakdown"`
	PromoCode     string                    `json:"promo_code,omitempty"`
	PaymentMethod string                    `json:"payment_method"`
}

// BuildPaymentPayload assembles the hand-off payload from the submitted
// session.
func (s *Session) BuildPaymentPayload() PaymentPayload {
	return PaymentPayload{
		BookingRef:    s.BookingRef,
		Contact:       s.Contact,
		Passengers:    s.Passengers,
		Itinerary:     s.Chosen,
		SelectedSeats: s.SelectedSeats,
		Breakdown:     s.Breakdown,
		PromoCode:     s.PromoCode,
		PaymentMethod: s.PaymentMethod,
	}
}

// PricingContext projects the session into the shape promo validation wants.
func (s *Session) PricingContext() promotions.PricingContext {
	pctx := promotions.PricingContext{
		TotalPrice:     s.Breakdown.Subtotal(),
		PassengerCount: s.Search.PassengerCount,
		DepartureDate:  s.Search.DepartureDate,
	}
	if s.Chosen != nil {
		for _, seg := range s.Chosen.Segments {
			pctx.Segments = append(pctx.Segments, promotions.SegmentContext{
				SegmentID: seg.ID,
				TrainType: seg.TrainType,
			})
		}
	}
	return pctx
}

// ValidateForSubmit returns every blocking issue, in a stable order, without
// mutating the session. Partial seat selection does not block: passengers
// without an assigned seat are allocated one at check-in.
func (s *Session) ValidateForSubmit() []string {
	var issues []string

	if s.Status == StatusSubmitted {
		issues = append(issues, "pemesanan sudah dikirim")
		return issues
	}
	if s.Chosen == nil {
		issues = append(issues, "belum ada jadwal kereta yang dipilih")
		return issues
	}

	if s.Contact.Name == "" || s.Contact.Phone == "" {
		issues = append(issues, "data kontak pemesan belum lengkap")
	}
	for i := range s.Passengers {
		p := &s.Passengers[i]
		if p.Name == "" || p.IDNumber == "" {
			issues = append(issues, fmt.Sprintf("data penumpang ke-%d belum lengkap", i+1))
		}
	}

	if s.PaymentMethod == "" {
		issues = append(issues, "metode pembayaran belum dipilih")
	}
	return issues
}

// recompute re-derives passengers' seat bindings and the price breakdown.
// Called at the end of every reducer so the session snapshot is always
// internally consistent.
func (s *Session) recompute() {
	multi := s.Chosen != nil && s.Chosen.IsMultiSegment
	s.Passengers = passengers.Rebind(s.Passengers, s.SelectedSeats, multi)

	s.Breakdown = pricing.Compute(pricing.Input{
		Itinerary:      s.Chosen,
		PassengerCount: s.Search.PassengerCount,
		SelectedSeats:  s.SelectedSeats,
		AdminFee:       s.AdminFee,
		InsuranceFee:   s.InsuranceFee,
		PaymentFee:     s.PaymentFee,
		DiscountAmount: s.DiscountAmount,
	})
}
