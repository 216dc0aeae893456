package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/reipand/TripGo-sub000/internal/allocation"
	"github.com/reipand/TripGo-sub000/internal/inventory"
	"github.com/reipand/TripGo-sub000/internal/itinerary"
	"github.com/reipand/TripGo-sub000/internal/passengers"
	"github.com/reipand/TripGo-sub000/internal/promotions"
	"github.com/reipand/TripGo-sub000/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubItineraryService struct {
	options []itinerary.JourneyOption
}

func (s *stubItineraryService) Compose(ctx context.Context, req itinerary.SearchRequest) []itinerary.JourneyOption {
	return s.options
}

type stubInventoryService struct {
	maps  map[string]inventory.SeatMap
	calls []string
}

func (s *stubInventoryService) Load(ctx context.Context, req inventory.LoadRequest) *inventory.SeatMap {
	s.calls = append(s.calls, req.ScheduleID)
	sm, ok := s.maps[req.ScheduleID]
	if !ok {
		sm = inventory.SeatMap{ScheduleID: req.ScheduleID}
	}
	return &sm
}

type stubPromoService struct {
	mu      sync.Mutex
	result  *promotions.ValidationResult
	usages  []string
	lastCtx promotions.PricingContext
}

func (s *stubPromoService) Validate(ctx context.Context, code string, pctx promotions.PricingContext) (*promotions.ValidationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCtx = pctx
	if s.result != nil {
		return s.result, nil
	}
	return &promotions.ValidationResult{Valid: false, Message: "Kode promo tidak valid atau sudah tidak aktif"}, nil
}

func (s *stubPromoService) RecordUsage(ctx context.Context, promo *promotions.Promotion, bookingRef string, discountAmount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usages = append(s.usages, bookingRef)
	return nil
}

func (s *stubPromoService) ListActive(ctx context.Context) ([]promotions.Promotion, error) {
	return nil, nil
}

func (s *stubPromoService) recordedUsages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.usages...)
}

func testConfig() *config.Config {
	return &config.Config{
		Booking: config.BookingConfig{
			AdminFee:      7500,
			InsuranceFee:  2000,
			DefaultFare:   250000,
			MaxPassengers: 8,
			SearchWindow:  90,
		},
	}
}

func newTestBookingService(promoSvc promotions.Service) (*service, *stubInventoryService) {
	inventorySvc := &stubInventoryService{
		maps: map[string]inventory.SeatMap{
			"sched-1": testSeatMap("sched-1", 250000, 250000, 275000),
			"sched-a": testSeatMap("sched-a", 100000, 100000, 110000),
			"sched-b": testSeatMap("sched-b", 150000, 150000, 165000),
		},
	}
	itinerarySvc := &stubItineraryService{
		options: []itinerary.JourneyOption{directOption(250000), transitOption()},
	}
	if promoSvc == nil {
		promoSvc = &stubPromoService{}
	}
	svc := NewService(NewMemorySessionStore(), itinerarySvc, inventorySvc, promoSvc, testConfig())
	svc.now = func() time.Time { return sessionNow }
	return svc, inventorySvc
}

func validSearch(pax int) itinerary.SearchRequest {
	return itinerary.SearchRequest{
		Origin:         "Bandung",
		Destination:    "Gambir",
		DepartureDate:  "2026-09-10",
		PassengerCount: pax,
	}
}

func TestStartSearchCreatesPersistedSession(t *testing.T) {
	svc, _ := newTestBookingService(nil)

	session, err := svc.StartSearch(context.Background(), "user-1", validSearch(2))

	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Len(t, session.Options, 2)
	assert.Equal(t, StatusDraft, session.Status)

	loaded, err := svc.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, loaded.ID)
}

func TestStartSearchRejectsTooManyPassengers(t *testing.T) {
	svc, _ := newTestBookingService(nil)

	_, err := svc.StartSearch(context.Background(), "user-1", validSearch(9))
	assert.Error(t, err)
}

func TestStartSearchRejectsDatesOutsideWindow(t *testing.T) {
	svc, _ := newTestBookingService(nil)

	past := validSearch(1)
	past.DepartureDate = "2026-08-01"
	_, err := svc.StartSearch(context.Background(), "user-1", past)
	assert.Error(t, err)

	far := validSearch(1)
	far.DepartureDate = "2027-08-01"
	_, err = svc.StartSearch(context.Background(), "user-1", far)
	assert.Error(t, err)
}

func TestSelectItineraryLoadsEverySegment(t *testing.T) {
	svc, inventorySvc := newTestBookingService(nil)
	session, err := svc.StartSearch(context.Background(), "user-1", validSearch(2))
	require.NoError(t, err)

	updated, err := svc.SelectItinerary(context.Background(), session.ID, "transit")

	require.NoError(t, err)
	assert.Equal(t, []string{"sched-a", "sched-b"}, inventorySvc.calls)
	assert.Len(t, updated.Inventories, 2)
	assert.Equal(t, 2, allocation.CountForSegment(updated.SelectedSeats, "seg-a"))
	assert.Equal(t, 2, allocation.CountForSegment(updated.SelectedSeats, "seg-b"))
}

func TestSelectItineraryUnknownOption(t *testing.T) {
	svc, _ := newTestBookingService(nil)
	session, err := svc.StartSearch(context.Background(), "user-1", validSearch(1))
	require.NoError(t, err)

	_, err = svc.SelectItinerary(context.Background(), session.ID, "nope")
	assert.ErrorIs(t, err, ErrOptionNotFound)
}

func TestGetUnknownSession(t *testing.T) {
	svc, _ := newTestBookingService(nil)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestApplyPromoUpdatesSession(t *testing.T) {
	promoSvc := &stubPromoService{
		result: &promotions.ValidationResult{
			Valid:          true,
			Promo:          &promotions.Promotion{Code: "DISKON50"},
			DiscountAmount: 50000,
			Message:        "Promo DISKON50 berhasil dipakai: potongan Rp50.000",
		},
	}
	svc, _ := newTestBookingService(promoSvc)
	session, err := svc.StartSearch(context.Background(), "user-1", validSearch(1))
	require.NoError(t, err)
	_, err = svc.SelectItinerary(context.Background(), session.ID, "direct")
	require.NoError(t, err)

	updated, result, err := svc.ApplyPromo(context.Background(), session.ID, "DISKON50")

	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "DISKON50", updated.PromoCode)
	assert.Equal(t, 50000.0, updated.DiscountAmount)
	assert.Equal(t, updated.Breakdown.Subtotal(), promoSvc.lastCtx.TotalPrice)
}

func TestRejectedPromoKeepsExistingOne(t *testing.T) {
	promoSvc := &stubPromoService{
		result: &promotions.ValidationResult{
			Valid:          true,
			Promo:          &promotions.Promotion{Code: "DISKON50"},
			DiscountAmount: 50000,
			Message:        "ok",
		},
	}
	svc, _ := newTestBookingService(promoSvc)
	session, err := svc.StartSearch(context.Background(), "user-1", validSearch(1))
	require.NoError(t, err)
	_, err = svc.SelectItinerary(context.Background(), session.ID, "direct")
	require.NoError(t, err)
	_, _, err = svc.ApplyPromo(context.Background(), session.ID, "DISKON50")
	require.NoError(t, err)

	promoSvc.result = &promotions.ValidationResult{Valid: false, Message: "Kode promo tidak valid atau sudah tidak aktif"}
	updated, result, err := svc.ApplyPromo(context.Background(), session.ID, "BOGUS")

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "DISKON50", updated.PromoCode, "a rejected attempt leaves the applied promo alone")
	assert.Equal(t, 50000.0, updated.DiscountAmount)
}

func TestPromoDroppedWhenRevalidationFails(t *testing.T) {
	promoSvc := &stubPromoService{
		result: &promotions.ValidationResult{
			Valid:          true,
			Promo:          &promotions.Promotion{Code: "FAMILY30"},
			DiscountAmount: 90000,
			Message:        "ok",
		},
	}
	svc, _ := newTestBookingService(promoSvc)
	session, err := svc.StartSearch(context.Background(), "user-1", validSearch(3))
	require.NoError(t, err)
	_, err = svc.SelectItinerary(context.Background(), session.ID, "direct")
	require.NoError(t, err)
	_, _, err = svc.ApplyPromo(context.Background(), session.ID, "FAMILY30")
	require.NoError(t, err)

	// Dropping to two passengers disqualifies the promo on revalidation.
	promoSvc.result = &promotions.ValidationResult{
		Valid:   false,
		Message: "Promo FAMILY30 hanya berlaku untuk minimal 3 penumpang",
	}
	updated, err := svc.SetPassengerCount(context.Background(), session.ID, 2)

	require.NoError(t, err)
	assert.Empty(t, updated.PromoCode)
	assert.Zero(t, updated.DiscountAmount)
	assert.Equal(t, "Promo FAMILY30 hanya berlaku untuk minimal 3 penumpang", updated.PromoMessage)
}

func completeDraft(t *testing.T, svc *service) *Session {
	t.Helper()
	session, err := svc.StartSearch(context.Background(), "user-1", validSearch(1))
	require.NoError(t, err)
	_, err = svc.SelectItinerary(context.Background(), session.ID, "direct")
	require.NoError(t, err)
	_, err = svc.SetPassengerDetails(context.Background(), session.ID, PassengerDetailsRequest{
		Contact: passengers.ContactDetail{
			Name:     "Budi Santoso",
			Phone:    "081234567890",
			IDType:   "KTP",
			IDNumber: "3273011234567890",
		},
	})
	require.NoError(t, err)
	updated, err := svc.SetPaymentMethod(context.Background(), session.ID, "virtual_account")
	require.NoError(t, err)
	return updated
}

func TestSubmitHappyPath(t *testing.T) {
	svc, _ := newTestBookingService(nil)
	draft := completeDraft(t, svc)

	session, result, err := svc.Submit(context.Background(), draft.ID)

	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, session.Status)
	assert.Regexp(t, `^TRG-20260830-[A-Z2-9]{6}$`, result.BookingRef)
	assert.Equal(t, session.Breakdown.GrandTotal, result.GrandTotal)
	require.NotNil(t, session.SubmittedAt)

	payload := result.Payment
	assert.Equal(t, result.BookingRef, payload.BookingRef)
	assert.Equal(t, "Budi Santoso", payload.Contact.Name)
	require.NotNil(t, payload.Itinerary)
	assert.Len(t, payload.SelectedSeats, 1)
	assert.Equal(t, "virtual_account", payload.PaymentMethod)
}

func TestSubmitIncompleteSessionFails(t *testing.T) {
	svc, _ := newTestBookingService(nil)
	session, err := svc.StartSearch(context.Background(), "user-1", validSearch(1))
	require.NoError(t, err)

	_, _, err = svc.Submit(context.Background(), session.ID)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.NotEmpty(t, vErr.Issues)

	// The failed submit leaves the draft untouched.
	loaded, err := svc.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, loaded.Status)
	assert.Empty(t, loaded.BookingRef)
}

func TestSubmitWithUnassignedPassengerSucceeds(t *testing.T) {
	svc, _ := newTestBookingService(nil)
	session, err := svc.StartSearch(context.Background(), "user-1", validSearch(2))
	require.NoError(t, err)
	updated, err := svc.SelectItinerary(context.Background(), session.ID, "direct")
	require.NoError(t, err)
	require.Len(t, updated.SelectedSeats, 2)

	updated, err = svc.ToggleSeat(context.Background(), session.ID, "seg-1", updated.SelectedSeats[0].SeatID)
	require.NoError(t, err)
	require.Len(t, updated.SelectedSeats, 1)

	_, err = svc.SetPassengerDetails(context.Background(), session.ID, PassengerDetailsRequest{
		Contact: passengers.ContactDetail{
			Name:     "Budi Santoso",
			Phone:    "081234567890",
			IDType:   "KTP",
			IDNumber: "3273011234567890",
		},
		Passengers: []passengers.Passenger{
			{Name: "Budi Santoso", IDType: "KTP", IDNumber: "3273011234567890"},
			{Name: "Siti Rahma", IDType: "KTP", IDNumber: "3273019876543210"},
		},
	})
	require.NoError(t, err)
	_, err = svc.SetPaymentMethod(context.Background(), session.ID, "ewallet")
	require.NoError(t, err)

	submitted, result, err := svc.Submit(context.Background(), session.ID)

	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, submitted.Status)
	assert.Len(t, result.Payment.SelectedSeats, 1)
	assert.True(t, submitted.Passengers[0].HasSeat())
	assert.False(t, submitted.Passengers[1].HasSeat())
}

func TestSubmitTwiceRejected(t *testing.T) {
	svc, _ := newTestBookingService(nil)
	draft := completeDraft(t, svc)

	_, _, err := svc.Submit(context.Background(), draft.ID)
	require.NoError(t, err)

	_, _, err = svc.Submit(context.Background(), draft.ID)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestSubmitRecordsPromoUsage(t *testing.T) {
	promoSvc := &stubPromoService{
		result: &promotions.ValidationResult{
			Valid:          true,
			Promo:          &promotions.Promotion{Code: "DISKON50"},
			DiscountAmount: 50000,
			Message:        "ok",
		},
	}
	svc, _ := newTestBookingService(promoSvc)
	draft := completeDraft(t, svc)
	_, _, err := svc.ApplyPromo(context.Background(), draft.ID, "DISKON50")
	require.NoError(t, err)

	_, result, err := svc.Submit(context.Background(), draft.ID)
	require.NoError(t, err)

	// Usage recording is asynchronous.
	assert.Eventually(t, func() bool {
		usages := promoSvc.recordedUsages()
		return len(usages) == 1 && usages[0] == result.BookingRef
	}, time.Second, 10*time.Millisecond)
}

func TestConcurrentTogglesKeepInvariant(t *testing.T) {
	svc, _ := newTestBookingService(nil)
	session, err := svc.StartSearch(context.Background(), "user-1", validSearch(1))
	require.NoError(t, err)
	_, err = svc.SelectItinerary(context.Background(), session.ID, "direct")
	require.NoError(t, err)

	seatIDs := []string{"sched-1a", "sched-1b", "sched-1c"}
	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(seatID string) {
			defer wg.Done()
			_, err := svc.ToggleSeat(context.Background(), session.ID, "seg-1", seatID)
			assert.NoError(t, err)
		}(seatIDs[i%len(seatIDs)])
	}
	wg.Wait()

	loaded, err := svc.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, allocation.CountForSegment(loaded.SelectedSeats, "seg-1"), 1)
}
