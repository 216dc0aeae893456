package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reipand/TripGo-sub000/internal/inventory"
	"github.com/reipand/TripGo-sub000/internal/itinerary"
	"github.com/reipand/TripGo-sub000/internal/promotions"
	"github.com/reipand/TripGo-sub000/internal/shared/config"
	"github.com/reipand/TripGo-sub000/pkg/logger"
)

// Service orchestrates the booking workflow across the itinerary, inventory
// and promotion services. All mutations of one session are serialized, so
// concurrent requests against the same session observe sequential snapshots.
type Service interface {
	StartSearch(ctx context.Context, userID string, req itinerary.SearchRequest) (*Session, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	SelectItinerary(ctx context.Context, sessionID, optionID string) (*Session, error)
	SetPassengerCount(ctx context.Context, sessionID string, count int) (*Session, error)
	ToggleSeat(ctx context.Context, sessionID, segmentID, seatID string) (*Session, error)
	EnableAutoSelect(ctx context.Context, sessionID string) (*Session, error)
	SetPassengerDetails(ctx context.Context, sessionID string, req PassengerDetailsRequest) (*Session, error)
	ApplyPromo(ctx context.Context, sessionID, code string) (*Session, *promotions.ValidationResult, error)
	RemovePromo(ctx context.Context, sessionID string) (*Session, error)
	SetPaymentMethod(ctx context.Context, sessionID, method string) (*Session, error)
	Submit(ctx context.Context, sessionID string) (*Session, *SubmitResult, error)
}

type service struct {
	store     SessionStore
	itinerary itinerary.Service
	inventory inventory.Service
	promos    promotions.Service
	cfg       *config.Config

	// one mutex per live session id
	locks sync.Map
	now   func() time.Time
}

func NewService(store SessionStore, itinerarySvc itinerary.Service, inventorySvc inventory.Service, promoSvc promotions.Service, cfg *config.Config) *service {
	return &service{
		store:     store,
		itinerary: itinerarySvc,
		inventory: inventorySvc,
		promos:    promoSvc,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *service) StartSearch(ctx context.Context, userID string, req itinerary.SearchRequest) (*Session, error) {
	if req.PassengerCount > s.cfg.Booking.MaxPassengers {
		return nil, fmt.Errorf("passenger count %d exceeds maximum of %d", req.PassengerCount, s.cfg.Booking.MaxPassengers)
	}
	if err := s.checkDepartureDate(req.DepartureDate); err != nil {
		return nil, err
	}

	options := s.itinerary.Compose(ctx, req)
	session := NewSession(uuid.New().String(), userID, req, options,
		s.cfg.Booking.AdminFee, s.cfg.Booking.InsuranceFee, s.now())

	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*Session, error) {
	return s.store.Get(ctx, sessionID)
}

func (s *service) SelectItinerary(ctx context.Context, sessionID, optionID string) (*Session, error) {
	return s.update(ctx, sessionID, func(session *Session) error {
		option := session.OptionByID(optionID)
		if option == nil {
			return ErrOptionNotFound
		}
		session.SelectItinerary(*option)

		// Inventories load sequentially per segment. Load never fails, so a
		// chosen itinerary always ends up with one seat map per segment.
		for _, seg := range option.Segments {
			sm := s.inventory.Load(ctx, inventory.LoadRequest{
				ScheduleID:      seg.ScheduleID,
				OriginHint:      seg.Origin,
				DestinationHint: seg.Destination,
				TrainType:       seg.TrainType,
				BasePrice:       seg.BasePrice,
			})
			if !session.ApplyInventory(seg.ID, *sm) {
				logger.GetDefault().LogStaleInventoryDiscarded(ctx, sessionID, seg.ID)
			}
		}

		s.revalidatePromo(ctx, session)
		return nil
	})
}

func (s *service) SetPassengerCount(ctx context.Context, sessionID string, count int) (*Session, error) {
	if count > s.cfg.Booking.MaxPassengers {
		return nil, fmt.Errorf("passenger count %d exceeds maximum of %d", count, s.cfg.Booking.MaxPassengers)
	}
	return s.update(ctx, sessionID, func(session *Session) error {
		session.SetPassengerCount(count)
		s.revalidatePromo(ctx, session)
		return nil
	})
}

func (s *service) ToggleSeat(ctx context.Context, sessionID, segmentID, seatID string) (*Session, error) {
	return s.update(ctx, sessionID, func(session *Session) error {
		session.ToggleSeat(segmentID, seatID)
		s.revalidatePromo(ctx, session)
		return nil
	})
}

func (s *service) EnableAutoSelect(ctx context.Context, sessionID string) (*Session, error) {
	return s.update(ctx, sessionID, func(session *Session) error {
		session.EnableAutoSelect()
		s.revalidatePromo(ctx, session)
		return nil
	})
}

func (s *service) SetPassengerDetails(ctx context.Context, sessionID string, req PassengerDetailsRequest) (*Session, error) {
	return s.update(ctx, sessionID, func(session *Session) error {
		session.SetPassengerDetails(req.Contact, req.Passengers)
		return nil
	})
}

// ApplyPromo validates and applies a code. A rejected code leaves any
// previously applied promo untouched; the caller gets the rejection via the
// returned validation result.
func (s *service) ApplyPromo(ctx context.Context, sessionID, code string) (*Session, *promotions.ValidationResult, error) {
	var result *promotions.ValidationResult
	session, err := s.update(ctx, sessionID, func(session *Session) error {
		var err error
		result, err = s.promos.Validate(ctx, code, session.PricingContext())
		if err != nil {
			return fmt.Errorf("failed to validate promo code: %w", err)
		}
		if !result.Valid {
			return nil
		}
		session.ApplyPromo(result)
		logger.GetDefault().LogPromoApplied(ctx, result.Promo.Code, sessionID, result.DiscountAmount)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return session, result, nil
}

func (s *service) RemovePromo(ctx context.Context, sessionID string) (*Session, error) {
	return s.update(ctx, sessionID, func(session *Session) error {
		session.RemovePromo("")
		return nil
	})
}

func (s *service) SetPaymentMethod(ctx context.Context, sessionID, method string) (*Session, error) {
	return s.update(ctx, sessionID, func(session *Session) error {
		return session.SetPaymentMethod(method)
	})
}

// Submit runs the structural checks, stamps the booking reference and flips
// the session to submitted. Promo usage is recorded asynchronously: a failed
// usage write must not undo an accepted booking.
func (s *service) Submit(ctx context.Context, sessionID string) (*Session, *SubmitResult, error) {
	var result *SubmitResult
	session, err := s.update(ctx, sessionID, func(session *Session) error {
		if issues := session.ValidateForSubmit(); len(issues) > 0 {
			return &ValidationError{Issues: issues}
		}

		now := s.now()
		session.Status = StatusSubmitted
		session.BookingRef = NewBookingRef(now)
		session.SubmittedAt = &now

		if session.Promo != nil {
			promo := *session.Promo
			ref := session.BookingRef
			discount := session.DiscountAmount
			go func() {
				bg, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := s.promos.RecordUsage(bg, &promo, ref, discount); err != nil {
					logger.GetDefault().ErrorWithContext(bg, "Failed to record promo usage", err, map[string]interface{}{
						"booking_ref": ref,
						"promo_code":  promo.Code,
					})
				}
			}()
		}

		logger.GetDefault().LogBookingSubmitted(ctx, sessionID, session.BookingRef, session.Breakdown.GrandTotal)
		result = &SubmitResult{
			BookingRef:  session.BookingRef,
			GrandTotal:  session.Breakdown.GrandTotal,
			SubmittedAt: now,
			Payment:     session.BuildPaymentPayload(),
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return session, result, nil
}

// update loads, mutates and saves a session under its per-session lock.
func (s *service) update(ctx context.Context, sessionID string, mutate func(*Session) error) (*Session, error) {
	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := mutate(session); err != nil {
		return nil, err
	}
	session.UpdatedAt = s.now()

	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// revalidatePromo re-checks an applied code after any change to the pricing
// context. A code that no longer qualifies is dropped with the reason kept as
// the session's promo message.
func (s *service) revalidatePromo(ctx context.Context, session *Session) {
	if session.PromoCode == "" {
		return
	}
	result, err := s.promos.Validate(ctx, session.PromoCode, session.PricingContext())
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "Promo revalidation failed", err, map[string]interface{}{
			"session_id": session.ID,
			"promo_code": session.PromoCode,
		})
		session.RemovePromo("Kode promo tidak dapat diverifikasi, silakan coba lagi")
		return
	}
	if !result.Valid {
		session.RemovePromo(result.Message)
		return
	}
	session.ApplyPromo(result)
}

func (s *service) lockFor(sessionID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *service) checkDepartureDate(date string) error {
	departure, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("invalid departure date %q: %w", date, err)
	}
	today := s.now().Truncate(24 * time.Hour)
	limit := today.AddDate(0, 0, s.cfg.Booking.SearchWindow)
	if departure.Before(today) {
		return fmt.Errorf("departure date %s is in the past", date)
	}
	if departure.After(limit) {
		return fmt.Errorf("departure date %s is beyond the %d-day booking window", date, s.cfg.Booking.SearchWindow)
	}
	return nil
}
