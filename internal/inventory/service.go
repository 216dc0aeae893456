package inventory

import (
	"context"
	"time"

	"github.com/reipand/TripGo-sub000/internal/shared/constants"
	"github.com/reipand/TripGo-sub000/pkg/cache"
	"github.com/reipand/TripGo-sub000/pkg/logger"
)

// LoadRequest identifies the inventory to fetch. Origin/destination hints
// refine the lookup for a specific segment of a multi-segment journey; train
// type and base price parameterize the synthesized fallback.
type LoadRequest struct {
	ScheduleID      string
	OriginHint      string
	DestinationHint string
	TrainType       string
	BasePrice       float64
}

// Service loads seat maps. Loading never fails: any collaborator problem
// falls through to a synthesized seat map after a single attempt.
type Service interface {
	Load(ctx context.Context, req LoadRequest) *SeatMap
}

type service struct {
	client       Client
	cacheService cache.Service
	cacheTTL     time.Duration
}

func NewService(client Client) *service {
	return &service{client: client}
}

// SetCacheService enables caching of normalized seat maps. A non-positive TTL
// falls back to the default seat-map TTL.
func (s *service) SetCacheService(cacheService cache.Service, ttl time.Duration) {
	if ttl <= 0 {
		ttl = constants.TTL_SEAT_MAP
	}
	s.cacheService = cacheService
	s.cacheTTL = ttl
}

func (s *service) Load(ctx context.Context, req LoadRequest) *SeatMap {
	cacheKey := constants.BuildSeatMapKey(req.ScheduleID, req.OriginHint, req.DestinationHint)

	if s.cacheService != nil {
		var cached SeatMap
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil && len(cached.Wagons) > 0 {
			logger.GetDefault().Debug("cache hit for seat map", "key", cacheKey)
			return &cached
		}
	}

	sm := s.fetch(ctx, req)

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, sm, s.cacheTTL); err != nil {
			logger.GetDefault().Debug("failed to cache seat map", "key", cacheKey, "error", err)
		}
	}

	return sm
}

func (s *service) fetch(ctx context.Context, req LoadRequest) *SeatMap {
	if s.client != nil {
		raws, err := s.client.FetchSeatMap(ctx, req.ScheduleID, req.OriginHint, req.DestinationHint)
		if err == nil {
			wagons, normErr := normalizeWagons(raws)
			if normErr == nil {
				sm := &SeatMap{ScheduleID: req.ScheduleID, Wagons: wagons}
				sm.recount()
				return sm
			}
			err = normErr
		}
		logger.GetDefault().LogCollaboratorFallback(ctx, "seat-inventory", err)
	}

	return synthesizeSeatMap(req.ScheduleID, req.TrainType, req.BasePrice)
}
