package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// OptionsClient is the external multi-segment route-option collaborator.
type OptionsClient interface {
	FetchOptions(ctx context.Context, origin, destination, date string, passengerCount int) ([]RawOption, error)
}

// RawOption is the untyped shape the collaborator returns. Field naming
// varies across partner versions, so the alternates are mapped in one place
// (normalizeOption) rather than tolerated throughout the engine.
type RawOption struct {
	ID         string       `json:"id"`
	TotalPrice float64      `json:"total_price"`
	Price      float64      `json:"price"` // older field name for TotalPrice
	Duration   string       `json:"duration"`
	Transit    int          `json:"transit_minutes"`
	Segments   []RawSegment `json:"segments"`
	Legs       []RawSegment `json:"legs"` // older field name for Segments
}

type RawSegment struct {
	ID             string  `json:"id"`
	TrainID        string  `json:"train_id"`
	ScheduleID     string  `json:"schedule_id"`
	TrainName      string  `json:"train_name"`
	Name           string  `json:"name"` // older field name for TrainName
	TrainType      string  `json:"train_type"`
	Origin         string  `json:"origin"`
	From           string  `json:"from"` // older field name for Origin
	Destination    string  `json:"destination"`
	To             string  `json:"to"` // older field name for Destination
	DepartureTime  string  `json:"departure_time"`
	ArrivalTime    string  `json:"arrival_time"`
	Duration       string  `json:"duration"`
	BasePrice      float64 `json:"base_price"`
	Fare           float64 `json:"fare"` // older field name for BasePrice
	AvailableSeats int     `json:"available_seats"`
}

type optionsResponse struct {
	Success bool        `json:"success"`
	Options []RawOption `json:"options"`
}

// httpOptionsClient queries the partner route-option endpoint.
type httpOptionsClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPOptionsClient(baseURL string, timeout time.Duration) OptionsClient {
	return &httpOptionsClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *httpOptionsClient) FetchOptions(ctx context.Context, origin, destination, date string, passengerCount int) ([]RawOption, error) {
	q := url.Values{}
	q.Set("origin", origin)
	q.Set("destination", destination)
	q.Set("date", date)
	q.Set("passengers", fmt.Sprintf("%d", passengerCount))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/itinerary-options?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build options request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("options request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("options request returned status %d", resp.StatusCode)
	}

	var body optionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode options response: %w", err)
	}
	if !body.Success {
		return nil, fmt.Errorf("options response unsuccessful")
	}

	return body.Options, nil
}

// normalizeOption maps one raw option into the typed JourneyOption shape,
// generating synthetic ids when absent. Returns an error for options with no
// usable segments so the caller can skip them.
func normalizeOption(raw RawOption, travelDate string, passengerCount int, defaultFare float64) (JourneyOption, error) {
	rawSegments := raw.Segments
	if len(rawSegments) == 0 {
		rawSegments = raw.Legs
	}
	if len(rawSegments) == 0 {
		return JourneyOption{}, fmt.Errorf("option has no segments")
	}

	opt := JourneyOption{
		ID:                raw.ID,
		Duration:          raw.Duration,
		ConnectionMinutes: raw.Transit,
	}
	if opt.ID == "" {
		opt.ID = uuid.New().String()
	}

	perPassenger := 0.0
	for _, rs := range rawSegments {
		seg := Segment{
			ID:             rs.ID,
			TrainID:        rs.TrainID,
			ScheduleID:     rs.ScheduleID,
			TrainName:      firstNonEmpty(rs.TrainName, rs.Name),
			TrainType:      rs.TrainType,
			Origin:         firstNonEmpty(rs.Origin, rs.From),
			Destination:    firstNonEmpty(rs.Destination, rs.To),
			DepartureTime:  rs.DepartureTime,
			ArrivalTime:    rs.ArrivalTime,
			Duration:       rs.Duration,
			BasePrice:      rs.BasePrice,
			AvailableSeats: rs.AvailableSeats,
			TravelDate:     travelDate,
		}
		if seg.BasePrice == 0 {
			seg.BasePrice = rs.Fare
		}
		if seg.BasePrice == 0 {
			seg.BasePrice = defaultFare
		}
		if seg.ID == "" {
			seg.ID = uuid.New().String()
		}
		if seg.ScheduleID == "" {
			seg.ScheduleID = seg.ID
		}
		if seg.Origin == "" || seg.Destination == "" || seg.Origin == seg.Destination {
			return JourneyOption{}, fmt.Errorf("segment %s has invalid endpoints", seg.ID)
		}
		if seg.AvailableSeats < 0 {
			seg.AvailableSeats = 0
		}
		perPassenger += seg.BasePrice
		opt.Segments = append(opt.Segments, seg)
	}

	// Per-passenger fare semantics: the option total is the per-passenger
	// fare times the passenger count, not a sum of raw segment prices.
	total := raw.TotalPrice
	if total == 0 {
		total = raw.Price
	}
	if total == 0 {
		total = perPassenger
	}
	opt.TotalPrice = total * float64(passengerCount)
	opt.Normalize()

	return opt, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
