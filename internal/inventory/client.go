package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Client is the live seat-inventory collaborator.
type Client interface {
	FetchSeatMap(ctx context.Context, scheduleID, originHint, destinationHint string) ([]RawWagon, error)
}

// RawWagon is the untyped response shape. Alternate field names from older
// partner versions are resolved in one place (normalizeWagons).
type RawWagon struct {
	Number      int       `json:"number"`
	WagonNumber int       `json:"wagon_number"` // older field name for Number
	Name        string    `json:"name"`
	Class       string    `json:"class"`
	Facilities  []string  `json:"facilities"`
	Seats       []RawSeat `json:"seats"`
}

type RawSeat struct {
	ID          string  `json:"id"`
	SeatNumber  string  `json:"seat_number"`
	Number      string  `json:"number"` // older field name for SeatNumber
	Row         int     `json:"row"`
	Column      string  `json:"column"`
	Available   bool    `json:"available"`
	IsAvailable bool    `json:"is_available"` // older field name for Available
	Window      bool    `json:"window"`
	Forward     bool    `json:"forward_facing"`
	Price       float64 `json:"price"`
}

type seatMapResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Wagons []RawWagon `json:"wagons"`
	} `json:"data"`
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) Client {
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) FetchSeatMap(ctx context.Context, scheduleID, originHint, destinationHint string) ([]RawWagon, error) {
	q := url.Values{}
	q.Set("schedule_id", scheduleID)
	if originHint != "" {
		q.Set("origin", originHint)
	}
	if destinationHint != "" {
		q.Set("destination", destinationHint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/seat-inventory?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build seat-inventory request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("seat-inventory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seat-inventory request returned status %d", resp.StatusCode)
	}

	var body seatMapResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode seat-inventory response: %w", err)
	}
	if !body.Success {
		return nil, fmt.Errorf("seat-inventory response unsuccessful")
	}

	return body.Data.Wagons, nil
}

// normalizeWagons maps raw wagons into the Wagon/Seat shape regardless of
// source field naming. Returns an error when nothing usable survives so the
// caller can fall back to synthesis.
func normalizeWagons(raws []RawWagon) ([]Wagon, error) {
	var wagons []Wagon
	for i, rw := range raws {
		if len(rw.Seats) == 0 {
			continue
		}

		wagon := Wagon{
			Number:     rw.Number,
			Name:       rw.Name,
			Class:      rw.Class,
			Facilities: rw.Facilities,
		}
		if wagon.Number == 0 {
			wagon.Number = rw.WagonNumber
		}
		if wagon.Number == 0 {
			wagon.Number = i + 1
		}
		if wagon.Name == "" {
			wagon.Name = fmt.Sprintf("%s %d", wagon.Class, wagon.Number)
		}

		for _, rs := range rw.Seats {
			seat := Seat{
				ID:              rs.ID,
				SeatNumber:      firstNonEmpty(rs.SeatNumber, rs.Number),
				Row:             rs.Row,
				Column:          rs.Column,
				Available:       rs.Available || rs.IsAvailable,
				IsWindow:        rs.Window,
				IsForwardFacing: rs.Forward,
				Price:           rs.Price,
			}
			if seat.ID == "" {
				seat.ID = uuid.New().String()
			}
			if seat.SeatNumber == "" {
				seat.SeatNumber = fmt.Sprintf("%d%s", seat.Row, seat.Column)
			}
			wagon.Seats = append(wagon.Seats, seat)
		}

		wagons = append(wagons, wagon)
	}

	if len(wagons) == 0 {
		return nil, fmt.Errorf("no usable wagons in response")
	}
	return wagons, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
