package booking

import (
	"errors"
	"net/http"

	"github.com/reipand/TripGo-sub000/internal/itinerary"
	"github.com/reipand/TripGo-sub000/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// StartSearch composes journey options for a route and opens a draft session
// around them.
func (c *Controller) StartSearch(ctx *gin.Context) {
	var req itinerary.SearchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request data", err.Error())
		return
	}

	userID := ctx.GetString("user_id")
	session, err := c.service.StartSearch(ctx.Request.Context(), userID, req)
	if err != nil {
		response.BadRequest(ctx, "Failed to start booking search", err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking session created", session, nil)
}

// GetSession returns the current session snapshot.
func (c *Controller) GetSession(ctx *gin.Context) {
	session, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	response.Success(ctx, "Booking session retrieved", session)
}

// SelectItinerary chooses one of the session's journey options and loads the
// seat inventory for each of its segments.
func (c *Controller) SelectItinerary(ctx *gin.Context) {
	var req SelectItineraryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request data", err.Error())
		return
	}

	session, err := c.service.SelectItinerary(ctx.Request.Context(), ctx.Param("id"), req.OptionID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	response.Success(ctx, "Itinerary selected", session)
}

func (c *Controller) SetPassengerCount(ctx *gin.Context) {
	var req PassengerCountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request data", err.Error())
		return
	}

	session, err := c.service.SetPassengerCount(ctx.Request.Context(), ctx.Param("id"), req.Count)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	response.Success(ctx, "Passenger count updated", session)
}

// ToggleSeat flips a single seat selection and switches the session to
// manual seat selection.
func (c *Controller) ToggleSeat(ctx *gin.Context) {
	var req ToggleSeatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request data", err.Error())
		return
	}

	session, err := c.service.ToggleSeat(ctx.Request.Context(), ctx.Param("id"), req.SegmentID, req.SeatID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	response.Success(ctx, "Seat selection updated", session)
}

func (c *Controller) EnableAutoSelect(ctx *gin.Context) {
	session, err := c.service.EnableAutoSelect(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	response.Success(ctx, "Automatic seat selection enabled", session)
}

func (c *Controller) SetPassengerDetails(ctx *gin.Context) {
	var req PassengerDetailsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request data", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.BadRequest(ctx, "Validation failed", err.Error())
		return
	}

	session, err := c.service.SetPassengerDetails(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	response.Success(ctx, "Passenger details updated", session)
}

// ApplyPromo validates a code against the session's current pricing context
// and applies it when it qualifies. A rejected code leaves any previously
// applied promo in place and reports why.
func (c *Controller) ApplyPromo(ctx *gin.Context) {
	var req ApplyPromoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request data", err.Error())
		return
	}

	session, result, err := c.service.ApplyPromo(ctx.Request.Context(), ctx.Param("id"), req.Code)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	if !result.Valid {
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, result.Message, session, nil)
		return
	}
	response.Success(ctx, result.Message, session)
}

func (c *Controller) RemovePromo(ctx *gin.Context) {
	session, err := c.service.RemovePromo(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	response.Success(ctx, "Promo removed", session)
}

func (c *Controller) SetPaymentMethod(ctx *gin.Context) {
	var req PaymentMethodRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request data", err.Error())
		return
	}

	session, err := c.service.SetPaymentMethod(ctx.Request.Context(), ctx.Param("id"), req.Method)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	response.Success(ctx, "Payment method updated", session)
}

// Submit finalizes the draft. Incomplete sessions get a 422 listing every
// blocking issue.
func (c *Controller) Submit(ctx *gin.Context) {
	session, result, err := c.service.Submit(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Booking is not ready to submit", nil, vErr.Issues)
			return
		}
		c.respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking submitted", gin.H{
		"session": session,
		"result":  result,
	}, nil)
}

func (c *Controller) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking session not found", nil, err.Error())
	case errors.Is(err, ErrOptionNotFound), errors.Is(err, ErrInvalidPayment), errors.Is(err, ErrAlreadySubmitted):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Internal server error", nil, err.Error())
	}
}
