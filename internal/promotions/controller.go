package promotions

import (
	"net/http"

	"github.com/reipand/TripGo-sub000/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ValidateCode checks a promo code against the submitted pricing context
// without applying it to any session.
func (c *Controller) ValidateCode(ctx *gin.Context) {
	var req ValidateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request data", err.Error())
		return
	}

	result, err := c.service.Validate(ctx.Request.Context(), req.Code, req.Context)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to validate promo", nil, err.Error())
		return
	}

	if !result.Valid {
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, result.Message, result, nil)
		return
	}

	response.Success(ctx, result.Message, result)
}

// ListActive returns the currently active promotions for display.
func (c *Controller) ListActive(ctx *gin.Context) {
	promos, err := c.service.ListActive(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list promotions", nil, err.Error())
		return
	}

	response.Success(ctx, "Promotions retrieved successfully", promos)
}

// SetupPromotionRoutes registers the promotion endpoints.
func SetupPromotionRoutes(rg *gin.RouterGroup, controller *Controller) {
	promos := rg.Group("/promotions")
	{
		promos.GET("", controller.ListActive)
		promos.POST("/validate", controller.ValidateCode)
	}
}
