package handler

import (
	"math"
	"net/http"

	"processpilot/internal/app/dto"

	"github.com/gin-gonic/gin"
)

// Pricing formula for the public estimate calculator. Amounts in pounds.
const (
	integrationCost = 200
	supportCost     = 300
)

var complexityBasePrice = map[string]int{
	"simple":   500,
	"moderate": 1500,
	"complex":  3500,
}

var complexityDeliveryTime = map[string]string{
	"simple":   "2-3 days",
	"moderate": "1-2 weeks",
	"complex":  "3-4 weeks",
}

// EstimatePrice computes the quote range: base price by complexity plus
// per-integration and support add-ons, with a ±20% band around the subtotal.
func EstimatePrice(complexity string, integrations int, support bool) dto.PricingEstimateResponse {
	subtotal := complexityBasePrice[complexity] + integrations*integrationCost
	if support {
		subtotal += supportCost
	}

	return dto.PricingEstimateResponse{
		Min:          int(math.Floor(float64(subtotal) * 0.8)),
		Max:          int(math.Ceil(float64(subtotal) * 1.2)),
		Estimated:    subtotal,
		DeliveryTime: complexityDeliveryTime[complexity],
	}
}

// GetPricingEstimate returns a price estimate
// @Summary Price estimate
// @Description Returns an instant quote range for an automation project
// @Tags Pricing
// @Produce json
// @Param complexity query string true "simple, moderate or complex"
// @Param integrations query int false "Number of platform integrations"
// @Param support query bool false "Include ongoing support"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/pricing/estimate [get]
func (h *APIHandler) GetPricingEstimate(c *gin.Context) {
	var query dto.PricingEstimateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	h.successResponse(c, http.StatusOK, "", EstimatePrice(query.Complexity, query.Integrations, query.Support))
}
