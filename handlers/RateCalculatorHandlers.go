package handlers

import (
	"database/sql"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"portal-backend/bulkupload"
	"portal-backend/models"
	"portal-backend/services"
	"portal-backend/storage"

	"github.com/gin-gonic/gin"
)

type RateQuoteRequest struct {
	Sector      string  `json:"sector" example:"EXPORT"`
	Origin      string  `json:"origin" example:"DEL"`
	Destination string  `json:"destination" example:"JFK"`
	ZipCode     string  `json:"zipCode" example:"10001"`
	ServiceName string  `json:"serviceName" example:"EXPRESS"`
	Pcs         int     `json:"pcs" example:"2"`
	Length      float64 `json:"length" example:"30"`
	Width       float64 `json:"width" example:"20"`
	Height      float64 `json:"height" example:"15"`
	ActualWt    float64 `json:"actualWt" example:"4.5"`
}

// CalculateRateQuote godoc
// @Summary      Get a rate quote for a single shipment
// @Description  Validates the destination zip, computes chargeable weight and fetches rates from the shipment rate engine.
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        request  body  RateQuoteRequest  true  "Quote request"
// @Success      200  {object}  object
// @Failure      400  {object}  object
// @Failure      401  {object}  object
// @Failure      502  {object}  object
// @Router       /api/rates/quote [post]
func CalculateRateQuote(db *sql.DB, rateService *services.RateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		user, err := storage.GetUserBySessionID(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		var req RateQuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		zipResult := bulkupload.ValidateReceiverZipCode(req.ZipCode)
		if !zipResult.IsValid {
			c.JSON(http.StatusBadRequest, gin.H{"error": zipResult.Message})
			return
		}

		if req.Pcs <= 0 {
			req.Pcs = 1
		}
		if req.ActualWt <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "actualWt must be greater than zero"})
			return
		}

		volWt := bulkupload.VolumetricWeight(req.Length, req.Width, req.Height)
		chargeable := req.ActualWt
		if volWt > chargeable {
			chargeable = volWt
		}
		chargeable = math.Ceil(chargeable)

		record := models.ShipmentRecord{
			AwbNo:            fmt.Sprintf("QUOTE-%d-0", time.Now().UnixMilli()),
			AccountCode:      user.AccountCode,
			Sector:           strings.ToUpper(req.Sector),
			Origin:           strings.ToUpper(req.Origin),
			Destination:      strings.ToUpper(req.Destination),
			Service:          strings.ToUpper(req.ServiceName),
			ConsigneeZipcode: req.ZipCode,
			ReceiverPincode:  req.ZipCode,
			ReceiverCountry:  bulkupload.InferDestinationCountry(req.ZipCode),
			Pcs:              req.Pcs,
			TotalActualWt:    req.ActualWt,
			TotalVolWt:       volWt,
			ChargeableWt:     chargeable,
		}

		rated, err := rateService.CalculateRates(c.Request.Context(), []models.ShipmentRecord{record}, user.AccountCode)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Rate calculation failed", "details": err.Error()})
			return
		}

		quote := rated[0]
		c.JSON(http.StatusOK, gin.H{
			"destinationCountry": quote.ReceiverCountry,
			"chargeableWt":       quote.ChargeableWt,
			"volumeWeight":       quote.TotalVolWt,
			"zone":               quote.Zone,
			"service":            quote.Service,
			"basicAmt":           quote.BasicAmt,
			"sgst":               quote.Sgst,
			"cgst":               quote.Cgst,
			"igst":               quote.Igst,
			"totalAmt":           quote.TotalAmt,
		})
	}
}
