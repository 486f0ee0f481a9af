package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"portal-backend/models"
)

// RateService talks to the pricing collaborator. It sends one batch request
// per upload and merges the per-shipment results back by AWB number.
type RateService struct {
	baseURL    string
	httpClient *http.Client
}

// NewRateService creates a rate service client for the given pricing server
// base URL (e.g. "https://api.example.com").
func NewRateService(baseURL string) *RateService {
	return &RateService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// projectionOf builds the minimal view of a shipment the pricing service
// needs to resolve zone, tariff and taxes.
func projectionOf(s models.ShipmentRecord) models.RateProjection {
	return models.RateProjection{
		AwbNo:             s.AwbNo,
		Sector:            s.Sector,
		Destination:       s.Destination,
		Service:           s.Service,
		ChargeableWt:      s.ChargeableWt,
		Pcs:               s.Pcs,
		TotalInvoiceValue: s.TotalInvoiceValue,
		Currency:          s.InvoiceCurrency,
		Origin:            s.Origin,
		GoodsType:         s.GoodsType,
		ReceiverPincode:   s.ReceiverPincode,
		ReceiverCountry:   s.ReceiverCountry,
	}
}

// CalculateRates sends the whole batch to the pricing service and attaches
// basicAmt, sgst, cgst, igst, totalAmt, zone and rateUsed to each shipment.
// Rate calculation is all-or-nothing: a shipment missing from the result
// set, or marked unsuccessful, fails the entire batch.
func (rs *RateService) CalculateRates(ctx context.Context, shipments []models.ShipmentRecord, accountCode string) ([]models.ShipmentRecord, error) {
	if len(shipments) == 0 {
		return nil, fmt.Errorf("no shipments to rate")
	}

	reqBody := models.RateRequest{AccountCode: accountCode}
	for _, s := range shipments {
		reqBody.Shipments = append(reqBody.Shipments, projectionOf(s))
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error building rate request: %v", err)
	}

	url := rs.baseURL + "/bulk-upload/calculate-rates"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating rate request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := rs.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate calculation request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading rate response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("rate calculation failed with status %d: %s", resp.StatusCode, string(body))
	}

	var rateResp models.RateResponse
	if err := json.Unmarshal(body, &rateResp); err != nil {
		return nil, fmt.Errorf("error parsing rate response: %v", err)
	}
	if !rateResp.Success {
		return nil, fmt.Errorf("rate calculation failed: %s", rateResp.Summary)
	}

	resultsByAwb := make(map[string]models.RateResult, len(rateResp.Results))
	for _, r := range rateResp.Results {
		resultsByAwb[r.AwbNo] = r
	}

	rated := make([]models.ShipmentRecord, len(shipments))
	for i, s := range shipments {
		result, ok := resultsByAwb[s.AwbNo]
		if !ok {
			return nil, fmt.Errorf("rate calculation failed: no rate returned for AWB %s", s.AwbNo)
		}
		if !result.Success {
			if result.Message != "" {
				return nil, fmt.Errorf("rate calculation failed for AWB %s: %s", s.AwbNo, result.Message)
			}
			return nil, fmt.Errorf("rate calculation failed for AWB %s", s.AwbNo)
		}
		s.BasicAmt = result.BasicAmt
		s.Sgst = result.Sgst
		s.Cgst = result.Cgst
		s.Igst = result.Igst
		s.TotalAmt = result.TotalAmt
		s.Zone = result.Zone
		s.RateUsed = result.RateUsed
		if result.Service != "" {
			s.Service = result.Service
		}
		rated[i] = s
	}

	return rated, nil
}
