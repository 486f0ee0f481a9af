package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portal-backend/models"
)

func testShipments() []models.ShipmentRecord {
	return []models.ShipmentRecord{
		{AwbNo: "PORTAL-1-0", Service: "EXP", ChargeableWt: 4, ReceiverCountry: "USA"},
		{AwbNo: "PORTAL-1-1", Service: "ECO", ChargeableWt: 9, ReceiverCountry: "UK"},
	}
}

func TestCalculateRatesMergesByAwb(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bulk-upload/calculate-rates" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req models.RateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.AccountCode != "ACC001" {
			t.Errorf("accountCode = %q, want ACC001", req.AccountCode)
		}
		if len(req.Shipments) != 2 {
			t.Errorf("got %d projections, want 2", len(req.Shipments))
		}

		// Results deliberately out of order; the client must merge by AWB.
		json.NewEncoder(w).Encode(models.RateResponse{
			Success: true,
			Results: []models.RateResult{
				{AwbNo: "PORTAL-1-1", Success: true, BasicAmt: 900, TotalAmt: 1062, Zone: "ZONE-B", RateUsed: "UK-STD"},
				{AwbNo: "PORTAL-1-0", Success: true, BasicAmt: 400, TotalAmt: 472, Zone: "ZONE-A", RateUsed: "US-STD", Service: "EXPRESS"},
			},
		})
	}))
	defer srv.Close()

	rs := NewRateService(srv.URL)
	rated, err := rs.CalculateRates(context.Background(), testShipments(), "ACC001")
	if err != nil {
		t.Fatalf("CalculateRates: %v", err)
	}

	if rated[0].TotalAmt != 472 || rated[0].Zone != "ZONE-A" {
		t.Errorf("shipment 0 rated as %+v", rated[0])
	}
	if rated[1].TotalAmt != 1062 || rated[1].Zone != "ZONE-B" {
		t.Errorf("shipment 1 rated as %+v", rated[1])
	}
	// The pricing service may normalize the service name.
	if rated[0].Service != "EXPRESS" {
		t.Errorf("shipment 0 service = %q, want EXPRESS override", rated[0].Service)
	}
	if rated[1].Service != "ECO" {
		t.Errorf("shipment 1 service = %q, want original ECO kept", rated[1].Service)
	}
}

func TestCalculateRatesMissingAwbFailsBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.RateResponse{
			Success: true,
			Results: []models.RateResult{
				{AwbNo: "PORTAL-1-0", Success: true, TotalAmt: 472},
				// PORTAL-1-1 missing
			},
		})
	}))
	defer srv.Close()

	rs := NewRateService(srv.URL)
	_, err := rs.CalculateRates(context.Background(), testShipments(), "ACC001")
	if err == nil {
		t.Fatal("expected error when a shipment has no rate result")
	}
	if !strings.Contains(err.Error(), "PORTAL-1-1") {
		t.Errorf("error %v should name the unrated AWB", err)
	}
}

func TestCalculateRatesPerShipmentFailureFailsBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.RateResponse{
			Success: true,
			Results: []models.RateResult{
				{AwbNo: "PORTAL-1-0", Success: true, TotalAmt: 472},
				{AwbNo: "PORTAL-1-1", Success: false, Message: "no tariff for UK zone"},
			},
		})
	}))
	defer srv.Close()

	rs := NewRateService(srv.URL)
	_, err := rs.CalculateRates(context.Background(), testShipments(), "ACC001")
	if err == nil {
		t.Fatal("expected error when any shipment fails rating")
	}
	if !strings.Contains(err.Error(), "no tariff for UK zone") {
		t.Errorf("error %v should carry the per-shipment message", err)
	}
}

func TestCalculateRatesNon2xxSurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "tariff table locked", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	rs := NewRateService(srv.URL)
	_, err := rs.CalculateRates(context.Background(), testShipments(), "ACC001")
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "tariff table locked") {
		t.Errorf("error %v should carry the status and raw body", err)
	}
}

func TestCalculateRatesUnsuccessfulResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.RateResponse{Success: false, Summary: "account suspended"})
	}))
	defer srv.Close()

	rs := NewRateService(srv.URL)
	_, err := rs.CalculateRates(context.Background(), testShipments(), "ACC001")
	if err == nil || !strings.Contains(err.Error(), "account suspended") {
		t.Fatalf("error = %v, want summary surfaced", err)
	}
}

func TestCalculateRatesEmptyBatch(t *testing.T) {
	rs := NewRateService("http://unused")
	if _, err := rs.CalculateRates(context.Background(), nil, "ACC001"); err == nil {
		t.Fatal("expected error for empty batch")
	}
}
