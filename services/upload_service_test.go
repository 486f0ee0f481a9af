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

func TestSubmitShipments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bulk-upload/portal" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req models.UploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.AccountCode != "ACC001" {
			t.Errorf("accountCode = %q, want ACC001", req.AccountCode)
		}
		if req.TotalShipments != 2 || len(req.Shipments) != 2 {
			t.Errorf("totalShipments = %d with %d shipments, want 2/2", req.TotalShipments, len(req.Shipments))
		}
		if req.Timestamp == "" {
			t.Error("timestamp missing")
		}

		json.NewEncoder(w).Encode(models.UploadResponse{
			Success:    true,
			NewRecords: 1,
			Duplicates: 1,
			BalanceUpdate: &models.BalanceUpdate{
				NewBalance: 8500,
				Difference: -1500,
			},
		})
	}))
	defer srv.Close()

	us := NewUploadService(srv.URL)
	resp, err := us.SubmitShipments(context.Background(), testShipments(), "ACC001")
	if err != nil {
		t.Fatalf("SubmitShipments: %v", err)
	}
	if resp.NewRecords != 1 || resp.Duplicates != 1 {
		t.Errorf("counts = %d new / %d duplicates, want 1/1", resp.NewRecords, resp.Duplicates)
	}
	if resp.BalanceUpdate == nil || resp.BalanceUpdate.NewBalance != 8500 {
		t.Errorf("balanceUpdate = %+v, want newBalance 8500", resp.BalanceUpdate)
	}
}

func TestSubmitShipmentsNon2xxSurfacesRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"duplicate reference numbers in batch"}`))
	}))
	defer srv.Close()

	us := NewUploadService(srv.URL)
	_, err := us.SubmitShipments(context.Background(), testShipments(), "ACC001")
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if !strings.Contains(err.Error(), "status 400") {
		t.Errorf("error %v should carry the status code", err)
	}
	if !strings.Contains(err.Error(), "duplicate reference numbers in batch") {
		t.Errorf("error %v should carry the raw response body", err)
	}
}

func TestSubmitShipmentsEmptyBatch(t *testing.T) {
	us := NewUploadService("http://unused")
	if _, err := us.SubmitShipments(context.Background(), nil, "ACC001"); err == nil {
		t.Fatal("expected error for empty batch")
	}
}
