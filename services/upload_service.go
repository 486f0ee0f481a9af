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

// UploadService sends rate-enriched shipment batches to the shipment store.
type UploadService struct {
	baseURL    string
	httpClient *http.Client
}

func NewUploadService(baseURL string) *UploadService {
	return &UploadService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// SubmitShipments posts the batch to the shipment store and interprets its
// outcome counts. A non-2xx status surfaces the raw response body so the
// user sees exactly what the store said. Duplicate detection is entirely
// the store's concern; this client just reports the counts back.
func (us *UploadService) SubmitShipments(ctx context.Context, shipments []models.ShipmentRecord, accountCode string) (*models.UploadResponse, error) {
	if len(shipments) == 0 {
		return nil, fmt.Errorf("no shipments to submit")
	}

	reqBody := models.UploadRequest{
		Shipments:      shipments,
		AccountCode:    accountCode,
		Timestamp:      time.Now().Format(time.RFC3339),
		TotalShipments: len(shipments),
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error building upload request: %v", err)
	}

	url := us.baseURL + "/bulk-upload/portal"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating upload request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := us.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading upload response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	var uploadResp models.UploadResponse
	if err := json.Unmarshal(body, &uploadResp); err != nil {
		return nil, fmt.Errorf("error parsing upload response: %v", err)
	}

	return &uploadResp, nil
}
