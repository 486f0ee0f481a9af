package bulkupload

import (
	"context"
	"errors"
	"fmt"
	"io"

	"portal-backend/models"
)

var (
	// ErrValidationErrors blocks rating and submission while any row in the
	// file is invalid. No partial upload of the valid rows is allowed.
	ErrValidationErrors = errors.New("file contains validation errors, please correct the file and re-upload")
	// ErrNoShipments means the file parsed but produced nothing to upload.
	ErrNoShipments = errors.New("no valid shipments to upload")
	// ErrNotRated means Submit was called before a successful Rate pass.
	ErrNotRated = errors.New("shipments have not been rated yet")
)

// RateCalculator asks the pricing collaborator for zone, tariff and tax
// amounts for a batch of shipments. All-or-nothing: any unrated shipment
// fails the whole call.
type RateCalculator interface {
	CalculateRates(ctx context.Context, shipments []models.ShipmentRecord, accountCode string) ([]models.ShipmentRecord, error)
}

// ShipmentSubmitter sends the rate-enriched batch to the shipment store.
type ShipmentSubmitter interface {
	SubmitShipments(ctx context.Context, shipments []models.ShipmentRecord, accountCode string) (*models.UploadResponse, error)
}

// UploadSession carries one bulk-upload attempt through its stages:
// Read -> Normalize -> Rate -> Submit. Each stage fills in the session and
// returns an error when the batch cannot continue. The session replaces the
// per-screen state the portal UI used to hold; nothing here is shared
// between requests.
type UploadSession struct {
	AccountCode string
	FileName    string

	Rows             []models.RawRow
	Shipments        []models.ShipmentRecord
	ValidationErrors []models.RowError

	Rated  bool
	Result *models.UploadResponse
}

func NewUploadSession(accountCode, fileName string) *UploadSession {
	return &UploadSession{AccountCode: accountCode, FileName: fileName}
}

// Read parses the spreadsheet into raw rows. A corrupt file aborts the whole
// batch here.
func (s *UploadSession) Read(r io.Reader) error {
	rows, err := ReadSpreadsheet(r)
	if err != nil {
		return err
	}
	s.Rows = rows
	return nil
}

// Normalize converts every raw row into a ShipmentRecord, collecting
// per-row validation errors. Invalid rows are excluded from the shipment
// set, but their presence blocks the upload entirely until the file is
// fixed.
func (s *UploadSession) Normalize() {
	s.Shipments = s.Shipments[:0]
	s.ValidationErrors = s.ValidationErrors[:0]
	for i, row := range s.Rows {
		shipment, rowErr := TransformExcelToShipment(row, i)
		if rowErr != nil {
			s.ValidationErrors = append(s.ValidationErrors, *rowErr)
			continue
		}
		shipment.AccountCode = s.AccountCode
		s.Shipments = append(s.Shipments, *shipment)
	}
}

// CanSubmit reports whether the batch is allowed to move past normalization.
func (s *UploadSession) CanSubmit() error {
	if len(s.ValidationErrors) > 0 {
		return fmt.Errorf("%w: %d invalid row(s)", ErrValidationErrors, len(s.ValidationErrors))
	}
	if len(s.Shipments) == 0 {
		return ErrNoShipments
	}
	return nil
}

// Rate runs the batch through the pricing collaborator. On failure the
// session keeps its shipments so the user can retry without re-uploading.
func (s *UploadSession) Rate(ctx context.Context, rc RateCalculator) error {
	if err := s.CanSubmit(); err != nil {
		return err
	}
	rated, err := rc.CalculateRates(ctx, s.Shipments, s.AccountCode)
	if err != nil {
		return err
	}
	s.Shipments = rated
	s.Rated = true
	return nil
}

// HasZeroRateTotals reports whether rating succeeded but every computed
// total is zero. This is a warning, not a failure: the caller must ask the
// user to confirm before submitting such a batch.
func (s *UploadSession) HasZeroRateTotals() bool {
	if !s.Rated {
		return false
	}
	for _, sh := range s.Shipments {
		if sh.TotalAmt != 0 {
			return false
		}
	}
	return true
}

// Submit sends the rated batch to the shipment store. On success with new
// records created, the session clears its local state so a stale retry
// cannot re-send the same batch by accident.
func (s *UploadSession) Submit(ctx context.Context, submitter ShipmentSubmitter) (*models.UploadResponse, error) {
	if err := s.CanSubmit(); err != nil {
		return nil, err
	}
	if !s.Rated {
		return nil, ErrNotRated
	}
	resp, err := submitter.SubmitShipments(ctx, s.Shipments, s.AccountCode)
	if err != nil {
		return nil, err
	}
	s.Result = resp
	if resp.Success && resp.NewRecords > 0 {
		s.Rows = nil
		s.Shipments = nil
		s.ValidationErrors = nil
		s.Rated = false
	}
	return resp, nil
}
