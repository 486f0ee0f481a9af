package bulkupload

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"portal-backend/models"
)

// ReadSpreadsheet parses an uploaded .xlsx/.xls file into ordered RawRow
// records. Row 1 is the header; data row i maps to spreadsheet row i+2.
// Missing cells default to empty strings. Any read failure aborts the whole
// batch, there is no partial read.
func ReadSpreadsheet(r io.Reader) ([]models.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("unable to open spreadsheet: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in spreadsheet")
	}

	// The portal template keeps everything on the first sheet.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q: %v", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("spreadsheet has no data rows")
	}

	header := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		header[i] = strings.TrimSpace(col)
	}

	var result []models.RawRow
	for _, row := range rows[1:] {
		record := make(models.RawRow, len(header))
		empty := true
		for i, col := range header {
			if col == "" {
				continue
			}
			var value string
			if i < len(row) {
				value = row[i]
			}
			if strings.TrimSpace(value) != "" {
				empty = false
			}
			record[col] = value
		}
		// Trailing blank rows are common in hand-edited templates; skip them.
		if empty {
			continue
		}
		result = append(result, record)
	}

	return result, nil
}

// TemplateColumns is the exact header row of the bulk-upload template, in
// column order. The reader matches by name, not position, but the template
// download and the docs both use this ordering.
var TemplateColumns = []string{
	"PCS", "Length", "Breadth", "Height", "ActualWeight", "VolumeWeight", "ChargeableWeight",
	"ShipmentContent", "HSNCode", "Quantity", "Rate",
	"Sector", "Origin", "Destination", "ReferenceNo", "GoodsType",
	"InvoiceCurrency", "InvoiceValue", "ServiceName", "OperationRemark", "CSB",
	"ConsigneeName", "ConsigneeTelephone", "ConsigneeEmailId",
	"ConsigneeAddressLine1", "ConsigneeAddressLine2", "ConsigneeCity", "ConsigneeState", "ConsigneeZipcode",
	"ConsignorName", "ConsignorTelephone",
	"ConsignorAddressLine1", "ConsignorAddressLine2", "ConsignorCity", "ConsignorState", "ConsignorPincode",
	"ConsignorKycType", "ConsignorKycNo", "InvoiceNo",
}
