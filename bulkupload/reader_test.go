package bulkupload

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestReadSpreadsheet(t *testing.T) {
	buf := buildWorkbook(t, [][]string{
		{"PCS", "ActualWeight", "ConsigneeZipcode", "ServiceName"},
		{"2", "4", "10001", "EXP"},
		{"1", "2.5", "SW1A 1AA", "ECO"},
	})

	rows, err := ReadSpreadsheet(buf)
	if err != nil {
		t.Fatalf("ReadSpreadsheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["PCS"] != "2" || rows[0]["ConsigneeZipcode"] != "10001" {
		t.Errorf("row 1 mismatch: %v", rows[0])
	}
	if rows[1]["ServiceName"] != "ECO" {
		t.Errorf("row 2 ServiceName = %q, want ECO", rows[1]["ServiceName"])
	}
}

func TestReadSpreadsheetMissingCellsDefaultEmpty(t *testing.T) {
	buf := buildWorkbook(t, [][]string{
		{"PCS", "ActualWeight", "ConsigneeZipcode"},
		{"1"}, // short row
	})

	rows, err := ReadSpreadsheet(buf)
	if err != nil {
		t.Fatalf("ReadSpreadsheet: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if got := rows[0]["ConsigneeZipcode"]; got != "" {
		t.Errorf("missing cell = %q, want empty string", got)
	}
}

func TestReadSpreadsheetSkipsBlankRows(t *testing.T) {
	buf := buildWorkbook(t, [][]string{
		{"PCS", "ActualWeight"},
		{"1", "2"},
		{"", ""},
		{"3", "4"},
	})

	rows, err := ReadSpreadsheet(buf)
	if err != nil {
		t.Fatalf("ReadSpreadsheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows after skipping blanks, got %d", len(rows))
	}
}

func TestReadSpreadsheetHeaderOnly(t *testing.T) {
	buf := buildWorkbook(t, [][]string{
		{"PCS", "ActualWeight"},
	})

	_, err := ReadSpreadsheet(buf)
	if err == nil {
		t.Fatal("expected error for header-only file")
	}
	if !strings.Contains(err.Error(), "no data rows") {
		t.Errorf("error = %v, want no data rows", err)
	}
}

func TestReadSpreadsheetGarbageInput(t *testing.T) {
	_, err := ReadSpreadsheet(bytes.NewBufferString("not a spreadsheet"))
	if err == nil {
		t.Fatal("expected error for non-xlsx input")
	}
}

func TestTemplateColumnsCoverPipelineFields(t *testing.T) {
	required := []string{
		"PCS", "Length", "Breadth", "Height", "ActualWeight",
		"ShipmentContent", "HSNCode", "Quantity", "Rate",
		"ConsigneeZipcode", "ServiceName",
	}
	index := make(map[string]bool, len(TemplateColumns))
	for _, col := range TemplateColumns {
		index[col] = true
	}
	for _, col := range required {
		if !index[col] {
			t.Errorf("template is missing column %q", col)
		}
	}
}
