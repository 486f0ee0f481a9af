package bulkupload

import (
	"math"
	"strings"
	"testing"

	"portal-backend/models"
)

func baseRow() models.RawRow {
	return models.RawRow{
		"PCS":              "1",
		"ActualWeight":     "4",
		"Sector":           "export",
		"Origin":           "del",
		"Destination":      "new york",
		"ServiceName":      "exp",
		"ConsigneeZipcode": "10001",
		"ConsigneeName":    "John Smith",
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTransformSingleDimensionSetManyPieces(t *testing.T) {
	row := baseRow()
	row["PCS"] = "2"
	row["ActualWeight"] = "4"

	shipment, rowErr := TransformExcelToShipment(row, 0)
	if rowErr != nil {
		t.Fatalf("unexpected row error: %v", rowErr)
	}

	if len(shipment.Boxes) != 2 {
		t.Fatalf("expected 2 boxes, got %d", len(shipment.Boxes))
	}
	for i, box := range shipment.Boxes {
		if !almostEqual(box.ActualWt, 2) {
			t.Errorf("box %d actualWt = %v, want 2", i, box.ActualWt)
		}
		if box.VolumeWeight != 0 {
			t.Errorf("box %d volumeWeight = %v, want 0 without dimensions", i, box.VolumeWeight)
		}
		if box.BoxNo != i+1 {
			t.Errorf("box %d boxNo = %d, want %d", i, box.BoxNo, i+1)
		}
	}
	if shipment.TotalActualWt != 4 {
		t.Errorf("totalActualWt = %v, want 4", shipment.TotalActualWt)
	}
	if shipment.ChargeableWt != 4 {
		t.Errorf("chargeableWt = %v, want 4", shipment.ChargeableWt)
	}
	if shipment.ReceiverCountry != "USA" {
		t.Errorf("receiverCountry = %q, want USA", shipment.ReceiverCountry)
	}
	if shipment.Service != "EXP" {
		t.Errorf("service = %q, want EXP (upper-cased)", shipment.Service)
	}
	if shipment.Pcs != 2 {
		t.Errorf("pcs = %d, want 2", shipment.Pcs)
	}
}

func TestTransformPerBoxWeights(t *testing.T) {
	row := baseRow()
	row["PCS"] = "3"
	row["ActualWeight"] = "2,3,4"
	row["Length"] = "10,20,30"
	row["Breadth"] = "10"
	row["Height"] = "10"

	shipment, rowErr := TransformExcelToShipment(row, 0)
	if rowErr != nil {
		t.Fatalf("unexpected row error: %v", rowErr)
	}

	if len(shipment.Boxes) != 3 {
		t.Fatalf("expected 3 boxes, got %d", len(shipment.Boxes))
	}
	wantWeights := []float64{2, 3, 4}
	wantVols := []float64{0.2, 0.4, 0.6}
	for i, box := range shipment.Boxes {
		if !almostEqual(box.ActualWt, wantWeights[i]) {
			t.Errorf("box %d actualWt = %v, want %v", i, box.ActualWt, wantWeights[i])
		}
		if !almostEqual(box.VolumeWeight, wantVols[i]) {
			t.Errorf("box %d volumeWeight = %v, want %v", i, box.VolumeWeight, wantVols[i])
		}
	}
	// Breadth and height fall back to index 0 for boxes beyond the list.
	if shipment.Boxes[2].Width != 10 || shipment.Boxes[2].Height != 10 {
		t.Errorf("box 3 dims = %vx%v, want fallback 10x10", shipment.Boxes[2].Width, shipment.Boxes[2].Height)
	}
	if shipment.TotalActualWt != 9 {
		t.Errorf("totalActualWt = %v, want 9", shipment.TotalActualWt)
	}
	if shipment.TotalVolWt != 1.2 {
		t.Errorf("totalVolWt = %v, want 1.2", shipment.TotalVolWt)
	}
	if shipment.ChargeableWt != 9 {
		t.Errorf("chargeableWt = %v, want 9", shipment.ChargeableWt)
	}
}

func TestTransformEvenSplit(t *testing.T) {
	row := baseRow()
	row["PCS"] = "1"
	row["ActualWeight"] = "2,3"
	row["Length"] = "10,20,30"
	row["Breadth"] = "10"
	row["Height"] = "10"

	shipment, rowErr := TransformExcelToShipment(row, 0)
	if rowErr != nil {
		t.Fatalf("unexpected row error: %v", rowErr)
	}

	// Three length entries force three boxes; two weights force the even split.
	if len(shipment.Boxes) != 3 {
		t.Fatalf("expected 3 boxes, got %d", len(shipment.Boxes))
	}
	for i, box := range shipment.Boxes {
		if !almostEqual(box.ActualWt, 5.0/3.0) {
			t.Errorf("box %d actualWt = %v, want %v", i, box.ActualWt, 5.0/3.0)
		}
	}
	// Per-box shares stay unrounded so the total reconstructs exactly.
	if shipment.TotalActualWt != 5 {
		t.Errorf("totalActualWt = %v, want 5", shipment.TotalActualWt)
	}
}

func TestTransformItemsOneToOne(t *testing.T) {
	row := baseRow()
	row["ActualWeight"] = "1,1,1"
	row["ShipmentContent"] = "Shirts,Shoes,Belts"
	row["HSNCode"] = "6105,6403,4203"
	row["Quantity"] = "1,2,3"
	row["Rate"] = "10,20,30"

	shipment, rowErr := TransformExcelToShipment(row, 0)
	if rowErr != nil {
		t.Fatalf("unexpected row error: %v", rowErr)
	}

	if len(shipment.Boxes) != 3 {
		t.Fatalf("expected 3 boxes, got %d", len(shipment.Boxes))
	}
	if len(shipment.ShipmentAndPackageDetails) != 3 {
		t.Fatalf("expected 3 box entries in details, got %d", len(shipment.ShipmentAndPackageDetails))
	}
	for boxNo := 1; boxNo <= 3; boxNo++ {
		items := shipment.ShipmentAndPackageDetails[boxNo]
		if len(items) != 1 {
			t.Errorf("box %d has %d items, want 1", boxNo, len(items))
		}
	}
	if shipment.ShipmentAndPackageDetails[2][0].Context != "Shoes" {
		t.Errorf("box 2 item = %q, want Shoes", shipment.ShipmentAndPackageDetails[2][0].Context)
	}
	// 1*10 + 2*20 + 3*30
	if shipment.TotalInvoiceValue != 140 {
		t.Errorf("totalInvoiceValue = %v, want 140", shipment.TotalInvoiceValue)
	}
}

func TestTransformItemsChunkedAcrossBoxes(t *testing.T) {
	row := baseRow()
	row["ActualWeight"] = "2,3"
	row["ShipmentContent"] = "A,B,C,D,E"

	shipment, rowErr := TransformExcelToShipment(row, 0)
	if rowErr != nil {
		t.Fatalf("unexpected row error: %v", rowErr)
	}

	if len(shipment.Boxes) != 2 {
		t.Fatalf("expected 2 boxes, got %d", len(shipment.Boxes))
	}
	if got := len(shipment.ShipmentAndPackageDetails[1]); got != 3 {
		t.Errorf("box 1 has %d items, want 3", got)
	}
	if got := len(shipment.ShipmentAndPackageDetails[2]); got != 2 {
		t.Errorf("box 2 has %d items, want 2", got)
	}
}

func TestTransformItemsAllInFirstBox(t *testing.T) {
	row := baseRow()
	row["ShipmentContent"] = "A,B,C"

	shipment, rowErr := TransformExcelToShipment(row, 0)
	if rowErr != nil {
		t.Fatalf("unexpected row error: %v", rowErr)
	}

	if len(shipment.Boxes) != 1 {
		t.Fatalf("expected 1 box, got %d", len(shipment.Boxes))
	}
	items := shipment.ShipmentAndPackageDetails[1]
	if len(items) != 3 {
		t.Fatalf("box 1 has %d items, want 3", len(items))
	}
	// Quantity and rate default when the cells are blank.
	if items[0].Qty != "1" || items[0].Rate != "0" {
		t.Errorf("item defaults = qty %q rate %q, want 1 and 0", items[0].Qty, items[0].Rate)
	}
}

func TestTransformChargeableWeightRoundsUp(t *testing.T) {
	row := baseRow()
	row["ActualWeight"] = "4.2"

	shipment, rowErr := TransformExcelToShipment(row, 0)
	if rowErr != nil {
		t.Fatalf("unexpected row error: %v", rowErr)
	}
	if shipment.ChargeableWt != 5 {
		t.Errorf("chargeableWt = %v, want 5 (rounded up)", shipment.ChargeableWt)
	}
}

func TestTransformExplicitChargeableWeight(t *testing.T) {
	row := baseRow()
	row["ActualWeight"] = "4"
	row["Length"] = "10"
	row["Breadth"] = "10"
	row["Height"] = "10"
	row["ChargeableWeight"] = "12"

	shipment, rowErr := TransformExcelToShipment(row, 0)
	if rowErr != nil {
		t.Fatalf("unexpected row error: %v", rowErr)
	}
	if shipment.ChargeableWt != 12 {
		t.Errorf("chargeableWt = %v, want the explicit 12", shipment.ChargeableWt)
	}
}

func TestTransformDomesticZipReturnsRowError(t *testing.T) {
	row := baseRow()
	row["ConsigneeZipcode"] = "110001"

	shipment, rowErr := TransformExcelToShipment(row, 3)
	if shipment != nil {
		t.Fatal("expected no shipment for a domestic zip")
	}
	if rowErr == nil {
		t.Fatal("expected a row error")
	}
	if rowErr.RowNumber != 5 {
		t.Errorf("rowNumber = %d, want 5 (0-based index 3 plus header offset)", rowErr.RowNumber)
	}
	if rowErr.Field != "ConsigneeZipcode" {
		t.Errorf("field = %q, want ConsigneeZipcode", rowErr.Field)
	}
	if rowErr.Value != "110001" {
		t.Errorf("value = %q, want 110001", rowErr.Value)
	}
	if !strings.Contains(rowErr.Message, "Domestic pin code") {
		t.Errorf("message %q should name the domestic rejection", rowErr.Message)
	}
}

func TestTransformDefaults(t *testing.T) {
	row := baseRow()

	shipment, rowErr := TransformExcelToShipment(row, 7)
	if rowErr != nil {
		t.Fatalf("unexpected row error: %v", rowErr)
	}
	if !strings.HasPrefix(shipment.AwbNo, "PORTAL-") {
		t.Errorf("awbNo = %q, want PORTAL- prefix", shipment.AwbNo)
	}
	if !strings.HasSuffix(shipment.AwbNo, "-7") {
		t.Errorf("awbNo = %q, want row index suffix -7", shipment.AwbNo)
	}
	if shipment.InvoiceCurrency != "INR" {
		t.Errorf("invoiceCurrency = %q, want INR default", shipment.InvoiceCurrency)
	}
	if shipment.Status != "PENDING" {
		t.Errorf("status = %q, want PENDING", shipment.Status)
	}
	if shipment.Sector != "EXPORT" || shipment.Destination != "NEW YORK" {
		t.Errorf("sector/destination not upper-cased: %q %q", shipment.Sector, shipment.Destination)
	}
}
