package bulkupload

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"portal-backend/models"
)

// boxStrategy selects how the raw row's weights and dimensions are spread
// across boxes. The three cases are mutually exclusive and tried in order.
type boxStrategy int

const (
	// One dimension/weight set on the row but PCS > 1: the totals are split
	// evenly across PCS identical boxes.
	oneBoxManyPieces boxStrategy = iota
	// One weight entry per box: each box keeps its own weight and picks its
	// dimensions from the matching index.
	perBoxWeights
	// Anything else: the summed weight is divided evenly across the boxes.
	evenSplit
)

func decideBoxStrategy(lengths, breadths, heights, weights []float64, pcs, maxBoxes int) boxStrategy {
	if pcs > 1 && len(weights) <= 1 && len(lengths) <= 1 && len(breadths) <= 1 && len(heights) <= 1 {
		return oneBoxManyPieces
	}
	if len(weights) == maxBoxes {
		return perBoxWeights
	}
	return evenSplit
}

// splitMultiValue splits a comma-separated cell into its entries, dropping
// blanks. "2, 3,," becomes ["2" "3"].
func splitMultiValue(cell string) []string {
	var out []string
	for _, part := range strings.Split(cell, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseFloatList(values []string) []float64 {
	var out []float64
	for _, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			f = 0
		}
		out = append(out, f)
	}
	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// VolumetricWeight is the freight-industry density proxy: (L*B*H)/5000 in kg,
// rounded to 2 decimals.
func VolumetricWeight(l, b, h float64) float64 {
	return round2(l * b * h / 5000)
}

// at returns values[i], falling back to values[0] when the index is missing.
// Used to pick per-box dimensions from possibly shorter parallel lists.
func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	if len(values) > 0 {
		return values[0]
	}
	return 0
}

func atStr(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

func cell(row models.RawRow, key string) string {
	return strings.TrimSpace(row[key])
}

func cellFloat(row models.RawRow, key string) float64 {
	f, err := strconv.ParseFloat(cell(row, key), 64)
	if err != nil {
		return 0
	}
	return f
}

// hasPositive reports whether the list contains at least one value > 0.
func hasPositive(values []float64) bool {
	for _, v := range values {
		if v > 0 {
			return true
		}
	}
	return false
}

// TransformExcelToShipment converts one raw spreadsheet row into a canonical
// ShipmentRecord. index is the 0-based data row index; index+2 is the row
// number the user sees in Excel (header row is row 1).
//
// The only early exit is receiver zip validation: a row with a bad or
// domestic zip returns a RowError and no shipment is built for it.
func TransformExcelToShipment(row models.RawRow, index int) (*models.ShipmentRecord, *models.RowError) {
	pcs, err := strconv.Atoi(cell(row, "PCS"))
	if err != nil || pcs <= 0 {
		pcs = 1
	}

	lengths := parseFloatList(splitMultiValue(row["Length"]))
	breadths := parseFloatList(splitMultiValue(row["Breadth"]))
	heights := parseFloatList(splitMultiValue(row["Height"]))
	weights := parseFloatList(splitMultiValue(row["ActualWeight"]))

	contents := splitMultiValue(row["ShipmentContent"])
	hsnCodes := splitMultiValue(row["HSNCode"])
	quantities := splitMultiValue(row["Quantity"])
	rates := splitMultiValue(row["Rate"])

	// Dimensions count only when every axis has at least one positive entry.
	hasDimensions := hasPositive(lengths) && hasPositive(breadths) && hasPositive(heights)

	maxBoxes := pcs
	for _, n := range []int{len(lengths), len(breadths), len(heights), len(weights)} {
		if n > maxBoxes {
			maxBoxes = n
		}
	}

	var boxes []models.Box
	switch decideBoxStrategy(lengths, breadths, heights, weights, pcs, maxBoxes) {
	case oneBoxManyPieces:
		var totalWt float64
		if len(weights) > 0 {
			totalWt = weights[0]
		}
		var totalVol float64
		if hasDimensions {
			totalVol = at(lengths, 0) * at(breadths, 0) * at(heights, 0) / 5000
		}
		for i := 0; i < pcs; i++ {
			boxes = append(boxes, models.Box{
				Length:       at(lengths, 0),
				Width:        at(breadths, 0),
				Height:       at(heights, 0),
				Pcs:          1,
				ActualWt:     totalWt / float64(pcs),
				VolumeWeight: round2(totalVol / float64(pcs)),
				BoxNo:        i + 1,
			})
		}
	case perBoxWeights:
		for i := 0; i < maxBoxes; i++ {
			l, b, h := at(lengths, i), at(breadths, i), at(heights, i)
			var vol float64
			if hasDimensions {
				vol = VolumetricWeight(l, b, h)
			}
			boxes = append(boxes, models.Box{
				Length:       l,
				Width:        b,
				Height:       h,
				Pcs:          1,
				ActualWt:     weights[i],
				VolumeWeight: vol,
				BoxNo:        i + 1,
			})
		}
	default: // evenSplit
		var totalWt float64
		for _, w := range weights {
			totalWt += w
		}
		for i := 0; i < maxBoxes; i++ {
			l, b, h := at(lengths, i), at(breadths, i), at(heights, i)
			var vol float64
			if hasDimensions {
				vol = VolumetricWeight(l, b, h)
			}
			boxes = append(boxes, models.Box{
				Length:       l,
				Width:        b,
				Height:       h,
				Pcs:          1,
				ActualWt:     totalWt / float64(maxBoxes),
				VolumeWeight: vol,
				BoxNo:        i + 1,
			})
		}
	}

	// Line items. Qty defaults to 1 and rate to 0 so a content-only row still
	// produces an item the operations team can correct later.
	maxItems := len(contents)
	for _, n := range []int{len(hsnCodes), len(quantities), len(rates)} {
		if n > maxItems {
			maxItems = n
		}
	}

	var totalInvoiceValue float64
	items := make([]models.LineItem, 0, maxItems)
	for i := 0; i < maxItems; i++ {
		qtyStr := atStr(quantities, i)
		if qtyStr == "" {
			qtyStr = "1"
		}
		rateStr := atStr(rates, i)
		if rateStr == "" {
			rateStr = "0"
		}
		qty, _ := strconv.ParseFloat(qtyStr, 64)
		rate, _ := strconv.ParseFloat(rateStr, 64)
		amount := round2(qty * rate)
		totalInvoiceValue += amount
		items = append(items, models.LineItem{
			ID:      fmt.Sprintf("row%d-item%d", index+2, i+1),
			Context: atStr(contents, i),
			HsnNo:   atStr(hsnCodes, i),
			Qty:     qtyStr,
			Rate:    rateStr,
			Amount:  fmt.Sprintf("%.2f", amount),
		})
	}
	totalInvoiceValue = round2(totalInvoiceValue)

	details := make(map[int][]models.LineItem)
	switch {
	case maxItems == len(boxes) && maxItems > 1:
		// One item per box, zipped by index. Order correspondence between the
		// item and box lists is assumed, not enforced.
		for i, item := range items {
			details[i+1] = []models.LineItem{item}
		}
	case maxItems > len(boxes) && len(boxes) > 1:
		perBox := int(math.Ceil(float64(maxItems) / float64(len(boxes))))
		for i := 0; i < len(boxes); i++ {
			start := i * perBox
			if start >= maxItems {
				break
			}
			end := start + perBox
			if end > maxItems {
				end = maxItems
			}
			details[i+1] = items[start:end]
		}
	default:
		if maxItems > 0 {
			details[1] = items
		}
	}

	// Weight aggregation.
	var totalActualWt, totalVolWt float64
	for _, b := range boxes {
		totalActualWt += b.ActualWt
		totalVolWt += b.VolumeWeight
	}
	totalActualWt = round2(totalActualWt)
	totalVolWt = round2(totalVolWt)

	var chargeableWt float64
	if hasDimensions && totalVolWt > 0 {
		chargeableWt = cellFloat(row, "ChargeableWeight")
		if chargeableWt <= 0 {
			chargeableWt = math.Max(totalActualWt, totalVolWt)
		}
	} else {
		chargeableWt = totalActualWt
	}
	chargeableWt = math.Ceil(chargeableWt)

	// Receiver zip check happens after the weight math so the error object
	// can still show the row number, but nothing else of the shipment is
	// built once it fails.
	receiverZip := cell(row, "ConsigneeZipcode")
	if result := ValidateReceiverZipCode(receiverZip); !result.IsValid {
		return nil, &models.RowError{
			RowNumber: index + 2,
			Field:     "ConsigneeZipcode",
			Value:     receiverZip,
			Message:   result.Message,
			RawData:   row,
		}
	}

	today := time.Now().Format("2006-01-02")
	currency := cell(row, "InvoiceCurrency")
	if currency == "" {
		currency = "INR"
	}

	shipment := &models.ShipmentRecord{
		AwbNo:       fmt.Sprintf("PORTAL-%d-%d", time.Now().UnixMilli(), index),
		Sector:      strings.ToUpper(cell(row, "Sector")),
		Origin:      strings.ToUpper(cell(row, "Origin")),
		Destination: strings.ToUpper(cell(row, "Destination")),
		Service:     strings.ToUpper(cell(row, "ServiceName")),

		Pcs:           len(boxes),
		Boxes:         boxes,
		TotalActualWt: totalActualWt,
		TotalVolWt:    totalVolWt,
		ChargeableWt:  chargeableWt,

		ShipmentAndPackageDetails: details,
		TotalInvoiceValue:         totalInvoiceValue,

		ReferenceNo:     cell(row, "ReferenceNo"),
		GoodsType:       cell(row, "GoodsType"),
		InvoiceCurrency: currency,
		InvoiceValue:    cell(row, "InvoiceValue"),
		InvoiceNo:       cell(row, "InvoiceNo"),
		OperationRemark: cell(row, "OperationRemark"),
		CSB:             cell(row, "CSB"),

		BookingDate:  today,
		ShipmentDate: today,

		ReceiverPincode: receiverZip,
		ReceiverCountry: InferDestinationCountry(receiverZip),

		ConsigneeName:         cell(row, "ConsigneeName"),
		ConsigneeTelephone:    cell(row, "ConsigneeTelephone"),
		ConsigneeEmailID:      cell(row, "ConsigneeEmailId"),
		ConsigneeAddressLine1: cell(row, "ConsigneeAddressLine1"),
		ConsigneeAddressLine2: cell(row, "ConsigneeAddressLine2"),
		ConsigneeCity:         cell(row, "ConsigneeCity"),
		ConsigneeState:        cell(row, "ConsigneeState"),
		ConsigneeZipcode:      receiverZip,

		ConsignorName:         cell(row, "ConsignorName"),
		ConsignorTelephone:    cell(row, "ConsignorTelephone"),
		ConsignorAddressLine1: cell(row, "ConsignorAddressLine1"),
		ConsignorAddressLine2: cell(row, "ConsignorAddressLine2"),
		ConsignorCity:         cell(row, "ConsignorCity"),
		ConsignorState:        cell(row, "ConsignorState"),
		ConsignorPincode:      cell(row, "ConsignorPincode"),
		ConsignorKycType:      cell(row, "ConsignorKycType"),
		ConsignorKycNo:        cell(row, "ConsignorKycNo"),

		Status:     "PENDING",
		UploadedAt: time.Now().Format(time.RFC3339),
	}

	return shipment, nil
}
