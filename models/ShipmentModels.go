package models

// RawRow is one spreadsheet row keyed by column header. Missing cells are
// stored as empty strings so downstream code never has to nil-check.
type RawRow map[string]string

// ZipValidationResult is the outcome of receiver zip code validation.
// Message is surfaced to the end user verbatim.
type ZipValidationResult struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message"`
}

// Box is a single physical package inside a shipment. Weights are in kg,
// dimensions in cm (0 when unknown).
type Box struct {
	Length       float64 `json:"length" example:"30"`
	Width        float64 `json:"width" example:"20"`
	Height       float64 `json:"height" example:"10"`
	Pcs          int     `json:"pcs" example:"1"`
	ActualWt     float64 `json:"actualWt" example:"2.5"`
	VolumeWeight float64 `json:"volumeWeight" example:"1.2"`
	BoxNo        int     `json:"boxNo" example:"1"`
}

// LineItem is one invoice line inside a box. Qty, Rate and Amount are kept
// as strings because that is how the portal and the pricing service exchange
// them; Amount is always formatted to 2 decimals.
type LineItem struct {
	ID      string `json:"id"`
	Context string `json:"context" example:"Cotton T-Shirts"`
	HsnNo   string `json:"hsnNo" example:"610910"`
	Qty     string `json:"qty" example:"10"`
	Rate    string `json:"rate" example:"150.00"`
	Amount  string `json:"amount" example:"1500.00"`
}

// ShipmentRecord is the canonical unit produced by bulk-upload normalization.
// It is what gets rate-enriched and submitted to the shipment store.
type ShipmentRecord struct {
	AwbNo       string `json:"awbNo" example:"PORTAL-1718000000000-0"`
	AccountCode string `json:"accountCode" example:"ACC001"`
	Sector      string `json:"sector" example:"DEL"`
	Origin      string `json:"origin" example:"DELHI"`
	Destination string `json:"destination" example:"NEW YORK"`
	Service     string `json:"service" example:"EXP"`

	Pcs           int     `json:"pcs" example:"2"`
	Boxes         []Box   `json:"boxes"`
	TotalActualWt float64 `json:"totalActualWt" example:"4"`
	TotalVolWt    float64 `json:"totalVolWt" example:"1.2"`
	ChargeableWt  float64 `json:"chargeableWt" example:"4"`

	// Line items grouped by 1-based box number.
	ShipmentAndPackageDetails map[int][]LineItem `json:"shipmentAndPackageDetails"`
	TotalInvoiceValue         float64            `json:"totalInvoiceValue" example:"1500.00"`

	ReferenceNo     string `json:"referenceNo"`
	GoodsType       string `json:"goodstype" example:"NDOX"`
	InvoiceCurrency string `json:"invoiceCurrency" example:"INR"`
	InvoiceValue    string `json:"invoiceValue"`
	InvoiceNo       string `json:"invoiceNo"`
	OperationRemark string `json:"operationRemark"`
	CSB             string `json:"csb"`

	BookingDate  string `json:"bookingDate" example:"2024-01-15"`
	ShipmentDate string `json:"shipmentDate" example:"2024-01-15"`

	ReceiverPincode string `json:"receiverPincode" example:"10001"`
	ReceiverCountry string `json:"receiverCountry" example:"USA"`

	ConsigneeName         string `json:"consigneeName"`
	ConsigneeTelephone    string `json:"consigneeTelephone"`
	ConsigneeEmailID      string `json:"consigneeEmailId"`
	ConsigneeAddressLine1 string `json:"consigneeAddressLine1"`
	ConsigneeAddressLine2 string `json:"consigneeAddressLine2"`
	ConsigneeCity         string `json:"consigneeCity"`
	ConsigneeState        string `json:"consigneeState"`
	ConsigneeZipcode      string `json:"consigneeZipcode"`

	ConsignorName         string `json:"consignorName"`
	ConsignorTelephone    string `json:"consignorTelephone"`
	ConsignorAddressLine1 string `json:"consignorAddressLine1"`
	ConsignorAddressLine2 string `json:"consignorAddressLine2"`
	ConsignorCity         string `json:"consignorCity"`
	ConsignorState        string `json:"consignorState"`
	ConsignorPincode      string `json:"consignorPincode"`
	ConsignorKycType      string `json:"consignorKycType"`
	ConsignorKycNo        string `json:"consignorKycNo"`

	// Financial placeholders. Zero until the pricing service fills them in.
	BasicAmt      float64 `json:"basicAmt"`
	Sgst          float64 `json:"sgst"`
	Cgst          float64 `json:"cgst"`
	Igst          float64 `json:"igst"`
	TotalAmt      float64 `json:"totalAmt"`
	Zone          string  `json:"zone"`
	RateUsed      string  `json:"rateUsed"`
	FuelSurcharge float64 `json:"fuelSurcharge"`
	Discount      float64 `json:"discount"`
	OtherCharges  float64 `json:"otherCharges"`
	AmountPaid    float64 `json:"amountPaid"`
	BalanceAmount float64 `json:"balanceAmount"`
	PaymentMode   string  `json:"paymentMode"`
	PaymentStatus string  `json:"paymentStatus"`

	// Customs placeholders, filled post-booking by operations.
	ShippingBillNo   string `json:"shippingBillNo"`
	ShippingBillDate string `json:"shippingBillDate"`
	Gstin            string `json:"gstin"`
	IecNo            string `json:"iecNo"`
	LutNo            string `json:"lutNo"`
	MeisStatus       string `json:"meisStatus"`

	Status     string `json:"status" example:"PENDING"`
	CreatedBy  string `json:"createdBy"`
	UploadedAt string `json:"uploadedAt"`
}

// RowError is returned by the normalizer when a row fails validation. It
// carries everything the UI needs to point the user at the broken cell.
type RowError struct {
	RowNumber int    `json:"rowNumber" example:"5"`
	Field     string `json:"field" example:"ConsigneeZipcode"`
	Value     string `json:"value" example:"110001"`
	Message   string `json:"message"`
	RawData   RawRow `json:"rawData"`
}

func (e *RowError) Error() string {
	return e.Message
}

// RateProjection is the minimal view of a shipment sent to the pricing
// service for rate calculation.
type RateProjection struct {
	AwbNo             string  `json:"awbNo"`
	Sector            string  `json:"sector"`
	Destination       string  `json:"destination"`
	Service           string  `json:"service"`
	ChargeableWt      float64 `json:"chargeableWt"`
	Pcs               int     `json:"pcs"`
	TotalInvoiceValue float64 `json:"totalInvoiceValue"`
	Currency          string  `json:"currency"`
	Origin            string  `json:"origin"`
	GoodsType         string  `json:"goodstype"`
	ReceiverPincode   string  `json:"receiverPincode"`
	ReceiverCountry   string  `json:"receiverCountry"`
}

type RateRequest struct {
	Shipments   []RateProjection `json:"shipments"`
	AccountCode string           `json:"accountCode"`
}

type RateResult struct {
	AwbNo    string  `json:"awbNo"`
	Success  bool    `json:"success"`
	BasicAmt float64 `json:"basicAmt"`
	Sgst     float64 `json:"sgst"`
	Cgst     float64 `json:"cgst"`
	Igst     float64 `json:"igst"`
	TotalAmt float64 `json:"totalAmt"`
	Service  string  `json:"service"`
	Zone     string  `json:"zone"`
	RateUsed string  `json:"rateUsed"`
	Message  string  `json:"message,omitempty"`
}

type RateResponse struct {
	Success bool         `json:"success"`
	Results []RateResult `json:"results"`
	Summary string       `json:"summary,omitempty"`
}

type UploadRequest struct {
	Shipments      []ShipmentRecord `json:"shipments"`
	AccountCode    string           `json:"accountCode"`
	Timestamp      string           `json:"timestamp"`
	TotalShipments int              `json:"totalShipments"`
}

type BalanceUpdate struct {
	NewBalance float64 `json:"newBalance"`
	Difference float64 `json:"difference"`
}

type UploadResponse struct {
	Success       bool           `json:"success"`
	NewRecords    int            `json:"newRecords"`
	Duplicates    int            `json:"duplicates"`
	BalanceUpdate *BalanceUpdate `json:"balanceUpdate,omitempty"`
	Message       string         `json:"message,omitempty"`
}
