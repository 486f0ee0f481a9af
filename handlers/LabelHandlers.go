package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"net/http"
	"strconv"
	"strings"

	"portal-backend/models"
	"portal-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// addLabel adds text to an image at the specified position with larger font
func addLabel(img *image.RGBA, x, y int, label string, fontSize float64) {
	col := color.RGBA{0, 0, 0, 255}

	// Use inconsolata font which is larger and more readable
	face := inconsolata.Regular8x16
	if fontSize > 16 {
		face = inconsolata.Bold8x16
	}

	point := fixed.Point26_6{
		X: fixed.Int26_6(x * 64),
		Y: fixed.Int26_6(y * 64),
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  point,
	}
	d.DrawString(label)
}

// addLabelBold adds bold text with larger font for labels
func addLabelBold(img *image.RGBA, x, y int, label string) {
	col := color.RGBA{30, 30, 30, 255}
	face := inconsolata.Bold8x16

	point := fixed.Point26_6{
		X: fixed.Int26_6(x * 64),
		Y: fixed.Int26_6(y * 64),
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  point,
	}
	d.DrawString(label)
}

func truncateLabel(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

// GenerateShipmentLabelJPEG godoc
// @Summary      Generate a QR shipment label as JPEG
// @Description  Renders a scannable QR code carrying the AWB number with the routing summary printed below it.
// @Tags         labels
// @Accept       json
// @Produce      jpeg
// @Param        shipment  body  models.ShipmentRecord  true  "Shipment"
// @Success      200  {file}    file  "JPEG image"
// @Failure      400  {object}  object
// @Failure      401  {object}  object
// @Router       /api/labels/qr [post]
func GenerateShipmentLabelJPEG(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		user, err := storage.GetUserBySessionID(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		var shipment models.ShipmentRecord
		if err := c.ShouldBindJSON(&shipment); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}
		if shipment.AwbNo == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "awbNo is required"})
			return
		}

		qrData := struct {
			AwbNo       string `json:"awbNo"`
			AccountCode string `json:"accountCode"`
			Destination string `json:"destination"`
			Pcs         int    `json:"pcs"`
		}{
			AwbNo:       shipment.AwbNo,
			AccountCode: user.AccountCode,
			Destination: shipment.Destination,
			Pcs:         shipment.Pcs,
		}

		jsonData, err := json.Marshal(qrData)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to marshal shipment data"})
			return
		}

		qr, err := qrcode.New(string(jsonData), qrcode.Medium)
		if err != nil {
			c.String(http.StatusInternalServerError, "QR code generation failed")
			return
		}

		qrImg := qr.Image(512)

		qrSize := qrImg.Bounds().Dy()
		padding := 30
		lineHeight := 28
		textAreaHeight := 5*lineHeight + padding
		totalHeight := qrSize + padding + textAreaHeight

		combinedImg := image.NewRGBA(image.Rect(0, 0, qrSize, totalHeight))
		draw.Draw(combinedImg, combinedImg.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

		qrRect := image.Rect(0, 0, qrSize, qrSize)
		draw.Draw(combinedImg, qrRect, qrImg, image.Point{}, draw.Src)

		// Separator line between QR code and text
		separatorY := qrSize + padding/2
		for x := 0; x < qrSize; x++ {
			combinedImg.Set(x, separatorY, color.RGBA{200, 200, 200, 255})
		}

		startY := qrSize + padding + lineHeight
		xPos := 20

		addLabelBold(combinedImg, xPos, startY, "AWB No:")
		addLabel(combinedImg, xPos+140, startY, truncateLabel(shipment.AwbNo, 30), 16)

		addLabelBold(combinedImg, xPos, startY+lineHeight, "Consignee:")
		addLabel(combinedImg, xPos+140, startY+lineHeight, truncateLabel(shipment.ConsigneeName, 28), 16)

		addLabelBold(combinedImg, xPos, startY+2*lineHeight, "Destination:")
		destDisplay := shipment.Destination
		if shipment.ReceiverCountry != "" {
			destDisplay = fmt.Sprintf("%s, %s", shipment.Destination, shipment.ReceiverCountry)
		}
		addLabel(combinedImg, xPos+140, startY+2*lineHeight, truncateLabel(destDisplay, 28), 16)

		addLabelBold(combinedImg, xPos, startY+3*lineHeight, "Zip Code:")
		addLabel(combinedImg, xPos+140, startY+3*lineHeight, shipment.ConsigneeZipcode, 16)

		addLabelBold(combinedImg, xPos, startY+4*lineHeight, "Pcs / Chg Wt:")
		addLabel(combinedImg, xPos+140, startY+4*lineHeight,
			fmt.Sprintf("%d / %.0f kg", shipment.Pcs, shipment.ChargeableWt), 16)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, combinedImg, nil); err != nil {
			c.String(http.StatusInternalServerError, "JPEG encoding failed")
			return
		}

		c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
	}
}

// GenerateShipmentLabelPDF godoc
// @Summary      Generate an A6 shipment label as PDF
// @Tags         labels
// @Accept       json
// @Produce      application/pdf
// @Param        shipment  body  models.ShipmentRecord  true  "Shipment"
// @Success      200  "PDF file"
// @Failure      400  {object}  object
// @Failure      401  {object}  object
// @Router       /api/labels/pdf [post]
func GenerateShipmentLabelPDF(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		_, err := storage.GetUserBySessionID(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		var shipment models.ShipmentRecord
		if err := c.ShouldBindJSON(&shipment); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}
		if shipment.AwbNo == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "awbNo is required"})
			return
		}

		titleCaser := cases.Title(language.Und)

		pdf := gofpdf.New("P", "mm", "A6", "")
		pdf.AddPage()
		pdf.SetMargins(8, 8, 8)

		// --- Header ---
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(89, 8, "SHIPPING LABEL")
		pdf.Ln(10)

		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(89, 7, shipment.AwbNo)
		pdf.Ln(9)

		// --- Routing ---
		pdf.SetFont("Arial", "", 9)
		pdf.Cell(25, 6, "Service:")
		pdf.SetFont("Arial", "B", 9)
		pdf.Cell(64, 6, shipment.Service)
		pdf.Ln(6)

		pdf.SetFont("Arial", "", 9)
		pdf.Cell(25, 6, "Route:")
		pdf.SetFont("Arial", "B", 9)
		pdf.Cell(64, 6, fmt.Sprintf("%s -> %s", shipment.Origin, shipment.Destination))
		pdf.Ln(8)

		// --- Consignee ---
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(89, 6, "Deliver To")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(89, 5, strings.TrimSpace(fmt.Sprintf("%s\n%s %s\n%s, %s %s\n%s",
			titleCaser.String(strings.ToLower(shipment.ConsigneeName)),
			shipment.ConsigneeAddressLine1, shipment.ConsigneeAddressLine2,
			titleCaser.String(strings.ToLower(shipment.ConsigneeCity)),
			shipment.ConsigneeState, shipment.ConsigneeZipcode,
			shipment.ReceiverCountry)), "", "L", false)
		if shipment.ConsigneeTelephone != "" {
			pdf.Cell(89, 5, "Tel: "+shipment.ConsigneeTelephone)
			pdf.Ln(7)
		} else {
			pdf.Ln(2)
		}

		// --- Sender ---
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(89, 6, "From")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(89, 5, strings.TrimSpace(fmt.Sprintf("%s\n%s, %s %s",
			titleCaser.String(strings.ToLower(shipment.ConsignorName)),
			titleCaser.String(strings.ToLower(shipment.ConsignorCity)),
			shipment.ConsignorState, shipment.ConsignorPincode)), "", "L", false)
		pdf.Ln(2)

		// --- Package table ---
		pdf.SetFillColor(230, 230, 230)
		pdf.SetFont("Arial", "B", 8)
		pdf.CellFormat(20, 6, "Pcs", "1", 0, "C", true, 0, "")
		pdf.CellFormat(23, 6, "Actual Wt", "1", 0, "C", true, 0, "")
		pdf.CellFormat(23, 6, "Vol Wt", "1", 0, "C", true, 0, "")
		pdf.CellFormat(23, 6, "Chg Wt", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(20, 6, strconv.Itoa(shipment.Pcs), "1", 0, "C", false, 0, "")
		pdf.CellFormat(23, 6, fmt.Sprintf("%.2f", shipment.TotalActualWt), "1", 0, "C", false, 0, "")
		pdf.CellFormat(23, 6, fmt.Sprintf("%.2f", shipment.TotalVolWt), "1", 0, "C", false, 0, "")
		pdf.CellFormat(23, 6, fmt.Sprintf("%.0f", shipment.ChargeableWt), "1", 1, "C", false, 0, "")
		pdf.Ln(2)

		if shipment.ReferenceNo != "" {
			pdf.SetFont("Arial", "", 8)
			pdf.Cell(89, 5, "Ref: "+shipment.ReferenceNo)
			pdf.Ln(5)
		}

		// --- Output PDF ---
		c.Header("Content-Type", "application/pdf")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=label_%s.pdf", shipment.AwbNo))
		if err := pdf.Output(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
			return
		}
	}
}
