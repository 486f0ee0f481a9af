package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"portal-backend/bulkupload"
	"portal-backend/models"
	"portal-backend/services"
	"portal-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ParseBulkUpload godoc
// @Summary      Parse and validate a bulk-upload spreadsheet
// @Description  Parses the uploaded .xlsx/.xls file, validates every row and returns the normalized shipments plus any validation errors. Nothing is submitted.
// @Tags         bulk-upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Shipment spreadsheet"
// @Success      200  {object}  object
// @Failure      400  {object}  object
// @Failure      401  {object}  object
// @Router       /api/bulk-upload/parse [post]
func ParseBulkUpload(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session_id header is missing"})
			return
		}
		user, err := storage.GetUserBySessionID(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file not found"})
			return
		}

		src, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to open file"})
			return
		}
		defer src.Close()

		session := bulkupload.NewUploadSession(user.AccountCode, fileHeader.Filename)
		if err := session.Read(src); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read spreadsheet", "details": err.Error()})
			return
		}
		session.Normalize()

		c.JSON(http.StatusOK, gin.H{
			"fileName":         session.FileName,
			"totalRows":        len(session.Rows),
			"validShipments":   session.Shipments,
			"validationErrors": session.ValidationErrors,
			"uploadBlocked":    len(session.ValidationErrors) > 0,
		})
	}
}

// SubmitBulkUpload godoc
// @Summary      Run the full bulk-upload pipeline
// @Description  Reads, validates and normalizes the spreadsheet, fetches rates for the whole batch and submits it to the shipment store. All-or-nothing per stage: any invalid row or unrated shipment aborts the upload.
// @Tags         bulk-upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        file                 formData  file    true   "Shipment spreadsheet"
// @Param        confirm_zero_amount  formData  string  false  "Set to true to proceed when rated totals are all zero"
// @Success      200  {object}  object
// @Failure      400  {object}  object
// @Failure      401  {object}  object
// @Failure      409  {object}  object
// @Failure      502  {object}  object
// @Router       /api/bulk-upload/submit [post]
func SubmitBulkUpload(db *sql.DB, gdb *gorm.DB, rateService *services.RateService, uploadService *services.UploadService, emailService *services.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session_id header is missing"})
			return
		}
		user, err := storage.GetUserBySessionID(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}
		userName := fmt.Sprintf("%s %s", user.FirstName, user.LastName)

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file not found"})
			return
		}
		confirmZeroAmount := c.PostForm("confirm_zero_amount") == "true"

		src, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to open file"})
			return
		}
		defer src.Close()

		batch := models.BulkUploadBatch{
			BatchID:     uuid.NewString(),
			AccountCode: user.AccountCode,
			FileName:    fileHeader.Filename,
			UploadedBy:  userName,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		session := bulkupload.NewUploadSession(user.AccountCode, fileHeader.Filename)
		if err := session.Read(src); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read spreadsheet", "details": err.Error()})
			return
		}
		session.Normalize()
		batch.TotalRows = len(session.Rows)
		batch.InvalidRows = len(session.ValidationErrors)

		// Any invalid row blocks the whole batch. The valid rows are not
		// uploaded on their own; the user must fix the file and retry.
		if err := session.CanSubmit(); err != nil {
			saveBatch(gdb, batch, models.BatchStatusValidationFailed, err.Error())
			c.JSON(http.StatusBadRequest, gin.H{
				"error":            err.Error(),
				"validationErrors": session.ValidationErrors,
			})
			return
		}

		ctx := c.Request.Context()

		// Rate calculation is all-or-nothing for the batch.
		if err := session.Rate(ctx, rateService); err != nil {
			saveBatch(gdb, batch, models.BatchStatusRateFailed, err.Error())
			c.JSON(http.StatusBadGateway, gin.H{"error": "Rate calculation failed", "details": err.Error()})
			return
		}

		// Rates came back but every total is zero. Ask the user to confirm
		// before booking a free batch.
		if session.HasZeroRateTotals() && !confirmZeroAmount {
			c.JSON(http.StatusConflict, gin.H{
				"warning":              "Rate calculation returned zero amounts for all shipments. Re-submit with confirm_zero_amount=true to proceed anyway.",
				"requiresConfirmation": true,
			})
			return
		}

		var totalAmount float64
		for _, s := range session.Shipments {
			totalAmount += s.TotalAmt
		}
		batch.TotalAmount = totalAmount

		resp, err := session.Submit(ctx, uploadService)
		if err != nil {
			saveBatch(gdb, batch, models.BatchStatusSubmitFailed, err.Error())
			c.JSON(http.StatusBadGateway, gin.H{"error": "Upload failed", "details": err.Error()})
			return
		}
		if !resp.Success {
			saveBatch(gdb, batch, models.BatchStatusSubmitFailed, resp.Message)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Upload rejected by shipment store", "details": resp.Message})
			return
		}

		batch.NewRecords = resp.NewRecords
		batch.Duplicates = resp.Duplicates
		saveBatch(gdb, batch, models.BatchStatusCompleted, "")

		if resp.BalanceUpdate != nil {
			if err := storage.UpdateUserBalance(db, user.AccountCode, resp.BalanceUpdate.NewBalance); err != nil {
				log.Printf("Failed to update balance for account %s: %v", user.AccountCode, err)
			}
		}

		activityLog := models.ActivityLog{
			EventContext: "Bulk Upload",
			EventName:    "Upload",
			Description:  fmt.Sprintf("User uploaded %d shipments (%d duplicates) from %s", resp.NewRecords, resp.Duplicates, fileHeader.Filename),
			UserName:     userName,
			HostName:     c.Request.Host,
			IPAddress:    c.ClientIP(),
			AccountCode:  user.AccountCode,
			CreatedAt:    time.Now(),
		}
		if logErr := storage.SaveActivityLog(db, activityLog); logErr != nil {
			log.Printf("Failed to log bulk upload activity: %v", logErr)
		}

		if emailService != nil && user.Email != "" {
			if mailErr := emailService.SendBulkUploadSummary(user.Email, userName, &batch, resp); mailErr != nil {
				log.Printf("Failed to send bulk upload summary email: %v", mailErr)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       fmt.Sprintf("Successfully uploaded %d shipments", resp.NewRecords),
			"batchId":       batch.BatchID,
			"newRecords":    resp.NewRecords,
			"duplicates":    resp.Duplicates,
			"balanceUpdate": resp.BalanceUpdate,
		})
	}
}

// saveBatch records the outcome of a bulk-upload attempt. Failures to write
// history never fail the upload itself.
func saveBatch(gdb *gorm.DB, batch models.BulkUploadBatch, status, errorDetail string) {
	batch.Status = status
	batch.UpdatedAt = time.Now()
	if errorDetail != "" {
		batch.ErrorDetail = &errorDetail
	}
	if err := gdb.Create(&batch).Error; err != nil {
		log.Printf("Failed to save bulk upload batch %s: %v", batch.BatchID, err)
	}
}

// GetBulkUploadHistory godoc
// @Summary      List past bulk-upload batches for the account
// @Tags         bulk-upload
// @Produce      json
// @Success      200  {object}  object
// @Failure      401  {object}  object
// @Router       /api/bulk-upload/history [get]
func GetBulkUploadHistory(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session_id header is missing"})
			return
		}
		user, err := storage.GetUserBySessionID(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		var batches []models.BulkUploadBatch
		if err := gdb.Where("account_code = ?", user.AccountCode).
			Order("created_at DESC").
			Limit(50).
			Find(&batches).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching upload history", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"batches": batches, "count": len(batches)})
	}
}

// DownloadBulkUploadTemplate godoc
// @Summary      Download an empty bulk-upload XLSX template
// @Tags         bulk-upload
// @Produce      application/octet-stream
// @Success      200  {file}  file  "XLSX template"
// @Router       /api/bulk-upload/template [get]
func DownloadBulkUploadTemplate(c *gin.Context) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing template file: %v", err)
		}
	}()

	sheet := "Shipments"
	index, err := f.NewSheet(sheet)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating template sheet"})
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, col := range bulkupload.TemplateColumns {
		cellName, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cellName, col)
	}

	// One sample row so users see the multi-value cell convention for
	// per-box dimensions and line items.
	sample := map[string]string{
		"PCS":              "2",
		"Length":           "30,30",
		"Breadth":          "20,20",
		"Height":           "10,10",
		"ActualWeight":     "2.5,2.5",
		"ShipmentContent":  "Cotton T-Shirts,Denim Jeans",
		"HSNCode":          "610910,620342",
		"Quantity":         "10,5",
		"Rate":             "150,400",
		"Sector":           "DEL",
		"Origin":           "DELHI",
		"Destination":      "NEW YORK",
		"GoodsType":        "NDOX",
		"InvoiceCurrency":  "INR",
		"ServiceName":      "EXP",
		"ConsigneeZipcode": "10001",
	}
	for i, col := range bulkupload.TemplateColumns {
		if value, ok := sample[col]; ok {
			cellName, _ := excelize.CoordinatesToCellName(i+1, 2)
			f.SetCellValue(sheet, cellName, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment;filename=bulk_upload_template.xlsx")
	if err := f.Write(c.Writer); err != nil {
		log.Printf("Error writing template download: %v", err)
	}
}
