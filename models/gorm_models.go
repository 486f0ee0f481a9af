package models

import (
	"time"
)

// GORM-compatible models with proper tags

// BulkUploadBatch is one bulk-upload attempt recorded for the account's
// upload history screen. A row is written whether the batch succeeded or
// failed, so support can see what the user actually sent.
type BulkUploadBatch struct {
	ID          uint      `gorm:"primaryKey;column:id" json:"id"`
	BatchID     string    `gorm:"column:batch_id;uniqueIndex;not null" json:"batch_id"`
	AccountCode string    `gorm:"column:account_code;index;not null" json:"account_code"`
	FileName    string    `gorm:"column:file_name" json:"file_name"`
	TotalRows   int       `gorm:"column:total_rows;default:0" json:"total_rows"`
	InvalidRows int       `gorm:"column:invalid_rows;default:0" json:"invalid_rows"`
	NewRecords  int       `gorm:"column:new_records;default:0" json:"new_records"`
	Duplicates  int       `gorm:"column:duplicates;default:0" json:"duplicates"`
	TotalAmount float64   `gorm:"column:total_amount;default:0" json:"total_amount"`
	Status      string    `gorm:"column:status;not null;default:'pending'" json:"status"`
	ErrorDetail *string   `gorm:"column:error_detail" json:"error_detail,omitempty"`
	UploadedBy  string    `gorm:"column:uploaded_by" json:"uploaded_by"`
	CreatedAt   time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for BulkUploadBatch
func (BulkUploadBatch) TableName() string {
	return "bulk_upload_batches"
}

// Batch statuses written by the bulk-upload handlers.
const (
	BatchStatusCompleted        = "completed"
	BatchStatusValidationFailed = "validation_failed"
	BatchStatusRateFailed       = "rate_failed"
	BatchStatusSubmitFailed     = "submit_failed"
)
