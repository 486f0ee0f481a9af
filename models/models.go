package models

import (
	"time"
)

type User struct {
	ID          int       `json:"id" example:"1"`
	AccountCode string    `json:"account_code" example:"ACC001"`
	Email       string    `json:"email" example:"user@example.com"`
	Password    string    `json:"password" example:""`
	FirstName   string    `json:"first_name" example:"John"`
	LastName    string    `json:"last_name" example:"Doe"`
	CompanyName string    `json:"company_name" example:"Acme Exports"`
	CreatedAt   time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt   time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
	LastAccess  time.Time `json:"last_access,omitempty" example:"2024-01-15T10:30:00Z"`
	IsAdmin     bool      `json:"is_admin" example:"false"`
	Address     string    `json:"address" example:"123 Main St"`
	City        string    `json:"city" example:"Mumbai"`
	State       string    `json:"state" example:"Maharashtra"`
	Country     string    `json:"country" example:"India"`
	ZipCode     string    `json:"zip_code" example:"400001"`
	PhoneNo     string    `json:"phone_no" example:"9876543210"`
	Suspended   bool      `json:"suspended" example:"false"`
	Balance     float64   `json:"balance" example:"2500.00"`
}

type Session struct {
	UserID                int       `json:"user_id"`
	SessionID             string    `json:"session_id"`
	HostName              string    `json:"host_name"`
	IPAddress             string    `json:"ip_address"`
	Timestamp             time.Time `json:"timestp"`
	ExpiresAt             time.Time `json:"expires_at"`
	RefreshToken          string    `json:"refresh_token,omitempty"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at,omitempty"`
}

// Address is a saved receiver address from the account's address book.
// Saved addresses pre-fill the consignee columns of the bulk-upload template.
type Address struct {
	ID           int       `json:"id" example:"1"`
	AccountCode  string    `json:"account_code" example:"ACC001"`
	Nickname     string    `json:"nickname" example:"NYC Warehouse"`
	Name         string    `json:"name" example:"John Smith"`
	Telephone    string    `json:"telephone" example:"+1 212 555 0100"`
	EmailID      string    `json:"email_id" example:"john@example.com"`
	AddressLine1 string    `json:"address_line1" example:"350 5th Ave"`
	AddressLine2 string    `json:"address_line2" example:"Suite 6100"`
	City         string    `json:"city" example:"New York"`
	State        string    `json:"state" example:"NY"`
	Country      string    `json:"country" example:"USA"`
	ZipCode      string    `json:"zip_code" example:"10118"`
	IsDefault    bool      `json:"is_default" example:"false"`
	CreatedAt    time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt    time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

type ActivityLog struct {
	ID           int       `json:"id" example:"1"`
	CreatedAt    time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UserName     string    `json:"user_name" example:"John Doe"`
	HostName     string    `json:"host_name" example:"workstation-01"`
	EventContext string    `json:"event_context" example:"bulk-upload"`
	IPAddress    string    `json:"ip_address" example:"192.168.1.1"`
	Description  string    `json:"description" example:"User uploaded 25 shipments"`
	EventName    string    `json:"event_name" example:"upload"`
	AccountCode  string    `json:"account_code" example:"ACC001"`
}
