package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"portal-backend/models"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

var db *sql.DB

func InitDB() *sql.DB {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	connStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		user, password, dbname, host, port)

	var err error
	db, err = sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Connection pool sized for the portal's light request load
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	return db
}

func GetDB() *sql.DB {
	return db
}

// SaveSession saves a new session for a user. The portal allows one active
// session per account, so existing sessions are removed first.
func SaveSession(db *sql.DB, session *models.Session) error {
	deleteQuery := `DELETE FROM session WHERE user_id = $1`
	if _, err := db.Exec(deleteQuery, session.UserID); err != nil {
		return fmt.Errorf("failed to delete existing sessions: %v", err)
	}

	insertQuery := `INSERT INTO session (user_id, session_id, host_name, ip_address, timestp, expires_at, refresh_token, refresh_token_expires_at)
                    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := db.Exec(insertQuery, session.UserID, session.SessionID, session.HostName, session.IPAddress,
		session.Timestamp, session.ExpiresAt, session.RefreshToken, session.RefreshTokenExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert new session: %v", err)
	}
	return nil
}

// GetRefreshTokenBySession retrieves a valid refresh token for a session.
func GetRefreshTokenBySession(db *sql.DB, sessionID string) (string, error) {
	var refreshToken string
	err := db.QueryRow(`
		SELECT refresh_token FROM session
		WHERE session_id = $1 AND refresh_token_expires_at > NOW()`, sessionID).Scan(&refreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh token not found: %v", err)
	}
	return refreshToken, nil
}

// DeleteSessionByID deletes a specific session by session_id (logout).
func DeleteSessionByID(db *sql.DB, sessionID string) error {
	result, err := db.Exec(`DELETE FROM session WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("session not found or already deleted")
	}
	return nil
}

func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	var user models.User
	query := `SELECT id, account_code, email, password, suspended, balance FROM users WHERE LOWER(email) = LOWER($1)`

	err := db.QueryRow(query, email).Scan(&user.ID, &user.AccountCode, &user.Email, &user.Password, &user.Suspended, &user.Balance)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to query user: %v", err)
	}

	return &user, nil
}

// GetUserBySessionID retrieves the User bound to the given session ID.
// Suspended accounts are treated the same as a missing session.
func GetUserBySessionID(db *sql.DB, sessionID string) (*models.User, error) {
	query := `
		SELECT u.id, u.account_code, u.email, u.first_name, u.last_name, u.company_name,
			   u.created_at, u.updated_at, u.is_admin, u.address, u.city,
			   u.state, u.country, u.zip_code, u.phone_no, u.suspended, u.balance
		FROM session s
		JOIN users u ON s.user_id = u.id
		WHERE s.session_id = $1 AND s.expires_at > NOW()
	`

	var user models.User
	err := db.QueryRow(query, sessionID).Scan(
		&user.ID, &user.AccountCode, &user.Email, &user.FirstName,
		&user.LastName, &user.CompanyName, &user.CreatedAt, &user.UpdatedAt,
		&user.IsAdmin, &user.Address, &user.City,
		&user.State, &user.Country, &user.ZipCode,
		&user.PhoneNo, &user.Suspended, &user.Balance,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("user not found for the given session ID")
		}
		return nil, err
	}
	if user.Suspended {
		return nil, errors.New("account suspended")
	}

	return &user, nil
}

// UpdateUserBalance writes the new account balance reported by the shipment
// store after a bulk upload is booked.
func UpdateUserBalance(db *sql.DB, accountCode string, newBalance float64) error {
	result, err := db.Exec(`UPDATE users SET balance = $1, updated_at = NOW() WHERE account_code = $2`, newBalance, accountCode)
	if err != nil {
		return fmt.Errorf("failed to update balance: %v", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no account found with code %s", accountCode)
	}
	return nil
}

func CleanupExpiredSessions(db *sql.DB) error {
	threshold := time.Now().Add(-24 * time.Hour)
	_, err := db.Exec("DELETE FROM session WHERE expires_at < $1", threshold)
	return err
}

// SaveActivityLog inserts an activity log entry.
func SaveActivityLog(db *sql.DB, logEntry models.ActivityLog) error {
	query := `INSERT INTO activity_log (event_context, event_name, description, user_name, host_name, ip_address, account_code, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := db.Exec(query, logEntry.EventContext, logEntry.EventName, logEntry.Description,
		logEntry.UserName, logEntry.HostName, logEntry.IPAddress, logEntry.AccountCode, logEntry.CreatedAt)
	return err
}
