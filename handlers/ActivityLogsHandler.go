package handlers

import (
	"database/sql"
	"math"
	"net/http"
	"strconv"

	"portal-backend/models"

	"github.com/gin-gonic/gin"
)

// Helper to fetch session details
func GetSessionDetails(db *sql.DB, sessionID string) (models.Session, string, error) {
	var session models.Session
	var userName string

	query := `
        SELECT s.user_id, CONCAT(u.first_name, ' ', u.last_name) AS user_name, s.host_name, s.ip_address
        FROM session s
        JOIN users u ON s.user_id = u.id
        WHERE s.session_id = $1`

	err := db.QueryRow(query, sessionID).Scan(
		&session.UserID,
		&userName,
		&session.HostName,
		&session.IPAddress,
	)
	if err != nil {
		return models.Session{}, "", err
	}
	return session, userName, nil
}

// GetActivityLogsHandler godoc
// @Summary      Get activity logs for an account
// @Tags         activity-logs
// @Param        account_code  query  string  false  "Account code"
// @Param        page          query  int     false  "Page"
// @Param        limit         query  int     false  "Limit"
// @Success      200  {object}  object
// @Router       /api/logs [get]
func GetActivityLogsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountCode := c.Query("account_code")

		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit < 1 {
			limit = 10
		}
		offset := (page - 1) * limit

		var totalRecords int
		countQuery := `SELECT COUNT(*) FROM activity_log WHERE ($1 = '' OR account_code = $1)`
		if err := db.QueryRow(countQuery, accountCode).Scan(&totalRecords); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting logs"})
			return
		}

		totalPages := int(math.Ceil(float64(totalRecords) / float64(limit)))

		query := `
			SELECT id, created_at, user_name, host_name, event_context, ip_address,
				   description, event_name, account_code
			FROM activity_log
			WHERE ($1 = '' OR account_code = $1)
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`

		rows, err := db.Query(query, accountCode, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error querying logs"})
			return
		}
		defer rows.Close()

		var logs []models.ActivityLog
		for rows.Next() {
			var (
				logEntry     models.ActivityLog
				userName     sql.NullString
				hostName     sql.NullString
				eventContext sql.NullString
				ipAddress    sql.NullString
				description  sql.NullString
				eventName    sql.NullString
				account      sql.NullString
			)

			err := rows.Scan(
				&logEntry.ID, &logEntry.CreatedAt, &userName, &hostName, &eventContext, &ipAddress,
				&description, &eventName, &account,
			)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning logs"})
				return
			}

			logEntry.UserName = getStringOrEmpty(userName)
			logEntry.HostName = getStringOrEmpty(hostName)
			logEntry.EventContext = getStringOrEmpty(eventContext)
			logEntry.IPAddress = getStringOrEmpty(ipAddress)
			logEntry.Description = getStringOrEmpty(description)
			logEntry.EventName = getStringOrEmpty(eventName)
			logEntry.AccountCode = getStringOrEmpty(account)

			logs = append(logs, logEntry)
		}

		c.JSON(http.StatusOK, gin.H{
			"logs": logs,
			"pagination": gin.H{
				"current_page":  page,
				"page_size":     limit,
				"total_records": totalRecords,
				"total_pages":   totalPages,
				"has_next":      page < totalPages,
				"has_prev":      page > 1,
			},
		})
	}
}

func getStringOrEmpty(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
