package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"portal-backend/models"
	"portal-backend/storage"

	"github.com/gin-gonic/gin"
)

// CreateAddress godoc
// @Summary      Save a receiver address to the address book
// @Tags         address-book
// @Accept       json
// @Produce      json
// @Param        address  body  models.Address  true  "Address"
// @Success      200  {object}  object
// @Failure      400  {object}  object
// @Failure      401  {object}  object
// @Router       /api/addresses [post]
func CreateAddress(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		user, err := storage.GetUserBySessionID(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		var address models.Address
		if err := c.ShouldBindJSON(&address); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}
		if address.Name == "" || address.AddressLine1 == "" || address.ZipCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, address_line1 and zip_code are required"})
			return
		}

		address.AccountCode = user.AccountCode
		address.CreatedAt = time.Now()
		address.UpdatedAt = time.Now()

		// Only one default address per account
		if address.IsDefault {
			if _, err := db.Exec(`UPDATE address_book SET is_default = false WHERE account_code = $1`, user.AccountCode); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset default address", "details": err.Error()})
				return
			}
		}

		query := `
			INSERT INTO address_book (account_code, nickname, name, telephone, email_id,
				address_line1, address_line2, city, state, country, zip_code, is_default, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING id`
		err = db.QueryRow(query,
			address.AccountCode, address.Nickname, address.Name, address.Telephone, address.EmailID,
			address.AddressLine1, address.AddressLine2, address.City, address.State, address.Country,
			address.ZipCode, address.IsDefault, address.CreatedAt, address.UpdatedAt,
		).Scan(&address.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save address", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Address saved successfully", "address": address})
	}
}

// GetAddresses godoc
// @Summary      List saved addresses for the account
// @Tags         address-book
// @Produce      json
// @Success      200  {object}  object
// @Failure      401  {object}  object
// @Router       /api/addresses [get]
func GetAddresses(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		user, err := storage.GetUserBySessionID(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		query := `
			SELECT id, account_code, nickname, name, telephone, email_id,
				   address_line1, address_line2, city, state, country, zip_code, is_default, created_at, updated_at
			FROM address_book
			WHERE account_code = $1
			ORDER BY is_default DESC, nickname ASC`
		rows, err := db.Query(query, user.AccountCode)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch addresses", "details": err.Error()})
			return
		}
		defer rows.Close()

		var addresses []models.Address
		for rows.Next() {
			var a models.Address
			err := rows.Scan(&a.ID, &a.AccountCode, &a.Nickname, &a.Name, &a.Telephone, &a.EmailID,
				&a.AddressLine1, &a.AddressLine2, &a.City, &a.State, &a.Country, &a.ZipCode,
				&a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan address", "details": err.Error()})
				return
			}
			addresses = append(addresses, a)
		}

		c.JSON(http.StatusOK, gin.H{"addresses": addresses, "count": len(addresses)})
	}
}

// UpdateAddress godoc
// @Summary      Update a saved address
// @Tags         address-book
// @Accept       json
// @Produce      json
// @Param        id       path  int             true  "Address ID"
// @Param        address  body  models.Address  true  "Address"
// @Success      200  {object}  object
// @Failure      400  {object}  object
// @Failure      404  {object}  object
// @Router       /api/addresses/{id} [put]
func UpdateAddress(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		user, err := storage.GetUserBySessionID(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address id"})
			return
		}

		var address models.Address
		if err := c.ShouldBindJSON(&address); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		if address.IsDefault {
			if _, err := db.Exec(`UPDATE address_book SET is_default = false WHERE account_code = $1`, user.AccountCode); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset default address", "details": err.Error()})
				return
			}
		}

		query := `
			UPDATE address_book
			SET nickname = $1, name = $2, telephone = $3, email_id = $4,
				address_line1 = $5, address_line2 = $6, city = $7, state = $8,
				country = $9, zip_code = $10, is_default = $11, updated_at = $12
			WHERE id = $13 AND account_code = $14`
		result, err := db.Exec(query,
			address.Nickname, address.Name, address.Telephone, address.EmailID,
			address.AddressLine1, address.AddressLine2, address.City, address.State,
			address.Country, address.ZipCode, address.IsDefault, time.Now(),
			id, user.AccountCode)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update address", "details": err.Error()})
			return
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Address updated successfully"})
	}
}

// DeleteAddress godoc
// @Summary      Delete a saved address
// @Tags         address-book
// @Produce      json
// @Param        id  path  int  true  "Address ID"
// @Success      200  {object}  object
// @Failure      404  {object}  object
// @Router       /api/addresses/{id} [delete]
func DeleteAddress(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		user, err := storage.GetUserBySessionID(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address id"})
			return
		}

		result, err := db.Exec(`DELETE FROM address_book WHERE id = $1 AND account_code = $2`, id, user.AccountCode)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete address", "details": err.Error()})
			return
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Address deleted successfully"})
	}
}
