// @title           Shipment Portal API
// @version         1.0
// @description     Customer portal backend for bulk shipment upload, rating and booking.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "portal-backend/docs"
	"portal-backend/handlers"
	"portal-backend/services"
	"portal-backend/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://localhost:8080",
	}
	if extra := os.Getenv("CORS_ALLOWED_ORIGIN"); extra != "" {
		corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, extra)
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding",
		"Accept", "Origin", "X-Requested-With", "Authorization", "User-Agent",
		"Cache-Control", "Referer",
		"Access-Control-Request-Method", "Access-Control-Request-Headers",
	}
	corsConfig.AllowMethods = []string{
		"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length", "Authorization", "Content-Type", "Content-Disposition",
	}
	return corsConfig
}

// resetBaseURL is the frontend path password reset tokens are appended to.
func resetBaseURL() string {
	if url := os.Getenv("FRONTEND_RESET_URL"); url != "" {
		return url
	}
	return "http://localhost:3000/reset-password/"
}

func main() {
	db := storage.InitDB()
	gdb := storage.InitGormDB()

	shipmentAPI := os.Getenv("SHIPMENT_API_SERVER")
	if shipmentAPI == "" {
		shipmentAPI = "http://localhost:8081"
		log.Printf("SHIPMENT_API_SERVER not set, defaulting to %s", shipmentAPI)
	}
	rateService := services.NewRateService(shipmentAPI)
	uploadService := services.NewUploadService(shipmentAPI)

	emailService := services.NewEmailService()
	if emailService == nil {
		log.Println("SMTP not configured, upload summary emails disabled")
	}

	// Nightly session cleanup
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))),
	)
	_, err := c.AddFunc("30 2 * * *", func() {
		if err := storage.CleanupExpiredSessions(db); err != nil {
			log.Printf("Session cleanup failed: %v", err)
			return
		}
		log.Println("Expired sessions cleaned up")
	})
	if err != nil {
		log.Fatalf("Failed to schedule session cleanup: %v", err)
	}
	c.Start()

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(CORSConfig()))

	// ==================== 1. AUTH & SESSION ====================
	r.POST("/api/login", handlers.LoginHandler(db))
	r.POST("/api/refresh-token", handlers.RefreshTokenHandler(db))
	r.POST("/api/validate-session", handlers.ValidateSession(db))
	r.POST("/api/logout", handlers.LogoutHandler(db))
	r.GET("/api/get_user", handlers.GetUserFromSession(db))
	r.POST("/api/auth/forgot-password", handlers.ForgetPasswordHandler(db, emailService, resetBaseURL()))
	r.POST("/api/auth/reset-password/:token", handlers.ResetPasswordHandler(db))
	r.POST("/api/change_password", handlers.ChangePasswordHandler(db))

	// ==================== 2. BULK UPLOAD ====================
	r.POST("/api/bulk-upload/parse", handlers.ParseBulkUpload(db))
	r.POST("/api/bulk-upload/submit", handlers.SubmitBulkUpload(db, gdb, rateService, uploadService, emailService))
	r.GET("/api/bulk-upload/history", handlers.GetBulkUploadHistory(db, gdb))
	r.GET("/api/bulk-upload/template", handlers.DownloadBulkUploadTemplate)

	// ==================== 3. RATES ====================
	r.POST("/api/rates/quote", handlers.CalculateRateQuote(db, rateService))

	// ==================== 4. ADDRESS BOOK ====================
	r.POST("/api/addresses", handlers.CreateAddress(db))
	r.GET("/api/addresses", handlers.GetAddresses(db))
	r.PUT("/api/addresses/:id", handlers.UpdateAddress(db))
	r.DELETE("/api/addresses/:id", handlers.DeleteAddress(db))

	// ==================== 5. LABELS ====================
	r.POST("/api/labels/qr", handlers.GenerateShipmentLabelJPEG(db))
	r.POST("/api/labels/pdf", handlers.GenerateShipmentLabelPDF(db))

	// ==================== 6. ACTIVITY LOGS ====================
	r.GET("/api/activity-logs", handlers.GetActivityLogsHandler(db))

	// ==================== 7. SWAGGER ====================
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}
	portInt, err := strconv.Atoi(port)
	if err != nil {
		log.Fatalf("Invalid PORT environment variable: %s. Must be a number.", port)
	}
	if portInt < 0 || portInt > 65535 {
		log.Fatalf("Invalid PORT: %d. Must be between 0 and 65535.", portInt)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cronCtx := c.Stop()
	select {
	case <-cronCtx.Done():
	case <-time.After(10 * time.Second):
		log.Println("Cron jobs did not finish in time")
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}
