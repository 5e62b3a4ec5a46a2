package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SubmissionEvent mirrors the payload the notifier posts for each
// accepted contact submission.
type SubmissionEvent struct {
	SubmissionID    int64     `json:"submission_id" binding:"required"`
	Name            string    `json:"name"`
	Email           string    `json:"email" binding:"required"`
	Company         string    `json:"company"`
	ServiceInterest string    `json:"service_interest"`
	ReceivedAt      time.Time `json:"received_at"`
}

// ReceiptResponse is returned for every accepted webhook delivery.
type ReceiptResponse struct {
	ReceiptID    string    `json:"receipt_id"`
	SubmissionID int64     `json:"submission_id"`
	ReceiverID   string    `json:"receiver_id"`
	ProcessedAt  time.Time `json:"processed_at"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status     string    `json:"status"`
	ReceiverID string    `json:"receiver_id"`
	Timestamp  time.Time `json:"timestamp"`
	AcceptRate float64   `json:"accept_rate"`
	Received   int64     `json:"received"`
}

// MockReceiver simulates a downstream CRM webhook endpoint
type MockReceiver struct {
	acceptRate float64
	minDelay   time.Duration
	maxDelay   time.Duration
	receiverID string
	received   atomic.Int64
	rng        *rand.Rand
}

func NewMockReceiver(acceptRate float64, minDelay, maxDelay time.Duration) *MockReceiver {
	return &MockReceiver{
		acceptRate: acceptRate,
		minDelay:   minDelay,
		maxDelay:   maxDelay,
		receiverID: "MOCK_RECEIVER_" + uuid.New().String()[:8],
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (m *MockReceiver) randomDelay() time.Duration {
	if m.maxDelay <= m.minDelay {
		return m.minDelay
	}
	delta := m.maxDelay - m.minDelay
	return m.minDelay + time.Duration(m.rng.Int63n(int64(delta)))
}

func (m *MockReceiver) shouldAccept() bool {
	return m.rng.Float64() < m.acceptRate
}

// Handler struct holds the mock receiver and routes
type Handler struct {
	receiver *MockReceiver
}

func NewHandler(receiver *MockReceiver) *Handler {
	return &Handler{receiver: receiver}
}

// ReceiveSubmission handles webhook deliveries from the notifier
func (h *Handler) ReceiveSubmission(c *gin.Context) {
	var event SubmissionEvent

	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	// Simulate downstream processing latency
	time.Sleep(h.receiver.randomDelay())

	if !h.receiver.shouldAccept() {
		log.Warn().
			Int64("submission_id", event.SubmissionID).
			Str("email", event.Email).
			Msg("Webhook delivery rejected")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Receiver temporarily unavailable",
		})
		return
	}

	h.receiver.received.Add(1)

	log.Info().
		Int64("submission_id", event.SubmissionID).
		Str("email", event.Email).
		Str("service_interest", event.ServiceInterest).
		Msg("Submission event received")

	c.JSON(http.StatusOK, ReceiptResponse{
		ReceiptID:    uuid.New().String(),
		SubmissionID: event.SubmissionID,
		ReceiverID:   h.receiver.receiverID,
		ProcessedAt:  time.Now(),
	})
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(c *gin.Context) {
	// Simulate 5% downtime
	if h.receiver.rng.Float64() < 0.05 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  "Receiver temporarily unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:     "healthy",
		ReceiverID: h.receiver.receiverID,
		Timestamp:  time.Now(),
		AcceptRate: h.receiver.acceptRate,
		Received:   h.receiver.received.Load(),
	})
}

// UpdateConfig allows changing receiver configuration at runtime
func (h *Handler) UpdateConfig(c *gin.Context) {
	var config struct {
		AcceptRate *float64 `json:"accept_rate"`
	}

	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if config.AcceptRate != nil {
		if *config.AcceptRate >= 0 && *config.AcceptRate <= 1.0 {
			h.receiver.acceptRate = *config.AcceptRate
			log.Info().Float64("rate", *config.AcceptRate).Msg("Updated accept rate")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Configuration updated",
		"accept_rate": h.receiver.acceptRate,
	})
}

// SetupRouter configures all routes
func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	// Add request logging middleware
	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("Request processed")
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/webhooks/submissions", handler.ReceiveSubmission)
		v1.GET("/health", handler.HealthCheck)
		v1.PUT("/config", handler.UpdateConfig)
	}

	// Root health check
	router.GET("/health", handler.HealthCheck)

	return router
}

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Get configuration from environment
	port := getEnv("PORT", "8082")
	acceptRate := getEnvFloat("ACCEPT_RATE", 1)
	minDelay := getEnvDuration("MIN_DELAY", 50*time.Millisecond)
	maxDelay := getEnvDuration("MAX_DELAY", 500*time.Millisecond)

	log.Info().
		Str("port", port).
		Float64("accept_rate", acceptRate).
		Dur("min_delay", minDelay).
		Dur("max_delay", maxDelay).
		Msg("Starting Mock Webhook Receiver")

	// Create mock receiver
	receiver := NewMockReceiver(acceptRate, minDelay, maxDelay)
	handler := NewHandler(receiver)
	router := SetupRouter(handler)

	// Setup HTTP server
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%f", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
