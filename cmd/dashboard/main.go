// Dashboard is a read-only JSON API for the reconciliation dashboard.
// It serves aggregate stats, account summaries and current match
// proposals over gin. Writes go through the main API server instead.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline-backend/internal/application/linking"
	"github.com/ledgerline/ledgerline-backend/internal/domain/accounts"
	"github.com/ledgerline/ledgerline-backend/internal/infrastructure/config"
	"github.com/ledgerline/ledgerline-backend/internal/infrastructure/storage"
)

type DashboardServer struct {
	storage storage.Repository
	linking *linking.Service
	logger  *slog.Logger
}

func NewDashboardServer(store storage.Repository, linkService *linking.Service, logger *slog.Logger) *DashboardServer {
	return &DashboardServer{
		storage: store,
		linking: linkService,
		logger:  logger,
	}
}

// Overview response
type OverviewResponse struct {
	TotalAccounts  int            `json:"total_accounts"`
	ManualAccounts int            `json:"manual_accounts"`
	LinkedAccounts int            `json:"linked_accounts"`
	TotalBalance   string         `json:"total_balance"`
	ByType         map[string]int `json:"by_type"`
	OpenMatches    int            `json:"open_matches"`
}

// Account summary row for the dashboard table
type AccountSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Institution string `json:"institution,omitempty"`
	Last4       string `json:"last4,omitempty"`
	Type        string `json:"type"`
	Side        string `json:"side"`
	Balance     string `json:"balance"`
	Currency    string `json:"currency"`
}

// Match summary row for the proposals panel
type MatchSummary struct {
	ManualID   string   `json:"manual_id"`
	ManualName string   `json:"manual_name"`
	LinkedID   string   `json:"linked_id"`
	LinkedName string   `json:"linked_name"`
	Score      int      `json:"score"`
	Reasons    []string `json:"reasons"`
}

func (s *DashboardServer) getOverview(c *gin.Context) {
	stats, err := s.storage.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	total, err := s.totalBalance()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sum balances"})
		return
	}

	matches, err := s.linking.Matches(c.Request.Context(), linking.MatchOptions{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute matches"})
		return
	}

	c.JSON(http.StatusOK, OverviewResponse{
		TotalAccounts:  stats.TotalAccounts,
		ManualAccounts: stats.ManualAccounts,
		LinkedAccounts: stats.LinkedAccounts,
		TotalBalance:   total.StringFixed(2),
		ByType:         stats.ByType,
		OpenMatches:    len(matches),
	})
}

func (s *DashboardServer) getAccounts(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "100")
	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 {
		limit = 100
	}

	filters := storage.AccountFilters{
		Type:        c.Query("type"),
		Institution: c.Query("institution"),
		Limit:       limit,
	}
	switch c.Query("side") {
	case "manual":
		manual := true
		filters.IsManual = &manual
	case "linked":
		manual := false
		filters.IsManual = &manual
	}

	result, err := s.storage.ListAccounts(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch accounts"})
		return
	}

	summaries := make([]AccountSummary, 0, len(result.Accounts))
	for _, a := range result.Accounts {
		summaries = append(summaries, accountToSummary(a))
	}

	c.JSON(http.StatusOK, gin.H{
		"accounts":    summaries,
		"total_count": result.TotalCount,
	})
}

func (s *DashboardServer) getMatches(c *gin.Context) {
	matches, err := s.linking.Matches(c.Request.Context(), linking.MatchOptions{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute matches"})
		return
	}

	summaries := make([]MatchSummary, 0, len(matches))
	for _, m := range matches {
		summaries = append(summaries, MatchSummary{
			ManualID:   m.Manual.ID,
			ManualName: m.Manual.Name,
			LinkedID:   m.Linked.ID,
			LinkedName: m.Linked.Name,
			Score:      m.Score,
			Reasons:    m.Reasons,
		})
	}

	c.JSON(http.StatusOK, summaries)
}

// totalBalance sums the balance of every stored account, paging through
// the full table.
func (s *DashboardServer) totalBalance() (decimal.Decimal, error) {
	total := decimal.Zero
	offset := 0
	for {
		result, err := s.storage.ListAccounts(storage.AccountFilters{Limit: 500, Offset: offset})
		if err != nil {
			return decimal.Zero, err
		}
		for _, a := range result.Accounts {
			total = total.Add(a.Balance)
		}
		offset += len(result.Accounts)
		if offset >= result.TotalCount || len(result.Accounts) == 0 {
			return total, nil
		}
	}
}

func accountToSummary(a *accounts.Account) AccountSummary {
	side := "linked"
	if a.IsManual {
		side = "manual"
	}
	return AccountSummary{
		ID:          a.ID,
		Name:        a.Name,
		Institution: a.Institution(),
		Last4:       a.Last4(),
		Type:        a.Type,
		Side:        side,
		Balance:     a.Balance.StringFixed(2),
		Currency:    a.Currency,
	}
}

func main() {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Initialize storage
	dbPath := os.Getenv("LEDGERLINE_DB_PATH")
	if dbPath == "" {
		dbPath = "ledgerline.db"
	}

	store, err := storage.NewStorage(dbPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	linkService := linking.NewService(store, config.MatchingConfig{}, nil, logger)
	server := NewDashboardServer(store, linkService, logger)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/api/health"},
	}))

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// API routes
	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})
		api.GET("/overview", server.getOverview)
		api.GET("/accounts", server.getAccounts)
		api.GET("/matches", server.getMatches)
	}

	// Start server
	port := os.Getenv("LEDGERLINE_DASHBOARD_PORT")
	if port == "" {
		port = "8090"
	}

	logger.Info("Starting dashboard server", "port", port)
	if err := router.Run(":" + port); err != nil {
		logger.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
