package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/society/internal/backup"
	"github.com/dukerupert/society/internal/config"
	"github.com/dukerupert/society/internal/events"
	"github.com/dukerupert/society/internal/handler"
	"github.com/dukerupert/society/internal/middleware"
	"github.com/dukerupert/society/internal/store"
	ws "github.com/dukerupert/society/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	houseH       *handler.HouseHandler
	memberH      *handler.MemberHandler
	vehicleH     *handler.VehicleHandler
	paymentH     *handler.PaymentHandler
	expenditureH *handler.ExpenditureHandler
	dashboardH   *handler.DashboardHandler
	backupH      *handler.BackupHandler
	backups      *backup.Manager
	rateLimiter  *middleware.RateLimiter
	corsOrigins  []string
	adminKeyHash string
	logger       *slog.Logger
}

// New wires stores and handlers around db. Change messages go to the live
// feed hub and to every extra sink (such as the AMQP publisher).
func New(db *sql.DB, cfg *config.Config, logger *slog.Logger, sinks ...events.Broadcaster) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	feed := append(events.Multi{hub}, sinks...)

	houseStore := store.NewHouseStore(db)
	memberStore := store.NewMemberStore(db)
	vehicleStore := store.NewVehicleStore(db)
	paymentStore := store.NewPaymentStore(db)
	expenditureStore := store.NewExpenditureStore(db)

	var limiter *middleware.RateLimiter
	if cfg.WriteRateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.WriteRateLimit, time.Minute)
	}

	backups := backup.NewManager(backup.Config{
		S3: backup.S3Config{
			Endpoint:  cfg.BackupS3Endpoint,
			Bucket:    cfg.BackupS3Bucket,
			Region:    cfg.BackupS3Region,
			AccessKey: cfg.BackupS3AccessKey,
			SecretKey: cfg.BackupS3SecretKey,
		},
		Passphrase: cfg.BackupPassphrase,
		Interval:   time.Duration(cfg.BackupIntervalHours) * time.Hour,
		Retention:  time.Duration(cfg.BackupRetentionDays) * 24 * time.Hour,
	}, db, feed, logger.With("component", "backup"))

	limit := cfg.ListLimit
	return &Server{
		db:           db,
		hub:          hub,
		houseH:       handler.NewHouseHandler(houseStore, feed, limit, logger.With("component", "house")),
		memberH:      handler.NewMemberHandler(memberStore, feed, limit, logger.With("component", "member")),
		vehicleH:     handler.NewVehicleHandler(vehicleStore, feed, limit, logger.With("component", "vehicle")),
		paymentH:     handler.NewPaymentHandler(paymentStore, houseStore, feed, limit, logger.With("component", "payment")),
		expenditureH: handler.NewExpenditureHandler(expenditureStore, paymentStore, feed, limit, logger.With("component", "expenditure")),
		dashboardH:   handler.NewDashboardHandler(houseStore, memberStore, vehicleStore, paymentStore, expenditureStore, limit, logger.With("component", "dashboard")),
		backupH:      handler.NewBackupHandler(backups, logger.With("component", "backup")),
		backups:      backups,
		rateLimiter:  limiter,
		corsOrigins:  cfg.CORSOrigins,
		adminKeyHash: cfg.AdminKeyHash,
		logger:       logger,
	}
}

// Hub returns the live feed hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// Backups returns the snapshot manager; its Run loop is started by the caller.
func (s *Server) Backups() *backup.Manager {
	return s.backups
}

// RateLimiter returns the write limiter for cleanup tasks; nil when disabled.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/{$}", s.rootHandler)
	mux.HandleFunc("GET /api/health", s.healthHandler)
	mux.HandleFunc("GET /api/ws", ws.HandleWebSocket(s.hub, s.corsOrigins, s.logger.With("component", "websocket")))
	mux.HandleFunc("GET /api/dashboard", s.dashboardH.Get)

	// Houses
	mux.HandleFunc("GET /api/houses", s.houseH.List)
	mux.HandleFunc("POST /api/houses", s.houseH.Create)
	mux.HandleFunc("GET /api/houses/{id}", s.houseH.Get)
	mux.HandleFunc("PUT /api/houses/{id}", s.houseH.Update)
	mux.HandleFunc("DELETE /api/houses/{id}", s.houseH.Delete)

	// Members
	mux.HandleFunc("GET /api/members", s.memberH.List)
	mux.HandleFunc("POST /api/members", s.memberH.Create)
	mux.HandleFunc("GET /api/members/{id}", s.memberH.Get)
	mux.HandleFunc("PUT /api/members/{id}", s.memberH.Update)
	mux.HandleFunc("DELETE /api/members/{id}", s.memberH.Delete)

	// Vehicles
	mux.HandleFunc("GET /api/vehicles", s.vehicleH.List)
	mux.HandleFunc("POST /api/vehicles", s.vehicleH.Create)
	mux.HandleFunc("GET /api/vehicles/{id}", s.vehicleH.Get)
	mux.HandleFunc("PUT /api/vehicles/{id}", s.vehicleH.Update)
	mux.HandleFunc("DELETE /api/vehicles/{id}", s.vehicleH.Delete)

	// Maintenance payments
	mux.HandleFunc("GET /api/payments", s.paymentH.List)
	mux.HandleFunc("POST /api/payments", s.paymentH.Create)
	mux.HandleFunc("POST /api/payments/generate-monthly", s.paymentH.GenerateMonthly)
	mux.HandleFunc("GET /api/payments/export", s.paymentH.Export)
	mux.HandleFunc("GET /api/payments/{id}", s.paymentH.Get)
	mux.HandleFunc("PUT /api/payments/{id}", s.paymentH.Update)
	mux.HandleFunc("DELETE /api/payments/{id}", s.paymentH.Delete)

	// Expenditures
	mux.HandleFunc("GET /api/expenditures", s.expenditureH.List)
	mux.HandleFunc("POST /api/expenditures", s.expenditureH.Create)
	mux.HandleFunc("GET /api/expenditures/{id}", s.expenditureH.Get)
	mux.HandleFunc("PUT /api/expenditures/{id}", s.expenditureH.Update)
	mux.HandleFunc("DELETE /api/expenditures/{id}", s.expenditureH.Delete)

	// Backups
	mux.HandleFunc("GET /api/admin/backup", s.backupH.Status)
	mux.HandleFunc("POST /api/admin/backup", s.backupH.Run)

	var h http.Handler = mux
	h = middleware.RequireAdminKey(s.adminKeyHash)(h)
	h = middleware.LimitWrites(s.rateLimiter)(h)
	h = middleware.CORS(s.corsOrigins)(h)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Society Management API is running",
		"status":  "healthy",
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("health check", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"database":    "connected",
		"liveClients": s.hub.ClientCount(),
		"feed":        s.hub.Stats(),
		"backup":      s.backups.Status().State,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
