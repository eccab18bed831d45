package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"attendly/api/internal/config"
	"attendly/api/internal/middleware"
	"attendly/api/internal/models"
	"attendly/api/internal/policy"
	"attendly/api/internal/ratelimit"
	"attendly/api/internal/repository"
	"attendly/api/internal/service"
	"attendly/api/internal/session"
)

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	authService *service.AuthService
	scanService *service.ScanService
	sessions    *session.Registry
	limiter     *ratelimit.Limiter
	attendance  *repository.AttendanceRepository
	db          *pgxpool.Pool
	cache       *redis.Client
}

func NewHandlerSet(
	log zerolog.Logger,
	db *pgxpool.Pool,
	cache *redis.Client,
	sessions *session.Registry,
	limiter *ratelimit.Limiter,
	cfg *config.AppConfig,
) HandlerSet {
	companyRepo := repository.NewCompanyRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	qrRepo := repository.NewQrCodeRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	schedule := policy.Schedule{
		Weekend:         policy.Window{StartHour: cfg.Policy.WeekendStartHour, EndHour: cfg.Policy.WeekendEndHour},
		WeekdayCheckIn:  policy.Window{StartHour: cfg.Policy.CheckInStartHour, EndHour: cfg.Policy.CheckInEndHour},
		WeekdayCheckOut: policy.Window{StartHour: cfg.Policy.CheckOutStartHour, EndHour: cfg.Policy.CheckOutEndHour},
	}

	auth := service.NewAuthService(companyRepo, employeeRepo, adminRepo, sessions, log)
	scan := service.NewScanService(
		companyRepo,
		qrRepo,
		employeeRepo,
		attendanceRepo,
		service.NewRedisReservationStore(cache),
		schedule,
		service.NewAuditor(cache, log),
		log,
	)

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		authService: auth,
		scanService: scan,
		sessions:    sessions,
		limiter:     limiter,
		attendance:  attendanceRepo,
		db:          db,
		cache:       cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	v1.Use(middleware.RateLimit(h.limiter, h.cfg.RateLimit))
	{
		auth := v1.Group("/auth")
		auth.POST("/login/employee", h.LoginEmployee)
		auth.POST("/login/admin", h.LoginAdmin)

		protected := v1.Group("/auth")
		protected.Use(middleware.Auth(h.sessions))
		protected.POST("/logout", h.Logout)
		protected.GET("/sessions", h.ListSessions)
		protected.DELETE("/sessions/:sessionId", h.RevokeSession)

		scan := v1.Group("")
		scan.Use(middleware.Auth(h.sessions))
		scan.POST("/scan", middleware.RequireKinds(models.PrincipalKindEmployee), h.Scan)
		scan.GET("/attendance", middleware.RequireKinds(models.PrincipalKindEmployee), h.ListAttendance)

		admin := v1.Group("/admin")
		admin.Use(
			middleware.Auth(h.sessions),
			middleware.RequireKinds(models.PrincipalKindAdmin, models.PrincipalKindSuperAdmin),
		)
		admin.POST("/principals/:kind/:id/logout", h.ForceLogout)
	}
}
