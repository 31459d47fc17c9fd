package api

import (
	"log"
	stdhttp "net/http"
	"time"

	intconfig "billettigue/internal/config"
	"billettigue/internal/domain/models"
	h "billettigue/internal/http/handlers"
	"billettigue/internal/http/middleware"
	"billettigue/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.Init(env)
	registerValidators()

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), corsFor(env))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route introuvable",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", h.Health)
		v1.GET("/db-check", h.DBCheck)

		// Auth
		auth := v1.Group("/auth")
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)

		// Trajets
		trajets := v1.Group("/trajets")
		trajets.GET("", middleware.OptionalAuth(env.JWTSecret), h.ListTrajets)
		trajets.GET("/:id", middleware.OptionalAuth(env.JWTSecret), h.GetTrajet)
		carrierTrajets := trajets.Group("")
		carrierTrajets.Use(middleware.Auth(env.JWTSecret), middleware.RequireRoles(models.RoleCarrier))
		carrierTrajets.POST("", h.CreateTrajet)
		carrierTrajets.PUT("/:id", h.UpdateTrajet)
		carrierTrajets.DELETE("/:id", h.CancelTrajet)
		carrierTrajets.PUT("/:id/status", h.UpdateTrajetStatus)

		// Reservations
		reservations := v1.Group("/reservations")
		reservations.POST("/guest", h.CreateGuestReservation)
		authReservations := reservations.Group("")
		authReservations.Use(middleware.Auth(env.JWTSecret))
		authReservations.POST("", h.CreateReservation)
		authReservations.GET("", h.ListMyReservations)
		authReservations.GET("/admin/all", middleware.RequireRoles(models.RoleAdmin), h.ListAllReservations)
		authReservations.GET("/:id", h.GetReservation)
		authReservations.GET("/:id/ticket", h.GetReservationTicket)
		authReservations.DELETE("/:id", h.CancelReservation)

		// Carrier views
		transporter := v1.Group("/transporter")
		transporter.Use(middleware.Auth(env.JWTSecret), middleware.RequireRoles(models.RoleCarrier))
		transporter.GET("/reservations", h.ListCarrierReservations)
		transporter.PUT("/reservations/:id/status", h.UpdateReservationStatus)
		transporter.GET("/trajets/:id/reservations", h.ListTrajetReservations)

		// Admin
		admin := v1.Group("/admin")
		admin.Use(middleware.Auth(env.JWTSecret), middleware.RequireRoles(models.RoleAdmin))
		admin.GET("/stats", h.GetAdminStats)
	}

	return r
}

func corsFor(env intconfig.Env) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(env.CORSOrigins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = env.CORSOrigins
	}
	return cors.New(cfg)
}

func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("mali_phone", func(fl validator.FieldLevel) bool {
		return utils.IsValidPhone(fl.Field().String())
	})
}
