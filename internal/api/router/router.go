package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library-management/backend/config"
	"library-management/backend/internal/api/handler"
	"library-management/backend/internal/api/middleware"
	"library-management/backend/internal/metrics"
	"library-management/backend/internal/model"
	"library-management/backend/pkg/jwt"
	"library-management/backend/pkg/redis"
)

const maxBodyBytes = 1 << 20

// Setup builds the Gin engine. rdb may be nil.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	admin := middleware.RoleAuth(model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, time.Minute), h.Auth.Login)
		v1.POST("/qr-sessions/validate", middleware.RateLimit(rdb, cfg.QR.ValidateRateLimit, time.Minute), h.QRSession.Validate)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			auth := authorized.Group("/auth")
			{
				auth.POST("/logout", h.Auth.Logout)
				auth.GET("/me", h.Auth.Me)
				auth.POST("/register", admin, h.Auth.Register)
				auth.POST("/register-face", h.Face.RegisterFace)
				auth.POST("/verify-face", h.Face.VerifyFace)
				auth.GET("/face-status", h.Face.FaceStatus)
			}

			attendance := authorized.Group("/attendance")
			{
				member := middleware.RoleAuth(model.RoleStudent, model.RoleStaff)
				attendance.POST("/qr", member, h.Attendance.SubmitQR)
				attendance.POST("/self", member, h.Attendance.SubmitSelf)
				attendance.GET("/me", member, h.Attendance.ListMine)
				attendance.GET("/me/calendar", member, h.Attendance.MyCalendar)
				attendance.GET("", admin, h.Attendance.ListByDate)
				attendance.POST("", admin, h.Attendance.SetAttendance)
			}

			qr := authorized.Group("/qr-sessions")
			{
				qr.POST("", admin, h.QRSession.Create)
				qr.GET("/active", admin, h.QRSession.GetActive)
			}

			salary := authorized.Group("/salary")
			{
				salary.POST("/calculate", admin, h.Salary.Calculate)
				salary.GET("/me", middleware.RoleAuth(model.RoleStaff), h.Salary.ListMine)
				salary.GET("/admin", admin, h.Salary.ListAll)
				salary.PUT("/admin/:id/status", admin, h.Salary.UpdateStatus)
			}

			staff := authorized.Group("/staff", admin)
			{
				staff.GET("/admin", h.Staff.List)
				staff.GET("/admin/:id", h.Staff.Get)
				staff.PUT("/admin/:id/salary", h.Staff.UpdateSalary)
			}

			authorized.GET("/students/admin", admin, h.Student.List)
			authorized.GET("/profile/me", h.Profile.Me)

			export := authorized.Group("/export", admin)
			{
				export.GET("/attendance", h.Export.ExportAttendance)
				export.GET("/salaries", h.Export.ExportSalaries)
			}
		}
	}

	return r
}
