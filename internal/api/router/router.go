package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/s-ko0401/training-system/config"
	"github.com/s-ko0401/training-system/internal/api/handler"
	"github.com/s-ko0401/training-system/internal/api/middleware"
	"github.com/s-ko0401/training-system/internal/model"
	"github.com/s-ko0401/training-system/pkg/jwt"
	"github.com/s-ko0401/training-system/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	staff := middleware.RoleAuth(model.RoleAdmin, model.RoleTeacher)
	adminOnly := middleware.RoleAuth(model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 账号模块
			users := authorized.Group("/users")
			{
				users.GET("", staff, h.User.List)
				users.POST("", adminOnly, h.User.Create)
				users.GET("/:id", staff, h.User.Get)
				users.PUT("/:id", adminOnly, h.User.Update)
				users.DELETE("/:id", adminOnly, h.User.Delete)
				users.PUT("/:id/training-period", staff, h.User.SetTrainingPeriod)
			}

			// 研修计划模板模块（仅管理者/讲师维护）
			plans := authorized.Group("/plans")
			{
				plans.GET("", staff, h.Plan.List)
				plans.GET("/:id", staff, h.Plan.Get)
				plans.POST("", staff, h.Plan.Create)
				plans.PUT("/:id", staff, h.Plan.Update)
				plans.DELETE("/:id", staff, h.Plan.Delete)
			}
			sections := authorized.Group("/sections", staff)
			{
				sections.POST("", h.Plan.CreateSection)
				sections.PUT("/:id", h.Plan.UpdateSection)
				sections.DELETE("/:id", h.Plan.DeleteSection)
			}
			topics := authorized.Group("/topics", staff)
			{
				topics.POST("", h.Plan.CreateTopic)
				topics.PUT("/:id", h.Plan.UpdateTopic)
				topics.DELETE("/:id", h.Plan.DeleteTopic)
			}
			todos := authorized.Group("/todos", staff)
			{
				todos.POST("", h.Plan.CreateTodo)
				todos.PUT("/:id", h.Plan.UpdateTodo)
				todos.DELETE("/:id", h.Plan.DeleteTodo)
			}

			// 研修割当/进捗模块
			training := authorized.Group("/training")
			{
				training.POST("/assignments", staff, h.Training.Assign)
				training.GET("/students/:id/plans", staff, h.Training.ListForStudent)
				training.GET("/students/:id/progress", staff, h.Training.StudentProgress)
				training.GET("/my-plans", h.Training.ListMine)
				training.GET("/plans/:id", h.Training.Get)
				training.GET("/plans/:id/days", h.Training.Days)
				training.DELETE("/plans/:id", staff, h.Training.Delete)
				training.PUT("/plans/:id/status", staff, h.Training.UpdateStatus)
				training.PUT("/tasks/:id", h.Training.UpdateTask)
				training.GET("/stats", staff, h.Training.Stats)
			}

			// 导出模块
			export := authorized.Group("/export", staff)
			{
				export.GET("/students/:id/progress", h.Export.Progress)
				export.GET("/students/:id/calendar", h.Export.Calendar)
			}
		}
	}

	return r
}
