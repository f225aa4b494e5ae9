package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"habitflow/internal/handler"
	"habitflow/pkg/mq"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *handler.AuthHandler,
	habitHandler *handler.HabitHandler,
	taskHandler *handler.TaskHandler,
	parseHandler *handler.ParseHandler,
	jwtSecret string,
	logger *zap.Logger,
	db *pgxpool.Pool,
	consumer *mq.Consumer,
) *Router {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	r.Use(RequestMetrics())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		if consumer != nil && !consumer.IsConnected() {
			c.JSON(500, gin.H{"status": "mq_not_ready"})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.POST("/habits", habitHandler.CreateHabit)
		auth.GET("/habits", habitHandler.ListHabits)
		auth.POST("/habits/:id/complete", habitHandler.CompleteHabit)
		auth.POST("/habits/:id/incomplete", habitHandler.IncompleteHabit)
		auth.POST("/habits/:id/protect", habitHandler.ProtectHabit)
		auth.GET("/habits/:id/stats", habitHandler.HabitStats)
		auth.GET("/habits/:id/heatmap", habitHandler.HabitHeatmap)
		auth.PUT("/habits/:id/recurrence", habitHandler.SetRecurrence)

		auth.GET("/tasks", taskHandler.ListTasks)
		auth.POST("/tasks/:id/complete", taskHandler.CompleteTask)

		auth.POST("/parse-date", parseHandler.ParseDate)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
