package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"forecast-backend/internal/depgraph"
	"forecast-backend/internal/forecasts"
	"forecast-backend/internal/shared/config"
	"forecast-backend/internal/shared/metrics"
	"forecast-backend/internal/shared/server/middleware"
	"forecast-backend/internal/shared/server/respond"
	"forecast-backend/internal/shared/storage/db"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"ASSESS": {Rate: 10, Burst: 20},
			},
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && strings.HasSuffix(c.Request.URL.Path, "/assess") {
					return "ASSESS"
				}
				return ""
			},
		}),
	)

	// Dependencies
	graph, err := depgraph.NewProvider(cfg.DependencyGraphPath)
	if err != nil {
		log.Printf("failed to load dependency graph, starting empty: %v", err)
	}
	if cfg.GraphWatch {
		if err := graph.Watch(); err != nil {
			log.Printf("failed to watch dependency graph: %v", err)
		}
	}

	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, opts)
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var repo forecasts.Repo
	if sqlDB != nil {
		repo = &forecasts.PGRepo{DB: sqlDB}
	} else {
		repo = forecasts.NewMemoryRepo()
	}

	forecastSvc := &forecasts.Service{Graph: graph, Repo: repo}
	forecastHandler := forecasts.NewHandler(forecastSvc)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"status": "ok"})
	})
	forecastHandler.RegisterRoutes(api)

	r.GET("/metrics", metrics.Handler())

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
