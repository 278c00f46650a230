package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/wiremail/wiremail-backend/internal/config"
	"github.com/wiremail/wiremail-backend/internal/directory"
	"github.com/wiremail/wiremail-backend/internal/handler"
	"github.com/wiremail/wiremail-backend/internal/middleware"
	"github.com/wiremail/wiremail-backend/internal/migration"
	"github.com/wiremail/wiremail-backend/internal/repository"
	"github.com/wiremail/wiremail-backend/internal/routes"
	"github.com/wiremail/wiremail-backend/internal/service"
	"github.com/wiremail/wiremail-backend/internal/stream"
	"github.com/wiremail/wiremail-backend/internal/ws"
	"github.com/wiremail/wiremail-backend/pkg/jwt"
	pkglogger "github.com/wiremail/wiremail-backend/pkg/logger"
	pkgredis "github.com/wiremail/wiremail-backend/pkg/redis"
	pkgstorage "github.com/wiremail/wiremail-backend/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	goredis "github.com/redis/go-redis/v9"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "github.com/wiremail/wiremail-backend/docs"
)

// @title           Wiremail Backend API
// @version         1.0
// @description     Real-time shared mailbox backend
//
// @license.name    MIT
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	pkglogger.Init()
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	// MySQL holds the shared collection; nothing works without it
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to MySQL")
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis fans collection changes out across instances; optional
	var redisClient *goredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
		)
		if err != nil {
			pkglogger.Warn("Failed to connect to Redis: %v (continuing without Redis)", err)
			redisClient = nil
		} else {
			pkglogger.Info("Connected to Redis")
		}
	}

	// Attachment storage; optional, sends with attachments fail without it
	var uploader service.AttachmentUploader
	if cfg.Storage.Enabled {
		s3Client, err := pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if err != nil {
			pkglogger.Warn("Failed to init storage: %v (continuing without attachments)", err)
		} else {
			uploader = s3Client
		}
	}

	// Directory tracker: reserved identities from config, present
	// identities fed by the hub on every join/leave
	tracker := directory.NewTracker(cfg.Mailbox.ReservedRecipients)

	// Shared collection and live stream
	msgRepo := repository.NewMessageRepository(db)
	collection := stream.NewGormCollection(msgRepo, redisClient)

	// WebSocket hub: presence collaborator + per-viewer view push
	hub := ws.NewHub(tracker)
	go hub.Run()

	unsubscribe, err := collection.Subscribe(hub.OnSnapshot)
	if err != nil {
		log.Fatalf("Failed to subscribe to collection: %v", err)
	}

	// Services
	jwtManager := jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	mailboxService := service.NewMailboxService(msgRepo, collection, tracker, uploader)
	directoryService := service.NewDirectoryService(tracker)

	// Handlers
	authHandler := handler.NewAuthHandler(jwtManager)
	mailboxHandler := handler.NewMailboxHandler(mailboxService)
	directoryHandler := handler.NewDirectoryHandler(directoryService)
	wsHandler := handler.NewWSHandler(hub, cfg.App.AllowedOrigins)

	// Router
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(corsMiddleware(cfg))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, authHandler, mailboxHandler, directoryHandler, wsHandler, jwtManager)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		pkglogger.Info("Listening on :%d", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	pkglogger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		pkglogger.Error("Server shutdown: %v", err)
	}

	unsubscribe()
	collection.Close()
	hub.Stop()
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	dsnCfg := mysqldriver.NewConfig()
	dsnCfg.User = cfg.Database.User
	dsnCfg.Passwd = cfg.Database.Password
	dsnCfg.Net = "tcp"
	dsnCfg.Addr = fmt.Sprintf("%s:%d", cfg.Database.Host, cfg.Database.Port)
	dsnCfg.DBName = cfg.Database.Name
	dsnCfg.ParseTime = true
	dsnCfg.Loc = time.UTC

	return gorm.Open(mysql.Open(dsnCfg.FormatDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-ID")
	corsCfg.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	if cfg.App.AllowedOrigins == "" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = splitOrigins(cfg.App.AllowedOrigins)
	}
	return cors.New(corsCfg)
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
