package main

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cityplus-be/cache"
	"cityplus-be/config"
	"cityplus-be/controllers"
	"cityplus-be/middlewares"
	"cityplus-be/models"
	"cityplus-be/routes"
	"cityplus-be/stores"
	"cityplus-be/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found")
	}

	cfg := config.Load()

	log, err := config.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatal("MongoDB connection failed", zap.Error(err))
	}
	log.Info("MongoDB connection established")

	if err := models.EnsureUserIndexes(db.Collection("users")); err != nil {
		log.Fatal("failed to create user indexes", zap.Error(err))
	}

	// The feed cache is optional; without Redis the public feed just reads
	// the database every time.
	var feed *cache.FeedCache
	if cfg.RedisAddr != "" {
		redisClient, err := config.ConnectRedis(cfg)
		if err != nil {
			log.Fatal("Redis connection failed", zap.Error(err))
		}
		feed = cache.NewFeedCache(redisClient, cfg.FeedCacheTTL, log)
		log.Info("Redis connection established")
	} else {
		log.Warn("REDIS_ADDRESS not set, public feed cache disabled")
	}

	uploader, err := utils.NewUploader(cfg.UploadDir)
	if err != nil {
		log.Fatal("failed to prepare upload directory", zap.Error(err))
	}

	userStore := stores.NewMongoUserStore(db)
	issueStore := stores.NewMongoIssueStore(db)

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	auth := middlewares.NewAuthMiddleware(tokens, userStore)

	authController := controllers.NewAuthController(userStore, tokens, log)
	issueController := controllers.NewIssueController(issueStore, userStore, uploader, feed, cfg.PublicFeedLimit, log)
	adminController := controllers.NewAdminController(userStore, issueStore, log)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestLogger(log))

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	// Uploaded images are served straight off the local disk.
	r.Static("/uploads", uploader.Dir())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "CityPlus Backend Working")
	})
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	routes.AuthRoutes(r, authController)
	routes.IssueRoutes(r, issueController, auth)
	routes.AdminRoutes(r, adminController, auth)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info("server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
