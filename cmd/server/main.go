package main

import (
	"context"
	"log"
	"net/http"
	"os"

	_ "vlabgallery/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"vlabgallery/internal/asset"
	"vlabgallery/internal/auth"
	"vlabgallery/internal/cache"
	"vlabgallery/internal/config"
	"vlabgallery/internal/db"
	"vlabgallery/internal/handler"
	"vlabgallery/internal/model"
	"vlabgallery/internal/repository"
	"vlabgallery/internal/router"
	"vlabgallery/internal/service"
)

// @title Virtual Lab Gallery API
// @version 1.0
// @description Gallery management API with role-scoped JWT authentication and S3-backed image storage.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		for _, table := range []interface{}{&model.GalleryItem{}, &model.User{}} {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.GalleryItem{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	assetHost, err := asset.NewS3Host(context.Background(), cfg)
	if err != nil {
		log.Fatalf("asset host init: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	galleryRepo := repository.NewGalleryRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	authMW := auth.NewMiddleware(jwtService, tokenStore)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	galleryService := service.NewGalleryService(galleryRepo, assetHost, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	galleryHandler := handler.NewGalleryHandler(galleryService)

	// Register routes
	router.Register(e, cfg, authMW, authHandler, galleryHandler)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
