package router

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/heyamigo/backend/internal/handlers"
	"github.com/heyamigo/backend/internal/middleware"
	"github.com/heyamigo/backend/internal/repositories"
	"github.com/heyamigo/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware and the uniform JSON
// error envelope
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.HTTPErrorHandler = errorEnvelopeHandler
	log.Println("Global middleware configured.")
}

// errorEnvelopeHandler converts every handler error into the
// {success:false, message, error?} envelope with the matching status code
func errorEnvelopeHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = fmt.Sprintf("%v", he.Message)
		}
	}

	body := echo.Map{"success": false, "message": message}
	if code == http.StatusInternalServerError {
		body["error"] = err.Error()
	}

	if err := c.JSON(code, body); err != nil {
		log.Printf("Failed to write error response: %v", err)
	}
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, mgClient *mongo.Client, firebaseAuthClient *auth.Client) {
	db := mgClient.Database(cfg.MongoDatabase)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "HeyAmigo Backend API is running"})
	})

	// Uploaded media served from a static path
	e.Static("/uploads", cfg.UploadDir)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)
	reelRepo := repositories.NewMongoReelRepository(db)

	jwtAuth := middleware.JWTAuthMiddleware(cfg.JWTSecret)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient, cfg.JWTSecret, cfg.UploadDir)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// Connect routes (all require authentication)
	connectGroup := e.Group("/api/connect", jwtAuth)
	connectHandler := handlers.NewConnectHandler(userRepo)
	connectHandler.RegisterConnectRoutes(connectGroup)
	log.Println("Connect routes configured.")

	// Post routes (all require authentication)
	postGroup := e.Group("/api/posts", jwtAuth)
	postHandler := handlers.NewPostHandler(postRepo, userRepo)
	postHandler.RegisterPostRoutes(postGroup)
	log.Println("Post routes configured.")

	// Reel routes: reads are public, mutations require authentication
	reelPublic := e.Group("/api/reels")
	reelProtected := e.Group("/api/reels", jwtAuth)
	reelHandler := handlers.NewReelHandler(reelRepo, userRepo)
	reelHandler.RegisterReelRoutes(reelPublic, reelProtected)
	log.Println("Reel routes configured.")

	// User routes: profile reads are public, mutations require authentication
	userPublic := e.Group("/api/users")
	userProtected := e.Group("/api/users", jwtAuth)
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(userPublic, userProtected)
	log.Println("User routes configured.")

	log.Println("All routes configured.")
}
