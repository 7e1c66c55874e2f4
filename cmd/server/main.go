package main

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/heyamigo/backend/internal/router"
	"github.com/heyamigo/backend/pkg/config"
	"github.com/heyamigo/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB() // Ensure database connection is closed when main exits

	// Initialize Firebase (optional, social login only)
	var firebaseAuthClient *auth.Client
	if cfg.FirebaseCredentialsPath != "" {
		ctx := context.Background()
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Printf("Firebase init failed, social login disabled: %v", err)
		} else {
			firebaseAuthClient = firebaseApp.AuthClient
		}
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, db.Mongo, firebaseAuthClient)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
