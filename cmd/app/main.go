package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/mindstormbook/bookstore-backend/internal/catalog"
	"github.com/mindstormbook/bookstore-backend/internal/checkout"
	"github.com/mindstormbook/bookstore-backend/internal/config"
	"github.com/mindstormbook/bookstore-backend/internal/order"
	"github.com/mindstormbook/bookstore-backend/internal/payment"
	"github.com/mindstormbook/bookstore-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	migrate(db)

	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo)
	orderHandler := order.NewHandler(orderService)

	stripeProc := payment.NewStripe(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.FrontendURL)
	paypalProc, err := payment.NewPaypal(cfg.PaypalClientID, cfg.PaypalClientSecret, cfg.FrontendURL, cfg.PaypalLive)
	if err != nil {
		log.Fatalf("paypal client: %v", err)
	}

	intentStore := checkout.NewPostgresIntentStore(db)
	resolver := checkout.NewResolver(catalogService)
	checkoutService := checkout.NewService(intentStore, orderService, userService, resolver)
	checkoutHandler := checkout.NewHandler(checkoutService, stripeProc, paypalProc)

	// Public routes first; the webhook in particular must never sit behind
	// the JWT middleware.
	userHandler.RegisterPublicRoutes(app)
	catalogHandler.RegisterPublicRoutes(app)
	checkoutHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	catalogHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	checkoutHandler.RegisterProtectedRoutes(app)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go checkout.NewSweeper(intentStore, time.Hour).Run(sweepCtx)

	log.Printf("starting server on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Stripe-Signature",
	}))
}

func mustOpenDB(dbURL string) *sql.DB {
	if dbURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

func migrate(db *sql.DB) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			"userID" SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			phone TEXT,
			country TEXT,
			role TEXT DEFAULT 'user',
			"createdAt" TEXT,
			"updatedAt" TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS books (
			"bookID" TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			writer TEXT,
			type TEXT NOT NULL DEFAULT 'book',
			"oldPrice" numeric NOT NULL DEFAULT 0,
			"discountPrice" numeric NOT NULL DEFAULT 0,
			"imageUrl" TEXT,
			category TEXT,
			language TEXT,
			"createdAt" TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS packages (
			"packageID" TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			"oldPrice" numeric NOT NULL DEFAULT 0,
			"discountPrice" numeric NOT NULL DEFAULT 0,
			"imageUrl" TEXT,
			"bookIDs" TEXT[] NOT NULL DEFAULT '{}',
			"createdAt" TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			"orderID" TEXT PRIMARY KEY,
			"userID" INT NOT NULL,
			"userSnapshot" jsonb NOT NULL,
			"shippingInfo" jsonb NOT NULL DEFAULT '{}',
			"orderItems" jsonb NOT NULL DEFAULT '[]',
			"itemsPrice" numeric NOT NULL DEFAULT 0,
			"shippingPrice" numeric NOT NULL DEFAULT 0,
			"totalPrice" numeric NOT NULL DEFAULT 0,
			"paymentMethod" TEXT NOT NULL,
			"transactionId" TEXT NOT NULL,
			"paymentStatus" TEXT NOT NULL,
			"orderType" TEXT NOT NULL,
			"orderStatus" TEXT NOT NULL,
			"createdAt" TEXT
		)`,
		// One order per payment transaction; the reconciler's duplicate
		// check relies on this index to close the check-then-insert race.
		`CREATE UNIQUE INDEX IF NOT EXISTS orders_transaction_idx ON orders ("transactionId")`,
		`CREATE TABLE IF NOT EXISTS checkout_intents (
			"sessionID" TEXT PRIMARY KEY,
			"userID" INT NOT NULL,
			"shippingInfo" jsonb NOT NULL DEFAULT '{}',
			"orderItems" jsonb NOT NULL DEFAULT '[]',
			"itemsPrice" numeric NOT NULL DEFAULT 0,
			"shippingPrice" numeric NOT NULL DEFAULT 0,
			"totalPrice" numeric NOT NULL DEFAULT 0,
			"orderType" TEXT,
			"createdAt" TEXT,
			"expiresAt" TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}
