package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gasdelivery/config"
	"gasdelivery/controllers"
	"gasdelivery/database"
	"gasdelivery/store"
	"gasdelivery/utils"

	"github.com/go-michi/michi"
	"github.com/gorilla/handlers"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(utils.ErrorWithTrace(err, "loading configuration"))
	}

	// Connect to the database
	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal(utils.ErrorWithTrace(err, "connecting to database"))
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	log.Println("Database connected successfully")

	if err := database.Migrate(cfg.DatabaseURL, cfg.MigrationsRoot); err != nil {
		log.Fatal(utils.ErrorWithTrace(err, "running migrations"))
	}

	controllers.SetStore(store.New(db))
	controllers.SetDeliveryFee(cfg.DeliveryFee)

	r := michi.NewRouter()
	controllers.RegisterRoutes(r)

	corsOptions := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	handler := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(
		handlers.CombinedLoggingHandler(os.Stdout, corsOptions(r)),
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server running on port %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(utils.ErrorWithTrace(err, "serving HTTP"))
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println(utils.ErrorWithTrace(err, "shutting down server"))
	}
}
