package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"pathmatrix-service/internal/adapters/repositories"
	"pathmatrix-service/internal/adapters/sessions"
	"pathmatrix-service/internal/adapters/solver"
	"pathmatrix-service/internal/api"
	"pathmatrix-service/internal/config"
	"pathmatrix-service/internal/platform/db"
	"pathmatrix-service/internal/platform/metrics"
	"pathmatrix-service/internal/ports"
	"pathmatrix-service/internal/services"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

// main is the application composition root.
// It wires concrete adapters (solver HTTP client, Redis or in-memory sessions,
// Postgres or in-memory run history) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	solverURL := config.Get("SOLVER_URL", solver.DefaultEndpoint)
	solverKey := config.Get("SOLVER_API_KEY", "")

	margin, err := config.GetDuration("SOLVER_TIMEOUT_MARGIN", solver.DefaultTimeoutMargin)
	if err != nil {
		log.Fatal(err)
	}
	sessionTTL, err := config.GetDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		log.Fatal(err)
	}
	perMinute, err := config.GetInt("OPTIMIZE_RATE_PER_MIN", 10)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.LoadSolverConfig(config.Get("SOLVER_CONFIG_PATH", ""))
	if err != nil {
		log.Fatal(err)
	}

	client, err := solver.NewHTTPSolverClient(solverURL, solverKey, margin)
	if err != nil {
		log.Fatal(err)
	}

	metrics.RegisterDefault()

	var store ports.SessionStore = sessions.NewMemoryStore(sessionTTL)
	if redisURL := config.Get("REDIS_URL", ""); redisURL != "" {
		rs, err := sessions.NewRedisStore(redisURL, sessionTTL)
		if err != nil {
			log.Fatal(err)
		}
		defer rs.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = rs.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Fatalf("redis ping failed: %v", err)
		}
		store = rs
		log.Println("Session store: redis")
	} else {
		log.Println("Session store: memory")
	}

	var runs ports.RunRepository = repositories.NewMemoryRunRepository()
	if databaseURL := config.Get("DATABASE_URL", ""); databaseURL != "" {
		maxConns, err := config.GetInt("DB_MAX_CONNS", db.DefaultMaxConns)
		if err != nil {
			log.Fatal(err)
		}
		conn, err := db.Open(context.Background(), databaseURL, db.Options{MaxConns: maxConns})
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()

		if err := repositories.InitSchema(conn); err != nil {
			log.Fatal(err)
		}
		runs = repositories.NewSQLRunRepository(conn)
		log.Println("Run history: postgres")
	} else {
		log.Println("Run history: memory")
	}

	var limiter *rate.Limiter
	if perMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}

	router := api.NewRouter(api.Deps{
		Sessions:  store,
		Runs:      runs,
		Optimizer: &services.Optimizer{Solver: client, Runs: runs, Config: cfg},
		Config:    cfg,
		Limiter:   limiter,
	})

	// A solve may hold the response open for the full client timeout.
	solveTimeout := client.Timeout(cfg)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      solveTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server listening addr=:%s solver=%s solve_timeout=%s", port, solverURL, solveTimeout)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown failed: %v", err)
	}
}
