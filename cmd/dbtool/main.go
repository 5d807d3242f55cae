package main

import (
	"context"
	"flag"
	"log"
	"os"
	"pathmatrix-service/internal/adapters/repositories"
	"pathmatrix-service/internal/config"
	"pathmatrix-service/internal/platform/db"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	pruneAfter := flag.Duration("prune-older-than", 0, "delete runs older than this age (0 keeps everything)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(context.Background(), databaseURL, db.Options{MaxConns: 2})
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if *pruneAfter <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-*pruneAfter)
	n, err := repositories.NewSQLRunRepository(conn).PruneRuns(ctx, cutoff)
	if err != nil {
		log.Printf("prune failed: %v", err)
		os.Exit(1)
	}
	log.Printf("Pruned runs: count=%d cutoff=%s", n, cutoff.Format(time.RFC3339))
}
