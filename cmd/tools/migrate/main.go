// Command migrate creates or updates the schema and optionally seeds the
// catalogue, against the database named by DB_DRIVER and DB_DSN.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"yantrashilpa.com/web/internal/config"
	"yantrashilpa.com/web/internal/database"
	"yantrashilpa.com/web/internal/modules/auth"
	"yantrashilpa.com/web/internal/modules/schema"
)

func main() {
	seed := flag.Bool("seed", false, "insert the default products when the catalogue is empty")
	purge := flag.Bool("purge-sessions", false, "delete expired admin sessions")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Open(cfg.DB, database.Options{})
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	if err := schema.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	fmt.Printf("✓ schema up to date (%s)\n", cfg.DB.Driver)

	ctx := context.Background()
	if *seed {
		n, err := schema.Seed(ctx, db)
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		fmt.Printf("✓ seeded %d products\n", n)
	}
	if *purge {
		n, err := auth.NewSessionStore(db, cfg.Session.TTL).PurgeExpired(ctx)
		if err != nil {
			log.Fatalf("purge: %v", err)
		}
		fmt.Printf("✓ removed %d expired sessions\n", n)
	}
}
