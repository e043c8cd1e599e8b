package main

import (
	"context"
	"database/sql"
	"disruption-replay-service/internal/adapters/repositories"
	"disruption-replay-service/internal/config"
	"disruption-replay-service/internal/domain"
	"disruption-replay-service/internal/platform/db"
	"disruption-replay-service/internal/platform/logging"
	"disruption-replay-service/internal/services"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// dbtool creates the fixture tables in Postgres and loads a seed file into them.
func main() {
	config.LoadDotEnv()

	if err := logging.Configure(config.Get("LOG_LEVEL", "info"), config.Get("LOG_FORMAT", "text"), os.Stdout); err != nil {
		logrus.Fatal(err)
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		logrus.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		logrus.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "")
	if err := initAndSeed(ctx, conn, seedPath); err != nil {
		logrus.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	b, err := repositories.ReadSeed(seedPath)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	fixtures, err := repositories.DecodeSeed(b)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	// Refuse to write fixtures the server would reject at startup.
	dispatcher, err := services.NewDispatcher()
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	if _, err := domain.NewFixtureStore(fixtures, dispatcher.Scenarios()); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	logrus.Info("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	logrus.Info("Schema ready.")

	logrus.WithField("seed", seedLabel(seedPath)).Info("Seeding database...")
	if err := repositories.SeedFixtures(ctx, conn, fixtures); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"dcs":         len(fixtures.DCs),
		"stores":      len(fixtures.Stores),
		"trucks":      len(fixtures.Trucks),
		"shipments":   len(fixtures.Shipments),
		"risk_events": len(fixtures.RiskEvents),
	}).Info("Seeding complete.")

	return nil
}

func seedLabel(path string) string {
	if strings.TrimSpace(path) == "" {
		return "embedded"
	}
	return path
}
