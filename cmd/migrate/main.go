package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/mlb-dfs-projections/internal/models"
	"github.com/jstittsworth/mlb-dfs-projections/pkg/config"
	"github.com/jstittsworth/mlb-dfs-projections/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|prune <days>]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := models.NewProjectionRepository(db.DB)
	command := os.Args[1]

	switch command {
	case "up":
		if err := repo.Migrate(); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := repo.DropTables(); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "prune":
		days := 30
		if len(os.Args) > 2 {
			if days, err = strconv.Atoi(os.Args[2]); err != nil || days < 1 {
				logrus.Fatalf("Invalid retention %q, expected a positive number of days", os.Args[2])
			}
		}
		cutoff := time.Now().UTC().AddDate(0, 0, -days)
		removed, err := repo.PruneRuns(context.Background(), cutoff)
		if err != nil {
			logrus.Fatalf("Failed to prune runs: %v", err)
		}
		logrus.WithFields(logrus.Fields{
			"cutoff":  cutoff.Format(models.SlateDateFormat),
			"removed": removed,
		}).Info("Old runs pruned")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}
