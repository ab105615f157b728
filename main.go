package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"salon-booking/config"
	"salon-booking/database"
	"salon-booking/export"
	"salon-booking/server"
	"salon-booking/storage"

	_ "github.com/mattn/go-sqlite3"
	"github.com/umakantv/go-utils/db/migrations"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

func main() {
	commandFlag := flag.String("command", "start", "Command to run: start, create-migration, export-bookings")
	configFlag := flag.String("config", os.Getenv("SALON_CONFIG"), "Path to the YAML config file")
	nameFlag := flag.String("name", "", "Migration name (alphanum+underscore only)")
	dirFlag := flag.String("dir", ".", "Target directory for the new .sql file (e.g. ./migrations)")
	outFlag := flag.String("out", "", "Output .xlsx path for export-bookings")
	flag.Parse()

	if *commandFlag == "" {
		fmt.Println("Usage: go run main.go --command <command-name> [--config config.yaml] [... other options]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	switch *commandFlag {
	case "start":
		server.StartServer(cfg)
	case "create-migration":
		migrations.CreateMigration(nameFlag, dirFlag)
	case "export-bookings":
		exportBookings(cfg, *outFlag)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", *commandFlag)
		os.Exit(1)
	}
}

func exportBookings(cfg *config.Config, out string) {
	server.InitLogger()

	if out == "" {
		out = filepath.Join(cfg.Exports.Path, "bookings_"+time.Now().Format("2006-01-02")+".xlsx")
	}

	dbConn := database.InitializeDatabase(cfg.Database)
	defer dbConn.Close()

	n, err := export.WriteBookings(context.Background(), storage.NewBookingRepository(dbConn), out)
	if err != nil {
		logger.Error("Export failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Bookings exported", zap.Int("rows", n), zap.String("file", out))
}
