package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mavi-suporte/helpdesk-service/internal/config"
	"github.com/mavi-suporte/helpdesk-service/internal/database"
	"github.com/mavi-suporte/helpdesk-service/internal/logging"
	"github.com/mavi-suporte/helpdesk-service/internal/report"
	"github.com/mavi-suporte/helpdesk-service/internal/service"
	"github.com/mavi-suporte/helpdesk-service/internal/store"
	"github.com/spf13/cobra"
)

var (
	reportOut   string
	reportStats bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export tickets (or the statistics summary) as CSV",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output file (default stdout)")
	reportCmd.Flags().BoolVar(&reportStats, "stats", false, "export the statistics summary instead of the ticket table")
}

func runReport(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.StoreDriver == "memory" {
		return fmt.Errorf("report: the memory store holds no data between runs")
	}
	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	svc := service.NewTicketService(store.NewGormStore(db), logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	out := os.Stdout
	if reportOut != "" {
		f, err := os.Create(reportOut)
		if err != nil {
			return fmt.Errorf("report: %w", err)
		}
		defer f.Close()
		out = f
	}

	if reportStats {
		stats, err := svc.Statistics(ctx)
		if err != nil {
			return fmt.Errorf("report: %w", err)
		}
		if err := report.WriteStatisticsCSV(out, stats); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	} else {
		tickets, err := svc.List(ctx, service.ListFilter{})
		if err != nil {
			return fmt.Errorf("report: %w", err)
		}
		if err := report.WriteTicketsCSV(out, tickets); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}
	if reportOut != "" {
		log.Printf("report: wrote %s", reportOut)
	}
	return nil
}
