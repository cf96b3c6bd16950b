package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/mavi-suporte/helpdesk-service/internal/config"
	"github.com/mavi-suporte/helpdesk-service/internal/database"
	"github.com/mavi-suporte/helpdesk-service/internal/logging"
	"github.com/mavi-suporte/helpdesk-service/internal/model"
	"github.com/mavi-suporte/helpdesk-service/internal/security"
	"github.com/mavi-suporte/helpdesk-service/internal/service"
	"github.com/mavi-suporte/helpdesk-service/internal/store"
	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminPassword string
	adminEmail    string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Seed an administrator user",
	RunE:  runCreateAdmin,
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "admin username")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("password")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("create-admin: the memory store does not persist users")
	}
	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	keys, err := security.NewKeyManager(cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("jwt: %w", err)
	}
	authSvc := service.NewAuthService(keys, store.NewGormStore(db), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	u, err := authSvc.CreateUser(ctx, adminUsername, adminPassword, adminEmail, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Printf("create-admin: ok (id=%s username=%s)", u.ID, u.Username)
	return nil
}
