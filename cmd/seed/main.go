// Command seed creates the first admin account and the default categories.
// Running it twice changes nothing.
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/aslectra/backend/internal/models"
	"github.com/aslectra/backend/internal/repositories"
	"github.com/aslectra/backend/internal/services"
	"github.com/aslectra/backend/pkg/config"
	"github.com/aslectra/backend/pkg/logger"
	"gorm.io/gorm"
)

var defaultCategories = []models.Category{
	{Name: "Général", Color: "#028FCC", Order: 0},
	{Name: "Sports", Color: "#2E7D32", Order: 1},
	{Name: "Tech", Color: "#6A1B9A", Order: 2},
	{Name: "Culture", Color: "#EF6C00", Order: 3},
}

func main() {
	email := flag.String("email", "admin@aslectra.local", "admin email")
	password := flag.String("password", "", "admin password (required to create the admin)")
	flag.Parse()

	cfg := config.Load()
	logger.InitFromConfig(cfg)

	db, err := config.OpenSQL(cfg.DBDriver, cfg.DatabaseURL, false)
	if err != nil {
		logger.Error("failed to connect", "error", err)
		os.Exit(1)
	}
	if err := models.AutoMigrate(db); err != nil {
		logger.Error("failed to migrate", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := seedCategories(ctx, repositories.NewCategoryRepository(db)); err != nil {
		logger.Error("failed to seed categories", "error", err)
		os.Exit(1)
	}
	if *password != "" {
		if err := seedAdmin(ctx, db, *email, *password); err != nil {
			logger.Error("failed to seed admin", "error", err)
			os.Exit(1)
		}
	}
	logger.Info("seed completed")
}

func seedCategories(ctx context.Context, categories repositories.CategoryRepository) error {
	for _, c := range defaultCategories {
		_, err := categories.GetCategoryByName(ctx, c.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		category := c
		if err := categories.CreateCategory(ctx, &category); err != nil {
			return err
		}
		logger.Info("category created", "name", category.Name)
	}
	return nil
}

func seedAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	users := repositories.NewUserRepository(db)
	user, err := users.GetUserByEmail(ctx, email)
	if err == nil {
		if user.IsAdmin() {
			return nil
		}
		logger.Info("promoting existing user", "email", email)
		return users.SetRole(ctx, user.ID, models.RoleAdmin)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	auth := services.NewAuthService(users, "")
	user, err = auth.Register(ctx, models.RegisterRequest{
		Name:                 "Admin",
		Forename:             "ASLectra",
		Email:                email,
		Password:             password,
		PasswordConfirmation: password,
	})
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		if err := users.SetRole(ctx, user.ID, models.RoleAdmin); err != nil {
			return err
		}
	}
	logger.Info("admin created", "email", email)
	return nil
}
