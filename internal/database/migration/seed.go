package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pdfmarket/internal/config"
	"pdfmarket/internal/model"
	"pdfmarket/internal/password"
)

// SeedAdmin inserts the bootstrap admin account when the users table is empty.
// A blank admin password disables seeding entirely, so production deployments
// opt in explicitly.
func SeedAdmin(ctx context.Context, db *sql.DB, loc *time.Location, cfg config.SeedConfig) error {
	if cfg.AdminPassword == "" {
		logJSON(loc, map[string]any{
			"component": "database",
			"event":     "admin_seed_skip",
			"status":    "success",
			"msg":       "no admin password configured, skipping seed",
		})
		return nil
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		logJSON(loc, map[string]any{
			"component": "database",
			"event":     "admin_seed_skip",
			"status":    "success",
			"msg":       "users already present, skipping seed",
		})
		return nil
	}

	hash, err := password.Hash(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO users (id, user_name, email, password_hash, role, points_balance, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New().String(), cfg.AdminUserName, cfg.AdminEmail, hash, model.RoleAdmin, cfg.AdminPoints, time.Now().UTC(),
	)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "admin_seed_failed",
			"status":        "error",
			"error_message": err.Error(),
		})
		return fmt.Errorf("insert admin account: %w", err)
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "admin_seed_success",
		"status":    "success",
		"admin":     cfg.AdminUserName,
	})
	return nil
}
