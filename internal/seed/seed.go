// Package seed inserts the bootstrap rows the application expects after a
// fresh migration: the admin credential and the default prep stations. It
// runs after the migration runner per the startup contract and is
// idempotent, so repeated startups change nothing.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/example/orderdesk/internal/database"
)

// defaultStations are the prep stations every install starts with.
var defaultStations = []string{"front counter", "kitchen", "expo"}

// Run applies the seed set through the shared connection. Rows that already
// exist are left untouched. adminEmail/adminPassword may be empty, in which
// case no admin credential is created.
func Run(ctx context.Context, db *database.DB, logger *slog.Logger, adminEmail, adminPassword string) error {
	if logger == nil {
		logger = slog.Default()
	}

	for _, name := range defaultStations {
		if err := ensureStation(ctx, db, name); err != nil {
			return fmt.Errorf("seed station %q: %w", name, err)
		}
	}

	if adminEmail == "" || adminPassword == "" {
		logger.Info("seed finished, no admin credential configured")
		return nil
	}

	created, err := ensureAdmin(ctx, db, adminEmail, adminPassword)
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	if created {
		logger.Info("seeded admin user", "email", adminEmail)
	}
	return nil
}

func ensureStation(ctx context.Context, db *database.DB, name string) error {
	row, err := db.Get(ctx, "SELECT id FROM stations WHERE name = ?", name)
	if err != nil {
		return err
	}
	if row != nil {
		return nil
	}
	_, err = db.Run(ctx, "INSERT INTO stations (id, name) VALUES (?, ?)", uuid.NewString(), name)
	return err
}

func ensureAdmin(ctx context.Context, db *database.DB, email, password string) (bool, error) {
	row, err := db.Get(ctx, "SELECT id FROM users WHERE email = ?", email)
	if err != nil {
		return false, err
	}
	if row != nil {
		return false, nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}

	_, err = db.Run(ctx,
		"INSERT INTO users (id, email, password_hash, role) VALUES (?, ?, ?, ?)",
		uuid.NewString(), email, hash, "admin")
	if err != nil {
		return false, err
	}
	return true, nil
}
