package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Eursukkul/venue-booking/config"
	"github.com/Eursukkul/venue-booking/internal/models"
	"github.com/spf13/cobra"
)

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default venues and accounts if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := commonRun()
			db, err := openDB(cfg)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			return seedDefaults(cmd.Context(), cfg, newApp(db, nil, nil, cfg.TokenTTL, logger), logger)
		},
	}
}

// seedDefaults creates the configured venues when none exist and every
// configured account that is missing.
func seedDefaults(ctx context.Context, cfg *config.Config, a *app, logger *slog.Logger) error {
	venues := make([]models.Venue, 0, len(cfg.Seed.Venues))
	for _, v := range cfg.Seed.Venues {
		venue := models.Venue{Name: v.Name, Capacity: v.Capacity}
		if v.Location != "" {
			loc := v.Location
			venue.Location = &loc
		}
		venues = append(venues, venue)
	}
	if _, err := a.venues.EnsureDefaults(ctx, venues); err != nil {
		return fmt.Errorf("seed venues: %w", err)
	}

	for _, u := range cfg.Seed.Users {
		role := models.Role(u.Role)
		if role != models.RoleAdmin && role != models.RoleFaculty {
			logger.Warn("skipping seed user with unknown role", "component", programName, "username", u.Username, "role", u.Role)
			continue
		}
		if _, err := a.users.EnsureUser(ctx, u.Username, u.Password, role); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}
	return nil
}
