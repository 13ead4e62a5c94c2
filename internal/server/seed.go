// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/unityvote/unityvote/internal/config"
	"github.com/unityvote/unityvote/internal/database"
	"github.com/unityvote/unityvote/internal/models"
	"github.com/unityvote/unityvote/internal/repository"
)

// Seed loads the default contest and its award categories. Existing rows are
// left untouched, so running it twice is harmless.
func Seed(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repository.New(db)

	contest := &models.Contest{
		ID:          "c1",
		Title:       "Unity Summit & Awards 2026",
		Description: "Celebrating the voices, bridge-builders, and future leaders shaping our diverse community.",
		StartDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		Status:      models.ContestActive,
		BannerURL:   "https://images.unsplash.com/photo-1511578314322-379afb476865?auto=format&fit=crop&q=80&w=2000",
	}
	if err := repo.CreateContest(ctx, contest); err != nil {
		if !errors.Is(err, repository.ErrConflict) {
			return fmt.Errorf("seeding contest: %w", err)
		}
		slog.Info("contest already seeded", "contest_id", contest.ID)
	} else {
		slog.Info("contest created", "contest_id", contest.ID, "title", contest.Title)
	}

	categories := []models.Category{
		{
			ID:            "cat1",
			Name:          "Brobyggerprisen 2026",
			Description:   "For de som bygger broer mellom mennesker og kulturer",
			CoverPhotoURL: "https://images.unsplash.com/photo-1529156069898-49953e39b3ac?auto=format&fit=crop&q=80&w=2000",
			Icon:          "🌉",
			DisplayOrder:  1,
		},
		{
			ID:            "cat2",
			Name:          "Inkluderingsprisen 2026",
			Description:   "For de som skaper rom for alle",
			CoverPhotoURL: "https://images.unsplash.com/photo-1555421689-491a97ff2040?auto=format&fit=crop&q=80&w=2000",
			Icon:          "🤝",
			DisplayOrder:  2,
		},
		{
			ID:            "cat3",
			Name:          "Fremtidens stemme 2026",
			Description:   "For unge som former morgendagens samfunn",
			CoverPhotoURL: "https://images.unsplash.com/photo-1475721027785-f74eccf877e2?auto=format&fit=crop&q=80&w=2000",
			Icon:          "🎙️",
			DisplayOrder:  3,
		},
		{
			ID:            "cat4",
			Name:          "Kommunikasjonskraft 2026",
			Description:   "For de som formidler med kraft og klarhet",
			CoverPhotoURL: "https://images.unsplash.com/photo-1557804506-669a67965ba0?auto=format&fit=crop&q=80&w=2000",
			Icon:          "💬",
			DisplayOrder:  4,
		},
		{
			ID:            "cat5",
			Name:          "Gjennomslagskraft 2026",
			Description:   "For de som får ting til å skje",
			CoverPhotoURL: "https://images.unsplash.com/photo-1552664730-d307ca884978?auto=format&fit=crop&q=80&w=2000",
			Icon:          "⚡",
			DisplayOrder:  5,
		},
	}
	for i := range categories {
		category := categories[i]
		category.IsActive = true
		category.ContestID = contest.ID
		if err := repo.CreateCategory(ctx, &category); err != nil {
			if !errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("seeding category %q: %w", category.Name, err)
			}
			continue
		}
		slog.Info("category created", "category_id", category.ID, "name", category.Name)
	}

	slog.Info("seeding completed")
	return nil
}
