package db

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/herbe-rt/bancho/internal/model"
)

// Icons serves the main menu banner entries.
type Icons struct {
	db *DB
}

func NewIcons(db *DB) *Icons {
	return &Icons{db: db}
}

func (r *Icons) FetchAll(ctx context.Context) ([]model.MenuIcon, error) {
	rows, err := r.db.Write.Query(ctx,
		`SELECT file_id, url FROM main_menu_icons WHERE is_current = 1`)
	if err != nil {
		return nil, fmt.Errorf("querying menu icons: %w", err)
	}
	defer rows.Close()

	var icons []model.MenuIcon
	for rows.Next() {
		var icon model.MenuIcon
		if err := rows.Scan(&icon.ImageURL, &icon.ClickURL); err != nil {
			return nil, fmt.Errorf("scanning menu icon row: %w", err)
		}
		icons = append(icons, icon)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating menu icon rows: %w", err)
	}

	return icons, nil
}

// FetchRandom picks one current icon, or nil when none are set.
func (r *Icons) FetchRandom(ctx context.Context) (*model.MenuIcon, error) {
	icons, err := r.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(icons) == 0 {
		return nil, nil
	}
	return &icons[rand.IntN(len(icons))], nil
}
