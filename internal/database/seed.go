package database

import (
	"context"
	"fmt"
	"log"
)

// Default catalogs inserted once at startup. The old client kept
// these as inline fallbacks scattered through its read paths;
// here they are a single explicit seed step so the read paths
// can trust the tables.

var defaultCategories = []string{
	"Mathematics",
	"Reading & Writing",
	"Science",
	"Daily Living",
	"Social Skills",
	"Arts & Crafts",
}

var defaultDifficulties = []string{
	"Beginner",
	"Intermediate",
	"Advanced",
}

type seedBadge struct {
	title       string
	description string
	icon        string
}

var defaultBadges = []seedBadge{
	{"First Steps", "Complete your first activity", "footprints"},
	{"Quick Learner", "Complete 5 activities", "zap"},
	{"Rising Star", "Complete 10 activities", "star"},
	{"Dedicated Student", "Complete 25 activities", "medal"},
	{"Perfect Score", "Score 100% on any activity", "target"},
	{"High Achiever", "Keep an average score above 90%", "trophy"},
	{"Daily Visitor", "Check in every day for a week", "calendar"},
	{"Emotion Explorer", "Log your first emotional check-in", "heart"},
	{"Bookworm", "Complete 5 reading activities", "book"},
	{"Math Whiz", "Complete 5 math activities", "calculator"},
	{"Helping Hand", "Complete 5 daily living activities", "hand"},
}

// SeedCatalogs populates the category, difficulty and badge
// catalogs when their tables are empty. Safe to run on every
// startup.
func (db *DB) SeedCatalogs(ctx context.Context) error {
	if err := db.seedNames(ctx, "categories", defaultCategories); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	if err := db.seedNames(ctx, "difficulties", defaultDifficulties); err != nil {
		return fmt.Errorf("failed to seed difficulties: %w", err)
	}
	if err := db.seedBadges(ctx); err != nil {
		return fmt.Errorf("failed to seed badges: %w", err)
	}
	return nil
}

// seedNames inserts the given names into a (id, name) catalog
// table if it is empty.
func (db *DB) seedNames(ctx context.Context, table string, names []string) error {
	var count int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, name := range names {
		if _, err := tx.Exec(ctx, "INSERT INTO "+table+" (name) VALUES (?)", name); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Printf("Seeded %d rows into %s", len(names), table)
	return nil
}

// seedBadges inserts the badge catalog if the table is empty.
func (db *DB) seedBadges(ctx context.Context) error {
	var count int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM badges").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, b := range defaultBadges {
		_, err := tx.Exec(ctx,
			"INSERT INTO badges (title, description, icon) VALUES (?, ?, ?)",
			b.title, b.description, b.icon)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Printf("Seeded %d badges", len(defaultBadges))
	return nil
}
