package training

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jkivimaki/trainwise/internal/sqlite"
)

// checkinRepository persists the daily readiness check-ins.
type checkinRepository struct {
	baseRepository
}

func newCheckinRepository(db *sqlite.Database, logger *slog.Logger) *checkinRepository {
	return &checkinRepository{
		baseRepository: newBaseRepository(db, logger),
	}
}

// Upsert stores a check-in. A later check-in for the same day overwrites the
// earlier one, including any override the athlete had set on it.
func (r *checkinRepository) Upsert(ctx context.Context, c CheckIn) error {
	var override any
	if c.Override != nil {
		override = string(*c.Override)
	}

	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO readiness_checkins (
			checkin_date, sleep_rating, soreness_rating, stress_rating,
			score, suggested_level, override_level
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (checkin_date) DO UPDATE SET
			sleep_rating = excluded.sleep_rating,
			soreness_rating = excluded.soreness_rating,
			stress_rating = excluded.stress_rating,
			score = excluded.score,
			suggested_level = excluded.suggested_level,
			override_level = excluded.override_level`,
		normalizeDate(c.Date).Format(dateFormat),
		c.Sleep, c.Soreness, c.Stress,
		c.Score, string(c.Suggested), override)
	if err != nil {
		return fmt.Errorf("upsert check-in: %w", err)
	}
	return nil
}

// Get retrieves the check-in for a date.
func (r *checkinRepository) Get(ctx context.Context, date time.Time) (CheckIn, error) {
	date = normalizeDate(date)
	var (
		c           CheckIn
		suggested   string
		overrideStr sql.NullString
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT sleep_rating, soreness_rating, stress_rating, score, suggested_level, override_level
		FROM readiness_checkins
		WHERE checkin_date = ?`, date.Format(dateFormat)).Scan(
		&c.Sleep, &c.Soreness, &c.Stress, &c.Score, &suggested, &overrideStr)
	if errors.Is(err, sql.ErrNoRows) {
		return CheckIn{}, ErrNotFound
	}
	if err != nil {
		return CheckIn{}, fmt.Errorf("query check-in: %w", err)
	}

	c.Date = date
	c.Suggested = Level(suggested)
	if overrideStr.Valid {
		override := Level(overrideStr.String)
		c.Override = &override
	}
	return c, nil
}

// SetOverride records the athlete's replacement level for a day's suggestion.
func (r *checkinRepository) SetOverride(ctx context.Context, date time.Time, level Level) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE readiness_checkins
		SET override_level = ?
		WHERE checkin_date = ?`,
		string(level), normalizeDate(date).Format(dateFormat))
	if err != nil {
		return fmt.Errorf("set override: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("check-in %s: %w", date.Format(dateFormat), ErrNotFound)
	}
	return nil
}
