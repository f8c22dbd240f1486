package training

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jkivimaki/trainwise/internal/sqlite"
	"log/slog"
)

// exerciseRepository reads the exercise catalog.
type exerciseRepository struct {
	baseRepository
}

func newExerciseRepository(db *sqlite.Database, logger *slog.Logger) *exerciseRepository {
	return &exerciseRepository{
		baseRepository: newBaseRepository(db, logger),
	}
}

// Get retrieves a single exercise by ID.
func (r *exerciseRepository) Get(ctx context.Context, id int) (Exercise, error) {
	var exercise Exercise

	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, name, modality, metric, class, description_markdown
		FROM exercises
		WHERE id = ?`, id).Scan(
		&exercise.ID,
		&exercise.Name,
		&exercise.Modality,
		&exercise.Metric,
		&exercise.Class,
		&exercise.DescriptionMarkdown,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Exercise{}, ErrNotFound
	}
	if err != nil {
		return Exercise{}, fmt.Errorf("query exercise: %w", err)
	}

	primary, secondary, err := r.fetchMuscleGroups(ctx, exercise.ID)
	if err != nil {
		return Exercise{}, fmt.Errorf("fetch muscle groups for exercise %d: %w", exercise.ID, err)
	}
	exercise.PrimaryMuscleGroups = primary
	exercise.SecondaryMuscleGroups = secondary

	return exercise, nil
}

// List returns the whole catalog with muscle groups.
func (r *exerciseRepository) List(ctx context.Context) (_ []Exercise, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, name, modality, metric, class, description_markdown
		FROM exercises
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var exercises []Exercise
	for rows.Next() {
		var exercise Exercise
		if err = rows.Scan(
			&exercise.ID,
			&exercise.Name,
			&exercise.Modality,
			&exercise.Metric,
			&exercise.Class,
			&exercise.DescriptionMarkdown,
		); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercises = append(exercises, exercise)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for i := range exercises {
		var primary, secondary []string
		if primary, secondary, err = r.fetchMuscleGroups(ctx, exercises[i].ID); err != nil {
			return nil, fmt.Errorf("fetch muscle groups for exercise %d: %w", exercises[i].ID, err)
		}
		exercises[i].PrimaryMuscleGroups = primary
		exercises[i].SecondaryMuscleGroups = secondary
	}

	return exercises, nil
}

// fetchMuscleGroups retrieves the primary and secondary muscle groups for an exercise.
func (r *exerciseRepository) fetchMuscleGroups(
	ctx context.Context,
	exerciseID int,
) (_ []string, _ []string, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT muscle_group_name, role
		FROM exercise_muscle_groups
		WHERE exercise_id = ?
		ORDER BY muscle_group_name`, exerciseID)
	if err != nil {
		return nil, nil, fmt.Errorf("query muscle groups: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var primary, secondary []string
	for rows.Next() {
		var name, role string
		if err = rows.Scan(&name, &role); err != nil {
			return nil, nil, fmt.Errorf("scan muscle group row: %w", err)
		}
		if role == "primary" {
			primary = append(primary, name)
		} else {
			secondary = append(secondary, name)
		}
	}
	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate muscle group rows: %w", err)
	}

	return primary, secondary, nil
}
