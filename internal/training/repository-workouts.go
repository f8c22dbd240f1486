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

// workoutRepository handles workout, set and block persistence.
type workoutRepository struct {
	baseRepository
}

func newWorkoutRepository(db *sqlite.Database, logger *slog.Logger) *workoutRepository {
	return &workoutRepository{
		baseRepository: newBaseRepository(db, logger),
	}
}

// Start creates the workout row for a date if it does not exist yet and
// stamps started_at. Re-running for the same date is a no-op, which is what
// makes a double-tapped start button harmless.
func (r *workoutRepository) Start(ctx context.Context, date time.Time, sessionContext SessionContext, block *BlockRef) error {
	dateStr := normalizeDate(date).Format(dateFormat)
	startedAt := time.Now().UTC().Format(timestampFormat)

	return r.inTx(ctx, func(tx *sql.Tx) error {
		var blockID, blockWeek, blockDay any
		if block != nil {
			id, err := ensureBlock(ctx, tx, block.Name)
			if err != nil {
				return fmt.Errorf("ensure training block: %w", err)
			}
			blockID, blockWeek, blockDay = id, block.Week, block.Day
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO workouts (workout_date, context, block_id, block_week, block_day, started_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (workout_date) DO UPDATE SET
				started_at = COALESCE(workouts.started_at, excluded.started_at)`,
			dateStr, string(sessionContext), blockID, blockWeek, blockDay, startedAt)
		if err != nil {
			return fmt.Errorf("insert workout: %w", err)
		}
		return nil
	})
}

// ensureBlock finds or creates a training block by name.
func ensureBlock(ctx context.Context, tx *sql.Tx, name string) (int, error) {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO training_blocks (name) VALUES (?)
		ON CONFLICT (name) DO NOTHING`, name); err != nil {
		return 0, fmt.Errorf("insert training block: %w", err)
	}
	var id int
	if err := tx.QueryRowContext(ctx, `
		SELECT id FROM training_blocks WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("query training block: %w", err)
	}
	return id, nil
}

// Complete stamps completed_at and stores the verdict. Completing twice or
// completing a workout that was never started is an error.
func (r *workoutRepository) Complete(ctx context.Context, date time.Time, verdict Verdict) error {
	completedAt := time.Now().UTC().Format(timestampFormat)

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE workouts
		SET completed_at = ?, verdict = ?
		WHERE workout_date = ? AND completed_at IS NULL`,
		completedAt, string(verdict), normalizeDate(date).Format(dateFormat))
	if err != nil {
		return fmt.Errorf("complete workout: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("workout %s: %w", date.Format(dateFormat), ErrNotFound)
	}
	return nil
}

// AddSet appends a set to a workout, numbering it after the sets already
// logged for the exercise that day.
func (r *workoutRepository) AddSet(ctx context.Context, date time.Time, exerciseID int, s Set) error {
	dateStr := normalizeDate(date).Format(dateFormat)

	return r.inTx(ctx, func(tx *sql.Tx) error {
		var setNumber int
		err := tx.QueryRowContext(ctx, `
			SELECT COALESCE(MAX(set_number), 0) + 1
			FROM logged_sets
			WHERE workout_date = ? AND exercise_id = ?`, dateStr, exerciseID).Scan(&setNumber)
		if err != nil {
			return fmt.Errorf("next set number: %w", err)
		}

		// The set timestamp defaults to the workout's day so that exposure
		// grouping lines up with workout_date.
		completedAt := s.CompletedAt
		if completedAt.IsZero() {
			completedAt = normalizeDate(date)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO logged_sets (
				workout_date, exercise_id, set_number,
				weight_kg, reps, effort, duration_seconds, distance_km,
				warmup, pr_kind, completed_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			dateStr, exerciseID, setNumber,
			s.WeightKg, s.Reps, s.Effort, s.DurationSeconds, s.DistanceKm,
			s.Warmup, string(s.PR), completedAt.UTC().Format(timestampFormat))
		if err != nil {
			return fmt.Errorf("insert logged set: %w", err)
		}
		return nil
	})
}

// Get retrieves the workout for a date with its sets grouped by exercise.
func (r *workoutRepository) Get(ctx context.Context, date time.Time) (Workout, error) {
	date = normalizeDate(date)
	w, err := r.queryWorkoutRow(ctx, date)
	if err != nil {
		return Workout{}, err
	}

	if w.ExerciseSets, err = r.fetchExerciseSets(ctx, date); err != nil {
		return Workout{}, fmt.Errorf("fetch exercise sets: %w", err)
	}
	return w, nil
}

func (r *workoutRepository) queryWorkoutRow(ctx context.Context, date time.Time) (Workout, error) {
	var (
		w              Workout
		contextStr     string
		verdictStr     string
		blockID        sql.NullInt64
		blockName      sql.NullString
		blockWeek      sql.NullInt64
		blockDay       sql.NullInt64
		startedAtStr   sql.NullString
		completedAtStr sql.NullString
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT w.context, w.verdict, w.block_id, b.name, w.block_week, w.block_day,
		       w.started_at, w.completed_at
		FROM workouts w
		LEFT JOIN training_blocks b ON b.id = w.block_id
		WHERE w.workout_date = ?`, date.Format(dateFormat)).Scan(
		&contextStr, &verdictStr, &blockID, &blockName, &blockWeek, &blockDay,
		&startedAtStr, &completedAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return Workout{}, ErrNotFound
	}
	if err != nil {
		return Workout{}, fmt.Errorf("query workout: %w", err)
	}

	w.Date = date
	w.Context = SessionContext(contextStr)
	w.Verdict = Verdict(verdictStr)
	if blockID.Valid {
		w.Block = &BlockRef{
			ID:   int(blockID.Int64),
			Name: blockName.String,
			Week: int(blockWeek.Int64),
			Day:  int(blockDay.Int64),
		}
	}
	if w.StartedAt, err = parseTimestamp(startedAtStr); err != nil {
		return Workout{}, fmt.Errorf("parse started_at: %w", err)
	}
	if w.CompletedAt, err = parseTimestamp(completedAtStr); err != nil {
		return Workout{}, fmt.Errorf("parse completed_at: %w", err)
	}
	return w, nil
}

func (r *workoutRepository) fetchExerciseSets(ctx context.Context, date time.Time) (_ []ExerciseSets, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT e.id, e.name, e.modality, e.metric, e.class,
		       ls.weight_kg, ls.reps, ls.effort, ls.duration_seconds, ls.distance_km,
		       ls.warmup, ls.pr_kind, ls.completed_at
		FROM logged_sets ls
		JOIN exercises e ON e.id = ls.exercise_id
		WHERE ls.workout_date = ?
		ORDER BY ls.exercise_id, ls.set_number`, date.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("query logged sets: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var (
		exerciseSets []ExerciseSets
		current      *ExerciseSets
	)
	for rows.Next() {
		var (
			exercise Exercise
			s        Set
		)
		if s, exercise, err = scanSetRow(rows); err != nil {
			return nil, err
		}

		if current == nil || current.Exercise.ID != exercise.ID {
			if current != nil {
				exerciseSets = append(exerciseSets, *current)
			}
			var primary, secondary []string
			// Reuse the catalog join table for split classification.
			if primary, secondary, err = r.fetchMuscleGroupsFor(ctx, exercise.ID); err != nil {
				return nil, fmt.Errorf("fetch muscle groups for exercise %d: %w", exercise.ID, err)
			}
			exercise.PrimaryMuscleGroups = primary
			exercise.SecondaryMuscleGroups = secondary
			current = &ExerciseSets{Exercise: exercise}
		}
		current.Sets = append(current.Sets, s)
	}
	if current != nil {
		exerciseSets = append(exerciseSets, *current)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return exerciseSets, nil
}

// scanSetRow scans the shared set+exercise column list used by the workout queries.
func scanSetRow(rows *sql.Rows) (Set, Exercise, error) {
	var (
		exercise       Exercise
		s              Set
		completedAtStr string
	)
	if err := rows.Scan(
		&exercise.ID, &exercise.Name, &exercise.Modality, &exercise.Metric, &exercise.Class,
		&s.WeightKg, &s.Reps, &s.Effort, &s.DurationSeconds, &s.DistanceKm,
		&s.Warmup, (*string)(&s.PR), &completedAtStr,
	); err != nil {
		return Set{}, Exercise{}, fmt.Errorf("scan logged set: %w", err)
	}
	completedAt, err := time.Parse(timestampFormat, completedAtStr)
	if err != nil {
		return Set{}, Exercise{}, fmt.Errorf("parse set completed_at: %w", err)
	}
	s.CompletedAt = completedAt
	return s, exercise, nil
}

func (r *workoutRepository) fetchMuscleGroupsFor(ctx context.Context, exerciseID int) (_ []string, _ []string, err error) {
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

// SetHistory returns an exercise's sets logged before the given date, most
// recent first, capped at limit. Warm-ups are included with their flag set so
// the engine can apply its own exclusion rules.
func (r *workoutRepository) SetHistory(
	ctx context.Context,
	exerciseID int,
	before time.Time,
	limit int,
) (_ []Set, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT weight_kg, reps, effort, duration_seconds, distance_km, warmup, pr_kind, completed_at
		FROM logged_sets
		WHERE exercise_id = ? AND workout_date < ?
		ORDER BY workout_date DESC, set_number DESC
		LIMIT ?`, exerciseID, normalizeDate(before).Format(dateFormat), limit)
	if err != nil {
		return nil, fmt.Errorf("query set history: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var sets []Set
	for rows.Next() {
		var (
			s              Set
			completedAtStr string
		)
		if err = rows.Scan(
			&s.WeightKg, &s.Reps, &s.Effort, &s.DurationSeconds, &s.DistanceKm,
			&s.Warmup, (*string)(&s.PR), &completedAtStr,
		); err != nil {
			return nil, fmt.Errorf("scan set history row: %w", err)
		}
		if s.CompletedAt, err = time.Parse(timestampFormat, completedAtStr); err != nil {
			return nil, fmt.Errorf("parse set completed_at: %w", err)
		}
		sets = append(sets, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return sets, nil
}

// List returns the workouts on or after since, each with its sets, ordered by date.
func (r *workoutRepository) List(ctx context.Context, since time.Time) (_ []Workout, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT workout_date
		FROM workouts
		WHERE workout_date >= ?
		ORDER BY workout_date`, normalizeDate(since).Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("query workouts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var dates []time.Time
	for rows.Next() {
		var dateStr string
		if err = rows.Scan(&dateStr); err != nil {
			return nil, fmt.Errorf("scan workout date: %w", err)
		}
		var date time.Time
		if date, err = time.Parse(dateFormat, dateStr); err != nil {
			return nil, fmt.Errorf("parse workout date: %w", err)
		}
		dates = append(dates, date)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	workouts := make([]Workout, 0, len(dates))
	for _, date := range dates {
		var w Workout
		if w, err = r.Get(ctx, date); err != nil {
			return nil, fmt.Errorf("get workout %s: %w", date.Format(dateFormat), err)
		}
		workouts = append(workouts, w)
	}
	return workouts, nil
}

// CompletedBlockSessions counts the completed workouts of a block before a date.
func (r *workoutRepository) CompletedBlockSessions(ctx context.Context, blockID int, before time.Time) (int, error) {
	var count int
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM workouts
		WHERE block_id = ? AND workout_date < ? AND completed_at IS NOT NULL`,
		blockID, normalizeDate(before).Format(dateFormat)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count block sessions: %w", err)
	}
	return count, nil
}

// RecentExerciseIDs lists the exercises trained on or after since.
func (r *workoutRepository) RecentExerciseIDs(ctx context.Context, since time.Time) (_ []int, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT DISTINCT exercise_id
		FROM logged_sets
		WHERE workout_date >= ?
		ORDER BY exercise_id`, normalizeDate(since).Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("query recent exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var ids []int
	for rows.Next() {
		var id int
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan exercise id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return ids, nil
}
