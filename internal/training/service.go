package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jkivimaki/trainwise/internal/sqlite"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidRatings is returned when a check-in carries ratings outside 1-5.
// The engine declines to assess rather than guessing a default.
var ErrInvalidRatings = errors.New("ratings must be between 1 and 5")

// historyWindow caps how many prior sets are loaded per exercise for record
// and progression comparisons.
const historyWindow = 60

// patternWindowWeeks is how far back the pattern detector looks.
const patternWindowWeeks = 8

// suggestionWindowDays bounds which exercises count as recently trained.
const suggestionWindowDays = 60

// repository bundles the per-aggregate repositories.
type repository struct {
	exercises *exerciseRepository
	workouts  *workoutRepository
	checkins  *checkinRepository
}

func newRepository(db *sqlite.Database, logger *slog.Logger) *repository {
	return &repository{
		exercises: newExerciseRepository(db, logger),
		workouts:  newWorkoutRepository(db, logger),
		checkins:  newCheckinRepository(db, logger),
	}
}

// Service ties the pure analysis engine to persistence.
type Service struct {
	repo   *repository
	logger *slog.Logger
	policy ProgressionPolicy

	// starting guards against a double-tapped start button creating the
	// same workout twice before the row exists. The database uniqueness
	// constraint is the backstop.
	startMu  sync.Mutex
	starting map[string]struct{}
}

// NewService creates a new training service.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	return &Service{
		repo:     newRepository(db, logger),
		logger:   logger,
		policy:   DefaultProgressionPolicy(),
		starting: make(map[string]struct{}),
	}
}

// ListExercises returns the exercise catalog.
func (s *Service) ListExercises(ctx context.Context) ([]Exercise, error) {
	exercises, err := s.repo.exercises.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return exercises, nil
}

// GetExercise retrieves one catalog entry.
func (s *Service) GetExercise(ctx context.Context, id int) (Exercise, error) {
	exercise, err := s.repo.exercises.Get(ctx, id)
	if err != nil {
		return Exercise{}, fmt.Errorf("get exercise %d: %w", id, err)
	}
	return exercise, nil
}

// StartSession creates the workout for a date unless it already exists.
// Concurrent calls for the same date collapse into one creation.
func (s *Service) StartSession(ctx context.Context, date time.Time, sessionContext SessionContext, block *BlockRef) error {
	key := normalizeDate(date).Format(dateFormat)

	s.startMu.Lock()
	if _, inFlight := s.starting[key]; inFlight {
		s.startMu.Unlock()
		// Another call is already creating this workout. The row insert is
		// idempotent, so there is nothing left to do.
		return nil
	}
	s.starting[key] = struct{}{}
	s.startMu.Unlock()
	defer func() {
		s.startMu.Lock()
		delete(s.starting, key)
		s.startMu.Unlock()
	}()

	if err := s.repo.workouts.Start(ctx, date, sessionContext, block); err != nil {
		return fmt.Errorf("start session %s: %w", key, err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "session started", slog.String("date", key))
	return nil
}

// GetSession retrieves the workout for a date.
func (s *Service) GetSession(ctx context.Context, date time.Time) (Workout, error) {
	w, err := s.repo.workouts.Get(ctx, date)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Workout{}, err
		}
		return Workout{}, fmt.Errorf("get session %s: %w", date.Format(dateFormat), err)
	}
	return w, nil
}

// LogSet records a set, classifying it for records on the way in. The stored
// classification is a cache of the detector's verdict at logging time and is
// never recomputed from the flag later.
func (s *Service) LogSet(ctx context.Context, date time.Time, exerciseID int, set Set) (PRKind, error) {
	date = normalizeDate(date)

	if _, err := s.repo.workouts.Get(ctx, date); err != nil {
		return PRNone, fmt.Errorf("log set: %w", err)
	}
	if _, err := s.repo.exercises.Get(ctx, exerciseID); err != nil {
		return PRNone, fmt.Errorf("log set: %w", err)
	}

	history, err := s.repo.workouts.SetHistory(ctx, exerciseID, date, historyWindow)
	if err != nil {
		return PRNone, fmt.Errorf("load set history: %w", err)
	}

	set.PR = ClassifyRecord(set, history)

	if err = s.repo.workouts.AddSet(ctx, date, exerciseID, set); err != nil {
		return PRNone, fmt.Errorf("add set: %w", err)
	}

	if set.PR != PRNone {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "personal record",
			slog.String("date", date.Format(dateFormat)),
			slog.Int("exercise_id", exerciseID),
			slog.String("kind", string(set.PR)))
	}
	return set.PR, nil
}

// CompleteSession finishes the workout for a date and returns its evaluation.
// The verdict is persisted with the workout for later listings.
func (s *Service) CompleteSession(ctx context.Context, date time.Time) (Evaluation, error) {
	date = normalizeDate(date)

	w, err := s.repo.workouts.Get(ctx, date)
	if err != nil {
		return Evaluation{}, fmt.Errorf("complete session %s: %w", date.Format(dateFormat), err)
	}

	prior := make(map[int][]Set, len(w.ExerciseSets))
	for _, es := range w.ExerciseSets {
		var history []Set
		if history, err = s.repo.workouts.SetHistory(ctx, es.Exercise.ID, date, historyWindow); err != nil {
			return Evaluation{}, fmt.Errorf("load history for exercise %d: %w", es.Exercise.ID, err)
		}
		prior[es.Exercise.ID] = history
	}

	priorBlockSessions := 0
	if w.Block != nil {
		if priorBlockSessions, err = s.repo.workouts.CompletedBlockSessions(ctx, w.Block.ID, date); err != nil {
			return Evaluation{}, fmt.Errorf("count block sessions: %w", err)
		}
	}

	evaluation := EvaluateSession(w, prior, priorBlockSessions)

	if err = s.repo.workouts.Complete(ctx, date, evaluation.Verdict); err != nil {
		return Evaluation{}, fmt.Errorf("complete session %s: %w", date.Format(dateFormat), err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "session completed",
		slog.String("date", date.Format(dateFormat)),
		slog.String("verdict", string(evaluation.Verdict)),
		slog.Int("records", evaluation.Records))
	return evaluation, nil
}

// SubmitCheckIn assesses the morning's ratings and stores the check-in.
// A later submission for the same day overwrites the earlier one.
func (s *Service) SubmitCheckIn(ctx context.Context, date time.Time, sleep, soreness, stress int) (CheckIn, error) {
	score, level, ok := Assess(sleep, soreness, stress)
	if !ok {
		return CheckIn{}, ErrInvalidRatings
	}

	c := CheckIn{
		Date:      normalizeDate(date),
		Sleep:     sleep,
		Soreness:  soreness,
		Stress:    stress,
		Score:     score,
		Suggested: level,
	}
	if err := s.repo.checkins.Upsert(ctx, c); err != nil {
		return CheckIn{}, fmt.Errorf("submit check-in: %w", err)
	}
	return c, nil
}

// GetCheckIn retrieves the check-in for a date.
func (s *Service) GetCheckIn(ctx context.Context, date time.Time) (CheckIn, error) {
	c, err := s.repo.checkins.Get(ctx, date)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return CheckIn{}, err
		}
		return CheckIn{}, fmt.Errorf("get check-in %s: %w", date.Format(dateFormat), err)
	}
	return c, nil
}

// OverrideAdjustment replaces the day's suggested level with the athlete's
// choice. The original suggestion stays on record.
func (s *Service) OverrideAdjustment(ctx context.Context, date time.Time, level Level) error {
	switch level {
	case LevelFull, LevelReduced, LevelLight, LevelRest:
	default:
		return fmt.Errorf("unknown level %q", level)
	}
	if err := s.repo.checkins.SetOverride(ctx, date, level); err != nil {
		return fmt.Errorf("override adjustment %s: %w", date.Format(dateFormat), err)
	}
	return nil
}

// TodayAdjustment resolves the effective adjustment for a date from its
// check-in. Without a check-in there is no assessment and ErrNotFound is
// returned; callers treat that as a normal state, not a failure.
func (s *Service) TodayAdjustment(ctx context.Context, date time.Time) (Level, Adjustment, error) {
	c, err := s.GetCheckIn(ctx, date)
	if err != nil {
		return "", Adjustment{}, err
	}
	level := c.Effective()
	return level, AdjustmentFor(level), nil
}

// ExerciseSuggestion pairs an exercise with its progression proposal. A nil
// Suggestion means the engine had too little to go on.
type ExerciseSuggestion struct {
	Exercise   Exercise
	Suggestion *Suggestion
}

// SuggestProgressions proposes the next prescription for every recently
// trained exercise. Histories are independent, so they load and evaluate
// concurrently off the read pool.
func (s *Service) SuggestProgressions(ctx context.Context, date time.Time) ([]ExerciseSuggestion, error) {
	date = normalizeDate(date)
	since := date.AddDate(0, 0, -suggestionWindowDays)

	ids, err := s.repo.workouts.RecentExerciseIDs(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("recent exercises: %w", err)
	}

	suggestions := make([]ExerciseSuggestion, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			exercise, err := s.repo.exercises.Get(gctx, id)
			if err != nil {
				return fmt.Errorf("get exercise %d: %w", id, err)
			}
			// The day's own sets are part of the history for the next session.
			history, err := s.repo.workouts.SetHistory(gctx, id, date.AddDate(0, 0, 1), historyWindow)
			if err != nil {
				return fmt.Errorf("load history for exercise %d: %w", id, err)
			}
			suggestions[i] = ExerciseSuggestion{
				Exercise:   exercise,
				Suggestion: SuggestProgression(exercise, history, s.policy),
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, fmt.Errorf("suggest progressions: %w", err)
	}
	return suggestions, nil
}

// DetectPatterns runs the pattern detector over the recent training history.
func (s *Service) DetectPatterns(ctx context.Context, date time.Time) ([]Pattern, error) {
	since := normalizeDate(date).AddDate(0, 0, -7*patternWindowWeeks)
	history, err := s.repo.workouts.List(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("load workout history: %w", err)
	}
	return DetectPatterns(history, DefaultPatternOptions()), nil
}

// RecentSessions returns the sessions from the past days up to and including
// the given date, newest first.
func (s *Service) RecentSessions(ctx context.Context, date time.Time, days int) ([]Workout, error) {
	since := normalizeDate(date).AddDate(0, 0, -days)
	history, err := s.repo.workouts.List(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("load recent sessions: %w", err)
	}
	slices.Reverse(history)
	return history, nil
}

// ExerciseRecords returns the known personal bests for an exercise, derived
// on demand from its history.
func (s *Service) ExerciseRecords(ctx context.Context, exerciseID int, date time.Time) (Record, bool, error) {
	history, err := s.repo.workouts.SetHistory(ctx, exerciseID, normalizeDate(date).AddDate(0, 0, 1), historyWindow)
	if err != nil {
		return Record{}, false, fmt.Errorf("load history for exercise %d: %w", exerciseID, err)
	}
	rec, ok := BestKnown(history)
	return rec, ok, nil
}
