package training_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jkivimaki/trainwise/internal/ptr"
	"github.com/jkivimaki/trainwise/internal/sqlite"
	"github.com/jkivimaki/trainwise/internal/testhelpers"
	"github.com/jkivimaki/trainwise/internal/training"
)

func newTestService(t *testing.T) *training.Service {
	t.Helper()
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("Failed to close database: %v", closeErr)
		}
	})

	return training.NewService(db, logger)
}

// findExercise looks up a fixture exercise by name.
func findExercise(t *testing.T, ctx context.Context, svc *training.Service, name string) training.Exercise {
	t.Helper()
	exercises, err := svc.ListExercises(ctx)
	if err != nil {
		t.Fatalf("Failed to list exercises: %v", err)
	}
	for _, ex := range exercises {
		if ex.Name == name {
			return ex
		}
	}
	t.Fatalf("Exercise %q not found in fixtures", name)
	return training.Exercise{}
}

func loggedSet(weightKg float64, reps int, effort float64) training.Set {
	return training.Set{
		WeightKg: ptr.Ref(weightKg),
		Reps:     ptr.Ref(reps),
		Effort:   ptr.Ref(effort),
	}
}

func mustStart(t *testing.T, ctx context.Context, svc *training.Service, date time.Time) {
	t.Helper()
	if err := svc.StartSession(ctx, date, training.ContextPlanned, nil); err != nil {
		t.Fatalf("Failed to start session: %v", err)
	}
}

func mustLog(t *testing.T, ctx context.Context, svc *training.Service, date time.Time, exerciseID int, s training.Set) training.PRKind {
	t.Helper()
	kind, err := svc.LogSet(ctx, date, exerciseID, s)
	if err != nil {
		t.Fatalf("Failed to log set: %v", err)
	}
	return kind
}

func Test_LogSet_DetectsRecords(t *testing.T) {
	ctx := t.Context()
	svc := newTestService(t)
	bench := findExercise(t, ctx, svc, "Bench Press")

	week1 := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	week2 := week1.AddDate(0, 0, 7)

	mustStart(t, ctx, svc, week1)
	if kind := mustLog(t, ctx, svc, week1, bench.ID, loggedSet(135, 5, 8)); kind != training.PRNone {
		t.Errorf("First ever set classified as %q, want no record", kind)
	}
	if _, err := svc.CompleteSession(ctx, week1); err != nil {
		t.Fatalf("Failed to complete session: %v", err)
	}

	mustStart(t, ctx, svc, week2)
	if kind := mustLog(t, ctx, svc, week2, bench.ID, loggedSet(145, 5, 9)); kind != training.PRWeight {
		t.Errorf("Heavier set classified as %q, want %q", kind, training.PRWeight)
	}

	// A warm-up never records, no matter the numbers.
	warmup := loggedSet(150, 1, 6)
	warmup.Warmup = true
	if kind := mustLog(t, ctx, svc, week2, bench.ID, warmup); kind != training.PRNone {
		t.Errorf("Warm-up classified as %q, want no record", kind)
	}
}

func Test_CompleteSession_Verdicts(t *testing.T) {
	ctx := t.Context()
	svc := newTestService(t)
	bench := findExercise(t, ctx, svc, "Bench Press")
	squat := findExercise(t, ctx, svc, "Back Squat")

	week1 := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	week2 := week1.AddDate(0, 0, 7)
	week3 := week1.AddDate(0, 0, 14)

	// First exposure: nothing to compare against.
	mustStart(t, ctx, svc, week1)
	mustLog(t, ctx, svc, week1, bench.ID, loggedSet(80, 5, 7))
	mustLog(t, ctx, svc, week1, squat.ID, loggedSet(100, 5, 7))
	ev, err := svc.CompleteSession(ctx, week1)
	if err != nil {
		t.Fatalf("Failed to complete session: %v", err)
	}
	if ev.Verdict != training.VerdictJunk {
		t.Errorf("First session verdict = %q, want %q", ev.Verdict, training.VerdictJunk)
	}

	// A record with nothing regressing is productive.
	mustStart(t, ctx, svc, week2)
	mustLog(t, ctx, svc, week2, bench.ID, loggedSet(82.5, 5, 8))
	mustLog(t, ctx, svc, week2, squat.ID, loggedSet(100, 5, 7))
	if ev, err = svc.CompleteSession(ctx, week2); err != nil {
		t.Fatalf("Failed to complete session: %v", err)
	}
	if ev.Verdict != training.VerdictProductive {
		t.Errorf("Second session verdict = %q, want %q", ev.Verdict, training.VerdictProductive)
	}
	if ev.Records == 0 {
		t.Error("Second session counted no records")
	}

	// A clear across-the-board drop is suboptimal.
	mustStart(t, ctx, svc, week3)
	mustLog(t, ctx, svc, week3, bench.ID, loggedSet(70, 5, 9))
	mustLog(t, ctx, svc, week3, squat.ID, loggedSet(80, 5, 9))
	if ev, err = svc.CompleteSession(ctx, week3); err != nil {
		t.Fatalf("Failed to complete session: %v", err)
	}
	if ev.Verdict != training.VerdictSuboptimal {
		t.Errorf("Third session verdict = %q, want %q", ev.Verdict, training.VerdictSuboptimal)
	}

	// The stored workout carries the verdict.
	w, err := svc.GetSession(ctx, week3)
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if w.Verdict != training.VerdictSuboptimal {
		t.Errorf("Stored verdict = %q, want %q", w.Verdict, training.VerdictSuboptimal)
	}
	if !w.Completed() {
		t.Error("Completed session not marked completed")
	}
}

func Test_CompleteSession_RecoveryOverride(t *testing.T) {
	ctx := t.Context()
	svc := newTestService(t)
	bench := findExercise(t, ctx, svc, "Bench Press")

	week1 := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	week2 := week1.AddDate(0, 0, 7)

	mustStart(t, ctx, svc, week1)
	mustLog(t, ctx, svc, week1, bench.ID, loggedSet(80, 5, 7))
	if _, err := svc.CompleteSession(ctx, week1); err != nil {
		t.Fatalf("Failed to complete session: %v", err)
	}

	// A deliberately light day would regress, but the tag wins.
	if err := svc.StartSession(ctx, week2, training.ContextRecovery, nil); err != nil {
		t.Fatalf("Failed to start recovery session: %v", err)
	}
	mustLog(t, ctx, svc, week2, bench.ID, loggedSet(50, 5, 6))
	ev, err := svc.CompleteSession(ctx, week2)
	if err != nil {
		t.Fatalf("Failed to complete recovery session: %v", err)
	}
	if ev.Verdict != training.VerdictRecovery {
		t.Errorf("Recovery session verdict = %q, want %q", ev.Verdict, training.VerdictRecovery)
	}
}

func Test_StartSession_Idempotent(t *testing.T) {
	ctx := t.Context()
	svc := newTestService(t)
	date := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.StartSession(ctx, date, training.ContextPlanned, nil); err != nil {
				t.Errorf("StartSession failed: %v", err)
			}
		}()
	}
	wg.Wait()

	w, err := svc.GetSession(ctx, date)
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if w.StartedAt.IsZero() {
		t.Error("Session has no start time")
	}
}

func Test_GetSession_NotFound(t *testing.T) {
	ctx := t.Context()
	svc := newTestService(t)

	_, err := svc.GetSession(ctx, time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, training.ErrNotFound) {
		t.Errorf("GetSession error = %v, want ErrNotFound", err)
	}
}

func Test_CheckInFlow(t *testing.T) {
	ctx := t.Context()
	svc := newTestService(t)
	date := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

	// No check-in yet means no assessment, a normal state.
	if _, _, err := svc.TodayAdjustment(ctx, date); !errors.Is(err, training.ErrNotFound) {
		t.Errorf("TodayAdjustment error = %v, want ErrNotFound", err)
	}

	c, err := svc.SubmitCheckIn(ctx, date, 4, 4, 4)
	if err != nil {
		t.Fatalf("Failed to submit check-in: %v", err)
	}
	if c.Suggested != training.LevelFull {
		t.Errorf("Suggested level = %q, want %q", c.Suggested, training.LevelFull)
	}

	level, adj, err := svc.TodayAdjustment(ctx, date)
	if err != nil {
		t.Fatalf("Failed to resolve adjustment: %v", err)
	}
	if level != training.LevelFull || adj.LoadFactor != 1.0 {
		t.Errorf("Adjustment = (%q, %+v), want full at factor 1.0", level, adj)
	}

	// The athlete knows better today.
	if err = svc.OverrideAdjustment(ctx, date, training.LevelLight); err != nil {
		t.Fatalf("Failed to override: %v", err)
	}
	level, adj, err = svc.TodayAdjustment(ctx, date)
	if err != nil {
		t.Fatalf("Failed to resolve adjustment after override: %v", err)
	}
	if level != training.LevelLight {
		t.Errorf("Effective level = %q, want the override", level)
	}
	if adj.LoadFactor != 0.75 {
		t.Errorf("Load factor = %v, want 0.75", adj.LoadFactor)
	}

	// The suggestion survives alongside the override.
	c, err = svc.GetCheckIn(ctx, date)
	if err != nil {
		t.Fatalf("Failed to get check-in: %v", err)
	}
	if c.Suggested != training.LevelFull {
		t.Errorf("Stored suggestion = %q, want %q", c.Suggested, training.LevelFull)
	}
}

func Test_SubmitCheckIn_InvalidRatings(t *testing.T) {
	ctx := t.Context()
	svc := newTestService(t)
	date := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

	if _, err := svc.SubmitCheckIn(ctx, date, 0, 3, 3); !errors.Is(err, training.ErrInvalidRatings) {
		t.Errorf("SubmitCheckIn error = %v, want ErrInvalidRatings", err)
	}
}

func Test_SuggestProgressions(t *testing.T) {
	ctx := t.Context()
	svc := newTestService(t)
	bench := findExercise(t, ctx, svc, "Bench Press")

	week1 := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	week2 := week1.AddDate(0, 0, 7)

	for _, date := range []time.Time{week1, week2} {
		mustStart(t, ctx, svc, date)
		mustLog(t, ctx, svc, date, bench.ID, loggedSet(80, 5, 7.5))
		mustLog(t, ctx, svc, date, bench.ID, loggedSet(80, 5, 8))
		if _, err := svc.CompleteSession(ctx, date); err != nil {
			t.Fatalf("Failed to complete session: %v", err)
		}
	}

	suggestions, err := svc.SuggestProgressions(ctx, week2)
	if err != nil {
		t.Fatalf("Failed to suggest progressions: %v", err)
	}

	var benchSuggestion *training.Suggestion
	for _, es := range suggestions {
		if es.Exercise.ID == bench.ID {
			benchSuggestion = es.Suggestion
		}
	}
	if benchSuggestion == nil {
		t.Fatal("No suggestion for the trained exercise")
	}
	if benchSuggestion.WeightKg != 82.5 {
		t.Errorf("Suggested weight = %v, want 82.5", benchSuggestion.WeightKg)
	}
	if benchSuggestion.Deload {
		t.Error("Suggestion flagged a deload for easy sets")
	}
}

func Test_ExerciseRecords(t *testing.T) {
	ctx := t.Context()
	svc := newTestService(t)
	squat := findExercise(t, ctx, svc, "Back Squat")

	date := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

	if _, ok, err := svc.ExerciseRecords(ctx, squat.ID, date); err != nil || ok {
		t.Fatalf("ExerciseRecords before any sets = (ok=%v, err=%v), want no records", ok, err)
	}

	mustStart(t, ctx, svc, date)
	mustLog(t, ctx, svc, date, squat.ID, loggedSet(100, 5, 8))
	mustLog(t, ctx, svc, date, squat.ID, loggedSet(110, 3, 9))

	rec, ok, err := svc.ExerciseRecords(ctx, squat.ID, date)
	if err != nil {
		t.Fatalf("Failed to load records: %v", err)
	}
	if !ok {
		t.Fatal("No records after logged sets")
	}
	if rec.BestWeightKg != 110 || rec.BestRepsAtWeight != 3 {
		t.Errorf("Best weight = %vx%d, want 110x3", rec.BestWeightKg, rec.BestRepsAtWeight)
	}
}

func Test_BlockSessionsAreCounted(t *testing.T) {
	ctx := t.Context()
	svc := newTestService(t)
	bench := findExercise(t, ctx, svc, "Bench Press")

	block := &training.BlockRef{Name: "Strength block", Week: 1, Day: 1}
	week1 := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

	if err := svc.StartSession(ctx, week1, training.ContextPlanned, block); err != nil {
		t.Fatalf("Failed to start block session: %v", err)
	}
	mustLog(t, ctx, svc, week1, bench.ID, loggedSet(80, 5, 7))
	ev, err := svc.CompleteSession(ctx, week1)
	if err != nil {
		t.Fatalf("Failed to complete session: %v", err)
	}
	if !ev.Calibrating {
		t.Error("First block session not flagged as calibrating")
	}

	w, err := svc.GetSession(ctx, week1)
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if w.Block == nil || w.Block.Name != "Strength block" {
		t.Errorf("Stored block = %+v, want the named block", w.Block)
	}
}
