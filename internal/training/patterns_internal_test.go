package training

import (
	"testing"
	"time"
)

// weekOf returns the Monday of the n:th test week.
func weekOf(n int) time.Time {
	// 2026-02-02 is a Monday.
	return time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*n)
}

func completedWorkout(date time.Time, sets ...ExerciseSets) Workout {
	return Workout{
		Date:         date,
		StartedAt:    date.Add(17 * time.Hour),
		CompletedAt:  date.Add(18 * time.Hour),
		ExerciseSets: sets,
	}
}

func squatSets(reps int) ExerciseSets {
	squat := backSquat()
	squat.PrimaryMuscleGroups = []string{"Quads", "Glutes"}
	return ExerciseSets{Exercise: squat, Sets: []Set{workingSet(100, reps, 0), workingSet(100, reps, 0)}}
}

func benchSets(reps int) ExerciseSets {
	bench := benchPress()
	bench.PrimaryMuscleGroups = []string{"Chest"}
	return ExerciseSets{Exercise: bench, Sets: []Set{workingSet(80, reps, 0)}}
}

func rowSets(reps int) ExerciseSets {
	row := Exercise{ID: 7, Name: "Barbell Row", Metric: MetricLoad, Class: ClassCompoundUpper}
	row.PrimaryMuscleGroups = []string{"Back", "Lats"}
	return ExerciseSets{Exercise: row, Sets: []Set{workingSet(70, reps, 0)}}
}

// fiveWeeksMonWedFri builds five weeks of Monday/Wednesday/Friday training
// with the same grouping every week.
func fiveWeeksMonWedFri() []Workout {
	var history []Workout
	for week := range 5 {
		monday := weekOf(week)
		history = append(history,
			completedWorkout(monday, squatSets(5)),
			completedWorkout(monday.AddDate(0, 0, 2), benchSets(5), rowSets(8)),
			completedWorkout(monday.AddDate(0, 0, 4), squatSets(5), benchSets(5)),
		)
	}
	return history
}

func findPattern(patterns []Pattern, kind PatternKind) (Pattern, bool) {
	for _, p := range patterns {
		if p.Kind == kind {
			return p, true
		}
	}
	return Pattern{}, false
}

func TestDetectPatternsPreferredDays(t *testing.T) {
	patterns := DetectPatterns(fiveWeeksMonWedFri(), DefaultPatternOptions())

	p, ok := findPattern(patterns, PatternPreferredDay)
	if !ok {
		t.Fatal("DetectPatterns() found no preferred-day pattern")
	}
	if p.Confidence < 0.8 {
		t.Errorf("preferred-day confidence = %v, want >= 0.8", p.Confidence)
	}
	wantDays := []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	if len(p.Days) != len(wantDays) {
		t.Fatalf("preferred days = %v, want %v", p.Days, wantDays)
	}
	for i, d := range wantDays {
		if p.Days[i] != d {
			t.Errorf("preferred days = %v, want %v", p.Days, wantDays)
			break
		}
	}
}

func TestDetectPatternsPairing(t *testing.T) {
	patterns := DetectPatterns(fiveWeeksMonWedFri(), DefaultPatternOptions())

	p, ok := findPattern(patterns, PatternExercisePairing)
	if !ok {
		t.Fatal("DetectPatterns() found no pairing pattern")
	}
	// Bench and row share a session every single week.
	if p.Confidence != 1.0 {
		t.Errorf("pairing confidence = %v, want 1.0", p.Confidence)
	}
}

func TestDetectPatternsRepRange(t *testing.T) {
	patterns := DetectPatterns(fiveWeeksMonWedFri(), DefaultPatternOptions())

	p, ok := findPattern(patterns, PatternRepRange)
	if !ok {
		t.Fatal("DetectPatterns() found no rep-range pattern")
	}
	if p.RepRange != "strength" {
		t.Errorf("rep range = %q, want strength", p.RepRange)
	}
}

func TestDetectPatternsTooFewSessions(t *testing.T) {
	monday := weekOf(0)
	history := []Workout{
		completedWorkout(monday, squatSets(5)),
		completedWorkout(monday.AddDate(0, 0, 2), benchSets(5)),
		completedWorkout(monday.AddDate(0, 0, 7), squatSets(5)),
	}

	if patterns := DetectPatterns(history, DefaultPatternOptions()); len(patterns) != 0 {
		t.Errorf("DetectPatterns() = %v, want empty for %d sessions", patterns, len(history))
	}
}

func TestDetectPatternsIgnoresUnfinished(t *testing.T) {
	history := fiveWeeksMonWedFri()[:4]
	for i := range history {
		history[i].CompletedAt = time.Time{}
	}

	if patterns := DetectPatterns(history, DefaultPatternOptions()); len(patterns) != 0 {
		t.Errorf("DetectPatterns() = %v, want empty when nothing is completed", patterns)
	}
}

func TestDetectPatternsConfidenceFloor(t *testing.T) {
	opts := DefaultPatternOptions()
	patterns := DetectPatterns(fiveWeeksMonWedFri(), opts)
	if len(patterns) == 0 {
		t.Fatal("DetectPatterns() returned nothing for a regular history")
	}
	for _, p := range patterns {
		if p.Confidence < opts.MinConfidence {
			t.Errorf("pattern %q confidence %v below the floor %v", p.Name, p.Confidence, opts.MinConfidence)
		}
		if p.Confidence > 1 {
			t.Errorf("pattern %q confidence %v above 1", p.Name, p.Confidence)
		}
	}
}
