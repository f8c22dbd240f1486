package training

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jkivimaki/trainwise/internal/ptr"
)

// workingSet builds a completed working set logged the given number of days ago.
func workingSet(weightKg float64, reps int, daysAgo int) Set {
	return Set{
		WeightKg:    ptr.Ref(weightKg),
		Reps:        ptr.Ref(reps),
		CompletedAt: time.Date(2026, 3, 20, 18, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo),
	}
}

func warmupSet(weightKg float64, reps int, daysAgo int) Set {
	s := workingSet(weightKg, reps, daysAgo)
	s.Warmup = true
	return s
}

func TestClassifyRecord(t *testing.T) {
	tests := []struct {
		name    string
		set     Set
		history []Set
		want    PRKind
	}{
		{
			name:    "heavier weight is a weight record",
			set:     workingSet(145, 5, 0),
			history: []Set{workingSet(135, 5, 7)},
			want:    PRWeight,
		},
		{
			name:    "weight record regardless of reps",
			set:     workingSet(145, 1, 0),
			history: []Set{workingSet(135, 12, 7)},
			want:    PRWeight,
		},
		{
			name:    "more reps at the same weight",
			set:     workingSet(100, 8, 0),
			history: []Set{workingSet(100, 6, 7), workingSet(102.5, 2, 14)},
			want:    PRReps,
		},
		{
			name:    "higher estimate without touching weight or reps records",
			set:     workingSet(95, 10, 0),
			history: []Set{workingSet(100, 2, 7)},
			want:    PRE1RM,
		},
		{
			name:    "no record when matched exactly",
			set:     workingSet(100, 5, 0),
			history: []Set{workingSet(100, 5, 7)},
			want:    PRNone,
		},
		{
			name:    "empty history cannot produce a record",
			set:     workingSet(145, 5, 0),
			history: nil,
			want:    PRNone,
		},
		{
			name:    "all-warmup history cannot produce a record",
			set:     workingSet(145, 5, 0),
			history: []Set{warmupSet(60, 5, 7), warmupSet(100, 3, 7)},
			want:    PRNone,
		},
		{
			name:    "warm-up set never records",
			set:     warmupSet(145, 5, 0),
			history: []Set{workingSet(135, 5, 7)},
			want:    PRNone,
		},
		{
			name: "set without reps never records",
			set: Set{
				WeightKg:    ptr.Ref(145.0),
				CompletedAt: time.Date(2026, 3, 20, 18, 0, 0, 0, time.UTC),
			},
			history: []Set{workingSet(135, 5, 7)},
			want:    PRNone,
		},
		{
			name:    "bodyweight rep record at zero weight",
			set:     workingSet(0, 14, 0),
			history: []Set{workingSet(0, 12, 7), workingSet(0, 10, 14)},
			want:    PRReps,
		},
		{
			name:    "history with missing weights is skipped",
			set:     workingSet(100, 5, 0),
			history: []Set{{Reps: ptr.Ref(5)}, workingSet(90, 5, 7)},
			want:    PRWeight,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyRecord(tt.set, tt.history); got != tt.want {
				t.Errorf("ClassifyRecord() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBestKnown(t *testing.T) {
	history := []Set{
		workingSet(100, 5, 21),
		workingSet(110, 2, 14),
		workingSet(110, 3, 7),
		warmupSet(120, 1, 7),
		workingSet(95, 10, 3),
	}

	rec, ok := BestKnown(history)
	if !ok {
		t.Fatal("BestKnown() reported no qualifying history")
	}

	want := Record{
		BestWeightKg:     110,
		BestRepsAtWeight: 3,
		// 95 x 10 estimates higher than anything done at 110.
		BestEstimated1RM: 127,
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("BestKnown() mismatch (-want +got):\n%s", diff)
	}

	if _, ok = BestKnown([]Set{warmupSet(60, 5, 1)}); ok {
		t.Error("BestKnown() found a record in warm-ups only")
	}
}
