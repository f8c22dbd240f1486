// Package training contains the training domain model, the pure analysis
// engine built on top of it, and the service exposing both over SQLite.
package training

import "time"

// Modality tells what kind of training an exercise is.
type Modality string

const (
	ModalityStrength Modality = "strength"
	ModalityCardio   Modality = "cardio"
	ModalityMobility Modality = "mobility"
)

// Metric tells how an exercise is quantified.
type Metric string

const (
	// MetricLoad means weight and repetitions are logged.
	MetricLoad Metric = "load"
	// MetricDuration means time (and optionally distance) is logged.
	MetricDuration Metric = "duration"
)

// Class groups load exercises for progression purposes. Compound lifts
// tolerate larger jumps than isolation work.
type Class string

const (
	ClassCompoundLower Class = "compound_lower"
	ClassCompoundUpper Class = "compound_upper"
	ClassIsolation     Class = "isolation"
)

// Exercise is a catalog entry.
type Exercise struct {
	ID                    int
	Name                  string
	Modality              Modality
	Metric                Metric
	Class                 Class
	DescriptionMarkdown   string
	PrimaryMuscleGroups   []string
	SecondaryMuscleGroups []string
}

// PRKind classifies a personal record. At most one kind applies to a set.
type PRKind string

const (
	// PRNone means the set broke no record.
	PRNone PRKind = ""
	// PRWeight means the heaviest weight ever lifted for the exercise.
	PRWeight PRKind = "weight"
	// PRReps means the most reps ever done at that same weight.
	PRReps PRKind = "reps"
	// PRE1RM means the highest estimated one-rep max for the exercise.
	PRE1RM PRKind = "e1rm"
)

// Set is a single logged set.
//
// WeightKg, Reps and Effort are set for load exercises; a zero weight is a
// valid bodyweight set. DurationSeconds and DistanceKm are set for duration
// exercises. Effort is a 6-10 RPE rating when the athlete recorded one.
type Set struct {
	WeightKg        *float64
	Reps            *int
	Effort          *float64
	DurationSeconds *int
	DistanceKm      *float64
	Warmup          bool
	PR              PRKind
	CompletedAt     time.Time
}

// ExerciseSets pairs an exercise with the sets logged for it in a workout.
type ExerciseSets struct {
	Exercise Exercise
	Sets     []Set
}

// SessionContext marks how a workout relates to the training plan.
type SessionContext string

const (
	// ContextPlanned is a regular session, part of a block when BlockRef is set.
	ContextPlanned SessionContext = ""
	// ContextUnstructured is ad-hoc training outside any block.
	ContextUnstructured SessionContext = "unstructured"
	// ContextRecovery marks a deliberate recovery session.
	ContextRecovery SessionContext = "recovery"
)

// BlockRef places a workout inside a training block.
type BlockRef struct {
	ID   int
	Name string
	Week int
	Day  int
}

// Workout is everything logged on one calendar day.
type Workout struct {
	Date         time.Time
	Context      SessionContext
	Block        *BlockRef
	StartedAt    time.Time
	CompletedAt  time.Time
	Verdict      Verdict
	ExerciseSets []ExerciseSets
}

// Completed reports whether the workout has been finished.
func (w Workout) Completed() bool {
	return !w.CompletedAt.IsZero()
}

// Record summarizes the known personal bests for one exercise.
type Record struct {
	// BestWeightKg is the heaviest weight lifted in any working set.
	BestWeightKg float64
	// BestRepsAtWeight is the most reps done at BestWeightKg.
	BestRepsAtWeight int
	// BestEstimated1RM is the highest estimated one-rep max across all working sets.
	BestEstimated1RM float64
}
