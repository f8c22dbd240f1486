package training

import "time"

// Level is the amount of training the athlete is ready for today.
type Level string

const (
	LevelFull    Level = "full"
	LevelReduced Level = "reduced"
	LevelLight   Level = "light"
	LevelRest    Level = "rest"
)

// intensity orders levels from rest (0) to full (3).
func (l Level) intensity() int {
	switch l {
	case LevelFull:
		return 3
	case LevelReduced:
		return 2
	case LevelLight:
		return 1
	default:
		return 0
	}
}

// CheckIn is a morning readiness questionnaire answer.
//
// All three ratings run 1-5 with 1 the worst: poor sleep, heavy soreness,
// high stress. The form labels invert soreness and stress for the athlete so
// the stored numbers always point the same way.
type CheckIn struct {
	Date     time.Time
	Sleep    int
	Soreness int
	Stress   int
	Score    float64
	// Suggested is the computed level; Override the athlete's replacement.
	Suggested Level
	Override  *Level
}

// Effective returns the level to train at: the override when the athlete set
// one, otherwise the suggestion. The suggestion stays stored either way.
func (c CheckIn) Effective() Level {
	if c.Override != nil {
		return *c.Override
	}
	return c.Suggested
}

// Assess turns the three ratings into a readiness score and level.
//
// The score is the plain mean of the ratings. Two or more ratings at the
// bottom of the scale cap the level at light no matter what the mean says.
// ok is false when any rating is outside 1-5, meaning no assessment.
func Assess(sleep, soreness, stress int) (score float64, level Level, ok bool) {
	for _, r := range []int{sleep, soreness, stress} {
		if r < 1 || r > 5 {
			return 0, "", false
		}
	}

	score = float64(sleep+soreness+stress) / 3

	switch {
	case score >= 4:
		level = LevelFull
	case score >= 3:
		level = LevelReduced
	case score >= 2:
		level = LevelLight
	default:
		level = LevelRest
	}

	bottomed := 0
	for _, r := range []int{sleep, soreness, stress} {
		if r == 1 {
			bottomed++
		}
	}
	if bottomed >= 2 && level.intensity() > LevelLight.intensity() {
		level = LevelLight
	}

	return score, level, true
}

// Adjustment translates a readiness level into concrete session changes.
type Adjustment struct {
	// LoadFactor scales the planned working weights.
	LoadFactor float64
	// SetDelta is added to the planned set count per exercise.
	SetDelta int
	// MobilityOnly replaces the session with mobility work.
	MobilityOnly bool
}

// AdjustmentFor maps a level to its session adjustment.
func AdjustmentFor(level Level) Adjustment {
	switch level {
	case LevelFull:
		return Adjustment{LoadFactor: 1.0}
	case LevelReduced:
		return Adjustment{LoadFactor: 0.9, SetDelta: -1}
	case LevelLight:
		return Adjustment{LoadFactor: 0.75, SetDelta: -2}
	default:
		return Adjustment{MobilityOnly: true}
	}
}
