package training

// ProgressionPolicy tunes how working weights are advanced.
type ProgressionPolicy struct {
	// Weight jumps in kilograms per exercise class.
	CompoundLowerIncrementKg float64
	CompoundUpperIncrementKg float64
	IsolationIncrementKg     float64

	// The productive effort band on the 6-10 RPE scale. Below the band the
	// load is too light, at or above its top the athlete is grinding.
	EffortBandLow  float64
	EffortBandHigh float64

	// ComparableWindow caps how many recent comparable sets are examined.
	ComparableWindow int
	// MinQualifyingSets is the least history needed before suggesting anything.
	MinQualifyingSets int
}

// DefaultProgressionPolicy returns the policy used in production.
func DefaultProgressionPolicy() ProgressionPolicy {
	return ProgressionPolicy{
		CompoundLowerIncrementKg: 5.0,
		CompoundUpperIncrementKg: 2.5,
		IsolationIncrementKg:     1.25,
		EffortBandLow:            7.0,
		EffortBandHigh:           9.0,
		ComparableWindow:         6,
		MinQualifyingSets:        2,
	}
}

func (p ProgressionPolicy) incrementFor(class Class) float64 {
	switch class {
	case ClassCompoundLower:
		return p.CompoundLowerIncrementKg
	case ClassCompoundUpper:
		return p.CompoundUpperIncrementKg
	default:
		return p.IsolationIncrementKg
	}
}

// Suggestion is a recommended next prescription for one exercise.
type Suggestion struct {
	WeightKg     float64
	Reps         int
	TargetEffort float64
	// Deload is set when recent efforts show the athlete is grinding and the
	// weight should be backed off rather than held.
	Deload    bool
	Rationale string
}

// SuggestProgression proposes the next working prescription for an exercise
// given its set history, most recent first.
//
// Only load exercises get suggestions. At least MinQualifyingSets working
// sets with weight and reps are required, otherwise nil is returned and the
// athlete keeps deciding on their own. The suggestion looks at the most
// recent comparable sets, meaning working sets at the latest working weight:
//
//   - every recorded effort under the top of the band: add weight
//   - some efforts at or over the top: hold the weight, trim a rep
//   - every effort at or over the top: flag a deload
//   - no efforts recorded: hold everything until there is effort data
func SuggestProgression(ex Exercise, history []Set, policy ProgressionPolicy) *Suggestion {
	if ex.Metric != MetricLoad {
		return nil
	}

	var working []Set
	for _, s := range history {
		if qualifies(s) {
			working = append(working, s)
		}
	}
	if len(working) < policy.MinQualifyingSets {
		return nil
	}

	// Comparable means done at the weight of the latest working set.
	weight := *working[0].WeightKg
	reps := *working[0].Reps
	var comparable []Set
	for _, s := range working {
		if *s.WeightKg == weight {
			comparable = append(comparable, s)
		}
		if len(comparable) == policy.ComparableWindow {
			break
		}
	}

	rated, hard := 0, 0
	for _, s := range comparable {
		if s.Effort == nil {
			continue
		}
		rated++
		if *s.Effort >= policy.EffortBandHigh {
			hard++
		}
	}

	target := (policy.EffortBandLow + policy.EffortBandHigh) / 2

	if rated == 0 {
		return &Suggestion{
			WeightKg:     weight,
			Reps:         reps,
			TargetEffort: target,
			Rationale:    "no effort ratings recorded yet, hold the current weight",
		}
	}

	if hard == 0 {
		return &Suggestion{
			WeightKg:     weight + policy.incrementFor(ex.Class),
			Reps:         reps,
			TargetEffort: target,
			Rationale:    "recent efforts stayed under the top of the band, add weight",
		}
	}

	if hard == rated && rated >= policy.MinQualifyingSets {
		return &Suggestion{
			WeightKg:     weight,
			Reps:         reps,
			TargetEffort: target,
			Deload:       true,
			Rationale:    "every recent set was a grind, back off before pushing on",
		}
	}

	if reps > 1 {
		reps--
	}
	return &Suggestion{
		WeightKg:     weight,
		Reps:         reps,
		TargetEffort: target,
		Rationale:    "some recent sets ran hot, hold the weight and trim a rep",
	}
}
