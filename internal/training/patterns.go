package training

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// PatternKind tags the kind of recurring structure a pattern describes.
type PatternKind string

const (
	PatternTrainingSplit   PatternKind = "training_split"
	PatternExercisePairing PatternKind = "exercise_pairing"
	PatternPreferredDay    PatternKind = "preferred_day"
	PatternRepRange        PatternKind = "rep_range"
)

// Pattern is one piece of recurring structure inferred from training history.
//
// Confidence is the fraction of observed weeks in which the pattern recurs,
// a bare ratio in [0,1] with no smoothing. The payload fields are filled per
// kind: Days for preferred days, Exercises for pairings, Split for the
// weekly split, RepRange for the dominant rep bucket.
type Pattern struct {
	Kind        PatternKind
	Name        string
	Description string
	Confidence  float64
	Days        []time.Weekday
	Exercises   []string
	Split       []string
	RepRange    string
}

// PatternOptions bounds what DetectPatterns will report.
type PatternOptions struct {
	// MinSessions is the least completed sessions needed before reporting
	// anything at all.
	MinSessions int
	// MinConfidence drops patterns recurring in fewer than this fraction of
	// the observed weeks.
	MinConfidence float64
	// MaxPairings caps how many exercise pairings are reported.
	MaxPairings int
}

// DefaultPatternOptions returns the thresholds used in production.
func DefaultPatternOptions() PatternOptions {
	return PatternOptions{
		MinSessions:   4,
		MinConfidence: 0.5,
		MaxPairings:   5,
	}
}

type weekKey struct {
	year int
	week int
}

// DetectPatterns infers recurring training structure from several weeks of
// workouts: preferred days of the week, the weekly split, exercises logged
// together, and the dominant rep range.
//
// Only completed workouts count. With fewer than MinSessions of them the
// result is nil and the caller shows a not-enough-data state instead of a
// low-confidence guess.
func DetectPatterns(history []Workout, opts PatternOptions) []Pattern {
	var completed []Workout
	for _, w := range history {
		if w.Completed() {
			completed = append(completed, w)
		}
	}
	if len(completed) < opts.MinSessions {
		return nil
	}

	weeks := map[weekKey][]Workout{}
	for _, w := range completed {
		y, wk := w.Date.ISOWeek()
		k := weekKey{year: y, week: wk}
		weeks[k] = append(weeks[k], w)
	}
	totalWeeks := len(weeks)

	var patterns []Pattern
	if p, ok := preferredDays(weeks, totalWeeks, opts.MinConfidence); ok {
		patterns = append(patterns, p)
	}
	if p, ok := weeklySplit(weeks, totalWeeks, opts.MinConfidence); ok {
		patterns = append(patterns, p)
	}
	patterns = append(patterns, pairings(weeks, totalWeeks, opts)...)
	if p, ok := repRange(weeks, totalWeeks, opts.MinConfidence); ok {
		patterns = append(patterns, p)
	}
	return patterns
}

// mondayFirst orders weekdays starting from Monday for display.
func mondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func preferredDays(weeks map[weekKey][]Workout, totalWeeks int, minConfidence float64) (Pattern, bool) {
	dayWeeks := map[time.Weekday]int{}
	for _, ws := range weeks {
		seen := map[time.Weekday]bool{}
		for _, w := range ws {
			seen[w.Date.Weekday()] = true
		}
		for d := range seen {
			dayWeeks[d]++
		}
	}

	var days []time.Weekday
	confidence := 1.0
	for d, n := range dayWeeks {
		ratio := float64(n) / float64(totalWeeks)
		if ratio >= minConfidence {
			days = append(days, d)
			if ratio < confidence {
				confidence = ratio
			}
		}
	}
	if len(days) == 0 {
		return Pattern{}, false
	}
	sort.Slice(days, func(i, j int) bool { return mondayFirst(days[i]) < mondayFirst(days[j]) })

	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return Pattern{
		Kind:        PatternPreferredDay,
		Name:        "Preferred training days",
		Description: fmt.Sprintf("You usually train on %s.", strings.Join(names, ", ")),
		Confidence:  confidence,
		Days:        days,
	}, true
}

// muscleBucket maps a muscle group to the rough split bucket it trains.
func muscleBucket(muscleGroup string) string {
	switch muscleGroup {
	case "Chest", "Shoulders", "Triceps":
		return "push"
	case "Back", "Lats", "Biceps":
		return "pull"
	case "Quads", "Hamstrings", "Glutes", "Calves":
		return "legs"
	case "Core":
		return "core"
	default:
		return ""
	}
}

// sessionSplitLabel classifies one workout by the primary muscle groups of
// its exercises.
func sessionSplitLabel(w Workout) string {
	counts := map[string]int{}
	total := 0
	for _, es := range w.ExerciseSets {
		for _, mg := range es.Exercise.PrimaryMuscleGroups {
			if b := muscleBucket(mg); b != "" {
				counts[b]++
				total++
			}
		}
	}
	if total == 0 {
		return ""
	}
	const dominance = 0.6
	for _, b := range []string{"push", "pull", "legs", "core"} {
		if float64(counts[b])/float64(total) >= dominance {
			return b
		}
	}
	if float64(counts["push"]+counts["pull"])/float64(total) >= 0.8 {
		return "upper"
	}
	return "full body"
}

func weeklySplit(weeks map[weekKey][]Workout, totalWeeks int, minConfidence float64) (Pattern, bool) {
	comboWeeks := map[string]int{}
	for _, ws := range weeks {
		labels := map[string]bool{}
		for _, w := range ws {
			if l := sessionSplitLabel(w); l != "" {
				labels[l] = true
			}
		}
		if len(labels) == 0 {
			continue
		}
		var combo []string
		for l := range labels {
			combo = append(combo, l)
		}
		sort.Strings(combo)
		comboWeeks[strings.Join(combo, "/")]++
	}

	best, bestN := "", 0
	for combo, n := range comboWeeks {
		if n > bestN || (n == bestN && combo < best) {
			best, bestN = combo, n
		}
	}
	confidence := float64(bestN) / float64(totalWeeks)
	if best == "" || confidence < minConfidence {
		return Pattern{}, false
	}
	return Pattern{
		Kind:        PatternTrainingSplit,
		Name:        fmt.Sprintf("%s split", best),
		Description: fmt.Sprintf("Your weeks revolve around %s sessions.", best),
		Confidence:  confidence,
		Split:       strings.Split(best, "/"),
	}, true
}

func pairings(weeks map[weekKey][]Workout, totalWeeks int, opts PatternOptions) []Pattern {
	type pair struct{ a, b string }
	pairWeeks := map[pair]int{}
	for _, ws := range weeks {
		seen := map[pair]bool{}
		for _, w := range ws {
			var names []string
			for _, es := range w.ExerciseSets {
				names = append(names, es.Exercise.Name)
			}
			sort.Strings(names)
			for i := range names {
				for j := i + 1; j < len(names); j++ {
					seen[pair{a: names[i], b: names[j]}] = true
				}
			}
		}
		for p := range seen {
			pairWeeks[p]++
		}
	}

	var out []Pattern
	for p, n := range pairWeeks {
		confidence := float64(n) / float64(totalWeeks)
		if confidence < opts.MinConfidence {
			continue
		}
		out = append(out, Pattern{
			Kind:        PatternExercisePairing,
			Name:        fmt.Sprintf("%s + %s", p.a, p.b),
			Description: fmt.Sprintf("%s and %s usually show up in the same session.", p.a, p.b),
			Confidence:  confidence,
			Exercises:   []string{p.a, p.b},
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Name < out[j].Name
	})
	if opts.MaxPairings > 0 && len(out) > opts.MaxPairings {
		out = out[:opts.MaxPairings]
	}
	return out
}

// repBucket names the conventional rep-range bucket a set falls into.
func repBucket(reps int) string {
	switch {
	case reps <= 5:
		return "strength"
	case reps <= 12:
		return "hypertrophy"
	default:
		return "endurance"
	}
}

func repRange(weeks map[weekKey][]Workout, totalWeeks int, minConfidence float64) (Pattern, bool) {
	bucketWeeks := map[string]int{}
	for _, ws := range weeks {
		counts := map[string]int{}
		for _, w := range ws {
			for _, es := range w.ExerciseSets {
				for _, s := range es.Sets {
					if qualifies(s) {
						counts[repBucket(*s.Reps)]++
					}
				}
			}
		}
		best, bestN := "", 0
		for b, n := range counts {
			if n > bestN || (n == bestN && b < best) {
				best, bestN = b, n
			}
		}
		if best != "" {
			bucketWeeks[best]++
		}
	}

	best, bestN := "", 0
	for b, n := range bucketWeeks {
		if n > bestN || (n == bestN && b < best) {
			best, bestN = b, n
		}
	}
	confidence := float64(bestN) / float64(totalWeeks)
	if best == "" || confidence < minConfidence {
		return Pattern{}, false
	}
	return Pattern{
		Kind:        PatternRepRange,
		Name:        fmt.Sprintf("%s rep ranges", best),
		Description: fmt.Sprintf("Most weeks your working sets sit in the %s range.", best),
		Confidence:  confidence,
		RepRange:    best,
	}, true
}
