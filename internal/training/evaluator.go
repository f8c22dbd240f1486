package training

// Verdict is the one-word quality classification of a completed session.
type Verdict string

const (
	// VerdictProductive means the session moved something forward.
	VerdictProductive Verdict = "productive"
	// VerdictMaintaining means performance held at prior bests.
	VerdictMaintaining Verdict = "maintaining"
	// VerdictSuboptimal means at least one exercise regressed with no
	// offsetting record anywhere in the session.
	VerdictSuboptimal Verdict = "suboptimal"
	// VerdictJunk means nothing in the session had prior data to compare to.
	VerdictJunk Verdict = "junk"
	// VerdictRecovery means the session was a planned light day.
	VerdictRecovery Verdict = "recovery"
)

// regressionFactor is how far below the last comparable exposure the best
// estimated 1RM has to fall before an exercise counts as regressing.
const regressionFactor = 0.95

// calibrationSessions is how many completed sessions a training block needs
// before verdicts stop being presented as baseline-finding.
const calibrationSessions = 3

// Evaluation is the session verdict along with the tallies behind it.
type Evaluation struct {
	Verdict Verdict
	// Records is the number of working sets that broke a personal record.
	Records int
	// Regressions is the number of exercises that fell clearly below their
	// last comparable exposure.
	Regressions int
	// Comparable is the number of exercises with prior data to compare to.
	Comparable int
	// Calibrating flags that the workout belongs to a structured block with
	// too little history for the verdict to mean much. Presentation only,
	// the verdict is computed the same way.
	Calibrating bool
}

// EvaluateSession classifies a completed workout.
//
// prior maps exercise ID to that exercise's working-set history from before
// the workout, most recent first. Record classifications are read off the
// sets as stored at logging time, not recomputed.
//
// The rules, in order: a recovery-tagged session is always a recovery
// verdict; any record with no regression, or records alongside regressions,
// is productive; regressions without records are suboptimal; no comparable
// history anywhere is junk; otherwise the session maintained.
func EvaluateSession(w Workout, prior map[int][]Set, priorBlockSessions int) Evaluation {
	ev := Evaluation{
		Calibrating: w.Block != nil && priorBlockSessions < calibrationSessions,
	}

	for _, es := range w.ExerciseSets {
		hist := prior[es.Exercise.ID]
		if _, ok := BestKnown(hist); ok {
			ev.Comparable++
			if regressed(es.Sets, hist) {
				ev.Regressions++
			}
		}
		for _, s := range es.Sets {
			if !s.Warmup && s.PR != PRNone {
				ev.Records++
			}
		}
	}

	switch {
	case w.Context == ContextRecovery:
		ev.Verdict = VerdictRecovery
	case ev.Records > 0:
		// Records dominate regressions elsewhere in the session.
		ev.Verdict = VerdictProductive
	case ev.Regressions > 0:
		ev.Verdict = VerdictSuboptimal
	case ev.Comparable == 0:
		ev.Verdict = VerdictJunk
	default:
		ev.Verdict = VerdictMaintaining
	}

	return ev
}

// regressed compares the session's best estimated 1RM for an exercise
// against its last exposure, the most recent prior day with qualifying sets.
func regressed(sets []Set, hist []Set) bool {
	best := 0.0
	found := false
	for _, s := range sets {
		if !qualifies(s) {
			continue
		}
		found = true
		if e := Estimate1RM(*s.WeightKg, *s.Reps); e > best {
			best = e
		}
	}
	if !found {
		return false
	}

	lastBest := 0.0
	for _, s := range lastExposure(hist) {
		if e := Estimate1RM(*s.WeightKg, *s.Reps); e > lastBest {
			lastBest = e
		}
	}
	if lastBest == 0 {
		return false
	}

	return best < lastBest*regressionFactor
}

// lastExposure returns the qualifying sets sharing the most recent calendar
// day in hist. hist is ordered most recent first.
func lastExposure(hist []Set) []Set {
	var exposure []Set
	for _, s := range hist {
		if !qualifies(s) {
			continue
		}
		if len(exposure) > 0 {
			prev := exposure[0].CompletedAt
			if s.CompletedAt.Year() != prev.Year() || s.CompletedAt.YearDay() != prev.YearDay() {
				break
			}
		}
		exposure = append(exposure, s)
	}
	return exposure
}
