package training

// qualifies reports whether a set counts towards records: a working set with
// both weight and reps logged. A zero weight is a valid bodyweight set.
func qualifies(s Set) bool {
	return !s.Warmup && s.WeightKg != nil && s.Reps != nil && *s.WeightKg >= 0 && *s.Reps > 0
}

// BestKnown folds the qualifying sets of an exercise history into the known
// personal bests. ok is false when no set qualifies.
func BestKnown(history []Set) (rec Record, ok bool) {
	for _, s := range history {
		if !qualifies(s) {
			continue
		}
		w, r := *s.WeightKg, *s.Reps
		if !ok || w > rec.BestWeightKg {
			rec.BestWeightKg = w
			rec.BestRepsAtWeight = r
		} else if w == rec.BestWeightKg && r > rec.BestRepsAtWeight {
			rec.BestRepsAtWeight = r
		}
		if e := Estimate1RM(w, r); e > rec.BestEstimated1RM {
			rec.BestEstimated1RM = e
		}
		ok = true
	}
	return rec, ok
}

// ClassifyRecord tells whether a newly logged set breaks a personal record
// against the given history of earlier sets for the same exercise.
//
// Priority order when several records break at once: heaviest weight, then
// most reps at the same weight, then highest estimated one-rep max. Exactly
// one kind is returned. Warm-up sets and sets without weight and reps never
// set records, and neither does any set when the history has nothing to
// compare against.
func ClassifyRecord(s Set, history []Set) PRKind {
	if !qualifies(s) {
		return PRNone
	}
	w, r := *s.WeightKg, *s.Reps

	best, ok := BestKnown(history)
	if !ok {
		return PRNone
	}

	if w > best.BestWeightKg {
		return PRWeight
	}
	if repsPR(w, r, history) {
		return PRReps
	}
	if Estimate1RM(w, r) > best.BestEstimated1RM {
		return PRE1RM
	}
	return PRNone
}

// repsPR reports whether reps r at weight w beats every earlier qualifying
// set done at exactly that weight. There has to be at least one earlier set
// at the weight for a rep record to exist.
func repsPR(w float64, r int, history []Set) bool {
	seen := false
	for _, s := range history {
		if !qualifies(s) || *s.WeightKg != w {
			continue
		}
		seen = true
		if *s.Reps >= r {
			return false
		}
	}
	return seen
}
