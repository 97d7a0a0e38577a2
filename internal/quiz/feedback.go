package quiz

// Feedback picks the media cue for each answer reveal. The correct and
// wrong pools each have a cursor; revealing one polarity returns the cue
// under its cursor, advances that cursor (stopping at the last entry) and
// rewinds the other one. A run of correct answers therefore walks the
// correct pool without repeating until it runs out, and any wrong answer
// restarts the run.
type Feedback struct {
	correct []string
	wrong   []string

	correctCursor int
	wrongCursor   int
}

// NewFeedback creates a Feedback over the given pools. Either may be empty.
func NewFeedback(correct, wrong []string) *Feedback {
	return &Feedback{
		correct: append([]string(nil), correct...),
		wrong:   append([]string(nil), wrong...),
	}
}

// Reveal returns the cue for an answer of the given polarity, or "" when
// that pool is empty.
func (f *Feedback) Reveal(correct bool) string {
	if correct {
		f.wrongCursor = 0
		return pick(f.correct, &f.correctCursor)
	}
	f.correctCursor = 0
	return pick(f.wrong, &f.wrongCursor)
}

// Cursors returns the current (correct, wrong) cursor positions.
func (f *Feedback) Cursors() (int, int) {
	return f.correctCursor, f.wrongCursor
}

func pick(pool []string, cursor *int) string {
	if len(pool) == 0 {
		*cursor = 0
		return ""
	}
	cue := pool[*cursor]
	if *cursor+1 < len(pool) {
		*cursor++
	}
	return cue
}
