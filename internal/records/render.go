package records

import (
	"fmt"
	"time"

	"github.com/abhisek/classquiz/internal/model"
)

// OptionView is one option of a recorded question.
type OptionView struct {
	Name    string
	Correct bool
}

// RecordView is the display form of a TestRecord.
type RecordView struct {
	Prompt   string
	Audio    string
	Options  []OptionView
	Correct  []string
	Selected string
	// Total is set for the session's aggregate record; Score then holds
	// the total.
	Total bool
	Score int
}

// DescribeRecord derives what a record card shows.
func DescribeRecord(r model.TestRecord) RecordView {
	v := RecordView{
		Prompt:   r.QuestionName,
		Selected: r.SelectedOptionName,
		Total:    r.IsTotal(),
		Score:    r.RecordedScore,
	}
	if v.Total {
		v.Score = r.TotalRecordedScore
	}
	if q := r.Question; q != nil {
		v.Audio = q.QuestionSound
		for _, o := range q.Options {
			v.Options = append(v.Options, OptionView{Name: o.Name, Correct: o.IsCorrect})
			if o.IsCorrect {
				v.Correct = append(v.Correct, o.Name)
			}
		}
	}
	return v
}

// Lines renders the card as plain text lines.
func (v RecordView) Lines() []string {
	var lines []string
	if v.Prompt != "" {
		lines = append(lines, "Question: "+v.Prompt)
	}
	if v.Audio != "" {
		lines = append(lines, "Audio: "+v.Audio)
	}
	for _, c := range v.Correct {
		lines = append(lines, "Correct option: "+c)
	}
	if v.Selected != "" {
		lines = append(lines, "Selected Option: "+v.Selected)
	}
	if v.Total {
		lines = append(lines, fmt.Sprintf("Total Score: %d", v.Score))
	} else {
		lines = append(lines, fmt.Sprintf("Recorded Score: %d", v.Score))
	}
	return lines
}

// sessionLayout is the minute-precision form sessions are listed by.
const sessionLayout = "2006-01-02 15:04"

// SessionLabel names a session by its local timestamp, or by id when it
// has none.
func SessionLabel(s model.Session) string {
	if s.Timestamp == nil {
		return fmt.Sprintf("Session %d", s.ID)
	}
	return s.Timestamp.In(time.Local).Format(sessionLayout)
}
