package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert("answer_events").
		Columns("sequence", "timestamp", "test_id", "question_id", "option_id", "correct", "message").
		Values(seqNum, time.Now().UTC().UnixMilli(), data.TestID, data.QuestionID,
			data.OptionID, data.Correct, data.Message).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendScore(ctx context.Context, data ScoreEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert("score_events").
		Columns("sequence", "timestamp", "test_id", "message").
		Values(seqNum, time.Now().UTC().UnixMilli(), data.TestID, data.Message).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save score event: %w", err)
	}
	return nil
}

func (r *eventRepo) AnswerStatsByTest(ctx context.Context) ([]TestAnswerStats, error) {
	query, args := builder().Select(
		"test_id",
		entsql.As(entsql.Count("*"), "answers"),
		entsql.As("SUM(CASE WHEN correct THEN 1 ELSE 0 END)", "correct_count"),
		entsql.As(entsql.Max("timestamp"), "last_answer"),
	).
		From(entsql.Table("answer_events")).
		GroupBy("test_id").
		OrderBy("test_id").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query answer stats: %w", err)
	}
	defer rows.Close()

	var out []TestAnswerStats
	for rows.Next() {
		var st TestAnswerStats
		var last int64
		if err := rows.Scan(&st.TestID, &st.Answers, &st.Correct, &last); err != nil {
			return nil, fmt.Errorf("scan answer stats: %w", err)
		}
		st.LastAnswer = time.UnixMilli(last).UTC()
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *eventRepo) QueryScores(ctx context.Context, opts QueryOpts) ([]ScoreRecord, error) {
	sel := builder().Select("id", "sequence", "timestamp", "test_id", "message").
		From(entsql.Table("score_events")).
		OrderBy(entsql.Desc("sequence"))
	applyOpts(sel, opts)

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query score events: %w", err)
	}
	defer rows.Close()

	var out []ScoreRecord
	for rows.Next() {
		var rec ScoreRecord
		var ts int64
		if err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.TestID, &rec.Message); err != nil {
			return nil, fmt.Errorf("scan score event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}
