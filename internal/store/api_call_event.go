package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo over the ent SQL driver and the global
// sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *eventRepo) AppendAPICall(ctx context.Context, data APICallEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert("api_call_events").
		Columns("sequence", "timestamp", "operation", "method", "path", "status",
			"latency_ms", "success", "error_message", "request_id").
		Values(seqNum, time.Now().UTC().UnixMilli(), data.Operation, data.Method, data.Path,
			data.Status, data.LatencyMs, data.Success, data.ErrorMessage, data.RequestID).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save API call event: %w", err)
	}
	return nil
}

var apiCallColumns = []string{
	"id", "sequence", "timestamp", "operation", "method", "path", "status",
	"latency_ms", "success", "error_message", "request_id",
}

func (r *eventRepo) QueryAPICalls(ctx context.Context, opts QueryOpts) ([]APICallRecord, error) {
	sel := builder().Select(apiCallColumns...).
		From(entsql.Table("api_call_events")).
		OrderBy(entsql.Desc("sequence"))
	applyOpts(sel, opts)

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query API call events: %w", err)
	}
	defer rows.Close()

	var out []APICallRecord
	for rows.Next() {
		rec, err := scanAPICall(&rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetAPICall(ctx context.Context, id int) (*APICallRecord, error) {
	query, args := builder().Select(apiCallColumns...).
		From(entsql.Table("api_call_events")).
		Where(entsql.EQ("id", id)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("get API call event: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	rec, err := scanAPICall(&rows)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *eventRepo) APIUsageByOperation(ctx context.Context) ([]APIUsageStats, error) {
	query, args := builder().Select(
		"operation",
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As("SUM(CASE WHEN success THEN 0 ELSE 1 END)", "failures"),
		entsql.As(entsql.Avg("latency_ms"), "avg_latency"),
	).
		From(entsql.Table("api_call_events")).
		GroupBy("operation").
		OrderBy("operation").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query API usage: %w", err)
	}
	defer rows.Close()

	var out []APIUsageStats
	for rows.Next() {
		var st APIUsageStats
		var avg sql.NullFloat64
		if err := rows.Scan(&st.Operation, &st.Calls, &st.Failures, &avg); err != nil {
			return nil, fmt.Errorf("scan API usage: %w", err)
		}
		st.AvgLatencyMs = int64(avg.Float64)
		out = append(out, st)
	}
	return out, rows.Err()
}

func scanAPICall(rows *entsql.Rows) (APICallRecord, error) {
	var rec APICallRecord
	var ts int64
	err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.Operation, &rec.Method, &rec.Path,
		&rec.Status, &rec.LatencyMs, &rec.Success, &rec.ErrorMessage, &rec.RequestID)
	if err != nil {
		return rec, fmt.Errorf("scan API call event: %w", err)
	}
	rec.Timestamp = time.UnixMilli(ts).UTC()
	return rec, nil
}

// applyOpts adds QueryOpts filters to an event selector.
func applyOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UTC().UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UTC().UnixMilli()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
