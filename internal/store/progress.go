package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// progressRepo implements ProgressStore over a querier.
type progressRepo struct {
	q querier
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *progressRepo) exec(ctx context.Context, op string, query string, args []any) error {
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return unavailable(op, err)
	}
	return nil
}

// Mode progress

func (r *progressRepo) GetModeProgress(ctx context.Context, userID, modeID string) (ModeProgress, error) {
	query, args := selectModeProgress().
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("mode_id", modeID))).
		Query()

	rec, err := scanModeProgress(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return ModeProgress{}, fmt.Errorf("mode progress %s/%s: %w", userID, modeID, ErrNotFound)
	}
	if err != nil {
		return ModeProgress{}, unavailable("get mode progress", err)
	}
	return rec, nil
}

func (r *progressRepo) PutModeProgress(ctx context.Context, rec ModeProgress) error {
	query, args := builder().Insert(tableModeProgress).
		Columns("user_id", "mode_id", "current_level", "highest_level_reached",
			"problems_solved", "accuracy", "stars_earned", "last_played_at").
		Values(rec.UserID, rec.ModeID, rec.CurrentLevel, rec.HighestLevelReached,
			rec.ProblemsSolved, rec.Accuracy, rec.StarsEarned, rec.LastPlayedAt.UTC()).
		OnConflict(
			entsql.ConflictColumns("user_id", "mode_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	return r.exec(ctx, "put mode progress", query, args)
}

func (r *progressRepo) ListModeProgress(ctx context.Context, userID string) ([]ModeProgress, error) {
	query, args := selectModeProgress().
		Where(entsql.EQ("user_id", userID)).
		OrderBy("mode_id").
		Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list mode progress", err)
	}
	defer rows.Close()

	var out []ModeProgress
	for rows.Next() {
		rec, err := scanModeProgress(rows)
		if err != nil {
			return nil, unavailable("scan mode progress", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list mode progress", err)
	}
	return out, nil
}

func selectModeProgress() *entsql.Selector {
	b := builder()
	return b.Select("user_id", "mode_id", "current_level", "highest_level_reached",
		"problems_solved", "accuracy", "stars_earned", "last_played_at").
		From(b.Table(tableModeProgress))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanModeProgress(s scanner) (ModeProgress, error) {
	var rec ModeProgress
	err := s.Scan(&rec.UserID, &rec.ModeID, &rec.CurrentLevel, &rec.HighestLevelReached,
		&rec.ProblemsSolved, &rec.Accuracy, &rec.StarsEarned, &rec.LastPlayedAt)
	return rec, err
}

// Mastery state

func (r *progressRepo) GetMasteryState(ctx context.Context, userID string, ageTier int) (MasteryState, error) {
	query, args := selectMasteryState().
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("age_tier", ageTier))).
		Query()

	st, err := scanMasteryState(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return MasteryState{}, fmt.Errorf("mastery state %s/%d: %w", userID, ageTier, ErrNotFound)
	}
	if err != nil {
		return MasteryState{}, unavailable("get mastery state", err)
	}
	return st, nil
}

func (r *progressRepo) PutMasteryState(ctx context.Context, st MasteryState) error {
	modes, err := json.Marshal(nonNil(st.ModesMastered))
	if err != nil {
		return fmt.Errorf("marshal modes mastered: %w", err)
	}
	var pending any
	if st.PendingRequest != nil {
		b, err := json.Marshal(st.PendingRequest)
		if err != nil {
			return fmt.Errorf("marshal pending request: %w", err)
		}
		pending = string(b)
	}

	query, args := builder().Insert(tableMasteryStates).
		Columns("user_id", "age_tier", "modes_mastered", "overall_pct", "status",
			"pending_request", "updated_at").
		Values(st.UserID, st.AgeTier, string(modes), st.OverallPct, st.Status,
			pending, st.UpdatedAt.UTC()).
		OnConflict(
			entsql.ConflictColumns("user_id", "age_tier"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	return r.exec(ctx, "put mastery state", query, args)
}

func (r *progressRepo) ListMasteryStates(ctx context.Context, userID string) ([]MasteryState, error) {
	query, args := selectMasteryState().
		Where(entsql.EQ("user_id", userID)).
		OrderBy("age_tier").
		Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list mastery states", err)
	}
	defer rows.Close()

	var out []MasteryState
	for rows.Next() {
		st, err := scanMasteryState(rows)
		if err != nil {
			return nil, unavailable("scan mastery state", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list mastery states", err)
	}
	return out, nil
}

func selectMasteryState() *entsql.Selector {
	b := builder()
	return b.Select("user_id", "age_tier", "modes_mastered", "overall_pct", "status",
		"pending_request", "updated_at").
		From(b.Table(tableMasteryStates))
}

func scanMasteryState(s scanner) (MasteryState, error) {
	var (
		st      MasteryState
		modes   string
		pending sql.NullString
	)
	if err := s.Scan(&st.UserID, &st.AgeTier, &modes, &st.OverallPct, &st.Status,
		&pending, &st.UpdatedAt); err != nil {
		return MasteryState{}, err
	}
	if err := json.Unmarshal([]byte(modes), &st.ModesMastered); err != nil {
		return MasteryState{}, fmt.Errorf("unmarshal modes mastered: %w", err)
	}
	if pending.Valid && pending.String != "" {
		var req GraduationRequest
		if err := json.Unmarshal([]byte(pending.String), &req); err != nil {
			return MasteryState{}, fmt.Errorf("unmarshal pending request: %w", err)
		}
		st.PendingRequest = &req
	}
	return st, nil
}

// Graduation history

func (r *progressRepo) AppendGraduationHistory(ctx context.Context, e GraduationHistoryEntry) error {
	summary, err := json.Marshal(e.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	query, args := builder().Insert(tableGraduationHistory).
		Columns("id", "user_id", "from_age", "to_age", "requested_at", "approved_at", "summary").
		Values(e.ID, e.UserID, e.FromAge, e.ToAge, e.RequestedAt.UTC(), e.ApprovedAt.UTC(), string(summary)).
		OnConflict(
			entsql.ConflictColumns("user_id", "id"),
			entsql.DoNothing(),
		).
		Query()
	return r.exec(ctx, "append graduation history", query, args)
}

func (r *progressRepo) ListGraduationHistory(ctx context.Context, userID string) ([]GraduationHistoryEntry, error) {
	b := builder()
	query, args := b.Select("id", "user_id", "from_age", "to_age", "requested_at", "approved_at", "summary").
		From(b.Table(tableGraduationHistory)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("approved_at", "id").
		Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list graduation history", err)
	}
	defer rows.Close()

	var out []GraduationHistoryEntry
	for rows.Next() {
		var (
			e       GraduationHistoryEntry
			summary string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.FromAge, &e.ToAge,
			&e.RequestedAt, &e.ApprovedAt, &summary); err != nil {
			return nil, unavailable("scan graduation history", err)
		}
		if err := json.Unmarshal([]byte(summary), &e.Summary); err != nil {
			return nil, fmt.Errorf("unmarshal summary: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list graduation history", err)
	}
	return out, nil
}

// Users

func (r *progressRepo) SetUserAge(ctx context.Context, userID string, age int) error {
	query, args := builder().Insert(tableUsers).
		Columns("user_id", "age", "updated_at").
		Values(userID, age, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("user_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	return r.exec(ctx, "set user age", query, args)
}

func (r *progressRepo) GetUserAge(ctx context.Context, userID string) (int, error) {
	b := builder()
	query, args := b.Select("age").
		From(b.Table(tableUsers)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	var age int
	err := r.q.QueryRowContext(ctx, query, args...).Scan(&age)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return 0, unavailable("get user age", err)
	}
	return age, nil
}

func (r *progressRepo) ResetUser(ctx context.Context, userID string) error {
	for _, table := range []string{tableModeProgress, tableMasteryStates} {
		query, args := builder().Delete(table).
			Where(entsql.EQ("user_id", userID)).
			Query()
		if err := r.exec(ctx, "reset "+table, query, args); err != nil {
			return err
		}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
