/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SearchQuery describes a scene search request.
// Text uses SQLite FTS5 syntax (simple terms, phrases in quotes, AND/OR/NOT).
// Filters are optional: Character matches the speaking cast, Location the
// slug location, IntExt is INT/EXT/INT/EXT, TimeOfDay is DAY/NIGHT etc.
// Limit/Offset implement pagination; reasonable defaults applied if zero.
type SearchQuery struct {
	Text      string
	Character string
	Location  string
	IntExt    string
	TimeOfDay string
	Limit     int
	Offset    int
}

// SearchResult represents a single matched scene.
// Snippet is an optional highlighted excerpt using [ ] markers when FTS text is used.
type SearchResult struct {
	SceneID   int64
	Number    int
	Heading   string
	Location  string
	TimeOfDay string
	WordCount int
	Snippet   string
}

// Search performs full-text search with optional filters over the embedded index.
// When q.Text is empty, it falls back to a non-FTS scan over scenes with filters applied.
func Search(ctx context.Context, projectRoot string, q SearchQuery) ([]SearchResult, error) {
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return searchDB(ctx, db, q)
}

func searchDB(ctx context.Context, db *sql.DB, q SearchQuery) ([]SearchResult, error) {
	var args []any
	var sb strings.Builder
	useFTS := strings.TrimSpace(q.Text) != ""
	if useFTS {
		sb.WriteString("SELECT s.scene_id, s.number, s.heading, COALESCE(s.location,''), COALESCE(s.time_of_day,''), s.word_count, snippet(fts_scenes, 0, '[', ']', '...', 10)\n")
		sb.WriteString("FROM fts_scenes JOIN scenes s ON fts_scenes.rowid = s.scene_id\n")
		sb.WriteString("WHERE fts_scenes MATCH ?\n")
		args = append(args, q.Text)
	} else {
		sb.WriteString("SELECT s.scene_id, s.number, s.heading, COALESCE(s.location,''), COALESCE(s.time_of_day,''), s.word_count, ''\n")
		sb.WriteString("FROM scenes s\nWHERE 1=1\n")
	}
	if s := strings.TrimSpace(q.Character); s != "" {
		sb.WriteString(" AND lower(s.characters) LIKE ?\n")
		args = append(args, likeContains(strings.ToLower(s)))
	}
	if s := strings.TrimSpace(q.Location); s != "" {
		sb.WriteString(" AND lower(s.location) LIKE ?\n")
		args = append(args, likeContains(strings.ToLower(s)))
	}
	if s := strings.TrimSpace(q.IntExt); s != "" {
		sb.WriteString(" AND upper(s.int_ext) = ?\n")
		args = append(args, strings.ToUpper(s))
	}
	if s := strings.TrimSpace(q.TimeOfDay); s != "" {
		sb.WriteString(" AND upper(s.time_of_day) = ?\n")
		args = append(args, strings.ToUpper(s))
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	sb.WriteString("ORDER BY s.number, s.scene_id\n")
	sb.WriteString("LIMIT ? OFFSET ?")
	args = append(args, limit, q.Offset)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var sn sql.NullString
		if err := rows.Scan(&r.SceneID, &r.Number, &r.Heading, &r.Location, &r.TimeOfDay, &r.WordCount, &sn); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if sn.Valid {
			r.Snippet = sn.String
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func likeContains(s string) string { return "%" + s + "%" }
