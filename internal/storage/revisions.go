/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"producerstoolkit/internal/domain"
)

// language=SQL
// dialect=SQLite
const insertRevisionSQL = `INSERT INTO revisions(ts, label, manifest) VALUES (?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectLatestRevisionSQL = `SELECT ts, label, manifest FROM revisions ORDER BY ts DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const listRevisionsSQL = `SELECT ts, label, manifest FROM revisions ORDER BY ts DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneOldRevisionsSQL = `DELETE FROM revisions WHERE id NOT IN (
	SELECT id FROM revisions ORDER BY ts DESC LIMIT ?
)`

// Revision is one saved snapshot of the project manifest, used for schedule
// change tracking. The index database is derived; this history is a working
// convenience, not canonical storage.
type Revision struct {
	TS      time.Time
	Label   string
	Project domain.Project
}

// SaveRevision persists a snapshot of the current project with a label.
func SaveRevision(ctx context.Context, ph *ProjectHandle, label string, ts time.Time) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	data, err := json.Marshal(ph.Project)
	if err != nil {
		return err
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, insertRevisionSQL, ts.UTC().Format(time.RFC3339Nano), label, string(data))
	return err
}

// GetLatestRevision returns the most recent revision, or ok=false if none exist.
func GetLatestRevision(ctx context.Context, ph *ProjectHandle) (Revision, bool, error) {
	if ph == nil {
		return Revision{}, false, errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return Revision{}, false, err
	}
	defer func() { _ = db.Close() }()
	var tsStr, label, manifest string
	err = db.QueryRowContext(ctx, selectLatestRevisionSQL).Scan(&tsStr, &label, &manifest)
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, false, nil
	}
	if err != nil {
		return Revision{}, false, err
	}
	return decodeRevision(tsStr, label, manifest)
}

// ListRevisions returns up to limit most recent revisions.
func ListRevisions(ctx context.Context, ph *ProjectHandle, limit int) ([]Revision, error) {
	if ph == nil {
		return nil, errors.New("nil ProjectHandle")
	}
	if limit <= 0 {
		limit = 50
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx, listRevisionsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Revision
	for rows.Next() {
		var tsStr, label, manifest string
		if err := rows.Scan(&tsStr, &label, &manifest); err != nil {
			return nil, err
		}
		rev, _, derr := decodeRevision(tsStr, label, manifest)
		if derr != nil {
			return nil, derr
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

// PruneOldRevisions keeps at most keepLast revisions and deletes older ones.
func PruneOldRevisions(ctx context.Context, ph *ProjectHandle, keepLast int) (int64, error) {
	if ph == nil {
		return 0, errors.New("nil ProjectHandle")
	}
	if keepLast <= 0 {
		return 0, nil
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, pruneOldRevisionsSQL, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func decodeRevision(tsStr, label, manifest string) (Revision, bool, error) {
	var proj domain.Project
	if err := json.Unmarshal([]byte(manifest), &proj); err != nil {
		return Revision{}, false, err
	}
	ts, err := time.Parse(time.RFC3339Nano, tsStr)
	if err != nil {
		ts = time.Time{}
	}
	return Revision{TS: ts, Label: label, Project: proj}, true, nil
}
