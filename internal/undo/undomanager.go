/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"sync"
	"time"
)

// Snapshot represents a reversible state blob for a shooting day.
// Blob content is opaque to the manager; typically the serialized scene
// list plus schedule config before an edit. Size is estimated as len(Blob).
// TS is when the snapshot was captured.
type Snapshot struct {
	Day  int
	Blob []byte
	TS   time.Time
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap; older entries are pruned when exceeded.
	MaxBytes int
	// MaxPerDay limits number of snapshots per day kept in memory (0 means unlimited).
	MaxPerDay int
	// MinInterval coalesces snapshots captured within the interval for the same day,
	// replacing the previous one instead of pushing a new entry.
	MinInterval time.Duration
}

// Manager provides an in-memory undo/redo stack per shooting day with
// performance safeguards. It is safe for concurrent use.
type Manager struct {
	cfg Config
	mu  sync.Mutex
	// per-day stacks
	undo map[int][]Snapshot
	redo map[int][]Snapshot
	// accounting
	totalBytes int
}

func NewManager(cfg Config) *Manager {
	// Set conservative defaults if not provided
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * 1024 * 1024 // 16 MiB
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg, undo: make(map[int][]Snapshot), redo: make(map[int][]Snapshot)}
}

// PushSnapshot records a snapshot for a day. If within MinInterval from the
// last snapshot on the same day, it replaces the last one. Clears the redo
// stack for that day.
func (m *Manager) PushSnapshot(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[s.Day]
	if n := len(stack); n > 0 {
		last := stack[n-1]
		if s.TS.Sub(last.TS) < m.cfg.MinInterval {
			// Coalesce: adjust accounting and replace
			m.totalBytes -= len(last.Blob)
			m.totalBytes += len(s.Blob)
			stack[n-1] = s
			m.undo[s.Day] = stack
			m.redo[s.Day] = nil
			m.enforceCapsLocked(s.Day)
			return
		}
	}
	// Push new
	stack = append(stack, s)
	m.undo[s.Day] = stack
	m.totalBytes += len(s.Blob)
	// Any new change invalidates redo for the day
	m.redo[s.Day] = nil
	m.enforceCapsLocked(s.Day)
}

// Undo pops from the day's undo stack and pushes to redo, returning the snapshot.
func (m *Manager) Undo(day int) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[day]
	if len(stack) == 0 {
		return Snapshot{}, false
	}
	s := stack[len(stack)-1]
	m.undo[day] = stack[:len(stack)-1]
	m.totalBytes -= len(s.Blob)
	m.redo[day] = append(m.redo[day], s)
	return s, true
}

// Redo pops from redo and pushes back to undo.
func (m *Manager) Redo(day int) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[day]
	if len(r) == 0 {
		return Snapshot{}, false
	}
	s := r[len(r)-1]
	m.redo[day] = r[:len(r)-1]
	m.undo[day] = append(m.undo[day], s)
	m.totalBytes += len(s.Blob)
	m.enforceCapsLocked(day)
	return s, true
}

// ClearDay clears undo/redo stacks for a day to free memory.
func (m *Manager) ClearDay(day int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.undo[day] {
		m.totalBytes -= len(s.Blob)
	}
	delete(m.undo, day)
	delete(m.redo, day)
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes int, days int, totalSnapshots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	days = len(m.undo)
	for _, v := range m.undo {
		totalSnapshots += len(v)
	}
	return m.totalBytes, days, totalSnapshots
}

func (m *Manager) enforceCapsLocked(day int) {
	// Per-day depth cap
	if m.cfg.MaxPerDay > 0 {
		stack := m.undo[day]
		if len(stack) > m.cfg.MaxPerDay {
			// drop the oldest extras
			toDrop := len(stack) - m.cfg.MaxPerDay
			for i := 0; i < toDrop; i++ {
				m.totalBytes -= len(stack[i].Blob)
			}
			m.undo[day] = append([]Snapshot{}, stack[toDrop:]...)
		}
	}
	// Global memory cap: prune oldest across all days
	for m.cfg.MaxBytes > 0 && m.totalBytes > m.cfg.MaxBytes {
		oldestDay := 0
		oldestIdx := -1
		var oldestTS time.Time
		for d, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if oldestIdx == -1 || stack[0].TS.Before(oldestTS) {
				oldestDay = d
				oldestIdx = 0
				oldestTS = stack[0].TS
			}
		}
		if oldestIdx == -1 {
			break
		}
		stack := m.undo[oldestDay]
		m.totalBytes -= len(stack[0].Blob)
		m.undo[oldestDay] = stack[1:]
		if len(m.undo[oldestDay]) == 0 {
			delete(m.undo, oldestDay)
		}
	}
}
