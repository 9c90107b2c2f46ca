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
	"testing"
	"time"
)

func TestUndoRedoBasic(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024 * 1024, MaxPerDay: 10, MinInterval: 10 * time.Millisecond})
	day := 1
	m.PushSnapshot(Snapshot{Day: day, Blob: []byte("a"), TS: time.Now()})
	m.PushSnapshot(Snapshot{Day: day, Blob: []byte("b"), TS: time.Now().Add(20 * time.Millisecond)})
	if _, days, total := m.Stats(); days != 1 || total != 2 {
		t.Fatalf("expected 1 day and 2 snapshots, got days=%d total=%d", days, total)
	}
	s, ok := m.Undo(day)
	if !ok || string(s.Blob) != "b" {
		t.Fatalf("undo expected 'b', got ok=%v blob=%q", ok, string(s.Blob))
	}
	s, ok = m.Redo(day)
	if !ok || string(s.Blob) != "b" {
		t.Fatalf("redo expected 'b', got ok=%v blob=%q", ok, string(s.Blob))
	}
}

func TestPushInvalidatesRedo(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024 * 1024, MaxPerDay: 10, MinInterval: time.Millisecond})
	day := 1
	t0 := time.Now()
	m.PushSnapshot(Snapshot{Day: day, Blob: []byte("a"), TS: t0})
	m.PushSnapshot(Snapshot{Day: day, Blob: []byte("b"), TS: t0.Add(10 * time.Millisecond)})
	if _, ok := m.Undo(day); !ok {
		t.Fatalf("undo failed")
	}
	m.PushSnapshot(Snapshot{Day: day, Blob: []byte("c"), TS: t0.Add(20 * time.Millisecond)})
	if _, ok := m.Redo(day); ok {
		t.Fatalf("expected redo stack cleared after new push")
	}
}

func TestCoalesce(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024 * 1024, MaxPerDay: 10, MinInterval: 50 * time.Millisecond})
	day := 2
	t0 := time.Now()
	m.PushSnapshot(Snapshot{Day: day, Blob: []byte("1"), TS: t0})
	m.PushSnapshot(Snapshot{Day: day, Blob: []byte("2"), TS: t0.Add(10 * time.Millisecond)}) // coalesce
	_, _, total := m.Stats()
	if total != 1 {
		t.Fatalf("expected coalesced to 1 snapshot, got %d", total)
	}
	s, ok := m.Undo(day)
	if !ok || string(s.Blob) != "2" {
		t.Fatalf("expected coalesced snapshot '2', got ok=%v blob=%q", ok, string(s.Blob))
	}
}

func TestCaps(t *testing.T) {
	m := NewManager(Config{MaxBytes: 20, MaxPerDay: 2, MinInterval: 1 * time.Millisecond})
	day := 3
	for i := 0; i < 10; i++ {
		m.PushSnapshot(Snapshot{Day: day, Blob: []byte("xxxxx"), TS: time.Now().Add(time.Duration(i) * time.Millisecond)})
	}
	_, _, total := m.Stats()
	if total > 2 {
		t.Fatalf("expected MaxPerDay cap to limit to 2, got %d", total)
	}
}

func TestGlobalByteCapPrunesOldestDay(t *testing.T) {
	m := NewManager(Config{MaxBytes: 12, MaxPerDay: 0, MinInterval: time.Millisecond})
	t0 := time.Now()
	m.PushSnapshot(Snapshot{Day: 1, Blob: []byte("aaaaaa"), TS: t0})
	m.PushSnapshot(Snapshot{Day: 2, Blob: []byte("bbbbbb"), TS: t0.Add(10 * time.Millisecond)})
	m.PushSnapshot(Snapshot{Day: 3, Blob: []byte("cccccc"), TS: t0.Add(20 * time.Millisecond)})
	bytes, _, _ := m.Stats()
	if bytes > 12 {
		t.Fatalf("expected total bytes <= 12, got %d", bytes)
	}
	if _, ok := m.Undo(1); ok {
		t.Fatalf("expected oldest day pruned")
	}
}

func TestClearDay(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024, MaxPerDay: 10, MinInterval: time.Millisecond})
	m.PushSnapshot(Snapshot{Day: 1, Blob: []byte("a"), TS: time.Now()})
	m.ClearDay(1)
	if bytes, days, total := m.Stats(); bytes != 0 || days != 0 || total != 0 {
		t.Fatalf("expected empty manager, got bytes=%d days=%d total=%d", bytes, days, total)
	}
	if _, ok := m.Undo(1); ok {
		t.Fatalf("expected no undo after clear")
	}
}
