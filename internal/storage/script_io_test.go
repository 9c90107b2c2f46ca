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
	"path/filepath"
	"testing"

	"producerstoolkit/internal/domain"
)

const testFountain = `Title: Pilot

INT. KITCHEN - DAY

Anna stirs a pot.

EXT. YARD - NIGHT

A dog barks.
`

func TestWriteReadScript(t *testing.T) {
	root := filepath.Join(t.TempDir(), "p")
	ph, err := InitProject(root, domain.Project{Name: "p", Config: domain.DefaultScheduleConfig()})
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	if got, err := ReadScript(ph); err != nil || got != "" {
		t.Fatalf("ReadScript on empty project = %q, %v", got, err)
	}
	if err := WriteScript(ph, testFountain); err != nil {
		t.Fatalf("WriteScript: %v", err)
	}
	got, err := ReadScript(ph)
	if err != nil {
		t.Fatalf("ReadScript: %v", err)
	}
	if got != testFountain {
		t.Fatalf("script content mismatch")
	}
}

func TestSyncFromScript(t *testing.T) {
	root := filepath.Join(t.TempDir(), "p")
	ph, err := InitProject(root, domain.Project{Name: "p", Config: domain.DefaultScheduleConfig()})
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	perrs, err := SyncFromScript(ph, testFountain)
	if err != nil {
		t.Fatalf("SyncFromScript: %v", err)
	}
	if len(perrs) != 0 {
		t.Fatalf("parse errors: %v", perrs)
	}
	if len(ph.Project.Scenes) != 2 {
		t.Fatalf("got %d scenes", len(ph.Project.Scenes))
	}
	if ph.Project.Metadata.Title != "Pilot" {
		t.Fatalf("title page metadata not merged: %+v", ph.Project.Metadata)
	}
	// Script file was written.
	if got, err := ReadScript(ph); err != nil || got != testFountain {
		t.Fatalf("script not stored: %q, %v", got, err)
	}
}

func TestSyncFromScriptPreservesOverrides(t *testing.T) {
	root := filepath.Join(t.TempDir(), "p")
	ph, err := InitProject(root, domain.Project{Name: "p", Config: domain.DefaultScheduleConfig()})
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	if _, err := SyncFromScript(ph, testFountain); err != nil {
		t.Fatalf("SyncFromScript: %v", err)
	}
	ph.Project.Scenes[0].Setups = 8
	ph.Project.Scenes[0].Notes = "crane shot"

	// Re-import a revised draft with the same scene numbers.
	revised := testFountain + "\nANNA\nNew line here.\n"
	if _, err := SyncFromScript(ph, revised); err != nil {
		t.Fatalf("re-sync: %v", err)
	}
	if ph.Project.Scenes[0].Setups != 8 {
		t.Fatalf("setups override lost on re-import: %+v", ph.Project.Scenes[0])
	}
	if ph.Project.Scenes[0].Notes != "crane shot" {
		t.Fatalf("notes lost on re-import")
	}
}
