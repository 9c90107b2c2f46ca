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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"producerstoolkit/internal/domain"
	"producerstoolkit/internal/fountain"
)

const ScriptFileName = "screenplay.fountain"

// ScriptPath returns the canonical Fountain source location inside a project.
func ScriptPath(root string) string {
	return filepath.Join(root, "script", ScriptFileName)
}

// ReadScript returns the project's Fountain source, or empty when none exists.
func ReadScript(ph *ProjectHandle) (string, error) {
	if ph == nil {
		return "", errors.New("nil ProjectHandle")
	}
	b, err := os.ReadFile(ScriptPath(ph.Root))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(b), nil
}

// WriteScript stores the Fountain source with the same durability guarantees
// as the manifest (write temp, fsync, rename).
func WriteScript(ph *ProjectHandle, content string) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	path := ScriptPath(ph.Root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure script dir: %w", err)
	}
	temp := path + ".tmp"
	if err := writeFileSync(temp, []byte(content)); err != nil {
		return fmt.Errorf("write temp script: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace script: %w", err)
	}
	return nil
}

// SyncFromScript parses the given Fountain text, replaces the project's
// scenes and writes the script file. Per-scene setup overrides survive a
// re-import when the scene number still exists; title page metadata only
// fills fields the user has not set. Parse errors are returned alongside
// the partial result, matching the parser's loss tolerance.
func SyncFromScript(ph *ProjectHandle, content string) ([]fountain.Error, error) {
	if ph == nil {
		return nil, errors.New("nil ProjectHandle")
	}
	parsed, perrs := fountain.Parse(content)
	scenes := fountain.ToDomainScenes(parsed)

	overrides := map[int]int{}
	notes := map[int]string{}
	for _, sc := range ph.Project.Scenes {
		if sc.Setups > 0 {
			overrides[sc.Number] = sc.Setups
		}
		if sc.Notes != "" {
			notes[sc.Number] = sc.Notes
		}
	}
	for i := range scenes {
		if v, ok := overrides[scenes[i].Number]; ok {
			scenes[i].Setups = v
		}
		if v, ok := notes[scenes[i].Number]; ok {
			scenes[i].Notes = v
		}
	}
	ph.Project.Scenes = scenes

	md := fountain.Metadata(parsed)
	mergeMetadata(&ph.Project.Metadata, md)
	if err := WriteScript(ph, content); err != nil {
		return perrs, err
	}
	return perrs, nil
}

func mergeMetadata(dst *domain.Metadata, src domain.Metadata) {
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if dst.Author == "" {
		dst.Author = src.Author
	}
	if dst.DraftDate == "" {
		dst.DraftDate = src.DraftDate
	}
	if dst.Contact == "" {
		dst.Contact = src.Contact
	}
	if dst.Notes == "" {
		dst.Notes = src.Notes
	}
}
