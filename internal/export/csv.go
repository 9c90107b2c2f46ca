/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"producerstoolkit/internal/schedule"
	"producerstoolkit/internal/storage"
)

// ExportCSV writes the full schedule table, summary rows included, as CSV.
// A relative outPath lands under <project>/exports/.
func ExportCSV(ph *storage.ProjectHandle, sch schedule.Schedule, outPath string) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	out, err := resolveOut(ph, outPath)
	if err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(schedule.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range sch.Rows {
		if err := w.Write(schedule.Cells(r)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Sync()
}

// resolveOut anchors relative paths below the project exports folder and
// makes sure the parent directory exists.
func resolveOut(ph *storage.ProjectHandle, outPath string) (string, error) {
	if outPath == "" {
		return "", fmt.Errorf("output path is required")
	}
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(ph.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("ensure out dir: %w", err)
	}
	return outPath, nil
}
