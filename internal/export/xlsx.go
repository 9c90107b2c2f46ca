/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"producerstoolkit/internal/schedule"
	"producerstoolkit/internal/storage"
)

const xlsxSheet = "Schedule"

// Summary fills in ARGB, mirroring the PDF colors.
var xlsxFills = map[schedule.RowKind]string{
	schedule.RowLunch: "FFA500",
	schedule.RowTotal: "90EE90",
	schedule.RowWrap:  "ADD8E6",
	schedule.RowMove:  "C8C8C8",
	schedule.RowDay:   "787878",
}

// ExportXLSX writes the schedule as a styled workbook: one sheet, the shared
// column set, summary rows filled and merged across the table width.
// A relative outPath lands under <project>/exports/.
func ExportXLSX(ph *storage.ProjectHandle, sch schedule.Schedule, outPath string) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	f := excelize.NewFile()
	defer f.Close()
	idx, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(schedule.Header))
	if err := f.SetSheetRow(xlsxSheet, "A1", &schedule.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, r := range sch.Rows {
		rowNum := i + 2
		cells := schedule.Cells(r)
		vals := make([]any, len(cells))
		for j, c := range cells {
			vals[j] = c
		}
		anchor := fmt.Sprintf("A%d", rowNum)
		if r.Kind != schedule.RowScene {
			if err := f.SetCellValue(xlsxSheet, anchor, r.Label); err != nil {
				return fmt.Errorf("write summary row: %w", err)
			}
			if err := f.MergeCell(xlsxSheet, anchor, fmt.Sprintf("%s%d", lastCol, rowNum)); err != nil {
				return fmt.Errorf("merge summary row: %w", err)
			}
			style, err := f.NewStyle(&excelize.Style{
				Font:      &excelize.Font{Bold: true},
				Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{xlsxFills[r.Kind]}},
				Alignment: &excelize.Alignment{Horizontal: "center"},
			})
			if err != nil {
				return fmt.Errorf("summary style: %w", err)
			}
			if err := f.SetCellStyle(xlsxSheet, anchor, fmt.Sprintf("%s%d", lastCol, rowNum), style); err != nil {
				return fmt.Errorf("apply summary style: %w", err)
			}
			continue
		}
		if err := f.SetSheetRow(xlsxSheet, anchor, &vals); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	// Readable widths for heading and time columns.
	if err := f.SetColWidth(xlsxSheet, "B", "B", 48); err != nil {
		return fmt.Errorf("set col width: %w", err)
	}
	if err := f.SetColWidth(xlsxSheet, "C", lastCol, 12); err != nil {
		return fmt.Errorf("set col width: %w", err)
	}

	out, err := resolveOut(ph, outPath)
	if err != nil {
		return err
	}
	if err := f.SaveAs(out); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
