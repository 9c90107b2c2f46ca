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

	"github.com/jung-kurt/gofpdf"

	"producerstoolkit/internal/schedule"
	"producerstoolkit/internal/storage"
)

// Summary row colors, matching the desktop table styling.
var (
	colLunch = [3]int{255, 165, 0}   // orange
	colTotal = [3]int{144, 238, 144} // light green
	colWrap  = [3]int{173, 216, 230} // light blue
	colMove  = [3]int{200, 200, 200} // gray
	colDay   = [3]int{120, 120, 120} // day header band
)

// PDFOptions controls PDF export behavior.
// Vector text via built-in Helvetica keeps the file portable; font embedding
// can come later.
type PDFOptions struct {
	Title    string
	Portrait bool // the wide table defaults to landscape
}

// Column widths in mm for an A4 landscape table.
var pdfColWidths = []float64{10, 92, 18, 16, 18, 26, 18, 18}

// ExportPDF writes the schedule as a one-table PDF with colored, visually
// merged summary rows. A relative outPath lands under <project>/exports/.
func ExportPDF(ph *storage.ProjectHandle, sch schedule.Schedule, outPath string, opt PDFOptions) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	orient := "L"
	breakY := 180.0
	if opt.Portrait {
		orient = "P"
		breakY = 270.0
	}
	pdf := gofpdf.New(orient, "mm", "A4", "")
	title := opt.Title
	if title == "" {
		title = ph.Project.Name + " — Shooting Schedule"
	}
	pdf.SetTitle(title, true)
	pdf.SetAuthor("Producer's Toolkit", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	tableWidth := 0.0
	for _, w := range pdfColWidths {
		tableWidth += w
	}

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range schedule.Header {
			pdf.CellFormat(pdfColWidths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	writeHeader()

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range sch.Rows {
		if pdf.GetY() > breakY {
			pdf.AddPage()
			writeHeader()
			pdf.SetFont("Helvetica", "", 9)
		}
		if r.Kind != schedule.RowScene {
			c := summaryColor(r.Kind)
			pdf.SetFillColor(c[0], c[1], c[2])
			pdf.SetFont("Helvetica", "B", 10)
			// One cell across the full table width reads as a merged row.
			pdf.CellFormat(tableWidth, 8, r.Label, "1", 1, "C", true, 0, "")
			pdf.SetFont("Helvetica", "", 9)
			continue
		}
		cells := schedule.Cells(r)
		aligns := []string{"C", "L", "C", "C", "C", "C", "C", "C"}
		for i, cell := range cells {
			pdf.CellFormat(pdfColWidths[i], 7, cell, "1", 0, aligns[i], false, 0, "")
		}
		pdf.Ln(-1)
	}

	out, err := resolveOut(ph, outPath)
	if err != nil {
		return err
	}
	if err := pdf.OutputFileAndClose(out); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func summaryColor(k schedule.RowKind) [3]int {
	switch k {
	case schedule.RowLunch:
		return colLunch
	case schedule.RowTotal:
		return colTotal
	case schedule.RowWrap:
		return colWrap
	case schedule.RowMove:
		return colMove
	default:
		return colDay
	}
}
