/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"producerstoolkit/internal/schedule"
	"producerstoolkit/internal/storage"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetReport    PresetName = "report"
	PresetCallsheet PresetName = "callsheet"
)

// BatchOptions controls batch export across multiple formats.
//
// Path semantics:
//   - If OutDir is empty or relative, it is created under
//     <project>/exports/<preset>/.
//   - Output files are named <project>.<ext> inside OutDir.
//
//nolint:revive // keep fields explicit for clarity
type BatchOptions struct {
	Preset   PresetName
	Formats  []string // allowed: csv, pdf, xlsx, png; empty means preset defaults
	Portrait *bool    // when set, overrides the preset's PDF orientation
	OutDir   string   // base directory for outputs (created per preset if relative)
}

// BatchExport recalculates the schedule and runs exports according to the
// given preset.
func BatchExport(ph *storage.ProjectHandle, opt BatchOptions) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}

	sch, err := schedule.Build(ph.Project.Scenes, ph.Project.Config)
	if err != nil {
		return fmt.Errorf("build schedule: %w", err)
	}

	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	for i := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(formats[i]))
	}

	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}
	if !filepath.IsAbs(baseOut) {
		baseOut = filepath.Join(ph.Root, "exports", baseOut)
	}

	portrait := presetPortrait(opt.Preset)
	if opt.Portrait != nil {
		portrait = *opt.Portrait
	}

	stem := ph.Project.Name
	if stem == "" {
		stem = "schedule"
	}

	for _, f := range formats {
		switch f {
		case "csv":
			out := filepath.Join(baseOut, stem+".csv")
			if err := ExportCSV(ph, sch, out); err != nil {
				return fmt.Errorf("csv: %w", err)
			}
		case "pdf":
			out := filepath.Join(baseOut, stem+".pdf")
			po := PDFOptions{Portrait: portrait}
			if err := ExportPDF(ph, sch, out, po); err != nil {
				return fmt.Errorf("pdf: %w", err)
			}
		case "xlsx":
			out := filepath.Join(baseOut, stem+".xlsx")
			if err := ExportXLSX(ph, sch, out); err != nil {
				return fmt.Errorf("xlsx: %w", err)
			}
		case "png":
			out := filepath.Join(baseOut, stem+".png")
			if err := ExportStripPNG(ph, sch, out, StripOptions{}); err != nil {
				return fmt.Errorf("png: %w", err)
			}
		default:
			return fmt.Errorf("unknown format: %s", f)
		}
	}
	return nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetReport:
		return []string{"csv", "pdf", "xlsx"}
	case PresetCallsheet:
		return []string{"pdf", "png"}
	default:
		return []string{"pdf"}
	}
}

func presetPortrait(p PresetName) bool {
	return p == PresetCallsheet
}
