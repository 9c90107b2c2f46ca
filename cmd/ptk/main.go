/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"producerstoolkit/internal/backend"
	"producerstoolkit/internal/config"
	"producerstoolkit/internal/crash"
	"producerstoolkit/internal/domain"
	"producerstoolkit/internal/export"
	applog "producerstoolkit/internal/log"
	"producerstoolkit/internal/schedule"
	"producerstoolkit/internal/storage"
	"producerstoolkit/internal/telemetry"
	"producerstoolkit/internal/ui"
	"producerstoolkit/internal/version"
)

func usage() {
	fmt.Println("Producer's Toolkit — shooting schedule estimator")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ptk version|-v|--version                  Show version")
	fmt.Println("  ptk init <dir> <name>                     Create a new project at <dir> with name <name>")
	fmt.Println("  ptk open <dir>                            Open project at <dir> and print summary")
	fmt.Println("  ptk import <dir> <script.fountain>        Import a Fountain screenplay into the project")
	fmt.Println("  ptk schedule <dir>                        Recalculate and print the shooting schedule")
	fmt.Println("  ptk export <dir> <csv|pdf|xlsx|png> [out] Export the schedule to a file")
	fmt.Println("  ptk report <dir> [preset]                 Batch export (presets: report, callsheet)")
	fmt.Println("  ptk search <dir> <query> [flags]          Search scenes (--character= --location= --intext= --tod=)")
	fmt.Println("  ptk revisions <dir> [save <label>|list|prune <n>]")
	fmt.Println("  ptk publish <dir> <production>            Publish the schedule to the backend")
	fmt.Println("  ptk fetch <production>                    Fetch the latest published schedule")
	fmt.Println("  ptk ui [<dir>]                            Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}

	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("Producer's Toolkit")
		fmt.Println(version.String())
	case "init":
		ph = cmdInit(l, args[2:])
	case "open":
		ph = cmdOpen(l, args[2:])
	case "import":
		ph = cmdImport(l, args[2:])
	case "schedule":
		ph = cmdSchedule(l, args[2:])
	case "export":
		ph = cmdExport(l, args[2:])
	case "report":
		ph = cmdReport(l, args[2:])
	case "search":
		cmdSearch(l, args[2:])
	case "revisions":
		ph = cmdRevisions(l, args[2:])
	case "publish":
		ph = cmdPublish(l, args[2:])
	case "fetch":
		cmdFetch(l, args[2:])
	case "ui":
		var dir string
		if len(args) >= 3 {
			dir = args[2]
		}
		if err := ui.Run(dir); err != nil {
			fail(err)
		}
	default:
		usage()
	}
}

func fail(err error) {
	fmt.Println("Error:", err)
	os.Exit(1)
}

func mustOpen(l *slog.Logger, dir string) *storage.ProjectHandle {
	abs, _ := filepath.Abs(dir)
	h, err := storage.Open(abs)
	if err != nil {
		l.Error("open failed", slog.Any("err", err))
		fail(err)
	}
	return h
}

func cmdInit(l *slog.Logger, args []string) *storage.ProjectHandle {
	if len(args) < 2 {
		fmt.Println("init requires <dir> and <name>")
		usage()
		os.Exit(2)
	}
	abs, _ := filepath.Abs(args[0])
	name := args[1]
	l.Info("init project", slog.String("root", abs), slog.String("name", name))
	cfg, _, _ := config.Load()
	p := domain.Project{Name: name, Config: cfg.Schedule.Domain(), Scenes: []domain.Scene{}}
	h, err := storage.InitProject(abs, p)
	if err != nil {
		l.Error("init failed", slog.Any("err", err))
		fail(err)
	}
	fmt.Println("Created project at", abs)
	return h
}

func cmdOpen(l *slog.Logger, args []string) *storage.ProjectHandle {
	if len(args) < 1 {
		fmt.Println("open requires <dir>")
		usage()
		os.Exit(2)
	}
	h := mustOpen(l, args[0])
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	rebuilt, err := storage.DetectAndRebuildIndex(ctx, h.Root, h.Project)
	if err != nil {
		l.Warn("index check failed", slog.Any("err", err))
	} else if rebuilt {
		fmt.Println("Scene index was rebuilt")
	}
	fmt.Printf("Opened project: %s\n", h.Project.Name)
	fmt.Printf("Scenes: %d\n", len(h.Project.Scenes))
	fmt.Println("Root:", h.Root)
	return h
}

func cmdImport(l *slog.Logger, args []string) *storage.ProjectHandle {
	if len(args) < 2 {
		fmt.Println("import requires <dir> and <script.fountain>")
		usage()
		os.Exit(2)
	}
	h := mustOpen(l, args[0])
	data, err := os.ReadFile(args[1])
	if err != nil {
		fail(err)
	}
	perrs, err := storage.SyncFromScript(h, string(data))
	if err != nil {
		l.Error("import failed", slog.Any("err", err))
		fail(err)
	}
	if err := storage.Save(h); err != nil {
		fail(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := storage.UpdateIndex(ctx, h.Root, h.Project); err != nil {
		l.Warn("index update failed", slog.Any("err", err))
	}
	for _, pe := range perrs {
		fmt.Printf("line %d: %s\n", pe.Line, pe.Message)
	}
	fmt.Printf("Imported %d scenes from %s\n", len(h.Project.Scenes), args[1])
	telemetry.Event("script_import", map[string]any{"scenes": len(h.Project.Scenes)})
	return h
}

func cmdSchedule(l *slog.Logger, args []string) *storage.ProjectHandle {
	if len(args) < 1 {
		fmt.Println("schedule requires <dir>")
		usage()
		os.Exit(2)
	}
	h := mustOpen(l, args[0])
	sch, err := schedule.Build(h.Project.Scenes, h.Project.Config)
	if err != nil {
		fail(err)
	}
	fmt.Print(schedule.Table(sch))
	telemetry.Event("schedule_recalc", map[string]any{"scenes": len(h.Project.Scenes), "days": sch.Days})
	return h
}

func cmdExport(l *slog.Logger, args []string) *storage.ProjectHandle {
	if len(args) < 2 {
		fmt.Println("export requires <dir> and a format (csv|pdf|xlsx|png)")
		usage()
		os.Exit(2)
	}
	h := mustOpen(l, args[0])
	format := strings.ToLower(args[1])
	out := h.Project.Name + "." + format
	if len(args) >= 3 {
		out = args[2]
	}
	sch, err := schedule.Build(h.Project.Scenes, h.Project.Config)
	if err != nil {
		fail(err)
	}
	switch format {
	case "csv":
		err = export.ExportCSV(h, sch, out)
	case "pdf":
		err = export.ExportPDF(h, sch, out, export.PDFOptions{})
	case "xlsx":
		err = export.ExportXLSX(h, sch, out)
	case "png":
		err = export.ExportStripPNG(h, sch, out, export.StripOptions{})
	default:
		err = fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		l.Error("export failed", slog.String("format", format), slog.Any("err", err))
		fail(err)
	}
	fmt.Printf("Exported %s schedule for %s\n", format, h.Project.Name)
	telemetry.Event("export", map[string]any{"format": format})
	return h
}

func cmdReport(l *slog.Logger, args []string) *storage.ProjectHandle {
	if len(args) < 1 {
		fmt.Println("report requires <dir>")
		usage()
		os.Exit(2)
	}
	h := mustOpen(l, args[0])
	preset := export.PresetReport
	if len(args) >= 2 {
		preset = export.PresetName(args[1])
	}
	if err := export.BatchExport(h, export.BatchOptions{Preset: preset}); err != nil {
		l.Error("batch export failed", slog.Any("err", err))
		fail(err)
	}
	fmt.Printf("Exported preset %q under %s\n", preset, filepath.Join(h.Root, "exports", string(preset)))
	telemetry.Event("export_preset", map[string]any{"preset": string(preset)})
	return h
}

func cmdSearch(l *slog.Logger, args []string) {
	if len(args) < 1 {
		fmt.Println("search requires <dir> [query] [flags]")
		usage()
		os.Exit(2)
	}
	abs, _ := filepath.Abs(args[0])
	q := storage.SearchQuery{}
	for _, a := range args[1:] {
		switch {
		case strings.HasPrefix(a, "--character="):
			q.Character = strings.TrimPrefix(a, "--character=")
		case strings.HasPrefix(a, "--location="):
			q.Location = strings.TrimPrefix(a, "--location=")
		case strings.HasPrefix(a, "--intext="):
			q.IntExt = strings.TrimPrefix(a, "--intext=")
		case strings.HasPrefix(a, "--tod="):
			q.TimeOfDay = strings.TrimPrefix(a, "--tod=")
		default:
			if q.Text == "" {
				q.Text = a
			} else {
				q.Text += " " + a
			}
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	res, err := storage.Search(ctx, abs, q)
	if err != nil {
		l.Error("search failed", slog.Any("err", err))
		fail(err)
	}
	for _, r := range res {
		line := fmt.Sprintf("#%d %s", r.Number, r.Heading)
		if r.Snippet != "" {
			line += "  " + r.Snippet
		}
		fmt.Println(line)
	}
	fmt.Printf("%d scene(s)\n", len(res))
}

func cmdRevisions(l *slog.Logger, args []string) *storage.ProjectHandle {
	if len(args) < 1 {
		fmt.Println("revisions requires <dir> [save <label>|list|prune <n>]")
		usage()
		os.Exit(2)
	}
	h := mustOpen(l, args[0])
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sub := "list"
	if len(args) >= 2 {
		sub = args[1]
	}
	switch sub {
	case "save":
		label := "manual"
		if len(args) >= 3 {
			label = args[2]
		}
		if err := storage.SaveRevision(ctx, h, label, time.Now()); err != nil {
			fail(err)
		}
		fmt.Println("Revision saved:", label)
	case "list":
		revs, err := storage.ListRevisions(ctx, h, 50)
		if err != nil {
			fail(err)
		}
		for _, r := range revs {
			fmt.Printf("%s  %s  (%d scenes)\n", r.TS.Format(time.RFC3339), r.Label, len(r.Project.Scenes))
		}
		fmt.Printf("%d revision(s)\n", len(revs))
	case "prune":
		keep := 10
		if len(args) >= 3 {
			fmt.Sscanf(args[2], "%d", &keep)
		}
		n, err := storage.PruneOldRevisions(ctx, h, keep)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Pruned %d revision(s), kept the last %d\n", n, keep)
	default:
		fmt.Println("unknown revisions subcommand:", sub)
		os.Exit(2)
	}
	return h
}

func cmdPublish(l *slog.Logger, args []string) *storage.ProjectHandle {
	if len(args) < 2 {
		fmt.Println("publish requires <dir> and <production>")
		usage()
		os.Exit(2)
	}
	h := mustOpen(l, args[0])
	cfg, token, err := config.Load()
	if err != nil {
		fail(err)
	}
	if cfg.Backend.BaseURL == "" {
		fail(fmt.Errorf("no backend configured; set %s or backend.base_url in the config file", config.EnvBackendURL))
	}
	sch, err := schedule.Build(h.Project.Scenes, h.Project.Config)
	if err != nil {
		fail(err)
	}
	c := backend.NewClient(cfg.Backend.BaseURL, token, backend.ClientOptions{
		Timeout:     cfg.Backend.EffectiveTimeout(),
		TLSInsecure: cfg.Backend.TLSInsecure,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	snap := map[string]any{
		"project": h.Project.Name,
		"config":  h.Project.Config,
		"rows":    publishRows(sch),
		"wrap":    sch.Wrap,
		"days":    sch.Days,
	}
	rec, err := c.PublishSchedule(ctx, args[1], snap)
	if err != nil {
		l.Error("publish failed", slog.Any("err", err))
		fail(err)
	}
	fmt.Printf("Published %s as version %d\n", rec.Production, rec.Version)
	telemetry.Event("publish", map[string]any{"version": rec.Version})
	return h
}

func publishRows(sch schedule.Schedule) []map[string]any {
	rows := make([]map[string]any, 0, len(sch.Rows))
	for _, r := range sch.Rows {
		cells := schedule.Cells(r)
		rows = append(rows, map[string]any{
			"kind":  int(r.Kind),
			"cells": cells,
		})
	}
	return rows
}

func cmdFetch(l *slog.Logger, args []string) {
	if len(args) < 1 {
		fmt.Println("fetch requires <production>")
		usage()
		os.Exit(2)
	}
	cfg, token, err := config.Load()
	if err != nil {
		fail(err)
	}
	if cfg.Backend.BaseURL == "" {
		fail(fmt.Errorf("no backend configured; set %s or backend.base_url in the config file", config.EnvBackendURL))
	}
	c := backend.NewClient(cfg.Backend.BaseURL, token, backend.ClientOptions{
		Timeout:     cfg.Backend.EffectiveTimeout(),
		TLSInsecure: cfg.Backend.TLSInsecure,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	env, err := c.FetchSchedule(ctx, args[0])
	if err != nil {
		l.Error("fetch failed", slog.Any("err", err))
		fail(err)
	}
	fmt.Printf("Production: %s\nVersion: %d\nPublished by: %s at %s\n",
		env.Production, env.Version, env.PublishedBy, env.CreatedAt)
}
