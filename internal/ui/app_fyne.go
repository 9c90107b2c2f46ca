//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"producerstoolkit/internal/crash"
	"producerstoolkit/internal/domain"
	"producerstoolkit/internal/export"
	applog "producerstoolkit/internal/log"
	"producerstoolkit/internal/schedule"
	"producerstoolkit/internal/storage"
	"producerstoolkit/internal/undo"
)

// Run starts the Fyne-based desktop UI: a schedule grid with per-scene setup
// editing and live recalculation. It is a thin viewer over the same engine
// the CLI drives; everything shown here is derivable headless.
func Run(projectDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()

	fyneApp := app.NewWithID("producerstoolkit")
	w := fyneApp.NewWindow("Producer's Toolkit")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1100)
	winH := prefs.IntWithFallback("window.height", 700)
	if winW < 800 {
		winW = 800
	}
	if winH < 500 {
		winH = 500
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")

	undoMgr := undo.NewManager(undo.Config{
		MaxBytes:    8 * 1024 * 1024,
		MaxPerDay:   20,
		MinInterval: 300 * time.Millisecond,
	})

	var sch schedule.Schedule
	var schErr error

	recalc := func() {
		if ph == nil {
			sch = schedule.Schedule{}
			return
		}
		sch, schErr = schedule.Build(ph.Project.Scenes, ph.Project.Config)
		if schErr != nil {
			status.SetText("Schedule error: " + schErr.Error())
			return
		}
		status.SetText(fmt.Sprintf("%d scenes, wrap %s", len(ph.Project.Scenes), sch.Wrap))
	}

	captureSnapshot := func() {
		if ph == nil {
			return
		}
		blob, err := json.Marshal(ph.Project.Scenes)
		if err != nil {
			return
		}
		undoMgr.PushSnapshot(undo.Snapshot{Day: 1, Blob: blob, TS: time.Now()})
	}

	applySnapshot := func(blob []byte) {
		if ph == nil {
			return
		}
		var scenes []domain.Scene
		if err := json.Unmarshal(blob, &scenes); err != nil {
			return
		}
		ph.Project.Scenes = scenes
		recalc()
	}

	grid := widget.NewTable(
		func() (int, int) { return len(sch.Rows) + 1, len(schedule.Header) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			lbl := o.(*widget.Label)
			if id.Row == 0 {
				lbl.TextStyle = fyne.TextStyle{Bold: true}
				lbl.SetText(schedule.Header[id.Col])
				return
			}
			lbl.TextStyle = fyne.TextStyle{}
			r := sch.Rows[id.Row-1]
			cells := schedule.Cells(r)
			if r.Kind != schedule.RowScene {
				lbl.TextStyle = fyne.TextStyle{Bold: true}
			}
			lbl.SetText(cells[id.Col])
		},
	)
	grid.SetColumnWidth(0, 40)
	grid.SetColumnWidth(1, 380)
	for c := 2; c < len(schedule.Header); c++ {
		grid.SetColumnWidth(c, 90)
	}

	// Setups editor for the selected scene row
	selectedScene := -1
	setupsEntry := widget.NewEntry()
	setupsEntry.SetPlaceHolder("setups")
	setupsEntry.OnSubmitted = func(v string) {
		if ph == nil || selectedScene < 0 || selectedScene >= len(ph.Project.Scenes) {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			status.SetText("setups must be a non-negative number")
			return
		}
		captureSnapshot()
		ph.Project.Scenes[selectedScene].Setups = n
		recalc()
		grid.Refresh()
		l.Info("setups changed", slog.Int("scene", selectedScene+1), slog.Int("setups", n))
	}
	grid.OnSelected = func(id widget.TableCellID) {
		selectedScene = -1
		if ph == nil || id.Row <= 0 || id.Row-1 >= len(sch.Rows) {
			return
		}
		r := sch.Rows[id.Row-1]
		if r.Kind != schedule.RowScene {
			return
		}
		selectedScene = r.Scene.Number - 1
		setupsEntry.SetText(strconv.Itoa(r.Setups))
	}

	openProject := func(dir string) {
		h, err := storage.Open(dir)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		ph = h
		recalc()
		grid.Refresh()
		w.SetTitle("Producer's Toolkit - " + ph.Project.Name)
		l.Info("project opened", slog.String("root", ph.Root))
	}

	saveBtn := widget.NewButton("Save", func() {
		if ph == nil {
			return
		}
		if err := storage.Save(ph); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Saved")
	})
	undoBtn := widget.NewButton("Undo", func() {
		if s, ok := undoMgr.Undo(1); ok {
			applySnapshot(s.Blob)
			grid.Refresh()
		}
	})
	redoBtn := widget.NewButton("Redo", func() {
		if s, ok := undoMgr.Redo(1); ok {
			applySnapshot(s.Blob)
			grid.Refresh()
		}
	})
	exportBtn := widget.NewButton("Export Report", func() {
		if ph == nil {
			return
		}
		if err := export.BatchExport(ph, export.BatchOptions{Preset: export.PresetReport}); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Report exported under exports/report")
	})

	toolbar := container.NewHBox(saveBtn, undoBtn, redoBtn, exportBtn, widget.NewLabel("Setups:"), setupsEntry)
	w.SetContent(container.NewBorder(toolbar, status, nil, nil, grid))

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})

	if projectDir != "" {
		openProject(projectDir)
	} else {
		status.SetText("Open a project directory: ptk ui <dir>")
	}

	w.ShowAndRun()
	return nil
}
