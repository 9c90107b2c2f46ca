/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package schedule

import (
	"strings"
	"testing"

	"producerstoolkit/internal/domain"
)

func testScenes() []domain.Scene {
	return []domain.Scene{
		{Number: 1, Heading: "INT. KITCHEN - DAY", IntExt: "INT", WordCount: 300},
		{Number: 2, Heading: "EXT. YARD - DAY", IntExt: "EXT", WordCount: 150},
		{Number: 3, Heading: "INT. HALL - NIGHT", IntExt: "INT", WordCount: 150},
	}
}

func TestFormatEighths(t *testing.T) {
	cases := []struct {
		words int
		want  string
	}{
		{0, "0"},
		{75, "4/8"},
		{150, "1"},
		{206, "1 3/8"},
		{141, "1"}, // 7.52 eighths rounds to 8 and carries
		{1000, "6 5/8"},
	}
	for _, c := range cases {
		got := FormatEighths(Pages(c.words, 150))
		if got != c.want {
			t.Fatalf("FormatEighths(%d words) = %q, want %q", c.words, got, c.want)
		}
	}
}

func TestScreenAndShootSeconds(t *testing.T) {
	cfg := domain.DefaultScheduleConfig()
	s := domain.Scene{IntExt: "INT", WordCount: 300}
	if got := ScreenSeconds(s, cfg); got != 120 {
		t.Fatalf("ScreenSeconds = %d, want 120", got)
	}
	// 120s screen + 3 setups * 5 min
	if got := ShootSeconds(s, cfg); got != 1020 {
		t.Fatalf("ShootSeconds = %d, want 1020", got)
	}
	s.Setups = 1
	if got := ShootSeconds(s, cfg); got != 420 {
		t.Fatalf("ShootSeconds with override = %d, want 420", got)
	}
	cfg.LockSetups = true
	if got := ShootSeconds(s, cfg); got != 1020 {
		t.Fatalf("ShootSeconds locked = %d, want 1020", got)
	}
}

func TestBuildSingleDayAutoLunch(t *testing.T) {
	cfg := domain.DefaultScheduleConfig()
	sch, err := Build(testScenes(), cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if sch.Days != 1 {
		t.Fatalf("Days = %d, want 1", sch.Days)
	}

	kinds := rowKinds(sch)
	want := []RowKind{RowScene, RowScene, RowLunch, RowScene, RowTotal, RowWrap}
	assertKinds(t, kinds, want)

	// Scene 1: 17 min, scene 2: 26 min. Midpoint of 59 min is reached after
	// scene 2, so lunch starts at 08:43.
	if sch.Rows[0].Start != "08:00" || sch.Rows[0].End != "08:17" {
		t.Fatalf("scene 1 clock = %s-%s", sch.Rows[0].Start, sch.Rows[0].End)
	}
	lunch := sch.Rows[2]
	if lunch.Start != "08:43" {
		t.Fatalf("lunch start = %s, want 08:43", lunch.Start)
	}
	if lunch.Label != "LUNCH — Starts at 08:43 (1:00:00)" {
		t.Fatalf("lunch label = %q", lunch.Label)
	}
	// Scene 3 resumes after lunch.
	if sch.Rows[3].Start != "09:43" || sch.Rows[3].End != "09:59" {
		t.Fatalf("scene 3 clock = %s-%s", sch.Rows[3].Start, sch.Rows[3].End)
	}

	if sch.TotalSceneSeconds != 3540 {
		t.Fatalf("TotalSceneSeconds = %d, want 3540", sch.TotalSceneSeconds)
	}
	if sch.TotalSeconds != 7140 {
		t.Fatalf("TotalSeconds = %d, want 7140 (scenes + lunch)", sch.TotalSeconds)
	}
	if got := sch.Rows[4].Label; got != "TOTAL SHOOT LENGTH — 0:59:00" {
		t.Fatalf("total label = %q", got)
	}
	if sch.Wrap != "09:59" || sch.Rows[5].Label != "ESTIMATED WRAP — 09:59" {
		t.Fatalf("wrap = %q, label %q", sch.Wrap, sch.Rows[5].Label)
	}
}

func TestBuildCompanyMoves(t *testing.T) {
	cfg := domain.DefaultScheduleConfig()
	cfg.CompanyMoves = 2
	scenes := []domain.Scene{
		{Number: 1, IntExt: "INT", WordCount: 150},
		{Number: 2, IntExt: "INT", WordCount: 150},
		{Number: 3, IntExt: "INT", WordCount: 150},
		{Number: 4, IntExt: "INT", WordCount: 150},
	}
	sch, err := Build(scenes, cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []RowKind{RowScene, RowMove, RowScene, RowMove, RowLunch, RowScene, RowScene, RowTotal, RowWrap}
	assertKinds(t, rowKinds(sch), want)

	// 4 scenes of 16 min plus two 10-min moves plus lunch.
	if sch.TotalSeconds != 3840+1200+3600 {
		t.Fatalf("TotalSeconds = %d", sch.TotalSeconds)
	}
	if sch.Wrap != "10:24" {
		t.Fatalf("wrap = %q, want 10:24", sch.Wrap)
	}
	if mv := sch.Rows[1]; !strings.HasPrefix(mv.Label, "COMPANY MOVE — 08:16") {
		t.Fatalf("move label = %q", mv.Label)
	}
}

func TestBuildFixedLunchBeyondTotal(t *testing.T) {
	cfg := domain.DefaultScheduleConfig()
	cfg.LunchMode = domain.LunchFixed
	cfg.FixedLunchAfterHours = 6
	sch, err := Build(testScenes(), cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// Day is shorter than 6 hours: lunch lands after the last scene.
	want := []RowKind{RowScene, RowScene, RowScene, RowLunch, RowTotal, RowWrap}
	assertKinds(t, rowKinds(sch), want)
}

func TestBuildExtrasExcluded(t *testing.T) {
	cfg := domain.DefaultScheduleConfig()
	cfg.IncludeExtras = false
	cfg.CompanyMoves = 3
	sch, err := Build(testScenes(), cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []RowKind{RowScene, RowScene, RowScene, RowTotal, RowWrap}
	assertKinds(t, rowKinds(sch), want)
	if sch.TotalSeconds != sch.TotalSceneSeconds {
		t.Fatalf("extras leaked into total: %d vs %d", sch.TotalSeconds, sch.TotalSceneSeconds)
	}
	if sch.Wrap != "08:59" {
		t.Fatalf("wrap = %q, want 08:59", sch.Wrap)
	}
}

func TestBuildEmptyScript(t *testing.T) {
	cfg := domain.DefaultScheduleConfig()
	sch, err := Build(nil, cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// Lunch fallback at start of day, zero total, wrap one lunch later.
	want := []RowKind{RowLunch, RowTotal, RowWrap}
	assertKinds(t, rowKinds(sch), want)
	if sch.Rows[0].Start != "08:00" {
		t.Fatalf("lunch start = %s", sch.Rows[0].Start)
	}
	if sch.Wrap != "09:00" {
		t.Fatalf("wrap = %q, want 09:00", sch.Wrap)
	}
}

func TestBuildMultiDay(t *testing.T) {
	cfg := domain.DefaultScheduleConfig()
	cfg.IncludeExtras = false
	cfg.MaxDayMinutes = 30
	scenes := []domain.Scene{
		{Number: 1, IntExt: "INT", WordCount: 150}, // 16 min each
		{Number: 2, IntExt: "INT", WordCount: 150},
		{Number: 3, IntExt: "INT", WordCount: 150},
	}
	sch, err := Build(scenes, cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if sch.Days != 3 {
		t.Fatalf("Days = %d, want 3", sch.Days)
	}
	want := []RowKind{
		RowDay, RowScene, RowTotal, RowWrap,
		RowDay, RowScene, RowTotal, RowWrap,
		RowDay, RowScene, RowTotal, RowWrap,
	}
	assertKinds(t, rowKinds(sch), want)
	// Each day restarts the clock.
	for _, r := range sch.Rows {
		if r.Kind == RowScene && r.Start != "08:00" {
			t.Fatalf("day %d scene starts at %s, want 08:00", r.Day, r.Start)
		}
	}
	if sch.Rows[0].Label != "DAY 1" || sch.Rows[8].Label != "DAY 3" {
		t.Fatalf("day labels = %q, %q", sch.Rows[0].Label, sch.Rows[8].Label)
	}
	// Order preserved across days.
	if sch.Rows[1].Scene.Number != 1 || sch.Rows[9].Scene.Number != 3 {
		t.Fatalf("scene order changed")
	}
}

func TestBuildIsPure(t *testing.T) {
	cfg := domain.DefaultScheduleConfig()
	scenes := testScenes()
	a, err := Build(scenes, cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, err := Build(scenes, cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(a.Rows) != len(b.Rows) {
		t.Fatalf("rebuild changed row count: %d vs %d", len(a.Rows), len(b.Rows))
	}
	for i := range a.Rows {
		if a.Rows[i].Label != b.Rows[i].Label || a.Rows[i].Start != b.Rows[i].Start {
			t.Fatalf("row %d differs on rebuild", i)
		}
	}
}

func TestBuildRejectsBadStartTime(t *testing.T) {
	cfg := domain.DefaultScheduleConfig()
	cfg.StartTime = "8am"
	if _, err := Build(testScenes(), cfg); err == nil {
		t.Fatalf("expected error for bad start time")
	}
}

func TestClockHelpers(t *testing.T) {
	if got := FormatClock(24*3600 + 600); got != "00:10" {
		t.Fatalf("FormatClock wrap = %q", got)
	}
	if got := FormatDuration(3725); got != "1:02:05" {
		t.Fatalf("FormatDuration = %q", got)
	}
	if got := FormatMMSS(505); got != "08:25" {
		t.Fatalf("FormatMMSS = %q", got)
	}
	if _, err := ParseClock("25:00"); err == nil {
		t.Fatalf("ParseClock accepted 25:00")
	}
}

func TestTableRendering(t *testing.T) {
	cfg := domain.DefaultScheduleConfig()
	sch, err := Build(testScenes(), cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	out := Table(sch)
	if !strings.Contains(out, "Scene Heading") {
		t.Fatalf("missing header: %s", out)
	}
	if !strings.Contains(out, "INT. KITCHEN - DAY") || !strings.Contains(out, "TOTAL SHOOT LENGTH") {
		t.Fatalf("missing rows: %s", out)
	}

	cells := Cells(sch.Rows[0])
	if len(cells) != len(Header) {
		t.Fatalf("cells = %d columns, want %d", len(cells), len(Header))
	}
	if cells[2] != "2" || cells[4] != "02:00" {
		t.Fatalf("scene cells = %v", cells)
	}
}

func rowKinds(s Schedule) []RowKind {
	out := make([]RowKind, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = r.Kind
	}
	return out
}

func assertKinds(t *testing.T, got, want []RowKind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("row kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d kind = %v, want %v", i, got[i], want[i])
		}
	}
}
