/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package schedule

import (
	"fmt"
	"math"

	"producerstoolkit/internal/domain"
)

// RowKind distinguishes scene rows from derived summary rows.
type RowKind int

const (
	RowScene RowKind = iota
	RowDay
	RowLunch
	RowMove
	RowTotal
	RowWrap
)

// Row is one line of the shooting schedule. Scene rows carry the scene and
// its computed lengths; summary rows carry a display Label instead.
type Row struct {
	Kind          RowKind
	Day           int
	Scene         domain.Scene
	Pages         string
	ScreenSeconds int
	Setups        int
	ShootSeconds  int
	Start         string
	End           string
	Label         string
}

// Schedule is the fully derived shooting schedule. It is rebuilt from
// scratch on every recalculation; summary rows only ever exist here, never
// in the persisted project, so a rebuild cannot duplicate them.
type Schedule struct {
	Rows              []Row
	Days              int
	StartClock        string
	TotalSceneSeconds int // scene shooting time only
	TotalSeconds      int // including lunch and company moves
	Wrap              string
}

// ScreenSeconds estimates a scene's screen time in seconds from its word
// count: pages * seconds-per-page, rounded.
func ScreenSeconds(s domain.Scene, cfg domain.ScheduleConfig) int {
	return int(math.Round(Pages(s.WordCount, cfg.WordsPerPage) * float64(cfg.SecondsPerPage)))
}

// ShootSeconds is the estimated shooting time: screen time plus the setup
// penalty (setups * minutes per setup).
func ShootSeconds(s domain.Scene, cfg domain.ScheduleConfig) int {
	return ScreenSeconds(s, cfg) + cfg.DefaultSetups(s)*cfg.SetupMinutes*60
}

// Build derives a schedule from scenes and config. It is pure: same inputs,
// same schedule. Scene order is preserved throughout.
func Build(scenes []domain.Scene, cfg domain.ScheduleConfig) (Schedule, error) {
	start, err := ParseClock(cfg.StartTime)
	if err != nil {
		return Schedule{}, fmt.Errorf("start time: %w", err)
	}
	days := splitDays(scenes, cfg)
	moves := distributeMoves(cfg.CompanyMoves, len(days))
	sch := Schedule{StartClock: cfg.StartTime, Days: len(days)}
	for d, dayScenes := range days {
		buildDay(&sch, d+1, dayScenes, moves[d], cfg, start, len(days) > 1)
	}
	return sch, nil
}

// splitDays flows scenes into consecutive shooting days. A day closes when
// adding the next scene would exceed MaxDayMinutes; a single scene longer
// than the cap still gets a day of its own. MaxDayMinutes 0 disables
// splitting.
func splitDays(scenes []domain.Scene, cfg domain.ScheduleConfig) [][]domain.Scene {
	if cfg.MaxDayMinutes <= 0 || len(scenes) == 0 {
		return [][]domain.Scene{scenes}
	}
	maxSec := cfg.MaxDayMinutes * 60
	var days [][]domain.Scene
	var cur []domain.Scene
	curSec := 0
	for _, sc := range scenes {
		d := ShootSeconds(sc, cfg)
		if len(cur) > 0 && curSec+d > maxSec {
			days = append(days, cur)
			cur, curSec = nil, 0
		}
		cur = append(cur, sc)
		curSec += d
	}
	return append(days, cur)
}

// distributeMoves spreads the configured company moves across days, earlier
// days taking the remainder.
func distributeMoves(total, days int) []int {
	out := make([]int, days)
	for d := range out {
		out[d] = total / days
		if d < total%days {
			out[d]++
		}
	}
	return out
}

func buildDay(sch *Schedule, day int, scenes []domain.Scene, dayMoves int, cfg domain.ScheduleConfig, start int, multi bool) {
	durations := make([]int, len(scenes))
	dayTotal := 0
	for i, sc := range scenes {
		durations[i] = ShootSeconds(sc, cfg)
		dayTotal += durations[i]
	}

	// Lunch goes after the scene whose running time first reaches the
	// threshold: the day midpoint in auto mode, the fixed offset otherwise.
	// If the threshold lies beyond the day, lunch lands after the last scene.
	lunchAfter := -1
	if cfg.IncludeExtras {
		threshold := dayTotal / 2
		if cfg.LunchMode == domain.LunchFixed {
			threshold = cfg.FixedLunchAfterHours * 3600
		}
		running := 0
		lunchAfter = len(scenes)
		for i, d := range durations {
			running += d
			if running >= threshold {
				lunchAfter = i + 1
				break
			}
		}
	}

	// Company moves sit evenly spaced between scene boundaries.
	movesAfter := map[int]int{}
	if cfg.IncludeExtras && dayMoves > 0 {
		n := len(scenes)
		for k := 1; k <= dayMoves; k++ {
			pos := 0
			if n > 0 {
				pos = k * n / (dayMoves + 1)
				if pos < 1 {
					pos = 1
				}
			}
			movesAfter[pos]++
		}
	}

	lunchSec := cfg.LunchMinutes * 60
	moveSec := cfg.MoveMinutes * 60
	running := start

	if multi {
		sch.Rows = append(sch.Rows, Row{Kind: RowDay, Day: day, Label: fmt.Sprintf("DAY %d", day), Start: FormatClock(start)})
	}

	emitExtras := func(boundary int) {
		for j := 0; j < movesAfter[boundary]; j++ {
			sch.Rows = append(sch.Rows, Row{
				Kind: RowMove, Day: day, ShootSeconds: moveSec,
				Start: FormatClock(running), End: FormatClock(running + moveSec),
				Label: fmt.Sprintf("COMPANY MOVE — %s (%s)", FormatClock(running), FormatDuration(moveSec)),
			})
			running += moveSec
		}
		if boundary == lunchAfter {
			sch.Rows = append(sch.Rows, Row{
				Kind: RowLunch, Day: day, ShootSeconds: lunchSec,
				Start: FormatClock(running), End: FormatClock(running + lunchSec),
				Label: fmt.Sprintf("LUNCH — Starts at %s (%s)", FormatClock(running), FormatDuration(lunchSec)),
			})
			running += lunchSec
		}
	}

	emitExtras(0)
	for i, sc := range scenes {
		sch.Rows = append(sch.Rows, Row{
			Kind: RowScene, Day: day, Scene: sc,
			Pages:         FormatEighths(Pages(sc.WordCount, cfg.WordsPerPage)),
			ScreenSeconds: ScreenSeconds(sc, cfg),
			Setups:        cfg.DefaultSetups(sc),
			ShootSeconds:  durations[i],
			Start:         FormatClock(running),
			End:           FormatClock(running + durations[i]),
		})
		running += durations[i]
		emitExtras(i + 1)
	}

	sch.Rows = append(sch.Rows, Row{
		Kind: RowTotal, Day: day, ShootSeconds: dayTotal,
		Label: "TOTAL SHOOT LENGTH — " + FormatDuration(dayTotal),
	})
	wrap := FormatClock(running)
	sch.Rows = append(sch.Rows, Row{
		Kind: RowWrap, Day: day, Start: wrap, End: wrap,
		Label: "ESTIMATED WRAP — " + wrap,
	})

	sch.TotalSceneSeconds += dayTotal
	sch.TotalSeconds += running - start
	sch.Wrap = wrap
}
