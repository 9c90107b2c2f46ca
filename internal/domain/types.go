/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for the Producer's Toolkit.
// A Project serializes to a human-readable JSON manifest (ptk.json).
// Only source data is persisted: scenes and the schedule configuration.
// Schedule rows (lunch, moves, totals, wrap) are derived on demand and are
// never stored, so a load/recalculate cycle cannot duplicate them.

// Project represents a production scheduling project and its metadata.
type Project struct {
	Name     string         `json:"name"`
	Metadata Metadata       `json:"metadata,omitempty"`
	Config   ScheduleConfig `json:"config"`
	Scenes   []Scene        `json:"scenes"`
}

// Metadata contains optional descriptive metadata, mostly sourced from the
// Fountain title page.
type Metadata struct {
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	DraftDate string `json:"draftDate,omitempty"`
	Contact   string `json:"contact,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// Interior/exterior flags as parsed from a scene heading.
const (
	IntExtInterior = "INT"
	IntExtExterior = "EXT"
	IntExtBoth     = "INT/EXT"
)

// Scene is one screenplay scene in shooting order.
// Number is the 1-based position in script order; order is never changed by
// scheduling. Setups 0 means "use the config default for the INT/EXT flag".
type Scene struct {
	Number     int      `json:"number"`
	Heading    string   `json:"heading"`
	IntExt     string   `json:"intExt"`
	Location   string   `json:"location,omitempty"`
	TimeOfDay  string   `json:"timeOfDay,omitempty"`
	WordCount  int      `json:"wordCount"`
	Setups     int      `json:"setups,omitempty"`
	Characters []string `json:"characters,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// LunchMode selects how the lunch break position is computed.
type LunchMode string

const (
	// LunchAuto places lunch after the first scene whose running shooting
	// time reaches the midpoint of the day's total scene time.
	LunchAuto LunchMode = "auto"
	// LunchFixed places lunch after the first scene whose running shooting
	// time reaches FixedLunchAfterHours.
	LunchFixed LunchMode = "fixed"
)

// ScheduleConfig holds the tunable ratios and day-shape settings.
type ScheduleConfig struct {
	WordsPerPage         int       `json:"wordsPerPage"`
	SecondsPerPage       int       `json:"secondsPerPage"`
	SetupMinutes         int       `json:"setupMinutes"`
	SetupsInt            int       `json:"setupsInt"`
	SetupsExt            int       `json:"setupsExt"`
	LockSetups           bool      `json:"lockSetups,omitempty"`
	StartTime            string    `json:"startTime"` // HH:MM clock
	IncludeExtras        bool      `json:"includeExtras"`
	LunchMode            LunchMode `json:"lunchMode"`
	LunchMinutes         int       `json:"lunchMinutes"`
	FixedLunchAfterHours int       `json:"fixedLunchAfterHours,omitempty"`
	CompanyMoves         int       `json:"companyMoves"`
	MoveMinutes          int       `json:"moveMinutes"`
	MaxDayMinutes        int       `json:"maxDayMinutes,omitempty"` // 0 = single day
}

// DefaultScheduleConfig returns the standard defaults: 150 words per page,
// one minute of screen time per page, 5 minutes per setup with 3 setups for
// interiors and 5 for exteriors, an 8:00 call, auto lunch of 60 minutes and
// 10-minute company moves.
func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		WordsPerPage:         150,
		SecondsPerPage:       60,
		SetupMinutes:         5,
		SetupsInt:            3,
		SetupsExt:            5,
		StartTime:            "08:00",
		IncludeExtras:        true,
		LunchMode:            LunchAuto,
		LunchMinutes:         60,
		FixedLunchAfterHours: 6,
		CompanyMoves:         0,
		MoveMinutes:          10,
	}
}

// DefaultSetups resolves the effective setup count for a scene, honoring a
// per-scene override unless LockSetups forces config defaults.
func (c ScheduleConfig) DefaultSetups(s Scene) int {
	if !c.LockSetups && s.Setups > 0 {
		return s.Setups
	}
	if s.IntExt == IntExtInterior {
		return c.SetupsInt
	}
	return c.SetupsExt
}
