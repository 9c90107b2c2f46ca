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
	"strconv"
	"strings"
	"text/tabwriter"
)

// Header is the stable column set shared by the table renderer and the
// exporters.
var Header = []string{"#", "Scene Heading", "Pages", "Setups", "Length", "Shoot Time", "Start", "End"}

// Cells renders a row into the shared column set. Summary rows put their
// label in the heading column and leave the numeric columns empty.
func Cells(r Row) []string {
	if r.Kind != RowScene {
		return []string{"", r.Label, "", "", "", "", r.Start, r.End}
	}
	return []string{
		strconv.Itoa(r.Scene.Number),
		r.Scene.Heading,
		r.Pages,
		strconv.Itoa(r.Setups),
		FormatMMSS(r.ScreenSeconds),
		FormatDuration(r.ShootSeconds),
		r.Start,
		r.End,
	}
}

// Table renders the schedule as an aligned plain-text table for CLI display.
func Table(s Schedule) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 2, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(Header, "\t"))
	for _, r := range s.Rows {
		fmt.Fprintln(w, strings.Join(Cells(r), "\t"))
	}
	w.Flush()
	return b.String()
}
