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
	"strconv"
	"strings"
)

// Pages returns the fractional page estimate for a word count.
func Pages(words, wordsPerPage int) float64 {
	if wordsPerPage <= 0 {
		return 0
	}
	return float64(words) / float64(wordsPerPage)
}

// FormatEighths renders fractional pages in film eighths: "7/8", "1 3/8",
// "2". The fractional part rounds to the nearest eighth and carries into a
// full page at 8/8.
func FormatEighths(pages float64) string {
	full := int(pages)
	eighths := int(math.Round((pages - float64(full)) * 8))
	if eighths == 8 {
		full++
		eighths = 0
	}
	switch {
	case full == 0 && eighths > 0:
		return fmt.Sprintf("%d/8", eighths)
	case eighths > 0:
		return fmt.Sprintf("%d %d/8", full, eighths)
	default:
		return strconv.Itoa(full)
	}
}

// FormatMMSS renders seconds as a zero-padded MM:SS screen length.
func FormatMMSS(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatDuration renders seconds as H:MM:SS with unpadded hours.
func FormatDuration(seconds int) string {
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// ParseClock parses an "HH:MM" wall clock into seconds since midnight.
func ParseClock(clock string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock %q", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock %q", clock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock %q", clock)
	}
	return h*3600 + m*60, nil
}

// FormatClock renders seconds since midnight as HH:MM, wrapping past 24h.
func FormatClock(seconds int) string {
	seconds %= 24 * 3600
	if seconds < 0 {
		seconds += 24 * 3600
	}
	return fmt.Sprintf("%02d:%02d", seconds/3600, seconds%3600/60)
}
