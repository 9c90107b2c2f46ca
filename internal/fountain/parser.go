/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import (
	"regexp"
	"strconv"
	"strings"
)

// Patterns
var (
	reHeading  = regexp.MustCompile(`^(?i)(INT\.?/EXT\.?|EXT\.?/INT\.?|I/E\.?|INT|EXT|EST)[.\s]\s*(.*)$`)
	reSceneNum = regexp.MustCompile(`\s*#([0-9A-Za-z.\-]+)#\s*$`)
	reTitleKey = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9 _-]*):\s*(.*)$`)
	reNote     = regexp.MustCompile(`\[\[.*?\]\]`)
	reUpper    = regexp.MustCompile(`^[^a-z]*[A-Z][^a-z]*$`)
)

// Parse parses Fountain text into a structured Script.
// Supported syntax:
//   - Title page: leading "Key: value" pairs up to the first blank line,
//     with indented continuation lines.
//   - Scene headings: INT./EXT./EST./I/E. prefixes or a forced "." heading.
//     A trailing "#42#" tag sets the scene number.
//   - Character cues: an upper-case line after a blank line introduces a
//     dialogue block; "@" forces a cue. Parentheticals are "(... )" lines
//     inside a block, lyrics start with "~".
//   - Transitions: upper-case lines ending in "TO:" or forced with ">".
//   - Notes [[...]], boneyard /* ... */, synopses "=", sections "#" and
//     ";" comment lines carry no schedule weight and are dropped.
//
// Parsing is loss tolerant: anything unrecognized is kept as action so a
// malformed script still schedules, and problems come back as positional
// errors next to the partial result.
func Parse(input string) (Script, []Error) {
	s := Script{TitlePage: map[string]string{}, Scenes: []Scene{}}
	var errs []Error

	lines := strings.Split(stripBoneyard(input), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}

	i := parseTitlePage(&s, lines)

	currentScene := Scene{}
	haveScene := false
	inDialogue := false
	lastSpeaker := ""
	seenChars := map[string]bool{}

	flushScene := func() {
		if !haveScene {
			return
		}
		for _, el := range currentScene.Elements {
			currentScene.WordCount += len(strings.Fields(el.Text))
			if el.Type == ElemCharacter {
				currentScene.WordCount += len(strings.Fields(el.Character))
			}
		}
		s.Scenes = append(s.Scenes, currentScene)
	}

	for ; i < len(lines); i++ {
		lineNo := i + 1
		line := lines[i]

		// Multi-line notes: drop everything between [[ and ]].
		if idx := strings.Index(line, "[["); idx >= 0 && !strings.Contains(line, "]]") {
			open := line[:idx]
			for i++; i < len(lines); i++ {
				if end := strings.Index(lines[i], "]]"); end >= 0 {
					line = open + lines[i][end+2:]
					break
				}
			}
			if i >= len(lines) {
				errs = append(errs, Error{Line: lineNo, Column: idx + 1, Message: "unterminated note"})
				line = open
				i = len(lines) - 1
			}
		}
		line = reNote.ReplaceAllString(line, "")

		trim := strings.TrimSpace(line)
		if trim == "" {
			inDialogue = false
			lastSpeaker = ""
			continue
		}

		// Structural noise: sections, synopses, comment lines.
		if strings.HasPrefix(trim, "#") || strings.HasPrefix(trim, "=") || strings.HasPrefix(trim, ";") {
			inDialogue = false
			continue
		}

		// Scene heading (regular or forced with a leading dot).
		heading, forced := trim, false
		if strings.HasPrefix(trim, ".") && !strings.HasPrefix(trim, "..") {
			heading, forced = strings.TrimSpace(trim[1:]), true
		}
		if m := reHeading.FindStringSubmatch(heading); forced || m != nil {
			flushScene()
			currentScene = newScene(heading, m, lineNo, len(s.Scenes)+1, &errs)
			haveScene = true
			inDialogue = false
			lastSpeaker = ""
			seenChars = map[string]bool{}
			continue
		}

		if !haveScene {
			// Leading action before the first slug carries no schedule weight.
			continue
		}

		// Transition: forced with ">" (but not centered "><") or CUT TO: style.
		if strings.HasPrefix(trim, ">") && !strings.HasSuffix(trim, "<") {
			currentScene.Elements = append(currentScene.Elements, Element{Type: ElemTransition, Text: strings.TrimSpace(trim[1:]), LineNo: lineNo})
			inDialogue = false
			continue
		}
		if isUpper(trim) && strings.HasSuffix(trim, "TO:") {
			currentScene.Elements = append(currentScene.Elements, Element{Type: ElemTransition, Text: trim, LineNo: lineNo})
			inDialogue = false
			continue
		}

		// Character cue: "@" forced, or an upper-case line preceded by a blank
		// line with dialogue following.
		cue, forcedCue := trim, false
		if strings.HasPrefix(trim, "@") {
			cue, forcedCue = strings.TrimSpace(trim[1:]), true
		}
		prevBlank := i == 0 || strings.TrimSpace(lines[i-1]) == ""
		nextFilled := i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != ""
		if forcedCue || (prevBlank && nextFilled && isUpper(cue) && hasLetter(cue)) {
			name := speakerName(cue)
			currentScene.Elements = append(currentScene.Elements, Element{Type: ElemCharacter, Character: strings.ToUpper(cue), LineNo: lineNo})
			if name != "" && !seenChars[name] {
				seenChars[name] = true
				currentScene.Characters = append(currentScene.Characters, name)
			}
			inDialogue = true
			lastSpeaker = name
			continue
		}

		if inDialogue {
			if strings.HasPrefix(trim, "(") && strings.HasSuffix(trim, ")") {
				currentScene.Elements = append(currentScene.Elements, Element{Type: ElemParenthetical, Character: lastSpeaker, Text: trim, LineNo: lineNo})
				continue
			}
			if strings.HasPrefix(trim, "~") {
				currentScene.Elements = append(currentScene.Elements, Element{Type: ElemLyric, Character: lastSpeaker, Text: strings.TrimSpace(trim[1:]), LineNo: lineNo})
				continue
			}
			currentScene.Elements = append(currentScene.Elements, Element{Type: ElemDialogue, Character: lastSpeaker, Text: trim, LineNo: lineNo})
			continue
		}

		// Everything else is action; "!" forces it.
		currentScene.Elements = append(currentScene.Elements, Element{Type: ElemAction, Text: strings.TrimPrefix(trim, "!"), LineNo: lineNo})
	}
	flushScene()

	if len(s.Scenes) == 0 && strings.TrimSpace(input) != "" && len(s.TitlePage) == 0 {
		errs = append(errs, Error{Line: 1, Column: 1, Message: "no scene headings found"})
	}
	return s, errs
}

func newScene(heading string, m []string, lineNo, position int, errs *[]Error) Scene {
	sc := Scene{Heading: heading, LineNo: lineNo, Number: position}
	if nm := reSceneNum.FindStringSubmatch(heading); nm != nil {
		sc.Heading = strings.TrimSpace(strings.TrimSuffix(heading, nm[0]))
		if n, err := strconv.Atoi(nm[1]); err == nil && n > 0 {
			sc.Number = n
		} else {
			*errs = append(*errs, Error{Line: lineNo, Column: strings.Index(heading, nm[0]) + 1, Message: "non-numeric scene number " + nm[1] + ", using position"})
		}
	}
	if m == nil {
		// Forced heading: no INT/EXT prefix; the whole slug is the location.
		sc.Location = sc.Heading
		return sc
	}
	prefix := strings.ToUpper(m[1])
	switch {
	case strings.Contains(prefix, "/"):
		sc.IntExt = "INT/EXT"
	case strings.HasPrefix(prefix, "INT"):
		sc.IntExt = "INT"
	default: // EXT and EST
		sc.IntExt = "EXT"
	}
	rest := sc.Heading
	if nm := reHeading.FindStringSubmatch(rest); nm != nil {
		rest = nm[2]
	}
	if idx := strings.LastIndex(rest, " - "); idx >= 0 {
		sc.Location = strings.TrimSpace(rest[:idx])
		sc.TimeOfDay = strings.ToUpper(strings.TrimSpace(rest[idx+3:]))
	} else {
		sc.Location = strings.TrimSpace(rest)
	}
	return sc
}

// parseTitlePage consumes leading "Key: value" pairs and returns the index of
// the first body line.
func parseTitlePage(s *Script, lines []string) int {
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i >= len(lines) {
		return i
	}
	m := reTitleKey.FindStringSubmatch(lines[i])
	if m == nil || reHeading.MatchString(lines[i]) {
		return i
	}
	key := ""
	for ; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			i++
			break
		}
		if km := reTitleKey.FindStringSubmatch(line); km != nil && !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			key = strings.ToLower(strings.TrimSpace(km[1]))
			if v := strings.TrimSpace(km[2]); v != "" {
				s.TitlePage[key] = v
			}
			continue
		}
		if key != "" {
			v := strings.TrimSpace(line)
			if s.TitlePage[key] != "" {
				s.TitlePage[key] += "\n" + v
			} else {
				s.TitlePage[key] = v
			}
		}
	}
	return i
}

// stripBoneyard removes /* ... */ blocks while preserving line numbering.
func stripBoneyard(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	depth := 0
	for i := 0; i < len(input); i++ {
		if depth == 0 && i+1 < len(input) && input[i] == '/' && input[i+1] == '*' {
			depth++
			i++
			continue
		}
		if depth > 0 && i+1 < len(input) && input[i] == '*' && input[i+1] == '/' {
			depth--
			i++
			continue
		}
		if depth == 0 || input[i] == '\n' {
			b.WriteByte(input[i])
		}
	}
	return b.String()
}

func isUpper(s string) bool {
	return reUpper.MatchString(s)
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return r >= 'A' && r <= 'Z' }) >= 0
}

// speakerName strips a cue extension like (V.O.) or (CONT'D) and the dual
// dialogue caret, returning the canonical character name.
func speakerName(cue string) string {
	name := cue
	if idx := strings.Index(name, "("); idx >= 0 {
		name = name[:idx]
	}
	name = strings.TrimSuffix(strings.TrimSpace(name), "^")
	return strings.ToUpper(strings.TrimSpace(name))
}
