/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

// Script represents a parsed Fountain screenplay: the title page key/value
// pairs plus the scenes in script order. Only what scheduling needs is kept;
// formatting-level detail (emphasis, centering) is intentionally dropped.

type Script struct {
	TitlePage map[string]string
	Scenes    []Scene
}

// Scene is one slugged scene: everything from a scene heading up to the next
// heading. WordCount covers all retained element text (action, cues,
// parentheticals, dialogue, transitions); notes and boneyard are excluded.
type Scene struct {
	Number     int    // explicit #42# number, or 1-based position
	Heading    string // full heading as written, without the scene number tag
	IntExt     string // "INT", "EXT" or "INT/EXT"
	Location   string
	TimeOfDay  string
	Elements   []Element
	WordCount  int
	Characters []string // speaking characters, first-appearance order
	LineNo     int      // 1-based heading line in the source
}

// ElementType indicates the kind of a scene element.

type ElementType int

const (
	ElemUnknown ElementType = iota
	ElemAction
	ElemCharacter
	ElemParenthetical
	ElemDialogue
	ElemTransition
	ElemLyric
)

// Element captures one logical line within a scene. For ElemDialogue,
// Character holds the (upper-cased) speaker from the preceding cue.

type Element struct {
	Type      ElementType
	Character string
	Text      string
	LineNo    int
}

// Error represents a parse problem with position context. Parsing is loss
// tolerant: errors are reported alongside whatever could be recovered.

type Error struct {
	Line    int
	Column  int
	Message string
}
