/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/image/colornames"
)

// ColorTable is an immutable bidirectional mapping between hex colors and the
// rendering engine's named color constants. It is passed around explicitly so
// tests and alternate engine profiles can swap it; Colors is the process-wide
// default and must never be mutated.
type ColorTable struct {
	byName map[string]string // NAME -> #rrggbb (lowercase)
	byHex  map[string]string // #rrggbb (lowercase) -> NAME
}

// NewColorTable builds a table from name -> hex pairs. Hex values are
// canonicalized to lowercase #rrggbb. When two names share a hex value the
// first name registered wins the reverse direction.
func NewColorTable(pairs [][2]string) ColorTable {
	t := ColorTable{byName: make(map[string]string, len(pairs)), byHex: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		name := strings.ToUpper(strings.TrimSpace(p[0]))
		hex := strings.ToLower(strings.TrimSpace(p[1]))
		if name == "" || !hexColorRe.MatchString(hex) {
			continue
		}
		t.byName[name] = hex
		if _, dup := t.byHex[hex]; !dup {
			t.byHex[hex] = name
		}
	}
	return t
}

// Colors is the default engine color table.
var Colors = NewColorTable([][2]string{
	{"WHITE", "#ffffff"},
	{"BLACK", "#000000"},
	{"RED", "#fc6255"},
	{"GREEN", "#83c167"},
	{"BLUE", "#58c4dd"},
	{"YELLOW", "#ffff00"},
	{"GOLD", "#f0ac5f"},
	{"ORANGE", "#ff862f"},
	{"PINK", "#d147bd"},
	{"PURPLE", "#9a72ac"},
	{"MAROON", "#c55f73"},
	{"TEAL", "#5cd0b3"},
	{"GREY", "#888888"},
	{"GRAY", "#888888"},
})

var hexColorRe = regexp.MustCompile(`^#[0-9a-f]{6}$`)

// NameFor returns the engine constant for a hex color, if one exists.
func (t ColorTable) NameFor(hex string) (string, bool) {
	n, ok := t.byHex[strings.ToLower(strings.TrimSpace(hex))]
	return n, ok
}

// HexFor returns the hex value of an engine constant name, if one exists.
func (t ColorTable) HexFor(name string) (string, bool) {
	h, ok := t.byName[strings.ToUpper(strings.TrimSpace(name))]
	return h, ok
}

// ResolveColor folds an arbitrary user-supplied color value into canonical
// lowercase #rrggbb form. Accepted inputs: hex (#abc or #aabbcc), an engine
// constant name from the table, or a CSS/SVG color name. Unrecognized values
// report ok=false and must be left for the caller to drop or default.
func ResolveColor(v string, t ColorTable) (string, bool) {
	s := strings.TrimSpace(v)
	if s == "" {
		return "", false
	}
	if strings.HasPrefix(s, "#") {
		h := strings.ToLower(s)
		if hexColorRe.MatchString(h) {
			return h, true
		}
		// Short #rgb form.
		if len(h) == 4 {
			var r, g, b byte
			if _, err := fmt.Sscanf(h, "#%1x%1x%1x", &r, &g, &b); err == nil {
				return fmt.Sprintf("#%02x%02x%02x", r*17, g*17, b*17), true
			}
		}
		return "", false
	}
	if h, ok := t.HexFor(s); ok {
		return h, true
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), true
	}
	return "", false
}
