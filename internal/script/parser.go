/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package script reconstructs object-model fragments from engine script text.
// Extraction is best effort and accuracy-first: a construct the recognizers
// cannot interpret with confidence is skipped entirely rather than emitted
// with guessed values. Round-tripping the emitter's own output works; for
// hand-written scripts only a bounded set of common idioms is recognized.
package script

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"motionforge/internal/domain"
	"motionforge/internal/ops"
)

// Parse scans script text and returns one add-object operation per
// recognized constructor call, with a bounded set of chained or follow-up
// mutation calls (.shift, .move_to, .set_color) folded into the extracted
// attributes in source order. Unrecognized lines are ignored.
func Parse(input string) []ops.Operation {
	var out []ops.Operation
	byVar := map[string]int{} // variable name -> index into out

	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if m := reAssign.FindStringSubmatch(line); m != nil {
			varName, rest := m[1], m[2]
			frag, ok := recognize(rest)
			if !ok {
				continue
			}
			// Chained mutations on the constructor line, left to right.
			for _, mut := range reMutation.FindAllStringSubmatch(rest, -1) {
				applyMutation(frag, mut[1], mut[2])
			}
			byVar[varName] = len(out)
			out = append(out, ops.Operation{Op: ops.OpAddObject, Object: frag})
			continue
		}

		if m := reMutationStmt.FindStringSubmatch(line); m != nil {
			idx, ok := byVar[m[1]]
			if !ok {
				continue
			}
			applyMutation(out[idx].Object, m[2], m[3])
		}
	}
	return out
}

var (
	reAssign       = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.+)$`)
	reCtorName     = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	reMutation     = regexp.MustCompile(`\.(shift|move_to|set_color)\(([^)]*)\)`)
	reMutationStmt = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\.(shift|move_to|set_color)\(([^)]*)\)`)
	rePoint        = regexp.MustCompile(`^(?:np\.array\()?\[\s*(-?[\d.]+)\s*,\s*(-?[\d.]+)\s*(?:,\s*-?[\d.]+\s*)?\]`)
	reNumber       = regexp.MustCompile(`^-?[\d.]+$`)
	reString       = regexp.MustCompile(`^r?"((?:[^"\\]|\\.)*)"$|^r?'((?:[^'\\]|\\.)*)'$`)
	reRange        = regexp.MustCompile(`^\[\s*(-?[\d.]+)\s*,\s*(-?[\d.]+)\s*(?:,\s*(-?[\d.]+)\s*)?\]$`)
	reDirTerm      = regexp.MustCompile(`(LEFT|RIGHT|UP|DOWN)(?:\s*\*\s*(-?[\d.]+))?`)
)

// ctorTypes maps engine constructor names to object model types.
var ctorTypes = map[string]string{
	"Circle":         domain.TypeCircle,
	"Square":         domain.TypeRectangle,
	"Rectangle":      domain.TypeRectangle,
	"Triangle":       domain.TypeTriangle,
	"RegularPolygon": domain.TypePolygon,
	"Dot":            domain.TypeDot,
	"Line":           domain.TypeLine,
	"Arrow":          domain.TypeArrow,
	"Text":           domain.TypeText,
	"MathTex":        domain.TypeLatex,
	"Tex":            domain.TypeLatex,
	"Axes":           domain.TypeAxes,
}

// recognize extracts one object fragment from a constructor expression, or
// reports failure when the call pattern is not understood.
func recognize(expr string) (map[string]any, bool) {
	m := reCtorName.FindStringSubmatch(expr)
	if m == nil {
		return nil, false
	}
	typ, known := ctorTypes[m[1]]
	if !known {
		return nil, false
	}
	args, ok := callArgs(expr[len(m[0])-1:])
	if !ok {
		return nil, false
	}

	frag := map[string]any{"type": typ}
	positional, kwargs := splitArgs(args)

	switch m[1] {
	case "Circle":
		if v, ok := kwargs["radius"]; ok {
			if f, ok := number(v); ok {
				frag["radius"] = f
			}
		}
	case "Square":
		// A square is a width==height rectangle in the model.
		side := 2.0
		if v, ok := kwargs["side_length"]; ok {
			if f, ok := number(v); ok {
				side = f
			}
		}
		frag["width"], frag["height"] = side, side
	case "Rectangle":
		if v, ok := kwargs["width"]; ok {
			if f, ok := number(v); ok {
				frag["width"] = f
			}
		}
		if v, ok := kwargs["height"]; ok {
			if f, ok := number(v); ok {
				frag["height"] = f
			}
		}
	case "RegularPolygon":
		if v, ok := kwargs["n"]; ok {
			if f, ok := number(v); ok {
				frag["sides"] = int(f)
			}
		} else if len(positional) > 0 {
			if f, ok := number(positional[0]); ok {
				frag["sides"] = int(f)
			}
		}
	case "Dot":
		if len(positional) > 0 {
			if x, y, ok := point(positional[0]); ok {
				frag["x"], frag["y"] = x, y
			}
		}
		if v, ok := kwargs["radius"]; ok {
			if f, ok := number(v); ok {
				frag["radius"] = f
			}
		}
	case "Line", "Arrow":
		if len(positional) < 2 {
			return nil, false
		}
		x1, y1, ok1 := point(positional[0])
		x2, y2, ok2 := point(positional[1])
		if !ok1 || !ok2 {
			return nil, false
		}
		frag["x"], frag["y"] = x1, y1
		frag["x2"], frag["y2"] = x2, y2
	case "Text", "MathTex", "Tex":
		if len(positional) == 0 {
			return nil, false
		}
		s, ok := stringLit(positional[0])
		if !ok {
			return nil, false
		}
		frag["text"] = s
		if v, ok := kwargs["font_size"]; ok {
			if f, ok := number(v); ok {
				frag["fontSize"] = f
			}
		}
	case "Axes":
		if v, ok := kwargs["x_range"]; ok {
			if lo, hi, step, ok := axisRange(v); ok {
				frag["xMin"], frag["xMax"], frag["xStep"] = lo, hi, step
			}
		}
		if v, ok := kwargs["y_range"]; ok {
			if lo, hi, step, ok := axisRange(v); ok {
				frag["yMin"], frag["yMax"], frag["yStep"] = lo, hi, step
			}
		}
	}

	if v, ok := kwargs["color"]; ok {
		if hex, ok := colorValue(v); ok {
			frag["fillColor"] = hex
		}
	}
	if v, ok := kwargs["fill_color"]; ok {
		if hex, ok := colorValue(v); ok {
			frag["fillColor"] = hex
		}
	}
	if v, ok := kwargs["stroke_color"]; ok {
		if hex, ok := colorValue(v); ok {
			frag["strokeColor"] = hex
		}
	}

	ops.FillDefaults(frag, typ)
	return frag, true
}

// applyMutation folds one recognized mutation call into the fragment.
func applyMutation(frag map[string]any, method, args string) {
	switch method {
	case "move_to":
		if x, y, ok := point(strings.TrimSpace(args)); ok {
			frag["x"], frag["y"] = x, y
		}
	case "shift":
		dx, dy, ok := shiftDelta(args)
		if !ok {
			return
		}
		x, _ := frag["x"].(float64)
		y, _ := frag["y"].(float64)
		frag["x"], frag["y"] = x+dx, y+dy
		// Endpoint types translate as a whole.
		if x2, ok := frag["x2"].(float64); ok {
			frag["x2"] = x2 + dx
		}
		if y2, ok := frag["y2"].(float64); ok {
			frag["y2"] = y2 + dy
		}
	case "set_color":
		if hex, ok := colorValue(strings.TrimSpace(args)); ok {
			frag["fillColor"] = hex
		}
	}
}

// shiftDelta evaluates a shift argument built from the four direction
// constants, each optionally scaled, joined with +. Anything else fails.
func shiftDelta(args string) (dx, dy float64, ok bool) {
	args = strings.TrimSpace(args)
	if args == "" {
		return 0, 0, false
	}
	matched := reDirTerm.FindAllStringSubmatch(args, -1)
	if len(matched) == 0 {
		return 0, 0, false
	}
	// Reject when anything besides direction terms, scales, +, and
	// whitespace is present.
	leftover := reDirTerm.ReplaceAllString(args, "")
	leftover = strings.Map(func(r rune) rune {
		if r == '+' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, leftover)
	if leftover != "" {
		return 0, 0, false
	}
	for _, m := range matched {
		k := 1.0
		if m[2] != "" {
			f, good := number(m[2])
			if !good {
				return 0, 0, false
			}
			k = f
		}
		switch m[1] {
		case "LEFT":
			dx -= k
		case "RIGHT":
			dx += k
		case "UP":
			dy += k
		case "DOWN":
			dy -= k
		}
	}
	return dx, dy, true
}

// callArgs scans a "(...)" suffix and returns the balanced argument text
// inside the outer parentheses.
func callArgs(s string) (string, bool) {
	if s == "" || s[0] != '(' {
		return "", false
	}
	depth := 0
	inStr := byte(0)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inStr != 0:
			if c == '\\' {
				i++
			} else if c == inStr {
				inStr = 0
			}
		case c == '"' || c == '\'':
			inStr = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
			if depth == 0 {
				return s[1:i], true
			}
		}
	}
	return "", false
}

// splitArgs splits a call argument list at top-level commas and separates
// keyword from positional arguments.
func splitArgs(raw string) (positional []string, kwargs map[string]string) {
	kwargs = map[string]string{}
	depth := 0
	inStr := byte(0)
	start := 0
	flush := func(end int) {
		arg := strings.TrimSpace(raw[start:end])
		if arg == "" {
			return
		}
		if eq := strings.Index(arg, "="); eq > 0 && !strings.ContainsAny(arg[:eq], "[(\"'") {
			kwargs[strings.TrimSpace(arg[:eq])] = strings.TrimSpace(arg[eq+1:])
			return
		}
		positional = append(positional, arg)
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case inStr != 0:
			if c == '\\' {
				i++
			} else if c == inStr {
				inStr = 0
			}
		case c == '"' || c == '\'':
			inStr = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == ',' && depth == 0:
			flush(i)
			start = i + 1
		}
	}
	flush(len(raw))
	return positional, kwargs
}

func number(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !reNumber.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func point(s string) (x, y float64, ok bool) {
	m := rePoint.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	x, okX := number(m[1])
	y, okY := number(m[2])
	return x, y, okX && okY
}

func stringLit(s string) (string, bool) {
	m := reString.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}

func axisRange(s string) (lo, hi, step float64, ok bool) {
	m := reRange.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, 0, false
	}
	lo, ok1 := number(m[1])
	hi, ok2 := number(m[2])
	step = 1.0
	if m[3] != "" {
		f, ok3 := number(m[3])
		if !ok3 {
			return 0, 0, 0, false
		}
		step = f
	}
	return lo, hi, step, ok1 && ok2
}

// colorValue folds a constructor color argument (engine constant, quoted hex
// or name) into canonical hex.
func colorValue(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if lit, ok := stringLit(s); ok {
		s = lit
	}
	return domain.ResolveColor(s, domain.Colors)
}
