/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package emit

import (
	"fmt"
	"strings"

	"motionforge/internal/domain"
	"motionforge/internal/resolve"
	"motionforge/internal/vector"
)

// construct emits the constructor statement(s) for one object and registers
// its animation variable. Composite objects (axes with labels, unlinked
// graphs, value labels with a background panel) produce several statements
// collapsed into one grouped value. Objects that cannot be rendered at all
// produce nothing and stay out of the variable table, so no later call can
// reference them.
func (e *emitter) construct(o domain.SceneObject) []string {
	base := fmt.Sprintf("obj_%d", e.index[o.ID])
	if o.TransformFromID != "" {
		base = fmt.Sprintf("target_%d", e.index[o.ID])
	}
	r := e.res.ByID[o.ID]

	var stmts []string
	display := base

	switch o.Type {
	case domain.TypeRectangle:
		stmts = append(stmts, fmt.Sprintf("%s = Rectangle(width=%s, height=%s)", base, num(orDefault(o.Width, 2)), num(orDefault(o.Height, 1))))
		stmts = e.styled(stmts, base, o, true)
	case domain.TypeTriangle:
		stmts = append(stmts, base+" = Triangle()")
		if o.Radius > 0 && o.Radius != 1 {
			stmts = append(stmts, fmt.Sprintf("%s.scale(%s)", base, num(o.Radius)))
		}
		stmts = e.styled(stmts, base, o, true)
	case domain.TypeCircle:
		stmts = append(stmts, fmt.Sprintf("%s = Circle(radius=%s)", base, num(orDefault(o.Radius, 1))))
		stmts = e.styled(stmts, base, o, true)
	case domain.TypePolygon:
		n := o.Sides
		if n < 3 {
			n = 6
		}
		stmts = append(stmts, fmt.Sprintf("%s = RegularPolygon(n=%d)", base, n))
		if o.Radius > 0 && o.Radius != 1 {
			stmts = append(stmts, fmt.Sprintf("%s.scale(%s)", base, num(o.Radius)))
		}
		stmts = e.styled(stmts, base, o, true)
	case domain.TypeDot:
		stmts = append(stmts, fmt.Sprintf("%s = Dot(radius=%s)", base, num(orDefault(o.Radius, 0.08))))
		stmts = e.styled(stmts, base, o, true)
	case domain.TypeLine:
		stmts = append(stmts, fmt.Sprintf("%s = Line(%s, %s)", base, point(o.X, o.Y), point(o.X2, o.Y2)))
		stmts = e.styled(stmts, base, o, false)
	case domain.TypeArrow:
		stmts = append(stmts, fmt.Sprintf("%s = Arrow(%s, %s, buff=0)", base, point(o.X, o.Y), point(o.X2, o.Y2)))
		stmts = e.styled(stmts, base, o, false)
	case domain.TypeArc:
		stmts = e.arc(stmts, base, o)
	case domain.TypeText:
		stmts = append(stmts, fmt.Sprintf("%s = Text(%s, font_size=%s)", base, pyString(o.Text), num(orDefault(o.FontSize, 36))))
		stmts = e.styled(stmts, base, o, true)
	case domain.TypeLatex:
		stmts = append(stmts, fmt.Sprintf("%s = MathTex(%s, font_size=%s)", base, pyRawString(o.Text), num(orDefault(o.FontSize, 36))))
		stmts = e.styled(stmts, base, o, true)
	case domain.TypeAxes:
		stmts, display = e.axes(stmts, base, o)
	case domain.TypeGraph:
		stmts, display = e.graph(stmts, base, o, r)
	case domain.TypeCursor:
		stmts = e.cursor(stmts, base, o, r)
	case domain.TypeTangent:
		stmts = e.tangent(stmts, base, o, r)
	case domain.TypeLimitProbe:
		var ok bool
		stmts, ok = e.limitProbe(stmts, base, o, r)
		if !ok {
			return nil
		}
	case domain.TypeValueLabel:
		stmts, display = e.valueLabel(stmts, base, o, r)
	default:
		// Unrecognized type past the validator; defensive skip.
		return nil
	}

	if o.ZOrder != 0 {
		stmts = append(stmts, fmt.Sprintf("%s.set_z_index(%d)", display, o.ZOrder))
	}
	e.vars[o.ID] = display
	return stmts
}

// styled appends shared styling statements: fill (closed shapes only),
// stroke, placement, rotation, opacity.
func (e *emitter) styled(stmts []string, v string, o domain.SceneObject, closed bool) []string {
	if closed && o.FillColor != "" {
		stmts = append(stmts, fmt.Sprintf("%s.set_fill(%s, opacity=%s)", v, e.color(o.FillColor), num(o.Opacity)))
	}
	if o.StrokeColor != "" || o.StrokeWidth > 0 {
		c := o.StrokeColor
		if c == "" {
			c = "#ffffff"
		}
		stmts = append(stmts, fmt.Sprintf("%s.set_stroke(%s, width=%s)", v, e.color(c), num(orDefault(o.StrokeWidth, 2))))
	}
	if !closed && o.FillColor != "" {
		// Open strokes take the fill color as their line color.
		stmts = append(stmts, fmt.Sprintf("%s.set_color(%s)", v, e.color(o.FillColor)))
	}
	if positional(o.Type) && (o.X != 0 || o.Y != 0) {
		stmts = append(stmts, fmt.Sprintf("%s.move_to(%s)", v, point(o.X, o.Y)))
	}
	if o.Rotation != 0 {
		stmts = append(stmts, fmt.Sprintf("%s.rotate(%s)", v, num(o.Rotation)))
	}
	// Filled closed shapes carry opacity through set_fill; everything else
	// needs an explicit set_opacity.
	if o.Opacity < 1 && (!closed || o.FillColor == "") {
		stmts = append(stmts, fmt.Sprintf("%s.set_opacity(%s)", v, num(o.Opacity)))
	}
	return stmts
}

// positional types are placed by move_to; endpoint types embed coordinates.
func positional(t string) bool {
	switch t {
	case domain.TypeLine, domain.TypeArrow, domain.TypeArc:
		return false
	}
	return true
}

func (e *emitter) arc(stmts []string, base string, o domain.SceneObject) []string {
	if o.CtrlX != 0 || o.CtrlY != 0 {
		// Quadratic control point, emitted as the exact cubic equivalent.
		c1, c2 := vector.QuadToCubic(vector.P(o.X, o.Y), vector.P(o.CtrlX, o.CtrlY), vector.P(o.X2, o.Y2))
		stmts = append(stmts, fmt.Sprintf("%s = CubicBezier(%s, %s, %s, %s)",
			base, point(o.X, o.Y), point(c1.X, c1.Y), point(c2.X, c2.Y), point(o.X2, o.Y2)))
	} else {
		stmts = append(stmts, fmt.Sprintf("%s = ArcBetweenPoints(%s, %s)", base, point(o.X, o.Y), point(o.X2, o.Y2)))
	}
	return e.styled(stmts, base, o, false)
}

func (e *emitter) axes(stmts []string, base string, o domain.SceneObject) ([]string, string) {
	xr := axisRange(o.XMin, o.XMax, o.XStep, -5, 5)
	yr := axisRange(o.YMin, o.YMax, o.YStep, -3, 3)
	stmts = append(stmts, fmt.Sprintf("%s = Axes(x_range=%s, y_range=%s)", base, xr, yr))
	if o.StrokeColor != "" {
		stmts = append(stmts, fmt.Sprintf("%s.set_color(%s)", base, e.color(o.StrokeColor)))
	}
	if o.X != 0 || o.Y != 0 {
		stmts = append(stmts, fmt.Sprintf("%s.move_to(%s)", base, point(o.X, o.Y)))
	}
	e.coord[o.ID] = base
	display := base
	if o.Labels {
		stmts = append(stmts, fmt.Sprintf("%s_labels = %s.get_axis_labels()", base, base))
		stmts = append(stmts, fmt.Sprintf("%s_grp = VGroup(%s, %s_labels)", base, base, base))
		display = base + "_grp"
	}
	return stmts, display
}

func (e *emitter) graph(stmts []string, base string, o domain.SceneObject, r *resolve.Resolved) ([]string, string) {
	body := resolve.Translate(strings.TrimSpace(o.Formula))
	if body == "" {
		body = "x"
	}
	color := o.StrokeColor
	if color == "" {
		color = orColor(o.FillColor, "#58c4dd")
	}
	if r != nil && r.Axes != nil {
		axesVar := e.coord[r.Axes.ID]
		stmts = append(stmts, fmt.Sprintf("%s = %s.plot(lambda x: %s, color=%s)", base, axesVar, body, e.color(color)))
		e.coord[o.ID] = axesVar
		return stmts, base
	}
	// Unlinked fallback: the graph carries its own axes and position.
	stmts = append(stmts, fmt.Sprintf("%s_axes = Axes(x_range=[-5, 5, 1], y_range=[-3, 3, 1])", base))
	stmts = append(stmts, fmt.Sprintf("%s = %s_axes.plot(lambda x: %s, color=%s)", base, base, body, e.color(color)))
	stmts = append(stmts, fmt.Sprintf("%s_grp = VGroup(%s_axes, %s)", base, base, base))
	if o.X != 0 || o.Y != 0 {
		stmts = append(stmts, fmt.Sprintf("%s_grp.move_to(%s)", base, point(o.X, o.Y)))
	}
	e.coord[o.ID] = base + "_axes"
	return stmts, base + "_grp"
}

func (e *emitter) cursor(stmts []string, base string, o domain.SceneObject, r *resolve.Resolved) []string {
	color := orColor(o.FillColor, "#ffff00")
	radius := orDefault(o.Radius, 0.08)
	if r != nil && r.HasPoint && r.Axes != nil {
		stmts = append(stmts, fmt.Sprintf("%s = Dot(%s.c2p(%s, %s), radius=%s, color=%s)",
			base, e.coord[r.Axes.ID], num(r.X0), num(r.Y0), num(radius), e.color(color)))
		return stmts
	}
	stmts = append(stmts, fmt.Sprintf("%s = Dot(%s, radius=%s, color=%s)", base, point(o.X, o.Y), num(radius), e.color(color)))
	return stmts
}

func (e *emitter) tangent(stmts []string, base string, o domain.SceneObject, r *resolve.Resolved) []string {
	color := orColor(o.StrokeColor, "#ff862f")
	if r != nil && r.HasPoint && r.HasSlope && r.Axes != nil {
		half := orDefault(o.Length, resolve.DefaultTangentLength) / 2
		a := e.coord[r.Axes.ID]
		x1, y1 := r.X0-half, r.Y0-r.Slope*half
		x2, y2 := r.X0+half, r.Y0+r.Slope*half
		stmts = append(stmts, fmt.Sprintf("%s = Line(%s.c2p(%s, %s), %s.c2p(%s, %s), color=%s)",
			base, a, num(x1), num(y1), a, num(x2), num(y2), e.color(color)))
		return stmts
	}
	stmts = append(stmts, fmt.Sprintf("%s = Line(%s, %s, color=%s)",
		base, point(o.X-1, o.Y), point(o.X+1, o.Y), e.color(color)))
	return stmts
}

func (e *emitter) limitProbe(stmts []string, base string, o domain.SceneObject, r *resolve.Resolved) ([]string, bool) {
	if r == nil || len(r.Samples) == 0 {
		// Nothing evaluable to show; omit rather than guess.
		return nil, false
	}
	color := orColor(o.FillColor, "#fc6255")
	var dots []string
	for _, s := range r.Samples {
		if r.Axes != nil {
			dots = append(dots, fmt.Sprintf("Dot(%s.c2p(%s, %s), radius=0.06, color=%s)",
				e.coord[r.Axes.ID], num(s.X), num(s.Y), e.color(color)))
		} else {
			dots = append(dots, fmt.Sprintf("Dot(%s, radius=0.06, color=%s)", point(s.X, s.Y), e.color(color)))
		}
	}
	stmts = append(stmts, fmt.Sprintf("%s = VGroup(%s)", base, strings.Join(dots, ", ")))
	return stmts, true
}

func (e *emitter) valueLabel(stmts []string, base string, o domain.SceneObject, r *resolve.Resolved) ([]string, string) {
	val := 0.0
	ok := false
	if r != nil {
		if o.Mode == "slope" && r.HasSlope {
			val, ok = r.Slope, true
		} else if r.HasPoint {
			val, ok = r.Y0, true
		}
	}
	fs := orDefault(o.FontSize, 28)
	stmts = append(stmts, fmt.Sprintf("%s_text = DecimalNumber(%s, num_decimal_places=2, font_size=%s)", base, num(val), num(fs)))
	stmts = append(stmts, fmt.Sprintf("%s_panel = BackgroundRectangle(%s_text, buff=0.15)", base, base))
	stmts = append(stmts, fmt.Sprintf("%s = VGroup(%s_panel, %s_text)", base, base, base))
	if ok && r.Axes != nil {
		stmts = append(stmts, fmt.Sprintf("%s.move_to(%s.c2p(%s, %s) + np.array([0.8, 0.6, 0]))",
			base, e.coord[r.Axes.ID], num(r.X0), num(r.Y0)))
	} else if o.X != 0 || o.Y != 0 {
		stmts = append(stmts, fmt.Sprintf("%s.move_to(%s)", base, point(o.X, o.Y)))
	}
	return stmts, base
}

// color renders a hex color as the engine constant when the table knows one,
// otherwise as a quoted hex literal.
func (e *emitter) color(hex string) string {
	if name, ok := e.table.NameFor(hex); ok {
		return name
	}
	return fmt.Sprintf("%q", hex)
}

func axisRange(min, max, step, defMin, defMax float64) string {
	if min == 0 && max == 0 {
		min, max = defMin, defMax
	}
	if step <= 0 {
		step = 1
	}
	return "[" + num(min) + ", " + num(max) + ", " + num(step) + "]"
}

func point(x, y float64) string {
	return "[" + num(x) + ", " + num(y) + ", 0]"
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func orColor(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func pyString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

func pyRawString(s string) string {
	// Raw string for TeX source; double quotes cannot be escaped in a raw
	// literal, so they are dropped.
	return `r"` + strings.ReplaceAll(s, `"`, "") + `"`
}
