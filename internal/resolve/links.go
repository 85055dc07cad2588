/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package resolve

import (
	"log/slog"

	"motionforge/internal/domain"
	applog "motionforge/internal/log"
)

// Defaults for the numeric helpers of the math-graph family.
const (
	DefaultSlopeStep     = 0.001
	DefaultTangentLength = 2.0
)

// DefaultLimitOffsets is the unsigned approach schedule for limit probes.
var DefaultLimitOffsets = []float64{1, 0.5, 0.1, 0.01}

// Sample is one probed point on a graph.
type Sample struct {
	X float64
	Y float64
}

// Resolved annotates one scene object with its resolved link targets and the
// numeric values derived from them. A nil Axes/Graph/Cursor means the
// reference was absent or dangling; the object then renders unlinked rather
// than failing.
type Resolved struct {
	Obj    domain.SceneObject
	Axes   *domain.SceneObject
	Graph  *domain.SceneObject
	Cursor *domain.SceneObject

	// HasPoint marks that X0/Y0 carry a concrete graph coordinate.
	HasPoint bool
	X0       float64
	Y0       float64

	// HasSlope marks that Slope carries a symmetric-difference derivative.
	HasSlope bool
	Slope    float64

	// Samples holds the materialized limit-probe point set.
	Samples []Sample
}

// Resolution indexes resolved objects by id for one scene.
type Resolution struct {
	ByID map[string]*Resolved
}

// Scene resolves every math-graph link inside one scene and precomputes the
// graph coordinates the emitter needs. Dangling references degrade: the
// object keeps rendering, without the axis mapping. Objects whose formula
// cannot be evaluated lose only the derived feature (point, slope, samples),
// consistent with the omit-don't-guess policy.
func Scene(sc domain.Scene) Resolution {
	l := applog.WithComponent("resolve")
	res := Resolution{ByID: make(map[string]*Resolved, len(sc.Objects))}

	for _, o := range sc.Objects {
		r := &Resolved{Obj: o}
		res.ByID[o.ID] = r
		if !domain.MathType(o.Type) {
			continue
		}

		switch o.Type {
		case domain.TypeGraph:
			r.Axes = sc.ObjectByID(o.AxesID)
		case domain.TypeCursor, domain.TypeTangent, domain.TypeLimitProbe, domain.TypeValueLabel:
			r.Graph = sc.ObjectByID(o.GraphID)
			if r.Graph != nil && r.Graph.Type != domain.TypeGraph {
				r.Graph = nil
			}
			if r.Graph != nil {
				r.Axes = sc.ObjectByID(r.Graph.AxesID)
			}
			if r.Axes == nil {
				r.Axes = sc.ObjectByID(o.AxesID)
			}
			if c := sc.ObjectByID(o.CursorID); c != nil && c.Type == domain.TypeCursor {
				r.Cursor = c
			}
		}
		if r.Axes != nil && r.Axes.Type != domain.TypeAxes {
			r.Axes = nil
		}

		if r.Graph == nil {
			if o.Type != domain.TypeGraph && o.GraphID != "" {
				l.Debug("dangling graph link, rendering unlinked",
					slog.String("object", o.ID), slog.String("graphId", o.GraphID))
			}
			continue
		}

		// Derived numeric values against the linked graph's formula.
		x0 := o.X0
		if r.Cursor != nil {
			x0 = r.Cursor.X0
		}
		formula := r.Graph.Formula
		switch o.Type {
		case domain.TypeCursor, domain.TypeTangent, domain.TypeValueLabel:
			if y0, err := Eval(formula, x0); err == nil {
				r.HasPoint = true
				r.X0, r.Y0 = x0, y0
			} else {
				l.Debug("formula evaluation failed, omitting point",
					slog.String("object", o.ID), slog.Any("err", err))
			}
		case domain.TypeLimitProbe:
			r.X0 = x0
		}

		if o.Type == domain.TypeTangent || (o.Type == domain.TypeValueLabel && o.Mode == "slope") {
			h := o.H
			if h <= 0 {
				h = DefaultSlopeStep
			}
			if m, err := Slope(formula, x0, h); err == nil {
				r.HasSlope = true
				r.Slope = m
			}
		}

		if o.Type == domain.TypeLimitProbe {
			r.Samples = LimitSamples(formula, x0, o.Offsets, o.Direction)
		}
	}
	return res
}

// Slope approximates f'(x0) with the symmetric difference
// (f(x0+h) - f(x0-h)) / (2h).
func Slope(formula string, x0, h float64) (float64, error) {
	hi, err := Eval(formula, x0+h)
	if err != nil {
		return 0, err
	}
	lo, err := Eval(formula, x0-h)
	if err != nil {
		return 0, err
	}
	return (hi - lo) / (2 * h), nil
}

// LimitSamples materializes the probe point set for a limit object: each
// offset in the schedule, signed by the approach direction, is evaluated
// against the formula. Offsets whose evaluation fails are skipped.
func LimitSamples(formula string, x0 float64, offsets []float64, direction string) []Sample {
	if len(offsets) == 0 {
		offsets = DefaultLimitOffsets
	}
	var signs []float64
	switch direction {
	case "left":
		signs = []float64{-1}
	case "right":
		signs = []float64{1}
	default: // both
		signs = []float64{-1, 1}
	}
	var out []Sample
	for _, sign := range signs {
		for _, d := range offsets {
			x := x0 + sign*d
			y, err := Eval(formula, x)
			if err != nil {
				continue
			}
			out = append(out, Sample{X: x, Y: y})
		}
	}
	return out
}

// Order returns the scene's objects in a stable dependency order: every
// referenced object (axes before graph, graph before cursor and derived
// objects, transform sources before their targets) precedes its referrers,
// and unrelated objects keep their list order.
func Order(objs []domain.SceneObject) []domain.SceneObject {
	index := make(map[string]int, len(objs))
	for i, o := range objs {
		index[o.ID] = i
	}

	deps := func(o domain.SceneObject) []int {
		var ds []int
		add := func(id string) {
			if id == "" {
				return
			}
			if i, ok := index[id]; ok {
				ds = append(ds, i)
			}
		}
		add(o.AxesID)
		add(o.GraphID)
		add(o.CursorID)
		add(o.TransformFromID)
		return ds
	}

	out := make([]domain.SceneObject, 0, len(objs))
	state := make([]int, len(objs)) // 0 unvisited, 1 in progress, 2 done
	var visit func(i int)
	visit = func(i int) {
		if state[i] != 0 {
			return // done, or a cycle: break it by keeping list order
		}
		state[i] = 1
		for _, d := range deps(objs[i]) {
			if state[d] == 0 {
				visit(d)
			}
		}
		state[i] = 2
		out = append(out, objs[i])
	}
	for i := range objs {
		visit(i)
	}
	return out
}
