/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package emit renders a validated project into engine script text. Emission
// is deterministic: the same object list in the same order always produces
// byte-identical output (stable iteration order, index-based variable names).
package emit

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"motionforge/internal/domain"
	"motionforge/internal/resolve"
	"motionforge/internal/timeline"
)

const indent = "        " // inside construct()

// Emit renders the scene identified by activeSceneID (falling back to the
// first scene) as one top-level scene class in the engine's scripting syntax.
// It never fails: objects it cannot render are skipped, per the degrade-don't-
// guess policy, and an empty project yields a script with an empty scene.
func Emit(p domain.Project, activeSceneID string) string {
	p = domain.Validate(p)
	sc := p.SceneByID(activeSceneID)
	if sc == nil {
		sc = &p.Scenes[0]
	}

	e := &emitter{
		table: domain.Colors,
		objs:  sc.Objects,
		res:   resolve.Scene(*sc),
		vars:  map[string]string{},
		coord: map[string]string{},
		index: map[string]int{},
	}
	for i, o := range sc.Objects {
		e.index[o.ID] = i
	}

	var b strings.Builder
	b.WriteString("from manim import *\n")
	b.WriteString("import numpy as np\n\n")
	b.WriteString(fmt.Sprintf("config.background_color = %q\n", p.Settings.Background))
	b.WriteString(fmt.Sprintf("config.frame_rate = %d\n\n\n", p.Settings.FrameRate))
	b.WriteString(fmt.Sprintf("class %s(Scene):\n", SceneClassName(sc.Name)))
	b.WriteString("    def construct(self):\n")

	body := e.body()
	if body == "" {
		b.WriteString(indent + "self.wait(1)\n")
		return b.String()
	}
	b.WriteString(body)
	return b.String()
}

type emitter struct {
	table domain.ColorTable
	objs  []domain.SceneObject
	res   resolve.Resolution
	vars  map[string]string // id -> current animation variable
	coord map[string]string // axes id -> variable exposing the c2p mapping
	index map[string]int    // id -> position in the object list
}

func (e *emitter) body() string {
	var b strings.Builder

	// Constructors, dependencies first.
	for _, o := range resolve.Order(e.objs) {
		stmts := e.construct(o)
		for _, s := range stmts {
			b.WriteString(indent + s + "\n")
		}
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}

	// Scheduled batches with gap-filling waits.
	prev := 0.0
	for _, batch := range timeline.Schedule(e.objs) {
		if d := batch.Time - prev; d > 1e-9 {
			b.WriteString(indent + "self.wait(" + num(d) + ")\n")
		}
		prev = batch.Time
		e.batchCalls(&b, batch)
	}
	b.WriteString(indent + "self.wait(1)\n")
	return b.String()
}

// batchCalls renders one batch as up to four concurrent animation calls in
// the fixed sub-order: creations, transforms, keyframe edits, exits.
func (e *emitter) batchCalls(b *strings.Builder, batch timeline.Batch) {
	if len(batch.Creations) > 0 {
		var anims []string
		for _, id := range batch.Creations {
			v, ok := e.vars[id]
			if !ok {
				continue
			}
			anims = append(anims, e.entrance(e.object(id), v))
		}
		if len(anims) > 0 {
			rt := timeline.MaxRunTime(batch.Creations, e.objs)
			b.WriteString(indent + "self.play(" + strings.Join(anims, ", ") + ", run_time=" + num(rt) + ")\n")
		}
	}

	if len(batch.Transforms) > 0 {
		var anims []string
		type repoint struct{ src, tgt, tgtVar, srcVar string }
		var post []repoint
		for _, id := range batch.Transforms {
			o := e.object(id)
			if o == nil {
				continue
			}
			tgtVar, ok := e.vars[id]
			if !ok {
				continue
			}
			srcVar, ok := e.vars[o.TransformFromID]
			if !ok {
				continue
			}
			tt := transformType(o.TransformType)
			anims = append(anims, tt+"("+srcVar+", "+tgtVar+")")
			post = append(post, repoint{src: o.TransformFromID, tgt: id, tgtVar: tgtVar, srcVar: srcVar})
		}
		if len(anims) > 0 {
			rt := timeline.MaxRunTime(batch.Transforms, e.objs)
			b.WriteString(indent + "self.play(" + strings.Join(anims, ", ") + ", run_time=" + num(rt) + ")\n")
		}
		// Replacement transforms leave the target variable on screen; plain
		// transforms leave the morphed source variable. Re-point so later
		// edits, transforms and exits address the surviving object.
		for _, r := range post {
			o := e.object(r.tgt)
			if isReplacement(o.TransformType) {
				e.vars[r.src] = r.tgtVar
				e.vars[r.tgt] = r.tgtVar
			} else {
				e.vars[r.tgt] = r.srcVar
			}
		}
	}

	if len(batch.Edits) > 0 {
		var anims []string
		for _, ed := range batch.Edits {
			v, ok := e.vars[ed.ObjectID]
			if !ok {
				continue
			}
			if a := editAnim(v, ed); a != "" {
				anims = append(anims, a)
			}
		}
		if len(anims) > 0 {
			b.WriteString(indent + "self.play(" + strings.Join(anims, ", ") + ", run_time=1)\n")
		}
	}

	if len(batch.Exits) > 0 {
		var anims []string
		for _, id := range batch.Exits {
			v, ok := e.vars[id]
			if !ok {
				continue
			}
			anims = append(anims, exitAnim(e.object(id), v))
		}
		if len(anims) > 0 {
			b.WriteString(indent + "self.play(" + strings.Join(anims, ", ") + ", run_time=1)\n")
		}
	}
}

func (e *emitter) object(id string) *domain.SceneObject {
	if i, ok := e.index[id]; ok {
		return &e.objs[i]
	}
	return nil
}

// entrance maps an object's entrance style to an engine animation. "auto"
// picks the per-type default.
func (e *emitter) entrance(o *domain.SceneObject, v string) string {
	style := "auto"
	if o != nil {
		style = o.AnimationType
	}
	switch style {
	case "fade in":
		return "FadeIn(" + v + ")"
	case "grow":
		return "GrowFromCenter(" + v + ")"
	case "draw":
		return "Create(" + v + ")"
	case "write":
		return "Write(" + v + ")"
	}
	// auto, or an unrecognized style.
	if o != nil {
		switch o.Type {
		case domain.TypeText, domain.TypeLatex:
			return "Write(" + v + ")"
		case domain.TypeDot, domain.TypeCursor, domain.TypeLimitProbe, domain.TypeValueLabel:
			return "FadeIn(" + v + ")"
		}
	}
	return "Create(" + v + ")"
}

func exitAnim(o *domain.SceneObject, v string) string {
	style := ""
	if o != nil {
		style = o.ExitAnimationType
	}
	switch style {
	case "shrink":
		return "ShrinkToCenter(" + v + ")"
	case "unwrite":
		return "Unwrite(" + v + ")"
	default: // "fade out" and everything unrecognized
		return "FadeOut(" + v + ")"
	}
}

// editAnim renders one keyframe mutation. A fade to zero opacity exits the
// object instead of leaving an invisible mobject in the scene graph.
func editAnim(v string, ed timeline.Edit) string {
	switch ed.Property {
	case "x":
		return v + ".animate.set_x(" + num(ed.Value) + ")"
	case "y":
		return v + ".animate.set_y(" + num(ed.Value) + ")"
	case "opacity":
		if ed.Value <= 0 {
			return "FadeOut(" + v + ")"
		}
		return v + ".animate.set_opacity(" + num(ed.Value) + ")"
	case "rotation":
		return v + ".animate.rotate(" + num(ed.Value) + ")"
	}
	return ""
}

func transformType(t string) string {
	switch t {
	case "ReplacementTransform", "TransformMatchingShapes", "FadeTransform":
		return t
	default:
		return "Transform"
	}
}

func isReplacement(t string) bool {
	switch t {
	case "ReplacementTransform", "TransformMatchingShapes", "FadeTransform":
		return true
	}
	return false
}

// SceneClassName converts a scene name to a valid engine class identifier.
func SceneClassName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if upper {
				b.WriteRune(unicode.ToUpper(r))
				upper = false
			} else {
				b.WriteRune(r)
			}
		default:
			upper = true
		}
	}
	s := b.String()
	if s == "" || unicode.IsDigit(rune(s[0])) {
		s = "Scene" + s
	}
	return s
}

// num formats a float compactly and deterministically.
func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
