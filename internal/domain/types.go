/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for MotionForge scene projects.
// The structures serialize to a human-readable JSON manifest; every field the
// editor or the patch applier can produce has a canonical name here, so
// downstream passes never read alias keys.

// CurrentVersion is the manifest format version written by this build.
const CurrentVersion = 1

// Project is the root container of a document.
type Project struct {
	Version  int            `json:"version"`
	Settings RenderSettings `json:"settings"`
	Scenes   []Scene        `json:"scenes"`
}

// RenderSettings holds global output parameters for the rendering engine.
type RenderSettings struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	FrameRate  int    `json:"frameRate"`
	Background string `json:"background"` // hex color
}

// Scene owns an ordered list of objects and a duration in seconds.
type Scene struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Duration float64       `json:"duration"`
	Objects  []SceneObject `json:"objects"`
}

// Object type discriminants. The set is closed; the validator drops anything
// outside it on load.
const (
	TypeRectangle  = "rectangle"
	TypeTriangle   = "triangle"
	TypeCircle     = "circle"
	TypePolygon    = "polygon"
	TypeDot        = "dot"
	TypeLine       = "line"
	TypeArrow      = "arrow"
	TypeArc        = "arc"
	TypeText       = "text"
	TypeLatex      = "latex"
	TypeAxes       = "axes"
	TypeGraph      = "graph"
	TypeCursor     = "graph-cursor"
	TypeTangent    = "tangent-line"
	TypeLimitProbe = "limit-probe"
	TypeValueLabel = "value-label"
)

var knownTypes = map[string]struct{}{
	TypeRectangle: {}, TypeTriangle: {}, TypeCircle: {}, TypePolygon: {},
	TypeDot: {}, TypeLine: {}, TypeArrow: {}, TypeArc: {},
	TypeText: {}, TypeLatex: {},
	TypeAxes: {}, TypeGraph: {}, TypeCursor: {}, TypeTangent: {},
	TypeLimitProbe: {}, TypeValueLabel: {},
}

// KnownType reports whether t belongs to the closed object type set.
func KnownType(t string) bool {
	_, ok := knownTypes[t]
	return ok
}

// MathType reports whether t belongs to the math-graph family.
func MathType(t string) bool {
	switch t {
	case TypeAxes, TypeGraph, TypeCursor, TypeTangent, TypeLimitProbe, TypeValueLabel:
		return true
	}
	return false
}

// SceneObject is the polymorphic scene unit. Per-type attributes are flat
// optional fields; the type discriminant decides which of them are read.
type SceneObject struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	// Common visual attributes.
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Rotation    float64 `json:"rotation,omitempty"` // radians
	Opacity     float64 `json:"opacity"`
	FillColor   string  `json:"fillColor,omitempty"`   // hex
	StrokeColor string  `json:"strokeColor,omitempty"` // hex
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	ZOrder      int     `json:"zOrder,omitempty"`

	// Shape geometry.
	Width  float64 `json:"width,omitempty"`  // rectangle
	Height float64 `json:"height,omitempty"` // rectangle
	Radius float64 `json:"radius,omitempty"` // circle, dot, polygon
	Sides  int     `json:"sides,omitempty"`  // polygon
	X2     float64 `json:"x2,omitempty"`     // line, arrow, arc endpoint
	Y2     float64 `json:"y2,omitempty"`
	CtrlX  float64 `json:"ctrlX,omitempty"` // arc quadratic control point
	CtrlY  float64 `json:"ctrlY,omitempty"`

	// Text attributes (text, latex).
	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`

	// Axes ranges.
	XMin  float64 `json:"xMin,omitempty"`
	XMax  float64 `json:"xMax,omitempty"`
	XStep float64 `json:"xStep,omitempty"`
	YMin  float64 `json:"yMin,omitempty"`
	YMax  float64 `json:"yMax,omitempty"`
	YStep float64 `json:"yStep,omitempty"`
	// Labels enables axis labels on an axes object (emitted as a composite).
	Labels bool `json:"labels,omitempty"`

	// Math-graph links and parameters.
	AxesID    string    `json:"axesId,omitempty"`
	GraphID   string    `json:"graphId,omitempty"`
	CursorID  string    `json:"cursorId,omitempty"`
	Formula   string    `json:"formula,omitempty"`
	X0        float64   `json:"x0,omitempty"`        // sample abscissa
	H         float64   `json:"h,omitempty"`         // slope approximation step
	Length    float64   `json:"length,omitempty"`    // tangent half-length
	Offsets   []float64 `json:"offsets,omitempty"`   // limit-probe schedule
	Direction string    `json:"direction,omitempty"` // left | right | both
	Mode      string    `json:"mode,omitempty"`      // value-label: value | slope

	// Timing attributes.
	Delay             float64 `json:"delay"`
	RunTime           float64 `json:"runTime"`
	AnimationType     string  `json:"animationType,omitempty"`
	ExitAnimationType string  `json:"exitAnimationType,omitempty"`

	// Transform chain: this object morphs from the referenced object.
	TransformFromID string `json:"transformFromId,omitempty"`
	TransformType   string `json:"transformType,omitempty"`

	Keyframes []Keyframe `json:"keyframes,omitempty"`
}

// Keyframe is a timestamped property mutation scoped to one object.
// Time is absolute scene time in seconds.
type Keyframe struct {
	Time     float64 `json:"time"`
	Property string  `json:"property"` // x | y | opacity | rotation
	Value    float64 `json:"value"`
}

// ObjectByID returns a pointer to the object with the given id, or nil.
func (s *Scene) ObjectByID(id string) *SceneObject {
	if id == "" {
		return nil
	}
	for i := range s.Objects {
		if s.Objects[i].ID == id {
			return &s.Objects[i]
		}
	}
	return nil
}

// SceneByID returns a pointer to the scene with the given id, or nil.
func (p *Project) SceneByID(id string) *Scene {
	if id == "" {
		return nil
	}
	for i := range p.Scenes {
		if p.Scenes[i].ID == id {
			return &p.Scenes[i]
		}
	}
	return nil
}
