/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ops

import (
	"strings"

	"motionforge/internal/domain"
)

// propAliases folds the alternate key spellings agent output tends to use
// into the canonical manifest names.
var propAliases = map[string]string{
	"color":        "fillColor",
	"fill":         "fillColor",
	"fill color":   "fillColor",
	"fill_color":   "fillColor",
	"bordercolor":  "strokeColor",
	"border color": "strokeColor",
	"border_color": "strokeColor",
	"stroke":       "strokeColor",
	"stroke color": "strokeColor",
	"stroke_color": "strokeColor",
	"z":            "zOrder",
	"zindex":       "zOrder",
	"z_index":      "zOrder",
	"z order":      "zOrder",
	"run_time":     "runTime",
	"runtime":      "runTime",
	"font size":    "fontSize",
	"font_size":    "fontSize",
}

// colorProps hold color values and get named colors resolved to hex.
var colorProps = map[string]struct{}{
	"fillColor": {}, "strokeColor": {},
}

// normalizeProps returns a copy of props with alias keys folded into their
// canonical names and color values resolved to hex. Keys that are neither
// canonical nor aliased pass through untouched; the JSON decode into the
// object struct drops them.
func normalizeProps(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		key := k
		if canon, ok := propAliases[strings.ToLower(k)]; ok {
			key = canon
		}
		if _, isColor := colorProps[key]; isColor {
			if s, ok := v.(string); ok {
				if hex, ok := domain.ResolveColor(s, domain.Colors); ok {
					v = hex
				}
			}
		}
		out[key] = v
	}
	return out
}

// FillDefaults completes a freshly added object with the attributes a newly
// authored object carries, so downstream consumers never see a partial one.
// The reverse parser uses it too, so parsed and authored objects share one
// default set.
func FillDefaults(props map[string]any, typ string) {
	def := func(key string, v any) {
		if _, ok := props[key]; !ok {
			props[key] = v
		}
	}

	def("opacity", 1.0)
	def("delay", 0.0)
	def("runTime", 1.0)
	def("animationType", "auto")

	switch typ {
	case domain.TypeRectangle:
		def("width", 2.0)
		def("height", 1.0)
	case domain.TypeCircle, domain.TypeTriangle:
		def("radius", 1.0)
	case domain.TypePolygon:
		def("radius", 1.0)
		def("sides", 6)
	case domain.TypeDot:
		def("radius", 0.08)
	case domain.TypeLine, domain.TypeArrow, domain.TypeArc:
		// Default a 2-unit horizontal span from the anchor.
		x, _ := props["x"].(float64)
		y, _ := props["y"].(float64)
		def("x2", x+2)
		def("y2", y)
	case domain.TypeText, domain.TypeLatex:
		def("text", "Text")
		def("fontSize", 36.0)
	case domain.TypeAxes:
		def("xMin", -5.0)
		def("xMax", 5.0)
		def("xStep", 1.0)
		def("yMin", -3.0)
		def("yMax", 3.0)
		def("yStep", 1.0)
	case domain.TypeGraph:
		def("formula", "x")
	case domain.TypeTangent:
		def("length", 2.0)
	case domain.TypeLimitProbe:
		def("direction", "both")
	case domain.TypeValueLabel:
		def("mode", "value")
		def("fontSize", 28.0)
	}
}
