/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Basic 2D geometry for script emission. Float values use float64 because the
// emitter prints scene coordinates verbatim.

import "math"

// Pt is a 2D point.
type Pt struct{ X, Y float64 }

// P is a short constructor for Pt.
func P(x, y float64) Pt { return Pt{X: x, Y: y} }

// Add returns p + q.
func (p Pt) Add(q Pt) Pt { return Pt{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Pt) Sub(q Pt) Pt { return Pt{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by k.
func (p Pt) Scale(k float64) Pt { return Pt{p.X * k, p.Y * k} }

// Dist returns the euclidean distance between p and q.
func (p Pt) Dist(q Pt) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// QuadToCubic converts a quadratic bezier segment (p0, q, p2) into the control
// points of the equivalent cubic segment:
//
//	c1 = p0 + 2/3*(q - p0)
//	c2 = p2 + 2/3*(q - p2)
//
// The endpoints are unchanged. Rendering engines that only accept cubic
// segments reproduce the quadratic curve exactly with these control points.
func QuadToCubic(p0, q, p2 Pt) (c1, c2 Pt) {
	c1 = p0.Add(q.Sub(p0).Scale(2.0 / 3.0))
	c2 = p2.Add(q.Sub(p2).Scale(2.0 / 3.0))
	return c1, c2
}
