/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package timeline

import "motionforge/internal/domain"

// ActiveObjects returns the objects visible at scene time t, in list order.
//
// An object is active once its delay has been reached; objects without a
// transform reference leave again at delay+runTime. An object that is the
// morph source of another object disappears permanently the moment the
// replacing object's delay is reached, with no reappearance. Both the UI
// scrubber and the scheduler rely on exactly these rules, so they live in one
// place.
func ActiveObjects(objs []domain.SceneObject, t float64) []domain.SceneObject {
	// Earliest time each object is replaced by a morph targeting it.
	replacedAt := map[string]float64{}
	for _, o := range objs {
		if o.TransformFromID == "" {
			continue
		}
		if prev, ok := replacedAt[o.TransformFromID]; !ok || o.Delay < prev {
			replacedAt[o.TransformFromID] = o.Delay
		}
	}

	var out []domain.SceneObject
	for _, o := range objs {
		if !activeAt(o, t) {
			continue
		}
		if at, ok := replacedAt[o.ID]; ok && t >= at {
			continue
		}
		out = append(out, o)
	}
	return out
}

// activeAt applies the per-object window without the replacement rule.
func activeAt(o domain.SceneObject, t float64) bool {
	if t < o.Delay {
		return false
	}
	if o.TransformFromID != "" {
		// A morph target persists; it is only ever hidden by being replaced
		// itself.
		return true
	}
	return t < o.Delay+o.RunTime
}
