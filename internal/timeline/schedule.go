/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package timeline

import (
	"sort"

	"motionforge/internal/domain"
)

// A Batch is everything that happens at one scheduling timestamp. The batch
// sub-order is fixed: creations and transforms first, then keyframe edits,
// then exits. Each non-empty group becomes one concurrent animation call; the
// engine's call semantics require homogeneous per-call durations, so the
// groups are never merged into a single call.
type Batch struct {
	Time       float64
	Creations  []string // ids entering with a plain entrance
	Transforms []string // ids entering by morphing from another object
	Edits      []Edit   // keyframe property mutations
	Exits      []string // ids leaving
}

// Edit is one keyframe mutation applied to an active object.
type Edit struct {
	ObjectID string
	Property string
	Value    float64
}

// MaxRunTime returns the longest run time among the identified objects.
// Concurrent animations in one call advance scene time by their maximum,
// never their sum. Each homogeneous call group computes its own maximum:
// creations and transforms sharing a timestamp do not stretch each other.
func MaxRunTime(ids []string, objs []domain.SceneObject) float64 {
	byID := map[string]domain.SceneObject{}
	for _, o := range objs {
		byID[o.ID] = o
	}
	max := 0.0
	for _, id := range ids {
		if o, ok := byID[id]; ok && o.RunTime > max {
			max = o.RunTime
		}
	}
	return max
}

// Schedule converts the objects' timing metadata into a strictly ordered
// sequence of batches. Events carrying identical timestamps (exact float
// equality, no snapping) share one batch; batches come out sorted ascending.
//
// Event construction: one "enter" per object at its delay; one "exit" at
// delay+runTime for every object without a transform reference; one
// "keyframe" per (object, keyframe) pair, after deduplication keyed on
// (time, property) where the last keyframe in list order wins.
func Schedule(objs []domain.SceneObject) []Batch {
	batches := map[float64]*Batch{}
	at := func(t float64) *Batch {
		b, ok := batches[t]
		if !ok {
			b = &Batch{Time: t}
			batches[t] = b
		}
		return b
	}

	// Morph sources are hidden by the morph itself; scheduling their exit on
	// top of that would address the surviving variable.
	replacedAt := map[string]float64{}
	for _, o := range objs {
		if o.TransformFromID == "" {
			continue
		}
		if prev, ok := replacedAt[o.TransformFromID]; !ok || o.Delay < prev {
			replacedAt[o.TransformFromID] = o.Delay
		}
	}

	for _, o := range objs {
		if o.TransformFromID != "" {
			b := at(o.Delay)
			b.Transforms = append(b.Transforms, o.ID)
		} else {
			b := at(o.Delay)
			b.Creations = append(b.Creations, o.ID)
			exitAt := o.Delay + o.RunTime
			if rep, ok := replacedAt[o.ID]; !ok || rep > exitAt {
				eb := at(exitAt)
				eb.Exits = append(eb.Exits, o.ID)
			}
		}

		for _, kf := range dedupKeyframes(o.Keyframes) {
			if !editApplies(o, objs, kf.Time) {
				continue
			}
			b := at(kf.Time)
			b.Edits = append(b.Edits, Edit{ObjectID: o.ID, Property: kf.Property, Value: kf.Value})
		}
	}

	times := make([]float64, 0, len(batches))
	for t := range batches {
		times = append(times, t)
	}
	sort.Float64s(times)

	out := make([]Batch, 0, len(times))
	for _, t := range times {
		out = append(out, *batches[t])
	}
	return out
}

// dedupKeyframes resolves same-timestamp conflicts on one object: keyed on
// (time, property), the last write in list order wins. Relative order of the
// surviving keyframes is preserved.
func dedupKeyframes(kfs []domain.Keyframe) []domain.Keyframe {
	if len(kfs) < 2 {
		return kfs
	}
	type key struct {
		t    float64
		prop string
	}
	last := map[key]int{}
	for i, kf := range kfs {
		last[key{kf.Time, kf.Property}] = i
	}
	out := make([]domain.Keyframe, 0, len(last))
	for i, kf := range kfs {
		if last[key{kf.Time, kf.Property}] == i {
			out = append(out, kf)
		}
	}
	return out
}

// editApplies reports whether the object is still addressable at time t: the
// same visibility rules the scrubber uses, so an edit never targets an object
// that has already exited or been replaced.
func editApplies(o domain.SceneObject, objs []domain.SceneObject, t float64) bool {
	for _, a := range ActiveObjects(objs, t) {
		if a.ID == o.ID {
			return true
		}
	}
	return false
}
