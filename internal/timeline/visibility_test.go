/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package timeline

import (
	"testing"

	"motionforge/internal/domain"
)

func ids(objs []domain.SceneObject) map[string]bool {
	m := map[string]bool{}
	for _, o := range objs {
		m[o.ID] = true
	}
	return m
}

func TestActiveObjectsWindow(t *testing.T) {
	objs := []domain.SceneObject{
		{ID: "a", Type: domain.TypeCircle, Delay: 1, RunTime: 2},
	}
	if got := ids(ActiveObjects(objs, 0.5)); got["a"] {
		t.Fatalf("a active before its delay")
	}
	if got := ids(ActiveObjects(objs, 1)); !got["a"] {
		t.Fatalf("a inactive at its delay")
	}
	if got := ids(ActiveObjects(objs, 2.9)); !got["a"] {
		t.Fatalf("a inactive inside its window")
	}
	if got := ids(ActiveObjects(objs, 3)); got["a"] {
		t.Fatalf("a active at delay+runTime")
	}
}

func TestTransformHidesSourcePermanently(t *testing.T) {
	const d = 2.0
	objs := []domain.SceneObject{
		{ID: "b", Type: domain.TypeCircle, Delay: 0, RunTime: 10},
		{ID: "a", Type: domain.TypeRectangle, Delay: d, RunTime: 1, TransformFromID: "b"},
	}

	before := ids(ActiveObjects(objs, d-0.01))
	if !before["b"] || before["a"] {
		t.Fatalf("before trigger: want {b}, got %v", before)
	}

	after := ids(ActiveObjects(objs, d+0.01))
	if after["b"] || !after["a"] {
		t.Fatalf("after trigger: want {a}, got %v", after)
	}

	// Source never reappears, even long after the target's own run time.
	late := ids(ActiveObjects(objs, d+5))
	if late["b"] {
		t.Fatalf("morph source reappeared: %v", late)
	}
	if !late["a"] {
		t.Fatalf("morph target should persist: %v", late)
	}
}

func TestActiveObjectsKeepsListOrder(t *testing.T) {
	objs := []domain.SceneObject{
		{ID: "z", Type: domain.TypeCircle, Delay: 0, RunTime: 5},
		{ID: "a", Type: domain.TypeCircle, Delay: 0, RunTime: 5},
	}
	got := ActiveObjects(objs, 1)
	if len(got) != 2 || got[0].ID != "z" || got[1].ID != "a" {
		t.Fatalf("list order not preserved: %+v", got)
	}
}
