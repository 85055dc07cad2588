/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"os"
	"path/filepath"
	"testing"

	gojsonschema "github.com/xeipuuv/gojsonschema"
	"motionforge/internal/domain"
)

func TestManifestConformsToSchema(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, schemaTestProject())
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}

	data, err := os.ReadFile(ph.ManifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}

	// Load schema bytes via relative path to repository docs
	schemaPath := filepath.Join("..", "..", "docs", "scene.schema.json")
	schemaBytes, err := os.ReadFile(schemaPath)
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		t.Fatalf("schema validate error: %v", err)
	}
	if !result.Valid() {
		for _, e := range result.Errors() {
			t.Logf("schema error: %s", e)
		}
		t.Fatalf("manifest does not conform to schema")
	}
}

// schemaTestProject exercises every object family the schema describes.
func schemaTestProject() domain.Project {
	return domain.Project{
		Version: domain.CurrentVersion,
		Scenes: []domain.Scene{{
			ID:       "scene-1",
			Name:     "Schema Test",
			Duration: 8,
			Objects: []domain.SceneObject{
				{ID: "r1", Type: domain.TypeRectangle, Width: 2, Height: 1, FillColor: "#fc6255", Opacity: 1, RunTime: 1},
				{ID: "ax", Type: domain.TypeAxes, XMin: -5, XMax: 5, XStep: 1, YMin: -3, YMax: 3, YStep: 1, Labels: true, Opacity: 1, RunTime: 1},
				{ID: "g", Type: domain.TypeGraph, AxesID: "ax", Formula: "x^2", Opacity: 1, RunTime: 1, Delay: 1},
				{ID: "cur", Type: domain.TypeCursor, GraphID: "g", X0: 2, Opacity: 1, RunTime: 1, Delay: 2},
				{ID: "t1", Type: domain.TypeText, Text: "hello", FontSize: 36, Opacity: 1, RunTime: 1,
					Keyframes: []domain.Keyframe{{Time: 3, Property: "opacity", Value: 0.5}}},
				{ID: "r2", Type: domain.TypeRectangle, Width: 1, Height: 1, Opacity: 1, RunTime: 1, Delay: 4,
					TransformFromID: "r1", TransformType: "ReplacementTransform"},
			},
		}},
	}
}
