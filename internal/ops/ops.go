/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package ops applies small patch operations to a project. Operations come
// from unreliable producers (agent responses, reverse-parsed scripts), so
// malformed ones are skipped with a warning instead of failing the batch, and
// the patched project is always re-validated before it is returned.
package ops

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"motionforge/internal/domain"
)

// Operation names.
const (
	OpAddObject        = "add_object"
	OpUpdateObject     = "update_object"
	OpDeleteObject     = "delete_object"
	OpAddKeyframe      = "add_keyframe"
	OpSetSceneDuration = "set_scene_duration"
	OpRenameScene      = "rename_scene"
	OpAddScene         = "add_scene"
	OpDeleteScene      = "delete_scene"
)

// Operation is one patch primitive. Fields beyond Op are used per
// operation type; unused ones stay zero.
type Operation struct {
	Op       string           `json:"op"`
	SceneID  string           `json:"sceneId,omitempty"`
	ObjectID string           `json:"objectId,omitempty"`
	Object   map[string]any   `json:"object,omitempty"`
	Props    map[string]any   `json:"props,omitempty"`
	Keyframe *domain.Keyframe `json:"keyframe,omitempty"`
	Duration float64          `json:"duration,omitempty"`
	Name     string           `json:"name,omitempty"`
}

// Result is a patched project plus the per-operation warnings collected while
// applying.
type Result struct {
	Project  domain.Project
	Warnings []string
}

// Apply patches a clone of the project with the given operations in order.
// Unknown or underspecified operations are skipped and recorded. The returned
// project has been re-run through the validator, so it is structurally sound
// regardless of what the operations contained.
func Apply(p domain.Project, operations []Operation, defaultSceneID string) Result {
	res := Result{Project: clone(domain.Validate(p))}

	for i, op := range operations {
		warn := res.apply(op, defaultSceneID)
		if warn != "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("op %d (%s): %s", i, op.Op, warn))
		}
	}

	res.Project = domain.Validate(res.Project)
	return res
}

func (res *Result) apply(op Operation, defaultSceneID string) string {
	switch op.Op {
	case OpAddObject:
		return res.addObject(op, defaultSceneID)
	case OpUpdateObject:
		return res.updateObject(op, defaultSceneID)
	case OpDeleteObject:
		return res.deleteObject(op, defaultSceneID)
	case OpAddKeyframe:
		return res.addKeyframe(op, defaultSceneID)
	case OpSetSceneDuration:
		sc := res.scene(op.SceneID, defaultSceneID)
		if sc == nil {
			return "scene not found"
		}
		if op.Duration <= 0 {
			return "duration must be positive"
		}
		sc.Duration = op.Duration
		return ""
	case OpRenameScene:
		sc := res.scene(op.SceneID, defaultSceneID)
		if sc == nil {
			return "scene not found"
		}
		if op.Name == "" {
			return "missing name"
		}
		sc.Name = op.Name
		return ""
	case OpAddScene:
		name := op.Name
		if name == "" {
			name = fmt.Sprintf("Scene %d", len(res.Project.Scenes)+1)
		}
		res.Project.Scenes = append(res.Project.Scenes, domain.Scene{
			ID:       "scene-" + uuid.NewString(),
			Name:     name,
			Duration: domain.DefaultDuration,
			Objects:  []domain.SceneObject{},
		})
		return ""
	case OpDeleteScene:
		if op.SceneID == "" {
			return "missing sceneId"
		}
		for i, sc := range res.Project.Scenes {
			if sc.ID == op.SceneID {
				res.Project.Scenes = append(res.Project.Scenes[:i], res.Project.Scenes[i+1:]...)
				return ""
			}
		}
		return "scene not found"
	}
	return "unknown operation"
}

func (res *Result) addObject(op Operation, defaultSceneID string) string {
	sc := res.scene(op.SceneID, defaultSceneID)
	if sc == nil {
		return "scene not found"
	}
	if op.Object == nil {
		return "missing object"
	}
	props := normalizeProps(op.Object)
	typ, _ := props["type"].(string)
	if !domain.KnownType(typ) {
		return fmt.Sprintf("unknown object type %q", typ)
	}
	FillDefaults(props, typ)
	if _, ok := props["id"].(string); !ok || props["id"] == "" {
		props["id"] = uuid.NewString()
	}
	obj, err := toObject(props)
	if err != nil {
		return err.Error()
	}
	sc.Objects = append(sc.Objects, obj)
	return ""
}

func (res *Result) updateObject(op Operation, defaultSceneID string) string {
	sc := res.scene(op.SceneID, defaultSceneID)
	if sc == nil {
		return "scene not found"
	}
	if op.ObjectID == "" {
		return "missing objectId"
	}
	if len(op.Props) == 0 {
		return "missing props"
	}
	for i := range sc.Objects {
		if sc.Objects[i].ID != op.ObjectID {
			continue
		}
		cur, err := toMap(sc.Objects[i])
		if err != nil {
			return err.Error()
		}
		for k, v := range normalizeProps(op.Props) {
			if k == "id" || k == "type" {
				continue // identity is not patchable
			}
			cur[k] = v
		}
		obj, err := toObject(cur)
		if err != nil {
			return err.Error()
		}
		sc.Objects[i] = obj
		return ""
	}
	return "object not found"
}

func (res *Result) deleteObject(op Operation, defaultSceneID string) string {
	sc := res.scene(op.SceneID, defaultSceneID)
	if sc == nil {
		return "scene not found"
	}
	for i, o := range sc.Objects {
		if o.ID == op.ObjectID {
			sc.Objects = append(sc.Objects[:i], sc.Objects[i+1:]...)
			return ""
		}
	}
	return "object not found"
}

func (res *Result) addKeyframe(op Operation, defaultSceneID string) string {
	sc := res.scene(op.SceneID, defaultSceneID)
	if sc == nil {
		return "scene not found"
	}
	if op.Keyframe == nil {
		return "missing keyframe"
	}
	o := sc.ObjectByID(op.ObjectID)
	if o == nil {
		return "object not found"
	}
	o.Keyframes = append(o.Keyframes, *op.Keyframe)
	return ""
}

// scene resolves the operation's target scene, falling back to the default
// and then to the first scene.
func (res *Result) scene(id, def string) *domain.Scene {
	if id == "" {
		id = def
	}
	if sc := res.Project.SceneByID(id); sc != nil {
		return sc
	}
	if id == "" && len(res.Project.Scenes) > 0 {
		return &res.Project.Scenes[0]
	}
	return nil
}

// clone deep-copies a project through its JSON form, so patching never
// mutates the caller's copy.
func clone(p domain.Project) domain.Project {
	raw, err := json.Marshal(p)
	if err != nil {
		return p
	}
	var out domain.Project
	if err := json.Unmarshal(raw, &out); err != nil {
		return p
	}
	return out
}

func toObject(props map[string]any) (domain.SceneObject, error) {
	raw, err := json.Marshal(props)
	if err != nil {
		return domain.SceneObject{}, fmt.Errorf("encode object: %w", err)
	}
	var obj domain.SceneObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return domain.SceneObject{}, fmt.Errorf("decode object: %w", err)
	}
	return obj, nil
}

func toMap(obj domain.SceneObject) (map[string]any, error) {
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("encode object: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	return m, nil
}
