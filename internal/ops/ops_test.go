/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package ops

import (
	"testing"

	"motionforge/internal/domain"
)

func base() domain.Project {
	return domain.Project{
		Version: domain.CurrentVersion,
		Scenes: []domain.Scene{{
			ID:   "scene-1",
			Name: "Scene 1",
			Objects: []domain.SceneObject{
				{ID: "c1", Type: domain.TypeCircle, Radius: 1, Opacity: 1, RunTime: 1},
			},
		}},
	}
}

func TestApplyAddObjectDefaults(t *testing.T) {
	res := Apply(base(), []Operation{{
		Op:     OpAddObject,
		Object: map[string]any{"type": "rectangle", "color": "RED"},
	}}, "scene-1")

	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
	sc := res.Project.SceneByID("scene-1")
	if len(sc.Objects) != 2 {
		t.Fatalf("want 2 objects, got %d", len(sc.Objects))
	}
	o := sc.Objects[1]
	if o.ID == "" {
		t.Error("added object has no generated id")
	}
	if o.Width != 2 || o.Height != 1 {
		t.Errorf("rectangle defaults not filled: width=%v height=%v", o.Width, o.Height)
	}
	if o.FillColor != "#fc6255" {
		t.Errorf("color alias not resolved: %q", o.FillColor)
	}
	if o.Opacity != 1 || o.RunTime != 1 || o.Delay != 0 || o.AnimationType != "auto" {
		t.Errorf("timing defaults not filled: %+v", o)
	}
}

func TestApplyUpdateObjectAliases(t *testing.T) {
	res := Apply(base(), []Operation{{
		Op:       OpUpdateObject,
		ObjectID: "c1",
		Props:    map[string]any{"border color": "blue", "z": 3.0, "radius": 2.5},
	}}, "scene-1")

	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
	o := res.Project.SceneByID("scene-1").ObjectByID("c1")
	if o.StrokeColor != "#58c4dd" {
		t.Errorf("border color alias not folded: %q", o.StrokeColor)
	}
	if o.ZOrder != 3 || o.Radius != 2.5 {
		t.Errorf("props not applied: %+v", o)
	}
}

func TestApplyUpdateCannotChangeIdentity(t *testing.T) {
	res := Apply(base(), []Operation{{
		Op:       OpUpdateObject,
		ObjectID: "c1",
		Props:    map[string]any{"id": "evil", "type": "rectangle", "x": 4.0},
	}}, "scene-1")

	o := res.Project.SceneByID("scene-1").ObjectByID("c1")
	if o == nil || o.Type != domain.TypeCircle {
		t.Fatalf("identity changed: %+v", res.Project.Scenes[0].Objects)
	}
	if o.X != 4 {
		t.Errorf("x not applied: %v", o.X)
	}
}

func TestApplyDeleteObjectStripsDanglingTransforms(t *testing.T) {
	p := base()
	p.Scenes[0].Objects = append(p.Scenes[0].Objects, domain.SceneObject{
		ID: "r1", Type: domain.TypeRectangle, Opacity: 1, RunTime: 1,
		TransformFromID: "c1",
	})
	res := Apply(p, []Operation{{Op: OpDeleteObject, ObjectID: "c1"}}, "scene-1")

	sc := res.Project.SceneByID("scene-1")
	if len(sc.Objects) != 1 {
		t.Fatalf("want 1 object, got %d", len(sc.Objects))
	}
	if got := sc.Objects[0].TransformFromID; got != "" {
		t.Errorf("dangling transform reference survived revalidation: %q", got)
	}
}

func TestApplySkipsMalformedOps(t *testing.T) {
	res := Apply(base(), []Operation{
		{Op: "explode"},
		{Op: OpAddObject, Object: map[string]any{"type": "wormhole"}},
		{Op: OpSetSceneDuration, SceneID: "scene-1", Duration: -2},
		{Op: OpAddKeyframe, ObjectID: "missing", Keyframe: &domain.Keyframe{Time: 1, Property: "x", Value: 2}},
	}, "scene-1")

	if len(res.Warnings) != 4 {
		t.Fatalf("want 4 warnings, got %v", res.Warnings)
	}
	if len(res.Project.Scenes[0].Objects) != 1 {
		t.Errorf("malformed ops mutated the scene: %+v", res.Project.Scenes[0].Objects)
	}
}

func TestApplySceneOps(t *testing.T) {
	res := Apply(base(), []Operation{
		{Op: OpAddScene, Name: "Second"},
		{Op: OpRenameScene, SceneID: "scene-1", Name: "First"},
		{Op: OpSetSceneDuration, SceneID: "scene-1", Duration: 12},
	}, "")

	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
	if len(res.Project.Scenes) != 2 {
		t.Fatalf("want 2 scenes, got %d", len(res.Project.Scenes))
	}
	if res.Project.Scenes[0].Name != "First" || res.Project.Scenes[0].Duration != 12 {
		t.Errorf("scene ops not applied: %+v", res.Project.Scenes[0])
	}
	if res.Project.Scenes[1].Name != "Second" {
		t.Errorf("added scene wrong: %+v", res.Project.Scenes[1])
	}
}

func TestApplyDeleteLastSceneReseeds(t *testing.T) {
	res := Apply(base(), []Operation{{Op: OpDeleteScene, SceneID: "scene-1"}}, "")
	if len(res.Project.Scenes) != 1 {
		t.Fatalf("validator should reseed an empty project, got %d scenes", len(res.Project.Scenes))
	}
	if len(res.Project.Scenes[0].Objects) != 0 {
		t.Errorf("reseeded scene not empty: %+v", res.Project.Scenes[0].Objects)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	p := base()
	Apply(p, []Operation{{Op: OpDeleteObject, ObjectID: "c1"}}, "scene-1")
	if len(p.Scenes[0].Objects) != 1 {
		t.Fatal("apply mutated the caller's project")
	}
}

func TestApplyKeyframe(t *testing.T) {
	res := Apply(base(), []Operation{{
		Op: OpAddKeyframe, ObjectID: "c1",
		Keyframe: &domain.Keyframe{Time: 2, Property: "opacity", Value: 0.5},
	}}, "scene-1")
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
	o := res.Project.SceneByID("scene-1").ObjectByID("c1")
	if len(o.Keyframes) != 1 || o.Keyframes[0].Property != "opacity" {
		t.Fatalf("keyframe not added: %+v", o.Keyframes)
	}
}
