/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package emit

import (
	"strings"
	"testing"

	"motionforge/internal/domain"
	"motionforge/internal/resolve"
	"motionforge/internal/vector"
)

func project(objs ...domain.SceneObject) domain.Project {
	return domain.Project{
		Version: domain.CurrentVersion,
		Scenes: []domain.Scene{{
			ID:      "scene-1",
			Name:    "Test Scene",
			Objects: objs,
		}},
	}
}

func TestEmitEmptyProject(t *testing.T) {
	got := Emit(domain.Project{}, "")
	if !strings.Contains(got, "from manim import *") {
		t.Fatalf("missing import header:\n%s", got)
	}
	if !strings.Contains(got, "class Scene1(Scene):") {
		t.Fatalf("missing scene class:\n%s", got)
	}
	if !strings.Contains(got, "self.wait(1)") {
		t.Fatalf("empty scene should still wait:\n%s", got)
	}
}

func TestEmitDeterministic(t *testing.T) {
	p := project(
		domain.SceneObject{ID: "a", Type: domain.TypeCircle, Radius: 1.5, FillColor: "#fc6255", Delay: 0, RunTime: 1},
		domain.SceneObject{ID: "b", Type: domain.TypeRectangle, Width: 3, Height: 2, Delay: 2, RunTime: 1},
	)
	first := Emit(p, "scene-1")
	second := Emit(p, "scene-1")
	if first != second {
		t.Fatal("emit output not byte-identical across runs")
	}
}

func TestEmitCircle(t *testing.T) {
	p := project(domain.SceneObject{
		ID: "c1", Type: domain.TypeCircle, Radius: 2,
		FillColor: "#fc6255", Opacity: 0.8, X: 1, Y: -1,
	})
	got := Emit(p, "scene-1")
	for _, want := range []string{
		"obj_0 = Circle(radius=2)",
		"obj_0.set_fill(RED, opacity=0.8)",
		"obj_0.move_to([1, -1, 0])",
		"self.play(Create(obj_0)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestEmitUnfilledShapeKeepsOpacity(t *testing.T) {
	p := project(domain.SceneObject{
		ID: "c1", Type: domain.TypeCircle, Radius: 2, Opacity: 0.3,
	})
	got := Emit(p, "scene-1")
	if !strings.Contains(got, "obj_0.set_opacity(0.3)") {
		t.Fatalf("opacity lost without a fill color:\n%s", got)
	}
	if strings.Contains(got, "set_fill(") {
		t.Fatalf("unexpected fill for colorless shape:\n%s", got)
	}
}

func TestEmitSameDelaySingleCall(t *testing.T) {
	p := project(
		domain.SceneObject{ID: "a", Type: domain.TypeCircle, Delay: 1},
		domain.SceneObject{ID: "b", Type: domain.TypeDot, Delay: 1},
	)
	got := Emit(p, "scene-1")
	if !strings.Contains(got, "self.play(Create(obj_0), FadeIn(obj_1), run_time=1)") {
		t.Fatalf("same-delay entrances must share one play call:\n%s", got)
	}
	if !strings.Contains(got, "self.wait(1)") {
		t.Fatalf("missing leading wait for delay 1:\n%s", got)
	}
}

func TestEmitCursorCoordinateMapping(t *testing.T) {
	p := project(
		domain.SceneObject{ID: "ax", Type: domain.TypeAxes},
		domain.SceneObject{ID: "g", Type: domain.TypeGraph, AxesID: "ax", Formula: "x^2"},
		domain.SceneObject{ID: "cur", Type: domain.TypeCursor, GraphID: "g", X0: 2},
	)
	got := Emit(p, "scene-1")
	if !strings.Contains(got, ".plot(lambda x: x**2") {
		t.Fatalf("graph formula not translated:\n%s", got)
	}
	if !strings.Contains(got, ".c2p(2, 4)") {
		t.Fatalf("cursor not placed at evaluated graph point:\n%s", got)
	}
}

func TestEmitTangentLineThroughPoint(t *testing.T) {
	p := project(
		domain.SceneObject{ID: "ax", Type: domain.TypeAxes},
		domain.SceneObject{ID: "g", Type: domain.TypeGraph, AxesID: "ax", Formula: "x^2"},
		domain.SceneObject{ID: "t", Type: domain.TypeTangent, GraphID: "g", X0: 1, Length: 2},
	)
	got := Emit(p, "scene-1")
	m, err := resolve.Slope("x^2", 1, resolve.DefaultSlopeStep)
	if err != nil {
		t.Fatal(err)
	}
	// half-length 1 around (1, 1)
	lo := ".c2p(" + num(0) + ", " + num(1-m) + ")"
	hi := ".c2p(" + num(2) + ", " + num(1+m) + ")"
	if !strings.Contains(got, lo) || !strings.Contains(got, hi) {
		t.Fatalf("tangent endpoints wrong, want %s and %s in:\n%s", lo, hi, got)
	}
}

func TestEmitArcQuadraticToCubic(t *testing.T) {
	p := project(domain.SceneObject{
		ID: "a", Type: domain.TypeArc,
		X: 0, Y: 0, CtrlX: 1, CtrlY: 1, X2: 2, Y2: 0,
	})
	got := Emit(p, "scene-1")
	c1, c2 := vector.QuadToCubic(vector.P(0, 0), vector.P(1, 1), vector.P(2, 0))
	want := "CubicBezier([0, 0, 0], " + point(c1.X, c1.Y) + ", " + point(c2.X, c2.Y) + ", [2, 0, 0])"
	if !strings.Contains(got, want) {
		t.Fatalf("quadratic arc not converted to cubic, want %s in:\n%s", want, got)
	}
}

func TestEmitReplacementTransform(t *testing.T) {
	p := project(
		domain.SceneObject{ID: "src", Type: domain.TypeCircle, Delay: 0, RunTime: 5},
		domain.SceneObject{ID: "dst", Type: domain.TypeRectangle, Delay: 2,
			TransformFromID: "src", TransformType: "ReplacementTransform"},
	)
	got := Emit(p, "scene-1")
	if !strings.Contains(got, "target_1 = Rectangle(") {
		t.Fatalf("transform target variable not prefixed:\n%s", got)
	}
	if !strings.Contains(got, "ReplacementTransform(obj_0, target_1)") {
		t.Fatalf("missing replacement transform:\n%s", got)
	}
	if strings.Contains(got, "FadeOut(obj_0") {
		t.Fatalf("replaced source must not get an exit:\n%s", got)
	}
}

func TestEmitMixedBatchSeparateRunTimes(t *testing.T) {
	// A creation sharing a timestamp with a long transform keeps its own
	// duration: each call group takes the max over its own members only.
	p := project(
		domain.SceneObject{ID: "src", Type: domain.TypeCircle, Delay: 0, RunTime: 12},
		domain.SceneObject{ID: "dst", Type: domain.TypeRectangle, Delay: 2, RunTime: 10,
			TransformFromID: "src", TransformType: "ReplacementTransform"},
		domain.SceneObject{ID: "pt", Type: domain.TypeDot, Delay: 2, RunTime: 1},
	)
	got := Emit(p, "scene-1")
	if !strings.Contains(got, "self.play(FadeIn(obj_2), run_time=1)") {
		t.Fatalf("creation call must not inherit the transform's duration:\n%s", got)
	}
	if !strings.Contains(got, "self.play(ReplacementTransform(obj_0, target_1), run_time=10)") {
		t.Fatalf("transform call must keep its own duration:\n%s", got)
	}
}

func TestEmitExitAndFinalWait(t *testing.T) {
	p := project(domain.SceneObject{
		ID: "a", Type: domain.TypeText, Text: "hi",
		Delay: 0, RunTime: 1, ExitAnimationType: "fade out",
	})
	got := Emit(p, "scene-1")
	if !strings.Contains(got, "self.play(Write(obj_0)") {
		t.Fatalf("text should enter with Write:\n%s", got)
	}
	if !strings.Contains(got, "self.play(FadeOut(obj_0), run_time=1)") {
		t.Fatalf("missing exit animation:\n%s", got)
	}
	if !strings.HasSuffix(strings.TrimRight(got, "\n"), "self.wait(1)") {
		t.Fatalf("script must end with a final wait:\n%s", got)
	}
}

func TestEmitKeyframeEdit(t *testing.T) {
	p := project(domain.SceneObject{
		ID: "a", Type: domain.TypeCircle, Delay: 0, RunTime: 5,
		Keyframes: []domain.Keyframe{{Time: 2, Property: "opacity", Value: 0.3}},
	})
	got := Emit(p, "scene-1")
	if !strings.Contains(got, "obj_0.animate.set_opacity(0.3)") {
		t.Fatalf("missing keyframe edit:\n%s", got)
	}
}

func TestSceneClassName(t *testing.T) {
	cases := map[string]string{
		"Test Scene":      "TestScene",
		"scene 1":         "Scene1",
		"9 lives":         "Scene9Lives",
		"":                "Scene",
		"über-fun scene!": "ÜberFunScene",
	}
	for in, want := range cases {
		if got := SceneClassName(in); got != want {
			t.Errorf("SceneClassName(%q) = %q, want %q", in, got, want)
		}
	}
}
