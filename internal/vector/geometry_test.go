/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package vector

import (
	"math"
	"testing"
)

func TestQuadToCubicControlPoints(t *testing.T) {
	p0 := P(0, 0)
	q := P(1, 1)
	p2 := P(2, 0)

	c1, c2 := QuadToCubic(p0, q, p2)

	if !close(c1.X, 2.0/3.0) || !close(c1.Y, 2.0/3.0) {
		t.Fatalf("c1 = %+v, want (2/3, 2/3)", c1)
	}
	if !close(c2.X, 4.0/3.0) || !close(c2.Y, 2.0/3.0) {
		t.Fatalf("c2 = %+v, want (4/3, 2/3)", c2)
	}
}

func TestQuadToCubicDegenerate(t *testing.T) {
	// Control point on the chord: the cubic stays on the straight segment.
	c1, c2 := QuadToCubic(P(0, 0), P(1, 0), P(2, 0))
	if c1.Y != 0 || c2.Y != 0 {
		t.Fatalf("expected flat control points, got %+v %+v", c1, c2)
	}
}

func TestPtArithmetic(t *testing.T) {
	p := P(1, 2).Add(P(3, -1)).Sub(P(2, 0)).Scale(2)
	if p.X != 4 || p.Y != 2 {
		t.Fatalf("unexpected point: %+v", p)
	}
	if d := P(0, 0).Dist(P(3, 4)); d != 5 {
		t.Fatalf("dist = %v, want 5", d)
	}
}

func close(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
