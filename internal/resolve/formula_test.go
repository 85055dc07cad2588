/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package resolve

import (
	"math"
	"testing"
)

func TestTranslate(t *testing.T) {
	cases := []struct{ in, want string }{
		{"x^2", "x**2"},
		{"sin(x)", "np.sin(x)"},
		{"2*cos(x) + tan(x)", "2*np.cos(x) + np.tan(x)"},
		{"ln(x) + log(x)", "np.log(x) + np.log(x)"},
		{"sqrt(abs(x))", "np.sqrt(np.abs(x))"},
		{"e^x + pi", "np.e**x + np.pi"},
		{"x^(1/3)", "x**(1/3)"},
		{"foo(x)", "foo(x)"}, // unknown identifiers pass through
	}
	for _, c := range cases {
		if got := Translate(c.in); got != c.want {
			t.Fatalf("Translate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEval(t *testing.T) {
	cases := []struct {
		formula string
		x       float64
		want    float64
	}{
		{"x^2", 2, 4},
		{"x^2", -3, 9},
		{"2*x + 1", 3, 7},
		{"sin(x)", math.Pi / 2, 1},
		{"sqrt(x)", 9, 3},
		{"abs(-x)", 5, 5},
		{"e", 0, math.E},
		{"pi", 0, math.Pi},
		{"-x^2", 2, -4}, // unary minus binds looser than power
		{"2^3^2", 0, 512},
		{"(1+2)*3", 0, 9},
		{"x/2 - 1", 8, 3},
	}
	for _, c := range cases {
		got, err := Eval(c.formula, c.x)
		if err != nil {
			t.Fatalf("Eval(%q, %v): %v", c.formula, c.x, err)
		}
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("Eval(%q, %v) = %v, want %v", c.formula, c.x, got, c.want)
		}
	}
}

func TestEvalErrors(t *testing.T) {
	bad := []string{"", "x +", "foo(x)", "sin", "(x", "x @ 2", "1/0", "sqrt(-1)"}
	for _, f := range bad {
		if v, err := Eval(f, 1); err == nil {
			t.Fatalf("Eval(%q) = %v, want error", f, v)
		}
	}
}

func TestSlopeSymmetricDifference(t *testing.T) {
	m, err := Slope("x^2", 3, DefaultSlopeStep)
	if err != nil {
		t.Fatalf("Slope: %v", err)
	}
	// d/dx x^2 at 3 is 6; symmetric difference on a parabola is exact up to
	// floating point noise.
	if math.Abs(m-6) > 1e-6 {
		t.Fatalf("slope = %v, want 6", m)
	}
}

func TestLimitSamples(t *testing.T) {
	left := LimitSamples("x", 2, nil, "left")
	if len(left) != len(DefaultLimitOffsets) {
		t.Fatalf("left samples = %d, want %d", len(left), len(DefaultLimitOffsets))
	}
	for _, s := range left {
		if s.X >= 2 {
			t.Fatalf("left approach produced x=%v >= 2", s.X)
		}
	}

	right := LimitSamples("x", 2, []float64{0.5}, "right")
	if len(right) != 1 || right[0].X != 2.5 || right[0].Y != 2.5 {
		t.Fatalf("unexpected right samples: %+v", right)
	}

	both := LimitSamples("x^2", 1, []float64{1}, "both")
	if len(both) != 2 || both[0].X != 0 || both[1].X != 2 {
		t.Fatalf("unexpected both samples: %+v", both)
	}
}
