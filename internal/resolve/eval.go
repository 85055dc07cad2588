/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package resolve

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Eval evaluates a user formula at a given x. It covers exactly the restricted
// grammar Translate accepts: + - * / ^, parentheses, unary minus, numbers, the
// constants pi and e, the variable x, and single-argument calls of the fixed
// function vocabulary. Anything else is an error; callers omit the affected
// feature rather than guess (translation ambiguity policy).
//
// The host-side evaluator exists so that cursor, tangent, limit-probe and
// value-label objects can be placed at concrete graph coordinates while the
// emitted script still goes through the axes' coordinate mapping.
func Eval(formula string, x float64) (float64, error) {
	p := &evalParser{src: formula, x: x}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return 0, fmt.Errorf("formula %q: trailing input at offset %d", formula, p.pos)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("formula %q: not finite at x=%v", formula, x)
	}
	return v, nil
}

var evalFuncs = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"exp":  math.Exp,
	"log":  math.Log,
	"ln":   math.Log,
	"sqrt": math.Sqrt,
	"abs":  math.Abs,
}

type evalParser struct {
	src string
	pos int
	x   float64
}

func (p *evalParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *evalParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// expr := term (('+'|'-') term)*
func (p *evalParser) expr() (float64, error) {
	v, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			w, err := p.term()
			if err != nil {
				return 0, err
			}
			v += w
		case '-':
			p.pos++
			w, err := p.term()
			if err != nil {
				return 0, err
			}
			v -= w
		default:
			return v, nil
		}
	}
}

// term := factor (('*'|'/') factor)*
func (p *evalParser) term() (float64, error) {
	v, err := p.factor()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			w, err := p.factor()
			if err != nil {
				return 0, err
			}
			v *= w
		case '/':
			p.pos++
			w, err := p.factor()
			if err != nil {
				return 0, err
			}
			v /= w
		default:
			return v, nil
		}
	}
}

// factor := ('-'|'+') factor | power
// Unary minus binds looser than the power operator, so -x^2 is -(x^2).
func (p *evalParser) factor() (float64, error) {
	if p.peek() == '-' {
		p.pos++
		v, err := p.factor()
		return -v, err
	}
	if p.peek() == '+' {
		p.pos++
		return p.factor()
	}
	return p.power()
}

// power := primary ('^' factor)?   (right-associative)
func (p *evalParser) power() (float64, error) {
	v, err := p.primary()
	if err != nil {
		return 0, err
	}
	if p.peek() == '^' {
		p.pos++
		w, err := p.factor()
		if err != nil {
			return 0, err
		}
		return math.Pow(v, w), nil
	}
	return v, nil
}

func (p *evalParser) primary() (float64, error) {
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("formula %q: missing ')'", p.src)
		}
		p.pos++
		return v, nil
	case c >= '0' && c <= '9' || c == '.':
		return p.number()
	case isIdentByte(c):
		return p.identifier()
	default:
		return 0, fmt.Errorf("formula %q: unexpected character %q at offset %d", p.src, c, p.pos)
	}
}

func (p *evalParser) number() (float64, error) {
	start := p.pos
	for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '.') {
		p.pos++
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("formula %q: bad number %q", p.src, p.src[start:p.pos])
	}
	return v, nil
}

func (p *evalParser) identifier() (float64, error) {
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	name := strings.ToLower(p.src[start:p.pos])
	switch name {
	case "x":
		return p.x, nil
	case "pi":
		return math.Pi, nil
	case "e":
		return math.E, nil
	}
	fn, ok := evalFuncs[name]
	if !ok {
		return 0, fmt.Errorf("formula %q: unknown identifier %q", p.src, name)
	}
	if p.peek() != '(' {
		return 0, fmt.Errorf("formula %q: %s requires an argument", p.src, name)
	}
	p.pos++
	arg, err := p.expr()
	if err != nil {
		return 0, err
	}
	if p.peek() != ')' {
		return 0, fmt.Errorf("formula %q: missing ')' after %s", p.src, name)
	}
	p.pos++
	return fn(arg), nil
}

func isIdentByte(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c))
}
