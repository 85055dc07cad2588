/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package resolve

import (
	"regexp"
	"strings"
)

// Formula handling is deliberately lexical. User formulas use conventional
// infix notation with a fixed vocabulary (sin, cos, tan, exp, log/ln, sqrt,
// abs, pi, e, and ^ for exponent); translation substitutes tokens for the
// engine's numeric-library spelling and nothing more. Well-formedness is not
// checked here.

// identTranslations maps user-facing identifiers to the engine's numeric
// namespace. The free variable x passes through untouched.
var identTranslations = map[string]string{
	"sin":  "np.sin",
	"cos":  "np.cos",
	"tan":  "np.tan",
	"exp":  "np.exp",
	"log":  "np.log",
	"ln":   "np.log",
	"sqrt": "np.sqrt",
	"abs":  "np.abs",
	"pi":   "np.pi",
	"e":    "np.e",
}

var identRe = regexp.MustCompile(`[A-Za-z_][A-Za-z_0-9]*`)

// Translate rewrites a user formula into the engine's numeric-expression
// syntax: ^ becomes the power operator and known identifiers gain the numeric
// library prefix. Unknown identifiers are passed through unchanged so the
// emitted script fails visibly in the engine rather than silently here.
func Translate(formula string) string {
	s := identRe.ReplaceAllStringFunc(formula, func(id string) string {
		if t, ok := identTranslations[strings.ToLower(id)]; ok {
			return t
		}
		return id
	})
	return strings.ReplaceAll(s, "^", "**")
}
