// Copyright 2022 The Tegula Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package match decides at compile time whether the arms of a pattern
// match cover every value the scrutinee can hold, and if not, which
// values are missing.
//
// A front end describes the scrutinee's type as a value space built
// through a space.Context, hands over one Arm per match arm, and turns
// the resulting Verdict into its own diagnostics. The decision
// procedure generalizes the usefulness algorithm of Maranget ("Warnings
// for pattern matching", JFP 2007) from algebraic data types to a value
// space model with open sums, opaque domains, guard exclusion, and an
// equality-gated treatment of whole-value literals.
//
// A Verdict is deterministic in its input: the same space and arms
// produce the same verdict with the same witnesses, and permuting arms
// never changes whether the match is judged exhaustive. Checks on
// distinct Contexts are independent and may run concurrently.
package match

import (
	"sort"

	"github.com/mpvl/unique"

	"tegula.dev/go/internal/core/cover"
	"tegula.dev/go/match/pattern"
	"tegula.dev/go/match/space"
)

// DefaultMaxWitnesses caps the witnesses of a non-exhaustive verdict
// when the Profile does not say otherwise.
const DefaultMaxWitnesses = 8

// An Arm is one match arm as handed over by a front end: its pattern,
// and whether its match is additionally conditional on a guard
// expression. A guarded arm still matches at runtime but never counts
// toward coverage, since the checker cannot reason about the guard.
type Arm struct {
	Pattern pattern.Node
	Guarded bool
}

// A Profile configures checking. The zero Profile, and a nil one, use
// the defaults.
type Profile struct {
	// MaxWitnesses caps the number of witnesses reported for a
	// non-exhaustive match. Values under one select
	// DefaultMaxWitnesses. The cap truncates deterministically: it
	// never changes a verdict, only how many witnesses accompany it.
	MaxWitnesses int
}

func (p *Profile) limit() int {
	if p == nil || p.MaxWitnesses < 1 {
		return DefaultMaxWitnesses
	}
	return p.MaxWitnesses
}

// A Verdict reports whether a match is exhaustive.
type Verdict struct {
	Exhaustive bool

	// Witnesses describes values no arm covers, in the canonical case
	// order of the space: at most the configured cap, at least one when
	// not exhaustive, none otherwise.
	Witnesses []*space.Value
}

// Missing returns the witness renderings sorted and deduplicated, ready
// for inclusion in a diagnostic.
func (v Verdict) Missing() []string {
	if len(v.Witnesses) == 0 {
		return nil
	}
	a := make([]string, len(v.Witnesses))
	for i, w := range v.Witnesses {
		a[i] = w.String()
	}
	sort.Strings(a)
	unique.Strings(&a)
	return a
}

// Check decides coverage of s by arms with the default Profile.
func Check(c *space.Context, s space.Space, arms []Arm) Verdict {
	return (*Profile)(nil).Check(c, s, arms)
}

// Check compiles the arms against s and decides coverage. It panics on
// malformed input, as documented on pattern.Compile.
func (p *Profile) Check(c *space.Context, s space.Space, arms []Arm) Verdict {
	rows := make([]*pattern.Row, len(arms))
	for i, a := range arms {
		rows[i] = pattern.Compile(c, s, i, a.Pattern, a.Guarded)
	}
	return p.CheckRows(c, s, rows)
}

// CheckRows decides coverage of s by rows compiled earlier in the same
// Context.
func (p *Profile) CheckRows(c *space.Context, s space.Space, rows []*pattern.Row) Verdict {
	ws := cover.Uncovered(c, s, rows, p.limit())
	return Verdict{Exhaustive: len(ws) == 0, Witnesses: ws}
}
