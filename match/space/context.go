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

package space

import (
	"fmt"
	"log"
	"strings"
)

// A Context owns a family of Spaces and the bookkeeping shared by the
// operations over them: identifier allocation, the structural-equality
// memo, trace logging, and statistics.
//
// A Context is not safe for concurrent use. Checks that must run in
// parallel should each build their spaces in their own Context.
type Context struct {
	// LogCover enables trace logging of coverage computations when set
	// to a nonzero level.
	LogCover int

	// Stats accumulates counters across all operations on the context.
	Stats Stats

	nest   int
	nextID uint32

	unit    *Unit
	boolean *Bool
	scalar  *Scalar
	opaque  *Opaque

	eqMemo map[*Product]int8
}

// New returns an empty Context.
func New() *Context {
	return &Context{}
}

// NextID allocates a fresh identifier that is unique within the context.
// Spaces and compiled pattern nodes draw from the same sequence so that
// memo keys built from mixed identifiers cannot collide.
func (c *Context) NextID() uint32 {
	c.nextID++
	return c.nextID
}

// Unit returns the one-valued space of the context.
func (c *Context) Unit() *Unit {
	if c.unit == nil {
		c.unit = &Unit{id: c.NextID()}
	}
	return c.unit
}

// Bool returns the two-valued space of the context.
func (c *Context) Bool() *Bool {
	if c.boolean == nil {
		c.boolean = &Bool{id: c.NextID()}
	}
	return c.boolean
}

// Scalar returns the unenumerable scalar space of the context. All scalar
// domains behave identically for coverage, so a single space suffices.
func (c *Context) Scalar() *Scalar {
	if c.scalar == nil {
		c.scalar = &Scalar{id: c.NextID()}
	}
	return c.scalar
}

// Opaque returns the structureless space of the context.
func (c *Context) Opaque() *Opaque {
	if c.opaque == nil {
		c.opaque = &Opaque{id: c.NextID()}
	}
	return c.opaque
}

// Enum returns a new enum space with the given tags in declaration order.
// The tag set must be nonempty and free of duplicates.
func (c *Context) Enum(tags ...string) *Enum {
	if len(tags) == 0 {
		fault("enum with no tags")
	}
	for i, t := range tags {
		if t == "" {
			fault("empty enum tag")
		}
		for j := 0; j < i; j++ {
			if tags[j] == t {
				fault("duplicate enum tag %q", t)
			}
		}
	}
	return &Enum{id: c.NextID(), tags: append([]string(nil), tags...)}
}

// Product returns a new sealed product space with the given equality
// semantics and field subspaces.
func (c *Context) Product(eq Equality, fields ...Space) *Product {
	p := c.NewProduct(eq, len(fields))
	for i, f := range fields {
		p.SetField(i, f)
	}
	p.Seal()
	return p
}

// NewProduct returns an unsealed product of the given arity. Fields are
// filled in with SetField and the product completed with Seal. This form
// allows a product to refer to itself through one of its fields.
func (c *Context) NewProduct(eq Equality, arity int) *Product {
	if arity < 0 {
		fault("negative product arity %d", arity)
	}
	return &Product{id: c.NextID(), eq: eq, fields: make([]Space, arity)}
}

// Sum returns a new sealed closed sum with the given alternatives in
// declaration order. At least one alternative is required: a closed sum
// with no alternatives has no values and cannot be matched against.
func (c *Context) Sum(alts ...Alt) *Sum {
	if len(alts) == 0 {
		fault("closed sum with no alternatives")
	}
	s := c.NewSum(len(alts))
	for i, a := range alts {
		s.SetAlt(i, a.Tag, a.Payload)
	}
	s.Seal()
	return s
}

// OpenSum returns a new sealed open sum. The alternatives are the ones
// known at the match site; unknown alternatives may exist at runtime, so
// only a catch-all pattern can complete coverage. The known set may be
// empty.
func (c *Context) OpenSum(alts ...Alt) *Sum {
	s := c.NewOpenSum(len(alts))
	for i, a := range alts {
		s.SetAlt(i, a.Tag, a.Payload)
	}
	s.Seal()
	return s
}

// NewSum returns an unsealed closed sum of the given arity for two-phase
// construction of self-referential unions.
func (c *Context) NewSum(arity int) *Sum {
	if arity < 1 {
		fault("closed sum with no alternatives")
	}
	return &Sum{
		id:     c.NextID(),
		closed: true,
		tags:   make([]string, arity),
		subs:   make([]Space, arity),
	}
}

// NewOpenSum returns an unsealed open sum of the given arity.
func (c *Context) NewOpenSum(arity int) *Sum {
	if arity < 0 {
		fault("negative sum arity %d", arity)
	}
	return &Sum{
		id:   c.NextID(),
		tags: make([]string, arity),
		subs: make([]Space, arity),
	}
}

// Nullable returns the closed sum {null: (), some: payload}, the shape
// front ends use for optional and nullable types.
func (c *Context) Nullable(payload Space) *Sum {
	return c.Sum(Alt{"null", c.Unit()}, Alt{"some", payload})
}

// Logf prints a trace line when LogCover is nonzero. Nesting recorded
// with Indent is shown as leading dots.
func (c *Context) Logf(format string, args ...interface{}) {
	if c.LogCover == 0 {
		return
	}
	s := fmt.Sprintf(strings.Repeat("..", c.nest)+format, args...)
	_ = log.Output(2, s)
}

// Indent increases the nesting level shown by Logf and returns a
// function that restores the previous level.
func (c *Context) Indent() func() {
	c.nest++
	return func() { c.nest-- }
}

// Assertf panics with a formatted message if b is false. It guards
// internal invariants; a failure indicates a bug in the caller or in
// this package, never a property of the matched program.
func (c *Context) Assertf(b bool, format string, args ...interface{}) {
	if !b {
		panic(fmt.Sprintf("invariant violation: "+format, args...))
	}
}

// Stats records counters of the work performed by a Context.
type Stats struct {
	// Splits counts case specializations of a pattern matrix.
	Splits int

	// MemoHits counts coverage subproblems answered from the memo table.
	MemoHits int

	// Witnesses counts witness tuples constructed, including ones later
	// discarded by the result cap.
	Witnesses int
}

func (s Stats) String() string {
	return fmt.Sprintf("splits: %d, memo hits: %d, witnesses: %d",
		s.Splits, s.MemoHits, s.Witnesses)
}
