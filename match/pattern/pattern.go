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

// Package pattern defines the tree form in which front ends hand over
// match-arm patterns, and compiles it into the normalized rows consumed
// by coverage checking.
//
// A front end owns parsing, name resolution, and the semantics of guard
// expressions. What it passes down is purely structural: one Node tree
// per arm, plus a flag for arms whose match is conditional on a guard.
// Compile validates the tree against the scrutinee's value space and
// normalizes it; malformed trees indicate a front-end bug and panic.
package pattern

import (
	"fmt"
	"strconv"
	"strings"

	"tegula.dev/go/match/space"
)

// A Node is one surface pattern node.
type Node interface {
	node()
}

// Wildcard matches every value without binding it.
type Wildcard struct{}

// Bind matches every value and binds it to a name. For coverage it
// behaves exactly like Wildcard; the name survives only in diagnostics.
type Bind struct {
	Name string
}

// Lit matches values equal to a compile-time constant.
type Lit struct {
	Value space.Const
}

// Destructure matches a product field by field. Its arity must equal
// the product's. The empty form is also the trivial pattern for a unit
// space.
type Destructure struct {
	Elems []Node
}

// Tag tests which alternative of a sum a value holds and, if selected,
// matches the payload against Sub. A nil Sub stands for a wildcard
// payload.
type Tag struct {
	Sel Selector
	Sub Node
}

// Deref matches through one layer of indirection unconditionally. The
// front end guarantees the layer is always traversable, so the node is
// transparent: it contributes exactly as Sub does. The value space of
// the position already describes the referenced value.
type Deref struct {
	Sub Node
}

// Extract applies an extraction that is defined for every value of the
// position. Like Deref it is transparent for coverage.
type Extract struct {
	Sub Node
}

// DerefCond matches through an indirection layer that may be absent at
// runtime. Whether it matches cannot be decided from the value space,
// so the whole arm is excluded from coverage.
type DerefCond struct {
	Sub Node
}

// ExtractCond applies an extraction that may fail at runtime. Like
// DerefCond it excludes the whole arm from coverage.
type ExtractCond struct {
	Sub Node
}

func (*Wildcard) node()    {}
func (*Bind) node()        {}
func (*Lit) node()         {}
func (*Destructure) node() {}
func (*Tag) node()         {}
func (*Deref) node()       {}
func (*Extract) node()     {}
func (*DerefCond) node()   {}
func (*ExtractCond) node() {}

type selKind uint8

const (
	selIndex selKind = 1 + iota
	selName
	selSet
)

// A Selector names which alternatives of a sum a Tag node selects: one
// alternative by name or by declaration index, or a set of indices for
// tests that admit several alternatives at once, such as a type or
// concept test against a common interface.
type Selector struct {
	kind  selKind
	index int
	name  string
	set   []int
}

// ByName selects a single alternative by tag.
func ByName(name string) Selector {
	if name == "" {
		fault("empty alternative name")
	}
	return Selector{kind: selName, name: name}
}

// ByIndex selects a single alternative by declaration index.
func ByIndex(i int) Selector {
	return Selector{kind: selIndex, index: i}
}

// BySet selects every alternative in the given index set.
func BySet(indices ...int) Selector {
	return Selector{kind: selSet, set: append([]int(nil), indices...)}
}

func (s Selector) String() string {
	switch s.kind {
	case selIndex:
		return "#" + strconv.Itoa(s.index)
	case selName:
		return s.name
	case selSet:
		parts := make([]string, len(s.set))
		for i, x := range s.set {
			parts[i] = "#" + strconv.Itoa(x)
		}
		return strings.Join(parts, "|")
	}
	return "?"
}

func fault(format string, args ...interface{}) {
	panic(fmt.Sprintf("pattern: "+format, args...))
}
