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

// Package space defines the value-space model over which pattern coverage
// is decided.
//
// A Space describes the set of abstract values a matched position may hold,
// independent of any source-language type system. Front ends translate their
// types into Spaces: a type with exactly one value becomes Unit, two-valued
// types become Bool, finite tag sets become Enum, fixed-arity aggregates
// become Product, tagged unions become Sum, and anything whose values cannot
// be enumerated at compile time collapses to Scalar or Opaque.
//
// Spaces are created through a Context and are immutable once sealed. They
// may be self-referential: a list node whose payload refers back to the list
// Sum is built with the two-phase NewSum/SetAlt constructors.
package space

import "fmt"

// Kind reports the shape of a Space.
type Kind uint8

const (
	// UnitKind is a space holding exactly one abstract value.
	UnitKind Kind = 1 + iota

	// BoolKind is a space holding exactly the values false and true.
	BoolKind

	// ScalarKind is a scalar domain too large to enumerate, such as
	// integers or strings. Its residual coverage is tracked with a single
	// symbolic value.
	ScalarKind

	// EnumKind is a declared finite set of tags without payloads.
	EnumKind

	// ProductKind is a fixed-arity sequence of field subspaces.
	ProductKind

	// SumKind is a tagged union of alternatives, each carrying a payload
	// subspace. A Sum is either closed (the declared alternatives are all
	// there are) or open (unknown alternatives may exist at runtime).
	SumKind

	// OpaqueKind is a space about which nothing is known. Only a catch-all
	// pattern can cover it.
	OpaqueKind
)

func (k Kind) String() string {
	switch k {
	case UnitKind:
		return "unit"
	case BoolKind:
		return "bool"
	case ScalarKind:
		return "scalar"
	case EnumKind:
		return "enum"
	case ProductKind:
		return "product"
	case SumKind:
		return "sum"
	case OpaqueKind:
		return "opaque"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Equality declares how values of a Product compare.
type Equality uint8

const (
	// DerivedEq compares products field by field.
	DerivedEq Equality = iota

	// CustomEq marks a user-defined comparison whose behavior the checker
	// cannot rely on. Whole-value literal patterns over such products are
	// never credited with coverage.
	CustomEq
)

func (e Equality) String() string {
	if e == CustomEq {
		return "custom"
	}
	return "derived"
}

// A Space describes the abstract values of one matched position.
//
// Implementations are created through a Context and must not be constructed
// directly.
type Space interface {
	// Kind reports the shape of the space.
	Kind() Kind

	// ID returns an identifier that is unique within the owning Context.
	// It is stable across calls and is used to key memo tables.
	ID() uint32

	spaceNode()
}

// Unit is the one-valued space.
type Unit struct {
	id uint32
}

func (x *Unit) Kind() Kind { return UnitKind }
func (x *Unit) ID() uint32 { return x.id }
func (x *Unit) spaceNode() {}

// Bool is the two-valued space.
type Bool struct {
	id uint32
}

func (x *Bool) Kind() Kind { return BoolKind }
func (x *Bool) ID() uint32 { return x.id }
func (x *Bool) spaceNode() {}

// Scalar is an unenumerable scalar domain.
type Scalar struct {
	id uint32
}

func (x *Scalar) Kind() Kind { return ScalarKind }
func (x *Scalar) ID() uint32 { return x.id }
func (x *Scalar) spaceNode() {}

// Opaque is a space with no usable structure.
type Opaque struct {
	id uint32
}

func (x *Opaque) Kind() Kind { return OpaqueKind }
func (x *Opaque) ID() uint32 { return x.id }
func (x *Opaque) spaceNode() {}

// Enum is a finite set of declared tags.
//
// Runtime representations may admit values outside the declared set; such
// escape values are outside the coverage obligation, so covering every
// declared tag makes an Enum position exhaustive.
type Enum struct {
	id   uint32
	tags []string
}

func (x *Enum) Kind() Kind { return EnumKind }
func (x *Enum) ID() uint32 { return x.id }
func (x *Enum) spaceNode() {}

// Len returns the number of declared tags.
func (x *Enum) Len() int { return len(x.tags) }

// Tag returns the ith tag in declaration order.
func (x *Enum) Tag(i int) string { return x.tags[i] }

// Index returns the declaration index of the named tag.
func (x *Enum) Index(tag string) (int, bool) {
	for i, t := range x.tags {
		if t == tag {
			return i, true
		}
	}
	return -1, false
}

// Product is a fixed-arity sequence of field subspaces.
type Product struct {
	id     uint32
	eq     Equality
	fields []Space
	sealed bool
}

func (x *Product) Kind() Kind { return ProductKind }
func (x *Product) ID() uint32 { return x.id }
func (x *Product) spaceNode() {}

// Len returns the number of fields.
func (x *Product) Len() int { return len(x.fields) }

// Field returns the ith field subspace.
func (x *Product) Field(i int) Space {
	if !x.sealed {
		fault("use of unsealed product")
	}
	return x.fields[i]
}

// Eq reports the declared equality semantics of the product.
func (x *Product) Eq() Equality { return x.eq }

// Sealed reports whether the product has been fully constructed.
func (x *Product) Sealed() bool { return x.sealed }

// SetField sets the ith field of a product created with NewProduct.
// It panics if the product is already sealed.
func (x *Product) SetField(i int, s Space) {
	if x.sealed {
		fault("SetField on sealed product")
	}
	if i < 0 || i >= len(x.fields) {
		fault("field index %d out of range [0, %d)", i, len(x.fields))
	}
	if s == nil {
		fault("nil field space")
	}
	x.fields[i] = s
}

// Seal marks the product complete. Every field must have been set.
func (x *Product) Seal() {
	if x.sealed {
		return
	}
	for i, f := range x.fields {
		if f == nil {
			fault("seal of product with unset field %d", i)
		}
	}
	x.sealed = true
}

// Sum is a tagged union of alternatives.
type Sum struct {
	id     uint32
	closed bool
	tags   []string
	subs   []Space
	sealed bool
}

func (x *Sum) Kind() Kind { return SumKind }
func (x *Sum) ID() uint32 { return x.id }
func (x *Sum) spaceNode() {}

// Closed reports whether the declared alternatives are all there are.
// For an open Sum the declared alternatives are advisory: coverage
// requires an unconditional catch-all regardless of which tags the
// patterns name.
func (x *Sum) Closed() bool { return x.closed }

// Len returns the number of declared alternatives.
func (x *Sum) Len() int { return len(x.tags) }

// Tag returns the tag of the ith alternative in declaration order.
func (x *Sum) Tag(i int) string { return x.tags[i] }

// Payload returns the payload subspace of the ith alternative.
func (x *Sum) Payload(i int) Space {
	if !x.sealed {
		fault("use of unsealed sum")
	}
	return x.subs[i]
}

// Index returns the declaration index of the named alternative.
func (x *Sum) Index(tag string) (int, bool) {
	for i, t := range x.tags {
		if t == tag {
			return i, true
		}
	}
	return -1, false
}

// Sealed reports whether the sum has been fully constructed.
func (x *Sum) Sealed() bool { return x.sealed }

// SetAlt sets the ith alternative of a sum created with NewSum or
// NewOpenSum. It panics if the sum is already sealed.
func (x *Sum) SetAlt(i int, tag string, payload Space) {
	if x.sealed {
		fault("SetAlt on sealed sum")
	}
	if i < 0 || i >= len(x.tags) {
		fault("alternative index %d out of range [0, %d)", i, len(x.tags))
	}
	if tag == "" {
		fault("empty alternative tag")
	}
	if payload == nil {
		fault("nil payload space for alternative %q", tag)
	}
	x.tags[i] = tag
	x.subs[i] = payload
}

// Seal marks the sum complete. Every alternative must have been set and
// tags must be unique.
func (x *Sum) Seal() {
	if x.sealed {
		return
	}
	for i, t := range x.tags {
		if t == "" || x.subs[i] == nil {
			fault("seal of sum with unset alternative %d", i)
		}
		for j := 0; j < i; j++ {
			if x.tags[j] == t {
				fault("duplicate alternative tag %q", t)
			}
		}
	}
	x.sealed = true
}

// Alt declares one alternative of a Sum.
type Alt struct {
	Tag     string
	Payload Space
}

// ClosedWorld reports whether the abstract values of s are finitely
// enumerable, so that coverage can in principle be established by cases
// alone, without a catch-all.
//
// Unit, Bool, and Enum spaces are closed-world. Scalar and Opaque spaces
// are not. A Product or closed Sum is closed-world when all of its
// subspaces are; an open Sum never is. Self-referential spaces describe
// values of unbounded depth and are therefore not closed-world.
func ClosedWorld(s Space) bool {
	return closedWorld(s, nil)
}

func closedWorld(s Space, seen map[Space]bool) bool {
	switch x := s.(type) {
	case *Unit, *Bool, *Enum:
		return true
	case *Scalar, *Opaque:
		return false
	case *Product:
		if seen[s] {
			return false
		}
		if seen == nil {
			seen = map[Space]bool{}
		}
		seen[s] = true
		for i := 0; i < x.Len(); i++ {
			if !closedWorld(x.Field(i), seen) {
				return false
			}
		}
		// Unmark so that sharing the space elsewhere, outside a cycle,
		// does not read as self-reference.
		delete(seen, s)
		return true
	case *Sum:
		if !x.closed || seen[s] {
			return false
		}
		if seen == nil {
			seen = map[Space]bool{}
		}
		seen[s] = true
		for i := 0; i < x.Len(); i++ {
			if !closedWorld(x.Payload(i), seen) {
				return false
			}
		}
		delete(seen, s)
		return true
	}
	fault("unknown space %T", s)
	return false
}

func fault(format string, args ...interface{}) {
	panic(fmt.Sprintf("space: "+format, args...))
}
