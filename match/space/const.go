// Copyright 2023 The Tegula Authors
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
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// ConstKind reports the shape of a Const.
type ConstKind uint8

const (
	ConstUnit ConstKind = 1 + iota
	ConstBool
	ConstNum
	ConstString
	ConstTag
	ConstTuple
)

func (k ConstKind) String() string {
	switch k {
	case ConstUnit:
		return "unit"
	case ConstBool:
		return "bool"
	case ConstNum:
		return "number"
	case ConstString:
		return "string"
	case ConstTag:
		return "tag"
	case ConstTuple:
		return "tuple"
	}
	return fmt.Sprintf("constkind(%d)", int(k))
}

// A Const is a compile-time constant carried by a literal pattern.
//
// Front ends evaluate their constant expressions and hand the result over
// in this normalized form: the single unit value, a boolean, an
// arbitrary-precision number, a string, an enum tag, or a tuple of
// constants describing a product value field by field.
type Const struct {
	kind  ConstKind
	b     bool
	num   *apd.Decimal
	str   string
	elems []Const
}

// UnitConst returns the constant for the single unit value.
func UnitConst() Const {
	return Const{kind: ConstUnit}
}

// BoolConst returns a boolean constant.
func BoolConst(b bool) Const {
	return Const{kind: ConstBool, b: b}
}

// NumConst returns a numeric constant parsed from its decimal source
// form. It panics if s is not a finite decimal number.
func NumConst(s string) Const {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		fault("invalid numeric constant %q: %v", s, err)
	}
	if d.Form != apd.Finite {
		fault("non-finite numeric constant %q", s)
	}
	return Const{kind: ConstNum, num: d}
}

// StringConst returns a string constant.
func StringConst(s string) Const {
	return Const{kind: ConstString, str: s}
}

// TagConst returns an enum tag constant. The tag is resolved against the
// declared tag set when the pattern is compiled.
func TagConst(tag string) Const {
	if tag == "" {
		fault("empty tag constant")
	}
	return Const{kind: ConstTag, str: tag}
}

// TupleConst returns a product constant described field by field.
func TupleConst(elems ...Const) Const {
	return Const{kind: ConstTuple, elems: append([]Const(nil), elems...)}
}

// Kind reports the shape of the constant.
func (c Const) Kind() ConstKind { return c.kind }

// Bool returns the value of a boolean constant.
func (c Const) Bool() bool {
	if c.kind != ConstBool {
		fault("Bool of %s constant", c.kind)
	}
	return c.b
}

// Num returns the value of a numeric constant.
func (c Const) Num() *apd.Decimal {
	if c.kind != ConstNum {
		fault("Num of %s constant", c.kind)
	}
	return c.num
}

// Str returns the value of a string constant.
func (c Const) Str() string {
	if c.kind != ConstString {
		fault("Str of %s constant", c.kind)
	}
	return c.str
}

// Tag returns the name carried by a tag constant.
func (c Const) Tag() string {
	if c.kind != ConstTag {
		fault("Tag of %s constant", c.kind)
	}
	return c.str
}

// Len returns the arity of a tuple constant.
func (c Const) Len() int {
	if c.kind != ConstTuple {
		fault("Len of %s constant", c.kind)
	}
	return len(c.elems)
}

// Elem returns the ith field of a tuple constant.
func (c Const) Elem(i int) Const {
	if c.kind != ConstTuple {
		fault("Elem of %s constant", c.kind)
	}
	return c.elems[i]
}

// Equal reports whether two constants denote the same value. Numbers
// compare by numeric value, so 1.0 and 1.00 are equal.
func (c Const) Equal(o Const) bool {
	if c.kind != o.kind {
		return false
	}
	switch c.kind {
	case ConstUnit:
		return true
	case ConstBool:
		return c.b == o.b
	case ConstNum:
		return c.num.Cmp(o.num) == 0
	case ConstString, ConstTag:
		return c.str == o.str
	case ConstTuple:
		if len(c.elems) != len(o.elems) {
			return false
		}
		for i, e := range c.elems {
			if !e.Equal(o.elems[i]) {
				return false
			}
		}
		return true
	}
	fault("unknown constant kind %d", c.kind)
	return false
}

func (c Const) String() string {
	switch c.kind {
	case ConstUnit:
		return "()"
	case ConstBool:
		return strconv.FormatBool(c.b)
	case ConstNum:
		return c.num.String()
	case ConstString:
		return strconv.Quote(c.str)
	case ConstTag:
		return c.str
	case ConstTuple:
		elems := make([]string, len(c.elems))
		for i, e := range c.elems {
			elems[i] = e.String()
		}
		return "(" + strings.Join(elems, ", ") + ")"
	}
	return fmt.Sprintf("const(%d)", int(c.kind))
}
