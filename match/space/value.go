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
)

// ValueKind reports the shape of a Value.
type ValueKind uint8

const (
	// ValAny stands for every value of its position. It appears where a
	// witness places no constraint, and as the representative of domains
	// that cannot be enumerated.
	ValAny ValueKind = 1 + iota

	ValUnit
	ValBool
	ValTag
	ValAlt
	ValTuple
)

func (k ValueKind) String() string {
	switch k {
	case ValAny:
		return "any"
	case ValUnit:
		return "unit"
	case ValBool:
		return "bool"
	case ValTag:
		return "tag"
	case ValAlt:
		return "alt"
	case ValTuple:
		return "tuple"
	}
	return fmt.Sprintf("valuekind(%d)", int(k))
}

// A Value is an abstract value of some Space. Coverage checking reports
// uncovered regions as witness Values: each one describes a family of
// concrete runtime values none of which any pattern matches.
//
// Values are immutable and may be shared freely.
type Value struct {
	kind    ValueKind
	b       bool
	tag     string
	payload *Value
	fields  []*Value
}

var (
	anyValue   = &Value{kind: ValAny}
	unitValue  = &Value{kind: ValUnit}
	trueValue  = &Value{kind: ValBool, b: true}
	falseValue = &Value{kind: ValBool}
)

// AnyValue returns the unconstrained value.
func AnyValue() *Value { return anyValue }

// UnitValue returns the single value of a unit space.
func UnitValue() *Value { return unitValue }

// BoolValue returns the given boolean value.
func BoolValue(b bool) *Value {
	if b {
		return trueValue
	}
	return falseValue
}

// TagValue returns the value of an enum tag.
func TagValue(tag string) *Value {
	if tag == "" {
		fault("empty tag value")
	}
	return &Value{kind: ValTag, tag: tag}
}

// AltValue returns a sum value with the given alternative tag and
// payload.
func AltValue(tag string, payload *Value) *Value {
	if tag == "" {
		fault("empty alternative tag")
	}
	if payload == nil {
		fault("nil payload for alternative %q", tag)
	}
	return &Value{kind: ValAlt, tag: tag, payload: payload}
}

// TupleValue returns a product value with the given fields.
func TupleValue(fields ...*Value) *Value {
	for i, f := range fields {
		if f == nil {
			fault("nil field %d in tuple value", i)
		}
	}
	return &Value{kind: ValTuple, fields: append([]*Value(nil), fields...)}
}

// Kind reports the shape of the value.
func (v *Value) Kind() ValueKind { return v.kind }

// Bool returns the value of a boolean.
func (v *Value) Bool() bool {
	if v.kind != ValBool {
		fault("Bool of %s value", v.kind)
	}
	return v.b
}

// Tag returns the tag of an enum or sum value.
func (v *Value) Tag() string {
	if v.kind != ValTag && v.kind != ValAlt {
		fault("Tag of %s value", v.kind)
	}
	return v.tag
}

// Payload returns the payload of a sum value.
func (v *Value) Payload() *Value {
	if v.kind != ValAlt {
		fault("Payload of %s value", v.kind)
	}
	return v.payload
}

// Len returns the arity of a tuple value.
func (v *Value) Len() int {
	if v.kind != ValTuple {
		fault("Len of %s value", v.kind)
	}
	return len(v.fields)
}

// Field returns the ith field of a tuple value.
func (v *Value) Field(i int) *Value {
	if v.kind != ValTuple {
		fault("Field of %s value", v.kind)
	}
	return v.fields[i]
}

// String renders the value in diagnostic form. Unconstrained positions
// print as "_"; an alternative with a unit payload prints as its bare
// tag.
func (v *Value) String() string {
	switch v.kind {
	case ValAny:
		return "_"
	case ValUnit:
		return "()"
	case ValBool:
		return strconv.FormatBool(v.b)
	case ValTag:
		return v.tag
	case ValAlt:
		if v.payload.kind == ValUnit {
			return v.tag
		}
		return v.tag + "(" + v.payload.String() + ")"
	case ValTuple:
		fields := make([]string, len(v.fields))
		for i, f := range v.fields {
			fields[i] = f.String()
		}
		return "(" + strings.Join(fields, ", ") + ")"
	}
	return fmt.Sprintf("value(%d)", int(v.kind))
}
