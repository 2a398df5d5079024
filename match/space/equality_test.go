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

package space_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"tegula.dev/go/match/space"
)

func TestStructuralEq(t *testing.T) {
	c := space.New()

	for _, tc := range []struct {
		name string
		s    space.Space
		want bool
	}{
		{"unit", c.Unit(), true},
		{"bool", c.Bool(), true},
		{"scalar", c.Scalar(), false},
		{"opaque", c.Opaque(), false},
		// Enum representations admit escape values; tags are not a
		// structural terminal.
		{"enum", c.Enum("a", "b"), false},
		{"sum", c.Sum(space.Alt{Tag: "a", Payload: c.Bool()}), false},
		{"emptyProduct", c.Product(space.DerivedEq), true},
		{"boolPair", c.Product(space.DerivedEq, c.Bool(), c.Bool()), true},
		{"unitBool", c.Product(space.DerivedEq, c.Unit(), c.Bool()), true},
		{"customPair", c.Product(space.CustomEq, c.Bool(), c.Bool()), false},
		{"scalarField", c.Product(space.DerivedEq, c.Bool(), c.Scalar()), false},
		{"enumField", c.Product(space.DerivedEq, c.Bool(), c.Enum("a")), false},
		{
			"nested",
			c.Product(space.DerivedEq,
				c.Product(space.DerivedEq, c.Bool()),
				c.Unit()),
			true,
		},
		{
			"nestedCustom",
			c.Product(space.DerivedEq,
				c.Product(space.CustomEq, c.Bool()),
				c.Unit()),
			false,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			qt.Assert(t, qt.Equals(c.StructuralEq(tc.s), tc.want))
			// Memoized result agrees.
			qt.Assert(t, qt.Equals(c.StructuralEq(tc.s), tc.want))
		})
	}
}

func TestStructuralEqRecursive(t *testing.T) {
	c := space.New()

	// A product referring to itself through only structural components
	// resolves coinductively.
	rec := c.NewProduct(space.DerivedEq, 2)
	rec.SetField(0, c.Bool())
	rec.SetField(1, rec)
	rec.Seal()
	qt.Assert(t, qt.IsTrue(c.StructuralEq(rec)))

	recCustom := c.NewProduct(space.CustomEq, 1)
	recCustom.SetField(0, recCustom)
	recCustom.Seal()
	qt.Assert(t, qt.IsFalse(c.StructuralEq(recCustom)))

	// A cycle through a scalar field is not structural, whichever member
	// is asked first.
	p := c.NewProduct(space.DerivedEq, 1)
	q := c.NewProduct(space.DerivedEq, 2)
	p.SetField(0, q)
	q.SetField(0, p)
	q.SetField(1, c.Scalar())
	p.Seal()
	q.Seal()
	qt.Assert(t, qt.IsFalse(c.StructuralEq(p)))
	qt.Assert(t, qt.IsFalse(c.StructuralEq(q)))

	// The same shape with a bool field is structural for both members.
	p2 := c.NewProduct(space.DerivedEq, 1)
	q2 := c.NewProduct(space.DerivedEq, 2)
	p2.SetField(0, q2)
	q2.SetField(0, p2)
	q2.SetField(1, c.Bool())
	p2.Seal()
	q2.Seal()
	qt.Assert(t, qt.IsTrue(c.StructuralEq(p2)))
	qt.Assert(t, qt.IsTrue(c.StructuralEq(q2)))

	// Recursion through a sum is cut off by the sum itself.
	list := c.NewSum(2)
	list.SetAlt(0, "nil", c.Unit())
	cons := c.Product(space.DerivedEq, c.Bool(), list)
	list.SetAlt(1, "cons", cons)
	list.Seal()
	qt.Assert(t, qt.IsFalse(c.StructuralEq(cons)))
}
