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

package match_test

import (
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/kr/pretty"

	"tegula.dev/go/match"
	"tegula.dev/go/match/pattern"
	"tegula.dev/go/match/space"
)

func wild() pattern.Node             { return &pattern.Wildcard{} }
func bind(name string) pattern.Node  { return &pattern.Bind{Name: name} }
func lit(v space.Const) pattern.Node { return &pattern.Lit{Value: v} }
func boolLit(b bool) pattern.Node    { return lit(space.BoolConst(b)) }
func tag(name string, sub pattern.Node) pattern.Node {
	return &pattern.Tag{Sel: pattern.ByName(name), Sub: sub}
}
func destructure(elems ...pattern.Node) pattern.Node {
	return &pattern.Destructure{Elems: elems}
}

func arms(ps ...pattern.Node) []match.Arm {
	out := make([]match.Arm, len(ps))
	for i, p := range ps {
		out[i] = match.Arm{Pattern: p}
	}
	return out
}

func witnessStrings(v match.Verdict) []string {
	out := make([]string, len(v.Witnesses))
	for i, w := range v.Witnesses {
		out[i] = w.String()
	}
	return out
}

func TestBoolean(t *testing.T) {
	c := space.New()
	b := c.Bool()

	v := match.Check(c, b, arms(boolLit(true)))
	qt.Assert(t, qt.IsFalse(v.Exhaustive))
	qt.Assert(t, qt.DeepEquals(witnessStrings(v), []string{"false"}))

	v = match.Check(c, b, arms(boolLit(true), boolLit(false)))
	qt.Assert(t, qt.IsTrue(v.Exhaustive))
	qt.Assert(t, qt.HasLen(v.Witnesses, 0))

	v = match.Check(c, b, arms(bind("x")))
	qt.Assert(t, qt.IsTrue(v.Exhaustive))

	v = match.Check(c, b, nil)
	qt.Assert(t, qt.IsFalse(v.Exhaustive))
	qt.Assert(t, qt.DeepEquals(v.Missing(), []string{"_"}))
}

func TestUnit(t *testing.T) {
	c := space.New()
	u := c.Unit()

	qt.Assert(t, qt.IsTrue(match.Check(c, u, arms(wild())).Exhaustive))
	qt.Assert(t, qt.IsTrue(match.Check(c, u, arms(destructure())).Exhaustive))
	qt.Assert(t, qt.IsTrue(match.Check(c, u, arms(bind("v"))).Exhaustive))

	// A literal is an equality test the unit rule does not credit.
	v := match.Check(c, u, arms(lit(space.UnitConst())))
	qt.Assert(t, qt.IsFalse(v.Exhaustive))
	qt.Assert(t, qt.DeepEquals(v.Missing(), []string{"()"}))
}

func TestEnum(t *testing.T) {
	c := space.New()
	e := c.Enum("red", "green", "blue")

	v := match.Check(c, e, arms(lit(space.TagConst("red")), lit(space.TagConst("green"))))
	qt.Assert(t, qt.IsFalse(v.Exhaustive))
	qt.Assert(t, qt.DeepEquals(v.Missing(), []string{"blue"}))

	v = match.Check(c, e, arms(
		lit(space.TagConst("red")),
		lit(space.TagConst("green")),
		lit(space.TagConst("blue")),
	))
	qt.Assert(t, qt.IsTrue(v.Exhaustive))

	v = match.Check(c, e, arms(
		lit(space.TagConst("red")),
		lit(space.TagConst("green")),
		wild(),
	))
	qt.Assert(t, qt.IsTrue(v.Exhaustive))
}

func TestScalar(t *testing.T) {
	c := space.New()
	s := c.Scalar()

	// No amount of literals covers a scalar domain.
	v := match.Check(c, s, arms(
		lit(space.NumConst("1")),
		lit(space.NumConst("2")),
		lit(space.NumConst("3")),
	))
	qt.Assert(t, qt.IsFalse(v.Exhaustive))
	qt.Assert(t, qt.DeepEquals(v.Missing(), []string{"_"}))

	v = match.Check(c, s, arms(lit(space.NumConst("1")), bind("n")))
	qt.Assert(t, qt.IsTrue(v.Exhaustive))
}

func TestOpaque(t *testing.T) {
	c := space.New()
	o := c.Opaque()

	v := match.Check(c, o, arms(lit(space.StringConst("x"))))
	qt.Assert(t, qt.IsFalse(v.Exhaustive))

	qt.Assert(t, qt.IsTrue(match.Check(c, o, arms(wild())).Exhaustive))
}

func TestClosedSum(t *testing.T) {
	c := space.New()
	s := c.Sum(
		space.Alt{Tag: "A", Payload: c.Unit()},
		space.Alt{Tag: "B", Payload: c.Bool()},
	)

	v := match.Check(c, s, arms(tag("A", nil), tag("B", boolLit(true))))
	qt.Assert(t, qt.IsFalse(v.Exhaustive))
	qt.Assert(t, qt.DeepEquals(witnessStrings(v), []string{"B(false)"}))

	v = match.Check(c, s, arms(
		tag("A", nil),
		tag("B", boolLit(true)),
		tag("B", boolLit(false)),
	))
	qt.Assert(t, qt.IsTrue(v.Exhaustive))

	v = match.Check(c, s, arms(tag("A", nil), tag("B", bind("x"))))
	qt.Assert(t, qt.IsTrue(v.Exhaustive))

	// A missing alternative is reported by tag.
	v = match.Check(c, s, arms(tag("B", bind("x"))))
	qt.Assert(t, qt.IsFalse(v.Exhaustive))
	qt.Assert(t, qt.DeepEquals(v.Missing(), []string{"A"}))
}

func TestSumBySet(t *testing.T) {
	c := space.New()
	s := c.Sum(
		space.Alt{Tag: "A", Payload: c.Unit()},
		space.Alt{Tag: "B", Payload: c.Unit()},
		space.Alt{Tag: "C", Payload: c.Unit()},
	)

	// A type test admitting several alternatives covers them all at
	// once.
	v := match.Check(c, s, []match.Arm{
		{Pattern: &pattern.Tag{Sel: pattern.BySet(0, 2)}},
	})
	qt.Assert(t, qt.IsFalse(v.Exhaustive))
	qt.Assert(t, qt.DeepEquals(v.Missing(), []string{"B"}))

	v = match.Check(c, s, []match.Arm{
		{Pattern: &pattern.Tag{Sel: pattern.BySet(0, 2)}},
		{Pattern: &pattern.Tag{Sel: pattern.ByIndex(1)}},
	})
	qt.Assert(t, qt.IsTrue(v.Exhaustive))
}

func TestOpenSum(t *testing.T) {
	c := space.New()
	s := c.OpenSum(
		space.Alt{Tag: "circle", Payload: c.Unit()},
		space.Alt{Tag: "square", Payload: c.Unit()},
	)

	// Naming every known alternative is never enough.
	v := match.Check(c, s, arms(tag("circle", nil), tag("square", nil)))
	qt.Assert(t, qt.IsFalse(v.Exhaustive))
	qt.Assert(t, qt.DeepEquals(v.Missing(), []string{"_"}))

	qt.Assert(t, qt.IsTrue(match.Check(c, s, arms(
		tag("circle", nil), wild(),
	)).Exhaustive))

	// So is a single catch-all on its own.
	qt.Assert(t, qt.IsTrue(match.Check(c, s, arms(bind("shape"))).Exhaustive))
}

func TestGuardExclusion(t *testing.T) {
	c := space.New()
	guarded := []match.Arm{{Pattern: wild(), Guarded: true}}

	for _, tc := range []struct {
		name    string
		s       space.Space
		witness string
	}{
		{"bool", c.Bool(), "_"},
		{"unit", c.Unit(), "()"},
		{"enum", c.Enum("a", "b"), "_"},
		{"scalar", c.Scalar(), "_"},
		{"product", c.Product(space.DerivedEq, c.Bool(), c.Bool()), "_"},
		{"sum", c.Sum(space.Alt{Tag: "a", Payload: c.Unit()}), "_"},
		{"openSum", c.OpenSum(), "_"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v := match.Check(c, tc.s, guarded)
			qt.Assert(t, qt.IsFalse(v.Exhaustive))
			qt.Assert(t, qt.DeepEquals(witnessStrings(v), []string{tc.witness}))
		})
	}

	// A conditional extraction excludes its arm just like a guard.
	v := match.Check(c, c.Bool(), arms(&pattern.DerefCond{Sub: wild()}))
	qt.Assert(t, qt.IsFalse(v.Exhaustive))

	// The excluded arm contributes nothing even next to useful arms.
	v = match.Check(c, c.Bool(), []match.Arm{
		{Pattern: boolLit(true), Guarded: true},
		{Pattern: boolLit(false)},
	})
	qt.Assert(t, qt.IsFalse(v.Exhaustive))
	qt.Assert(t, qt.DeepEquals(v.Missing(), []string{"true"}))
}

func TestProductCoverage(t *testing.T) {
	c := space.New()
	p := c.Product(space.DerivedEq, c.Bool(), c.Bool())

	v := match.Check(c, p, arms(
		destructure(boolLit(false), boolLit(false)),
		destructure(boolLit(true), boolLit(false)),
		destructure(wild(), boolLit(true)),
	))
	qt.Assert(t, qt.IsTrue(v.Exhaustive))

	v = match.Check(c, p, arms(
		destructure(boolLit(false), boolLit(false)),
		destructure(boolLit(true), boolLit(false)),
	))
	qt.Assert(t, qt.IsFalse(v.Exhaustive))
	qt.Assert(t, qt.DeepEquals(witnessStrings(v), []string{"(false, true)", "(true, true)"}))

	qt.Assert(t, qt.IsTrue(match.Check(c, p, arms(bind("pair"))).Exhaustive))
}

func TestStructuralLiteralGate(t *testing.T) {
	c := space.New()
	all := func(s space.Space) []match.Arm {
		return arms(
			lit(space.TupleConst(space.BoolConst(false), space.BoolConst(false))),
			lit(space.TupleConst(space.BoolConst(false), space.BoolConst(true))),
			lit(space.TupleConst(space.BoolConst(true), space.BoolConst(false))),
			lit(space.TupleConst(space.BoolConst(true), space.BoolConst(true))),
		)
	}

	// With field-wise equality the four tuple literals enumerate the
	// whole product.
	derived := c.Product(space.DerivedEq, c.Bool(), c.Bool())
	qt.Assert(t, qt.IsTrue(match.Check(c, derived, all(derived)).Exhaustive))

	// With custom equality none of them counts.
	custom := c.Product(space.CustomEq, c.Bool(), c.Bool())
	v := match.Check(c, custom, all(custom))
	qt.Assert(t, qt.IsFalse(v.Exhaustive))
	qt.Assert(t, qt.DeepEquals(v.Missing(), []string{"(_, _)"}))

	// Destructures still contribute over such a product.
	v = match.Check(c, custom, arms(
		destructure(boolLit(false), boolLit(false)),
		lit(space.TupleConst(space.BoolConst(false), space.BoolConst(true))),
		lit(space.TupleConst(space.BoolConst(true), space.BoolConst(false))),
		lit(space.TupleConst(space.BoolConst(true), space.BoolConst(true))),
	))
	qt.Assert(t, qt.IsFalse(v.Exhaustive))
	qt.Assert(t, qt.DeepEquals(witnessStrings(v), []string{"(false, true)", "(true, _)"}))
}

func TestRecursiveSum(t *testing.T) {
	c := space.New()
	list := c.NewSum(2)
	list.SetAlt(0, "nil", c.Unit())
	list.SetAlt(1, "cons", c.Product(space.DerivedEq, c.Bool(), list))
	list.Seal()

	v := match.Check(c, list, arms(
		tag("nil", nil),
		tag("cons", destructure(wild(), tag("nil", nil))),
	))
	qt.Assert(t, qt.IsFalse(v.Exhaustive))
	qt.Assert(t, qt.DeepEquals(witnessStrings(v), []string{
		"cons((false, cons(_)))",
		"cons((true, cons(_)))",
	}))

	qt.Assert(t, qt.IsTrue(match.Check(c, list, arms(
		tag("nil", nil),
		tag("cons", destructure(wild(), wild())),
	)).Exhaustive))
}

func TestNullable(t *testing.T) {
	c := space.New()
	opt := c.Nullable(c.Bool())

	v := match.Check(c, opt, arms(tag("some", boolLit(true))))
	qt.Assert(t, qt.IsFalse(v.Exhaustive))
	qt.Assert(t, qt.DeepEquals(v.Missing(), []string{"null", "some(false)"}))

	qt.Assert(t, qt.IsTrue(match.Check(c, opt, arms(
		tag("null", nil),
		tag("some", wild()),
	)).Exhaustive))
}

func TestDerefTransparent(t *testing.T) {
	c := space.New()
	b := c.Bool()

	v := match.Check(c, b, arms(
		&pattern.Deref{Sub: boolLit(true)},
		&pattern.Extract{Sub: boolLit(false)},
	))
	qt.Assert(t, qt.IsTrue(v.Exhaustive))
}

func TestIdempotence(t *testing.T) {
	c := space.New()
	s := c.Sum(
		space.Alt{Tag: "A", Payload: c.Unit()},
		space.Alt{Tag: "B", Payload: c.Bool()},
	)
	as := arms(tag("B", boolLit(true)))

	v1 := match.Check(c, s, as)
	v2 := match.Check(c, s, as)
	qt.Assert(t, qt.Equals(v1.Exhaustive, v2.Exhaustive))
	if desc := pretty.Diff(witnessStrings(v1), witnessStrings(v2)); len(desc) > 0 {
		t.Errorf("verdicts differ between runs:\n%v", desc)
	}
	qt.Assert(t, qt.DeepEquals(v1.Missing(), v2.Missing()))
}

func TestOrderInvariance(t *testing.T) {
	c := space.New()
	e := c.Enum("red", "green", "blue")
	ps := []pattern.Node{
		lit(space.TagConst("red")),
		lit(space.TagConst("green")),
		wild(),
	}

	perms := [][]int{{0, 1, 2}, {2, 1, 0}, {1, 2, 0}, {0, 2, 1}, {2, 0, 1}, {1, 0, 2}}
	for _, perm := range perms {
		sel := make([]pattern.Node, len(perm))
		for i, j := range perm {
			sel[i] = ps[j]
		}
		qt.Assert(t, qt.IsTrue(match.Check(c, e, arms(sel...)).Exhaustive))
	}

	// Without the wildcard every order agrees on the outcome too.
	for _, perm := range [][]int{{0, 1}, {1, 0}} {
		sel := make([]pattern.Node, len(perm))
		for i, j := range perm {
			sel[i] = ps[j]
		}
		v := match.Check(c, e, arms(sel...))
		qt.Assert(t, qt.IsFalse(v.Exhaustive))
		qt.Assert(t, qt.DeepEquals(v.Missing(), []string{"blue"}))
	}
}

func TestWitnessCap(t *testing.T) {
	c := space.New()
	tags := make([]string, 12)
	for i := range tags {
		tags[i] = string(rune('a' + i))
	}
	e := c.Enum(tags...)
	as := arms(lit(space.TagConst("a")))

	v := match.Check(c, e, as)
	qt.Assert(t, qt.IsFalse(v.Exhaustive))
	qt.Assert(t, qt.HasLen(v.Witnesses, match.DefaultMaxWitnesses))

	p := &match.Profile{MaxWitnesses: 3}
	qt.Assert(t, qt.HasLen(p.Check(c, e, as).Witnesses, 3))

	p = &match.Profile{MaxWitnesses: 20}
	qt.Assert(t, qt.HasLen(p.Check(c, e, as).Witnesses, 11))

	// The cap never changes the verdict.
	p = &match.Profile{MaxWitnesses: 1}
	v = p.Check(c, e, as)
	qt.Assert(t, qt.IsFalse(v.Exhaustive))
	qt.Assert(t, qt.DeepEquals(v.Missing(), []string{"b"}))

	v = p.Check(c, e, arms(wild()))
	qt.Assert(t, qt.IsTrue(v.Exhaustive))
	qt.Assert(t, qt.IsNil(v.Witnesses))

	var np *match.Profile
	qt.Assert(t, qt.HasLen(np.Check(c, e, as).Witnesses, match.DefaultMaxWitnesses))
}

func TestCheckRows(t *testing.T) {
	c := space.New()
	b := c.Bool()

	rows := []*pattern.Row{
		pattern.Compile(c, b, 0, boolLit(true), false),
		pattern.Compile(c, b, 1, wild(), true),
	}

	v := (&match.Profile{}).CheckRows(c, b, rows)
	qt.Assert(t, qt.IsFalse(v.Exhaustive))
	qt.Assert(t, qt.DeepEquals(v.Missing(), []string{"false"}))

	// Compiled rows can be checked repeatedly.
	v2 := (&match.Profile{}).CheckRows(c, b, rows)
	qt.Assert(t, qt.DeepEquals(v.Missing(), v2.Missing()))
}

func TestMissing(t *testing.T) {
	qt.Assert(t, qt.IsNil(match.Verdict{Exhaustive: true}.Missing()))

	v := match.Verdict{Witnesses: []*space.Value{
		space.TagValue("blue"),
		space.TagValue("azure"),
		space.TagValue("blue"),
	}}
	qt.Assert(t, qt.DeepEquals(v.Missing(), []string{"azure", "blue"}))
}
