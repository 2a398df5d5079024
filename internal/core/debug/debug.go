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

// Package debug renders spaces, rows, and values in a compact text form
// for tests, trace logs, and debugging. The forms are not part of any
// diagnostic surface; reporting layers build their own messages from
// the structured results.
package debug

import (
	"fmt"
	"strings"

	"tegula.dev/go/match/pattern"
	"tegula.dev/go/match/space"
)

// SpaceString renders a space. Products render as parenthesized field
// lists, prefixed with "custom" when their equality is user-defined;
// sums render their alternatives in angle brackets, with a trailing
// ellipsis when open. A self-reference renders as "#id" using the
// space's context identifier.
func SpaceString(s space.Space) string {
	w := &strings.Builder{}
	writeSpace(w, s, nil)
	return w.String()
}

func writeSpace(w *strings.Builder, s space.Space, path map[space.Space]bool) {
	switch x := s.(type) {
	case *space.Unit:
		w.WriteString("()")
	case *space.Bool:
		w.WriteString("bool")
	case *space.Scalar:
		w.WriteString("scalar")
	case *space.Opaque:
		w.WriteString("opaque")
	case *space.Enum:
		w.WriteString("enum{")
		for i := 0; i < x.Len(); i++ {
			if i > 0 {
				w.WriteString(", ")
			}
			w.WriteString(x.Tag(i))
		}
		w.WriteString("}")
	case *space.Product:
		if path[s] {
			fmt.Fprintf(w, "#%d", s.ID())
			return
		}
		if path == nil {
			path = map[space.Space]bool{}
		}
		path[s] = true
		if x.Eq() == space.CustomEq {
			w.WriteString("custom")
		}
		w.WriteString("(")
		for i := 0; i < x.Len(); i++ {
			if i > 0 {
				w.WriteString(", ")
			}
			writeSpace(w, x.Field(i), path)
		}
		w.WriteString(")")
		delete(path, s)
	case *space.Sum:
		if path[s] {
			fmt.Fprintf(w, "#%d", s.ID())
			return
		}
		if path == nil {
			path = map[space.Space]bool{}
		}
		path[s] = true
		w.WriteString("<")
		for i := 0; i < x.Len(); i++ {
			if i > 0 {
				w.WriteString(", ")
			}
			w.WriteString(x.Tag(i))
			w.WriteString(": ")
			writeSpace(w, x.Payload(i), path)
		}
		if !x.Closed() {
			if x.Len() > 0 {
				w.WriteString(", ")
			}
			w.WriteString("...")
		}
		w.WriteString(">")
		delete(path, s)
	default:
		fmt.Fprintf(w, "?%T", s)
	}
}

// RowString renders one compiled row.
func RowString(r *pattern.Row) string {
	return r.String()
}

// RowsString renders compiled rows one per line.
func RowsString(rows []*pattern.Row) string {
	w := &strings.Builder{}
	for _, r := range rows {
		fmt.Fprintf(w, "%s\n", r)
	}
	return w.String()
}

// ValueString renders a witness value.
func ValueString(v *space.Value) string {
	return v.String()
}

// ValuesString renders witnesses one per line.
func ValuesString(vs []*space.Value) string {
	w := &strings.Builder{}
	for _, v := range vs {
		fmt.Fprintf(w, "%s\n", v)
	}
	return w.String()
}
