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

package cover

import (
	"encoding/binary"

	"tegula.dev/go/match/space"
)

// key encodes a matrix into its memo key. The encoding is injective:
// the column count comes first, identifiers are self-delimiting
// varints, and every row holds exactly one pattern per column, so two
// distinct matrices cannot encode to the same bytes. Specialization
// shares the wildcard filler node, so matrices differing only in where
// their wildcards came from share a key.
func (ck *checker) key(cols []space.Space, rows []row) string {
	b := make([]byte, 0, 16+4*len(cols)*(len(rows)+1))
	b = binary.AppendUvarint(b, uint64(len(cols)))
	for _, s := range cols {
		b = binary.AppendUvarint(b, uint64(s.ID()))
	}
	for _, r := range rows {
		for _, p := range r.ps {
			b = binary.AppendUvarint(b, uint64(p.ID()))
		}
	}
	return string(b)
}
