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

// Package tegtest holds knobs shared by the test suite.
package tegtest

import "os"

const envUpdate = "TEGULA_UPDATE"

// UpdateGoldenFiles reports whether tests should rewrite their golden
// files with the output they observe instead of failing on a mismatch.
// It is set by the non-empty environment variable TEGULA_UPDATE.
var UpdateGoldenFiles = os.Getenv(envUpdate) != ""
