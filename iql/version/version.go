// Copyright 2015 Google Inc. All rights reserved.
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

// Package version contains the version of the IQL front end and tools.
package version

import "fmt"

const (
	// Major is the major version of IQL.
	Major = 0
	// Minor is the minor version of IQL.
	Minor = 3
	// Patch is the patch version of IQL.
	Patch = 0
	// Release is the release stage of IQL.
	Release = "alpha"
)

// String returns the printable version.
func String() string {
	return fmt.Sprintf("%d.%d.%d-%s", Major, Minor, Patch, Release)
}
