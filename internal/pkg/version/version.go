/*
 * Copyright 2026 The Clusterboot Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package version

import (
	"fmt"
	"runtime"
)

// The git commit that was compiled. This will be filled in by the compiler.
var GitCommit string

// This will be populated by flags to the compiler.
var Version = "dev"

var BuildDate = ""

var GoVersion = runtime.Version()

var OsArch = fmt.Sprintf("%s %s", runtime.GOOS, runtime.GOARCH)

// Returns the build details as lines to print
func Details() []string {
	return []string{
		fmt.Sprintf("Build Date: %s", BuildDate),
		fmt.Sprintf("Git Commit: %s", GitCommit),
		fmt.Sprintf("Version: %s", Version),
		fmt.Sprintf("Go Version: %s", GoVersion),
		fmt.Sprintf("OS / Arch: %s", OsArch),
	}
}
