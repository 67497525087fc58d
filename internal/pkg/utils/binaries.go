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

package utils

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/clusterboot/clusterboot/internal/pkg/log"
	"github.com/pkg/errors"
)

// Returns an error naming every binary that can't be found on the PATH (or
// at the given path if it contains a slash)
func CheckBinaries(binaries ...string) error {
	missing := make([]string, 0)
	checked := map[string]bool{}

	for _, binary := range binaries {
		if binary == "" || checked[binary] {
			continue
		}
		checked[binary] = true

		path, err := exec.LookPath(binary)
		if err != nil {
			missing = append(missing, binary)
			continue
		}

		log.Logger.Debugf("Found binary '%s' at '%s'", binary, path)
	}

	if len(missing) > 0 {
		return errors.New(fmt.Sprintf("Required binaries not found: %s",
			strings.Join(missing, ", ")))
	}

	return nil
}
