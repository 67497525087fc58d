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

package cmd

import (
	"path/filepath"
	"strings"
)

// Manifest paths given on the command line with a repeatable flag. Values
// may be comma separated. Paths are cleaned and each is kept once, in the
// order first given, since they're applied in that order.
type Paths []string

func (p *Paths) String() string {
	return strings.Join(*p, ",")
}

func (p *Paths) Type() string {
	return "paths"
}

func (p *Paths) Set(value string) error {
	for _, path := range strings.Split(value, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}

		path = filepath.Clean(path)
		if p.contains(path) {
			continue
		}
		*p = append(*p, path)
	}
	return nil
}

func (p *Paths) contains(path string) bool {
	for _, existing := range *p {
		if existing == path {
			return true
		}
	}
	return false
}
