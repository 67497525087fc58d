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

package structs

import (
	"fmt"
	"sort"
)

// One `helm upgrade --install` invocation
type HelmRelease struct {
	Name      string
	Chart     string
	Version   string
	Namespace string
	Values    map[string]string
}

// Returns the helm args to install or upgrade the release. Values are passed
// as --set flags sorted by key so repeated runs issue identical commands.
func (r HelmRelease) UpgradeArgs() []string {
	args := []string{
		"upgrade",
		"--install",
		r.Name,
		r.Chart,
		"--version",
		r.Version,
		"--namespace",
		r.Namespace,
	}

	return append(args, r.SetArgs()...)
}

// Converts values to pairs of `--set key=value` args
func (r HelmRelease) SetArgs() []string {
	keys := make([]string, 0, len(r.Values))
	for k := range r.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		args = append(args, "--set", fmt.Sprintf("%s=%s", k, r.Values[k]))
	}

	return args
}
