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

package cli

import (
	"fmt"

	"github.com/clusterboot/clusterboot/internal/pkg/version"
	"github.com/spf13/cobra"
)

type versionConfig struct {
	concise bool
}

func newVersionCommand() *cobra.Command {
	c := &versionConfig{}

	command := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of clusterboot",
		Args:  cobra.NoArgs,
		Run: func(command *cobra.Command, args []string) {
			out := command.OutOrStdout()
			if c.concise {
				_, _ = fmt.Fprint(out, version.Version)
				return
			}

			for _, line := range version.Details() {
				_, _ = fmt.Fprintln(out, line)
			}
		},
	}

	f := command.Flags()
	f.BoolVarP(&c.concise, "concise", "c", false, "only print the version")

	return command
}
