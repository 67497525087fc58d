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
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var completionShells = []string{"bash", "zsh", "fish"}

func newCompletionsCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generate shell completions for clusterboot",
		Long: `Prints a completion script for the given shell (bash if none is given).

To load completions into the current bash session run:

. <(clusterboot completion bash)

For zsh:

clusterboot completion zsh > "${fpath[1]}/_clusterboot"
`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: completionShells,
		RunE: func(command *cobra.Command, args []string) error {
			shell := "bash"
			if len(args) > 0 {
				shell = args[0]
			}

			root := command.Root()
			out := command.OutOrStdout()

			switch shell {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			}

			return errors.Errorf("Unsupported shell '%s'. Use one of %v", shell,
				completionShells)
		},
	}

	c.Aliases = []string{"completions"}

	return c
}
