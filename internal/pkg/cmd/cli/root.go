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
	"github.com/spf13/cobra"
)

const longUsage = `Clusterboot brings a freshly provisioned Kubernetes cluster into a
known-good baseline state.

For EKS clusters (when --account is given) it:

  * writes a kubeconfig that assumes the bootstrap IAM role,
  * replaces the AWS VPC CNI with Calico,
  * installs Karpenter.

Then for every cluster it installs cert-manager and patches the Rancher
agent and webhook so they tolerate critical add-on nodes. With --oneclick it
also applies any extra resources listed in the config file.

Steps run in order and the first failure stops the run. Everything that was
applied before the failure stays in place, so fix the problem and run it
again.

Commands are run from the base directory (by default the directory containing
this binary) so kustomizations like 'calico' and 'cert-manager' are found
there, and kubeconfig files are written to '.kubeconfig-<cluster>-bootstrap'
in it.
`

func NewCommand(name string) *cobra.Command {
	c := &bootstrapCmd{}

	cmd := &cobra.Command{
		Use:   name + " --cluster <name> [--account <profile>] [--oneclick]",
		Short: "Bootstrap in-cluster resources for a new cluster",
		Long:  longUsage,
		Args:  cobra.NoArgs,
		// errors are printed once by the caller
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.out = cmd.OutOrStdout()
			return c.run(cmd.Context())
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose output/logging (same as --log-level debug)")
	pf.StringVarP(&c.logLevel, "log-level", "l", "", "log level. One of none|trace|debug|info|warn|error")
	pf.BoolVar(&c.jsonLogs, "json-logs", false, "log in JSON format")
	pf.StringVar(&c.configFile, "config", "", "path to a config file. Defaults to searching for clusterboot.yaml")

	f := cmd.Flags()
	f.StringVarP(&c.cluster, "cluster", "c", "", "name of the cluster to bootstrap")
	f.StringVarP(&c.account, "account", "a", "", "AWS profile for an EKS cluster. Omit for clusters that aren't EKS")
	f.BoolVar(&c.oneclick, "oneclick", false, "also apply the extra resources configured under 'oneclick'")
	f.Var(&c.oneclickPaths, "oneclick-path", "paths to apply with --oneclick instead of those in the config file (can specify multiple times)")
	f.StringVarP(&c.region, "region", "r", "", "AWS region of the cluster")
	f.StringVar(&c.baseDir, "base-dir", "", "directory to run commands from and write kubeconfig files to")
	_ = cmd.MarkFlagRequired("cluster")

	cmd.AddCommand(
		newVersionCommand(),
		newCompletionsCommand(),
	)

	return cmd
}
