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

package runner

import (
	"context"
	"fmt"

	"github.com/clusterboot/clusterboot/internal/pkg/config"
	"github.com/clusterboot/clusterboot/internal/pkg/constants"
	"github.com/clusterboot/clusterboot/internal/pkg/interfaces"
	"github.com/clusterboot/clusterboot/internal/pkg/log"
	"github.com/clusterboot/clusterboot/internal/pkg/structs"
	"github.com/clusterboot/clusterboot/internal/pkg/utils"
	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"
)

// Runs kubectl and helm against one cluster. Every command gets the cluster's
// kubeconfig through KUBECONFIG and runs from the base directory so relative
// kustomization paths resolve.
type Runner struct {
	executor       interfaces.IExecutor
	target         structs.ClusterTarget
	kubeConfigPath string
	dir            string
	binaries       config.Binaries
	kubectlArgs    []string
	helmArgs       []string
}

// Creates a runner. Extra args are shell-style strings that are split and
// prepended to every kubectl/helm invocation.
func New(executor interfaces.IExecutor, target structs.ClusterTarget,
	kubeConfigPath string, dir string, binaries config.Binaries,
	extraArgs config.ExtraArgs) (*Runner, error) {

	if kubeConfigPath == "" {
		return nil, errors.New("A kubeconfig path is required")
	}

	kubectlArgs, err := shellwords.Parse(extraArgs.Kubectl)
	if err != nil {
		return nil, errors.Wrapf(err, "Error parsing extra kubectl args: %s",
			extraArgs.Kubectl)
	}

	helmArgs, err := shellwords.Parse(extraArgs.Helm)
	if err != nil {
		return nil, errors.Wrapf(err, "Error parsing extra helm args: %s",
			extraArgs.Helm)
	}

	return &Runner{
		executor:       executor,
		target:         target,
		kubeConfigPath: kubeConfigPath,
		dir:            dir,
		binaries:       binaries,
		kubectlArgs:    kubectlArgs,
		helmArgs:       helmArgs,
	}, nil
}

func (r Runner) KubeConfigPath() string {
	return r.kubeConfigPath
}

// env vars every cluster command is run with
func (r Runner) env() map[string]string {
	return map[string]string{
		constants.EnvKubeConfig: r.kubeConfigPath,
	}
}

func (r Runner) command(binary string, extraArgs []string, args []string) utils.Command {
	allArgs := make([]string, 0, len(extraArgs)+len(args))
	allArgs = append(allArgs, extraArgs...)
	allArgs = append(allArgs, args...)

	return utils.Command{
		Binary: binary,
		Args:   allArgs,
		Env:    r.env(),
		Dir:    r.dir,
	}
}

// Runs kubectl against the cluster
func (r Runner) Kubectl(ctx context.Context, args ...string) error {
	err := r.executor.Run(ctx, r.command(r.binaries.Kubectl, r.kubectlArgs, args))
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Runs helm against the cluster
func (r Runner) Helm(ctx context.Context, args ...string) error {
	err := r.executor.Run(ctx, r.command(r.binaries.Helm, r.helmArgs, args))
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Applies a patch to a resource with `kubectl patch`
func (r Runner) Patch(ctx context.Context, patch structs.PatchDescriptor) error {
	body, err := patch.Serialise()
	if err != nil {
		return errors.WithStack(err)
	}

	log.Logger.Debugf("Patching %s in namespace %s on cluster '%s' with: %s",
		patch.Target, patch.Namespace, r.target.Name, body)

	err = r.Kubectl(ctx,
		"-n",
		patch.Namespace,
		"patch",
		patch.Target,
		fmt.Sprintf("--type=%s", patch.Type),
		"--patch",
		body,
	)
	if err != nil {
		return errors.Wrapf(err, "Error patching %s in namespace %s", patch.Target,
			patch.Namespace)
	}

	return nil
}
