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

package bootstrap

import (
	"context"
	"fmt"

	"github.com/clusterboot/clusterboot/internal/pkg/constants"
	"github.com/clusterboot/clusterboot/internal/pkg/kubeconfig"
	"github.com/clusterboot/clusterboot/internal/pkg/log"
	"github.com/clusterboot/clusterboot/internal/pkg/program"
	"github.com/clusterboot/clusterboot/internal/pkg/structs"
	"github.com/clusterboot/clusterboot/internal/pkg/templater"
	"github.com/pkg/errors"
)

// Steps that bring an EKS cluster into line before the common steps run
func (b *Bootstrapper) managedSteps() []Step {
	return []Step{
		{Name: constants.StepProvisionCredentials, Run: b.provisionCredentials},
		{Name: constants.StepConfigureKubeconfig, Run: b.configureKubeconfig},
		{Name: constants.StepRemoveDefaultCNI, Run: b.removeDefaultCNI},
		{Name: constants.StepInstallReplacementCNI, Run: b.installReplacementCNI},
		{Name: constants.StepInstallAutoscaler, Run: b.installAutoscaler},
	}
}

func (b *Bootstrapper) commonSteps() []Step {
	return []Step{
		{Name: constants.StepInstallCertManager, Run: b.installCertManager},
		{
			Name: constants.StepPatchClusterAgentTolerations,
			Run: b.patch(structs.CriticalAddonsPatch().For(constants.RancherNamespace,
				constants.ClusterAgentDeployment)),
		},
		{
			Name: constants.StepPatchWebhookTolerations,
			Run: b.patch(structs.CriticalAddonsPatch().For(constants.RancherNamespace,
				constants.WebhookDeployment)),
		},
		{
			Name: constants.StepPatchWebhookHostNetwork,
			Run: b.patch(structs.HostNetworkPatch().For(constants.RancherNamespace,
				constants.WebhookDeployment)),
		},
	}
}

func (b *Bootstrapper) oneclickSteps() []Step {
	return []Step{
		{Name: constants.StepApplyExtraResources, Run: b.applyExtraResources},
	}
}

func (b *Bootstrapper) provisionCredentials(ctx context.Context) error {
	credentials, err := b.provisioner.ResolveAndWriteKubeconfig(ctx,
		b.options.AccountId, b.target.Name)
	if err != nil {
		return errors.WithStack(err)
	}

	if credentials.KubeConfigPath != b.runner.KubeConfigPath() {
		return errors.Errorf("Kubeconfig was written to '%s' but cluster commands "+
			"use '%s'", credentials.KubeConfigPath, b.runner.KubeConfigPath())
	}

	b.credentials = credentials
	return nil
}

// Makes sure the kubeconfig written for the cluster selects the bootstrap
// context
func (b *Bootstrapper) configureKubeconfig(ctx context.Context) error {
	alias := kubeconfig.ContextAlias(b.target.Name)
	if b.credentials != nil {
		alias = b.credentials.ContextAlias
	}

	return kubeconfig.Verify(b.runner.KubeConfigPath(), alias)
}

func (b *Bootstrapper) removeDefaultCNI(ctx context.Context) error {
	cni := b.conf.Cni

	err := b.runner.Kubectl(ctx,
		"--ignore-not-found=true",
		"-n",
		cni.Namespace,
		"delete",
		fmt.Sprintf("daemonset/%s", cni.DaemonSet),
	)
	if err != nil {
		if program.IsIgnorableAbsence(err) {
			log.Logger.Infof("Daemonset '%s' isn't in namespace '%s'. Nothing to remove",
				cni.DaemonSet, cni.Namespace)
			return nil
		}
		return errors.Wrapf(err, "Error removing daemonset '%s'", cni.DaemonSet)
	}

	return nil
}

func (b *Bootstrapper) installReplacementCNI(ctx context.Context) error {
	return b.applyKustomization(ctx, b.conf.Cni.Kustomization)
}

func (b *Bootstrapper) installCertManager(ctx context.Context) error {
	return b.applyKustomization(ctx, b.conf.CertManager.Kustomization)
}

func (b *Bootstrapper) applyKustomization(ctx context.Context, dir string) error {
	err := b.runner.Kubectl(ctx, "apply", "-k", dir)
	if err != nil {
		return errors.Wrapf(err, "Error applying kustomization '%s'", dir)
	}

	return nil
}

// Returns the autoscaler release for the target. Configured values are
// rendered as templates, then the version and cluster name are forced.
func (b *Bootstrapper) autoscalerRelease() (*structs.HelmRelease, error) {
	autoscaler := b.conf.Autoscaler

	values, err := templater.RenderValues(autoscaler.Set, b.target.TemplateVars())
	if err != nil {
		return nil, errors.Wrap(err, "Error rendering autoscaler values")
	}
	values[constants.AutoscalerClusterNameKey] = b.target.Name

	return &structs.HelmRelease{
		Name:      autoscaler.Release,
		Chart:     autoscaler.Chart,
		Version:   constants.AutoscalerVersion,
		Namespace: autoscaler.Namespace,
		Values:    values,
	}, nil
}

func (b *Bootstrapper) installAutoscaler(ctx context.Context) error {
	release, err := b.autoscalerRelease()
	if err != nil {
		return errors.WithStack(err)
	}

	log.Logger.Infof("Installing %s: %v", release.Name, release.SetArgs())

	err = b.runner.Helm(ctx, release.UpgradeArgs()...)
	if err != nil {
		return errors.Wrapf(err, "Error installing release '%s'", release.Name)
	}

	return nil
}

// Returns a step func that applies the patch. A missing target is an error.
func (b *Bootstrapper) patch(patch structs.PatchDescriptor) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return b.runner.Patch(ctx, patch)
	}
}

// Returns the paths of extra resources to apply to the target. Managed-only
// paths come first.
func (b *Bootstrapper) extraResourcePaths() []string {
	paths := make([]string, 0)

	if b.target.IsManagedCloud {
		paths = append(paths, b.conf.Oneclick.ManagedPaths...)
	}

	return append(paths, b.conf.Oneclick.Paths...)
}

func (b *Bootstrapper) applyExtraResources(ctx context.Context) error {
	paths := b.extraResourcePaths()
	if len(paths) == 0 {
		log.Logger.Info("No extra resources are configured. Nothing to apply")
		return nil
	}

	for _, path := range paths {
		log.Logger.Infof("Applying extra resources from '%s'", path)
		err := b.runner.Kubectl(ctx, "apply", "-R", "-f", path)
		if err != nil {
			return errors.Wrapf(err, "Error applying resources from '%s'", path)
		}
	}

	return nil
}
