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

// Package bootstrap brings a new cluster into its baseline state by running a
// fixed sequence of steps against it. The first failure stops the run and
// whatever was already applied stays in place.
package bootstrap

import (
	"context"

	"github.com/clusterboot/clusterboot/internal/pkg/config"
	"github.com/clusterboot/clusterboot/internal/pkg/interfaces"
	"github.com/clusterboot/clusterboot/internal/pkg/log"
	"github.com/clusterboot/clusterboot/internal/pkg/printer"
	"github.com/clusterboot/clusterboot/internal/pkg/structs"
	"github.com/pkg/errors"
)

// A single named unit of work
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

type Options struct {
	// AWS profile used to set up credentials. Only used for managed clusters.
	AccountId string
	// whether to apply the extra resources configured under `oneclick`
	Oneclick bool
}

type Bootstrapper struct {
	target      structs.ClusterTarget
	options     Options
	conf        config.Conf
	provisioner interfaces.ICredentialProvisioner
	runner      interfaces.IRunner
	// set once credentials have been provisioned
	credentials *structs.CredentialContext
}

// Creates a bootstrapper. A provisioner is only needed for managed clusters.
func New(target structs.ClusterTarget, options Options, conf config.Conf,
	provisioner interfaces.ICredentialProvisioner, runner interfaces.IRunner) (*Bootstrapper, error) {

	if target.Name == "" {
		return nil, errors.New("A cluster name is required")
	}

	if runner == nil {
		return nil, errors.New("A runner is required")
	}

	if target.IsManagedCloud {
		if options.AccountId == "" {
			return nil, errors.Errorf("An account is required to bootstrap managed "+
				"cluster '%s'", target.Name)
		}
		if provisioner == nil {
			return nil, errors.New("A credential provisioner is required for managed clusters")
		}
	}

	return &Bootstrapper{
		target:      target,
		options:     options,
		conf:        conf,
		provisioner: provisioner,
		runner:      runner,
	}, nil
}

// Returns the steps to run for the target in the order they run
func (b *Bootstrapper) Steps() []Step {
	steps := make([]Step, 0)

	if b.target.IsManagedCloud {
		steps = append(steps, b.managedSteps()...)
	}

	steps = append(steps, b.commonSteps()...)

	if b.options.Oneclick {
		steps = append(steps, b.oneclickSteps()...)
	}

	return steps
}

// Runs each step in turn. Returns the first error, wrapped with the name of
// the step that failed. No later step runs after a failure or once ctx is
// cancelled.
func (b *Bootstrapper) Run(ctx context.Context) error {
	steps := b.Steps()

	log.Logger.Infof("Bootstrapping cluster '%s' (managed=%v) with %d steps",
		b.target.Name, b.target.IsManagedCloud, len(steps))

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "Bootstrap of cluster '%s' interrupted before step '%s'",
				b.target.Name, step.Name)
		}

		printer.StepStarted(i+1, len(steps), step.Name)
		log.Logger.Debugf("Running step '%s'", step.Name)

		err := step.Run(ctx)
		if err != nil {
			printer.StepFailed(step.Name)
			return errors.Wrapf(err, "Step '%s' failed", step.Name)
		}

		printer.StepSucceeded(step.Name)
	}

	_, err := printer.Fprintf("[bold][green]Cluster '%s' bootstrapped[reset]\n", b.target.Name)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}
