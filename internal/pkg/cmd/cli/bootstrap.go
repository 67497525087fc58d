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
	"context"
	"io"

	"github.com/clusterboot/clusterboot/internal/pkg/bootstrap"
	"github.com/clusterboot/clusterboot/internal/pkg/cmd"
	cliutils "github.com/clusterboot/clusterboot/internal/pkg/cmd/cli/utils"
	"github.com/clusterboot/clusterboot/internal/pkg/config"
	"github.com/clusterboot/clusterboot/internal/pkg/credentials"
	"github.com/clusterboot/clusterboot/internal/pkg/interfaces"
	"github.com/clusterboot/clusterboot/internal/pkg/kubeconfig"
	"github.com/clusterboot/clusterboot/internal/pkg/log"
	"github.com/clusterboot/clusterboot/internal/pkg/printer"
	"github.com/clusterboot/clusterboot/internal/pkg/runner"
	"github.com/clusterboot/clusterboot/internal/pkg/structs"
	"github.com/clusterboot/clusterboot/internal/pkg/utils"
	"github.com/pkg/errors"
)

type bootstrapCmd struct {
	out           io.Writer
	verbose       bool
	logLevel      string
	jsonLogs      bool
	configFile    string
	cluster       string
	account       string
	oneclick      bool
	oneclickPaths cmd.Paths
	region        string
	baseDir       string
}

// Log level to use when none is given explicitly
func (c *bootstrapCmd) defaultLogLevel() string {
	if c.verbose {
		return "debug"
	}
	return ""
}

func (c *bootstrapCmd) run(ctx context.Context) error {
	logLevel := c.logLevel
	if logLevel == "" {
		logLevel = c.defaultLogLevel()
	}

	// CLI overrides - will be merged with and take precedence over values
	// loaded from the config file
	cliConf := &config.Conf{
		JsonLogs: c.jsonLogs,
		LogLevel: logLevel,
		Region:   c.region,
		BaseDir:  c.baseDir,
		Oneclick: config.Oneclick{
			Paths: c.oneclickPaths,
		},
	}

	conf, err := cliutils.BuildConfig(config.ViperConfig, c.configFile, cliConf)
	if err != nil {
		return errors.WithStack(err)
	}

	log.ConfigureLogger(conf.LogLevel, conf.JsonLogs)
	printer.SetOutput(c.out)
	printer.SetPlain(conf.JsonLogs)

	if log.IsVerbose() {
		yamlConf, err := conf.AsYaml()
		if err != nil {
			return errors.WithStack(err)
		}
		log.Logger.Debugf("Running with config:\n%s", yamlConf)
	}

	target := structs.ClusterTarget{
		Name:           c.cluster,
		IsManagedCloud: c.account != "",
	}

	err = utils.CheckBinaries(cliutils.RequiredBinaries(target, conf.Binaries)...)
	if err != nil {
		return errors.WithStack(err)
	}

	baseDir, err := conf.ResolveBaseDir()
	if err != nil {
		return errors.WithStack(err)
	}
	log.Logger.Debugf("Running commands from '%s'", baseDir)

	executor := utils.NewExecExecutor(conf.TimeoutSeconds)
	executor.Stdout = c.out

	clusterRunner, err := runner.New(executor, target, kubeconfig.Path(baseDir, target.Name),
		baseDir, conf.Binaries, conf.ExtraArgs)
	if err != nil {
		return errors.WithStack(err)
	}

	var provisioner interfaces.ICredentialProvisioner
	if target.IsManagedCloud {
		provisioner = credentials.New(executor, nil, baseDir, conf.Region, conf.RoleName,
			conf.Binaries.Aws)
	}

	bootstrapper, err := bootstrap.New(target, bootstrap.Options{
		AccountId: c.account,
		Oneclick:  c.oneclick,
	}, *conf, provisioner, clusterRunner)
	if err != nil {
		return errors.WithStack(err)
	}

	return bootstrapper.Run(ctx)
}
