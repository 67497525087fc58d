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
	"github.com/clusterboot/clusterboot/internal/pkg/config"
	"github.com/clusterboot/clusterboot/internal/pkg/log"
	"github.com/clusterboot/clusterboot/internal/pkg/structs"
	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Loads config from the given file (or the default search paths if it's
// empty) and merges values from CLI flags over it. Non-empty CLI values take
// precedence.
func BuildConfig(viperConfig *viper.Viper, configFile string,
	cliConf *config.Conf) (*config.Conf, error) {

	if configFile != "" {
		viperConfig.SetConfigFile(configFile)
	}

	err := config.Load(viperConfig)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// copy so the global loaded config isn't modified
	conf := *config.Config

	err = mergo.Merge(&conf, cliConf, mergo.WithOverride)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	log.Logger.Debugf("Final config: %#v", conf)

	return &conf, nil
}

// Returns the binaries that must be on the PATH to bootstrap the target
func RequiredBinaries(target structs.ClusterTarget, binaries config.Binaries) []string {
	if target.IsManagedCloud {
		return []string{binaries.Aws, binaries.Kubectl, binaries.Helm}
	}

	return []string{binaries.Kubectl}
}
