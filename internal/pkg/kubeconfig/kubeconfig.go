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

// Package kubeconfig names and checks the kubeconfig file each run writes for
// its target cluster.
package kubeconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/clusterboot/clusterboot/internal/pkg/constants"
	"github.com/clusterboot/clusterboot/internal/pkg/log"
	"github.com/pkg/errors"
	"k8s.io/client-go/tools/clientcmd"
)

// Returns the file name of the kubeconfig for a cluster. It only depends on
// the cluster name so repeated runs reuse the same file.
func FileName(cluster string) string {
	return constants.KubeConfigPrefix + cluster + constants.KubeConfigSuffix
}

// Returns the path to the kubeconfig for a cluster under the base directory
func Path(baseDir string, cluster string) string {
	return filepath.Join(baseDir, FileName(cluster))
}

// Returns the context name the kubeconfig generator is asked to use. Reusing
// it means reruns overwrite the context instead of adding new ones.
func ContextAlias(cluster string) string {
	return cluster + constants.KubeContextSuffix
}

// Checks the kubeconfig at path has a context called alias with a cluster and
// user behind it, and makes that context current. The file is only rewritten
// if the current context had to change.
func Verify(path string, alias string) error {
	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(err, "Kubeconfig file '%s' doesn't exist", path)
	}

	kubeConfig, err := clientcmd.LoadFromFile(path)
	if err != nil {
		return errors.Wrapf(err, "Error loading kubeconfig file '%s'", path)
	}

	kubeContext, ok := kubeConfig.Contexts[alias]
	if !ok {
		names := make([]string, 0, len(kubeConfig.Contexts))
		for name := range kubeConfig.Contexts {
			names = append(names, name)
		}
		sort.Strings(names)

		return errors.New(fmt.Sprintf("Kubeconfig file '%s' has no context '%s'. "+
			"Contexts found: %s", path, alias, strings.Join(names, ", ")))
	}

	if _, ok := kubeConfig.Clusters[kubeContext.Cluster]; !ok {
		return errors.New(fmt.Sprintf("Context '%s' refers to missing cluster '%s' in '%s'",
			alias, kubeContext.Cluster, path))
	}

	if _, ok := kubeConfig.AuthInfos[kubeContext.AuthInfo]; !ok {
		return errors.New(fmt.Sprintf("Context '%s' refers to missing user '%s' in '%s'",
			alias, kubeContext.AuthInfo, path))
	}

	if kubeConfig.CurrentContext == alias {
		log.Logger.Debugf("Context '%s' is already current in '%s'", alias, path)
		return nil
	}

	log.Logger.Infof("Switching current context in '%s' from '%s' to '%s'", path,
		kubeConfig.CurrentContext, alias)
	kubeConfig.CurrentContext = alias

	err = clientcmd.WriteToFile(*kubeConfig, path)
	if err != nil {
		return errors.Wrapf(err, "Error writing kubeconfig file '%s'", path)
	}

	return nil
}
