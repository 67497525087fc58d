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

package config

import (
	"os"
	"os/user"
	"path"
	"path/filepath"
	"strings"

	"github.com/clusterboot/clusterboot/internal/pkg/constants"
	"github.com/clusterboot/clusterboot/internal/pkg/log"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

var Config *Conf
var ViperConfig *viper.Viper

func init() {
	ViperConfig = initViper(constants.AppName)
}

type Conf struct {
	JsonLogs bool   `mapstructure:"json-logs" yaml:"json-logs"`
	LogLevel string `mapstructure:"log-level" yaml:"log-level"`
	// AWS region used for the SDK session and `aws eks` calls. Empty means
	// the region comes from the AWS profile.
	Region string `mapstructure:"region" yaml:"region"`
	// IAM role assumed by the generated kubeconfig
	RoleName string `mapstructure:"role-name" yaml:"role-name"`
	// directory commands are run from and kubeconfig files are written to.
	// Defaults to the directory containing the binary.
	BaseDir string `mapstructure:"base-dir" yaml:"base-dir"`
	// 0 means commands can run forever
	TimeoutSeconds int         `mapstructure:"timeout-seconds" yaml:"timeout-seconds"`
	Binaries       Binaries    `mapstructure:"binaries" yaml:"binaries"`
	ExtraArgs      ExtraArgs   `mapstructure:"extra-args" yaml:"extra-args"`
	Cni            Cni         `mapstructure:"cni" yaml:"cni"`
	CertManager    CertManager `mapstructure:"cert-manager" yaml:"cert-manager"`
	Autoscaler     Autoscaler  `mapstructure:"autoscaler" yaml:"autoscaler"`
	Oneclick       Oneclick    `mapstructure:"oneclick" yaml:"oneclick"`
}

type Binaries struct {
	Aws     string `mapstructure:"aws" yaml:"aws"`
	Kubectl string `mapstructure:"kubectl" yaml:"kubectl"`
	Helm    string `mapstructure:"helm" yaml:"helm"`
}

// Shell-style argument strings prepended to every invocation of a tool
type ExtraArgs struct {
	Kubectl string `mapstructure:"kubectl" yaml:"kubectl"`
	Helm    string `mapstructure:"helm" yaml:"helm"`
}

type Cni struct {
	// the default CNI daemonset to remove from managed clusters
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
	DaemonSet string `mapstructure:"daemonset" yaml:"daemonset"`
	// kustomization dir (relative to the base dir) of the replacement CNI
	Kustomization string `mapstructure:"kustomization" yaml:"kustomization"`
}

type CertManager struct {
	Kustomization string `mapstructure:"kustomization" yaml:"kustomization"`
}

type Autoscaler struct {
	Release   string `mapstructure:"release" yaml:"release"`
	Chart     string `mapstructure:"chart" yaml:"chart"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
	// 'key=value' pairs. Values are templates. Viper lowercases map keys so
	// chart values (which are case-sensitive) are held as a list instead.
	Set []string `mapstructure:"set" yaml:"set"`
}

type Oneclick struct {
	// paths applied with `kubectl apply -R -f` on every cluster
	Paths []string `mapstructure:"paths" yaml:"paths"`
	// paths only applied to managed clusters
	ManagedPaths []string `mapstructure:"managed-paths" yaml:"managed-paths"`
}

func initViper(appName string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(appName)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	setDefaults(v)

	v.SetConfigName(appName)

	// add look-up paths (from highest priority to lowest)
	// current working directory
	cwd, err := os.Getwd()
	if err == nil {
		v.AddConfigPath(cwd)
	}

	// user's home dir (if we can retrieve it)
	usr, err := user.Current()
	if err == nil {
		v.AddConfigPath(path.Join(usr.HomeDir, "."+appName))
	}

	v.AddConfigPath(path.Join("/etc", appName))

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("json-logs", false)
	v.SetDefault("log-level", "info")
	v.SetDefault("region", "")
	v.SetDefault("role-name", "pet_terraform")
	v.SetDefault("base-dir", "")
	v.SetDefault("timeout-seconds", 0)

	v.SetDefault("binaries.aws", "aws")
	v.SetDefault("binaries.kubectl", "kubectl")
	v.SetDefault("binaries.helm", "helm")

	v.SetDefault("extra-args.kubectl", "")
	v.SetDefault("extra-args.helm", "")

	v.SetDefault("cni.namespace", "kube-system")
	v.SetDefault("cni.daemonset", "aws-node")
	v.SetDefault("cni.kustomization", "calico")

	v.SetDefault("cert-manager.kustomization", "cert-manager")

	v.SetDefault("autoscaler.release", "karpenter")
	v.SetDefault("autoscaler.chart", "oci://public.ecr.aws/karpenter/karpenter")
	v.SetDefault("autoscaler.namespace", "kube-system")
	v.SetDefault("autoscaler.set", []string{
		"controller.resources.requests.cpu=200m",
		"controller.resources.requests.memory=1Gi",
		"controller.resources.limits.cpu=1500m",
		"controller.resources.limits.memory=1Gi",
	})

	v.SetDefault("oneclick.paths", []string{})
	v.SetDefault("oneclick.managed-paths", []string{})
}

// Load/Reload the configuration. A missing config file isn't an error since
// the defaults describe a complete bootstrap.
func Load(viperConfig *viper.Viper) error {
	var newConf *Conf

	err := viperConfig.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.Wrapf(err, "Error loading configuration")
		}
		log.Logger.Debug("No config file found. Using defaults")
	} else {
		log.Logger.Debugf("Loaded config file '%s'", viperConfig.ConfigFileUsed())
	}

	err = viperConfig.Unmarshal(&newConf)
	if err != nil {
		return errors.Wrapf(err, "Error unmarshalling config")
	}

	Config = newConf

	return nil
}

// Returns the directory commands run from. If no base dir is configured it's
// the directory containing this binary.
func (c Conf) ResolveBaseDir() (string, error) {
	if c.BaseDir != "" {
		return filepath.Abs(c.BaseDir)
	}

	executable, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, "Failed to get the path of this binary")
	}

	return filepath.Dir(executable), nil
}

// Returns a YAML representation of the config
func (c Conf) AsYaml() (string, error) {
	yamlData, err := yaml.Marshal(c)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return string(yamlData[:]), nil
}
