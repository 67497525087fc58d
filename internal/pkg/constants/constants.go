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

package constants

const AppName = "clusterboot"

// env vars set on child processes
const EnvKubeConfig = "KUBECONFIG"
const EnvAwsProfile = "AWS_PROFILE"

// names of the bootstrap steps in the order they run
const StepProvisionCredentials = "provision credentials"
const StepConfigureKubeconfig = "configure kubeconfig"
const StepRemoveDefaultCNI = "remove default CNI"
const StepInstallReplacementCNI = "install replacement CNI"
const StepInstallAutoscaler = "install autoscaler"
const StepInstallCertManager = "install certificate manager"
const StepPatchClusterAgentTolerations = "patch cattle-cluster-agent tolerations"
const StepPatchWebhookTolerations = "patch rancher-webhook tolerations"
const StepPatchWebhookHostNetwork = "patch rancher-webhook host network"
const StepApplyExtraResources = "apply extra resources"

// kubeconfig files are named '<prefix><cluster><suffix>'
const KubeConfigPrefix = ".kubeconfig-"
const KubeConfigSuffix = "-bootstrap"

// context alias is '<cluster><suffix>'
const KubeContextSuffix = "-bootstrap"

// the autoscaler chart version is pinned. Upgrades are a code change.
const AutoscalerVersion = "1.4.0"

// chart value carrying the cluster name. Always set from the target.
const AutoscalerClusterNameKey = "settings.clusterName"

// workloads installed when a cluster is imported into Rancher
const RancherNamespace = "cattle-system"
const ClusterAgentDeployment = "deployment/cattle-cluster-agent"
const WebhookDeployment = "deployment/rancher-webhook"
