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

package structs

// Identifies the cluster every command in a run is issued against
type ClusterTarget struct {
	Name string
	// true if the control plane is run by a cloud provider (EKS), in which
	// case credentials need setting up before anything else
	IsManagedCloud bool
}

// Intrinsic data about the target that templates can refer to
func (t ClusterTarget) TemplateVars() map[string]interface{} {
	return map[string]interface{}{
		"Cluster": t.Name,
		"Managed": t.IsManagedCloud,
	}
}

// Credentials resolved for a managed cluster. Created once per run.
type CredentialContext struct {
	AccountId      string
	RoleName       string
	RoleArn        string
	KubeConfigPath string
	ContextAlias   string
}
