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

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
)

// The --type values kubectl patch accepts
type PatchType string

const (
	PatchTypeMerge     PatchType = "merge"
	PatchTypeStrategic PatchType = "strategic"
	PatchTypeJson      PatchType = "json"
)

// Returns the content type the API server receives for this kind of patch
func (t PatchType) MediaType() (types.PatchType, error) {
	switch t {
	case PatchTypeMerge:
		return types.MergePatchType, nil
	case PatchTypeStrategic:
		return types.StrategicMergePatchType, nil
	case PatchTypeJson:
		return types.JSONPatchType, nil
	}

	return "", errors.New(fmt.Sprintf("Unsupported patch type '%s'", t))
}

// A patch to apply to a single resource
type PatchDescriptor struct {
	Namespace string
	Target    string // e.g. deployment/rancher-webhook
	Body      interface{}
	Type      PatchType
}

// Serialises the body to the JSON kubectl expects for --patch
func (p PatchDescriptor) Serialise() (string, error) {
	if _, err := p.Type.MediaType(); err != nil {
		return "", errors.WithStack(err)
	}

	jsonBytes, err := json.Marshal(p.Body)
	if err != nil {
		return "", errors.Wrapf(err, "Error serialising patch for %s in namespace %s",
			p.Target, p.Namespace)
	}

	return string(jsonBytes), nil
}

// Returns a copy of the patch aimed at a different resource
func (p PatchDescriptor) For(namespace string, target string) PatchDescriptor {
	p.Namespace = namespace
	p.Target = target
	return p
}

// The fragment of a Deployment (or DaemonSet) that's patched. Only the pod
// template spec is ever touched.
type WorkloadPatch struct {
	Spec WorkloadSpecPatch `json:"spec"`
}

type WorkloadSpecPatch struct {
	Template PodTemplatePatch `json:"template"`
}

type PodTemplatePatch struct {
	Spec PodSpecPatch `json:"spec"`
}

type PodSpecPatch struct {
	Tolerations []corev1.Toleration `json:"tolerations,omitempty"`
	HostNetwork bool                `json:"hostNetwork,omitempty"`
}

// Toleration that lets pods schedule on nodes tainted for critical add-ons
var CriticalAddonsToleration = corev1.Toleration{
	Key:      "CriticalAddonsOnly",
	Operator: corev1.TolerationOpExists,
}

// Returns a merge patch that adds the critical add-ons toleration. A new value
// is built each time so callers can't share mutable state.
func CriticalAddonsPatch() PatchDescriptor {
	return PatchDescriptor{
		Type: PatchTypeMerge,
		Body: WorkloadPatch{
			Spec: WorkloadSpecPatch{
				Template: PodTemplatePatch{
					Spec: PodSpecPatch{
						Tolerations: []corev1.Toleration{CriticalAddonsToleration},
					},
				},
			},
		},
	}
}

// Returns a merge patch that switches pods to the host's network namespace
func HostNetworkPatch() PatchDescriptor {
	return PatchDescriptor{
		Type: PatchTypeMerge,
		Body: WorkloadPatch{
			Spec: WorkloadSpecPatch{
				Template: PodTemplatePatch{
					Spec: PodSpecPatch{
						HostNetwork: true,
					},
				},
			},
		},
	}
}
