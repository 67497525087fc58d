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

package interfaces

import (
	"context"

	"github.com/clusterboot/clusterboot/internal/pkg/structs"
	"github.com/clusterboot/clusterboot/internal/pkg/utils"
)

// Runs external commands
type IExecutor interface {
	// Runs a command, streaming its output. Returns an error if it exits non-zero.
	Run(ctx context.Context, command utils.Command) error
	// Runs a command and returns its stdout
	Capture(ctx context.Context, command utils.Command) (string, error)
}

// Runs the tools used against a single cluster
type IRunner interface {
	Kubectl(ctx context.Context, args ...string) error
	Helm(ctx context.Context, args ...string) error
	Patch(ctx context.Context, patch structs.PatchDescriptor) error
	KubeConfigPath() string
}
