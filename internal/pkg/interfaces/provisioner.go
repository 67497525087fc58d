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
)

type ICredentialProvisioner interface {
	// Resolves credentials for the account and writes a kubeconfig for the
	// cluster that assumes the bootstrap role
	ResolveAndWriteKubeconfig(ctx context.Context, accountId string,
		cluster string) (*structs.CredentialContext, error)
}
