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

package templater

import (
	"text/template"

	"github.com/clusterboot/clusterboot/internal/pkg/kubeconfig"
)

// functions available to chart value templates in addition to sprig's
var CustomFunctions = template.FuncMap{
	"contextAlias":   kubeconfig.ContextAlias,
	"kubeconfigFile": kubeconfig.FileName,
}
