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
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/clusterboot/clusterboot/internal/pkg/log"
	"github.com/pkg/errors"
)

// Returns a template rendered with the given input variables
func RenderTemplate(inputTemplate string, vars map[string]interface{}) (string, error) {
	tpl, err := template.New("gotpl").
		Funcs(sprig.TxtFuncMap()).
		Funcs(CustomFunctions).
		Option("missingkey=error").
		Parse(inputTemplate)
	if err != nil {
		return "", errors.Wrapf(err, "Error parsing template: %s", inputTemplate)
	}

	buf := bytes.NewBuffer(nil)
	err = tpl.Execute(buf, vars)
	if err != nil {
		return "", errors.Wrapf(err, "Error executing template: %s", inputTemplate)
	}

	return buf.String(), nil
}

// Parses a list of 'key=value' strings into a map, rendering each value as a
// template. Keys are left as they are. Later pairs override earlier ones.
func RenderValues(pairs []string, vars map[string]interface{}) (map[string]string, error) {
	values := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		i := strings.Index(pair, "=")
		if i <= 0 {
			return nil, errors.New(fmt.Sprintf("Invalid value '%s'. Values must "+
				"be given as 'key=value'", pair))
		}

		key := strings.TrimSpace(pair[:i])
		rendered, err := RenderTemplate(pair[i+1:], vars)
		if err != nil {
			return nil, errors.Wrapf(err, "Error rendering value for key '%s'", key)
		}

		if previous, ok := values[key]; ok {
			log.Logger.Debugf("Value '%s' overrides previous value '%s' for key '%s'",
				rendered, previous, key)
		}

		values[key] = rendered
	}

	return values, nil
}
