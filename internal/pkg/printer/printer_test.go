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

package printer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFprintfColour(t *testing.T) {
	var out bytes.Buffer
	SetOutput(&out)
	SetPlain(false)

	_, err := Fprintf("[green]%s[reset]", "done")
	require.Nil(t, err)
	assert.Equal(t, "\033[32mdone\033[0m\033[0m", out.String())
}

func TestFprintfPlain(t *testing.T) {
	var out bytes.Buffer
	SetOutput(&out)
	SetPlain(true)

	_, err := Fprintf("[bold][%d/%d][reset] %s...\n", 1, 4, "install certificate manager")
	require.Nil(t, err)
	assert.Equal(t, "[1/4] install certificate manager...\n", out.String())
}

func TestStepMessages(t *testing.T) {
	var out bytes.Buffer
	SetOutput(&out)
	SetPlain(true)

	StepStarted(2, 10, "remove default CNI")
	StepSucceeded("remove default CNI")
	StepFailed("install autoscaler")

	assert.Equal(t, "[2/10] remove default CNI...\n"+
		"✔ remove default CNI\n"+
		"✘ install autoscaler failed\n", out.String())
}
