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

package program

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// SilentError is used to indicate that the program should exit with a non-zero error code, but there's no need to
// print any error message (it's to be used where the error message has already been printed)
type SilentError struct {
}

func (e SilentError) Error() string {
	return "silent error"
}

// CredentialLookupError is returned when the role or profile needed to talk to
// a managed cluster can't be resolved. It's raised before anything touches the
// cluster.
type CredentialLookupError struct {
	Profile string
	Role    string
	Err     error
}

func (e *CredentialLookupError) Error() string {
	return fmt.Sprintf("failed to look up role '%s' with profile '%s': %v",
		e.Role, e.Profile, e.Err)
}

func (e *CredentialLookupError) Unwrap() error {
	return e.Err
}

// ExternalCommandFailure is returned when an invoked tool exits non-zero (or
// can't be started at all, in which case ExitCode is -1)
type ExternalCommandFailure struct {
	Command  string
	Dir      string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExternalCommandFailure) Error() string {
	msg := fmt.Sprintf("command exited with status %d in directory '%s':\n%s",
		e.ExitCode, e.Dir, e.Command)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg = fmt.Sprintf("%s\nStderr=%s", msg, stderr)
	}
	return msg
}

func (e *ExternalCommandFailure) Unwrap() error {
	return e.Err
}

// prefix of the error kubectl prints when the API server reports that the
// object doesn't exist. Client-side failures (missing kubeconfig contexts,
// credential plugins) also say "not found" but never carry it.
const apiServerNotFound = "Error from server (NotFound)"

// IsIgnorableAbsence returns true if err is a command failure caused by the
// API server reporting that the target resource doesn't exist. Only the
// default CNI removal treats this as success.
func IsIgnorableAbsence(err error) bool {
	var failure *ExternalCommandFailure
	if !errors.As(err, &failure) {
		return false
	}

	return strings.Contains(failure.Stderr, apiServerNotFound)
}
