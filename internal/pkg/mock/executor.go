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

package mock

import (
	"context"
	"strings"

	"github.com/clusterboot/clusterboot/internal/pkg/program"
	"github.com/clusterboot/clusterboot/internal/pkg/utils"
)

// An executor that records commands instead of running them
type Executor struct {
	Commands []utils.Command
	// returns the error to fail a command with, or nil for success
	FailWhen func(command utils.Command) error
	// stdout returned by Capture
	Output string
}

func (e *Executor) Run(ctx context.Context, command utils.Command) error {
	e.Commands = append(e.Commands, command)

	if e.FailWhen != nil {
		return e.FailWhen(command)
	}

	return nil
}

func (e *Executor) Capture(ctx context.Context, command utils.Command) (string, error) {
	err := e.Run(ctx, command)
	return e.Output, err
}

// Returns each recorded command as a single string without env vars, e.g.
// 'kubectl apply -k calico'
func (e *Executor) CommandLines() []string {
	lines := make([]string, len(e.Commands))
	for i, command := range e.Commands {
		lines[i] = strings.Join(append([]string{command.Binary}, command.Args...), " ")
	}
	return lines
}

// Returns a FailWhen func that fails any command containing substr with the
// given stderr
func FailContaining(substr string, stderr string) func(command utils.Command) error {
	return func(command utils.Command) error {
		line := strings.Join(append([]string{command.Binary}, command.Args...), " ")
		if !strings.Contains(line, substr) {
			return nil
		}

		return &program.ExternalCommandFailure{
			Command:  line,
			Dir:      command.Dir,
			ExitCode: 1,
			Stderr:   stderr,
		}
	}
}
