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

package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/clusterboot/clusterboot/internal/pkg/log"
	"github.com/clusterboot/clusterboot/internal/pkg/program"
	"github.com/pkg/errors"
)

// An external command to run
type Command struct {
	Binary string
	Args   []string
	// merged over the inherited environment. These win on key collisions.
	Env map[string]string
	Dir string
}

// Returns the command as it'd be typed into a shell, with env overrides first
func (c Command) String() string {
	keys := sortedKeys(c.Env)
	parts := make([]string, 0, len(keys)+len(c.Args)+1)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, c.Env[k]))
	}
	parts = append(parts, c.Binary)
	parts = append(parts, c.Args...)

	return strings.Join(parts, " ")
}

// Runs commands with os/exec. Commands run in the foreground one at a time.
type ExecExecutor struct {
	TimeoutSeconds int
	Stdout         io.Writer
	Stderr         io.Writer
}

// Creates an executor that streams child output to this process's stdout and
// stderr. A timeout of 0 means no timeout.
func NewExecExecutor(timeoutSeconds int) *ExecExecutor {
	return &ExecExecutor{
		TimeoutSeconds: timeoutSeconds,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
	}
}

// Runs a command, streaming its output. Returns an error if it exits non-zero.
func (e ExecExecutor) Run(ctx context.Context, command Command) error {
	return ExecCommand(ctx, command, e.Stdout, e.Stderr, e.TimeoutSeconds)
}

// Runs a command and returns what it wrote to stdout
func (e ExecExecutor) Capture(ctx context.Context, command Command) (string, error) {
	var stdoutBuf bytes.Buffer
	err := ExecCommand(ctx, command, &stdoutBuf, e.Stderr, e.TimeoutSeconds)
	if err != nil {
		return stdoutBuf.String(), errors.WithStack(err)
	}

	return stdoutBuf.String(), nil
}

// Executes a command with an optional timeout, blocking until it exits. Stderr
// is written to the given writer and also kept so it can be included in the
// returned error.
func ExecCommand(ctx context.Context, command Command, stdout io.Writer,
	stderr io.Writer, timeoutSeconds int) error {

	var cancel context.CancelFunc
	if timeoutSeconds > 0 {
		log.Logger.Debugf("%s command will be run with a timeout of %d seconds",
			command.Binary, timeoutSeconds)

		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
		defer cancel()
	}

	var stderrBuf bytes.Buffer

	cmd := exec.CommandContext(ctx, command.Binary, command.Args...)
	cmd.Env = MergeEnv(os.Environ(), command.Env)
	cmd.Stdout = stdout
	cmd.Stderr = &stderrBuf
	if stderr != nil {
		cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)
	}

	if command.Dir != "" {
		cmd.Dir = command.Dir
	}

	log.Logger.Debugf("Executing command in directory '%s':\n%s\n",
		cmd.Dir, command.String())

	err := cmd.Run()
	if err == nil {
		return nil
	}

	failure := &program.ExternalCommandFailure{
		Command:  command.String(),
		Dir:      cmd.Dir,
		ExitCode: -1,
		Stderr:   stderrBuf.String(),
		Err:      err,
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		failure.ExitCode = exitErr.ExitCode()
	}

	switch ctx.Err() {
	case context.DeadlineExceeded:
		return errors.Wrapf(failure, "Timed out after %d seconds", timeoutSeconds)
	case context.Canceled:
		// the child was killed, so report the cancellation instead
		failure.Err = ctx.Err()
		return errors.Wrap(failure, "Interrupted")
	}

	return errors.WithStack(failure)
}

// Returns base with overrides applied. Existing keys are replaced in place so
// the result never holds two values for the same variable.
func MergeEnv(base []string, overrides map[string]string) []string {
	merged := make([]string, 0, len(base)+len(overrides))
	seen := make(map[string]bool, len(overrides))

	for _, kv := range base {
		key := kv
		if i := strings.Index(kv, "="); i >= 0 {
			key = kv[:i]
		}

		if v, ok := overrides[key]; ok {
			if !seen[key] {
				merged = append(merged, key+"="+v)
				seen[key] = true
			}
			continue
		}

		merged = append(merged, kv)
	}

	for _, k := range sortedKeys(overrides) {
		if !seen[k] {
			merged = append(merged, k+"="+overrides[k])
		}
	}

	return merged
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
