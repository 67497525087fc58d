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

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/clusterboot/clusterboot/internal/pkg/log"
	"github.com/clusterboot/clusterboot/internal/pkg/program"
	"github.com/pkg/errors"
)

// CheckError prints err to stderr and exits with code 1 if err is not nil. Otherwise, it is a
// no-op.
func CheckError(err error) {
	if err == nil {
		return
	}

	err2 := PrintError(os.Stderr, err, log.IsVerbose())
	if err2 != nil {
		panic(err2)
	}

	os.Exit(1)
}

// Writes a message describing err. Nothing is written for a SilentError.
// Stack traces are only included when verbose.
func PrintError(out io.Writer, err error, verbose bool) error {
	var silent program.SilentError
	if errors.As(err, &silent) {
		return nil
	}

	var msg string
	switch {
	case errors.Is(err, context.Canceled):
		msg = fmt.Sprintf("Interrupted: %v\n", err)
	case verbose:
		msg = fmt.Sprintf("An error occurred: %+v\n", err)
	default:
		msg = fmt.Sprintf("An error occurred: %v\n\n"+
			"Run with `-l debug` or `-l trace` for a full stacktrace.\n", err)
	}

	_, err2 := fmt.Fprint(out, msg)
	return err2
}
