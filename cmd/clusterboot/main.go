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

package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/clusterboot/clusterboot/internal/pkg/cmd"
	"github.com/clusterboot/clusterboot/internal/pkg/cmd/cli"
)

func main() {
	// cancelling kills the running child and no further steps start
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	baseName := filepath.Base(os.Args[0])

	err := cli.NewCommand(baseName).ExecuteContext(ctx)
	stop()
	cmd.CheckError(err)
}
