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

// Package printer writes progress messages for operators. Text may contain
// colorstring codes like [green] and [reset].
package printer

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/colorstring"
)

var writer io.Writer = os.Stdout

// disables colour codes, e.g. when output isn't a terminal
var plain = false

func SetOutput(out io.Writer) {
	writer = out
}

func SetPlain(disable bool) {
	plain = disable
}

func colorize() *colorstring.Colorize {
	return &colorstring.Colorize{
		Colors:  colorstring.DefaultColors,
		Disable: plain,
		Reset:   true,
	}
}

func Fprintf(format string, args ...interface{}) (int, error) {
	return writer.Write([]byte(colorize().Color(fmt.Sprintf(format, args...))))
}

func Fprintln(text string) (int, error) {
	return Fprintf("%s\n", text)
}

// Announces that a bootstrap step is starting
func StepStarted(index int, total int, name string) {
	_, _ = Fprintf("[bold][%d/%d][reset] %s...\n", index, total, name)
}

// Reports that a step finished successfully
func StepSucceeded(name string) {
	_, _ = Fprintf("[green]✔ %s[reset]\n", name)
}

// Reports that a step failed. The error itself is printed by the caller.
func StepFailed(name string) {
	_, _ = Fprintf("[red]✘ %s failed[reset]\n", name)
}
