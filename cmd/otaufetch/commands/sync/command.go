// Copyright 2023 Meta Platforms, Inc. and affiliates.
//
// Redistribution and use in source and binary forms, with or without modification, are permitted provided that the following conditions are met:
//
// 1. Redistributions of source code must retain the above copyright notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright notice, this list of conditions and the following disclaimer in the documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its contributors may be used to endorse or promote products derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/immune-gmbh/otaufetch/cmd/otaufetch/helpers"
	"github.com/immune-gmbh/otaufetch/pkg/commands"
	"github.com/immune-gmbh/otaufetch/pkg/otausync"
)

// Command is the implementation of `commands.Command`.
type Command struct {
	source helpers.SourceFlags
	dryRun *bool
}

// Usage prints the syntax of arguments for this command
func (cmd Command) Usage() string {
	return ""
}

// Description explains what this verb commands to do
func (cmd Command) Description() string {
	return "download the firmware files which are missing in the output directory"
}

// SetupFlagSet is called to allow the command implementation
// to setup which option flags it has.
func (cmd *Command) SetupFlagSet(flag *pflag.FlagSet) {
	cmd.source.Setup(flag)
	cmd.dryRun = flag.Bool("dry-run", false, "only print which files would be downloaded")
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the rest arguments after the command name.
func (cmd Command) Execute(ctx context.Context, cfg commands.Config, args []string) error {
	if len(args) != 0 {
		return commands.ErrArgs{Err: fmt.Errorf("unexpected arguments: %v", args)}
	}

	printer := helpers.NewPrinter(cfg)
	syncer, err := cmd.source.NewSyncer(
		otausync.OptionDryRun(*cmd.dryRun),
		otausync.OptionOnEntry(printer.PrintEntry),
	)
	if err != nil {
		return err
	}

	report, err := syncer.Sync(ctx)
	switch {
	case err == nil:
		printer.PrintSummary(report)
		return nil
	case errors.As(err, &otausync.ErrSyncFiles{}):
		printer.PrintSummary(report)
		if cfg.IsQuiet {
			return err
		}
		// each failure is already printed by PrintEntry
		return commands.SilentError{Err: err}
	default:
		return err
	}
}
