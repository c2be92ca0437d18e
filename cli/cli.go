// Alga
// Copyright (C) 2013-2019+ James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package cli handles all of the core command line parsing. It's the first
// entry point after the real main function, and it runs the derivation engine.
package cli

import (
	"context"
	"fmt"
	"os"

	cliUtil "github.com/purpleidea/alga/cli/util"
	"github.com/purpleidea/alga/util/errwrap"

	"github.com/alexflint/go-arg"
)

// CLI is the entry point for using alga normally from the CLI.
func CLI(ctx context.Context, data *cliUtil.Data) error {
	// test for sanity
	if data == nil {
		return fmt.Errorf("this CLI was not run correctly")
	}
	if data.Program == "" || data.Version == "" {
		return fmt.Errorf("program was not compiled correctly")
	}
	if data.Fs == nil {
		return fmt.Errorf("the Fs is missing")
	}

	args := Args{}
	args.version = data.Version // copy this in
	args.description = data.Tagline

	config := arg.Config{
		Program: data.Program,
	}
	parser, err := arg.NewParser(config, &args)
	if err != nil {
		// programming error
		return errwrap.Wrapf(err, "cli config error")
	}
	err = parser.Parse(data.Args[1:])
	if err == arg.ErrHelp {
		parser.WriteHelp(os.Stdout)
		return nil
	}
	if err == arg.ErrVersion {
		fmt.Printf("%s\n", data.Version) // byon: bring your own newline
		return nil
	}
	if err != nil {
		return cliUtil.CliParseError(err) // consistent errors
	}

	if args.Debug {
		data.Flags.Debug = true
	}
	if data.Flags.Logf == nil {
		logger, err := cliUtil.Logger(data.Flags.Debug)
		if err != nil {
			return err
		}
		defer logger.Sync() // flush
		data.Flags.Logf = logger.Infof
	}

	if ok, err := args.Run(ctx, data); err != nil {
		return err
	} else if ok { // did we activate one of the commands?
		return nil
	}

	// print help if no subcommands are set
	parser.WriteHelp(os.Stdout)

	return nil
}

// Args is the CLI parsing structure and type of the parsed result. This
// particular struct is the top-most one.
type Args struct {
	Debug bool `arg:"--debug,env:ALGA_DEBUG" help:"add additional log messages"`

	DeriveCmd *cliUtil.DeriveArgs `arg:"subcommand:derive" help:"derive the structures of algebras and check their laws"`

	CatalogCmd *cliUtil.CatalogCmdArgs `arg:"subcommand:catalog" help:"validate and display the structure catalog"`

	RenderCmd *cliUtil.RenderArgs `arg:"subcommand:render" help:"generate golang source of the derived capabilities"`

	// version is a private handle for our version string.
	version string `arg:"-"` // ignored from parsing

	// description is a private handle for our description string.
	description string `arg:"-"` // ignored from parsing
}

// Version returns the version string. Implementing this signature is part of
// the API for the cli library.
func (obj *Args) Version() string {
	return obj.version
}

// Description returns a description string. Implementing this signature is part
// of the API for the cli library.
func (obj *Args) Description() string {
	return obj.description
}

// Run executes the correct subcommand. It errors if there's ever an error. It
// returns true if we did activate one of the subcommands. It returns false if
// we did not. This information is used so that the top-level parser can return
// usage or help information if no subcommand activates.
func (obj *Args) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	if cmd := obj.DeriveCmd; cmd != nil {
		name := cliUtil.LookupSubcommand(obj, cmd) // "derive"
		return deriveCmd(ctx, data, name, cmd)
	}

	if cmd := obj.CatalogCmd; cmd != nil {
		return catalogCmd(data, cmd)
	}

	if cmd := obj.RenderCmd; cmd != nil {
		return render(data, cmd)
	}

	return false, nil // nobody activated
}
