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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/purpleidea/alga/cli"
	cliUtil "github.com/purpleidea/alga/cli/util"

	"github.com/spf13/afero"
)

// These constants are some global variables that are used throughout the code.
const (
	tagline = "derive algebraic structures and check their laws"
	debug   = false // add additional log messages
)

// set at compile time
var (
	program string
	version string
)

func main() {
	if program == "" {
		program = "alga"
	}
	if version == "" {
		version = "devel"
	}
	data := &cliUtil.Data{
		Program: program,
		Version: version,
		Tagline: tagline,
		Flags: cliUtil.Flags{
			Debug: debug,
		},
		Args: os.Args,
		Fs:   afero.NewOsFs(),
	}
	if err := cli.CLI(context.Background(), data); err != nil {
		fmt.Println(err)
		os.Exit(1)
		return
	}
}
