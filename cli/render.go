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

package cli

import (
	"fmt"

	"github.com/purpleidea/alga/algebras"
	cliUtil "github.com/purpleidea/alga/cli/util"
	"github.com/purpleidea/alga/derive"
	"github.com/purpleidea/alga/extract"
	"github.com/purpleidea/alga/resolver"
	"github.com/purpleidea/alga/util/errwrap"

	"github.com/spf13/afero"
)

// render is the run of the `render` subcommand. It doesn't check any laws.
func render(data *cliUtil.Data, args *cliUtil.RenderArgs) (bool, error) {
	Logf := func(format string, v ...interface{}) {
		data.Flags.Logf("render: "+format, v...)
	}

	c, err := cliUtil.LoadCatalog(data.Fs, args.Catalog)
	if err != nil {
		return false, err
	}
	desc, err := algebras.Lookup(args.Type)
	if err != nil {
		return false, cliUtil.CliParseError(err)
	}
	candidate, err := extract.Extract(desc)
	if err != nil {
		return false, err
	}
	r := &resolver.Resolver{
		Catalog: c, // no generators, since nothing is checked
		Debug:   data.Flags.Debug,
		Logf:    Logf,
	}
	resolution, err := r.Resolve(candidate)
	if err != nil {
		return false, err
	}
	s := &derive.Synthesizer{
		Catalog: c,
		Debug:   data.Flags.Debug,
		Logf:    Logf,
	}
	derivation, err := s.Synthesize(candidate, resolution)
	if err != nil {
		return false, err
	}

	opts := &derive.RenderOptions{
		Package: args.Package,
		Imports: []string{"github.com/purpleidea/alga/algebras"},
	}
	if args.Package == "algebras" { // generated into the algebras package
		opts.Imports = nil
		opts.Local = "algebras"
	}
	out, err := derive.Render(derivation, opts)
	if err != nil {
		return false, err
	}

	if args.Output == "" {
		fmt.Printf("%s", out)
		return true, nil
	}
	if err := afero.WriteFile(data.Fs, args.Output, []byte(out), 0644); err != nil {
		return false, errwrap.Wrapf(err, "can't write output")
	}
	Logf("wrote %d capabilities to %s", len(derivation.Capabilities), args.Output)
	return true, nil
}
