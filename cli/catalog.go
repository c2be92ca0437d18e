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
	"strings"

	cliUtil "github.com/purpleidea/alga/cli/util"
	"github.com/purpleidea/alga/util/errwrap"

	"github.com/spf13/afero"
)

// catalogCmd is the run of the `catalog` subcommand. Loading the catalog
// validates it, so a broken catalog errors here.
func catalogCmd(data *cliUtil.Data, args *cliUtil.CatalogCmdArgs) (bool, error) {
	c, err := cliUtil.LoadCatalog(data.Fs, args.Catalog)
	if err != nil {
		return false, err
	}

	if args.Graphviz != "" {
		if err := afero.WriteFile(data.Fs, args.Graphviz, []byte(c.Graphviz()), 0644); err != nil {
			return false, errwrap.Wrapf(err, "can't write graphviz file")
		}
		data.Flags.Logf("catalog: wrote graphviz to %s", args.Graphviz)
	}

	if args.Dump {
		b, err := c.ToYAML()
		if err != nil {
			return false, err
		}
		fmt.Printf("%s", b)
		return true, nil
	}

	for _, kind := range c.Kinds() {
		fmt.Printf("%s\n", kind)
		if len(kind.Parents) > 0 {
			fmt.Printf("  parents: %s\n", strings.Join(kind.Parents, "; "))
		}
		for _, req := range kind.Requires {
			fmt.Printf("  requires: %s\n", req)
		}
		for _, t := range kind.Transforms {
			fmt.Printf("  transform: %s\n", t)
		}
		for _, l := range kind.Laws {
			fmt.Printf("  law: %s: %s\n", l, l.Law.Formula)
		}
	}
	return true, nil
}
