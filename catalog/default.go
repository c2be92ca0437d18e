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

package catalog

import (
	_ "embed" // for go:embed
	"sync"
)

//go:embed default.yaml
var defaultCatalog []byte

var (
	defaultOnce sync.Once
	defaultObj  *Catalog
	defaultErr  error
)

// Default returns the built-in catalog. It is parsed once, and the same
// instance is returned to every caller.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultObj, defaultErr = Parse(defaultCatalog)
	})
	return defaultObj, defaultErr
}

// DefaultData returns a copy of the built-in catalog source.
func DefaultData() []byte {
	data := make([]byte, len(defaultCatalog))
	copy(data, defaultCatalog)
	return data
}
