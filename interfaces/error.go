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

package interfaces

import (
	"github.com/purpleidea/alga/util"
)

const (
	// ErrMissingOperation is returned when a kind is claimed but one of its
	// ancestors' required operations is absent. Since a kind can only be
	// claimed once all of its parents are, this signals an inconsistent
	// catalog rather than a defect of the candidate type.
	ErrMissingOperation = util.Error("missing operation")

	// ErrAmbiguousDerivation is returned when more than one declared
	// operation could satisfy a required signature, and the catalog has no
	// priority rule to pick one of them. It is never resolved silently.
	ErrAmbiguousDerivation = util.Error("ambiguous derivation")

	// ErrNoGenerator is returned when no value generator is registered for
	// a type identifier. It is not fatal: the affected kinds are still
	// derived, but they are flagged as unverifiable.
	ErrNoGenerator = util.Error("no generator")

	// ErrCatalogCycle is returned when a structure kind is its own
	// ancestor.
	ErrCatalogCycle = util.Error("catalog cycle")

	// ErrDuplicateKind is returned when two structure kinds share a name.
	ErrDuplicateKind = util.Error("duplicate kind")

	// ErrDanglingParent is returned when a structure kind names a parent
	// which does not exist.
	ErrDanglingParent = util.Error("dangling parent")

	// ErrInconsistentKind is returned for every other malformed catalog
	// entry, such as an unknown operator, role or law, a requirement which
	// repeats an ancestor's, or a law which uses an unavailable operation.
	ErrInconsistentKind = util.Error("inconsistent kind")

	// ErrNotResolved is returned when a candidate explicitly requests a
	// kind which it does not resolve to.
	ErrNotResolved = util.Error("requested kind not resolved")
)
