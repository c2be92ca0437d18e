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

// Package util has some CLI related utility code.
package util

import (
	"github.com/purpleidea/alga/catalog"
	"github.com/purpleidea/alga/util/errwrap"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Error is a constant error type that implements error.
type Error string

// Error fulfills the error interface of this type.
func (e Error) Error() string { return string(e) }

const (
	// LawsFailed means that some law was falsified or was inconclusive.
	LawsFailed = Error("some laws did not verify")
)

// CliParseError returns a consistent error if we have a CLI parsing issue.
func CliParseError(err error) error {
	return errwrap.Wrapf(err, "cli parse error")
}

// Flags are some constant flags which are used throughout the program.
type Flags struct {
	Debug bool // add additional log messages

	Logf func(format string, v ...interface{})
}

// Data is a struct of values that we usually pass to the main CLI function.
type Data struct {
	Program string
	Version string
	Tagline string
	Flags   Flags
	Args    []string // os.Args usually

	// Fs is where the catalog and the output files are. It's usually the
	// os filesystem.
	Fs afero.Fs
}

// Logger returns the logger that backs the Logf of every component. The
// development config is more verbose and easier to read.
func Logger(debug bool) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't build the logger")
	}
	return logger.Sugar(), nil
}

// LoadCatalog returns the catalog in the file, or the compiled in one if the
// filename is empty.
func LoadCatalog(fs afero.Fs, filename string) (*catalog.Catalog, error) {
	if filename == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(fs, filename)
}
