package jot

import (
	_ "embed"
)

// Version is the library and CLI version, read from the VERSION file.
//
//go:embed VERSION
var Version string
