package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// MaxPageBodyBytes caps how much of a target page we read when hunting
	// for script references.
	MaxPageBodyBytes = 512 * 1024
	// MaxScriptBodyBytes caps how much of a script asset we read for
	// fingerprinting. Version markers sit near the top of most bundles, but
	// minified builds can push them down, so the cap is generous.
	MaxScriptBodyBytes = 3 * 1024 * 1024
	// DefaultProbeTimeout bounds every individual network probe so a single
	// unreachable host cannot stall a whole scan.
	DefaultProbeTimeout = 10 * time.Second
)
