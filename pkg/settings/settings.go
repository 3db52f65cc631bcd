// Package settings holds build metadata and per-run CLI settings.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "cardtree"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds the settings of a single CLI invocation.
type Run struct {
	MinLogLevel int8
	ConfigFile  string
	NoColor     bool
	DryRun      bool
	// OutPath overrides where mutating commands write; empty means the input file.
	OutPath string
}

// NewCliParams returns the defaults used before flags are parsed.
func NewCliParams() *Run {
	return &Run{}
}
