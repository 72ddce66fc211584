package version

// Version is set via build-time ldflags:
// go build -ldflags "-X git.home.luguber.info/inful/tfdriver/internal/version.Version=v1.0.0".
var Version = "dev"

// Build metadata, also ldflags-settable.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)
