package version

import (
	"crypto/sha256"
	"fmt"
	"runtime/debug"
	"sync"
)

// Set with -ldflags "-X github.com/standardbeagle/docnav/internal/version.GitCommit=..."
var (
	Version   = "0.1.0"
	BuildDate = "development"
	GitCommit = "unknown"
)

// Info returns the semantic version
func Info() string {
	return Version
}

// FullInfo returns detailed version information
func FullInfo() string {
	return "docnav " + Version + " (commit: " + GitCommit + ", built: " + BuildDate + ", build: " + BuildID() + ")"
}

var (
	buildID     string
	buildIDOnce sync.Once
)

// BuildID fingerprints the running binary from its Go version, module
// and VCS settings.
func BuildID() string {
	buildIDOnce.Do(func() {
		buildID = computeBuildID()
	})
	return buildID
}

func computeBuildID() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version + "-" + GitCommit
	}

	h := sha256.New()
	h.Write([]byte(info.GoVersion))
	h.Write([]byte(info.Main.Path))
	h.Write([]byte(info.Main.Version))
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision", "vcs.modified", "vcs.time":
			h.Write([]byte(s.Key))
			h.Write([]byte(s.Value))
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}
