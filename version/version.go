package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Product is the name sent in the User-Agent header.
const Product = "tiktok-shop-ex"

// Set at build time using -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info describes the running build.
type Info struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"git_commit,omitempty"`
	GoVersion string    `json:"go_version"`
	BuildDate time.Time `json:"build_date,omitempty"`
	IsRelease bool      `json:"is_release"`
	IsDirty   bool      `json:"is_dirty"`
}

// Get returns the build information, filling gaps from debug.ReadBuildInfo.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		IsRelease: Version != "dev" && !strings.Contains(Version, "dirty"),
	}
	if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
		info.BuildDate = t
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.modified":
			info.IsDirty = s.Value == "true"
		case "vcs.time":
			if info.BuildDate.IsZero() {
				info.BuildDate, _ = time.Parse(time.RFC3339, s.Value)
			}
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// Short returns "version[-commit][-dirty]".
func Short() string {
	return short(Get())
}

func short(info Info) string {
	s := info.Version
	if info.GitCommit != "" {
		s += "-" + info.GitCommit
	}
	if info.IsDirty {
		s += "-dirty"
	}
	return s
}

// Full returns the short version followed by the Go version and build date.
func Full() string {
	info := Get()
	s := short(info)
	if info.GoVersion != "" {
		s += " " + info.GoVersion
	}
	if !info.BuildDate.IsZero() {
		s += fmt.Sprintf(" (built %s)", info.BuildDate.UTC().Format(time.RFC3339))
	}
	return s
}

// UserAgent returns "tiktok-shop-ex/<short version>".
func UserAgent() string {
	return Product + "/" + Short()
}
