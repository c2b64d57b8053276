// Package version reports the build version of the client, used in the
// User-Agent header and by shopctl --version.
//
// Values are set at link time:
//
//	go build -ldflags "-X github.com/letanthang/tiktok-shop-ex/version.Version=1.2.0 \
//	    -X github.com/letanthang/tiktok-shop-ex/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Without ldflags the commit and build time are read from the module's
// embedded VCS settings.
package version
