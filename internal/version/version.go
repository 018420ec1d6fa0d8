// Package version exposes the build version of the server.
package version

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/ndewijer/Billboard-Partnership-Backend/internal/version.Version=1.2.0"
var Version = "dev"
