// internal/version/version.go
package version

// Version is stamped at build time:
//
//	go build -ldflags "-X sumone/internal/version.Version=v1.2.3" ./cmd/sumone
var Version = "dev"
