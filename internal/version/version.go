package version

import "runtime/debug"

// Version is overridden at link time:
//
//	go build -ldflags "-X novokmer/internal/version.Version=v1.2.3"
var Version = "dev"

func init() {
	if Version != "dev" {
		return
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		Version = bi.Main.Version
	}
}
