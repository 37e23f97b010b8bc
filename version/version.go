package version

// Version is overridden at build time with -ldflags "-X github.com/Daskott/rolodex/version.Version=..."
var Version = "0.1.0"
