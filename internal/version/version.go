package version

// Version is overridden at build time with -ldflags "-X github.com/bnema/usahome-cli/internal/version.Version=...".
var Version = "dev"
