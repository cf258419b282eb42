package version

// Version holds the packmeta version. Set at build time via
// -ldflags "-X github.com/packmeta/packmeta/pkg/version.Version=...".
var Version = "dev"
