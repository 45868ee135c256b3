package version

// Version is set at build time via -ldflags "-X github.com/livp123/vrcpresence/internal/version.Version=...".
// Version 在构建时通过 -ldflags 设置。
var Version = "dev"
