package config

// Version is the corecrm binary version.
// Set at build time via: -ldflags "-X github.com/municipallabs/corecrm/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
