package config

// Version is reported by /health and the startup log. Release builds set it
// with -ldflags "-X github.com/persistorai/movierec/internal/config.Version=v1.2.3".
var Version = "dev"
