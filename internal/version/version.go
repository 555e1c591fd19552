package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/tidyup/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/tidyup/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/tidyup/internal/version.Date={{.Date}}
)

// String is the one line version shown by the CLI
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
