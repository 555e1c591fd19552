package template

import (
	"time"

	"github.com/itchyny/timefmt-go"
)

// Strftime formats t using C strftime directives. Unknown directives are
// kept verbatim.
func Strftime(t time.Time, format string) string {
	return timefmt.Format(t, format)
}
