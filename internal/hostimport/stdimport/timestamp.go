package stdimport

import (
	"time"

	"github.com/ncruces/go-strftime"
)

// RFC3339Strftime is the strftime-token equivalent of time.RFC3339 with
// second precision and a literal "Z" UTC offset.
const RFC3339Strftime = "%Y-%m-%dT%H:%M:%SZ"

// FormatTimestamp renders t in UTC using strftime formatting (go-strftime,
// pulled indirectly via modernc.org/sqlite in the teacher's own dependency
// tree) rather than Go's reference-time layout. The CLI uses it for the
// audit log's started_at/ended_at timestamps.
func FormatTimestamp(t time.Time) string {
	return strftime.Format(RFC3339Strftime, t.UTC())
}
