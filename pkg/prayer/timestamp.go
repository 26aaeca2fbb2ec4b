package prayer

import "time"

// layoutClient is the locale form the backend stores, "2024.03.05 14:30:00".
const layoutClient = "2006.01.02 15:04:05"

// ClientTimestamp renders a timestamp the way optimistic adds record it, in
// the same shape the backend writes for server-assigned dates.
func ClientTimestamp(t time.Time) string {
	return t.Format(layoutClient)
}
