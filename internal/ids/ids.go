// Package ids generates and validates the identifiers used for users and
// issues. KSUIDs sort by creation time, which keeps paginated listings stable
// without an extra sequence column.
package ids

import "github.com/segmentio/ksuid"

func New() string {
	return ksuid.New().String()
}

// Valid reports whether s is a well-formed identifier. Handlers call this
// before any store lookup so malformed ids fail as bad requests instead of
// surfacing driver errors.
func Valid(s string) bool {
	if s == "" {
		return false
	}
	_, err := ksuid.Parse(s)
	return err == nil
}
