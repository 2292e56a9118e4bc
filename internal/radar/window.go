package radar

import (
	"math"
	"time"
)

// InWindow reports whether published lies within days of now. The age is
// counted in whole elapsed days (rounded down), so an entry exactly days old
// is kept and one days+1 old is dropped. Entries dated in the future are kept.
func InWindow(published *time.Time, now time.Time, days int) bool {
	if published == nil {
		return false
	}
	age := now.Sub(*published)
	elapsedDays := int(math.Floor(age.Hours() / 24))
	return elapsedDays <= days
}
