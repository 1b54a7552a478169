// Package timeutil centralizes campus-timezone arithmetic
// (America/Chicago). Follow-up schedules and the email send window run
// on campus local time regardless of where the service is deployed.
package timeutil

import "time"

// CampusTZ is the campus timezone. It observes DST; a fixed CST offset
// is the fallback when the zone database is unavailable.
var CampusTZ = loadCampusTZ()

func loadCampusTZ() *time.Location {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		return time.FixedZone("CST", -6*60*60)
	}
	return loc
}

// Now returns the current campus time.
func Now() time.Time {
	return time.Now().In(CampusTZ)
}

// ToCampus converts t to campus time.
func ToCampus(t time.Time) time.Time {
	return t.In(CampusTZ)
}

// The email send window. Invitation and follow-up emails outside these
// hours read as spam, so senders hold them until the window opens.
const (
	sendWindowOpen  = 8
	sendWindowClose = 20
)

// IsSafeNotificationTime reports whether t falls inside the send
// window (08:00-20:00 campus time).
func IsSafeNotificationTime(t time.Time) bool {
	hour := ToCampus(t).Hour()
	return hour >= sendWindowOpen && hour < sendWindowClose
}

// NextSafeNotificationTime returns t itself when inside the window,
// otherwise the next window opening.
func NextSafeNotificationTime(t time.Time) time.Time {
	local := ToCampus(t)
	hour := local.Hour()

	switch {
	case hour < sendWindowOpen:
		return time.Date(local.Year(), local.Month(), local.Day(), sendWindowOpen, 0, 0, 0, CampusTZ)
	case hour >= sendWindowClose:
		next := local.AddDate(0, 0, 1)
		return time.Date(next.Year(), next.Month(), next.Day(), sendWindowOpen, 0, 0, 0, CampusTZ)
	default:
		return local
	}
}
