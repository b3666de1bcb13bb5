package timemodel

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	// Embedded zone database so every IANA id resolves on hosts without
	// a system zoneinfo tree.
	_ "time/tzdata"
)

// LocalZoneID names the host zone when its IANA name is unknown.
const LocalZoneID = "Local"

// ResolveZone loads the named IANA zone. Empty and "Local" resolve to the
// host zone with ok=true; an unknown id also resolves to the host zone but
// reports ok=false so the caller can log the substitution.
func ResolveZone(id string) (loc *time.Location, ok bool) {
	if id == "" || id == LocalZoneID {
		return time.Local, true
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return time.Local, false
	}
	return loc, true
}

// ValidZone reports whether id names a loadable zone.
func ValidZone(id string) bool {
	if id == "" {
		return false
	}
	if id == LocalZoneID {
		return true
	}
	_, err := time.LoadLocation(id)
	return err == nil
}

// HostZoneName returns the IANA name of the host zone when it can be
// determined ($TZ, then the /etc/localtime link), otherwise "Local".
func HostZoneName() string {
	if tz := strings.TrimPrefix(os.Getenv("TZ"), ":"); tz != "" && ValidZone(tz) {
		return tz
	}
	if target, err := filepath.EvalSymlinks("/etc/localtime"); err == nil {
		if name := zoneFromPath(target); name != "" && ValidZone(name) {
			return name
		}
	}
	return LocalZoneID
}

func zoneFromPath(p string) string {
	p = filepath.ToSlash(p)
	const marker = "zoneinfo/"
	idx := strings.LastIndex(p, marker)
	if idx < 0 {
		return ""
	}
	return p[idx+len(marker):]
}

// ZoneLabel turns an IANA id into a short display label:
// "America/New_York" becomes "New York".
func ZoneLabel(id string) string {
	if id == "" || id == LocalZoneID {
		return LocalZoneID
	}
	label := id
	if i := strings.LastIndex(id, "/"); i >= 0 && i < len(id)-1 {
		label = id[i+1:]
	}
	return strings.ReplaceAll(label, "_", " ")
}
