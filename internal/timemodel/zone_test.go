package timemodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveZone(t *testing.T) {
	loc, ok := ResolveZone("Europe/Paris")
	assert.True(t, ok)
	assert.Equal(t, "Europe/Paris", loc.String())

	loc, ok = ResolveZone("")
	assert.True(t, ok)
	assert.Equal(t, time.Local, loc)

	loc, ok = ResolveZone(LocalZoneID)
	assert.True(t, ok)
	assert.Equal(t, time.Local, loc)
}

func TestResolveZoneUnknownFallsBackToLocal(t *testing.T) {
	loc, ok := ResolveZone("Mars/Olympus_Mons")
	assert.False(t, ok)
	assert.Equal(t, time.Local, loc)
}

func TestValidZone(t *testing.T) {
	assert.True(t, ValidZone("America/New_York"))
	assert.True(t, ValidZone(LocalZoneID))
	assert.False(t, ValidZone(""))
	assert.False(t, ValidZone("Not/AZone"))
}

func TestHostZoneNameFromTZ(t *testing.T) {
	t.Setenv("TZ", "Asia/Tokyo")
	assert.Equal(t, "Asia/Tokyo", HostZoneName())
}

func TestHostZoneNameIgnoresBogusTZ(t *testing.T) {
	t.Setenv("TZ", "Nowhere/Special")
	name := HostZoneName()
	assert.NotEqual(t, "Nowhere/Special", name)
	assert.True(t, ValidZone(name))
}

func TestZoneFromPath(t *testing.T) {
	assert.Equal(t, "Europe/London", zoneFromPath("/usr/share/zoneinfo/Europe/London"))
	assert.Equal(t, "UTC", zoneFromPath("/var/db/timezone/zoneinfo/UTC"))
	assert.Equal(t, "", zoneFromPath("/etc/localtime"))
}

func TestZoneLabel(t *testing.T) {
	assert.Equal(t, "New York", ZoneLabel("America/New_York"))
	assert.Equal(t, "Buenos Aires", ZoneLabel("America/Argentina/Buenos_Aires"))
	assert.Equal(t, "UTC", ZoneLabel("UTC"))
	assert.Equal(t, "Local", ZoneLabel(""))
	assert.Equal(t, "Local", ZoneLabel(LocalZoneID))
}
