// internal/app/system/useragent/useragent.go
package useragent

import (
	"strings"

	"github.com/dalemusser/stratatrack/internal/domain/models"
)

// Device types.
const (
	Mobile  = "Mobile"
	Tablet  = "Tablet"
	Desktop = "Desktop"
)

// Unknown is used for a browser or OS that no rule matches.
const Unknown = "Unknown"

// DeviceInfo is the classification of a user-agent string.
type DeviceInfo struct {
	DeviceType string `json:"device_type"`
	Browser    string `json:"browser"`
	OS         string `json:"os"`
}

// Device converts the classification into the record form, adding location.
func (d DeviceInfo) Device(location string) models.Device {
	return models.Device{
		DeviceType: d.DeviceType,
		Browser:    d.Browser,
		OS:         d.OS,
		Location:   location,
	}
}

// Parse classifies ua by substring tests. An empty ua yields the zero
// DeviceInfo so no device fields are recorded.
//
// Edge must be tested before Chrome and iOS before macOS: Edge agents carry
// "Chrome" and iPhone agents carry "Mac OS X".
func Parse(ua string) DeviceInfo {
	if ua == "" {
		return DeviceInfo{}
	}
	return DeviceInfo{
		DeviceType: deviceType(ua),
		Browser:    browser(ua),
		OS:         operatingSystem(ua),
	}
}

func deviceType(ua string) string {
	switch {
	case containsAny(ua, "iPad", "Tablet"):
		return Tablet
	case containsAny(ua, "Mobile", "Android", "iPhone"):
		return Mobile
	default:
		return Desktop
	}
}

func browser(ua string) string {
	switch {
	case strings.Contains(ua, "Edg"):
		return "Edge"
	case strings.Contains(ua, "Firefox"):
		return "Firefox"
	case strings.Contains(ua, "Chrome"):
		return "Chrome"
	case strings.Contains(ua, "Safari"):
		return "Safari"
	default:
		return Unknown
	}
}

func operatingSystem(ua string) string {
	switch {
	case strings.Contains(ua, "Windows"):
		return "Windows"
	case containsAny(ua, "iPhone", "iPad", "iOS"):
		return "iOS"
	case strings.Contains(ua, "Android"):
		return "Android"
	case strings.Contains(ua, "Mac"):
		return "macOS"
	case strings.Contains(ua, "Linux"):
		return "Linux"
	default:
		return Unknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
