package rally

import "strings"

// VideoVariant selects which guide clip the wizard plays.
type VideoVariant uint8

const (
	VideoDesktop VideoVariant = iota
	VideoIPhone
	VideoAndroid
)

// DeviceProfile is a read-only fact set derived once at startup. The tour
// controller consumes it to pick copy and clip variants; nothing mutates it
// afterward.
type DeviceProfile struct {
	IsWideScreen     bool
	DeviceLabel      string
	NFCLocationLabel string
	VideoVariant     VideoVariant
}

// wideScreenMin is the narrowest width treated as a desktop-class screen.
const wideScreenMin = 1024

// DetectDevice derives a DeviceProfile from a user-agent string and the
// screen width in pixels.
func DetectDevice(userAgent string, screenWidth int) DeviceProfile {
	p := DeviceProfile{
		IsWideScreen:     screenWidth >= wideScreenMin,
		DeviceLabel:      "PC",
		NFCLocationLabel: "",
		VideoVariant:     VideoDesktop,
	}
	switch {
	case strings.Contains(userAgent, "iPhone"):
		p.DeviceLabel = "iPhone"
		p.NFCLocationLabel = "top"
		p.VideoVariant = VideoIPhone
	case strings.Contains(userAgent, "Android"):
		p.DeviceLabel = "Android"
		p.NFCLocationLabel = "back"
		p.VideoVariant = VideoAndroid
	}
	return p
}
