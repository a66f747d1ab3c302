package rally

import "testing"

const (
	uaIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15"
	uaAndroid = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36"
	uaDesktop = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

func TestDetectDevice(t *testing.T) {
	tests := []struct {
		name  string
		ua    string
		width int
		want  DeviceProfile
	}{
		{
			"iphone", uaIPhone, 390,
			DeviceProfile{IsWideScreen: false, DeviceLabel: "iPhone", NFCLocationLabel: "top", VideoVariant: VideoIPhone},
		},
		{
			"android", uaAndroid, 412,
			DeviceProfile{IsWideScreen: false, DeviceLabel: "Android", NFCLocationLabel: "back", VideoVariant: VideoAndroid},
		},
		{
			"desktop", uaDesktop, 1920,
			DeviceProfile{IsWideScreen: true, DeviceLabel: "PC", NFCLocationLabel: "", VideoVariant: VideoDesktop},
		},
		{
			"narrow desktop window", uaDesktop, 800,
			DeviceProfile{IsWideScreen: false, DeviceLabel: "PC", NFCLocationLabel: "", VideoVariant: VideoDesktop},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDevice(tt.ua, tt.width); got != tt.want {
				t.Fatalf("DetectDevice = %+v, want %+v", got, tt.want)
			}
		})
	}
}
