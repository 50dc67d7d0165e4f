package clientinfo

import (
	"math"
	"strconv"
	"strings"
)

// ClassifyDevice maps a viewport size ("<width>x<height>") and an operating
// system label to a device class. It returns "" when neither signal is
// usable.
//
// browser is currently unused.
func ClassifyDevice(screen, browser, os string) Device {
	width, known := screenWidth(screen)

	if _, ok := DesktopOS[os]; ok {
		if os == OSChromeOS || (known && width < DesktopScreenWidth) {
			return DeviceLaptop
		}
		return DeviceDesktop
	}

	if _, ok := MobileOS[os]; ok {
		if os == OSAmazon || (known && width > MobileScreenWidth) {
			return DeviceTablet
		}
		return DeviceMobile
	}

	switch {
	case !known:
		return ""
	case width >= DesktopScreenWidth:
		return DeviceDesktop
	case width >= LaptopScreenWidth:
		return DeviceLaptop
	case width >= MobileScreenWidth:
		return DeviceTablet
	default:
		return DeviceMobile
	}
}

// screenWidth parses the part of screen before the first "x".
func screenWidth(screen string) (float64, bool) {
	w, _, _ := strings.Cut(screen, "x")
	w = strings.TrimSpace(w)
	if w == "" {
		return 0, false
	}
	width, err := strconv.ParseFloat(w, 64)
	if err != nil || math.IsNaN(width) {
		return 0, false
	}
	return width, true
}
