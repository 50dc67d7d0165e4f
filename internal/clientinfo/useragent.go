package clientinfo

import (
	"strings"

	"github.com/mssola/useragent"
)

// UAParser extracts browser and operating system names from a User-Agent.
// Both methods return "" for strings they do not recognise.
type UAParser interface {
	Browser(userAgent string) string
	OS(userAgent string) string
}

// MssolaParser implements UAParser with github.com/mssola/useragent and
// normalises operating systems to the labels in DesktopOS and MobileOS.
type MssolaParser struct{}

// Browser returns the browser (or bot) name.
func (MssolaParser) Browser(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return ""
	}
	name, _ := useragent.New(userAgent).Browser()
	return name
}

// OS returns the operating system label.
func (MssolaParser) OS(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return ""
	}
	ua := useragent.New(userAgent)
	return normalizeOS(userAgent, ua.Platform(), ua.OSInfo().Name)
}

// normalizeOS maps the raw string and mssola's platform and OS name onto a
// label. Order matters: Android and Kindle agents also claim Linux, and iOS
// agents claim Mac OS X.
func normalizeOS(raw, platform, name string) string {
	switch {
	case strings.Contains(raw, "Kindle") || strings.Contains(raw, "Silk/"):
		return OSAmazon
	case strings.Contains(raw, "Windows Phone") || strings.Contains(raw, "Windows Mobile") || strings.Contains(raw, "Windows CE"):
		return OSWindowsMobile
	case strings.Contains(raw, "BlackBerry") || strings.Contains(raw, "BB10"):
		return OSBlackBerry
	case strings.HasPrefix(name, "Android"):
		return OSAndroid
	case platform == "iPhone" || platform == "iPad" || platform == "iPod" || name == "iPhone OS":
		return OSiOS
	case strings.HasPrefix(name, "Windows"):
		return OSWindows
	case strings.HasPrefix(name, "CrOS") || strings.Contains(raw, "CrOS"):
		return OSChromeOS
	case strings.HasPrefix(name, "Mac OS") || platform == "Macintosh":
		return OSMac
	case strings.Contains(raw, "OpenBSD"):
		return OSOpenBSD
	case strings.Contains(raw, "SunOS"):
		return OSSunOS
	case strings.Contains(raw, "BeOS"):
		return OSBeOS
	case strings.Contains(raw, "OS/2"):
		return OSOS2
	case strings.Contains(raw, "QNX"):
		return OSQNX
	case strings.Contains(raw, "Linux"):
		return OSLinux
	default:
		return name
	}
}
