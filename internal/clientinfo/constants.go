package clientinfo

// Device is a coarse form-factor label.
type Device string

const (
	DeviceDesktop Device = "desktop"
	DeviceLaptop  Device = "laptop"
	DeviceTablet  Device = "tablet"
	DeviceMobile  Device = "mobile"
)

// Viewport width thresholds, in CSS pixels.
const (
	DesktopScreenWidth = 1920
	LaptopScreenWidth  = 1024
	MobileScreenWidth  = 479
)

// Operating system labels produced by the user-agent parser.
const (
	OSWindows       = "Windows"
	OSMac           = "Mac OS"
	OSLinux         = "Linux"
	OSChromeOS      = "Chrome OS"
	OSOpenBSD       = "Open BSD"
	OSSunOS         = "Sun OS"
	OSBeOS          = "BeOS"
	OSOS2           = "OS/2"
	OSQNX           = "QNX"
	OSiOS           = "iOS"
	OSAndroid       = "Android OS"
	OSBlackBerry    = "BlackBerry OS"
	OSWindowsMobile = "Windows Mobile"
	OSAmazon        = "Amazon OS"
)

// DesktopOS lists operating systems that run on desktops and laptops.
var DesktopOS = map[string]struct{}{
	OSWindows:  {},
	OSMac:      {},
	OSLinux:    {},
	OSChromeOS: {},
	OSOpenBSD:  {},
	OSSunOS:    {},
	OSBeOS:     {},
	OSOS2:      {},
	OSQNX:      {},
}

// MobileOS lists operating systems that run on phones and tablets.
var MobileOS = map[string]struct{}{
	OSiOS:           {},
	OSAndroid:       {},
	OSBlackBerry:    {},
	OSWindowsMobile: {},
	OSAmazon:        {},
}

// Request headers read by the resolvers.
const (
	HeaderUserAgent      = "User-Agent"
	HeaderCFConnectingIP = "CF-Connecting-IP"
	HeaderCFIPCountry    = "CF-IPCountry"
	HeaderXClientIP      = "X-Client-IP"
	HeaderXForwardedFor  = "X-Forwarded-For"
	HeaderFastlyClientIP = "Fastly-Client-IP"
	HeaderTrueClientIP   = "True-Client-IP"
	HeaderXRealIP        = "X-Real-IP"
	HeaderXClusterIP     = "X-Cluster-Client-IP"
	HeaderXForwarded     = "X-Forwarded"
	HeaderForwardedFor   = "Forwarded-For"
	HeaderForwarded      = "Forwarded"
)
