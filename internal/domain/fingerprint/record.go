// Package fingerprint contains the nested per-session fingerprint record as it
// is persisted by the ingestion collaborator.
//
// Scalar fields are pointers so a key missing from the stored document can be
// told apart from a zero value.
package fingerprint

// Record is one browser/device fingerprint captured for a user session.
type Record struct {
	UserID          string     `json:"userId" bson:"userId"`
	Timestamp       int64      `json:"timestamp" bson:"timestamp"`
	Fingerprint     string     `json:"fingerprint,omitempty" bson:"fingerprint,omitempty"`
	Timezone        string     `json:"timezone,omitempty" bson:"timezone,omitempty"`
	Language        string     `json:"language,omitempty" bson:"language,omitempty"`
	Headless        *bool      `json:"headless,omitempty" bson:"headless,omitempty"`
	CookiesEnabled  *bool      `json:"cookiesEnabled,omitempty" bson:"cookiesEnabled,omitempty"`
	PageLoadTime    *float64   `json:"pageLoadTime,omitempty" bson:"pageLoadTime,omitempty"`
	Events          *Events    `json:"events,omitempty" bson:"events,omitempty"`
	IPDetails       *IPDetails `json:"ipDetails,omitempty" bson:"ipDetails,omitempty"`
	Screen          *Screen    `json:"screen,omitempty" bson:"screen,omitempty"`
	Viewport        *Viewport  `json:"viewport,omitempty" bson:"viewport,omitempty"`
	Battery         *Battery   `json:"battery,omitempty" bson:"battery,omitempty"`
	Hardware        *Hardware  `json:"hardware,omitempty" bson:"hardware,omitempty"`
	ServerTimestamp string     `json:"serverTimestamp,omitempty" bson:"serverTimestamp,omitempty"`
}

// Events holds which interaction events were observed in the session.
type Events struct {
	Mousemove *bool `json:"mousemove,omitempty" bson:"mousemove,omitempty"`
	Keydown   *bool `json:"keydown,omitempty" bson:"keydown,omitempty"`
	Scroll    *bool `json:"scroll,omitempty" bson:"scroll,omitempty"`
	Copy      *bool `json:"copy,omitempty" bson:"copy,omitempty"`
}

// IPDetails describes the network the session came from.
type IPDetails struct {
	Country      string `json:"country,omitempty" bson:"country,omitempty"`
	ASN          string `json:"asn,omitempty" bson:"asn,omitempty"`
	IsDatacenter *bool  `json:"is_datacenter,omitempty" bson:"is_datacenter,omitempty"`
}

// Screen describes the physical display.
type Screen struct {
	Width            *float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height           *float64 `json:"height,omitempty" bson:"height,omitempty"`
	DevicePixelRatio *float64 `json:"devicePixelRatio,omitempty" bson:"devicePixelRatio,omitempty"`
	Orientation      string   `json:"orientation,omitempty" bson:"orientation,omitempty"`
}

// Viewport is the browser's inner window size.
type Viewport struct {
	InnerWidth  *float64 `json:"innerWidth,omitempty" bson:"innerWidth,omitempty"`
	InnerHeight *float64 `json:"innerHeight,omitempty" bson:"innerHeight,omitempty"`
}

// Battery is the reported power state.
type Battery struct {
	Level        *float64 `json:"level,omitempty" bson:"level,omitempty"`
	Charging     *bool    `json:"charging,omitempty" bson:"charging,omitempty"`
	ChargingTime *float64 `json:"chargingTime,omitempty" bson:"chargingTime,omitempty"`
}

// Hardware is the reported device capability.
type Hardware struct {
	CPUCores     *float64 `json:"cpuCores,omitempty" bson:"cpuCores,omitempty"`
	DeviceMemory *float64 `json:"deviceMemory,omitempty" bson:"deviceMemory,omitempty"`
}

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
