// Package dataset generates, writes and reads the tabular training dataset.
package dataset

import (
	"errors"

	"github.com/okian/sharpscore/internal/domain/features"
)

// Non-feature columns.
const (
	ColUserID          = "userId"
	ColTimestamp       = "timestamp"
	ColTimezone        = "timezone"
	ColLanguage        = "language"
	ColCountry         = "ip_country"
	ColASN             = "ip_asn"
	ColOrientation     = "screen_orientation"
	ColServerTimestamp = "serverTimestamp"
	ColTarget          = "target"
)

// Header is the column order of the dataset file: the 18 feature columns
// interleaved with record metadata, followed by the raw target label.
var Header = []string{
	ColUserID, ColTimestamp, ColTimezone, ColLanguage,
	features.Headless, features.CookiesEnabled, features.PageLoadTime,
	features.EventMousemove, features.EventKeydown, features.EventScroll, features.EventCopy,
	ColCountry, ColASN, features.IPIsDatacenter,
	features.ScreenWidth, features.ScreenHeight, features.ScreenPixelRatio, ColOrientation,
	features.ViewportInnerWidth, features.ViewportInnerHeight,
	features.BatteryLevel, features.BatteryCharging, features.BatteryChargingTime,
	features.HardwareCPUCores, features.HardwareMemory,
	ColServerTimestamp, ColTarget,
}

// Sentinel errors.
var (
	ErrMissing   = errors.New("dataset file not found")
	ErrHeader    = errors.New("dataset header is missing a column")
	ErrMalformed = errors.New("malformed dataset row")
)

// Meta is the non-feature part of a dataset row.
type Meta struct {
	UserID          string
	Timestamp       int64
	Timezone        string
	Language        string
	Country         string
	ASN             string
	Orientation     string
	ServerTimestamp string
}

// Example is one labelled dataset row. Label is the raw heuristic output and
// is not validated on read.
type Example struct {
	Meta  Meta
	Row   features.Row
	Label int
}
