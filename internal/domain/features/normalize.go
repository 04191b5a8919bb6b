package features

import (
	"errors"
	"fmt"

	"github.com/okian/sharpscore/internal/domain/fingerprint"
)

// ErrMissingField is the kind of every ExtractionError.
var ErrMissingField = errors.New("missing fingerprint field")

// ExtractionError reports the nested path that was absent from a record.
type ExtractionError struct {
	UserID string
	Path   string
}

func (e *ExtractionError) Error() string {
	if e.UserID == "" {
		return fmt.Sprintf("%s: %s", ErrMissingField, e.Path)
	}
	return fmt.Sprintf("%s: %s (user %s)", ErrMissingField, e.Path, e.UserID)
}

func (e *ExtractionError) Unwrap() error { return ErrMissingField }

// extractor walks one record and remembers the first missing path.
type extractor struct {
	missing string
}

func (x *extractor) flag(path string, v *bool) float64 {
	if v == nil {
		x.miss(path)
		return 0
	}
	if *v {
		return 1
	}
	return 0
}

func (x *extractor) num(path string, v *float64) float64 {
	if v == nil {
		x.miss(path)
		return 0
	}
	return *v
}

func (x *extractor) miss(path string) {
	if x.missing == "" {
		x.missing = path
	}
}

// Normalize flattens rec into the canonical Row. Any absent nested field is
// an *ExtractionError; no value is defaulted.
func Normalize(rec fingerprint.Record) (Row, error) {
	x := &extractor{}
	var row Row

	row.Headless = x.flag("headless", rec.Headless)
	row.CookiesEnabled = x.flag("cookiesEnabled", rec.CookiesEnabled)
	row.PageLoadTime = x.num("pageLoadTime", rec.PageLoadTime)

	if ev := rec.Events; ev == nil {
		x.miss("events")
	} else {
		row.EventMousemove = x.flag("events.mousemove", ev.Mousemove)
		row.EventKeydown = x.flag("events.keydown", ev.Keydown)
		row.EventScroll = x.flag("events.scroll", ev.Scroll)
		row.EventCopy = x.flag("events.copy", ev.Copy)
	}

	if ip := rec.IPDetails; ip == nil {
		x.miss("ipDetails")
	} else {
		row.IPIsDatacenter = x.flag("ipDetails.is_datacenter", ip.IsDatacenter)
	}

	if sc := rec.Screen; sc == nil {
		x.miss("screen")
	} else {
		row.ScreenWidth = x.num("screen.width", sc.Width)
		row.ScreenHeight = x.num("screen.height", sc.Height)
		row.ScreenPixelRatio = x.num("screen.devicePixelRatio", sc.DevicePixelRatio)
	}

	if vp := rec.Viewport; vp == nil {
		x.miss("viewport")
	} else {
		row.ViewportInnerWidth = x.num("viewport.innerWidth", vp.InnerWidth)
		row.ViewportInnerHeight = x.num("viewport.innerHeight", vp.InnerHeight)
	}

	if b := rec.Battery; b == nil {
		x.miss("battery")
	} else {
		row.BatteryLevel = x.num("battery.level", b.Level)
		row.BatteryCharging = x.flag("battery.charging", b.Charging)
		row.BatteryChargingTime = x.num("battery.chargingTime", b.ChargingTime)
	}

	if hw := rec.Hardware; hw == nil {
		x.miss("hardware")
	} else {
		row.HardwareCPUCores = x.num("hardware.cpuCores", hw.CPUCores)
		row.HardwareMemory = x.num("hardware.deviceMemory", hw.DeviceMemory)
	}

	if x.missing != "" {
		return Row{}, &ExtractionError{UserID: rec.UserID, Path: x.missing}
	}
	return row, nil
}

// NormalizeAll normalizes every record, failing the whole batch on the first
// malformed one.
func NormalizeAll(recs []fingerprint.Record) ([]Row, error) {
	rows := make([]Row, 0, len(recs))
	for i := range recs {
		row, err := Normalize(recs[i])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
