// Package features defines the canonical 18-field feature schema and the
// normalizer that projects a nested fingerprint record onto it.
//
// The column table below is the one place the schema is declared; the
// normalizer, the dataset codec and the trainer all iterate it.
package features

// NumFields is the width of the canonical feature vector.
const NumFields = 18

// Canonical feature names.
const (
	Headless            = "headless"
	CookiesEnabled      = "cookiesEnabled"
	PageLoadTime        = "pageLoadTime"
	EventMousemove      = "event_mousemove"
	EventKeydown        = "event_keydown"
	EventScroll         = "event_scroll"
	EventCopy           = "event_copy"
	IPIsDatacenter      = "ip_is_datacenter"
	ScreenWidth         = "screen_width"
	ScreenHeight        = "screen_height"
	ScreenPixelRatio    = "screen_devicePixelRatio"
	ViewportInnerWidth  = "viewport_innerWidth"
	ViewportInnerHeight = "viewport_innerHeight"
	BatteryLevel        = "battery_level"
	BatteryCharging     = "battery_charging"
	BatteryChargingTime = "battery_chargingTime"
	HardwareCPUCores    = "hardware_cpuCores"
	HardwareMemory      = "hardware_deviceMemory"
)

// Vector is a feature row laid out in canonical order.
type Vector [NumFields]float64

// Row is the flat numeric projection of a fingerprint record. Boolean
// signals hold 0 or 1.
type Row struct {
	Headless            float64
	CookiesEnabled      float64
	PageLoadTime        float64
	EventMousemove      float64
	EventKeydown        float64
	EventScroll         float64
	EventCopy           float64
	IPIsDatacenter      float64
	ScreenWidth         float64
	ScreenHeight        float64
	ScreenPixelRatio    float64
	ViewportInnerWidth  float64
	ViewportInnerHeight float64
	BatteryLevel        float64
	BatteryCharging     float64
	BatteryChargingTime float64
	HardwareCPUCores    float64
	HardwareMemory      float64
}

type column struct {
	name        string
	categorical bool
	field       func(*Row) *float64
}

var columns = [NumFields]column{
	{Headless, true, func(r *Row) *float64 { return &r.Headless }},
	{CookiesEnabled, true, func(r *Row) *float64 { return &r.CookiesEnabled }},
	{PageLoadTime, false, func(r *Row) *float64 { return &r.PageLoadTime }},
	{EventMousemove, true, func(r *Row) *float64 { return &r.EventMousemove }},
	{EventKeydown, true, func(r *Row) *float64 { return &r.EventKeydown }},
	{EventScroll, true, func(r *Row) *float64 { return &r.EventScroll }},
	{EventCopy, true, func(r *Row) *float64 { return &r.EventCopy }},
	{IPIsDatacenter, true, func(r *Row) *float64 { return &r.IPIsDatacenter }},
	{ScreenWidth, false, func(r *Row) *float64 { return &r.ScreenWidth }},
	{ScreenHeight, false, func(r *Row) *float64 { return &r.ScreenHeight }},
	{ScreenPixelRatio, false, func(r *Row) *float64 { return &r.ScreenPixelRatio }},
	{ViewportInnerWidth, false, func(r *Row) *float64 { return &r.ViewportInnerWidth }},
	{ViewportInnerHeight, false, func(r *Row) *float64 { return &r.ViewportInnerHeight }},
	{BatteryLevel, false, func(r *Row) *float64 { return &r.BatteryLevel }},
	{BatteryCharging, true, func(r *Row) *float64 { return &r.BatteryCharging }},
	{BatteryChargingTime, false, func(r *Row) *float64 { return &r.BatteryChargingTime }},
	{HardwareCPUCores, false, func(r *Row) *float64 { return &r.HardwareCPUCores }},
	{HardwareMemory, false, func(r *Row) *float64 { return &r.HardwareMemory }},
}

var indexByName = func() map[string]int {
	m := make(map[string]int, NumFields)
	for i, c := range columns {
		m[c.name] = i
	}
	return m
}()

// Names returns the canonical feature names in order.
func Names() []string {
	out := make([]string, NumFields)
	for i, c := range columns {
		out[i] = c.name
	}
	return out
}

// CategoricalNames returns the boolean-valued features in canonical order.
func CategoricalNames() []string {
	out := make([]string, 0, NumFields)
	for _, c := range columns {
		if c.categorical {
			out = append(out, c.name)
		}
	}
	return out
}

// IsCategorical reports whether name is one of the boolean-valued features.
func IsCategorical(name string) bool {
	i, ok := indexByName[name]
	return ok && columns[i].categorical
}

// Index returns the canonical position of name.
func Index(name string) (int, bool) {
	i, ok := indexByName[name]
	return i, ok
}

// Vector returns r in canonical order.
func (r Row) Vector() Vector {
	var v Vector
	for i, c := range columns {
		v[i] = *c.field(&r)
	}
	return v
}

// Get returns the value of the named feature.
func (r Row) Get(name string) (float64, bool) {
	i, ok := indexByName[name]
	if !ok {
		return 0, false
	}
	return *columns[i].field(&r), true
}

// Set assigns the named feature. It reports false for unknown names.
func (r *Row) Set(name string, v float64) bool {
	i, ok := indexByName[name]
	if !ok {
		return false
	}
	*columns[i].field(r) = v
	return true
}

// Map returns the row keyed by feature name.
func (r Row) Map() map[string]float64 {
	m := make(map[string]float64, NumFields)
	for _, c := range columns {
		m[c.name] = *c.field(&r)
	}
	return m
}

// FromVector rebuilds a Row from a canonical vector.
func FromVector(v Vector) Row {
	var r Row
	for i, c := range columns {
		*c.field(&r) = v[i]
	}
	return r
}

// SameSchema reports whether names equals the canonical order exactly.
func SameSchema(names []string) bool {
	if len(names) != NumFields {
		return false
	}
	for i, c := range columns {
		if names[i] != c.name {
			return false
		}
	}
	return true
}
