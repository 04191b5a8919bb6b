package traits

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/okian/sharpscore/internal/domain/fingerprint"
)

// Resolution is a physical screen size in pixels.
type Resolution struct {
	Width  float64
	Height float64
}

// Generation domains shared by every profile.
var (
	Resolutions = []Resolution{
		{1920, 1080}, {1366, 768}, {1440, 900}, {2560, 1440}, {1280, 720},
	}
	Timezones    = []string{"Europe/London", "America/New_York", "Asia/Tokyo", "Australia/Sydney", "Europe/Paris"}
	Languages    = []string{"en-GB", "en-US", "ja-JP", "fr-FR", "es-ES"}
	Countries    = []string{"GB", "US", "JP", "AU", "FR"}
	ASNs         = []string{"AS5089", "AS15169", "AS4134", "AS4808", "AS7922"}
	Orientations = []string{"landscape-primary", "portrait-primary"}
)

// Profile describes how every attribute of a synthetic record is produced.
// ViewportInset is subtracted from the screen size, drawn separately for each
// axis. ChargingTime is sampled when ReportsChargingTime yields true, or when
// the battery is charging if ReportsChargingTime is nil; otherwise it is 0.
type Profile struct {
	Headless       Flag
	CookiesEnabled Flag
	PageLoadTime   Trait

	Mousemove Flag
	Keydown   Flag
	Scroll    Flag
	Copy      Flag

	Datacenter Flag

	PixelRatio    Trait
	ViewportInset Trait

	BatteryLevel        Trait
	Charging            Flag
	ChargingTime        Trait
	ReportsChargingTime *Flag

	CPUCores     Trait
	DeviceMemory Trait
}

// Training is the profile used for training data: every attribute drawn
// independently from its full domain.
func Training() Profile {
	return Profile{
		Headless:       CoinFlip(),
		CookiesEnabled: CoinFlip(),
		PageLoadTime:   Uniform(50, 1000).Rounded(2),
		Mousemove:      CoinFlip(),
		Keydown:        CoinFlip(),
		Scroll:         CoinFlip(),
		Copy:           CoinFlip(),
		Datacenter:     CoinFlip(),
		PixelRatio:     Choice(1, 1.5, 2, 2.5, 3),
		ViewportInset:  IntRange(50, 400),
		BatteryLevel:   Uniform(0.05, 1).Rounded(2),
		Charging:       CoinFlip(),
		ChargingTime:   IntRange(0, 7200),
		CPUCores:       Choice(2, 4, 6, 8, 12, 16, 24, 32),
		DeviceMemory:   Choice(4, 8, 16, 32, 64, 128),
	}
}

// Pin fixes the device identity of p for a run: browser flags, interaction
// flags, datacenter and hardware. Load time, display, battery and network
// draws stay per record.
func (p Profile) Pin(r *rand.Rand) Profile {
	p.Headless = p.Headless.Pin(r)
	p.CookiesEnabled = p.CookiesEnabled.Pin(r)
	p.Mousemove = p.Mousemove.Pin(r)
	p.Keydown = p.Keydown.Pin(r)
	p.Scroll = p.Scroll.Pin(r)
	p.Copy = p.Copy.Pin(r)
	p.Datacenter = p.Datacenter.Pin(r)
	p.CPUCores = p.CPUCores.Pin(r)
	p.DeviceMemory = p.DeviceMemory.Pin(r)
	return p
}

// Generate draws one nested record for userID at now.
func (p Profile) Generate(r *rand.Rand, userID string, now time.Time) fingerprint.Record {
	res := Pick(r, Resolutions)
	lang := Pick(r, Languages)
	tz := Pick(r, Timezones)
	cores := p.CPUCores.Sample(r)

	charging := p.Charging.Sample(r)
	report := charging
	if p.ReportsChargingTime != nil {
		report = p.ReportsChargingTime.Sample(r)
	}
	var chargingTime float64
	if report {
		chargingTime = p.ChargingTime.Sample(r)
	}

	return fingerprint.Record{
		UserID:         userID,
		Timestamp:      now.UnixMilli(),
		Fingerprint:    fmt.Sprintf("Mozilla/5.0::%s::%gx%g::%g::%s", lang, res.Width, res.Height, cores, tz),
		Timezone:       tz,
		Language:       lang,
		Headless:       fingerprint.Bool(p.Headless.Sample(r)),
		CookiesEnabled: fingerprint.Bool(p.CookiesEnabled.Sample(r)),
		PageLoadTime:   fingerprint.Float(p.PageLoadTime.Sample(r)),
		Events: &fingerprint.Events{
			Mousemove: fingerprint.Bool(p.Mousemove.Sample(r)),
			Keydown:   fingerprint.Bool(p.Keydown.Sample(r)),
			Scroll:    fingerprint.Bool(p.Scroll.Sample(r)),
			Copy:      fingerprint.Bool(p.Copy.Sample(r)),
		},
		IPDetails: &fingerprint.IPDetails{
			Country:      Pick(r, Countries),
			ASN:          Pick(r, ASNs),
			IsDatacenter: fingerprint.Bool(p.Datacenter.Sample(r)),
		},
		Screen: &fingerprint.Screen{
			Width:            fingerprint.Float(res.Width),
			Height:           fingerprint.Float(res.Height),
			DevicePixelRatio: fingerprint.Float(p.PixelRatio.Sample(r)),
			Orientation:      Pick(r, Orientations),
		},
		Viewport: &fingerprint.Viewport{
			InnerWidth:  fingerprint.Float(res.Width - p.ViewportInset.Sample(r)),
			InnerHeight: fingerprint.Float(res.Height - p.ViewportInset.Sample(r)),
		},
		Battery: &fingerprint.Battery{
			Level:        fingerprint.Float(p.BatteryLevel.Sample(r)),
			Charging:     fingerprint.Bool(charging),
			ChargingTime: fingerprint.Float(chargingTime),
		},
		Hardware: &fingerprint.Hardware{
			CPUCores:     fingerprint.Float(cores),
			DeviceMemory: fingerprint.Float(p.DeviceMemory.Sample(r)),
		},
		ServerTimestamp: now.UTC().Format("2006-01-02T15:04:05.000000"),
	}
}
