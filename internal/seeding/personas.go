// Package seeding writes persona fingerprint records into a record store so
// the scoring API has live data to work with.
package seeding

import (
	"github.com/okian/sharpscore/internal/domain/traits"
)

// Persona is a named user whose records are drawn from one profile.
type Persona struct {
	Name    string
	UserID  string
	Profile traits.Profile
}

// Persona user ids are stable so dashboards and tests can look them up.
const (
	UnknownUserID      = "c6db552f-a2e6-453f-8e5d-03981470fee8"
	SquareUserID       = "a3d38c70-f3ca-4065-acdc-9018c92dfd85"
	CasualPunterUserID = "71b00e76-dbe8-46b5-a7ae-4685b7b09538"
	SharpUserID        = "961fe5a8-c873-4b7f-832f-9b265e7a1a83"
	SemiSharpUserID    = "7a224b58-371d-44df-afee-fa19607dd59a"
)

// persona builds a profile with the display, battery and network draws every
// persona shares.
func persona(name, userID string, p traits.Profile) Persona {
	p.PixelRatio = traits.Choice(1, 1.5, 2)
	p.ViewportInset = traits.IntRange(100, 400)
	p.BatteryLevel = traits.Uniform(0.1, 1).Rounded(2)
	p.Charging = traits.CoinFlip()
	p.ChargingTime = traits.IntRange(0, 3600)
	coin := traits.CoinFlip()
	p.ReportsChargingTime = &coin
	return Persona{Name: name, UserID: userID, Profile: p}
}

// Personas returns the five seeded personas in insertion order.
func Personas() []Persona {
	on, off := traits.FixedFlag(true), traits.FixedFlag(false)
	return []Persona{
		persona("Unknown", UnknownUserID, traits.Profile{
			Headless:       traits.CoinFlip(),
			CookiesEnabled: traits.CoinFlip(),
			PageLoadTime:   traits.Uniform(200, 500).Rounded(2),
			Mousemove:      traits.CoinFlip(),
			Keydown:        traits.CoinFlip(),
			Scroll:         traits.CoinFlip(),
			Copy:           traits.CoinFlip(),
			Datacenter:     traits.CoinFlip(),
			CPUCores:       traits.Choice(4, 8, 12),
			DeviceMemory:   traits.Choice(8, 16, 32),
		}),
		persona("Square", SquareUserID, traits.Profile{
			Headless:       off,
			CookiesEnabled: on,
			PageLoadTime:   traits.Uniform(400, 800).Rounded(2),
			Mousemove:      on,
			Keydown:        on,
			Scroll:         on,
			Copy:           on,
			Datacenter:     off,
			CPUCores:       traits.Fixed(4),
			DeviceMemory:   traits.Fixed(8),
		}),
		persona("Casual Punter", CasualPunterUserID, traits.Profile{
			Headless:       off,
			CookiesEnabled: on,
			PageLoadTime:   traits.Uniform(300, 600).Rounded(2),
			Mousemove:      on,
			Keydown:        on,
			Scroll:         on,
			Copy:           off,
			Datacenter:     off,
			CPUCores:       traits.Fixed(6),
			DeviceMemory:   traits.Fixed(16),
		}),
		persona("Sharp", SharpUserID, traits.Profile{
			Headless:       on,
			CookiesEnabled: off,
			PageLoadTime:   traits.Uniform(50, 200).Rounded(2),
			Mousemove:      off,
			Keydown:        off,
			Scroll:         off,
			Copy:           off,
			Datacenter:     on,
			CPUCores:       traits.Fixed(16),
			DeviceMemory:   traits.Fixed(64),
		}),
		persona("Semi Sharp", SemiSharpUserID, traits.Profile{
			Headless:       on,
			CookiesEnabled: off,
			PageLoadTime:   traits.Uniform(150, 300).Rounded(2),
			Mousemove:      off,
			Keydown:        on,
			Scroll:         off,
			Copy:           off,
			Datacenter:     on,
			CPUCores:       traits.Fixed(12),
			DeviceMemory:   traits.Fixed(32),
		}),
	}
}
