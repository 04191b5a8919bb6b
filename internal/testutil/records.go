// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"github.com/okian/sharpscore/internal/domain/fingerprint"
)

// Record returns a complete, valid fingerprint record for userID.
func Record(userID string) fingerprint.Record {
	return fingerprint.Record{
		UserID:         userID,
		Timestamp:      1735689600000,
		Timezone:       "Europe/London",
		Language:       "en-GB",
		Headless:       fingerprint.Bool(false),
		CookiesEnabled: fingerprint.Bool(true),
		PageLoadTime:   fingerprint.Float(412.5),
		Events: &fingerprint.Events{
			Mousemove: fingerprint.Bool(true),
			Keydown:   fingerprint.Bool(true),
			Scroll:    fingerprint.Bool(false),
			Copy:      fingerprint.Bool(false),
		},
		IPDetails: &fingerprint.IPDetails{
			Country:      "GB",
			ASN:          "AS5089",
			IsDatacenter: fingerprint.Bool(false),
		},
		Screen: &fingerprint.Screen{
			Width:            fingerprint.Float(1920),
			Height:           fingerprint.Float(1080),
			DevicePixelRatio: fingerprint.Float(1.5),
			Orientation:      "landscape-primary",
		},
		Viewport: &fingerprint.Viewport{
			InnerWidth:  fingerprint.Float(1700),
			InnerHeight: fingerprint.Float(900),
		},
		Battery: &fingerprint.Battery{
			Level:        fingerprint.Float(0.8),
			Charging:     fingerprint.Bool(true),
			ChargingTime: fingerprint.Float(1200),
		},
		Hardware: &fingerprint.Hardware{
			CPUCores:     fingerprint.Float(8),
			DeviceMemory: fingerprint.Float(16),
		},
		ServerTimestamp: "2025-01-01T00:00:00",
	}
}

// Records returns n valid records for userID with increasing timestamps.
func Records(userID string, n int) []fingerprint.Record {
	out := make([]fingerprint.Record, n)
	for i := range out {
		out[i] = Record(userID)
		out[i].Timestamp += int64(i) * 1000
	}
	return out
}
