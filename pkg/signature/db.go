// Package signature is the database of known parallel-port audio device
// signatures and the loader for S-expression signature files that retune the
// classification bands.
package signature

import (
	"sort"

	"github.com/OpenTraceLab/OpenTraceLPT/pkg/analysis"
)

// Signature describes a device class the classifier can report.
type Signature struct {
	Device analysis.DeviceClass
	Key    string // Short name used in signature files and the CLI

	// Human-friendly
	Name        string // "Covox Speech Thing"
	Description string // "Continuous streaming DAC"
	Traits      []string

	// Timing signature
	NominalHz float64 // 0 when the device has no steady write rate
	Streaming bool    // Steady write rate (DACs) vs. register writes

	order int
}

// db is the in-memory signature database
var db = make(map[analysis.DeviceClass]Signature)

// register adds a signature to the database
func register(sig Signature) {
	sig.order = len(db)
	db[sig.Device] = sig
}

func init() {
	register(Signature{
		Device:      analysis.DeviceCovox,
		Key:         "covox",
		Name:        "Covox Speech Thing",
		Description: "Continuous streaming DAC",
		Traits: []string{
			"Sample rate matches 22 kHz typical Covox output",
			"Continuous streaming DAC",
		},
		NominalHz: 22050,
		Streaming: true,
	})

	register(Signature{
		Device:      analysis.DeviceDSS,
		Key:         "dss",
		Name:        "Disney Sound Source",
		Description: "FIFO-based DAC",
		Traits: []string{
			"Sample rate matches 7 kHz typical DSS output",
			"FIFO-based DAC",
		},
		NominalHz: 7000,
		Streaming: true,
	})

	register(Signature{
		Device:      analysis.DeviceOPL2LPT,
		Key:         "opl2",
		Name:        "Possible OPL2LPT",
		Description: "YM3812 FM synthesizer behind address/data register writes",
		Traits: []string{
			"Irregular timing suggests register writes",
			"Need paired address/data analysis",
		},
	})

	register(Signature{
		Device:      analysis.DeviceUnknown,
		Key:         "unknown",
		Name:        "Unknown device",
		Description: "No entry in signature database",
		Traits: []string{
			"Timing doesn't match known patterns",
			"May need additional analysis",
		},
	})
}

// Lookup returns the signature for a device class. Unknown classes fall back
// to the UNKNOWN_DEVICE entry.
func Lookup(device analysis.DeviceClass) Signature {
	if sig, ok := db[device]; ok {
		return sig
	}
	return db[analysis.DeviceUnknown]
}

// ByKey finds a signature by its short name ("covox", "dss", "opl2").
func ByKey(key string) (Signature, bool) {
	for _, sig := range db {
		if sig.Key == key {
			return sig, true
		}
	}
	return Signature{}, false
}

// All returns every signature in registration order.
func All() []Signature {
	sigs := make([]Signature, 0, len(db))
	for _, sig := range db {
		sigs = append(sigs, sig)
	}
	sort.Slice(sigs, func(i, j int) bool { return sigs[i].order < sigs[j].order })
	return sigs
}

// Band returns the classification band cfg uses for this signature, if the
// device is rate-classified.
func (s Signature) Band(cfg *analysis.Config) (analysis.Band, bool) {
	switch s.Device {
	case analysis.DeviceCovox:
		return cfg.CovoxBand, true
	case analysis.DeviceDSS:
		return cfg.DSSBand, true
	}
	return analysis.Band{}, false
}
