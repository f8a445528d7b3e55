// Package probe finds PARALAX sniffer boards attached over USB.
package probe

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/gousb"
)

// Kind tells what state a detected board is in.
type Kind string

const (
	KindSniffer    Kind = "sniffer"    // running the capture firmware
	KindBootloader Kind = "bootloader" // RP2040 BOOTSEL mass-storage mode
	KindSimulator  Kind = "simulator"
)

// USB identifiers of the RP2040 boards the sniffer firmware runs on.
const (
	VendorIDRaspberryPi uint16 = 0x2e8a
	ProductIDPicoCDC    uint16 = 0x000a
	ProductIDPicoWCDC   uint16 = 0xf00a
	ProductIDRP2040Boot uint16 = 0x0003
)

// Info describes one detected board.
type Info struct {
	Kind        Kind
	Description string
	VendorID    uint16
	ProductID   uint16
	Path        string
}

// Label returns a user-friendly description for the board.
func (i Info) Label() string {
	if i.Description != "" {
		return i.Description
	}
	if i.Kind != "" {
		return fmt.Sprintf("%s (%04X:%04X)", string(i.Kind), i.VendorID, i.ProductID)
	}
	return fmt.Sprintf("Device %04X:%04X", i.VendorID, i.ProductID)
}

type knownBoard struct {
	ProductID   uint16
	Kind        Kind
	Description string
}

var knownBoards = []knownBoard{
	{ProductID: ProductIDPicoCDC, Kind: KindSniffer, Description: "PARALAX sniffer (Raspberry Pi Pico)"},
	{ProductID: ProductIDPicoWCDC, Kind: KindSniffer, Description: "PARALAX sniffer (Raspberry Pi Pico W)"},
	{ProductID: ProductIDRP2040Boot, Kind: KindBootloader, Description: "RP2040 in BOOTSEL mode (flash the sniffer firmware)"},
}

// Classify matches a USB vendor/product pair against the known boards.
func Classify(vendor, product uint16) (Info, bool) {
	if vendor != VendorIDRaspberryPi {
		return Info{}, false
	}
	for _, known := range knownBoards {
		if product == known.ProductID {
			return Info{
				Kind:        known.Kind,
				Description: known.Description,
				VendorID:    vendor,
				ProductID:   product,
			}, true
		}
	}
	return Info{}, false
}

// DiscoverSniffers enumerates USB devices and returns the sniffer boards
// found. A simulator entry is always appended so captures can be produced
// without hardware. Enumeration stops early when ctx is done.
func DiscoverSniffers(ctx context.Context) ([]Info, error) {
	var results []Info
	usb := gousb.NewContext()
	defer usb.Close()

	_, err := usb.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}

		if info, ok := Classify(uint16(desc.Vendor), uint16(desc.Product)); ok {
			info.Path = fmt.Sprintf("bus %d, address %d", desc.Bus, desc.Address)
			results = append(results, info)
		}
		return false
	})
	if err != nil && !errors.Is(err, gousb.ErrorAccess) {
		return results, fmt.Errorf("probe: USB enumeration failed: %w", err)
	}

	results = append(results, Info{
		Kind:        KindSimulator,
		Description: "Simulator (lptsniff simulate)",
	})

	return results, ctx.Err()
}
