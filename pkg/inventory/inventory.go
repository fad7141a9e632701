// pkg/inventory/inventory.go

// Package inventory supplies the devices bound to generated insights as
// impacted resources. Devices come from the remote device API when it is
// reachable, and from synthetic generation otherwise; the chosen source is
// recorded so callers can observe a fallback instead of guessing.
package inventory

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/aiops-tools/aiopsgen/pkg/config"
)

// DeviceType is the only device type the generator emits today.
const DeviceType = "FTD"

// Device is an impacted-resource entry.
type Device struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Source tags where the inventory's devices came from.
type Source string

const (
	// SourceRemote means the device API supplied the inventory.
	SourceRemote Source = "remote"
	// SourceSynthetic means the inventory was generated locally.
	SourceSynthetic Source = "synthetic"
	// SourceFallback means the single deterministic placeholder is in use.
	SourceFallback Source = "fallback"
)

// Inventory is an ordered device collection with a selection policy. It is
// not safe for concurrent use; the generator drives it from one goroutine.
type Inventory struct {
	devices []Device
	source  Source
	mode    config.SelectionMode
	cursor  int
	rng     *rand.Rand
}

var (
	namePrefixes = []string{
		"firewall", "gateway", "router", "switch", "security",
		"border", "core", "edge", "dmz", "internal",
		"external", "backup", "primary", "secondary", "main",
	}
	nameLocations = []string{
		"hq", "dc1", "dc2", "site1", "site2", "branch1", "branch2",
		"east", "west", "north", "south", "central", "remote",
	}
)

// NewSynthetic builds an inventory of locally generated devices. A count
// that cannot produce an inventory yields the deterministic placeholder.
func NewSynthetic(count int, mode config.SelectionMode, rng *rand.Rand) *Inventory {
	if count <= 0 {
		return newFromDevices([]Device{placeholderDevice()}, SourceFallback, mode, rng)
	}

	devices := make([]Device, 0, count)
	for i := 0; i < count; i++ {
		devices = append(devices, syntheticDevice(rng))
	}
	return newFromDevices(devices, SourceSynthetic, mode, rng)
}

// NewFromDevices wraps an externally fetched device list; an empty list
// falls back to the placeholder.
func NewFromDevices(devices []Device, source Source, mode config.SelectionMode, rng *rand.Rand) *Inventory {
	if len(devices) == 0 {
		return newFromDevices([]Device{placeholderDevice()}, SourceFallback, mode, rng)
	}
	return newFromDevices(devices, source, mode, rng)
}

func newFromDevices(devices []Device, source Source, mode config.SelectionMode, rng *rand.Rand) *Inventory {
	return &Inventory{
		devices: devices,
		source:  source,
		mode:    mode,
		rng:     rng,
	}
}

// Next returns a device per the selection policy: sequential wraps through
// the list in order, random draws uniformly.
func (inv *Inventory) Next() Device {
	if inv.mode == config.SelectionSequential {
		d := inv.devices[inv.cursor%len(inv.devices)]
		inv.cursor++
		return d
	}
	return inv.devices[inv.rng.Intn(len(inv.devices))]
}

// All returns a copy of the device list in inventory order.
func (inv *Inventory) All() []Device {
	out := make([]Device, len(inv.devices))
	copy(out, inv.devices)
	return out
}

// Count returns the inventory size.
func (inv *Inventory) Count() int {
	return len(inv.devices)
}

// Source reports where the devices came from.
func (inv *Inventory) Source() Source {
	return inv.source
}

func syntheticDevice(rng *rand.Rand) Device {
	prefix := namePrefixes[rng.Intn(len(namePrefixes))]
	location := nameLocations[rng.Intn(len(nameLocations))]
	number := rng.Intn(999) + 1

	return Device{
		UID:  uuid.NewString(),
		Name: fmt.Sprintf("%s_%s_%03d", prefix, location, number),
		Type: DeviceType,
	}
}

// placeholderDevice is fully deterministic so repeated fallback runs bind
// insights to the same device.
func placeholderDevice() Device {
	const name = "firewall_fallback_001"
	return Device{
		UID:  uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String(),
		Name: name,
		Type: DeviceType,
	}
}
