// pkg/inventory/remote.go

package inventory

import (
	"encoding/json"
	"io"
	"math/rand"
	"net/http"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/aiops-tools/aiopsgen/pkg/aiops_io"
	"github.com/aiops-tools/aiopsgen/pkg/config"
)

// devicesPath is the device API's target listing, filtered to FTD devices.
const devicesPath = "/aegis/rest/v1/services/targets/devices?q=deviceType:FTDC"

// NewRemote builds an inventory from the device API, falling back to
// synthetic generation when the call fails or returns nothing. Network
// errors are logged and absorbed; they never propagate to the caller.
func NewRemote(rc *aiops_io.RuntimeContext, settings *config.Settings, client *http.Client, rng *rand.Rand) *Inventory {
	log := otelzap.Ctx(rc.Ctx)

	devices, err := FetchDevices(rc, settings, client)
	if err != nil {
		log.Warn("Device API unavailable, generating synthetic inventory",
			zap.String("aegis_domain", settings.AegisDomain),
			zap.Error(err))
		return NewSynthetic(settings.DeviceCount, settings.DeviceSelection, rng)
	}
	if len(devices) == 0 {
		log.Warn("Device API returned no devices, generating synthetic inventory",
			zap.String("aegis_domain", settings.AegisDomain))
		return NewSynthetic(settings.DeviceCount, settings.DeviceSelection, rng)
	}

	log.Info("Device inventory fetched from device API",
		zap.Int("device_count", len(devices)))
	return NewFromDevices(devices, SourceRemote, settings.DeviceSelection, rng)
}

// FetchDevices queries the device API and returns its FTD devices.
func FetchDevices(rc *aiops_io.RuntimeContext, settings *config.Settings, client *http.Client) ([]Device, error) {
	url := settings.AegisDomain + devicesPath

	req, err := http.NewRequestWithContext(rc.Ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, cerr.Wrap(err, "failed to build device request")
	}
	req.Header.Set("Accept", "application/json")
	if settings.Token != "" {
		req.Header.Set("Authorization", "Bearer "+settings.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, cerr.Wrap(err, "device API request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, cerr.Newf("device API returned %d: %s", resp.StatusCode, string(body))
	}

	return decodeDevices(resp.Body)
}

// decodeDevices accepts either a bare JSON array or an {"items": [...]}
// wrapper, taking uid and name from each entry.
func decodeDevices(r io.Reader) ([]Device, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, cerr.Wrap(err, "failed to read device response")
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		var wrapper struct {
			Items []map[string]any `json:"items"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, cerr.Wrap(err, "failed to decode device response")
		}
		raw = wrapper.Items
	}

	devices := make([]Device, 0, len(raw))
	for _, entry := range raw {
		uid, _ := entry["uid"].(string)
		name, _ := entry["name"].(string)
		if uid == "" || name == "" {
			continue
		}
		devices = append(devices, Device{UID: uid, Name: name, Type: DeviceType})
	}
	return devices, nil
}
