// pkg/config/settings.go

package config

import (
	"os"
	"strconv"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/aiops-tools/aiopsgen/pkg/aiops_io"
)

const (
	// DefaultDomain is used when neither flags nor environment name one.
	DefaultDomain = "http://localhost:4047"

	// DefaultDeviceCount sizes the synthetic inventory.
	DefaultDeviceCount = 50
)

// SelectionMode controls how the device inventory hands out devices.
type SelectionMode string

const (
	SelectionRandom     SelectionMode = "random"
	SelectionSequential SelectionMode = "sequential"
)

// PickerMode controls how templates are drawn within a category.
type PickerMode string

const (
	PickerSequential PickerMode = "sequential"
	PickerRandom     PickerMode = "random"
)

// GenerationMode selects between one pass over the plan ("insight") and
// one full pass per inventory device ("device").
type GenerationMode string

const (
	ModeInsight GenerationMode = "insight"
	ModeDevice  GenerationMode = "device"
)

// Settings is the runtime configuration, resolved exactly once at startup
// with precedence CLI flag > environment variable > default. Components
// receive it explicitly; nothing reads the environment after this point.
type Settings struct {
	Domain          string         `validate:"required,url"`
	AegisDomain     string         `validate:"required,url"`
	Token           string         `validate:"-"`
	DeviceSelection SelectionMode  `validate:"oneof=random sequential"`
	PickerMode      PickerMode     `validate:"oneof=sequential random"`
	GenerationMode  GenerationMode `validate:"oneof=insight device"`
	DeviceCount     int            `validate:"gt=0"`
	DryRun          bool           `validate:"-"`
}

// Overrides carries the CLI flag values that take precedence over the
// environment.
type Overrides struct {
	Endpoint string
	Token    string
	DryRun   bool
}

var validate = validator.New()

// ResolveSettings loads .env (best effort), merges flags over environment
// over defaults, and validates the result.
func ResolveSettings(rc *aiops_io.RuntimeContext, ov Overrides) (*Settings, error) {
	log := otelzap.Ctx(rc.Ctx)

	// A missing .env is the normal case; only surface real load failures.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("Failed to load .env file", zap.Error(err))
	}

	s := &Settings{
		Domain:          resolveDomain(log),
		Token:           os.Getenv("AIOPS_TOKEN"),
		DeviceSelection: SelectionRandom,
		PickerMode:      PickerSequential,
		GenerationMode:  ModeInsight,
		DeviceCount:     DefaultDeviceCount,
		DryRun:          ov.DryRun,
	}

	if v := os.Getenv("AEGIS_DOMAIN"); v != "" {
		s.AegisDomain = strings.TrimRight(v, "/")
	}

	if v := os.Getenv("AIOPS_DEVICE_SELECTION"); v != "" {
		s.DeviceSelection = SelectionMode(strings.ToLower(v))
	}
	if v := os.Getenv("INSIGHT_PICKER"); v != "" {
		s.PickerMode = PickerMode(strings.ToLower(v))
	}
	if v := os.Getenv("GENERATION_MODE"); v != "" {
		s.GenerationMode = GenerationMode(strings.ToLower(v))
	}
	if v := os.Getenv("AIOPS_DEVICE_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, cerr.Wrapf(err, "AIOPS_DEVICE_COUNT %q is not an integer", v)
		}
		s.DeviceCount = n
	}

	// CLI flags win over everything above.
	if ov.Endpoint != "" {
		s.Domain = strings.TrimRight(ov.Endpoint, "/")
	}
	if ov.Token != "" {
		s.Token = ov.Token
	}

	// Device API defaults to the insights domain.
	if s.AegisDomain == "" {
		s.AegisDomain = s.Domain
	}

	if err := validate.Struct(s); err != nil {
		return nil, cerr.Wrap(err, "invalid settings")
	}

	log.Info("Settings resolved",
		zap.String("domain", s.Domain),
		zap.String("aegis_domain", s.AegisDomain),
		zap.Bool("token_present", s.Token != ""),
		zap.String("device_selection", string(s.DeviceSelection)),
		zap.String("picker_mode", string(s.PickerMode)),
		zap.String("generation_mode", string(s.GenerationMode)),
		zap.Int("device_count", s.DeviceCount),
		zap.Bool("dry_run", s.DryRun))

	return s, nil
}

// resolveDomain prefers the canonical AIOPS_DOMAIN and accepts the
// deprecated AIOPS_BASE_URL alias with a warning.
func resolveDomain(log otelzap.LoggerWithCtx) string {
	if v := os.Getenv("AIOPS_DOMAIN"); v != "" {
		return strings.TrimRight(v, "/")
	}
	if v := os.Getenv("AIOPS_BASE_URL"); v != "" {
		log.Warn("AIOPS_BASE_URL is deprecated, use AIOPS_DOMAIN instead")
		return strings.TrimRight(v, "/")
	}
	return DefaultDomain
}
