// Package config decodes plugin options and loads service configuration.
package config

import (
	"fmt"

	"github.com/aretw0/sonisync/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// PluginID is the key under which hosts store the plugin's options.
const PluginID = "sonisync"

// Options is the per-chart configuration surface passed with every hook.
type Options struct {
	// CC is the element hosting the sonification controls. When nil the
	// host creates one next to the canvas.
	CC any `mapstructure:"cc"`

	// AudioEngine replaces the sonification engine's default audio output.
	AudioEngine any `mapstructure:"audioEngine"`

	// ErrorCallback receives user-facing error messages.
	ErrorCallback func(message string) `mapstructure:"errorCallback"`

	// Axes are caller overrides applied over every derived axis value.
	Axes domain.AxisOverrides `mapstructure:"axes"`

	Lang string `mapstructure:"lang"`
}

// ReportError forwards a message to the error callback, if any.
func (o Options) ReportError(message string) {
	if o.ErrorCallback != nil {
		o.ErrorCallback(message)
	}
}

// DecodeOptions decodes the host's generic plugin options map.
// A nil map yields the defaults.
func DecodeOptions(raw map[string]any) (Options, error) {
	var opts Options
	if raw == nil {
		return opts, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &opts,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return opts, fmt.Errorf("failed to build options decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return opts, fmt.Errorf("invalid %s options: %w", PluginID, err)
	}
	return opts, nil
}
