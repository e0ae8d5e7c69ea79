package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ThatOtherAndrew/fragview/internal/logx"
	"github.com/ThatOtherAndrew/fragview/internal/timeline"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

type WindowSettings struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`
}

type CameraSettings struct {
	BaseDistance float32    `toml:"base_distance"`
	Zoom         float32    `toml:"zoom"`
	RotationX    float32    `toml:"rotation_x"`
	RotationY    float32    `toml:"rotation_y"`
	Origin       [3]float32 `toml:"origin"`
	QuadView     bool       `toml:"quad_view"`
	SplitX       float32    `toml:"split_x"`
	SplitY       float32    `toml:"split_y"`
	MinPaneSize  int        `toml:"min_pane_size"`
}

type TimelineSettings struct {
	LoopStart float64 `toml:"loop_start"`
	LoopEnd   float64 `toml:"loop_end"`
	LoopMode  string  `toml:"loop_mode"`
	Autoplay  bool    `toml:"autoplay"`
}

type RenderSettings struct {
	Mode int32 `toml:"mode"`
}

type WatchSettings struct {
	Enabled    bool `toml:"enabled"`
	DebounceMS int  `toml:"debounce_ms"`
}

type RemoteSettings struct {
	// Listen is the address of the editor bridge; empty disables it.
	Listen string `toml:"listen"`
}

type Settings struct {
	Window   WindowSettings   `toml:"window"`
	Camera   CameraSettings   `toml:"camera"`
	Timeline TimelineSettings `toml:"timeline"`
	Render   RenderSettings   `toml:"render"`
	Watch    WatchSettings    `toml:"watch"`
	Remote   RemoteSettings   `toml:"remote"`
}

const MinWindowSize = 128

func Default() *Settings {
	return &Settings{
		Window: WindowSettings{Width: 1024, Height: 768, Title: "fragview", VSync: true},
		Camera: CameraSettings{
			BaseDistance: 512,
			Zoom:         1,
			SplitX:       0.5,
			SplitY:       0.5,
			MinPaneSize:  64,
		},
		Timeline: TimelineSettings{
			LoopStart: timeline.DefaultLoopStart,
			LoopEnd:   timeline.DefaultLoopEnd,
			LoopMode:  string(timeline.NoLoop),
			Autoplay:  true,
		},
		Watch: WatchSettings{Enabled: true, DebounceMS: 100},
	}
}

// LoopMode returns the validated loop mode.
func (s *Settings) LoopMode() timeline.LoopMode {
	return timeline.LoopMode(s.Timeline.LoopMode)
}

func GetSettingsPath() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "fragview", "settings.toml"), nil
}

// LoadSettings reads the settings file at path, or the default location when
// path is empty. A missing file is created with defaults. Unknown keys and
// out-of-range values are reported and replaced by defaults; an unknown loop
// mode is returned as a *timeline.ConfigError.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		var err error
		if path, err = GetSettingsPath(); err != nil {
			return nil, err
		}
	} else {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, err
		}
		path = expanded
	}

	defaultSettings := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logx.Logger().Info("creating default settings file", "path", path)
			if err := createDefaultSettings(path, defaultSettings); err != nil {
				logx.Logger().Warn("failed to create default settings file", "err", err)
			}
			return defaultSettings, nil
		}
		return nil, err
	}

	// Check for unrecognised keys
	strict := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := strict.Decode(Default()); err != nil {
		var missing *toml.StrictMissingError
		if !errors.As(err, &missing) {
			logx.Logger().Warn("invalid settings file, using defaults", "path", path, "err", err)
			return defaultSettings, nil
		}
		for _, e := range missing.Errors {
			logx.Logger().Warn("unrecognised setting key in settings file", "key", strings.Join(e.Key(), "."))
		}
	}

	settings := Default()
	if err := toml.Unmarshal(data, settings); err != nil {
		logx.Logger().Warn("invalid settings file, using defaults", "path", path, "err", err)
		return defaultSettings, nil
	}

	if err := settings.validate(defaultSettings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Settings) validate(d *Settings) error {
	if _, err := timeline.ParseLoopMode(s.Timeline.LoopMode); err != nil {
		return err
	}

	reset := func(key string, value, def any) {
		logx.Logger().Warn("invalid setting, using default", "key", key, "value", value, "default", def)
	}

	if s.Window.Width < MinWindowSize {
		reset("window.width", s.Window.Width, d.Window.Width)
		s.Window.Width = d.Window.Width
	}
	if s.Window.Height < MinWindowSize {
		reset("window.height", s.Window.Height, d.Window.Height)
		s.Window.Height = d.Window.Height
	}
	if s.Camera.BaseDistance <= 0 {
		reset("camera.base_distance", s.Camera.BaseDistance, d.Camera.BaseDistance)
		s.Camera.BaseDistance = d.Camera.BaseDistance
	}
	if s.Camera.Zoom <= 0 {
		reset("camera.zoom", s.Camera.Zoom, d.Camera.Zoom)
		s.Camera.Zoom = d.Camera.Zoom
	}
	if s.Camera.SplitX < 0 || s.Camera.SplitX > 1 {
		reset("camera.split_x", s.Camera.SplitX, d.Camera.SplitX)
		s.Camera.SplitX = d.Camera.SplitX
	}
	if s.Camera.SplitY < 0 || s.Camera.SplitY > 1 {
		reset("camera.split_y", s.Camera.SplitY, d.Camera.SplitY)
		s.Camera.SplitY = d.Camera.SplitY
	}
	if s.Camera.MinPaneSize < 1 {
		reset("camera.min_pane_size", s.Camera.MinPaneSize, d.Camera.MinPaneSize)
		s.Camera.MinPaneSize = d.Camera.MinPaneSize
	}
	if s.Timeline.LoopEnd <= s.Timeline.LoopStart {
		reset("timeline.loop_end", s.Timeline.LoopEnd, d.Timeline.LoopEnd)
		s.Timeline.LoopStart = d.Timeline.LoopStart
		s.Timeline.LoopEnd = d.Timeline.LoopEnd
	}
	if s.Watch.DebounceMS < 0 {
		reset("watch.debounce_ms", s.Watch.DebounceMS, d.Watch.DebounceMS)
		s.Watch.DebounceMS = d.Watch.DebounceMS
	}
	return nil
}

func createDefaultSettings(path string, settings *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
