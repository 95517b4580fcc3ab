package config

// PlotterConfig is the typed view of a rembot device profile. It
// collects the options the host recognizes:
//
//	[plotter]  safety_height, touch_down_height, draw_height,
//	           feed_rate, pixel_size, pixel_step, split_step,
//	           x_offset, y_offset
//	[image]    threshold, invert
//	[scripts]  pre, post
//	[serial]   device, baud
//	[monitor]  listen
//
// pixel_size, pixel_step, split_step, x_offset and y_offset are
// accepted for compatibility with existing profiles; the generator
// stores them but applies no coordinate scaling.
type PlotterConfig struct {
	// Motion
	SafetyHeight    float64
	TouchDownHeight float64
	DrawHeight      float64
	FeedRate        float64
	PixelSize       float64
	PixelStep       float64
	SplitStep       float64
	XOffset         float64
	YOffset         float64

	// Image binarization
	Threshold int
	Invert    bool

	// Program framing
	PreScript  string
	PostScript string

	// Device link
	Device string
	Baud   int

	// Monitor server
	MonitorAddr string
}

// DefaultPlotterConfig returns the shipped defaults: touch-down at 0,
// draw and safety at 1, threshold 128, 115200 baud.
func DefaultPlotterConfig() *PlotterConfig {
	return &PlotterConfig{
		SafetyHeight:    1,
		TouchDownHeight: 0,
		DrawHeight:      1,
		Threshold:       128,
		Baud:            115200,
		MonitorAddr:     ":7600",
	}
}

// ParsePlotterConfig loads a profile file into a PlotterConfig. Every
// section is optional; missing options keep their defaults.
func ParsePlotterConfig(path string) (*PlotterConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return PlotterConfigFrom(cfg)
}

// PlotterConfigFrom extracts a PlotterConfig from a parsed Config.
func PlotterConfigFrom(cfg *Config) (*PlotterConfig, error) {
	pc := DefaultPlotterConfig()

	if sec := cfg.GetSectionOptional("plotter"); sec != nil {
		var err error
		if pc.SafetyHeight, err = sec.GetFloat("safety_height", pc.SafetyHeight); err != nil {
			return nil, err
		}
		if pc.TouchDownHeight, err = sec.GetFloat("touch_down_height", pc.TouchDownHeight); err != nil {
			return nil, err
		}
		if pc.DrawHeight, err = sec.GetFloat("draw_height", pc.DrawHeight); err != nil {
			return nil, err
		}
		if pc.FeedRate, err = sec.GetFloat("feed_rate", 0); err != nil {
			return nil, err
		}
		if pc.PixelSize, err = sec.GetFloat("pixel_size", 0); err != nil {
			return nil, err
		}
		if pc.PixelStep, err = sec.GetFloat("pixel_step", 0); err != nil {
			return nil, err
		}
		if pc.SplitStep, err = sec.GetFloat("split_step", 0); err != nil {
			return nil, err
		}
		if pc.XOffset, err = sec.GetFloat("x_offset", 0); err != nil {
			return nil, err
		}
		if pc.YOffset, err = sec.GetFloat("y_offset", 0); err != nil {
			return nil, err
		}
	}

	if sec := cfg.GetSectionOptional("image"); sec != nil {
		var err error
		if pc.Threshold, err = sec.GetInt("threshold", pc.Threshold); err != nil {
			return nil, err
		}
		if pc.Threshold < 0 || pc.Threshold > 255 {
			return nil, NewConfigError("image", "threshold", "must be in 0..255")
		}
		if pc.Invert, err = sec.GetBool("invert", false); err != nil {
			return nil, err
		}
	}

	if sec := cfg.GetSectionOptional("scripts"); sec != nil {
		var err error
		if pc.PreScript, err = sec.Get("pre", ""); err != nil {
			return nil, err
		}
		if pc.PostScript, err = sec.Get("post", ""); err != nil {
			return nil, err
		}
	}

	if sec := cfg.GetSectionOptional("serial"); sec != nil {
		var err error
		if pc.Device, err = sec.Get("device", ""); err != nil {
			return nil, err
		}
		if pc.Baud, err = sec.GetInt("baud", pc.Baud); err != nil {
			return nil, err
		}
		if pc.Baud <= 0 {
			return nil, NewConfigError("serial", "baud", "must be positive")
		}
	}

	if sec := cfg.GetSectionOptional("monitor"); sec != nil {
		var err error
		if pc.MonitorAddr, err = sec.Get("listen", pc.MonitorAddr); err != nil {
			return nil, err
		}
	}

	return pc, nil
}
