package config

import "testing"

func TestPlotterConfigDefaults(t *testing.T) {
	cfg, _ := LoadString("")
	pc, err := PlotterConfigFrom(cfg)
	if err != nil {
		t.Fatalf("PlotterConfigFrom: %v", err)
	}
	if pc.SafetyHeight != 1 || pc.TouchDownHeight != 0 || pc.DrawHeight != 1 {
		t.Errorf("unexpected height defaults: %+v", pc)
	}
	if pc.Threshold != 128 {
		t.Errorf("expected threshold 128, got %d", pc.Threshold)
	}
	if pc.Baud != 115200 {
		t.Errorf("expected baud 115200, got %d", pc.Baud)
	}
	if pc.MonitorAddr != ":7600" {
		t.Errorf("expected monitor addr :7600, got %q", pc.MonitorAddr)
	}
}

func TestPlotterConfigOverrides(t *testing.T) {
	cfg, err := LoadString(`
[plotter]
safety_height: 2.5
touch_down_height: -0.25
draw_height: 1.75
feed_rate: 1500
pixel_size: 0.2
x_offset: 10

[image]
threshold: 64
invert: yes

[scripts]
pre: G21 G90
post: M2

[serial]
device: /dev/ttyUSB0
baud: 250000

[monitor]
listen: 127.0.0.1:8080
`)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	pc, err := PlotterConfigFrom(cfg)
	if err != nil {
		t.Fatalf("PlotterConfigFrom: %v", err)
	}

	if pc.SafetyHeight != 2.5 || pc.TouchDownHeight != -0.25 || pc.DrawHeight != 1.75 {
		t.Errorf("unexpected heights: %+v", pc)
	}
	if pc.FeedRate != 1500 {
		t.Errorf("expected feed rate 1500, got %v", pc.FeedRate)
	}
	if pc.PixelSize != 0.2 || pc.XOffset != 10 {
		t.Errorf("expected stored scaling options: %+v", pc)
	}
	if pc.Threshold != 64 || !pc.Invert {
		t.Errorf("unexpected image options: threshold=%d invert=%v", pc.Threshold, pc.Invert)
	}
	if pc.PreScript != "G21 G90" || pc.PostScript != "M2" {
		t.Errorf("unexpected scripts: %q / %q", pc.PreScript, pc.PostScript)
	}
	if pc.Device != "/dev/ttyUSB0" || pc.Baud != 250000 {
		t.Errorf("unexpected serial options: %q %d", pc.Device, pc.Baud)
	}
	if pc.MonitorAddr != "127.0.0.1:8080" {
		t.Errorf("unexpected monitor addr: %q", pc.MonitorAddr)
	}
}

func TestPlotterConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"threshold too large", "[image]\nthreshold: 300\n"},
		{"threshold negative", "[image]\nthreshold: -1\n"},
		{"baud zero", "[serial]\nbaud: 0\n"},
		{"bad float", "[plotter]\nsafety_height: tall\n"},
		{"bad bool", "[image]\ninvert: maybe\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadString(tc.data)
			if err != nil {
				t.Fatalf("LoadString: %v", err)
			}
			if _, err := PlotterConfigFrom(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
