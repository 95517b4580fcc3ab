package main

import (
	"testing"

	"rembot-host/pkg/config"
)

func TestOverridesApply(t *testing.T) {
	pc := config.DefaultPlotterConfig()
	ov := overrides{
		device:    "/dev/ttyUSB1",
		baud:      250000,
		threshold: 64,
		invert:    true,
		listen:    ":9000",
	}
	if err := ov.apply(pc); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if pc.Device != "/dev/ttyUSB1" || pc.Baud != 250000 {
		t.Errorf("unexpected serial overrides: %q %d", pc.Device, pc.Baud)
	}
	if pc.Threshold != 64 || !pc.Invert {
		t.Errorf("unexpected image overrides: threshold=%d invert=%v", pc.Threshold, pc.Invert)
	}
	if pc.MonitorAddr != ":9000" {
		t.Errorf("unexpected monitor override: %q", pc.MonitorAddr)
	}
}

func TestOverridesKeepProfileValues(t *testing.T) {
	pc := config.DefaultPlotterConfig()
	pc.Device = "/dev/ttyACM0"
	pc.Threshold = 200

	// Unset flags (zero values, threshold -1) leave the profile alone.
	if err := (overrides{threshold: -1}).apply(pc); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if pc.Device != "/dev/ttyACM0" || pc.Baud != 115200 {
		t.Errorf("profile serial settings changed: %q %d", pc.Device, pc.Baud)
	}
	if pc.Threshold != 200 || pc.Invert {
		t.Errorf("profile image settings changed: threshold=%d invert=%v", pc.Threshold, pc.Invert)
	}
	if pc.MonitorAddr != ":7600" {
		t.Errorf("profile monitor address changed: %q", pc.MonitorAddr)
	}
}

func TestOverridesRejectBadThreshold(t *testing.T) {
	pc := config.DefaultPlotterConfig()
	if err := (overrides{threshold: 256}).apply(pc); err == nil {
		t.Fatal("expected error for out-of-range threshold")
	}
	if pc.Threshold != 128 {
		t.Errorf("threshold changed despite rejection: %d", pc.Threshold)
	}
}
