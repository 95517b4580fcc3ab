// rembot generates a plotter G-code program from an image and
// optionally delivers it to the device.
//
// Usage:
//
//	rembot -input drawing.png [options]
//
// Options:
//
//	-config string     Device profile file (INI)
//	-input string      Input image (PNG/JPEG/GIF/BMP/TIFF/WebP, required)
//	-output string     Write the program to this file
//	-send              Send the program to the serial device
//	-device string     Serial device path (overrides config)
//	-baud int          Baud rate (overrides config)
//	-threshold int     Luminance cutoff 0-255 (overrides config)
//	-invert            Draw light pixels instead of dark ones
//	-serve             Keep running and serve the monitor endpoint
//	-listen string     Monitor listen address (overrides config)
//	-logfile string    Log file path (default stderr)
//	-debug             Enable debug logging
//
// Examples:
//
//	# Generate and inspect
//	rembot -input drawing.png
//
//	# Generate, save, and plot
//	rembot -config rembot.cfg -input drawing.png -output drawing.gcode -send
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"rembot-host/pkg/acquire"
	"rembot-host/pkg/config"
	"rembot-host/pkg/log"
	"rembot-host/pkg/metrics"
	"rembot-host/pkg/monitor"
	"rembot-host/pkg/plot"
	"rembot-host/pkg/sender"
	"rembot-host/pkg/serial"
)

// overrides holds the command-line values that take precedence over
// the loaded profile. threshold -1 means "not set on the command line".
type overrides struct {
	device    string
	baud      int
	threshold int
	invert    bool
	listen    string
}

// apply merges the overrides into the profile.
func (o overrides) apply(pc *config.PlotterConfig) error {
	if o.device != "" {
		pc.Device = o.device
	}
	if o.baud > 0 {
		pc.Baud = o.baud
	}
	if o.threshold >= 0 {
		if o.threshold > 255 {
			return fmt.Errorf("-threshold must be in 0..255, got %d", o.threshold)
		}
		pc.Threshold = o.threshold
	}
	if o.invert {
		pc.Invert = true
	}
	if o.listen != "" {
		pc.MonitorAddr = o.listen
	}
	return nil
}

func main() {
	configFile := flag.String("config", "", "Device profile file (INI)")
	input := flag.String("input", "", "Input image file (required)")
	output := flag.String("output", "", "Write the program to this file")
	send := flag.Bool("send", false, "Send the program to the serial device")
	device := flag.String("device", "", "Serial device path (overrides config)")
	baud := flag.Int("baud", 0, "Baud rate (overrides config)")
	threshold := flag.Int("threshold", -1, "Luminance cutoff 0-255 (overrides config)")
	invert := flag.Bool("invert", false, "Draw light pixels instead of dark ones")
	serve := flag.Bool("serve", false, "Keep running and serve the monitor endpoint")
	listen := flag.String("listen", "", "Monitor listen address (overrides config)")
	logFile := flag.String("logfile", "", "Log file path (default stderr)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *input == "" {
		fmt.Fprintf(os.Stderr, "Error: -input is required\n")
		flag.Usage()
		os.Exit(1)
	}

	logger := log.New("rembot")
	if *logFile != "" {
		w, err := log.NewRotatingWriter(*logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer w.Close()
		logger.SetWriter(w)
		logger.SetColorize(false)
	}
	if *debug {
		logger.SetLevel(log.DEBUG)
	}
	log.SetDefaultLogger(logger)

	pc := config.DefaultPlotterConfig()
	if *configFile != "" {
		var err error
		pc, err = config.ParsePlotterConfig(*configFile)
		if err != nil {
			logger.Error("config: %v", err)
			os.Exit(1)
		}
	}
	ov := overrides{
		device:    *device,
		baud:      *baud,
		threshold: *threshold,
		invert:    *invert,
		listen:    *listen,
	}
	if err := ov.apply(pc); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	jobs := metrics.Default.Counter("rembot_jobs_total", "Programs generated")
	runsTotal := metrics.Default.Counter("rembot_runs_total", "Strokes extracted from rasters")
	linesSent := metrics.Default.Counter("rembot_lines_sent_total", "Program lines acknowledged by the device")

	logger.Info("loading %s (threshold=%d invert=%v)", *input, pc.Threshold, pc.Invert)
	r, err := acquire.LoadFile(*input, acquire.Options{
		Threshold: uint8(pc.Threshold),
		Invert:    pc.Invert,
	})
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	logger.Info("raster: %dx%d", r.Rows(), r.Cols())

	gen := plot.NewGenerator(r, plot.Options{
		SafetyHeight:    pc.SafetyHeight,
		TouchDownHeight: pc.TouchDownHeight,
		DrawHeight:      pc.DrawHeight,
		FeedRate:        pc.FeedRate,
		PreScript:       pc.PreScript,
		PostScript:      pc.PostScript,
		PixelSize:       pc.PixelSize,
		PixelStep:       pc.PixelStep,
		SplitStep:       pc.SplitStep,
		XOffset:         pc.XOffset,
		YOffset:         pc.YOffset,
	})
	result, err := gen.Generate()
	if err != nil {
		logger.Error("generate: %v", err)
		os.Exit(1)
	}
	jobs.Inc()
	runsTotal.Add(float64(result.Runs))
	logger.Info("program: %d lines, %d strokes", len(result.Lines), result.Runs)

	var mon *monitor.Server
	if *serve {
		mon = monitor.New(monitor.Config{Addr: pc.MonitorAddr})
		if err := mon.Start(); err != nil {
			logger.Error("monitor: %v", err)
			os.Exit(1)
		}
		mon.SetJob(filepath.Base(*input), result.Lines, result.Runs)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(result.Program()), 0644); err != nil {
			logger.Error("write %s: %v", *output, err)
			os.Exit(1)
		}
		logger.Info("wrote %s", *output)
	}

	if !*send && *output == "" && !*serve {
		fmt.Print(result.Program())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *send {
		if pc.Device == "" {
			logger.Error("no serial device: set -device or [serial] device in the config")
			os.Exit(1)
		}
		scfg := serial.DefaultConfig()
		scfg.Device = pc.Device
		scfg.BaudRate = pc.Baud
		port, err := serial.Open(scfg)
		if err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}
		defer port.Close()
		logger.Info("sending to %s at %d baud", pc.Device, pc.Baud)

		snd := sender.New(port, sender.Options{
			OnProgress: func(p sender.Progress) {
				linesSent.Inc()
				if mon != nil {
					mon.Progress(p.Sent, p.Total, p.Line)
				}
				logger.Debug("sent %d/%d: %s", p.Sent, p.Total, p.Line)
			},
		})
		if err := snd.Send(ctx, result.Lines); err != nil {
			if mon != nil {
				mon.Fail(err)
			}
			logger.Error("send: %v", err)
			os.Exit(1)
		}
		if mon != nil {
			mon.Done()
		}
		logger.Info("plot complete")
	}

	if *serve {
		logger.Info("monitor running, Ctrl-C to exit")
		<-ctx.Done()
		mon.Stop()
	}
}
