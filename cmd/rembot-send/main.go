// rembot-send streams an existing G-code program file to the plotter.
//
// Usage:
//
//	rembot-send -device /dev/ttyACM0 -file drawing.gcode [options]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"rembot-host/pkg/log"
	"rembot-host/pkg/sender"
	"rembot-host/pkg/serial"
)

func main() {
	device := flag.String("device", "", "Serial device path (required)")
	baud := flag.Int("baud", 115200, "Baud rate")
	file := flag.String("file", "", "Program file to send (required)")
	ackTimeout := flag.Duration("ack-timeout", 30*time.Second, "Per-line acknowledgement timeout")
	listPorts := flag.Bool("list", false, "List available serial ports and exit")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logger := log.New("rembot-send")
	if *debug {
		logger.SetLevel(log.DEBUG)
	}
	log.SetDefaultLogger(logger)

	if *listPorts {
		ports, err := serial.ListPorts()
		if err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	if *device == "" || *file == "" {
		fmt.Fprintf(os.Stderr, "Error: -device and -file are required\n")
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		logger.Error("read %s: %v", *file, err)
		os.Exit(1)
	}
	lines := splitProgram(string(data))
	if len(lines) == 0 {
		logger.Error("%s contains no program lines", *file)
		os.Exit(1)
	}

	scfg := serial.DefaultConfig()
	scfg.Device = *device
	scfg.BaudRate = *baud
	port, err := serial.Open(scfg)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	defer port.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("sending %d lines to %s at %d baud", len(lines), *device, *baud)
	snd := sender.New(port, sender.Options{
		AckTimeout: *ackTimeout,
		OnProgress: func(p sender.Progress) {
			logger.Debug("sent %d/%d: %s", p.Sent, p.Total, p.Line)
		},
	})
	if err := snd.Send(ctx, lines); err != nil {
		logger.Error("send: %v", err)
		os.Exit(1)
	}
	logger.Info("done")
}

// splitProgram splits a program file into lines, tolerating both CRLF
// and LF terminators and dropping the trailing empty entry.
func splitProgram(data string) []string {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	lines := strings.Split(data, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
