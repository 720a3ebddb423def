//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"c201/app"
	"c201/hal"
	"c201/internal/buildinfo"
	"c201/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: ~/.config/c201/config.yaml)")
	headless := flag.Bool("headless", false, "Run without a window.")
	hz := flag.Int("hz", 0, "Loop rate in headless mode.")
	ticks := flag.Uint64("ticks", 0, "Stop after N loop passes in headless mode (0 = run forever).")
	station := flag.Int("station", 0, "Station number used in the advertised name (1..99).")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn or error.")
	eeprom := flag.String("eeprom", "", "EEPROM image file.")
	port := flag.String("port", "", "Serial port for the command link (default: stdin/stdout).")
	baud := flag.Int("baud", 0, "Serial baud rate.")
	scale := flag.Int("scale", 0, "Window scale factor.")
	version := flag.Bool("version", false, "Print the build and exit.")
	flag.Parse()

	if *version {
		fmt.Println(buildinfo.String())
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatalf("config: %v", err)
	}

	// Flags given on the command line override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "hz":
			cfg.Headless.Hz = *hz
		case "ticks":
			cfg.Headless.Ticks = *ticks
		case "station":
			cfg.Station = *station
		case "log-level":
			cfg.LogLevel = *logLevel
		case "eeprom":
			cfg.EEPROMPath = *eeprom
		case "port":
			cfg.Serial.Port = *port
		case "baud":
			cfg.Serial.Baud = *baud
		case "scale":
			cfg.Window.Scale = *scale
		}
	})

	if err := cfg.Validate(); err != nil {
		fatalf("config validation: %v", err)
	}
	level, _ := cfg.Level()

	host := hal.HostOptions{
		EEPROMPath: cfg.EEPROMPath,
		SerialPort: cfg.Serial.Port,
		SerialBaud: cfg.Serial.Baud,
	}
	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, app.Config{
			Station:  cfg.Station,
			LogLevel: level,
		})
	}

	if *headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err := hal.RunHeadless(ctx, newApp, hal.HeadlessConfig{
			Enabled: true,
			Hz:      cfg.Headless.Hz,
			Ticks:   cfg.Headless.Ticks,
			Host:    host,
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			fatalf("%v", err)
		}
		return
	}

	if err := hal.RunWindow(newApp, hal.WindowConfig{Scale: cfg.Window.Scale, Host: host}); err != nil {
		fatalf("%v", err)
	}
}

// loadConfig reads path, or the default config file when path is empty and
// the file exists. Without either, defaults are used.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	defaultPath := config.DefaultConfigPath()
	if defaultPath == "" {
		return config.Default(), nil
	}
	if _, err := os.Stat(defaultPath); err != nil {
		return config.Default(), nil
	}
	cfg, err := config.Load(defaultPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", defaultPath, err)
	}
	return cfg, nil
}

// fatalf reports on stderr; stdout may be the command link.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "c201: "+format+"\n", args...)
	os.Exit(1)
}
