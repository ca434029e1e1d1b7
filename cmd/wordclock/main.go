// Command wordclock drives a WS2812B word clock matrix, watches a DCF77
// receiver and publishes its state to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"

	"github.com/flobbe/wordclock/internal/blink"
	"github.com/flobbe/wordclock/internal/clock"
	"github.com/flobbe/wordclock/internal/config"
	"github.com/flobbe/wordclock/internal/dcf77"
	"github.com/flobbe/wordclock/internal/display"
	"github.com/flobbe/wordclock/internal/gpio"
	"github.com/flobbe/wordclock/internal/mqtt"
	"github.com/flobbe/wordclock/internal/pixel"
	"github.com/flobbe/wordclock/internal/status"
	"github.com/flobbe/wordclock/internal/web"
	"github.com/flobbe/wordclock/internal/wordframe"
)

func main() {
	def := config.Default()
	var (
		configPath = flag.String("config", "", "path to config.yaml (optional)")
		poll       = flag.Duration("poll", def.Poll, "DCF77 sampling and frame interval")
		broker     = flag.String("broker", def.Broker, "MQTT broker address")
		heartbeat  = flag.Duration("heartbeat", def.Heartbeat, "Heartbeat interval (0 to disable)")
		httpAddr   = flag.String("http", def.HTTPAddr, "HTTP status address (empty to disable)")
		driver     = flag.String("driver", def.Driver, "LED driver: spi | console | none")
		brightness = flag.Uint("brightness", uint(def.Brightness), "global brightness 0..255")
		seconds    = flag.String("seconds", def.SecondsMode, "seconds overlay: hidden | hand | dot | digits | countdown")
		splash     = flag.Int("splash", def.Splash, "splash effect: 0 random, 1 snake, 2 filled snake")
		printState = flag.Bool("print-state", false, "Print the phrase for the current time and exit")
		debug      = flag.Bool("debug", false, "log every DCF77 edge")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := def
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("config load failed")
		}
		cfg = c
	}

	// Flags given on the command line win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "poll":
			cfg.Poll = *poll
		case "broker":
			cfg.Broker = *broker
		case "heartbeat":
			cfg.Heartbeat = *heartbeat
		case "http":
			cfg.HTTPAddr = *httpAddr
		case "driver":
			cfg.Driver = *driver
		case "brightness":
			cfg.Brightness = uint8(min(*brightness, 255))
		case "seconds":
			cfg.SecondsMode = *seconds
		case "splash":
			cfg.Splash = *splash
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if *printState {
		if err := printPhrase(os.Stdout, cfg, time.Now()); err != nil {
			log.Fatal().Err(err).Msg("print state")
		}
		return
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}

func run(cfg *config.Config) error {
	n := cfg.Matrix.Width * cfg.Matrix.Height
	sink, driver := openSink(cfg, n)
	strip, err := pixel.NewStrip(n, sink)
	if err != nil {
		return fmt.Errorf("init strip: %w", err)
	}
	defer strip.Close()

	clk := clock.NewSystem()
	engine, err := newEngine(cfg, strip, clk, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		return err
	}
	if err := engine.Setup(); err != nil {
		return err
	}

	var reader gpio.Reader
	if cfg.DCF77.Pin >= 0 {
		r, err := gpio.NewRealReader(cfg.DCF77.Chip, cfg.DCF77.Pin, cfg.DCF77.ActiveLow)
		if err != nil {
			log.Warn().Err(err).Int("pin", cfg.DCF77.Pin).Msg("DCF77 receiver unavailable; running without signal")
		} else {
			reader = r
			defer r.Close()
		}
	}

	var blinker *blink.Blinker
	if cfg.Blink.Pin >= 0 {
		o, err := gpio.NewRealOutput(cfg.DCF77.Chip, cfg.Blink.Pin)
		if err != nil {
			log.Warn().Err(err).Int("pin", cfg.Blink.Pin).Msg("status LED unavailable")
		} else {
			blinker = blink.New(clk, o, uint32(cfg.Blink.IntervalMs))
			defer o.Close()
		}
	}

	publisher := mqtt.NewRealPublisher(cfg.Broker)
	defer publisher.Close()

	// Status tracker first so the STARTUP snapshot is complete.
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      cfg.Poll.Milliseconds(),
		HeartbeatMs: cfg.Heartbeat.Milliseconds(),
		Broker:      cfg.Broker,
		HTTPPort:    cfg.HTTPAddr,
		Driver:      driver,
		Width:       cfg.Matrix.Width,
		Height:      cfg.Matrix.Height,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	snap := tracker.Snapshot()
	startup := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startup); err != nil {
		log.Warn().Err(err).Msg("failed to publish startup event")
	} else {
		log.Info().Msg("published startup event")
	}

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, strip, web.Matrix{
			Width:  cfg.Matrix.Width,
			Height: cfg.Matrix.Height,
			Index:  display.Index,
		})
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("http server error")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http status server listening")
	}

	log.Info().
		Str("driver", driver).
		Str("matrix", fmt.Sprintf("%dx%d", cfg.Matrix.Width, cfg.Matrix.Height)).
		Dur("poll", cfg.Poll).
		Str("broker", cfg.Broker).
		Dur("heartbeat", cfg.Heartbeat).
		Msg("started")

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	l := &loop{
		reader:     reader,
		signal:     dcf77.NewTracker(clk),
		engine:     engine,
		blinker:    blinker,
		publisher:  publisher,
		conn:       publisher,
		commands:   publisher,
		status:     tracker,
		composer:   wordframe.NewComposer(wordframe.German),
		heartbeat:  cfg.Heartbeat,
		brightness: cfg.Brightness,
		now:        time.Now,
		network:    readNetworkInfo,
	}
	return l.run(ticker.C, sigCh)
}

// openSink selects the LED output. A failing SPI strip falls back to the
// console so the daemon stays observable.
func openSink(cfg *config.Config, n int) (pixel.Sink, string) {
	switch cfg.Driver {
	case config.DriverSPI:
		s, err := pixel.OpenSPI(cfg.SPI.Dev, n, physic.Frequency(cfg.SPI.SpeedHz)*physic.Hertz)
		if err == nil {
			return s, config.DriverSPI
		}
		log.Warn().Err(err).
			Str("driver", "spi").
			Str("dev", cfg.SPI.Dev).
			Int64("speed_hz", cfg.SPI.SpeedHz).
			Msg("SPI init failed; falling back to console")
		return pixel.OpenConsole(n), config.DriverConsole
	case config.DriverConsole:
		return pixel.OpenConsole(n), config.DriverConsole
	}
	return nil, config.DriverNone
}

func newEngine(cfg *config.Config, buf pixel.Buffer, clk clock.Clock, rnd display.Rand) (*display.Engine, error) {
	wordColor, err := cfg.Color()
	if err != nil {
		return nil, err
	}
	mode, err := cfg.Seconds()
	if err != nil {
		return nil, err
	}
	return display.New(display.Config{
		Grammar:     wordframe.German,
		Width:       cfg.Matrix.Width,
		Height:      cfg.Matrix.Height,
		Brightness:  cfg.Brightness,
		WordColor:   wordColor,
		SecondsMode: mode,
		Splash:      display.Effect(cfg.Splash),
		SnakeRings:  cfg.SnakeRings,
	}, buf, clk, rnd)
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

// printPhrase writes the phrase and the lit plate cells for t.
func printPhrase(w io.Writer, cfg *config.Config, t time.Time) error {
	c := wordframe.NewComposer(wordframe.German)
	words, err := c.Words(t.Hour()%12, t.Minute())
	if err != nil {
		return err
	}
	frame, err := c.FromTime(t.Hour()%12, t.Minute())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%02d:%02d %s (driver=%s matrix=%dx%d)\n%s",
		t.Hour(), t.Minute(), strings.Join(words, " "),
		cfg.Driver, cfg.Matrix.Width, cfg.Matrix.Height, frame)
	return nil
}
