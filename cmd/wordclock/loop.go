package main

import (
	"os"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/flobbe/wordclock/internal/blink"
	"github.com/flobbe/wordclock/internal/dcf77"
	"github.com/flobbe/wordclock/internal/display"
	"github.com/flobbe/wordclock/internal/gpio"
	"github.com/flobbe/wordclock/internal/mqtt"
	"github.com/flobbe/wordclock/internal/status"
	"github.com/flobbe/wordclock/internal/wordframe"
)

// pi-helper NETWORK_STATUS values.
const (
	netConnected  = "connected"
	netConnecting = "connecting"
)

// statusHold is how long the connecting and error screens stay up before
// the clock face returns.
const statusHold = 10 * time.Second

// loop owns the engine and the DCF77 tracker. Everything that touches them
// runs on the goroutine calling run.
type loop struct {
	reader    gpio.Reader // nil without a receiver
	signal    *dcf77.Tracker
	engine    *display.Engine
	blinker   *blink.Blinker // nil without a status LED
	publisher mqtt.Publisher
	conn      mqtt.ConnectionStatus
	commands  mqtt.CommandSource
	status    *status.Tracker
	composer  wordframe.Composer
	heartbeat time.Duration
	now       func() time.Time
	network   func() *status.NetworkInfo

	brightness    uint8
	lastHeartbeat time.Time
	lastMarker    time.Time
	synced        bool
	readFailing   bool

	net         *status.NetworkInfo
	shownNet    string
	screenSince time.Time

	wordsKey int
	words    []string
}

func (l *loop) run(tick <-chan time.Time, sig <-chan os.Signal) error {
	l.lastHeartbeat = l.now()
	l.wordsKey = -1
	if l.network != nil {
		l.net = l.network()
	}

	var cmds <-chan mqtt.Command
	if l.commands != nil {
		cmds = l.commands.Commands()
	}

	for {
		select {
		case s := <-sig:
			l.shutdown(s)
			return nil
		case c := <-cmds:
			l.apply(c)
		case <-tick:
			l.step(l.now())
		}
	}
}

// step runs one cooperative pass: receiver first, then rendering.
func (l *loop) step(t time.Time) {
	l.sample(t)

	l.engine.SetTime(t.Hour(), t.Minute(), t.Second())
	l.updateScreens(t)
	if err := l.engine.Update(); err != nil {
		log.Error().Err(err).Msg("display update failed")
	}
	if l.blinker != nil {
		if err := l.blinker.Update(); err != nil {
			log.Warn().Err(err).Msg("status LED write failed")
		}
	}

	l.updateStatus()
	l.checkHeartbeat(t)
}

func (l *loop) sample(t time.Time) {
	if l.reader == nil {
		return
	}
	level, err := l.reader.Read()
	if err != nil {
		if !l.readFailing {
			log.Warn().Err(err).Msg("dcf77 read error")
		}
		l.readFailing = true
		return
	}
	if l.readFailing {
		log.Info().Msg("dcf77 read recovered")
		l.readFailing = false
	}

	obs, ok := l.signal.ProcessSignal(level)
	if !ok {
		return
	}
	log.Debug().
		Str("kind", string(obs.Kind)).
		Bool("level", obs.Level).
		Uint32("duration", obs.Duration).
		Int32("deviation", obs.Deviation).
		Uint8("bit", obs.Bit).
		Int("index", obs.BitIndex).
		Int("quality", obs.Quality).
		Msg("edge")

	if obs.Kind == dcf77.KindMinuteMarker {
		l.lastMarker = t
		log.Info().Int("quality", obs.Quality).Msg("minute marker")
		l.publish(t, mqtt.EventMinuteMarker, obs.Quality)
	}
	synced := l.signal.Synced()
	if l.synced && !synced {
		log.Warn().Int("quality", obs.Quality).Msg("dcf77 sync lost")
		l.publish(t, mqtt.EventSyncLost, obs.Quality)
	}
	l.synced = synced
}

func (l *loop) publish(t time.Time, event string, quality int) {
	err := l.publisher.Publish(mqtt.SignalEvent{
		Timestamp: t,
		Event:     event,
		Quality:   quality,
		Counts:    l.signal.Counts(),
	})
	if err != nil {
		log.Warn().Err(err).Str("event", event).Msg("publish error")
	}
}

// updateScreens maps the network status onto the status screens once the
// splash has finished.
func (l *loop) updateScreens(t time.Time) {
	if l.net == nil || l.engine.State() == display.StateSplash {
		return
	}
	if s := l.net.Status; s != l.shownNet {
		l.shownNet = s
		l.screenSince = t
		log.Info().Str("network", s).Msg("network status")
		switch s {
		case netConnected:
			l.engine.ShowConnectedOK()
		case netConnecting:
			l.engine.ShowConnecting()
		default:
			l.engine.ShowConnectError()
		}
		return
	}
	if t.Sub(l.screenSince) < statusHold {
		return
	}
	// The error screen has no exit of its own; step back through the
	// spinner before returning to the clock face.
	switch l.engine.State() {
	case display.StateConnectError:
		l.screenSince = t
		l.engine.ShowConnecting()
	case display.StateConnecting:
		l.engine.ShowTime()
	}
}

func (l *loop) apply(c mqtt.Command) {
	ev := log.Info()
	if c.SecondsMode != nil {
		l.engine.SetSecondsMode(*c.SecondsMode)
		ev = ev.Stringer("seconds_mode", *c.SecondsMode)
	}
	if c.Brightness != nil {
		l.brightness = *c.Brightness
		l.engine.SetBrightness(*c.Brightness)
		ev = ev.Uint8("brightness", *c.Brightness)
	}
	if c.WordColor != nil {
		l.engine.SetWordColor(*c.WordColor)
		ev = ev.Str("word_color", c.WordColor.Hex())
	}
	if c.Splash != nil {
		l.engine.SetSplashScreen(*c.Splash)
		ev = ev.Int("splash", int(*c.Splash))
	}
	ev.Msg("command applied")
}

func (l *loop) updateStatus() {
	h, m, s := l.engine.Time()
	if key := h*60 + m; key != l.wordsKey {
		words, err := l.composer.Words(h%12, m)
		if err != nil {
			log.Error().Err(err).Int("hour", h).Int("minute", m).Msg("compose words")
		} else {
			l.words = words
			l.wordsKey = key
		}
	}

	l.status.UpdateSignal(status.Signal{
		Quality:    l.signal.SignalQuality(),
		Synced:     l.signal.Synced(),
		BitIndex:   l.signal.BitIndex(),
		LastBit:    l.signal.LastBit(),
		Level:      l.signal.Level(),
		Counts:     l.signal.Counts(),
		LastMarker: l.lastMarker,
	})
	l.status.UpdateDisplay(status.Display{
		State:       l.engine.State().String(),
		SecondsMode: l.engine.SecondsMode().String(),
		Hour:        h,
		Minute:      m,
		Second:      s,
		Words:       l.words,
		Brightness:  l.brightness,
	})
	if l.conn != nil {
		l.status.SetMQTTConnected(l.conn.IsConnected())
	}
}

func (l *loop) checkHeartbeat(t time.Time) {
	if l.heartbeat <= 0 || t.Sub(l.lastHeartbeat) < l.heartbeat {
		return
	}
	l.lastHeartbeat = t

	// Refresh network info for heartbeat
	if l.network != nil {
		if net := l.network(); net != nil {
			l.net = net
			l.status.SetNetwork(net)
		}
	}
	snap := l.status.Snapshot()
	log.Info().
		Int("quality", snap.Signal.Quality).
		Bool("synced", snap.Signal.Synced).
		Int("minute_markers", snap.Signal.Counts.MinuteMarkers).
		Dur("uptime", snap.Uptime()).
		Msg("heartbeat")

	event := mqtt.SystemEvent{
		Timestamp:  t,
		Event:      "HEARTBEAT",
		RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
	}
	if err := l.publisher.PublishSystem(event); err != nil {
		log.Warn().Err(err).Msg("heartbeat publish error")
	}
}

func (l *loop) shutdown(s os.Signal) {
	log.Info().Stringer("signal", s).Msg("shutting down")
	signalName := "UNKNOWN"
	if s == syscall.SIGINT {
		signalName = "SIGINT"
	} else if s == syscall.SIGTERM {
		signalName = "SIGTERM"
	}

	if err := l.engine.Clear(); err != nil {
		log.Warn().Err(err).Msg("clear matrix")
	}

	if l.conn != nil {
		l.status.SetMQTTConnected(l.conn.IsConnected())
	}
	snap := l.status.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  l.now(),
		Event:      "SHUTDOWN",
		Reason:     signalName,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
	}
	if err := l.publisher.PublishSystem(event); err != nil {
		log.Warn().Err(err).Msg("failed to publish shutdown event")
	} else {
		log.Info().Msg("published shutdown event")
	}
}
