// Command tempsim drives a temperature-level panel: five buttons set a count
// shown on a MAX7219 digit matrix or a four-channel PWM bank, with a blinking
// alarm above the threshold. -sim runs the same panel in a terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
	"periph.io/x/conn/v3/physic"

	"github.com/sweeney/tempsim/internal/analog"
	"github.com/sweeney/tempsim/internal/gpio"
	"github.com/sweeney/tempsim/internal/logic"
	"github.com/sweeney/tempsim/internal/max7219"
	"github.com/sweeney/tempsim/internal/panel"
	"github.com/sweeney/tempsim/internal/sim"
	"github.com/sweeney/tempsim/internal/status"
)

const simRefresh = 50 * time.Millisecond

type config struct {
	tick      time.Duration
	heartbeat time.Duration

	chip    string
	buttons [gpio.NumButtons]int
	din     int
	clk     int
	cs      int
	overHot int
	alarm   int
	pwm     [analog.NumChannels]string
	pwmFreq physic.Frequency

	intensity int
	chain     int
	chainPos  int

	sim        bool
	printState bool

	logFile       string
	logMaxSize    int
	logMaxBackups int
	logMaxAge     int
	logCompress   bool
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if w := setupLogging(cfg); w != nil {
		defer w.Close()
	}

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func parseFlags(args []string) (config, error) {
	cfg := config{pwmFreq: gpio.DefaultPWMFrequency}

	fs := flag.NewFlagSet("tempsim", flag.ContinueOnError)
	fs.DurationVar(&cfg.tick, "tick", 5*time.Millisecond, "Scheduling period")
	fs.DurationVar(&cfg.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	fs.StringVar(&cfg.chip, "chip", "gpiochip0", "GPIO character device")
	fs.IntVar(&cfg.buttons[logic.ButtonIncrement], "pin-inc", gpio.DefaultPinIncrement, "BCM pin number for Increment")
	fs.IntVar(&cfg.buttons[logic.ButtonDecrement], "pin-dec", gpio.DefaultPinDecrement, "BCM pin number for Decrement")
	fs.IntVar(&cfg.buttons[logic.ButtonReset], "pin-reset", gpio.DefaultPinReset, "BCM pin number for Reset")
	fs.IntVar(&cfg.buttons[logic.ButtonUnit], "pin-unit", gpio.DefaultPinUnit, "BCM pin number for Unit Toggle")
	fs.IntVar(&cfg.buttons[logic.ButtonDisplay], "pin-display", gpio.DefaultPinDisplay, "BCM pin number for Display Toggle")
	fs.IntVar(&cfg.din, "pin-din", gpio.DefaultPinDIN, "BCM pin number for display DIN")
	fs.IntVar(&cfg.clk, "pin-clk", gpio.DefaultPinCLK, "BCM pin number for display CLK")
	fs.IntVar(&cfg.cs, "pin-cs", gpio.DefaultPinCS, "BCM pin number for display CS")
	fs.IntVar(&cfg.overHot, "pin-overhot", gpio.DefaultPinOverHot, "BCM pin number for the over-hot line")
	fs.IntVar(&cfg.alarm, "pin-alarm", gpio.DefaultPinAlarm, "BCM pin number for the alarm indicator")
	fs.StringVar(&cfg.pwm[analog.Cold], "pwm-cold", gpio.DefaultPWMCold, "PWM pin name for the cold channel")
	fs.StringVar(&cfg.pwm[analog.Normal], "pwm-normal", gpio.DefaultPWMNormal, "PWM pin name for the normal channel")
	fs.StringVar(&cfg.pwm[analog.Warm], "pwm-warm", gpio.DefaultPWMWarm, "PWM pin name for the warm channel")
	fs.StringVar(&cfg.pwm[analog.Hot], "pwm-hot", gpio.DefaultPWMHot, "PWM pin name for the hot channel")
	fs.Var(&cfg.pwmFreq, "pwm-freq", "PWM carrier frequency")
	fs.IntVar(&cfg.intensity, "intensity", int(max7219.MaxIntensity), "Digit matrix brightness (0-15)")
	fs.IntVar(&cfg.chain, "chain", 1, "Number of daisy-chained display controllers")
	fs.IntVar(&cfg.chainPos, "chain-pos", 0, "Chain position of the target controller (0 = nearest)")
	fs.BoolVar(&cfg.sim, "sim", false, "Run in a terminal instead of on GPIO hardware")
	fs.BoolVar(&cfg.printState, "print-state", false, "Print current button levels and exit")
	fs.StringVar(&cfg.logFile, "log-file", "", "Log to a rotating file instead of stderr")
	fs.IntVar(&cfg.logMaxSize, "log-max-size", 10, "Log file size in megabytes before rotation")
	fs.IntVar(&cfg.logMaxBackups, "log-max-backups", 3, "Rotated log files to keep")
	fs.IntVar(&cfg.logMaxAge, "log-max-age", 28, "Days to keep rotated log files")
	fs.BoolVar(&cfg.logCompress, "log-compress", false, "Gzip rotated log files")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (c config) validate() error {
	if c.tick <= 0 {
		return fmt.Errorf("tick %v: must be positive", c.tick)
	}
	if c.heartbeat < 0 {
		return fmt.Errorf("heartbeat %v: must not be negative", c.heartbeat)
	}
	if c.intensity < 0 || c.intensity > int(max7219.MaxIntensity) {
		return fmt.Errorf("intensity %d: must be 0-%d", c.intensity, max7219.MaxIntensity)
	}
	if c.chain < 1 {
		return fmt.Errorf("chain %d: must be at least 1", c.chain)
	}
	if c.chainPos < 0 || c.chainPos >= c.chain {
		return fmt.Errorf("chain-pos %d: out of range for chain of %d", c.chainPos, c.chain)
	}
	if c.pwmFreq <= 0 {
		return fmt.Errorf("pwm-freq %v: must be positive", c.pwmFreq)
	}
	if c.sim && c.printState {
		return errors.New("-print-state reads hardware buttons and cannot be combined with -sim")
	}
	return nil
}

// setupLogging points the standard logger at a rotating file when one is
// configured. The simulator owns the terminal, so it always logs to a file.
func setupLogging(cfg config) io.Closer {
	path := cfg.logFile
	if path == "" && cfg.sim {
		path = filepath.Join(os.TempDir(), "tempsim.log")
	}
	if path == "" {
		return nil
	}

	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.logMaxSize,
		MaxBackups: cfg.logMaxBackups,
		MaxAge:     cfg.logMaxAge,
		Compress:   cfg.logCompress,
	}
	log.SetOutput(w)
	return w
}

func run(cfg config) error {
	if cfg.printState {
		return printState(cfg, os.Stdout)
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)
	go watchSignals(ctx, cancel)

	clock := clockwork.NewRealClock()
	tracker := status.NewTracker(clock, status.Config{
		TickMs:      cfg.tick.Milliseconds(),
		HeartbeatMs: cfg.heartbeat.Milliseconds(),
		Intensity:   cfg.intensity,
		Chain:       cfg.chain,
		ChainPos:    cfg.chainPos,
		Sim:         cfg.sim,
	})

	if cfg.sim {
		return runSim(ctx, cfg, clock, tracker)
	}
	return runHardware(ctx, cfg, clock, tracker)
}

func printState(cfg config, w io.Writer) error {
	reader, err := gpio.NewRealReader(cfg.chip, cfg.buttons)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer reader.Close()

	levels, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read gpio: %w", err)
	}
	fmt.Fprintf(w, "%s\n", status.FormatLevels(logic.Levels(levels)))
	return nil
}

// signalCause records which signal cancelled the run.
type signalCause struct {
	sig os.Signal
}

func (s signalCause) Error() string {
	return "received " + s.sig.String()
}

func watchSignals(ctx context.Context, cancel context.CancelCauseFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case s := <-sigCh:
		log.Printf("received %v, shutting down", s)
		cancel(signalCause{sig: s})
	case <-ctx.Done():
	}
}

// shutdownReason names what ended the run for the SHUTDOWN status line.
func shutdownReason(ctx context.Context) string {
	cause := context.Cause(ctx)
	var sc signalCause
	switch {
	case errors.As(cause, &sc):
		switch sc.sig {
		case syscall.SIGINT:
			return "SIGINT"
		case syscall.SIGTERM:
			return "SIGTERM"
		}
		return "UNKNOWN"
	case errors.Is(cause, sim.ErrQuit):
		return "QUIT"
	}
	return "CANCELLED"
}

// surfaces is the wired panel I/O for one run.
type surfaces struct {
	reader  gpio.Reader
	bus     max7219.Transmitter
	bank    *analog.Bank
	alarm   gpio.Output
	closers []func() error
}

func (s *surfaces) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Printf("close: %v", err)
		}
	}
}

// Output line order passed to NewRealOutputs.
const (
	lineDIN = iota
	lineCLK
	lineCS
	lineOverHot
	lineAlarm
)

func openHardware(cfg config) (*surfaces, error) {
	s := &surfaces{}

	reader, err := gpio.NewRealReader(cfg.chip, cfg.buttons)
	if err != nil {
		return nil, fmt.Errorf("init gpio: %w", err)
	}
	s.reader = reader
	s.closers = append(s.closers, reader.Close)

	outs, err := gpio.NewRealOutputs(cfg.chip, cfg.din, cfg.clk, cfg.cs, cfg.overHot, cfg.alarm)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("init outputs: %w", err)
	}
	s.closers = append(s.closers, outs.Close)

	bus, err := max7219.NewBitBang(outs.Line(lineDIN), outs.Line(lineCLK), outs.Line(lineCS))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("init display bus: %w", err)
	}
	s.bus = bus

	pwms, err := gpio.OpenPWM(cfg.pwmFreq, cfg.pwm[:]...)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("init pwm: %w", err)
	}
	var channels [analog.NumChannels]gpio.PWM
	for i, p := range pwms {
		channels[i] = p
		s.closers = append(s.closers, p.Close)
	}
	s.bank = analog.NewBank(channels, outs.Line(lineOverHot))
	s.alarm = outs.Line(lineAlarm)

	return s, nil
}

func openSim(kb *sim.Keyboard, out sim.Outputs) (*surfaces, error) {
	bus, err := max7219.NewBitBang(out.Display.DIN(), out.Display.CLK(), out.Display.CS())
	if err != nil {
		return nil, fmt.Errorf("init display bus: %w", err)
	}
	return &surfaces{
		reader:  kb,
		bus:     bus,
		bank:    analog.NewBank(out.PWMs(), gpio.NewPeriphOutput(out.OverHot)),
		alarm:   gpio.NewPeriphOutput(out.Alarm),
		closers: []func() error{kb.Close},
	}, nil
}

// newController initializes the digit matrix and builds the controller.
func newController(cfg config, s *surfaces) (*panel.Controller, error) {
	display, err := max7219.New(s.bus,
		max7219.WithChain(cfg.chain, cfg.chainPos),
		max7219.WithIntensity(byte(cfg.intensity)),
	)
	if err != nil {
		return nil, fmt.Errorf("init display: %w", err)
	}
	if err := display.Initialize(); err != nil {
		return nil, fmt.Errorf("init display: %w", err)
	}
	return panel.New(display, s.bank, s.alarm), nil
}

func runHardware(ctx context.Context, cfg config, clock clockwork.Clock, tracker *status.Tracker) error {
	s, err := openHardware(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ctrl, err := newController(cfg, s)
	if err != nil {
		return err
	}

	logStartup(cfg, tracker)

	ticker := clock.NewTicker(cfg.tick)
	defer ticker.Stop()

	return runLoop(ctx, s.reader, ctrl, tracker, clock, cfg.heartbeat, ticker.Chan())
}

func runSim(ctx context.Context, cfg config, clock clockwork.Clock, tracker *status.Tracker) error {
	kb := sim.NewKeyboard()
	out := sim.NewOutputs(cfg.chainPos)

	s, err := openSim(kb, out)
	if err != nil {
		return err
	}
	defer s.Close()

	ctrl, err := newController(cfg, s)
	if err != nil {
		return err
	}

	term, err := sim.Open(kb, out, tracker)
	if err != nil {
		return err
	}
	defer term.Close()

	logStartup(cfg, tracker)

	ticker := clock.NewTicker(cfg.tick)
	defer ticker.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return term.Run(gctx)
	})
	g.Go(func() error {
		return term.Refresh(gctx, clock, simRefresh)
	})
	g.Go(func() error {
		return runLoop(gctx, s.reader, ctrl, tracker, clock, cfg.heartbeat, ticker.Chan())
	})

	if err := g.Wait(); err != nil && !errors.Is(err, sim.ErrQuit) {
		return err
	}
	return nil
}

func logStartup(cfg config, tracker *status.Tracker) {
	log.Printf("started: tick=%v heartbeat=%v intensity=%d chain=%d chain_pos=%d sim=%t",
		cfg.tick, cfg.heartbeat, cfg.intensity, cfg.chain, cfg.chainPos, cfg.sim)
	log.Printf("status: %s", status.FormatStatusEvent(tracker.Snapshot(), "STARTUP", ""))
}

// runLoop samples the buttons on every tick and runs one controller step.
// Heartbeats are timed from the tick values. On cancellation both surfaces
// are cleared and the alarm is forced off.
func runLoop(ctx context.Context, reader gpio.Reader, ctrl *panel.Controller, tracker *status.Tracker, clock clockwork.Clock, heartbeat time.Duration, tick <-chan time.Time) error {
	counter := logic.NewCounter(clock.Now())

	for {
		select {
		case <-ctx.Done():
			reason := shutdownReason(ctx)
			if err := ctrl.Shutdown(); err != nil {
				log.Printf("shutdown outputs: %v", err)
			}
			tracker.Update(ctrl.State(), ctrl.AlarmOn(), counter.Ticks(), counter.CountsSnapshot())
			log.Printf("status: %s", status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", reason))
			return nil

		case t := <-tick:
			levels, err := reader.Read()
			if err != nil {
				log.Printf("gpio read error: %v", err)
				continue
			}

			res, err := ctrl.Tick(logic.Levels(levels))
			if err != nil {
				// Don't stop on output failure
				log.Printf("output error: %v", err)
			}
			counter.Record(res.Presses)
			logTransition(res)

			tracker.Update(res.State, res.AlarmOn, counter.Ticks(), counter.CountsSnapshot())

			if hb := counter.CheckHeartbeat(t, heartbeat); hb != nil {
				log.Printf("heartbeat: %s", status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", ""))
			}
		}
	}
}

func logTransition(res panel.Result) {
	st := res.State
	for _, b := range res.Transition.Applied {
		log.Printf("event: %s count=%d armed=%t", b, st.Count, st.Alarm.Armed)
	}
	if res.Transition.ClearAnalog || res.Transition.ClearDigits {
		log.Printf("display: %s", st.Display)
	}
	if res.Transition.Armed {
		log.Printf("alarm: armed count=%d", st.Count)
	}
	if res.Transition.Disarmed {
		log.Printf("alarm: disarmed count=%d", st.Count)
	}
}
