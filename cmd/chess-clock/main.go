package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/lixenwraith/chess-clock/app"
	"github.com/lixenwraith/chess-clock/audio"
	"github.com/lixenwraith/chess-clock/core"
	"github.com/lixenwraith/chess-clock/engine"
	"github.com/lixenwraith/chess-clock/game"
	"github.com/lixenwraith/chess-clock/hardware"
	"github.com/lixenwraith/chess-clock/hardware/console"
	"github.com/lixenwraith/chess-clock/hardware/tui"
	"github.com/lixenwraith/chess-clock/parameter"
	"github.com/lixenwraith/chess-clock/statsview"
	"github.com/lixenwraith/chess-clock/status"
	"github.com/lixenwraith/chess-clock/store"
	"github.com/lixenwraith/chess-clock/wizard"
)

var (
	configFlag    = flag.String("config", "", "Settings file (TOML)")
	storeFlag     = flag.String("store", "", "Time control file, overrides [store] path")
	headlessFlag  = flag.Bool("headless", false, "Read line commands from stdin instead of the terminal panel")
	debugFlag     = flag.Bool("debug", false, "Write logs to "+parameter.LogDir+"/"+parameter.LogFileName)
	muteFlag      = flag.Bool("mute", false, "Start with the buzzer muted")
	statsviewFlag = flag.Bool("statsview", false, "Serve runtime statistics (build with -tags statsview)")
)

// frontend is a simulated front panel
type frontend interface {
	hardware.Display
	hardware.AnalogInput
	hardware.Buttons
	SetStatus(fn func() string)
	SetMuteToggle(fn func() bool)
}

func main() {
	os.Exit(run())
}

func run() int {
	// Panic recovery: restore the terminal before the trace is printed
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	settings, err := store.LoadSettings(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chess-clock: %v\n", err)
		return 2
	}
	if *storeFlag != "" {
		settings.Store.Path = *storeFlag
	}

	if *statsviewFlag {
		statsview.Launch(os.Stdout)
	}

	reg := status.NewRegistry()

	buzzer := audio.NewBuzzer(audio.Config{
		Enabled:    settings.Audio.Enabled && !*muteFlag,
		Volume:     settings.Audio.Volume,
		SampleRate: parameter.AudioSampleRate,
	})
	if err := buzzer.Init(); err != nil {
		log.Printf("audio: %v (continuing without sound)", err)
	}
	defer buzzer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM, unix.SIGHUP)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	headless := *headlessFlag || !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd()))

	var (
		fe      frontend
		closeFE func()
	)
	if headless {
		c := console.New(os.Stdin, os.Stdout)
		core.Go(func() {
			if err := c.Serve(ctx, cancel); err != nil {
				log.Printf("console: %v", err)
			}
		})
		fe, closeFE = c, func() {}
	} else {
		screen, err := tcell.NewScreen()
		if err != nil {
			fmt.Fprintf(os.Stderr, "chess-clock: terminal: %v\n", err)
			return 1
		}
		p := tui.New(screen, nil)
		if err := p.Open(); err != nil {
			fmt.Fprintf(os.Stderr, "chess-clock: %v\n", err)
			return 1
		}
		core.Go(func() { p.Serve(ctx, cancel) })
		fe, closeFE = p, p.Close
	}

	fe.SetStatus(reg.Summary)
	fe.SetMuteToggle(buzzer.ToggleMute)

	err = start(ctx, fe, settings, buzzer, reg)
	closeFE()
	log.Printf("metrics: %s", reg.Summary())

	if err != nil {
		fmt.Fprintf(os.Stderr, "chess-clock: %v\n", err)
		return 1
	}
	return 0
}

// start uploads the glyphs and runs the appliance until ctx ends or it fails
func start(ctx context.Context, fe frontend, settings store.Settings, sounder game.Sounder, reg *status.Registry) error {
	if err := hardware.UploadGlyphs(fe); err != nil {
		return err
	}

	sched := engine.NewScheduler(engine.NewRealClock())
	st := store.NewFileStore(settings.Store.Path)
	hw := app.Hardware{Display: fe, Analog: fe, Buttons: fe}

	a := app.New(sched, hw, st, sounder, appConfig(settings), reg)
	return a.Run(ctx)
}

// appConfig maps the settings file onto component cadences
func appConfig(s store.Settings) app.Config {
	t := s.Timing
	return app.Config{
		Wizard: wizard.Config{
			SamplePeriod: t.SamplePeriod(),
			Debounce:     t.Debounce(),
		},
		Game: game.Config{
			TickPeriod:    t.TickPeriod(),
			PollPeriod:    t.PollPeriod(),
			Debounce:      t.Debounce(),
			DismissSettle: parameter.DismissSettle,
		},
	}
}
