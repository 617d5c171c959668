package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"murmur/audio"
	"murmur/capture"
	"murmur/clipboard"
	"murmur/config"
	"murmur/hotkey"
	"murmur/log"
	"murmur/session"
	"murmur/transcriber"
)

var version = "dev"

var guiMode bool

var autoPaste atomic.Bool

var shutdownOnce sync.Once

func gracefulShutdown(ctrl *session.Controller) {
	shutdownOnce.Do(func() {
		if ctrl != nil {
			ctrl.Close()
		}
		log.Close()
		if tuiProgram != nil {
			tuiProgram.Quit()
		}
		os.Exit(0)
	})
}

func initCrashLog() {
	logPath, err := log.ResolveDir(os.Getenv("MURMUR_LOG_PATH"))
	if err != nil {
		return
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		return
	}
	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}
}

func run() {
	setupFlag := flag.Bool("setup", false, "Select microphone device (otherwise uses system default)")
	deviceFlag := flag.String("device", "", "Use named microphone device")
	providerFlag := flag.String("provider", "", "Transcription provider: groq or openai (default: by API key)")
	formatFlag := flag.String("format", "", "Upload format: wav or flac")
	langFlag := flag.String("lang", "", "Language code for transcription (e.g., en, es, fr). Empty = auto-detect")
	autoPasteFlag := flag.Bool("autopaste", false, "Auto-paste to focused window after transcription")
	autoStopFlag := flag.Bool("autostop", false, "Stop recording automatically after a long silence")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Check hotkey device access and exit")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven)")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	flag.Bool("gui", false, "Run with desktop window (gui builds only)") // consumed in main()
	flag.Parse()

	if *versionFlag {
		fmt.Printf("murmur %s\n", version)
		os.Exit(0)
	}

	if *doctorFlag {
		msg, err := hotkey.Diagnose()
		if err != nil {
			fmt.Fprintf(os.Stderr, "hotkey: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("hotkey:", msg)
		os.Exit(0)
	}

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// explicit flags win over murmur.yaml and MURMUR_* environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "provider":
			cfg.Provider = *providerFlag
		case "format":
			cfg.Format = *formatFlag
		case "lang":
			cfg.Language = *langFlag
		case "device":
			cfg.Device = *deviceFlag
		case "autopaste":
			cfg.AutoPaste = *autoPasteFlag
		case "autostop":
			cfg.AutoStop = *autoStopFlag
		}
	})
	autoPaste.Store(cfg.AutoPaste)

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	if *testFlag {
		args := flag.Args()
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "Usage: murmur -test <wav-file>")
			os.Exit(1)
		}
		runTestMode(args[0], cfg)
		return
	}

	engine, err := transcriber.New(cfg.Provider, cfg.Format, cfg.Language)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.SessionStart(engine.Name(), cfg.Format)
	go engine.Warm()

	if cfg.AutoPaste {
		if err := clipboard.InitPaste(); err != nil {
			fmt.Printf("Warning: paste init failed: %v\n", err)
		}
	}

	ctx, err := audio.NewContext()
	if err != nil {
		log.Errorf("audio context init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing audio context: %v\n", err)
		os.Exit(1)
	}
	defer ctx.Close()

	var selectedDevice *audio.DeviceInfo
	if cfg.Device != "" {
		if devices, err := ctx.Devices(); err == nil {
			for i := range devices {
				if devices[i].Name == cfg.Device {
					selectedDevice = &devices[i]
					break
				}
			}
		}
		if selectedDevice == nil {
			fmt.Printf("Warning: device %q not found, using system default\n", cfg.Device)
		}
	} else if *setupFlag {
		selectedDevice, err = audio.SelectDevice(ctx)
		if err != nil {
			log.Warnf("device selection failed: %v", err)
			fmt.Printf("Warning: device selection failed: %v\n", err)
			fmt.Println("Falling back to default device")
			selectedDevice = nil
		}
	}

	captureDevice, err := ctx.NewCapture(selectedDevice, audio.CaptureConfig{
		SampleRate: uint32(cfg.SampleRate),
		Channels:   uint32(cfg.Channels),
	})
	if err != nil {
		log.Errorf("capture device init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing capture device: %v\n", err)
		os.Exit(1)
	}
	defer captureDevice.Close()
	log.Info("recording_device: " + captureDevice.DeviceName())

	var sink session.Sink
	if guiMode {
		sink = guiSink()
	} else if *tuiFlag {
		tuiMu.Lock()
		tuiProgram = NewTUIProgram(deviceLineText(selectedDevice), modeLineText(engine, cfg.Format))
		tuiMu.Unlock()
		sink = &tuiSink{}
	} else {
		sink = &logSink{}
	}
	sink = &pasteSink{Sink: sink}

	recorder := capture.New(captureDevice, cfg.SampleRate)
	ctrl := session.New(recorder, engine, clipboard.Board{}, sink, session.Config{
		SampleRate:    cfg.SampleRate,
		MeterInterval: cfg.MeterInterval,
		AutoStop:      cfg.AutoStop,
	})
	ctrl.Start()

	if guiMode {
		setGUIToggle(ctrl.Toggle)
	} else if *tuiFlag {
		setTUIToggle(ctrl.Toggle)
		go func() {
			if _, err := tuiProgram.Run(); err != nil {
				log.Errorf("TUI error: %v", err)
				os.Exit(1)
			}
			gracefulShutdown(ctrl)
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		gracefulShutdown(ctrl)
	}()

	hk := hotkey.New()
	if err := hk.Register(); err != nil {
		log.Errorf("hotkey register error: %v", err)
		fmt.Fprintf(os.Stderr, "Error registering hotkey: %v\n", err)
		os.Exit(1)
	}
	defer hk.Unregister()

	for range hk.Presses() {
		ctrl.Toggle()
	}
}
