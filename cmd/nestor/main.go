package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/flga/nestor/nes"

	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	// sdl wants all video calls on the thread that initialized it
	runtime.LockOSThread()
}

func main() {
	zoom := flag.Int("zoom", 3, "window scale factor")
	trace := flag.Bool("trace", false, "write a cpu trace to stderr")
	lenient := flag.Bool("lenient", false, "ignore bus faults instead of aborting")
	cpuprof := flag.String("cpuprofile", "", "write a cpu profile to `file`")
	memprof := flag.String("memprofile", "", "write a heap profile to `file`")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] rom.nes\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *zoom, *trace, *lenient, *cpuprof, *memprof); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(romPath string, zoom int, trace, lenient bool, cpuprof, memprof string) error {
	if cpuprof != "" {
		f, err := os.Create(cpuprof)
		if err != nil {
			return fmt.Errorf("unable to create cpu profile: %s", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("unable to start cpu profile: %s", err)
		}
		defer pprof.StopCPUProfile()
	}

	if memprof != "" {
		f, err := os.Create(memprof)
		if err != nil {
			return fmt.Errorf("unable to create heap profile: %s", err)
		}
		defer func() {
			pprof.WriteHeapProfile(f)
			f.Close()
		}()
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("unable to init sdl: %s", err)
	}
	defer sdl.Quit()

	var debug io.Writer
	if trace {
		debug = os.Stderr
	}

	console := nes.NewConsole(keyState(sdl.GetKeyboardState()), debug)
	if lenient {
		console.SetFaultPolicy(nes.FaultIgnore)
	}

	if err := console.LoadPath(romPath); err != nil {
		return err
	}

	window, err := sdl.CreateWindow(
		"nestor",
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(nes.Width*zoom), int32(nes.Height*zoom),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		return fmt.Errorf("unable to create window: %s", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return fmt.Errorf("unable to create renderer: %s", err)
	}
	defer renderer.Destroy()

	return loop(console, window, renderer, zoom)
}

// keyState adapts sdl's live keyboard snapshot to the console's input
// source, with the usual emulator layout: arrows, z/x, shift and enter.
func keyState(keys []uint8) nes.KeyState {
	scancodes := map[nes.Button]sdl.Scancode{
		nes.A:      sdl.SCANCODE_Z,
		nes.B:      sdl.SCANCODE_X,
		nes.Select: sdl.SCANCODE_RSHIFT,
		nes.Start:  sdl.SCANCODE_RETURN,
		nes.Up:     sdl.SCANCODE_UP,
		nes.Down:   sdl.SCANCODE_DOWN,
		nes.Left:   sdl.SCANCODE_LEFT,
		nes.Right:  sdl.SCANCODE_RIGHT,
	}

	return func(b nes.Button) bool {
		return keys[scancodes[b]] != 0
	}
}

// eventPollInterval is how many master ticks pass between host event pump
// drains; pumping per tick would drown the emulation in syscalls.
const eventPollInterval = 10000

func loop(console *nes.Console, window *sdl.Window, renderer *sdl.Renderer, zoom int) error {
	frameDuration := time.Duration(float64(time.Second) / nes.FramesPerSecond)
	meter := newFPSMeter(10)

	lastTitle := time.Now()
	frameStart := time.Now()

	for {
		if console.MasterTicks()%eventPollInterval == 0 {
			for evt := sdl.PollEvent(); evt != nil; evt = sdl.PollEvent() {
				switch evt := evt.(type) {
				case *sdl.QuitEvent:
					return nil

				case *sdl.KeyboardEvent:
					if evt.Type != sdl.KEYDOWN {
						break
					}
					switch evt.Keysym.Sym {
					case sdl.K_ESCAPE:
						return nil
					case sdl.K_r:
						console.Reset()
					}
				}
			}
		}

		if !console.Tick() {
			continue
		}

		if err := paint(console, renderer, zoom); err != nil {
			return err
		}
		renderer.Present()

		// pace to the hardware frame rate
		if elapsed := time.Since(frameStart); elapsed < frameDuration {
			time.Sleep(frameDuration - elapsed)
		}
		meter.record(time.Since(frameStart))
		frameStart = time.Now()

		if time.Since(lastTitle) > time.Second {
			window.SetTitle(fmt.Sprintf("nestor - %d fps", meter.fps()))
			lastTitle = time.Now()
		}
	}
}

// paint draws the framebuffer one filled rect per pixel, scaled.
func paint(console *nes.Console, renderer *sdl.Renderer, zoom int) error {
	buffer := console.Buffer()

	for y := 0; y < nes.Height; y++ {
		for x := 0; x < nes.Width; x++ {
			c := buffer.RGBAAt(x, y)
			if err := renderer.SetDrawColor(c.R, c.G, c.B, 0xFF); err != nil {
				return fmt.Errorf("unable to set draw color: %s", err)
			}

			rect := sdl.Rect{
				X: int32(x * zoom),
				Y: int32(y * zoom),
				W: int32(zoom),
				H: int32(zoom),
			}
			if err := renderer.FillRect(&rect); err != nil {
				return fmt.Errorf("unable to fill rect: %s", err)
			}
		}
	}

	return nil
}
