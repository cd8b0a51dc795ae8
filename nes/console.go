package nes

import (
	"fmt"
	"image"
	"io"
	"os"
)

// Display dimensions of the visible frame.
const (
	Width  = 256
	Height = 240
)

// MasterHz is the NTSC master clock. The cpu runs at a twelfth of it and
// the ppu at a quarter, which puts a frame at just over 60Hz.
const (
	MasterHz        = 21477272.0
	cpuDivider      = 12
	ppuDivider      = 4
	dotsPerFrame    = dotsPerScanLine * scanLinesPerFrame
	FramesPerSecond = MasterHz / ppuDivider / dotsPerFrame
)

// Console wires the whole machine together and owns the master clock. The
// cpu and ppu never call each other; everything meets at the bus, and the
// scheduler in Tick decides who runs when.
type Console struct {
	cartridge *Cartridge
	cpu       *cpu
	ppu       *ppu
	bus       *bus

	controller1 *controller

	ticks uint64
}

// NewConsole builds a powered-off console. keys supplies controller input
// and may be nil for a headless run; debug, when non-nil, receives a cpu
// trace line per instruction.
func NewConsole(keys KeyState, debug io.Writer) *Console {
	ppu := newPpu()
	ctrl1 := newController(keys)

	return &Console{
		cpu:         newCpu(debug),
		ppu:         ppu,
		controller1: ctrl1,
		bus: &bus{
			ppu:   ppu,
			ctrl1: ctrl1,
		},
	}
}

// SetFaultPolicy selects how bus faults are handled. The default is
// FaultPanic.
func (c *Console) SetFaultPolicy(policy FaultPolicy) {
	c.bus.policy = policy
}

func (c *Console) Empty() bool {
	return c.cartridge == nil
}

func (c *Console) load(cartridge *Cartridge) {
	c.cartridge = cartridge
	c.bus.cartridge = cartridge
	c.ppu.insert(cartridge)
	c.cpu.reset(c.bus)
}

// LoadPath loads an iNES file from disk.
func (c *Console) LoadPath(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("unable to open rom: %s", err)
	}
	defer f.Close()

	return c.LoadRom(f)
}

// LoadRom loads an iNES image and resets the machine.
func (c *Console) LoadRom(rom io.Reader) error {
	cart, err := LoadINES(rom)
	if err != nil {
		return err
	}

	c.load(cart)
	return nil
}

// Reset hits the reset line.
func (c *Console) Reset() {
	c.cpu.reset(c.bus)
}

// Tick advances the master clock by one and steps whichever units are due:
// the cpu every 12 ticks, the ppu every 4, cpu first when both land on the
// same tick. It reports whether this tick finished a frame.
func (c *Console) Tick() bool {
	var frame bool

	if c.ticks%cpuDivider == 0 {
		c.cpu.step(c.bus)
	}
	if c.ticks%ppuDivider == 0 {
		frame = c.ppu.step()
	}

	c.ticks++
	return frame
}

// StepFrame runs the clock until the ppu finishes the current frame.
func (c *Console) StepFrame() {
	if c.Empty() {
		return
	}

	for !c.Tick() {
	}
}

// MasterTicks is the number of master clock ticks since power on.
func (c *Console) MasterTicks() uint64 {
	return c.ticks
}

// Buffer is the ppu's framebuffer. It is redrawn in place every frame;
// consume it between frames.
func (c *Console) Buffer() *image.RGBA {
	return c.ppu.buffer
}
