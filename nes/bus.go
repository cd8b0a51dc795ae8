package nes

import "fmt"

// ╔═════════════════╤═══════╤═════════════════════════╤═══════════╗
// ║ Address Range   │ Size  │ Purpose                 │ Kind      ║
// ╠═════════════════╪═══════╪═════════════════════════╪═══════════╣
// ║ 0x8000 - 0xFFFF │ 32768 │ PRG ROM (16k mirrored)  │  PRG ROM  ║
// ╠═════════════════╪═══════╪═════════════════════════╪═══════════╣
// ║ 0x4018 - 0x7FFF │ 16360 │ Unmapped                │           ║
// ╠═════════════════╪═══════╪═════════════════════════╪═══════════╣
// ║ 0x4016 - 0x4017 │ 2     │ Controller ports        │           ║
// ╟╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌┼╌╌╌╌╌╌╌┼╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌┤           ║
// ║ 0x4014          │ 1     │ OAM DMA                 │  I/O REG  ║
// ╟╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌┼╌╌╌╌╌╌╌┼╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌┤           ║
// ║ 0x4000 - 0x4015 │ 22    │ APU (stubbed)           │           ║
// ╟╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌┼╌╌╌╌╌╌╌┼╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌╌┤           ║
// ║ 0x2000 - 0x3FFF │ 8192  │ PPU registers, mirrored │           ║
// ╠═════════════════╪═══════╪═════════════════════════╪═══════════╣
// ║ 0x0000 - 0x1FFF │ 8192  │ 2k RAM, mirrored 4x     │    RAM    ║
// ╚═════════════════╧═══════╧═════════════════════════╧═══════════╝

const ramSize = 2048

// FaultPolicy decides what happens when a rom touches the bus in a way
// real software shouldn't: reading write-only ppu registers, reading
// unmapped space, writing into rom. FaultPanic aborts, which is what you
// want while chasing an emulation bug; FaultIgnore turns faulting reads
// into 0 and faulting writes into no-ops, which is what you want for
// titles that brush against these addresses harmlessly.
type FaultPolicy int

const (
	FaultPanic FaultPolicy = iota
	FaultIgnore
)

// bus arbitrates the cpu's address space. It owns the work ram and holds
// the cartridge, ppu and controller; neither of those holds a reference
// back.
type bus struct {
	ram [ramSize]byte

	cartridge *Cartridge
	ppu       *ppu
	ctrl1     *controller

	// dmaPending is raised by a $4014 write; the cpu folds the 513 stall
	// cycles into its budget and clears it.
	dmaPending bool

	policy FaultPolicy
}

func (b *bus) read(address uint16) byte {
	switch {
	case address < 0x2000:
		return b.ram[address%ramSize]

	case address < 0x4000:
		switch (address-0x2000)%8 + 0x2000 {
		case ppuStatusAddr:
			return b.ppu.readStatus()
		case oamDataAddr:
			return b.ppu.readOAMData()
		case ppuDataAddr:
			return b.ppu.readData()
		default:
			return b.fault("read from write-only ppu register 0x%04X", address)
		}

	case address <= 0x4015:
		// apu and dma registers read back as open bus; close enough to 0
		return 0

	case address == 0x4016:
		return b.ctrl1.read()

	case address == 0x4017:
		// no player 2
		return 0

	case address < 0x8000:
		return b.fault("read from unmapped address 0x%04X", address)

	default:
		return b.cartridge.readPRG(address)
	}
}

func (b *bus) write(address uint16, v byte) {
	switch {
	case address < 0x2000:
		b.ram[address%ramSize] = v

	case address < 0x4000:
		switch (address-0x2000)%8 + 0x2000 {
		case ppuCtrlAddr:
			b.ppu.writeCtrl(v)
		case ppuMaskAddr:
			b.ppu.writeMask(v)
		case ppuStatusAddr:
			b.fault("write to read-only ppu register 0x%04X", address)
		case oamAddrAddr:
			b.ppu.writeOAMAddr(v)
		case oamDataAddr:
			b.ppu.writeOAMData(v)
		case ppuScrollAddr:
			b.ppu.writeScroll(v)
		case ppuAddrAddr:
			b.ppu.writeAddr(v)
		case ppuDataAddr:
			b.ppu.writeData(v)
		}

	case address == oamDmaAddr:
		b.dmaOAM(v)

	case address <= 0x4015 || address == 0x4017:
		// apu, stubbed

	case address == 0x4016:
		b.ctrl1.setStrobe(v&1 == 1)

	case address < 0x8000:
		// unmapped, ignored

	default:
		b.fault("write to prg rom at 0x%04X", address)
	}
}

// dmaOAM copies the 256-byte page val<<8 into oam through the bus,
// starting at the current oam address and wrapping. The cpu pays for the
// copy with a 513 cycle stall.
func (b *bus) dmaOAM(page byte) {
	addr := uint16(page) << 8
	for i := 0; i < 256; i++ {
		b.ppu.writeOAMData(b.read(addr))
		addr++
	}

	b.dmaPending = true
}

func (b *bus) readAddress(address uint16) uint16 {
	lo := b.read(address)
	hi := b.read(address + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (b *bus) fault(format string, args ...interface{}) byte {
	if b.policy == FaultPanic {
		panic("nes: " + fmt.Sprintf(format, args...))
	}
	return 0
}
