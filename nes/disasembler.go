package nes

import (
	"fmt"
	"io"
	"strings"
)

var addressingFormats = map[addressingMode]string{
	immediate: "#$%02X",
	zeroPage:  "$%02X",
	zeroPageX: "$%02X,X",
	zeroPageY: "$%02X,Y",
	absolute:  "$%04X",
	absoluteX: "$%04X,X",
	absoluteY: "$%04X,Y",
	indirect:  "($%04X)",
	indirectX: "($%02X,X)",
	indirectY: "($%02X),Y",
	relative:  "$%04X",
}

// disassemble writes one nestest-style trace line for the instruction at
// pc. Only the instruction bytes themselves are read back through the bus;
// operand targets are left alone, reads can have side effects.
func disassemble(out io.Writer, bus *bus, pc uint16, inst instruction, a, x, y, p, sp byte, cycles uint64) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%04X  ", pc)

	switch inst.size {
	case 1:
		fmt.Fprintf(&sb, "%02X      ", bus.read(pc))
	case 2:
		fmt.Fprintf(&sb, "%02X %02X   ", bus.read(pc), bus.read(pc+1))
	case 3:
		fmt.Fprintf(&sb, "%02X %02X %02X", bus.read(pc), bus.read(pc+1), bus.read(pc+2))
	}

	if inst.illegal {
		sb.WriteString(" *")
	} else {
		sb.WriteString("  ")
	}

	sb.WriteString(inst.name)
	sb.WriteByte(' ')

	switch inst.mode {
	case accumulator:
		sb.WriteString("A")
	case implied:
	default:
		var arg uint16
		switch inst.mode {
		case immediate, zeroPage, zeroPageX, zeroPageY, indirectX, indirectY:
			arg = uint16(bus.read(pc + 1))
		case absolute, indirect, absoluteX, absoluteY:
			arg = uint16(bus.read(pc+1)) | uint16(bus.read(pc+2))<<8
		case relative:
			arg = pc + 2 + uint16(int8(bus.read(pc+1)))
		}
		fmt.Fprintf(&sb, addressingFormats[inst.mode], arg)
	}

	for sb.Len() < 48 {
		sb.WriteByte(' ')
	}

	fmt.Fprintf(&sb, "A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d\n", a, x, y, p, sp, cycles)

	io.WriteString(out, sb.String())
}
