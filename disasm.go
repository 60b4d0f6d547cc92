// disasm.go - renders a decoded instruction word back to MIPS assembly
// text, covering the opcode set dispatch() implements
//
// Grounded on src/cpu/disassembler.hpp's mnemonic tables, adapted to the
// subset of the ISA this core actually executes.
//
// (c) 2024 - 2026 Zayn Otley
// https://github.com/IntuitionAmiga/IntuitionEngine
// License: GPLv3 or later

package main

import "fmt"

func regName(i uint32) string { return fmt.Sprintf("r%d", i) }

// Disassemble renders ins (fetched from addr) as MIPS assembly text. It is
// a best-effort debugging aid: unrecognised opcodes render as a raw word.
func Disassemble(addr, ins uint32) string {
	op := opOf(ins)
	rs, rt, rd, sh := rsOf(ins), rtOf(ins), rdOf(ins), shamtOf(ins)

	switch op {
	case opSpecial:
		return disasmSpecial(rs, rt, rd, sh, functOf(ins))
	case opBcond:
		return disasmBcond(rs, rt, immOf(ins))
	case opJ:
		return fmt.Sprintf("j      %#x", (addr&0xF000_0000)|(targetOf(ins)<<2))
	case opJAL:
		return fmt.Sprintf("jal    %#x", (addr&0xF000_0000)|(targetOf(ins)<<2))
	case opBEQ:
		return fmt.Sprintf("beq    %s, %s, %d", regName(rs), regName(rt), immOf(ins))
	case opBNE:
		return fmt.Sprintf("bne    %s, %s, %d", regName(rs), regName(rt), immOf(ins))
	case opBLEZ:
		return fmt.Sprintf("blez   %s, %d", regName(rs), immOf(ins))
	case opBGTZ:
		return fmt.Sprintf("bgtz   %s, %d", regName(rs), immOf(ins))
	case opADDI:
		return fmt.Sprintf("addi   %s, %s, %d", regName(rt), regName(rs), immOf(ins))
	case opADDIU:
		return fmt.Sprintf("addiu  %s, %s, %d", regName(rt), regName(rs), immOf(ins))
	case opSLTI:
		return fmt.Sprintf("slti   %s, %s, %d", regName(rt), regName(rs), immOf(ins))
	case opSLTIU:
		return fmt.Sprintf("sltiu  %s, %s, %d", regName(rt), regName(rs), immOf(ins))
	case opANDI:
		return fmt.Sprintf("andi   %s, %s, %#x", regName(rt), regName(rs), uimmOf(ins))
	case opORI:
		return fmt.Sprintf("ori    %s, %s, %#x", regName(rt), regName(rs), uimmOf(ins))
	case opLUI:
		return fmt.Sprintf("lui    %s, %#x", regName(rt), uimmOf(ins))
	case opCOP0, opCOP1, opCOP2, opCOP3:
		return disasmCop(ins, copN(ins))
	case opLB:
		return fmt.Sprintf("lb     %s, %d(%s)", regName(rt), immOf(ins), regName(rs))
	case opLH:
		return fmt.Sprintf("lh     %s, %d(%s)", regName(rt), immOf(ins), regName(rs))
	case opLW:
		return fmt.Sprintf("lw     %s, %d(%s)", regName(rt), immOf(ins), regName(rs))
	case opLBU:
		return fmt.Sprintf("lbu    %s, %d(%s)", regName(rt), immOf(ins), regName(rs))
	case opLHU:
		return fmt.Sprintf("lhu    %s, %d(%s)", regName(rt), immOf(ins), regName(rs))
	case opSB:
		return fmt.Sprintf("sb     %s, %d(%s)", regName(rt), immOf(ins), regName(rs))
	case opSH:
		return fmt.Sprintf("sh     %s, %d(%s)", regName(rt), immOf(ins), regName(rs))
	case opSW:
		return fmt.Sprintf("sw     %s, %d(%s)", regName(rt), immOf(ins), regName(rs))
	default:
		return fmt.Sprintf(".word  %#08x", ins)
	}
}

func disasmSpecial(rs, rt, rd, sh, fn uint32) string {
	switch fn {
	case fnSLL:
		if rd == 0 && rt == 0 && sh == 0 {
			return "nop"
		}
		return fmt.Sprintf("sll    %s, %s, %d", regName(rd), regName(rt), sh)
	case fnSRL:
		return fmt.Sprintf("srl    %s, %s, %d", regName(rd), regName(rt), sh)
	case fnSRA:
		return fmt.Sprintf("sra    %s, %s, %d", regName(rd), regName(rt), sh)
	case fnSLLV:
		return fmt.Sprintf("sllv   %s, %s, %s", regName(rd), regName(rt), regName(rs))
	case fnSRAV:
		return fmt.Sprintf("srav   %s, %s, %s", regName(rd), regName(rt), regName(rs))
	case fnJR:
		return fmt.Sprintf("jr     %s", regName(rs))
	case fnJALR:
		return fmt.Sprintf("jalr   %s, %s", regName(rd), regName(rs))
	case fnSYS:
		return "syscall"
	case fnMFHI:
		return fmt.Sprintf("mfhi   %s", regName(rd))
	case fnMTHI:
		return fmt.Sprintf("mthi   %s", regName(rs))
	case fnMFLO:
		return fmt.Sprintf("mflo   %s", regName(rd))
	case fnMTLO:
		return fmt.Sprintf("mtlo   %s", regName(rs))
	case fnMULT:
		return fmt.Sprintf("mult   %s, %s", regName(rs), regName(rt))
	case fnMULTU:
		return fmt.Sprintf("multu  %s, %s", regName(rs), regName(rt))
	case fnDIV:
		return fmt.Sprintf("div    %s, %s", regName(rs), regName(rt))
	case fnDIVU:
		return fmt.Sprintf("divu   %s, %s", regName(rs), regName(rt))
	case fnADD:
		return fmt.Sprintf("add    %s, %s, %s", regName(rd), regName(rs), regName(rt))
	case fnADDU:
		return fmt.Sprintf("addu   %s, %s, %s", regName(rd), regName(rs), regName(rt))
	case fnSUBU:
		return fmt.Sprintf("subu   %s, %s, %s", regName(rd), regName(rs), regName(rt))
	case fnAND:
		return fmt.Sprintf("and    %s, %s, %s", regName(rd), regName(rs), regName(rt))
	case fnOR:
		return fmt.Sprintf("or     %s, %s, %s", regName(rd), regName(rs), regName(rt))
	case fnNOR:
		return fmt.Sprintf("nor    %s, %s, %s", regName(rd), regName(rs), regName(rt))
	case fnSLT:
		return fmt.Sprintf("slt    %s, %s, %s", regName(rd), regName(rs), regName(rt))
	case fnSLTU:
		return fmt.Sprintf("sltu   %s, %s, %s", regName(rd), regName(rs), regName(rt))
	default:
		return fmt.Sprintf(".special %#x", fn)
	}
}

func disasmBcond(rs, rt uint32, imm int32) string {
	switch rt {
	case rtBLTZ:
		return fmt.Sprintf("bltz   %s, %d", regName(rs), imm)
	case rtBGEZ:
		return fmt.Sprintf("bgez   %s, %d", regName(rs), imm)
	case rtBLTZAL:
		return fmt.Sprintf("bltzal %s, %d", regName(rs), imm)
	case rtBGEZAL:
		return fmt.Sprintf("bgezal %s, %d", regName(rs), imm)
	default:
		return fmt.Sprintf(".bcond %#x", rt)
	}
}

func disasmCop(ins uint32, n uint32) string {
	if n != 0 {
		return fmt.Sprintf(".cop%d   %#08x", n, ins)
	}
	if isCopFn(ins) && copFn(ins) == fnRFE {
		return "rfe"
	}
	switch copSubop(ins) {
	case copMFC:
		return fmt.Sprintf("mfc0   %s, cop0r%d", regName(rtOf(ins)), rdOf(ins))
	case copMTC:
		return fmt.Sprintf("mtc0   %s, cop0r%d", regName(rtOf(ins)), rdOf(ins))
	default:
		return fmt.Sprintf(".cop0   %#08x", ins)
	}
}
