package fpsim

import "math"

// isNaN reports whether f is NaN using the value-is-not-equal-to-itself
// predicate rather than comparing against a NaN constant.
func isNaN(f float64) bool {
	return f != f
}

// evaluate computes an instruction's double-precision result from the
// current register values. Computation is always performed in double
// precision regardless of the instruction's declared width; IsDouble is not
// read here.
func evaluate(instr Instruction, regs *RegisterFile) float64 {
	val1 := regs.Get(instr.Src1).Value

	switch instr.Op {
	case "FADD.S", "FADD.D":
		return val1 + regs.Get(instr.Src2).Value
	case "FSUB.S", "FSUB.D":
		return val1 - regs.Get(instr.Src2).Value
	case "FMUL.S", "FMUL.D":
		return val1 * regs.Get(instr.Src2).Value
	case "FDIV.S", "FDIV.D":
		val2 := regs.Get(instr.Src2).Value
		if val2 == 0.0 {
			return math.NaN()
		}
		return val1 / val2
	case "FMOV.S", "FMOV.D":
		return val1
	default:
		// Unknown opcode: produce NaN so the uniform termination policy
		// applies without a separate error path.
		return math.NaN()
	}
}
