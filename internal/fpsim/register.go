// Package fpsim implements the discrete-event simulation of a simplified
// in-order, pipelined floating-point unit: the register/functional-unit/
// pipeline resource model, the ISSUE -> START -> WRITEBACK stage transitions,
// and the event-driven driver that ties them together.
package fpsim

// DefaultRegisterValue is the value every floating-point register is seeded
// with at the start of a run.
const DefaultRegisterValue = 3.146762983

// NumRegisters is the size of the floating-point register file.
const NumRegisters = 32

// Register is one entry in the floating-point register file.
//
// free_at is monotonically nondecreasing across a run: it is advanced only
// by the START transition of an instruction that names the register as its
// destination.
type Register struct {
	Value   float64
	Is64Bit bool
	FreeAt  int64
}

// RegisterFile holds the fixed-size set of floating-point registers.
type RegisterFile struct {
	regs [NumRegisters]Register
}

// NewRegisterFile builds a register file with every register seeded to
// seedValue and free from cycle 0.
func NewRegisterFile(seedValue float64) *RegisterFile {
	rf := &RegisterFile{}
	for i := range rf.regs {
		rf.regs[i] = Register{Value: seedValue, Is64Bit: true, FreeAt: 0}
	}
	return rf
}

// Get returns a copy of the register at idx.
func (rf *RegisterFile) Get(idx int) Register {
	return rf.regs[idx]
}

// Available reports whether the register at idx can be used at curr.
func (rf *RegisterFile) Available(idx int, curr int64) bool {
	return rf.regs[idx].FreeAt <= curr
}

// Hold advances the register's free_at to upd without touching its value,
// reserving it for a pending destination write. Source registers are never
// held; only a destination does this.
func (rf *RegisterFile) Hold(idx int, upd int64) {
	rf.regs[idx].FreeAt = upd
}

// Write commits value into the register, leaving free_at untouched. Called
// once the evaluator has produced the instruction's result.
func (rf *RegisterFile) Write(idx int, value float64) {
	rf.regs[idx].Value = value
}
