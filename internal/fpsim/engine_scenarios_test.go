package fpsim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ArpitPrd/fpsim/internal/fpsim"
)

var _ = Describe("Engine", func() {
	var newEngine = func() *fpsim.Engine {
		e, err := fpsim.NewEngine(fpsim.DefaultRegisterValue, fpsim.DefaultLatencies())
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	Describe("a single instruction with no hazards", func() {
		It("issues, starts, and writes back on the opcode's own schedule", func() {
			e := newEngine()
			e.Load([]fpsim.Instruction{{ArrivalCycle: 0, Op: "FADD.S", Dst: 1, Src1: 2, Src2: 3}})

			rows := e.Run()
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Issue).To(Equal(int64(0)))
			Expect(rows[0].Start).To(Equal(int64(0)))
			Expect(rows[0].Complete).To(Equal(int64(2)))
			Expect(rows[0].Writeback).To(Equal(int64(3)))
			Expect(rows[0].Instr).To(Equal("FADD.S R1 R2 R3"))
		})
	})

	Describe("a structural hazard on a shared functional unit", func() {
		It("stalls the second instruction until the unit frees", func() {
			e := newEngine()
			e.Load([]fpsim.Instruction{
				{ArrivalCycle: 0, Op: "FMUL.S", Dst: 1, Src1: 2, Src2: 3},
				{ArrivalCycle: 0, Op: "FMUL.S", Dst: 4, Src1: 2, Src2: 3},
			})

			rows := e.Run()
			Expect(rows).To(HaveLen(2))
			Expect(rows[1].Start).To(Equal(int64(4)))
			Expect(rows[1].Complete).To(Equal(int64(7)))
			Expect(rows[1].Writeback).To(Equal(int64(8)))
		})
	})

	Describe("a read-after-write hazard on a destination register", func() {
		It("stalls the dependent instruction until the register frees", func() {
			e := newEngine()
			e.Load([]fpsim.Instruction{
				{ArrivalCycle: 0, Op: "FADD.D", Dst: 1, Src1: 2, Src2: 3},
				{ArrivalCycle: 0, Op: "FADD.D", Dst: 5, Src1: 1, Src2: 4},
			})

			rows := e.Run()
			Expect(rows).To(HaveLen(2))
			Expect(rows[1].Start).To(Equal(int64(5)))
		})
	})

	Describe("FMOV with no second source operand", func() {
		It("runs with only a destination and one source register", func() {
			e := newEngine()
			e.Load([]fpsim.Instruction{{ArrivalCycle: 0, Op: "FMOV.S", Dst: 7, Src1: 2, Src2: fpsim.NoSource}})

			rows := e.Run()
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Instr).To(Equal("FMOV.S R7 R2"))
			Expect(rows[0].Start).To(Equal(int64(0)))
			Expect(rows[0].Complete).To(Equal(int64(0)))
			Expect(rows[0].Writeback).To(Equal(int64(1)))
		})
	})

	Describe("a divide by zero", func() {
		It("retires the NaN result and discards everything still pending", func() {
			e := newEngine()
			e.Load([]fpsim.Instruction{
				{ArrivalCycle: 0, Op: "FSUB.D", Dst: 3, Src1: 4, Src2: 4},
				{ArrivalCycle: 0, Op: "FDIV.D", Dst: 1, Src1: 2, Src2: 3},
				{ArrivalCycle: 0, Op: "FDIV.D", Dst: 6, Src1: 2, Src2: 3},
			})

			rows := e.Run()
			Expect(e.NaNTerminated()).To(BeTrue())
			Expect(rows).To(HaveLen(2))
			Expect(math.IsNaN(rows[1].Result)).To(BeTrue())
			Expect(e.DiscardedEvents()).To(BeNumerically(">", 0))
		})
	})

	Describe("the ISSUE stage", func() {
		It("admits at most one instruction per cycle, in arrival order", func() {
			e := newEngine()
			e.Load([]fpsim.Instruction{
				{ArrivalCycle: 0, Op: "FADD.S", Dst: 1, Src1: 2, Src2: 3},
				{ArrivalCycle: 0, Op: "FSUB.S", Dst: 4, Src1: 5, Src2: 6},
				{ArrivalCycle: 0, Op: "FMUL.S", Dst: 7, Src1: 8, Src2: 9},
			})

			rows := e.Run()
			Expect(rows).To(HaveLen(3))
			Expect(rows[0].Issue).To(Equal(int64(0)))
			Expect(rows[1].Issue).To(Equal(int64(1)))
			Expect(rows[2].Issue).To(Equal(int64(2)))
			Expect(rows[0].Instr).To(Equal("FADD.S R1 R2 R3"))
			Expect(rows[1].Instr).To(Equal("FSUB.S R4 R5 R6"))
			Expect(rows[2].Instr).To(Equal("FMUL.S R7 R8 R9"))
		})
	})

	Describe("an unknown opcode", func() {
		It("evaluates to NaN and terminates the run", func() {
			e := newEngine()
			e.Load([]fpsim.Instruction{{ArrivalCycle: 0, Op: "FXYZ.S", Dst: 1, Src1: 2, Src2: 3}})

			rows := e.Run()
			Expect(rows).To(HaveLen(1))
			Expect(math.IsNaN(rows[0].Result)).To(BeTrue())
			Expect(e.NaNTerminated()).To(BeTrue())
		})
	})
})
