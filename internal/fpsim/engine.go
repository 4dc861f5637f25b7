package fpsim

import (
	"log"
	"sort"
)

// Row is one retired instruction's entry in the emitted schedule.
type Row struct {
	Index     int
	Instr     string
	Issue     int64
	Start     int64
	Complete  int64
	Writeback int64
	Result    float64
}

// Engine is the mutable state of one simulation run, encapsulated as a
// single value owned by the caller and passed explicitly to its own methods
// rather than held in package globals.
type Engine struct {
	Registers *RegisterFile
	Units     *FunctionalUnits
	Pipeline  *PipelineOccupancy
	pending   *EventQueue
	retired   *RetirementQueue

	logger      *log.Logger
	nanRetired  bool
	truncatedAt int
}

// EngineOption configures an Engine at construction time.
type EngineOption func(*Engine)

// WithLogger attaches a logger that receives one line per stage transition.
// Used to back the CLI's --verbose flag.
func WithLogger(l *log.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine builds a run-local Engine. seedValue initializes every register;
// latencies is the complete opcode latency table used for the run (for
// example DefaultLatencies()). It is not merged with the canonical table: an
// opcode absent from it gets a lazily allocated unit of latency 1.
func NewEngine(seedValue float64, latencies map[string]int64, opts ...EngineOption) (*Engine, error) {
	units, err := NewFunctionalUnits(latencies)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		Registers: NewRegisterFile(seedValue),
		Units:     units,
		Pipeline:  NewPipelineOccupancy(),
		pending:   NewEventQueue(),
		retired:   NewRetirementQueue(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Load seeds the pending queue with one ISSUE event per instruction and
// assigns each event its stable index: instrs is sorted by ArrivalCycle with
// ties broken by original input position (sort.SliceStable), then numbered
// 0..N-1 in that order. A freshly built event always has CurrTime ==
// ArrivalCycle, so ordering by ArrivalCycle here matches the (curr_time,
// arrival_cycle) ordering the pending queue otherwise maintains.
//
// This is deliberately not done by draining instrs through an EventQueue:
// before Index is assigned every event of the same arrival_cycle compares
// fully tied, and container/heap gives no ordering guarantee over tied
// elements, so routing the initial sort through the heap would silently
// reorder same-cycle instructions relative to their input order.
func (e *Engine) Load(instrs []Instruction) {
	ordered := make([]Instruction, len(instrs))
	copy(ordered, instrs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ArrivalCycle < ordered[j].ArrivalCycle
	})

	for i, instr := range ordered {
		event := newEvent(instr)
		event.Index = i
		e.pending.Push(event)
	}
}

// Run drives the main simulation loop: pop the earliest pending event,
// dispatch it to its stage transition, and continue until the pending queue
// is empty or a NaN retires, at which point remaining pending events are
// discarded. It returns the retired schedule in ascending index order.
func (e *Engine) Run() []Row {
	for e.pending.Len() > 0 {
		event := e.pending.Pop()
		if e.dispatch(event) {
			e.nanRetired = true
			e.truncatedAt = e.pending.Len()
			break
		}
	}
	return e.collect()
}

// NaNTerminated reports whether the run ended early because a retired
// result was NaN.
func (e *Engine) NaNTerminated() bool {
	return e.nanRetired
}

// DiscardedEvents reports how many pending events were discarded by NaN
// termination.
func (e *Engine) DiscardedEvents() int {
	return e.truncatedAt
}

// dispatch applies the transition for event's current stage, re-enqueuing it
// unless it is a WRITEBACK that admits. It returns true if a NaN just
// retired.
func (e *Engine) dispatch(event Event) bool {
	switch event.Type {
	case EventIssue:
		e.transitionIssue(event)
	case EventStart:
		e.transitionStart(event)
	case EventWriteback:
		return e.transitionWriteback(event)
	}
	return false
}

// transitionIssue implements the ISSUE admission test and reservation.
func (e *Engine) transitionIssue(event Event) {
	if e.Pipeline.Available(Issue, event.CurrTime) {
		event.Issue = event.CurrTime
		e.Pipeline.Occupy(Issue, event.CurrTime)
		event.Type = EventStart
		e.log("ISSUE idx=%d op=%s cycle=%d", event.Index, event.Instr.Op, event.CurrTime)
	} else {
		event.CurrTime = e.Pipeline.UseAfter(Issue)
	}
	e.pending.Push(event)
}

// transitionStart implements the START admission test, resource
// reservation, and result computation. The derived COMPLETE cycle and the
// destination-register commit both happen here, not at a separate scheduled
// stage.
func (e *Engine) transitionStart(event Event) {
	instr := event.Instr
	curr := event.CurrTime

	if e.startReady(instr, curr) {
		latency := e.Units.Latency(instr.Op)
		upd := curr + latency

		event.StartAt = curr
		event.Complete = upd - 1

		e.Registers.Hold(instr.Dst, upd)
		e.Units.Reserve(instr.Op, upd)

		event.Result = evaluate(instr, e.Registers)
		e.Registers.Write(instr.Dst, event.Result)

		event.CurrTime = upd
		event.Type = EventWriteback
		e.log("START idx=%d op=%s cycle=%d result=%v", event.Index, instr.Op, curr, event.Result)
	} else {
		event.CurrTime = e.startStallUntil(instr, curr)
	}
	e.pending.Push(event)
}

// startReady reports whether all resources START needs are available:
// destination register, both live source registers, and the functional
// unit.
func (e *Engine) startReady(instr Instruction, curr int64) bool {
	if !e.Registers.Available(instr.Dst, curr) {
		return false
	}
	if !e.Registers.Available(instr.Src1, curr) {
		return false
	}
	if instr.Src2 != NoSource && !e.Registers.Available(instr.Src2, curr) {
		return false
	}
	return e.Units.Available(instr.Op, curr)
}

// startStallUntil computes the earliest cycle at which every START resource
// (registers or functional unit) will be free — the binding resource may be
// any of them, so the functional unit's free_at is included alongside the
// register set.
func (e *Engine) startStallUntil(instr Instruction, curr int64) int64 {
	next := e.Units.FreeAt(instr.Op)
	if v := e.Registers.Get(instr.Dst).FreeAt; v > next {
		next = v
	}
	if v := e.Registers.Get(instr.Src1).FreeAt; v > next {
		next = v
	}
	if instr.Src2 != NoSource {
		if v := e.Registers.Get(instr.Src2).FreeAt; v > next {
			next = v
		}
	}
	return next
}

// transitionWriteback implements the WRITEBACK admission test and
// retirement. It returns true if the retired result is NaN, signalling the
// driver to terminate.
func (e *Engine) transitionWriteback(event Event) bool {
	curr := event.CurrTime
	if !e.Pipeline.Available(Writeback, curr) {
		event.CurrTime = e.Pipeline.UseAfter(Writeback)
		e.pending.Push(event)
		return false
	}

	event.Writeback = curr
	e.Pipeline.Occupy(Writeback, curr)
	e.retired.Push(event)
	e.log("WRITEBACK idx=%d op=%s cycle=%d result=%v", event.Index, event.Instr.Op, curr, event.Result)

	return isNaN(event.Result)
}

func (e *Engine) log(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}

// collect drains the retirement queue into index-ordered output rows.
func (e *Engine) collect() []Row {
	events := e.retired.Drain()
	rows := make([]Row, len(events))
	for i, ev := range events {
		rows[i] = Row{
			Index:     ev.Index,
			Instr:     ev.Instr.RiscString(),
			Issue:     ev.Issue,
			Start:     ev.StartAt,
			Complete:  ev.Complete,
			Writeback: ev.Writeback,
			Result:    ev.Result,
		}
	}
	return rows
}
