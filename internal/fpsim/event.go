package fpsim

import "container/heap"

// EventType is the event's current scheduled stage. COMPLETE never appears
// here: it is a derived timestamp recorded on the Event, not a stage a
// transition dispatches on.
type EventType int

const (
	EventIssue EventType = iota
	EventStart
	EventWriteback
)

// Event is the per-instruction dynamic simulation state. It is created once
// per instruction as an ISSUE event and mutated by each stage transition
// until it retires at WRITEBACK.
type Event struct {
	Index     int
	Type      EventType
	Instr     Instruction
	CurrTime  int64
	Issue     int64
	StartAt   int64
	Complete  int64
	Writeback int64
	Result    float64
}

// newEvent seeds an ISSUE event from a freshly parsed instruction: every
// recorded cycle starts equal to the arrival cycle.
func newEvent(instr Instruction) Event {
	return Event{
		Type:      EventIssue,
		Instr:     instr,
		CurrTime:  instr.ArrivalCycle,
		Issue:     instr.ArrivalCycle,
		StartAt:   instr.ArrivalCycle,
		Complete:  instr.ArrivalCycle,
		Writeback: instr.ArrivalCycle,
	}
}

// eventHeap is a container/heap.Interface ordered by (curr_time,
// arrival_cycle, index) ascending. The index term is the final deterministic
// tiebreak; this type must never rely on Go's heap implementation detail for
// stability, so every comparison is explicit across all three keys.
type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.CurrTime != b.CurrTime {
		return a.CurrTime < b.CurrTime
	}
	if a.Instr.ArrivalCycle != b.Instr.ArrivalCycle {
		return a.Instr.ArrivalCycle < b.Instr.ArrivalCycle
	}
	return a.Index < b.Index
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) { *h = append(*h, x.(Event)) }

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// EventQueue is the pending-event min-heap.
type EventQueue struct {
	h eventHeap
}

// NewEventQueue returns an empty pending queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{h: make(eventHeap, 0)}
}

// Push inserts an event, restoring heap order.
func (q *EventQueue) Push(e Event) {
	heap.Push(&q.h, e)
}

// Pop removes and returns the highest-priority (earliest) pending event.
func (q *EventQueue) Pop() Event {
	return heap.Pop(&q.h).(Event)
}

// Len reports how many events are pending.
func (q *EventQueue) Len() int {
	return q.h.Len()
}

// Drain empties the queue, returning its events in pop order (i.e. sorted by
// the (curr_time, arrival_cycle, index) ordering). Events that tie on all
// three keys come out in no defined order, since container/heap gives no
// stability guarantee beyond the comparator's own keys.
func (q *EventQueue) Drain() []Event {
	out := make([]Event, 0, q.Len())
	for q.Len() > 0 {
		out = append(out, q.Pop())
	}
	return out
}

// retirementHeap orders retired events by Index ascending, so the schedule
// is emitted in original instruction order regardless of completion order.
type retirementHeap []Event

func (h retirementHeap) Len() int            { return len(h) }
func (h retirementHeap) Less(i, j int) bool  { return h[i].Index < h[j].Index }
func (h retirementHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *retirementHeap) Push(x any)         { *h = append(*h, x.(Event)) }
func (h *retirementHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// RetirementQueue collects retired events for index-ordered drain.
type RetirementQueue struct {
	h retirementHeap
}

// NewRetirementQueue returns an empty retirement collector.
func NewRetirementQueue() *RetirementQueue {
	return &RetirementQueue{h: make(retirementHeap, 0)}
}

// Push records a newly retired event.
func (q *RetirementQueue) Push(e Event) {
	heap.Push(&q.h, e)
}

// Len reports how many events have retired so far.
func (q *RetirementQueue) Len() int {
	return q.h.Len()
}

// Drain empties the retirement queue in ascending Index order.
func (q *RetirementQueue) Drain() []Event {
	out := make([]Event, 0, q.Len())
	for q.h.Len() > 0 {
		out = append(out, heap.Pop(&q.h).(Event))
	}
	return out
}
