// Package scheduler implements the cycle-exact event heap that
// generates VBLANK, motor-timeout, and disk-rotation signals.
package scheduler

import "container/heap"

// Kind identifies the category of a scheduled event.
type Kind uint8

const (
	VideoBlank Kind = iota
	MotorTimeout
	DiskRotation
)

func (k Kind) String() string {
	switch k {
	case VideoBlank:
		return "VideoBlank"
	case MotorTimeout:
		return "MotorTimeout"
	case DiskRotation:
		return "DiskRotation"
	default:
		return "Unknown"
	}
}

// Handle is an opaque cancellation token returned by ScheduleAfter.
type Handle uint64

// Consumer is invoked when a scheduled event's deadline is reached.
// payload is whatever was passed to ScheduleAfter. Consumers may call
// ScheduleAfter again during the callback; the new event is inserted
// into the heap and consumed in the same Advance call if its deadline
// is also <= the target cycle.
type Consumer func(payload any, cycle uint64)

type event struct {
	deadline uint64
	seq      uint64 // insertion order, for heap stability
	handle   Handle
	kind     Kind
	payload  any
	cancelled bool
	index    int // heap index, maintained by container/heap
}

type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].deadline != h[j].deadline {
		return h[i].deadline < h[j].deadline
	}
	return h[i].seq < h[j].seq
}
func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *eventHeap) Push(x any) {
	e := x.(*event)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Scheduler is a min-heap of future events keyed on cycle, with
// insertion-order tiebreaking for stability. The cycle counter only
// ever advances: Advance(target) is a no-op if target is behind the
// current cycle.
type Scheduler struct {
	heap      eventHeap
	byHandle  map[Handle]*event
	consumers map[Kind]Consumer
	nextSeq   uint64
	nextHandle Handle
	cycle     uint64
}

// New creates an empty scheduler at cycle 0.
func New() *Scheduler {
	return &Scheduler{
		byHandle:  make(map[Handle]*event),
		consumers: make(map[Kind]Consumer),
	}
}

// OnEvent registers the consumer invoked when an event of kind fires.
// A kind may have at most one consumer; re-registering replaces it.
func (s *Scheduler) OnEvent(kind Kind, fn Consumer) {
	s.consumers[kind] = fn
}

// Cycle returns the scheduler's current cycle counter.
func (s *Scheduler) Cycle() uint64 { return s.cycle }

// ScheduleAfter schedules kind to fire delta cycles from now (deadline
// = Cycle()+delta), carrying payload, and returns a cancellation
// handle. Scheduling at a cycle already in the past (delta causing a
// deadline <= Cycle()) is permitted; it fires on the next Advance.
func (s *Scheduler) ScheduleAfter(delta uint64, kind Kind, payload any) Handle {
	return s.scheduleAt(s.cycle+delta, kind, payload)
}

func (s *Scheduler) scheduleAt(deadline uint64, kind Kind, payload any) Handle {
	s.nextHandle++
	h := s.nextHandle
	e := &event{
		deadline: deadline,
		seq:      s.nextSeq,
		handle:   h,
		kind:     kind,
		payload:  payload,
	}
	s.nextSeq++
	heap.Push(&s.heap, e)
	s.byHandle[h] = e
	return h
}

// Cancel marks handle's event as skipped. Cancelling an
// already-consumed or unknown handle is a no-op.
func (s *Scheduler) Cancel(h Handle) {
	e, ok := s.byHandle[h]
	if !ok {
		return
	}
	e.cancelled = true
	delete(s.byHandle, h)
}

// Advance moves the cycle counter forward to target, consuming (or
// skipping, if cancelled) every event whose deadline is <= target, in
// deadline then insertion order. Consumers may schedule new events
// during the drain; those are consumed too if their deadline also
// falls at or before target. While a consumer runs, Cycle() reports
// the deadline of the event being consumed, so ScheduleAfter from a
// consumer counts from that deadline. Advance is a no-op if target is
// not ahead of the current cycle.
func (s *Scheduler) Advance(target uint64) {
	if target <= s.cycle {
		return
	}
	for s.heap.Len() > 0 && s.heap[0].deadline <= target {
		e := heap.Pop(&s.heap).(*event)
		delete(s.byHandle, e.handle)
		if e.cancelled {
			continue
		}
		if e.deadline > s.cycle {
			s.cycle = e.deadline
		}
		if fn, ok := s.consumers[e.kind]; ok {
			fn(e.payload, e.deadline)
		}
	}
	s.cycle = target
}

// Pending reports how many live (non-cancelled, unconsumed) events
// remain in the heap. Exposed for introspection/tests only.
func (s *Scheduler) Pending() int { return len(s.byHandle) }
