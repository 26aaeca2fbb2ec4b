package nav

import "sync"

// Entry is one history record: the serialized fragment plus the target it
// was built from, so pops can restore state without re-parsing.
type Entry struct {
	Fragment string
	Target   Target
}

// History is the browser-style stack the machine pushes onto. Back requests
// a pop; the entry that becomes current is delivered on Pops, and the
// machine restores state only when it arrives.
type History interface {
	Push(Entry)
	Replace(Entry)
	Back() bool
	Pops() <-chan Entry
}

// Stack is the in-memory History. The pops channel is buffered so Back can
// be called from the update loop that also drains it.
type Stack struct {
	mu      sync.Mutex
	entries []Entry
	pops    chan Entry
}

func NewStack(root Entry) *Stack {
	return &Stack{
		entries: []Entry{root},
		pops:    make(chan Entry, 8),
	}
}

func (s *Stack) Push(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

func (s *Stack) Replace(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[len(s.entries)-1] = e
}

// Back drops the current entry and emits the one underneath. At the root
// there is nowhere to go and nothing is emitted.
func (s *Stack) Back() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) <= 1 {
		return false
	}
	s.entries = s.entries[:len(s.entries)-1]
	top := s.entries[len(s.entries)-1]
	select {
	case s.pops <- top:
	default:
	}
	return true
}

func (s *Stack) Pops() <-chan Entry {
	return s.pops
}

// Depth reports how many entries the stack holds, root included.
func (s *Stack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Current returns the entry on top of the stack.
func (s *Stack) Current() Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[len(s.entries)-1]
}
