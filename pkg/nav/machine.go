package nav

import (
	"fmt"
	"log/slog"
	"sync"

	"prayteam/pkg/prayer"
)

// State is the machine's current position. Group is required for the
// members and prayers screens, Member only for prayers; on all_prayers a
// non-nil Group means the projection is scoped to that one group (guest
// deep links do this).
type State struct {
	View       View
	Group      *prayer.Group
	Member     string
	Generation uint64
}

// Lookup resolves a group id from whatever list the caller has loaded.
// Pops carry only the id; this turns it back into a full group.
type Lookup func(id string) (prayer.Group, bool)

type Machine struct {
	mu     sync.Mutex
	state  State
	hist   History
	lookup Lookup
	log    *slog.Logger
	guest  bool
}

type Option func(*Machine)

func WithLookup(fn Lookup) Option {
	return func(m *Machine) { m.lookup = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) { m.log = l }
}

func New(hist History, opts ...Option) *Machine {
	m := &Machine{
		hist:   hist,
		lookup: func(string) (prayer.Group, bool) { return prayer.Group{}, false },
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.state = State{View: ViewGroups, Generation: 1}
	return m
}

func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) Guest() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.guest
}

// Stale reports whether an async completion captured at gen should be
// dropped because the machine has since moved on.
func (m *Machine) Stale(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.state.Generation {
		m.log.Debug("dropping stale completion", "captured", gen, "current", m.state.Generation)
		return true
	}
	return false
}

// SelectGroup switches to the members screen immediately; the caller kicks
// off the per-member loads and guards their completion with the returned
// generation.
func (m *Machine) SelectGroup(g prayer.Group) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{
		View:       ViewMembers,
		Group:      &g,
		Generation: m.state.Generation + 1,
	}
	m.push(Target{View: ViewMembers, GroupID: g.ID})
	return m.state
}

// SelectMember moves from the members screen into one member's prayers.
// The record is expected to already be cached from SelectGroup; no fetch
// happens here.
func (m *Machine) SelectMember(member string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.View != ViewMembers || m.state.Group == nil {
		return m.state, fmt.Errorf("select member %q: not on a group's member list", member)
	}
	m.state = State{
		View:       ViewPrayers,
		Group:      m.state.Group,
		Member:     member,
		Generation: m.state.Generation + 1,
	}
	m.push(Target{View: ViewPrayers, GroupID: m.state.Group.ID, Member: member})
	return m.state, nil
}

// ViewAll switches to the cross-group projection immediately; the bulk
// fetch runs behind it, guarded by the returned generation.
func (m *Machine) ViewAll() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{
		View:       ViewAllPrayers,
		Generation: m.state.Generation + 1,
	}
	m.push(Target{View: ViewAllPrayers})
	return m.state
}

// Back asks the history to pop. State does not change here; the pop entry
// arrives on the history's channel and HandlePop restores from it, the same
// path a platform back gesture would take.
func (m *Machine) Back() bool {
	return m.hist.Back()
}

// HandlePop reconstructs state from a popped entry. A target whose group no
// longer resolves still lands on the named screen with empty data.
func (m *Machine) HandlePop(e Entry) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := e.Target
	if e.Fragment != "" && t == (Target{}) {
		t = ParseFragment(e.Fragment)
	}
	next := State{View: t.View, Generation: m.state.Generation + 1}
	if t.GroupID != "" {
		if g, ok := m.lookup(t.GroupID); ok {
			next.Group = &g
		} else {
			m.log.Warn("popped group no longer known", "group", t.GroupID)
		}
	}
	if t.View == ViewPrayers {
		next.Member = t.Member
	}
	m.state = next
	return m.state
}

// BootstrapGuest inspects a deep-link fragment. When it names a group, the
// machine enters guest mode and reports the target for the caller to fetch;
// otherwise the machine stays on the authenticated groups screen.
func (m *Machine) BootstrapGuest(fragment string) (Target, bool) {
	t := ParseFragment(fragment)
	if t.GroupID == "" {
		return Target{}, false
	}
	m.mu.Lock()
	m.guest = true
	m.mu.Unlock()
	return t, true
}

// EnterGuest lands a guest on their deep-link destination once the group
// has been fetched: prayers when a member was named, otherwise the
// group-scoped all_prayers projection. The entry replaces the root so Back
// has nowhere earlier to go.
func (m *Machine) EnterGuest(t Target, g prayer.Group) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := State{Group: &g, Generation: m.state.Generation + 1}
	if t.Member != "" {
		next.View = ViewPrayers
		next.Member = t.Member
	} else {
		next.View = ViewAllPrayers
	}
	m.state = next
	target := Target{View: next.View, GroupID: g.ID, Member: next.Member}
	m.hist.Replace(Entry{Fragment: FormatFragment(target), Target: target})
	return m.state
}

func (m *Machine) push(t Target) {
	m.hist.Push(Entry{Fragment: FormatFragment(t), Target: t})
}
