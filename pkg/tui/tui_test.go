package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/v2/list"
	tea "github.com/charmbracelet/bubbletea/v2"

	"prayteam/pkg/app"
	"prayteam/pkg/glyph"
	"prayteam/pkg/nav"
	"prayteam/pkg/prayer"
	"prayteam/pkg/remote"
	"prayteam/pkg/store"
)

type fakeFetcher struct {
	payloads map[string]*remote.PrayersPayload
}

func (f *fakeFetcher) GetPrayers(ctx context.Context, groupID, member string) (*remote.PrayersPayload, error) {
	if p, ok := f.payloads[groupID+"/"+member]; ok {
		return p, nil
	}
	return &remote.PrayersPayload{}, nil
}

type fakeSaver struct {
	noteErr   error
	prayerErr error
	notes     int
	prayers   int
	logs      []remote.LogEntry
}

func (f *fakeSaver) SaveNote(ctx context.Context, req remote.SaveNoteRequest) error {
	f.notes++
	return f.noteErr
}
func (f *fakeSaver) SavePrayer(ctx context.Context, req remote.SavePrayerRequest) error {
	f.prayers++
	return f.prayerErr
}
func (f *fakeSaver) AddGroup(ctx context.Context, actorID, name string) (string, error) {
	return "g-new", nil
}
func (f *fakeSaver) AddMember(ctx context.Context, groupID, name string) error { return nil }
func (f *fakeSaver) AddLog(ctx context.Context, entry remote.LogEntry) error {
	f.logs = append(f.logs, entry)
	return nil
}

var testGroup = prayer.Group{ID: "g1", Name: "청년부", Members: []string{"민수", "수지"}}

func newTestModel(saver *fakeSaver) (Model, *store.Store) {
	fetcher := &fakeFetcher{payloads: map[string]*remote.PrayersPayload{
		"g1/민수": {Prayers: []string{"health", "exams"}, Responses: []string{"기대중", "응답됨"}, Indices: []int{1, 2}},
		"g1/수지": {Prayers: []string{"family"}},
	}}
	st := store.NewStore(fetcher)
	svc := app.NewService(st, saver, "actor-1")
	m := New(Config{Store: st, Service: svc})
	m.dir.set([]prayer.Group{testGroup})
	m.groupList.SetItems([]list.Item{groupItem{testGroup}})
	m.groupList.Select(0)
	return m, st
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	nm, cmd := m.Update(msg)
	return nm.(Model), cmd
}

func enterMembers(t *testing.T, m Model) Model {
	t.Helper()
	var cmds []tea.Cmd
	m.open(&cmds)
	if len(cmds) != 1 {
		t.Fatalf("expected a load command, got %d", len(cmds))
	}
	if got := m.machine.Current().View; got != nav.ViewMembers {
		t.Fatalf("view did not switch optimistically: %v", got)
	}
	if !m.loading {
		t.Fatalf("loading indicator not set during the fetch")
	}
	var next Model
	next, _ = step(t, m, cmds[0]())
	return next
}

func enterPrayers(t *testing.T, m Model) Model {
	t.Helper()
	m.memberList.Select(0)
	var cmds []tea.Cmd
	m.open(&cmds)
	if got := m.machine.Current().View; got != nav.ViewPrayers {
		t.Fatalf("view = %v", got)
	}
	return m
}

func TestEnterGroupLoadsMembers(t *testing.T) {
	m, _ := newTestModel(&fakeSaver{})
	m = enterMembers(t, m)

	if m.loading {
		t.Fatalf("loading should clear once the group load lands")
	}
	items := m.memberList.Items()
	if len(items) != 2 {
		t.Fatalf("members = %d", len(items))
	}
	first := items[0].(memberItem)
	if first.name != "민수" || first.count != 2 {
		t.Fatalf("first member = %+v", first)
	}
}

func TestSelectMemberUsesCacheOnly(t *testing.T) {
	m, _ := newTestModel(&fakeSaver{})
	m = enterMembers(t, m)
	m = enterPrayers(t, m)

	items := m.prayerList.Items()
	if len(items) != 2 {
		t.Fatalf("prayers = %d", len(items))
	}
	if items[1].(prayerItem).s.Status != glyph.Answered {
		t.Fatalf("cached status lost: %+v", items[1])
	}
}

func TestNavigationLogsVisits(t *testing.T) {
	saver := &fakeSaver{}
	m, _ := newTestModel(saver)
	m = enterMembers(t, m)

	if len(saver.logs) != 1 {
		t.Fatalf("visits = %d", len(saver.logs))
	}
	if got := saver.logs[0]; got.Page != "members" || got.GroupID != "g1" || got.From != "groups" {
		t.Fatalf("wrong visit: %+v", got)
	}

	m.memberList.Select(0)
	var cmds []tea.Cmd
	m.open(&cmds)
	for _, c := range cmds {
		c()
	}
	if len(saver.logs) != 2 {
		t.Fatalf("member visit not logged: %d", len(saver.logs))
	}
	if got := saver.logs[1]; got.Page != "prayers" || got.Member != "민수" || got.From != "members" {
		t.Fatalf("wrong visit: %+v", got)
	}
}

func TestBackRestoresOnlyThroughPop(t *testing.T) {
	m, _ := newTestModel(&fakeSaver{})
	m = enterMembers(t, m)
	m = enterPrayers(t, m)

	if !m.machine.Back() {
		t.Fatalf("expected history pop")
	}
	if got := m.machine.Current().View; got != nav.ViewPrayers {
		t.Fatalf("state changed before the pop was handled: %v", got)
	}

	select {
	case e := <-m.hist.Pops():
		m, _ = step(t, m, popMsg{entry: e})
	default:
		t.Fatalf("no pop delivered")
	}
	st := m.machine.Current()
	if st.View != nav.ViewMembers || st.Group == nil || st.Group.ID != "g1" {
		t.Fatalf("pop landed on %+v", st)
	}
	if len(m.memberList.Items()) != 2 {
		t.Fatalf("member list not restored from cache")
	}
}

func TestStaleGroupLoadDropped(t *testing.T) {
	m, _ := newTestModel(&fakeSaver{})
	var cmds []tea.Cmd
	m.open(&cmds)
	stale := cmds[0]() // complete the load, but navigate first

	m.machine.ViewAll()
	m, _ = step(t, m, stale)
	if len(m.memberList.Items()) != 0 {
		t.Fatalf("stale completion still populated the member list")
	}
}

func TestAddPrayerOptimisticOnFailure(t *testing.T) {
	saver := &fakeSaver{prayerErr: errors.New("down")}
	m, _ := newTestModel(saver)
	m = enterMembers(t, m)
	m = enterPrayers(t, m)

	m.mode = modeInsert
	m.action = actionAdd
	m.input.SetValue("새 직장")
	var cmds []tea.Cmd
	m.commitInsert(&cmds)

	if saver.prayers != 1 {
		t.Fatalf("persist not attempted")
	}
	if len(m.prayerList.Items()) != 3 {
		t.Fatalf("optimistic add missing from the visible list: %d", len(m.prayerList.Items()))
	}
}

func TestGuestReadyLandsOnScopedProjection(t *testing.T) {
	m, st := newTestModel(&fakeSaver{})
	target, ok := m.machine.BootstrapGuest("#group=g9")
	if !ok {
		t.Fatalf("deep link not recognized")
	}

	guest := prayer.Group{ID: "g9", Name: "g9", Members: []string{"은혜"}}
	msg := guestReadyMsg{target: target, group: guest}
	msg.proj.Sections = nil
	st.Put("g9", prayer.MemberRecord{Member: "은혜", Slots: []prayer.Slot{prayer.New("p", 1, "")}})

	m, _ = step(t, m, msg)
	got := m.machine.Current()
	if got.View != nav.ViewAllPrayers || got.Group == nil || got.Group.ID != "g9" {
		t.Fatalf("guest landed on %+v", got)
	}
	if !m.machine.Guest() {
		t.Fatalf("guest flag not set")
	}
}

func TestGuestWithMemberLandsOnPrayers(t *testing.T) {
	m, st := newTestModel(&fakeSaver{})
	target, ok := m.machine.BootstrapGuest("#group=g9&member=은혜")
	if !ok {
		t.Fatalf("deep link not recognized")
	}
	st.Put("g9", prayer.MemberRecord{Member: "은혜", Slots: []prayer.Slot{prayer.New("p", 1, "")}})
	guest := prayer.Group{ID: "g9", Name: "g9", Members: []string{"은혜"}}

	m, _ = step(t, m, guestReadyMsg{target: target, group: guest})
	got := m.machine.Current()
	if got.View != nav.ViewPrayers || got.Member != "은혜" {
		t.Fatalf("guest landed on %+v", got)
	}
	if len(m.prayerList.Items()) != 1 {
		t.Fatalf("prayer list not seeded: %d", len(m.prayerList.Items()))
	}
}
