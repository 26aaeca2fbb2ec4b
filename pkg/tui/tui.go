package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"prayteam/pkg/aggregate"
	"prayteam/pkg/app"
	"prayteam/pkg/glyph"
	"prayteam/pkg/nav"
	"prayteam/pkg/prayer"
	"prayteam/pkg/remote"
	"prayteam/pkg/store"
)

type mode int

const (
	modeNormal mode = iota
	modeInsert
	modeStatusSelect
	modeHelp
)

type action int

const (
	actionNone action = iota
	actionAdd
	actionEdit
	actionNote
)

type groupItem struct{ g prayer.Group }

func (it groupItem) Title() string { return it.g.Name }
func (it groupItem) Description() string {
	return fmt.Sprintf("%d members", len(it.g.Members))
}
func (it groupItem) FilterValue() string { return it.g.Name }

type memberItem struct {
	name  string
	count int
}

func (it memberItem) Title() string       { return it.name }
func (it memberItem) Description() string { return fmt.Sprintf("%d prayers", it.count) }
func (it memberItem) FilterValue() string { return it.name }

type prayerItem struct{ s prayer.Slot }

func (it prayerItem) Title() string {
	line := fmt.Sprintf("%s %s", it.s.Status, it.s.Text)
	if it.s.Note != "" {
		line += "  ∙ " + it.s.Note
	}
	return line
}
func (it prayerItem) Description() string { return "" }
func (it prayerItem) FilterValue() string { return it.s.Text }

type allItem struct{ i aggregate.Item }

func (it allItem) Title() string {
	r, g, b := it.i.Color.RGB255()
	tag := lipgloss.NewStyle().
		Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))).
		Render(fmt.Sprintf("%s ∙ %s", it.i.GroupName, it.i.Member))
	return fmt.Sprintf("%s  %s %s", tag, it.i.Slot.Status, it.i.Slot.Text)
}
func (it allItem) Description() string { return "" }
func (it allItem) FilterValue() string { return it.i.Slot.Text }

// messages
type errMsg struct{ err error }
type groupsLoadedMsg struct{ groups []prayer.Group }
type groupLoadedMsg struct {
	gen     uint64
	groupID string
}
type projectionMsg struct {
	gen  uint64
	proj aggregate.Projection
}
type popMsg struct{ entry nav.Entry }
type mirrorMsg struct {
	ev store.Event
	ok bool
}
type guestReadyMsg struct {
	target nav.Target
	group  prayer.Group
	proj   aggregate.Projection
}

// directory is the loaded group list, shared across model copies so the
// machine's lookup always sees the latest load.
type directory struct {
	mu     sync.Mutex
	groups []prayer.Group
}

func (d *directory) set(groups []prayer.Group) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.groups = groups
}

func (d *directory) all() []prayer.Group {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.groups
}

func (d *directory) lookup(id string) (prayer.Group, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, g := range d.groups {
		if g.ID == id {
			return g, true
		}
	}
	return prayer.Group{}, false
}

// Model binds the four screens to the navigation machine. The machine is
// the single source of truth for which screen is visible; the lists only
// mirror cached data for it.
type Model struct {
	ctx     context.Context
	machine *nav.Machine
	hist    *nav.Stack
	store   *store.Store
	svc     *app.Service
	client  *remote.Client
	actor   string

	dir  *directory
	proj aggregate.Projection

	groupList  list.Model
	memberList list.Model
	prayerList list.Model
	allList    list.Model

	input  textinput.Model
	mode   mode
	action action

	statusOptions []glyph.Status
	statusIndex   int

	fragment     string
	loading      bool
	status       string
	mirrorEvents <-chan store.Event

	termWidth  int
	termHeight int
}

// Config wires the model. Fragment, when non-empty, is a deep link the
// model bootstraps from instead of the authenticated group list.
type Config struct {
	Store    *store.Store
	Service  *app.Service
	Client   *remote.Client
	Mirror   *store.Mirror
	Actor    string
	Fragment string
}

func New(cfg Config) Model {
	d := list.NewDefaultDelegate()
	d.SetSpacing(0)
	flat := list.NewDefaultDelegate()
	flat.ShowDescription = false
	flat.SetSpacing(0)

	newList := func(title string, del list.DefaultDelegate) list.Model {
		l := list.New([]list.Item{}, del, 80, 20)
		l.Title = title
		l.SetShowHelp(false)
		l.SetShowStatusBar(false)
		return l
	}

	ti := textinput.New()
	ti.Placeholder = "Type here"
	ti.CharLimit = 256
	ti.Prompt = ""

	hist := nav.NewStack(rootEntry())
	dir := &directory{}
	m := Model{
		ctx:           context.Background(),
		hist:          hist,
		dir:           dir,
		store:         cfg.Store,
		svc:           cfg.Service,
		client:        cfg.Client,
		actor:         cfg.Actor,
		groupList:     newList("Groups", d),
		memberList:    newList("Members", d),
		prayerList:    newList("Prayers", flat),
		allList:       newList("All Prayers", flat),
		input:         ti,
		statusOptions: glyph.DisplayStatuses(),
		fragment:      cfg.Fragment,
		status:        "j/k move, enter open, backspace back, a all prayers, o add, s status, ? help",
	}
	m.machine = nav.New(hist, nav.WithLookup(dir.lookup))
	if cfg.Mirror != nil {
		if events, err := cfg.Mirror.Watch(m.ctx); err == nil {
			m.mirrorEvents = events
		}
	}
	return m
}

func rootEntry() nav.Entry {
	t := nav.Target{View: nav.ViewGroups}
	return nav.Entry{Fragment: nav.FormatFragment(t), Target: t}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitPop()}
	if m.mirrorEvents != nil {
		cmds = append(cmds, m.waitMirror())
	}
	if target, ok := m.machine.BootstrapGuest(m.fragment); ok {
		return tea.Batch(append(cmds, m.bootstrapGuest(target))...)
	}
	return tea.Batch(append(cmds, m.loadGroups())...)
}

// waitPop re-arms itself after every delivery; the pop channel is how
// history restores state.
func (m *Model) waitPop() tea.Cmd {
	pops := m.hist.Pops()
	return func() tea.Msg {
		return popMsg{entry: <-pops}
	}
}

// waitMirror delivers mirror change notifications from other processes and
// re-arms after each one.
func (m *Model) waitMirror() tea.Cmd {
	events := m.mirrorEvents
	return func() tea.Msg {
		ev, ok := <-events
		return mirrorMsg{ev: ev, ok: ok}
	}
}

func (m *Model) loadGroups() tea.Cmd {
	client, actor := m.client, m.actor
	return func() tea.Msg {
		groups, err := client.GetGroups(context.Background(), actor)
		if err != nil {
			return errMsg{err}
		}
		return groupsLoadedMsg{groups}
	}
}

func (m *Model) enterGroup(g prayer.Group) tea.Cmd {
	from := m.machine.Current().View.String()
	st := m.machine.SelectGroup(g)
	m.loading = true
	s, svc := m.store, m.svc
	return func() tea.Msg {
		s.LoadGroup(context.Background(), g)
		svc.RecordVisit(context.Background(), nav.ViewMembers.String(), g.ID, "", from)
		return groupLoadedMsg{gen: st.Generation, groupID: g.ID}
	}
}

func (m *Model) viewAll() tea.Cmd {
	from := m.machine.Current().View.String()
	st := m.machine.ViewAll()
	m.loading = true
	client, svc, groups := m.client, m.svc, m.dir.all()
	return func() tea.Msg {
		ids := make([]string, 0, len(groups))
		for _, g := range groups {
			ids = append(ids, g.ID)
		}
		bulk, err := client.GetPrayersAllGroups(context.Background(), ids)
		if err != nil {
			return errMsg{err}
		}
		svc.RecordVisit(context.Background(), nav.ViewAllPrayers.String(), "", "", from)
		return projectionMsg{gen: st.Generation, proj: aggregate.Build(groups, bulk)}
	}
}

// bootstrapGuest fetches the linked group's full prayer set in one bulk
// call, bypassing the authenticated group list.
func (m *Model) bootstrapGuest(target nav.Target) tea.Cmd {
	client, s, svc := m.client, m.store, m.svc
	return func() tea.Msg {
		bulk, err := client.GetPrayersAllGroups(context.Background(), []string{target.GroupID})
		if err != nil {
			return errMsg{err}
		}
		page := nav.ViewAllPrayers.String()
		if target.Member != "" {
			page = nav.ViewPrayers.String()
		}
		svc.RecordVisit(context.Background(), page, target.GroupID, target.Member, "link")
		group := prayer.Group{ID: target.GroupID, Name: target.GroupID}
		for _, e := range bulk {
			group.Members = append(group.Members, e.MemberName)
			s.Put(target.GroupID, store.NormalizeRecord(e.MemberName, &remote.PrayersPayload{
				Prayers:      e.Prayers,
				Responses:    e.Responses,
				Comments:     e.Comments,
				Dates:        e.Dates,
				Visibilities: e.Visibilities,
				Time:         e.LastUpdated,
			}))
		}
		return guestReadyMsg{
			target: target,
			group:  group,
			proj:   aggregate.Build([]prayer.Group{group}, bulk),
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	skipListRouting := false

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()

	case errMsg:
		m.loading = false
		m.status = "ERR: " + msg.err.Error()

	case groupsLoadedMsg:
		m.dir.set(msg.groups)
		items := make([]list.Item, 0, len(msg.groups))
		for _, g := range msg.groups {
			items = append(items, groupItem{g})
		}
		m.groupList.SetItems(items)

	case groupLoadedMsg:
		if m.machine.Stale(msg.gen) {
			break
		}
		m.loading = false
		m.refreshMemberList(msg.groupID)

	case projectionMsg:
		if m.machine.Stale(msg.gen) {
			break
		}
		m.loading = false
		m.proj = msg.proj
		m.refreshAllList()

	case guestReadyMsg:
		m.dir.set([]prayer.Group{msg.group})
		m.proj = msg.proj
		st := m.machine.EnterGuest(msg.target, msg.group)
		switch st.View {
		case nav.ViewPrayers:
			m.refreshPrayerList()
		default:
			m.refreshAllList()
		}

	case popMsg:
		st := m.machine.HandlePop(msg.entry)
		m.restoreFromState(st)
		cmds = append(cmds, m.waitPop())

	case mirrorMsg:
		if !msg.ok {
			break
		}
		if msg.ev.Type == store.EventRecordChanged {
			m.store.Drop(msg.ev.GroupID, msg.ev.Member)
		}
		if cmd := m.refresh(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, m.waitMirror())

	case tea.KeyPressMsg:
		switch m.mode {
		case modeHelp:
			if key := msg.String(); key == "q" || key == "esc" || key == "?" {
				m.mode = modeNormal
				skipListRouting = true
			}
		case modeStatusSelect:
			skipListRouting = true
			switch msg.String() {
			case "esc", "q":
				m.mode = modeNormal
			case "up", "k":
				m.statusIndex = (m.statusIndex + len(m.statusOptions) - 1) % len(m.statusOptions)
			case "down", "j":
				m.statusIndex = (m.statusIndex + 1) % len(m.statusOptions)
			case "enter":
				m.applyStatus(&cmds, m.statusOptions[m.statusIndex])
				m.mode = modeNormal
			}
		case modeInsert:
			switch msg.String() {
			case "enter":
				m.commitInsert(&cmds)
				skipListRouting = true
			case "esc":
				m.mode = modeNormal
				m.action = actionNone
				m.input.Reset()
				m.input.Blur()
				m.status = "Cancelled"
				skipListRouting = true
			default:
				var cmd tea.Cmd
				m.input, cmd = m.input.Update(msg)
				cmds = append(cmds, cmd)
			}
		case modeNormal:
			switch msg.String() {
			case "q", "ctrl+c":
				cmds = append(cmds, tea.Quit)
				skipListRouting = true
			case "?":
				m.mode = modeHelp
				skipListRouting = true
			case "backspace", "esc":
				// Back never touches state; the pop handler restores it.
				m.machine.Back()
				skipListRouting = true
			case "enter":
				m.open(&cmds)
				skipListRouting = true
			case "a":
				if view := m.machine.Current().View; view == nav.ViewGroups {
					cmds = append(cmds, m.viewAll())
					skipListRouting = true
				}
			case "r":
				cmds = append(cmds, m.refresh())
				skipListRouting = true
			case "o":
				if m.machine.Current().View == nav.ViewPrayers {
					m.enterInsert(&cmds, actionAdd, "New prayer", "")
					skipListRouting = true
				}
			case "i":
				if it := m.currentSlot(); it != nil {
					m.enterInsert(&cmds, actionEdit, "Edit prayer", it.Text)
					skipListRouting = true
				}
			case "n":
				if it := m.currentSlot(); it != nil {
					m.enterInsert(&cmds, actionNote, "Note", it.Note)
					skipListRouting = true
				}
			case "s":
				if it := m.currentSlot(); it != nil {
					m.mode = modeStatusSelect
					m.statusIndex = statusIndexOf(m.statusOptions, it.Status)
					skipListRouting = true
				}
			case "x":
				m.archiveCurrent(&cmds)
			case "u":
				m.restoreCurrent(&cmds)
			}
		}
	}

	if m.mode == modeNormal && !skipListRouting {
		var cmd tea.Cmd
		switch m.machine.Current().View {
		case nav.ViewGroups:
			m.groupList, cmd = m.groupList.Update(msg)
		case nav.ViewMembers:
			m.memberList, cmd = m.memberList.Update(msg)
		case nav.ViewPrayers:
			m.prayerList, cmd = m.prayerList.Update(msg)
		case nav.ViewAllPrayers:
			m.allList, cmd = m.allList.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// open descends one level from the current screen.
func (m *Model) open(cmds *[]tea.Cmd) {
	switch m.machine.Current().View {
	case nav.ViewGroups:
		if sel, ok := m.groupList.SelectedItem().(groupItem); ok {
			*cmds = append(*cmds, m.enterGroup(sel.g))
		}
	case nav.ViewMembers:
		sel, ok := m.memberList.SelectedItem().(memberItem)
		if !ok {
			return
		}
		from := m.machine.Current().View.String()
		st, err := m.machine.SelectMember(sel.name)
		if err != nil {
			m.status = "ERR: " + err.Error()
			return
		}
		m.refreshPrayerList()
		svc, gid, member := m.svc, st.Group.ID, st.Member
		*cmds = append(*cmds, func() tea.Msg {
			svc.RecordVisit(context.Background(), nav.ViewPrayers.String(), gid, member, from)
			return nil
		})
	}
}

func (m *Model) refresh() tea.Cmd {
	st := m.machine.Current()
	switch st.View {
	case nav.ViewGroups:
		return m.loadGroups()
	case nav.ViewMembers:
		if st.Group != nil {
			g := *st.Group
			m.loading = true
			s := m.store
			return func() tea.Msg {
				s.LoadGroup(context.Background(), g)
				return groupLoadedMsg{gen: st.Generation, groupID: g.ID}
			}
		}
	case nav.ViewPrayers:
		if st.Group != nil && st.Member != "" {
			s, gid, member := m.store, st.Group.ID, st.Member
			return func() tea.Msg {
				if _, err := s.LoadMember(context.Background(), gid, member); err != nil {
					return errMsg{err}
				}
				return groupLoadedMsg{gen: st.Generation, groupID: gid}
			}
		}
	case nav.ViewAllPrayers:
		return m.viewAll()
	}
	return nil
}

func (m *Model) commitInsert(cmds *[]tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	st := m.machine.Current()
	prevAction := m.action
	m.mode = modeNormal
	m.action = actionNone
	m.input.Reset()
	m.input.Blur()

	if st.Group == nil || st.Member == "" {
		return
	}
	switch prevAction {
	case actionAdd:
		if input == "" {
			return
		}
		if err := m.svc.AddPrayer(m.ctx, *st.Group, st.Member, input); err != nil {
			m.status = "Save failed: " + err.Error()
		} else {
			m.status = "Added"
		}
	case actionEdit:
		it := m.currentSlot()
		if it == nil {
			return
		}
		if err := m.svc.EditPrayer(m.ctx, *st.Group, st.Member, it.Index, input); err != nil {
			m.status = "Save failed: " + err.Error()
		} else {
			m.status = "Edited"
		}
	case actionNote:
		if it := m.currentSlot(); it != nil {
			if err := m.svc.SaveNote(m.ctx, st.Group.ID, st.Member, it.Index, input); err != nil {
				m.status = "Note kept locally, save failed: " + err.Error()
			} else {
				m.status = "Noted"
			}
		}
	}
	m.refreshPrayerList()
}

func (m *Model) applyStatus(cmds *[]tea.Cmd, status glyph.Status) {
	st := m.machine.Current()
	it := m.currentSlot()
	if it == nil || st.Group == nil {
		return
	}
	if err := m.svc.UpdateStatus(m.ctx, st.Group.ID, st.Member, it.Index, status); err != nil {
		m.status = "Update reverted: " + err.Error()
	} else {
		m.status = "Status " + status.Glyph().Meaning
	}
	m.refreshPrayerList()
}

func (m *Model) archiveCurrent(cmds *[]tea.Cmd) {
	st := m.machine.Current()
	it := m.currentSlot()
	if it == nil || st.Group == nil {
		return
	}
	if err := m.svc.Archive(m.ctx, st.Group.ID, st.Member, it.Index); err != nil {
		m.status = "Archive reverted: " + err.Error()
	} else {
		m.status = "Archived"
	}
	m.refreshPrayerList()
}

func (m *Model) restoreCurrent(cmds *[]tea.Cmd) {
	st := m.machine.Current()
	it := m.currentSlot()
	if it == nil || st.Group == nil {
		return
	}
	if err := m.svc.Restore(m.ctx, st.Group.ID, st.Member, it.Index); err != nil {
		m.status = "Restore reverted: " + err.Error()
	} else {
		m.status = "Restored"
	}
	m.refreshPrayerList()
}

func (m *Model) enterInsert(cmds *[]tea.Cmd, a action, placeholder, value string) {
	m.mode = modeInsert
	m.action = a
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	if cmd := m.input.Focus(); cmd != nil {
		*cmds = append(*cmds, cmd)
	}
	*cmds = append(*cmds, textinput.Blink)
}

func (m *Model) currentSlot() *prayer.Slot {
	if m.machine.Current().View != nav.ViewPrayers {
		return nil
	}
	sel, ok := m.prayerList.SelectedItem().(prayerItem)
	if !ok {
		return nil
	}
	s := sel.s
	return &s
}

// restoreFromState rebuilds list content for a popped state out of cache
// only; missing data leaves the screen empty rather than failing.
func (m *Model) restoreFromState(st nav.State) {
	switch st.View {
	case nav.ViewMembers:
		if st.Group != nil {
			m.refreshMemberList(st.Group.ID)
		} else {
			m.memberList.SetItems(nil)
		}
	case nav.ViewPrayers:
		m.refreshPrayerList()
	case nav.ViewAllPrayers:
		m.refreshAllList()
	}
}

func (m *Model) refreshMemberList(groupID string) {
	st := m.machine.Current()
	if st.Group == nil || st.Group.ID != groupID {
		return
	}
	records := m.store.GroupRecords(groupID)
	items := make([]list.Item, 0, len(st.Group.Members))
	for _, member := range st.Group.Members {
		count := 0
		if rec, ok := records[member]; ok {
			count = len(rec.Visible())
		}
		items = append(items, memberItem{name: member, count: count})
	}
	m.memberList.SetItems(items)
	m.memberList.Title = "Members ∙ " + st.Group.Name
}

func (m *Model) refreshPrayerList() {
	st := m.machine.Current()
	if st.Group == nil || st.Member == "" {
		m.prayerList.SetItems(nil)
		return
	}
	items := []list.Item{}
	if rec, ok := m.store.Member(st.Group.ID, st.Member); ok {
		for _, sl := range rec.Visible() {
			items = append(items, prayerItem{sl})
		}
	}
	m.prayerList.SetItems(items)
	m.prayerList.Title = "Prayers ∙ " + st.Member
}

func (m *Model) refreshAllList() {
	items := []list.Item{}
	for _, it := range m.proj.Flatten() {
		items = append(items, allItem{it})
	}
	m.allList.SetItems(items)
}

func statusIndexOf(options []glyph.Status, s glyph.Status) int {
	for i, opt := range options {
		if opt == s {
			return i
		}
	}
	return 0
}

func (m Model) View() string {
	var body string
	switch m.machine.Current().View {
	case nav.ViewGroups:
		body = m.groupList.View()
	case nav.ViewMembers:
		body = m.memberList.View()
	case nav.ViewPrayers:
		body = m.prayerList.View()
	case nav.ViewAllPrayers:
		body = m.allList.View()
	}

	if m.mode == modeInsert {
		prompt := map[action]string{actionAdd: "Add: ", actionEdit: "Edit: ", actionNote: "Note: "}[m.action]
		body += "\n\n" + prompt + m.input.View()
	}
	if m.mode == modeStatusSelect {
		lines := []string{"Select status (enter to confirm, esc to cancel):"}
		for i, s := range m.statusOptions {
			indicator := "  "
			if i == m.statusIndex {
				indicator = "→ "
			}
			g := s.Glyph()
			lines = append(lines, fmt.Sprintf("%s%s %s", indicator, g.Symbol, g.Meaning))
		}
		panelStyle := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 2)
		body += "\n\n" + panelStyle.Render(strings.Join(lines, "\n"))
	}
	if m.mode == modeHelp {
		help := "Keys: ↑/↓ move, enter open, backspace back, a all prayers, o add, i edit, n note, s status, x archive, u restore, r refresh, q quit"
		body += "\n\n" + lipgloss.NewStyle().Italic(true).Render(help)
	}

	status := m.status
	if m.loading {
		status = "loading… " + status
	}
	statusLine := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(status)
	return body + "\n\n" + statusLine
}

// Run starts the program in the alternate screen.
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	height := m.termHeight - 4
	if height < 5 {
		height = 5
	}
	width := m.termWidth - 2
	if width < 20 {
		width = 20
	}
	m.groupList.SetSize(width, height)
	m.memberList.SetSize(width, height)
	m.prayerList.SetSize(width, height)
	m.allList.SetSize(width, height)
}
