package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"prayteam/pkg/glyph"
	"prayteam/pkg/prayer"
	"prayteam/pkg/remote"
	"prayteam/pkg/store"
)

type fakeFetcher struct {
	payload *remote.PrayersPayload
	fetches int
}

func (f *fakeFetcher) GetPrayers(ctx context.Context, groupID, member string) (*remote.PrayersPayload, error) {
	f.fetches++
	return f.payload, nil
}

type fakeSaver struct {
	noteErr    error
	prayerErr  error
	memberErrs map[string]error

	notes   []remote.SaveNoteRequest
	prayers []remote.SavePrayerRequest
	members []string
	logs    []remote.LogEntry
}

func (f *fakeSaver) SaveNote(ctx context.Context, req remote.SaveNoteRequest) error {
	f.notes = append(f.notes, req)
	return f.noteErr
}

func (f *fakeSaver) SavePrayer(ctx context.Context, req remote.SavePrayerRequest) error {
	f.prayers = append(f.prayers, req)
	return f.prayerErr
}

func (f *fakeSaver) AddGroup(ctx context.Context, actorID, name string) (string, error) {
	return "g-new", nil
}

func (f *fakeSaver) AddMember(ctx context.Context, groupID, name string) error {
	f.members = append(f.members, name)
	return f.memberErrs[name]
}

func (f *fakeSaver) AddLog(ctx context.Context, entry remote.LogEntry) error {
	f.logs = append(f.logs, entry)
	return nil
}

func seeded(t *testing.T, saver *fakeSaver) (*Service, *store.Store, *fakeFetcher) {
	t.Helper()
	fetcher := &fakeFetcher{payload: &remote.PrayersPayload{
		Prayers:   []string{"health", "exams"},
		Responses: []string{"기대중", "기대중"},
		Indices:   []int{1, 2},
	}}
	st := store.NewStore(fetcher)
	if _, err := st.LoadMember(context.Background(), "g1", "민수"); err != nil {
		t.Fatalf("seed load: %v", err)
	}
	svc := NewService(st, saver, "actor-1", WithClock(func() time.Time {
		return time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	}))
	return svc, st, fetcher
}

func TestUpdateStatusPersistsByIndex(t *testing.T) {
	saver := &fakeSaver{}
	svc, st, _ := seeded(t, saver)

	if err := svc.UpdateStatus(context.Background(), "g1", "민수", 2, glyph.Answered); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saver.notes) != 1 {
		t.Fatalf("expected one note write, got %d", len(saver.notes))
	}
	if got := saver.notes[0]; got.Index != 2 || got.Answer != "응답됨" {
		t.Fatalf("wrong write: %+v", got)
	}
	rec, _ := st.Member("g1", "민수")
	if rec.SlotByIndex(2).Status != glyph.Answered {
		t.Fatalf("local status not applied")
	}
}

func TestUpdateStatusFailureRevertsViaRefetch(t *testing.T) {
	saver := &fakeSaver{noteErr: errors.New("rejected")}
	svc, st, fetcher := seeded(t, saver)
	before := fetcher.fetches

	if err := svc.UpdateStatus(context.Background(), "g1", "민수", 1, glyph.Declined); err == nil {
		t.Fatalf("expected error")
	}
	if fetcher.fetches != before+1 {
		t.Fatalf("expected wholesale re-fetch, fetches=%d", fetcher.fetches)
	}
	rec, _ := st.Member("g1", "민수")
	if rec.SlotByIndex(1).Status != glyph.Pending {
		t.Fatalf("status not reverted: %v", rec.SlotByIndex(1).Status)
	}
}

func TestSaveNoteFailureKeepsOptimisticValue(t *testing.T) {
	saver := &fakeSaver{noteErr: errors.New("rejected")}
	svc, st, fetcher := seeded(t, saver)
	before := fetcher.fetches

	if err := svc.SaveNote(context.Background(), "g1", "민수", 1, "수요 모임에서 나눔"); err == nil {
		t.Fatalf("expected error")
	}
	if fetcher.fetches != before {
		t.Fatalf("note failure must not re-fetch")
	}
	rec, _ := st.Member("g1", "민수")
	if rec.SlotByIndex(1).Note != "수요 모임에서 나눔" {
		t.Fatalf("optimistic note lost: %q", rec.SlotByIndex(1).Note)
	}
}

func TestArchiveAlreadyHiddenIsNoop(t *testing.T) {
	saver := &fakeSaver{}
	svc, st, _ := seeded(t, saver)
	rec, _ := st.Member("g1", "민수")
	rec.SlotByIndex(1).Visibility = prayer.Hidden
	st.Put("g1", rec)

	if err := svc.Archive(context.Background(), "g1", "민수", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saver.notes) != 0 {
		t.Fatalf("no-op archive still wrote: %+v", saver.notes)
	}
}

func TestRestoreClearsStatusAndVisibility(t *testing.T) {
	saver := &fakeSaver{}
	svc, st, _ := seeded(t, saver)
	rec, _ := st.Member("g1", "민수")
	rec.SlotByIndex(2).Status = glyph.Archived
	rec.SlotByIndex(2).Visibility = prayer.Hidden
	st.Put("g1", rec)

	if err := svc.Restore(context.Background(), "g1", "민수", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, _ = st.Member("g1", "민수")
	sl := rec.SlotByIndex(2)
	if sl.Status != glyph.Pending || sl.Visibility != prayer.Show {
		t.Fatalf("restore left %v/%q", sl.Status, sl.Visibility)
	}
	if sl.EffectiveHidden() {
		t.Fatalf("restored slot still hidden")
	}
}

func TestAddPrayerAppendsBeforeAck(t *testing.T) {
	saver := &fakeSaver{prayerErr: errors.New("down")}
	svc, st, _ := seeded(t, saver)
	group := prayer.Group{ID: "g1", Name: "청년부"}

	if err := svc.AddPrayer(context.Background(), group, "민수", "새 직장"); err == nil {
		t.Fatalf("expected error")
	}
	rec, _ := st.Member("g1", "민수")
	if len(rec.Visible()) != 3 {
		t.Fatalf("optimistic append missing, visible=%d", len(rec.Visible()))
	}
	added := rec.SlotByIndex(3)
	if added == nil || added.Text != "새 직장" || added.Status != glyph.Pending {
		t.Fatalf("appended slot wrong: %+v", added)
	}
	if added.RecordedAt != "2024.05.01 12:00:00" {
		t.Fatalf("client timestamp wrong: %q", added.RecordedAt)
	}
	if len(saver.prayers) != 1 || len(saver.prayers[0].Prayers) != 3 {
		t.Fatalf("full list not persisted: %+v", saver.prayers)
	}
}

func TestEditPrayerKeyedByIndex(t *testing.T) {
	saver := &fakeSaver{}
	svc, st, _ := seeded(t, saver)
	group := prayer.Group{ID: "g1", Name: "청년부"}

	if err := svc.EditPrayer(context.Background(), group, "민수", 2, "시험 준비"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, _ := st.Member("g1", "민수")
	sl := rec.SlotByIndex(2)
	if sl == nil || sl.Text != "시험 준비" {
		t.Fatalf("edit not applied: %+v", sl)
	}
	if got := saver.prayers[0].Prayers; len(got) != 2 || got[1] != "시험 준비" {
		t.Fatalf("persisted list wrong: %v", got)
	}

	if err := svc.EditPrayer(context.Background(), group, "민수", 9, "x"); err == nil {
		t.Fatalf("expected error for unknown index")
	}
}

func TestEditPrayerIgnoresHiddenSlotsBeforeTarget(t *testing.T) {
	saver := &fakeSaver{}
	svc, st, _ := seeded(t, saver)
	group := prayer.Group{ID: "g1", Name: "청년부"}

	rec, _ := st.Member("g1", "민수")
	rec.SlotByIndex(1).Visibility = prayer.Hidden
	st.Put("g1", rec)

	// Index 2 heads the visible list now; the edit must still land on
	// slot 2 rather than the hidden slot 1.
	if err := svc.EditPrayer(context.Background(), group, "민수", 2, "면접 준비"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, _ = st.Member("g1", "민수")
	if got := rec.SlotByIndex(1).Text; got != "health" {
		t.Fatalf("hidden slot rewritten: %q", got)
	}
	if got := rec.SlotByIndex(2).Text; got != "면접 준비" {
		t.Fatalf("edit missed its slot: %q", got)
	}
}

func TestProvisionGroupToleratesMemberFailures(t *testing.T) {
	saver := &fakeSaver{memberErrs: map[string]error{"수지": errors.New("duplicate")}}
	svc, _, _ := seeded(t, saver)

	group, err := svc.ProvisionGroup(context.Background(), "새가족부", []string{"민수", "수지", "은혜"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if group.ID != "g-new" {
		t.Fatalf("group id not taken from backend: %q", group.ID)
	}
	if len(saver.members) != 3 {
		t.Fatalf("enrollment stopped early: %v", saver.members)
	}
	if len(group.Members) != 2 || group.Members[0] != "민수" || group.Members[1] != "은혜" {
		t.Fatalf("failed member should be skipped: %v", group.Members)
	}
}
