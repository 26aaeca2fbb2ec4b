// Package app coordinates optimistic local mutation with asynchronous
// persistence. Status and visibility writes revert by re-fetching the
// member when the backend rejects them; note and prayer-text writes keep
// the local value and only log the failure.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"prayteam/pkg/glyph"
	"prayteam/pkg/prayer"
	"prayteam/pkg/remote"
	"prayteam/pkg/store"
)

// Saver is the slice of the remote client the orchestrator writes through.
type Saver interface {
	SaveNote(ctx context.Context, req remote.SaveNoteRequest) error
	SavePrayer(ctx context.Context, req remote.SavePrayerRequest) error
	AddGroup(ctx context.Context, actorID, name string) (string, error)
	AddMember(ctx context.Context, groupID, name string) error
	AddLog(ctx context.Context, entry remote.LogEntry) error
}

type Service struct {
	store *store.Store
	saver Saver
	actor string
	log   *slog.Logger
	now   func() time.Time
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock overrides the timestamp source for new prayers.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(st *store.Store, saver Saver, actorID string, opts ...Option) *Service {
	s := &Service{
		store: st,
		saver: saver,
		actor: actorID,
		log:   slog.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// mutateSlot applies fn to the slot with the given server index, caches the
// result, then persists it. A rejected write re-fetches the whole member so
// the cache converges back to the backend's view.
func (s *Service) mutateSlot(ctx context.Context, groupID, member string, index int, fn func(*prayer.Slot)) error {
	rec, ok := s.store.Member(groupID, member)
	if !ok {
		return fmt.Errorf("no cached record for %s/%s", groupID, member)
	}
	slot := rec.SlotByIndex(index)
	if slot == nil {
		return fmt.Errorf("no slot with index %d for %s/%s", index, groupID, member)
	}
	fn(slot)
	s.store.Put(groupID, rec)

	err := s.saver.SaveNote(ctx, remote.SaveNoteRequest{
		GroupID:    groupID,
		Member:     member,
		Index:      index,
		Answer:     slot.Status.Token(),
		Comment:    slot.Note,
		Visibility: slot.Visibility,
	})
	if err != nil {
		s.log.Warn("slot update rejected, re-fetching member",
			"group", groupID, "member", member, "index", index, "err", err)
		if _, ferr := s.store.LoadMember(ctx, groupID, member); ferr != nil {
			s.log.Warn("revert fetch failed", "group", groupID, "member", member, "err", ferr)
		}
		return err
	}
	return nil
}

func (s *Service) UpdateStatus(ctx context.Context, groupID, member string, index int, status glyph.Status) error {
	return s.mutateSlot(ctx, groupID, member, index, func(sl *prayer.Slot) {
		sl.Status = status
	})
}

func (s *Service) SetVisibility(ctx context.Context, groupID, member string, index int, v prayer.Visibility) error {
	return s.mutateSlot(ctx, groupID, member, index, func(sl *prayer.Slot) {
		sl.Visibility = v
	})
}

// Archive marks a slot with the archive sentinel status. Archiving a slot
// that is already effectively hidden leaves it untouched.
func (s *Service) Archive(ctx context.Context, groupID, member string, index int) error {
	rec, ok := s.store.Member(groupID, member)
	if ok {
		if slot := rec.SlotByIndex(index); slot != nil && slot.EffectiveHidden() {
			return nil
		}
	}
	return s.mutateSlot(ctx, groupID, member, index, func(sl *prayer.Slot) {
		sl.Status = glyph.Archived
	})
}

// Restore brings an archived or hidden slot back to the active view.
func (s *Service) Restore(ctx context.Context, groupID, member string, index int) error {
	return s.mutateSlot(ctx, groupID, member, index, func(sl *prayer.Slot) {
		sl.Status = glyph.Pending
		sl.Visibility = prayer.Show
	})
}

// SaveNote persists a comment. A failed write keeps the optimistic note in
// the cache; only the error is reported.
func (s *Service) SaveNote(ctx context.Context, groupID, member string, index int, note string) error {
	rec, ok := s.store.Member(groupID, member)
	if !ok {
		return fmt.Errorf("no cached record for %s/%s", groupID, member)
	}
	slot := rec.SlotByIndex(index)
	if slot == nil {
		return fmt.Errorf("no slot with index %d for %s/%s", index, groupID, member)
	}
	slot.Note = note
	s.store.Put(groupID, rec)

	err := s.saver.SaveNote(ctx, remote.SaveNoteRequest{
		GroupID:    groupID,
		Member:     member,
		Index:      index,
		Answer:     slot.Status.Token(),
		Comment:    note,
		Visibility: slot.Visibility,
	})
	if err != nil {
		s.log.Warn("note save failed, keeping local value",
			"group", groupID, "member", member, "index", index, "err", err)
		return err
	}
	return nil
}

// AddPrayer appends a pending slot and persists the member's full list.
// The local append survives a failed write.
func (s *Service) AddPrayer(ctx context.Context, group prayer.Group, member, text string) error {
	rec, ok := s.store.Member(group.ID, member)
	if !ok {
		rec = prayer.MemberRecord{Member: member}
	}
	next := 0
	for _, sl := range rec.Slots {
		if sl.Index > next {
			next = sl.Index
		}
	}
	rec.Slots = append(rec.Slots, prayer.New(text, next+1, prayer.ClientTimestamp(s.now())))
	s.store.Put(group.ID, rec)
	return s.persistFullList(ctx, group, rec, "add prayer")
}

// EditPrayer replaces the text of the slot carrying the given server index
// and persists the full list. Keying by index keeps the edit aimed at the
// same slot no matter how the display list is filtered.
func (s *Service) EditPrayer(ctx context.Context, group prayer.Group, member string, index int, text string) error {
	rec, ok := s.store.Member(group.ID, member)
	if !ok {
		return fmt.Errorf("no cached record for %s/%s", group.ID, member)
	}
	slot := rec.SlotByIndex(index)
	if slot == nil {
		return fmt.Errorf("no slot %d for %s/%s", index, group.ID, member)
	}
	slot.Text = text
	s.store.Put(group.ID, rec)
	return s.persistFullList(ctx, group, rec, "edit prayer")
}

func (s *Service) persistFullList(ctx context.Context, group prayer.Group, rec prayer.MemberRecord, op string) error {
	req := remote.SavePrayerRequest{
		GroupID:   group.ID,
		GroupName: group.Name,
		Member:    rec.Member,
	}
	for _, sl := range rec.Slots {
		req.Prayers = append(req.Prayers, sl.Text)
		req.Responses = append(req.Responses, sl.Status.Token())
		req.Comments = append(req.Comments, sl.Note)
		req.Visibilities = append(req.Visibilities, string(sl.Visibility))
	}
	if err := s.saver.SavePrayer(ctx, req); err != nil {
		s.log.Warn("full list save failed, keeping local state",
			"op", op, "group", group.ID, "member", rec.Member, "err", err)
		return err
	}
	return nil
}

// ProvisionGroup creates a group and enrolls its members one at a time. A
// member that the backend refuses is logged and skipped; the group itself
// still comes back with everyone who made it in.
func (s *Service) ProvisionGroup(ctx context.Context, name string, members []string) (prayer.Group, error) {
	id, err := s.saver.AddGroup(ctx, s.actor, name)
	if err != nil {
		return prayer.Group{}, err
	}
	group := prayer.Group{ID: id, Name: name}
	for _, m := range members {
		if err := s.saver.AddMember(ctx, id, m); err != nil {
			s.log.Warn("member enrollment failed", "group", id, "member", m, "err", err)
			continue
		}
		group.Members = append(group.Members, m)
	}
	return group, nil
}

// RecordVisit sends a fire-and-forget page log. Errors never surface past
// the logger.
func (s *Service) RecordVisit(ctx context.Context, page, groupID, member, from string) {
	err := s.saver.AddLog(ctx, remote.LogEntry{
		Page:    page,
		ActorID: s.actor,
		GroupID: groupID,
		Member:  member,
		From:    from,
	})
	if err != nil {
		s.log.Debug("visit log failed", "page", page, "err", err)
	}
}
