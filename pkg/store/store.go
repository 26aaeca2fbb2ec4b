// Package store owns the in-memory prayer record cache and its normalization
// of the remote store's two historical data encodings, plus an optional
// on-disk mirror of fetched records.
package store

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"prayteam/pkg/glyph"
	"prayteam/pkg/prayer"
	"prayteam/pkg/remote"
)

// MemberFetcher is the slice of the remote client the store needs.
type MemberFetcher interface {
	GetPrayers(ctx context.Context, groupID, member string) (*remote.PrayersPayload, error)
}

// Store caches MemberRecords keyed by (group, member). Reads hand out
// clones; the single-threaded UI loop is the only writer of navigation
// state, but fetch completions land from other goroutines, so the map is
// mutex-guarded.
type Store struct {
	mu      sync.RWMutex
	records map[string]map[string]prayer.MemberRecord

	fetcher MemberFetcher
	mirror  *Mirror
	log     *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithMirror makes all successful fetches write through to the given mirror.
func WithMirror(m *Mirror) Option {
	return func(s *Store) { s.mirror = m }
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore returns an empty Store backed by the given fetcher.
func NewStore(fetcher MemberFetcher, opts ...Option) *Store {
	s := &Store{
		records: make(map[string]map[string]prayer.MemberRecord),
		fetcher: fetcher,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeRecord converts the raw column payload into a MemberRecord:
// server slot indices are fixed before blank rows are dropped, so surviving
// slots keep the index the backend assigned; slots without their own date
// inherit the batch's common time.
func NormalizeRecord(member string, p *remote.PrayersPayload) prayer.MemberRecord {
	rec := prayer.MemberRecord{Member: member}
	if p == nil {
		return rec
	}
	for i, text := range p.Prayers {
		index := i + 1 // legacy deployments omit indices; rows are 1-based
		if i < len(p.Indices) {
			index = p.Indices[i]
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		date := at(p.Dates, i)
		if strings.TrimSpace(date) == "" {
			date = p.Time
		}
		rec.Slots = append(rec.Slots, prayer.Slot{
			Text:       text,
			Status:     glyph.ParseStatus(at(p.Responses, i)),
			Note:       at(p.Comments, i),
			Visibility: prayer.Visibility(at(p.Visibilities, i)),
			RecordedAt: date,
			Index:      index,
		})
	}
	return rec
}

func at(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	return ""
}

// LoadMember fetches, normalizes, and caches one member's record, replacing
// any previous record wholesale. When the fetch fails and a mirror is
// configured, the last mirrored record is served and cached instead; the
// error only propagates when the mirror has nothing either.
func (s *Store) LoadMember(ctx context.Context, groupID, member string) (prayer.MemberRecord, error) {
	payload, err := s.fetcher.GetPrayers(ctx, groupID, member)
	if err != nil {
		if rec, ok := s.MirroredMember(groupID, member); ok {
			s.log.Warn("fetch failed, serving mirrored record",
				"group", groupID, "member", member, "err", err)
			s.mu.Lock()
			byMember, present := s.records[groupID]
			if !present {
				byMember = make(map[string]prayer.MemberRecord)
				s.records[groupID] = byMember
			}
			byMember[member] = rec.Clone()
			s.mu.Unlock()
			return rec, nil
		}
		return prayer.MemberRecord{Member: member}, err
	}
	rec := NormalizeRecord(member, payload)
	s.Put(groupID, rec)
	return rec.Clone(), nil
}

// LoadGroup loads every member of the group in parallel and returns once all
// fetches have settled. A failed fetch yields an empty cached record for
// that member only; the others proceed independently.
func (s *Store) LoadGroup(ctx context.Context, group prayer.Group) {
	var wg sync.WaitGroup
	for _, member := range group.Members {
		wg.Add(1)
		go func(member string) {
			defer wg.Done()
			if _, err := s.LoadMember(ctx, group.ID, member); err != nil {
				s.log.Warn("member fetch failed, caching empty record",
					"group", group.ID, "member", member, "err", err)
				s.Put(group.ID, prayer.MemberRecord{Member: member})
			}
		}(member)
	}
	wg.Wait()
}

// Member returns a clone of the cached record for (group, member).
func (s *Store) Member(groupID, member string) (prayer.MemberRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byMember, ok := s.records[groupID]
	if !ok {
		return prayer.MemberRecord{Member: member}, false
	}
	rec, ok := byMember[member]
	if !ok {
		return prayer.MemberRecord{Member: member}, false
	}
	return rec.Clone(), true
}

// GroupRecords returns clones of every cached record for the group, keyed by
// member name.
func (s *Store) GroupRecords(groupID string) map[string]prayer.MemberRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byMember := s.records[groupID]
	out := make(map[string]prayer.MemberRecord, len(byMember))
	for member, rec := range byMember {
		out[member] = rec.Clone()
	}
	return out
}

// Put replaces the cached record for (group, member) and writes through to
// the mirror when one is configured.
func (s *Store) Put(groupID string, rec prayer.MemberRecord) {
	s.mu.Lock()
	byMember, ok := s.records[groupID]
	if !ok {
		byMember = make(map[string]prayer.MemberRecord)
		s.records[groupID] = byMember
	}
	byMember[rec.Member] = rec.Clone()
	s.mu.Unlock()

	if s.mirror != nil {
		if err := s.mirror.Write(groupID, rec); err != nil {
			s.log.Warn("mirror write failed", "group", groupID, "member", rec.Member, "err", err)
		}
	}
}

// Drop discards the cached record for (group, member), forcing the next read
// through LoadMember.
func (s *Store) Drop(groupID, member string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if byMember, ok := s.records[groupID]; ok {
		delete(byMember, member)
	}
}

// MirroredMember reads the last mirrored record for (group, member), for
// offline or guest startup before the network answers.
func (s *Store) MirroredMember(groupID, member string) (prayer.MemberRecord, bool) {
	if s.mirror == nil {
		return prayer.MemberRecord{Member: member}, false
	}
	rec, err := s.mirror.Read(groupID, member)
	if err != nil {
		return prayer.MemberRecord{Member: member}, false
	}
	return rec, true
}
