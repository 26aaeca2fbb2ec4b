// Package mcp exposes the prayer-tracking core over the Model Context
// Protocol.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"prayteam/pkg/aggregate"
	"prayteam/pkg/app"
	"prayteam/pkg/glyph"
	"prayteam/pkg/prayer"
	"prayteam/pkg/remote"
	"prayteam/pkg/store"
	"prayteam/pkg/timeutil"
)

// Directory is the slice of the remote API the MCP surface reads from.
// *remote.Client satisfies it.
type Directory interface {
	GetGroups(ctx context.Context, actorID string) ([]prayer.Group, error)
	GetPrayersAllGroups(ctx context.Context, groupIDs []string) ([]remote.BulkEntry, error)
}

// Service wraps the wired client core with transport-friendly projections.
type Service struct {
	Client       Directory
	Store        *store.Store
	Orchestrator *app.Service
	Actor        string
}

// ErrSlotNotFound is returned when no slot carries the requested index.
var ErrSlotNotFound = errors.New("prayer not found")

// GroupSummary describes a group and basic aggregate metadata.
type GroupSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	MemberCount int      `json:"memberCount"`
	Members     []string `json:"members"`
}

// SlotDTO is a transport-friendly projection of one prayer slot.
type SlotDTO struct {
	Index         int    `json:"index"`
	Text          string `json:"text"`
	Status        string `json:"status"`
	StatusSymbol  string `json:"statusSymbol"`
	StatusMeaning string `json:"statusMeaning"`
	Note          string `json:"note,omitempty"`
	Visibility    string `json:"visibility,omitempty"`
	Hidden        bool   `json:"hidden"`
	RecordedAt    string `json:"recordedAt,omitempty"`
	RecordedAgo   string `json:"recordedAgo,omitempty"`
}

// SectionDTO is one member's block of the cross-group projection.
type SectionDTO struct {
	GroupID   string    `json:"groupId"`
	GroupName string    `json:"groupName"`
	Member    string    `json:"member"`
	Updated   string    `json:"updated,omitempty"`
	Prayers   []SlotDTO `json:"prayers"`
}

// NewService builds a service wrapper over the wired core.
func NewService(client Directory, st *store.Store, orch *app.Service, actor string) *Service {
	return &Service{Client: client, Store: st, Orchestrator: orch, Actor: actor}
}

func (s *Service) groups(ctx context.Context) ([]prayer.Group, error) {
	if s.Client == nil {
		return nil, errors.New("remote client is not configured")
	}
	return s.Client.GetGroups(ctx, s.Actor)
}

// ListGroups returns summaries for every group the actor belongs to.
func (s *Service) ListGroups(ctx context.Context) ([]GroupSummary, error) {
	groups, err := s.groups(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]GroupSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, GroupSummary{
			ID:          g.ID,
			Name:        g.Name,
			MemberCount: len(g.Members),
			Members:     g.Members,
		})
	}
	return summaries, nil
}

// ListPrayers fetches one member's record and projects every slot,
// hidden ones included so callers can see the full list.
func (s *Service) ListPrayers(ctx context.Context, groupID, member string) ([]SlotDTO, error) {
	if s.Store == nil {
		return nil, errors.New("store is not configured")
	}
	if groupID == "" || member == "" {
		return nil, errors.New("group and member are required")
	}
	rec, err := s.Store.LoadMember(ctx, groupID, member)
	if err != nil {
		return nil, err
	}
	return toDTOs(rec.Slots), nil
}

// ListAllPrayers projects the cross-group view from one bulk fetch.
func (s *Service) ListAllPrayers(ctx context.Context) ([]SectionDTO, error) {
	groups, err := s.groups(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	bulk, err := s.Client.GetPrayersAllGroups(ctx, ids)
	if err != nil {
		return nil, err
	}

	proj := aggregate.Build(groups, bulk)
	sections := make([]SectionDTO, 0, len(proj.Sections))
	for _, sec := range proj.Sections {
		sections = append(sections, SectionDTO{
			GroupID:   sec.GroupID,
			GroupName: sec.GroupName,
			Member:    sec.Member,
			Updated:   sec.Footer,
			Prayers:   toDTOs(sec.Slots),
		})
	}
	return sections, nil
}

// AddPrayer appends a prayer to a member's record.
func (s *Service) AddPrayer(ctx context.Context, groupID, member, text string) ([]SlotDTO, error) {
	if s.Orchestrator == nil || s.Store == nil {
		return nil, errors.New("orchestrator is not configured")
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("text is required")
	}
	groups, err := s.groups(ctx)
	if err != nil {
		return nil, err
	}
	var group *prayer.Group
	for i := range groups {
		if groups[i].ID == groupID {
			group = &groups[i]
			break
		}
	}
	if group == nil {
		return nil, fmt.Errorf("unknown group %q", groupID)
	}
	if _, err := s.Store.LoadMember(ctx, groupID, member); err != nil {
		return nil, err
	}
	if err := s.Orchestrator.AddPrayer(ctx, *group, member, text); err != nil {
		return nil, err
	}
	rec, _ := s.Store.Member(groupID, member)
	return toDTOs(rec.Slots), nil
}

// UpdateStatus sets a slot's status by its server index.
func (s *Service) UpdateStatus(ctx context.Context, groupID, member string, index int, status glyph.Status) (*SlotDTO, error) {
	if err := s.ensureSlot(ctx, groupID, member, index); err != nil {
		return nil, err
	}
	if err := s.Orchestrator.UpdateStatus(ctx, groupID, member, index, status); err != nil {
		return nil, err
	}
	return s.slotDTO(groupID, member, index)
}

// SaveNote attaches a note to a slot.
func (s *Service) SaveNote(ctx context.Context, groupID, member string, index int, note string) (*SlotDTO, error) {
	if err := s.ensureSlot(ctx, groupID, member, index); err != nil {
		return nil, err
	}
	if err := s.Orchestrator.SaveNote(ctx, groupID, member, index, note); err != nil {
		return nil, err
	}
	return s.slotDTO(groupID, member, index)
}

// ArchivePrayer hides a slot through the archive sentinel.
func (s *Service) ArchivePrayer(ctx context.Context, groupID, member string, index int) (*SlotDTO, error) {
	if err := s.ensureSlot(ctx, groupID, member, index); err != nil {
		return nil, err
	}
	if err := s.Orchestrator.Archive(ctx, groupID, member, index); err != nil {
		return nil, err
	}
	return s.slotDTO(groupID, member, index)
}

// RestorePrayer brings an archived slot back.
func (s *Service) RestorePrayer(ctx context.Context, groupID, member string, index int) (*SlotDTO, error) {
	if err := s.ensureSlot(ctx, groupID, member, index); err != nil {
		return nil, err
	}
	if err := s.Orchestrator.Restore(ctx, groupID, member, index); err != nil {
		return nil, err
	}
	return s.slotDTO(groupID, member, index)
}

func (s *Service) ensureSlot(ctx context.Context, groupID, member string, index int) error {
	if s.Orchestrator == nil || s.Store == nil {
		return errors.New("orchestrator is not configured")
	}
	rec, ok := s.Store.Member(groupID, member)
	if !ok {
		var err error
		rec, err = s.Store.LoadMember(ctx, groupID, member)
		if err != nil {
			return err
		}
	}
	if rec.SlotByIndex(index) == nil {
		return fmt.Errorf("%w: %s/%s index %d", ErrSlotNotFound, groupID, member, index)
	}
	return nil
}

func (s *Service) slotDTO(groupID, member string, index int) (*SlotDTO, error) {
	rec, ok := s.Store.Member(groupID, member)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s index %d", ErrSlotNotFound, groupID, member, index)
	}
	sl := rec.SlotByIndex(index)
	if sl == nil {
		return nil, fmt.Errorf("%w: %s/%s index %d", ErrSlotNotFound, groupID, member, index)
	}
	dto := toDTO(*sl)
	return &dto, nil
}

func toDTOs(slots []prayer.Slot) []SlotDTO {
	out := make([]SlotDTO, 0, len(slots))
	for _, sl := range slots {
		out = append(out, toDTO(sl))
	}
	return out
}

func toDTO(sl prayer.Slot) SlotDTO {
	g := sl.Status.Glyph()
	dto := SlotDTO{
		Index:         sl.Index,
		Text:          sl.Text,
		Status:        g.Token,
		StatusSymbol:  g.Symbol,
		StatusMeaning: g.Meaning,
		Note:          sl.Note,
		Visibility:    string(sl.Visibility),
		Hidden:        sl.EffectiveHidden(),
		RecordedAt:    sl.RecordedAt,
	}
	if sl.RecordedAt != "" {
		dto.RecordedAgo = timeutil.Relative(sl.RecordedAt, time.Now())
	}
	return dto
}

// ParseStatusInput resolves a status from either the stored Korean token or
// the English meaning used in tool enums.
func ParseStatusInput(input string) (glyph.Status, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return glyph.Pending, errors.New("status is required")
	}
	for _, st := range glyph.DisplayStatuses() {
		g := st.Glyph()
		if trimmed == g.Token || strings.EqualFold(trimmed, g.Meaning) {
			return st, nil
		}
	}
	return glyph.Pending, fmt.Errorf("unknown status %q", input)
}
