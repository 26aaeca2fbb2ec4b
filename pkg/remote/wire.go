package remote

import (
	"encoding/json"

	"prayteam/pkg/prayer"
)

// PrayersPayload is the raw column-per-field shape getPrayers returns. Time
// is the group-level common timestamp used when a slot has no date of its
// own. Indices carries the server-assigned stable slot indices; older
// backend deployments omit it.
type PrayersPayload struct {
	Prayers      []string `json:"prayers"`
	Responses    []string `json:"responses"`
	Comments     []string `json:"comments"`
	Dates        []string `json:"dates"`
	Visibilities []string `json:"visibilities"`
	Indices      []int    `json:"indices"`
	Time         string   `json:"time"`
}

// BulkEntry is one (group, member) row of the getPrayersAllGroups response.
type BulkEntry struct {
	GroupID      string   `json:"groupId"`
	MemberName   string   `json:"memberName"`
	Prayers      []string `json:"prayers"`
	Responses    []string `json:"responses"`
	Comments     []string `json:"comments"`
	Dates        []string `json:"dates"`
	Visibilities []string `json:"visibilities"`
	LastUpdated  string   `json:"lastUpdated"`
}

// SavePrayerRequest is the full-slot-list replace for one member.
type SavePrayerRequest struct {
	GroupID      string
	GroupName    string
	Member       string
	Prayers      []string
	Responses    []string
	Comments     []string
	Visibilities []string
}

// SaveNoteRequest is the single-slot patch keyed by server index.
type SaveNoteRequest struct {
	GroupID    string
	Member     string
	Index      int
	Answer     string
	Comment    string
	Visibility prayer.Visibility
}

// Account is the login response payload.
type Account struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	AdminID string `json:"adminId"`
}

// LogEntry is a telemetry row for addLog.
type LogEntry struct {
	Page    string
	ActorID string
	GroupID string
	Member  string
	From    string
}

// wireGroup reads both group key encodings: the current English keys and the
// legacy Korean column headers older deployments still emit.
type wireGroup struct {
	GroupID       string   `json:"groupId"`
	Name          string   `json:"name"`
	Members       []string `json:"members"`
	LegacyID      string   `json:"그룹ID"`
	LegacyName    string   `json:"그룹명"`
	LegacyMembers []string `json:"구성원목록"`
}

func (w wireGroup) toGroup() prayer.Group {
	g := prayer.Group{ID: w.GroupID, Name: w.Name, Members: w.Members}
	if g.ID == "" {
		g.ID = w.LegacyID
	}
	if g.Name == "" {
		g.Name = w.LegacyName
	}
	if len(g.Members) == 0 {
		g.Members = w.LegacyMembers
	}
	return g
}

// decodeGroups accepts either {"groups": [...]} or a bare array, the two
// shapes getGroups has shipped over time.
func decodeGroups(raw json.RawMessage) ([]prayer.Group, error) {
	var wrapped struct {
		Groups []wireGroup `json:"groups"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Groups != nil {
		return wireGroupsToGroups(wrapped.Groups), nil
	}
	var bare []wireGroup
	if err := json.Unmarshal(raw, &bare); err != nil {
		return nil, err
	}
	return wireGroupsToGroups(bare), nil
}

func wireGroupsToGroups(in []wireGroup) []prayer.Group {
	out := make([]prayer.Group, 0, len(in))
	for _, w := range in {
		out = append(out, w.toGroup())
	}
	return out
}
