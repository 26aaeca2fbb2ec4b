package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"prayteam/pkg/prayer"
)

// Mirror persists the last fetched MemberRecord per (group, member) under
// the configured base path. It exists so a fresh process (or a guest deep
// link with a flaky network) can show the last known records before the
// remote store answers. The remote store stays authoritative; the mirror is
// only ever written after a successful fetch or an optimistic local apply.
type Mirror struct {
	d        *diskv.Diskv
	basePath string
}

// OpenMirror creates a Mirror rooted at cfg.BasePath().
func OpenMirror(cfg Config) (*Mirror, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &Mirror{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

// BasePath exposes the mirror's root directory, for watching.
func (m *Mirror) BasePath() string {
	return m.basePath
}

// Write stores the record under its (group, member) key.
func (m *Mirror) Write(groupID string, rec prayer.MemberRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: encode record: %w", err)
	}
	return m.d.Write(toKey(groupID, rec.Member), data)
}

// Read loads the mirrored record for (group, member).
func (m *Mirror) Read(groupID, member string) (prayer.MemberRecord, error) {
	val, err := m.d.Read(toKey(groupID, member))
	if err != nil {
		return prayer.MemberRecord{Member: member}, err
	}
	var rec prayer.MemberRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		// A record that no longer decodes would fail on every read;
		// evict it and let the next fetch rewrite it.
		_ = m.Erase(groupID, member)
		return prayer.MemberRecord{Member: member}, err
	}
	if rec.Member == "" {
		rec.Member = member
	}
	return rec, nil
}

// Erase removes the mirrored record, if present.
func (m *Mirror) Erase(groupID, member string) error {
	return m.d.Erase(toKey(groupID, member))
}

// Keys separates with '-', which base64 std encoding never emits, so the
// encoded group and member halves split unambiguously.
func toKey(groupID, member string) string {
	return fmt.Sprintf("%s-%s", encodeSegment(groupID), encodeSegment(member))
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

func encodeSegment(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func decodeSegment(s string) string {
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return ""
	}
	return string(decoded)
}
