package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Ticket records a customer problem, its taxonomy and payment state.
// The store keeps specialty ids as a comma-joined text column; the codec
// below confines that layout to the persistence boundary so the rest of the
// code works on id sets.
type Ticket struct {
	ID            int64
	CustomerName  string
	CustomerPhone string
	ProblemDesc   string
	Paid          bool
	Amount        int64
	CraftID       int64
	SpecialtyIDs  []int64
	CreatedBy     int64
	UpdatedBy     *int64
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasSpecialty reports whether the ticket carries the given specialty.
func (t Ticket) HasSpecialty(id int64) bool {
	for _, s := range t.SpecialtyIDs {
		if s == id {
			return true
		}
	}
	return false
}

// EncodeIDList renders ids as the legacy comma-joined column value.
// Ids are deduplicated and sorted so the stored form is canonical.
func EncodeIDList(ids []int64) string {
	if len(ids) == 0 {
		return ""
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	parts := make([]string, len(out))
	for i, id := range out {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// DecodeIDList parses the legacy comma-joined column value into an id set.
// Blank and malformed fragments are skipped; the source data contains both.
func DecodeIDList(raw string) []int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	seen := make(map[int64]struct{}, len(parts))
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
