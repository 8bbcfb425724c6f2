package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Team groups agents under exactly one manager.
type Team struct {
	ID          int64
	Code        string
	Name        string
	Description string
	ManagerID   int64
	Active      bool
	CreatedBy   *int64
	UpdatedBy   *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TeamMember links an agent to a team. An active agent belongs to at most
// one active team.
type TeamMember struct {
	ID        int64
	TeamID    int64
	MemberID  int64
	Active    bool
	CreatedBy *int64
	UpdatedBy *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

var teamCodePattern = regexp.MustCompile(`^TEAM([0-9]+)$`)

// ValidTeamCode reports whether code matches the TEAM<digits> shape.
func ValidTeamCode(code string) bool {
	return teamCodePattern.MatchString(code)
}

// NextTeamCode allocates the next team code from the existing set:
// TEAM + zero-padded successor of the highest numeric suffix.
func NextTeamCode(existing []string) string {
	codes := make([]string, 0, len(existing))
	for _, code := range existing {
		code = strings.TrimSpace(code)
		if ValidTeamCode(code) {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return "TEAM001"
	}
	SortTeamCodes(codes)
	return fmt.Sprintf("TEAM%03d", teamCodeSuffix(codes[len(codes)-1])+1)
}

// FallbackTeamCode derives a code from the clock when the sequential
// allocator collides.
func FallbackTeamCode(now time.Time) string {
	return fmt.Sprintf("TEAM%04d", now.Unix()%10000)
}

// SortTeamCodes orders codes by numeric suffix, non-matching codes last.
func SortTeamCodes(codes []string) {
	sort.SliceStable(codes, func(i, j int) bool {
		return teamCodeSuffix(codes[i]) < teamCodeSuffix(codes[j])
	})
}

func teamCodeSuffix(code string) int {
	m := teamCodePattern.FindStringSubmatch(code)
	if m == nil {
		return 1<<31 - 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 1<<31 - 1
	}
	return n
}
