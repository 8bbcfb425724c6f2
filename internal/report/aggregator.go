package report

import (
	"sort"
	"strings"
	"time"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
)

// PaymentStatus narrows tickets by payment state.
type PaymentStatus string

const (
	PaymentAny    PaymentStatus = ""
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

// DateMode selects which timestamp the date window applies to.
type DateMode string

const (
	DateModeNone    DateMode = "none"
	DateModeCreated DateMode = "created"
	DateModeUpdated DateMode = "updated"
)

// Filter is the compound report filter.
type Filter struct {
	Text         string
	Payment      PaymentStatus
	CraftIDs     []int64
	SpecialtyIDs []int64
	TeamIDs      []int64
	CreatorIDs   []int64
	DateMode     DateMode
	From         time.Time
	To           time.Time
}

// Row is the long-form report shape: one row per ticket and matched
// specialty. Tickets without specialties contribute a single row with a
// zero specialty id, and only when no specialty filter is active.
type Row struct {
	TicketID      int64     `json:"ticket_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	ProblemDesc   string    `json:"problem_desc"`
	Paid          bool      `json:"is_paid"`
	Amount        int64     `json:"amount"`
	CraftID       int64     `json:"craft_id"`
	CraftName     string    `json:"craft_name"`
	SpecialtyID   int64     `json:"specialty_id"`
	SpecialtyName string    `json:"specialty_name"`
	TeamID        int64     `json:"team_id"`
	TeamName      string    `json:"team_name"`
	CreatorID     int64     `json:"creator_id"`
	CreatorName   string    `json:"creator_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Lookups resolves names and team attribution for the emitted rows.
type Lookups struct {
	Crafts      map[int64]domain.Craft
	Specialties map[int64]domain.Specialty
	Teams       map[int64]domain.Team
	Users       map[int64]domain.User
	TeamOf      map[int64]TeamRef
}

// Aggregate applies the filter and shapes the surviving tickets into rows.
// Output order is deterministic: ticket id descending, then specialty id
// ascending. Input duplicates (by ticket id) are dropped.
func Aggregate(tickets []domain.Ticket, filter Filter, lookups Lookups) []Row {
	seen := make(map[int64]struct{}, len(tickets))
	matched := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if _, dup := seen[ticket.ID]; dup {
			continue
		}
		seen[ticket.ID] = struct{}{}
		if matches(ticket, filter, lookups) {
			matched = append(matched, ticket)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	specialtyFilter := idSet(filter.SpecialtyIDs)
	rows := make([]Row, 0, len(matched))
	for _, ticket := range matched {
		specialtyIDs := matchedSpecialties(ticket, specialtyFilter)
		if len(specialtyIDs) == 0 {
			if len(specialtyFilter) > 0 {
				continue
			}
			rows = append(rows, buildRow(ticket, 0, lookups))
			continue
		}
		sort.Slice(specialtyIDs, func(i, j int) bool { return specialtyIDs[i] < specialtyIDs[j] })
		for _, specialtyID := range specialtyIDs {
			rows = append(rows, buildRow(ticket, specialtyID, lookups))
		}
	}
	return rows
}

func matches(ticket domain.Ticket, filter Filter, lookups Lookups) bool {
	if text := strings.TrimSpace(filter.Text); text != "" {
		needle := strings.ToLower(text)
		if !strings.Contains(strings.ToLower(ticket.CustomerName), needle) &&
			!strings.Contains(strings.ToLower(ticket.CustomerPhone), needle) &&
			!strings.Contains(strings.ToLower(ticket.ProblemDesc), needle) {
			return false
		}
	}

	switch filter.Payment {
	case PaymentPaid:
		if !ticket.Paid {
			return false
		}
	case PaymentUnpaid:
		if ticket.Paid {
			return false
		}
	}

	if crafts := idSet(filter.CraftIDs); len(crafts) > 0 {
		if _, ok := crafts[ticket.CraftID]; !ok {
			return false
		}
	}

	if specialties := idSet(filter.SpecialtyIDs); len(specialties) > 0 {
		if len(matchedSpecialties(ticket, specialties)) == 0 {
			return false
		}
	}

	if teams := idSet(filter.TeamIDs); len(teams) > 0 {
		ref, hasTeam := lookups.TeamOf[ticket.CreatedBy]
		if !hasTeam {
			return false
		}
		if _, ok := teams[ref.TeamID]; !ok {
			return false
		}
	}

	if creators := idSet(filter.CreatorIDs); len(creators) > 0 {
		if _, ok := creators[ticket.CreatedBy]; !ok {
			return false
		}
	}

	switch filter.DateMode {
	case DateModeCreated:
		if !inWindow(ticket.CreatedAt, filter.From, filter.To) {
			return false
		}
	case DateModeUpdated:
		if !inWindow(ticket.UpdatedAt, filter.From, filter.To) {
			return false
		}
	}
	return true
}

func matchedSpecialties(ticket domain.Ticket, filter map[int64]struct{}) []int64 {
	if len(filter) == 0 {
		out := make([]int64, len(ticket.SpecialtyIDs))
		copy(out, ticket.SpecialtyIDs)
		return out
	}
	var out []int64
	for _, id := range ticket.SpecialtyIDs {
		if _, ok := filter[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func buildRow(ticket domain.Ticket, specialtyID int64, lookups Lookups) Row {
	row := Row{
		TicketID:      ticket.ID,
		CustomerName:  ticket.CustomerName,
		CustomerPhone: ticket.CustomerPhone,
		ProblemDesc:   ticket.ProblemDesc,
		Paid:          ticket.Paid,
		Amount:        ticket.Amount,
		CraftID:       ticket.CraftID,
		SpecialtyID:   specialtyID,
		CreatorID:     ticket.CreatedBy,
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
	}
	if craft, ok := lookups.Crafts[ticket.CraftID]; ok {
		row.CraftName = craft.Name
	}
	if specialty, ok := lookups.Specialties[specialtyID]; ok {
		row.SpecialtyName = specialty.Name
	}
	if user, ok := lookups.Users[ticket.CreatedBy]; ok {
		row.CreatorName = user.Name
	}
	if ref, ok := lookups.TeamOf[ticket.CreatedBy]; ok {
		row.TeamID = ref.TeamID
		if team, ok := lookups.Teams[ref.TeamID]; ok {
			row.TeamName = team.Name
		}
	}
	return row
}

func inWindow(ts, from, to time.Time) bool {
	if !from.IsZero() && ts.Before(from) {
		return false
	}
	if !to.IsZero() && ts.After(to) {
		return false
	}
	return true
}

func idSet(ids []int64) map[int64]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
