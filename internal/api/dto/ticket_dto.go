package dto

import (
	"time"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/report"
)

// TicketRequest payload for ticket creation and edits.
type TicketRequest struct {
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	ProblemDesc   string  `json:"problem_desc"`
	Paid          bool    `json:"is_paid"`
	Amount        int64   `json:"amount"`
	CraftID       int64   `json:"craft_id"`
	SpecialtyIDs  []int64 `json:"specialty_ids"`
}

// TicketResponse is the ticket row shape returned to the UI.
type TicketResponse struct {
	ID            int64     `json:"id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	ProblemDesc   string    `json:"problem_desc"`
	Paid          bool      `json:"is_paid"`
	Amount        int64     `json:"amount"`
	CraftID       int64     `json:"craft_id"`
	SpecialtyIDs  []int64   `json:"specialty_ids"`
	CreatedBy     int64     `json:"created_by"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewTicketResponse maps the domain ticket.
func NewTicketResponse(ticket domain.Ticket) TicketResponse {
	specialtyIDs := ticket.SpecialtyIDs
	if specialtyIDs == nil {
		specialtyIDs = []int64{}
	}
	return TicketResponse{
		ID:            ticket.ID,
		CustomerName:  ticket.CustomerName,
		CustomerPhone: ticket.CustomerPhone,
		ProblemDesc:   ticket.ProblemDesc,
		Paid:          ticket.Paid,
		Amount:        ticket.Amount,
		CraftID:       ticket.CraftID,
		SpecialtyIDs:  specialtyIDs,
		CreatedBy:     ticket.CreatedBy,
		Active:        ticket.Active,
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
	}
}

// NewTicketResponses maps a slice of domain tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, len(tickets))
	for i, ticket := range tickets {
		out[i] = NewTicketResponse(ticket)
	}
	return out
}

// ReportFilterRequest is the compound report filter as posted by the UI.
type ReportFilterRequest struct {
	Text          string  `json:"text"`
	PaymentStatus string  `json:"payment_status"`
	CraftIDs      []int64 `json:"craft_ids"`
	SpecialtyIDs  []int64 `json:"specialty_ids"`
	TeamIDs       []int64 `json:"team_ids"`
	CreatorIDs    []int64 `json:"creator_ids"`
	DateMode      string  `json:"date_mode"`
	DateFrom      string  `json:"date_from"`
	DateTo        string  `json:"date_to"`
}

// ToFilter converts the request to the aggregator filter. Dates use
// RFC 3339; unparsable values leave the bound open.
func (r ReportFilterRequest) ToFilter() report.Filter {
	filter := report.Filter{
		Text:         r.Text,
		Payment:      report.PaymentStatus(r.PaymentStatus),
		CraftIDs:     r.CraftIDs,
		SpecialtyIDs: r.SpecialtyIDs,
		TeamIDs:      r.TeamIDs,
		CreatorIDs:   r.CreatorIDs,
		DateMode:     report.DateMode(r.DateMode),
	}
	if from, err := time.Parse(time.RFC3339, r.DateFrom); err == nil {
		filter.From = from
	}
	if to, err := time.Parse(time.RFC3339, r.DateTo); err == nil {
		filter.To = to
	}
	return filter
}
