package report

import (
	"sort"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
)

// Constants carries the payout parameters. Values come from configuration;
// they are organization-wide, not per-team.
type Constants struct {
	AgentRatePercent int
	AgentCap         int64
	ManagerThreshold int64
	ManagerFee       int64
}

// TeamRef ties a ticket creator to the team credited for the ticket.
type TeamRef struct {
	TeamID    int64
	ManagerID int64
}

// AgentEarnings aggregates payable amounts for one agent.
type AgentEarnings struct {
	AgentID     int64 `json:"agent_id"`
	Tickets     int   `json:"tickets"`
	TotalAmount int64 `json:"total_amount"`
	Commission  int64 `json:"commission"`
}

// TeamEarnings aggregates payable amounts for one team's manager.
type TeamEarnings struct {
	TeamID          int64 `json:"team_id"`
	ManagerID       int64 `json:"manager_id"`
	EligibleTickets int   `json:"eligible_tickets"`
	Commission      int64 `json:"commission"`
}

// Summary is the full commission breakdown. Totals sum the per-entity
// values, so partitioning the input and summing summaries is lossless.
type Summary struct {
	Agents       []AgentEarnings `json:"agents"`
	Teams        []TeamEarnings  `json:"teams"`
	AgentTotal   int64           `json:"agent_total"`
	ManagerTotal int64           `json:"manager_total"`
}

// AgentCommission computes the payable amount for one paid ticket:
// rate percent of the amount, capped. The multiplicative step rounds half
// to even. Unpaid and non-positive amounts earn nothing.
func AgentCommission(amount int64, paid bool, c Constants) int64 {
	if !paid || amount <= 0 {
		return 0
	}
	n := amount * int64(c.AgentRatePercent)
	q := n / 100
	rem := n % 100
	switch {
	case rem > 50:
		q++
	case rem == 50 && q%2 != 0:
		q++
	}
	if q > c.AgentCap {
		return c.AgentCap
	}
	return q
}

// ManagerCommission computes the flat fee for one ticket. Only tickets at
// or above the threshold are eligible; unpaid tickets carry amount zero and
// never qualify.
func ManagerCommission(amount int64, c Constants) int64 {
	if amount >= c.ManagerThreshold {
		return c.ManagerFee
	}
	return 0
}

// Calculate derives the commission summary over a ticket set already
// narrowed by the report filters. Tickets are deduplicated by id. teamOf
// maps creator ids to their credited team; creators without a team earn no
// manager credit.
func Calculate(tickets []domain.Ticket, teamOf map[int64]TeamRef, c Constants) Summary {
	seen := make(map[int64]struct{}, len(tickets))
	agents := make(map[int64]*AgentEarnings)
	teams := make(map[int64]*TeamEarnings)

	for _, ticket := range tickets {
		if _, dup := seen[ticket.ID]; dup {
			continue
		}
		seen[ticket.ID] = struct{}{}

		agent, ok := agents[ticket.CreatedBy]
		if !ok {
			agent = &AgentEarnings{AgentID: ticket.CreatedBy}
			agents[ticket.CreatedBy] = agent
		}
		agent.Tickets++
		agent.TotalAmount += ticket.Amount
		agent.Commission += AgentCommission(ticket.Amount, ticket.Paid, c)

		fee := ManagerCommission(ticket.Amount, c)
		if fee == 0 {
			continue
		}
		ref, hasTeam := teamOf[ticket.CreatedBy]
		if !hasTeam {
			continue
		}
		team, ok := teams[ref.TeamID]
		if !ok {
			team = &TeamEarnings{TeamID: ref.TeamID, ManagerID: ref.ManagerID}
			teams[ref.TeamID] = team
		}
		team.EligibleTickets++
		team.Commission += fee
	}

	summary := Summary{
		Agents: make([]AgentEarnings, 0, len(agents)),
		Teams:  make([]TeamEarnings, 0, len(teams)),
	}
	for _, agent := range agents {
		summary.Agents = append(summary.Agents, *agent)
		summary.AgentTotal += agent.Commission
	}
	for _, team := range teams {
		summary.Teams = append(summary.Teams, *team)
		summary.ManagerTotal += team.Commission
	}
	sort.Slice(summary.Agents, func(i, j int) bool { return summary.Agents[i].AgentID < summary.Agents[j].AgentID })
	sort.Slice(summary.Teams, func(i, j int) bool { return summary.Teams[i].TeamID < summary.Teams[j].TeamID })
	return summary
}
