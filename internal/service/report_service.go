package service

import (
	"context"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/authz"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/config"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/report"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/repository"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/pkg/util"
)

// ReportService feeds authority-filtered ticket sets into the aggregator
// and the commission calculator.
type ReportService struct {
	repos     repository.Repositories
	constants report.Constants
}

// NewReportService builds the service.
func NewReportService(cfg config.Config, repos repository.Repositories) *ReportService {
	return &ReportService{
		repos: repos,
		constants: report.Constants{
			AgentRatePercent: cfg.Commission.AgentRatePercent,
			AgentCap:         cfg.Commission.AgentCap,
			ManagerThreshold: cfg.Commission.ManagerThreshold,
			ManagerFee:       cfg.Commission.ManagerFee,
		},
	}
}

// TicketReport applies the compound filter over the tickets the subject
// may view and shapes the long-form rows.
func (s *ReportService) TicketReport(ctx context.Context, subject domain.Subject, filter report.Filter) ([]report.Row, error) {
	tickets, lookups, err := s.visibleTickets(ctx, subject)
	if err != nil {
		return nil, err
	}
	return report.Aggregate(tickets, filter, lookups), nil
}

// Commissions derives the payout summary over the filtered ticket set.
func (s *ReportService) Commissions(ctx context.Context, subject domain.Subject, filter report.Filter) (report.Summary, error) {
	tickets, lookups, err := s.visibleTickets(ctx, subject)
	if err != nil {
		return report.Summary{}, err
	}
	rows := report.Aggregate(tickets, filter, lookups)
	kept := make(map[int64]struct{}, len(rows))
	for _, row := range rows {
		kept[row.TicketID] = struct{}{}
	}
	filtered := make([]domain.Ticket, 0, len(kept))
	for _, ticket := range tickets {
		if _, ok := kept[ticket.ID]; ok {
			filtered = append(filtered, ticket)
		}
	}
	return report.Calculate(filtered, lookups.TeamOf, s.constants), nil
}

func (s *ReportService) visibleTickets(ctx context.Context, subject domain.Subject) ([]domain.Ticket, report.Lookups, error) {
	tickets, err := s.repos.Tickets.ListActive(ctx)
	if err != nil {
		return nil, report.Lookups{}, util.MapError(err)
	}
	scope, err := managedTeamScope(ctx, s.repos, subject)
	if err != nil {
		return nil, report.Lookups{}, err
	}
	tickets = authz.FilterTickets(subject, tickets, authz.TicketView, scope)

	lookups, err := s.buildLookups(ctx)
	if err != nil {
		return nil, report.Lookups{}, err
	}
	return tickets, lookups, nil
}

// buildLookups resolves taxonomy, user and team names plus the creator to
// team attribution: membership first, a managed team as fallback.
func (s *ReportService) buildLookups(ctx context.Context) (report.Lookups, error) {
	lookups := report.Lookups{
		Crafts:      map[int64]domain.Craft{},
		Specialties: map[int64]domain.Specialty{},
		Teams:       map[int64]domain.Team{},
		Users:       map[int64]domain.User{},
		TeamOf:      map[int64]report.TeamRef{},
	}

	crafts, err := s.repos.Taxonomy.ListCrafts(ctx)
	if err != nil {
		return lookups, util.MapError(err)
	}
	for _, craft := range crafts {
		lookups.Crafts[craft.ID] = craft
	}

	specialties, err := s.repos.Taxonomy.ListSpecialties(ctx)
	if err != nil {
		return lookups, util.MapError(err)
	}
	for _, specialty := range specialties {
		lookups.Specialties[specialty.ID] = specialty
	}

	users, err := s.repos.Users.List(ctx)
	if err != nil {
		return lookups, util.MapError(err)
	}
	for _, user := range users {
		lookups.Users[user.ID] = user
	}

	teams, err := s.repos.Teams.ListActive(ctx)
	if err != nil {
		return lookups, util.MapError(err)
	}
	for _, team := range teams {
		lookups.Teams[team.ID] = team
		members, err := s.repos.Teams.ActiveMembers(ctx, team.ID)
		if err != nil {
			return lookups, util.MapError(err)
		}
		for _, member := range members {
			lookups.TeamOf[member.MemberID] = report.TeamRef{TeamID: team.ID, ManagerID: team.ManagerID}
		}
	}
	for _, team := range teams {
		if _, ok := lookups.TeamOf[team.ManagerID]; !ok {
			lookups.TeamOf[team.ManagerID] = report.TeamRef{TeamID: team.ID, ManagerID: team.ManagerID}
		}
	}
	return lookups, nil
}
