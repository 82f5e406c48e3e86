package leaderboard

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shindano/core/team"
)

var (
	// errors
	ErrNoTeams = errors.New("no teams found for this event")
)

type (
	Repository interface {
		// QueryEventTeams returns an Event's teams ordered by name.
		QueryEventTeams(ctx context.Context, eventID string) ([]team.Team, error)
		// SumTeamScores sums a team's raw score values across all judges and
		// criteria, ignoring criterion weights.
		SumTeamScores(ctx context.Context, teamID string) (float64, error)
		UpdateTeamTotalScore(ctx context.Context, teamID string, total float64) error

		DeleteEventEntries(ctx context.Context, eventID string) error
		InsertEntries(ctx context.Context, entries []Entry) error
		// QueryEventEntries returns an Event's persisted snapshot ordered by rank.
		QueryEventEntries(ctx context.Context, eventID string) ([]Entry, error)
	}

	Service interface {
		Recalculate(ctx context.Context, eventID string) ([]Entry, error)
		Query(ctx context.Context, eventID string) ([]Entry, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Recalculate rebuilds an event's leaderboard snapshot from raw scores:
// each team's total is the unweighted sum of its score values (criterion
// weights are ignored here; the judging path computes a weighted mean — the
// two paths write the same teams.total_score field, last writer wins).
// Ranks are dense and positional over the descending sort: tied teams get
// consecutive ranks in fetch order, not equal ranks. The prior snapshot is
// deleted before the new rows are inserted; the two steps are not atomic.
func (svc *service) Recalculate(ctx context.Context, eventID string) ([]Entry, error) {
	teams, err := svc.repo.QueryEventTeams(ctx, eventID)
	if err != nil {
		return nil, errors.Wrap(err, "querying event teams")
	}
	if len(teams) == 0 {
		return nil, ErrNoTeams
	}

	for i := range teams {
		total, err := svc.repo.SumTeamScores(ctx, teams[i].ID)
		if err != nil {
			return nil, errors.Wrap(err, "summing team scores")
		}
		if err := svc.repo.UpdateTeamTotalScore(ctx, teams[i].ID, total); err != nil {
			return nil, errors.Wrap(err, "updating team total score")
		}
		teams[i].TotalScore = total
	}

	sort.SliceStable(teams, func(i, j int) bool { return teams[i].TotalScore > teams[j].TotalScore })

	now := time.Now().UTC()
	entries := make([]Entry, 0, len(teams))
	for i, t := range teams {
		entries = append(entries, Entry{
			EventID:      eventID,
			TeamID:       t.ID,
			Rank:         i + 1,
			TotalScore:   t.TotalScore,
			TeamName:     t.Name,
			SchoolName:   t.SchoolName,
			CalculatedAt: now,
		})
	}

	if err := svc.repo.DeleteEventEntries(ctx, eventID); err != nil {
		return nil, errors.Wrap(err, "deleting prior leaderboard entries")
	}
	if err := svc.repo.InsertEntries(ctx, entries); err != nil {
		return nil, errors.Wrap(err, "inserting leaderboard entries")
	}
	return entries, nil
}

func (svc *service) Query(ctx context.Context, eventID string) ([]Entry, error) {
	return svc.repo.QueryEventEntries(ctx, eventID)
}
