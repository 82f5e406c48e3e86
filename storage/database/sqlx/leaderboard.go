package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shindano/core/leaderboard"
	"github.com/trezcool/shindano/core/team"
)

type leaderboardRepository struct {
	db *sqlx.DB
}

var _ leaderboard.Repository = (*leaderboardRepository)(nil) // interface compliance check

func NewLeaderboardRepository(db *sqlx.DB) *leaderboardRepository {
	return &leaderboardRepository{db: db}
}

type dbEntry struct {
	ID           string      `db:"id"`
	EventID      string      `db:"event_id"`
	TeamID       string      `db:"team_id"`
	Rank         int         `db:"rank"`
	TotalScore   float64     `db:"total_score"`
	TeamName     string      `db:"team_name"`
	SchoolName   null.String `db:"school_name"`
	CalculatedAt time.Time   `db:"calculated_at"`
}

func (repo leaderboardRepository) QueryEventTeams(ctx context.Context, eventID string) ([]team.Team, error) {
	var rows []dbTeam
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM team WHERE event_id = $1 ORDER BY name`, eventID); err != nil {
		return nil, errors.Wrap(err, "querying event teams")
	}
	return teamUnrowSlice(rows), nil
}

func (repo leaderboardRepository) SumTeamScores(ctx context.Context, teamID string) (float64, error) {
	var total float64
	err := repo.db.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(score), 0) FROM scores WHERE team_id = $1`, teamID)
	if err != nil {
		return 0, errors.Wrap(err, "summing team scores")
	}
	return total, nil
}

func (repo leaderboardRepository) UpdateTeamTotalScore(ctx context.Context, teamID string, total float64) error {
	_, err := repo.db.ExecContext(ctx,
		`UPDATE team SET total_score = $2, updated_at = $3 WHERE id = $1`, teamID, total, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "updating team total score")
	}
	return nil
}

func (repo leaderboardRepository) DeleteEventEntries(ctx context.Context, eventID string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM leaderboard WHERE event_id = $1`, eventID); err != nil {
		return errors.Wrap(err, "deleting leaderboard entries")
	}
	return nil
}

func (repo leaderboardRepository) InsertEntries(ctx context.Context, entries []leaderboard.Entry) error {
	for _, entry := range entries {
		entry.ID = uuid.New().String()
		row := dbEntry(entry)
		_, err := repo.db.NamedExecContext(ctx,
			`INSERT INTO leaderboard (id, event_id, team_id, rank, total_score, team_name, school_name, calculated_at)
			 VALUES (:id, :event_id, :team_id, :rank, :total_score, :team_name, :school_name, :calculated_at)`, row)
		if err != nil {
			return errors.Wrap(err, "inserting leaderboard entry")
		}
	}
	return nil
}

func (repo leaderboardRepository) QueryEventEntries(ctx context.Context, eventID string) ([]leaderboard.Entry, error) {
	var rows []dbEntry
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM leaderboard WHERE event_id = $1 ORDER BY rank`, eventID)
	if err != nil {
		return nil, errors.Wrap(err, "querying leaderboard entries")
	}
	entries := make([]leaderboard.Entry, 0, len(rows))
	for _, e := range rows {
		entries = append(entries, leaderboard.Entry(e))
	}
	return entries, nil
}
