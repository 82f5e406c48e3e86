package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/shindano/core/leaderboard"
	"github.com/trezcool/shindano/core/team"
)

type leaderboardRepository struct {
	db *DB
}

var _ leaderboard.Repository = (*leaderboardRepository)(nil) // interface compliance check

func NewLeaderboardRepository(db *DB) *leaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (repo *leaderboardRepository) QueryEventTeams(ctx context.Context, eventID string) ([]team.Team, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return (&teamRepository{db: repo.db}).queryTeamsByEvent(eventID), nil
}

func (repo *leaderboardRepository) SumTeamScores(ctx context.Context, teamID string) (float64, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var total float64
	for _, s := range repo.db.scores {
		if s.TeamID == teamID {
			total += s.Value
		}
	}
	return total, nil
}

func (repo *leaderboardRepository) UpdateTeamTotalScore(ctx context.Context, teamID string, total float64) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	return updateTeamTotalScore(repo.db, teamID, total)
}

func (repo *leaderboardRepository) DeleteEventEntries(ctx context.Context, eventID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.entries, eventID)
	return nil
}

func (repo *leaderboardRepository) InsertEntries(ctx context.Context, entries []leaderboard.Entry) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, entry := range entries {
		entry.ID = uuid.New().String()
		repo.db.entries[entry.EventID] = append(repo.db.entries[entry.EventID], entry)
	}
	return nil
}

func (repo *leaderboardRepository) QueryEventEntries(ctx context.Context, eventID string) ([]leaderboard.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := make([]leaderboard.Entry, 0, len(repo.db.entries[eventID]))
	entries = append(entries, repo.db.entries[eventID]...)
	return entries, nil
}
