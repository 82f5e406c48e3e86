package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/shindano/core/team"
	"github.com/trezcool/shindano/core/user"
)

type teamRepository struct {
	db *DB
}

var _ team.Repository = (*teamRepository)(nil) // interface compliance check

func NewTeamRepository(db *DB) *teamRepository {
	return &teamRepository{db: db}
}

func (repo *teamRepository) CreateTeam(ctx context.Context, t team.Team) (team.Team, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t.ID = uuid.New().String()
	repo.db.teams[t.ID] = &t
	return t, nil
}

func (repo *teamRepository) QueryTeamsByEvent(ctx context.Context, eventID string) ([]team.Team, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.queryTeamsByEvent(eventID), nil
}

// queryTeamsByEvent expects the caller to hold the lock.
func (repo *teamRepository) queryTeamsByEvent(eventID string) []team.Team {
	teams := make([]team.Team, 0)
	for _, t := range repo.db.teams {
		if t.EventID == eventID {
			teams = append(teams, *t)
		}
	}
	sort.SliceStable(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams
}

func (repo *teamRepository) GetTeam(ctx context.Context, id string) (team.Team, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.teams[id]; ok {
		return *t, nil
	}
	return team.Team{}, team.ErrNotFound
}

func (repo *teamRepository) UpdateTeam(ctx context.Context, t team.Team) (team.Team, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.teams[t.ID]; !ok {
		return team.Team{}, team.ErrNotFound
	}
	repo.db.teams[t.ID] = &t
	return t, nil
}

func (repo *teamRepository) DeleteTeamsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.teams, id)
		delete(repo.db.members, id)
	}
	return nil
}

func (repo *teamRepository) AddMember(ctx context.Context, teamID, userID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.db.members[teamID] == nil {
		repo.db.members[teamID] = make(map[string]bool)
	}
	repo.db.members[teamID][userID] = true
	return nil
}

func (repo *teamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.members[teamID], userID)
	return nil
}

func (repo *teamRepository) QueryMembers(ctx context.Context, teamID string) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	members := make([]user.User, 0)
	for userID := range repo.db.members[teamID] {
		if u, ok := repo.db.users[userID]; ok {
			members = append(members, *u)
		}
	}
	sort.SliceStable(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members, nil
}
