package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/shindano/core/judging"
)

type judgingRepository struct {
	db *DB
}

var _ judging.Repository = (*judgingRepository)(nil) // interface compliance check

func NewJudgingRepository(db *DB) *judgingRepository {
	return &judgingRepository{db: db}
}

func (repo *judgingRepository) CreateAssignment(ctx context.Context, a judging.Assignment) (judging.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	a.ID = uuid.New().String()
	repo.db.assignments[key(a.TeamID, a.JudgeID)] = &a
	return a, nil
}

func (repo *judgingRepository) GetAssignment(ctx context.Context, teamID, judgeID string) (judging.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.assignments[key(teamID, judgeID)]; ok {
		return *a, nil
	}
	return judging.Assignment{}, judging.ErrAssignmentNotFound
}

func (repo *judgingRepository) SetAssignmentStatus(ctx context.Context, teamID, judgeID, status string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	a, ok := repo.db.assignments[key(teamID, judgeID)]
	if !ok {
		return judging.ErrAssignmentNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *judgingRepository) DeleteAssignment(ctx context.Context, teamID, judgeID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.assignments, key(teamID, judgeID))
	return nil
}

func (repo *judgingRepository) QueryJudgeAssignments(ctx context.Context, judgeID string) ([]judging.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	assignments := make([]judging.Assignment, 0)
	for _, a := range repo.db.assignments {
		if a.JudgeID == judgeID {
			assignments = append(assignments, *a)
		}
	}
	sortAssignments(assignments)
	return assignments, nil
}

func (repo *judgingRepository) QueryTeamAssignments(ctx context.Context, teamID string) ([]judging.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	assignments := make([]judging.Assignment, 0)
	for _, a := range repo.db.assignments {
		if a.TeamID == teamID {
			assignments = append(assignments, *a)
		}
	}
	sortAssignments(assignments)
	return assignments, nil
}

func sortAssignments(assignments []judging.Assignment) {
	sort.SliceStable(assignments, func(i, j int) bool {
		return assignments[i].CreatedAt.Before(assignments[j].CreatedAt)
	})
}

func (repo *judgingRepository) UpsertScores(ctx context.Context, scores []judging.Score) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, s := range scores {
		k := key(s.TeamID, s.JudgeID, s.CriterionID)
		if existing, ok := repo.db.scores[k]; ok {
			existing.Value = s.Value
			existing.Feedback = s.Feedback
			existing.UpdatedAt = s.UpdatedAt
			continue
		}
		s.ID = uuid.New().String()
		score := s
		repo.db.scores[k] = &score
	}
	return nil
}

func (repo *judgingRepository) QueryTeamScores(ctx context.Context, teamID string) ([]judging.Score, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.queryTeamScores(teamID), nil
}

// queryTeamScores expects the caller to hold the lock.
func (repo *judgingRepository) queryTeamScores(teamID string) []judging.Score {
	scores := make([]judging.Score, 0)
	for _, s := range repo.db.scores {
		if s.TeamID != teamID {
			continue
		}
		score := *s
		if c, ok := repo.db.criteria[s.CriterionID]; ok {
			score.Weight = c.Weight
		}
		scores = append(scores, score)
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].CreatedAt.Before(scores[j].CreatedAt) })
	return scores
}

func (repo *judgingRepository) UpdateTeamTotalScore(ctx context.Context, teamID string, total float64) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	return updateTeamTotalScore(repo.db, teamID, total)
}

// updateTeamTotalScore expects the caller to hold the lock.
func updateTeamTotalScore(db *DB, teamID string, total float64) error {
	t, ok := db.teams[teamID]
	if !ok {
		return nil
	}
	t.TotalScore = total
	t.UpdatedAt = time.Now().UTC()
	return nil
}
