package judging

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

var (
	// errors
	ErrNotAssigned        = errors.New("judge is not assigned to this team")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrAlreadyAssigned    = errors.New("judge is already assigned to this team")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		GetAssignment(ctx context.Context, teamID, judgeID string) (Assignment, error)
		SetAssignmentStatus(ctx context.Context, teamID, judgeID, status string) error
		DeleteAssignment(ctx context.Context, teamID, judgeID string) error
		QueryJudgeAssignments(ctx context.Context, judgeID string) ([]Assignment, error)
		QueryTeamAssignments(ctx context.Context, teamID string) ([]Assignment, error)

		// UpsertScores writes each Score on its (team, judge, criterion) natural key,
		// replacing value/feedback when the key already exists.
		UpsertScores(ctx context.Context, scores []Score) error
		// QueryTeamScores returns all of a team's scores, across all judges,
		// with each Score.Weight populated from its criterion.
		QueryTeamScores(ctx context.Context, teamID string) ([]Score, error)
		UpdateTeamTotalScore(ctx context.Context, teamID string, total float64) error
	}

	Service interface {
		Assign(ctx context.Context, teamID, judgeID string) (Assignment, error)
		Revoke(ctx context.Context, teamID, judgeID string) error
		QueryByJudge(ctx context.Context, judgeID string) ([]Assignment, error)
		QueryByTeam(ctx context.Context, teamID string) ([]Assignment, error)
		SubmitScores(ctx context.Context, teamID, judgeID string, sub ScoreSubmission) error
		RecomputeTeamTotal(ctx context.Context, teamID string) (float64, error)
		QueryTeamScores(ctx context.Context, teamID string) ([]Score, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Assign(ctx context.Context, teamID, judgeID string) (Assignment, error) {
	if _, err := svc.repo.GetAssignment(ctx, teamID, judgeID); err == nil {
		return Assignment{}, ErrAlreadyAssigned
	} else if errors.Cause(err) != ErrAssignmentNotFound {
		return Assignment{}, err
	}

	now := time.Now().UTC()
	return svc.repo.CreateAssignment(ctx, Assignment{
		TeamID:    teamID,
		JudgeID:   judgeID,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) Revoke(ctx context.Context, teamID, judgeID string) error {
	return svc.repo.DeleteAssignment(ctx, teamID, judgeID)
}

func (svc *service) QueryByJudge(ctx context.Context, judgeID string) ([]Assignment, error) {
	return svc.repo.QueryJudgeAssignments(ctx, judgeID)
}

func (svc *service) QueryByTeam(ctx context.Context, teamID string) ([]Assignment, error) {
	return svc.repo.QueryTeamAssignments(ctx, teamID)
}

// SubmitScores records a judge's scores for a team:
// the judge must be assigned to the team; each tuple is upserted on its
// (team, judge, criterion) key; the team total is recomputed; the assignment
// flips to completed even if only a subset of the criteria was scored.
// The three writes are sequential, without a transaction: a failure part-way
// leaves earlier writes in place.
func (svc *service) SubmitScores(ctx context.Context, teamID, judgeID string, sub ScoreSubmission) error {
	if _, err := svc.repo.GetAssignment(ctx, teamID, judgeID); err != nil {
		if errors.Cause(err) == ErrAssignmentNotFound {
			return ErrNotAssigned
		}
		return errors.Wrap(err, "checking assignment")
	}

	now := time.Now().UTC()
	scores := make([]Score, 0, len(sub))
	for _, in := range sub {
		scores = append(scores, Score{
			TeamID:      teamID,
			JudgeID:     judgeID,
			CriterionID: in.CriterionID,
			Value:       in.Value,
			Feedback:    null.NewString(in.Feedback, in.Feedback != ""),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	if err := svc.repo.UpsertScores(ctx, scores); err != nil {
		return errors.Wrap(err, "upserting scores")
	}

	if _, err := svc.RecomputeTeamTotal(ctx, teamID); err != nil {
		return errors.Wrap(err, "recomputing team total")
	}

	if err := svc.repo.SetAssignmentStatus(ctx, teamID, judgeID, StatusCompleted); err != nil {
		return errors.Wrap(err, "completing assignment")
	}
	return nil
}

// RecomputeTeamTotal recomputes and persists a team's total score as
//
//	Σ(score × criterion weight) / N
//
// where N is the number of score rows for the team across all judges and
// criteria — not the number of distinct criteria and not the sum of weights.
// Historical totals depend on this exact divisor; do not change it without
// recomputing stored totals.
func (svc *service) RecomputeTeamTotal(ctx context.Context, teamID string) (float64, error) {
	scores, err := svc.repo.QueryTeamScores(ctx, teamID)
	if err != nil {
		return 0, errors.Wrap(err, "querying team scores")
	}

	var total float64
	if len(scores) > 0 {
		var weighted float64
		for _, s := range scores {
			weighted += s.Value * s.Weight
		}
		total = weighted / float64(len(scores))
	}

	if err := svc.repo.UpdateTeamTotalScore(ctx, teamID, total); err != nil {
		return 0, errors.Wrap(err, "updating team total score")
	}
	return total, nil
}

func (svc *service) QueryTeamScores(ctx context.Context, teamID string) ([]Score, error) {
	return svc.repo.QueryTeamScores(ctx, teamID)
}
