package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shindano/core/judging"
)

type judgingRepository struct {
	db *sqlx.DB
}

var _ judging.Repository = (*judgingRepository)(nil) // interface compliance check

func NewJudgingRepository(db *sqlx.DB) *judgingRepository {
	return &judgingRepository{db: db}
}

type dbAssignment struct {
	ID        string    `db:"id"`
	TeamID    string    `db:"team_id"`
	JudgeID   string    `db:"judge_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type dbScore struct {
	ID          string      `db:"id"`
	TeamID      string      `db:"team_id"`
	JudgeID     string      `db:"judge_id"`
	CriterionID string      `db:"criteria_id"`
	Value       float64     `db:"score"`
	Feedback    null.String `db:"feedback"`
	Weight      float64     `db:"weight"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func assignmentUnrow(a dbAssignment) judging.Assignment {
	return judging.Assignment(a)
}

func assignmentUnrowSlice(rows []dbAssignment) []judging.Assignment {
	assignments := make([]judging.Assignment, 0, len(rows))
	for _, a := range rows {
		assignments = append(assignments, assignmentUnrow(a))
	}
	return assignments
}

func scoreUnrow(s dbScore) judging.Score {
	return judging.Score(s)
}

func (repo judgingRepository) CreateAssignment(ctx context.Context, a judging.Assignment) (judging.Assignment, error) {
	a.ID = uuid.New().String()
	row := dbAssignment(a)
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO team_judges (id, team_id, judge_id, status, created_at, updated_at)
		 VALUES (:id, :team_id, :judge_id, :status, :created_at, :updated_at)`, row)
	if err != nil {
		return judging.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return assignmentUnrow(row), nil
}

func (repo judgingRepository) GetAssignment(ctx context.Context, teamID, judgeID string) (judging.Assignment, error) {
	var a dbAssignment
	err := repo.db.GetContext(ctx, &a,
		`SELECT * FROM team_judges WHERE team_id = $1 AND judge_id = $2`, teamID, judgeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return judging.Assignment{}, judging.ErrAssignmentNotFound
		}
		return judging.Assignment{}, errors.Wrap(err, "finding assignment")
	}
	return assignmentUnrow(a), nil
}

func (repo judgingRepository) SetAssignmentStatus(ctx context.Context, teamID, judgeID, status string) error {
	_, err := repo.db.ExecContext(ctx,
		`UPDATE team_judges SET status = $3, updated_at = $4 WHERE team_id = $1 AND judge_id = $2`,
		teamID, judgeID, status, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "updating assignment status")
	}
	return nil
}

func (repo judgingRepository) DeleteAssignment(ctx context.Context, teamID, judgeID string) error {
	_, err := repo.db.ExecContext(ctx,
		`DELETE FROM team_judges WHERE team_id = $1 AND judge_id = $2`, teamID, judgeID)
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return nil
}

func (repo judgingRepository) QueryJudgeAssignments(ctx context.Context, judgeID string) ([]judging.Assignment, error) {
	var rows []dbAssignment
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM team_judges WHERE judge_id = $1 ORDER BY created_at`, judgeID)
	if err != nil {
		return nil, errors.Wrap(err, "querying judge assignments")
	}
	return assignmentUnrowSlice(rows), nil
}

func (repo judgingRepository) QueryTeamAssignments(ctx context.Context, teamID string) ([]judging.Assignment, error) {
	var rows []dbAssignment
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM team_judges WHERE team_id = $1 ORDER BY created_at`, teamID)
	if err != nil {
		return nil, errors.Wrap(err, "querying team assignments")
	}
	return assignmentUnrowSlice(rows), nil
}

func (repo judgingRepository) UpsertScores(ctx context.Context, scores []judging.Score) error {
	for _, s := range scores {
		s.ID = uuid.New().String()
		row := dbScore(s)
		_, err := repo.db.NamedExecContext(ctx,
			`INSERT INTO scores (id, team_id, judge_id, criteria_id, score, feedback, created_at, updated_at)
			 VALUES (:id, :team_id, :judge_id, :criteria_id, :score, :feedback, :created_at, :updated_at)
			 ON CONFLICT ON CONSTRAINT scores_team_judge_criteria_key
			 DO UPDATE SET score = EXCLUDED.score, feedback = EXCLUDED.feedback, updated_at = EXCLUDED.updated_at`, row)
		if err != nil {
			return errors.Wrap(err, "upserting score")
		}
	}
	return nil
}

func (repo judgingRepository) QueryTeamScores(ctx context.Context, teamID string) ([]judging.Score, error) {
	var rows []dbScore
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT s.*, c.weight AS weight
		 FROM scores s
		 JOIN evaluation_criteria c ON c.id = s.criteria_id
		 WHERE s.team_id = $1
		 ORDER BY s.created_at`, teamID)
	if err != nil {
		return nil, errors.Wrap(err, "querying team scores")
	}
	scores := make([]judging.Score, 0, len(rows))
	for _, s := range rows {
		scores = append(scores, scoreUnrow(s))
	}
	return scores, nil
}

func (repo judgingRepository) UpdateTeamTotalScore(ctx context.Context, teamID string, total float64) error {
	_, err := repo.db.ExecContext(ctx,
		`UPDATE team SET total_score = $2, updated_at = $3 WHERE id = $1`, teamID, total, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "updating team total score")
	}
	return nil
}
