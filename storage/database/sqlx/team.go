package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shindano/core/team"
	"github.com/trezcool/shindano/core/user"
)

type teamRepository struct {
	db *sqlx.DB
}

var _ team.Repository = (*teamRepository)(nil) // interface compliance check

func NewTeamRepository(db *sqlx.DB) *teamRepository {
	return &teamRepository{db: db}
}

type dbTeam struct {
	ID         string      `db:"id"`
	EventID    string      `db:"event_id"`
	Name       string      `db:"name"`
	SchoolName null.String `db:"school_name"`
	TotalScore float64     `db:"total_score"`
	CreatedAt  time.Time   `db:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at"`
}

func teamRow(t team.Team) dbTeam {
	return dbTeam{
		ID:         t.ID,
		EventID:    t.EventID,
		Name:       t.Name,
		SchoolName: t.SchoolName,
		TotalScore: t.TotalScore,
		CreatedAt:  t.CreatedAt.UTC(),
		UpdatedAt:  t.UpdatedAt.UTC(),
	}
}

func teamUnrow(t dbTeam) team.Team {
	return team.Team{
		ID:         t.ID,
		EventID:    t.EventID,
		Name:       t.Name,
		SchoolName: t.SchoolName,
		TotalScore: t.TotalScore,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func teamUnrowSlice(rows []dbTeam) []team.Team {
	teams := make([]team.Team, 0, len(rows))
	for _, t := range rows {
		teams = append(teams, teamUnrow(t))
	}
	return teams
}

func (repo teamRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return team.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo teamRepository) CreateTeam(ctx context.Context, t team.Team) (team.Team, error) {
	t.ID = uuid.New().String()
	row := teamRow(t)
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO team (id, event_id, name, school_name, total_score, created_at, updated_at)
		 VALUES (:id, :event_id, :name, :school_name, :total_score, :created_at, :updated_at)`, row)
	if err != nil {
		return team.Team{}, errors.Wrap(err, "inserting team")
	}
	return teamUnrow(row), nil
}

func (repo teamRepository) QueryTeamsByEvent(ctx context.Context, eventID string) ([]team.Team, error) {
	var rows []dbTeam
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM team WHERE event_id = $1 ORDER BY name`, eventID); err != nil {
		return nil, errors.Wrap(err, "querying teams")
	}
	return teamUnrowSlice(rows), nil
}

func (repo teamRepository) GetTeam(ctx context.Context, id string) (team.Team, error) {
	if _, err := uuid.Parse(id); err != nil {
		return team.Team{}, team.ErrNotFound
	}
	var t dbTeam
	if err := repo.db.GetContext(ctx, &t, `SELECT * FROM team WHERE id = $1`, id); err != nil {
		return team.Team{}, repo.trapNoRowsErr(err, "finding team by ID")
	}
	return teamUnrow(t), nil
}

func (repo teamRepository) UpdateTeam(ctx context.Context, t team.Team) (team.Team, error) {
	row := teamRow(t)
	_, err := repo.db.NamedExecContext(ctx,
		`UPDATE team SET name = :name, school_name = :school_name, updated_at = :updated_at WHERE id = :id`, row)
	if err != nil {
		return team.Team{}, errors.Wrap(err, "updating team")
	}
	return teamUnrow(row), nil
}

func (repo teamRepository) DeleteTeamsByID(ctx context.Context, ids ...string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM team WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting teams")
	}
	return nil
}

func (repo teamRepository) AddMember(ctx context.Context, teamID, userID string) error {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO team_member (team_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, teamID, userID)
	if err != nil {
		return errors.Wrap(err, "adding team member")
	}
	return nil
}

func (repo teamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	_, err := repo.db.ExecContext(ctx,
		`DELETE FROM team_member WHERE team_id = $1 AND user_id = $2`, teamID, userID)
	if err != nil {
		return errors.Wrap(err, "removing team member")
	}
	return nil
}

func (repo teamRepository) QueryMembers(ctx context.Context, teamID string) ([]user.User, error) {
	var rows []dbUser
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT u.* FROM "user" u
		 JOIN team_member tm ON tm.user_id = u.id
		 WHERE tm.team_id = $1
		 ORDER BY u.name`, teamID)
	if err != nil {
		return nil, errors.Wrap(err, "querying team members")
	}
	uRepo := userRepository{}
	return uRepo.unrowSlice(rows), nil
}
