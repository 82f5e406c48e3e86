package team

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shindano/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("team not found")
)

type (
	Repository interface {
		CreateTeam(ctx context.Context, t Team) (Team, error)
		// QueryTeamsByEvent returns an Event's teams ordered by name.
		QueryTeamsByEvent(ctx context.Context, eventID string) ([]Team, error)
		GetTeam(ctx context.Context, id string) (Team, error)
		UpdateTeam(ctx context.Context, t Team) (Team, error)
		DeleteTeamsByID(ctx context.Context, ids ...string) error

		AddMember(ctx context.Context, teamID, userID string) error
		RemoveMember(ctx context.Context, teamID, userID string) error
		QueryMembers(ctx context.Context, teamID string) ([]user.User, error)
	}

	Service interface {
		Create(ctx context.Context, eventID string, nt NewTeam) (Team, error)
		QueryByEvent(ctx context.Context, eventID string) ([]Team, error)
		GetByID(ctx context.Context, id string) (Team, error)
		Update(ctx context.Context, id string, ut UpdateTeam) (Team, error)
		Delete(ctx context.Context, ids ...string) error
		AddMember(ctx context.Context, teamID, userID string) error
		RemoveMember(ctx context.Context, teamID, userID string) error
		QueryMembers(ctx context.Context, teamID string) ([]user.User, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, eventID string, nt NewTeam) (Team, error) {
	now := time.Now().UTC()
	t := Team{
		EventID:    eventID,
		Name:       nt.Name,
		SchoolName: null.NewString(nt.SchoolName, nt.SchoolName != ""),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateTeam(ctx, t)
}

func (svc *service) QueryByEvent(ctx context.Context, eventID string) ([]Team, error) {
	return svc.repo.QueryTeamsByEvent(ctx, eventID)
}

func (svc *service) GetByID(ctx context.Context, id string) (Team, error) {
	return svc.repo.GetTeam(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, ut UpdateTeam) (Team, error) {
	t, err := svc.repo.GetTeam(ctx, id)
	if err != nil {
		return Team{}, err
	}

	if ut.Name != "" {
		t.Name = ut.Name
	}
	if ut.SchoolName != "" {
		t.SchoolName = null.StringFrom(ut.SchoolName)
	}
	t.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateTeam(ctx, t)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteTeamsByID(ctx, ids...)
}

func (svc *service) AddMember(ctx context.Context, teamID, userID string) error {
	if _, err := svc.repo.GetTeam(ctx, teamID); err != nil {
		return err
	}
	return svc.repo.AddMember(ctx, teamID, userID)
}

func (svc *service) RemoveMember(ctx context.Context, teamID, userID string) error {
	return svc.repo.RemoveMember(ctx, teamID, userID)
}

func (svc *service) QueryMembers(ctx context.Context, teamID string) ([]user.User, error) {
	return svc.repo.QueryMembers(ctx, teamID)
}
