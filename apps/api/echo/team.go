package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shindano/core/team"
	"github.com/trezcool/shindano/core/user"
)

type teamApi struct {
	svc      team.Service
	validate *validator.Validate
}

func registerTeamAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc team.Service, validate *validator.Validate) {
	api := teamApi{
		svc:      svc,
		validate: validate,
	}

	eg := g.Group("/events/:id/teams", jwt)
	eg.POST("", api.create, adminMiddleware())
	eg.GET("", api.queryByEvent)

	tg := g.Group("/teams/:id", jwt)
	tg.GET("", api.retrieve)
	tg.PUT("", api.update, adminMiddleware())
	tg.DELETE("", api.destroy, adminMiddleware())

	tg.GET("/members", api.queryMembers)
	tg.POST("/members", api.addMember, adminMiddleware())
	tg.DELETE("/members/:userID", api.removeMember, adminMiddleware())
}

// Handlers

func (api *teamApi) create(ctx echo.Context) error {
	var data team.NewTeam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeam")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "creating team")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *teamApi) queryByEvent(ctx echo.Context) error {
	teams, err := api.svc.QueryByEvent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying teams")
	}
	if teams == nil {
		teams = []team.Team{}
	}
	return ctx.JSON(http.StatusOK, teams)
}

func (api *teamApi) retrieve(ctx echo.Context) error {
	t, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teamApi) update(ctx echo.Context) error {
	var data team.UpdateTeam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeam")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teamApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting team")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *teamApi) queryMembers(ctx echo.Context) error {
	members, err := api.svc.QueryMembers(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying team members")
	}
	if members == nil {
		members = []user.User{}
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *teamApi) addMember(ctx echo.Context) error {
	var data MembershipRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MembershipRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	if err := api.svc.AddMember(ctx.Request().Context(), ctx.Param("id"), data.UserID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *teamApi) removeMember(ctx echo.Context) error {
	if err := api.svc.RemoveMember(ctx.Request().Context(), ctx.Param("id"), ctx.Param("userID")); err != nil {
		return errors.Wrap(err, "removing team member")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type MembershipRequest struct {
	UserID string `json:"user_id" validate:"required"`
}
