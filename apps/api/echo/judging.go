package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shindano/core"
	"github.com/trezcool/shindano/core/judging"
)

type judgingApi struct {
	svc      judging.Service
	validate *validator.Validate
}

func registerJudgingAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc judging.Service, validate *validator.Validate) {
	api := judgingApi{
		svc:      svc,
		validate: validate,
	}

	jg := g.Group("/judging", jwt)
	jg.GET("/assignments", api.myAssignments, judgeMiddleware())

	ag := g.Group("/teams/:id/judges", jwt)
	ag.GET("", api.queryTeamAssignments, adminMiddleware())
	ag.POST("", api.assign, adminMiddleware())
	ag.DELETE("", api.revoke, adminMiddleware())

	sg := g.Group("/teams/:id/scores", jwt)
	sg.POST("", api.submitScores, judgeMiddleware())
	sg.GET("", api.queryTeamScores, adminMiddleware())
}

// Handlers

// myAssignments lists the authenticated judge's team assignments.
func (api *judgingApi) myAssignments(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	assignments, err := api.svc.QueryByJudge(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying judge assignments")
	}
	if assignments == nil {
		assignments = []judging.Assignment{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *judgingApi) queryTeamAssignments(ctx echo.Context) error {
	assignments, err := api.svc.QueryByTeam(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying team assignments")
	}
	if assignments == nil {
		assignments = []judging.Assignment{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *judgingApi) assign(ctx echo.Context) error {
	var data AssignmentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignmentRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	a, err := api.svc.Assign(ctx.Request().Context(), ctx.Param("id"), data.JudgeID)
	if err != nil {
		if errors.Cause(err) == judging.ErrAlreadyAssigned {
			return core.NewValidationError(err)
		}
		return err
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *judgingApi) revoke(ctx echo.Context) error {
	var data AssignmentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignmentRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	if err := api.svc.Revoke(ctx.Request().Context(), ctx.Param("id"), data.JudgeID); err != nil {
		return errors.Wrap(err, "revoking assignment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// submitScores records the authenticated judge's scores for a team.
// The judge ID always comes from the token claims, never from the payload.
func (api *judgingApi) submitScores(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data judging.ScoreSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScoreSubmission")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.SubmitScores(ctx.Request().Context(), ctx.Param("id"), claims.Subject, data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

func (api *judgingApi) queryTeamScores(ctx echo.Context) error {
	scores, err := api.svc.QueryTeamScores(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying team scores")
	}
	if scores == nil {
		scores = []judging.Score{}
	}
	return ctx.JSON(http.StatusOK, scores)
}

type AssignmentRequest struct {
	JudgeID string `json:"judge_id" query:"judge_id" validate:"required"`
}
