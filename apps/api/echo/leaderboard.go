package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shindano/core/leaderboard"
)

type leaderboardApi struct {
	svc leaderboard.Service
}

func registerLeaderboardAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc leaderboard.Service) {
	api := leaderboardApi{svc: svc}

	lg := g.Group("/events/:id/leaderboard", jwt)
	lg.GET("", api.query)
	lg.POST("/recalculate", api.recalculate, adminMiddleware())
}

// Handlers

// query returns the last persisted snapshot; it does not recompute anything.
func (api *leaderboardApi) query(ctx echo.Context) error {
	entries, err := api.svc.Query(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying leaderboard")
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *leaderboardApi) recalculate(ctx echo.Context) error {
	entries, err := api.svc.Recalculate(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "rankings": entries})
}
