package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mazoezi/core"
	"github.com/trezcool/mazoezi/core/practice"
	calendarsvc "github.com/trezcool/mazoezi/services/calendar"
)

var (
	errPracNotFoundInCtx = errors.New("practice object not found in echo.Context")
	errScopeRequired     = "choose whether the change applies to this practice only or to all practices in its series"
	errScopeInvalid      = "must be one of: this, series"
)

type practiceApi struct {
	svc      *practice.Service
	conf     *core.Config
	validate *validator.Validate
}

func registerPracticeAPI(g *echo.Group, svc *practice.Service, conf *core.Config, validate *validator.Validate) {
	api := practiceApi{
		svc:      svc,
		conf:     conf,
		validate: validate,
	}

	pg := g.Group("/practices")
	pg.POST("", api.create)
	pg.GET("", api.query)
	pg.GET("/calendar.ics", api.calendarFeed)

	// detail endpoints
	dg := pg.Group("/:id", ctxPracticeMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)

	dg.POST("/activities", api.addActivity)
	dg.POST("/activities/move", api.moveActivity)
	dg.PUT("/activities/:aid", api.updateActivity)
	dg.DELETE("/activities/:aid", api.removeActivity)
}

// Handlers

func (api *practiceApi) create(ctx echo.Context) error {
	var data practice.NewPractice
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPractice")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	practices, err := api.svc.CreateSchedule(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating schedule")
	}

	return ctx.JSON(http.StatusCreated, practices)
}

func (api *practiceApi) query(ctx echo.Context) error {
	filter := new(practice.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []practice.Practice{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	practices, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying practices")
	}
	if practices == nil {
		practices = []practice.Practice{}
	}
	return ctx.JSON(http.StatusOK, practices)
}

func (api *practiceApi) retrieve(ctx echo.Context) error {
	prac, ok := ctx.Get("object").(practice.Practice)
	if !ok {
		return errors.Wrap(errPracNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, prac)
}

func (api *practiceApi) update(ctx echo.Context) error {
	prac, ok := ctx.Get("object").(practice.Practice)
	if !ok {
		return errors.Wrap(errPracNotFoundInCtx, "retrieving object from context")
	}

	var data practice.UpdatePractice
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePractice")
	}
	if err := data.Validate(prac, api.validate); err != nil {
		return err
	}

	scope, err := api.bindScope(ctx, prac)
	if err != nil {
		return err
	}

	prac, err = api.svc.Update(ctx.Request().Context(), prac.ID, data, scope)
	if err != nil {
		return errors.Wrap(err, "updating practice")
	}

	return ctx.JSON(http.StatusOK, prac)
}

func (api *practiceApi) destroy(ctx echo.Context) error {
	prac, ok := ctx.Get("object").(practice.Practice)
	if !ok {
		return errors.Wrap(errPracNotFoundInCtx, "retrieving object from context")
	}

	scope, err := api.bindScope(ctx, prac)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), prac.ID, scope); err != nil {
		return errors.Wrap(err, "deleting practice")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *practiceApi) addActivity(ctx echo.Context) error {
	prac, ok := ctx.Get("object").(practice.Practice)
	if !ok {
		return errors.Wrap(errPracNotFoundInCtx, "retrieving object from context")
	}

	var data practice.NewActivity
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewActivity")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	prac, err := api.svc.AddActivity(ctx.Request().Context(), prac.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding activity")
	}
	return ctx.JSON(http.StatusOK, prac)
}

func (api *practiceApi) updateActivity(ctx echo.Context) error {
	prac, ok := ctx.Get("object").(practice.Practice)
	if !ok {
		return errors.Wrap(errPracNotFoundInCtx, "retrieving object from context")
	}

	var data practice.UpdateActivity
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateActivity")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	prac, err := api.svc.UpdateActivity(ctx.Request().Context(), prac.ID, ctx.Param("aid"), data)
	if err != nil {
		if errors.Cause(err) == practice.ErrActivityNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating activity")
	}
	return ctx.JSON(http.StatusOK, prac)
}

func (api *practiceApi) removeActivity(ctx echo.Context) error {
	prac, ok := ctx.Get("object").(practice.Practice)
	if !ok {
		return errors.Wrap(errPracNotFoundInCtx, "retrieving object from context")
	}

	prac, err := api.svc.RemoveActivity(ctx.Request().Context(), prac.ID, ctx.Param("aid"))
	if err != nil {
		if errors.Cause(err) == practice.ErrActivityNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "removing activity")
	}
	return ctx.JSON(http.StatusOK, prac)
}

func (api *practiceApi) moveActivity(ctx echo.Context) error {
	prac, ok := ctx.Get("object").(practice.Practice)
	if !ok {
		return errors.Wrap(errPracNotFoundInCtx, "retrieving object from context")
	}

	var data MoveActivityRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MoveActivityRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	prac, err := api.svc.MoveActivity(ctx.Request().Context(), prac.ID, data.From, data.To)
	if err != nil {
		return errors.Wrap(err, "moving activity")
	}
	return ctx.JSON(http.StatusOK, prac)
}

func (api *practiceApi) calendarFeed(ctx echo.Context) error {
	filter := new(practice.QueryFilter)
	if err := ctx.Bind(filter); err == nil {
		filter.Clean()
	}

	practices, err := api.svc.Query(ctx.Request().Context(), filter, nil)
	if err != nil {
		return errors.Wrap(err, "querying practices")
	}

	feed := calendarsvc.BuildCalendar(api.conf.AppName, practices)
	return ctx.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

// bindScope resolves the edit/delete scope for prac: a standalone practice
// (or a series shrunk to one member) always proceeds as ThisOnly; a practice
// with living siblings requires an explicit choice via the `scope` query param.
func (api *practiceApi) bindScope(ctx echo.Context, prac practice.Practice) (practice.Scope, error) {
	siblingCount, err := api.svc.SiblingCount(ctx.Request().Context(), prac)
	if err != nil {
		return "", errors.Wrap(err, "counting series siblings")
	}
	if practice.ResolveScope(prac, siblingCount) == practice.DecisionSingle {
		return practice.ScopeThisOnly, nil
	}

	raw := ctx.QueryParam("scope")
	if raw == "" {
		return "", core.NewValidationError(nil, core.FieldError{Field: "scope", Error: errScopeRequired})
	}
	scope, err := practice.ParseScope(raw)
	if err != nil {
		return "", core.NewValidationError(nil, core.FieldError{Field: "scope", Error: errScopeInvalid})
	}
	return scope, nil
}

func ctxPracticeMiddleware(svc *practice.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			prac, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == practice.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding practice by ID")
			}
			ctx.Set("object", prac)
			return next(ctx)
		}
	}
}

type MoveActivityRequest struct {
	From int `json:"from" validate:"min=0"`
	To   int `json:"to" validate:"min=0"`
}
