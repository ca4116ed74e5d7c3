package runs

import (
	"errors"

	"filelist-diff/core/history"
	"filelist-diff/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for recorded runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the runs routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/runs")
	group.Get("/", h.HandleList)
	group.Get("/:id", h.HandleGet)
}

// runView is a run with its summary rendered for humans.
type runView struct {
	history.Run
	Report string `json:"report"`
}

func newRunView(r history.Run) runView {
	return runView{Run: r, Report: r.Summary().String()}
}

// HandleList returns the most recent runs.
// @Summary List Runs
// @Description Lists recorded comparison runs, newest first.
// @Tags runs
// @Produce json
// @Param limit query int false "Maximum number of runs (default 20, max 500)"
// @Success 200 {object} map[string]interface{} "Runs"
// @Failure 503 {object} map[string]string "History not configured"
// @Router /runs [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	limit := c.QueryInt("limit", history.DefaultLimit)
	if limit <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be a positive integer",
		})
	}

	runs, err := h.service.List(c.Context(), limit)
	if err != nil {
		return h.fail(c, l, err)
	}

	views := make([]runView, 0, len(runs))
	for _, r := range runs {
		views = append(views, newRunView(r))
	}
	return c.JSON(fiber.Map{
		"runs":  views,
		"count": len(views),
	})
}

// HandleGet returns a single run.
// @Summary Get Run
// @Description Returns one recorded comparison run with its summary.
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /runs/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	run, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(newRunView(*run))
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, history.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, history.ErrUnavailable):
		status = fiber.StatusServiceUnavailable
	default:
		l.Error("Run history query failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
