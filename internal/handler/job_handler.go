package handler

import (
	"property-card-be/internal/pkg/logger"
	"property-card-be/internal/pkg/serverutils"
	"property-card-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// JobHandler exposes manual triggers for the scheduled jobs so operators can
// rerun one without waiting for its next tick.
type JobHandler struct {
	lifecycle service.ICardLifecycleService
	reminders service.IFeeReminderService
	sweeper   service.IPaymentSweeper
	logger    logger.ILogger
}

func NewJobHandler(
	lifecycle service.ICardLifecycleService,
	reminders service.IFeeReminderService,
	sweeper service.IPaymentSweeper,
	log logger.ILogger,
) *JobHandler {
	return &JobHandler{
		lifecycle: lifecycle,
		reminders: reminders,
		sweeper:   sweeper,
		logger:    log,
	}
}

func (h *JobHandler) runJob(c *fiber.Ctx, name string, run func() error) error {
	h.logger.Info("JobHandler", "Manual job trigger", map[string]interface{}{"job": name})
	if err := run(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"job":   name,
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"job": name, "status": "completed"})
}

func (h *JobHandler) RunStatusUpdate(c *fiber.Ctx) error {
	return h.runJob(c, "card-status-update", func() error {
		return h.lifecycle.RunStatusUpdate(c.UserContext())
	})
}

func (h *JobHandler) RunReminders(c *fiber.Ctx) error {
	return h.runJob(c, "card-fee-reminders", func() error {
		return h.reminders.RunReminders(c.UserContext())
	})
}

func (h *JobHandler) RunSweep(c *fiber.Ctx) error {
	return h.runJob(c, "payment-sweep", func() error {
		return h.sweeper.RunSweep(c.UserContext())
	})
}

// RegisterRoutes registers the job trigger routes.
func (h *JobHandler) RegisterRoutes(router fiber.Router) {
	jobs := router.Group("/jobs")
	jobs.Use(serverutils.JwtMiddleware)
	jobs.Post("/card-status-update/run", h.RunStatusUpdate)
	jobs.Post("/card-fee-reminders/run", h.RunReminders)
	jobs.Post("/payment-sweep/run", h.RunSweep)
}
