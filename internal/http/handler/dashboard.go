package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"libraryfront/internal/model"
	"libraryfront/internal/service"
)

// resolveRange reads either ?start=&end= or a named ?range= (default monthToDate).
func resolveRange(c *fiber.Ctx, now func() time.Time) (model.DateRange, error) {
	if start, end := c.Query("start"), c.Query("end"); start != "" || end != "" {
		return service.ParseRange(start, end)
	}
	return service.ResolveRange(c.Query("range", service.RangeMonthToDate), now())
}

// GetDashboard aggregates the dashboard widgets for the requested range.
// now supplies "today" in the server's configured time zone.
func GetDashboard(svc service.DashboardService, now func() time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := resolveRange(c, now)
		if err != nil {
			return respondError(c, err)
		}
		d, err := svc.Get(c.UserContext(), r)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(d)
	}
}

// GetReport renders report :kind for the requested range and sends it as an attachment.
// When the copy was archived the presigned link is returned in X-Report-URL.
func GetReport(svc service.ReportService, now func() time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := resolveRange(c, now)
		if err != nil {
			return respondError(c, err)
		}
		rep, err := svc.Generate(c.UserContext(), model.ReportKind(c.Params("kind")), r)
		if err != nil {
			return respondError(c, err)
		}
		if rep.ArchiveURL != "" {
			c.Set("X-Report-URL", rep.ArchiveURL)
			c.Set("X-Report-URL-Expires", rep.URLExpires.UTC().Format(time.RFC3339))
		}
		c.Attachment(rep.FileName)
		c.Set(fiber.HeaderContentType, rep.ContentType)
		return c.Send(rep.Data)
	}
}

// ListAudit returns audit events using limit & offset.
func ListAudit(svc service.AuditService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			if errors.Is(err, service.ErrAuditDisabled) {
				return respondError(c, err)
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}
