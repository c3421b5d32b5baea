package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"libraryfront/internal/catalog"
)

// DefaultPingInterval is how often an idle event stream sends a heartbeat.
const DefaultPingInterval = 25 * time.Second

type viewResponse struct {
	ID       string                  `json:"id"`
	Kind     catalog.Kind            `json:"kind"`
	Snapshot catalog.Snapshot        `json:"snapshot"`
	Display  []catalog.DisplayRecord `json:"display"`
	Status   *catalog.Status         `json:"status,omitempty"`
}

func newViewResponse(v *catalog.View, st *catalog.Status) viewResponse {
	snap := v.Snapshot()
	return viewResponse{
		ID:       v.ID(),
		Kind:     v.Kind(),
		Snapshot: snap,
		Display:  catalog.Display(snap.Items),
		Status:   st,
	}
}

type openViewRequest struct {
	Kind catalog.Kind `json:"kind"`
}

type searchRequest struct {
	Term string `json:"term"`
}

type pageRequest struct {
	Page int `json:"page"`
}

type filtersRequest struct {
	Category   string `json:"category"`
	Department string `json:"department"`
}

func lookupView(c *fiber.Ctx, reg *catalog.Registry) (*catalog.View, error) {
	v, ok := reg.Get(c.Params("id"))
	if !ok {
		return nil, writeError(c, fiber.StatusNotFound, "VIEW_NOT_FOUND", "view not found")
	}
	return v, nil
}

// OpenView creates a stateful view and loads its first page.
func OpenView(reg *catalog.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req openViewRequest
		if err := c.BodyParser(&req); err != nil || !req.Kind.Valid() {
			return writeError(c, fiber.StatusBadRequest, "INVALID_KIND", "kind must be admin or user")
		}
		v, st := reg.Open(c.UserContext(), req.Kind)
		return c.Status(fiber.StatusCreated).JSON(newViewResponse(v, &st))
	}
}

// GetView returns the current snapshot of view :id.
func GetView(reg *catalog.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := lookupView(c, reg)
		if v == nil {
			return err
		}
		return c.JSON(newViewResponse(v, nil))
	}
}

// SearchView feeds a search term into the view's debounce gate. The fetch happens later;
// subscribe to the event stream to observe it.
func SearchView(reg *catalog.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := lookupView(c, reg)
		if v == nil {
			return err
		}
		var req searchRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid search body")
		}
		v.Search(req.Term)
		return c.Status(fiber.StatusAccepted).JSON(newViewResponse(v, nil))
	}
}

// NextPage advances view :id by one page.
func NextPage(reg *catalog.Registry) fiber.Handler {
	return pageMove(reg, func(c *fiber.Ctx, v *catalog.View) (catalog.Status, bool) {
		return v.NextPage(c.UserContext())
	})
}

// PrevPage moves view :id back one page.
func PrevPage(reg *catalog.Registry) fiber.Handler {
	return pageMove(reg, func(c *fiber.Ctx, v *catalog.View) (catalog.Status, bool) {
		return v.PrevPage(c.UserContext())
	})
}

// GoToPage jumps view :id to the page in the body.
func GoToPage(reg *catalog.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := lookupView(c, reg)
		if v == nil {
			return err
		}
		var req pageRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid page body")
		}
		st, ok := v.GoToPage(c.UserContext(), req.Page)
		if !ok {
			return writeError(c, fiber.StatusConflict, "NO_PAGE", "no such page")
		}
		return c.JSON(newViewResponse(v, &st))
	}
}

func pageMove(reg *catalog.Registry, move func(*fiber.Ctx, *catalog.View) (catalog.Status, bool)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := lookupView(c, reg)
		if v == nil {
			return err
		}
		st, ok := move(c, v)
		if !ok {
			return writeError(c, fiber.StatusConflict, "NO_PAGE", "no such page")
		}
		return c.JSON(newViewResponse(v, &st))
	}
}

// ApplyFilters sets category and department on view :id and returns to page 1.
func ApplyFilters(reg *catalog.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := lookupView(c, reg)
		if v == nil {
			return err
		}
		var req filtersRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid filters body")
		}
		st := v.ApplyFilters(c.UserContext(), req.Category, req.Department)
		return c.JSON(newViewResponse(v, &st))
	}
}

// RefreshView refetches the current query of view :id, e.g. after the caller changed a book.
func RefreshView(reg *catalog.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := lookupView(c, reg)
		if v == nil {
			return err
		}
		st := v.Refresh(c.UserContext())
		return c.JSON(newViewResponse(v, &st))
	}
}

// CloseView tears view :id down.
func CloseView(reg *catalog.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !reg.Close(c.Params("id")) {
			return writeError(c, fiber.StatusNotFound, "VIEW_NOT_FOUND", "view not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ViewEvents streams view :id as Server-Sent Events: the current snapshot first, then a
// "snapshot" event after every settled fetch and a "ping" every interval.
// The stream ends when the view is closed or the client goes away.
func ViewEvents(reg *catalog.Registry, interval time.Duration) fiber.Handler {
	if interval <= 0 {
		interval = DefaultPingInterval
	}
	return func(c *fiber.Ctx) error {
		v, err := lookupView(c, reg)
		if v == nil {
			return err
		}
		ch, unsubscribe := v.Subscribe()
		first := v.Snapshot()

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			defer unsubscribe()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			if writeSnapshotEvent(w, first) != nil {
				return
			}
			for {
				select {
				case snap, ok := <-ch:
					if !ok {
						return
					}
					if writeSnapshotEvent(w, snap) != nil {
						return
					}
				case <-ticker.C:
					if _, err := w.WriteString("event: ping\ndata: {}\n\n"); err != nil {
						return
					}
					if w.Flush() != nil {
						return
					}
				}
			}
		})
		return nil
	}
}

func writeSnapshotEvent(w *bufio.Writer, snap catalog.Snapshot) error {
	b, err := json.Marshal(struct {
		catalog.Snapshot
		Display []catalog.DisplayRecord `json:"display"`
	}{snap, catalog.Display(snap.Items)})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", b); err != nil {
		return err
	}
	return w.Flush()
}
