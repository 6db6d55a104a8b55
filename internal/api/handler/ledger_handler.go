package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clearbooks/ledger-api/internal/api/metrics"
	"github.com/clearbooks/ledger-api/internal/core/domain"
	"github.com/clearbooks/ledger-api/internal/core/ports"
	"github.com/clearbooks/ledger-api/internal/core/service"
)

type paginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type listEnvelope[T any] struct {
	Data       []T                        `json:"data"`
	Meta       *domain.PermissionMetadata `json:"_metadata,omitempty"`
	Pagination paginationResponse         `json:"pagination"`
}

// ResourceHandler exposes one ledger collection over HTTP. Every read
// response carries the caller's permission metadata so clients can render
// fields as editable, read-only or hidden without a second round trip.
type ResourceHandler[T any, PT interface {
	*T
	ports.Entity
}] struct {
	svc    *service.Resource[T, PT]
	decode func(c echo.Context) (*T, error)
}

func NewResourceHandler[T any, PT interface {
	*T
	ports.Entity
}](svc *service.Resource[T, PT], decode func(c echo.Context) (*T, error)) *ResourceHandler[T, PT] {
	return &ResourceHandler[T, PT]{svc: svc, decode: decode}
}

// Register mounts the CRUD routes under g. Deletes are always admin-only;
// creates are admin-only when adminCreate is set.
func (h *ResourceHandler[T, PT]) Register(g *echo.Group, adminOnly echo.MiddlewareFunc, adminCreate bool) {
	r := g.Group("/" + h.svc.Name())
	if adminCreate {
		r.POST("", h.Create, adminOnly)
	} else {
		r.POST("", h.Create)
	}
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.PATCH("/:id", h.Update)
	r.DELETE("/:id", h.Delete, adminOnly)
}

func (h *ResourceHandler[T, PT]) Create(c echo.Context) error {
	role, err := ctxRole(c)
	if err != nil {
		return err
	}
	doc, err := h.decode(c)
	if err != nil {
		return err
	}
	created, err := h.svc.Create(c.Request().Context(), doc)
	if err != nil {
		return err
	}
	meta := service.MetadataFor(h.svc.Name(), role)
	return c.JSON(http.StatusCreated, domain.Envelope[*T]{Data: created, Meta: &meta})
}

func (h *ResourceHandler[T, PT]) Get(c echo.Context) error {
	role, err := ctxRole(c)
	if err != nil {
		return err
	}
	doc, meta, err := h.svc.Get(c.Request().Context(), role, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.Envelope[*T]{Data: doc, Meta: &meta})
}

func (h *ResourceHandler[T, PT]) List(c echo.Context) error {
	role, err := ctxRole(c)
	if err != nil {
		return err
	}
	opts := service.ClampPage(ports.ListOptions{
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 0),
	})
	docs, total, meta, err := h.svc.List(c.Request().Context(), role, opts)
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []T{}
	}
	return c.JSON(http.StatusOK, listEnvelope[T]{
		Data: docs,
		Meta: &meta,
		Pagination: paginationResponse{
			Page:  opts.Page,
			Limit: opts.Limit,
			Total: total,
		},
	})
}

func (h *ResourceHandler[T, PT]) Update(c echo.Context) error {
	role, err := ctxRole(c)
	if err != nil {
		return err
	}
	var patch map[string]any
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	doc, err := h.svc.Update(c.Request().Context(), role, c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			metrics.PermissionDeniedTotal.WithLabelValues(h.svc.Name()).Inc()
		}
		return err
	}
	meta := service.MetadataFor(h.svc.Name(), role)
	return c.JSON(http.StatusOK, domain.Envelope[*T]{Data: doc, Meta: &meta})
}

func (h *ResourceHandler[T, PT]) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
