package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/service"
)

func (h *Handler) create(c *gin.Context) {
	var req domain.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	res, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	code := http.StatusCreated
	if !res.Synced() {
		code = http.StatusAccepted
	}
	respond(c, code, "project", res)
}

func (h *Handler) list(c *gin.Context) {
	ctx := c.Request.Context()

	if ordered, _ := strconv.ParseBool(c.Query("ordered")); ordered {
		respond(c, http.StatusOK, "projects", h.svc.GetAllOrdered(ctx))
		return
	}

	var (
		res domain.Result[[]domain.ProjectRecord]
		err error
	)
	switch {
	case c.Query("q") != "":
		res, err = h.svc.Search(ctx, c.Query("q"))
	case c.Query("status") != "":
		res, err = h.svc.FilterByStatus(ctx, c.Query("status"))
	case c.Query("from") != "" || c.Query("to") != "":
		from, ferr := service.ParseDateBound(c.Query("from"))
		to, terr := service.ParseDateBound(c.Query("to"))
		if ferr != nil || terr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "from/to must be RFC3339 or YYYY-MM-DD"})
			return
		}
		res, err = h.svc.FilterByDateRange(ctx, from, to)
	default:
		res, err = h.svc.GetAll(ctx)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "projects", res)
}

func (h *Handler) get(c *gin.Context) {
	res, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "project", res)
}

func (h *Handler) update(c *gin.Context) {
	var req domain.UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	res, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "project", res)
}

func (h *Handler) delete(c *gin.Context) {
	res, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "deleted", res)
}
