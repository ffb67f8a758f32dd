package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) organizations(c *gin.Context) {
	res, err := h.svc.ListOrganizations(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "organizations", res)
}

func (h *Handler) exportSnapshot(c *gin.Context) {
	snap, err := h.svc.ExportSnapshot(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "snapshot": snap})
}

func (h *Handler) importSnapshot(c *gin.Context) {
	var req importReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	rep := h.svc.ImportSnapshot(c.Request.Context(), req.Records)
	c.JSON(http.StatusOK, gin.H{"ok": len(rep.Failed) == 0, "report": rep})
}

func (h *Handler) clearCache(c *gin.Context) {
	if err := h.svc.ClearCache(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) clearAll(c *gin.Context) {
	if err := h.svc.ClearAll(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
