package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/service"
)

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc *service.ProjectService
	log *zap.Logger
}

func New(svc *service.ProjectService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

type importReq struct {
	Records []domain.ProjectRecord `json:"records"`
}

// statusFor maps a returned error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInputValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err))
	}
	c.JSON(code, gin.H{"ok": false, "error": err.Error()})
}

// respond writes a tagged result under key, or a 404 for a NotFound result.
func respond[T any](c *gin.Context, code int, key string, res domain.Result[T]) {
	if res.Status == domain.StatusNotFound {
		body := gin.H{"ok": false, "status": res.Status, "error": errString(res.Err)}
		var nf *domain.NotFoundError
		if errors.As(res.Err, &nf) {
			body["available_ids"] = nf.AvailableIDs
		}
		c.JSON(http.StatusNotFound, body)
		return
	}

	body := gin.H{"ok": true, "source": res.Source, "status": res.Status, key: res.Value}
	if res.Err != nil {
		body["error"] = res.Err.Error()
	}
	c.JSON(code, body)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
