package optimizer

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeforge/internal/shared/apperr"
	"resumeforge/internal/shared/server/respond"
	"resumeforge/internal/shared/util"
)

// Handler wires HTTP handlers to the optimizer service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches optimizer routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/optimizer/run", h.run)
	rg.GET("/optimizer/download-pdf/:workflow_id", h.downloadPDF)
	rg.GET("/optimizer/preview/:workflow_id", h.preview)
}

func (h *Handler) run(c *gin.Context) {
	// Form fields or a JSON body, chosen by Content-Type.
	var in Input
	if err := c.ShouldBind(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "Request body could not be read.", nil)
		return
	}

	res, err := h.Svc.Run(c.Request.Context(), in)
	if err != nil {
		var stageErr *StageError
		switch {
		case apperr.Is(err, apperr.KindInput):
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, util.SanitizeError(errors.New(apperr.Message(err))), nil)
		case apperr.Is(err, apperr.KindUnavailable):
			respond.Error(c, http.StatusServiceUnavailable, ErrorCodeUnavailable, "State service unavailable.", nil)
		case errors.As(err, &stageErr):
			respond.Error(c, http.StatusInternalServerError, ErrorCodeWorkflow, util.SanitizeError(err), map[string]string{
				"stage": stageErr.Stage,
				"kind":  stageErr.Kind().String(),
			})
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeWorkflow, "An internal server error occurred during the workflow.", nil)
		}
		return
	}

	c.Set("workflowId", res.WorkflowID)
	respond.OK(c, res)
}

func (h *Handler) downloadPDF(c *gin.Context) {
	id := c.Param("workflow_id")
	pdf, err := h.Svc.PDF(c.Request.Context(), id)
	if err != nil {
		h.loadError(c, err, "An internal server error occurred during PDF generation.")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, DownloadName(id)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) preview(c *gin.Context) {
	doc, err := h.Svc.Preview(c.Request.Context(), c.Param("workflow_id"))
	if err != nil {
		h.loadError(c, err, "An internal server error occurred while rendering the preview.")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc))
}

func (h *Handler) loadError(c *gin.Context, err error, internalMsg string) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "Workflow not found or expired.", nil)
	case apperr.KindUnavailable:
		respond.Error(c, http.StatusServiceUnavailable, ErrorCodeUnavailable, "State service unavailable.", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeRender, internalMsg, nil)
	}
}

// DownloadName is the attachment file name for a workflow's PDF.
func DownloadName(id string) string {
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return "Optimized_Resume_" + short + ".pdf"
}
