package analyses

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resumeforge/internal/shared/apperr"
	"resumeforge/internal/shared/server/respond"
	"resumeforge/internal/shared/util"
)

// MaxUploadBytes caps the size of an uploaded resume.
const MaxUploadBytes = 10 << 20

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
}

func (h *Handler) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+1<<20)

	jobRole := c.PostForm("job_role")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "file is required", []map[string]string{
			{"field": "file", "issue": "missing"},
		})
		return
	}
	if jobRole == "" {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "job_role is required", []map[string]string{
			{"field": "job_role", "issue": "missing"},
		})
		return
	}
	if fileHeader.Size > MaxUploadBytes {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "file is too large", []map[string]string{
			{"field": "file", "issue": "too_large"},
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "could not read uploaded file", nil)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "could not read uploaded file", nil)
		return
	}

	analysis, err := h.Svc.Analyze(c.Request.Context(), Upload{
		Data:     data,
		FileName: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		JobRole:  jobRole,
	})
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindInput:
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, util.SanitizeError(errors.New(apperr.Message(err))), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "An internal error occurred during the analysis pipeline.", nil)
		}
		return
	}

	c.Set("analysisId", analysis.ID)
	c.Header("Location", "/api/v1/analyses/"+analysis.ID)
	respond.OK(c, analysis.Report)
}

func (h *Handler) getAnalysis(c *gin.Context) {
	analysisID := c.Param("id")
	if analysisID == "" {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "analysis id is required", nil)
		return
	}

	analysis, err := h.Svc.Get(c.Request.Context(), analysisID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to fetch analysis", nil)
		}
		return
	}

	respond.OK(c, analysis)
}

func (h *Handler) listAnalyses(c *gin.Context) {
	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	analyses, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to list analyses", nil)
		return
	}

	resp := make([]gin.H, 0, len(analyses))
	for _, a := range analyses {
		resp = append(resp, gin.H{
			"analysisId":   a.ID,
			"jobRole":      a.JobRole,
			"fileName":     a.FileName,
			"overallScore": a.Report.OverallScore,
			"createdAt":    a.CreatedAt,
		})
	}

	respond.OK(c, resp)
}
