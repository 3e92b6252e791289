package forecasts

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"forecast-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the forecast service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches forecast routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/assess", h.assess)
	rg.GET("/assessments", h.listAssessments)
	rg.GET("/assessments/:id", h.getAssessment)
}

func (h *Handler) assess(c *gin.Context) {
	var change ChangeRequest
	if err := c.ShouldBindJSON(&change); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid change request body", []map[string]string{
			{"field": "body", "issue": err.Error()},
		})
		return
	}

	result, err := h.Svc.Assess(c.Request.Context(), change)
	if err != nil {
		var validationErr *ValidationError
		var unknownErr *UnknownServiceError
		switch {
		case errors.As(err, &validationErr):
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid change request", validationErr.Details)
		case errors.As(err, &unknownErr):
			respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeUnknownService, unknownErr.Error(), gin.H{
				"unknown_services": unknownErr.Unknown,
				"known_services":   unknownErr.Known,
				"hint":             "Check the dependency graph file or fix the service name in services_touched.",
			})
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to assess change", nil)
		}
		return
	}

	// Expose assessment identifiers for the request logging middleware.
	c.Set("changeId", result.ChangeID)
	c.Set("riskScore", result.RiskScore)
	c.Set("riskLevel", string(result.RiskLevel))

	respond.JSON(c, http.StatusOK, result)
}

func (h *Handler) getAssessment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "assessment id is required", nil)
		return
	}

	assessment, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "assessment not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to fetch assessment", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, assessment)
}

func (h *Handler) listAssessments(c *gin.Context) {
	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	assessments, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to list assessments", nil)
		return
	}

	items := make([]gin.H, 0, len(assessments))
	for _, a := range assessments {
		items = append(items, gin.H{
			"id":          a.ID,
			"changeId":    a.ChangeID,
			"title":       a.Title,
			"environment": a.Environment,
			"changeType":  a.ChangeType,
			"riskScore":   a.RiskScore,
			"riskLevel":   a.RiskLevel,
			"confidence":  a.Confidence,
			"createdAt":   a.CreatedAt,
		})
	}

	respond.JSON(c, http.StatusOK, gin.H{"assessments": items})
}
