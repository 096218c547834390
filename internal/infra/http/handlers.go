package http

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"time"

	"soundcheck/internal/domain"
	"soundcheck/internal/usecase"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type scoreRequest struct {
	Identifier    string `json:"identifier"`
	IntegrityPass *bool  `json:"integrity_pass"`
	AudioScore    *int   `json:"audio_quality_score"`
	PolicyRisk    *int   `json:"policy_risk"`
}

type verifySubmissionRequest struct {
	Archive     archiveInput           `json:"archive"`
	ClaimedHash string                 `json:"claimed_hash"`
	Stream      domain.StreamInfo      `json:"stream"`
	Submitter   domain.SubmissionFacts `json:"submitter"`
}

type archiveInput struct {
	MediaType   string `json:"media_type"`
	BytesBase64 string `json:"bytes_base64"`
}

type reportResponse struct {
	Identifier        string   `json:"identifier"`
	IntegrityScore    int      `json:"integrity_score"`
	AudioQualityScore int      `json:"audio_quality_score"`
	PolicyRisk        int      `json:"policy_risk"`
	OverallScore      int      `json:"overall_score"`
	Verdict           string   `json:"verdict"`
	Reasons           []string `json:"reasons,omitempty"`
	ScorerVersion     string   `json:"scorer_version"`
	CreatedAt         string   `json:"created_at"`
}

type verifySubmissionResponse struct {
	reportResponse
	Policy     domain.RiskEvaluation `json:"policy"`
	Superseded bool                  `json:"superseded"`
}

type listReportsResponse struct {
	Reports []reportResponse `json:"reports"`
}

func (s *Server) handleScore(c *gin.Context) {
	if !s.enforceRateLimit(c, routeScore) {
		return
	}
	if s.scorer == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if req.IntegrityPass == nil || req.AudioScore == nil || req.PolicyRisk == nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_INPUT", "integrity_pass, audio_quality_score and policy_risk are required")
		return
	}
	report, err := s.scorer.Score(req.Identifier, *req.IntegrityPass, *req.AudioScore, *req.PolicyRisk)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildReportResponse(report))
}

func (s *Server) handleVerifySubmission(c *gin.Context) {
	if !s.enforceRateLimit(c, routeVerify) {
		return
	}
	if s.verifyUC == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	var req verifySubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	archive, err := base64.StdEncoding.DecodeString(req.Archive.BytesBase64)
	if err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_INPUT", "invalid archive encoding")
		return
	}

	result, err := s.verifyUC.Execute(c.Request.Context(), usecase.VerifySubmissionRequest{
		Archive:     archive,
		MediaType:   req.Archive.MediaType,
		ClaimedHash: req.ClaimedHash,
		Stream:      req.Stream,
		Submitter:   req.Submitter,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, verifySubmissionResponse{
		reportResponse: buildReportResponse(result.Report),
		Policy:         result.Policy,
		Superseded:     result.Superseded,
	})
}

func (s *Server) handleGetReport(c *gin.Context) {
	if s.reports == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	identifier := c.Param("identifier")
	report, err := s.reports.GetByIdentifier(c.Request.Context(), identifier)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildReportResponse(*report))
}

func (s *Server) handleListReports(c *gin.Context) {
	if !s.requireAdmin(c) {
		return
	}
	if s.reports == nil {
		c.JSON(http.StatusOK, listReportsResponse{Reports: []reportResponse{}})
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeErrorCode(c, http.StatusBadRequest, "INVALID_INPUT", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}
	reports, err := s.reports.List(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	out := listReportsResponse{Reports: make([]reportResponse, 0, len(reports))}
	for _, report := range reports {
		out.Reports = append(out.Reports, buildReportResponse(report))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) requireAdmin(c *gin.Context) bool {
	if s.adminAPIKey == "" {
		writeError(c, domain.ErrUnauthorized)
		return false
	}
	provided := c.GetHeader("X-Admin-Key")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(s.adminAPIKey)) != 1 {
		writeError(c, domain.ErrUnauthorized)
		return false
	}
	return true
}

func buildReportResponse(report domain.VerificationReport) reportResponse {
	return reportResponse{
		Identifier:        report.Identifier,
		IntegrityScore:    report.IntegrityScore,
		AudioQualityScore: report.AudioQualityScore,
		PolicyRisk:        report.PolicyRisk,
		OverallScore:      report.OverallScore,
		Verdict:           string(report.Verdict),
		Reasons:           report.Reasons,
		ScorerVersion:     report.ScorerVersion,
		CreatedAt:         report.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, domain.ErrInvalidScore):
		status, code = http.StatusBadRequest, "INVALID_SCORE"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	}
	writeErrorCode(c, status, code, err.Error())
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{
		Code:    code,
		Message: message,
	})
}
