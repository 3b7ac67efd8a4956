package http

import (
	"errors"
	"net/http"
	"time"

	"docflow/internal/domain"
	"docflow/internal/usecase"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type capabilityResponse struct {
	SignatureURL string `json:"signatureUrl"`
	Token        string `json:"token"`
	ExpiresAt    string `json:"expiresAt"`
}

type grantResponse struct {
	DocumentID    string `json:"documentId"`
	SlotName      string `json:"slotName"`
	SignerUserID  string `json:"signerUserId"`
	SignerName    string `json:"signerName"`
	DocumentTitle string `json:"documentTitle"`
	ExpiresAt     string `json:"expiresAt,omitempty"`
}

type uploadRequest struct {
	Token     string `json:"token"`
	ImageData string `json:"imageData"`
}

type uploadResponse struct {
	Message       string `json:"message"`
	SignatureID   string `json:"signatureId"`
	AlreadySigned bool   `json:"alreadySigned,omitempty"`
}

type slotStatusResponse struct {
	Status       string `json:"status"`
	SignedAt     string `json:"signedAt,omitempty"`
	SignedByName string `json:"signedByName,omitempty"`
}

type documentStatusResponse struct {
	Status        string   `json:"status"`
	RequiredSlots []string `json:"requiredSlots"`
	SignedSlots   []string `json:"signedSlots"`
	MissingSlots  []string `json:"missingSlots"`
}

func (s *Server) handleHealthz(c *gin.Context) {
	mode := "no-db"
	if s.dbMode {
		mode = "db"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": mode})
}

func (s *Server) handleCapability(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	if s.issueUC == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	documentID := c.Query("documentId")
	slotName := c.Query("slotName")
	if documentID == "" || slotName == "" {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "documentId and slotName are required")
		return
	}
	resp, err := s.issueUC.Execute(c.Request.Context(), usecase.IssueCapabilityRequest{
		Principal:  principal,
		DocumentID: documentID,
		SlotName:   slotName,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, capabilityResponse{
		SignatureURL: resp.SignatureURL,
		Token:        resp.Token,
		ExpiresAt:    resp.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleValidateToken(c *gin.Context) {
	if !s.enforceRateLimit(c, "signatures:validate") {
		return
	}
	if s.validateUC == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	tok := c.Query("token")
	if tok == "" {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "token is required")
		return
	}
	grant, err := s.validateUC.Execute(c.Request.Context(), tok)
	if err != nil {
		writeError(c, err)
		return
	}
	out := grantResponse{
		DocumentID:    grant.DocumentID,
		SlotName:      grant.SlotName,
		SignerUserID:  grant.SignerUserID,
		SignerName:    grant.SignerName,
		DocumentTitle: grant.DocumentTitle,
	}
	if !grant.ExpiresAt.IsZero() {
		out.ExpiresAt = grant.ExpiresAt.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleUpload(c *gin.Context) {
	if !s.enforceRateLimit(c, "signatures:upload") {
		return
	}
	if s.submitUC == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if req.Token == "" || req.ImageData == "" {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "token and imageData are required")
		return
	}
	resp, err := s.submitUC.Execute(c.Request.Context(), usecase.SubmitSignatureRequest{
		Token:     req.Token,
		ImageData: req.ImageData,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	message := "signature recorded"
	if resp.AlreadySigned {
		message = "slot already signed"
	}
	c.JSON(http.StatusOK, uploadResponse{
		Message:       message,
		SignatureID:   resp.SignatureID,
		AlreadySigned: resp.AlreadySigned,
	})
}

func (s *Server) handleSlotStatus(c *gin.Context) {
	if s.slotStatusUC == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	documentID := c.Param("document_id")
	slotName := c.Param("slot_name")
	status, err := s.slotStatusUC.Execute(c.Request.Context(), documentID, slotName)
	if err != nil {
		writeError(c, err)
		return
	}
	out := slotStatusResponse{Status: "pending"}
	if status.Signed {
		out.Status = "signed"
		out.SignedByName = status.SignedByName
		if status.SignedAt != nil {
			out.SignedAt = status.SignedAt.UTC().Format(time.RFC3339)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleDocumentStatus(c *gin.Context) {
	if _, ok := s.requireAuth(c); !ok {
		return
	}
	if s.completion == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	state, err := s.completion.State(c.Request.Context(), c.Param("document_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, documentStatusResponse{
		Status:        string(state.Status),
		RequiredSlots: state.RequiredSlots,
		SignedSlots:   state.SignedSlots,
		MissingSlots:  state.MissingSlots,
	})
}

func (s *Server) handleDocumentFile(c *gin.Context) {
	if _, ok := s.requireAuth(c); !ok {
		return
	}
	if s.documents == nil || s.blobs == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	doc, err := s.documents.GetByID(c.Request.Context(), c.Param("document_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if doc.StorageRef == nil {
		writeError(c, domain.ErrNotFound)
		return
	}
	body, contentType, err := s.blobs.Download(c.Request.Context(), *doc.StorageRef)
	if err != nil {
		writeError(c, err)
		return
	}
	defer body.Close()
	if contentType == "" {
		contentType = doc.ContentType
	}
	c.DataFromReader(http.StatusOK, -1, contentType, body, map[string]string{
		"Content-Disposition": `inline; filename="` + doc.OriginalFilename + `"`,
	})
}

func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidSlot):
		status, code = http.StatusBadRequest, "INVALID_SLOT"
	case errors.Is(err, domain.ErrAlreadySigned):
		status, code = http.StatusBadRequest, "ALREADY_SIGNED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrInvalidToken):
		status, code = http.StatusUnauthorized, "INVALID_TOKEN"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrInvalidImageFormat):
		status, code = http.StatusBadRequest, "INVALID_IMAGE_FORMAT"
	case errors.Is(err, domain.ErrInvalidImageData):
		status, code = http.StatusBadRequest, "INVALID_IMAGE_DATA"
	case errors.Is(err, domain.ErrStorageUnavailable):
		status, code = http.StatusGatewayTimeout, "STORAGE_UNAVAILABLE"
	case errors.Is(err, domain.ErrStorage):
		status, code = http.StatusBadGateway, "STORAGE_ERROR"
	}
	writeErrorCode(c, status, code, err.Error())
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{
		Code:    code,
		Message: message,
	})
}
