package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"geoverify-api/internal/metrics"
	"geoverify-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var errUploadTooLarge = errors.New("upload exceeds limit")

// VerifyImageHandler handles image verification requests
type VerifyImageHandler struct {
	service        VerifyService
	metrics        *metrics.Metrics
	maxUploadBytes int64
}

// VerifyService interface for dependency injection
type VerifyService interface {
	Verify(ctx context.Context, payload []byte, countryName string) models.VerificationResult
}

// NewVerifyImageHandler creates a new verify image handler
func NewVerifyImageHandler(svc VerifyService, m *metrics.Metrics, maxUploadBytes int64) *VerifyImageHandler {
	return &VerifyImageHandler{service: svc, metrics: m, maxUploadBytes: maxUploadBytes}
}

// VerifyImage handles POST /verify-image requests with multipart fields
// "image" and "country_name".
func (h *VerifyImageHandler) VerifyImage(c *gin.Context) {
	ctx := c.Request.Context()
	logger := zerolog.Ctx(ctx)
	logger.Info().Msg("received verification request")

	country := c.PostForm("country_name")

	payload, err := h.readImage(c)
	if errors.Is(err, errUploadTooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, models.Rejected(models.ReasonUploadTooBig))
		return
	}
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read uploaded image")
		c.JSON(http.StatusBadRequest, models.Rejected(models.ReasonNoImage))
		return
	}

	start := time.Now()
	result := h.service.Verify(ctx, payload, country)
	h.metrics.ObserveVerify(start)

	if payload == nil {
		h.metrics.IncrementMissingImage()
		c.JSON(http.StatusBadRequest, result)
		return
	}

	h.metrics.IncrementVerification(result.Verified)
	logger.Info().Bool("verified", result.Verified).Str("reason", result.Reason).Msg("verification complete")
	c.JSON(http.StatusOK, result)
}

// readImage returns the uploaded file's bytes, or nil when no file was sent.
func (h *VerifyImageHandler) readImage(c *gin.Context) ([]byte, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	if fileHeader.Size > h.maxUploadBytes {
		return nil, errUploadTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(payload)) > h.maxUploadBytes {
		return nil, errUploadTooLarge
	}
	return payload, nil
}
