// Package api exposes the synchronous mapping operations over HTTP.
package api

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"imagemapper/internal/cms"
	"imagemapper/internal/ingest"
	"imagemapper/internal/logger"
	"imagemapper/internal/publisher"
	"imagemapper/internal/validation"
	"imagemapper/pkg/errors"
	"imagemapper/pkg/logging"
	"imagemapper/pkg/metrics"
	"imagemapper/pkg/middleware"
)

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
	Detail    string `json:"detail,omitempty"`
}

type Handler struct {
	mapper    publisher.ContentMapper
	producing ingest.RecordPublisher
	validator ingest.EligibilityChecker
	logger    logger.Logger
	now       func() time.Time
}

func NewHandler(m publisher.ContentMapper, p ingest.RecordPublisher, v ingest.EligibilityChecker, log logger.Logger) *Handler {
	return &Handler{
		mapper:    m,
		producing: p,
		validator: v,
		logger:    log,
		now:       time.Now,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.POST("/map", h.MapImage)
	router.POST("/ingest", h.IngestImage)
}

func (h *Handler) HandleError(c *gin.Context, operation string, err error) {
	status := errors.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)
	} else {
		h.logger.WarnwCtx(c.Request.Context(), "Request rejected", "error", err, "path", c.Request.URL.Path)
	}

	metrics.IncHTTPRequest(operation, strconv.Itoa(status))
	c.JSON(status, errors.ToErrorResponse(err))
}

// MapImage godoc
// @Summary      Map a CMS image record
// @Description  Transform a native CMS image record into canonical image content
// @Tags         mapping
// @Accept       json
// @Produce      json
// @Param        X-Request-Id  header    string      false  "Transaction id"
// @Param        record        body      cms.Record  true   "CMS record"
// @Success      200           {object}  content.Content
// @Failure      400           {object}  ErrorResponse
// @Failure      422           {object}  ErrorResponse
// @Failure      500           {object}  ErrorResponse
// @Router       /map [post]
func (h *Handler) MapImage(c *gin.Context) {
	ctx, record, err := h.prepare(c)
	if err != nil {
		h.HandleError(c, "map", err)
		return
	}

	result, err := h.mapper.Map(ctx, record, middleware.TransactionID(c), h.now())
	if err != nil {
		h.HandleError(c, "map", asMappingError(err))
		return
	}

	metrics.IncHTTPRequest("map", strconv.Itoa(http.StatusOK))
	c.JSON(http.StatusOK, result)
}

// IngestImage godoc
// @Summary      Map and publish a CMS image record
// @Description  Transform a native CMS image record and publish it as a cms-content-published event
// @Tags         mapping
// @Accept       json
// @Param        X-Request-Id  header  string      false  "Transaction id"
// @Param        record        body    cms.Record  true   "CMS record"
// @Success      200
// @Failure      400  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /ingest [post]
func (h *Handler) IngestImage(c *gin.Context) {
	ctx, record, err := h.prepare(c)
	if err != nil {
		h.HandleError(c, "ingest", err)
		return
	}

	if err := h.producing.Map(ctx, record, middleware.TransactionID(c), h.now()); err != nil {
		h.HandleError(c, "ingest", asMappingError(err))
		return
	}

	metrics.IncHTTPRequest("ingest", strconv.Itoa(http.StatusOK))
	c.Status(http.StatusOK)
}

// prepare parses the record and applies the identity and eligibility gates.
func (h *Handler) prepare(c *gin.Context) (context.Context, *cms.Record, error) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ctx, nil, errors.ErrIngestion.WithCause(err)
	}

	record, err := cms.ParseRecord(body)
	if err != nil {
		return ctx, nil, errors.ErrIngestion.WithCause(err)
	}
	ctx = logging.WithUUID(ctx, record.UUID)

	if err := validation.ValidateUUID(record.UUID); err != nil {
		return ctx, nil, err
	}

	if !h.validator.IsEligibleForPublishing(ctx, record) {
		return ctx, nil, errors.ErrNotEligible.WithDetail("uuid", record.UUID)
	}

	return ctx, record, nil
}

// asMappingError keeps classified errors and folds anything else into a transformation failure.
func asMappingError(err error) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.ErrTransformation.WithCause(err)
}
