package backend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/artcolor/internal/backend/gallery"
	"github.com/jo-hoe/artcolor/internal/backend/metrics"
	"github.com/jo-hoe/artcolor/internal/common"

	"github.com/labstack/echo/v4"
)

const (
	HealthPath  = "/health"
	MetricsPath = "/metrics"

	errorKindRemoteCall = "remote_call"
	errorKindParse      = "parse"
	errorKindTimeout    = "timeout"
	errorKindInternal   = "internal"
)

// ImageSource produces the annotated artwork records served on the root route.
type ImageSource interface {
	GetImages(ctx context.Context) ([]gallery.ImageRecord, error)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type APIService struct {
	images ImageSource
}

func NewAPIService(images ImageSource) *APIService {
	return &APIService{
		images: images,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	e.GET("/", s.getImagesHandler)
	e.GET(HealthPath, func(c echo.Context) error {
		return c.String(http.StatusOK, "API Service is running")
	})
	e.GET(MetricsPath, metrics.Handler())
}

func (s *APIService) getImagesHandler(ctx echo.Context) error {
	records, err := s.images.GetImages(ctx.Request().Context())
	if err != nil {
		status, response := toErrorResponse(err)
		slog.Error("getImagesHandler: failed to aggregate images",
			"status", status, "kind", response.Error, "error", err)
		return ctx.JSON(status, response)
	}
	return ctx.JSON(http.StatusOK, records)
}

// toErrorResponse maps a pipeline failure onto a status code and response body.
func toErrorResponse(err error) (int, ErrorResponse) {
	var remoteErr *common.RemoteCallError
	var parseErr *common.ParseError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorResponse{Error: errorKindTimeout, Message: err.Error()}
	case errors.As(err, &remoteErr):
		return http.StatusBadGateway, ErrorResponse{Error: errorKindRemoteCall, Message: err.Error()}
	case errors.As(err, &parseErr):
		return http.StatusBadGateway, ErrorResponse{Error: errorKindParse, Message: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: errorKindInternal, Message: err.Error()}
	}
}
