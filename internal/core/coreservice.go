package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/artcolor/internal/backend/collection"
	"github.com/jo-hoe/artcolor/internal/backend/gallery"
	"github.com/jo-hoe/artcolor/internal/backend/imageprocessing"
	"github.com/jo-hoe/artcolor/internal/backend/metrics"
)

type CoreService struct {
	aggregator *gallery.Aggregator
	transports []*http.Transport
}

func NewCoreService(config *ServiceConfig) (*CoreService, error) {
	collectionTransport := http.DefaultTransport.(*http.Transport).Clone()
	collectionHTTPClient := &http.Client{
		Timeout:   config.Collection.RequestTimeout,
		Transport: metrics.InstrumentedTransport(metrics.TargetCollection, collectionTransport),
	}
	collectionClient, err := collection.NewClient(config.Collection.BaseURL, collectionHTTPClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize collection client: %w", err)
	}

	imageTransport := http.DefaultTransport.(*http.Transport).Clone()
	imageHTTPClient := &http.Client{
		Timeout:   config.Collection.RequestTimeout,
		Transport: metrics.InstrumentedTransport(metrics.TargetImage, imageTransport),
	}
	extractor := imageprocessing.NewExtractor(imageHTTPClient, imageprocessing.ExtractorConfig{
		MaxDimension:      config.ImageAnalysis.MaxDimension,
		MaxImageBytes:     config.ImageAnalysis.MaxImageBytes,
		MaxPixels:         config.ImageAnalysis.MaxPixels,
		SvgFallbackWidth:  config.ImageAnalysis.SvgFallbackWidth,
		SvgFallbackHeight: config.ImageAnalysis.SvgFallbackHeight,
	})

	aggregator := gallery.NewAggregator(collectionClient, extractor, gallery.Options{
		DepartmentName: config.Collection.DepartmentName,
		ObjectLimit:    config.Collection.ObjectLimit,
		Workers:        config.ImageAnalysis.Workers,
	})

	slog.Info("core service initialized",
		"collection_url", config.Collection.BaseURL,
		"department", config.Collection.DepartmentName,
		"object_limit", config.Collection.ObjectLimit,
		"workers", config.ImageAnalysis.Workers)

	return &CoreService{
		aggregator: aggregator,
		transports: []*http.Transport{collectionTransport, imageTransport},
	}, nil
}

// GetImages runs the aggregation pipeline for a single request.
func (service *CoreService) GetImages(ctx context.Context) ([]gallery.ImageRecord, error) {
	return service.aggregator.GetImages(ctx)
}

// Close releases idle upstream connections.
func (service *CoreService) Close() error {
	for _, transport := range service.transports {
		transport.CloseIdleConnections()
	}
	return nil
}
