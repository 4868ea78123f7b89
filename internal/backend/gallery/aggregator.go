// Package gallery aggregates artwork metadata of one museum department and annotates
// every artwork with the dominant color of its image.
package gallery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/artcolor/internal/backend/collection"
	"github.com/jo-hoe/artcolor/internal/backend/metrics"
	"github.com/jo-hoe/artcolor/internal/backend/palette"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultDepartmentName = "European Paintings"
	DefaultObjectLimit    = 100
)

// Collection is the read side of the museum collection API.
type Collection interface {
	ListDepartments(ctx context.Context) ([]collection.Department, error)
	ListObjectIDs(ctx context.Context, departmentID int) ([]int, error)
	FetchObject(ctx context.Context, objectID int) (*collection.Object, error)
}

// ColorExtractor derives the dominant color of the image behind a URL.
type ColorExtractor interface {
	DominantColor(ctx context.Context, imageURL string) (palette.RGB, error)
}

type Options struct {
	DepartmentName string
	ObjectLimit    int
	// Workers bounds how many remote calls run at once. 1 processes items strictly in sequence.
	Workers int
}

type Aggregator struct {
	collection Collection
	extractor  ColorExtractor
	options    Options
}

func NewAggregator(collection Collection, extractor ColorExtractor, options Options) *Aggregator {
	if options.DepartmentName == "" {
		options.DepartmentName = DefaultDepartmentName
	}
	if options.ObjectLimit <= 0 {
		options.ObjectLimit = DefaultObjectLimit
	}
	if options.Workers <= 0 {
		options.Workers = 1
	}
	return &Aggregator{
		collection: collection,
		extractor:  extractor,
		options:    options,
	}
}

// ResolveDepartmentID returns the ID of the first department whose display name equals
// the configured name. found is false when no department matches.
func (a *Aggregator) ResolveDepartmentID(ctx context.Context) (id int, found bool, err error) {
	departments, err := a.collection.ListDepartments(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to list departments: %w", err)
	}
	for _, department := range departments {
		if department.DisplayName == a.options.DepartmentName {
			return department.DepartmentID, true, nil
		}
	}
	return 0, false, nil
}

// GetImages returns the annotated records of the configured department in object-ID order.
// Any failed remote call aborts the whole run; no partial result is returned.
func (a *Aggregator) GetImages(ctx context.Context) ([]ImageRecord, error) {
	departmentID, found, err := a.ResolveDepartmentID(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		slog.Info("department not found; returning empty result", "department", a.options.DepartmentName)
		return []ImageRecord{}, nil
	}

	objectIDs, err := a.collection.ListObjectIDs(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects of department %d: %w", departmentID, err)
	}
	if len(objectIDs) > a.options.ObjectLimit {
		objectIDs = objectIDs[:a.options.ObjectLimit]
	}
	slog.Debug("resolved department",
		"department", a.options.DepartmentName,
		"department_id", departmentID,
		"object_count", len(objectIDs))

	records, err := a.fetchRecords(ctx, objectIDs)
	if err != nil {
		return nil, err
	}
	if err := a.annotateColors(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (a *Aggregator) fetchRecords(ctx context.Context, objectIDs []int) ([]ImageRecord, error) {
	records := make([]ImageRecord, len(objectIDs))
	err := a.forEach(ctx, len(objectIDs), func(ctx context.Context, i int) error {
		object, err := a.collection.FetchObject(ctx, objectIDs[i])
		if err != nil {
			return fmt.Errorf("failed to fetch object %d: %w", objectIDs[i], err)
		}
		slog.Debug("fetched object", "object_id", object.ObjectID, "title", object.Title)
		records[i] = NewImageRecord(object)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *Aggregator) annotateColors(ctx context.Context, records []ImageRecord) error {
	return a.forEach(ctx, len(records), func(ctx context.Context, i int) error {
		record := &records[i]
		source := record.colorSourceURL()
		if source == "" {
			return nil
		}
		color, err := a.extractor.DominantColor(ctx, source)
		if err != nil {
			return fmt.Errorf("failed to derive dominant color of object %d: %w", record.ObjectID, err)
		}
		record.SetDominantColor(color)
		metrics.PrimaryColorsTotal.WithLabelValues(string(record.DominantPrimaryColor)).Inc()
		return nil
	})
}

// forEach runs fn for every index in [0, n) with at most Workers calls in flight.
// Indices are started in order, and no new index is started once a call has failed.
// A panicking call is reported as an error.
func (a *Aggregator) forEach(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(a.options.Workers)

	for i := 0; i < n; i++ {
		if groupCtx.Err() != nil {
			break
		}
		i := i
		group.Go(func() (err error) {
			// worker panics are not seen by the HTTP recover middleware
			defer func() {
				if r := recover(); r != nil {
					slog.Error("Aggregator: recovered panic", "index", i, "panic", r)
					err = fmt.Errorf("panic while processing item %d: %v", i, r)
				}
			}()
			// a slot may free up only after an earlier call failed
			if groupCtx.Err() != nil {
				return nil
			}
			return fn(groupCtx, i)
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
