package core

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mikey/contract-sentinel/internal/features"
	"github.com/mikey/contract-sentinel/internal/ml"
	"github.com/mikey/contract-sentinel/internal/record"
	"github.com/mikey/contract-sentinel/internal/statusset"
)

// Trainer fits a classifier and an anomaly detector on the open records of a batch
type Trainer struct {
	cfg      Config
	closed   *statusset.Set
	engineer *features.Engineer
	logger   *zap.Logger
}

// NewTrainer creates a trainer
func NewTrainer(cfg Config, logger *zap.Logger) *Trainer {
	return &Trainer{
		cfg:      cfg,
		closed:   statusset.New(cfg.ClosedStatuses, logger),
		engineer: features.NewEngineer(),
		logger:   logger,
	}
}

// OpenRecords returns records whose status is non-empty and not closed
func (t *Trainer) OpenRecords(records []record.Record) []record.Record {
	open := make([]record.Record, 0, len(records))
	for _, r := range records {
		status := r.Status()
		if status == "" || t.closed.Contains(status) {
			continue
		}
		open = append(open, r)
	}
	return open
}

// Train builds a new bundle. The returned error wraps one of the training
// sentinels when a precondition fails
func (t *Trainer) Train(records []record.Record) (*Bundle, *TrainingSummary, error) {
	if len(records) < t.cfg.MinTrainingRecords {
		return nil, nil, fmt.Errorf("%w: got %d records, need at least %d",
			ErrInsufficientData, len(records), t.cfg.MinTrainingRecords)
	}
	if !record.HasField(records, record.FieldStatus) {
		return nil, nil, fmt.Errorf("%w: no record has a %q field", ErrMissingTargetColumn, record.FieldStatus)
	}

	open := t.OpenRecords(records)
	if len(open) == 0 {
		return nil, nil, ErrNoOpenRecords
	}

	labels := make([]string, len(open))
	counts := make(map[string]int)
	for i, r := range open {
		labels[i] = r.Status()
		counts[labels[i]]++
	}
	if len(counts) < 2 {
		return nil, nil, fmt.Errorf("%w: found %d", ErrInsufficientLabelDiversity, len(counts))
	}

	vectors, ctx := t.engineer.Batch(open, t.cfg.now())
	schema := features.NewSchema(ctx.Reference)

	numeric := make([][]float64, len(vectors))
	categorical := make([][]string, len(vectors))
	for i, v := range vectors {
		row := schema.Project(v)
		numeric[i] = row.Numeric
		categorical[i] = row.Categorical
	}

	encoder, err := ml.FitEncoder(numeric, categorical)
	if err != nil {
		return nil, nil, fmt.Errorf("fit encoder: %w", err)
	}
	X, err := encoder.TransformAll(numeric, categorical)
	if err != nil {
		return nil, nil, fmt.Errorf("encode training rows: %w", err)
	}

	classifier := ml.NewRandomForest(t.cfg.Forest)
	if err := classifier.Fit(X, labels); err != nil {
		return nil, nil, fmt.Errorf("fit classifier: %w", err)
	}

	detector := ml.NewIsolationForest(t.cfg.Isolation)
	if err := detector.Fit(X); err != nil {
		return nil, nil, fmt.Errorf("fit anomaly detector: %w", err)
	}

	folds := t.cfg.CVFolds
	if folds > len(X) {
		folds = len(X)
	}
	var accuracy *float64
	var cvErr string
	if acc, err := ml.CrossValidate(t.cfg.Forest, X, labels, folds); err != nil {
		t.logger.Warn("Cross-validation failed, accuracy unknown", zap.Error(err))
		cvErr = err.Error()
	} else {
		accuracy = &acc
	}

	trainedAt := t.cfg.now()
	bundle := &Bundle{
		ID:         uuid.NewString(),
		TrainedAt:  trainedAt,
		Schema:     schema,
		Encoder:    encoder,
		Classifier: classifier,
		Detector:   detector,
		Accuracy:   accuracy,
		Records:    len(open),
		Classes:    classifier.Classes(),
	}

	classes := make([]string, 0, len(counts))
	for c := range counts {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	summary := &TrainingSummary{
		BundleID:     bundle.ID,
		TrainedAt:    trainedAt,
		TotalRecords: len(records),
		OpenRecords:  len(open),
		ClassCounts:  counts,
		Classes:      classes,
		FeatureCount: len(schema.Columns()),
		EncodedWidth: encoder.Width(),
		Accuracy:     accuracy,
		CVFolds:      folds,
		CVError:      cvErr,
	}
	return bundle, summary, nil
}
