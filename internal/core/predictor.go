package core

import (
	"go.uber.org/zap"

	"github.com/mikey/contract-sentinel/internal/features"
	"github.com/mikey/contract-sentinel/internal/record"
)

// Predictor scores single records against a bundle
type Predictor struct {
	cfg      Config
	engineer *features.Engineer
	logger   *zap.Logger
}

// NewPredictor creates a predictor
func NewPredictor(cfg Config, logger *zap.Logger) *Predictor {
	return &Predictor{
		cfg:      cfg,
		engineer: features.NewEngineer(),
		logger:   logger,
	}
}

// Vector derives the record's features against the bundle's frozen reference
// date, or against the record itself when there is no bundle
func (p *Predictor) Vector(r record.Record, b *Bundle) features.Vector {
	now := p.cfg.now()
	if b == nil || b.Schema.Empty() {
		return p.engineer.Vector(r, features.NewBatchContext([]record.Record{r}, now))
	}
	return p.engineer.Vector(r, features.BatchContext{Reference: b.Schema.ReferenceDate, Now: now})
}

// Predict returns the prediction for r. A nil or incomplete bundle yields
// DegradedPrediction rather than an error
func (p *Predictor) Predict(r record.Record, b *Bundle) PredictionResult {
	if !b.Usable() {
		return DegradedPrediction()
	}

	v := p.Vector(r, b)
	row := b.Schema.Project(v)
	score := v.Get(features.RiskScore)
	result := PredictionResult{
		RiskScore: score,
		RiskLevel: p.cfg.Risk.Classify(score),
	}

	x, err := b.Encoder.Transform(row.Numeric, row.Categorical)
	if err != nil {
		p.logger.Warn("Failed to encode record", zap.String("record", r.Label()), zap.Error(err))
		return result
	}

	proba, err := b.Classifier.PredictProba(x)
	if err != nil {
		p.logger.Warn("Classifier failed", zap.String("record", r.Label()), zap.Error(err))
		return result
	}

	classes := b.Classifier.Classes()
	result.Probabilities = make(map[string]float64, len(classes))
	best := 0
	for k, prob := range proba {
		result.Probabilities[classes[k]] = prob
		if prob > proba[best] {
			best = k
		}
	}
	result.Confidence = proba[best]
	if result.Confidence >= p.cfg.ConfidenceThreshold {
		label := classes[best]
		result.PredictedLabel = &label
	}

	if b.Detector != nil {
		anomaly, err := b.Detector.IsAnomaly(x)
		if err != nil {
			p.logger.Debug("Anomaly scoring failed", zap.String("record", r.Label()), zap.Error(err))
		} else {
			result.IsAnomaly = anomaly
		}
	}

	return result
}

// Rescore refreshes the date-dependent risk score and tier of a stored result
func (p *Predictor) Rescore(r record.Record, b *Bundle, result PredictionResult) PredictionResult {
	score := p.Vector(r, b).Get(features.RiskScore)
	result.RiskScore = score
	result.RiskLevel = p.cfg.Risk.Classify(score)
	return result
}
