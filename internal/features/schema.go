package features

import (
	"time"
)

// SchemaVersion is bumped whenever the numeric column set or its defaults change
const SchemaVersion = 1

// Numeric feature names, in canonical order
const (
	DaysSinceReference = "days_since_reference"
	AgeDays            = "age_days"
	IsWeekday          = "is_weekday"
	Month              = "month"
	Quarter            = "quarter"
	DayOfWeek          = "day_of_week"
	IsYearEnd          = "is_year_end"
	IsQuarterEnd       = "is_quarter_end"
	CommentLength      = "comment_length"
	CommentWordCount   = "comment_word_count"
	HasUrgent          = "has_urgent"
	HasNegotiation     = "has_negotiation"
	HasLegal           = "has_legal"
	HasFinancial       = "has_financial"
	HasPending         = "has_pending"
	HasDelay           = "has_delay"
	HasApproval        = "has_approval"
	PositiveSentiment  = "positive_sentiment"
	NegativeSentiment  = "negative_sentiment"
	ContractorLength   = "contractor_length"
	ProjectLength      = "project_length"
	TitleLength        = "title_length"
	IsAmendment        = "is_amendment"
	IsExtension        = "is_extension"
	IsService          = "is_service"
	IsSupply           = "is_supply"
	PriorityLevel      = "priority_level"
	RiskScore          = "risk_score"
)

// Categorical feature names
const (
	Country = "country"
	Project = "project"
)

// UnknownCategory is substituted for absent categorical values
const UnknownCategory = "Unknown"

// NumericColumns is the canonical numeric column order
var NumericColumns = []string{
	DaysSinceReference, AgeDays, IsWeekday, Month, Quarter, DayOfWeek,
	IsYearEnd, IsQuarterEnd,
	CommentLength, CommentWordCount,
	HasUrgent, HasNegotiation, HasLegal, HasFinancial, HasPending, HasDelay, HasApproval,
	PositiveSentiment, NegativeSentiment,
	ContractorLength, ProjectLength, TitleLength,
	IsAmendment, IsExtension, IsService, IsSupply,
	PriorityLevel, RiskScore,
}

// CategoricalColumns is the canonical categorical column order
var CategoricalColumns = []string{Country, Project}

// Schema is the frozen feature contract shared by training and inference
// A model only ever reads the columns listed here, in this order
type Schema struct {
	Version       int
	Numeric       []string
	Categorical   []string
	ReferenceDate time.Time
}

// NewSchema freezes the current column set against a reference date
func NewSchema(reference time.Time) Schema {
	return Schema{
		Version:       SchemaVersion,
		Numeric:       append([]string(nil), NumericColumns...),
		Categorical:   append([]string(nil), CategoricalColumns...),
		ReferenceDate: reference,
	}
}

// Empty reports whether the schema has no columns
func (s Schema) Empty() bool {
	return len(s.Numeric) == 0 && len(s.Categorical) == 0
}

// Columns returns every column name, numeric first
func (s Schema) Columns() []string {
	cols := make([]string, 0, len(s.Numeric)+len(s.Categorical))
	cols = append(cols, s.Numeric...)
	return append(cols, s.Categorical...)
}

// Row is a vector projected onto a schema
type Row struct {
	Numeric     []float64
	Categorical []string
}

// Project reads exactly the schema's columns from v. Missing numeric columns
// read as 0 and missing categoricals as UnknownCategory; anything on v that
// the schema does not name is ignored
func (s Schema) Project(v Vector) Row {
	row := Row{
		Numeric:     make([]float64, len(s.Numeric)),
		Categorical: make([]string, len(s.Categorical)),
	}
	for i, name := range s.Numeric {
		row.Numeric[i] = v.Numeric[name]
	}
	for i, name := range s.Categorical {
		val := v.Categorical[name]
		if val == "" {
			val = UnknownCategory
		}
		row.Categorical[i] = val
	}
	return row
}
