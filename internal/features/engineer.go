// Package features derives the numeric and categorical feature vector of a
// contract record. Derivation is pure: the same record and batch context
// always produce the same vector, and malformed input degrades to defaults
package features

import (
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mikey/contract-sentinel/internal/record"
	"github.com/mikey/contract-sentinel/internal/risk"
)

// Priority ordinals
const (
	PriorityLow     = 1
	PriorityMedium  = 2
	PriorityHigh    = 3
	PriorityDefault = PriorityMedium
)

// Vector is the engineered view of one record
type Vector struct {
	Numeric     map[string]float64
	Categorical map[string]string
	Date        time.Time
	HasDate     bool
	AgeDays     int
}

// Get returns a numeric feature, 0 when absent
func (v Vector) Get(name string) float64 {
	return v.Numeric[name]
}

// Flag reports whether a boolean feature is set
func (v Vector) Flag(name string) bool {
	return v.Numeric[name] != 0
}

// Engineer turns records into vectors
type Engineer struct{}

// NewEngineer creates a feature engineer
func NewEngineer() *Engineer {
	return &Engineer{}
}

// Lower lower-cases text with Unicode-aware case mapping
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// PriorityOrdinal maps a priority label to 3/2/1. Anything unrecognised maps
// to Medium so an unmapped priority is never treated as least risky
func PriorityOrdinal(priority string) int {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "high":
		return PriorityHigh
	case "medium":
		return PriorityMedium
	case "low":
		return PriorityLow
	default:
		return PriorityDefault
	}
}

// Batch derives vectors for every record against a shared batch context
func (e *Engineer) Batch(records []record.Record, now time.Time) ([]Vector, BatchContext) {
	ctx := NewBatchContext(records, now)
	out := make([]Vector, len(records))
	for i, r := range records {
		out[i] = e.Vector(r, ctx)
	}
	return out, ctx
}

// Vector derives the feature vector of one record
func (e *Engineer) Vector(r record.Record, ctx BatchContext) Vector {
	v := Vector{
		Numeric:     make(map[string]float64, len(NumericColumns)),
		Categorical: make(map[string]string, len(CategoricalColumns)),
	}
	for _, name := range NumericColumns {
		v.Numeric[name] = 0
	}

	e.timeFeatures(&v, r, ctx)
	e.textFeatures(&v, r)
	e.metadataFeatures(&v, r)

	v.Numeric[RiskScore] = risk.Score(risk.Factors{
		AgeDays:  v.Numeric[AgeDays],
		Priority: v.Numeric[PriorityLevel],
		Urgent:   v.Flag(HasUrgent),
		Delay:    v.Flag(HasDelay),
		Negative: v.Flag(NegativeSentiment),
	})

	v.Categorical[Country] = categoryOrUnknown(r.Get(record.FieldCountry))
	v.Categorical[Project] = categoryOrUnknown(r.Get(record.FieldProject))
	return v
}

func (e *Engineer) timeFeatures(v *Vector, r record.Record, ctx BatchContext) {
	date, ok := ParseDate(r.Get(record.FieldDate))
	if !ok {
		return
	}
	v.Date = date
	v.HasDate = true
	v.AgeDays = DaysBetween(date, ctx.Now)

	// Monday=0 .. Sunday=6
	dow := (int(date.Weekday()) + 6) % 7
	month := int(date.Month())

	v.Numeric[DaysSinceReference] = float64(DaysBetween(ctx.Reference, date))
	v.Numeric[AgeDays] = float64(v.AgeDays)
	v.Numeric[IsWeekday] = boolFloat(dow < 5)
	v.Numeric[Month] = float64(month)
	v.Numeric[Quarter] = float64((month-1)/3 + 1)
	v.Numeric[DayOfWeek] = float64(dow)
	v.Numeric[IsYearEnd] = boolFloat(month == 11 || month == 12)
	v.Numeric[IsQuarterEnd] = boolFloat(month%3 == 0)
}

func (e *Engineer) textFeatures(v *Vector, r record.Record) {
	comment := Lower(r.Status())
	v.Numeric[CommentLength] = float64(utf8.RuneCountInString(comment))
	v.Numeric[CommentWordCount] = float64(len(strings.Fields(comment)))

	v.Numeric[HasUrgent] = boolFloat(Matches(FamilyUrgent, comment))
	v.Numeric[HasNegotiation] = boolFloat(Matches(FamilyNegotiation, comment))
	v.Numeric[HasLegal] = boolFloat(Matches(FamilyLegal, comment))
	v.Numeric[HasFinancial] = boolFloat(Matches(FamilyFinancial, comment))
	v.Numeric[HasPending] = boolFloat(Matches(FamilyPending, comment))
	v.Numeric[HasDelay] = boolFloat(Matches(FamilyDelay, comment))
	v.Numeric[HasApproval] = boolFloat(Matches(FamilyApproval, comment))
	v.Numeric[PositiveSentiment] = boolFloat(Matches(FamilyPositive, comment))
	v.Numeric[NegativeSentiment] = boolFloat(Matches(FamilyNegative, comment))
}

func (e *Engineer) metadataFeatures(v *Vector, r record.Record) {
	v.Numeric[ContractorLength] = float64(utf8.RuneCountInString(r.Get(record.FieldContractor)))
	v.Numeric[ProjectLength] = float64(utf8.RuneCountInString(r.Get(record.FieldProject)))
	v.Numeric[TitleLength] = float64(utf8.RuneCountInString(r.Title()))

	title := Lower(r.Title())
	v.Numeric[IsAmendment] = boolFloat(Matches(FamilyAmendment, title))
	v.Numeric[IsExtension] = boolFloat(Matches(FamilyExtension, title))
	v.Numeric[IsService] = boolFloat(Matches(FamilyService, title))
	v.Numeric[IsSupply] = boolFloat(Matches(FamilySupply, title))

	v.Numeric[PriorityLevel] = float64(PriorityOrdinal(r.Get(record.FieldPriority)))
}

func categoryOrUnknown(s string) string {
	if s == "" {
		return UnknownCategory
	}
	return s
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
