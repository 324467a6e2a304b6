package coercer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"catalogclean/domain/table"
)

// TypeCoercer infers column types from raw cell text and converts cells to typed values
type TypeCoercer struct {
	config  CoercionConfig
	missing map[string]bool
}

// CoercionConfig defines which tokens count as missing and which date layouts are accepted
type CoercionConfig struct {
	MissingTokens []string `json:"missing_tokens"`
	DateLayouts   []string `json:"date_layouts"`
}

// DefaultMissingTokens are the cell contents read as "no value", matching the
// usual NA markers of delimited exports
var DefaultMissingTokens = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// DefaultDateLayouts are tried in order. Month names match case-insensitively,
// so lowercased catalog dates such as "september 25, 2021" parse.
var DefaultDateLayouts = []string{
	table.DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"2 January 2006",
	"1/2/2006",
	"2006/01/02",
	"02-Jan-2006",
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		MissingTokens: append([]string(nil), DefaultMissingTokens...),
		DateLayouts:   append([]string(nil), DefaultDateLayouts...),
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	missing := make(map[string]bool, len(config.MissingTokens))
	for _, token := range config.MissingTokens {
		missing[token] = true
	}
	return &TypeCoercer{config: config, missing: missing}
}

// IsMissing reports whether a raw cell holds no value
func (c *TypeCoercer) IsMissing(raw string) bool {
	return c.missing[raw]
}

// ParseInteger parses a whole number, tolerating surrounding whitespace
func (c *TypeCoercer) ParseInteger(raw string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseFloat parses a finite decimal or scientific number
func (c *TypeCoercer) ParseFloat(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// ParseDate tries every configured layout, then a bare four digit year
func (c *TypeCoercer) ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range c.config.DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if len(s) == 4 {
		if year, err := strconv.Atoi(s); err == nil && year > 0 {
			return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}

// InferColumnType picks the narrowest type every non-missing value satisfies.
// A column whose cells are all missing is float, so it stays empty through
// imputation; a column without rows is text.
func (c *TypeCoercer) InferColumnType(values []string) table.ColumnType {
	analysis := c.AnalyzeTypeDistribution(values)
	return analysis.RecommendedType
}

// AllDates reports whether the column has values and every one parses as a date
func (c *TypeCoercer) AllDates(values []string) bool {
	seen := false
	for _, raw := range values {
		if c.IsMissing(raw) {
			continue
		}
		if _, ok := c.ParseDate(raw); !ok {
			return false
		}
		seen = true
	}
	return seen
}

// CoerceColumn converts raw cells to values of the given column type.
// Cells that do not parse as the type become missing.
func (c *TypeCoercer) CoerceColumn(values []string, typ table.ColumnType) []table.Value {
	out := make([]table.Value, len(values))
	for i, raw := range values {
		out[i] = c.CoerceValue(raw, typ)
	}
	return out
}

// CoerceValue converts a single raw cell
func (c *TypeCoercer) CoerceValue(raw string, typ table.ColumnType) table.Value {
	if c.IsMissing(raw) {
		return table.Missing()
	}

	switch typ {
	case table.ColumnInteger:
		if v, ok := c.ParseInteger(raw); ok {
			return table.Number(float64(v))
		}
	case table.ColumnFloat:
		if v, ok := c.ParseFloat(raw); ok {
			return table.Number(v)
		}
	case table.ColumnDate:
		if t, ok := c.ParseDate(raw); ok {
			return table.Date(t)
		}
	default:
		return table.Text(raw)
	}

	return table.Missing()
}

// AnalyzeTypeDistribution counts how many values parse as each type
func (c *TypeCoercer) AnalyzeTypeDistribution(values []string) TypeAnalysis {
	analysis := TypeAnalysis{
		TotalCount: len(values),
	}

	for _, raw := range values {
		if c.IsMissing(raw) {
			analysis.MissingCount++
			continue
		}
		analysis.ValidCount++

		if _, ok := c.ParseInteger(raw); ok {
			analysis.IntegerCount++
		}
		if _, ok := c.ParseFloat(raw); ok {
			analysis.NumericCount++
		}
	}

	analysis.RecommendedType = c.determineRecommendedType(analysis)
	return analysis
}

// determineRecommendedType requires every value to parse; a single stray token keeps the column text
func (c *TypeCoercer) determineRecommendedType(analysis TypeAnalysis) table.ColumnType {
	if analysis.TotalCount == 0 {
		return table.ColumnText
	}
	if analysis.ValidCount == 0 {
		return table.ColumnFloat
	}
	if analysis.IntegerCount == analysis.ValidCount {
		return table.ColumnInteger
	}
	if analysis.NumericCount == analysis.ValidCount {
		return table.ColumnFloat
	}
	return table.ColumnText
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int              `json:"total_count"`
	ValidCount      int              `json:"valid_count"`
	MissingCount    int              `json:"missing_count"`
	IntegerCount    int              `json:"integer_count"`
	NumericCount    int              `json:"numeric_count"`
	RecommendedType table.ColumnType `json:"recommended_type"`
}
