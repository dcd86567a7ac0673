// Package activity maps raw content-bank activities into the DTOs accepted
// by the service's batch endpoints.
//
// Mapping is pure apart from logging: it strips URL fragments, drops
// disallowed negative costs and truncates over-long fields. None of these
// outcomes is an error.
package activity

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/pithecene-io/seedbank/log"
	"github.com/pithecene-io/seedbank/metrics"
	"github.com/pithecene-io/seedbank/types"
)

// Default limits match the service's column widths.
const (
	DefaultDescriptionLen = 255
	DefaultSourceLen      = 2048
)

// Limits bounds the mapped fields. Lengths count Unicode code points.
type Limits struct {
	DescriptionLen int
	SourceLen      int
	AllowNegative  bool
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{DescriptionLen: DefaultDescriptionLen, SourceLen: DefaultSourceLen}
}

// Validate checks that both lengths are positive.
func (l Limits) Validate() error {
	if l.DescriptionLen <= 0 {
		return types.ConfigError("description length must be positive, got %d", l.DescriptionLen)
	}
	if l.SourceLen <= 0 {
		return types.ConfigError("source length must be positive, got %d", l.SourceLen)
	}
	return nil
}

// Mapper converts RawActivity records to ActivityDTOs.
type Mapper struct {
	limits  Limits
	logger  *log.Logger
	metrics *metrics.Collector
}

// NewMapper creates a mapper. logger and collector may be nil.
func NewMapper(limits Limits, logger *log.Logger, collector *metrics.Collector) (*Mapper, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Mapper{limits: limits, logger: logger, metrics: collector}, nil
}

// Map converts one record. ok is false when the record is dropped.
func (m *Mapper) Map(raw types.RawActivity) (dto types.ActivityDTO, ok bool) {
	source := stripFragment(raw.Source)

	if !m.limits.AllowNegative && isNegative(raw.ConsumptionInWh) {
		m.logger.Warn("Dropping activity with negative cost", map[string]any{
			"id":   raw.ID,
			"cost": raw.ConsumptionInWh.String(),
		})
		m.metrics.IncRecordDropped()
		return types.ActivityDTO{}, false
	}

	description := raw.Title
	if truncated, cut := truncate(description, m.limits.DescriptionLen); cut {
		m.logger.Sugar().Warnf("Activity %s has a description longer than %d characters. Truncating.", raw.ID, m.limits.DescriptionLen)
		m.logger.Warn("Truncated description", map[string]any{"id": raw.ID, "description": description})
		m.metrics.IncDescriptionTruncated()
		description = truncated
	}

	if truncated, cut := truncate(source, m.limits.SourceLen); cut {
		m.logger.Sugar().Warnf("Activity %s has a source longer than %d characters. Truncating.", raw.ID, m.limits.SourceLen)
		m.logger.Warn("Truncated source", map[string]any{"id": raw.ID, "source": source})
		m.metrics.IncSourceTruncated()
		source = truncated
	}

	m.metrics.IncRecordMapped()
	return types.ActivityDTO{
		Description: description,
		Cost:        raw.ConsumptionInWh,
		Source:      source,
		Icon:        raw.ImagePath,
	}, true
}

// MapAll maps records in order, omitting dropped ones.
func (m *Mapper) MapAll(raws []types.RawActivity) []types.ActivityDTO {
	m.metrics.AddRecordsLoaded(len(raws))
	out := make([]types.ActivityDTO, 0, len(raws))
	for _, raw := range raws {
		if dto, ok := m.Map(raw); ok {
			out = append(out, dto)
		}
	}
	return out
}

// stripFragment removes everything from the first '#'.
func stripFragment(source string) string {
	before, _, _ := strings.Cut(source, "#")
	return before
}

// isNegative reports whether n is below zero. Negative zero is not.
func isNegative(n json.Number) bool {
	// Out-of-range literals parse to ±Inf with an error; the sign is still valid.
	f, _ := n.Float64()
	return f < 0
}

// truncate cuts s to limit code points.
func truncate(s string, limit int) (string, bool) {
	if utf8.RuneCountInString(s) <= limit {
		return s, false
	}
	i, n := 0, 0
	for i = range s {
		if n == limit {
			break
		}
		n++
	}
	return s[:i], true
}
