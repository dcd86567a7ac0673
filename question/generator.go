// Package question asks the service to generate multiple-choice questions
// from the activities it already holds.
package question

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pithecene-io/seedbank/log"
	"github.com/pithecene-io/seedbank/metrics"
	"github.com/pithecene-io/seedbank/transport"
	"github.com/pithecene-io/seedbank/types"
)

// MultipleChoicePath is resolved relative to the API base URL, so a base with
// a path prefix keeps it.
const MultipleChoicePath = "api/question/mc"

// DefaultCount is the number of questions generated when none is configured.
const DefaultCount = 20

// progressEvery controls which progress lines are logged at info level.
const progressEvery = 10

// Generator issues one PUT per question.
type Generator struct {
	sender  transport.Sender
	headers types.AuthHeaders
	logger  *log.Logger
	metrics *metrics.Collector
}

// NewGenerator creates a generator. logger and collector may be nil.
func NewGenerator(sender transport.Sender, headers types.AuthHeaders, logger *log.Logger, collector *metrics.Collector) *Generator {
	if logger == nil {
		logger = log.Nop()
	}
	return &Generator{sender: sender, headers: headers.Clone(), logger: logger, metrics: collector}
}

// Generate creates count questions in sequence and stops at the first
// failure. A count below one is rejected before any request.
func (g *Generator) Generate(ctx context.Context, count int) error {
	if count < 1 {
		return types.ConfigError("total count must be at least 1, got %d", count)
	}

	sugar := g.logger.Sugar()
	for i := 1; i <= count; i++ {
		if i%progressEvery == 0 {
			sugar.Infof("Creating MC question %d of %d", i, count)
		} else {
			sugar.Debugf("Creating MC question %d of %d", i, count)
		}

		result, err := g.sender.Send(ctx, transport.Request{
			Method:  http.MethodPut,
			Path:    MultipleChoicePath,
			Headers: g.headers,
		})
		if err != nil {
			g.metrics.IncQuestionFailed()
			g.logger.Error(fmt.Sprintf("Failed to create MC question %d", i), map[string]any{"error": err.Error()})
			return err
		}
		if !result.OK() {
			g.metrics.IncQuestionFailed()
			g.logger.Error(fmt.Sprintf("Failed to create MC question %d", i), map[string]any{
				"status_code": result.StatusCode,
				"response":    result.BodyText(),
			})
			return types.NewStatusError(types.ErrUpload, fmt.Sprintf("question %d", i), result)
		}

		g.metrics.IncQuestionCreated()
		sugar.Debugf("Created MC question %d of %d", i, count)
	}

	g.logger.Info("All questions generated", map[string]any{"count": count})
	return nil
}
