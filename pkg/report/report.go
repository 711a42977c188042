// Package report defines the observability reporter consumed by the
// scoring core. Reporting never affects control flow: implementations
// must not return errors or panic.
package report

import (
	"context"

	"github.com/okian/hireflow/pkg/logger"
	"github.com/okian/hireflow/pkg/metrics"
)

// Reporter receives contained failures from best-effort steps.
type Reporter interface {
	Report(ctx context.Context, err error, component string, fields ...logger.Field)
}

// LogReporter implements Reporter over the structured logger and the
// per-component error counter.
type LogReporter struct {
	logger logger.Logger
}

// NewLogReporter creates a reporter writing to the given logger.
func NewLogReporter(l logger.Logger) *LogReporter {
	if l == nil {
		l = logger.Get().Named("report")
	}
	return &LogReporter{logger: l}
}

// Report logs the error with its component and counts it.
func (r *LogReporter) Report(ctx context.Context, err error, component string, fields ...logger.Field) {
	if err == nil {
		return
	}
	metrics.RecordErrorByComponent(component, "contained")
	fields = append(fields, logger.String("component", component), logger.Error(err))
	r.logger.Error(ctx, "contained failure", fields...)
}

// Nop is a Reporter that drops everything; handy in tests.
type Nop struct{}

// Report implements Reporter.
func (Nop) Report(context.Context, error, string, ...logger.Field) {}
