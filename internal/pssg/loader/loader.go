package loader

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/masajid/masajid-seo/internal/pkg/errors"
	"github.com/masajid/masajid-seo/internal/pssg/config"
	"github.com/masajid/masajid-seo/internal/pssg/entity"
)

// Strategy names the extraction path that produced a Result.
type Strategy int

const (
	StrategyFailed Strategy = iota
	StrategyStrict
	StrategyFallback
)

func (s Strategy) String() string {
	switch s {
	case StrategyStrict:
		return "strict"
	case StrategyFallback:
		return "fallback"
	default:
		return "failed"
	}
}

// Warning is a recoverable problem met while loading.
type Warning struct {
	Code    string
	Message string
}

func (w Warning) String() string {
	return w.Code + ": " + w.Message
}

// Result is the outcome of a load. Records keeps source order.
type Result struct {
	Strategy Strategy
	Records  []*entity.Mosque
	Warnings []Warning
	// Reason is set when Strategy is StrategyFailed.
	Reason string
}

// Loader is the interface for loading mosque records from the data source.
type Loader interface {
	Load() (*Result, error)
}

// New creates a loader based on the config data format.
func New(cfg *config.Config, log *zap.Logger) Loader {
	v := newRecordValidator(cfg.RegionKeys())
	switch cfg.Data.Format {
	case "json", "yaml":
		return &StructuredLoader{Config: cfg, Log: log, validator: v}
	default:
		return &LiteralLoader{Config: cfg, Log: log, validator: v}
	}
}

// failed builds the StrategyFailed result together with the error the
// caller must abort on.
func failed(res *Result, code, reason string, cause error) (*Result, error) {
	res.Strategy = StrategyFailed
	res.Records = nil
	res.Reason = reason
	return res, errors.Wrap(code, reason, cause)
}

func logResult(log *zap.Logger, path string, res *Result) {
	for _, w := range res.Warnings {
		log.Warn("data source warning",
			zap.String("code", w.Code),
			zap.String("detail", w.Message),
		)
	}
	log.Info("loaded mosque records",
		zap.String("path", path),
		zap.Stringer("strategy", res.Strategy),
		zap.Int("records", len(res.Records)),
		zap.Int("warnings", len(res.Warnings)),
	)
}

func recordLabel(index int, id string) string {
	if id == "" {
		return fmt.Sprintf("record %d", index+1)
	}
	return fmt.Sprintf("record %d (id %q)", index+1, id)
}
