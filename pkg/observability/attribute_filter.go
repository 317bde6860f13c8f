package observability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// attrRule matches a span attribute key by prefix, or exactly when exact is
// set. The first matching rule decides; unmatched keys are dropped.
type attrRule struct {
	key   string
	exact bool
	allow bool
}

func (r attrRule) matches(key string) bool {
	if r.exact {
		return key == r.key
	}

	return strings.HasPrefix(key, r.key)
}

// attrRules keep commit authors and other personal data out of exported
// spans while letting the engine's own attributes through.
var attrRules = []attrRule{
	{key: "author", exact: true},
	{key: "email", exact: true},
	{key: "author."},
	{key: "user."},
	{key: "error", exact: true, allow: true},
	{key: "error.", allow: true},
	{key: "count", allow: true},
	{key: "commitplot.", allow: true},
	{key: "linelog.", allow: true},
	{key: "commits.", allow: true},
	{key: "filter.", allow: true},
	{key: "scale.", allow: true},
	{key: "session.", allow: true},
	{key: "render.", allow: true},
	{key: "export.", allow: true},
}

// attributeFilter is a SpanProcessor that strips blocked and unknown
// attributes before forwarding to a delegate processor.
type attributeFilter struct {
	delegate sdktrace.SpanProcessor
	logger   *slog.Logger
	warned   sync.Map
}

// NewAttributeFilter returns a SpanProcessor that keeps only allow-listed
// span attributes. When logger is non-nil each dropped key is logged at warn.
func NewAttributeFilter(delegate sdktrace.SpanProcessor, logger *slog.Logger) sdktrace.SpanProcessor {
	return &attributeFilter{delegate: delegate, logger: logger}
}

// OnStart delegates to the wrapped processor.
func (f *attributeFilter) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	f.delegate.OnStart(parent, s)
}

// OnEnd filters attributes, then delegates to the wrapped processor.
func (f *attributeFilter) OnEnd(s sdktrace.ReadOnlySpan) {
	f.delegate.OnEnd(&filteredSpan{ReadOnlySpan: s, filter: f})
}

// Shutdown delegates to the wrapped processor.
func (f *attributeFilter) Shutdown(ctx context.Context) error {
	err := f.delegate.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("attribute filter shutdown: %w", err)
	}

	return nil
}

// ForceFlush delegates to the wrapped processor.
func (f *attributeFilter) ForceFlush(ctx context.Context) error {
	err := f.delegate.ForceFlush(ctx)
	if err != nil {
		return fmt.Errorf("attribute filter flush: %w", err)
	}

	return nil
}

func (f *attributeFilter) isAllowed(key string) bool {
	for _, rule := range attrRules {
		if !rule.matches(key) {
			continue
		}

		if !rule.allow {
			f.warn(key)
		}

		return rule.allow
	}

	f.warn(key)

	return false
}

// warn logs a dropped key once per filter.
func (f *attributeFilter) warn(key string) {
	if f.logger == nil {
		return
	}

	if _, seen := f.warned.LoadOrStore(key, struct{}{}); !seen {
		f.logger.Warn("attribute blocked by filter", "key", key)
	}
}

// filteredSpan wraps a ReadOnlySpan and returns only allowed attributes.
type filteredSpan struct {
	sdktrace.ReadOnlySpan

	filter *attributeFilter
}

// Attributes returns only the allowed attributes.
func (s *filteredSpan) Attributes() []attribute.KeyValue {
	orig := s.ReadOnlySpan.Attributes()
	filtered := make([]attribute.KeyValue, 0, len(orig))

	for _, kv := range orig {
		if s.filter.isAllowed(string(kv.Key)) {
			filtered = append(filtered, kv)
		}
	}

	return filtered
}
