package phrase

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Catalog instrumentation names
const (
	CatalogInstrumentationName = "github.com/itsatony/go-phrase"

	CatalogSpanPrefix = "phrase.catalog."

	CatalogMetricFormats        = "phrase.catalog.formats"
	CatalogMetricErrors         = "phrase.catalog.errors"
	CatalogMetricFormatDuration = "phrase.catalog.format.duration_ms"

	CatalogAttrName      = "phrase.name"
	CatalogAttrOperation = "phrase.operation"
)

// Catalog operations, used as span suffixes and metric attributes
const (
	CatalogOpSave     = "save"
	CatalogOpGet      = "get"
	CatalogOpTemplate = "template"
	CatalogOpFormat   = "format"
	CatalogOpDelete   = "delete"
	CatalogOpList     = "list"
)

// Catalog messages
const (
	ErrMsgNilStorage = "storage is nil"

	LogMsgCatalogSaved     = "phrase saved"
	LogMsgCatalogDeleted   = "phrase deleted"
	LogMsgCatalogParsed    = "stored phrase parsed"
	LogMsgCatalogCacheHit  = "parsed phrase cache hit"
	LogMsgCatalogFormatted = "stored phrase formatted"
	LogMsgCatalogFailed    = "catalog operation failed"

	LogFieldName      = "name"
	LogFieldOperation = "operation"
	LogFieldDuration  = "duration"
)

// CatalogOption configures a Catalog.
type CatalogOption func(*catalogConfig)

type catalogConfig struct {
	logger         *zap.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithCatalogLogger sets the catalog logger.
// Default: nil (no logging)
func WithCatalogLogger(logger *zap.Logger) CatalogOption {
	return func(c *catalogConfig) {
		c.logger = logger
	}
}

// WithTracerProvider sets the tracer provider.
// Default: the global OTel provider
func WithTracerProvider(provider trace.TracerProvider) CatalogOption {
	return func(c *catalogConfig) {
		c.tracerProvider = provider
	}
}

// WithMeterProvider sets the meter provider.
// Default: the global OTel provider
func WithMeterProvider(provider metric.MeterProvider) CatalogOption {
	return func(c *catalogConfig) {
		c.meterProvider = provider
	}
}

// Catalog stores named phrases in a PhraseStorage and formats them.
// Parsed templates are cached per name and re-parsed only when the stored
// pattern or bracket changes.
//
// A Catalog is safe for concurrent use. The templates it returns are
// independent clones and are not.
type Catalog struct {
	storage PhraseStorage
	logger  *zap.Logger
	tracer  trace.Tracer
	metrics *catalogMetrics

	mu     sync.RWMutex
	parsed map[string]*parsedEntry
}

type parsedEntry struct {
	template *Template
	pattern  string
	bracket  Bracket
}

type catalogMetrics struct {
	formats        metric.Int64Counter
	errors         metric.Int64Counter
	formatDuration metric.Float64Histogram
}

// NewCatalog creates a catalog over storage.
func NewCatalog(storage PhraseStorage, opts ...CatalogOption) (*Catalog, error) {
	if storage == nil {
		return nil, &StorageError{Message: ErrMsgNilStorage}
	}

	config := &catalogConfig{}
	for _, opt := range opts {
		opt(config)
	}
	if config.logger == nil {
		config.logger = zap.NewNop()
	}
	if config.tracerProvider == nil {
		config.tracerProvider = otel.GetTracerProvider()
	}
	if config.meterProvider == nil {
		config.meterProvider = otel.GetMeterProvider()
	}

	metrics, err := newCatalogMetrics(config.meterProvider.Meter(CatalogInstrumentationName))
	if err != nil {
		return nil, err
	}

	return &Catalog{
		storage: storage,
		logger:  config.logger,
		tracer:  config.tracerProvider.Tracer(CatalogInstrumentationName),
		metrics: metrics,
		parsed:  make(map[string]*parsedEntry),
	}, nil
}

// MustNewCatalog is like NewCatalog but panics on error.
func MustNewCatalog(storage PhraseStorage, opts ...CatalogOption) *Catalog {
	c, err := NewCatalog(storage, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func newCatalogMetrics(meter metric.Meter) (*catalogMetrics, error) {
	formats, err := meter.Int64Counter(CatalogMetricFormats,
		metric.WithDescription("Number of stored phrases formatted"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter(CatalogMetricErrors,
		metric.WithDescription("Number of failed catalog operations"),
	)
	if err != nil {
		return nil, err
	}

	formatDuration, err := meter.Float64Histogram(CatalogMetricFormatDuration,
		metric.WithDescription("Stored phrase format latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &catalogMetrics{
		formats:        formats,
		errors:         errs,
		formatDuration: formatDuration,
	}, nil
}

// Storage returns the underlying storage.
func (c *Catalog) Storage() PhraseStorage {
	return c.storage
}

// Save parses pattern with bracket and stores it under name. A pattern
// that does not parse is never stored.
func (c *Catalog) Save(ctx context.Context, name, pattern string, bracket Bracket, description string, tags ...string) (stored *StoredPhrase, err error) {
	ctx, span := c.start(ctx, CatalogOpSave, name)
	defer func() { c.end(ctx, span, CatalogOpSave, name, err) }()

	tmpl, err := From(pattern, WithBracket(bracket), WithLogger(c.logger))
	if err != nil {
		return nil, err
	}

	stored = &StoredPhrase{
		Name:        name,
		Pattern:     pattern,
		Bracket:     bracket,
		Description: description,
		Tags:        tags,
	}
	if err := c.storage.Save(ctx, stored); err != nil {
		return nil, err
	}

	c.remember(name, tmpl)
	c.logger.Debug(LogMsgCatalogSaved, zap.String(LogFieldName, name))
	return stored, nil
}

// Get returns the stored phrase.
func (c *Catalog) Get(ctx context.Context, name string) (stored *StoredPhrase, err error) {
	ctx, span := c.start(ctx, CatalogOpGet, name)
	defer func() { c.end(ctx, span, CatalogOpGet, name, err) }()

	return c.storage.Get(ctx, name)
}

// Template returns a fresh, unbound Template for the stored phrase.
func (c *Catalog) Template(ctx context.Context, name string) (tmpl *Template, err error) {
	ctx, span := c.start(ctx, CatalogOpTemplate, name)
	defer func() { c.end(ctx, span, CatalogOpTemplate, name, err) }()

	return c.template(ctx, name)
}

// Format binds values to the stored phrase and formats it. Sequence
// values are joined with DefaultSeparator.
func (c *Catalog) Format(ctx context.Context, name string, values map[string]any) (out string, err error) {
	ctx, span := c.start(ctx, CatalogOpFormat, name)
	defer func() { c.end(ctx, span, CatalogOpFormat, name, err) }()

	started := time.Now()
	tmpl, err := c.template(ctx, name)
	if err != nil {
		return "", err
	}
	if err := tmpl.PutValues(values, DefaultSeparator); err != nil {
		return "", err
	}
	out, err = tmpl.Format()
	if err != nil {
		return "", err
	}

	elapsed := time.Since(started)
	attrs := metric.WithAttributes(attribute.String(CatalogAttrName, name))
	c.metrics.formats.Add(ctx, 1, attrs)
	c.metrics.formatDuration.Record(ctx, float64(elapsed.Microseconds())/1000.0, attrs)
	c.logger.Debug(LogMsgCatalogFormatted,
		zap.String(LogFieldName, name),
		zap.Duration(LogFieldDuration, elapsed))
	return out, nil
}

// Delete removes the stored phrase and its parsed template.
func (c *Catalog) Delete(ctx context.Context, name string) (err error) {
	ctx, span := c.start(ctx, CatalogOpDelete, name)
	defer func() { c.end(ctx, span, CatalogOpDelete, name, err) }()

	if err := c.storage.Delete(ctx, name); err != nil {
		return err
	}
	c.forget(name)
	c.logger.Debug(LogMsgCatalogDeleted, zap.String(LogFieldName, name))
	return nil
}

// List returns the stored phrases matching query.
func (c *Catalog) List(ctx context.Context, query *PhraseQuery) (phrases []*StoredPhrase, err error) {
	ctx, span := c.start(ctx, CatalogOpList, "")
	defer func() { c.end(ctx, span, CatalogOpList, "", err) }()

	return c.storage.List(ctx, query)
}

// Close closes the underlying storage.
func (c *Catalog) Close() error {
	c.mu.Lock()
	c.parsed = make(map[string]*parsedEntry)
	c.mu.Unlock()
	return c.storage.Close()
}

func (c *Catalog) template(ctx context.Context, name string) (*Template, error) {
	stored, err := c.storage.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	entry, ok := c.parsed[name]
	c.mu.RUnlock()
	if ok && entry.pattern == stored.Pattern && entry.bracket == stored.Bracket {
		c.logger.Debug(LogMsgCatalogCacheHit, zap.String(LogFieldName, name))
		return entry.template.Clone(), nil
	}

	tmpl, err := From(stored.Pattern, WithBracket(stored.Bracket), WithLogger(c.logger))
	if err != nil {
		return nil, err
	}
	c.remember(name, tmpl)
	c.logger.Debug(LogMsgCatalogParsed, zap.String(LogFieldName, name))
	return tmpl.Clone(), nil
}

func (c *Catalog) remember(name string, tmpl *Template) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parsed[name] = &parsedEntry{
		template: tmpl,
		pattern:  tmpl.Pattern(),
		bracket:  tmpl.Bracket(),
	}
}

func (c *Catalog) forget(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.parsed, name)
}

func (c *Catalog) start(ctx context.Context, op, name string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String(CatalogAttrOperation, op)}
	if name != "" {
		attrs = append(attrs, attribute.String(CatalogAttrName, name))
	}
	return c.tracer.Start(ctx, CatalogSpanPrefix+op,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (c *Catalog) end(ctx context.Context, span trace.Span, op, name string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.metrics.errors.Add(ctx, 1, metric.WithAttributes(attribute.String(CatalogAttrOperation, op)))
		c.logger.Debug(LogMsgCatalogFailed,
			zap.String(LogFieldOperation, op),
			zap.String(LogFieldName, name),
			zap.Error(err))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
