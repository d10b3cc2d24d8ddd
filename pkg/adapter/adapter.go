package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lectern-hq/polaris/pkg/keypool"
	"lectern-hq/polaris/pkg/providers"
	"lectern-hq/polaris/pkg/providers/bigmodel"
	"lectern-hq/polaris/pkg/providers/gemini"
	"lectern-hq/polaris/pkg/providers/openai"
)

const (
	// DefaultMaxRetries bounds the failover loop per logical call.
	DefaultMaxRetries = 3

	// DefaultAcquireRetryDelay is slept when no credential is eligible
	// before the next attempt. The empty-pool attempt still counts toward
	// the retry budget.
	DefaultAcquireRetryDelay = 3 * time.Second

	// DefaultHTTPTimeout bounds each individual vendor dispatch. The
	// adapter adds no cross-attempt deadline of its own; callers wanting
	// one wrap Chat in a context deadline.
	DefaultHTTPTimeout = 60 * time.Second
)

// Options configures an Adapter. The zero value gives defaults throughout.
type Options struct {
	// MaxRetries is the per-call attempt budget (default 3)
	MaxRetries int

	// AcquireRetryDelay is the sleep before retrying an empty acquire
	AcquireRetryDelay time.Duration

	// HTTPTimeout is the per-dispatch transport timeout
	HTTPTimeout time.Duration

	// ExtraModels adds or overrides model-to-vendor mappings
	ExtraModels map[string]string

	// Logger receives per-attempt structured logs (slog.Default when nil)
	Logger *slog.Logger
}

// Adapter is the public entry point generation workers call. It resolves
// the model to a vendor, drives the bounded retry/failover loop against
// the pool, dispatches outside the pool lock, classifies failures, and
// reports every outcome back so the pool can steer future selection.
type Adapter struct {
	pool        *keypool.Pool
	dispatchers map[string]providers.Dispatcher
	models      map[string]string
	maxRetries  int
	retryDelay  time.Duration
	log         *slog.Logger
}

// New creates an Adapter wired to the closed set of supported vendors.
func New(pool *keypool.Pool, opts Options) *Adapter {
	timeout := opts.HTTPTimeout
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}

	return newWithDispatchers(pool, []providers.Dispatcher{
		openai.NewClient(timeout),
		gemini.NewClient(timeout),
		bigmodel.NewClient(timeout),
	}, opts)
}

// NewWithDispatchers creates an Adapter over an explicit dispatcher set.
// Tests use it to substitute fakes for the vendor clients.
func NewWithDispatchers(pool *keypool.Pool, dispatchers []providers.Dispatcher, opts Options) *Adapter {
	return newWithDispatchers(pool, dispatchers, opts)
}

func newWithDispatchers(pool *keypool.Pool, dispatchers []providers.Dispatcher, opts Options) *Adapter {
	byVendor := make(map[string]providers.Dispatcher, len(dispatchers))
	for _, d := range dispatchers {
		byVendor[d.Vendor()] = d
	}

	models := make(map[string]string, len(defaultModelVendors)+len(opts.ExtraModels))
	for model, vendor := range defaultModelVendors {
		models[model] = vendor
	}
	for model, vendor := range opts.ExtraModels {
		models[model] = vendor
	}

	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	retryDelay := opts.AcquireRetryDelay
	if retryDelay <= 0 {
		retryDelay = DefaultAcquireRetryDelay
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Adapter{
		pool:        pool,
		dispatchers: byVendor,
		models:      models,
		maxRetries:  maxRetries,
		retryDelay:  retryDelay,
		log:         log,
	}
}

// Chat sends the conversation to the vendor serving model and returns the
// completion text, retrying with the adapter's default attempt budget.
func (a *Adapter) Chat(ctx context.Context, messages []providers.Message, model string) (string, error) {
	return a.ChatWithRetries(ctx, messages, model, a.maxRetries)
}

// ChatWithRetries is Chat with an explicit attempt budget.
//
// Each attempt acquires a fresh credential (no pinning across retries),
// dispatches outside the pool lock, and reports the classified
// outcome back to the pool. The first success wins. Callers see either the
// completion text or one aggregate error after the budget is spent;
// per-attempt failures are absorbed here.
func (a *Adapter) ChatWithRetries(ctx context.Context, messages []providers.Message, model string, maxRetries int) (string, error) {
	vendor, ok := a.models[model]
	if !ok {
		return "", &UnknownModelError{Model: model}
	}
	dispatcher, ok := a.dispatchers[vendor]
	if !ok {
		return "", fmt.Errorf("no dispatcher registered for vendor %q", vendor)
	}
	if maxRetries <= 0 {
		maxRetries = a.maxRetries
	}

	normalized := providers.Flatten(messages)

	log := a.log.With(
		"request_id", uuid.NewString(),
		"model", model,
		"vendor", vendor,
	)

	var last *providers.Failure
	for attempt := 1; attempt <= maxRetries; attempt++ {
		acquired, ok := a.pool.Acquire(vendor)
		if !ok {
			log.Warn("no credential available",
				"attempt", attempt,
				"retry_in", a.retryDelay,
			)
			if err := sleepContext(ctx, a.retryDelay); err != nil {
				return "", err
			}
			continue
		}

		cred := acquired.Credential
		log.Debug("dispatching",
			"attempt", attempt,
			"key", cred.MaskedSecret(),
			"weight", cred.Weight,
			"fallback", acquired.Fallback,
			"probe", acquired.Probe,
		)

		text, err := dispatcher.Dispatch(ctx, providers.Target{
			Secret:  cred.Secret,
			BaseURL: cred.Metadata.BaseURL,
		}, normalized, model)

		if err == nil {
			a.pool.ReportSuccess(cred)
			return text, nil
		}

		failure := providers.Classify(err)
		a.pool.ReportFailure(cred, failure.Kind, failure.RetryAfter)
		last = failure

		log.Warn("attempt failed",
			"attempt", attempt,
			"key", cred.MaskedSecret(),
			"kind", failure.Kind.String(),
			"retry_after", failure.RetryAfter,
			"error", err,
		)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	return "", &ExhaustedError{Model: model, Attempts: maxRetries, Last: last}
}

// sleepContext sleeps for d unless the context ends first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
