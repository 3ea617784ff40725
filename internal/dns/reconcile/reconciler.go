// Package reconcile applies planned record intents to the DNS provider.
//
// Intents are processed one at a time in plan order. An intent that already
// exists is skipped, otherwise it is created. A failure is recorded against
// its intent and the batch carries on. Nothing is retried.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"nathanbeddoewebdev/mailprov/internal/dns/domain"
	"nathanbeddoewebdev/mailprov/internal/dns/providers"
	"nathanbeddoewebdev/mailprov/internal/logging"
)

// Status is the outcome of one intent.
type Status string

const (
	StatusCreated Status = "created"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Result pairs an intent with its outcome.
type Result struct {
	Intent domain.RecordIntent
	Status Status

	// Reason explains a skip or failure.
	Reason string

	// RecordID is the provider ID of a created record.
	RecordID string
}

// Reconciler creates missing records.
type Reconciler struct {
	factory  providers.Factory
	checker  Checker
	timeout  time.Duration
	onResult func(Result)
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithTimeout sets the per-call timeout for lookups and creations.
func WithTimeout(d time.Duration) Option {
	return func(r *Reconciler) {
		r.timeout = d
		r.checker.Timeout = d
	}
}

// WithResultHook registers fn to be called as each intent completes.
func WithResultHook(fn func(Result)) Option {
	return func(r *Reconciler) {
		r.onResult = fn
	}
}

// New returns a Reconciler that obtains zone clients from factory.
func New(factory providers.Factory, opts ...Option) *Reconciler {
	r := &Reconciler{factory: factory}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Apply processes intents sequentially and returns one Result per intent, in
// the same order. It never stops early; a cancelled ctx turns the remaining
// intents into failures.
func (r *Reconciler) Apply(ctx context.Context, intents []domain.RecordIntent) []Result {
	log := logging.FromContext(ctx)
	clients := make(map[domain.ZoneCredentials]domain.Provider)
	results := make([]Result, 0, len(intents))

	for _, intent := range intents {
		res := r.applyOne(ctx, log, clients, intent)
		results = append(results, res)
		if r.onResult != nil {
			r.onResult(res)
		}
	}
	return results
}

func (r *Reconciler) applyOne(ctx context.Context, log logging.Logger, clients map[domain.ZoneCredentials]domain.Provider, intent domain.RecordIntent) Result {
	log = log.With("line", intent.Line, "domain", intent.Domain, "record", intent.Label())

	provider, err := r.client(clients, intent.Credentials())
	if err != nil {
		return Result{Intent: intent, Status: StatusFailed, Reason: err.Error()}
	}

	exists, err := r.checker.Exists(ctx, provider, intent)
	if err != nil {
		log.Warn(ctx, "existence check failed, attempting creation", "error", err)
	}
	if exists {
		log.Debug(ctx, "record already exists")
		return Result{Intent: intent, Status: StatusSkipped, Reason: "already exists"}
	}

	callCtx, cancel := context.WithTimeout(ctx, timeoutOrDefault(r.timeout))
	defer cancel()

	rec, err := provider.CreateRecord(callCtx, domain.CreateOptsFromIntent(intent))
	if err != nil {
		log.Error(ctx, "record creation failed", "error", err)
		return Result{Intent: intent, Status: StatusFailed, Reason: domain.FailureReason(err)}
	}

	res := Result{Intent: intent, Status: StatusCreated}
	if rec != nil {
		res.RecordID = rec.ID
	}
	log.Debug(ctx, "record created", "id", res.RecordID)
	return res
}

func (r *Reconciler) client(clients map[domain.ZoneCredentials]domain.Provider, creds domain.ZoneCredentials) (domain.Provider, error) {
	if p, ok := clients[creds]; ok {
		return p, nil
	}
	if r.factory == nil {
		return nil, fmt.Errorf("no provider configured")
	}
	p, err := r.factory(creds)
	if err != nil {
		return nil, fmt.Errorf("provider for zone %s: %w", creds.ZoneID, err)
	}
	clients[creds] = p
	return p, nil
}

// Counts tallies results by status.
func Counts(results []Result) map[Status]int {
	counts := map[Status]int{StatusCreated: 0, StatusSkipped: 0, StatusFailed: 0}
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}
