// Package form implements the single-screen CEP lookup form: input state,
// validation, one upstream lookup per valid submit, and the resulting
// error, loading, or address state.
package form

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/cep-lookup/internal/domain"
	"github.com/couchcryptid/cep-lookup/internal/observability"
	"github.com/google/uuid"
)

// abortedMessage is shown if a lookup exits without returning, e.g. on panic.
const abortedMessage = "consulta interrompida"

// publishTimeout bounds event publishing independently of the submit context.
const publishTimeout = 5 * time.Second

// EventSink receives one event per completed request cycle.
type EventSink interface {
	Publish(ctx context.Context, event domain.LookupEvent) error
}

// Observer is called with a snapshot after every state transition.
type Observer func(State)

// Option configures a Form.
type Option func(*Form)

// WithObserver registers a callback for state transitions. Observers run on
// the submitting goroutine, outside the form's lock.
func WithObserver(o Observer) Option {
	return func(f *Form) { f.observers = append(f.observers, o) }
}

// WithEventSink publishes lookup events to sink. Publish failures are logged
// and never change form state.
func WithEventSink(sink EventSink) Option {
	return func(f *Form) { f.sink = sink }
}

// Form is the AddressLookupForm. It is safe for concurrent use; overlapping
// submits are resolved by generation, so only the most recent submit may
// write its response to the state.
type Form struct {
	lookup    domain.AddressLookup
	logger    *slog.Logger
	metrics   *observability.Metrics
	sink      EventSink
	observers []Observer

	mu         sync.Mutex
	state      State
	generation uint64
}

// New creates an idle form backed by lookup.
func New(lookup domain.AddressLookup, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Form {
	f := &Form{
		lookup:  lookup,
		logger:  logger,
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns a snapshot of the current form state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.clone()
}

// SetInput replaces the input text, as on every keystroke.
func (f *Form) SetInput(text string) {
	f.mu.Lock()
	f.state.Input = text
	snap := f.state.clone()
	f.mu.Unlock()
	f.notify(snap)
}

// Submit validates raw and, when valid, looks it up. The returned outcome is
// this submit's own result even if a newer submit has since replaced it in
// the form state.
func (f *Form) Submit(ctx context.Context, raw string) domain.Outcome {
	start := clock.Now()

	f.mu.Lock()
	f.generation++
	gen := f.generation
	f.state.Input = raw
	f.state.Error = nil
	f.state.Address = nil
	f.state.Phase = PhaseValidating
	snap := f.state.clone()
	f.mu.Unlock()
	f.notify(snap)

	digits, err := domain.NormalizeCEP(raw)
	if err != nil {
		out := domain.FormatErrorOutcome()
		// A format error supersedes any in-flight lookup, so loading ends here too.
		f.commit(gen, func(s *State) {
			s.Loading = false
			applyOutcome(s, out)
		})
		f.finish(ctx, raw, "", out, start)
		return out
	}

	f.commit(gen, func(s *State) {
		s.Error = nil
		s.Address = nil
		s.Loading = true
		s.Phase = PhaseAwaitingResponse
	})

	out := f.await(ctx, gen, digits)
	f.finish(ctx, raw, digits, out, start)
	return out
}

// await performs the lookup. The deferred settle clears Loading on every exit
// path, including a panicking lookup.
func (f *Form) await(ctx context.Context, gen uint64, digits string) (out domain.Outcome) {
	out = domain.Outcome{Kind: domain.OutcomeTransportError, Message: abortedMessage}

	f.metrics.LookupsInFlight.Inc()
	defer func() {
		f.metrics.LookupsInFlight.Dec()
		if !f.commit(gen, func(s *State) {
			s.Loading = false
			applyOutcome(s, out)
		}) {
			f.metrics.SupersededResponse.Inc()
			f.logger.Debug("discarding superseded lookup response", "cep", digits, "outcome", out.Kind.String())
		}
	}()

	addr, err := f.lookup.Lookup(ctx, digits)
	return domain.ClassifyLookup(addr, err)
}

// commit applies mutate if gen is still the latest submit and notifies
// observers. It reports whether the mutation was applied.
func (f *Form) commit(gen uint64, mutate func(*State)) bool {
	f.mu.Lock()
	if gen != f.generation {
		f.mu.Unlock()
		return false
	}
	mutate(&f.state)
	snap := f.state.clone()
	f.mu.Unlock()
	f.notify(snap)
	return true
}

func (f *Form) notify(snap State) {
	for _, o := range f.observers {
		o(snap.clone())
	}
}

// finish records metrics and publishes the lookup event.
func (f *Form) finish(ctx context.Context, raw, digits string, out domain.Outcome, start time.Time) {
	f.metrics.Submits.WithLabelValues(out.Kind.String()).Inc()
	f.logger.Info("cep submitted", "input", raw, "outcome", out.Kind.String())

	if f.sink == nil {
		return
	}

	event := domain.LookupEvent{
		ID:          uuid.NewString(),
		Input:       raw,
		CEP:         digits,
		Outcome:     out.Kind.String(),
		Address:     out.Address,
		Message:     out.Message,
		RequestedAt: start.UTC(),
		Duration:    clock.Since(start),
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := f.sink.Publish(pubCtx, event); err != nil {
		f.metrics.EventsPublished.WithLabelValues("error").Inc()
		f.logger.Warn("publish lookup event failed", "event_id", event.ID, "error", err)
		return
	}
	f.metrics.EventsPublished.WithLabelValues("ok").Inc()
}

func applyOutcome(s *State, out domain.Outcome) {
	if out.Failed() {
		msg := out.Message
		s.Error = &msg
		s.Address = nil
		s.Phase = PhaseError
		return
	}
	addr := *out.Address
	s.Error = nil
	s.Address = &addr
	s.Phase = PhaseSuccess
}
