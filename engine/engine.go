// Package engine is the runtime that hosts contract instances. It is the gate
// between an incoming call and an applied state change. A call loads the
// instance, runs the message with the caller in its Env and persists the
// result only if the contract accepted it.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/icook/tiny-flipper/contract"
	"github.com/icook/tiny-flipper/contract/flipper"
	"github.com/icook/tiny-flipper/db"
	"github.com/icook/tiny-flipper/identity"
)

const tracerName = "github.com/icook/tiny-flipper/engine"

var ErrUnknownCode = errors.New("unknown contract code")

// Snapshot is a read-only view of a deployed Flipper.
type Snapshot struct {
	ID    identity.ContractID
	Owner identity.AccountID
	Value bool
}

type Option func(*Engine)

func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) {
		e.tracer = tp.Tracer(tracerName)
	}
}

// Engine runs one call at a time. The lock is held from load to store so a
// call always sees the state left by the previous one.
type Engine struct {
	mu      sync.Mutex
	store   *db.Store
	log     *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

func New(store *db.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		log:    slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Deploy instantiates a Flipper owned by caller. A nil initValue runs the
// default constructor.
func (e *Engine) Deploy(ctx context.Context, caller identity.AccountID, initValue *bool) (identity.ContractID, error) {
	id := identity.NewContractID()
	message := "new"
	if initValue == nil {
		message = "default"
	}
	err := e.call(ctx, message, id, caller, func(ctx context.Context, env contract.Env) error {
		var f *flipper.Flipper
		if initValue == nil {
			f = flipper.Default(env)
		} else {
			f = flipper.New(env, *initValue)
		}
		return e.save(ctx, id, f)
	})
	if err != nil {
		return identity.ContractID{}, err
	}
	e.metrics.deploy()
	return id, nil
}

// Flip runs the flip message as caller and returns the new value. A rejected
// flip returns the contract's error and leaves the stored state untouched.
func (e *Engine) Flip(ctx context.Context, id identity.ContractID, caller identity.AccountID) (bool, error) {
	var value bool
	err := e.call(ctx, "flip", id, caller, func(ctx context.Context, env contract.Env) error {
		f, err := e.load(ctx, id)
		if err != nil {
			return err
		}
		if err := f.Flip(env); err != nil {
			return err
		}
		value = f.GetVal()
		return e.save(ctx, id, f)
	})
	return value, err
}

// GetVal runs the get_val message. It never writes.
func (e *Engine) GetVal(ctx context.Context, id identity.ContractID, caller identity.AccountID) (bool, error) {
	var value bool
	err := e.call(ctx, "get_val", id, caller, func(ctx context.Context, _ contract.Env) error {
		f, err := e.load(ctx, id)
		if err != nil {
			return err
		}
		value = f.GetVal()
		return nil
	})
	return value, err
}

// Describe returns the owner and value of a deployed instance.
func (e *Engine) Describe(ctx context.Context, id identity.ContractID) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f, err := e.load(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{ID: id, Owner: f.Owner(), Value: f.GetVal()}, nil
}

func (e *Engine) call(ctx context.Context, message string, id identity.ContractID, caller identity.AccountID, fn func(context.Context, contract.Env) error) error {
	ctx, span := e.tracer.Start(ctx, "flipper."+message, trace.WithAttributes(
		attribute.String("contract.id", id.String()),
		attribute.String("contract.caller", caller.String()),
	))
	defer span.End()

	log := e.log.With(
		slog.String("message", message),
		slog.String("contract", id.String()),
		slog.String("caller", caller.String()),
	)
	env := contract.NewCallEnv(ctx, caller, log)

	e.mu.Lock()
	start := time.Now()
	err := fn(ctx, env)
	elapsed := time.Since(start).Seconds()
	e.mu.Unlock()

	var rejected flipper.Error
	switch {
	case err == nil:
		e.metrics.observe(message, outcomeOK, elapsed)
		log.DebugContext(ctx, "call applied")
	case errors.As(err, &rejected):
		e.metrics.observe(message, outcomeRejected, elapsed)
		span.SetAttributes(attribute.String("contract.error", rejected.Error()))
		log.InfoContext(ctx, "call rejected", slog.String("error", rejected.Error()))
	default:
		e.metrics.observe(message, outcomeError, elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorContext(ctx, "call failed", slog.Any("error", err))
	}
	return err
}

func (e *Engine) load(ctx context.Context, id identity.ContractID) (*flipper.Flipper, error) {
	inst, err := e.store.GetInstance(ctx, id)
	if err != nil {
		return nil, err
	}
	if inst.Code != flipper.Name {
		return nil, errors.Wrapf(ErrUnknownCode, "contract %s runs %q", id, inst.Code)
	}
	f, err := flipper.Decode(inst.State)
	if err != nil {
		return nil, errors.Wrapf(err, "contract %s", id)
	}
	return f, nil
}

func (e *Engine) save(ctx context.Context, id identity.ContractID, f *flipper.Flipper) error {
	state, err := f.MarshalBinary()
	if err != nil {
		return errors.WithStack(err)
	}
	return e.store.PutInstance(ctx, id, db.Instance{Code: flipper.Name, State: state})
}
