// Package worker runs repayment plans on behalf of the calling application.
// Each simulation is an independent pure computation, so many can run
// concurrently with no shared state beyond the result store.
package worker

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"debtplan/internal/amqp"
	"debtplan/internal/core"
	"debtplan/internal/engine"
	"debtplan/internal/log"
	"debtplan/internal/resultstore"
)

// ResultPublisher publishes computed plans back to the calling application.
type ResultPublisher interface {
	PublishPlanResult(ctx context.Context, msg *amqp.PlanResultMessage) error
}

// SimWorker consumes plan requests, runs the engine and publishes results.
// Previously computed results are served from the result store by input
// digest instead of being recomputed.
type SimWorker struct {
	planner     *engine.Planner
	store       resultstore.Store
	publisher   ResultPublisher
	concurrency int
	logger      *log.Logger
}

// NewSimWorker creates a worker. The publisher may be nil when results are
// only needed in the store (e.g. batch runs).
func NewSimWorker(planner *engine.Planner, store resultstore.Store, publisher ResultPublisher, concurrency int, logger *log.Logger) *SimWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentWorker)
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &SimWorker{
		planner:     planner,
		store:       store,
		publisher:   publisher,
		concurrency: concurrency,
		logger:      logger,
	}
}

// HandlePlanRequest processes a single plan request: result store lookup,
// engine run on miss, store and publish.
func (w *SimWorker) HandlePlanRequest(ctx context.Context, msg *amqp.PlanRequestMessage) error {
	result, err := w.compute(ctx, msg)
	if err != nil {
		return err
	}

	if w.publisher != nil {
		out := amqp.NewPlanResultMessage(msg.RunID, result)
		if err := w.publisher.PublishPlanResult(ctx, out); err != nil {
			return fmt.Errorf("publish result: %w", err)
		}
	}

	return nil
}

// RunBatch computes many plans concurrently with bounded parallelism and
// returns results in request order. The first failing request aborts the
// batch.
func (w *SimWorker) RunBatch(ctx context.Context, reqs []*amqp.PlanRequestMessage) ([]*core.PlanResult, error) {
	results := make([]*core.PlanResult, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			result, err := w.compute(ctx, req)
			if err != nil {
				return fmt.Errorf("run %s: %w", req.RunID, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (w *SimWorker) compute(ctx context.Context, msg *amqp.PlanRequestMessage) (*core.PlanResult, error) {
	key := resultstore.Fingerprint(msg.Loans, msg.Settings, msg.Start)
	if w.store != nil {
		if cached, ok := w.store.Get(ctx, key); ok {
			w.logger.DebugContext(ctx, "Plan served from result store",
				log.FieldRunID, msg.RunID,
				log.FieldCacheHit, true)
			return cached, nil
		}
	}

	result, err := w.planner.Plan(ctx, msg.Loans, msg.Settings, msg.Start)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	if w.store != nil {
		if err := w.store.Set(ctx, key, result); err != nil {
			// A store failure must not lose a computed plan.
			w.logger.WarnContext(ctx, "Failed to store plan result",
				log.FieldRunID, msg.RunID,
				log.FieldError, err)
		}
	}

	w.logger.InfoContext(ctx, "Plan computed",
		log.FieldRunID, msg.RunID,
		log.FieldStrategy, string(msg.Settings.Strategy),
		log.FieldLoanCount, len(msg.Loans),
		log.FieldCacheHit, false)

	return result, nil
}
