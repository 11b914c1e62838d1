package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"debtplan/internal/amqp"
	"debtplan/internal/core"
	"debtplan/internal/engine"
)

var workerStart = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

type fakePublisher struct {
	mu        sync.Mutex
	published []*amqp.PlanResultMessage
	err       error
}

func (p *fakePublisher) PublishPlanResult(_ context.Context, msg *amqp.PlanResultMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, msg)
	return nil
}

type fakeStore struct {
	mu      sync.Mutex
	results map[string]*core.PlanResult
	hits    int
	sets    int
	setErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{results: make(map[string]*core.PlanResult)}
}

func (s *fakeStore) Get(_ context.Context, key string) (*core.PlanResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[key]
	if ok {
		s.hits++
	}
	return r, ok
}

func (s *fakeStore) Set(_ context.Context, key string, result *core.PlanResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.results[key] = result
	s.sets++
	return nil
}

func planRequest(id string, surplus float64) *amqp.PlanRequestMessage {
	return &amqp.PlanRequestMessage{
		RunID: id,
		Loans: []core.LoanInput{{
			ID:                  "home",
			Name:                "Home loan",
			Category:            core.CategoryHome,
			Principal:           300000,
			AnnualRate:          0.055,
			RateType:            core.RateVariable,
			RemainingTermMonths: 360,
			MinRepayment:        1800,
			MinRepaymentFreq:    core.Monthly,
		}},
		Settings: core.PlannerSettings{
			Strategy:    core.Avalanche,
			Surplus:     surplus,
			SurplusFreq: core.Monthly,
		},
		Start:     workerStart,
		Timestamp: time.Now(),
	}
}

func TestSimWorker_HandlePlanRequest(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	w := NewSimWorker(engine.NewPlanner(nil), store, pub, 2, nil)

	if err := w.HandlePlanRequest(context.Background(), planRequest("run-1", 500)); err != nil {
		t.Fatalf("HandlePlanRequest() error = %v", err)
	}

	if len(pub.published) != 1 {
		t.Fatalf("published %d results, want 1", len(pub.published))
	}
	msg := pub.published[0]
	if msg.RunID != "run-1" {
		t.Errorf("published RunID = %s, want run-1", msg.RunID)
	}
	if msg.Result == nil || len(msg.Result.Loans) != 1 {
		t.Fatalf("published result = %+v, want one loan outcome", msg.Result)
	}
	if store.sets != 1 {
		t.Errorf("store sets = %d, want 1", store.sets)
	}
}

func TestSimWorker_ServesRepeatFromStore(t *testing.T) {
	store := newFakeStore()
	w := NewSimWorker(engine.NewPlanner(nil), store, &fakePublisher{}, 2, nil)
	ctx := context.Background()

	// Same inputs, different run ids: the second request must hit the store.
	if err := w.HandlePlanRequest(ctx, planRequest("run-1", 500)); err != nil {
		t.Fatalf("HandlePlanRequest() error = %v", err)
	}
	if err := w.HandlePlanRequest(ctx, planRequest("run-2", 500)); err != nil {
		t.Fatalf("HandlePlanRequest() error = %v", err)
	}

	if store.hits != 1 {
		t.Errorf("store hits = %d, want 1", store.hits)
	}
	if store.sets != 1 {
		t.Errorf("store sets = %d, want 1 (no recompute)", store.sets)
	}
}

func TestSimWorker_StoreFailureDoesNotLoseResult(t *testing.T) {
	store := newFakeStore()
	store.setErr = errors.New("store down")
	pub := &fakePublisher{}
	w := NewSimWorker(engine.NewPlanner(nil), store, pub, 2, nil)

	if err := w.HandlePlanRequest(context.Background(), planRequest("run-1", 500)); err != nil {
		t.Fatalf("HandlePlanRequest() error = %v, want nil despite store failure", err)
	}
	if len(pub.published) != 1 {
		t.Errorf("published %d results, want 1", len(pub.published))
	}
}

func TestSimWorker_PublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker gone")}
	w := NewSimWorker(engine.NewPlanner(nil), newFakeStore(), pub, 2, nil)

	if err := w.HandlePlanRequest(context.Background(), planRequest("run-1", 500)); err == nil {
		t.Error("HandlePlanRequest() error = nil, want publish failure surfaced")
	}
}

func TestSimWorker_RunBatch(t *testing.T) {
	w := NewSimWorker(engine.NewPlanner(nil), newFakeStore(), nil, 4, nil)

	reqs := []*amqp.PlanRequestMessage{
		planRequest("run-1", 0),
		planRequest("run-2", 250),
		planRequest("run-3", 500),
	}
	results, err := w.RunBatch(context.Background(), reqs)
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("RunBatch() returned %d results, want 3", len(results))
	}

	// Results arrive in request order: a larger surplus never saves less.
	var prev float64 = -1
	for i, r := range results {
		if r == nil {
			t.Fatalf("result %d is nil", i)
		}
		if r.TotalInterestSaved < prev {
			t.Errorf("result %d: TotalInterestSaved = %v, want >= %v", i, r.TotalInterestSaved, prev)
		}
		prev = r.TotalInterestSaved
	}
}

func TestSimWorker_RunBatch_AbortsOnFailure(t *testing.T) {
	w := NewSimWorker(engine.NewPlanner(nil), newFakeStore(), nil, 2, nil)

	bad := planRequest("run-bad", 0)
	bad.Loans = nil
	if _, err := w.RunBatch(context.Background(), []*amqp.PlanRequestMessage{planRequest("run-1", 0), bad}); err == nil {
		t.Error("RunBatch() error = nil, want failure for empty loan list")
	}
}
