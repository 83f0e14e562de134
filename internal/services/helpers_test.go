package services

import (
	"context"
	"fmt"
	"route-dispatch-service/internal/domain"
	"route-dispatch-service/internal/ports"
	"sync"
)

// In-memory ledger fake mirroring the SQLite ledger's semantics.
type fakeLedger struct {
	mu       sync.Mutex
	balances map[string]int
	reserves int
	releases int
}

func newFakeLedger(owner string, balance int) *fakeLedger {
	return &fakeLedger{balances: map[string]int{owner: balance}}
}

func (f *fakeLedger) Balance(ctx context.Context, ownerID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[ownerID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return b, nil
}

func (f *fakeLedger) Reserve(ctx context.Context, ownerID string, amount int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[ownerID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if b < amount {
		return 0, domain.ErrInsufficientFunds
	}
	f.balances[ownerID] = b - amount
	f.reserves++
	return b - amount, nil
}

func (f *fakeLedger) Release(ctx context.Context, ownerID string, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[ownerID] += amount
	f.releases++
	return nil
}

func (f *fakeLedger) Credit(ctx context.Context, ownerID string, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[ownerID] += amount
	return nil
}

func (f *fakeLedger) balance(owner string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[owner]
}

// In-memory route repository fake.
type fakeRouteRepo struct {
	mu     sync.Mutex
	nextID int
	docs   map[string]domain.SavedRouteDocument
	owners map[string]string
	names  map[string]string
}

func newFakeRouteRepo() *fakeRouteRepo {
	return &fakeRouteRepo{
		docs:   make(map[string]domain.SavedRouteDocument),
		owners: make(map[string]string),
		names:  make(map[string]string),
	}
}

func (f *fakeRouteRepo) Save(ctx context.Context, ownerID string, doc domain.SavedRouteDocument, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("route-%d", f.nextID)
	f.docs[id] = doc
	f.owners[id] = ownerID
	f.names[id] = name
	return id, nil
}

func (f *fakeRouteRepo) Load(ctx context.Context, id string) (domain.SavedRouteDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return domain.SavedRouteDocument{}, domain.ErrNotFound
	}
	return doc, nil
}

func (f *fakeRouteRepo) List(ctx context.Context, ownerID string) ([]ports.SavedRouteRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ports.SavedRouteRef
	for id, owner := range f.owners {
		if owner == ownerID {
			out = append(out, ports.SavedRouteRef{ID: id, Name: f.names[id]})
		}
	}
	return out, nil
}

func (f *fakeRouteRepo) Delete(ctx context.Context, ownerID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.owners[id] != ownerID {
		return domain.ErrNotFound
	}
	delete(f.docs, id)
	delete(f.owners, id)
	delete(f.names, id)
	return nil
}

// Scripted optimizer fake: returns the canned reply or error.
type fakeOptimizer struct {
	reply []domain.Stop
	err   error
	calls int
}

func (f *fakeOptimizer) Optimize(ctx context.Context, stops []domain.Stop, numberDrivers int, returnToStart bool) ([]domain.Stop, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}
