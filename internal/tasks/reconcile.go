package tasks

import (
	"context"
	"time"

	"zapdash/internal/gateway"
	"zapdash/internal/logging"
	"zapdash/internal/repository"
)

// Reconcile periodically compares the gateway's instance list with the local
// connections table and logs the drift: remote instances nobody registered
// (recoverable via the sync action) and local rows whose instance no longer
// exists remotely (invisible in the merged view until cleaned up). It only
// observes; promoting or deleting rows stays an operator decision.
type Reconcile struct {
	repo     repository.ConnectionRepository
	gateway  gateway.API
	interval time.Duration
}

// NewReconcile creates a new reconcile task
func NewReconcile(repo repository.ConnectionRepository, gw gateway.API, interval time.Duration) *Reconcile {
	return &Reconcile{
		repo:     repo,
		gateway:  gw,
		interval: interval,
	}
}

// Start begins the reconcile task in the background
func (r *Reconcile) Start(ctx context.Context) {
	go r.runPeriodically(ctx)
}

func (r *Reconcile) runPeriodically(ctx context.Context) {
	// Run immediately on startup
	r.reconcile(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

func (r *Reconcile) reconcile(ctx context.Context) {
	logger := logging.GetGlobalLogger()

	instances := r.gateway.FetchInstances(ctx)
	if len(instances) == 0 {
		// Ambiguous by contract: the gateway may be empty or unreachable.
		logger.Warn("Reconcile: gateway reported no instances, skipping drift check")
		return
	}

	names, err := r.repo.ListNames(ctx)
	if err != nil {
		logger.Error("Reconcile: failed to list registered instances: %v", err)
		return
	}

	registered := make(map[string]bool, len(names))
	for _, name := range names {
		registered[name] = true
	}

	remote := make(map[string]bool, len(instances))
	unregistered := 0
	for _, inst := range instances {
		name := inst.Name()
		remote[name] = true
		if !registered[name] {
			unregistered++
			logger.Warn("Reconcile: gateway instance %q has no local registration, run sync to claim it", name)
		}
	}

	orphaned := 0
	for _, name := range names {
		if !remote[name] {
			orphaned++
			logger.Warn("Reconcile: local connection %q no longer exists on the gateway", name)
		}
	}

	logger.Info("Reconcile: %d remote, %d registered, %d unregistered, %d orphaned",
		len(instances), len(names), unregistered, orphaned)
}
