package usecase

import (
	"context"
	"sort"
	"sync"
	"time"
)

// HealthCheck probes one dependency. Optional checks report "degraded"
// instead of failing the whole service.
type HealthCheck struct {
	Name     string
	Optional bool
	Probe    func(ctx context.Context) error
}

type HealthUsecase interface {
	Check(ctx context.Context) (status string, components map[string]string)
}

type healthUsecase struct {
	checks  []HealthCheck
	timeout time.Duration
}

func NewHealthUsecase(checks ...HealthCheck) HealthUsecase {
	return &healthUsecase{checks: checks, timeout: 3 * time.Second}
}

func (u *healthUsecase) Check(ctx context.Context) (string, map[string]string) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	type result struct {
		check HealthCheck
		err   error
	}
	results := make([]result, len(u.checks))

	var wg sync.WaitGroup
	for i, check := range u.checks {
		wg.Add(1)
		go func(i int, check HealthCheck) {
			defer wg.Done()
			results[i] = result{check: check, err: check.Probe(ctx)}
		}(i, check)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].check.Name < results[j].check.Name })

	status := "ok"
	components := make(map[string]string, len(results))
	for _, r := range results {
		if r.err == nil {
			components[r.check.Name] = "ok"
			continue
		}
		components[r.check.Name] = r.err.Error()
		if !r.check.Optional {
			status = "down"
		} else if status == "ok" {
			status = "degraded"
		}
	}
	return status, components
}
