package cron

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"grocery.GO/core/registry"
)

// RunFunc is the body of a job. args come from cron:start --job <name> <args...>; scheduled
// runs get none.
type RunFunc func(ctx context.Context, args ...string) error

// Job pairs a schedule with its body. An empty Schedule keeps the job off the scheduler but
// still runnable on demand.
type Job struct {
	Schedule string
	Run      RunFunc
}

var mu sync.Mutex

// Register adds a job from a custom package's init. Names are case-insensitive. It panics on a
// duplicate name, an unparsable schedule or a registry that the scheduler already locked.
func Register(name, schedule string, run RunFunc) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || run == nil {
		panic("cron/registry: job needs a name and a body")
	}
	if schedule != "" {
		if _, err := cron.ParseStandard(schedule); err != nil {
			panic(fmt.Sprintf("cron/registry: job %s: %v", key, err))
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCron) {
		panic("cron/registry: locked, register jobs from init()")
	}
	jobs := registered()
	if _, ok := jobs[key]; ok {
		panic("cron/registry: duplicate job " + key)
	}
	jobs[key] = Job{Schedule: schedule, Run: run}
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

// Unregister removes a job and reopens the registry. Tests only.
func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryCron)
	jobs := registered()
	delete(jobs, strings.ToLower(strings.TrimSpace(name)))
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

func registered() map[string]Job {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryCron); ok && v != nil {
		return v.(map[string]Job)
	}
	return make(map[string]Job)
}

// Jobs returns a copy of the jobs custom packages registered and locks the registry.
func Jobs() map[string]Job {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]Job)
	for k, v := range registered() {
		out[k] = v
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryCron)
	return out
}
