package cron

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"ppe.GO/config"
	"ppe.GO/core/registry"
)

// Job is a named scheduled task. Run receives the extra CLI arguments when the
// job is started by hand with cron:start --job.
type Job struct {
	Name     string
	Schedule string
	Run      func(...string)
}

var mu sync.Mutex

// Register adds a job under a lower-case name. CRON_<NAME> in the environment
// replaces schedule. Call it from init(); it panics once the scheduler has read
// the registry or when name is already taken.
func Register(name string, schedule string, run func(...string)) {
	name = strings.ToLower(strings.TrimSpace(name))
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCron) {
		panic("cron/registry: locked (register only during init before StartCron)")
	}
	jobs := loadJobs()
	if _, ok := jobs[name]; ok {
		panic("cron/registry: duplicate job " + name)
	}
	jobs[name] = Job{Name: name, Schedule: config.CronSchedule(name, schedule), Run: run}
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

// Unregister removes a job and reopens the registry. Tests only.
func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryCron)
	jobs := loadJobs()
	delete(jobs, strings.ToLower(name))
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCron, jobs)
}

func loadJobs() map[string]Job {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryCron); ok && v != nil {
		return v.(map[string]Job)
	}
	return make(map[string]Job)
}

// Jobs returns the registered jobs sorted by name and locks the registry.
func Jobs() []Job {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Job, 0)
	for _, j := range loadJobs() {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Name < out[k].Name })
	if !registry.GlobalRegistry.IsLocked(registry.KeyRegistryCron) {
		registry.GlobalRegistry.Lock(registry.KeyRegistryCron)
	}
	return out
}

// Names lists the registered job names in order.
func Names() []string {
	jobs := Jobs()
	names := make([]string, len(jobs))
	for i, j := range jobs {
		names[i] = j.Name
	}
	return names
}

// Run executes one job by name immediately.
func Run(name string, args ...string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, j := range Jobs() {
		if j.Name == name {
			guarded(j)(args...)
			return nil
		}
	}
	return fmt.Errorf("unknown job %q (known: %s)", name, strings.Join(Names(), ", "))
}

// guarded logs a panicking job instead of taking the scheduler down.
func guarded(j Job) func(...string) {
	return func(args ...string) {
		defer func() {
			if r := recover(); r != nil {
				config.LogError(config.GetLogger(), "cron", j.Name, "job panicked", args, fmt.Errorf("%v", r))
			}
		}()
		j.Run(args...)
	}
}
