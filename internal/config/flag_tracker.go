package config

import (
	"sync"

	"github.com/spf13/pflag"
)

// FlagTracker records which command-line flags were set explicitly, so
// config file and environment values only yield to flags the user typed.
type FlagTracker struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewFlagTracker creates an empty tracker
func NewFlagTracker() *FlagTracker {
	return &FlagTracker{flags: make(map[string]bool)}
}

// NewFlagTrackerFromFlagSet tracks every flag changed on fs.
func NewFlagTrackerFromFlagSet(fs *pflag.FlagSet) *FlagTracker {
	ft := NewFlagTracker()
	if fs == nil {
		return ft
	}
	fs.Visit(func(f *pflag.Flag) {
		ft.flags[f.Name] = true
	})
	return ft
}

// Set marks a flag as explicitly set
func (ft *FlagTracker) Set(flagName string) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.flags[flagName] = true
}

// WasSet checks if a flag was explicitly set
func (ft *FlagTracker) WasSet(flagName string) bool {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	return ft.flags[flagName]
}

// AnySet reports whether at least one of the named flags was set
func (ft *FlagTracker) AnySet(flagNames ...string) bool {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	for _, name := range flagNames {
		if ft.flags[name] {
			return true
		}
	}
	return false
}

// Count returns the number of explicitly set flags
func (ft *FlagTracker) Count() int {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	return len(ft.flags)
}

// MergeString returns override if any of flagNames was set, else base
func (ft *FlagTracker) MergeString(base, override string, flagNames ...string) string {
	if ft.AnySet(flagNames...) {
		return override
	}
	return base
}

// MergeFloat64 returns override if any of flagNames was set, else base
func (ft *FlagTracker) MergeFloat64(base, override float64, flagNames ...string) float64 {
	if ft.AnySet(flagNames...) {
		return override
	}
	return base
}

// MergeBool returns override if any of flagNames was set, else base
func (ft *FlagTracker) MergeBool(base, override bool, flagNames ...string) bool {
	if ft.AnySet(flagNames...) {
		return override
	}
	return base
}

// MergeBoolPtr returns a pointer to override if any of flagNames was set, else base
func (ft *FlagTracker) MergeBoolPtr(base *bool, override bool, flagNames ...string) *bool {
	if ft.AnySet(flagNames...) {
		return &override
	}
	return base
}

// MergeStringSlice returns override if any of flagNames was set and
// override is non-empty, else base
func (ft *FlagTracker) MergeStringSlice(base, override []string, flagNames ...string) []string {
	if ft.AnySet(flagNames...) && len(override) > 0 {
		return override
	}
	return base
}
