package linkage

import (
	"errors"
	"fmt"
	"io"
)

// Method selects the linkage strategy
type Method string

const (
	MethodSingle   Method = "single"   // connected components below the cutoff
	MethodComplete Method = "complete" // greedy minimum worst-case distance
)

// ParseMethod validates a method name.
func ParseMethod(name string) (Method, error) {
	switch Method(name) {
	case MethodSingle, MethodComplete:
		return Method(name), nil
	default:
		return "", fmt.Errorf("unknown linkage method %q (expected single or complete)", name)
	}
}

// FirstClusterID is the first normalized id a method assigns.
func (m Method) FirstClusterID() int {
	if m == MethodComplete {
		return 1
	}
	return 0
}

// Engine consumes records one at a time and produces the final partition.
// Engines are single-use and not safe for concurrent use.
type Engine interface {
	// Add feeds one record. done reports that no further input is needed.
	Add(rec Record) (done bool, err error)
	// Result finishes clustering and returns normalized assignments.
	Result() (*Result, error)
	// Name returns the strategy name.
	Name() string
}

// Config holds engine parameters
type Config struct {
	Method Method
	Cutoff float64
	// Strict makes complete linkage reject distances equal to the cutoff.
	Strict bool
	// EarlyStop lets single linkage stop reading once the number of labels
	// declared by self pairs equals the number of labels in a cluster. It
	// assumes self pairs precede the cross pairs that matter; disable it when
	// the input order is unknown.
	EarlyStop bool
}

// Validate checks engine parameters
func (c Config) Validate() error {
	if _, err := ParseMethod(string(c.Method)); err != nil {
		return err
	}
	if !(c.Cutoff > 0) {
		return fmt.Errorf("cutoff must be greater than 0, got %v", c.Cutoff)
	}
	return nil
}

// NewEngine creates the engine for cfg.Method.
func NewEngine(cfg Config) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Method {
	case MethodComplete:
		return NewCompleteLinkage(cfg.Cutoff, cfg.Strict), nil
	default:
		return NewSingleLinkage(cfg.Cutoff, cfg.EarlyStop), nil
	}
}

// Run feeds every record of src to e until the source is exhausted or the
// engine reports it is done.
func Run(e Engine, src RecordSource) (*Result, error) {
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		done, err := e.Add(rec)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	return e.Result()
}

// SingleOption adjusts the configuration used by RunSingleLinkage
type SingleOption func(*Config)

// WithEarlyStop enables or disables early termination
func WithEarlyStop(enabled bool) SingleOption {
	return func(c *Config) { c.EarlyStop = enabled }
}

// RunSingleLinkage clusters src with single linkage. Early termination is
// enabled unless an option turns it off.
func RunSingleLinkage(src RecordSource, cutoff float64, opts ...SingleOption) (*Result, error) {
	cfg := Config{Method: MethodSingle, Cutoff: cutoff, EarlyStop: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	e, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	return Run(e, src)
}

// RunCompleteLinkage clusters src with complete linkage.
func RunCompleteLinkage(src RecordSource, cutoff float64, strict bool) (*Result, error) {
	e, err := NewEngine(Config{Method: MethodComplete, Cutoff: cutoff, Strict: strict})
	if err != nil {
		return nil, err
	}
	return Run(e, src)
}
