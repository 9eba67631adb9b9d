package app

import "github.com/ludo-technologies/distclust/domain"

// ResolveInputs expands the request paths into the ordered list of sources
// the service will read. Plain files are validated, doublestar patterns
// expanded and "-" kept as stdin.
//
// Inline input needs no resolution and yields nil. Resolution errors are
// returned unchanged so their FILE_NOT_FOUND or INVALID_INPUT code survives.
func ResolveInputs(resolver domain.InputResolver, req domain.ClusterRequest) ([]string, error) {
	if req.Input != nil || resolver == nil {
		return nil, nil
	}
	return resolver.Resolve(req.Paths)
}

// keepCode returns err unchanged when it already carries a domain error
// code, otherwise wrap(err).
func keepCode(err error, wrap func(error) error) error {
	if domain.ErrorCode(err) != "" {
		return err
	}
	return wrap(err)
}
