package collector

import (
	"context"
	"errors"

	"github.com/speedwagon-io/machinedash/internal/model"
)

// ErrNetworkFailure marks a fetch that could not complete or returned a
// non-2xx status.
var ErrNetworkFailure = errors.New("network failure")

// ErrMalformedFeed marks a response whose body is not a CSV feed at all.
var ErrMalformedFeed = errors.New("malformed feed")

// ErrDiscarded is returned when a fetch completed after its installer was
// torn down.
var ErrDiscarded = errors.New("result discarded after teardown")

// Source reads the raw feed text.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Name() string
	Close() error
}

// Installer receives the outcome of a fetch cycle. Both methods report
// false when the receiver has been torn down and dropped the result.
type Installer interface {
	Install(ds model.Dataset) bool
	Fail(err error) bool
}
