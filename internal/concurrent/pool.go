package custcon

import (
	"log"

	"github.com/CE-Thesis-2023/hikcamerabot/internal/logger"

	"github.com/panjf2000/ants/v2"
)

type PoolOptions struct {
	nonblocking bool
}

type PoolOptioner func(o *PoolOptions)

// WithNonblocking makes Submit fail with ants.ErrPoolOverload instead of
// waiting for a free worker.
func WithNonblocking() PoolOptioner {
	return func(o *PoolOptions) {
		o.nonblocking = true
	}
}

func New(size int, options ...PoolOptioner) *ants.Pool {
	opts := &PoolOptions{}
	for _, o := range options {
		o(opts)
	}

	pool, err := ants.NewPool(
		size,
		ants.WithPreAlloc(false),
		ants.WithNonblocking(opts.nonblocking),
		ants.WithLogger(logger.NewZapToAntsLogger(logger.Logger())),
	)
	if err != nil {
		log.Fatalf("pool.New: err = %s", err)
	}
	return pool
}
