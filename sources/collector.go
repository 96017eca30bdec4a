package sources

import (
	"context"
	"sort"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-resolve/logger"
	"github.com/knadh/koanf/v2"
)

var (
	DefaultDelimiter     = "."
	DefaultGatherTimeout = 30 * time.Second
)

// Collector assembles the supplied value set for a resolve call from
// priority-ordered sources, then runs value solvers over the gathered set.
type Collector struct {
	delimiter string
	timeout   time.Duration
	builders  []Builder
	solvers   []Solver
	logger    logger.Logger
}

// NewCollector returns a collector with the given sources.
func NewCollector(builders ...Builder) *Collector {
	c := &Collector{
		delimiter: DefaultDelimiter,
		timeout:   DefaultGatherTimeout,
		logger:    logger.NewDefaultLogger("sources"),
	}
	return c.WithSource(builders...)
}

func (c *Collector) WithSource(builders ...Builder) *Collector {
	for _, b := range builders {
		if b != nil {
			c.builders = append(c.builders, b)
		}
	}
	return c
}

func (c *Collector) WithSolver(solvers ...Solver) *Collector {
	c.solvers = append(c.solvers, solvers...)
	return c
}

func (c *Collector) WithTimeout(timeout time.Duration) *Collector {
	c.timeout = timeout
	return c
}

func (c *Collector) WithDelimiter(delim string) *Collector {
	if delim != "" {
		c.delimiter = delim
	}
	return c
}

func (c *Collector) WithLogger(l logger.Logger) *Collector {
	if l != nil {
		c.logger = l
	}
	return c
}

// Gather loads every source in priority order into a fresh koanf instance,
// runs the solvers, and returns the flattened option mapping keyed by dotted
// option name.
func (c *Collector) Gather(ctx context.Context) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	k := koanf.New(c.delimiter)

	sources := make([]Source, 0, len(c.builders))
	for i, factory := range c.builders {
		source, err := factory(c)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "failed to create source").
				WithTextCode("SOURCE_CREATION_FAILED").
				WithMetadata(map[string]any{
					"factory_index":   i,
					"total_factories": len(c.builders),
				})
		}
		sources = append(sources, source)
	}

	for i, src := range sources {
		if err := src.Validate(); err != nil {
			return nil, errors.Wrap(err, errors.CategoryValidation, "invalid source type").
				WithTextCode("INVALID_SOURCE").
				WithMetadata(map[string]any{
					"source_type":  string(src.Type()),
					"source_index": i,
				})
		}
	}

	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Priority() < sources[j].Priority()
	})

	for i, source := range sources {
		c.logger.Debug("= loading source %s", source.Type())
		if err := source.Load(ctx, k); err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "failed to load option values from source").
				WithTextCode("SOURCE_LOAD_FAILED").
				WithMetadata(map[string]any{
					"source_type":   string(source.Type()),
					"source_index":  i,
					"total_sources": len(sources),
				})
		}
	}

	for _, solver := range c.solvers {
		k = solver.Solve(k)
	}

	return k.All(), nil
}
