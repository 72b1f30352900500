// Package service holds the loaded dataset and runs searches against it.
//
// A Service is created once per process. The dataset is read-only after
// New returns, so Search and Stats may be called from any number of
// goroutines.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/panjf2000/ants/v2"

	"github.com/vegasq/codesearch/internal/metrics"
	"github.com/vegasq/codesearch/query"
	"github.com/vegasq/codesearch/reader"
)

// Config controls caching, parallelism and push-down.
type Config struct {
	Schema query.Schema
	// CacheSize is the number of compiled queries kept.
	CacheSize int
	// Workers bounds the goroutines used to filter one large dataset.
	Workers int
	// ParallelThreshold is the record count above which filtering is split
	// into chunks of ChunkSize.
	ParallelThreshold int
	ChunkSize         int
	// Timeout applies to every search when positive.
	Timeout time.Duration
	// Pushdown evaluates queries in the store when it supports it.
	Pushdown bool
}

// DefaultConfig returns the settings used when a field is left zero.
func DefaultConfig() Config {
	return Config{
		Schema:            query.DefaultSchema,
		CacheSize:         256,
		Workers:           4,
		ParallelThreshold: 50000,
		ChunkSize:         10000,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Schema == (query.Schema{}) {
		c.Schema = d.Schema
	}
	if c.CacheSize <= 0 {
		c.CacheSize = d.CacheSize
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.ParallelThreshold <= 0 {
		c.ParallelThreshold = d.ParallelThreshold
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = d.ChunkSize
	}
	return c
}

// compiled is a parsed and compiled query. pred is nil for a blank query.
type compiled struct {
	tree query.Node
	pred query.Predicate
}

// Service runs searches over one dataset.
type Service struct {
	cfg      Config
	src      reader.Source
	filterer reader.Filterer
	dataset  *reader.Dataset
	cache    *lru.Cache[string, compiled]
	pool     *ants.Pool
	log      *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// New loads the dataset from src and prepares the service. The service
// owns src and closes it on Close.
func New(ctx context.Context, src reader.Source, cfg Config, log *slog.Logger) (*Service, error) {
	cfg = cfg.withDefaults()
	if log == nil {
		log = slog.Default()
	}

	start := time.Now()
	ds, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	cache, err := lru.New[string, compiled](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create query cache: %w", err)
	}
	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	s := &Service{
		cfg:     cfg,
		src:     src,
		dataset: ds,
		cache:   cache,
		pool:    pool,
		log:     log,
	}
	if cfg.Pushdown {
		if f, ok := src.(reader.Filterer); ok {
			s.filterer = f
		} else {
			log.Warn("push-down requested but the source cannot filter; filtering in memory")
		}
	}

	metrics.RecordsLoaded.Set(float64(len(ds.Records)))
	log.Info("dataset loaded",
		"rows", len(ds.Records),
		"columns", len(ds.Columns),
		"pushdown", s.filterer != nil,
		"duration", time.Since(start))
	return s, nil
}

// Search runs one request. Validation failures wrap
// query.ErrInvalidConfiguration or query.ErrParse.
func (s *Service) Search(ctx context.Context, req query.SearchRequest) (query.SearchResult, error) {
	start := time.Now()
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	res, err := s.search(ctx, req)
	searchType, typeErr := query.ParseSearchType(string(req.Match.SearchType))
	typeLabel := string(searchType)
	if typeErr != nil {
		typeLabel = "invalid"
	}
	metrics.SearchesTotal.WithLabelValues(typeLabel, statusLabel(err)).Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if statusLabel(err) != "invalid" {
			s.log.Error("search failed", "query", req.Query, "error", err)
		}
		return query.SearchResult{}, err
	}
	metrics.SearchResults.Observe(float64(res.TotalCount))
	return res, nil
}

func (s *Service) search(ctx context.Context, req query.SearchRequest) (query.SearchResult, error) {
	opts, err := query.ValidateRequest(req, s.cfg.Schema)
	if err != nil {
		return query.SearchResult{}, err
	}
	c, err := s.compile(req.Query, req.Match)
	if err != nil {
		return query.SearchResult{}, err
	}

	var rows []query.Record
	if s.filterer != nil && c.tree != nil {
		rows, err = s.filterer.Filter(ctx, c.tree, req.Match)
	} else {
		rows, err = s.filter(ctx, c.pred)
	}
	if err != nil {
		return query.SearchResult{}, err
	}
	return query.Arrange(rows, opts), nil
}

// compile returns the cached predicate for the query and match spec,
// building it on a miss.
func (s *Service) compile(text string, spec query.MatchSpec) (compiled, error) {
	key := cacheKey(text, spec)
	if c, ok := s.cache.Get(key); ok {
		metrics.PredicateCache.WithLabelValues("hit").Inc()
		return c, nil
	}
	metrics.PredicateCache.WithLabelValues("miss").Inc()

	tree, err := query.ParseString(text)
	if err != nil {
		return compiled{}, err
	}
	c := compiled{tree: tree}
	if tree != nil {
		if c.pred, err = query.Compile(tree, spec); err != nil {
			return compiled{}, err
		}
	}
	s.cache.Add(key, c)
	return c, nil
}

func cacheKey(text string, spec query.MatchSpec) string {
	var sb strings.Builder
	sb.WriteString(string(spec.SearchType))
	sb.WriteByte('|')
	sb.WriteString(strconv.FormatBool(spec.UseFuzzy))
	for _, col := range spec.Columns {
		sb.WriteByte('|')
		sb.WriteString(strconv.Quote(col))
	}
	sb.WriteString("||")
	sb.WriteString(text)
	return sb.String()
}

// filter applies pred to the dataset. Large datasets are split into
// ordered chunks evaluated on the pool; the context is checked per chunk.
func (s *Service) filter(ctx context.Context, pred query.Predicate) ([]query.Record, error) {
	records := s.dataset.Records
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if pred == nil {
		return records, nil
	}
	if len(records) <= s.cfg.ParallelThreshold {
		return query.ApplyFilter(records, pred), nil
	}

	size := s.cfg.ChunkSize
	chunks := (len(records) + size - 1) / size
	results := make([][]query.Record, chunks)
	errs := make([]error, chunks)

	var wg sync.WaitGroup
	for i := 0; i < chunks; i++ {
		lo := i * size
		hi := lo + size
		if hi > len(records) {
			hi = len(records)
		}
		i, part := i, records[lo:hi]
		task := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("filter chunk %d panicked: %v", i, r)
				}
			}()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			results[i] = query.ApplyFilter(part, pred)
		}

		wg.Add(1)
		if err := s.pool.Submit(task); err != nil {
			// pool closed or saturated in non-blocking mode
			task()
		}
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	rows := make([]query.Record, 0, total)
	for _, r := range results {
		rows = append(rows, r...)
	}
	return rows, nil
}

// StatsResult summarises the dataset for the stats endpoint.
type StatsResult struct {
	TotalCount       int                `json:"total_count"`
	DistinctKeyCount int                `json:"distinct_key_count"`
	Top              []query.GroupCount `json:"top"`
}

// Stats counts records, distinct dedup keys and the n most common values
// of column. An empty column means the group column; n <= 0 returns all.
func (s *Service) Stats(column string, n int) StatsResult {
	if column == "" {
		column = s.cfg.Schema.GroupColumn
	}
	st := query.AggregateStats(s.dataset.Records, s.cfg.Schema.DedupColumn)
	return StatsResult{
		TotalCount:       st.TotalCount,
		DistinctKeyCount: st.DistinctKeyCount,
		Top:              st.TopNBy(column, n),
	}
}

// Columns returns the dataset columns in source order
func (s *Service) Columns() []string {
	return append([]string(nil), s.dataset.Columns...)
}

func (s *Service) Schema() query.Schema {
	return s.cfg.Schema
}

// Len is the number of loaded records
func (s *Service) Len() int {
	return len(s.dataset.Records)
}

// Close releases the worker pool and the source. It is safe to call more than once.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		s.pool.Release()
		s.closeErr = s.src.Close()
	})
	return s.closeErr
}

func statusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, query.ErrParse), errors.Is(err, query.ErrInvalidConfiguration):
		return "invalid"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "error"
	}
}
