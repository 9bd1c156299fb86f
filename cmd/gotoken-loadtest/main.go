package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goToken "github.com/MrEthical07/goToken"
	"github.com/MrEthical07/goToken/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type loadSubject struct {
	UserID string `json:"uid"`
	Tenant string `json:"tenant"`
}

func (loadSubject) TTL() time.Duration { return time.Hour }
func (loadSubject) Secret() []byte     { return []byte("gotoken-loadtest-secret-not-for-production") }

func main() {
	var (
		tokens      = flag.Int("tokens", 10000, "number of distinct tokens to issue before the verify phase")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (issue + verify)")
		useStore    = flag.Bool("store", false, "also run a put/get phase against the handle store")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "tok", "handle key prefix")
		debug       = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	// A missing .env file is fine.
	_ = godotenv.Load()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	if *tokens <= 0 || *concurrency <= 0 || *ops <= 0 {
		logger.Error().Msg("tokens, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	cfg, err := goToken.LoadConfig("GOTOKEN_")
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true

	manager, err := goToken.NewManager[loadSubject](cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("build manager")
	}
	logger.Info().
		Str("algorithm", string(manager.Config().Algorithm)).
		Dur("leeway", manager.Config().Leeway).
		Int("concurrency", *concurrency).
		Int("ops", *ops).
		Msg("starting")

	issueStats, issued := runIssuePhase(manager, *tokens, *ops, *concurrency)
	if len(issued) == 0 {
		logger.Fatal().Int64("failures", issueStats.failures).Msg("no tokens issued")
	}
	verifyStats := runVerifyPhase(manager, issued, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("issue", issueStats)
	printStats("verify", verifyStats)

	if *useStore {
		storeStats, err := runStorePhase(logger, *redisAddr, *prefix, issued, *ops, *concurrency)
		if err != nil {
			logger.Fatal().Err(err).Msg("store phase")
		}
		printStats("store", storeStats)
	}

	snapshot := manager.MetricsSnapshot()
	logger.Debug().
		Uint64("issue_success", snapshot.Counters[goToken.MetricIssueSuccess]).
		Uint64("verify_success", snapshot.Counters[goToken.MetricVerifySuccess]).
		Uint64("verify_failure", snapshot.Counters[goToken.MetricVerifyFailure]).
		Interface("verify_latency_buckets", snapshot.Histograms[goToken.MetricVerifyLatency]).
		Msg("manager metrics")
}

func runIssuePhase(manager *goToken.Manager[loadSubject], keep, ops, concurrency int) (phaseStats, []goToken.Encoded[loadSubject]) {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		issued    = make([]goToken.Encoded[loadSubject], 0, keep)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				sub := loadSubject{UserID: fmt.Sprintf("u-%d", i), Tenant: "t0"}
				t0 := time.Now()
				enc, err := manager.Issue(sub)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}

				mu.Lock()
				latencies = append(latencies, d)
				if err == nil && len(issued) < keep {
					issued = append(issued, enc)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures), issued
}

func runVerifyPhase(manager *goToken.Manager[loadSubject], issued []goToken.Encoded[loadSubject], ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				tok := issued[r.Intn(len(issued))]
				t0 := time.Now()
				_, err := manager.Verify(tok.String())
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

func runStorePhase(logger zerolog.Logger, redisAddr, prefix string, issued []goToken.Encoded[loadSubject], ops, concurrency int) (phaseStats, error) {
	ctx := context.Background()

	addr := redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return phaseStats{}, fmt.Errorf("start miniredis: %w", err)
		}
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{mr.Addr()},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		logger.Info().Str("addr", mr.Addr()).Msg("using miniredis")
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		logger.Info().Str("addr", addr).Msg("using redis")
	}
	defer cleanup()

	handles := store.New[loadSubject](client, prefix)
	rtt, err := handles.Ping(ctx)
	if err != nil {
		return phaseStats{}, err
	}
	logger.Debug().Dur("rtt", rtt).Msg("redis ping")

	expiresAt := time.Now().Add(loadSubject{}.TTL())

	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				tok := issued[r.Intn(len(issued))]
				t0 := time.Now()
				err := putGet(ctx, handles, tok, expiresAt)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
					logger.Debug().Err(err).Msg("store round trip failed")
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures), nil
}

func putGet(ctx context.Context, handles *store.Store[loadSubject], tok goToken.Encoded[loadSubject], expiresAt time.Time) error {
	handle, err := handles.Put(ctx, tok, expiresAt)
	if err != nil {
		return err
	}
	got, err := handles.Get(ctx, handle)
	if err != nil {
		return err
	}
	if got.String() != tok.String() {
		return fmt.Errorf("handle %s returned a different token", handle)
	}
	return handles.Delete(ctx, handle)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total, failures: failures}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
