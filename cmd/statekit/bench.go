package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/statekit-go/statekit/internal/errors"
	"github.com/statekit-go/statekit/pkg/statekit"
)

// profile is one benchmark workload shape.
type profile struct {
	Name        string `toml:"name"`
	Models      int    `toml:"models"`
	Workers     int    `toml:"workers"`
	Updates     int    `toml:"updates"`
	Subscribers int    `toml:"subscribers"`
	TxEvery     int    `toml:"tx_every"`
}

var profiles = map[string]profile{
	"fast": {
		Name:        "fast",
		Models:      10,
		Workers:     4,
		Updates:     5_000,
		Subscribers: 2,
		TxEvery:     0,
	},
	"standard": {
		Name:        "standard",
		Models:      50,
		Workers:     8,
		Updates:     20_000,
		Subscribers: 5,
		TxEvery:     100,
	},
	"stress": {
		Name:        "stress",
		Models:      200,
		Workers:     32,
		Updates:     100_000,
		Subscribers: 10,
		TxEvery:     50,
	},
}

func benchCmd() *cobra.Command {
	var (
		profileName string
		profileFile string
		models      int
		workers     int
		updates     int
		subscribers int
		txEvery     int
		jsonOutput  string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the in-process kernel benchmark",
		Long: `Run a load benchmark against an in-process registry.

Workers hammer the registry with concurrent updates while
subscribers observe every change. Reports update latency
percentiles, throughput, and GC behavior.

Built-in profiles: fast, standard, stress. A TOML profile file
overrides the built-in profile; individual flags override both.

Examples:
  statekit bench
  statekit bench --profile=stress
  statekit bench --profile-file=profiles/heavy.toml --json=-`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProfile(profileName, profileFile)
			if err != nil {
				return err
			}
			if models > 0 {
				p.Models = models
			}
			if workers > 0 {
				p.Workers = workers
			}
			if updates > 0 {
				p.Updates = updates
			}
			if subscribers >= 0 {
				p.Subscribers = subscribers
			}
			if txEvery >= 0 {
				p.TxEvery = txEvery
			}
			if err := validateProfile(p); err != nil {
				return err
			}
			return runBench(p, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&profileName, "profile", "p", "standard", "Built-in profile (fast, standard, stress)")
	cmd.Flags().StringVar(&profileFile, "profile-file", "", "TOML profile file overriding --profile")
	cmd.Flags().IntVar(&models, "models", 0, "Number of models")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of concurrent workers")
	cmd.Flags().IntVar(&updates, "updates", 0, "Updates per worker")
	cmd.Flags().IntVar(&subscribers, "subscribers", -1, "Change subscribers per model")
	cmd.Flags().IntVar(&txEvery, "tx-every", -1, "Wrap every Nth update in a transaction (0 disables)")
	cmd.Flags().StringVar(&jsonOutput, "json", "", "Write JSON report to file ('-' for stdout)")

	return cmd
}

func resolveProfile(name, file string) (profile, error) {
	if file != "" {
		var p profile
		if _, err := toml.DecodeFile(file, &p); err != nil {
			return profile{}, errors.New("E202").
				WithDetail("Failed to parse " + file + ": " + err.Error())
		}
		if p.Name == "" {
			p.Name = file
		}
		return p, nil
	}

	p, ok := profiles[name]
	if !ok {
		return profile{}, errors.New("E201").
			WithDetail("Profile " + strconv.Quote(name) + " is not defined").
			WithSuggestion("Use one of: fast, standard, stress")
	}
	return p, nil
}

func validateProfile(p profile) error {
	if p.Models <= 0 || p.Workers <= 0 || p.Updates <= 0 {
		return errors.New("E203").
			WithDetail("models, workers, and updates must all be positive")
	}
	if p.Subscribers < 0 || p.TxEvery < 0 {
		return errors.New("E203").
			WithDetail("subscribers and tx_every must not be negative")
	}
	return nil
}

// counterState is the benchmark model payload. A small struct with a map
// so every update exercises the deep-copy path, not just integer stores.
type counterState struct {
	Hits   int
	Labels map[string]int
}

func runBench(p profile, jsonOutput string) error {
	reg := statekit.New()

	modelIDs := make([]string, p.Models)
	for i := range modelIDs {
		id := "bench-" + strconv.Itoa(i)
		modelIDs[i] = id
		if err := reg.CreateModel(id, counterState{Labels: map[string]int{}}); err != nil {
			return err
		}
	}

	var notified uint64
	var notifiedMu sync.Mutex
	for _, id := range modelIDs {
		for s := 0; s < p.Subscribers; s++ {
			if _, err := reg.OnChange(id, func(cur, prev any) {
				notifiedMu.Lock()
				notified++
				notifiedMu.Unlock()
			}); err != nil {
				return err
			}
		}
	}

	samplesCh := make(chan time.Duration, p.Workers*64)
	var samples []time.Duration
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for d := range samplesCh {
			samples = append(samples, d)
		}
	}()

	var before runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < p.Workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < p.Updates; i++ {
				id := modelIDs[(worker+i)%len(modelIDs)]
				t0 := time.Now()

				do := func() error {
					return reg.Update(id, func(draft any, ctx *statekit.Ctx) error {
						s := draft.(counterState)
						s.Hits++
						s.Labels["w"+strconv.Itoa(worker%8)]++
						ctx.SetState(s)
						ctx.Notify()
						return nil
					})
				}

				var err error
				if p.TxEvery > 0 && i%p.TxEvery == 0 {
					err = reg.Transaction(do)
				} else {
					err = do()
				}
				if err != nil {
					continue
				}
				samplesCh <- time.Since(t0)
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)
	close(samplesCh)
	<-collectorDone

	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	report := buildReport(p, elapsed, samples, notified, before, after)
	writeSummary(os.Stdout, report)
	if jsonOutput != "" {
		if err := writeJSONReport(jsonOutput, report); err != nil {
			return err
		}
	}
	return nil
}

type benchReport struct {
	Version   string       `json:"version"`
	Run       runInfo      `json:"run"`
	Workload  workloadInfo `json:"workload"`
	LatencyUS latencyInfo  `json:"latency_us"`
	Updates   updateInfo   `json:"updates"`
	GC        gcInfo       `json:"gc"`
}

type runInfo struct {
	Timestamp string `json:"timestamp"`
	Go        string `json:"go"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPUCount  int    `json:"cpu_count"`
}

type workloadInfo struct {
	Profile     string `json:"profile"`
	Models      int    `json:"models"`
	Workers     int    `json:"workers"`
	Updates     int    `json:"updates_per_worker"`
	Subscribers int    `json:"subscribers_per_model"`
	TxEvery     int    `json:"tx_every"`
}

type latencyInfo struct {
	Min float64 `json:"min"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
	Max float64 `json:"max"`
}

type updateInfo struct {
	Total         uint64  `json:"total"`
	PerSecond     float64 `json:"per_second"`
	Notifications uint64  `json:"notifications"`
	DurationMS    int64   `json:"duration_ms"`
}

type gcInfo struct {
	AllocMB      float64 `json:"alloc_mb"`
	NumGC        uint32  `json:"num_gc"`
	PauseTotalMS float64 `json:"pause_total_ms"`
	PauseAvgMS   float64 `json:"pause_avg_ms"`
}

func buildReport(p profile, elapsed time.Duration, samples []time.Duration, notified uint64, before, after runtime.MemStats) benchReport {
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	latency := latencyInfo{}
	if len(samples) > 0 {
		latency = latencyInfo{
			Min: us(samples[0]),
			P50: us(percentile(samples, 0.50)),
			P95: us(percentile(samples, 0.95)),
			P99: us(percentile(samples, 0.99)),
			Max: us(samples[len(samples)-1]),
		}
	}

	total := uint64(len(samples))
	perSec := 0.0
	if elapsed > 0 {
		perSec = float64(total) / elapsed.Seconds()
	}

	gcCount := after.NumGC - before.NumGC
	pauseTotal := time.Duration(after.PauseTotalNs - before.PauseTotalNs)
	pauseAvg := time.Duration(0)
	if gcCount > 0 {
		pauseAvg = pauseTotal / time.Duration(gcCount)
	}

	return benchReport{
		Version: version,
		Run: runInfo{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Go:        runtime.Version(),
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			CPUCount:  runtime.NumCPU(),
		},
		Workload: workloadInfo{
			Profile:     p.Name,
			Models:      p.Models,
			Workers:     p.Workers,
			Updates:     p.Updates,
			Subscribers: p.Subscribers,
			TxEvery:     p.TxEvery,
		},
		LatencyUS: latency,
		Updates: updateInfo{
			Total:         total,
			PerSecond:     perSec,
			Notifications: notified,
			DurationMS:    elapsed.Milliseconds(),
		},
		GC: gcInfo{
			AllocMB:      float64(after.TotalAlloc-before.TotalAlloc) / (1024 * 1024),
			NumGC:        gcCount,
			PauseTotalMS: float64(pauseTotal) / float64(time.Millisecond),
			PauseAvgMS:   float64(pauseAvg) / float64(time.Millisecond),
		},
	}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func us(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}

func writeSummary(w io.Writer, report benchReport) {
	fmt.Fprintln(w, "=== Statekit Kernel Benchmark ===")
	fmt.Fprintf(w, "Profile: %s\n", report.Workload.Profile)
	fmt.Fprintf(w, "Models: %d\n", report.Workload.Models)
	fmt.Fprintf(w, "Workers: %d\n", report.Workload.Workers)
	fmt.Fprintf(w, "Updates per worker: %d\n", report.Workload.Updates)
	fmt.Fprintf(w, "Subscribers per model: %d\n", report.Workload.Subscribers)
	if report.Workload.TxEvery > 0 {
		fmt.Fprintf(w, "Transaction every: %d updates\n", report.Workload.TxEvery)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Total updates: %d\n", report.Updates.Total)
	fmt.Fprintf(w, "Throughput: %.0f updates/s\n", report.Updates.PerSecond)
	fmt.Fprintf(w, "Notifications delivered: %d\n", report.Updates.Notifications)
	fmt.Fprintf(w, "Wall time: %s\n", time.Duration(report.Updates.DurationMS)*time.Millisecond)
	fmt.Fprintln(w)

	if report.LatencyUS.Max == 0 {
		fmt.Fprintln(w, "No latency samples recorded.")
	} else {
		fmt.Fprintln(w, "Update latency (lease -> commit -> flush):")
		fmt.Fprintf(w, "  min: %.1f µs\n", report.LatencyUS.Min)
		fmt.Fprintf(w, "  p50: %.1f µs\n", report.LatencyUS.P50)
		fmt.Fprintf(w, "  p95: %.1f µs\n", report.LatencyUS.P95)
		fmt.Fprintf(w, "  p99: %.1f µs\n", report.LatencyUS.P99)
		fmt.Fprintf(w, "  max: %.1f µs\n", report.LatencyUS.Max)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Go runtime / GC (process-wide):")
	fmt.Fprintf(w, "  alloc:    %.2f MB\n", report.GC.AllocMB)
	fmt.Fprintf(w, "  num_gc:   %d\n", report.GC.NumGC)
	fmt.Fprintf(w, "  gc_pause: %.2f ms (total)\n", report.GC.PauseTotalMS)
	fmt.Fprintf(w, "  gc_pause: %.2f ms (avg)\n", report.GC.PauseAvgMS)
}

func writeJSONReport(path string, report benchReport) error {
	var out io.Writer
	if path == "-" {
		out = os.Stdout
	} else {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
