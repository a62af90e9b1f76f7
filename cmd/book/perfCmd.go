package book

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/dPB/cmd/util"
	"github.com/ValentinKolb/dPB/lib/interp"
	"github.com/ValentinKolb/dPB/lib/record"
	"github.com/ValentinKolb/dPB/rpc/common"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for dPB servers",
		Long:    "Runs insert, get, get-miss, remove and mixed benchmarks against the configured shard. All records created by the benchmarks are removed afterwards.",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix  = "__perf"
	perfNumThreads = 10
	perfKeySpread  = 100
	perfSkip       = make([]string, 0)

	// latency per benchmark, keyed by test name
	perfTimers = metrics.NewRegistry()
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. insert,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different last names to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfKeySpread = max(1, viper.GetInt("keys"))
	perfNumThreads = max(1, viper.GetInt("threads"))
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for dPB servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Shard: %d\n", util.GetShardID())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	baseline, err := rpcDevice.Stats()
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]testing.BenchmarkResult)

	results["insert"] = runBenchmark("insert", func(b *testing.B, keys *perfKeys, timer metrics.Timer) {
		b.Cleanup(func() { cleanup("insert", baseline.Records, keys) })

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				start := time.Now()
				if err := rpcDevice.Submit(keys.insertLine(counter)); err != nil {
					log.Printf("(insert) - error inserting record: %v\n", err)
				}
				timer.UpdateSince(start)
				counter++
			}
		})
	})

	results["get"] = runBenchmark("get", func(b *testing.B, keys *perfKeys, timer metrics.Timer) {
		keys.insertAll("get")
		b.Cleanup(func() { cleanup("get", baseline.Records, keys) })
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				start := time.Now()
				if err := getOnce(keys.lastName(counter)); err != nil {
					log.Printf("(get) - error reading record: %v\n", err)
				}
				timer.UpdateSince(start)
				counter++
			}
		})
	})

	results["get-miss"] = runBenchmark("get-miss", func(b *testing.B, keys *perfKeys, timer metrics.Timer) {
		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				start := time.Now()
				if err := getOnce(keys.lastName(counter)); err != nil {
					log.Printf("(get-miss) - error reading record: %v\n", err)
				}
				timer.UpdateSince(start)
				counter++
			}
		})
	})

	results["remove"] = runBenchmark("remove", func(b *testing.B, keys *perfKeys, timer metrics.Timer) {
		keys.insertAll("remove")
		b.Cleanup(func() { cleanup("remove", baseline.Records, keys) })
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				start := time.Now()
				if err := rpcDevice.Submit(keys.removeLine(counter)); err != nil {
					log.Printf("(remove) - error removing record: %v\n", err)
				}
				timer.UpdateSince(start)
				counter++
			}
		})
	})

	results["mixed"] = runBenchmark("mixed", func(b *testing.B, keys *perfKeys, timer metrics.Timer) {
		keys.insertAll("mixed")
		b.Cleanup(func() { cleanup("mixed", baseline.Records, keys) })
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				start := time.Now()
				var err error
				switch counter % 3 {
				case 0: // insert
					err = rpcDevice.Submit(keys.insertLine(counter))
				case 1: // get
					err = getOnce(keys.lastName(counter))
				case 2: // remove
					err = rpcDevice.Submit(keys.removeLine(counter))
				}
				timer.UpdateSince(start)

				if err != nil {
					log.Printf("(mixed) - error performing operation (%d): %v\n", counter%3, err)
				}
				counter++
			}
		})
	})

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, util.GetClientConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// perfKeys holds the prebuilt command lines of one benchmark
type perfKeys struct {
	lastNames []string
	inserts   [][]byte
	removes   [][]byte
}

func newPerfKeys(test string) *perfKeys {
	k := &perfKeys{
		lastNames: make([]string, perfKeySpread),
		inserts:   make([][]byte, perfKeySpread),
		removes:   make([][]byte, perfKeySpread),
	}
	for i := 0; i < perfKeySpread; i++ {
		last := fmt.Sprintf("%s-%s-%d", perfKeyPrefix, test, i)
		r := record.Record{
			FirstName:   "Perf",
			LastName:    last,
			Age:         strconv.Itoa(i % 100),
			PhoneNumber: fmt.Sprintf("555-%04d", i),
			Email:       fmt.Sprintf("perf%d@dpb.local", i),
		}
		k.lastNames[i] = last
		k.inserts[i] = []byte(r.InsertLine())
		k.removes[i] = []byte(interp.CmdRemove + " " + last)
	}
	return k
}

func (k *perfKeys) lastName(i int) string { return k.lastNames[i%len(k.lastNames)] }
func (k *perfKeys) insertLine(i int) []byte { return k.inserts[i%len(k.inserts)] }
func (k *perfKeys) removeLine(i int) []byte { return k.removes[i%len(k.removes)] }

// insertAll inserts one record per key
func (k *perfKeys) insertAll(test string) {
	for _, line := range k.inserts {
		if err := rpcDevice.Submit(line); err != nil {
			log.Printf("(%s) - error inserting record: %v\n", test, err)
		}
	}
}

// runBenchmark runs fn as a parallel benchmark and prints the result together
// with the latency percentiles recorded in the test's timer
func runBenchmark(test string, fn func(b *testing.B, keys *perfKeys, timer metrics.Timer)) testing.BenchmarkResult {
	timer := metrics.GetOrRegisterTimer(test, perfTimers)

	result := testing.Benchmark(func(b *testing.B) {
		if shouldSkip(test) {
			return
		}
		keys := newPerfKeys(test)
		b.SetParallelism(perfNumThreads)
		b.ResetTimer()
		fn(b, keys, timer)
	})

	// drop output left behind by get commands
	if err := drainAll(); err != nil {
		log.Printf("(%s) - error draining output: %v\n", test, err)
	}

	printResult(test, result, timer)
	return result
}

// getOnce submits a get and reads at most one chunk of output
func getOnce(lastName string) error {
	if err := rpcDevice.Submit([]byte(interp.CmdGet + " " + lastName)); err != nil {
		return err
	}
	_, err := rpcDevice.Drain(drainSize())
	return err
}

// cleanup removes benchmark records until the record count is back at baseline
func cleanup(test string, baseline int, keys *perfKeys) {
	for {
		stats, err := rpcDevice.Stats()
		if err != nil {
			log.Printf("(%s) - error reading stats: %v\n", test, err)
			return
		}
		if stats.Records <= baseline {
			return
		}
		for i := range keys.removes {
			if err := rpcDevice.Submit(keys.removes[i]); err != nil {
				log.Printf("(%s) - error removing record: %v\n", test, err)
				return
			}
		}
	}
}

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult, timer metrics.Timer) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	snap := timer.Snapshot()
	ps := snap.Percentiles([]float64{0.5, 0.99})

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\tp50=%s p99=%s\n",
		test, nsPerOp, time.Duration(nsPerOp), opsPerSec, time.Duration(ps[0]), time.Duration(ps[1]))
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "P50Ns", "P99Ns", "Skipped",
		"Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint",
		"ShardID", "Serializer", "Transport",
		"Threads", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var p50, p99 float64
		var skipped string

		if result.NsPerOp() == 0 {
			skipped = "true"
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
			if timer, ok := perfTimers.Get(test).(metrics.Timer); ok {
				ps := timer.Snapshot().Percentiles([]float64{0.5, 0.99})
				p50, p99 = ps[0], ps[1]
			}
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			fmt.Sprintf("%.0f", p50),
			fmt.Sprintf("%.0f", p99),
			skipped,
			strings.Join(config.Transport.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.Transport.RetryCount),
			strconv.Itoa(config.Transport.ConnectionsPerEndpoint),
			strconv.FormatUint(util.GetShardID(), 10),
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
