package kv

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

	"github.com/kvclabs/dkc/cmd/util"
	"github.com/kvclabs/dkc/lib/command"
	"github.com/kvclabs/dkc/rpc/common"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for dkc servers",
		Long:    "",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__test"
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfSkip             = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("How large the value for the set-large test should be (in KB)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = viper.GetInt("keys")
	perfNumThreads = viper.GetInt("threads")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

// perfResult couples the benchmark harness result with the latency timer
// that sampled the individual operations
type perfResult struct {
	bench testing.BenchmarkResult
	timer metrics.Timer
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for dkc servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]perfResult)

	run := func(name string, setup func(iter func(func(string))), op func(key string) error) {
		timer := metrics.NewTimer()
		bench := testing.Benchmark(func(b *testing.B) {
			if shouldSkip(name) {
				return
			}

			// prepare keys
			getKey, iter := getKeys(name)
			if setup != nil {
				setup(iter)
			}

			// cleanup
			b.Cleanup(func() {
				iter(func(k string) {
					if c, err := command.NewRemove(k); err == nil {
						if _, err := c.Execute(sess); err != nil {
							log.Printf("(%s) - error deleting key: %v\n", name, err)
						}
					}
				})
			})

			b.SetParallelism(perfNumThreads)

			b.ResetTimer()

			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					start := time.Now()
					if err := op(getKey(counter)); err != nil {
						log.Printf("(%s) - operation error: %v\n", name, err)
					}
					timer.UpdateSince(start)
					counter++
				}
			})
		})

		result := perfResult{bench: bench, timer: timer}
		results[name] = result
		printResult(name, result)
	}

	// seed fills the key range before a read-heavy benchmark
	seed := func(iter func(func(string))) {
		iter(func(k string) {
			if c, err := command.NewSet(k, "test", false); err == nil {
				if _, err := c.Execute(sess); err != nil {
					log.Printf("(seed) - error setting key: %v\n", err)
				}
			}
		})
	}

	run("set", nil, func(key string) error {
		c, err := command.NewSet(key, "test", false)
		if err != nil {
			return err
		}
		_, err = c.Execute(sess)
		return err
	})

	largeValue := strings.Repeat("x", perfLargeValueSizeKB*1024)
	run("set-large", nil, func(key string) error {
		c, err := command.NewSet(key, largeValue, false)
		if err != nil {
			return err
		}
		_, err = c.Execute(sess)
		return err
	})

	run("get", seed, func(key string) error {
		c, err := command.NewGet(key)
		if err != nil {
			return err
		}
		_, err = c.Execute(sess)
		return err
	})

	run("get-not", nil, func(key string) error {
		c, err := command.NewGet(key + "-absent")
		if err != nil {
			return err
		}
		// a clean miss is the expected outcome here
		_, err = c.Execute(sess)
		return err
	})

	run("delete", seed, func(key string) error {
		c, err := command.NewRemove(key)
		if err != nil {
			return err
		}
		_, err = c.Execute(sess)
		return err
	})

	run("queue", nil, func(key string) error {
		push, err := command.NewQueueAdd(perfKeyPrefix+"-queue", "test", true)
		if err != nil {
			return err
		}
		if _, err := push.Execute(sess); err != nil {
			return err
		}
		pop, err := command.NewQueueRemove(perfKeyPrefix+"-queue", 1, true)
		if err != nil {
			return err
		}
		_, err = pop.Execute(sess)
		return err
	})

	counter := 0
	run("mixed", seed, func(key string) error {
		counter++
		switch counter % 3 {
		case 0:
			c, err := command.NewSet(key, "test", false)
			if err != nil {
				return err
			}
			_, err = c.Execute(sess)
			return err
		case 1:
			c, err := command.NewGet(key)
			if err != nil {
				return err
			}
			_, err = c.Execute(sess)
			return err
		default:
			c, err := command.NewRemove(key)
			if err != nil {
				return err
			}
			_, err = c.Execute(sess)
			return err
		}
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

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result perfResult) {
	if result.bench.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.bench.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)
	p50 := time.Duration(int64(result.timer.Percentile(0.50)))
	p99 := time.Duration(int64(result.timer.Percentile(0.99)))

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\tp50=%s p99=%s\n",
		test, nsPerOp, time.Duration(nsPerOp), opsPerSec, p50, p99)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]perfResult, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "P50", "P99", "Skipped",
		"Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint",
		"Serializer", "Transport",
		"Threads", "LargeValueSizeKB", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.bench.NsPerOp() == 0 {
			skipped = "true"
			nsPerOp = 0
			opsPerSec = 0
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.bench.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			time.Duration(int64(result.timer.Percentile(0.50))).String(),
			time.Duration(int64(result.timer.Percentile(0.99))).String(),
			skipped,
			strings.Join(config.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.RetryCount),
			strconv.Itoa(config.ConnectionsPerEndpoint),
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
