package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numAccounts  = 5000
)

var firstNames = []string{"alice", "bob", "carol", "dave", "erin", "frank", "grace", "heidi"}
var lastNames = []string{"smith", "lee", "ann lee", "o", "van dyke", ""}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

type seedNick struct {
	Account string `json:"account"`
	Nick    string `json:"nick"`
	Deposit uint64 `json:"deposit"`
}

// Usage:
//
//	loadtest seed <file> [n]   write a schema 0 seed file for "nicks import"
//	loadtest                   run the read load against a served store
func main() {
	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := writeSeed(os.Args[2:]); err != nil {
			fmt.Println("FAILED:", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("=== Nicks Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Accounts: %d\n\n", numWorkers, testDuration, numAccounts)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/status")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: known accounts only
	fmt.Println("\n--- Phase 1: Lookups (GET /nick) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doGetNick(rng.Intn(numAccounts), http.StatusOK)
	})

	// Phase 2: mixed reads, including unknown accounts
	fmt.Println("\n--- Phase 2: Mixed reads (80% known, 10% unknown, 10% status) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.80:
			return doGetNick(rng.Intn(numAccounts), http.StatusOK)
		case r < 0.90:
			return doGetNick(numAccounts+rng.Intn(numAccounts), http.StatusNotFound)
		default:
			return doGet("GET /status", baseURL+"/status", http.StatusOK)
		}
	})
}

func accountHex(i int) string {
	var id [32]byte
	copy(id[:], strconv.Itoa(i))
	id[31] = byte(i)
	return "0x" + hex.EncodeToString(id[:])
}

func writeSeed(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: loadtest seed <file> [n]")
	}
	n := numAccounts
	if len(args) > 1 {
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		n = v
	}

	rng := rand.New(rand.NewSource(1))
	seed := struct {
		Nicks []seedNick `json:"nicks"`
	}{Nicks: make([]seedNick, 0, n)}
	for i := 0; i < n; i++ {
		nick := firstNames[rng.Intn(len(firstNames))]
		if last := lastNames[rng.Intn(len(lastNames))]; last != "" {
			nick += " " + last
		}
		seed.Nicks = append(seed.Nicks, seedNick{Account: accountHex(i), Nick: nick, Deposit: uint64(rng.Intn(100) + 1)})
	}

	data, err := json.Marshal(seed)
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], data, 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %d nicknames to %s\n", n, args[0])
	return nil
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doGetNick(i int, want int) result {
	return doGet("GET /nick", baseURL+"/nick?account="+accountHex(i), want)
}

func doGet(endpoint, url string, want int) result {
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != want}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	return strings.Repeat(s, n)
}
