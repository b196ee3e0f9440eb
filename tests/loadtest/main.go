package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
)

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

// created ids, shared by the workers
var ids struct {
	mu   sync.RWMutex
	list []string
}

func pickID(rng *rand.Rand) (string, bool) {
	ids.mu.RLock()
	defer ids.mu.RUnlock()
	if len(ids.list) == 0 {
		return "", false
	}
	return ids.list[rng.Intn(len(ids.list))], true
}

func main() {
	fmt.Println("=== Account Tracker Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
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

	fmt.Println("\n--- Phase 1: Seeding accounts (POST /api/accounts) ---")
	runPhase(testDuration/5, func(rng *rand.Rand) result {
		return doCreate(rng)
	})

	fmt.Println("\n--- Phase 2: Mixed load (20% create, 40% toggle, 40% read) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.20:
			return doCreate(rng)
		case r < 0.60:
			return doToggle(rng)
		case r < 0.80:
			return doGet(rng)
		default:
			return doList(rng)
		}
	})

	fmt.Println("\n--- Phase 3: Read-heavy load (cached list) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.10 {
			return doToggle(rng)
		}
		return doList(rng)
	})
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

func doCreate(rng *rand.Rand) result {
	data, _ := json.Marshal(map[string]string{"name": fmt.Sprintf("acc_%d", rng.Int63())})
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/api/accounts", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /accounts", 0, lat, true}
	}
	defer resp.Body.Close()

	var created struct {
		ID string `json:"id"`
	}
	if resp.StatusCode == http.StatusCreated && json.NewDecoder(resp.Body).Decode(&created) == nil {
		ids.mu.Lock()
		ids.list = append(ids.list, created.ID)
		ids.mu.Unlock()
	}
	io.Copy(io.Discard, resp.Body)
	return result{"POST /accounts", resp.StatusCode, lat, resp.StatusCode != http.StatusCreated}
}

func doToggle(rng *rand.Rand) result {
	id, ok := pickID(rng)
	if !ok {
		return doCreate(rng)
	}
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/api/accounts/"+id+"/toggle", "application/json", nil)
	lat := time.Since(start)
	if err != nil {
		return result{"POST /toggle", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	// fresh accounts are rejected with 409
	ok = resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusConflict
	return result{"POST /toggle", resp.StatusCode, lat, !ok}
}

func doGet(rng *rand.Rand) result {
	id, ok := pickID(rng)
	if !ok {
		return doList(rng)
	}
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/api/accounts/" + id)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /accounts/{id}", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /accounts/{id}", resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func doList(rng *rand.Rand) result {
	groups := []string{"", "old", "new"}
	url := baseURL + "/api/accounts"
	if g := groups[rng.Intn(len(groups))]; g != "" {
		url += "?group=" + g
	}
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /accounts", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /accounts", resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
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
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
