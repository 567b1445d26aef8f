package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
)

var brandPool = []string{
	"Coca-Cola", "Pepsi", "Nike", "Adidas", "Apple", "Samsung",
	"Tesla", "BMW", "Starbucks", "Red Bull", "KFC", "Subway",
}

var modes = []string{"competitive", "collaborative", "fusion"}

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

// comboIDs collects ids returned by /generate so the vote phases have real
// targets.
var comboIDs struct {
	mu  sync.Mutex
	ids []string
}

func rememberCombo(id string) {
	comboIDs.mu.Lock()
	defer comboIDs.mu.Unlock()
	comboIDs.ids = append(comboIDs.ids, id)
}

func randomCombo(rng *rand.Rand) string {
	comboIDs.mu.Lock()
	defer comboIDs.mu.Unlock()
	if len(comboIDs.ids) == 0 {
		return "does-not-exist"
	}
	return comboIDs.ids[rng.Intn(len(comboIDs.ids))]
}

func main() {
	fmt.Println("=== mixd Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	// Wait for server
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

	// Phase 1: Seed combos
	fmt.Println("\n--- Phase 1: Seeding combos (POST /generate) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doGenerate(rng)
	})

	// Phase 2: Vote-heavy load
	fmt.Println("\n--- Phase 2: Mixed load (50% vote, 40% leaderboard, 10% generate) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.50:
			return doVote(rng)
		case r < 0.90:
			return doLeaderboard(rng)
		default:
			return doGenerate(rng)
		}
	})

	// Phase 3: Read-heavy load
	fmt.Println("\n--- Phase 3: Read-heavy load (10% vote, 90% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doVote(rng)
		case r < 0.80:
			return doLeaderboard(rng)
		default:
			return doBrands(rng)
		}
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

func doGenerate(rng *rand.Rand) result {
	p1 := brandPool[rng.Intn(len(brandPool))]
	p2 := brandPool[rng.Intn(len(brandPool))]
	for p2 == p1 {
		p2 = brandPool[rng.Intn(len(brandPool))]
	}

	body := map[string]interface{}{
		"product1": p1,
		"product2": p2,
		"mode":     modes[rng.Intn(len(modes))],
	}
	data, _ := json.Marshal(body)

	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/generate", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /generate", 0, lat, true}
	}
	defer resp.Body.Close()

	if resp.StatusCode == 200 {
		var parsed struct {
			Combo struct {
				ID string `json:"id"`
			} `json:"combo"`
		}
		if json.NewDecoder(resp.Body).Decode(&parsed) == nil && parsed.Combo.ID != "" {
			rememberCombo(parsed.Combo.ID)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return result{"POST /generate", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doVote(rng *rand.Rand) result {
	body := map[string]interface{}{"combo_id": randomCombo(rng)}
	data, _ := json.Marshal(body)

	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/vote", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /vote", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /vote", resp.StatusCode, lat, resp.StatusCode != 200 && resp.StatusCode != 404}
}

func doLeaderboard(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/leaderboard?limit=%d", baseURL, rng.Intn(20)+1)
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /leaderboard", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /leaderboard", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doBrands(rng *rand.Rand) result {
	categories := []string{"all", "food", "beverages", "tech", "fashion", "automotive"}
	url := fmt.Sprintf("%s/brands?category=%s", baseURL, categories[rng.Intn(len(categories))])
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /brands", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /brands", resp.StatusCode, lat, resp.StatusCode != 200}
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
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
