package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/http/cookiejar"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

const (
	baseURL      = "http://127.0.0.1:8080"
	numWorkers   = 50
	testDuration = 10 * time.Second
	maxRecords   = 40
)

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

var transport = &http.Transport{
	MaxIdleConns:        200,
	MaxIdleConnsPerHost: 200,
	IdleConnTimeout:     30 * time.Second,
	DialContext: (&net.Dialer{
		Timeout:   2 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
}

// browser is one simulated page with its own session cookie.
type browser struct {
	client  *http.Client
	rng     *rand.Rand
	records int
}

func newBrowser(seed int64) *browser {
	jar, _ := cookiejar.New(nil)
	return &browser{
		client: &http.Client{Timeout: 35 * time.Second, Transport: transport, Jar: jar},
		rng:    rand.New(rand.NewSource(seed)),
	}
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

func main() {
	fmt.Println("=== DTR Playground Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	fmt.Print("Waiting for server... ")
	probe := &http.Client{Timeout: 2 * time.Second, Transport: transport}
	for i := 0; i < 30; i++ {
		resp, err := probe.Get(baseURL + "/health")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
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

	fmt.Println("\n--- Phase 1: Editing (records and schedules) ---")
	runPhase(testDuration, func(b *browser) result {
		if b.rng.Float64() < 0.8 {
			return b.addRecord()
		}
		return b.addSchedule()
	})

	fmt.Println("\n--- Phase 2: Mixed (edits, views, logic toggles) ---")
	runPhase(testDuration, func(b *browser) result {
		r := b.rng.Float64()
		switch {
		case r < 0.40:
			return b.addRecord()
		case r < 0.50:
			return b.deleteRecord()
		case r < 0.80:
			return b.getView()
		default:
			return b.toggleLogic()
		}
	})

	fmt.Println("\n--- Phase 3: Read-heavy (90% page views) ---")
	runPhase(testDuration, func(b *browser) result {
		if b.rng.Float64() < 0.10 {
			return b.toggleLogic()
		}
		if b.rng.Float64() < 0.5 {
			return b.getPage()
		}
		return b.getView()
	})
}

func runPhase(duration time.Duration, workFn func(b *browser) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			b := newBrowser(seed)
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(b)
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

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

// do sends one request. Any status in ok counts as a success.
func (b *browser) do(endpoint, method, path string, body any, ok ...int) result {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return result{endpoint, 0, 0, true}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := b.client.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	failed := true
	for _, code := range append(ok, http.StatusOK) {
		if resp.StatusCode == code {
			failed = false
		}
	}
	return result{endpoint, resp.StatusCode, lat, failed}
}

func (b *browser) randomRecord() string {
	day := b.rng.Intn(28) + 1
	hour := b.rng.Intn(12) + 1
	half := "AM"
	if b.rng.Intn(2) == 1 {
		half = "PM"
	}
	t := time.Date(2023, time.June, day, 0, 0, 0, 0, time.UTC)
	return fmt.Sprintf("%s - %02d/%02d/%d - %d:%02d %s", t.Weekday(), day, int(t.Month()), t.Year(), hour, b.rng.Intn(60), half)
}

func (b *browser) addRecord() result {
	if b.records >= maxRecords {
		return b.clearRecords()
	}
	r := b.do("POST /api/records", http.MethodPost, "/api/records", map[string]string{"text": b.randomRecord()})
	if !r.err {
		b.records++
	}
	return r
}

func (b *browser) deleteRecord() result {
	if b.records == 0 {
		return b.addRecord()
	}
	r := b.do("POST /api/records/delete", http.MethodPost, "/api/records/delete",
		map[string]int{"index": b.rng.Intn(b.records)}, http.StatusBadRequest)
	if r.status == http.StatusOK {
		b.records--
	}
	return r
}

func (b *browser) clearRecords() result {
	b.records = 0
	return b.do("POST /api/records/clear", http.MethodPost, "/api/records/clear", nil)
}

func (b *browser) addSchedule() result {
	day := weekdays[b.rng.Intn(len(weekdays))]
	return b.do("POST /api/schedules", http.MethodPost, "/api/schedules", map[string]string{
		"start_day":  day,
		"start_time": "08:00",
		"end_day":    day,
		"end_time":   "17:00",
	})
}

// toggleLogic accepts classifier failures: the backend may not be running.
func (b *browser) toggleLogic() result {
	body := map[string]any{"logic": b.rng.Intn(3) + 1, "active": b.rng.Float64() < 0.8}
	return b.do("POST /api/logic", http.MethodPost, "/api/logic", body,
		http.StatusBadRequest, http.StatusConflict, http.StatusBadGateway)
}

func (b *browser) getView() result {
	return b.do("GET /api/view", http.MethodGet, "/api/view", nil)
}

func (b *browser) getPage() result {
	return b.do("GET /", http.MethodGet, "/", nil)
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
