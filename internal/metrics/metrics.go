package metrics

import (
	"sort"
	"sync"
	"time"
)

const maxResponseSamples = 1000

type Metrics struct {
	mutex         sync.RWMutex
	requests      map[string]int64
	statusCodes   map[int]int64
	grades        map[string]int64
	responseTimes []time.Duration
	completed     int64
	totalDuration time.Duration
	startTime     time.Time
}

type Snapshot struct {
	TotalRequests int64            `json:"total_requests"`
	Completed     int64            `json:"completed"`
	Uptime        time.Duration    `json:"uptime"`
	Methods       map[string]int64 `json:"methods"`
	StatusCodes   map[int]int64    `json:"status_codes"`
	Grades        map[string]int64 `json:"grades"`
	TotalDuration time.Duration    `json:"total_duration"`
	AvgResponse   time.Duration    `json:"avg_response"`
	P50Response   time.Duration    `json:"p50_response"`
	P95Response   time.Duration    `json:"p95_response"`
	P99Response   time.Duration    `json:"p99_response"`
}

func (m *Metrics) IncrementRequests(method string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.requests[method]++
}

func (m *Metrics) RecordGrade(grade string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.grades[grade]++
}

func (m *Metrics) RecordResponse(duration time.Duration, statusCode int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.responseTimes = append(m.responseTimes, duration)
	if len(m.responseTimes) > maxResponseSamples {
		m.responseTimes = m.responseTimes[1:]
	}

	m.completed++
	m.totalDuration += duration
	m.statusCodes[statusCode]++
}

// Snapshot returns a copy of the current counters. Latency percentiles cover
// the most recent responses only.
func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Completed:     m.completed,
		Uptime:        time.Since(m.startTime),
		Methods:       make(map[string]int64, len(m.requests)),
		StatusCodes:   make(map[int]int64, len(m.statusCodes)),
		Grades:        make(map[string]int64, len(m.grades)),
		TotalDuration: m.totalDuration,
	}

	for method, n := range m.requests {
		snap.Methods[method] = n
		snap.TotalRequests += n
	}
	for code, n := range m.statusCodes {
		snap.StatusCodes[code] = n
	}
	for grade, n := range m.grades {
		snap.Grades[grade] = n
	}

	if len(m.responseTimes) > 0 {
		sorted := make([]time.Duration, len(m.responseTimes))
		copy(sorted, m.responseTimes)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i] < sorted[j]
		})

		snap.AvgResponse = average(sorted)
		snap.P50Response = percentile(sorted, 0.50)
		snap.P95Response = percentile(sorted, 0.95)
		snap.P99Response = percentile(sorted, 0.99)
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		requests:    make(map[string]int64),
		statusCodes: make(map[int]int64),
		grades:      make(map[string]int64),
		startTime:   time.Now(),
	}
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
