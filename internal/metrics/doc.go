// Package metrics provides real-time metrics collection for the grade service.
//
// It uses a channel-based event pipeline to asynchronously collect:
//   - Request counts per HTTP method
//   - HTTP status code distribution
//   - Grade distribution
//   - Response times with percentile calculations (P50, P95, P99)
//
// The collector runs in a dedicated goroutine and processes events without blocking
// the request path. Events are sent via a buffered channel with non-blocking semantics
// so a slow collector never delays a response.
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.Emit(metrics.MetricEvent{
//		Type:       metrics.EventResponseCompleted,
//		Duration:   150 * time.Microsecond,
//		StatusCode: 200,
//	})
//
//	snapshot := collector.Snapshot()
//
// Handler exposes the snapshot as JSON or in the Prometheus text format.
package metrics
