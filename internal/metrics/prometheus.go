package metrics

import (
	"net/http"
	"sort"
	"strconv"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

const namespace = "grade_server"

// WritePrometheus encodes snap in the Prometheus text exposition format.
func WritePrometheus(w http.ResponseWriter, snap Snapshot) error {
	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))
	w.WriteHeader(http.StatusOK)

	enc := expfmt.NewEncoder(w, format)
	for _, mf := range Families(snap) {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// Families converts a snapshot into metric families with stable ordering.
func Families(snap Snapshot) []*dto.MetricFamily {
	families := []*dto.MetricFamily{
		counterFamily("requests_total", "Requests received, by HTTP method.", "method", snap.Methods),
		counterFamily("responses_total", "Responses written, by status code.", "code", statusLabels(snap.StatusCodes)),
		counterFamily("grades_total", "Grades issued, by grade.", "grade", snap.Grades),
		{
			Name: proto.String(namespace + "_response_duration_seconds"),
			Help: proto.String("Response latency; quantiles cover the most recent responses."),
			Type: dto.MetricType_SUMMARY.Enum(),
			Metric: []*dto.Metric{{
				Summary: &dto.Summary{
					SampleCount: proto.Uint64(uint64(snap.Completed)),
					SampleSum:   proto.Float64(snap.TotalDuration.Seconds()),
					Quantile: []*dto.Quantile{
						{Quantile: proto.Float64(0.5), Value: proto.Float64(snap.P50Response.Seconds())},
						{Quantile: proto.Float64(0.95), Value: proto.Float64(snap.P95Response.Seconds())},
						{Quantile: proto.Float64(0.99), Value: proto.Float64(snap.P99Response.Seconds())},
					},
				},
			}},
		},
		{
			Name: proto.String(namespace + "_uptime_seconds"),
			Help: proto.String("Seconds since the metrics store was created."),
			Type: dto.MetricType_GAUGE.Enum(),
			Metric: []*dto.Metric{{
				Gauge: &dto.Gauge{Value: proto.Float64(snap.Uptime.Seconds())},
			}},
		},
	}

	// The text encoder rejects families without samples.
	nonEmpty := families[:0]
	for _, mf := range families {
		if len(mf.Metric) > 0 {
			nonEmpty = append(nonEmpty, mf)
		}
	}
	return nonEmpty
}

func counterFamily(name, help, label string, values map[string]int64) *dto.MetricFamily {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mf := &dto.MetricFamily{
		Name: proto.String(namespace + "_" + name),
		Help: proto.String(help),
		Type: dto.MetricType_COUNTER.Enum(),
	}
	for _, k := range keys {
		mf.Metric = append(mf.Metric, &dto.Metric{
			Label:   []*dto.LabelPair{{Name: proto.String(label), Value: proto.String(k)}},
			Counter: &dto.Counter{Value: proto.Float64(float64(values[k]))},
		})
	}
	return mf
}

func statusLabels(codes map[int]int64) map[string]int64 {
	out := make(map[string]int64, len(codes))
	for code, n := range codes {
		out[strconv.Itoa(code)] = n
	}
	return out
}
