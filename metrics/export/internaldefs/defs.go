package internaldefs

import (
	goToken "github.com/MrEthical07/goToken"
)

// BucketCount is the number of latency histogram buckets, +Inf included.
const BucketCount = 8

// CounterDef names one Manager counter.
type CounterDef struct {
	ID   goToken.MetricID
	Name string
	Help string
}

// HistogramDef names one Manager histogram.
type HistogramDef struct {
	ID   goToken.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: goToken.MetricIssueSuccess, Name: "gotoken_issue_success_total", Help: "Tokens signed."},
	{ID: goToken.MetricIssueFailure, Name: "gotoken_issue_failure_total", Help: "Tokens that failed to sign."},
	{ID: goToken.MetricVerifySuccess, Name: "gotoken_verify_success_total", Help: "Tokens accepted."},
	{ID: goToken.MetricVerifyFailure, Name: "gotoken_verify_failure_total", Help: "Tokens rejected for any reason."},
	{ID: goToken.MetricVerifyExpired, Name: "gotoken_verify_expired_total", Help: "Tokens rejected as expired."},
	{ID: goToken.MetricVerifySignatureInvalid, Name: "gotoken_verify_signature_invalid_total", Help: "Tokens rejected for a signature mismatch."},
	{ID: goToken.MetricVerifyMalformed, Name: "gotoken_verify_malformed_total", Help: "Tokens rejected as malformed."},
}

var HistogramDefs = []HistogramDef{
	{ID: goToken.MetricVerifyLatency, Name: "gotoken_verify_latency_seconds", Help: "Verify latency histogram."},
}

// HistogramBounds are the bucket upper bounds in seconds, matching the
// microsecond buckets of goToken.Metrics.
var HistogramBounds = [BucketCount]string{
	"0.00005",
	"0.0001",
	"0.00025",
	"0.0005",
	"0.001",
	"0.0025",
	"0.005",
	"+Inf",
}

// HistogramBoundSuffix is HistogramBounds in a form usable inside instrument names.
var HistogramBoundSuffix = [BucketCount]string{
	"0_00005",
	"0_0001",
	"0_00025",
	"0_0005",
	"0_001",
	"0_0025",
	"0_005",
	"inf",
}

// NormalizeBuckets copies raw into a fixed array, padding missing buckets with zero
// and dropping extras.
func NormalizeBuckets(raw []uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [BucketCount]uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
