package analytics

import (
	"math"
	"time"

	"callcenter-analytics/internal/calls"
)

// Pure aggregation over a flat slice of call records. Every function
// tolerates an empty slice and never divides by zero. The functions are
// independent of each other and share no state.

const recentCallLimit = 10

// NPS rating thresholds, mapped from the usual 0-10 recommend question onto
// the 0-5 rating scale: promoters >= 4.5, passives [3.5, 4.5), detractors < 3.5.
const (
	promoterThreshold  = 4.5
	detractorThreshold = 3.5
)

// Placeholder security metrics. These are deliberately synthetic: a fixed
// compliance rate, a fixed data-protection score, and issue counts as a
// share of call volume.
const (
	fixedComplianceRate   = 98.5
	fixedDataProtection   = 9.2
	issueShareOverall     = 0.02
	issueSharePerBucket   = 0.03
	complianceJitterFloor = 95.0
	complianceJitterSpan  = 5.0
)

// RandFunc supplies uniform values in [0,1) for the randomized per-bucket
// compliance filler. Tests inject a seeded source.
type RandFunc func() float64

// round2 rounds to two decimals, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// bucketDates returns the `days` calendar dates ending at today, oldest
// first. days == 0 yields an empty series.
func bucketDates(days int, today time.Time) []string {
	dates := make([]string, 0, days)
	for i := days - 1; i >= 0; i-- {
		dates = append(dates, dayKey(today.AddDate(0, 0, -i)))
	}
	return dates
}

// Summary computes the headline stats. Only the conversion rate is rounded;
// averages are reported raw.
func Summary(recs []calls.CallRecord) SummaryStats {
	out := SummaryStats{TotalCalls: len(recs)}

	var totalDuration int
	var totalRating float64
	for _, r := range recs {
		if r.AppointmentBooked {
			out.AppointmentsBooked++
		}
		totalDuration += r.DurationSeconds
		totalRating += r.Rating
	}
	if out.TotalCalls > 0 {
		out.AverageDuration = float64(totalDuration) / float64(out.TotalCalls)
		out.AverageRating = totalRating / float64(out.TotalCalls)
		out.ConversionRate = round2(float64(out.AppointmentsBooked) / float64(out.TotalCalls) * 100)
	}
	return out
}

// VolumeSeries buckets records by the civil date (UTC) of their start_time
// into exactly `days` buckets ending today.
func VolumeSeries(recs []calls.CallRecord, days int, today time.Time) []VolumePoint {
	counts := make(map[string]int, days)
	for _, r := range recs {
		counts[dayKey(r.StartTime)]++
	}

	dates := bucketDates(days, today)
	out := make([]VolumePoint, 0, len(dates))
	for _, d := range dates {
		out = append(out, VolumePoint{Date: d, Calls: counts[d]})
	}
	return out
}

// FormatRecent takes the first records of the input order (the fetch already
// returns newest first) and attaches a display timestamp. No re-sorting.
func FormatRecent(recs []calls.CallRecord) []RecentCall {
	n := len(recs)
	if n > recentCallLimit {
		n = recentCallLimit
	}
	out := make([]RecentCall, 0, n)
	for _, r := range recs[:n] {
		out = append(out, RecentCall{
			CallRecord:         r,
			FormattedStartTime: r.StartTime.UTC().Format("Jan 2, 2006, 3:04:05 PM"),
		})
	}
	return out
}

// TypeDistribution groups records by call type in first-seen order.
// Records without a type land in the "unknown" bucket; ingestion already
// applies that default, this is defensive.
func TypeDistribution(recs []calls.CallRecord) []TypeCount {
	counts := map[string]int{}
	order := make([]string, 0)
	for _, r := range recs {
		name := r.CallType
		if name == "" {
			name = calls.DefaultCallType
		}
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}

	out := make([]TypeCount, 0, len(order))
	for _, name := range order {
		out = append(out, TypeCount{Name: name, Value: counts[name]})
	}
	return out
}

// CustomerData derives satisfaction, NPS, and first-call resolution from
// ratings and the appointment outcome flag.
func CustomerData(recs []calls.CallRecord) CustomerScores {
	total := len(recs)
	if total == 0 {
		return CustomerScores{}
	}

	var totalRating float64
	var promoters, detractors, booked int
	for _, r := range recs {
		totalRating += r.Rating
		switch {
		case r.Rating >= promoterThreshold:
			promoters++
		case r.Rating < detractorThreshold:
			detractors++
		}
		if r.AppointmentBooked {
			booked++
		}
	}

	avg := totalRating / float64(total)
	return CustomerScores{
		Satisfaction:        round2(avg / 5 * 100),
		NPS:                 round2((float64(promoters)/float64(total) - float64(detractors)/float64(total)) * 100),
		FirstCallResolution: round2(float64(booked) / float64(total) * 100),
	}
}

// SecurityData emits the placeholder compliance metrics for the window.
func SecurityData(totalCalls int) SecurityScores {
	return SecurityScores{
		ComplianceRate: fixedComplianceRate,
		SecurityIssues: int(math.Floor(float64(totalCalls) * issueShareOverall)),
		DataProtection: fixedDataProtection,
	}
}

// TimeSeries computes per-day metrics over the same civil-date buckets as
// VolumeSeries. The per-bucket compliance rate is intentionally randomized
// filler in [95,100); rnd keeps it injectable for deterministic tests.
func TimeSeries(recs []calls.CallRecord, days int, today time.Time, rnd RandFunc) []TimeSeriesPoint {
	buckets := make(map[string][]calls.CallRecord, days)
	for _, r := range recs {
		k := dayKey(r.StartTime)
		buckets[k] = append(buckets[k], r)
	}

	dates := bucketDates(days, today)
	out := make([]TimeSeriesPoint, 0, len(dates))
	for _, d := range dates {
		day := buckets[d]
		count := len(day)

		var totalRating float64
		var promoters, detractors, booked int
		for _, r := range day {
			totalRating += r.Rating
			switch {
			case r.Rating >= promoterThreshold:
				promoters++
			case r.Rating < detractorThreshold:
				detractors++
			}
			if r.AppointmentBooked {
				booked++
			}
		}

		p := TimeSeriesPoint{
			Name:           d,
			Calls:          count,
			ComplianceRate: round2(complianceJitterFloor + rnd()*complianceJitterSpan),
			SecurityIssues: int(math.Floor(float64(count) * issueSharePerBucket)),
		}
		if count > 0 {
			avg := totalRating / float64(count)
			p.ResolutionRate = round2(float64(booked) / float64(count) * 100)
			p.Satisfaction = round2(avg / 5 * 100)
			p.NPS = round2((float64(promoters)/float64(count) - float64(detractors)/float64(count)) * 100)
		}
		out = append(out, p)
	}
	return out
}
