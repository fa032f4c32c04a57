package dashboard

import "time"

// Granularity is the bucket size of a cost or metric query.
type Granularity string

const (
	GranularityDaily   Granularity = "DAILY"
	GranularityMonthly Granularity = "MONTHLY"
)

// Relative period units.
const (
	PeriodUnitDay   = "day"
	PeriodUnitMonth = "month"
	PeriodUnitYear  = "year"
)

const (
	dailyPeriodLayout   = "2006-01-02"
	monthlyPeriodLayout = "2006-01"
)

// RelativePeriod describes a range counted back from today.
type RelativePeriod struct {
	Unit         string `json:"unit"`
	Value        int    `json:"value"`
	IncludeToday bool   `json:"include_today,omitempty"`
}

// Period is a resolved date range. Dates are YYYY-MM-DD for daily
// granularity and YYYY-MM otherwise.
type Period struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// IsZero reports whether the period has no bounds.
func (p Period) IsZero() bool {
	return p.Start == "" && p.End == ""
}

// RefinedPeriod resolves a relative period against today (taken in UTC).
//
// Monthly granularity counts whole months, or whole years for the year unit;
// without include_today the range ends at the last complete month or year.
// Other granularities cover whole months of days, ending today when
// include_today is set.
func RefinedPeriod(granularity Granularity, rel RelativePeriod, today time.Time) Period {
	today = today.UTC()
	layout := monthlyPeriodLayout
	if granularity == GranularityDaily {
		layout = dailyPeriodLayout
	}

	if granularity == GranularityMonthly {
		if rel.Unit == PeriodUnitYear {
			past := subtractPeriod(today, rel.Value, PeriodUnitYear)
			start := startOfYear(past)
			if rel.IncludeToday {
				return Period{Start: start.Format(layout), End: startOfMonth(today).Format(layout)}
			}
			return Period{Start: start.Format(layout), End: endOfYear(past).Format(layout)}
		}
		endOffset := 1
		if rel.IncludeToday {
			endOffset = 0
		}
		return Period{
			Start: subtractPeriod(today, rel.Value, rel.Unit).Format(layout),
			End:   subtractPeriod(today, endOffset, PeriodUnitMonth).Format(layout),
		}
	}

	if rel.IncludeToday {
		return Period{
			Start: startOfMonth(subtractPeriod(today, rel.Value, PeriodUnitMonth)).Format(layout),
			End:   today.Format(layout),
		}
	}
	past := subtractPeriod(today, rel.Value, rel.Unit)
	return Period{Start: startOfMonth(past).Format(layout), End: endOfMonth(past).Format(layout)}
}

// InitialPeriod returns the default range for a granularity: the current
// month for daily, the last six months for monthly. Unknown granularities
// get an empty period and no relative period.
func InitialPeriod(granularity Granularity, today time.Time) (Period, *RelativePeriod) {
	var rel RelativePeriod
	switch granularity {
	case GranularityDaily:
		rel = RelativePeriod{Unit: PeriodUnitMonth, Value: 0, IncludeToday: true}
	case GranularityMonthly:
		rel = RelativePeriod{Unit: PeriodUnitMonth, Value: 5, IncludeToday: true}
	default:
		return Period{}, nil
	}
	return RefinedPeriod(granularity, rel, today), &rel
}

// subtractPeriod moves t back by n units. Month and year steps clamp the day
// to the length of the target month, so Mar 31 minus one month is Feb 28/29.
func subtractPeriod(t time.Time, n int, unit string) time.Time {
	switch unit {
	case PeriodUnitDay:
		return t.AddDate(0, 0, -n)
	case PeriodUnitYear:
		return addMonthsClamped(t, -12*n)
	default:
		return addMonthsClamped(t, -n)
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	day := t.Day()
	if last := daysIn(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func endOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), daysIn(t.Year(), t.Month(), t.Location()), 0, 0, 0, 0, t.Location())
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

func endOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, t.Location())
}
