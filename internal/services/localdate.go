package services

import "time"

const dateLayout = "2006-01-02"

// LocalDateFor converts a UTC instant into the client's calendar date.
// offsetMin is the client-reported minutes east of UTC (the browser's
// observed zone), so local time = UTC + offset. The resulting date is
// pinned on ledger entries at insert time.
func LocalDateFor(ts time.Time, offsetMin int) string {
	return ts.UTC().Add(time.Duration(offsetMin) * time.Minute).Format(dateLayout)
}

func prevDate(d string) string {
	t, err := time.Parse(dateLayout, d)
	if err != nil {
		return d
	}
	return t.AddDate(0, 0, -1).Format(dateLayout)
}

func nextDate(d string) string {
	t, err := time.Parse(dateLayout, d)
	if err != nil {
		return d
	}
	return t.AddDate(0, 0, 1).Format(dateLayout)
}
