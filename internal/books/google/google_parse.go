package google

import (
	"fmt"
	"strings"

	"booklog/internal/core"
)

// Header names, matched case-insensitively.
const (
	colID           = "id"
	colTitle        = "title"
	colWriter       = "writer"
	colDate         = "date"
	colPartOfSeries = "partofseries"
	colSeriesNumber = "seriesnumber"
	colPrintLength  = "printlength"
)

// parseRows converts a values matrix (as returned by Sheets API) into raw
// records. The first row is the header; rows without an ID are skipped and
// counted. Row order is kept.
func parseRows(values [][]interface{}) ([]core.RawBook, int, error) {
	if len(values) == 0 {
		return nil, 0, nil
	}
	headers := toStrings(values[0])
	col := map[string]int{}
	for i, h := range headers {
		key := normalizeHeader(h)
		if _, dup := col[key]; !dup {
			col[key] = i
		}
	}
	var missing []string
	for _, required := range []string{colID, colTitle, colDate} {
		if _, ok := col[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, 0, fmt.Errorf("unexpected sheet header: missing %s; got headers=%v", strings.Join(missing, ","), headers)
	}

	get := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok {
			return ""
		}
		return safeGet(row, idx)
	}

	records := make([]core.RawBook, 0, len(values)-1)
	skipped := 0
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		id := get(row, colID)
		if id == "" {
			skipped++
			continue
		}
		records = append(records, core.RawBook{
			ID:           id,
			Title:        get(row, colTitle),
			Writer:       get(row, colWriter),
			Date:         get(row, colDate),
			PartOfSeries: get(row, colPartOfSeries),
			SeriesNumber: core.NumericString(get(row, colSeriesNumber)),
			PrintLength:  core.NumericString(get(row, colPrintLength)),
		})
	}
	return records, skipped, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx >= 0 && idx < len(arr) {
		return arr[idx]
	}
	return ""
}
