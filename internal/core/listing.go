package core

import (
	"fmt"
	"io"
)

// Line renders b as "Title · Writer (Series)" with the writer shortened.
func (b Book) Line() string {
	line := b.Title
	if w := b.ShortWriter(); w != "" {
		line += " · " + w
	}
	if s := b.SeriesLabel(); s != "" {
		line += " (" + s + ")"
	}
	return line
}

// WriteDays writes one "YYYY-MM-DD  Title · Writer" line per book, days in
// ascending order.
func WriteDays(w io.Writer, days DayGroup) error {
	for _, day := range days.Days() {
		for _, b := range days[day] {
			if _, err := fmt.Fprintf(w, "%s  %s\n", b.Date.Key(), b.Line()); err != nil {
				return err
			}
		}
	}
	return nil
}
