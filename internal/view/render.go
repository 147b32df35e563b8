package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"entrylog/internal/api"
)

const Placeholder = "No entries yet. Record an entry or exit to start tracking!"

const (
	labelEntry = "🔓 நுழைவு"
	labelExit  = "🔒 வெளியேறு"

	displayLayout = "Jan 2, 2006, 03:04:05 PM"
	invalidDate   = "Invalid Date"
)

// layouts accepted for time_display, most specific first
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// Block is one rendered entry.
type Block struct {
	ID     int64
	Type   string
	Label  string
	Person string
	From   string
	To     string
	Time   string
}

// Blocks renders entries newest first. The input slice is left untouched.
func Blocks(entries []api.Entry) []Block {
	blocks := make([]Block, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]

		b := Block{
			ID:     e.ID,
			Type:   e.Type,
			Label:  labelExit,
			Person: "👤 " + e.PersonName,
			Time:   FormatTime(e.TimeDisplay),
		}
		if e.Type == api.TypeEntry {
			b.Label = labelEntry
		}
		if e.PlaceFrom != "" {
			b.From = "📍 From: " + e.PlaceFrom
		}
		if e.PlaceTo != "" {
			b.To = "🏁 To: " + e.PlaceTo
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// FormatTime turns a server timestamp into en-US display form in local
// time. Values without an offset are taken as local already.
func FormatTime(s string) string {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.Local().Format(displayLayout)
		}
	}
	return invalidDate
}

// FormatHours prints the shortest decimal form with an "h" suffix.
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

// WriteEntries prints blocks, or the placeholder when there are none.
func WriteEntries(w io.Writer, blocks []Block) {
	if len(blocks) == 0 {
		fmt.Fprintln(w, Placeholder)
		return
	}

	for _, b := range blocks {
		lines := []string{b.Label, b.Person}
		if b.From != "" {
			lines = append(lines, b.From)
		}
		if b.To != "" {
			lines = append(lines, b.To)
		}
		lines = append(lines, b.Time)

		fmt.Fprintf(w, "#%d  %s\n", b.ID, strings.Join(lines, "\n     "))
		fmt.Fprintln(w)
	}
}

type StatsFields struct {
	TotalEntries string
	TotalExits   string
	TotalHours   string
}

func Fields(s api.Stats) StatsFields {
	return StatsFields{
		TotalEntries: strconv.Itoa(s.TotalEntries),
		TotalExits:   strconv.Itoa(s.TotalExits),
		TotalHours:   FormatHours(s.TotalHours),
	}
}

func WriteStats(w io.Writer, f StatsFields) {
	PrintTable(w,
		[]string{"Entries", "Exits", "Hours"},
		[][]string{{f.TotalEntries, f.TotalExits, f.TotalHours}},
	)
}

// PrintTable left-aligns cells to the widest value of each column.
func PrintTable(w io.Writer, headers []string, rows [][]string) {
	colWidths := make([]int, len(headers))
	for i, header := range headers {
		colWidths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	// print header
	for i, header := range headers {
		fmt.Fprintf(w, "%-*s\t", colWidths[i], header)
	}
	fmt.Fprintln(w)

	// print rows
	for _, row := range rows {
		for i, cell := range row {
			fmt.Fprintf(w, "%-*s\t", colWidths[i], cell)
		}
		fmt.Fprintln(w)
	}
}
