package main

import (
	"fmt"
	"io"
	"strconv"
)

func PrintTable(w io.Writer, headers []string, rows [][]string, footers []string) {
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
	for i, footer := range footers {
		if len(footer) > colWidths[i] {
			colWidths[i] = len(footer)
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

	// print footer
	if len(footers) == 0 {
		return
	}
	for i, footer := range footers {
		fmt.Fprintf(w, "%-*s\t", colWidths[i], footer)
	}
	fmt.Fprintln(w)
}

// shortest representation, so 1.1 stays 1.1 and 25 stays 25
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func FormatGrams(v float64) string {
	return fmt.Sprintf("%.2fg", v)
}

// label of a food row, e.g. "1.1g/100g banana"
func FoodLabel(name string, per100g float64) string {
	return fmt.Sprintf("%sg/100g %s", FormatNumber(per100g), name)
}

func FormatTotals(rec LogRecord) string {
	return fmt.Sprintf("Total Protein: %s | Remaining: %s", FormatGrams(rec.TotalProtein), FormatGrams(rec.RemainingProtein))
}
