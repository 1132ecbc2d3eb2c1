package main

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const columnGap = "  "

func exitEncode(kind string, err error) {
	fmt.Fprintf(os.Stderr, "Error: encode %s: %v\n", kind, err)
	os.Exit(1)
}

func formatJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		exitEncode("json", err)
	}
}

// formatYAML round-trips through JSON so keys match the API's field names
// rather than the Go struct names.
func formatYAML(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		exitEncode("yaml", err)
	}

	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		exitEncode("yaml", err)
	}

	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close() //nolint:errcheck // flushes to stdout.

	enc.SetIndent(2)

	if err := enc.Encode(tree); err != nil {
		exitEncode("yaml", err)
	}
}

// formatTable prints left-aligned columns sized to their widest cell, counted
// in runes so accented titles line up.
func formatTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	grow := func(cells []string) {
		for i, cell := range cells[:min(len(cells), len(widths))] {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	grow(headers)
	for _, row := range rows {
		grow(row)
	}

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}

	var b strings.Builder
	for _, cells := range append([][]string{headers, rule}, rows...) {
		b.Reset()

		for i, cell := range cells {
			if i > 0 {
				b.WriteString(columnGap)
			}

			b.WriteString(cell)

			if i < len(widths) {
				b.WriteString(strings.Repeat(" ", max(widths[i]-utf8.RuneCountInString(cell), 0)))
			}
		}

		fmt.Println(strings.TrimRight(b.String(), " "))
	}
}

// output prints v as JSON, YAML or, for --format quiet, just quietVal.
// Commands that support tables render them before calling output.
func output(v any, quietVal string) {
	switch flagFmt {
	case "quiet":
		fmt.Println(quietVal)
	case "yaml":
		formatYAML(v)
	default:
		formatJSON(v)
	}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	r := []rune(s)
	if n <= 3 {
		return string(r[:n])
	}

	return string(r[:n-3]) + "..."
}
