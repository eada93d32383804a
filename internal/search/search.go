// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search discovers papers on arxiv.org: it translates CJK topics
// into English keywords, pages through the HTML search listing, and parses
// each result into a PaperRecord.
package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Output formats accepted by Format.
const (
	FormatTableName = "table"
	FormatJSONName  = "json"
	FormatYAMLName  = "yaml"
	FormatCSLName   = "csl"
)

// Format writes out in the named format to w.
func Format(out SearchOutput, format string, w io.Writer) error {
	switch format {
	case "", FormatTableName:
		FormatTable(out, w)
		return nil
	case FormatJSONName:
		return FormatJSON(out, w)
	case FormatYAMLName:
		return FormatYAML(out, w)
	case FormatCSLName:
		return FormatCSL(out.Papers, w)
	default:
		return fmt.Errorf("unknown output format %q (want table, json, yaml, or csl)", format)
	}
}

// FormatTable writes papers as a human-readable table to w.
func FormatTable(out SearchOutput, w io.Writer) {
	if len(out.Papers) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-12s  %s\n",
		"#", "Title", "Authors", "arXiv ID", "Categories")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, p := range out.Papers {
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-12s  %s\n",
			i+1, truncate(p.Title, 60), formatAuthors(p.Authors), p.ExternalID,
			strings.Join(p.TopCategories(3), ", "))
	}

	fmt.Fprintf(w, "\n%d results for %q", len(out.Papers), out.Query)
	if out.Query != out.Topic {
		fmt.Fprintf(w, " (translated from %q)", out.Topic)
	}
	fmt.Fprintln(w)
	if out.FetchError != "" {
		fmt.Fprintf(w, "search ended early: %s\n", out.FetchError)
	}
}

// FormatJSON writes the search output as indented JSON to w.
func FormatJSON(out SearchOutput, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// FormatYAML writes the search output as YAML to w.
func FormatYAML(out SearchOutput, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	return enc.Encode(out)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
