// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Brief describes the paper being written: its field, topic, and outline.
// It is loaded from a YAML brief file or assembled from CLI flags.
type Brief struct {
	// Theme is the broad field (e.g. "medicine", "mathematics").
	Theme string `json:"theme" yaml:"theme"`

	// Subject is the specific topic within the theme.
	Subject string `json:"subject" yaml:"subject"`

	// OutlineFile is a path to a Markdown outline, resolved relative to the
	// brief file.
	OutlineFile string `json:"outline_file,omitempty" yaml:"outline_file,omitempty"`

	// Outline is the outline text itself. Filled from OutlineFile on load.
	Outline string `json:"outline,omitempty" yaml:"outline,omitempty"`

	// MaxResults overrides search.max_results when positive.
	MaxResults int `json:"max_results,omitempty" yaml:"max_results,omitempty"`
}

// SearchQuery is the topic sent to arXiv for this brief: subject then theme.
func (b Brief) SearchQuery() string {
	switch {
	case b.Subject == "":
		return b.Theme
	case b.Theme == "":
		return b.Subject
	default:
		return b.Subject + " " + b.Theme
	}
}
