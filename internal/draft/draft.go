// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package draft runs the writing side of the pipeline: it loads a writing
// brief, drafts and revises a paper outline with a streaming model, and
// saves the outline and the recommended references as Markdown files.
package draft

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/dreamawakener/ai-homework/pkg/types"
)

// LoadBrief reads a YAML brief file. When the brief names an outline file
// and carries no inline outline, the file is read relative to the brief.
func LoadBrief(path string) (types.Brief, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Brief{}, fmt.Errorf("reading brief: %w", err)
	}
	var brief types.Brief
	if err := yaml.Unmarshal(data, &brief); err != nil {
		return types.Brief{}, fmt.Errorf("parsing brief %s: %w", path, err)
	}

	brief.Theme = strings.TrimSpace(brief.Theme)
	brief.Subject = strings.TrimSpace(brief.Subject)
	if brief.Theme == "" && brief.Subject == "" {
		return types.Brief{}, fmt.Errorf("brief %s: theme or subject is required", path)
	}

	if brief.Outline == "" && brief.OutlineFile != "" {
		outlinePath := brief.OutlineFile
		if !filepath.IsAbs(outlinePath) {
			outlinePath = filepath.Join(filepath.Dir(path), outlinePath)
		}
		outline, err := ReadOutline(outlinePath)
		if err != nil {
			return types.Brief{}, err
		}
		brief.Outline = outline
	}
	return brief, nil
}

// ReadOutline reads a Markdown outline file.
func ReadOutline(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading outline: %w", err)
	}
	return string(data), nil
}
