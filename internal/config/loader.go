package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/qgraph/internal/ctxlog"
)

// fileRoot decodes the one top-level block a settings source file may
// contain.
type fileRoot struct {
	Settings *Settings `hcl:"settings,block"`
	Remain   hcl.Body  `hcl:",remain"`
}

// Load parses every .hcl file under paths (files are taken as-is,
// directories are walked) and merges their `settings` blocks into one
// Model. No field-by-field merge is attempted: each `settings` block
// encountered, even an empty one, replaces the accumulated one wholesale,
// so the last block wins, matching how a single ambient settings file is
// expected to be supplied in practice.
func Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := findHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("config: discovered HCL files", "count", len(files))

	model := &Model{}
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("config: parsing %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("config: decoding %s: %w", file, diags)
		}

		if root.Settings != nil {
			model.Settings = *root.Settings
		}
	}

	logger.Debug("config: loaded settings", "jobRunner", model.Settings.JobRunner)
	return model, nil
}

func findHCLFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})

	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("config: accessing %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}

		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
