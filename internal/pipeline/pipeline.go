// Package pipeline is the minimal concrete implementation of the DSL
// that produces QFunction values — a piece of the system that could
// otherwise remain an unbuilt external collaborator, kept here as a
// real implementation so a complete repository has a runnable cmd/
// rather than a dangling QFunction interface.
//
// QFunction's surface is a small, fixed Go contract, not an arbitrary
// per-module argument schema, so there is nothing here for a
// general-purpose configuration library to decode. A pipeline source is
// a flat JSON list of function declarations, decoded with stdlib
// encoding/json directly into this package's own Function type.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vk/qgraph/internal/ctxlog"
	"github.com/vk/qgraph/internal/fileset"
	"github.com/vk/qgraph/internal/qfunction"
)

// declaration mirrors Function's shape for JSON decoding.
type declaration struct {
	AnalysisName   string   `json:"analysisName"`
	Name           string   `json:"name"`
	Inputs         []string `json:"inputs,omitempty"`
	Outputs        []string `json:"outputs,omitempty"`
	CommandLine    string   `json:"commandLine"`
	UseBatch       bool     `json:"useBatch,omitempty"`
	IsIntermediate bool     `json:"isIntermediate,omitempty"`
	Scatter        int      `json:"scatter,omitempty"`
}

// Load parses every .json file under paths (files are taken as-is,
// directories are walked) into a slice of qfunction.QFunction values, in
// declaration order across files — the order Function.AddOrder.Sequence
// is assigned from, so two runs over the same sources produce the same
// add order.
func Load(ctx context.Context, logDir string, paths ...string) ([]qfunction.QFunction, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := findJSONFiles(paths)
	if err != nil {
		return nil, err
	}

	var fns []qfunction.QFunction
	seq := 0

	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("pipeline: reading %s: %w", file, err)
		}

		var decls []declaration
		if err := json.Unmarshal(raw, &decls); err != nil {
			return nil, fmt.Errorf("pipeline: decoding %s: %w", file, err)
		}

		for _, d := range decls {
			seq++
			fns = append(fns, &Function{
				analysisName:   d.AnalysisName,
				name:           d.Name,
				addOrder:       qfunction.AddOrder{Sequence: seq, Name: d.Name},
				inputs:         fileset.New(d.Inputs...),
				outputs:        fileset.New(d.Outputs...),
				commandLine:    d.CommandLine,
				useBatch:       d.UseBatch,
				isIntermediate: d.IsIntermediate,
				scatter:        d.Scatter,
				logDir:         logDir,
			})
		}
	}

	logger.Debug("pipeline: loaded functions", "count", len(fns))
	return fns, nil
}

func findJSONFiles(paths []string) ([]string, error) {
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
			return nil, fmt.Errorf("pipeline: accessing %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == ".json" {
				add(path)
			}
			continue
		}

		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(p) == ".json" {
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

// sanitizeForFilename keeps job log file names readable and unique.
func sanitizeForFilename(s string) string {
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

func jobLogPath(logDir, analysisName, name string, seq int) string {
	base := sanitizeForFilename(analysisName + "." + name + "." + strconv.Itoa(seq))
	return filepath.Join(logDir, base)
}
