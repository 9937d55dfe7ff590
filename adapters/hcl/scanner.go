package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"photonic-sparam/core/scanner"
	"photonic-sparam/core/sweep"
	"photonic-sparam/core/types"
	"photonic-sparam/internal/errors"
)

// FileSuffix marks circuit definition files
const FileSuffix = ".pic.hcl"

// Scanner parses circuit definition files
type Scanner struct {
	parser *hclparse.Parser
}

// NewScanner creates a new circuit file scanner
func NewScanner() *Scanner {
	return &Scanner{
		parser: hclparse.NewParser(),
	}
}

// Name returns the scanner name
func (s *Scanner) Name() string {
	return "pic-hcl"
}

// CanScan reports whether the path contains circuit files
func (s *Scanner) CanScan(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return strings.HasSuffix(path, FileSuffix), nil
	}

	found := false
	err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() && strings.HasSuffix(p, FileSuffix) {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil && err != filepath.SkipAll {
		return false, err
	}
	return found, nil
}

// Scan parses the circuit file at path, or every circuit file under it
// when path is a directory. Malformed files are reported in the result
// rather than aborting the scan.
func (s *Scanner) Scan(ctx context.Context, path string) (*scanner.ScanResult, error) {
	result := &scanner.ScanResult{
		Devices: make([]types.RawDevice, 0),
		Sweeps:  make(map[string]sweep.Sweep),
		Models:  make(map[string]string),
	}

	files, base, err := s.circuitFiles(path)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		s.parseFile(file, base, result)
	}

	return result, nil
}

func (s *Scanner) circuitFiles(path string) ([]string, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", errors.Wrapf(errors.TypeParsing, err, "cannot access %s", path)
	}

	if !info.IsDir() {
		if !strings.HasSuffix(path, FileSuffix) {
			return nil, "", errors.Inputf("not a circuit file: %s", path)
		}
		return []string{path}, filepath.Dir(path), nil
	}

	var files []string
	err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() && strings.HasSuffix(p, FileSuffix) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, "", errors.Wrap(errors.TypeParsing, "failed to walk directory", err)
	}

	return files, path, nil
}

func (s *Scanner) parseFile(file, basePath string, result *scanner.ScanResult) {
	src, err := os.ReadFile(file)
	if err != nil {
		result.Errors = append(result.Errors, scanner.ScanError{
			File:    file,
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
		return
	}

	hclFile, diags := s.parser.ParseHCL(src, file)
	if diags.HasErrors() {
		result.Errors = append(result.Errors, diagErrors(file, diags)...)
		return
	}

	content, _, _ := hclFile.Body.PartialContent(&hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "device", LabelNames: []string{"kind", "name"}},
			{Type: "sweep", LabelNames: []string{"name"}},
			{Type: "model", LabelNames: []string{"name"}},
		},
	})

	relPath := file
	if rel, err := filepath.Rel(basePath, file); err == nil {
		relPath = rel
	}

	for _, block := range content.Blocks {
		switch block.Type {
		case "device":
			s.parseDevice(block, relPath, result)
		case "sweep":
			s.parseSweep(block, relPath, result)
		case "model":
			s.parseModel(block, relPath, result)
		}
	}
}

func (s *Scanner) parseDevice(block *hcl.Block, file string, result *scanner.ScanResult) {
	if len(block.Labels) < 2 {
		return
	}

	kind := types.DeviceKind(block.Labels[0])
	name := block.Labels[1]
	line := block.DefRange.Start.Line

	if !kind.IsValid() {
		result.Warnings = append(result.Warnings, scanner.ScanWarning{
			File:    file,
			Line:    line,
			Message: fmt.Sprintf("unknown device kind %q", block.Labels[0]),
		})
	}

	attrs := s.extractAttributes(block.Body, file, result)

	result.Devices = append(result.Devices, types.RawDevice{
		Address:    types.DeviceAddress(fmt.Sprintf("%s.%s", kind, name)),
		Kind:       kind,
		Name:       name,
		Attributes: attrs,
		SourceFile: file,
		SourceLine: line,
	})
}

func (s *Scanner) parseSweep(block *hcl.Block, file string, result *scanner.ScanResult) {
	if len(block.Labels) < 1 {
		return
	}

	name := block.Labels[0]
	line := block.DefRange.Start.Line
	attrs := s.extractAttributes(block.Body, file, result)

	var sw sweep.Sweep
	if band := attrs.GetString("band"); band != "" {
		preset, err := sweep.Band(band)
		if err != nil {
			result.Errors = append(result.Errors, scanner.ScanError{
				File:    file,
				Line:    line,
				Message: fmt.Sprintf("sweep %q: %v", name, err),
			})
			return
		}
		sw = preset
		if attrs.Has("points") {
			sw.Points = attrs.GetInt("points")
		}
	} else {
		sw = sweep.Sweep{
			Start:  attrs.GetFloat("start"),
			Stop:   attrs.GetFloat("stop"),
			Points: attrs.GetInt("points"),
		}
	}

	if err := sw.Validate(); err != nil {
		result.Errors = append(result.Errors, scanner.ScanError{
			File:    file,
			Line:    line,
			Message: fmt.Sprintf("sweep %q: %v", name, err),
		})
		return
	}

	result.Sweeps[name] = sw
}

func (s *Scanner) parseModel(block *hcl.Block, file string, result *scanner.ScanResult) {
	if len(block.Labels) < 1 {
		return
	}

	name := block.Labels[0]
	attrs := s.extractAttributes(block.Body, file, result)

	pack := attrs.GetString("pack")
	if pack == "" {
		result.Errors = append(result.Errors, scanner.ScanError{
			File:    file,
			Line:    block.DefRange.Start.Line,
			Message: fmt.Sprintf("model %q is missing the pack attribute", name),
		})
		return
	}

	result.Models[name] = pack
}

func (s *Scanner) extractAttributes(body hcl.Body, file string, result *scanner.ScanResult) types.Attributes {
	attrs := make(types.Attributes)

	hclAttrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		result.Errors = append(result.Errors, diagErrors(file, diags)...)
	}

	for name, attr := range hclAttrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			result.Warnings = append(result.Warnings, scanner.ScanWarning{
				File:    file,
				Line:    attr.Range.Start.Line,
				Message: fmt.Sprintf("attribute %q is not a literal value", name),
			})
			continue
		}

		converted, err := Attribute(val)
		if err != nil {
			result.Warnings = append(result.Warnings, scanner.ScanWarning{
				File:    file,
				Line:    attr.Range.Start.Line,
				Message: fmt.Sprintf("attribute %q: %v", name, err),
			})
			continue
		}

		attrs[name] = converted
	}

	return attrs
}

func diagErrors(file string, diags hcl.Diagnostics) []scanner.ScanError {
	var out []scanner.ScanError
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		line := 0
		if diag.Subject != nil {
			line = diag.Subject.Start.Line
		}
		msg := diag.Summary
		if diag.Detail != "" {
			msg += ": " + diag.Detail
		}
		out = append(out, scanner.ScanError{File: file, Line: line, Message: msg})
	}
	return out
}
