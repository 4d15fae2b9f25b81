// Package catalog reads load lists from files.
//
// The text format is one load per line after a header line:
//
//	loadNumber pickup dropoff
//	1 (-50.1,80.0) (90.1,12.2)
//
// YAML and JSON files hold the same data as {"loads": [{"id", "pickup", "dropoff"}]}.
package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"loadplan/internal/opt"
)

// ErrSyntax marks malformed catalog content.
var ErrSyntax = errors.New("catalog syntax error")

// File is the YAML/JSON document shape.
type File struct {
	Loads []opt.Load `json:"loads" yaml:"loads"`
}

// Load reads path, choosing the decoder from the file extension.
func Load(path string) ([]opt.Load, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(b)
	case ".json":
		return DecodeJSON(b)
	default:
		return ParseText(bytes.NewReader(b))
	}
}

// ParseText reads the whitespace-delimited text format. The first line is a
// header and is skipped; blank lines are ignored.
func ParseText(r io.Reader) ([]opt.Load, error) {
	sc := bufio.NewScanner(r)
	var loads []opt.Load
	line := 0
	for sc.Scan() {
		line++
		if line == 1 {
			continue
		}
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		l, err := parseLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		loads = append(loads, l)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan catalog: %w", err)
	}
	return loads, nil
}

func parseLine(text string) (opt.Load, error) {
	parts := strings.Fields(text)
	if len(parts) != 3 {
		return opt.Load{}, fmt.Errorf("want 3 fields, got %d: %w", len(parts), ErrSyntax)
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return opt.Load{}, fmt.Errorf("load id %q: %w", parts[0], ErrSyntax)
	}
	pickup, err := ParsePoint(parts[1])
	if err != nil {
		return opt.Load{}, fmt.Errorf("pickup: %w", err)
	}
	dropoff, err := ParsePoint(parts[2])
	if err != nil {
		return opt.Load{}, fmt.Errorf("dropoff: %w", err)
	}
	return opt.Load{ID: id, Pickup: pickup, Dropoff: dropoff}, nil
}

// ParsePoint parses "(x,y)" or "x,y".
func ParsePoint(s string) (opt.Point, error) {
	s = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "("), ")")
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return opt.Point{}, fmt.Errorf("coordinate %q: %w", s, ErrSyntax)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return opt.Point{}, fmt.Errorf("coordinate %q: %w", s, ErrSyntax)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return opt.Point{}, fmt.Errorf("coordinate %q: %w", s, ErrSyntax)
	}
	return opt.Point{X: x, Y: y}, nil
}

// WriteText writes loads in the text format, header included.
func WriteText(w io.Writer, loads []opt.Load) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "loadNumber pickup dropoff")
	for _, l := range loads {
		fmt.Fprintf(bw, "%d (%s,%s) (%s,%s)\n", l.ID,
			formatFloat(l.Pickup.X), formatFloat(l.Pickup.Y),
			formatFloat(l.Dropoff.X), formatFloat(l.Dropoff.Y))
	}
	return bw.Flush()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func DecodeYAML(b []byte) ([]opt.Load, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode yaml catalog: %w", err)
	}
	return f.Loads, nil
}

func DecodeJSON(b []byte) ([]opt.Load, error) {
	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode json catalog: %w", err)
	}
	return f.Loads, nil
}
