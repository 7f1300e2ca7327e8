package normalize

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/eonlabs/eonparse/internal/model"
)

var (
	// ErrFileNotFound reports a missing ingest path.
	ErrFileNotFound = errors.New("file not found")
	// ErrUnreadable reports a file that could not be read at all. Malformed
	// rows inside a readable file are never an error; they are skipped and
	// counted in the table diagnostics.
	ErrUnreadable = errors.New("unreadable file")
)

// sampleLineCount bounds how many leading lines feed delimiter detection.
const sampleLineCount = 10

// maxLineBytes bounds a single raw line; longer lines are skipped as
// malformed rather than aborting the file.
const maxLineBytes = 1 << 20

// Load normalizes one file from disk.
func Load(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	defer f.Close()
	return LoadReader(filepath.Base(path), f)
}

// LoadReader normalizes one raw byte stream into a table. It never fails on
// malformed content: unparsable rows are skipped and counted, and a stream
// that yields zero rows returns an empty table with the EmptyFile
// diagnostic set.
func LoadReader(name string, r io.Reader) (*model.Table, error) {
	lines, oversized, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, name, err)
	}

	table := &model.Table{SourceFile: name, Roles: map[string]model.Role{}}
	table.Diagnostics.RowsRead = oversized
	table.Diagnostics.RowsSkipped = oversized
	if len(lines) == 0 {
		table.Diagnostics.EmptyFile = true
		return table, nil
	}

	sample := lines
	if len(sample) > sampleLineCount {
		sample = sample[:sampleLineCount]
	}
	delim := DetectDelimiter(sample)
	table.Diagnostics.Delimiter = string(delim)

	line2 := ""
	if len(lines) > 1 {
		line2 = lines[1]
	}
	hasHeader := DetectHeader(lines[0], line2, delim)
	table.Diagnostics.HasHeader = hasHeader

	dataLines := lines
	var columns []string
	if hasHeader {
		columns = headerColumns(splitLine(lines[0], delim))
		dataLines = lines[1:]
	} else {
		columns = syntheticColumns(len(splitLine(lines[0], delim)))
	}
	table.Columns = columns

	for _, line := range dataLines {
		table.Diagnostics.RowsRead++
		cells := splitLine(line, delim)
		if len(cells) > len(columns) {
			table.Diagnostics.RowsSkipped++
			continue
		}
		row := make(model.Row, len(columns)+1)
		for i, col := range columns {
			if i < len(cells) {
				row[col] = typeCell(cells[i])
			} else {
				row[col] = model.Null()
			}
		}
		row[model.SourceFileColumn] = model.String(name)
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		table.Diagnostics.EmptyFile = true
	}

	table.Columns = append(table.Columns, model.SourceFileColumn)
	table.Roles = AssignRoles(table.Columns)

	if sig, ok := DetectFormat(table); ok {
		ApplyFormat(table, sig)
	}
	StandardizeTimestamps(table)
	NormalizeSeverities(table)

	return table, nil
}

// LoadDir normalizes every log-like file in a directory, in sorted filename
// order. Files that fail to load outright are skipped; a missing directory
// is a hard failure.
func LoadDir(dir string) ([]*model.Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, dir)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".csv", ".tsv", ".log", ".txt":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var tables []*model.Table
	for _, name := range names {
		t, err := Load(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// readLines splits the stream into non-blank lines. A line longer than
// maxLineBytes is dropped as one malformed row and counted in skipped;
// reading continues with the next line.
func readLines(r io.Reader) (lines []string, skipped int, err error) {
	br := bufio.NewReaderSize(r, 64*1024)
	var buf []byte
	tooLong := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return lines, skipped, nil
			}
			return nil, 0, err
		}
		if tooLong || len(buf)+len(chunk) > maxLineBytes {
			tooLong = true
			buf = buf[:0]
		} else {
			buf = append(buf, chunk...)
		}
		if isPrefix {
			continue
		}
		if tooLong {
			tooLong = false
			skipped++
			continue
		}
		line := strings.TrimRight(string(buf), "\r")
		buf = buf[:0]
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
}

func headerColumns(cells []string) []string {
	cols := make([]string, len(cells))
	seen := make(map[string]int, len(cells))
	for i, c := range cells {
		name := strings.ToLower(strings.TrimSpace(c))
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "_" + strconv.Itoa(n+1)
		}
		seen[name] = 1
		cols[i] = name
	}
	return cols
}

func syntheticColumns(n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = "column_" + strconv.Itoa(i+1)
	}
	return cols
}

// typeCell infers the typed value for one raw cell: empty becomes null,
// integer and float literals become numbers, everything else stays text.
func typeCell(raw string) model.Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return model.Null()
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return model.Int(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return model.Float(f)
	}
	return model.String(s)
}
