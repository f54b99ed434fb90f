package storage

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrIO marks failures to open or read an input file.
var ErrIO = errors.New("input unreadable")

const fieldDelimiter = ","

// LoadCSV reads a comma-delimited file and returns its first line as header and
// every following non-blank line as a row.
//
// Fields are split on every comma and literal double quotes are stripped from
// each field. Quoted fields that contain a comma are NOT supported: they are
// split like any other field. Blank lines produce no row.
func LoadCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("csv: open %q: %w: %w", path, ErrIO, err)
	}
	defer f.Close()

	var header []string
	var rows [][]string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		record := splitRecord(line)
		if header == nil {
			header = record
			continue
		}
		rows = append(rows, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("csv: read %q: %w: %w", path, ErrIO, err)
	}
	if rows == nil {
		rows = [][]string{}
	}

	return header, rows, nil
}

func splitRecord(line string) []string {
	fields := strings.Split(line, fieldDelimiter)
	for i, f := range fields {
		fields[i] = strings.ReplaceAll(f, `"`, "")
	}
	return fields
}
