// Package reader loads the pipe-delimited member file into typed rows.
package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"member-etl/models"
	"member-etl/utils"
)

const (
	delimiter = '|'
	numFields = 12
)

// Columns is the positional schema of the input file; it has no header row.
var Columns = []string{
	"FirstName", "LastName", "Company", "BirthDate", "Salary", "Address",
	"Suburb", "State", "Post", "Phone", "Mobile", "Email",
}

// ReadStatus tells why a read did or did not produce rows.
type ReadStatus int

const (
	ReadOK ReadStatus = iota
	ReadNotFound
	ReadEmpty
	ReadParseError
	ReadFailed
)

func (s ReadStatus) String() string {
	switch s {
	case ReadOK:
		return "ok"
	case ReadNotFound:
		return "not_found"
	case ReadEmpty:
		return "empty"
	case ReadParseError:
		return "parse_error"
	default:
		return "failed"
	}
}

// ReadResult is either a set of rows (Status == ReadOK) or a tagged failure.
type ReadResult struct {
	Status  ReadStatus
	Members []*models.RawMember
	Err     error
}

// OK reports whether the read produced rows.
func (r ReadResult) OK() bool { return r.Status == ReadOK }

// Reader parses member files. It never returns a Go error directly; failures
// are logged and reported through ReadResult.
type Reader struct {
	logger *utils.Logger
}

// New creates a Reader with the given logger.
func New(logger *utils.Logger) *Reader {
	return &Reader{logger: logger}
}

// Read opens path and parses it.
func (r *Reader) Read(path string) ReadResult {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Error("[reader] The file at %s was not found", path)
			return ReadResult{Status: ReadNotFound, Err: err}
		}
		r.logger.Error("[reader] Unexpected error opening %s: %v", path, err)
		return ReadResult{Status: ReadFailed, Err: err}
	}
	defer f.Close()

	res := r.Parse(f)
	if res.OK() {
		r.logger.Info("[reader] Read %d rows from %s", len(res.Members), path)
	}
	return res
}

// Parse reads rows from src. A UTF-8 or UTF-16 byte order mark is honoured.
func (r *Reader) Parse(src io.Reader) ReadResult {
	decoded := transform.NewReader(src, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var members []*models.RawMember
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				r.logger.Error("[reader] There was a problem parsing the file: %v", err)
				return ReadResult{Status: ReadParseError, Err: err}
			}
			r.logger.Error("[reader] An unexpected error occurred: %v", err)
			return ReadResult{Status: ReadFailed, Err: err}
		}

		if isBlank(rec) {
			continue
		}

		line, _ := cr.FieldPos(0)
		m, err := toMember(rec, line)
		if err != nil {
			r.logger.Error("[reader] There was a problem parsing the file: %v", err)
			return ReadResult{Status: ReadParseError, Err: err}
		}
		members = append(members, m)
	}

	if len(members) == 0 {
		r.logger.Error("[reader] The file is empty")
		return ReadResult{Status: ReadEmpty, Err: errors.New("reader: no data rows")}
	}
	return ReadResult{Status: ReadOK, Members: members}
}

// isBlank matches whitespace-only lines, which encoding/csv returns as a
// single field.
func isBlank(rec []string) bool {
	return len(rec) == 1 && strings.TrimSpace(rec[0]) == ""
}

func toMember(rec []string, line int) (*models.RawMember, error) {
	if len(rec) != numFields {
		return nil, fmt.Errorf("reader: line %d: expected %d fields, got %d", line, numFields, len(rec))
	}

	ints := make([]int64, 3)
	for i, col := range []int{8, 9, 10} {
		n, err := strconv.ParseInt(strings.TrimSpace(rec[col]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("reader: line %d column %s: %w", line, Columns[col], err)
		}
		ints[i] = n
	}

	return &models.RawMember{
		FirstName: rec[0],
		LastName:  rec[1],
		Company:   rec[2],
		BirthDate: rec[3],
		Salary:    rec[4],
		Address:   rec[5],
		Suburb:    rec[6],
		State:     rec[7],
		Post:      ints[0],
		Phone:     ints[1],
		Mobile:    ints[2],
		Email:     rec[11],
	}, nil
}
