// Package parser splits the delimited text of the sensor feed into rows.
//
// Parsing is best-effort and line by line: blank lines are skipped, short
// lines leave columns absent, long lines lose their excess fields and a
// line with broken quoting is split on the delimiter as is. A bad line
// never affects its neighbours. Empty input yields an empty result rather
// than an error.
package parser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/speedwagon-io/machinedash/internal/model"
)

const bom = "\ufeff"

type Result struct {
	Header []string
	Rows   []model.RawRow
	// Malformed counts lines whose quoting could not be read and that were
	// split on the bare delimiter instead.
	Malformed int
	// Short counts rows with fewer fields than the header.
	Short int
}

type Parser struct {
	comma rune
}

// New returns a parser splitting on the first rune of delimiter. An empty
// or unusable delimiter falls back to a comma.
func New(delimiter string) *Parser {
	comma := ','
	if r, size := utf8.DecodeRuneInString(delimiter); size > 0 && validDelim(r) {
		comma = r
	}
	return &Parser{comma: comma}
}

func validDelim(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && r != utf8.RuneError
}

func (p *Parser) ParseString(text string) *Result {
	// strings.Reader never fails, so neither does Parse.
	res, _ := p.Parse(strings.NewReader(text))
	return res
}

// Parse reads the header line and zips every following line with it. The
// only error is a failing reader; rows read before it are still returned.
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	br := bufio.NewReader(r)
	res := &Result{Rows: []model.RawRow{}}

	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			p.consume(res, line)
		}
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return res, fmt.Errorf("failed to read feed line: %w", err)
		}
	}
}

func (p *Parser) consume(res *Result, line string) {
	line = strings.TrimRight(line, "\r\n")
	if res.Header == nil {
		line = strings.TrimPrefix(line, bom)
	}
	if strings.TrimSpace(line) == "" {
		return
	}

	fields, ok := p.split(line)
	if !ok {
		res.Malformed++
	}

	if res.Header == nil {
		res.Header = fields
		return
	}
	row := model.NewRawRow(res.Header, fields)
	if row.Present() < len(res.Header) {
		res.Short++
	}
	res.Rows = append(res.Rows, row)
}

// split reads one line as a CSV record. When the quoting is broken it falls
// back to a plain split with stray quotes trimmed, and reports false.
func (p *Parser) split(line string) ([]string, bool) {
	cr := csv.NewReader(strings.NewReader(line))
	cr.Comma = p.comma
	cr.FieldsPerRecord = -1

	if record, err := cr.Read(); err == nil {
		return record, true
	}

	fields := strings.Split(line, string(p.comma))
	for i, f := range fields {
		fields[i] = strings.Trim(f, `"`)
	}
	return fields, false
}
