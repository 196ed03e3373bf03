// Package rates loads the per-county rate table joined onto the map.
package rates

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultNormalize divides raw unemployment percentages into [0, 1].
const DefaultNormalize = 0.16

// Table maps feature ids to normalized rates. It is read-only after Load.
type Table struct {
	rates map[string]float64
}

// New builds a table from already normalized values.
func New(m map[string]float64) *Table {
	t := &Table{rates: make(map[string]float64, len(m))}
	for k, v := range m {
		t.rates[Key(k)] = v
	}
	return t
}

// Key normalizes an id so that "01001", "1001" and 1001 join.
func Key(id string) string {
	id = strings.TrimSpace(id)
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return id
}

// Rate returns the rate for id, or 0 when the id is absent.
func (t *Table) Rate(id string) float64 {
	r, _ := t.Lookup(id)
	return r
}

func (t *Table) Lookup(id string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	r, ok := t.rates[Key(id)]
	return r, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rates)
}

// Load reads a tab- or comma-separated table from path.
func Load(path string, normalize float64) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open rates")
	}
	defer f.Close()
	t, err := Parse(f, normalize)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return t, nil
}

// Parse reads an id/rate table. The delimiter is a tab when the first line
// has one, a comma otherwise. Columns are found by header name
// (id|fips|key and rate|value, case-insensitive); without a recognized
// header the first two columns are used. Values are divided by normalize
// (1 when normalize is 0). Rows that do not parse are skipped.
func Parse(r io.Reader, normalize float64) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if normalize == 0 {
		normalize = 1
	}
	cr := csv.NewReader(bytes.NewReader(data))
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	first, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.IndexByte(first, '\t') >= 0 {
		cr.Comma = '\t'
	}
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("empty rate table")
	}
	idxID, idxRate := -1, -1
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "id", "fips", "key":
			if idxID == -1 {
				idxID = i
			}
		case "rate", "value":
			if idxRate == -1 {
				idxRate = i
			}
		}
	}
	rows := recs
	if idxID != -1 && idxRate != -1 {
		rows = recs[1:]
	} else {
		idxID, idxRate = 0, 1
		// an unrecognized header row fails to parse below and is skipped
	}
	t := &Table{rates: make(map[string]float64, len(rows))}
	for _, row := range rows {
		if idxID >= len(row) || idxRate >= len(row) {
			continue
		}
		id := Key(row[idxID])
		v, err := strconv.ParseFloat(strings.TrimSpace(row[idxRate]), 64)
		if id == "" || err != nil {
			continue
		}
		t.rates[id] = v / normalize
	}
	if len(t.rates) == 0 {
		return nil, errors.New("rate table: no valid rows parsed")
	}
	return t, nil
}
