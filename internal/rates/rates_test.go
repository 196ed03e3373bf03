package rates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"tsv with header", "id\trate\n1001\t.097\n01003\t.091\n"},
		{"csv with header", "rate,id\n.097,1001\n.091,1003\n"},
		{"tsv without header", "county\tpct\n1001\t0.097\n1003\t0.091\n"},
		{"skips bad rows", "id,rate\n1001,.097\n,0.5\n1003,.091\nx\n1005,n/a\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tbl, err := Parse(strings.NewReader(tc.doc), 1)
			require.NoError(t, err)
			assert.Equal(t, 2, tbl.Len())
			assert.InDelta(t, 0.097, tbl.Rate("1001"), 1e-12)
			assert.InDelta(t, 0.091, tbl.Rate("01003"), 1e-12)
		})
	}
}

func TestParseNormalize(t *testing.T) {
	tbl, err := Parse(strings.NewReader("id\trate\n1001\t.08\n"), DefaultNormalize)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, tbl.Rate("1001"), 1e-12)
}

func TestMissingRateIsZero(t *testing.T) {
	tbl := New(map[string]float64{"1001": 0.4})
	r, ok := tbl.Lookup("99999")
	assert.False(t, ok)
	assert.Zero(t, r)
	assert.Zero(t, tbl.Rate(""))

	var empty *Table
	assert.Zero(t, empty.Rate("1001"))
	assert.Zero(t, empty.Len())
}

func TestParseErrors(t *testing.T) {
	for _, doc := range []string{"", "id\trate\n", "id,rate\nfoo,bar\n"} {
		_, err := Parse(strings.NewReader(doc), 1)
		require.Error(t, err, "%q", doc)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unemployment.tsv")
	require.NoError(t, os.WriteFile(path, []byte("id\trate\n1001\t.16\n"), 0o644))
	tbl, err := Load(path, DefaultNormalize)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, tbl.Rate("1001"), 1e-12)

	_, err = Load(filepath.Join(t.TempDir(), "missing.tsv"), 1)
	require.Error(t, err)
}
