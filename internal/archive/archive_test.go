package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"dump.sql", FormatSQL},
		{"dump.sql.gz", FormatGzip},
		{"backup.zip", FormatZip},
		{"nightly.tar", FormatTar},
		{"legacy.dump", FormatPgDump},
		{"legacy.dmp", FormatPgDump},
		{"notes.txt", FormatUnknown},
		{"export.gz", FormatGzip},
		{"site.tar.gz", FormatGzip},
		{"/var/dumps/SITE_A.SQL.GZ", FormatGzip},
		{"Backup.ZIP", FormatZip},
		{"sql", FormatUnknown},
		{".sql", FormatUnknown},
		{"dump.sql.bak", FormatUnknown},
		{"", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path))
		})
	}
}

func TestFormat_String(t *testing.T) {
	assert.Equal(t, "SQL", FormatSQL.String())
	assert.Equal(t, "GZIP", FormatGzip.String())
	assert.Equal(t, "ZIP", FormatZip.String())
	assert.Equal(t, "TAR", FormatTar.String())
	assert.Equal(t, "PG_DUMP", FormatPgDump.String())
	assert.Equal(t, "UNKNOWN", FormatUnknown.String())
}

func TestDumpFile(t *testing.T) {
	d := NewDumpFile("/dumps/site_a.sql.gz")
	assert.Equal(t, FormatGzip, d.Format)
	assert.Equal(t, "site_a.sql.gz", d.Name())
	assert.True(t, d.NeedsExtraction())
	assert.False(t, NewDumpFile("a.sql").NeedsExtraction())
	assert.True(t, IsDump("a.dmp"))
	assert.False(t, IsDump("a.txt"))
}
