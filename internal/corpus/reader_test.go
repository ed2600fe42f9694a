package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, input string) ([]Record, error) {
	t.Helper()
	var out []Record
	for rec, err := range NewReader(strings.NewReader(input)).All() {
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func ids(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		id, ok := rec.ID()
		if !ok {
			out = append(out, "-")
			continue
		}
		out = append(out, id.String())
	}
	return out
}

func TestReader_SkipsBlankLines(t *testing.T) {
	t.Parallel()

	got, err := collect(t, "{\"id\":1}\n\n   \n\t\n{\"id\":2}")
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2"}, ids(got))
}

func TestReader_SplitsConcatenatedObjects(t *testing.T) {
	t.Parallel()

	got, err := collect(t, "{\"id\":1}{\"id\":2}\n{\"id\":3}}{\"id\":4}\n")
	require.Error(t, err)
	require.Equal(t, []string{"1", "2"}, ids(got))

	got, err = collect(t, "{\"id\":1}{\"id\":2}{\"id\":3}\r\n{\"id\":4}\n")
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "3", "4"}, ids(got))
}

func TestReader_MalformedLineIsFatal(t *testing.T) {
	t.Parallel()

	got, err := collect(t, "{\"id\":1}\n{\"id\":2}\n{bad json}\n{\"id\":4}\n")
	require.Equal(t, []string{"1", "2"}, ids(got))

	var malformed *MalformedRecordError
	require.True(t, errors.As(err, &malformed))
	require.Equal(t, 3, malformed.Line)
	require.Contains(t, err.Error(), "parse record line 3")
}

func TestReader_NonObjectLineIsMalformed(t *testing.T) {
	t.Parallel()

	_, err := collect(t, "[1,2,3]\n")
	var malformed *MalformedRecordError
	require.True(t, errors.As(err, &malformed))
	require.Equal(t, 1, malformed.Line)
}

func TestReader_LongLines(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("x", 1<<20)
	got, err := collect(t, `{"id":1,"body":"`+body+`"}`+"\n")
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestReader_StopsWhenConsumerStops(t *testing.T) {
	t.Parallel()

	n := 0
	for range NewReader(strings.NewReader("{\"id\":1}{\"id\":2}\n{\"id\":3}\n")).All() {
		n++
		break
	}
	require.Equal(t, 1, n)
}

func TestReadRecords_Restartable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "issues.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"id\":1}\n{\"id\":2}\n"), 0o644))

	seq := ReadRecords(path)
	for pass := 0; pass < 2; pass++ {
		var got []Record
		for rec, err := range seq {
			require.NoError(t, err)
			got = append(got, rec)
		}
		require.Equal(t, []string{"1", "2"}, ids(got), "pass %d", pass)
	}
}

func TestReadRecords_MissingInput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.jsonl")
	for _, err := range ReadRecords(path) {
		require.ErrorIs(t, err, ErrMissingInput)
		require.Contains(t, err.Error(), path)
	}
}
