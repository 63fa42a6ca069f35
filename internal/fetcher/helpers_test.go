package fetcher

import (
	"archive/tar"
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

type entry struct {
	name string
	body string
	dir  bool
}

// repoEntries mimics a hosted archive with a single top-level folder
var repoEntries = []entry{
	{name: "repo-main/", dir: true},
	{name: "repo-main/README.md", body: "# repo"},
	{name: "repo-main/docs/", dir: true},
	{name: "repo-main/docs/guide.md", body: "guide"},
}

func buildZip(t *testing.T, entries []entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		if !e.dir {
			_, err = w.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeTar(t *testing.T, w io.Writer, entries []entry) {
	t.Helper()

	tw := tar.NewWriter(w)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "pax_global_header",
		Typeflag: tar.TypeXGlobalHeader,
		PAXRecords: map[string]string{
			"comment": "deadbeef",
		},
	}))
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0755, Typeflag: tar.TypeDir}
		if !e.dir {
			hdr = &tar.Header{Name: e.name, Mode: 0600, Size: int64(len(e.body)), Typeflag: tar.TypeReg}
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if !e.dir {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
}

func buildTarGz(t *testing.T, entries []entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	writeTar(t, gw, entries)
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func buildTarZst(t *testing.T, entries []entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	writeTar(t, zw, entries)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
