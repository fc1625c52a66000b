package regtext_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/assockit/internal/regtext"
	"github.com/joshuapare/assockit/internal/regval"
	"github.com/joshuapare/assockit/pkg/types"
	"github.com/joshuapare/assockit/progid"
	"github.com/joshuapare/assockit/store"
	"github.com/joshuapare/assockit/store/memstore"
)

func seed(t *testing.T) *memstore.Store {
	t.Helper()
	s := memstore.New()
	_, err := progid.New(s).Create("Test.App", "Test Application", `C:\app.ico`)
	require.NoError(t, err)

	h, err := s.OpenKey(s.Root(), "Test.App", store.AccessAll)
	require.NoError(t, err)
	require.NoError(t, regval.Write(s, h, "Flags", types.REG_DWORD, []byte{1, 0, 0, 0}))
	require.NoError(t, regval.Write(s, h, "Data", types.REG_BINARY, []byte{1, 2}))
	require.NoError(t, s.CloseKey(h))

	h, err = s.CreateKey(s.Root(), ".txt")
	require.NoError(t, err)
	require.NoError(t, regval.WriteString(s, h, "", "Test.App"))
	require.NoError(t, s.CloseKey(h))
	return s
}

func TestExport_Golden(t *testing.T) {
	s := seed(t)
	out, err := regtext.Export(s, []string{"Test.App", ".txt", "Missing.App"}, regtext.ExportOptions{})
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "progid_export", out)
	assert.Zero(t, s.OpenHandles())
}

func TestExport_RoundTrip(t *testing.T) {
	s := seed(t)
	h, err := s.OpenKey(s.Root(), "Test.App", store.AccessAll)
	require.NoError(t, err)
	long := bytes.Repeat([]byte{0xab}, 100)
	require.NoError(t, regval.Write(s, h, "Long", types.REG_BINARY, long))
	require.NoError(t, regval.Write(s, h, "Expand", types.REG_EXPAND_SZ, []byte{'%', 0, 'A', 0, 0, 0}))
	require.NoError(t, regval.Write(s, h, "Empty", types.REG_BINARY, nil))
	require.NoError(t, s.CloseKey(h))

	for _, enc := range []string{regtext.EncodingUTF8, regtext.EncodingUTF16LE} {
		t.Run(enc, func(t *testing.T) {
			out, err := regtext.Export(s, []string{""}, regtext.ExportOptions{Encoding: enc, WithBOM: true})
			require.NoError(t, err)

			restored := memstore.New()
			require.NoError(t, regtext.Load(restored, out, nil))

			again, err := regtext.Export(restored, []string{""}, regtext.ExportOptions{})
			require.NoError(t, err)
			want, err := regtext.Export(s, []string{""}, regtext.ExportOptions{})
			require.NoError(t, err)
			assert.Equal(t, string(want), string(again))
			assert.Zero(t, restored.OpenHandles())
		})
	}
}

func TestExport_WrapsLongHex(t *testing.T) {
	s := memstore.New()
	h, err := s.CreateKey(s.Root(), "Blob")
	require.NoError(t, err)
	require.NoError(t, regval.Write(s, h, "Long", types.REG_BINARY, bytes.Repeat([]byte{0xff}, 64)))
	require.NoError(t, s.CloseKey(h))

	out, err := regtext.Export(s, []string{"Blob"}, regtext.ExportOptions{})
	require.NoError(t, err)
	for _, line := range strings.Split(string(out), "\r\n") {
		assert.LessOrEqual(t, len(line), 80, line)
	}
	assert.Contains(t, string(out), ",\\\r\n  ff")
}

func TestExport_UnsupportedEncoding(t *testing.T) {
	s := memstore.New()
	_, err := regtext.Export(s, []string{""}, regtext.ExportOptions{Encoding: "EBCDIC"})
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	s := seed(t)
	input := "Windows Registry Editor Version 5.00\r\n" +
		"[-HKEY_CLASSES_ROOT\\Test.App]\r\n" +
		"[-HKEY_CLASSES_ROOT\\Never.Existed]\r\n" +
		"[HKEY_CLASSES_ROOT\\.txt]\r\n" +
		"@=-\r\n" +
		"\"Missing\"=-\r\n" +
		"[HKEY_CLASSES_ROOT\\.md]\r\n" +
		"@=\"Test.App\"\r\n" +
		"[HKEY_CLASSES_ROOT]\r\n" +
		"\"RootValue\"=\"x\"\r\n"
	require.NoError(t, regtext.Load(s, []byte(input), nil))

	rec, err := progid.New(s).Get("Test.App")
	require.NoError(t, err)
	assert.Nil(t, rec, "subtree removed recursively")

	h, err := s.OpenKey(s.Root(), ".txt", store.AccessRead)
	require.NoError(t, err)
	_, err = regval.ReadDefault(s, h)
	assert.ErrorIs(t, err, types.ErrNotFound)
	require.NoError(t, s.CloseKey(h))

	v, err := regval.ReadString(s, s.Root(), "RootValue")
	require.NoError(t, err)
	assert.Equal(t, "x", v)
	assert.Zero(t, s.OpenHandles())
}

func TestApply_StopsOnFailure(t *testing.T) {
	s := memstore.New()
	s.SetReadOnly(true)
	ops := []types.EditOp{types.OpCreateKey{Path: "A"}, types.OpCreateKey{Path: "B"}}
	err := regtext.Apply(s, ops, nil)
	require.ErrorIs(t, err, types.ErrAccessDenied)
	assert.Contains(t, err.Error(), "op 0")
}

func TestDeleteTree_ReadOnly(t *testing.T) {
	s := seed(t)
	s.SetReadOnly(true)
	err := regtext.DeleteTree(s, s.Root(), "Test.App", nil)
	assert.ErrorIs(t, err, types.ErrAccessDenied)
	assert.Zero(t, s.OpenHandles())
}
