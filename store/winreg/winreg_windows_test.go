//go:build windows

package winreg

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/assockit/internal/regval"
	"github.com/joshuapare/assockit/pkg/types"
)

func TestSetValue_UntypedPayloads(t *testing.T) {
	if testing.Short() {
		t.Skip("writes under HKEY_CURRENT_USER\\Software\\Classes")
	}
	s, err := New(ScopeUser)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	path := fmt.Sprintf("AssocKit.Test.%d", os.Getpid())
	h, err := s.CreateKey(s.Root(), path)
	require.NoError(t, err)
	t.Cleanup(func() {
		s.CloseKey(h)
		s.DeleteKey(s.Root(), path)
	})

	tests := []struct {
		name string
		typ  types.RegType
		data []byte
	}{
		{name: "None", typ: types.REG_NONE, data: []byte{0xde, 0xad}},
		{name: "EmptyNone", typ: types.REG_NONE},
		{name: "ResourceList", typ: types.REG_RESOURCE_LIST, data: []byte{1, 0, 0, 0}},
		{name: "Unknown", typ: types.RegType(0x42), data: []byte{7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, s.SetValue(h, tt.name, tt.typ, tt.data))
			t.Cleanup(func() { s.DeleteValue(h, tt.name) })

			typ, data, err := regval.Read(s, h, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.typ, typ)
			assert.Equal(t, len(tt.data), len(data))
			if len(tt.data) > 0 {
				assert.Equal(t, tt.data, data)
			}
		})
	}
}
