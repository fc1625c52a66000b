package winreg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/assockit/pkg/types"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		in   string
		want Scope
	}{
		{"", ScopeMerged},
		{"merged", ScopeMerged},
		{"HKCR", ScopeMerged},
		{"User", ScopeUser},
		{"hkcu", ScopeUser},
		{" machine ", ScopeMachine},
		{"HKLM", ScopeMachine},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseScope(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseScope("hkey_users")
	assert.ErrorIs(t, err, types.ErrInvalidParameter)
}

func TestScope_RootName(t *testing.T) {
	assert.Equal(t, "HKEY_CLASSES_ROOT", ScopeMerged.RootName())
	assert.Equal(t, `HKEY_CURRENT_USER\Software\Classes`, ScopeUser.RootName())
	assert.Equal(t, `HKEY_LOCAL_MACHINE\Software\Classes`, ScopeMachine.RootName())
	assert.Equal(t, "scope(7)", Scope(7).String())
}
