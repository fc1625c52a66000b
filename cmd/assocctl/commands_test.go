package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/assockit/internal/config"
	"github.com/joshuapare/assockit/pkg/types"
)

func register(t *testing.T, id, name string) {
	t.Helper()
	_, err := captureOutput(t, func() error { return runRegister([]string{id, name}) })
	require.NoError(t, err)
}

func TestRegisterAndShow(t *testing.T) {
	snapshot := resetGlobals(t)
	registerIcon = `C:\acme\notes.exe,0`
	registerExe = `C:\acme\notes.exe`

	out, err := captureOutput(t, func() error { return runRegister([]string{"Acme.Notes", "Acme Notes"}) })
	require.NoError(t, err)
	assertContains(t, out, []string{"Registered", "Acme.Notes"})

	data, err := os.ReadFile(snapshot)
	require.NoError(t, err)
	assertContains(t, string(data), []string{
		`[HKEY_CURRENT_USER\Software\Classes\Acme.Notes]`,
		`@="Acme Notes"`,
		`[HKEY_CURRENT_USER\Software\Classes\Acme.Notes\shell\open\command]`,
		`@="\"C:\\acme\\notes.exe\" \"%1\""`,
	})

	out, err = captureOutput(t, func() error { return runShow([]string{"Acme.Notes"}) })
	require.NoError(t, err)
	assertContains(t, out, []string{"Acme Notes", `C:\acme\notes.exe,0`, "yes"})
	assert.Equal(t, config.App{Name: "Acme Notes", Exe: `C:\acme\notes.exe`, Icon: `C:\acme\notes.exe,0`}, cfg.Apps["Acme.Notes"])
}

func TestRegister_UsesRememberedName(t *testing.T) {
	resetGlobals(t)
	cfg.Remember("Acme.Notes", config.App{Name: "Acme Notes"})

	_, err := captureOutput(t, func() error { return runRegister([]string{"Acme.Notes"}) })
	require.NoError(t, err)

	_, err = captureOutput(t, func() error { return runRegister([]string{"Other.App"}) })
	assert.Error(t, err)
}

func TestRegister_PersistsConfig(t *testing.T) {
	resetGlobals(t)
	configPath = filepath.Join(t.TempDir(), config.FileName)
	register(t, "Acme.Notes", "Acme Notes")

	loaded, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "Acme Notes", loaded.Apps["Acme.Notes"].Name)

	_, err = captureOutput(t, func() error { return runUnregister([]string{"Acme.Notes"}) })
	require.NoError(t, err)
	loaded, err = config.Load(configPath)
	require.NoError(t, err)
	assert.NotContains(t, loaded.Apps, "Acme.Notes")
}

func TestAssociateAndList(t *testing.T) {
	resetGlobals(t)
	register(t, "X", "Application X")
	register(t, "Y", "Application Y")

	_, err := captureOutput(t, func() error { return runAssociate([]string{"X", ".a", "c"}) })
	require.NoError(t, err)
	_, err = captureOutput(t, func() error { return runAssociate([]string{"Y", ".b"}) })
	require.NoError(t, err)

	jsonOut = true
	out, err := captureOutput(t, func() error { return runList([]string{"X"}) })
	require.NoError(t, err)
	assertJSON(t, out)
	var exts []string
	require.NoError(t, json.Unmarshal([]byte(out), &exts))
	assert.Equal(t, []string{".a", ".c"}, exts)

	out, err = captureOutput(t, func() error { return runList([]string{"Nobody"}) })
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestAssociate_Strict(t *testing.T) {
	resetGlobals(t)
	register(t, "X", "Application X")
	register(t, "Y", "Application Y")
	_, err := captureOutput(t, func() error { return runAssociate([]string{"Y", ".txt"}) })
	require.NoError(t, err)

	associateStrict = true
	_, err = captureOutput(t, func() error { return runAssociate([]string{"X", ".txt"}) })
	assert.ErrorIs(t, err, types.ErrAlreadyAssociated)

	_, err = captureOutput(t, func() error { return runDisassociate([]string{"X", ".txt"}) })
	assert.ErrorIs(t, err, types.ErrAlreadyAssociated)
}

func TestAssociate_UnknownProgID(t *testing.T) {
	resetGlobals(t)
	_, err := captureOutput(t, func() error { return runAssociate([]string{"Nope.App", ".txt"}) })
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestUnregister(t *testing.T) {
	resetGlobals(t)
	register(t, "Acme.Notes", "Acme Notes")
	_, err := captureOutput(t, func() error { return runAssociate([]string{"Acme.Notes", ".note"}) })
	require.NoError(t, err)

	unregisterStrict = true
	_, err = captureOutput(t, func() error { return runUnregister([]string{"Acme.Notes"}) })
	assert.ErrorIs(t, err, types.ErrStillAssociated)

	_, err = captureOutput(t, func() error { return runDisassociate([]string{"Acme.Notes", ".note"}) })
	require.NoError(t, err)
	_, err = captureOutput(t, func() error { return runUnregister([]string{"Acme.Notes"}) })
	require.NoError(t, err)

	_, err = captureOutput(t, func() error { return runShow([]string{"Acme.Notes"}) })
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestShow_JSON(t *testing.T) {
	resetGlobals(t)
	register(t, "Acme.Notes", "Acme Notes")
	_, err := captureOutput(t, func() error { return runAssociate([]string{"Acme.Notes", ".note"}) })
	require.NoError(t, err)

	jsonOut = true
	out, err := captureOutput(t, func() error { return runShow([]string{"Acme.Notes"}) })
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Acme.Notes", res["id"])
	assert.Equal(t, "Acme Notes", res["name"])
	assert.Equal(t, true, res["installed"])
	assert.Equal(t, []any{".note"}, res["extensions"])
	assert.NotContains(t, res, "default_icon_path")
}

func TestExportImport(t *testing.T) {
	resetGlobals(t)
	register(t, "Acme.Notes", "Acme Notes")
	_, err := captureOutput(t, func() error { return runAssociate([]string{"Acme.Notes", ".note"}) })
	require.NoError(t, err)

	exported := filepath.Join(t.TempDir(), "acme.reg")
	exportOutput = exported
	_, err = captureOutput(t, func() error { return runExport([]string{"Acme.Notes"}) })
	require.NoError(t, err)

	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assertContains(t, string(data), []string{
		"Windows Registry Editor Version 5.00",
		`[HKEY_CURRENT_USER\Software\Classes\Acme.Notes\CurVer]`,
		`[HKEY_CURRENT_USER\Software\Classes\.note]`,
	})

	// Replay into an empty snapshot.
	resetGlobals(t)
	_, err = captureOutput(t, func() error { return runImport([]string{exported}) })
	require.NoError(t, err)

	jsonOut = true
	out, err := captureOutput(t, func() error { return runList([]string{"Acme.Notes"}) })
	require.NoError(t, err)
	assert.Equal(t, "[\n  \".note\"\n]", strings.TrimSpace(out))
}

func TestExport_Stdout(t *testing.T) {
	resetGlobals(t)
	register(t, "Acme.Notes", "Acme Notes")

	out, err := captureOutput(t, func() error { return runExport([]string{"Acme.Notes"}) })
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Windows Registry Editor Version 5.00\r\n"))
}

func TestReadOnlyCommandsLeaveSnapshotAlone(t *testing.T) {
	snapshot := resetGlobals(t)
	_, err := captureOutput(t, func() error { return runList([]string{"Acme.Notes"}) })
	require.NoError(t, err)

	_, err = os.Stat(snapshot)
	assert.True(t, os.IsNotExist(err), "list must not create the snapshot")
}

func TestInvalidScope(t *testing.T) {
	resetGlobals(t)
	scopeName = "everywhere"
	_, err := captureOutput(t, func() error { return runList([]string{"Acme.Notes"}) })
	assert.ErrorIs(t, err, types.ErrInvalidParameter)
}

func TestQuiet(t *testing.T) {
	resetGlobals(t)
	quiet = true
	out, err := captureOutput(t, func() error { return runRegister([]string{"Acme.Notes", "Acme Notes"}) })
	require.NoError(t, err)
	assert.Empty(t, out)
}
