package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteIntToFile_ReadIntFromFile(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "duty_cycle")

	// WHEN
	err := WriteIntToFile(40000, filePath)
	require.NoError(t, err)
	value, err := ReadIntFromFile(filePath)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 40000, value)
}

func TestReadIntFromFile_Empty(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(filePath, []byte{}, 0644))

	// WHEN
	value, err := ReadIntFromFile(filePath)

	// THEN
	assert.Error(t, err)
	assert.Equal(t, -1, value)
}

func TestReadIntFromFile_Missing(t *testing.T) {
	// WHEN
	_, err := ReadIntFromFile(filepath.Join(t.TempDir(), "missing"))

	// THEN
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFileAtomic_CreatesParentDir(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "config", "config.cfg")
	content := []byte("pwm_fan_duty=100\n")

	// WHEN
	err := WriteFileAtomic(filePath, content)

	// THEN
	require.NoError(t, err)
	data, err := os.ReadFile(filePath)
	assert.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestWriteFileAtomic_Overwrites(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "config.cfg")
	require.NoError(t, WriteFileAtomic(filePath, []byte("a long old content")))

	// WHEN
	err := WriteFileAtomic(filePath, []byte("new"))

	// THEN
	require.NoError(t, err)
	data, err := os.ReadFile(filePath)
	assert.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestFileExists(t *testing.T) {
	// GIVEN
	dir := t.TempDir()

	// THEN
	assert.True(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "nope")))
}
