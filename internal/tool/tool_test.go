package tool

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFileExists(t *testing.T) {
	dir := t.TempDir()

	exists, err := IsFileExists(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.False(t, exists)

	keyFile := filepath.Join(dir, "key.pem")
	certFile := filepath.Join(dir, "cert.pem")
	require.NoError(t, GenerateTlsCertificate("charlcd", "charlcd Server", keyFile, certFile, []string{"127.0.0.1"}))

	exists, err = IsFileExists(certFile)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = IsFileExists(keyFile)
	require.NoError(t, err)
	assert.True(t, exists)
}
