package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asheshgoplani/beam/internal/config"
	"github.com/asheshgoplani/beam/internal/index"
)

// A failing handler must still release the store; badger holds a
// directory lock, so a leaked handle would make the next open fail.
func TestHandleJumpClosesIndexOnError(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv(config.EnvDataDir, dataDir)

	err := handleJump(&config.UserConfig{}, []string{"nosuchpattern"})
	var nErr *index.NoResultsError
	require.ErrorAs(t, err, &nErr)

	ix, err := index.Open(index.Options{DataDir: dataDir})
	require.NoError(t, err)
	require.NoError(t, ix.Close())
}

func TestHandleRemoveClosesIndex(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv(config.EnvDataDir, dataDir)

	require.NoError(t, handleRemove(&config.UserConfig{}, []string{"/never/added"}))

	ix, err := index.Open(index.Options{DataDir: dataDir})
	require.NoError(t, err)
	require.NoError(t, ix.Close())
}
