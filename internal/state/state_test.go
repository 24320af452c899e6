package state

import (
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	rec := &Record{
		Env:             "dev",
		Region:          "us-east-1",
		InstanceID:      "i-0123456789abcdef0",
		SecurityGroupID: "sg-0123456789abcdef0",
		KeyPairName:     "dev-airflow-key",
		PublicIP:        "198.51.100.7",
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Save(rec))

	got, err := store.Load("dev")
	require.NoError(t, err)
	require.Equal(t, rec, got)
}

func TestLoadMissing(t *testing.T) {
	t.Parallel()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("dev")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRequiresEnv(t *testing.T) {
	t.Parallel()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.Error(t, store.Save(&Record{}))
}

func TestKeyPermissions(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.WriteKey("dev", []byte("private")))

	info, err := os.Stat(store.KeyPath("dev"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := store.ReadKey("dev")
	require.NoError(t, err)
	require.Equal(t, []byte("private"), data)
}

func TestRemoveIsTolerant(t *testing.T) {
	t.Parallel()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	// Removing a record that never existed succeeds.
	require.NoError(t, store.Remove("dev"))

	require.NoError(t, store.Save(&Record{Env: "dev"}))
	require.NoError(t, store.Remove("dev"))
	_, err = store.Load("dev")
	require.ErrorIs(t, err, ErrNotFound)

	// Twice in a row.
	require.NoError(t, store.Remove("dev"))
}

func TestRemoveAll(t *testing.T) {
	t.Parallel()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(&Record{Env: "dev"}))
	require.NoError(t, store.WriteKey("dev", []byte("private")))
	require.NoError(t, store.RemoveAll("dev"))

	_, err = os.Stat(store.EnvDir("dev"))
	require.True(t, os.IsNotExist(err))
}
