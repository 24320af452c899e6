package metadata

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/airstackdev/airstack/internal/config"
)

func TestBuildDSN(t *testing.T) {
	t.Parallel()
	dsn := buildDSN(config.MetadataConfig{
		Host:     "db.example.com",
		Port:     5432,
		Database: "metastore",
		User:     "airstack",
		SSLMode:  "require",
	}, "s3cret")

	require.Equal(t,
		"host=db.example.com port=5432 dbname=metastore user=airstack password='s3cret' sslmode=require connect_timeout=10",
		dsn)
}

func TestQuoteDSNValueEscapes(t *testing.T) {
	t.Parallel()
	require.Equal(t, `'it\'s a pass\\word'`, quoteDSNValue(`it's a pass\word`))
}

func TestValidateUpdateField(t *testing.T) {
	t.Parallel()
	for _, field := range updatableFields {
		require.NoError(t, validateUpdateField(field))
	}
	require.ErrorContains(t, validateUpdateField("name"), `invalid field "name"`)
	require.ErrorContains(t, validateUpdateField("id; DROP TABLE pipelines"), "invalid field")
}
