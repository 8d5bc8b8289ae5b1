package publish

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCredentials(t *testing.T) {
	t.Setenv("B2_ACCOUNT_ID", "acct")
	t.Setenv("B2_APPLICATION_KEY", "key")
	t.Setenv("B2_BUCKET", "bucket")
	t.Setenv("B2_BASE_PATH", "bundles")

	creds, err := LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, "acct", creds.AccountID)
	assert.Equal(t, "key", creds.ApplicationKey)
	assert.Equal(t, "bucket", creds.BucketName)
	assert.Equal(t, "bundles", creds.BasePath)
}

func TestLoadCredentials_Missing(t *testing.T) {
	t.Setenv("B2_ACCOUNT_ID", "")
	t.Setenv("B2_APPLICATION_KEY", "")
	t.Setenv("B2_BUCKET", "")

	_, err := LoadCredentials()
	require.Error(t, err)
}

func TestObjectName(t *testing.T) {
	creds := &Credentials{BasePath: "bundles/v1"}
	assert.Equal(t, "bundles/v1/marko-browser.js", creds.ObjectName("static/marko-browser.js"))

	flat := &Credentials{}
	assert.Equal(t, "marko-browser.js", flat.ObjectName("static/marko-browser.js"))
}
