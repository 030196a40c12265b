package stripe

import (
	"context"
	"testing"

	"github.com/Oleksa-32/car-sharing-app/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresSecrets(t *testing.T) {
	_, err := NewClient(context.Background(), config.StripeConfig{Secret: "whsec_x"}, nil)
	assert.ErrorIs(t, err, errAPIKeyRequired)

	_, err = NewClient(context.Background(), config.StripeConfig{APIKey: "sk_test_123"}, nil)
	assert.ErrorIs(t, err, errSecretRequired)
}

func TestNewClientRejectsKeyForWrongEnvironment(t *testing.T) {
	_, err := NewClient(context.Background(), config.StripeConfig{
		APIKey: "sk_live_123",
		Secret: "whsec_x",
		Env:    "test",
	}, nil)
	assert.Error(t, err)
}

func TestNewClientBindsKeyToSessions(t *testing.T) {
	client, err := NewClient(context.Background(), config.StripeConfig{
		APIKey: " sk_test_123 ",
		Secret: "whsec_x",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, testEnv, client.Environment())
	assert.Equal(t, "whsec_x", client.SigningSecret())
	require.NotNil(t, client.CheckoutSessions())
	assert.Equal(t, "sk_test_123", client.CheckoutSessions().Key)
}

func TestNormalizeEnv(t *testing.T) {
	env, err := normalizeEnv(" LIVE ")
	require.NoError(t, err)
	assert.Equal(t, liveEnv, env)

	env, err = normalizeEnv("")
	require.NoError(t, err)
	assert.Equal(t, testEnv, env)

	_, err = normalizeEnv("staging")
	assert.ErrorIs(t, err, errInvalidStripeEnv)
}

func TestValidateAPIKey(t *testing.T) {
	assert.NoError(t, validateAPIKey(testEnv, "rk_test_abc"))
	assert.NoError(t, validateAPIKey(liveEnv, "sk_live_abc"))
	assert.Error(t, validateAPIKey(liveEnv, "sk_test_abc"))
}

func TestNilClientAccessors(t *testing.T) {
	var client *Client
	assert.Nil(t, client.CheckoutSessions())
	assert.Empty(t, client.Environment())
	assert.Empty(t, client.SigningSecret())
}
