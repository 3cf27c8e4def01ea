package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/academia/internal/service"
)

func TestSessionCodec_RoundTrip(t *testing.T) {
	codec, err := service.NewSessionCodec("secret-1", time.Hour)
	require.NoError(t, err)

	in := service.Session{UserID: "user-1", TikTokUserID: "open-1", AccessToken: "token-1"}
	value, err := codec.Encode(in)
	require.NoError(t, err)
	require.NotEmpty(t, value)

	out, err := codec.Decode(value)
	require.NoError(t, err)
	assert.Equal(t, in, *out)
}

func TestSessionCodec_RejectsTamperedValue(t *testing.T) {
	codec, err := service.NewSessionCodec("secret-1", time.Hour)
	require.NoError(t, err)

	value, err := codec.Encode(service.Session{UserID: "user-1"})
	require.NoError(t, err)

	tampered := value[:len(value)-2] + "xx"
	_, err = codec.Decode(tampered)
	assert.ErrorIs(t, err, service.ErrInvalidSession)
}

func TestSessionCodec_RejectsForeignSecret(t *testing.T) {
	signer, err := service.NewSessionCodec("secret-1", time.Hour)
	require.NoError(t, err)
	verifier, err := service.NewSessionCodec("secret-2", time.Hour)
	require.NoError(t, err)

	value, err := signer.Encode(service.Session{UserID: "user-1"})
	require.NoError(t, err)

	_, err = verifier.Decode(value)
	assert.ErrorIs(t, err, service.ErrInvalidSession)
}

func TestSessionCodec_RejectsExpiredValue(t *testing.T) {
	codec, err := service.NewSessionCodec("secret-1", -time.Minute)
	require.NoError(t, err)

	value, err := codec.Encode(service.Session{UserID: "user-1"})
	require.NoError(t, err)

	_, err = codec.Decode(value)
	assert.ErrorIs(t, err, service.ErrInvalidSession)
}

func TestSessionCodec_RejectsGarbage(t *testing.T) {
	codec, err := service.NewSessionCodec("secret-1", time.Hour)
	require.NoError(t, err)

	_, err = codec.Decode("not-a-token")
	assert.ErrorIs(t, err, service.ErrInvalidSession)
}

func TestNewSessionCodec_RequiresSecret(t *testing.T) {
	_, err := service.NewSessionCodec("", time.Hour)
	assert.Error(t, err)
}
