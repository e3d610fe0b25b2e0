package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritydate/verity-backend/internal/utils/pagination"
)

func TestEncodeDecodeRoundtrip(t *testing.T) {
	in := pagination.Cursor{FromUser: "user-123", CreatedUnix: 1712345678901}

	token, err := pagination.Encode(in)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	out, err := pagination.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeEmptyTokenIsZeroCursor(t *testing.T) {
	out, err := pagination.Decode("")
	require.NoError(t, err)
	assert.Equal(t, pagination.Cursor{}, out)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := pagination.Decode("!!not-base64!!")
	assert.Error(t, err)

	// valid base64, invalid payload
	_, err = pagination.Decode("bm90LWpzb24=")
	assert.Error(t, err)
}
