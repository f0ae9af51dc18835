package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2026, 3, 15, 14, 30, 45, 123456789, time.UTC)
	id := "4f2e9b1c-0a6d-4c57-9f1e-2b3a4c5d6e7f"

	token := EncodeToken(createdAt, id)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedCreatedAt, decodedID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.True(t, createdAt.Equal(decodedCreatedAt), "Created at time should match after decode")
	assert.Equal(t, id, decodedID, "ID should match after decode")
}

func TestDecodeToken_IDContainingSeparator(t *testing.T) {
	createdAt := time.Now().UTC()
	id := "weird|id|with|pipes"

	_, decodedID, err := DecodeToken(EncodeToken(createdAt, id))
	assert.NoError(t, err)
	assert.Equal(t, id, decodedID, "Everything after the first separator belongs to the ID")
}

func TestDecodeToken_Invalid(t *testing.T) {
	_, _, err := DecodeToken("not-base64!!!")
	assert.Error(t, err, "Garbage input should not decode")

	_, _, err = DecodeToken("bm8tc2VwYXJhdG9y") // "no-separator"
	assert.Error(t, err, "Token without separator should not decode")
}
