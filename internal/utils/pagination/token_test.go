package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	entryDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	token := EncodeToken(entryDate, "je-42")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, entryDate, decodedDate, "Entry date should match after decode")
	assert.Equal(t, "je-42", decodedID, "Entry id should match after decode")

	// Zero time round-trips too.
	zeroToken := EncodeToken(time.Time{}, "")
	decodedZero, decodedEmptyID, err := DecodeToken(zeroToken)
	assert.NoError(t, err)
	assert.True(t, decodedZero.IsZero())
	assert.Empty(t, decodedEmptyID)
}

func TestDecodeTokenError(t *testing.T) {
	// Invalid base64
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	// Valid base64 but no separator
	invalidToken := "MjAyMy0wNS0xNVQwMDowMDowMFo="
	_, _, err = DecodeToken(invalidToken)
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split")
}
