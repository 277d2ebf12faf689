package orderbookv1

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	t.Run("with 0x prefix", func(t *testing.T) {
		addr, err := ParseAddress("0x00000000000000000000000000000000000000aa")
		require.NoError(t, err)
		assert.Equal(t, byte(0xaa), addr[19])
	})

	t.Run("without prefix", func(t *testing.T) {
		addr, err := ParseAddress("00000000000000000000000000000000000000aa")
		require.NoError(t, err)
		assert.Equal(t, byte(0xaa), addr[19])
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := ParseAddress("0xabcd")
		assert.ErrorIs(t, err, ErrInvalidAddress)
	})

	t.Run("non-hex characters", func(t *testing.T) {
		_, err := ParseAddress("0x00000000000000000000000000000000000000zz")
		assert.ErrorIs(t, err, ErrInvalidHexadecimal)
	})
}

func TestAddress_Hex(t *testing.T) {
	addr, err := ParseAddress("0x0123456789ABCDEF0123456789abcdef01234567")
	require.NoError(t, err)

	// canonical form is lower case
	assert.Equal(t, "0x0123456789abcdef0123456789abcdef01234567", addr.Hex())
	assert.Equal(t, addr.Hex(), addr.String())
}

func TestAddress_IsZero(t *testing.T) {
	assert.True(t, Address{}.IsZero())

	addr, err := ParseAddress("0x0000000000000000000000000000000000000001")
	require.NoError(t, err)
	assert.False(t, addr.IsZero())
}

func TestAddress_JSON(t *testing.T) {
	addr, err := ParseAddress("0x00000000000000000000000000000000000000ff")
	require.NoError(t, err)

	buf, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"0x00000000000000000000000000000000000000ff"`, string(buf))

	var decoded Address
	require.NoError(t, json.Unmarshal(buf, &decoded))
	assert.Equal(t, addr, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"0xnope"`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`42`), &decoded))
}
