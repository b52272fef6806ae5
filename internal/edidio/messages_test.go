package edidio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_MarshalBinary(t *testing.T) {

	t.Run("dali frames should carry the framing bytes and a valid checksum", func(t *testing.T) {
		// arrange
		msg := NewDALIMessage(7, 1, 10, DALIArcLevel, []uint8{127})

		// act
		data, err := msg.MarshalBinary()

		// assert
		require.NoError(t, err)
		assert.Equal(t, uint8(0xed), data[0])
		assert.Equal(t, uint8(0x01), data[1])
		assert.Equal(t, int(data[2]), len(data)-4)

		var sum uint8
		for _, b := range data[1 : len(data)-1] {
			sum ^= b
		}
		assert.Equal(t, sum, data[len(data)-1])
	})

	t.Run("dmx frames should encode the channel big endian", func(t *testing.T) {
		msg := NewDMXMessage(1, 0, 0b0010, 0x0102, 1, []uint8{5, 6, 7}, 25)

		data, err := msg.MarshalBinary()

		require.NoError(t, err)
		assert.Equal(t, uint8(0x02), data[1])
		// channel sits after start, kind, length, id(4), zone, mask
		assert.Equal(t, uint8(0x01), data[9])
		assert.Equal(t, uint8(0x02), data[10])
	})

	t.Run("type8 messages should carry the dtr bytes", func(t *testing.T) {
		msg := NewDALIType8Message(2, 1, 8, Type8SetTempXCoord, []uint8{0x34, 0x12})

		data, err := msg.MarshalBinary()

		require.NoError(t, err)
		// dtr is the final payload section before the checksum
		assert.Equal(t, []byte{0x34, 0x12}, data[len(data)-3:len(data)-1])
	})
}
