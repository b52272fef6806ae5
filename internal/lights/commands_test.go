package lights_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/controlfreak/edidio2mqtt/internal/edidio"
	"github.com/controlfreak/edidio2mqtt/internal/lights"
)

func daliMsg(t *testing.T, m edidio.Message) edidio.DALIMessage {
	t.Helper()
	dm, ok := m.(edidio.DALIMessage)
	require.True(t, ok, "expected a DALI message, got %T", m)
	return dm
}

func dmxMsg(t *testing.T, m edidio.Message) edidio.DMXMessage {
	t.Helper()
	dm, ok := m.(edidio.DMXMessage)
	require.True(t, ok, "expected a DMX message, got %T", m)
	return dm
}

func Test_TurnOnCommands_DALIWhite(t *testing.T) {

	t.Run("should scale brightness onto the dali arc range", func(t *testing.T) {
		light := lights.Light{Protocol: lights.ProtocolDALIWhite, Address: 5, Line: 1}

		for _, b := range []uint8{0, 1, 64, 127, 128, 254, 255} {
			t.Run(fmt.Sprintf("brightness %d", b), func(t *testing.T) {
				// arrange
				state := lights.NewState()
				state.Brightness = b

				// act
				msgs, err := lights.TurnOnCommands(light, state, &edidio.MessageID{})

				// assert
				require.NoError(t, err)
				require.Len(t, msgs, 1)
				dm := daliMsg(t, msgs[0])
				expected := uint8(math.Round(float64(b) / 255.0 * 254.0))
				assert.Equal(t, []uint8{expected}, dm.Args)
				assert.Equal(t, uint8(5), dm.Address)
				assert.Equal(t, edidio.DALIArcLevel, dm.Command)
			})
		}
	})

	t.Run("should map the scale endpoints exactly", func(t *testing.T) {
		light := lights.Light{Protocol: lights.ProtocolDALIWhite, Line: 1}

		state := lights.NewState()
		state.Brightness = 0
		msgs, _ := lights.TurnOnCommands(light, state, &edidio.MessageID{})
		assert.Equal(t, []uint8{0}, daliMsg(t, msgs[0]).Args)

		state.Brightness = 255
		msgs, _ = lights.TurnOnCommands(light, state, &edidio.MessageID{})
		assert.Equal(t, []uint8{254}, daliMsg(t, msgs[0]).Args)
	})
}

func Test_TurnOnCommands_DMX(t *testing.T) {

	t.Run("full brightness should pass rgb through unchanged", func(t *testing.T) {
		// arrange
		light := lights.Light{Protocol: lights.ProtocolDMXRGB, Address: 100}
		state := lights.NewState()
		state.Brightness = 255
		state.SetRGB(12, 200, 99)

		// act
		msgs, err := lights.TurnOnCommands(light, state, &edidio.MessageID{})

		// assert
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		dm := dmxMsg(t, msgs[0])
		assert.Equal(t, []uint8{12, 200, 99}, dm.Levels)
		assert.Equal(t, uint16(100), dm.Channel)
	})

	t.Run("zero brightness should zero every channel", func(t *testing.T) {
		light := lights.Light{Protocol: lights.ProtocolDMXRGB, Address: 100}
		state := lights.NewState()
		state.Brightness = 0
		state.SetRGB(255, 255, 255)

		msgs, err := lights.TurnOnCommands(light, state, &edidio.MessageID{})

		require.NoError(t, err)
		assert.Equal(t, []uint8{0, 0, 0}, dmxMsg(t, msgs[0]).Levels)
	})

	t.Run("scaling should truncate rather than round", func(t *testing.T) {
		light := lights.Light{Protocol: lights.ProtocolDMXWhite, Address: 1}
		state := lights.NewState()
		state.Brightness = 255

		msgs, err := lights.TurnOnCommands(light, state, &edidio.MessageID{})
		require.NoError(t, err)
		assert.Equal(t, []uint8{255}, dmxMsg(t, msgs[0]).Levels)

		// 200 * 128/255 = 100.39..., truncated to 100
		rgbw := lights.Light{Protocol: lights.ProtocolDMXRGBW, Address: 1}
		state.Brightness = 128
		state.SetRGBW(200, 200, 200, 200)
		msgs, err = lights.TurnOnCommands(rgbw, state, &edidio.MessageID{})
		require.NoError(t, err)
		assert.Equal(t, []uint8{100, 100, 100, 100}, dmxMsg(t, msgs[0]).Levels)
	})
}

func Test_TurnOnCommands_DALIRGB(t *testing.T) {

	t.Run("should emit one arc level per channel at consecutive addresses", func(t *testing.T) {
		// arrange: red at half brightness
		light := lights.Light{Protocol: lights.ProtocolDALIRGB, Address: 10, Line: 1}
		state := lights.NewState()
		state.Brightness = 128
		state.SetRGB(255, 0, 0)

		// act
		msgs, err := lights.TurnOnCommands(light, state, &edidio.MessageID{})

		// assert
		require.NoError(t, err)
		require.Len(t, msgs, 3)
		expected := uint8(math.Round(128.0 / 255.0 * 254.0)) // 127
		wantValues := []uint8{expected, 0, 0}
		for i, m := range msgs {
			dm := daliMsg(t, m)
			assert.Equal(t, uint8(10+i), dm.Address)
			assert.Equal(t, uint8(1), dm.LineMask)
			assert.Equal(t, []uint8{wantValues[i]}, dm.Args)
		}
	})
}

func Test_TurnOffCommands(t *testing.T) {

	t.Run("dali_rgbw should always emit exactly four zero arc levels", func(t *testing.T) {
		light := lights.Light{Protocol: lights.ProtocolDALIRGBW, Address: 20, Line: 2}

		msgs, err := lights.TurnOffCommands(light, &edidio.MessageID{})

		require.NoError(t, err)
		require.Len(t, msgs, 4)
		for i, m := range msgs {
			dm := daliMsg(t, m)
			assert.Equal(t, uint8(20+i), dm.Address)
			assert.Equal(t, []uint8{0}, dm.Args)
		}
	})

	t.Run("dmx protocols should zero the whole channel block in one message", func(t *testing.T) {
		for p, channels := range map[lights.Protocol]int{
			lights.ProtocolDMXWhite: 1,
			lights.ProtocolDMXRGB:   3,
			lights.ProtocolDMXRGBW:  4,
		} {
			msgs, err := lights.TurnOffCommands(lights.Light{Protocol: p, Address: 7}, &edidio.MessageID{})
			require.NoError(t, err)
			require.Len(t, msgs, 1)
			assert.Equal(t, make([]uint8, channels), dmxMsg(t, msgs[0]).Levels)
		}
	})

	t.Run("dt8 protocols should turn off with a single zero arc level", func(t *testing.T) {
		for _, p := range []lights.Protocol{lights.ProtocolDALIDT8XY, lights.ProtocolDALICCT, lights.ProtocolDALIWhite} {
			msgs, err := lights.TurnOffCommands(lights.Light{Protocol: p, Address: 3, Line: 1}, &edidio.MessageID{})
			require.NoError(t, err)
			require.Len(t, msgs, 1)
			assert.Equal(t, []uint8{0}, daliMsg(t, msgs[0]).Args)
		}
	})
}

func Test_TurnOnCommands_DT8(t *testing.T) {

	t.Run("xy should send coords, level then activate, in order", func(t *testing.T) {
		// arrange
		light := lights.Light{Protocol: lights.ProtocolDALIDT8XY, Address: 8, Line: 1}
		state := lights.NewState()
		state.Brightness = 255
		state.SetRGB(255, 0, 0)
		ids := &edidio.MessageID{}

		// act
		msgs, err := lights.TurnOnCommands(light, state, ids)

		// assert
		require.NoError(t, err)
		require.Len(t, msgs, 4)
		assert.Equal(t, edidio.Type8SetTempXCoord, daliMsg(t, msgs[0]).Type8)
		assert.Equal(t, edidio.Type8SetTempYCoord, daliMsg(t, msgs[1]).Type8)
		assert.Equal(t, edidio.DALIArcLevel, daliMsg(t, msgs[2]).Command)
		assert.Equal(t, edidio.Type8Activate, daliMsg(t, msgs[3]).Type8)

		// coordinate bytes are lsb then msb
		assert.Len(t, daliMsg(t, msgs[0]).DTR, 2)
		assert.Len(t, daliMsg(t, msgs[1]).DTR, 2)

		// ids must increase across the sequence
		for i := 1; i < len(msgs); i++ {
			assert.Greater(t, msgs[i].MessageID(), msgs[i-1].MessageID())
		}
	})

	t.Run("cct should send colour temperature, level then activate", func(t *testing.T) {
		// arrange: warmest supported temperature
		light := lights.Light{Protocol: lights.ProtocolDALICCT, Address: 8, Line: 1}
		state := lights.NewState()
		state.Brightness = 255
		state.SetColorTemp(lights.MaxMireds)

		// act
		msgs, err := lights.TurnOnCommands(light, state, &edidio.MessageID{})

		// assert
		require.NoError(t, err)
		require.Len(t, msgs, 3)
		cct := daliMsg(t, msgs[0])
		assert.Equal(t, edidio.Type8SetTempColourTemp, cct.Type8)
		assert.Equal(t, []uint8{0xff, 0xff}, cct.DTR)
		assert.Equal(t, edidio.DALIArcLevel, daliMsg(t, msgs[1]).Command)
		assert.Equal(t, edidio.Type8Activate, daliMsg(t, msgs[2]).Type8)
	})

	t.Run("cct at the coolest bound should send zero", func(t *testing.T) {
		light := lights.Light{Protocol: lights.ProtocolDALICCT, Address: 8, Line: 1}
		state := lights.NewState()
		state.SetColorTemp(lights.MinMireds)

		msgs, err := lights.TurnOnCommands(light, state, &edidio.MessageID{})

		require.NoError(t, err)
		assert.Equal(t, []uint8{0x00, 0x00}, daliMsg(t, msgs[0]).DTR)
	})
}

func Test_UnknownProtocol(t *testing.T) {

	t.Run("should fall back to dali white behaviour and flag the protocol", func(t *testing.T) {
		// arrange
		light := lights.Light{Protocol: lights.Protocol("zigbee"), Address: 4, Line: 1}
		state := lights.NewState()
		state.Brightness = 255

		// act
		onMsgs, onErr := lights.TurnOnCommands(light, state, &edidio.MessageID{})
		offMsgs, offErr := lights.TurnOffCommands(light, &edidio.MessageID{})

		// assert
		assert.ErrorIs(t, onErr, lights.ErrUnsupportedProtocol)
		assert.ErrorIs(t, offErr, lights.ErrUnsupportedProtocol)
		require.Len(t, onMsgs, 1)
		require.Len(t, offMsgs, 1)
		assert.Equal(t, []uint8{254}, daliMsg(t, onMsgs[0]).Args)
		assert.Equal(t, []uint8{0}, daliMsg(t, offMsgs[0]).Args)
	})
}
