package edidio

import "encoding/binary"

// DALIArcLevelMax is the highest direct arc power level on a DALI bus.
// 255 is the bus MASK value and is never sent as a level.
const DALIArcLevelMax = 254

// DALICommand is a custom DALI command understood by the eDIDIO controller.
type DALICommand uint8

const (
	DALIArcLevel DALICommand = 0x01
)

// Type8Command is a DALI device type 8 (colour control) command.
type Type8Command uint8

const (
	Type8SetTempXCoord     Type8Command = 0xe0
	Type8SetTempYCoord     Type8Command = 0xe1
	Type8Activate          Type8Command = 0xe2
	Type8SetTempColourTemp Type8Command = 0xe7
)

// message kind bytes used on the wire
const (
	kindDALI uint8 = 0x01
	kindDMX  uint8 = 0x02
)

// Message is a single outbound controller frame.
type Message interface {
	// MessageID returns the sequence id the message was built with.
	MessageID() uint32
	// MarshalBinary encodes the message into its wire frame.
	MarshalBinary() ([]byte, error)
}

// DALIMessage addresses a single DALI short address on one or more lines.
// Exactly one of Command/Type8 is meaningful, matching how it was built.
type DALIMessage struct {
	ID       uint32
	LineMask uint8
	Address  uint8
	Command  DALICommand
	Type8    Type8Command
	Args     []uint8
	DTR      []uint8
}

// DMXMessage sets one or more consecutive DMX channel levels.
type DMXMessage struct {
	ID           uint32
	Zone         uint8
	UniverseMask uint8
	Channel      uint16
	Repeat       uint8
	Levels       []uint8
	FadeBy10ms   uint8
}

// NewDALIMessage builds a custom DALI command message.
func NewDALIMessage(id uint32, lineMask uint8, address uint8, command DALICommand, args []uint8) DALIMessage {
	return DALIMessage{
		ID:       id,
		LineMask: lineMask,
		Address:  address,
		Command:  command,
		Args:     args,
	}
}

// NewDALIType8Message builds a DALI DT8 colour command message. The dtr
// bytes are loaded into the data transfer registers before the command runs.
func NewDALIType8Message(id uint32, lineMask uint8, address uint8, command Type8Command, dtr []uint8) DALIMessage {
	return DALIMessage{
		ID:       id,
		LineMask: lineMask,
		Address:  address,
		Type8:    command,
		DTR:      dtr,
	}
}

// NewDMXMessage builds a DMX level message starting at the given channel.
func NewDMXMessage(id uint32, zone uint8, universeMask uint8, channel uint16, repeat uint8, levels []uint8, fadeBy10ms uint8) DMXMessage {
	return DMXMessage{
		ID:           id,
		Zone:         zone,
		UniverseMask: universeMask,
		Channel:      channel,
		Repeat:       repeat,
		Levels:       levels,
		FadeBy10ms:   fadeBy10ms,
	}
}

func (m DALIMessage) MessageID() uint32 { return m.ID }

func (m DALIMessage) MarshalBinary() ([]byte, error) {
	// payload: id(4) line(1) addr(1) cmd(1) type8(1) argc(1) args... dtrc(1) dtr...
	payload := make([]byte, 0, 12+len(m.Args)+len(m.DTR))
	payload = binary.BigEndian.AppendUint32(payload, m.ID)
	payload = append(payload, m.LineMask, m.Address, uint8(m.Command), uint8(m.Type8))
	payload = append(payload, uint8(len(m.Args)))
	payload = append(payload, m.Args...)
	payload = append(payload, uint8(len(m.DTR)))
	payload = append(payload, m.DTR...)
	return frame(kindDALI, payload), nil
}

func (m DMXMessage) MessageID() uint32 { return m.ID }

func (m DMXMessage) MarshalBinary() ([]byte, error) {
	// payload: id(4) zone(1) mask(1) channel(2) repeat(1) fade(1) levelc(1) levels...
	payload := make([]byte, 0, 11+len(m.Levels))
	payload = binary.BigEndian.AppendUint32(payload, m.ID)
	payload = append(payload, m.Zone, m.UniverseMask)
	payload = binary.BigEndian.AppendUint16(payload, m.Channel)
	payload = append(payload, m.Repeat, m.FadeBy10ms)
	payload = append(payload, uint8(len(m.Levels)))
	payload = append(payload, m.Levels...)
	return frame(kindDMX, payload), nil
}

// frame wraps a payload in the controller's stream framing:
// start byte, kind, payload length, payload, xor checksum.
func frame(kind uint8, payload []byte) []byte {
	out := make([]byte, 0, len(payload)+4)
	out = append(out, 0xed, kind, uint8(len(payload)))
	out = append(out, payload...)
	var sum uint8
	for _, b := range out[1:] {
		sum ^= b
	}
	return append(out, sum)
}
