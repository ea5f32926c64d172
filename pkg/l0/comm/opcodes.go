package comm

import (
	"fmt"
	"time"
)

// Command opcodes.
const (
	CmdEstablish    byte = 0x00
	CmdEstablishAlt byte = 0x10
	CmdSetMotor     byte = 0x20
	CmdMotorAck     byte = 0x21
	CmdSetCamera    byte = 0x33
	CmdReadSensor   byte = 0x40
	CmdBlink        byte = 0x80
	CmdInvalid      byte = 0xff
)

// BlinkUnit is the resolution of the BLINK duration byte.
const BlinkUnit = 10 * time.Millisecond

// Handshake magic carried by establish frames.
const (
	MagicValue1 byte = 0xa5
	MagicValue2 byte = 0x5a
)

var commandNames = map[byte]string{
	CmdEstablish:    "ESTABLISH",
	CmdEstablishAlt: "ESTABLISH",
	CmdSetMotor:     "SET_MOTOR",
	CmdMotorAck:     "MOTOR_ACK",
	CmdSetCamera:    "SET_CAMERA",
	CmdReadSensor:   "READ_SENSOR",
	CmdBlink:        "BLINK",
	CmdInvalid:      "INVALID",
}

// CommandName returns a readable name of an opcode.
func CommandName(cmd byte) string {
	if name, ok := commandNames[cmd]; ok {
		return name
	}
	return fmt.Sprintf("CMD_%02X", cmd)
}

// IsEstablish determines if the opcode is one of the establish opcodes.
func IsEstablish(cmd byte) bool {
	return cmd == CmdEstablish || cmd == CmdEstablishAlt
}

// ExpectedReply returns the opcode of the successful reply to cmd.
func ExpectedReply(cmd byte) byte {
	if cmd == CmdSetMotor {
		return CmdMotorAck
	}
	return cmd
}

// InvalidReply builds the reply for a rejected command.
func InvalidReply(value1, cmd byte) Frame {
	return Frame{Command: CmdInvalid, Value1: value1, Value2: cmd}
}
