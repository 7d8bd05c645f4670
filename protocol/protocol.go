// Package protocol defines the line-oriented text protocol between the
// controller and its host: command names, line framing limits, and the
// buffers used to assemble lines from a byte stream.
package protocol

// Version is the Galvonium firmware version string.
const Version = "0.2.0"

// Greeting is printed once on the command channel at startup.
const Greeting = "Galvonium ready."

// MaxLineLen bounds a command line. Lines end with LF or CR; bytes
// beyond the maximum are dropped until the next terminator.
const MaxLineLen = 96

// Command names.
const (
	CmdWrite  = "WRITE"
	CmdClear  = "CLEAR"
	CmdSwap   = "SWAP"
	CmdDump   = "DUMP"
	CmdSize   = "SIZE"
	CmdHelp   = "HELP"
	CmdConfig = "CONFIG"
	CmdEEPROM = "EEPROM"
	CmdFlags  = "FLAGS"
	CmdDebug  = "DEBUG"
	CmdStats  = "STATS"
)

// Buffer selectors accepted by buffer-addressed commands.
const (
	BufActive   = "ACTIVE"
	BufInactive = "INACTIVE"
)

// Reply prefixes.
const (
	ReplyOK  = "OK"
	ReplyErr = "ERR:"
)
