package command

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charliebeadle/galvonium/config"
	"github.com/charliebeadle/galvonium/debug"
	"github.com/charliebeadle/galvonium/galvo"
	"github.com/charliebeadle/galvonium/protocol"
	"github.com/charliebeadle/galvonium/render"
)

// Processor binds the command registry to a controller, its parameter
// set and the config store. It runs on the foreground goroutine only.
type Processor struct {
	reg    Registry
	ctrl   *galvo.Controller
	params *config.Params
	store  config.Store
}

// NewProcessor builds a processor with the full command set registered.
func NewProcessor(ctrl *galvo.Controller, params *config.Params, store config.Store) *Processor {
	p := &Processor{
		ctrl:   ctrl,
		params: params,
		store:  store,
	}

	p.reg.Register(protocol.CmdWrite, "idx x y flags [ACTIVE|INACTIVE]", p.handleWrite)
	p.reg.Register(protocol.CmdClear, "[ACTIVE|INACTIVE]", p.handleClear)
	p.reg.Register(protocol.CmdSize, "n [ACTIVE|INACTIVE]", p.handleSize)
	p.reg.Register(protocol.CmdSwap, "- request frame swap", p.handleSwap)
	p.reg.Register(protocol.CmdDump, "[ACTIVE|INACTIVE]", p.handleDump)
	p.reg.Register(protocol.CmdConfig, "LIST | GET name | SET name value", p.handleConfig)
	p.reg.Register(protocol.CmdEEPROM, "SAVE | LOAD | RESET", p.handleEEPROM)
	p.reg.Register(protocol.CmdFlags, "[flipx|flipy|swapxy|trace on|off]", p.handleFlags)
	p.reg.Register(protocol.CmdDebug, "on|off", p.handleDebug)
	p.reg.Register(protocol.CmdStats, "- render counters", p.handleStats)
	p.reg.Register(protocol.CmdHelp, "- this list", p.handleHelp)

	return p
}

// Execute runs one command line, writing replies to w.
func (p *Processor) Execute(line string, w io.Writer) {
	p.reg.Dispatch(line, w)
}

func errReply(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", protocol.ReplyErr, msg)
}

func okReply(w io.Writer, msg string) {
	if msg == "" {
		fmt.Fprintln(w, protocol.ReplyOK)
		return
	}
	fmt.Fprintf(w, "%s %s\n", protocol.ReplyOK, msg)
}

// pickBuffer resolves an optional ACTIVE/INACTIVE selector, defaulting
// to the inactive (command-writable) side.
func (p *Processor) pickBuffer(sel string) (*render.PointBuffer, bool, error) {
	switch strings.ToUpper(sel) {
	case "", protocol.BufInactive:
		return p.ctrl.Renderer.Inactive(), false, nil
	case protocol.BufActive:
		return p.ctrl.Renderer.Active(), true, nil
	}
	return nil, false, errors.New("buffer must be ACTIVE or INACTIVE")
}

func parseUint8(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}

func (p *Processor) handleWrite(args string, w io.Writer) {
	fields := strings.Fields(args)
	if len(fields) < 4 || len(fields) > 5 {
		errReply(w, "Usage: WRITE idx x y flags [ACTIVE|INACTIVE]")
		return
	}

	idx, err := strconv.Atoi(fields[0])
	if err != nil || idx < 0 {
		errReply(w, "Bad index")
		return
	}

	var vals [3]uint8
	for i := 0; i < 3; i++ {
		v, err := parseUint8(fields[i+1])
		if err != nil {
			errReply(w, "Coordinates and flags must be 0-255")
			return
		}
		vals[i] = v
	}

	sel := ""
	if len(fields) == 5 {
		sel = fields[4]
	}
	buf, active, err := p.pickBuffer(sel)
	if err != nil {
		errReply(w, err.Error())
		return
	}

	if err := buf.SetPoint(idx, render.Waypoint{X: vals[0], Y: vals[1], Flags: vals[2]}); err != nil {
		errReply(w, "Index out of range")
		return
	}

	reply := fmt.Sprintf("%d: %d, %d, %d", idx, vals[0], vals[1], vals[2])
	if active {
		reply += " (active buffer modified!)"
	}
	okReply(w, reply)
}

func (p *Processor) handleClear(args string, w io.Writer) {
	buf, active, err := p.pickBuffer(strings.TrimSpace(args))
	if err != nil {
		errReply(w, err.Error())
		return
	}
	buf.Clear()
	if active {
		okReply(w, "cleared (active buffer modified!)")
		return
	}
	okReply(w, "cleared")
}

func (p *Processor) handleSize(args string, w io.Writer) {
	fields := strings.Fields(args)
	if len(fields) < 1 || len(fields) > 2 {
		errReply(w, "Usage: SIZE n [ACTIVE|INACTIVE]")
		return
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		errReply(w, "Bad count")
		return
	}

	sel := ""
	if len(fields) == 2 {
		sel = fields[1]
	}
	buf, _, err := p.pickBuffer(sel)
	if err != nil {
		errReply(w, err.Error())
		return
	}

	if err := buf.SetPointCount(n); err != nil {
		errReply(w, "Count out of range")
		return
	}
	okReply(w, "size "+strconv.Itoa(n))
}

func (p *Processor) handleSwap(args string, w io.Writer) {
	p.ctrl.Renderer.RequestSwap()
	okReply(w, "swap requested")
}

func (p *Processor) handleDump(args string, w io.Writer) {
	buf, _, err := p.pickBuffer(strings.TrimSpace(args))
	if err != nil {
		errReply(w, err.Error())
		return
	}

	count := buf.PointCount()
	fmt.Fprintf(w, "%d points\n", count)
	for i := 0; i < count; i++ {
		wp := buf.Point(i)
		fmt.Fprintf(w, "%d: %d, %d, %d\n", i, wp.X, wp.Y, wp.Flags)
	}
}

func (p *Processor) handleConfig(args string, w io.Writer) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		errReply(w, "Usage: CONFIG LIST | GET name | SET name value")
		return
	}

	switch strings.ToUpper(fields[0]) {
	case "LIST":
		for _, name := range config.Names() {
			v, _ := p.params.Get(name)
			fmt.Fprintf(w, "%s = %d\n", name, v)
		}

	case "GET":
		if len(fields) != 2 {
			errReply(w, "Usage: CONFIG GET name")
			return
		}
		v, err := p.params.Get(strings.ToLower(fields[1]))
		if err != nil {
			errReply(w, "Unknown parameter")
			return
		}
		okReply(w, fmt.Sprintf("%s = %d", strings.ToLower(fields[1]), v))

	case "SET":
		if len(fields) != 3 {
			errReply(w, "Usage: CONFIG SET name value")
			return
		}
		v, err := strconv.ParseUint(fields[2], 10, 16)
		if err != nil {
			errReply(w, "Bad value")
			return
		}
		name := strings.ToLower(fields[1])
		if err := p.params.Set(name, uint16(v)); err != nil {
			if errors.Is(err, config.ErrUnknownParam) {
				errReply(w, "Unknown parameter")
			} else {
				errReply(w, "Value out of range")
			}
			return
		}
		if err := p.ctrl.ApplyParams(p.params); err != nil {
			errReply(w, err.Error())
			return
		}
		okReply(w, fmt.Sprintf("%s = %d", name, v))

	default:
		errReply(w, "Usage: CONFIG LIST | GET name | SET name value")
	}
}

func (p *Processor) handleEEPROM(args string, w io.Writer) {
	switch strings.ToUpper(strings.TrimSpace(args)) {
	case "SAVE":
		if err := config.SaveStore(p.store, p.params); err != nil {
			errReply(w, "Save failed: "+err.Error())
			return
		}
		okReply(w, "saved")

	case "LOAD":
		loaded, err := config.LoadStore(p.store)
		*p.params = loaded
		if aerr := p.ctrl.ApplyParams(p.params); aerr != nil {
			errReply(w, aerr.Error())
			return
		}
		if err != nil {
			errReply(w, "Load failed, defaults applied: "+err.Error())
			return
		}
		okReply(w, "loaded")

	case "RESET":
		*p.params = config.Defaults()
		if err := config.SaveStore(p.store, p.params); err != nil {
			errReply(w, "Reset failed: "+err.Error())
			return
		}
		if err := p.ctrl.ApplyParams(p.params); err != nil {
			errReply(w, err.Error())
			return
		}
		okReply(w, "reset to defaults")

	default:
		errReply(w, "Usage: EEPROM SAVE | LOAD | RESET")
	}
}

func (p *Processor) handleFlags(args string, w io.Writer) {
	fields := strings.Fields(args)

	if len(fields) == 0 {
		fmt.Fprintf(w, "flipx = %d\n", boolVal(p.params.FlipX))
		fmt.Fprintf(w, "flipy = %d\n", boolVal(p.params.FlipY))
		fmt.Fprintf(w, "swapxy = %d\n", boolVal(p.params.SwapXY))
		fmt.Fprintf(w, "trace = %d\n", boolVal(p.ctrl.DAC().Trace))
		return
	}

	if len(fields) != 2 {
		errReply(w, "Usage: FLAGS name on|off")
		return
	}

	var on bool
	switch strings.ToLower(fields[1]) {
	case "on", "1":
		on = true
	case "off", "0":
		on = false
	default:
		errReply(w, "Flag value must be on or off")
		return
	}

	name := strings.ToLower(fields[0])
	switch name {
	case "flipx":
		p.params.FlipX = on
	case "flipy":
		p.params.FlipY = on
	case "swapxy":
		p.params.SwapXY = on
	case "trace":
		// Debug toggle, not a persisted parameter
		p.ctrl.DAC().Trace = on
		okReply(w, name+" "+fields[1])
		return
	default:
		errReply(w, "Unknown flag")
		return
	}

	if err := p.ctrl.ApplyParams(p.params); err != nil {
		errReply(w, err.Error())
		return
	}
	okReply(w, name+" "+fields[1])
}

func (p *Processor) handleDebug(args string, w io.Writer) {
	switch strings.ToLower(strings.TrimSpace(args)) {
	case "on", "1":
		debug.SetVerbose(true)
		okReply(w, "debug on")
	case "off", "0":
		debug.SetVerbose(false)
		okReply(w, "debug off")
	default:
		errReply(w, "Usage: DEBUG on|off")
	}
}

func (p *Processor) handleStats(args string, w io.Writer) {
	st := p.ctrl.Renderer.Stats()
	fmt.Fprintf(w, "state = %s\n", p.ctrl.Renderer.State())
	fmt.Fprintf(w, "point_buf_wait = %d\n", st.PointBufWait)
	fmt.Fprintf(w, "point_buf_repeat = %d\n", st.PointBufRepeat)
	fmt.Fprintf(w, "step_buf_wait = %d\n", st.StepBufWait)
	fmt.Fprintf(w, "underruns = %d\n", p.ctrl.Underruns())
}

func (p *Processor) handleHelp(args string, w io.Writer) {
	p.reg.Help(w)
}

func boolVal(b bool) int {
	if b {
		return 1
	}
	return 0
}
