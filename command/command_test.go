package command

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/charliebeadle/galvonium/config"
	"github.com/charliebeadle/galvonium/galvo"
	"github.com/charliebeadle/galvonium/hw"
)

func newTestProcessor(t *testing.T) (*Processor, *galvo.Controller) {
	t.Helper()
	ctrl := galvo.New(hw.NewDAC(&hw.TraceBus{}, hw.NopPin{}), hw.NewLaser(&hw.TracePin{}))
	params := config.Defaults()
	store := &config.FileStore{Path: filepath.Join(t.TempDir(), "eeprom.bin")}
	return NewProcessor(ctrl, &params, store), ctrl
}

func exec(p *Processor, line string) string {
	var sb strings.Builder
	p.Execute(line, &sb)
	return sb.String()
}

func TestWriteAndDump(t *testing.T) {
	p, ctrl := newTestProcessor(t)

	if out := exec(p, "WRITE 0 10 20 64"); !strings.HasPrefix(out, "OK") {
		t.Fatalf("WRITE failed: %q", out)
	}
	if out := exec(p, "WRITE 1 200 100 0"); !strings.HasPrefix(out, "OK") {
		t.Fatalf("WRITE failed: %q", out)
	}
	if out := exec(p, "SIZE 2"); !strings.HasPrefix(out, "OK") {
		t.Fatalf("SIZE failed: %q", out)
	}

	wp := ctrl.Renderer.Inactive().Point(0)
	if wp.X != 10 || wp.Y != 20 || wp.Flags != 64 {
		t.Errorf("Waypoint not stored: %+v", wp)
	}
	if ctrl.Renderer.Inactive().PointCount() != 2 {
		t.Errorf("Count not set, got %d", ctrl.Renderer.Inactive().PointCount())
	}

	out := exec(p, "DUMP")
	if !strings.Contains(out, "2 points") || !strings.Contains(out, "1: 200, 100, 0") {
		t.Errorf("DUMP output wrong: %q", out)
	}
}

func TestWriteValidation(t *testing.T) {
	p, _ := newTestProcessor(t)

	cases := []string{
		"WRITE",
		"WRITE 0 10 20",
		"WRITE 0 300 20 0",
		"WRITE 999 10 20 0",
		"WRITE 0 10 20 0 MIDDLE",
	}
	for _, c := range cases {
		if out := exec(p, c); !strings.HasPrefix(out, "ERR:") {
			t.Errorf("%q should be rejected, got %q", c, out)
		}
	}
}

func TestWriteActiveWarns(t *testing.T) {
	p, _ := newTestProcessor(t)

	out := exec(p, "WRITE 0 1 2 0 ACTIVE")
	if !strings.Contains(out, "active buffer modified") {
		t.Errorf("Active write should warn: %q", out)
	}
}

func TestSwapRequestsSwap(t *testing.T) {
	p, ctrl := newTestProcessor(t)

	exec(p, "SWAP")
	if !ctrl.Renderer.SwapPending() {
		t.Error("SWAP should mark the request pending")
	}
}

func TestClear(t *testing.T) {
	p, ctrl := newTestProcessor(t)

	exec(p, "WRITE 0 1 2 0")
	exec(p, "SIZE 1")
	exec(p, "CLEAR")
	if !ctrl.Renderer.Inactive().IsEmpty() {
		t.Error("CLEAR should empty the inactive buffer")
	}
}

func TestConfigSetGet(t *testing.T) {
	p, ctrl := newTestProcessor(t)

	if out := exec(p, "CONFIG SET stepsize 8"); !strings.HasPrefix(out, "OK") {
		t.Fatalf("CONFIG SET failed: %q", out)
	}
	if out := exec(p, "CONFIG GET stepsize"); !strings.Contains(out, "= 8") {
		t.Errorf("CONFIG GET wrong: %q", out)
	}
	if ctrl.Renderer.Params().StepSize != 8 {
		t.Error("CONFIG SET should reach the renderer")
	}

	if out := exec(p, "CONFIG SET stepsize 500"); !strings.HasPrefix(out, "ERR:") {
		t.Errorf("Out-of-range set should fail: %q", out)
	}
	if out := exec(p, "CONFIG GET stepsize"); !strings.Contains(out, "= 8") {
		t.Errorf("Rejected set must keep the old value: %q", out)
	}

	if out := exec(p, "CONFIG SET bogus 1"); !strings.HasPrefix(out, "ERR:") {
		t.Errorf("Unknown parameter should fail: %q", out)
	}

	out := exec(p, "CONFIG LIST")
	if !strings.Contains(out, "pps = 10000") {
		t.Errorf("CONFIG LIST missing pps: %q", out)
	}
}

func TestEEPROMRoundTrip(t *testing.T) {
	p, _ := newTestProcessor(t)

	exec(p, "CONFIG SET pps 5000")
	if out := exec(p, "EEPROM SAVE"); !strings.HasPrefix(out, "OK") {
		t.Fatalf("SAVE failed: %q", out)
	}

	exec(p, "CONFIG SET pps 9000")
	if out := exec(p, "EEPROM LOAD"); !strings.HasPrefix(out, "OK") {
		t.Fatalf("LOAD failed: %q", out)
	}
	if out := exec(p, "CONFIG GET pps"); !strings.Contains(out, "= 5000") {
		t.Errorf("LOAD did not restore the saved value: %q", out)
	}

	if out := exec(p, "EEPROM RESET"); !strings.HasPrefix(out, "OK") {
		t.Fatalf("RESET failed: %q", out)
	}
	if out := exec(p, "CONFIG GET pps"); !strings.Contains(out, "= 10000") {
		t.Errorf("RESET should restore defaults: %q", out)
	}
}

func TestEEPROMLoadFromFreshStore(t *testing.T) {
	p, _ := newTestProcessor(t)

	out := exec(p, "EEPROM LOAD")
	if !strings.HasPrefix(out, "ERR:") {
		t.Errorf("Loading an erased store should report the fallback: %q", out)
	}
	if out := exec(p, "CONFIG GET pps"); !strings.Contains(out, "= 10000") {
		t.Errorf("Fallback should leave defaults active: %q", out)
	}
}

func TestFlags(t *testing.T) {
	p, ctrl := newTestProcessor(t)

	if out := exec(p, "FLAGS flipx on"); !strings.HasPrefix(out, "OK") {
		t.Fatalf("FLAGS failed: %q", out)
	}
	if !ctrl.DAC().FlipX {
		t.Error("FLAGS flipx should reach the DAC")
	}

	out := exec(p, "FLAGS")
	if !strings.Contains(out, "flipx = 1") || !strings.Contains(out, "trace = 0") {
		t.Errorf("FLAGS listing wrong: %q", out)
	}

	if out := exec(p, "FLAGS trace on"); !strings.HasPrefix(out, "OK") {
		t.Fatalf("FLAGS trace failed: %q", out)
	}
	if !ctrl.DAC().Trace {
		t.Error("FLAGS trace should reach the DAC")
	}
	if out := exec(p, "FLAGS"); !strings.Contains(out, "trace = 1") {
		t.Errorf("FLAGS listing should show trace on: %q", out)
	}

	if out := exec(p, "FLAGS bogus on"); !strings.HasPrefix(out, "ERR:") {
		t.Errorf("Unknown flag should fail: %q", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	p, _ := newTestProcessor(t)
	if out := exec(p, "FROBNICATE"); !strings.HasPrefix(out, "ERR:") {
		t.Errorf("Unknown verb should fail: %q", out)
	}
}

func TestHelpListsCommands(t *testing.T) {
	p, _ := newTestProcessor(t)
	out := exec(p, "HELP")
	for _, name := range []string{"WRITE", "SWAP", "CONFIG", "EEPROM"} {
		if !strings.Contains(out, name) {
			t.Errorf("HELP missing %s: %q", name, out)
		}
	}
}

func TestStats(t *testing.T) {
	p, _ := newTestProcessor(t)
	out := exec(p, "STATS")
	if !strings.Contains(out, "state = IdleEmpty") {
		t.Errorf("STATS should report the renderer state: %q", out)
	}
}

func TestPoller(t *testing.T) {
	r := strings.NewReader("SWAP\nCLEAR ACTIVE\r\n")
	poller := NewPoller(r)

	var lines []string
	for line := range poller.C {
		lines = append(lines, line)
	}
	if len(lines) != 2 || lines[0] != "SWAP" || lines[1] != "CLEAR ACTIVE" {
		t.Errorf("Poller lines wrong: %v", lines)
	}
}
