// Command galvoctl is the interactive console for a Galvonium
// controller: raw protocol pass-through plus a few host-side verbs for
// test patterns and frame streaming.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/charliebeadle/galvonium/host/client"
	"github.com/charliebeadle/galvonium/render"
)

var (
	device = flag.String("device", "/dev/ttyUSB0", "Serial device path")
	baud   = flag.Int("baud", 9600, "Baud rate")
)

func main() {
	flag.Parse()

	fmt.Printf("Connecting to %s...\n", *device)
	c, err := client.Dial(*device, *baud)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()
	fmt.Println("Connected. Type 'help' for local verbs; anything else goes to the controller.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		args, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		switch strings.ToLower(args[0]) {
		case "quit", "exit", "q":
			return

		case "help", "?":
			printHelp()
			relay(c, "HELP")

		case "square":
			if err := sendSquare(c, args[1:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "dump":
			active := len(args) > 1 && strings.EqualFold(args[1], "active")
			points, err := c.Dump(active)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			for i, w := range points {
				fmt.Printf("%3d: %3d, %3d, 0x%02X\n", i, w.X, w.Y, w.Flags)
			}

		case "stream":
			if err := streamFile(c, args[1:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		default:
			relay(c, line)
		}
	}
}

func relay(c *client.Client, line string) {
	replies, err := c.Raw(line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	for _, r := range replies {
		fmt.Println(r)
	}
}

func printHelp() {
	fmt.Print(`Local verbs:
  square <size> [cx cy]    load and show a test square
  dump [active]            read back a buffer
  stream <file> [fps]      play frames from a file (frames separated by
                           blank lines, one "x y flags" triple per line)
  quit

Controller commands:
`)
}

// sendSquare publishes a centred square test frame.
func sendSquare(c *client.Client, args []string) error {
	size := 100
	cx, cy := 128, 128

	var err error
	if len(args) > 0 {
		if size, err = strconv.Atoi(args[0]); err != nil {
			return err
		}
	}
	if len(args) == 3 {
		if cx, err = strconv.Atoi(args[1]); err != nil {
			return err
		}
		if cy, err = strconv.Atoi(args[2]); err != nil {
			return err
		}
	}

	h := size / 2
	corners := [][2]int{
		{cx - h, cy - h}, {cx + h, cy - h}, {cx + h, cy + h}, {cx - h, cy + h},
	}

	frame := make(client.Frame, 0, len(corners)+1)
	// Move to the first corner blanked, then draw the outline lit
	frame = append(frame, render.Waypoint{
		X: clamp8(corners[0][0]), Y: clamp8(corners[0][1]), Flags: render.BlankingBit,
	})
	for _, corner := range corners[1:] {
		frame = append(frame, render.Waypoint{X: clamp8(corner[0]), Y: clamp8(corner[1])})
	}
	frame = append(frame, render.Waypoint{X: clamp8(corners[0][0]), Y: clamp8(corners[0][1])})

	return c.WriteFrame(frame)
}

func streamFile(c *client.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: stream <file> [fps]")
	}

	fps := 25.0
	if len(args) == 2 {
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return err
		}
		fps = v
	}

	frames, err := loadFrames(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Streaming %d frames at %.1f fps (ctrl-C to stop)...\n", len(frames), fps)
	return c.StreamFrames(context.Background(), frames, fps)
}

// loadFrames reads a frames file: one "x y flags" triple per line,
// frames separated by blank lines, # comments.
func loadFrames(path string) ([]client.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var frames []client.Frame
	var cur client.Frame

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		if line == "" {
			if len(cur) > 0 {
				frames = append(frames, cur)
				cur = nil
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%s: bad frame line %q", path, line)
		}
		var vals [3]uint8
		for i, s := range fields {
			v, err := strconv.ParseUint(s, 10, 8)
			if err != nil {
				return nil, fmt.Errorf("%s: bad frame line %q", path, line)
			}
			vals[i] = uint8(v)
		}
		cur = append(cur, render.Waypoint{X: vals[0], Y: vals[1], Flags: vals[2]})
	}
	if len(cur) > 0 {
		frames = append(frames, cur)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%s: no frames", path)
	}
	return frames, scanner.Err()
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
