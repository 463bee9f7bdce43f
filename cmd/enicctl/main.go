// Command enicctl drives a running ENIC robot over its websocket API.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/teslashibe/go-enic/pkg/link"
	"github.com/teslashibe/go-enic/pkg/robot"
)

func main() {
	app := cli.NewApp()
	app.Name = "enicctl"
	app.Usage = "remote control for the ENIC robot"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "url",
			Value:  "http://localhost:8080",
			Usage:  "robot base URL",
			EnvVar: "ENIC_URL",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "send",
			Usage:     "send command words",
			ArgsUsage: "<command>...",
			Action:    sendAction,
		},
		{
			Name:   "repl",
			Usage:  "read commands from stdin, one line at a time",
			Action: replAction,
		},
		{
			Name:  "watch",
			Usage: "stream robot status",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "once", Usage: "print one status and exit"},
			},
			Action: watchAction,
		},
		{
			Name:  "status",
			Usage: "print the current status",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "json", Usage: "print raw JSON"},
			},
			Action: statusAction,
		},
		{
			Name:  "settings",
			Usage: "show or change runtime settings",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "ramp", Usage: "motor ramp step per tick (1-60)"},
				cli.Float64Flag{Name: "volume", Usage: "buzzer volume (0-1)"},
			},
			Action: settingsAction,
		},
		{
			Name:      "frame",
			Usage:     "save the display as PNG",
			ArgsUsage: "[file]",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "scale", Value: 4, Usage: "pixel scale (1-16)"},
			},
			Action: frameAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "enicctl:", err)
		os.Exit(1)
	}
}

func sendAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.NewExitError("nothing to send", 2)
	}
	ctl, err := DialControl(c.GlobalString("url"))
	if err != nil {
		return err
	}
	defer ctl.Close()

	rejected := 0
	for _, arg := range c.Args() {
		n, err := sendLine(ctl, arg, os.Stdout)
		if err != nil {
			return err
		}
		rejected += n
	}
	if rejected > 0 {
		return cli.NewExitError(fmt.Sprintf("%d command(s) rejected", rejected), 1)
	}
	return nil
}

func replAction(c *cli.Context) error {
	ctl, err := DialControl(c.GlobalString("url"))
	if err != nil {
		return err
	}
	defer ctl.Close()

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		if _, err := sendLine(ctl, sc.Text(), os.Stdout); err != nil {
			return err
		}
	}
	return sc.Err()
}

// sendLine splits a line into words, sends each and prints the replies.
// It returns how many were rejected.
func sendLine(ctl *Control, line string, out io.Writer) (int, error) {
	words, err := link.Split(line)
	if err != nil {
		fmt.Fprintln(out, "skipped:", err)
		return 1, nil
	}
	rejected := 0
	for _, w := range words {
		reply, err := ctl.Send(w)
		if err != nil {
			return rejected, err
		}
		if reply.Queued {
			fmt.Fprintf(out, "ok %s\n", reply.Command)
			continue
		}
		rejected++
		fmt.Fprintf(out, "rejected %s: %s\n", reply.Command, reply.Error)
	}
	return rejected, nil
}

func watchAction(c *cli.Context) error {
	once := c.Bool("once")
	return Watch(c.GlobalString("url"), func(s robot.Snapshot) bool {
		fmt.Println(formatStatus(s))
		return !once
	})
}
