// Command enic runs the ENIC robot brain: the control loop, the serial or
// stdin command link, the web API and the buzzer. "enic sim" opens the
// desktop simulator instead of waiting on hardware.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli"

	"github.com/teslashibe/go-enic/internal/config"
	"github.com/teslashibe/go-enic/internal/log"
	"github.com/teslashibe/go-enic/pkg/behavior"
	"github.com/teslashibe/go-enic/pkg/link"
)

// Version is printed in the serial banner.
const Version = "V1"

func main() {
	app := cli.NewApp()
	app.Name = "enic"
	app.Usage = "run the ENIC robot"
	app.Version = Version
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "serial",
			Value: config.SerialPort(""),
			Usage: "serial port for commands (empty reads stdin)",
		},
		cli.IntFlag{
			Name:  "baud",
			Value: link.DefaultBaud,
			Usage: "serial baud rate",
		},
		cli.StringFlag{
			Name:  "motors",
			Usage: "serial port of the motor controller (empty keeps motors virtual)",
		},
		cli.StringFlag{
			Name:  "http",
			Value: config.HTTPAddr(""),
			Usage: `web API listen address ("off" disables)`,
		},
		cli.StringFlag{
			Name:  "config",
			Value: config.Path(""),
			Usage: "YAML tuning file",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: config.LogLevel(""),
			Usage: "debug, info, warn or error",
		},
		cli.StringFlag{
			Name:   "log-file",
			EnvVar: config.EnvLogFile,
			Usage:  "append logs to this file instead of stdout",
		},
		cli.StringFlag{
			Name:  "audio",
			Value: "oto",
			Usage: `buzzer output: "oto" (sound card), "log", "both" or "off"`,
		},
		cli.Float64Flag{
			Name:  "obstacle",
			Usage: "fixed virtual obstacle distance in cm (0 means none)",
		},
	}
	var logFile io.Closer
	app.Before = func(c *cli.Context) error {
		f, err := setupLogging(c.GlobalString("log-file"), c.GlobalString("log-level"))
		logFile = f
		return err
	}
	app.After = func(*cli.Context) error {
		if logFile != nil {
			return logFile.Close()
		}
		return nil
	}
	app.Action = runDaemon
	app.Commands = []cli.Command{
		{
			Name:   "sim",
			Usage:  "open the desktop simulator",
			Action: runSim,
		},
		{
			Name:   "commands",
			Usage:  "list the command words",
			Action: listCommands,
		},
		{
			Name:      "check-config",
			Usage:     "validate a tuning file",
			ArgsUsage: "[file]",
			Action:    checkConfig,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("enic failed", "error", err)
		os.Exit(1)
	}
}

// setupLogging points the logger at path, or at stdout when path is empty.
// The returned file, if any, is closed by the caller on exit.
func setupLogging(path, level string) (io.Closer, error) {
	if path == "" {
		log.Init(level)
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f, level)
	return f, nil
}

func listCommands(c *cli.Context) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, cmd := range behavior.Commands() {
		name := cmd.Name
		if len(cmd.Aliases) > 0 {
			name += ", " + strings.Join(cmd.Aliases, ", ")
		}
		fmt.Fprintf(w, "%s\t%s\n", name, cmd.Help)
	}
	return w.Flush()
}

func checkConfig(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		path = c.GlobalString("config")
	}
	if path == "" {
		return cli.NewExitError("no tuning file given", 2)
	}
	if _, err := config.Load(path); err != nil {
		return err
	}
	fmt.Printf("%s: ok\n", path)
	return nil
}
