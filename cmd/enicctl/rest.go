package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/teslashibe/go-enic/internal/config"
	"github.com/teslashibe/go-enic/internal/httpc"
	"github.com/teslashibe/go-enic/pkg/robot"
	"github.com/teslashibe/go-enic/pkg/web"
)

func apiURL(c *cli.Context, path string) string {
	return strings.TrimSuffix(c.GlobalString("url"), "/") + "/api" + path
}

func statusAction(c *cli.Context) error {
	var snap robot.Snapshot
	if err := httpc.GetJSON(context.Background(), apiURL(c, "/status"), &snap); err != nil {
		return err
	}
	if c.Bool("json") {
		return json.NewEncoder(os.Stdout).Encode(snap)
	}
	fmt.Println(formatStatus(snap))
	fmt.Printf("ticks %d  driver errors %d  dropped %d  ramp %d  uptime %ds\n",
		snap.Ticks, snap.DriverErrors, snap.Dropped, snap.RampStep, snap.UptimeMs/1000)
	return nil
}

func settingsAction(c *cli.Context) error {
	ctx := context.Background()
	var st config.Settings

	req := web.SettingsRequest{}
	if c.IsSet("ramp") {
		v := c.Int("ramp")
		req.RampStep = &v
	}
	if c.IsSet("volume") {
		v := c.Float64("volume")
		req.Volume = &v
	}

	var err error
	if req.RampStep == nil && req.Volume == nil {
		err = httpc.GetJSON(ctx, apiURL(c, "/settings"), &st)
	} else {
		err = httpc.DoJSON(ctx, http.MethodPut, apiURL(c, "/settings"), req, &st)
	}
	if err != nil {
		return err
	}
	fmt.Printf("ramp_step %d  volume %.2f\n", st.RampStep, st.Volume)
	return nil
}

func frameAction(c *cli.Context) error {
	out := c.Args().First()
	if out == "" {
		out = "frame.png"
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s?scale=%d", apiURL(c, "/frame.png"), c.Int("scale"))
	n, err := httpc.Download(context.Background(), url, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(out)
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", out, n)
	return nil
}
