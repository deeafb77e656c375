package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/ramyun/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/ramyun/config.toml)")
	prefsPath := flag.String("prefs", "", "override preferences path (optional)")
	address := flag.String("address", "", "search address to open, e.g. \"brand=1&sort=avgRate\" (optional, defaults to the last session)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Address:    *address,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "ramyun: %v\n", err)
		return 1
	}
	return 0
}
