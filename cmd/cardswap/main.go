// Command cardswap is a manual harness for the override engine: it starts a
// session against the configured emulator settings file, waits, and ends the
// session so the prior card assignment is restored. The engine itself is
// meant to be embedded by a frontend, not driven from here.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"cardswap/internal/cards"
	"cardswap/internal/config"
	"cardswap/internal/gamedb"
	"cardswap/internal/lifecycle"
	"cardswap/internal/logger"
	"cardswap/internal/override"
)

func main() {
	logger.Configure()

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	switch args[0] {
	case "run":
		runMain(args[1:])
	case "init":
		initMain(args[1:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cardswap run [-config path] [-id id] -title title [-platform name]")
	fmt.Fprintln(os.Stderr, "       cardswap init [-config path]")
}

func runMain(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "", "settings file (default ~/.cardswap/config.toml)")
	id := fs.String("id", "", "session identity (generated when empty)")
	title := fs.String("title", "", "game title")
	platform := fs.String("platform", "", "platform name (default: configured platform)")
	_ = fs.Parse(args)

	if *title == "" {
		fmt.Fprintln(os.Stderr, "cardswap: -title is required")
		os.Exit(2)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cardswap: load config: %v\n", err)
		os.Exit(1)
	}
	if *platform == "" {
		*platform = cfg.Platform
	}
	if *id == "" {
		*id = lifecycle.NewSessionID()
	}

	manager := override.NewManager(
		cfg,
		&gamedb.Resolver{Platform: cfg.Platform, Aliases: cfg.PlatformAliases},
		&cards.Source{Dir: cfg.CardsDir, Template: cfg.TemplatePath},
		override.NewStore(),
	)
	bus := lifecycle.NewBus()
	runner := lifecycle.NewRunner(bus, reportingEngine{manager})
	runner.Start()

	game := gamedb.Game{ID: *id, Title: *title, Platform: *platform}
	bus.Publish(lifecycle.Event{Kind: lifecycle.SessionStarted, SessionID: *id, Game: game})

	fmt.Println("session started, press enter to end it")
	bufio.NewReader(os.Stdin).ReadString('\n')

	bus.Publish(lifecycle.Event{Kind: lifecycle.SessionEnded, SessionID: *id})
	bus.Close()
	runner.Wait()
}

// reportingEngine prints the one outcome line per attempt on top of the
// manager's own logging.
type reportingEngine struct {
	*override.Manager
}

func (e reportingEngine) Apply(sessionID string, game gamedb.Game) (override.Result, error) {
	res, err := e.Manager.Apply(sessionID, game)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cardswap: %v\n", err)
		return res, err
	}
	fmt.Printf("cardswap: %s=%s (card %s)\n", res.Key, res.Wrote, res.Card)
	return res, nil
}

func initMain(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	cfgPath := fs.String("config", "", "settings file (default ~/.cardswap/config.toml)")
	_ = fs.Parse(args)

	path := *cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(os.Stderr, "cardswap: %s already exists\n", path)
		os.Exit(1)
	}
	if err := config.Save(path, config.Default()); err != nil {
		fmt.Fprintf(os.Stderr, "cardswap: save config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("cardswap: wrote %s\n", path)
}
