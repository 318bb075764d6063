package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/pokerbot-runtime/internal/agent"
	"github.com/lox/pokerbot-runtime/internal/engine"
	"github.com/lox/pokerbot-runtime/internal/transport"
	"github.com/lox/pokerbot-runtime/internal/workerpool"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Host     string           `default:"localhost" help:"Engine host to connect to"`
	Port     int              `default:"8000" help:"Engine port to connect to"`
	Workers  int              `default:"3" help:"Number of worker pool goroutines"`
	LogLevel string           `default:"info" enum:"debug,info,warn,error" help:"Log level"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokerbot"),
		kong.Description("Connects a poker-playing agent to a match engine over the line protocol"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
	)
	ctx.FatalIfErrorf(run(cli))
}

func run(cli CLI) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	level, err := log.ParseLevel(cli.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	addr := fmt.Sprintf("%s:%d", cli.Host, cli.Port)
	logger.Info("dialing engine", "addr", addr)

	sock, err := transport.Dial(addr)
	if err != nil {
		return err
	}
	defer sock.Close()

	pool, err := workerpool.New(cli.Workers, logger)
	if err != nil {
		return err
	}
	defer pool.Shutdown()

	r := engine.New(sock, pool, agent.CallStation{}, logger)
	return r.Run()
}
