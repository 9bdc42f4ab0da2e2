package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command
type Globals struct {
	Config   string `short:"c" default:"galaxygen.hcl" env:"GALAXYGEN_CONFIG" help:"HCL configuration file (defaults apply when missing)"`
	Debug    bool   `env:"GALAXYGEN_DEBUG" help:"Enable debug logging"`
	LogLevel string `default:"info" enum:"debug,info,warn,error" env:"GALAXYGEN_LOG_LEVEL" help:"Log level"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Generate GenerateCmd      `cmd:"" help:"Generate a cloud and write it as JSON, PLY or PNG"`
	Serve    ServeCmd         `cmd:"" help:"Stream clouds to browser viewers over WebSocket"`
	View     ViewCmd          `cmd:"" help:"Explore clouds in the terminal"`
	Presets  PresetsCmd       `cmd:"" help:"List presets and the settings they override"`
	Stats    StatsCmd         `cmd:"" help:"Print radial statistics of a generated cloud"`
}

func main() {
	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("galaxygen"),
		kong.Description("Procedural galaxy point-cloud generator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
