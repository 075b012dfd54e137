package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	// Packages
	kong "github.com/alecthomas/kong"
	client "github.com/mutablelogic/go-client"
	generate "github.com/mutablelogic/go-imagetools/pkg/generate"
	icon "github.com/mutablelogic/go-imagetools/pkg/icon"
	svg "github.com/mutablelogic/go-imagetools/pkg/svg"
	tool "github.com/mutablelogic/go-imagetools/pkg/tool"
	otel "go.opentelemetry.io/otel"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	// Debugging
	Debug   bool `name:"debug" help:"Enable debug output"`
	Verbose bool `name:"verbose" help:"Enable verbose output"`

	// Services
	Gemini  `embed:"" help:"Gemini configuration"`
	Freepik `embed:"" help:"Freepik configuration"`

	// Tracing
	OTel bool `name:"otel" help:"Enable OpenTelemetry tracing"`

	// Timeout for external calls
	Timeout time.Duration `name:"timeout" default:"2m" help:"Timeout for external API calls"`

	// Context
	ctx      context.Context
	toolkit  *tool.Toolkit
	tracer   trace.Tracer
	execName string
}

type Gemini struct {
	GeminiKey string `env:"GEMINI_API_KEY" help:"Gemini API Key"`
}

type Freepik struct {
	FreepikKey string `env:"FREEPIK_API_KEY" help:"Freepik API Key"`
}

type CLI struct {
	Globals

	// Transports
	Serve ServeCmd `cmd:"" help:"Serve tools over HTTP"`
	Stdio StdioCmd `cmd:"" help:"Serve tools over stdin and stdout"`
	Mcp   McpCmd   `cmd:"" help:"Serve tools as an MCP server on stdin and stdout"`

	// Commands
	Run     RunCmd     `cmd:"" help:"Run a tool once and print the result"`
	Tools   ListCmd    `cmd:"" help:"Return a list of tools"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

////////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	// Create a cli parser
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name(execName()),
		kong.Description("Image generation and conversion tools"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{},
	)

	// Create a context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	cli.Globals.ctx = ctx
	cli.Globals.execName = execName()

	// Client options
	clientopts := []client.ClientOpt{}
	if cli.Debug || cli.Verbose {
		clientopts = append(clientopts, client.OptTrace(os.Stderr, cli.Verbose))
	}
	if cli.Timeout != 0 {
		clientopts = append(clientopts, client.OptTimeout(cli.Timeout))
	}
	if cli.OTel {
		cli.Globals.tracer = otel.Tracer(execName())
		clientopts = append(clientopts, client.OptTracer(cli.Globals.tracer))
	}

	// Create the generator and the toolkit
	generator, err := generate.New(cli.GeminiKey, cli.FreepikKey, clientopts...)
	cmd.FatalIfErrorf(err)

	toolkit, err := tool.NewToolkit()
	cmd.FatalIfErrorf(err)
	cmd.FatalIfErrorf(toolkit.Register(generate.NewTools(generator)...))
	cmd.FatalIfErrorf(toolkit.Register(icon.NewTools(generator)...))
	cmd.FatalIfErrorf(toolkit.Register(svg.NewTool()))
	cli.Globals.toolkit = toolkit

	// Run the command
	if err := cmd.Run(&cli.Globals); err != nil {
		cmd.FatalIfErrorf(err)
		return
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func execName() string {
	// The name of the executable
	name, err := os.Executable()
	if err != nil {
		panic(err)
	}
	return filepath.Base(name)
}
