package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/alecthomas/kong"

	"pdf-summarizer-mcp/config"
	"pdf-summarizer-mcp/llm"
	"pdf-summarizer-mcp/logger"
	"pdf-summarizer-mcp/mcp"
	"pdf-summarizer-mcp/telemetry"
	"pdf-summarizer-mcp/tools"
)

var (
	// Version information - set by version.go
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// CLI represents the command line interface structure using Kong
type CLI struct {
	ConfigPath string `name:"config" help:"Path to a YAML or TOML config file (default: ~/.config/pdf-summarizer-mcp/config.yaml)"`
	Debug      bool   `help:"Enable debug logging on stderr"`

	Stdio    StdioCmd   `cmd:"" default:"1" help:"Serve line-delimited JSON-RPC over stdin/stdout (default)"`
	HTTP     HTTPCmd    `cmd:"" name:"http" help:"Serve the HTTP interface"`
	SDK      SDKCmd     `cmd:"" name:"sdk" help:"Serve the tools through the MCP Go SDK stdio transport"`
	Tools    ToolsCmd   `cmd:"" help:"List the available tools"`
	Call     CallCmd    `cmd:"" help:"Run one tool and print its result"`
	Settings ConfigCmd  `cmd:"" name:"config" help:"Show the effective configuration with secrets masked"`
	Version  VersionCmd `cmd:"" help:"Show version information"`

	cfg    *config.Config `kong:"-"`
	stdin  io.Reader      `kong:"-"`
	stdout io.Writer      `kong:"-"`
}

// VersionCmd represents the version command structure
type VersionCmd struct{}

// Execute is the main entry point for all commands
func Execute() error {
	defer telemetry.Flush()
	return run(os.Args[1:], os.Stdin, os.Stdout)
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	cli := &CLI{stdin: stdin, stdout: stdout}
	parser, err := kong.New(cli,
		kong.Name(config.AppName),
		kong.Description("Summarize PDFs with an LLM over JSON-RPC, MCP or HTTP"),
		kong.Vars{
			"version": fmt.Sprintf("%s (%s, built %s)", appVersion, appCommit, appDate),
		},
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Writers(stdout, os.Stderr),
	)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return ctx.Run(cli)
}

// Config loads and validates the configuration once, then applies the
// logging and error reporting settings it carries.
func (c *CLI) Config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.GetConfig(c.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if c.Debug || cfg.Debug {
		logger.EnableDebug()
	}
	err = telemetry.Init(telemetry.Options{
		DSN:         cfg.Telemetry.SentryDSN,
		Environment: cfg.Telemetry.Environment,
		Release:     config.AppName + "@" + appVersion,
	})
	if err != nil {
		logger.Warn("error reporting disabled", "error", err.Error())
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *CLI) out() io.Writer {
	if c.stdout == nil {
		return os.Stdout
	}
	return c.stdout
}

func (c *CLI) in() io.Reader {
	if c.stdin == nil {
		return os.Stdin
	}
	return c.stdin
}

// registry loads the configuration and builds the tool table. LLM clients
// are not created until a tool needs one.
func (c *CLI) registry() (*tools.Registry, *config.Config, error) {
	cfg, err := c.Config()
	if err != nil {
		return nil, nil, err
	}
	client := &http.Client{}
	reg, err := tools.NewRegistry(tools.DepsFromConfig(cfg, llm.NewProviders(cfg.LLM, client), client))
	if err != nil {
		return nil, nil, err
	}
	return reg, cfg, nil
}

func serverInfo() mcp.ServerInfo {
	return mcp.ServerInfo{Name: config.AppName, Title: "PDF Summarizer", Version: appVersion}
}

// Run implements the version command execution
func (v *VersionCmd) Run(cli *CLI) error {
	w := cli.out()
	fmt.Fprintf(w, "%s version %s\n", config.AppName, appVersion)
	fmt.Fprintf(w, "commit: %s\n", appCommit)
	fmt.Fprintf(w, "built at: %s\n", appDate)
	return nil
}
