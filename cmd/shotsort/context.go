package main

import (
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"shotsort/internal/audit"
	"shotsort/internal/config"
	"shotsort/internal/output"
)

// commandContext carries lazily-loaded shared state between commands.
type commandContext struct {
	configFlag  *string
	verboseFlag *bool
	quietFlag   *bool

	configOnce sync.Once
	config     *config.Configuration
	configErr  error
}

func newCommandContext(configFlag *string, verboseFlag, quietFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
		quietFlag:   quietFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Configuration, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

// newOutput builds the Output for this invocation. Flags override the
// configuration file.
func (c *commandContext) newOutput(cfg *config.Configuration) *output.Output {
	verbose := cfg.Output.Verbose
	if c.verboseFlag != nil && *c.verboseFlag {
		verbose = true
	}
	quiet := cfg.Output.Quiet
	if c.quietFlag != nil && *c.quietFlag {
		quiet = true
	}
	return output.New(output.Config{
		Verbose: verbose,
		Quiet:   quiet,
		IsTTY:   stdoutIsTerminal(),
	})
}

// newAuditWriter opens the audit trail when enabled; nil otherwise.
// The caller owns the writer and must Close it.
func (c *commandContext) newAuditWriter(cfg *config.Configuration) (*audit.Writer, error) {
	if !cfg.Audit.Enabled {
		return nil, nil
	}
	return audit.NewWriter(cfg.AuditConfig())
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
