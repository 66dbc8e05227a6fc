package ledger

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	coreledger "github.com/parksense/parksense/core/ledger"
	"github.com/parksense/parksense/core/model"
	"github.com/parksense/parksense/infra/logger"
)

// Config defines the external ledger CLI invocation parameters.
type Config struct {
	// Command overrides automatic detection, e.g. ["bash", "./network.sh"].
	Command []string `json:"command"`
	// Dir is the working directory searched for the CLI wrapper.
	Dir            string `json:"dir"`
	Chaincode      string `json:"chaincode"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "."
	}
	if c.Chaincode == "" {
		c.Chaincode = "parking"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 30
	}
}

type runner func(ctx context.Context, dir string, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// CLIClient delivers slot updates by invoking the Fabric network wrapper
// (minifab or network.sh) as an external process.
type CLIClient struct {
	cmd     []string
	dir     string
	chain   string
	timeout time.Duration
	run     runner
	log     logger.Logger
}

// NewCLIClient detects the ledger command and returns a client. Detection
// failure is fatal: a submitter must not start without a working command.
func NewCLIClient(cfg Config) (*CLIClient, error) {
	cfg.SetDefaults()
	cmd := cfg.Command
	if len(cmd) == 0 {
		var err error
		cmd, err = detectCommand(cfg.Dir)
		if err != nil {
			return nil, err
		}
	}
	return &CLIClient{
		cmd:     cmd,
		dir:     cfg.Dir,
		chain:   cfg.Chaincode,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		run:     execRunner,
		log:     logger.New("ledger-cli"),
	}, nil
}

// detectCommand probes the known CLI wrappers in order of preference.
func detectCommand(dir string) ([]string, error) {
	if _, err := os.Stat(filepath.Join(dir, "minifab")); err == nil {
		return []string{"./minifab"}, nil
	}
	if path, err := exec.LookPath("minifab"); err == nil {
		return []string{path}, nil
	}
	if _, err := os.Stat(filepath.Join(dir, "network.sh")); err == nil {
		return []string{"bash", "./network.sh"}, nil
	}
	return nil, fmt.Errorf("no ledger command found in %s: need ./minifab, minifab in PATH or ./network.sh", dir)
}

// Command returns the detected invocation, for diagnostics.
func (c *CLIClient) Command() []string { return append([]string(nil), c.cmd...) }

// Submit invokes UpdateStatus on the chaincode for the event's slot.
// A non-zero exit status is returned as a SubmissionError carrying the
// process output.
func (c *CLIClient) Submit(ctx context.Context, ev model.ParkingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := fmt.Sprintf("%q,%q,%q,%q", "UpdateStatus", ev.SlotID, strconv.FormatBool(ev.Occupied), ev.Location)
	args := append(append([]string(nil), c.cmd[1:]...), "invoke", "-n", c.chain, "-p", params)
	out, err := c.run(ctx, c.dir, c.cmd[0], args...)
	if err != nil {
		return &coreledger.SubmissionError{SlotID: ev.SlotID, Output: string(out), Err: err}
	}
	c.log.Debugf("ledger invoke ok: %s -> %t", ev.SlotID, ev.Occupied)
	return nil
}

var _ coreledger.Client = (*CLIClient)(nil)
