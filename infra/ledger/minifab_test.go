package ledger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	coreledger "github.com/parksense/parksense/core/ledger"
	"github.com/parksense/parksense/core/model"
)

func TestDetectCommandMinifabScript(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "minifab"), []byte("#!/bin/sh\n"), 0o755))
	cmd, err := detectCommand(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"./minifab"}, cmd)
}

func TestDetectCommandNetworkScript(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "network.sh"), []byte("#!/bin/sh\n"), 0o755))
	cmd, err := detectCommand(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"bash", "./network.sh"}, cmd)
}

func TestNewCLIClientFailsFastWithoutCommand(t *testing.T) {
	t.Setenv("PATH", "")
	_, err := NewCLIClient(Config{Dir: t.TempDir()})
	require.Error(t, err)
}

func TestSubmitBuildsInvokeArgs(t *testing.T) {
	dir := t.TempDir()
	var gotName string
	var gotArgs []string
	c, err := NewCLIClient(Config{Command: []string{"bash", "./network.sh"}, Dir: dir})
	require.NoError(t, err)
	c.run = func(_ context.Context, _ string, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		return nil, nil
	}

	ev := model.ParkingEvent{SlotID: "lot-007", Occupied: true, Location: "VIP Section"}
	require.NoError(t, c.Submit(context.Background(), ev))
	require.Equal(t, "bash", gotName)
	require.Equal(t, []string{
		"./network.sh", "invoke", "-n", "parking", "-p",
		`"UpdateStatus","lot-007","true","VIP Section"`,
	}, gotArgs)
}

func TestSubmitWrapsFailureOutput(t *testing.T) {
	c, err := NewCLIClient(Config{Command: []string{"./minifab"}})
	require.NoError(t, err)
	c.run = func(context.Context, string, string, ...string) ([]byte, error) {
		return []byte("chaincode not found"), errors.New("exit status 1")
	}

	err = c.Submit(context.Background(), model.ParkingEvent{SlotID: "lot-001"})
	require.Error(t, err)
	var serr *coreledger.SubmissionError
	require.ErrorAs(t, err, &serr)
	require.Contains(t, serr.Output, "chaincode not found")
}
