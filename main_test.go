package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/David-Antunes/netsim/internal/topology"
	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
)

func writeTopology(t *testing.T, files map[topology.Kind]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "demo")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for kind, content := range files {
		path := filepath.Join(dir, "demo."+string(kind))
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("NETSIM_CLICK_CONF", filepath.Join(t.TempDir(), "autogen.click"))

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(viper.New())
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

var fullTopology = map[topology.Kind]string{
	topology.Servers:     "10.0.0.1\n10.0.0.2\n",
	topology.Clients:     "10.0.1.1\n",
	topology.DNS:         "10.0.2.1\n",
	topology.Bottlenecks: "# link map\n10.0.1.1 link1 10.0.0.1\n10.0.1.1 bogus 10.0.0.2\n",
	topology.Events:      "0 link1 10mbit 5ms\nbad link1 1mbit 1ms\n0 link1 20mbit 10ms\n",
}

func TestArguments(t *testing.T) {
	dir := writeTopology(t, fullTopology)
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"missing command", []string{dir}},
		{"unknown command", []string{dir, "launch"}},
		{"extra argument", []string{dir, "start", "now"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := execute(t, tt.args...); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestMissingTopologyFile(t *testing.T) {
	dir := writeTopology(t, map[topology.Kind]string{topology.Servers: "10.0.0.1\n"})
	for _, command := range []string{"start", "restart", "run", "buildclick"} {
		t.Run(command, func(t *testing.T) {
			_, stderr, err := execute(t, dir, command, "--dry-run")
			if !errors.Is(err, topology.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if strings.Contains(stderr, "Starting simulated network") {
				t.Fatal("nothing may run before the topology is loaded")
			}
		})
	}
}

func TestDryRunStart(t *testing.T) {
	dir := writeTopology(t, fullTopology)
	_, stderr, err := execute(t, dir, "start", "--dry-run", "--verbose")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Starting simulated network...", "skipping bottleneck", "Network started.", "link1: 0s per 1500-byte packet"} {
		if !strings.Contains(stderr, want) {
			t.Fatalf("expected %q in the log:\n%s", want, stderr)
		}
	}
}

func TestDryRunQuiet(t *testing.T) {
	dir := writeTopology(t, fullTopology)
	_, stderr, err := execute(t, dir, "stop", "--dry-run", "-q", "-v")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(stderr, "Stopping simulated network...") {
		t.Fatalf("quiet must hide info messages:\n%s", stderr)
	}
}

func TestRunWritesEventLog(t *testing.T) {
	dir := writeTopology(t, fullTopology)
	logPath := filepath.Join(t.TempDir(), "events.log")

	_, stderr, err := execute(t, dir, "run", "--dry-run", "-l", logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "Skipping invalid event: bad link1 1mbit 1ms") {
		t.Fatalf("expected the bad event to be skipped:\n%s", stderr)
	}
	if !strings.Contains(stderr, "link1: 10ms per 1500-byte packet") {
		t.Fatalf("expected the pacing of the last event:\n%s", stderr)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		fields := strings.Fields(line)
		got = append(got, strings.Join(fields[1:], " "))
	}
	want := []string{"0 link1 10000 5", "0 link1 20000 10"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestRunEventsOverride(t *testing.T) {
	dir := writeTopology(t, map[topology.Kind]string{topology.Servers: "10.0.0.1\n"})
	events := filepath.Join(t.TempDir(), "custom.events")
	if err := os.WriteFile(events, []byte("0 link2 1mbit 1ms\n"), 0644); err != nil {
		t.Fatal(err)
	}
	logPath := filepath.Join(t.TempDir(), "events.log")

	if _, _, err := execute(t, dir, "run", "--dry-run", "-e", events, "-l", logPath); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), " 0 link2 1000 1\n") {
		t.Fatalf("unexpected log %q", data)
	}
}

func TestBuildClick(t *testing.T) {
	dir := writeTopology(t, fullTopology)
	conf := filepath.Join(t.TempDir(), "autogen.click")

	var stdout, stderr bytes.Buffer
	t.Setenv("NETSIM_CLICK_CONF", conf)
	cmd := newRootCmd(viper.New())
	cmd.SetArgs([]string{dir, "buildclick"})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(conf)
	if err != nil {
		t.Fatal(err)
	}
	want := "// This file is autogenerated. Do not hand edit.\n\n" +
		"KernelTun(10.0.0.1/8) -> Discard;\n" +
		"KernelTun(10.0.0.2/8) -> Discard;\n" +
		"KernelTun(10.0.1.1/8) -> Discard;\n" +
		"KernelTun(10.0.2.1/8) -> Discard;\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Fatal(diff)
	}
}

func TestStatus(t *testing.T) {
	color.NoColor = true
	dir := writeTopology(t, nil)

	stdout, _, err := execute(t, dir, "status", "--dry-run")
	if err != nil {
		t.Fatal(err)
	}
	want := "endpoints  stopped\nshaping    stopped\napache     stopped\nnetwork    stopped\n"
	if diff := cmp.Diff(want, stdout); diff != "" {
		t.Fatal(diff)
	}
}

func TestCheckStopWhenStopped(t *testing.T) {
	dir := writeTopology(t, nil)
	_, stderr, err := execute(t, dir, "checkstopnetsim", "--dry-run")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(stderr, "Stopping netsim...") {
		t.Fatal("a stopped network must not be stopped again")
	}
}

func TestMissingBinariesAreReported(t *testing.T) {
	dir := writeTopology(t, fullTopology)
	t.Setenv("NETSIM_TC", "netsim-no-such-tc")

	_, stderr, err := execute(t, dir, "buildclick")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "netsim-no-such-tc not found in PATH") {
		t.Fatalf("expected a warning for the missing tc binary:\n%s", stderr)
	}
}
