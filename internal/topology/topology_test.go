package topology

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// writeTopology creates dir/<name>/<name>.<kind> for every file given.
func writeTopology(t *testing.T, name string, files map[Kind]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for kind, content := range files {
		path := filepath.Join(dir, name+"."+string(kind))
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestPath(t *testing.T) {
	dir := writeTopology(t, "twolink", map[Kind]string{
		Servers: "10.0.0.1\n",
	})

	t.Run("resolves <dir>/<name>.<kind>", func(t *testing.T) {
		topo := New(dir+"/", "")
		path, err := topo.Path(Servers)
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join(dir, "twolink.servers"); path != want {
			t.Fatalf("got %s, want %s", path, want)
		}
	})

	t.Run("missing file is ErrNotFound", func(t *testing.T) {
		_, err := New(dir, "").Path(Clients)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("events override bypasses resolution", func(t *testing.T) {
		custom := filepath.Join(t.TempDir(), "custom.events")
		if err := os.WriteFile(custom, []byte("* link1 1mbit 1ms\n"), 0644); err != nil {
			t.Fatal(err)
		}
		path, err := New(dir, custom).Path(Events)
		if err != nil {
			t.Fatal(err)
		}
		if path != custom {
			t.Fatalf("unexpected path %s", path)
		}
	})

	t.Run("missing events override is ErrNotFound", func(t *testing.T) {
		_, err := New(dir, "/nowhere/custom.events").Path(Events)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestScanLines(t *testing.T) {
	input := "# header\n\n  10.0.0.1  \n#10.0.0.9\n10.0.0.2\n\t\n"
	var got []string
	err := ScanLines(strings.NewReader(input), func(line string) error {
		got = append(got, line)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"10.0.0.1", "10.0.0.2"}, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestHosts(t *testing.T) {
	dir := writeTopology(t, "star", map[Kind]string{
		Servers: "# servers\n10.0.0.1\n10.0.0.2\n",
		Clients: "10.0.1.1\n",
		DNS:     "",
	})
	topo := New(dir, "")

	servers, err := topo.Servers()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"10.0.0.1", "10.0.0.2"}, servers); diff != "" {
		t.Fatal(diff)
	}

	dns, err := topo.DNS()
	if err != nil {
		t.Fatal(err)
	}
	if len(dns) != 0 {
		t.Fatalf("expected no dns hosts, got %v", dns)
	}
}

func TestBottlenecks(t *testing.T) {
	dir := writeTopology(t, "star", map[Kind]string{
		Bottlenecks: "10.0.0.1 link1 10.0.1.1\nbroken line\n10.0.0.2 link2 10.0.1.2\n",
	})

	lines, err := New(dir, "").Bottlenecks()
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[1].Err == nil {
		t.Fatal("expected the malformed line to carry an error")
	}
	want := Bottleneck{From: "10.0.0.2", Class: 2, To: "10.0.1.2"}
	if diff := cmp.Diff(want, lines[2].Bottleneck); diff != "" {
		t.Fatal(diff)
	}
}

func TestParseTrafficClass(t *testing.T) {
	type testcase struct {
		ref     string
		want    int
		wantErr bool
	}
	var testcases = []testcase{
		{ref: "link3", want: 3},
		{ref: "link0", want: 0},
		{ref: "link12", want: 12},
		{ref: "link", wantErr: true},
		{ref: "link-1", wantErr: true},
		{ref: "3", wantErr: true},
		{ref: "linkx", wantErr: true},
	}
	for _, tc := range testcases {
		t.Run(tc.ref, func(t *testing.T) {
			got, err := ParseTrafficClass(tc.ref)
			if (err != nil) != tc.wantErr {
				t.Fatalf("unexpected error %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestEvent(t *testing.T) {
	t.Run("parse", func(t *testing.T) {
		got := ParseEvent("1.5  link2 10mbit 5ms")
		want := Event{
			Trigger:   "1.5",
			LinkRef:   "link2",
			Bandwidth: "10mbit",
			Latency:   "5ms",
			Line:      "1.5 link2 10mbit 5ms",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatal(diff)
		}
		d, err := got.Delay()
		if err != nil {
			t.Fatal(err)
		}
		if d != 1500*time.Millisecond {
			t.Fatalf("unexpected delay %v", d)
		}
	})

	t.Run("manual gate", func(t *testing.T) {
		if !ParseEvent("* link1 1mbit 1ms").Manual() {
			t.Fatal("expected a manual event")
		}
	})

	t.Run("bad triggers", func(t *testing.T) {
		for _, trigger := range []string{"bad", "-1", "NaN", "+Inf", "", "1e12", "1e300"} {
			if _, err := (Event{Trigger: trigger}).Delay(); err == nil {
				t.Fatalf("expected %q to be rejected", trigger)
			}
		}
	})

	t.Run("short line fails validation", func(t *testing.T) {
		if err := ParseEvent("0 link1").Validate(); err == nil {
			t.Fatal("expected an error")
		}
	})
}
