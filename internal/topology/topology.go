// Package topology reads the line-oriented files that describe an emulated
// network. A topology is a directory named after the topology, holding
// <name>.servers, <name>.clients, <name>.dns, <name>.bottlenecks and,
// optionally, <name>.events.
package topology

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when a topology file does not exist. Callers treat
// it as fatal: nothing downstream can run on a partial topology.
var ErrNotFound = errors.New("topology file not found")

// Kind is the suffix of a topology file.
type Kind string

const (
	Servers     Kind = "servers"
	Clients     Kind = "clients"
	DNS         Kind = "dns"
	Bottlenecks Kind = "bottlenecks"
	Events      Kind = "events"
)

// Topology is a handle on a topology directory. It caches nothing: every
// accessor reads the file again.
type Topology struct {
	// Dir is the topology directory without a trailing separator.
	Dir string

	// EventsOverride, when set, is used verbatim instead of <name>.events.
	// It must exist like any other topology file.
	EventsOverride string
}

func New(dir string, eventsOverride string) *Topology {
	return &Topology{
		Dir:            filepath.Clean(dir),
		EventsOverride: eventsOverride,
	}
}

// Name is the base name of the topology directory.
func (t *Topology) Name() string {
	return filepath.Base(t.Dir)
}

// Path resolves the file of the given kind and checks that it exists.
func (t *Topology) Path(kind Kind) (string, error) {
	path := filepath.Join(t.Dir, fmt.Sprintf("%s.%s", t.Name(), kind))
	if kind == Events && t.EventsOverride != "" {
		path = t.EventsOverride
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return path, fmt.Errorf("could not find %s: %w", path, ErrNotFound)
	}
	return path, nil
}

// Hosts returns the addresses listed in a servers, clients or dns file.
func (t *Topology) Hosts(kind Kind) ([]string, error) {
	path, err := t.Path(kind)
	if err != nil {
		return nil, err
	}
	return ReadLines(path)
}

func (t *Topology) Servers() ([]string, error) {
	return t.Hosts(Servers)
}

func (t *Topology) Clients() ([]string, error) {
	return t.Hosts(Clients)
}

func (t *Topology) DNS() ([]string, error) {
	return t.Hosts(DNS)
}

// Bottlenecks parses the bottleneck map. Malformed lines are kept with their
// parse error so installers can report and skip them individually.
func (t *Topology) Bottlenecks() ([]BottleneckLine, error) {
	path, err := t.Path(Bottlenecks)
	if err != nil {
		return nil, err
	}
	var lines []BottleneckLine
	err = ReadFile(path, func(line string) error {
		b, perr := ParseBottleneck(line)
		lines = append(lines, BottleneckLine{Text: line, Bottleneck: b, Err: perr})
		return nil
	})
	return lines, err
}

// Events parses the event script in file order.
func (t *Topology) Events() ([]Event, error) {
	path, err := t.Path(Events)
	if err != nil {
		return nil, err
	}
	var events []Event
	err = ReadFile(path, func(line string) error {
		events = append(events, ParseEvent(line))
		return nil
	})
	return events, err
}
