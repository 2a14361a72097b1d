package topology

import (
	"fmt"
	"strconv"
	"strings"
)

const linkPrefix = "link"

// Bottleneck pre-installs a shaping rule for the traffic between two hosts.
type Bottleneck struct {
	From  string
	Class int
	To    string
}

// BottleneckLine is one line of a bottleneck map, parsed or not.
type BottleneckLine struct {
	Text       string
	Bottleneck Bottleneck
	Err        error
}

// ParseBottleneck parses "host1 linkN host2".
func ParseBottleneck(line string) (Bottleneck, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Bottleneck{}, fmt.Errorf("bottleneck %q: want 3 fields, got %d", line, len(fields))
	}
	class, err := ParseTrafficClass(fields[1])
	if err != nil {
		return Bottleneck{}, fmt.Errorf("bottleneck %q: %w", line, err)
	}
	return Bottleneck{
		From:  fields[0],
		Class: class,
		To:    fields[2],
	}, nil
}

// ParseTrafficClass turns a link reference such as "link3" into 3.
func ParseTrafficClass(ref string) (int, error) {
	if !strings.HasPrefix(ref, linkPrefix) {
		return 0, fmt.Errorf("invalid link reference %q", ref)
	}
	class, err := strconv.Atoi(strings.TrimPrefix(ref, linkPrefix))
	if err != nil || class < 0 {
		return 0, fmt.Errorf("invalid link reference %q", ref)
	}
	return class, nil
}
