package network

import (
	"strconv"
	"strings"
)

type unit struct {
	suffix string
	mul    float64
	div    float64
}

// Longer suffixes come first so that "bps" never shadows "kbps" and "s"
// never shadows "ms".
var bandwidthUnits = []unit{
	{"kbit", 1, 1},
	{"mbit", 1000, 1},
	{"kbps", 8, 1},
	{"mbps", 8000, 1},
	{"bps", 8, 1000},
}

var latencyUnits = []unit{
	{"msecs", 1, 1},
	{"msec", 1, 1},
	{"ms", 1, 1},
	{"secs", 1000, 1},
	{"sec", 1000, 1},
	{"s", 1000, 1},
}

// BandwidthToKbps converts a tc bandwidth such as "2mbit" to kbit/s ("2000").
// Values without a known unit, or whose number does not parse, are returned
// unchanged.
func BandwidthToKbps(bw string) string {
	return convert(bw, bandwidthUnits)
}

// LatencyToMs converts a tc latency such as "2s" to milliseconds ("2000").
// Values without a known unit, or whose number does not parse, are returned
// unchanged.
func LatencyToMs(lat string) string {
	return convert(lat, latencyUnits)
}

func convert(s string, units []unit) string {
	for _, u := range units {
		if !strings.HasSuffix(s, u.suffix) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, u.suffix), 64)
		if err != nil {
			return s
		}
		return strconv.FormatFloat(v*u.mul/u.div, 'f', -1, 64)
	}
	return s
}
