package internal

import "time"

// Defaults applied to every shaping request unless a caller overrides them.
const (
	DefaultBandwidth    = "1000mbit"
	DefaultLatency      = "0ms"
	DefaultInterface    = "lo"
	DefaultTrafficClass = 0
)

// ClickConf is the endpoint configuration artifact written by buildclick
// and removed on stop.
const ClickConf = "autogen.click"

// ManualGate is the trigger that makes an event wait for the operator.
const ManualGate = "*"

// KillGrace is how long stop waits after killing the endpoint processes.
const KillGrace = time.Second

// CommentMarker starts a line that topology readers ignore.
const CommentMarker = "#"
