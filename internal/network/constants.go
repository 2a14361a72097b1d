package network

import "fmt"

// RootDiscipline is the queuing discipline installed at the interface root.
// Its presence in Show output means shaping is configured.
const RootDiscipline = "htb"

const (
	RootHandle   = "1:"
	DefaultClass = "1:1"
	netemLimit   = 1000
)

// PacketSize is the packet, in bytes, the in-memory links are paced in.
const PacketSize = 1500

// classOffset keeps traffic classes clear of the default class 1:1.
const classOffset = 10

// Classid is the htb class a traffic class is shaped by.
func Classid(trafficClass int) string {
	return fmt.Sprintf("1:%x", trafficClass+classOffset)
}

// NetemHandle is the handle of the delay discipline attached under Classid.
func NetemHandle(trafficClass int) string {
	return fmt.Sprintf("%x:", trafficClass+classOffset)
}
