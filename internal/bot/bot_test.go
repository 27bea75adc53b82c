package bot

import (
	"strings"
	"testing"

	"github.com/nerrad567/parklot-core/internal/state"
)

func testSnapshot() state.Snapshot {
	return state.Snapshot{
		Available:   3,
		Total:       4,
		Occupied:    1,
		Gate:        state.GateClosed,
		Temperature: 21.5,
		Humidity:    45.0,
		Time:        "14:30:45",
		Date:        "2026/08/15",
	}
}

func TestReply(t *testing.T) {
	snap := testSnapshot()

	tests := []struct {
		name     string
		command  string
		contains []string
	}{
		{
			name:     "status",
			command:  "status",
			contains: []string{"3/4"},
		},
		{
			name:     "time",
			command:  "time",
			contains: []string{"2026/08/15", "14:30:45"},
		},
		{
			name:     "temp",
			command:  "temp",
			contains: []string{"21.5°C", "45.0%"},
		},
		{
			name:     "all",
			command:  "all",
			contains: []string{"3/4", "14:30:45", "21.5°C"},
		},
		{
			name:     "start",
			command:  "start",
			contains: []string{"/status", "/time", "/temp", "/all"},
		},
		{
			name:     "unknown command gets capability list",
			command:  "frobnicate",
			contains: []string{"/status"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := Reply(tt.command, snap)
			for _, want := range tt.contains {
				if !strings.Contains(reply, want) {
					t.Errorf("Reply(%q) = %q, missing %q", tt.command, reply, want)
				}
			}
		})
	}
}

func TestFormatStatusFull(t *testing.T) {
	snap := testSnapshot()
	snap.Available = 0
	snap.Occupied = 4

	reply := FormatStatus(snap)
	if !strings.Contains(reply, "FULL") {
		t.Errorf("FormatStatus() = %q, want full-lot marker", reply)
	}
}

func TestFormatTimeDefaults(t *testing.T) {
	snap := state.Snapshot{Time: "00:00:00", Date: "2024/01/01"}
	reply := FormatTime(snap)
	if !strings.Contains(reply, "00:00:00") || !strings.Contains(reply, "2024/01/01") {
		t.Errorf("FormatTime() = %q, want startup defaults rendered", reply)
	}
}
