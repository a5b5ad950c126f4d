package api

import "testing"

func TestColorAssignerRoundRobin(t *testing.T) {
	a := NewColorAssigner()
	if got := a.Assign("first"); got != agentPalette[0] {
		t.Fatalf("expected palette[0], got %q", got)
	}
	if got := a.Assign("second"); got != agentPalette[1] {
		t.Fatalf("expected palette[1], got %q", got)
	}
	// Repeat lookups keep the original assignment.
	if got := a.Assign("first"); got != agentPalette[0] {
		t.Fatalf("expected stable mapping, got %q", got)
	}
}

func TestColorAssignerWrapsPalette(t *testing.T) {
	a := NewColorAssigner()
	agents := []string{"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9"}
	for i, agent := range agents {
		if got := a.Assign(agent); got != agentPalette[i] {
			t.Fatalf("agent %d: expected %q, got %q", i, agentPalette[i], got)
		}
	}
	if got := a.Assign("a10"); got != agentPalette[0] {
		t.Fatalf("expected wrap to palette[0], got %q", got)
	}
}

func TestColorAssignerExplicitOverride(t *testing.T) {
	a := NewColorAssigner()
	a.Assign("alpha")
	a.Set("alpha", "#123456")
	if got := a.Assign("alpha"); got != "#123456" {
		t.Fatalf("expected override to persist, got %q", got)
	}
}

func TestColorAssignerReset(t *testing.T) {
	a := NewColorAssigner()
	a.Assign("alpha")
	a.Assign("beta")
	a.Reset()
	if got := a.Assign("gamma"); got != agentPalette[0] {
		t.Fatalf("expected palette restart after reset, got %q", got)
	}
}
