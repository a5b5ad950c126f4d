package api

import "sync"

// agentPalette holds ten visually distinct colors; assignment wraps modulo
// the palette length.
var agentPalette = [...]string{
	"#e06c75",
	"#61afef",
	"#98c379",
	"#c678dd",
	"#e5c07b",
	"#56b6c2",
	"#d19a66",
	"#f47067",
	"#7ee787",
	"#6cb6ff",
}

// ColorAssigner maps agent display names to palette colors. The first agent
// seen gets the first palette slot, the second the next, and so on. An
// explicitly supplied color overrides the mapping for that agent from then
// on. Init clears both the mapping and the round-robin position.
type ColorAssigner struct {
	mu      sync.Mutex
	byAgent map[string]string
	next    int
}

func NewColorAssigner() *ColorAssigner {
	return &ColorAssigner{byAgent: make(map[string]string)}
}

// Assign returns the color mapped to the agent, allocating the next palette
// slot on first sight.
func (a *ColorAssigner) Assign(agent string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if c, ok := a.byAgent[agent]; ok {
		return c
	}
	c := agentPalette[a.next%len(agentPalette)]
	a.next++
	a.byAgent[agent] = c
	return c
}

// Set records an explicit color for the agent, replacing any assigned one.
func (a *ColorAssigner) Set(agent, color string) {
	a.mu.Lock()
	a.byAgent[agent] = color
	a.mu.Unlock()
}

// Reset clears the mapping and restarts the round-robin index.
func (a *ColorAssigner) Reset() {
	a.mu.Lock()
	a.byAgent = make(map[string]string)
	a.next = 0
	a.mu.Unlock()
}
