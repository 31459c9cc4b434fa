package telegram

import (
	"errors"
	"strings"
	"sync"
)

const HelpText = `Commands:
/watch <0x...> - start watching an address
/unwatch <0x...> - stop watching an address
/list - show your watched addresses
/min <0x...> <amount> - alert only on trades of at least <amount> USDC
/pause <0x...> - suspend alerts for an address
/resume <0x...> - resume alerts for an address
/clear - remove all watched addresses
/help - show this help

Notes:
- Amounts accept separators: /min 0x... 10_000 and /min 0x... 10,000 both work.
- /min 0x... 0 alerts on every trade.
- Pausing keeps the watermark: after /resume you get everything since the pause.
Example:
/watch 0x8fe8c0c2e38ed6f5fc067a1a3c1067be94d6d60c
/min 0x8fe8c0c2e38ed6f5fc067a1a3c1067be94d6d60c 10000
`

var ErrInvalidArguments = errors.New("invalid arguments")

// ParseAddressArg reads a single address argument.
func ParseAddressArg(args string) (string, error) {
	address := strings.TrimSpace(args)
	if address == "" || len(strings.Fields(address)) != 1 {
		return "", ErrInvalidArguments
	}
	return address, nil
}

// ParseThresholdArgs reads an address and an optional amount. An empty
// amount means the caller only wants to see the current threshold.
func ParseThresholdArgs(args string) (address, amount string, err error) {
	parts := strings.Fields(args)
	switch len(parts) {
	case 1:
		return parts[0], "", nil
	case 2:
		return parts[0], parts[1], nil
	default:
		return "", "", ErrInvalidArguments
	}
}

// Conversation state for multi-step commands. A /watch or /min issued
// without its argument parks the chat in a waiting state; the next plain
// message completes it. Any command resets the state first.
type interactionKind int

const (
	stateIdle interactionKind = iota
	stateAwaitingAddress
	stateAwaitingThreshold
)

type interaction struct {
	kind    interactionKind
	address string
}

type conversationState struct {
	mu     sync.Mutex
	states map[int64]interaction
}

func newConversationState() *conversationState {
	return &conversationState{states: make(map[int64]interaction)}
}

func (c *conversationState) set(chatID int64, state interaction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if state.kind == stateIdle {
		delete(c.states, chatID)
		return
	}
	c.states[chatID] = state
}

// take returns the pending interaction for a chat and resets it to idle.
func (c *conversationState) take(chatID int64) interaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.states[chatID]
	if !ok {
		return interaction{kind: stateIdle}
	}
	delete(c.states, chatID)
	return state
}
