package telegram

import (
	"strings"
	"testing"

	"github.com/pmsignal/watchbot/internal/domain"
	"github.com/shopspring/decimal"
)

func TestParseAddressArg(t *testing.T) {
	if _, err := ParseAddressArg(""); err == nil {
		t.Fatal("empty args must fail")
	}
	if _, err := ParseAddressArg("0xabc 0xdef"); err == nil {
		t.Fatal("two arguments must fail")
	}
	address, err := ParseAddressArg("  0xabc  ")
	if err != nil {
		t.Fatalf("single argument failed: %v", err)
	}
	if address != "0xabc" {
		t.Fatalf("expected trimmed address, got %q", address)
	}
}

func TestParseThresholdArgs(t *testing.T) {
	address, amount, err := ParseThresholdArgs("0xabc 10000")
	if err != nil || address != "0xabc" || amount != "10000" {
		t.Fatalf("expected (0xabc, 10000), got (%q, %q, %v)", address, amount, err)
	}

	address, amount, err = ParseThresholdArgs("0xabc")
	if err != nil || address != "0xabc" || amount != "" {
		t.Fatalf("address-only form should work, got (%q, %q, %v)", address, amount, err)
	}

	if _, _, err := ParseThresholdArgs(""); err == nil {
		t.Fatal("empty args must fail")
	}
	if _, _, err := ParseThresholdArgs("a b c"); err == nil {
		t.Fatal("three arguments must fail")
	}
}

func TestConversationStateTakeResets(t *testing.T) {
	states := newConversationState()

	if got := states.take(1); got.kind != stateIdle {
		t.Fatalf("fresh chat must be idle, got %v", got.kind)
	}

	states.set(1, interaction{kind: stateAwaitingThreshold, address: "0xabc"})
	got := states.take(1)
	if got.kind != stateAwaitingThreshold || got.address != "0xabc" {
		t.Fatalf("expected pending threshold interaction, got %+v", got)
	}
	if got := states.take(1); got.kind != stateIdle {
		t.Fatal("take must consume the pending interaction")
	}

	states.set(2, interaction{kind: stateAwaitingAddress})
	states.set(2, interaction{kind: stateIdle})
	if got := states.take(2); got.kind != stateIdle {
		t.Fatal("setting idle must clear the pending interaction")
	}
}

func TestFormatTrade(t *testing.T) {
	tr := domain.Trade{
		Timestamp:       150,
		UsdcSize:        decimal.RequireFromString("1500.456"),
		Title:           "Will X happen?",
		Side:            "BUY",
		Outcome:         "Yes",
		Price:           decimal.RequireFromString("0.42"),
		PriceValid:      true,
		Size:            decimal.RequireFromString("3572"),
		SizeValid:       true,
		TransactionHash: "0xdeadbeef",
	}

	text := FormatTrade("0xabc", tr)

	for _, want := range []string{"`0xabc`", "Will X happen?", "Yes", "BUY", "1500.46 USDC", "0.42", "3572", "`0xdeadbeef`"} {
		if !strings.Contains(text, want) {
			t.Fatalf("rendered message missing %q:\n%s", want, text)
		}
	}
}

func TestFormatTradeFallbacks(t *testing.T) {
	text := FormatTrade("0xabc", domain.Trade{Timestamp: 1})

	if !strings.Contains(text, "(untitled)") {
		t.Fatalf("missing title fallback:\n%s", text)
	}
	if !strings.Contains(text, "TRADE") {
		t.Fatalf("missing side fallback:\n%s", text)
	}
	if strings.Contains(text, "Price:") || strings.Contains(text, "Tx:") {
		t.Fatalf("absent fields must be omitted:\n%s", text)
	}
	if !strings.Contains(text, "0 USDC") {
		t.Fatalf("zero amount should still render:\n%s", text)
	}
}
