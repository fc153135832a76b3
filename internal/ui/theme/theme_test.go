package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestTable(t *testing.T) {
	out := ansi.Strip(Table([]string{"Section", "Best"}, [][]string{
		{"Factoring", "4/5"},
		{"Vertex Form", "1/5"},
	}))

	for _, want := range []string{"Section", "Best", "Factoring", "4/5", "Vertex Form"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "╭") {
		t.Errorf("expected rounded border:\n%s", out)
	}
}

func TestUrgencyAndCheck(t *testing.T) {
	for _, u := range []string{"high", "medium", "low"} {
		if got := ansi.Strip(Urgency(u)); got != u {
			t.Errorf("Urgency(%q) = %q", u, got)
		}
	}
	if ansi.Strip(Check(true)) != "✓" || ansi.Strip(Check(false)) != "✗" {
		t.Error("Check marks")
	}
	if got := ansi.Strip(Field("Score", "1200")); got != "Score: 1200" {
		t.Errorf("Field = %q", got)
	}
}
