package classify

import "testing"

func TestStatusPrefixMatch(t *testing.T) {
	tests := []struct {
		in   string
		want StatusBucket
	}{
		{in: "FINALIZADO", want: StatusFinished},
		{in: " finalizado ok", want: StatusFinished},
		{in: "Em andamento - fase 2", want: StatusInProgress},
		{in: "PARALIZADO - AGUARDANDO CLIENTE", want: StatusPaused},
		{in: "não iniciado", want: StatusNotStarted},
		{in: "NAO INICIADO", want: StatusDefault},
		{in: "CANCELADO", want: StatusDefault},
		{in: "PROJETO FINALIZADO", want: StatusDefault},
		{in: "", want: StatusDefault},
	}
	for _, tt := range tests {
		if got := Status(tt.in); got != tt.want {
			t.Fatalf("Status(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusColorsAndBadgesAreFixedPerBucket(t *testing.T) {
	if StatusColor("FINALIZADO") != StatusColor("Finalizado com ressalvas") {
		t.Fatal("same bucket must share a color")
	}
	if StatusBadge("PARALIZADO") != "badge-danger" {
		t.Fatalf("unexpected paused badge %q", StatusBadge("PARALIZADO"))
	}
	if StatusColor("whatever") != defaultStatus.color || StatusBadge("whatever") != defaultStatus.badge {
		t.Fatal("unknown status should use the default bucket style")
	}

	seen := map[string]bool{}
	for _, b := range CanonicalStatuses() {
		c := StatusColor(string(b))
		if seen[c] {
			t.Fatalf("color %s reused across canonical buckets", c)
		}
		seen[c] = true
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 canonical statuses, got %d", len(seen))
	}
}

func TestBUColorPrecedence(t *testing.T) {
	infra := BUColor("INFRAESTRUTURA")
	security := BUColor("SEGURANÇA")
	it := BUColor("TI")
	automation := BUColor("AUTOMAÇÃO")

	tests := []struct {
		in   string
		want string
	}{
		{in: " infraestrutura ", want: infra},
		{in: "Infraestrutura e TI", want: infra},
		{in: "Segurança da Informação", want: security},
		{in: "Gestão de TI", want: it},
		{in: "Automação e TI", want: it},
		{in: "Automação", want: automation},
		{in: "Financeiro", want: neutralBUColor},
		{in: "", want: neutralBUColor},
	}
	for _, tt := range tests {
		if got := BUColor(tt.in); got != tt.want {
			t.Fatalf("BUColor(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
