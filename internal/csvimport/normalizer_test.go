package csvimport

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestNormalizePercentage(t *testing.T) {
	tests := []struct {
		in   *string
		want *float64
	}{
		{in: strPtr("45%"), want: floatPtr(45)},
		{in: strPtr("45,5"), want: floatPtr(45.5)},
		{in: strPtr("45.5"), want: floatPtr(45.5)},
		{in: strPtr(" 45 "), want: floatPtr(45)},
		{in: strPtr(" 80 % "), want: floatPtr(80)},
		{in: strPtr("120%"), want: floatPtr(120)},
		{in: strPtr("-5"), want: floatPtr(-5)},
		{in: strPtr("45.5.3"), want: floatPtr(45.5)},
		{in: strPtr(""), want: nil},
		{in: strPtr("   "), want: nil},
		{in: strPtr("%"), want: nil},
		{in: strPtr("abc%"), want: nil},
		{in: strPtr("NaN"), want: nil},
		{in: nil, want: nil},
	}
	for _, tt := range tests {
		got := NormalizePercentage(tt.in)
		name := "<nil>"
		if tt.in != nil {
			name = *tt.in
		}
		switch {
		case tt.want == nil && got != nil:
			t.Fatalf("NormalizePercentage(%q) = %v, want nil", name, *got)
		case tt.want != nil && got == nil:
			t.Fatalf("NormalizePercentage(%q) = nil, want %v", name, *tt.want)
		case tt.want != nil && *got != *tt.want:
			t.Fatalf("NormalizePercentage(%q) = %v, want %v", name, *got, *tt.want)
		}
	}
}

func floatPtr(f float64) *float64 { return &f }

func TestParseSkipsPreambleAndBOM(t *testing.T) {
	text := "\uFEFFRelatório de projetos\r\n;;;\r\nCLIENTE;STATUS;%\r\nAcme;Finalizado OK;80%\r\n"

	res, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
	rec := res.Records[0]
	if rec.Client != "Acme" {
		t.Fatalf("client = %q", rec.Client)
	}
	if rec.Status != "FINALIZADO OK" {
		t.Fatalf("status = %q", rec.Status)
	}
	if rec.Percentage == nil || *rec.Percentage != 80 {
		t.Fatalf("percentage = %v", rec.Percentage)
	}
	if rec.CostCenter != "" || rec.BU != "" {
		t.Fatalf("absent columns should default to empty, got %+v", rec)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
}

func TestParseFullHeader(t *testing.T) {
	text := "cliente ; Tipo de Projeto;TIPO DE PRODUTO;bus;c.custo;Status;%\n" +
		"Globex; Implantação ;Firewall;Segurança;CC-10; em andamento ;45,5\n" +
		";;;;;;\n" +
		"  ;Consultoria;;TI;  ;Finalizado;100\n" +
		";Consultoria;;TI;CC-20;;\n" +
		"Initech;Suporte;Backup;Infraestrutura\n"

	res, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(res.Records) != 3 {
		t.Fatalf("expected 3 records (blank identity row skipped), got %d: %+v", len(res.Records), res.Records)
	}

	first := res.Records[0]
	if first.Client != "Globex" || first.ProjectType != "Implantação" || first.ProductType != "Firewall" ||
		first.BU != "Segurança" || first.CostCenter != "CC-10" || first.Status != "EM ANDAMENTO" {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.Percentage == nil || *first.Percentage != 45.5 {
		t.Fatalf("unexpected first percentage: %v", first.Percentage)
	}

	second := res.Records[1]
	if second.Client != "" || second.CostCenter != "CC-20" {
		t.Fatalf("cost center alone should keep the row: %+v", second)
	}
	if second.Percentage != nil {
		t.Fatalf("empty percentage should be nil, got %v", *second.Percentage)
	}

	short := res.Records[2]
	if short.Client != "Initech" || short.Status != "" || short.Percentage != nil {
		t.Fatalf("short row should default missing cells: %+v", short)
	}
}

func TestParseFirstMatchingColumnWins(t *testing.T) {
	text := "CLIENTE;STATUS;STATUS\nAcme;Paralizado;Finalizado\n"
	res, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.Records[0].Status != "PARALIZADO" {
		t.Fatalf("expected first STATUS column to win, got %q", res.Records[0].Status)
	}
}

func TestParseNoPercentageColumnLeavesNil(t *testing.T) {
	res, err := Parse("CLIENTE;STATUS\nAcme;Finalizado\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if res.Records[0].Percentage != nil {
		t.Fatalf("expected nil percentage without %% column")
	}
}

func TestParseFatalConditions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{name: "empty", text: "", want: ErrHeaderNotFound},
		{name: "no header", text: "NOME;STATUS\nAcme;Finalizado\n", want: ErrHeaderNotFound},
		{name: "header only", text: "CLIENTE;STATUS\n;;\n\n", want: ErrTooFewLines},
		{name: "header token only inside other column", text: "NOME DO CLIENTE;STATUS\nAcme;Finalizado\n", want: ErrMissingIdentityColumns},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.text)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, ErrParse) {
				t.Fatalf("expected error to wrap ErrParse, got %v", err)
			}
			if len(res.Records) != 0 {
				t.Fatalf("expected no records on fatal error, got %d", len(res.Records))
			}
		})
	}
}

func TestParseWarnsWhenAllRowsBlank(t *testing.T) {
	text := "CLIENTE;C.Custo;STATUS\n ; ;Finalizado\n;;Em andamento\n"
	res, err := Parse(text)
	if err != nil {
		t.Fatalf("zero surviving rows must not be fatal: %v", err)
	}
	if len(res.Records) != 0 {
		t.Fatalf("expected no records, got %d", len(res.Records))
	}
	if len(res.Warnings) != 1 || res.Warnings[0] != WarningNoRows {
		t.Fatalf("expected no-rows warning, got %v", res.Warnings)
	}
}
