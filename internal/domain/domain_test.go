package domain

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, time.February, 29)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-02-29"` {
		t.Fatalf("unexpected date JSON: %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Fatalf("round trip mismatch: got %v, want %v", back, d)
	}

	if err := json.Unmarshal([]byte(`"29/02/2024"`), &back); err == nil {
		t.Fatal("expected error for non ISO date")
	}
}

func TestDateOfUsesOwnLocation(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*3600)
	late := time.Date(2024, 1, 10, 23, 30, 0, 0, loc)
	if got := DateOf(late); got != NewDate(2024, time.January, 10) {
		t.Fatalf("DateOf = %v, want 2024-01-10", got)
	}
	if got := NewDate(2024, time.January, 31).AddDays(1); got != NewDate(2024, time.February, 1) {
		t.Fatalf("AddDays crossed month wrong: %v", got)
	}
}

func TestDetailedProjectNormalize(t *testing.T) {
	p := DetailedProject{
		Name: "  Migração  ",
		Steps: []Step{
			{Name: " Kickoff ", Percentage: 120},
			{Name: "Build", Percentage: -5},
			{Name: "Test", Percentage: 42.5},
		},
		SoldHours: BuHours{Infra: -1, Security: 10},
		UsedHours: BuHours{IT: -3, Automation: 4},
	}
	p.Normalize()

	if p.Name != "Migração" {
		t.Fatalf("name not trimmed: %q", p.Name)
	}
	want := []Step{{Name: "Kickoff", Percentage: 100}, {Name: "Build", Percentage: 0}, {Name: "Test", Percentage: 42.5}}
	if !reflect.DeepEqual(p.Steps, want) {
		t.Fatalf("steps = %+v, want %+v", p.Steps, want)
	}
	if p.SoldHours != (BuHours{Infra: 0, Security: 10}) {
		t.Fatalf("sold hours = %+v", p.SoldHours)
	}
	if p.UsedHours != (BuHours{IT: 0, Automation: 4}) {
		t.Fatalf("used hours = %+v", p.UsedHours)
	}
}

func TestDetailedProjectJSONRoundTripIsStable(t *testing.T) {
	start := NewDate(2024, time.January, 1)
	end := NewDate(2024, time.January, 11)
	p := DetailedProject{
		ID:        "3f1c",
		Name:      "Portal",
		StartDate: &start,
		EndDate:   &end,
		Steps:     []Step{{Name: "Design", Percentage: 100}, {Name: "Build", Percentage: 35}},
		SoldHours: BuHours{Infra: 100, Security: 20, IT: 5, Automation: 0},
		UsedHours: BuHours{Infra: 90, Security: 25},
	}

	first, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded DetailedProject
	if err := json.Unmarshal(first, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(decoded, p) {
		t.Fatalf("decoded = %+v, want %+v", decoded, p)
	}
	second, err := json.Marshal(decoded)
	if err != nil {
		t.Fatalf("marshal again: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("serialization not stable:\n%s\n%s", first, second)
	}
}

func TestBULabels(t *testing.T) {
	var h BuHours
	for i, b := range BUs {
		h.Set(b, float64(i+1))
	}
	if h != (BuHours{Infra: 1, Security: 2, IT: 3, Automation: 4}) {
		t.Fatalf("Set routed to wrong bucket: %+v", h)
	}
	if BUSecurity.Label() != "Segurança" || BUAutomation.Label() != "Automação" {
		t.Fatal("unexpected BU labels")
	}
}
