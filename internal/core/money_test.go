package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"0", 0, true}, // zero amounts are legal transactions
		{".50", 50, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{123, "1.23"},
		{100050, "1000.50"},
		{-250, "-2.50"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Errorf("cents %d: expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 1999})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "19.99" {
		t.Fatalf("expected bare decimal 19.99, got %s", b)
	}

	var m Money
	if err := json.Unmarshal([]byte("12.34"), &m); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if m.Cents != 1234 {
		t.Fatalf("expected 1234 cents, got %d", m.Cents)
	}

	// Datastore columns are REAL, so quoted values show up occasionally.
	if err := json.Unmarshal([]byte(`"5.50"`), &m); err != nil {
		t.Fatalf("unmarshal quoted: %v", err)
	}
	if m.Cents != 550 {
		t.Fatalf("expected 550 cents, got %d", m.Cents)
	}

	if err := json.Unmarshal([]byte("null"), &m); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if m.Cents != 0 {
		t.Fatalf("expected 0 cents for null, got %d", m.Cents)
	}

	if err := json.Unmarshal([]byte(`"-3"`), &m); err == nil {
		t.Fatal("expected error for negative amount")
	}
}
