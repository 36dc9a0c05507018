package subnetmap

import (
	"errors"
	"testing"
)

func TestResolve_FirstRegisteredMatchWins(t *testing.T) {
	table, err := Parse([]string{"10.0.0=1", "10.0=2"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id, ok := table.Resolve("10.0.0.5")
	if !ok || id != 1 {
		t.Fatalf("expected subnet 1, got %d (matched=%v)", id, ok)
	}
	id, ok = table.Resolve("10.0.9.5")
	if !ok || id != 2 {
		t.Fatalf("expected subnet 2, got %d (matched=%v)", id, ok)
	}
}

func TestResolve_ShorterPrefixRegisteredFirstShadowsLonger(t *testing.T) {
	table := New(PrefixRule{Prefix: "10.0", SubnetID: 2}, PrefixRule{Prefix: "10.0.0", SubnetID: 1})
	if id, _ := table.Resolve("10.0.0.5"); id != 2 {
		t.Fatalf("expected subnet 2, got %d", id)
	}
}

func TestResolve_NoMatch(t *testing.T) {
	table := New(PrefixRule{Prefix: "128.111.106", SubnetID: 3})
	tests := []string{"", "192.168.5.1", "128.111.10.1"}
	for _, addr := range tests {
		if id, ok := table.Resolve(addr); ok {
			t.Fatalf("address %q: expected no match, got %d", addr, id)
		}
	}
}

func TestResolve_IsPurelyLexical(t *testing.T) {
	// "10.1" is a textual prefix of "10.12.0.1" even though the networks differ.
	table := New(PrefixRule{Prefix: "10.1", SubnetID: 4})
	if id, ok := table.Resolve("10.12.0.1"); !ok || id != 4 {
		t.Fatalf("expected lexical match on subnet 4, got %d (matched=%v)", id, ok)
	}
	// no leading zero stripping
	if _, ok := table.Resolve("010.1.0.1"); ok {
		t.Fatalf("expected no match for zero padded address")
	}
}

func TestResolve_NilTable(t *testing.T) {
	var table *Table
	if _, ok := table.Resolve("10.0.0.1"); ok {
		t.Fatalf("nil table must never match")
	}
}

func TestParse_Strict(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{"missing separator", "10.0.0"},
		{"two separators", "10.0.0=1=2"},
		{"non integer id", "10.0.0=abc"},
		{"empty prefix", "=3"},
		{"empty id", "10.0.0="},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(tt *testing.T) {
			_, err := Parse([]string{"192.168=1", tc.entry}, true)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				tt.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Entry != tc.entry {
				tt.Fatalf("error should name entry %q, got %q", tc.entry, cfgErr.Entry)
			}
		})
	}
}

func TestParse_LenientSkipsMalformed(t *testing.T) {
	table, err := Parse([]string{"10.0.0=1", "garbage", "10.0=x", "172.16=5"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rules := table.Rules()
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d: %v", len(rules), rules)
	}
	if rules[0] != (PrefixRule{Prefix: "10.0.0", SubnetID: 1}) || rules[1] != (PrefixRule{Prefix: "172.16", SubnetID: 5}) {
		t.Fatalf("unexpected rules or order: %v", rules)
	}
}

func TestParse_Empty(t *testing.T) {
	table, err := Parse(nil, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() != 0 {
		t.Fatalf("expected empty table")
	}
	if _, ok := table.Resolve("10.0.0.1"); ok {
		t.Fatalf("empty table must never match")
	}
}

func TestRules_ReturnsCopy(t *testing.T) {
	table := New(PrefixRule{Prefix: "10", SubnetID: 1})
	rules := table.Rules()
	rules[0].SubnetID = 99
	if id, _ := table.Resolve("10.0.0.1"); id != 1 {
		t.Fatalf("table was mutated through Rules(): %d", id)
	}
}
