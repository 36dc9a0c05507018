// Package subnetmap resolves the Kea subnet a reservation belongs to from
// administrator supplied "prefix=subnet-id" rules.
//
// Prefixes are compared as text against the dotted-decimal address, not as
// CIDR networks, and the first registered rule that matches wins. Rules are
// therefore kept as an ordered list: "10.0.0=1" registered before "10.0=2"
// sends 10.0.0.5 to subnet 1.
package subnetmap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vitistack/common/pkg/loggers/vlog"
)

// PrefixRule binds a textual address prefix to a subnet identifier.
type PrefixRule struct {
	Prefix   string
	SubnetID int
}

// Table is an ordered set of prefix rules.
type Table struct {
	rules []PrefixRule
}

// ConfigError reports a subnet mapping entry that is not of the form prefix=id.
type ConfigError struct {
	Entry  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid subnet mapping %q: %s", e.Entry, e.Reason)
}

// New returns a table holding rules in the given order.
func New(rules ...PrefixRule) *Table {
	t := &Table{rules: make([]PrefixRule, 0, len(rules))}
	t.rules = append(t.rules, rules...)
	return t
}

// Parse builds a table from entries such as "128.111.106=3", keeping the order
// they were supplied in. With strict set the first malformed entry aborts the
// build with a *ConfigError; otherwise malformed entries are logged and skipped.
func Parse(entries []string, strict bool) (*Table, error) {
	t := New()
	if len(entries) == 0 {
		vlog.Warn("no subnet mappings provided, every reservation gets the default subnet id")
		return t, nil
	}

	for _, entry := range entries {
		rule, err := parseEntry(entry)
		if err != nil {
			if strict {
				return nil, err
			}
			vlog.Warn("skipping invalid subnet mapping", "entry", entry, "error", err)
			continue
		}
		t.rules = append(t.rules, rule)
	}
	return t, nil
}

func parseEntry(entry string) (PrefixRule, error) {
	parts := strings.Split(entry, "=")
	if len(parts) != 2 {
		return PrefixRule{}, &ConfigError{Entry: entry, Reason: "expected exactly one '=' separator"}
	}
	if parts[0] == "" {
		return PrefixRule{}, &ConfigError{Entry: entry, Reason: "empty prefix"}
	}
	id, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return PrefixRule{}, &ConfigError{Entry: entry, Reason: "subnet id is not an integer"}
	}
	return PrefixRule{Prefix: parts[0], SubnetID: id}, nil
}

// Resolve returns the subnet id of the first rule whose prefix is a literal
// prefix of address. An empty address never matches.
func (t *Table) Resolve(address string) (int, bool) {
	if t == nil || address == "" {
		return 0, false
	}
	for _, r := range t.rules {
		if strings.HasPrefix(address, r.Prefix) {
			return r.SubnetID, true
		}
	}
	return 0, false
}

// Rules returns a copy of the rules in registration order.
func (t *Table) Rules() []PrefixRule {
	if t == nil {
		return nil
	}
	out := make([]PrefixRule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Len reports the number of registered rules.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}
