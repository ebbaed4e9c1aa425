package teardown

import (
	"sort"
	"strings"

	"github.com/imamik/sagesweep/internal/config"
	"github.com/imamik/sagesweep/internal/platform/aws"
)

// Rule correlates an auxiliary resource with a domain by comparing the
// resource's attribute values against the domain's ID, name, or both.
type Rule config.MatchRule

// needles returns the domain attributes the rule compares against.
// Empty attributes are dropped so that they never match everything.
func (r Rule) needles(d aws.Domain) []string {
	var out []string
	switch r.Field {
	case config.MatchFieldID:
		out = []string{d.ID}
	case config.MatchFieldName:
		out = []string{d.Name}
	case config.MatchFieldAny:
		out = []string{d.ID, d.Name}
	}
	needles := out[:0]
	for _, n := range out {
		if n != "" {
			needles = append(needles, n)
		}
	}
	return needles
}

// Matches reports whether any value matches the domain under the rule.
func (r Rule) Matches(values []string, d aws.Domain) bool {
	for _, needle := range r.needles(d) {
		for _, v := range values {
			if r.compare(v, needle) {
				return true
			}
		}
	}
	return false
}

func (r Rule) compare(value, needle string) bool {
	switch r.Mode {
	case config.MatchModeSuffix:
		return strings.HasSuffix(value, needle)
	case config.MatchModeExact:
		return value == needle
	default:
		return strings.Contains(value, needle)
	}
}

// MatchFunction reports whether a Lambda function belongs to the domain,
// judged by its name.
func MatchFunction(r Rule, f aws.Function, d aws.Domain) bool {
	return r.Matches(functionValues(f), d)
}

// MatchNetworkInterface reports whether a network interface belongs to the
// domain, judged by the names of its security groups.
func MatchNetworkInterface(r Rule, eni aws.NetworkInterface, d aws.Domain) bool {
	return r.Matches(networkInterfaceValues(eni), d)
}

// MatchFileSystem reports whether an EFS file system belongs to the domain,
// judged by its tag values.
func MatchFileSystem(r Rule, fs aws.FileSystem, d aws.Domain) bool {
	return r.Matches(fileSystemValues(fs), d)
}

func functionValues(f aws.Function) []string {
	return []string{f.Name}
}

func networkInterfaceValues(eni aws.NetworkInterface) []string {
	names := make([]string, 0, len(eni.SecurityGroups))
	for _, g := range eni.SecurityGroups {
		names = append(names, g.Name)
	}
	return names
}

func fileSystemValues(fs aws.FileSystem) []string {
	values := make([]string, 0, len(fs.Tags))
	for _, v := range fs.Tags {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
