package rule

import "strings"

// RuleType is the closed set of rule types accepted in a rule list.
// The zero value, Unknown, stands for any token outside the set.
type RuleType uint8

const (
	Unknown RuleType = iota
	Domain
	DomainSuffix
	DomainKeyword
	GeoIP
	IPCIDR
	IPCIDR6
	SrcIPCIDR
	ProcessName
	ProcessPath
	RuleSet
	UserAgent
	URLRegex
	And
	Or
	Not
	In

	maxRuleType
)

var ruleTypeNames = [maxRuleType]string{
	Unknown:       UnknownType,
	Domain:        "DOMAIN",
	DomainSuffix:  "DOMAIN-SUFFIX",
	DomainKeyword: "DOMAIN-KEYWORD",
	GeoIP:         "GEOIP",
	IPCIDR:        "IP-CIDR",
	IPCIDR6:       "IP-CIDR6",
	SrcIPCIDR:     "SRC-IP-CIDR",
	ProcessName:   "PROCESS-NAME",
	ProcessPath:   "PROCESS-PATH",
	RuleSet:       "RULE-SET",
	UserAgent:     "USER-AGENT",
	URLRegex:      "URL-REGEX",
	And:           "AND",
	Or:            "OR",
	Not:           "NOT",
	In:            "IN",
}

var ruleTypesByName = func() map[string]RuleType {
	m := make(map[string]RuleType, maxRuleType-1)
	for t := Domain; t < maxRuleType; t++ {
		m[ruleTypeNames[t]] = t
	}
	return m
}()

// ParseRuleType looks up a type token. Matching ignores case and surrounding
// whitespace. Tokens outside the vocabulary return Unknown and false.
func ParseRuleType(token string) (RuleType, bool) {
	t, ok := ruleTypesByName[strings.ToUpper(strings.TrimSpace(token))]
	if !ok {
		return Unknown, false
	}
	return t, true
}

func (t RuleType) String() string {
	if !t.Known() {
		return UnknownType
	}
	return ruleTypeNames[t]
}

// Known reports whether t is a member of the vocabulary.
func (t RuleType) Known() bool {
	return t > Unknown && t < maxRuleType
}

// Vocabulary returns the accepted type tokens in declaration order.
func Vocabulary() []string {
	names := make([]string, 0, maxRuleType-1)
	for t := Domain; t < maxRuleType; t++ {
		names = append(names, ruleTypeNames[t])
	}
	return names
}
