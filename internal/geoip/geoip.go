// Package geoip reads the country and category codes present in a MaxMind DB,
// so GEOIP rules can be checked against the database a proxy will load.
package geoip

import (
	"os"
	"sort"
	"strings"

	"github.com/oschwald/maxminddb-golang"
	"github.com/pkg/errors"
)

// CodeSet is the set of upper-cased codes found in a database.
type CodeSet struct {
	codes map[string]int
}

// Open reads and indexes the database at path.
func Open(path string) (*CodeSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read geoip db %s", path)
	}
	set, err := Load(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load geoip db %s", path)
	}
	return set, nil
}

// Load parses the MMDB bytes and collects every code with the number of
// networks assigned to it.
func Load(data []byte) (*CodeSet, error) {
	db, err := maxminddb.FromBytes(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open mmdb")
	}
	defer db.Close()

	codes := make(map[string]int)
	networks := db.Networks(maxminddb.SkipAliasedNetworks)
	for networks.Next() {
		var record interface{}
		if _, err := networks.Network(&record); err != nil {
			continue
		}
		code := RecordCode(record)
		if code == "" {
			continue
		}
		codes[code]++
	}
	if err := networks.Err(); err != nil {
		return nil, errors.Wrap(err, "walk mmdb networks")
	}

	return &CodeSet{codes: codes}, nil
}

// NewCodeSet builds a set from explicit codes.
func NewCodeSet(codes ...string) *CodeSet {
	m := make(map[string]int, len(codes))
	for _, c := range codes {
		m[strings.ToUpper(strings.TrimSpace(c))]++
	}
	return &CodeSet{codes: m}
}

// RecordCode extracts the code from a decoded record. Databases differ: some
// store a bare string, others a GeoLite2-style country map, others a flat
// iso_code or code field.
func RecordCode(record interface{}) string {
	var code string
	switch v := record.(type) {
	case string:
		code = v
	case map[string]interface{}:
		if c, ok := v["country"].(map[string]interface{}); ok {
			if iso, ok := c["iso_code"].(string); ok {
				code = iso
			}
		} else if iso, ok := v["iso_code"].(string); ok {
			code = iso
		} else if s, ok := v["code"].(string); ok {
			code = s
		}
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// Has reports whether code is present. Case is ignored.
func (s *CodeSet) Has(code string) bool {
	if s == nil {
		return false
	}
	_, ok := s.codes[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Len returns the number of distinct codes.
func (s *CodeSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.codes)
}

// Codes returns the codes in sorted order.
func (s *CodeSet) Codes() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.codes))
	for c := range s.codes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
