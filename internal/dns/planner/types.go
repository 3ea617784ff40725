package planner

import (
	"strings"

	"github.com/miekg/dns"

	"nathanbeddoewebdev/mailprov/internal/dns/domain"
)

// supportedTypes is the subset of DNS types the provider accepts for creation.
var supportedTypes = map[domain.RecordType]bool{
	domain.RecordTypeA:     true,
	domain.RecordTypeAAAA:  true,
	domain.RecordTypeCNAME: true,
	domain.RecordTypeTXT:   true,
	domain.RecordTypeNS:    true,
	domain.RecordTypeMX:    true,
	domain.RecordTypeSRV:   true,
	domain.RecordTypeTLSA:  true,
	domain.RecordTypeCAA:   true,
	domain.RecordTypeHTTPS: true,
	domain.RecordTypeSVCB:  true,
	domain.RecordTypeSSHFP: true,
	domain.RecordTypePTR:   true,
}

// ParseRecordType normalizes a sheet type cell and reports whether it names a
// supported record type. The cell is trimmed and uppercased first.
func ParseRecordType(s string) (domain.RecordType, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if _, known := dns.StringToType[s]; !known {
		return domain.RecordType(s), false
	}
	t := domain.RecordType(s)
	return t, supportedTypes[t]
}
