package discovery

import (
	"fmt"
	"sort"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// ValidateTXT checks key and value sizes of a TXT record.
func ValidateTXT(txt TXTRecordMap) error {
	total := 0
	for k, v := range txt {
		if k == "" || strings.Contains(k, "=") {
			return fmt.Errorf("%w: invalid key %q", ErrInvalidTXTRecord, k)
		}
		entry := len(k) + 1 + len(v)
		if entry > MaxTXTValueLen {
			return fmt.Errorf("%w: entry %q is %d bytes", ErrInvalidTXTRecord, k, entry)
		}
		total += entry + 1
	}
	if total > MaxTXTRecordSize {
		return fmt.Errorf("%w: record is %d bytes", ErrInvalidTXTRecord, total)
	}
	return nil
}

// TXTRecordsToStrings converts a TXTRecordMap to a slice of "key=value" strings,
// sorted by key. This format is commonly used by mDNS libraries.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	keys := make([]string, 0, len(txt))
	for k := range txt {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]string, 0, len(txt))
	for _, k := range keys {
		if v := txt[k]; v != "" {
			result = append(result, k+"="+v)
		} else {
			result = append(result, k)
		}
	}
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			// Key without value (boolean flag)
			txt[parts[0]] = ""
		}
	}
	return txt
}

// serviceWithSubtypes builds the zeroconf service string "_type._proto,_sub1,_sub2".
func serviceWithSubtypes(serviceType string, subtypes []string) string {
	if len(subtypes) == 0 {
		return serviceType
	}
	return serviceType + "," + strings.Join(subtypes, ",")
}
