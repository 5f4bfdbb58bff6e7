// Package hashid derives the opaque external identifiers exposed to clients
// in place of internal auto-increment keys. The identifiers are a pure
// function of the tenant ID and the entity names, so callers can compute them
// before the row exists.
package hashid

import (
	"regexp"
	"strconv"
	"unicode/utf16"

	"github.com/appcloud/appcloud-internal/pkg/types"
)

const (
	hstart    uint64 = 0xBB40E64DA205B064
	hmult     uint64 = 7664345821815920749
	tableSeed uint64 = 0x544B2FBACAAF1684
)

var byteTable = makeByteTable()

func makeByteTable() [256]uint64 {
	var table [256]uint64
	h := tableSeed
	for i := range table {
		for j := 0; j < 31; j++ {
			h = (h >> 7) ^ h
			h = (h << 11) ^ h
			h = (h >> 10) ^ h
		}
		table[i] = h
	}
	return table
}

// HashBytes computes the multiply-xor rolling hash over raw bytes. Unlike
// HashString, the result is not sign-normalized. Existing stored identifiers
// depend on both behaviors, so the two variants must not be unified.
func HashBytes(data []byte) int64 {
	h := hstart
	for _, b := range data {
		h = h*hmult ^ byteTable[b]
	}
	return int64(h)
}

// HashString computes the rolling hash over the UTF-16 code units of s,
// feeding each unit through the table as two 8-bit lookups, low byte first.
// Negative results are sign-flipped.
func HashString(s string) int64 {
	h := hstart
	for _, ch := range utf16.Encode([]rune(s)) {
		h = h*hmult ^ byteTable[byte(ch)]
		h = h*hmult ^ byteTable[byte(ch>>8)]
	}
	v := int64(h)
	if v < 0 {
		return -v
	}
	return v
}

// ApplicationHashID returns the external identifier for an application, or ""
// when the name is empty.
func ApplicationHashID(name string, tenantID types.TenantId) string {
	if name == "" {
		return ""
	}
	return strconv.FormatInt(HashString(string(tenantID)+name), 10)
}

// VersionHashID returns the external identifier for an application version,
// or "" when either name is empty.
func VersionHashID(appName, versionName string, tenantID types.TenantId) string {
	if appName == "" || versionName == "" {
		return ""
	}
	return strconv.FormatInt(HashString(string(tenantID)+appName+versionName), 10)
}

var invalidNameChars = regexp.MustCompile("[^a-zA-Z0-9]+")

// RuntimeValidName normalizes an application name so it is usable as a
// runtime service name: every run of non-alphanumeric characters becomes "-".
func RuntimeValidName(name string) string {
	return invalidNameChars.ReplaceAllString(name, "-")
}
