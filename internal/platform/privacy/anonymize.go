// Package privacy masks caller identifiers before they reach logs. Phone
// numbers, usernames and full addresses never leave the request.
package privacy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
)

// ipKeyPrefix marks client keys derived from the remote address.
const ipKeyPrefix = "ip:"

// AnonymizeClientKey masks a rate limit client key. Address keys keep their
// network prefix; any other key is replaced by a short digest.
func AnonymizeClientKey(key string) string {
	if key == "" {
		return "unknown"
	}
	if ip, ok := strings.CutPrefix(key, ipKeyPrefix); ok {
		return ipKeyPrefix + AnonymizeIP(ip)
	}
	sum := sha256.Sum256([]byte(key))
	return "sub:" + hex.EncodeToString(sum[:4])
}

// AnonymizeIP keeps the /24 of an IPv4 address and the /48 of an IPv6
// address. It returns "invalid" for unparseable input and "unknown" for "".
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "invalid"
	}

	if v4 := parsed.To4(); v4 != nil {
		return fmt.Sprintf("%d.%d.%d.0", v4[0], v4[1], v4[2])
	}

	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::",
		parsed[0], parsed[1],
		parsed[2], parsed[3],
		parsed[4], parsed[5])
}
