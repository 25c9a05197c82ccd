package format

import (
	"fmt"
	"strings"
)

// ClientCode is the upper-cased first three letters of client, or OTH.
func ClientCode(client string) string {
	client = strings.TrimSpace(client)
	if client == "" {
		return "OTH"
	}
	r := []rune(client)
	if len(r) > 3 {
		r = r[:3]
	}
	return strings.ToUpper(string(r))
}

// BoxID composes the printed box identifier, e.g. A1-TEL-007.
func BoxID(agentID, client, boxNumber string) string {
	return agentID + "-" + ClientCode(client) + "-" + boxNumber
}

func PadBoxNumber(n int) string {
	return fmt.Sprintf("%03d", n)
}
