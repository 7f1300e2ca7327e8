package normalize

import (
	"strings"

	"github.com/eonlabs/eonparse/internal/model"
)

// roleAliases maps each scalar role to its accepted column names, scanned in
// fixed priority order. The first matching column, in column order, wins.
var roleAliases = []struct {
	role    model.Role
	aliases []string
}{
	{model.RoleTimestamp, []string{"timestamp", "date", "time", "datetime", "@timestamp", "eventtime"}},
	{model.RoleHostname, []string{"hostname", "host", "device", "node", "system"}},
	{model.RoleSeverity, []string{"severity", "level", "loglevel", "log_level", "priority"}},
	{model.RoleProtocol, []string{"protocol", "proto"}},
	{model.RoleAction, []string{"action", "act", "operation", "disposition"}},
	{model.RoleMessage, []string{"message", "msg", "description", "text", "details"}},
	{model.RoleMessageID, []string{"message_id", "msgid", "msg_id", "event_id", "eventid", "signature_id"}},
}

var (
	srcMarkers = []string{"source", "src"}
	dstMarkers = []string{"dest", "dst", "destination"}
)

// AssignRoles infers a semantic role per column by alias lookup. IP and port
// columns are split into src_/dst_ variants by direction markers in the
// name; an unmarked ip or port column counts as source. Columns ending in
// _time or _date are a timestamp fallback when no alias matched.
func AssignRoles(columns []string) map[string]model.Role {
	roles := make(map[string]model.Role, len(columns))
	taken := make(map[model.Role]bool)

	for _, entry := range roleAliases {
		for _, col := range columns {
			if taken[entry.role] || roles[col] != model.RoleNone {
				continue
			}
			if containsFold(entry.aliases, col) {
				roles[col] = entry.role
				taken[entry.role] = true
				break
			}
		}
	}

	for _, col := range columns {
		if roles[col] != model.RoleNone {
			continue
		}
		switch {
		case hasToken(col, "ip") || hasToken(col, "ipaddress") || hasToken(col, "address"):
			assignDirectional(roles, taken, col, model.RoleSrcIP, model.RoleDstIP)
		case hasToken(col, "port"):
			assignDirectional(roles, taken, col, model.RoleSrcPort, model.RoleDstPort)
		}
	}

	if !taken[model.RoleTimestamp] {
		for _, col := range columns {
			if roles[col] != model.RoleNone {
				continue
			}
			if strings.HasSuffix(col, "_time") || strings.HasSuffix(col, "_date") ||
				strings.HasSuffix(col, "time") || strings.HasSuffix(col, "date") {
				roles[col] = model.RoleTimestamp
				taken[model.RoleTimestamp] = true
				break
			}
		}
	}

	return roles
}

func assignDirectional(roles map[string]model.Role, taken map[model.Role]bool, col string, src, dst model.Role) {
	role := src
	if containsAnyMarker(col, dstMarkers) && !containsAnyMarker(col, srcMarkers) {
		role = dst
	}
	if taken[role] {
		return
	}
	roles[col] = role
	taken[role] = true
}

func containsAnyMarker(col string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(col, m) {
			return true
		}
	}
	return false
}

func containsFold(set []string, s string) bool {
	for _, v := range set {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// hasToken reports whether name, split on non-alphanumeric runes, contains
// the token. This keeps "description" from matching "ip".
func hasToken(name, token string) bool {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	for _, f := range fields {
		if f == token {
			return true
		}
	}
	return false
}
