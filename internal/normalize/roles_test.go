package normalize

import (
	"testing"

	"github.com/eonlabs/eonparse/internal/model"
)

func TestAssignRoles(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    map[string]model.Role
	}{
		{
			name:    "canonical firewall columns",
			columns: []string{"timestamp", "action", "protocol", "src_ip", "dst_ip", "src_port", "dst_port", "message"},
			want: map[string]model.Role{
				"timestamp": model.RoleTimestamp,
				"action":    model.RoleAction,
				"protocol":  model.RoleProtocol,
				"src_ip":    model.RoleSrcIP,
				"dst_ip":    model.RoleDstIP,
				"src_port":  model.RoleSrcPort,
				"dst_port":  model.RoleDstPort,
				"message":   model.RoleMessage,
			},
		},
		{
			name:    "alias variants",
			columns: []string{"datetime", "host", "level", "proto", "msg", "event_id"},
			want: map[string]model.Role{
				"datetime": model.RoleTimestamp,
				"host":     model.RoleHostname,
				"level":    model.RoleSeverity,
				"proto":    model.RoleProtocol,
				"msg":      model.RoleMessage,
				"event_id": model.RoleMessageID,
			},
		},
		{
			name:    "unmarked ip and port count as source",
			columns: []string{"ip", "port"},
			want: map[string]model.Role{
				"ip":   model.RoleSrcIP,
				"port": model.RoleSrcPort,
			},
		},
		{
			name:    "directional markers split ip columns",
			columns: []string{"source_ip", "destination_ip"},
			want: map[string]model.Role{
				"source_ip":      model.RoleSrcIP,
				"destination_ip": model.RoleDstIP,
			},
		},
		{
			name:    "suffix fallback for timestamp",
			columns: []string{"event_time", "detail"},
			want: map[string]model.Role{
				"event_time": model.RoleTimestamp,
				"detail":     model.RoleNone,
			},
		},
		{
			name:    "first matching column wins the role",
			columns: []string{"date", "time", "message"},
			want: map[string]model.Role{
				"date":    model.RoleTimestamp,
				"message": model.RoleMessage,
			},
		},
		{
			name:    "description does not match ip",
			columns: []string{"description"},
			want: map[string]model.Role{
				"description": model.RoleMessage,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := AssignRoles(tt.columns)
			for col, want := range tt.want {
				if got := roles[col]; got != want {
					t.Errorf("role for %q = %q, want %q", col, got, want)
				}
			}
		})
	}
}

func TestAssignRolesNoDuplicates(t *testing.T) {
	roles := AssignRoles([]string{"timestamp", "eventtime", "host", "hostname"})
	if roles["timestamp"] != model.RoleTimestamp {
		t.Fatalf("timestamp role = %q", roles["timestamp"])
	}
	if roles["eventtime"] != model.RoleNone {
		t.Fatalf("second timestamp candidate should stay unassigned, got %q", roles["eventtime"])
	}
	if roles["host"] != model.RoleHostname {
		t.Fatalf("host role = %q", roles["host"])
	}
	if roles["hostname"] != model.RoleNone {
		t.Fatalf("second hostname candidate should stay unassigned, got %q", roles["hostname"])
	}
}
