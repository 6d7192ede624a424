package smtp_client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadServerList(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "smtp-servers.yaml")
	content := `
servers:
  - host: smtp.example.org
    port: "587"
    connections: 2
    auth:
      user: followup
      password: from-file
    sendTimeout: 5
from: "Follow-up <noreply@example.org>"
sender: noreply@example.org
replyTo:
  - pharmacovigilance@example.org
`
	require.NoError(t, os.WriteFile(fname, []byte(content), 0o600))

	var sl SmtpServerList
	require.NoError(t, sl.ReadFromFile(fname))
	require.Len(t, sl.Servers, 1)
	assert.Equal(t, "smtp.example.org:587", sl.Servers[0].Address())
	assert.Equal(t, "from-file", sl.Servers[0].AuthData.Password)
	assert.Equal(t, []string{"pharmacovigilance@example.org"}, sl.ReplyTo)

	t.Run("password override", func(t *testing.T) {
		sl.OverridePasswords("")
		assert.Equal(t, "from-file", sl.Servers[0].AuthData.Password)
		sl.OverridePasswords("from-env")
		assert.Equal(t, "from-env", sl.Servers[0].AuthData.Password)
	})

	t.Run("unknown field", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("servers: []\nunknown: 1\n"), 0o600))
		var other SmtpServerList
		assert.Error(t, other.ReadFromFile(bad))
	})
}

func TestValidateServerList(t *testing.T) {
	valid := func() SmtpServerList {
		return SmtpServerList{
			Servers: []SmtpServer{{Host: "smtp.example.org", Port: "25"}},
			From:    "noreply@example.org",
		}
	}
	require.NoError(t, func() error { sl := valid(); return sl.Validate() }())

	tests := []struct {
		name   string
		modify func(sl *SmtpServerList)
	}{
		{"no servers", func(sl *SmtpServerList) { sl.Servers = nil }},
		{"no from", func(sl *SmtpServerList) { sl.From = "" }},
		{"no host", func(sl *SmtpServerList) { sl.Servers[0].Host = "" }},
		{"bad port", func(sl *SmtpServerList) { sl.Servers[0].Port = "smtp" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sl := valid()
			tt.modify(&sl)
			assert.Error(t, sl.Validate())
		})
	}
}
