package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolvePathVariables(t *testing.T) {
	FreezeAt(t, time.Date(2024, time.December, 6, 9, 5, 3, 0, time.UTC))

	assert.Equal(t, "images/2024-12-06", ResolvePathVariables("images/{{date}}", "note", "MyVault"))

	tests := []struct {
		name     string
		template string // input
		expected string // output
	}{
		{"No variable", "attachment", "attachment"},
		{"File name", "{{fileName}}/assets", "note/assets"},
		{"Vault", "{{vaultName}}-{{fileName}}", "MyVault-note"},
		{"Time", "{{time}}", "09-05-03"},
		{"Date time", "{{datetime}}", "2024-12-06-09-05-03"},
		{"Components", "{{year}}/{{month}}/{{day}}/{{hour}}{{minute}}{{second}}", "2024/12/06/090503"},
		{"Timestamp", "{{timestamp}}", "1733475903000"},
		{"Repeated", "{{date}}/{{date}}", "2024-12-06/2024-12-06"},
		{"Unknown", "{{unknown}}/{{date}}", "{{unknown}}/2024-12-06"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolvePathVariables(tt.template, "notes/note.md", "MyVault"))
		})
	}
}

func TestResolvePathVariablesAtCallTime(t *testing.T) {
	now := FreezeNow(t)
	assert.Equal(t, now.Format("2006-01-02-15-04-05"), ResolvePathVariables("{{datetime}}", "note", "MyVault"))
}

func TestResolvePathVariablesAt(t *testing.T) {
	at := time.Date(2023, time.January, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "2023-01-02/My Note", ResolvePathVariablesAt("{{date}}/{{fileName}}", "My Note", "", at))
}
