package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("AA_TEST_HOST", "db.internal")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"env var set", "host: ${AA_TEST_HOST}", "host: db.internal"},
		{"env var set ignores default", "host: ${AA_TEST_HOST:localhost}", "host: db.internal"},
		{"default used when unset", "host: ${AA_TEST_MISSING:localhost}", "host: localhost"},
		{"empty default", "key: ${AA_TEST_MISSING:}", "key: "},
		{"no default kept verbatim", "key: ${AA_TEST_MISSING}", "key: ${AA_TEST_MISSING}"},
		{"plain text untouched", "port: 5432", "port: 5432"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnv(tt.input))
		})
	}
}
