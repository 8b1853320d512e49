package normalizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rawfidkshuvo/king-police-backend/internal/service/normalizer"
)

func TestName(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"  Alice ", "alice"},
		{"José", "jose"},
		{"BÖB", "bob"},
		{"already", "already"},
		{"   ", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizer.Name(tc.in))
		})
	}
}
