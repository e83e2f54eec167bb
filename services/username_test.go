package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  error
	}{
		{"Alice_99", "alice_99", nil},
		{"  bob  ", "bob", nil},
		{"ab", "", ErrInvalidUsername},
		{"this_name_is_far_too_long", "", ErrInvalidUsername},
		{"dash-name", "", ErrInvalidUsername},
		{"Admin", "", ErrReservedUsername},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeUsername(tt.in)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
