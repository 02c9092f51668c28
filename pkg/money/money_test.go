package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/tgshopai/tgshop-backend/pkg/errors"
)

func TestParseMinor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{name: "dot separator", input: "499.00", want: 49900},
		{name: "comma separator", input: "499,90", want: 49990},
		{name: "no fraction", input: "499", want: 49900},
		{name: "zero", input: "0", want: 0},
		{name: "whitespace", input: "  12.50 ", want: 1250},
		{name: "half rounds up", input: "0.005", want: 1},
		{name: "sub-cent rounds down", input: "0.004", want: 0},
		{name: "large amount", input: "3499.00", want: 349900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMinor(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMinorRejectsInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "12.3.4", "-1", "-0.01"} {
		_, err := ParseMinor(input)
		require.Error(t, err, "input %q", input)

		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "input %q", input)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code(), "input %q", input)
	}
}

func TestFormatMinor(t *testing.T) {
	assert.Equal(t, "499.00", FormatMinor(49900))
	assert.Equal(t, "0.05", FormatMinor(5))
	assert.Equal(t, "0.00", FormatMinor(0))
}
