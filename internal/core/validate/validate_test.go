package validate

import (
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid message", "Added to cart", false},
		{"valid with punctuation", "Payment failed: card declined", false},
		{"empty string", "", true},
		{"only spaces", "   ", true},
		{"only tabs", "\t\t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Message(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "Message(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		})
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"success", "success", false},
		{"error", "error", false},
		{"info", "info", false},
		{"warning", "warning", false},
		{"empty", "", true},
		{"uppercase", "SUCCESS", true},
		{"unknown", "critical", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Category(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "Category(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		})
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty selects default", "", false},
		{"milliseconds", "1500ms", false},
		{"seconds", "3s", false},
		{"zero", "0s", true},
		{"negative", "-1s", true},
		{"no unit", "10", true},
		{"garbage", "soon", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Duration(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "Duration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.NoError(t, Offset("0s"))
	assert.NoError(t, Offset("2.5s"))
	assert.Error(t, Offset(""))
	assert.Error(t, Offset("-1s"))
}

func TestMessageField(t *testing.T) {
	err := MessageField("steps[0].message", " ")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "steps[0].message", fieldErrs[0].Field)

	assert.NoError(t, CategoryField("steps[0].category", "info"))
}
