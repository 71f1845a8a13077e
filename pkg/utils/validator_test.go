package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "plain address", email: "mabena@example.ac.za", wantErr: false},
		{name: "dotted local part", email: "t.mabena@uni.edu", wantErr: false},
		{name: "plus tag", email: "mabena+claims@uni.edu", wantErr: false},
		{name: "missing at sign", email: "mabena.uni.edu", wantErr: true},
		{name: "missing domain", email: "mabena@", wantErr: true},
		{name: "missing tld", email: "mabena@uni", wantErr: true},
		{name: "empty", email: "", wantErr: true},
		{name: "spaces", email: "ma bena@uni.edu", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "clean text unchanged", input: "March tutorials", want: "March tutorials"},
		{name: "strips control characters", input: "March\x00 tut\x1forials", want: "March tutorials"},
		{name: "strips delete character", input: "notes\x7f", want: "notes"},
		{name: "empty stays empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeString(tt.input))
		})
	}
}
