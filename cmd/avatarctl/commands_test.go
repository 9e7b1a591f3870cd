package main

import "testing"

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		in      string
		section string
		field   string
		value   any
		wantErr bool
	}{
		{in: "body.height=0.8", section: "body", field: "height", value: 0.8},
		{in: "hair.style=braids", section: "hair", field: "style", value: "braids"},
		{in: "skin.tone=#8d5524", section: "skin", field: "tone", value: "#8d5524"},
		{in: "body.height", wantErr: true},
		{in: "height=0.3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			section, field, value, err := parseAssignment(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if section != tt.section || field != tt.field || value != tt.value {
				t.Errorf("got %s.%s=%v (%T)", section, field, value, value)
			}
		})
	}
}
