package handlers

import (
	"testing"

	"wellmind-backend/internal/domain/models"
)

func TestContactRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  ContactRequest
		want string
	}{
		{
			name: "valid email contact",
			req:  ContactRequest{Name: "Sam", Channel: models.ChannelEmail, Destination: "sam@example.com"},
			want: "",
		},
		{
			name: "valid sms contact",
			req:  ContactRequest{Name: "Pat", Channel: models.ChannelSMS, Destination: "+15550100"},
			want: "",
		},
		{
			name: "missing name",
			req:  ContactRequest{Channel: models.ChannelEmail, Destination: "sam@example.com"},
			want: "name is required",
		},
		{
			name: "whitespace name",
			req:  ContactRequest{Name: "   ", Channel: models.ChannelEmail, Destination: "sam@example.com"},
			want: "name is required",
		},
		{
			name: "missing destination",
			req:  ContactRequest{Name: "Sam", Channel: models.ChannelEmail},
			want: "destination is required",
		},
		{
			name: "unknown channel",
			req:  ContactRequest{Name: "Sam", Channel: "PIGEON", Destination: "sam@example.com"},
			want: "channel must be EMAIL or SMS",
		},
		{
			name: "email channel without email address",
			req:  ContactRequest{Name: "Sam", Channel: models.ChannelEmail, Destination: "not-an-address"},
			want: "destination must be an email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.validate(); got != tt.want {
				t.Errorf("validate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContactRequestValidateTrims(t *testing.T) {
	req := ContactRequest{Name: "  Sam  ", Channel: models.ChannelEmail, Destination: " sam@example.com "}
	if msg := req.validate(); msg != "" {
		t.Fatalf("validate() = %q", msg)
	}
	if req.Name != "Sam" {
		t.Errorf("name = %q, want trimmed", req.Name)
	}
	if req.Destination != "sam@example.com" {
		t.Errorf("destination = %q, want trimmed", req.Destination)
	}
}
