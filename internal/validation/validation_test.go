package validation

import (
	"errors"
	"testing"
)

type sample struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=4"`
	Avatar   string  `json:"avatar" validate:"omitempty,url"`
	Name     *string `json:"name" validate:"omitempty,min=1"`
}

func strPtr(s string) *string { return &s }

func TestStruct(t *testing.T) {
	tests := []struct {
		name       string
		in         sample
		wantFields []string
	}{
		{
			name: "valid",
			in:   sample{Email: "a@x.com", Password: "test"},
		},
		{
			name:       "missing everything",
			in:         sample{},
			wantFields: []string{"email", "password"},
		},
		{
			name:       "invalid email",
			in:         sample{Email: "test", Password: "test"},
			wantFields: []string{"email"},
		},
		{
			name:       "short password",
			in:         sample{Email: "a@x.com", Password: "tes"},
			wantFields: []string{"password"},
		},
		{
			name:       "invalid avatar",
			in:         sample{Email: "a@x.com", Password: "test", Avatar: "test"},
			wantFields: []string{"avatar"},
		},
		{
			name:       "empty optional pointer",
			in:         sample{Email: "a@x.com", Password: "test", Name: strPtr("")},
			wantFields: []string{"name"},
		},
		{
			name: "nil optional pointer",
			in:   sample{Email: "a@x.com", Password: "test", Name: nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Struct() unexpected error: %v", err)
				}
				return
			}

			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("Struct() error = %v, want *Error", err)
			}
			if len(verr.Fields) != len(tt.wantFields) {
				t.Fatalf("Struct() got %d field errors, want %d: %+v", len(verr.Fields), len(tt.wantFields), verr.Fields)
			}
			for i, f := range tt.wantFields {
				if verr.Fields[i].Field != f {
					t.Errorf("field[%d] = %q, want %q", i, verr.Fields[i].Field, f)
				}
				if verr.Fields[i].Message == "" {
					t.Errorf("field[%d] has empty message", i)
				}
			}
		})
	}
}

func TestField(t *testing.T) {
	err := Field("master", "required", "master is required")
	if err.Error() != "validation failed: master is required" {
		t.Errorf("Error() = %q", err.Error())
	}
}
