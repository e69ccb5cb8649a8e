package validation_test

import (
	"errors"
	"net/http"
	"testing"

	domainerrors "github.com/habitflow/habitflow-server/internal/errors"
	"github.com/habitflow/habitflow-server/internal/validation"
	"github.com/stretchr/testify/assert"
)

type TestRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Category string `json:"category" validate:"omitempty,oneof=health productivity mindfulness learning fitness social creative other"`
	Color    string `json:"color" validate:"omitempty,hexcolor"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := TestRequest{
		Name:     "Morning run",
		Category: "fitness",
		Color:    "#FF5733",
	}

	err := v.Validate(req)
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name        string
		req         TestRequest
		wantErrCode int
		wantErrMsg  string
	}{
		{
			name: "missing required field",
			req: TestRequest{
				Name:     "", // Missing
				Category: "fitness",
			},
			wantErrCode: http.StatusBadRequest,
			wantErrMsg:  "validation failed",
		},
		{
			name: "name too long",
			req: TestRequest{
				Name: string(make([]byte, 101)),
			},
			wantErrCode: http.StatusBadRequest,
			wantErrMsg:  "validation failed",
		},
		{
			name: "unknown category",
			req: TestRequest{
				Name:     "Read",
				Category: "gardening",
			},
			wantErrCode: http.StatusBadRequest,
			wantErrMsg:  "validation failed",
		},
		{
			name: "bad color",
			req: TestRequest{
				Name:  "Read",
				Color: "blue",
			},
			wantErrCode: http.StatusBadRequest,
			wantErrMsg:  "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			assert.Error(t, err)

			var domainErr *domainerrors.Error
			if assert.True(t, errors.As(err, &domainErr)) {
				assert.Equal(t, tt.wantErrCode, domainErr.HTTPStatus())
				assert.Contains(t, domainErr.Message, tt.wantErrMsg)
			}
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	req := TestRequest{Name: ""}

	err := v.Validate(req)
	assert.Error(t, err)

	var domainErr *domainerrors.Error
	if assert.True(t, errors.As(err, &domainErr)) {
		// Should use JSON tag name "name", not struct field name "Name"
		details, ok := domainErr.Details.(map[string]string)
		if assert.True(t, ok) {
			assert.Contains(t, details, "name")
			assert.NotContains(t, details, "Name")
		}
	}
}
