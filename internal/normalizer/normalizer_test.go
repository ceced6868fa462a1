package normalizer

import (
	"reflect"
	"testing"

	"github.com/akolanti/DocGateway/internal/apperror"
)

func TestNormalize_Scenarios(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantSuccess bool
		wantData    any
		wantCode    string
		wantMessage string
	}{
		{
			name:        "Envelope_Success_Stringified_Body",
			raw:         `{"statusCode":200,"body":"{\"success\":true,\"data\":[1,2,3]}"}`,
			wantSuccess: true,
			wantData:    []any{float64(1), float64(2), float64(3)},
		},
		{
			name:        "Envelope_Error_Status",
			raw:         `{"statusCode":404,"body":"{\"message\":\"not found\"}"}`,
			wantSuccess: false,
			wantCode:    string(apperror.KindNotFound),
			wantMessage: "not found",
		},
		{
			name:        "Envelope_Status_Overrides_Inner_Success",
			raw:         `{"statusCode":502,"body":"{\"success\":true}"}`,
			wantSuccess: false,
			wantCode:    string(apperror.KindUpstream),
			wantMessage: "upstream request failed",
		},
		{
			name:        "Envelope_Nested_Body_Object",
			raw:         `{"statusCode":200,"body":{"success":true,"data":{"answer":"yes"}}}`,
			wantSuccess: true,
			wantData:    map[string]any{"answer": "yes"},
		},
		{
			name:        "Direct_Body_Success",
			raw:         `{"success":true,"data":{"answer":"direct"}}`,
			wantSuccess: true,
			wantData:    map[string]any{"answer": "direct"},
		},
		{
			name:        "Direct_Body_Absent_Success_Defaults_True",
			raw:         `{"answer":"implicit"}`,
			wantSuccess: true,
			wantData:    map[string]any{"answer": "implicit"},
		},
		{
			name:        "Body_With_Own_StatusCode_Not_Unwrapped",
			raw:         `{"success":true,"statusCode":500,"data":"payload"}`,
			wantSuccess: true,
			wantData:    "payload",
		},
		{
			name:        "Direct_Body_Explicit_Failure",
			raw:         `{"success":false,"error":{"code":"VALIDATION_ERROR","message":"bad input"}}`,
			wantSuccess: false,
			wantCode:    "VALIDATION_ERROR",
			wantMessage: "bad input",
		},
		{
			name:        "Invalid_JSON",
			raw:         `not json at all`,
			wantSuccess: true,
		},
		{
			name:        "Envelope_Error_Invalid_Inner_Body",
			raw:         `{"statusCode":500,"body":"<html>oops</html>"}`,
			wantSuccess: false,
			wantCode:    string(apperror.KindInternal),
			wantMessage: "upstream request failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Normalize([]byte(tt.raw))

			if res.Success != tt.wantSuccess {
				t.Errorf("Success got %v, want %v", res.Success, tt.wantSuccess)
			}

			if tt.wantData != nil && !reflect.DeepEqual(res.Data, tt.wantData) {
				t.Errorf("Data got %#v, want %#v", res.Data, tt.wantData)
			}

			if tt.wantSuccess {
				if res.Error != nil {
					t.Errorf("unexpected error on success: %+v", res.Error)
				}
				return
			}

			if res.Error == nil {
				t.Fatal("expected error info, got nil")
			}
			if res.Error.Code != tt.wantCode {
				t.Errorf("Code got %s, want %s", res.Error.Code, tt.wantCode)
			}
			if res.Error.Message != tt.wantMessage {
				t.Errorf("Message got %s, want %s", res.Error.Message, tt.wantMessage)
			}
		})
	}
}

func TestNormalize_MetadataPassthrough(t *testing.T) {
	res := Normalize([]byte(`{"success":true,"data":"x","metadata":{"total":2}}`))
	if res.Metadata == nil || res.Metadata["total"] != float64(2) {
		t.Errorf("Metadata got %#v, want total=2", res.Metadata)
	}
}
