package api

import (
	"errors"
	"testing"
)

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		body    string
		wantErr bool
	}{
		{"classrooms ok", OpMyClassrooms, `[{"id":1,"name":"A"}]`, false},
		{"classrooms empty", OpMyClassrooms, `[]`, false},
		{"classrooms missing id", OpMyClassrooms, `[{"name":"A"}]`, true},
		{"classrooms not a list", OpMyClassrooms, `{"detail":"x"}`, true},
		{"options need is_correct", OpOptionsByQuestion, `[{"id":1,"name":"A"}]`, true},
		{"submit ok", OpSubmitAnswer, `{"success":true,"message":"Correct answer"}`, false},
		{"submit structured", OpSubmitAnswer, `{"message":"ok","correct":true}`, false},
		{"submit bad correct", OpSubmitAnswer, `{"message":"ok","correct":"yes"}`, true},
		{"session detail", OpSessionDetail, `{"test_records":[{"id":1,"recorded_score":1}]}`, false},
		{"session detail missing records", OpSessionDetail, `{}`, true},
		{"invalid json", OpSessions, `[{`, true},
		{"unknown op passes", "other", `whatever`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(tt.op, []byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *InvalidResponseError
				if !errors.As(err, &inv) {
					t.Errorf("expected *InvalidResponseError, got %T", err)
				}
			}
		})
	}
}
