package ingest

import (
	"errors"
	"testing"

	"brandpulse-backend/pkg/logger"
)

func TestJobConstructorsRequireCredentials(t *testing.T) {
	log := logger.NewNop()

	if _, err := NewPlacesJob(nil, nil, log); err == nil {
		t.Error("places job accepted a nil client")
	}
	if _, err := NewNewsJob(nil, nil, nil, log); err == nil {
		t.Error("news job accepted a nil client")
	}
	if _, err := NewLinkedInJob(nil, nil, nil, log); err == nil {
		t.Error("linkedin job accepted a nil client")
	}
	if _, err := NewInsightJob(nil, nil, nil, "q", "brand", log); err == nil {
		t.Error("insight job accepted zero providers")
	}
}

func TestReport_AddError(t *testing.T) {
	r := &Report{}
	r.addError("item-1", errors.New("boom"))
	r.addError("item-2", errors.New("bang"))

	if len(r.Errors) != 2 {
		t.Fatalf("got %d errors, want 2", len(r.Errors))
	}
	if r.Errors[0].ID != "item-1" || r.Errors[0].Message != "boom" {
		t.Errorf("unexpected first error: %+v", r.Errors[0])
	}
}
