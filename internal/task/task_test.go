package task

import "testing"

func TestValidateShape_RequiresID(t *testing.T) {
	tsk := Task{Tool: "mock:work"}
	if err := tsk.ValidateShape(); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestValidateShape_RequiresToolPattern(t *testing.T) {
	tsk := Task{ID: "t1", Tool: "not-a-valid-tool-id"}
	if err := tsk.ValidateShape(); err == nil {
		t.Fatal("expected error for malformed tool id")
	}
}

func TestValidateShape_OK(t *testing.T) {
	tsk := Task{ID: "t1", Tool: "mock:work"}
	if err := tsk.ValidateShape(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTaskResult_Validate(t *testing.T) {
	if err := (TaskResult{TaskID: "t1", Status: StatusSuccess}).Validate(); err == nil {
		t.Fatal("expected error: success without output")
	}
	if err := (TaskResult{TaskID: "t1", Status: StatusError}).Validate(); err == nil {
		t.Fatal("expected error: error without message")
	}
	if err := (TaskResult{TaskID: "t1", Status: StatusFailedSafe}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
