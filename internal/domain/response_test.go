package domain

import "testing"

func TestValidTextResponse(t *testing.T) {
	r := NewTextResponse("hello")
	if !r.Valid() {
		t.Error("text response with text should be valid")
	}
}

func TestInvalidSuccessWithoutText(t *testing.T) {
	r := &AgentResponse{Type: TypeText, Status: NewStatus(StatusSuccess)}
	if r.Valid() {
		t.Error("success without text should be invalid")
	}
}

func TestInvalidImageWithoutPayload(t *testing.T) {
	r := &AgentResponse{Type: TypeEmbeddedImage, Text: "here", Status: NewStatus(StatusSuccess)}
	if r.Valid() {
		t.Error("image response without payload should be invalid")
	}
}

func TestImageWithPayload(t *testing.T) {
	r := NewImageResponse("here", "aGVsbG8=")
	if !r.Valid() {
		t.Error("image response with payload should be valid")
	}
}

func TestNilResponseInvalid(t *testing.T) {
	var r *AgentResponse
	if r.Valid() {
		t.Error("nil response should be invalid")
	}
}

func TestErrorResponseDefaultMessage(t *testing.T) {
	r := NewErrorResponse(StatusNoAvailableAgent)
	if r.Status.Message == "" {
		t.Error("non-success code should have a default message")
	}
	if !r.Valid() {
		t.Error("error response with status should be valid")
	}
}

func TestStatusMessageOverride(t *testing.T) {
	s := NewStatusMessage(StatusNeedsRefinement, "Did you mean 'a' or 'b'?")
	if s.Message != "Did you mean 'a' or 'b'?" {
		t.Errorf("got %q", s.Message)
	}
}

func TestRequestIDTruncation(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	r := NewRequestWithID(string(long), "hi")
	if len(r.ID) != MaxRequestIDLen {
		t.Errorf("ID length = %d, want %d", len(r.ID), MaxRequestIDLen)
	}
}

func TestRequestGeneratedID(t *testing.T) {
	r := NewRequest("hi")
	if r.ID == "" {
		t.Error("generated ID should not be empty")
	}
}

func TestSessionNeverResurrected(t *testing.T) {
	s := NewSession("01ARZ")
	if err := s.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Close()
	if err := s.Open(); err == nil {
		t.Error("reopening a closed session should fail")
	}
}
