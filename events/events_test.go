package events

import "testing"

func TestNilPublisherIsNoOp(t *testing.T) {
	var p *Publisher

	// Must not panic.
	p.Publish(SubjectLint, LintEvent{Valid: true})
	p.Close()
}

func TestConnectEmptyURLDisabled(t *testing.T) {
	p, err := Connect("", "streamdoc", nil)
	if err != nil {
		t.Fatalf("empty URL should disable publishing, got %v", err)
	}
	if p != nil {
		t.Fatal("expected nil publisher")
	}
}

func TestConnectUnreachable(t *testing.T) {
	if _, err := Connect("nats://127.0.0.1:1", "streamdoc", nil); err == nil {
		t.Fatal("expected connection error")
	}
}
