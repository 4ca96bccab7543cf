package memory

import (
	"context"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

func TestAppendAndContext(t *testing.T) {
	ctx := context.Background()
	c := New()

	if err := c.Append(ctx, "What is chromem?", "An embedded vector database."); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := c.Append(ctx, "Is it persistent?", "Yes, it writes to disk."); err != nil {
		t.Fatalf("Append: %v", err)
	}

	msgs, err := c.Context(ctx)
	if err != nil {
		t.Fatalf("Context: %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}

	wantTypes := []llms.ChatMessageType{
		llms.ChatMessageTypeHuman,
		llms.ChatMessageTypeAI,
		llms.ChatMessageTypeHuman,
		llms.ChatMessageTypeAI,
	}
	for i, msg := range msgs {
		if msg.GetType() != wantTypes[i] {
			t.Errorf("message %d type = %v, want %v", i, msg.GetType(), wantTypes[i])
		}
	}
	if msgs[0].GetContent() != "What is chromem?" {
		t.Errorf("messages out of order: first = %q", msgs[0].GetContent())
	}
	if msgs[3].GetContent() != "Yes, it writes to disk." {
		t.Errorf("messages out of order: last = %q", msgs[3].GetContent())
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	c := New()
	if err := c.Append(ctx, "q", "a"); err != nil {
		t.Fatal(err)
	}
	if err := c.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	msgs, err := c.Context(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 0 {
		t.Errorf("context should be empty after reset, got %d messages", len(msgs))
	}

	// memory stays usable after a reset
	if err := c.Append(ctx, "q2", "a2"); err != nil {
		t.Fatal(err)
	}
	if n, _ := c.Len(ctx); n != 2 {
		t.Errorf("Len = %d, want 2", n)
	}
}
