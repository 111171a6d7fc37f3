package channels

import (
	"context"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/droidmind/droidmind/pkg/bus"
)

func TestBaseChannel_AllowListEmptyAllowsAll(t *testing.T) {
	c := NewBaseChannel("test", bus.NewMessageBus(), nil)
	if !c.IsAllowed("anyone|whoever") {
		t.Fatalf("expected empty allow list to allow everyone")
	}
}

func TestBaseChannel_AllowListMatchesIDOrUsername(t *testing.T) {
	c := NewBaseChannel("test", bus.NewMessageBus(), []string{"123456", "@alice", " ", ""})

	cases := []struct {
		senderID string
		want     bool
	}{
		{"123456|bob", true},
		{"999|alice", true},
		{"123456", true},
		{"alice", true},
		{"999|mallory", false},
		{"999", false},
	}
	for _, tc := range cases {
		if got := c.IsAllowed(tc.senderID); got != tc.want {
			t.Errorf("IsAllowed(%q) = %v, want %v", tc.senderID, got, tc.want)
		}
	}
}

func TestBaseChannel_HandleMessagePublishesWithSessionKey(t *testing.T) {
	mb := bus.NewMessageBus()
	defer mb.Close()
	c := NewBaseChannel("discord", mb, nil)

	c.HandleMessage("42|alice", "chat-1", "你好")

	msg, ok := mb.ConsumeInbound(context.Background())
	if !ok {
		t.Fatalf("expected inbound message")
	}
	if msg.Channel != "discord" || msg.ChatID != "chat-1" || msg.Content != "你好" {
		t.Fatalf("unexpected message %+v", msg)
	}
	if msg.SessionKey != "discord:chat-1" {
		t.Fatalf("SessionKey = %q", msg.SessionKey)
	}
}

func TestBaseChannel_HandleMessageDropsDisallowed(t *testing.T) {
	mb := bus.NewMessageBus()
	defer mb.Close()
	c := NewBaseChannel("discord", mb, []string{"42"})

	c.HandleMessage("99|mallory", "chat-1", "hi")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok := mb.ConsumeInbound(ctx); ok {
		t.Fatalf("expected disallowed sender's message to be dropped")
	}
}

func TestSplitMessage(t *testing.T) {
	if got := splitMessage("short", 2000); len(got) != 1 || got[0] != "short" {
		t.Fatalf("expected single chunk, got %v", got)
	}

	long := strings.Repeat("line one\n", 400) // ~3600 bytes
	chunks := splitMessage(long, 2000)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 2000 {
			t.Fatalf("chunk %d exceeds limit: %d bytes", i, len(chunk))
		}
	}
	if rejoined := strings.Join(chunks, "\n"); rejoined != long {
		t.Fatalf("chunks do not reassemble the original message")
	}

	// No newline available: hard cut at the limit.
	hard := strings.Repeat("x", 4100)
	chunks = splitMessage(hard, 2000)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 hard-cut chunks, got %d", len(chunks))
	}
	if strings.Join(chunks, "") != hard {
		t.Fatalf("hard-cut chunks lost content")
	}
}

func TestSplitMessage_MultibyteNeverSplitsRunes(t *testing.T) {
	// 700 three-byte runes, no newlines: the hard cut must land on a rune
	// boundary, not at byte 2000.
	cjk := strings.Repeat("画", 700)
	chunks := splitMessage(cjk, 2000)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if !utf8.ValidString(chunk) {
			t.Fatalf("chunk %d is not valid UTF-8 (len=%d)", i, len(chunk))
		}
		if len(chunk) > 2000 {
			t.Fatalf("chunk %d exceeds limit: %d bytes", i, len(chunk))
		}
	}
	if strings.Join(chunks, "") != cjk {
		t.Fatalf("chunks do not reassemble the original message")
	}
	if len(chunks[0]) != 1998 {
		t.Fatalf("expected first chunk to back off to 1998 bytes, got %d", len(chunks[0]))
	}
}

func TestBaseChannel_RunningFlagConcurrentAccess(t *testing.T) {
	c := NewBaseChannel("test", bus.NewMessageBus(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.setRunning(j%2 == 0)
				_ = c.IsRunning()
			}
		}()
	}
	wg.Wait()

	c.setRunning(true)
	if !c.IsRunning() {
		t.Fatalf("expected channel to report running")
	}
}
