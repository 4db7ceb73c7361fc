package testsupport

import "testing"

func TestReplySplitsBatches(t *testing.T) {
	handler := RejectContaining("bad", "Invalid dispatcher")
	got := reply(handler, "/[[BATCH]]dispatch workspace 1;dispatch bad;reload;")
	want := "ok\n\n\nInvalid dispatcher\n\n\nok"
	if got != want {
		t.Fatalf("unexpected batch reply %q", got)
	}
	if got := reply(handler, "dispatch bad"); got != "Invalid dispatcher" {
		t.Fatalf("unexpected single reply %q", got)
	}
}
