package respond_test

import (
	"strings"
	"testing"
	"time"

	"github.com/dhvani-ai/dhvani/internal/intent"
	"github.com/dhvani-ai/dhvani/internal/respond"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestReply_TimeTemplate(t *testing.T) {
	t.Parallel()

	g := respond.NewGenerator(respond.WithClock(fixedClock(
		time.Date(2026, time.March, 5, 14, 7, 0, 0, time.UTC))))

	r := g.Reply(intent.Time)
	if !r.Templated {
		t.Error("time reply not marked templated")
	}
	if !strings.Contains(r.Text, "2 बजकर 7 मिनट") {
		t.Errorf("time reply = %q, want 12-hour clock interpolation", r.Text)
	}
}

func TestReply_TimeMidnightIsTwelve(t *testing.T) {
	t.Parallel()

	g := respond.NewGenerator(respond.WithClock(fixedClock(
		time.Date(2026, time.March, 5, 0, 30, 0, 0, time.UTC))))

	if r := g.Reply(intent.Time); !strings.Contains(r.Text, "12 बजकर") {
		t.Errorf("midnight reply = %q, want hour 12", r.Text)
	}
}

func TestReply_DateUsesHindiMonth(t *testing.T) {
	t.Parallel()

	g := respond.NewGenerator(respond.WithClock(fixedClock(
		time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC))))

	r := g.Reply(intent.Date)
	if !r.Templated {
		t.Error("date reply not marked templated")
	}
	if !strings.Contains(r.Text, "1 सितंबर 2026") {
		t.Errorf("date reply = %q, want Hindi month interpolation", r.Text)
	}
}

func TestReply_JokesRotate(t *testing.T) {
	t.Parallel()

	g := respond.NewGenerator()
	first := g.Reply(intent.Joke)
	second := g.Reply(intent.Joke)
	if !first.Templated || !second.Templated {
		t.Error("joke replies not marked templated")
	}
	if first.Text == second.Text {
		t.Errorf("consecutive jokes identical: %q", first.Text)
	}
}

func TestReply_SessionEndingIntents(t *testing.T) {
	t.Parallel()

	g := respond.NewGenerator()
	for _, label := range []string{intent.Stop, intent.Goodbye} {
		if r := g.Reply(label); !r.EndSession {
			t.Errorf("Reply(%s).EndSession = false, want true", label)
		}
	}
	if r := g.Reply(intent.Hello); r.EndSession {
		t.Error("hello reply ends the session")
	}
}

func TestReply_UnknownFallsBackToApology(t *testing.T) {
	t.Parallel()

	g := respond.NewGenerator()
	for _, label := range []string{intent.Unknown, "no_such_intent"} {
		r := g.Reply(label)
		if r.Text != respond.UnknownReply {
			t.Errorf("Reply(%q) = %q, want the apology", label, r.Text)
		}
		if r.Templated || r.EndSession {
			t.Errorf("Reply(%q) flags = %+v, want plain cached reply", label, r)
		}
	}
}

func TestCachedReplies(t *testing.T) {
	t.Parallel()

	replies := respond.CachedReplies()
	if len(replies) == 0 {
		t.Fatal("no cached replies")
	}
	found := false
	for _, r := range replies {
		if r == respond.UnknownReply {
			found = true
		}
		if strings.Contains(r, "%d") || strings.Contains(r, "%s") {
			t.Errorf("cached reply carries a format verb: %q", r)
		}
	}
	if !found {
		t.Error("unknown reply missing from cached set")
	}
}
