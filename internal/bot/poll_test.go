package bot

import "testing"

func newTestPoll(minimum int) *poll {
	return &poll{
		code:    "abc123",
		minimum: minimum,
		voters:  map[string]struct{}{},
	}
}

func TestPollVoteThreshold(t *testing.T) {
	p := newTestPoll(3)

	if _, reached := p.vote("u1"); reached {
		t.Error("threshold reached at 1/3")
	}
	// повторный голос того же пользователя не считается
	if count, _ := p.vote("u1"); count != 1 {
		t.Errorf("count after duplicate vote = %d, want 1", count)
	}
	p.vote("u2")

	count, reached := p.vote("u3")
	if !reached {
		t.Error("threshold not reached at 3/3")
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	// после открытия повторных срабатываний нет
	if _, reached := p.vote("u4"); reached {
		t.Error("reopened after threshold")
	}
}

func TestPollUnvote(t *testing.T) {
	p := newTestPoll(2)

	p.vote("u1")
	p.unvote("u1")

	if _, reached := p.vote("u2"); reached {
		t.Error("threshold reached after unvote, want 1/2")
	}
	if _, reached := p.vote("u1"); !reached {
		t.Error("threshold not reached at 2/2")
	}
}

func TestPollUnvoteAfterOpenIgnored(t *testing.T) {
	p := newTestPoll(1)

	if _, reached := p.vote("u1"); !reached {
		t.Fatal("threshold not reached at 1/1")
	}
	p.unvote("u1")

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.voters) != 1 {
		t.Errorf("voters after post-open unvote = %d, want 1", len(p.voters))
	}
}
