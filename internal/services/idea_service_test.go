package services

import (
	"errors"
	"sync"
	"testing"

	"ideahub/internal/utils"
)

func TestToggleVote(t *testing.T) {
	gdb := newTestDB(t)
	s := NewIdeaService(gdb)

	alice := createTestUser(t, gdb, "alice@example.com")
	idea, err := s.Create(alice.ID, "Solar benches", "Benches that charge phones.")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if idea.Voters != nil || idea.VoteCount != 0 {
		t.Fatalf("New idea should start with no voters, got count=%d", idea.VoteCount)
	}

	// First toggle adds the vote
	count, err := s.ToggleVote(idea.ID, alice.ID)
	if err != nil {
		t.Fatalf("ToggleVote failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected count 1 after first toggle, got %d", count)
	}

	got, err := s.Get(idea.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	voters := utils.DecodeVoters(got.Voters)
	if len(voters) != 1 || voters[0] != utils.UintToString(alice.ID) {
		t.Errorf("Expected voters [%d], got %v", alice.ID, voters)
	}
	if got.VoteCount != len(voters) {
		t.Errorf("vote_count %d disagrees with voters %v", got.VoteCount, voters)
	}

	// Second identical toggle takes it away again
	count, err = s.ToggleVote(idea.ID, alice.ID)
	if err != nil {
		t.Fatalf("ToggleVote failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected count 0 after second toggle, got %d", count)
	}

	got, err = s.Get(idea.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Voters != nil {
		t.Errorf("Expected NULL voters after vote removed, got %q", *got.Voters)
	}
	if got.VoteCount != 0 {
		t.Errorf("Expected vote count 0, got %d", got.VoteCount)
	}
}

func TestToggleVoteUnknownIdea(t *testing.T) {
	gdb := newTestDB(t)
	s := NewIdeaService(gdb)

	if _, err := s.ToggleVote(9999, 1); !errors.Is(err, ErrIdeaNotFound) {
		t.Errorf("Expected ErrIdeaNotFound, got %v", err)
	}
}

func TestToggleVoteConcurrent(t *testing.T) {
	gdb := newTestDB(t)
	s := NewIdeaService(gdb)

	author := createTestUser(t, gdb, "author@example.com")
	idea, err := s.Create(author.ID, "Rooftop gardens", "Grow food where we live.")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// A one-shot writer can lose the version race at most voterCount-1
	// times, so this stays within the toggle retry budget.
	const voterCount = 4
	var wg sync.WaitGroup
	errs := make([]error, voterCount)
	for i := 0; i < voterCount; i++ {
		user := createTestUser(t, gdb, "voter"+utils.UintToString(uint(i))+"@example.com")
		wg.Add(1)
		go func(i int, userID uint) {
			defer wg.Done()
			_, errs[i] = s.ToggleVote(idea.ID, userID)
		}(i, user.ID)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Concurrent toggle %d failed: %v", i, err)
		}
	}

	// Every vote must have landed, none lost to an interleaved write
	got, err := s.Get(idea.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	voters := utils.DecodeVoters(got.Voters)
	if len(voters) != voterCount {
		t.Errorf("Expected %d voters, got %d (%v)", voterCount, len(voters), voters)
	}
	if got.VoteCount != voterCount {
		t.Errorf("Expected vote count %d, got %d", voterCount, got.VoteCount)
	}
}

func TestUpdateTouchesOnlyNameAndContent(t *testing.T) {
	gdb := newTestDB(t)
	s := NewIdeaService(gdb)

	alice := createTestUser(t, gdb, "alice@example.com")
	bob := createTestUser(t, gdb, "bob@example.com")

	idea, err := s.Create(alice.ID, "Old name", "Old content")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := s.ToggleVote(idea.ID, bob.ID); err != nil {
		t.Fatalf("ToggleVote failed: %v", err)
	}

	fresh, _ := s.Get(idea.ID)
	if err := s.Update(fresh, "New name", "New content"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := s.Get(idea.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "New name" || got.Content != "New content" {
		t.Errorf("Update did not apply: %q / %q", got.Name, got.Content)
	}
	if got.VoteCount != 1 {
		t.Errorf("Update must not touch votes, count became %d", got.VoteCount)
	}
	if !got.DateWritten.Equal(idea.DateWritten) {
		t.Errorf("Update must not touch DateWritten: %v became %v", idea.DateWritten, got.DateWritten)
	}
}

func TestListOrdersByVotes(t *testing.T) {
	gdb := newTestDB(t)
	s := NewIdeaService(gdb)

	alice := createTestUser(t, gdb, "alice@example.com")
	bob := createTestUser(t, gdb, "bob@example.com")

	quiet, _ := s.Create(alice.ID, "Quiet idea", "No votes here.")
	popular, _ := s.Create(alice.ID, "Popular idea", "Everyone loves this.")
	if _, err := s.ToggleVote(popular.ID, alice.ID); err != nil {
		t.Fatalf("ToggleVote failed: %v", err)
	}
	if _, err := s.ToggleVote(popular.ID, bob.ID); err != nil {
		t.Fatalf("ToggleVote failed: %v", err)
	}

	ideas, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(ideas) != 2 {
		t.Fatalf("Expected 2 ideas, got %d", len(ideas))
	}
	if ideas[0].ID != popular.ID || ideas[1].ID != quiet.ID {
		t.Errorf("Expected popular idea first, got order %d, %d", ideas[0].ID, ideas[1].ID)
	}
}

func TestDelete(t *testing.T) {
	gdb := newTestDB(t)
	s := NewIdeaService(gdb)

	alice := createTestUser(t, gdb, "alice@example.com")
	idea, err := s.Create(alice.ID, "Short lived", "Gone soon.")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := s.Delete(idea); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(idea.ID); !errors.Is(err, ErrIdeaNotFound) {
		t.Errorf("Expected ErrIdeaNotFound after delete, got %v", err)
	}
}
