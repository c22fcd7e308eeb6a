package follow

import (
	"errors"
	"testing"

	"example.com/socialhub/internal/models"
	"example.com/socialhub/internal/store"
)

// seedUsers registers alice and bob and returns their ids.
func seedUsers(t *testing.T, st *store.MockStore) (string, string) {
	t.Helper()
	aliceID, err := st.CreateUser("alice", "alice@example.com")
	if err != nil {
		t.Fatalf("seed alice: %v", err)
	}
	bobID, err := st.CreateUser("bob", "bob@example.com")
	if err != nil {
		t.Fatalf("seed bob: %v", err)
	}
	return aliceID, bobID
}

func validationMessages(t *testing.T, err error) models.ValidationErrors {
	t.Helper()
	var verrs models.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	return verrs
}

func TestCreateFollow(t *testing.T) {
	st := store.NewMock()
	aliceID, bobID := seedUsers(t, st)
	m := NewManager(st)

	if err := m.Create("bob", aliceID); err != nil {
		t.Fatalf("create follow failed: %v", err)
	}

	following, err := m.IsFollowing(bobID, aliceID)
	if err != nil {
		t.Fatalf("IsFollowing failed: %v", err)
	}
	if !following {
		t.Fatalf("expected alice to follow bob")
	}

	count, err := m.CountFollowers(bobID)
	if err != nil {
		t.Fatalf("CountFollowers failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 follower, got %d", count)
	}
}

func TestCreateFollow_TrimsUsername(t *testing.T) {
	st := store.NewMock()
	aliceID, _ := seedUsers(t, st)
	m := NewManager(st)

	if err := m.Create("  bob  ", aliceID); err != nil {
		t.Fatalf("expected trimmed username to resolve, got %v", err)
	}
}

func TestCreateFollow_Duplicate(t *testing.T) {
	st := store.NewMock()
	aliceID, bobID := seedUsers(t, st)
	m := NewManager(st)

	if err := m.Create("bob", aliceID); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	errs := validationMessages(t, m.Create("bob", aliceID))
	if len(errs) != 1 || errs[0] != MsgAlreadyFollowing {
		t.Fatalf("expected [%q], got %v", MsgAlreadyFollowing, errs)
	}

	count, _ := m.CountFollowers(bobID)
	if count != 1 {
		t.Fatalf("duplicate create changed follower count: %d", count)
	}
}

func TestCreateFollow_Self(t *testing.T) {
	st := store.NewMock()
	aliceID, _ := seedUsers(t, st)
	m := NewManager(st)

	errs := validationMessages(t, m.Create("alice", aliceID))
	if len(errs) != 1 || errs[0] != MsgFollowSelf {
		t.Fatalf("expected [%q], got %v", MsgFollowSelf, errs)
	}
}

func TestCreateFollow_UnknownTarget(t *testing.T) {
	st := store.NewMock()
	aliceID, _ := seedUsers(t, st)
	m := NewManager(st)

	errs := validationMessages(t, m.Create("nobody", aliceID))
	if len(errs) != 1 || errs[0] != MsgUserDoesNotExist {
		t.Fatalf("expected [%q], got %v", MsgUserDoesNotExist, errs)
	}
}

func TestDeleteFollow(t *testing.T) {
	st := store.NewMock()
	aliceID, bobID := seedUsers(t, st)
	m := NewManager(st)

	if err := m.Create("bob", aliceID); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := m.Delete("bob", aliceID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	following, _ := m.IsFollowing(bobID, aliceID)
	if following {
		t.Fatalf("expected follow to be removed")
	}

	count, _ := m.CountFollowers(bobID)
	if count != 0 {
		t.Fatalf("expected 0 followers after delete, got %d", count)
	}
}

func TestDeleteFollow_NotFollowing(t *testing.T) {
	st := store.NewMock()
	aliceID, _ := seedUsers(t, st)
	m := NewManager(st)

	errs := validationMessages(t, m.Delete("bob", aliceID))
	if len(errs) != 1 || errs[0] != MsgNotFollowing {
		t.Fatalf("expected [%q], got %v", MsgNotFollowing, errs)
	}
}

// Deleting a follow of a nonexistent user surfaces both applicable failures
// in pipeline order.
func TestDeleteFollow_UnknownTargetAccumulates(t *testing.T) {
	st := store.NewMock()
	aliceID, _ := seedUsers(t, st)
	m := NewManager(st)

	errs := validationMessages(t, m.Delete("nobody", aliceID))
	if len(errs) != 2 || errs[0] != MsgUserDoesNotExist || errs[1] != MsgNotFollowing {
		t.Fatalf("expected both failures in order, got %v", errs)
	}
}

func TestFollowerProjection(t *testing.T) {
	st := store.NewMock()
	aliceID, bobID := seedUsers(t, st)
	m := NewManager(st)

	if err := m.Create("bob", aliceID); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	followers, err := m.Followers(bobID)
	if err != nil {
		t.Fatalf("Followers failed: %v", err)
	}
	if len(followers) != 1 {
		t.Fatalf("expected 1 follower, got %d", len(followers))
	}
	if followers[0].Username != "alice" {
		t.Fatalf("unexpected follower username: %s", followers[0].Username)
	}
	if followers[0].Avatar != models.Avatar("alice@example.com") {
		t.Fatalf("unexpected follower avatar: %s", followers[0].Avatar)
	}

	following, err := m.Following(aliceID)
	if err != nil {
		t.Fatalf("Following failed: %v", err)
	}
	if len(following) != 1 || following[0].Username != "bob" {
		t.Fatalf("unexpected following list: %v", following)
	}
}

// Lists and counts must agree after any sequence of creates and deletes.
func TestListsMatchCounts(t *testing.T) {
	st := store.NewMock()
	aliceID, bobID := seedUsers(t, st)
	carolID, err := st.CreateUser("carol", "carol@example.com")
	if err != nil {
		t.Fatalf("seed carol: %v", err)
	}
	m := NewManager(st)

	steps := []func() error{
		func() error { return m.Create("bob", aliceID) },
		func() error { return m.Create("bob", carolID) },
		func() error { return m.Create("carol", aliceID) },
		func() error { return m.Delete("bob", aliceID) },
		func() error { return m.Create("bob", aliceID) },
	}

	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}

		for _, id := range []string{aliceID, bobID, carolID} {
			followers, err := m.Followers(id)
			if err != nil {
				t.Fatalf("Followers(%s): %v", id, err)
			}
			count, err := m.CountFollowers(id)
			if err != nil {
				t.Fatalf("CountFollowers(%s): %v", id, err)
			}
			if len(followers) != count {
				t.Fatalf("step %d: followers list %d != count %d for %s", i, len(followers), count, id)
			}

			following, err := m.Following(id)
			if err != nil {
				t.Fatalf("Following(%s): %v", id, err)
			}
			count, err = m.CountFollowing(id)
			if err != nil {
				t.Fatalf("CountFollowing(%s): %v", id, err)
			}
			if len(following) != count {
				t.Fatalf("step %d: following list %d != count %d for %s", i, len(following), count, id)
			}
		}
	}
}

// A store outage is not a validation failure and must propagate as-is.
func TestStoreFailurePropagates(t *testing.T) {
	m := NewManager(&store.MockStoreFail{})

	err := m.Create("bob", "user_1")
	if err == nil {
		t.Fatalf("expected error from failing store")
	}
	var verrs models.ValidationErrors
	if errors.As(err, &verrs) {
		t.Fatalf("store failure must not masquerade as validation errors: %v", verrs)
	}
}

// raceStore hides an existing edge from the duplicate pre-check so the
// insert-time uniqueness backstop is the only line of defense.
type raceStore struct {
	*store.MockStore
}

func (r *raceStore) FollowExists(authorID, followeeID string) (bool, error) {
	return false, nil
}

// A lost race on the insert surfaces as the same duplicate refusal the
// pre-check produces.
func TestCreateFollow_RaceBackstop(t *testing.T) {
	st := store.NewMock()
	aliceID, bobID := seedUsers(t, st)

	// The concurrent identical request already landed.
	if _, err := st.CreateFollow(aliceID, bobID); err != nil {
		t.Fatalf("direct insert failed: %v", err)
	}

	m := NewManager(&raceStore{MockStore: st})

	errs := validationMessages(t, m.Create("bob", aliceID))
	if len(errs) != 1 || errs[0] != MsgAlreadyFollowing {
		t.Fatalf("expected [%q], got %v", MsgAlreadyFollowing, errs)
	}
}
