package post

import (
	"errors"
	"testing"

	"example.com/socialhub/internal/models"
	"example.com/socialhub/internal/store"
)

func newTestManager() (*Manager, *store.MockStore) {
	st := store.NewMock()
	return NewManager(st, 100), st
}

func mustCreate(t *testing.T, m *Manager, title, body, authorID string) string {
	t.Helper()
	id, err := m.Create(Input{Title: title, Body: body}, authorID)
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	return id
}

func TestCreatePost(t *testing.T) {
	m, st := newTestManager()

	id := mustCreate(t, m, "First post", "Hello world", "user_1")
	if id == "" {
		t.Fatalf("expected non-empty post id")
	}

	stored, err := st.GetPost(id)
	if err != nil {
		t.Fatalf("stored post missing: %v", err)
	}
	if stored.AuthorID != "user_1" || stored.Title != "First post" {
		t.Fatalf("stored post wrong: %+v", stored)
	}
	if stored.Created.IsZero() {
		t.Fatalf("expected creation timestamp to be set")
	}
}

func TestCreatePost_TrimsFields(t *testing.T) {
	m, st := newTestManager()

	id := mustCreate(t, m, "  padded  ", "  body  ", "user_1")
	stored, _ := st.GetPost(id)
	if stored.Title != "padded" || stored.Body != "body" {
		t.Fatalf("fields not trimmed: %+v", stored)
	}
}

func TestCreatePost_ValidationAccumulates(t *testing.T) {
	m, _ := newTestManager()

	_, err := m.Create(Input{Title: "   ", Body: ""}, "user_1")
	var verrs models.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if len(verrs) != 2 || verrs[0] != MsgMissingTitle || verrs[1] != MsgMissingBody {
		t.Fatalf("expected both failures in order, got %v", verrs)
	}
}

func TestFindByID_OwnerFlag(t *testing.T) {
	m, _ := newTestManager()
	id := mustCreate(t, m, "t", "b", "user_1")

	asOwner, err := m.FindByID(id, "user_1")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if !asOwner.IsOwner {
		t.Fatalf("expected owner flag for author")
	}

	asVisitor, err := m.FindByID(id, "user_2")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if asVisitor.IsOwner {
		t.Fatalf("expected no owner flag for visitor")
	}
}

// Read paths keep not-found distinct from authorization failures.
func TestFindByID_NotFound(t *testing.T) {
	m, _ := newTestManager()

	_, err := m.FindByID("missing", "user_1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestUpdatePost(t *testing.T) {
	m, st := newTestManager()
	id := mustCreate(t, m, "old title", "old body", "user_1")

	if err := m.Update(id, Input{Title: "new title", Body: "new body"}, "user_1"); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	stored, _ := st.GetPost(id)
	if stored.Title != "new title" || stored.Body != "new body" {
		t.Fatalf("update not persisted: %+v", stored)
	}
}

// A missing post and a foreign post must be indistinguishable on mutation,
// and neither may change stored state.
func TestUpdatePost_UniformAuthorizationFailure(t *testing.T) {
	m, st := newTestManager()
	id := mustCreate(t, m, "title", "body", "user_1")

	foreignErr := m.Update(id, Input{Title: "hacked", Body: "hacked"}, "user_2")
	if !errors.Is(foreignErr, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for foreign visitor, got %v", foreignErr)
	}

	missingErr := m.Update("missing", Input{Title: "x", Body: "y"}, "user_2")
	if !errors.Is(missingErr, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for missing post, got %v", missingErr)
	}

	// Identical failure regardless of which invalid input came with it.
	invalidErr := m.Update(id, Input{}, "user_2")
	if !errors.Is(invalidErr, ErrNotAuthorized) {
		t.Fatalf("ownership gate must run before validation, got %v", invalidErr)
	}

	stored, _ := st.GetPost(id)
	if stored.Title != "title" || stored.Body != "body" {
		t.Fatalf("unauthorized update mutated the post: %+v", stored)
	}
}

func TestUpdatePost_ValidationAfterOwnership(t *testing.T) {
	m, st := newTestManager()
	id := mustCreate(t, m, "title", "body", "user_1")

	err := m.Update(id, Input{Title: "", Body: ""}, "user_1")
	var verrs models.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if len(verrs) != 2 {
		t.Fatalf("expected both field failures, got %v", verrs)
	}

	stored, _ := st.GetPost(id)
	if stored.Title != "title" {
		t.Fatalf("failed validation must not persist: %+v", stored)
	}
}

func TestDeletePost(t *testing.T) {
	m, _ := newTestManager()
	id := mustCreate(t, m, "t", "b", "user_1")

	if err := m.Delete(id, "user_1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := m.FindByID(id, "user_1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected post gone, got %v", err)
	}
}

func TestDeletePost_NonOwner(t *testing.T) {
	m, _ := newTestManager()
	id := mustCreate(t, m, "t", "b", "user_1")

	if err := m.Delete(id, "user_2"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if _, err := m.FindByID(id, "user_1"); err != nil {
		t.Fatalf("post must survive unauthorized delete: %v", err)
	}
}

func TestSearch(t *testing.T) {
	m, _ := newTestManager()
	mustCreate(t, m, "Gardening tips", "Water your plants", "user_1")
	mustCreate(t, m, "Travel log", "Mountains and gardens", "user_2")
	mustCreate(t, m, "Cooking", "Pasta recipes", "user_3")

	hits := m.Search("garden")
	if len(hits) != 2 {
		t.Fatalf("expected 2 matches across title and body, got %d", len(hits))
	}

	if hits := m.Search("PASTA"); len(hits) != 1 {
		t.Fatalf("expected case-insensitive match, got %d", len(hits))
	}
}

// Search never rejects: blank terms, unmatched terms, and store failures all
// come back as empty lists.
func TestSearch_NeverFails(t *testing.T) {
	m, _ := newTestManager()
	mustCreate(t, m, "t", "b", "user_1")

	if hits := m.Search(""); len(hits) != 0 {
		t.Fatalf("blank term must match nothing, got %d", len(hits))
	}
	if hits := m.Search("   "); len(hits) != 0 {
		t.Fatalf("whitespace term must match nothing, got %d", len(hits))
	}
	if hits := m.Search("no-such-term-xyz"); len(hits) != 0 {
		t.Fatalf("unmatched term must yield empty list, got %d", len(hits))
	}

	failing := NewManager(&store.MockStoreFail{}, 100)
	if hits := failing.Search("anything"); hits == nil || len(hits) != 0 {
		t.Fatalf("store failure must yield empty list, got %v", hits)
	}
}

func TestByAuthor(t *testing.T) {
	m, _ := newTestManager()
	mustCreate(t, m, "one", "b", "user_1")
	mustCreate(t, m, "two", "b", "user_1")
	mustCreate(t, m, "other", "b", "user_2")

	posts, err := m.ByAuthor("user_1")
	if err != nil {
		t.Fatalf("ByAuthor failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
}
