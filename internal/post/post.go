// Package post owns the post lifecycle: content validation, ownership-gated
// mutation, and search.
package post

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/socialhub/internal/logger"
	"example.com/socialhub/internal/models"
	"example.com/socialhub/internal/store"
)

var logg = logger.New()

// Validation messages surfaced verbatim to the caller.
const (
	MsgMissingTitle = "You must provide a title."
	MsgMissingBody  = "You must provide post content."
)

// ErrNotAuthorized is the uniform refusal for mutating a post that is absent
// or owned by someone else. The two cases are deliberately indistinguishable
// so a caller cannot probe which posts exist.
var ErrNotAuthorized = errors.New("you do not have permission to perform that action")

// Input is the raw, untrusted content for a create or update.
type Input struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Manager enforces validation and ownership in front of the store.
type Manager struct {
	store     store.StoreInterface
	scanLimit int
}

// NewManager builds a Manager. scanLimit bounds how many posts Search scans.
func NewManager(st store.StoreInterface, scanLimit int) *Manager {
	if scanLimit <= 0 {
		scanLimit = 500
	}
	return &Manager{store: st, scanLimit: scanLimit}
}

// validate trims the input and accumulates every missing-field failure.
func validate(input Input) (Input, models.ValidationErrors) {
	input.Title = strings.TrimSpace(input.Title)
	input.Body = strings.TrimSpace(input.Body)

	var errs models.ValidationErrors
	if input.Title == "" {
		errs = append(errs, MsgMissingTitle)
	}
	if input.Body == "" {
		errs = append(errs, MsgMissingBody)
	}
	return input, errs
}

// Create validates the input and inserts a post owned by authorID, returning
// the new post id. A models.ValidationErrors return lists every rejected
// field; any other error is a store failure.
func (m *Manager) Create(input Input, authorID string) (string, error) {
	input, errs := validate(input)
	if len(errs) > 0 {
		return "", errs
	}

	post := models.Post{
		ID:       uuid.NewString(),
		Title:    input.Title,
		Body:     input.Body,
		AuthorID: authorID,
		Created:  time.Now().UTC(),
	}
	if err := m.store.AddPost(post); err != nil {
		return "", err
	}
	return post.ID, nil
}

// FindByID fetches a post and marks whether visitorID owns it. Absence is
// reported as store.ErrNotFound; read paths keep it distinct from
// authorization failures.
func (m *Manager) FindByID(id, visitorID string) (models.Post, error) {
	post, err := m.store.GetPost(id)
	if err != nil {
		return models.Post{}, err
	}
	post.IsOwner = post.AuthorID == visitorID
	return post, nil
}

// Update replaces a post's content. The ownership gate runs before content
// validation: a missing post and a foreign post both yield ErrNotAuthorized.
func (m *Manager) Update(id string, input Input, visitorID string) error {
	post, err := m.ownedPost(id, visitorID)
	if err != nil {
		return err
	}

	input, errs := validate(input)
	if len(errs) > 0 {
		return errs
	}

	post.Title = input.Title
	post.Body = input.Body
	return m.store.UpdatePost(post)
}

// Delete removes a post behind the same ownership gate as Update.
func (m *Manager) Delete(id, visitorID string) error {
	post, err := m.ownedPost(id, visitorID)
	if err != nil {
		return err
	}
	return m.store.DeletePost(post)
}

func (m *Manager) ownedPost(id, visitorID string) (models.Post, error) {
	post, err := m.store.GetPost(id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Post{}, ErrNotAuthorized
	}
	if err != nil {
		return models.Post{}, err
	}
	if post.AuthorID != visitorID {
		return models.Post{}, ErrNotAuthorized
	}
	return post, nil
}

// ByAuthor lists an author's posts, newest first.
func (m *Manager) ByAuthor(authorID string) ([]models.Post, error) {
	return m.store.PostsByAuthor(authorID)
}

// Search matches term against post titles and bodies, case-insensitively.
// It never fails: a blank term, no match, or a store error all come back as
// an empty list.
func (m *Manager) Search(term string) []models.Post {
	term = strings.ToLower(strings.TrimSpace(term))
	res := []models.Post{}
	if term == "" {
		return res
	}

	posts, err := m.store.RecentPosts(m.scanLimit)
	if err != nil {
		logg.Error("post", "Search scan failed, returning empty result", err)
		return res
	}

	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Body), term) {
			res = append(res, p)
		}
	}
	return res
}
