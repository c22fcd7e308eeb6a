// Package follow validates and persists directed follow relationships and
// answers social-graph queries (existence, counts, display-ready lists).
package follow

import (
	"errors"
	"strings"

	"example.com/socialhub/internal/models"
	"example.com/socialhub/internal/store"
)

// Validation messages surfaced verbatim to the caller.
const (
	MsgUserDoesNotExist = "User does not exist."
	MsgAlreadyFollowing = "You are already following this user."
	MsgNotFollowing     = "You are not following this user."
	MsgFollowSelf       = "You cannot follow yourself."
)

type action int

const (
	actionCreate action = iota
	actionDelete
)

// Manager enforces the follow validation pipeline in front of the store.
type Manager struct {
	store store.StoreInterface
}

func NewManager(st store.StoreInterface) *Manager {
	return &Manager{store: st}
}

// validate runs the full check pipeline and accumulates every applicable
// failure, so a single call can report multiple problems at once. The
// self-follow check only runs when the target resolved, since it compares
// resolved identifiers. A non-nil error means the store itself failed.
func (m *Manager) validate(followedUsername, authorID string, act action) (string, models.ValidationErrors, error) {
	followedUsername = strings.TrimSpace(followedUsername)

	var errs models.ValidationErrors
	var followedID string

	target, err := m.store.GetUserByUsername(followedUsername)
	switch {
	case err == nil:
		followedID = target.ID
	case errors.Is(err, store.ErrNotFound):
		errs = append(errs, MsgUserDoesNotExist)
	default:
		return "", nil, err
	}

	exists := false
	if followedID != "" {
		exists, err = m.store.FollowExists(authorID, followedID)
		if err != nil {
			return "", nil, err
		}
	}

	if act == actionCreate && exists {
		errs = append(errs, MsgAlreadyFollowing)
	}
	if act == actionDelete && !exists {
		errs = append(errs, MsgNotFollowing)
	}

	if followedID != "" && followedID == authorID {
		errs = append(errs, MsgFollowSelf)
	}

	return followedID, errs, nil
}

// Create makes authorID follow the user named followedUsername. A returned
// models.ValidationErrors lists every reason the request was refused; any
// other error is a store failure.
func (m *Manager) Create(followedUsername, authorID string) error {
	followedID, errs, err := m.validate(followedUsername, authorID, actionCreate)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return errs
	}

	applied, err := m.store.CreateFollow(authorID, followedID)
	if err != nil {
		return err
	}
	if !applied {
		// Lost a race with an identical concurrent request; the store's
		// uniqueness constraint turns it into the same refusal the
		// duplicate pre-check produces.
		return models.ValidationErrors{MsgAlreadyFollowing}
	}
	return nil
}

// Delete makes authorID unfollow the user named followedUsername.
func (m *Manager) Delete(followedUsername, authorID string) error {
	followedID, errs, err := m.validate(followedUsername, authorID, actionDelete)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return errs
	}

	return m.store.DeleteFollow(authorID, followedID)
}

// IsFollowing reports whether actorID currently follows followedID.
func (m *Manager) IsFollowing(followedID, actorID string) (bool, error) {
	return m.store.FollowExists(actorID, followedID)
}

// Followers lists the users following userID, projected to username and
// derived avatar. Order is unspecified.
func (m *Manager) Followers(userID string) ([]models.UserSummary, error) {
	ids, err := m.store.FollowerIDs(userID)
	if err != nil {
		return nil, err
	}
	return m.summaries(ids)
}

// Following lists the users userID follows, same projection as Followers.
func (m *Manager) Following(userID string) ([]models.UserSummary, error) {
	ids, err := m.store.FollowingIDs(userID)
	if err != nil {
		return nil, err
	}
	return m.summaries(ids)
}

func (m *Manager) summaries(ids []string) ([]models.UserSummary, error) {
	users, err := m.store.GetUsersByIDs(ids)
	if err != nil {
		return nil, err
	}
	res := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		res = append(res, models.UserSummary{
			Username: u.Username,
			Avatar:   models.Avatar(u.Email),
		})
	}
	return res, nil
}

// CountFollowers counts the edges Followers lists.
func (m *Manager) CountFollowers(userID string) (int, error) {
	return m.store.CountFollowers(userID)
}

// CountFollowing counts the edges Following lists.
func (m *Manager) CountFollowing(userID string) (int, error) {
	return m.store.CountFollowing(userID)
}
