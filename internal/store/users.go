package store

import (
	"github.com/gocql/gocql"

	"example.com/socialhub/internal/models"
)

// GetUserByUsername resolves a username to its user record.
// Returns ErrNotFound if no such user exists.
func (s *Store) GetUserByUsername(username string) (models.User, error) {
	var id, email string
	err := s.Session.Query(
		`SELECT user_id, email FROM users_by_username WHERE username = ?`,
		username,
	).Scan(&id, &email)
	if err != nil {
		if err == gocql.ErrNotFound {
			return models.User{}, ErrNotFound
		}
		logg.Error("store", "Failed to query user by username", err)
		return models.User{}, err
	}
	return models.User{ID: id, Username: username, Email: email}, nil
}

// CreateUser creates a new user if the username does not exist.
// Returns the existing user_id if username already exists.
func (s *Store) CreateUser(username, email string) (string, error) {
	existing, err := s.GetUserByUsername(username)
	if err == nil {
		return existing.ID, nil
	}
	if err != ErrNotFound {
		return "", err
	}

	id := gocql.TimeUUID().String()

	// CAS insert so two concurrent registrations of the same username
	// cannot both win.
	result := make(map[string]interface{})
	applied, err := s.Session.Query(`
		INSERT INTO users_by_username (username, user_id, email)
		VALUES (?, ?, ?) IF NOT EXISTS`,
		username, id, email,
	).MapScanCAS(result)
	if err != nil {
		logg.Error("store", "Failed to create username entry", err)
		return "", err
	}

	if !applied {
		// Another process already created this user
		winner, err := s.GetUserByUsername(username)
		if err != nil {
			return "", err
		}
		return winner.ID, nil
	}

	err = s.Session.Query(`
		INSERT INTO users (user_id, username, email)
		VALUES (?, ?, ?)`,
		id, username, email,
	).Exec()
	if err != nil {
		logg.Error("store", "Failed to create user in main table", err)
		return "", err
	}

	logg.Info("store", "User created successfully")
	return id, nil
}

// GetUsersByIDs batch-fetches user records for the given identifiers.
// Missing identifiers are silently absent from the result.
func (s *Store) GetUsersByIDs(ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	iter := s.Session.Query(
		`SELECT user_id, username, email FROM users WHERE user_id IN ?`,
		ids,
	).Iter()

	var id, username, email string
	var res []models.User
	for iter.Scan(&id, &username, &email) {
		res = append(res, models.User{ID: id, Username: username, Email: email})
	}

	if err := iter.Close(); err != nil {
		logg.Error("store", "Failed to batch-fetch users", err)
		return nil, err
	}
	return res, nil
}
