package store

import (
	"time"

	"example.com/socialhub/internal/models"
)

// AddToFeed delivers a post into one user's feed partition.
func (s *Store) AddToFeed(userID string, post models.Post) error {
	if err := s.Session.Query(`
		INSERT INTO feed_by_user (user_id, created_at, post_id, title, body, author_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, post.Created, post.ID, post.Title, post.Body, post.AuthorID,
	).Exec(); err != nil {
		logg.Error("store", "Failed to add post to feed", err)
		return err
	}

	logg.Info("store", "Post added to user's feed")
	return nil
}

// GetFeed reads a user's feed, newest first.
func (s *Store) GetFeed(userID string, limit int) ([]models.Post, error) {
	iter := s.Session.Query(`
		SELECT post_id, title, body, author_id, created_at
		FROM feed_by_user WHERE user_id = ? LIMIT ?`,
		userID, limit,
	).Iter()

	var res []models.Post
	var pid, title, body, aid string
	var created time.Time

	for iter.Scan(&pid, &title, &body, &aid, &created) {
		res = append(res, models.Post{
			ID:       pid,
			Title:    title,
			Body:     body,
			AuthorID: aid,
			Created:  created,
		})
	}

	if err := iter.Close(); err != nil {
		logg.Error("store", "Failed to retrieve user feed", err)
		return nil, err
	}
	return res, nil
}
