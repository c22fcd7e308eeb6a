package store

import (
	"time"

	"github.com/gocql/gocql"

	"example.com/socialhub/internal/models"
)

// AddPost writes the post to the main table and the author's partition.
func (s *Store) AddPost(post models.Post) error {
	batch := s.Session.NewBatch(gocql.LoggedBatch)
	batch.Query(`
		INSERT INTO posts (post_id, title, body, author_id, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		post.ID, post.Title, post.Body, post.AuthorID, post.Created)
	batch.Query(`
		INSERT INTO posts_by_author (author_id, created_at, post_id, title, body)
		VALUES (?, ?, ?, ?, ?)`,
		post.AuthorID, post.Created, post.ID, post.Title, post.Body)

	if err := s.Session.ExecuteBatch(batch); err != nil {
		logg.Error("store", "Failed to add post", err)
		return err
	}

	logg.Info("store", "Post added")
	return nil
}

// GetPost fetches a single post. Returns ErrNotFound if absent.
func (s *Store) GetPost(id string) (models.Post, error) {
	var post models.Post
	var created time.Time
	err := s.Session.Query(`
		SELECT post_id, title, body, author_id, created_at
		FROM posts WHERE post_id = ?`,
		id,
	).Scan(&post.ID, &post.Title, &post.Body, &post.AuthorID, &created)
	if err != nil {
		if err == gocql.ErrNotFound {
			return models.Post{}, ErrNotFound
		}
		logg.Error("store", "Failed to get post", err)
		return models.Post{}, err
	}
	post.Created = created
	return post, nil
}

// UpdatePost rewrites title and body in both tables. The post must carry its
// stored author and creation time so the author partition key resolves.
func (s *Store) UpdatePost(post models.Post) error {
	batch := s.Session.NewBatch(gocql.LoggedBatch)
	batch.Query(`
		UPDATE posts SET title = ?, body = ? WHERE post_id = ?`,
		post.Title, post.Body, post.ID)
	batch.Query(`
		UPDATE posts_by_author SET title = ?, body = ?
		WHERE author_id = ? AND created_at = ? AND post_id = ?`,
		post.Title, post.Body, post.AuthorID, post.Created, post.ID)

	if err := s.Session.ExecuteBatch(batch); err != nil {
		logg.Error("store", "Failed to update post", err)
		return err
	}

	logg.Info("store", "Post updated")
	return nil
}

// DeletePost removes the post from both tables.
func (s *Store) DeletePost(post models.Post) error {
	batch := s.Session.NewBatch(gocql.LoggedBatch)
	batch.Query(`DELETE FROM posts WHERE post_id = ?`, post.ID)
	batch.Query(`
		DELETE FROM posts_by_author
		WHERE author_id = ? AND created_at = ? AND post_id = ?`,
		post.AuthorID, post.Created, post.ID)

	if err := s.Session.ExecuteBatch(batch); err != nil {
		logg.Error("store", "Failed to delete post", err)
		return err
	}

	logg.Info("store", "Post deleted")
	return nil
}

// PostsByAuthor lists an author's posts, newest first.
func (s *Store) PostsByAuthor(authorID string) ([]models.Post, error) {
	iter := s.Session.Query(`
		SELECT post_id, title, body, created_at
		FROM posts_by_author WHERE author_id = ?`,
		authorID,
	).Iter()

	var res []models.Post
	var pid, title, body string
	var created time.Time

	for iter.Scan(&pid, &title, &body, &created) {
		res = append(res, models.Post{
			ID:       pid,
			Title:    title,
			Body:     body,
			AuthorID: authorID,
			Created:  created,
		})
	}

	if err := iter.Close(); err != nil {
		logg.Error("store", "Failed to list posts by author", err)
		return nil, err
	}
	return res, nil
}

// RecentPosts scans up to limit posts. Cassandra has no text index, so
// substring matching happens in the caller over this bounded scan.
func (s *Store) RecentPosts(limit int) ([]models.Post, error) {
	iter := s.Session.Query(`
		SELECT post_id, title, body, author_id, created_at
		FROM posts LIMIT ?`,
		limit,
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
		logg.Error("store", "Failed to scan posts", err)
		return nil, err
	}
	return res, nil
}
