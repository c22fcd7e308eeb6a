package store

import (
	"github.com/gocql/gocql"
)

// CreateFollow inserts the directed edge author -> followee. The insert is a
// lightweight transaction on the (author_id, followee_id) primary key, so the
// pair stays unique even when two identical requests race past the duplicate
// pre-check. Returns applied=false when the edge already existed.
func (s *Store) CreateFollow(authorID, followeeID string) (bool, error) {
	result := make(map[string]interface{})
	applied, err := s.Session.Query(`
		INSERT INTO follows (author_id, followee_id)
		VALUES (?, ?) IF NOT EXISTS`,
		authorID, followeeID,
	).MapScanCAS(result)
	if err != nil {
		logg.Error("store", "Failed to create follow relationship", err)
		return false, err
	}
	if !applied {
		return false, nil
	}

	if err := s.Session.Query(`
		INSERT INTO followers_by_followee (followee_id, author_id)
		VALUES (?, ?)`,
		followeeID, authorID,
	).Exec(); err != nil {
		logg.Error("store", "Failed to create follower index entry", err)
		return false, err
	}

	logg.Info("store", "Follow relationship created")
	return true, nil
}

// DeleteFollow removes the edge from both lookup tables.
func (s *Store) DeleteFollow(authorID, followeeID string) error {
	batch := s.Session.NewBatch(gocql.LoggedBatch)
	batch.Query(`DELETE FROM follows WHERE author_id = ? AND followee_id = ?`, authorID, followeeID)
	batch.Query(`DELETE FROM followers_by_followee WHERE followee_id = ? AND author_id = ?`, followeeID, authorID)

	if err := s.Session.ExecuteBatch(batch); err != nil {
		logg.Error("store", "Failed to delete follow relationship", err)
		return err
	}

	logg.Info("store", "Follow relationship deleted")
	return nil
}

// FollowExists reports whether author currently follows followee.
func (s *Store) FollowExists(authorID, followeeID string) (bool, error) {
	var found string
	err := s.Session.Query(
		`SELECT author_id FROM follows WHERE author_id = ? AND followee_id = ?`,
		authorID, followeeID,
	).Scan(&found)
	if err != nil {
		if err == gocql.ErrNotFound {
			return false, nil
		}
		logg.Error("store", "Failed to check follow existence", err)
		return false, err
	}
	return true, nil
}

// FollowerIDs returns the ids of users following userID.
func (s *Store) FollowerIDs(userID string) ([]string, error) {
	iter := s.Session.Query(
		`SELECT author_id FROM followers_by_followee WHERE followee_id = ?`,
		userID,
	).Iter()

	var id string
	var res []string
	for iter.Scan(&id) {
		res = append(res, id)
	}

	if err := iter.Close(); err != nil {
		logg.Error("store", "Failed to get followers", err)
		return nil, err
	}
	return res, nil
}

// FollowingIDs returns the ids of users that userID follows.
func (s *Store) FollowingIDs(userID string) ([]string, error) {
	iter := s.Session.Query(
		`SELECT followee_id FROM follows WHERE author_id = ?`,
		userID,
	).Iter()

	var id string
	var res []string
	for iter.Scan(&id) {
		res = append(res, id)
	}

	if err := iter.Close(); err != nil {
		logg.Error("store", "Failed to get followings", err)
		return nil, err
	}
	return res, nil
}

// CountFollowers counts with the same predicate FollowerIDs reads with.
func (s *Store) CountFollowers(userID string) (int, error) {
	var cnt int
	err := s.Session.Query(
		`SELECT COUNT(*) FROM followers_by_followee WHERE followee_id = ?`,
		userID,
	).Scan(&cnt)
	if err != nil {
		logg.Error("store", "Failed to count followers", err)
		return 0, err
	}
	return cnt, nil
}

// CountFollowing counts with the same predicate FollowingIDs reads with.
func (s *Store) CountFollowing(userID string) (int, error) {
	var cnt int
	err := s.Session.Query(
		`SELECT COUNT(*) FROM follows WHERE author_id = ?`,
		userID,
	).Scan(&cnt)
	if err != nil {
		logg.Error("store", "Failed to count followings", err)
		return 0, err
	}
	return cnt, nil
}
