package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"example.com/socialhub/internal/models"
)

// MockStore simulates Cassandra operations for testing.
type MockStore struct {
	mu          sync.Mutex
	userCounter int

	Users      map[string]models.User     // keyed by user id
	Follows    map[string]map[string]bool // author id -> followee id set
	Posts      map[string]models.Post     // keyed by post id
	Feeds      map[string][]models.Post   // keyed by user id
	ShouldFail bool                       // flag to simulate failures
}

// NewMock initializes a new mock store
func NewMock() *MockStore {
	return &MockStore{
		Users:   make(map[string]models.User),
		Follows: make(map[string]map[string]bool),
		Posts:   make(map[string]models.Post),
		Feeds:   make(map[string][]models.Post),
	}
}

func (m *MockStore) Close() {}

// --- Users ---

func (m *MockStore) CreateUser(username, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return "", errors.New("mock: create user failed")
	}
	for id, u := range m.Users {
		if u.Username == username {
			return id, nil
		}
	}
	m.userCounter++
	id := fmt.Sprintf("user_%d", m.userCounter)
	m.Users[id] = models.User{ID: id, Username: username, Email: email}
	return id, nil
}

func (m *MockStore) GetUserByUsername(username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return models.User{}, errors.New("mock: get user failed")
	}
	for _, u := range m.Users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *MockStore) GetUsersByIDs(ids []string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errors.New("mock: get users failed")
	}
	var res []models.User
	for _, id := range ids {
		if u, ok := m.Users[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

// --- Follows ---

func (m *MockStore) CreateFollow(authorID, followeeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return false, errors.New("mock: follow failed")
	}
	if m.Follows[authorID] == nil {
		m.Follows[authorID] = make(map[string]bool)
	}
	if m.Follows[authorID][followeeID] {
		return false, nil
	}
	m.Follows[authorID][followeeID] = true
	return true, nil
}

func (m *MockStore) DeleteFollow(authorID, followeeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return errors.New("mock: unfollow failed")
	}
	delete(m.Follows[authorID], followeeID)
	return nil
}

func (m *MockStore) FollowExists(authorID, followeeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return false, errors.New("mock: follow check failed")
	}
	return m.Follows[authorID][followeeID], nil
}

func (m *MockStore) FollowerIDs(userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errors.New("mock: get followers failed")
	}
	var res []string
	for author, set := range m.Follows {
		if set[userID] {
			res = append(res, author)
		}
	}
	sort.Strings(res)
	return res, nil
}

func (m *MockStore) FollowingIDs(userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errors.New("mock: get followings failed")
	}
	var res []string
	for followee := range m.Follows[userID] {
		res = append(res, followee)
	}
	sort.Strings(res)
	return res, nil
}

func (m *MockStore) CountFollowers(userID string) (int, error) {
	ids, err := m.FollowerIDs(userID)
	return len(ids), err
}

func (m *MockStore) CountFollowing(userID string) (int, error) {
	ids, err := m.FollowingIDs(userID)
	return len(ids), err
}

// --- Posts ---

func (m *MockStore) AddPost(post models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return errors.New("mock: add post failed")
	}
	m.Posts[post.ID] = post
	return nil
}

func (m *MockStore) GetPost(id string) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return models.Post{}, errors.New("mock: get post failed")
	}
	post, ok := m.Posts[id]
	if !ok {
		return models.Post{}, ErrNotFound
	}
	return post, nil
}

func (m *MockStore) UpdatePost(post models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return errors.New("mock: update post failed")
	}
	stored, ok := m.Posts[post.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Title = post.Title
	stored.Body = post.Body
	m.Posts[post.ID] = stored
	return nil
}

func (m *MockStore) DeletePost(post models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return errors.New("mock: delete post failed")
	}
	delete(m.Posts, post.ID)
	return nil
}

func (m *MockStore) PostsByAuthor(authorID string) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errors.New("mock: posts by author failed")
	}
	var res []models.Post
	for _, p := range m.Posts {
		if p.AuthorID == authorID {
			res = append(res, p)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Created.After(res[j].Created) })
	return res, nil
}

func (m *MockStore) RecentPosts(limit int) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errors.New("mock: recent posts failed")
	}
	var res []models.Post
	for _, p := range m.Posts {
		if len(res) >= limit {
			break
		}
		res = append(res, p)
	}
	return res, nil
}

// --- Feeds ---

func (m *MockStore) AddToFeed(userID string, post models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return errors.New("mock: add to feed failed")
	}
	m.Feeds[userID] = append(m.Feeds[userID], post)
	return nil
}

func (m *MockStore) GetFeed(userID string, limit int) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errors.New("mock: get feed failed")
	}
	posts := m.Feeds[userID]
	if len(posts) > limit {
		return posts[:limit], nil
	}
	return posts, nil
}

// ---------------------------------------------
// MockStoreFail always returns errors for negative tests
type MockStoreFail struct{}

func (m *MockStoreFail) Close() {}

func (m *MockStoreFail) CreateUser(username, email string) (string, error) {
	return "", errors.New("mock store create user failed")
}

func (m *MockStoreFail) GetUserByUsername(username string) (models.User, error) {
	return models.User{}, errors.New("mock store get user failed")
}

func (m *MockStoreFail) GetUsersByIDs(ids []string) ([]models.User, error) {
	return nil, errors.New("mock store get users failed")
}

func (m *MockStoreFail) CreateFollow(authorID, followeeID string) (bool, error) {
	return false, errors.New("mock store create follow failed")
}

func (m *MockStoreFail) DeleteFollow(authorID, followeeID string) error {
	return errors.New("mock store delete follow failed")
}

func (m *MockStoreFail) FollowExists(authorID, followeeID string) (bool, error) {
	return false, errors.New("mock store follow check failed")
}

func (m *MockStoreFail) FollowerIDs(userID string) ([]string, error) {
	return nil, errors.New("mock store get followers failed")
}

func (m *MockStoreFail) FollowingIDs(userID string) ([]string, error) {
	return nil, errors.New("mock store get followings failed")
}

func (m *MockStoreFail) CountFollowers(userID string) (int, error) {
	return 0, errors.New("mock store count followers failed")
}

func (m *MockStoreFail) CountFollowing(userID string) (int, error) {
	return 0, errors.New("mock store count following failed")
}

func (m *MockStoreFail) AddPost(post models.Post) error {
	return errors.New("mock store add post failed")
}

func (m *MockStoreFail) GetPost(id string) (models.Post, error) {
	return models.Post{}, errors.New("mock store get post failed")
}

func (m *MockStoreFail) UpdatePost(post models.Post) error {
	return errors.New("mock store update post failed")
}

func (m *MockStoreFail) DeletePost(post models.Post) error {
	return errors.New("mock store delete post failed")
}

func (m *MockStoreFail) PostsByAuthor(authorID string) ([]models.Post, error) {
	return nil, errors.New("mock store posts by author failed")
}

func (m *MockStoreFail) RecentPosts(limit int) ([]models.Post, error) {
	return nil, errors.New("mock store recent posts failed")
}

func (m *MockStoreFail) AddToFeed(userID string, post models.Post) error {
	return errors.New("mock store add to feed failed")
}

func (m *MockStoreFail) GetFeed(userID string, limit int) ([]models.Post, error) {
	return nil, errors.New("mock store get feed failed")
}
