package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/segmentio/kafka-go"

	"example.com/socialhub/internal/middleware"
	"example.com/socialhub/internal/models"
	"example.com/socialhub/internal/post"
	"example.com/socialhub/internal/store"
)

// --- Response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeDomainError translates manager errors into HTTP responses: validation
// failures keep their full message list, the uniform authorization refusal
// stays detail-free, and anything else is an internal failure.
func writeDomainError(w http.ResponseWriter, module string, err error) {
	var verrs models.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": verrs})
	case errors.Is(err, post.ErrNotAuthorized):
		http.Error(w, "you do not have permission to perform that action", http.StatusForbidden)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		logg.Error(module, "Unexpected store failure", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// --- User handlers ---

// createUserHandler handles POST /users.
// Expects JSON body: {"username": "example", "email": "a@b.c"}
// Returns the user id and a signed token for subsequent requests.
func (s *Server) createUserHandler(w http.ResponseWriter, r *http.Request) {
	type req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	var body req

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logg.Error("http/users", "Invalid request body", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if len(body.Username) == 0 || len(body.Username) > 50 {
		logg.Info("http/users", "Invalid username length")
		http.Error(w, "username must be 1-50 characters", http.StatusBadRequest)
		return
	}

	userID, err := s.store.CreateUser(body.Username, body.Email)
	if err != nil {
		logg.Error("http/users", "Failed to create user", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	tokenStr, err := middleware.IssueToken(s.jwtSecret, userID)
	if err != nil {
		http.Error(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"token":   tokenStr,
	})
}

// --- Follow handlers ---

// followHandler handles POST /follow/{username}.
// The acting user comes from the JWT; the target from the path.
func (s *Server) followHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := s.follows.Create(r.PathValue("username"), userID); err != nil {
		writeDomainError(w, "http/follow", err)
		return
	}

	logg.Info("http/follow", "Follow created")
	w.WriteHeader(http.StatusOK)
}

// unfollowHandler handles POST /unfollow/{username}.
func (s *Server) unfollowHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := s.follows.Delete(r.PathValue("username"), userID); err != nil {
		writeDomainError(w, "http/unfollow", err)
		return
	}

	logg.Info("http/unfollow", "Follow removed")
	w.WriteHeader(http.StatusOK)
}

// resolvePathUser maps the {username} path segment to a user record,
// answering 404 itself when the user does not exist.
func (s *Server) resolvePathUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, err := s.store.GetUserByUsername(r.PathValue("username"))
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "user not found", http.StatusNotFound)
		return models.User{}, false
	}
	if err != nil {
		logg.Error("http/users", "Failed to resolve username", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return models.User{}, false
	}
	return user, true
}

// followersHandler handles GET /users/{username}/followers.
func (s *Server) followersHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := s.resolvePathUser(w, r)
	if !ok {
		return
	}

	followers, err := s.follows.Followers(user.ID)
	if err != nil {
		writeDomainError(w, "http/followers", err)
		return
	}
	writeJSON(w, http.StatusOK, followers)
}

// followingHandler handles GET /users/{username}/following.
func (s *Server) followingHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := s.resolvePathUser(w, r)
	if !ok {
		return
	}

	following, err := s.follows.Following(user.ID)
	if err != nil {
		writeDomainError(w, "http/following", err)
		return
	}
	writeJSON(w, http.StatusOK, following)
}

// profileHandler handles GET /users/{username}/profile: counts, the user's
// posts, and whether the visiting actor follows them.
func (s *Server) profileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := s.resolvePathUser(w, r)
	if !ok {
		return
	}

	followerCount, err := s.follows.CountFollowers(user.ID)
	if err != nil {
		writeDomainError(w, "http/profile", err)
		return
	}
	followingCount, err := s.follows.CountFollowing(user.ID)
	if err != nil {
		writeDomainError(w, "http/profile", err)
		return
	}
	posts, err := s.posts.ByAuthor(user.ID)
	if err != nil {
		writeDomainError(w, "http/profile", err)
		return
	}

	isFollowing := false
	if visitorID, ok := middleware.UserIDFromContext(r.Context()); ok {
		isFollowing, err = s.follows.IsFollowing(user.ID, visitorID)
		if err != nil {
			writeDomainError(w, "http/profile", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"username":        user.Username,
		"avatar":          models.Avatar(user.Email),
		"follower_count":  followerCount,
		"following_count": followingCount,
		"is_following":    isFollowing,
		"posts":           posts,
	})
}

// --- Post handlers ---

// createPostHandler handles POST /posts: validates and stores the post, then
// publishes a post_created event for feed fan-out.
func (s *Server) createPostHandler(w http.ResponseWriter, r *http.Request) {
	var input post.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logg.Error("http/posts", "Invalid request body", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	newID, err := s.posts.Create(input, userID)
	if err != nil {
		writeDomainError(w, "http/posts", err)
		return
	}

	created, err := s.posts.FindByID(newID, userID)
	if err != nil {
		writeDomainError(w, "http/posts", err)
		return
	}

	data, err := json.Marshal(created)
	if err != nil {
		logg.Error("http/posts", "Failed to marshal post", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	msg := kafka.Message{
		Key:   []byte("post_created"),
		Value: data,
	}
	if err := s.kafkaWriter.WriteMessages(msg); err != nil {
		logg.Error("http/posts", "Failed to write Kafka message", err)
		http.Error(w, "failed to publish post event", http.StatusInternalServerError)
		return
	}

	logg.Info("http/posts", "Post created successfully")
	writeJSON(w, http.StatusOK, created)
}

// getPostHandler handles GET /posts/{id}. The is_owner flag reflects the
// visiting actor when a token is present.
func (s *Server) getPostHandler(w http.ResponseWriter, r *http.Request) {
	visitorID, _ := middleware.UserIDFromContext(r.Context())

	found, err := s.posts.FindByID(r.PathValue("id"), visitorID)
	if err != nil {
		writeDomainError(w, "http/posts", err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

// updatePostHandler handles PUT /posts/{id}.
func (s *Server) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	var input post.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := s.posts.Update(r.PathValue("id"), input, userID); err != nil {
		writeDomainError(w, "http/posts", err)
		return
	}

	logg.Info("http/posts", "Post updated successfully")
	w.WriteHeader(http.StatusOK)
}

// deletePostHandler handles DELETE /posts/{id}.
func (s *Server) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := s.posts.Delete(r.PathValue("id"), userID); err != nil {
		writeDomainError(w, "http/posts", err)
		return
	}

	logg.Info("http/posts", "Post deleted successfully")
	w.WriteHeader(http.StatusOK)
}

// searchHandler handles POST /search.
// Expects JSON body: {"term": "..."}; always answers with a list.
func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	type req struct {
		Term string `json:"term"`
	}
	var body req

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		// Malformed input yields an empty result, not a failure.
		writeJSON(w, http.StatusOK, []models.Post{})
		return
	}
	defer r.Body.Close()

	writeJSON(w, http.StatusOK, s.posts.Search(body.Term))
}

// --- Feed handler ---

// getFeedHandler handles GET /feed?limit=N for the acting user.
func (s *Server) getFeedHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit := s.feedLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	feed, err := s.store.GetFeed(userID, limit)
	if err != nil {
		logg.Error("http/feed", "Failed to get feed", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, feed)
}
