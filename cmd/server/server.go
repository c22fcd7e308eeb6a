package server

import (
	"context"
	"net/http"
	"time"

	appkafka "example.com/socialhub/internal/broker"
	"example.com/socialhub/internal/follow"
	config "example.com/socialhub/internal/init"
	"example.com/socialhub/internal/logger"
	"example.com/socialhub/internal/middleware"
	"example.com/socialhub/internal/post"
	"example.com/socialhub/internal/store"
)

type Server struct {
	store       store.StoreInterface
	kafkaWriter appkafka.KafkaWriter
	follows     *follow.Manager
	posts       *post.Manager
	jwtSecret   []byte
	feedLimit   int
}

var logg = logger.New()

// newServer wires the domain managers over the injected store and broker.
func newServer(st store.StoreInterface, writer appkafka.KafkaWriter, cfg *config.Config) *Server {
	if cfg.FeedLimit <= 0 {
		cfg.FeedLimit = 50
	}
	return &Server{
		store:       st,
		kafkaWriter: writer,
		follows:     follow.NewManager(st),
		posts:       post.NewManager(st, cfg.SearchScanLimit),
		jwtSecret:   []byte(cfg.JWTSecret),
		feedLimit:   cfg.FeedLimit,
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Public endpoint for user registration (no JWT required)
	mux.Handle("POST /users", http.HandlerFunc(s.createUserHandler))

	// Follow relationships
	mux.Handle("POST /follow/{username}", middleware.JWTAuth(s.jwtSecret, http.HandlerFunc(s.followHandler)))
	mux.Handle("POST /unfollow/{username}", middleware.JWTAuth(s.jwtSecret, http.HandlerFunc(s.unfollowHandler)))
	mux.Handle("GET /users/{username}/followers", http.HandlerFunc(s.followersHandler))
	mux.Handle("GET /users/{username}/following", http.HandlerFunc(s.followingHandler))
	mux.Handle("GET /users/{username}/profile", middleware.OptionalJWTAuth(s.jwtSecret, http.HandlerFunc(s.profileHandler)))

	// Posts
	mux.Handle("POST /posts", middleware.JWTAuth(s.jwtSecret, http.HandlerFunc(s.createPostHandler)))
	mux.Handle("GET /posts/{id}", middleware.OptionalJWTAuth(s.jwtSecret, http.HandlerFunc(s.getPostHandler)))
	mux.Handle("PUT /posts/{id}", middleware.JWTAuth(s.jwtSecret, http.HandlerFunc(s.updatePostHandler)))
	mux.Handle("DELETE /posts/{id}", middleware.JWTAuth(s.jwtSecret, http.HandlerFunc(s.deletePostHandler)))
	mux.Handle("POST /search", http.HandlerFunc(s.searchHandler))

	// Home feed
	mux.Handle("GET /feed", middleware.JWTAuth(s.jwtSecret, http.HandlerFunc(s.getFeedHandler)))

	return mux
}

// Run starts the HTTPS server with JWT-protected routes and graceful shutdown.
func Run(ctx context.Context, st store.StoreInterface, writer appkafka.KafkaWriter, cfg *config.Config) {
	s := newServer(st, writer, cfg)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second, // prevent slowloris attacks
		WriteTimeout: 10 * time.Second,
	}

	// --- Start server in a goroutine ---
	go func() {
		logg.Info("server", "Starting HTTPS server on "+cfg.ServerAddr)
		// TLS: cert.pem and key.pem should be valid certificates in specified paths
		if err := srv.ListenAndServeTLS("/certs/cert.pem", "/certs/key.pem"); err != nil && err != http.ErrServerClosed {
			logg.Error("server", "Server stopped unexpectedly", err)
		}
	}()

	// --- Graceful shutdown ---
	<-ctx.Done()
	logg.Info("server", "Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("server", "Error during server shutdown", err)
	} else {
		logg.Info("server", "Server stopped gracefully")
	}
}
