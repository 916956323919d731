package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"pressroom/config"
	"pressroom/database"
	"pressroom/feed"
	"pressroom/site"
)

func main() {
	cfg := config.Get()
	_ = database.GetDB() // force database initialization
	r := initRouter()

	// Feed import runs as a background job; page rendering only ever reads
	// already-imported posts.
	ctx, cancel := context.WithCancel(context.Background())
	if cfg.NewsAPI != "" {
		importer := feed.NewImporter(feed.NewClient(cfg.NewsAPI))
		site.NewsImporter = importer
		go importer.Start(ctx, time.Duration(cfg.FeedRefreshMinutes)*time.Minute)
	} else {
		log.Println("NEWS_API not set, feed import disabled")
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Running on http://localhost:%s", cfg.Port)
		if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
			log.Printf("HTTP server stopped: %v", err)
		}
	}()

	// Block until a signal is received
	<-signals
	log.Println("Shutting down gracefully...")

	cancel()
	database.CloseDB()
}

func initRouter() *chi.Mux {

	r := chi.NewRouter()

	CORSMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	r.Use(CORSMiddleware.Handler)
	r.Use(site.RealIPMiddleware)
	r.Use(middleware.Logger)
	r.Use(httprate.LimitByIP(100, time.Minute)) // general rate limiter for all routes (shared across all routes)
	r.Use(middleware.Recoverer)
	r.Use(site.TryPutUserInContextMiddleware)

	r.Get("/", site.ListPosts)

	r.HandleFunc("/register", site.UserRegister)
	r.HandleFunc("/login", site.UserLogin)
	r.Get("/logout", site.UserLogout)

	r.HandleFunc("/post/{postID}", site.ViewPost)

	r.Get("/about", site.AboutPage)
	r.Get("/contact", site.ContactPage)

	r.Group(func(r chi.Router) {
		r.Use(site.AdminOnlyMiddleware)

		r.HandleFunc("/new-post", site.CreatePost)
		r.HandleFunc("/edit-post/{postID}", site.UpdatePost)
		r.Get("/delete/{postID}", site.DeletePost)
		r.Post("/import-news", site.ImportNews)
	})

	fileServer := http.FileServer(http.Dir("./assets"))
	r.Handle("/assets/*", http.StripPrefix("/assets", fileServer))

	return r
}
