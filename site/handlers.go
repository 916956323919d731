package site

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gosimple/slug"

	"pressroom/constants"
	"pressroom/database"
	"pressroom/feed"
	templates "pressroom/templates_static"
)

// NewsImporter is set at startup when a feed endpoint is configured; the
// admin import route triggers it on demand.
var NewsImporter *feed.Importer

func ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := database.ListPostsNewestFirst(constants.MAX_POSTS_TO_SHOW)
	if err != nil {
		http.Error(w, "Error fetching posts", http.StatusInternalServerError)
		return
	}

	RenderTemplate(w, r, "index", posts)
}

// findPost resolves the route parameter as a numeric id or, failing that, a slug.
func findPost(idOrSlug string) (*database.Post, error) {
	if id, err := strconv.Atoi(idOrSlug); err == nil {
		var post database.Post
		result := database.GetDB().First(&post, id)
		if result.Error != nil {
			return nil, result.Error
		}
		return &post, nil
	}
	post, err := database.GetPostWithSlug(idOrSlug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errors.New("post not found")
	}
	return post, nil
}

func ViewPost(w http.ResponseWriter, r *http.Request) {
	post, err := findPost(chi.URLParam(r, "postID"))
	if err != nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	if r.Method == "POST" {
		user := getSignedInUserOrNil(r)
		if user == nil {
			setFlash(w, "You need to login or register to comment.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		text := strings.TrimSpace(r.FormValue("comment"))
		if text == "" || len(text) > constants.MAX_COMMENT_LENGTH {
			setFlash(w, fmt.Sprintf("Comments must be between 1 and %d characters.", constants.MAX_COMMENT_LENGTH))
			http.Redirect(w, r, "/post/"+strconv.Itoa(int(post.ID)), http.StatusSeeOther)
			return
		}

		comment := database.Comment{AuthorID: user.ID, PostID: post.ID, Text: text}
		if err := database.GetDB().Create(&comment).Error; err != nil {
			http.Error(w, "Error saving comment", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/post/"+strconv.Itoa(int(post.ID)), http.StatusSeeOther)
		return
	}

	var full database.Post
	result := database.GetDB().
		Preload("Author").
		Preload("Comments").
		Preload("Comments.Author").
		First(&full, post.ID)
	if result.Error != nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	RenderTemplate(w, r, "post", full)
}

func buildPostFromFormRequest(r *http.Request) (database.Post, error) {
	user := getSignedInUserOrNil(r)
	if user == nil {
		return database.Post{}, errors.New("user not signed in")
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		return database.Post{}, errors.New("title is required")
	}

	authorID := user.ID
	newPost := database.Post{
		AuthorID:    &authorID,
		Title:       title,
		Slug:        slug.Make(title),
		Subtitle:    r.FormValue("subtitle"),
		PublishedAt: time.Now(),
		Body:        r.FormValue("body"),
		ImageURL:    r.FormValue("img_url"),
	}

	return newPost, nil
}

func CreatePost(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		RenderTemplate(w, r, "make_post", nil)
	case "POST":
		newPost, err := buildPostFromFormRequest(r)
		if err != nil {
			http.Error(w, "Error creating post: "+err.Error(), http.StatusBadRequest)
			return
		}

		if err := database.CreatePost(&newPost); err != nil {
			if errors.Is(err, database.ErrDuplicateTitle) {
				http.Error(w, "A post with the same title already exists", http.StatusBadRequest)
				return
			}
			http.Error(w, "Error creating post", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func UpdatePost(w http.ResponseWriter, r *http.Request) {
	post, err := findPost(chi.URLParam(r, "postID"))
	if err != nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case "GET":
		RenderTemplate(w, r, "make_post", post)

	case "POST":
		newPostData, err := buildPostFromFormRequest(r)
		if err != nil {
			http.Error(w, "Error updating post: "+err.Error(), http.StatusBadRequest)
			return
		}

		existingTitlePost, err := database.GetPostWithTitle(newPostData.Title)
		if err != nil {
			http.Error(w, "Error verifying if post exists: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if existingTitlePost != nil && existingTitlePost.ID != post.ID {
			http.Error(w, "A post with the same title already exists", http.StatusBadRequest)
			return
		}

		post.Title = newPostData.Title
		post.Slug = newPostData.Slug
		post.Subtitle = newPostData.Subtitle
		post.Body = newPostData.Body
		post.ImageURL = newPostData.ImageURL

		if err := database.GetDB().Save(post).Error; err != nil {
			http.Error(w, "Error updating post", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/post/"+strconv.Itoa(int(post.ID)), http.StatusSeeOther)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func DeletePost(w http.ResponseWriter, r *http.Request) {
	post, err := findPost(chi.URLParam(r, "postID"))
	if err != nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	if err := database.DeletePostCascade(post); err != nil {
		http.Error(w, "Error deleting post", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func ImportNews(w http.ResponseWriter, r *http.Request) {
	if NewsImporter == nil {
		setFlash(w, "News import is not configured.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	results, err := NewsImporter.Run(r.Context())
	if err != nil {
		setFlash(w, "News feed is unavailable right now, no posts were imported.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	var created int
	for _, res := range results {
		if res.Status == feed.Created {
			created++
		}
	}
	setFlash(w, fmt.Sprintf("Imported %d new posts.", created))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func AboutPage(w http.ResponseWriter, r *http.Request) {
	user := getSignedInUserOrNil(r)
	templates.AboutPage(pageProps(user)).Render(w)
}

func ContactPage(w http.ResponseWriter, r *http.Request) {
	user := getSignedInUserOrNil(r)
	templates.ContactPage(pageProps(user)).Render(w)
}

func pageProps(user *database.User) templates.LayoutProps {
	props := templates.LayoutProps{Title: constants.APP_NAME}
	if user != nil {
		props.CurrentUser = user.Name
	}
	return props
}
