package site

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"pressroom/database"
)

var (
	ErrUnknownEmail = errors.New("no account with that email")
	ErrBadPassword  = errors.New("password does not match")
)

func generateAuthToken() (string, error) {
	const tokenLength = 32
	tokenBytes := make([]byte, tokenLength)
	_, err := rand.Read(tokenBytes)
	if err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)
	return token, nil
}

// registerUser creates an account and returns it. The first account ever
// registered becomes the admin.
func registerUser(email, password, name string) (*database.User, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := database.User{
		Email:        email,
		PasswordHash: string(passwordHash),
		Name:         name,
	}
	if err := database.RegisterUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// loginUser checks credentials and returns the matching user, or
// ErrUnknownEmail / ErrBadPassword.
func loginUser(email, password string) (*database.User, error) {
	user, err := database.GetUserWithEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownEmail
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadPassword
	}
	return user, nil
}

// establishSession stores a fresh token on the user row and sets the cookie.
func establishSession(w http.ResponseWriter, user *database.User) error {
	token, err := generateAuthToken()
	if err != nil {
		return err
	}

	user.SessionToken = token
	if err := database.GetDB().Save(user).Error; err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     string(SessionTokenCookieName),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	return nil
}

func UserRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		if getSignedInUserOrNil(r) != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		RenderTemplate(w, r, "register", nil)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	name := r.FormValue("name")

	user, err := registerUser(email, password, name)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			setFlash(w, "You've already signed up with that email, login instead!")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		http.Error(w, "Error creating account: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := establishSession(w, user); err != nil {
		http.Error(w, "Error creating account: "+err.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func UserLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		if getSignedInUserOrNil(r) != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		RenderTemplate(w, r, "login", nil)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := loginUser(email, password)
	switch {
	case errors.Is(err, ErrUnknownEmail):
		setFlash(w, "That email does not exist, please try again.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case errors.Is(err, ErrBadPassword):
		setFlash(w, "Password incorrect, please try again.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case err != nil:
		http.Error(w, "Error signing in: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := establishSession(w, user); err != nil {
		http.Error(w, "Error signing in: "+err.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func UserLogout(w http.ResponseWriter, r *http.Request) {
	if user := getSignedInUserOrNil(r); user != nil {
		user.SessionToken = ""
		database.GetDB().Save(user)
	}

	http.SetCookie(w, &http.Cookie{
		Name:   string(SessionTokenCookieName),
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
