package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"net/url"
	"os"

	"ideahub/internal/middleware"
	"ideahub/internal/services"
	"ideahub/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
	mailService *services.MailService
}

func NewAuthHandler(authService *services.AuthService, mailService *services.MailService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		mailService: mailService,
	}
}

// Landing is the public front page; signed in users go straight to the list.
func (h *AuthHandler) Landing(c *gin.Context) {
	if _, exists := c.Get(middleware.CheckUserKey); exists {
		c.Redirect(http.StatusFound, "/ideas")
		return
	}
	Render(c, http.StatusOK, "auth/landing.html", nil)
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "auth/register.html", nil)
}

// validateRegistration returns field level violations, empty when the input
// is acceptable.
func validateRegistration(email, firstName, password string) []string {
	var violations []string
	if _, err := mail.ParseAddress(email); err != nil {
		violations = append(violations, "A valid email address is required")
	}
	if firstName == "" {
		violations = append(violations, "First name is required")
	}
	if len(password) < 6 {
		violations = append(violations, "Password must be at least 6 characters")
	}
	return violations
}

func (h *AuthHandler) Register(c *gin.Context) {
	email := c.PostForm("email")
	firstName := c.PostForm("first_name")
	lastName := c.PostForm("last_name")
	password := c.PostForm("password")

	if violations := validateRegistration(email, firstName, password); len(violations) > 0 {
		Render(c, http.StatusBadRequest, "auth/register.html", gin.H{
			"Errors": violations,
			"Email":  email,
		})
		return
	}

	user, err := h.authService.CreateAccount(email, firstName, lastName, password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			Render(c, http.StatusConflict, "auth/register.html", gin.H{
				"Errors": []string{"This email is already registered"},
				"Email":  email,
			})
			return
		}
		RenderError(c, http.StatusInternalServerError, "Registration failed, please try again")
		return
	}

	// Mail the confirmation link. Without a stored token the account can
	// never be confirmed, so a store fault here must not look like success.
	encoded, err := h.authService.IssueConfirmToken(user)
	if err != nil {
		log.Printf("Failed to issue confirmation token for %s: %v", user.Email, err)
		RenderError(c, http.StatusInternalServerError, "Registration could not be completed, please try again later")
		return
	}
	link := fmt.Sprintf("%s/confirm?uid=%d&token=%s", siteURL(), user.ID, url.QueryEscape(encoded))
	h.mailService.SendConfirmationEmail(user.Email, user.DisplayName(), link)

	if h.authService.RequireConfirmedEmail() {
		Render(c, http.StatusOK, "auth/register_confirmation.html", gin.H{"Email": user.Email})
		return
	}

	// Confirmation not enforced, sign the user straight in
	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()
	c.Redirect(http.StatusFound, "/ideas")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := h.authService.Authenticate(email, password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailNotConfirmed):
			Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{
				"Error": "Please confirm your email address before signing in",
				"Email": email,
			})
		case errors.Is(err, services.ErrInvalidCredentials):
			Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{
				"Error": "Wrong email or password",
				"Email": email,
			})
		default:
			RenderError(c, http.StatusInternalServerError, "Sign in failed, please try again")
		}
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	returnURL := c.Query("return")
	if returnURL != "" && returnURL[0] == '/' {
		c.Redirect(http.StatusFound, returnURL)
		return
	}
	c.Redirect(http.StatusFound, "/ideas")
}

// ConfirmEmail handles the link from the confirmation mail.
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	uid := utils.StringToInt(c.Query("uid"))
	token := c.Query("token")

	err := h.authService.RedeemConfirmToken(uint(uid), token)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			RenderError(c, http.StatusNotFound, "No such account")
		case errors.Is(err, services.ErrMalformedToken), errors.Is(err, services.ErrInvalidToken):
			RenderError(c, http.StatusBadRequest, "This confirmation link is invalid. Request a new one by registering again or signing in.")
		default:
			RenderError(c, http.StatusInternalServerError, "Confirmation failed, please try again")
		}
		return
	}

	Render(c, http.StatusOK, "auth/login.html", gin.H{
		"Success": "Email confirmed, you can sign in now",
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/")
}

func siteURL() string {
	if u := os.Getenv("SITE_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}
