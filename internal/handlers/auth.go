package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"github.com/aslectra/backend/internal/middleware"
	"github.com/aslectra/backend/internal/models"
	"github.com/aslectra/backend/internal/services"
	"github.com/aslectra/backend/internal/session"
	"github.com/aslectra/backend/internal/validators"
	"github.com/aslectra/backend/internal/views"
)

// IDTokenVerifier verifies Firebase ID tokens. *auth.Client implements it.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	Base
	authService  services.AuthService
	firebaseAuth IDTokenVerifier
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil, which
// disables the Firebase exchange.
func NewAuthHandler(base Base, authService services.AuthService, firebaseAuth IDTokenVerifier) *AuthHandler {
	return &AuthHandler{
		Base:         base,
		authService:  authService,
		firebaseAuth: firebaseAuth,
	}
}

// RegisterWebRoutes registers the login, register and logout pages
func (h *AuthHandler) RegisterWebRoutes(e *echo.Echo) {
	e.GET("/login", h.ShowLogin)
	e.POST("/login", h.Login)
	e.GET("/register", h.ShowRegister)
	e.POST("/register", h.Register)
	e.POST("/logout", h.Logout)
}

// RegisterAPIRoutes registers the token endpoints
func (h *AuthHandler) RegisterAPIRoutes(g *echo.Group) {
	g.POST("/signin", h.SignIn)
	if h.firebaseAuth != nil {
		g.POST("/firebase-login", h.FirebaseLogin)
	}
}

func (h *AuthHandler) ShowLogin(c echo.Context) error {
	return h.render(c, http.StatusOK, "login", &views.Page{Title: "Connexion", Section: "login"})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	page := &views.Page{Title: "Connexion", Section: "login", Form: formValues(c, "email")}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Requête invalide")
	}
	if err := c.Validate(&req); err != nil {
		page.Errors = validators.FieldErrors(err)
		return h.render(c, http.StatusUnprocessableEntity, "login", page)
	}

	user, err := h.authService.Authenticate(c.Request().Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		page.Errors = map[string]string{"email": "Ces identifiants ne correspondent à aucun compte."}
		return h.render(c, http.StatusUnprocessableEntity, "login", page)
	}
	if err != nil {
		return err
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) ShowRegister(c echo.Context) error {
	return h.render(c, http.StatusOK, "register", &views.Page{Title: "Inscription", Section: "register"})
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	page := &views.Page{Title: "Inscription", Section: "register", Form: formValues(c, "name", "forename", "email")}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Requête invalide")
	}
	if err := c.Validate(&req); err != nil {
		page.Errors = validators.FieldErrors(err)
		return h.render(c, http.StatusUnprocessableEntity, "register", page)
	}

	user, err := h.authService.Register(c.Request().Context(), req)
	if errors.Is(err, services.ErrUserAlreadyExists) {
		page.Errors = map[string]string{"email": "Cette adresse e-mail est déjà utilisée."}
		return h.render(c, http.StatusUnprocessableEntity, "register", page)
	}
	if err != nil {
		return err
	}
	slog.Info("user registered", "user_id", user.ID, "role", user.Role)

	if err := h.startSession(c, user); err != nil {
		return err
	}
	h.flash(c, session.FlashSuccess, "Bienvenue sur ASLectra ! Choisissez vos préférences.")
	return c.Redirect(http.StatusSeeOther, "/preferences/create")
}

func (h *AuthHandler) startSession(c echo.Context, user *models.User) error {
	data := &session.Data{UserID: user.ID, Role: user.Role}
	if _, err := h.sessions.Create(c.Request().Context(), c.Response(), data); err != nil {
		return err
	}
	middleware.SetCurrentSession(c, data)
	return nil
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Destroy(c.Request().Context(), c.Response(), c.Request()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

// SignIn handles API authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.LoginRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": validators.FieldErrors(err)})
	}

	user, err := h.authService.Authenticate(c.Request().Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if err != nil {
		return err
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and issues a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": validators.FieldErrors(err)})
	}

	ctx := c.Request().Context()
	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)

	user, err := h.authService.LinkFirebaseUser(ctx, token.UID, email, name)
	if errors.Is(err, services.ErrInvalidToken) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Firebase token carries no email")
	}
	if err != nil {
		return err
	}

	localJWT, err := h.authService.GenerateToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate local JWT")
	}
	return c.JSON(http.StatusOK, echo.Map{"token": localJWT})
}
