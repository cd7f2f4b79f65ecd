package controllers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"go-shopmart/models"
	"go-shopmart/repository"
	"go-shopmart/utils"
)

// UserController handles user-related requests
type UserController struct {
	Users        repository.UserRepository
	EmailService *utils.EmailService
	BaseURL      string
}

// NewUserController creates a new UserController
func NewUserController(users repository.UserRepository, emailService *utils.EmailService, baseURL string) *UserController {
	return &UserController{Users: users, EmailService: emailService, BaseURL: baseURL}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if user.Email == "" || user.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	exists, err := uc.Users.EmailExists(ctx, user.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if exists {
		http.Error(w, "User already exists", http.StatusBadRequest)
		return
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}
	user.Password = string(hashedPassword)
	user.Role = "user" // Default role
	user.IsVerified = false

	verificationToken, err := utils.GenerateJWT(user.Email, user.Role)
	if err != nil {
		http.Error(w, "Error generating verification token", http.StatusInternalServerError)
		return
	}
	user.VerificationToken = verificationToken

	if err := uc.Users.Insert(ctx, &user); err != nil {
		writeError(w, err)
		return
	}

	if err := uc.EmailService.SendVerificationEmail(user.Email, uc.BaseURL, verificationToken); err != nil {
		log.WithError(err).WithField("email", user.Email).Warn("failed to send verification email")
	}

	writeJSON(w, http.StatusCreated, "User registered successfully. Please check your email to verify your account.")
}

// VerifyEmail handles email verification
func (uc *UserController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Verification token missing", http.StatusBadRequest)
		return
	}

	if _, err := utils.ParseClaims(token); err != nil {
		http.Error(w, "Invalid token", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	verified, err := uc.Users.MarkVerified(ctx, token)
	if err != nil {
		writeError(w, err)
		return
	}
	if !verified {
		http.Error(w, "User not found or already verified", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, "Email verified successfully. You can now log in.")
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := uc.Users.FindByEmail(ctx, creds.Email)
	if err != nil {
		http.Error(w, "User not found", http.StatusUnauthorized)
		return
	}

	if !user.IsVerified {
		http.Error(w, "Email not verified", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		http.Error(w, "Invalid password", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateJWT(user.Email, user.Role)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetProfile retrieves the authenticated user's profile
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := currentUser(ctx, r, uc.Users)
	if err != nil {
		writeError(w, err)
		return
	}

	// Exclude password and verification token from the response
	user.Password = ""
	user.VerificationToken = ""
	writeJSON(w, http.StatusOK, user)
}
