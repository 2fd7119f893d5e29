package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mealstash/recipe-api-be/internal/apperr"
	"github.com/mealstash/recipe-api-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id int64) (models.User, error)
	CreateUser(email, password, name string) (models.User, error)
	CreateSuperuser(email, password string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
}

// UserService provides business logic for account management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// NormalizeEmail lower-cases the whole address. Lookups and storage both
// go through this so mixed-case signups and logins land on the same row.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignup(email, password string) error {
	ve := &apperr.ValidationError{}
	if email == "" {
		ve.Add("email", "this field may not be blank")
	} else if !strings.Contains(email, "@") {
		ve.Add("email", "enter a valid email address")
	}
	if len(password) < MinPasswordLength {
		ve.Add("password", fmt.Sprintf("ensure this field has at least %d characters", MinPasswordLength))
	}
	if !ve.Empty() {
		return ve
	}
	return nil
}

// GetUserByID retrieves a single user by id.
func (s *UserService) GetUserByID(id int64) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, name, is_staff, is_superuser, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.IsStaff, &user.IsSuperuser, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateUser creates a new account, normalizing the email and hashing the
// password before storage.
func (s *UserService) CreateUser(email, password, name string) (models.User, error) {
	return s.createUser(email, password, name, false)
}

// CreateSuperuser creates an account with staff and superuser flags set.
func (s *UserService) CreateSuperuser(email, password string) (models.User, error) {
	return s.createUser(email, password, "", true)
}

func (s *UserService) createUser(email, password, name string, super bool) (models.User, error) {
	email = NormalizeEmail(email)
	if err := validateSignup(email, password); err != nil {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:       email,
		Name:        name,
		IsStaff:     super,
		IsSuperuser: super,
	}

	stmt, err := s.db.Prepare("INSERT INTO users(email, name, password_hash, is_staff, is_superuser) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	res, err := stmt.Exec(user.Email, user.Name, string(hashedPassword), user.IsStaff, user.IsSuperuser)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.User{}, apperr.Invalid("email", "a user with this email already exists")
		}
		return models.User{}, err
	}

	user.ID, err = res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	return s.GetUserByID(user.ID)
}

// Authenticate verifies a user's credentials. An unknown email and a wrong
// password produce the same error so the two cases cannot be told apart.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	email = NormalizeEmail(email)

	var user models.User
	row := s.db.QueryRow("SELECT id, email, name, password_hash, is_staff, is_superuser, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.IsStaff, &user.IsSuperuser, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, apperr.ErrInvalidCredentials
	}

	// Don't hand the hash back to callers.
	user.PasswordHash = ""
	return user, nil
}
