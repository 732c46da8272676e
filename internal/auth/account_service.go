package auth

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/harane/toolshed/database/models"
	"github.com/harane/toolshed/database/repo/accounts"
	cryptopackage "github.com/harane/toolshed/utils/crypto"
)

// ValidationError 资料字段校验错误，可直接展示给用户
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError 判断是否为字段校验错误
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// usPhonePattern 美国电话号码，可带国家码与常见分隔符
var usPhonePattern = regexp.MustCompile(`^(\+?1[-.\s]?)?(\(?\d{3}\)?[-.\s]?)?\d{3}[-.\s]?\d{4}$`)

// ProfileInput 用户资料字段
type ProfileInput struct {
	DisplayName string
	Address     string
	PhoneNumber string
}

// validate 校验资料字段
func (in *ProfileInput) validate() error {
	if strings.TrimSpace(in.DisplayName) == "" {
		return &ValidationError{Message: "Full name is required"}
	}
	if len(in.DisplayName) > 255 {
		return &ValidationError{Message: "Full name must be 255 characters or less"}
	}
	if strings.TrimSpace(in.Address) == "" {
		return &ValidationError{Message: "Address is required"}
	}
	if len(in.Address) > 1000 {
		return &ValidationError{Message: "Address must be 1000 characters or less"}
	}
	if in.PhoneNumber != "" && !usPhonePattern.MatchString(in.PhoneNumber) {
		return &ValidationError{Message: "Please enter a valid US phone number"}
	}
	return nil
}

// AccountService 账户注册与资料服务
type AccountService struct {
	accountsRepo *accounts.Repository
}

// NewAccountService 创建账户服务
func NewAccountService(accountsRepo *accounts.Repository) *AccountService {
	return &AccountService{accountsRepo: accountsRepo}
}

// Register 注册新用户
func (s *AccountService) Register(username, password string, profile ProfileInput) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &ValidationError{Message: "Username is required"}
	}
	if len(password) < 8 {
		return nil, &ValidationError{Message: "Password must be at least 8 characters"}
	}
	if err := profile.validate(); err != nil {
		return nil, err
	}

	exists, err := s.accountsRepo.UserExists(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, &ValidationError{Message: "Username is already taken"}
	}

	hash, err := cryptopackage.GenerateFromPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:    username,
		Password:    hash,
		DisplayName: strings.TrimSpace(profile.DisplayName),
		Address:     strings.TrimSpace(profile.Address),
		PhoneNumber: strings.TrimSpace(profile.PhoneNumber),
	}
	if err := s.accountsRepo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// UpdateProfile 更新用户资料
func (s *AccountService) UpdateProfile(userID uint, profile ProfileInput) (*models.User, error) {
	if err := profile.validate(); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"display_name": strings.TrimSpace(profile.DisplayName),
		"address":      strings.TrimSpace(profile.Address),
		"phone_number": strings.TrimSpace(profile.PhoneNumber),
	}
	return s.accountsRepo.UpdateProfile(userID, updates)
}

// GetProfile 获取用户资料
func (s *AccountService) GetProfile(userID uint) (*models.User, error) {
	return s.accountsRepo.GetUserByID(userID)
}
