package casdoor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
)

// CasdoorConfig holds the configuration for Casdoor connection
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

type IdentityCasdoor struct {
	client *casdoorsdk.Client
	http   *resty.Client
	redis  *redis.Client
	config CasdoorConfig

	// Cache settings
	cachePrefix string
	cacheTTL    time.Duration
}

func NewIdentityCasdoor(config CasdoorConfig, redisClient *redis.Client) repositories.IdentityRepository {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return &IdentityCasdoor{
		client:      client,
		http:        resty.New().SetTimeout(10 * time.Second),
		redis:       redisClient,
		config:      config,
		cachePrefix: "user:",
		cacheTTL:    15 * time.Minute,
	}
}

// ===== ACCOUNT LIFECYCLE =====

// CreateAccount registers a new identity account and returns its ID.
func (i *IdentityCasdoor) CreateAccount(ctx context.Context, email, password, displayName string, role models.UserRole) (string, error) {
	id := uuid.NewString()

	// Casdoor requires a name unique within the organization
	name := strings.Split(email, "@")[0] + "_" + id[:8]

	user := &casdoorsdk.User{
		Owner:             i.config.OrganizationName,
		Name:              name,
		Id:                id,
		CreatedTime:       time.Now().UTC().Format(time.RFC3339),
		DisplayName:       displayName,
		Email:             email,
		Password:          password,
		Type:              string(role),
		SignupApplication: i.config.ApplicationName,
	}

	ok, err := i.client.AddUser(user)
	if err != nil {
		return "", fmt.Errorf("failed to create account in Casdoor: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("Casdoor rejected account creation for %s", email)
	}

	return id, nil
}

// SignIn exchanges credentials for a token using the resource-owner grant and
// verifies the returned token before reporting success. Any failure yields an
// error; no fallback identity is ever synthesized.
func (i *IdentityCasdoor) SignIn(ctx context.Context, email, password string) (*repositories.SignInResult, error) {
	tokenURL := strings.TrimRight(i.config.Endpoint, "/") + "/api/login/oauth/access_token"

	resp, err := i.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "password",
			"client_id":     i.config.ClientID,
			"client_secret": i.config.ClientSecret,
			"username":      email,
			"password":      password,
			"scope":         "openid",
		}).
		Post(tokenURL)
	if err != nil {
		return nil, fmt.Errorf("failed to reach token endpoint: %w", err)
	}

	var tokenResp struct {
		AccessToken      string `json:"access_token"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(resp.Body(), &tokenResp); err != nil {
		return nil, fmt.Errorf("invalid token response: %w", err)
	}

	if resp.StatusCode() != 200 || tokenResp.Error != "" || tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("invalid credentials: %s", tokenResp.ErrorDescription)
	}

	claims, err := i.client.ParseJwtToken(tokenResp.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify issued token: %w", err)
	}
	if claims.Id == "" {
		return nil, fmt.Errorf("issued token has no subject")
	}

	return &repositories.SignInResult{
		Token:  tokenResp.AccessToken,
		UserID: claims.Id,
	}, nil
}

// DeleteAccount removes the identity account.
func (i *IdentityCasdoor) DeleteAccount(ctx context.Context, id string) error {
	casdoorUser, err := i.client.GetUserByUserId(id)
	if err != nil {
		return fmt.Errorf("failed to get user from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return fmt.Errorf("account not found with ID %s", id)
	}

	ok, err := i.client.DeleteUser(casdoorUser)
	if err != nil {
		return fmt.Errorf("failed to delete account in Casdoor: %w", err)
	}
	if !ok {
		return fmt.Errorf("Casdoor rejected account deletion for %s", id)
	}

	i.invalidateCache(ctx, id)
	return nil
}

// ===== READ OPERATIONS =====

// GetByID retrieves an identity account by ID.
func (i *IdentityCasdoor) GetByID(ctx context.Context, id string) (*models.User, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	if cachedUser, err := i.getUserFromCache(ctx, cacheKey); err == nil && cachedUser != nil {
		return cachedUser, nil
	}

	casdoorUser, err := i.client.GetUserByUserId(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, fmt.Errorf("user not found with ID %s", id)
	}

	user := i.convertCasdoorUserToModel(casdoorUser)
	i.setUserCache(ctx, cacheKey, user)

	return user, nil
}

// ===== CACHE METHODS =====

func (i *IdentityCasdoor) getCacheKey(key string) string {
	return fmt.Sprintf("%s%s", i.cachePrefix, key)
}

func (i *IdentityCasdoor) getUserFromCache(ctx context.Context, key string) (*models.User, error) {
	if i.redis == nil {
		return nil, nil
	}

	data, err := i.redis.Get(ctx, i.getCacheKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached user: %w", err)
	}

	return &user, nil
}

func (i *IdentityCasdoor) setUserCache(ctx context.Context, key string, user *models.User) error {
	if i.redis == nil {
		return nil
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user for cache: %w", err)
	}

	return i.redis.Set(ctx, i.getCacheKey(key), data, i.cacheTTL).Err()
}

func (i *IdentityCasdoor) invalidateCache(ctx context.Context, id string) {
	if i.redis == nil {
		return
	}
	i.redis.Del(ctx, i.getCacheKey(fmt.Sprintf("id:%s", id)))
}

// ===== CONVERSION METHODS =====

func (i *IdentityCasdoor) convertCasdoorUserToModel(casdoorUser *casdoorsdk.User) *models.User {
	if casdoorUser == nil {
		return nil
	}

	var createdAt, updatedAt time.Time
	if casdoorUser.CreatedTime != "" {
		createdAt, _ = time.Parse(time.RFC3339, casdoorUser.CreatedTime)
	}
	if casdoorUser.UpdatedTime != "" {
		updatedAt, _ = time.Parse(time.RFC3339, casdoorUser.UpdatedTime)
	}

	return &models.User{
		ID:          casdoorUser.Id,
		Email:       casdoorUser.Email,
		DisplayName: casdoorUser.DisplayName,
		Role:        MapCasdoorRole(casdoorUser.Type, casdoorUser.IsAdmin),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// MapCasdoorRole maps a Casdoor user type to an internal role.
func MapCasdoorRole(casdoorType string, isAdmin bool) models.UserRole {
	if isAdmin {
		return models.RoleAdmin
	}
	switch strings.ToLower(casdoorType) {
	case "admin", "administrator":
		return models.RoleAdmin
	case "instructor", "teacher", "educator":
		return models.RoleInstructor
	case "student", "learner":
		return models.RoleStudent
	default:
		return models.RoleStudent
	}
}
