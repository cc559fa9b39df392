// Package admin is the client for user, role, and permission management.
package admin

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/clinova/vedika-workbench/internal/httpx"
)

// User is one managed account.
type User struct {
	ID                  string               `json:"id"`
	Username            string               `json:"username"`
	Email               string               `json:"email"`
	IsActive            bool                 `json:"is_active"`
	LastLoginAt         *string              `json:"last_login_at"`
	CreatedAt           string               `json:"created_at"`
	UpdatedAt           string               `json:"updated_at"`
	Roles               []Role               `json:"roles"`
	Permissions         []string             `json:"permissions"`
	PermissionOverrides []PermissionOverride `json:"permission_overrides,omitempty"`
}

// Role groups permissions for assignment.
type Role struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description,omitempty"`
	IsSystem        bool         `json:"is_system,omitempty"`
	PermissionCount int          `json:"permission_count,omitempty"`
	Permissions     []Permission `json:"permissions,omitempty"`
}

// Permission is one grantable action.
type Permission struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Domain      string `json:"domain"`
	Action      string `json:"action"`
	Description string `json:"description,omitempty"`
}

// PermissionOverride grants or revokes one permission for a single user
// on top of their roles.
type PermissionOverride struct {
	PermissionID   string `json:"permission_id"`
	PermissionCode string `json:"permission_code,omitempty"`
	Effect         string `json:"effect" validate:"oneof=grant revoke"`
}

// UserFilter narrows the user listing.
type UserFilter struct {
	Page   int
	Limit  int
	Status string
	Role   string
	Search string
}

func (f UserFilter) query() url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Role != "" {
		q.Set("role", f.Role)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return q
}

// UserPage is one page of the user listing.
type UserPage struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// CreateUserRequest creates a new account.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// UpdateUserRequest changes account fields; nil fields stay untouched.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Client calls the admin endpoints.
type Client struct {
	http     *httpx.Client
	validate *validator.Validate
}

func NewClient(http *httpx.Client) *Client {
	return &Client{
		http:     http,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Users lists accounts matching the filter. Listing renders its own
// skeleton so it stays off the global loading overlay.
func (c *Client) Users(ctx context.Context, filter UserFilter) (*UserPage, error) {
	var resp struct {
		Success bool     `json:"success"`
		Data    UserPage `json:"data"`
	}
	if err := c.http.Get(ctx, "/admin/users", filter.query(), &resp, httpx.WithoutLoading()); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// User fetches one account with its roles and overrides.
func (c *Client) User(ctx context.Context, id string) (*User, error) {
	var resp struct {
		Success bool `json:"success"`
		Data    User `json:"data"`
	}
	if err := c.http.Get(ctx, "/admin/users/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// CreateUser creates an account.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid create user request: %w", err)
	}
	var resp struct {
		Success bool `json:"success"`
		Data    User `json:"data"`
	}
	if err := c.http.Post(ctx, "/admin/users", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// UpdateUser changes account fields.
func (c *Client) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid update user request: %w", err)
	}
	var resp struct {
		Success bool `json:"success"`
		Data    User `json:"data"`
	}
	if err := c.http.Put(ctx, "/admin/users/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.http.Delete(ctx, "/admin/users/"+url.PathEscape(id), nil, nil)
}

// AssignRoles replaces a user's role set.
func (c *Client) AssignRoles(ctx context.Context, userID string, roleIDs []string) error {
	body := map[string][]string{"role_ids": roleIDs}
	return c.http.Put(ctx, "/admin/users/"+url.PathEscape(userID)+"/roles", body, nil)
}

// AssignPermissionOverrides replaces a user's per-user grant/revoke list.
func (c *Client) AssignPermissionOverrides(ctx context.Context, userID string, overrides []PermissionOverride) error {
	for _, o := range overrides {
		if err := c.validate.Struct(o); err != nil {
			return fmt.Errorf("invalid permission override: %w", err)
		}
	}
	body := map[string][]PermissionOverride{"overrides": overrides}
	return c.http.Put(ctx, "/admin/users/"+url.PathEscape(userID)+"/permissions", body, nil)
}

// CopyAccess copies roles and overrides from another account.
func (c *Client) CopyAccess(ctx context.Context, userID, sourceUserID string) error {
	body := map[string]string{"source_user_id": sourceUserID}
	return c.http.Post(ctx, "/admin/users/"+url.PathEscape(userID)+"/copy-access", body, nil)
}

// ResetPassword sets a new password for an account.
func (c *Client) ResetPassword(ctx context.Context, userID, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	body := map[string]string{"new_password": newPassword}
	return c.http.Post(ctx, "/admin/users/"+url.PathEscape(userID)+"/reset-password", body, nil)
}

// ActivateUser re-enables a deactivated account.
func (c *Client) ActivateUser(ctx context.Context, userID string) error {
	return c.http.Post(ctx, "/admin/users/"+url.PathEscape(userID)+"/activate", nil, nil)
}

// DeactivateUser disables an account without deleting it.
func (c *Client) DeactivateUser(ctx context.Context, userID string) error {
	return c.http.Post(ctx, "/admin/users/"+url.PathEscape(userID)+"/deactivate", nil, nil)
}

// Roles lists all roles.
func (c *Client) Roles(ctx context.Context) ([]Role, error) {
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Roles []Role `json:"roles"`
		} `json:"data"`
	}
	if err := c.http.Get(ctx, "/admin/roles", nil, &resp, httpx.WithoutLoading()); err != nil {
		return nil, err
	}
	return resp.Data.Roles, nil
}

// Role fetches one role with its permissions.
func (c *Client) Role(ctx context.Context, id string) (*Role, error) {
	var resp struct {
		Success bool `json:"success"`
		Data    Role `json:"data"`
	}
	if err := c.http.Get(ctx, "/admin/roles/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// CreateRole creates a role.
func (c *Client) CreateRole(ctx context.Context, name, description string) (*Role, error) {
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}
	body := map[string]string{"name": name, "description": description}
	var resp struct {
		Success bool `json:"success"`
		Data    Role `json:"data"`
	}
	if err := c.http.Post(ctx, "/admin/roles", body, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// UpdateRole renames or re-describes a role.
func (c *Client) UpdateRole(ctx context.Context, id, name, description string) error {
	body := map[string]string{"name": name, "description": description}
	return c.http.Put(ctx, "/admin/roles/"+url.PathEscape(id), body, nil)
}

// DeleteRole removes a role.
func (c *Client) DeleteRole(ctx context.Context, id string) error {
	return c.http.Delete(ctx, "/admin/roles/"+url.PathEscape(id), nil, nil)
}

// AssignRolePermissions replaces a role's permission set.
func (c *Client) AssignRolePermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	body := map[string][]string{"permission_ids": permissionIDs}
	return c.http.Put(ctx, "/admin/roles/"+url.PathEscape(roleID)+"/permissions", body, nil)
}

// Permissions lists all permissions, optionally scoped to one domain.
func (c *Client) Permissions(ctx context.Context, domain string) ([]Permission, error) {
	var query url.Values
	if domain != "" {
		query = url.Values{}
		query.Set("domain", domain)
	}
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Permissions []Permission `json:"permissions"`
		} `json:"data"`
	}
	if err := c.http.Get(ctx, "/admin/permissions", query, &resp, httpx.WithoutLoading()); err != nil {
		return nil, err
	}
	return resp.Data.Permissions, nil
}
