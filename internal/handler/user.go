package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/scrapbid/marketplace/internal/model"
	"github.com/scrapbid/marketplace/internal/repository"
)

// UserHandler serves user profile endpoints.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(u *repository.UserRepo) *UserHandler {
	if u == nil {
		panic("nil repository passed to NewUserHandler")
	}
	return &UserHandler{Users: u}
}

type userUpdateReq struct {
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	Street   *string `json:"street"`
	City     *string `json:"city"`
	Country  *string `json:"country"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}

// privileged reports whether a role may read or write other users'
// profiles.
func privileged(role string) bool {
	return role == model.RoleSystemAdmin || role == model.RoleSuperUser
}

// Get returns one user profile. Users can read themselves; admins can read
// anyone. Password hashes never leave the database layer serialized.
func (h *UserHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid user id")
	}
	uid, err := getUserID(c)
	if err != nil {
		return message(c, http.StatusUnauthorized, "unauthorized")
	}
	if uid != id && !privileged(currentRole(c)) {
		return message(c, http.StatusForbidden, "access denied: insufficient permissions")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return message(c, http.StatusNotFound, "user not found")
		}
		return message(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, u)
}

// Update rewrites a user's profile. Users edit their own profile; admins
// edit anyone. Role and is_active changes require a privileged caller.
func (h *UserHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid user id")
	}
	uid, err := getUserID(c)
	if err != nil {
		return message(c, http.StatusUnauthorized, "unauthorized")
	}
	callerRole := currentRole(c)
	if uid != id && !privileged(callerRole) {
		return message(c, http.StatusForbidden, "access denied: insufficient permissions")
	}

	var req userUpdateReq
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return validationErrors(c, []string{"name is required"})
	}
	if req.Role != "" && !model.ValidRole(req.Role) {
		return validationErrors(c, []string{"unknown role"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	current, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return message(c, http.StatusNotFound, "user not found")
		}
		return message(c, http.StatusInternalServerError, "query failed")
	}

	role := current.Role
	if req.Role != "" && req.Role != current.Role {
		if !privileged(callerRole) {
			return message(c, http.StatusForbidden, "only administrators may change roles")
		}
		role = req.Role
	}
	active := current.IsActive
	if req.IsActive != nil && *req.IsActive != current.IsActive {
		if !privileged(callerRole) {
			return message(c, http.StatusForbidden, "only administrators may change account status")
		}
		active = *req.IsActive
	}

	u := model.User{
		ID:       id,
		Name:     req.Name,
		Role:     role,
		Street:   req.Street,
		City:     req.City,
		Country:  req.Country,
		Phone:    req.Phone,
		IsActive: active,
	}
	if err := h.Users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return message(c, http.StatusNotFound, "user not found")
		}
		return message(c, http.StatusInternalServerError, "update user failed")
	}

	updated, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return message(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, updated)
}
