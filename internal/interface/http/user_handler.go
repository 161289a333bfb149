package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	userapp "github.com/oksasatya/go-user-service/internal/application"
	"github.com/oksasatya/go-user-service/internal/domain/apperror"
	"github.com/oksasatya/go-user-service/pkg/response"
	"github.com/oksasatya/go-user-service/pkg/validation"
)

const msgUserDeleted = "User deleted successfully"

type UserHandler struct {
	UC *userapp.UseCases
}

func NewUserHandler(uc *userapp.UseCases) *UserHandler {
	return &UserHandler{UC: uc}
}

type createUserRequest struct {
	Name     string `json:"name" binding:"required,min=1"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type updateUserRequest struct {
	Name     *string `json:"name" binding:"omitnil,min=1"`
	Email    *string `json:"email" binding:"omitnil,email"`
	Password *string `json:"password" binding:"omitnil,pwd"`
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(apperror.Validation("Validation failed", validation.ToDetails(err)))
		return false
	}
	return true
}

// parseID treats anything that is not a positive integer as an unknown user.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		_ = c.Error(apperror.NotFound(userapp.MsgUserNotFound))
		return 0, false
	}
	return id, true
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.UC.Create.Execute(c.Request.Context(), userapp.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, u, "")
}

func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.UC.GetAll.Execute(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, users, "")
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	u, err := h.UC.GetByID.Execute(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, u, "")
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.UC.Update.Execute(c.Request.Context(), id, userapp.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, u, "")
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.UC.Delete.Execute(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, nil, msgUserDeleted)
}

// Search looks users up by name or email through the search index.
func (h *UserHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		_ = c.Error(apperror.Validation("Validation failed", []validation.ValidationsError{{Field: "q", Message: "is required"}}))
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))
	users, err := h.UC.Search.Execute(c.Request.Context(), q, size)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, users, "")
}
