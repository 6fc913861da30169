package handlers

import (
	"errors"
	"net/http"
	"strings"

	"ideahub/internal/db"
	"ideahub/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminHandler struct{}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

func (h *AdminHandler) ShowCreateRole(c *gin.Context) {
	Render(c, http.StatusOK, "admin/create_role.html", nil)
}

func (h *AdminHandler) CreateRole(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		Render(c, http.StatusBadRequest, "admin/create_role.html", gin.H{
			"Error": "Role name is required",
		})
		return
	}

	// The unique index on the name is what actually decides duplicates; a
	// concurrent insert can slip past any lookup done beforehand.
	if err := db.DB.Create(&models.Role{Name: name}).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Render(c, http.StatusConflict, "admin/create_role.html", gin.H{
				"Error": "A role with this name already exists",
				"Name":  name,
			})
			return
		}
		RenderError(c, http.StatusInternalServerError, "Could not create the role")
		return
	}

	c.Redirect(http.StatusFound, "/admin/roles")
}

func (h *AdminHandler) ListRoles(c *gin.Context) {
	var roles []models.Role
	if err := db.DB.Order("id ASC").Find(&roles).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load roles")
		return
	}

	Render(c, http.StatusOK, "admin/roles.html", gin.H{"Roles": roles})
}
