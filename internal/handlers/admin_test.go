package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"ideahub/internal/db"
	"ideahub/internal/models"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func newAdminTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	render := multitemplate.NewRenderer()
	render.AddFromString("error.html", "{{.Error}}")
	render.AddFromString("admin/create_role.html", "{{with .Error}}{{.}}{{end}}")
	r.HTMLRender = render

	h := NewAdminHandler()
	r.POST("/admin/roles/new", h.CreateRole)
	return r
}

// Duplicate role names are rejected by the unique index, whichever request
// reaches the database second.
func TestCreateRoleDuplicate(t *testing.T) {
	gdb := newTestDB(t)
	orig := db.DB
	db.DB = gdb
	t.Cleanup(func() { db.DB = orig })

	r := newAdminTestRouter()

	w := postForm(r, "/admin/roles/new", url.Values{"name": {"moderator"}})
	if w.Code != http.StatusFound {
		t.Fatalf("Expected redirect after create, got %d", w.Code)
	}

	w = postForm(r, "/admin/roles/new", url.Values{"name": {"moderator"}})
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 for duplicate role, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "already exists") {
		t.Errorf("Conflict page should name the problem: %q", w.Body.String())
	}

	var count int64
	gdb.Model(&models.Role{}).Where("name = ?", "moderator").Count(&count)
	if count != 1 {
		t.Errorf("Expected one moderator role, got %d", count)
	}
}

// Unique index violations must come back as gorm.ErrDuplicatedKey so
// handlers can map them to a conflict response.
func TestRoleUniqueViolationTranslated(t *testing.T) {
	gdb := newTestDB(t)

	if err := gdb.Create(&models.Role{Name: "editor"}).Error; err != nil {
		t.Fatalf("First create failed: %v", err)
	}
	err := gdb.Create(&models.Role{Name: "editor"}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("Expected gorm.ErrDuplicatedKey, got %v", err)
	}
}
