package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	"ideahub/internal/middleware"
	"ideahub/internal/models"
	"ideahub/internal/services"
	"ideahub/internal/utils"

	"github.com/gin-gonic/gin"
)

const listCacheKey = "idea:list"

type IdeaHandler struct {
	ideas *services.IdeaService
}

func NewIdeaHandler(ideas *services.IdeaService) *IdeaHandler {
	return &IdeaHandler{ideas: ideas}
}

func currentUser(c *gin.Context) *models.User {
	return c.MustGet(middleware.CheckUserKey).(*models.User)
}

// ideaView is what the list template renders: the idea plus its content
// already converted to HTML.
type ideaView struct {
	models.Idea
	ContentHTML template.HTML
}

// List shows all ideas, most voted first.
//
// Only the read-only view slice goes into the cache. Render injects
// per-request keys into the map it is given, so handing out one shared
// gin.H would race between requests; every request gets a fresh map.
func (h *IdeaHandler) List(c *gin.Context) {
	if cached := utils.GetCache().Get(listCacheKey); cached != nil {
		if views, ok := cached.([]ideaView); ok {
			Render(c, http.StatusOK, "idea/list.html", gin.H{
				"Ideas": views,
				"Title": "Ideas",
			})
			return
		}
	}

	ideas, err := h.ideas.List()
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load ideas")
		return
	}

	views := make([]ideaView, len(ideas))
	for i, idea := range ideas {
		views[i] = ideaView{
			Idea:        idea,
			ContentHTML: utils.RenderMarkdown(idea.Content),
		}
	}
	utils.GetCache().Set(listCacheKey, views, 1*time.Minute)

	Render(c, http.StatusOK, "idea/list.html", gin.H{
		"Ideas": views,
		"Title": "Ideas",
	})
}

func (h *IdeaHandler) ShowCreate(c *gin.Context) {
	Render(c, http.StatusOK, "idea/create.html", nil)
}

func (h *IdeaHandler) Create(c *gin.Context) {
	user := currentUser(c)
	name := c.PostForm("name")
	content := c.PostForm("content")

	if violations := validateIdea(name, content); len(violations) > 0 {
		Render(c, http.StatusBadRequest, "idea/create.html", gin.H{
			"Errors":  violations,
			"Name":    name,
			"Content": content,
		})
		return
	}

	if _, err := h.ideas.Create(user.ID, name, content); err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not save your idea")
		return
	}

	utils.GetCache().Delete(listCacheKey)
	c.Redirect(http.StatusFound, "/ideas")
}

// Vote toggles the caller's vote and sends them back to the list. A second
// identical request takes the vote away again.
func (h *IdeaHandler) Vote(c *gin.Context) {
	user := currentUser(c)
	id := uint(utils.StringToInt(c.Param("id")))

	if _, err := h.ideas.ToggleVote(id, user.ID); err != nil {
		if errors.Is(err, services.ErrIdeaNotFound) {
			RenderError(c, http.StatusNotFound, "Idea not found")
			return
		}
		RenderError(c, http.StatusInternalServerError, "Voting failed, please try again")
		return
	}

	utils.GetCache().Delete(listCacheKey)
	c.Redirect(http.StatusFound, "/ideas")
}

func (h *IdeaHandler) ShowEdit(c *gin.Context) {
	user := currentUser(c)

	idea, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	Render(c, http.StatusOK, "idea/edit.html", gin.H{"Idea": idea})
}

func (h *IdeaHandler) Update(c *gin.Context) {
	user := currentUser(c)

	idea, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	name := c.PostForm("name")
	content := c.PostForm("content")
	if violations := validateIdea(name, content); len(violations) > 0 {
		Render(c, http.StatusBadRequest, "idea/edit.html", gin.H{
			"Errors": violations,
			"Idea":   idea,
		})
		return
	}

	if err := h.ideas.Update(idea, name, content); err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not save your changes")
		return
	}

	utils.GetCache().Delete(listCacheKey)
	c.Redirect(http.StatusFound, "/ideas")
}

// ShowDelete asks for confirmation before anything is removed.
func (h *IdeaHandler) ShowDelete(c *gin.Context) {
	user := currentUser(c)

	idea, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	Render(c, http.StatusOK, "idea/delete.html", gin.H{"Idea": idea})
}

func (h *IdeaHandler) Delete(c *gin.Context) {
	user := currentUser(c)

	idea, ok := h.loadOwned(c, user)
	if !ok {
		return
	}

	if err := h.ideas.Delete(idea); err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not delete the idea")
		return
	}

	utils.GetCache().Delete(listCacheKey)
	c.Redirect(http.StatusFound, "/ideas")
}

// loadOwned fetches the idea from the route parameter and enforces that the
// caller is its author. Mutations must only happen after this passes.
func (h *IdeaHandler) loadOwned(c *gin.Context, user *models.User) (*models.Idea, bool) {
	id := uint(utils.StringToInt(c.Param("id")))

	idea, err := h.ideas.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrIdeaNotFound) {
			RenderError(c, http.StatusNotFound, "Idea not found")
		} else {
			RenderError(c, http.StatusInternalServerError, "Could not load the idea")
		}
		return nil, false
	}

	if !idea.OwnedBy(user.ID) {
		RenderError(c, http.StatusForbidden, "Only the author can change this idea")
		return nil, false
	}
	return idea, true
}

func validateIdea(name, content string) []string {
	var violations []string
	if name == "" {
		violations = append(violations, "Name is required")
	}
	if content == "" {
		violations = append(violations, "Content is required")
	}
	return violations
}
