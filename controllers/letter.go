package controllers

import (
	"net/http"
	"strconv"

	"letter-approval-api/middleware"
	"letter-approval-api/services"

	"github.com/gin-gonic/gin"
)

type LetterController struct {
	letters *services.LetterService
}

func NewLetterController(letters *services.LetterService) *LetterController {
	return &LetterController{letters: letters}
}

// GetTemplates returns the available letter templates rendered for the
// current user as a preview.
func (lc *LetterController) GetTemplates(c *gin.Context) {
	user := middleware.CurrentUser(c)

	templates := make([]*services.LetterTemplate, 0)
	for _, letterType := range services.LetterTemplateTypes() {
		tmpl, err := services.RenderLetterTemplate(letterType, user)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		templates = append(templates, tmpl)
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// CreateLetter renders the chosen template and submits it in one step.
func (lc *LetterController) CreateLetter(c *gin.Context) {
	type CreateLetterRequest struct {
		LetterType string `json:"letter_type" binding:"required"`
	}

	var req CreateLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	letter, err := lc.letters.CreateFromTemplate(user, req.LetterType)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Letter submitted for approval",
		"letter":  letter,
	})
}

// GetLetter returns a single letter, honoring the visibility rule.
func (lc *LetterController) GetLetter(c *gin.Context) {
	letterID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid letter id"})
		return
	}

	letter, err := lc.letters.Get(letterID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	if !services.CanViewLetter(user, letter) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to view this letter"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"letter": letter})
}

// ListLetters returns every letter visible to the current user.
func (lc *LetterController) ListLetters(c *gin.Context) {
	user := middleware.CurrentUser(c)

	letters, err := lc.letters.ListVisible(user)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"letters": letters,
		"total":   len(letters),
	})
}
