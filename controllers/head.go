package controllers

import (
	"net/http"
	"strconv"

	"letter-approval-api/middleware"
	"letter-approval-api/models"
	"letter-approval-api/services"
	"letter-approval-api/utils"

	"github.com/gin-gonic/gin"
)

type HeadController struct {
	users   *services.UserService
	letters *services.LetterService
}

func NewHeadController(users *services.UserService, letters *services.LetterService) *HeadController {
	return &HeadController{users: users, letters: letters}
}

// Dashboard assembles the head's review queues: letters cleared by an
// officer, the head's own past decisions, applicants awaiting document
// review and the officer roster.
func (hc *HeadController) Dashboard(c *gin.Context) {
	user := middleware.CurrentUser(c)

	pending, err := hc.letters.PendingForReviewer(user)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	reviewed, err := hc.letters.ReviewedBy(user)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	pendingUsers, err := hc.users.PendingApplicants()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	officers, err := hc.users.Officers()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pending_letters":  pending,
		"reviewed_letters": reviewed,
		"pending_users":    pendingUsers,
		"officers":         officers,
	})
}

// ApproveLetter moves an officer_approved letter to head_approved.
func (hc *HeadController) ApproveLetter(c *gin.Context) {
	hc.review(c, true)
}

// RejectLetter moves an officer_approved letter to head_rejected. The
// remark is mandatory.
func (hc *HeadController) RejectLetter(c *gin.Context) {
	hc.review(c, false)
}

func (hc *HeadController) review(c *gin.Context, approve bool) {
	letterID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid letter id"})
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil && approve {
		req.Remark = ""
	}

	user := middleware.CurrentUser(c)
	var letter *models.Letter
	if approve {
		letter, err = hc.letters.Approve(user, letterID, req.Remark)
	} else {
		letter, err = hc.letters.Reject(user, letterID, req.Remark)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Letter approved"
	if !approve {
		message = "Letter rejected"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"letter":  letter,
	})
}

// ApproveUser sets the approval flag for an eligible applicant.
func (hc *HeadController) ApproveUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	user, err := hc.users.ApproveApplicant(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User approved successfully",
		"user":    user,
	})
}

// RejectUser wipes the applicant's documents and approval flag so the
// onboarding starts over.
func (hc *HeadController) RejectUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	user, err := hc.users.RejectApplicantDocuments(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User documents rejected; resubmission required",
		"user":    user,
	})
}

// CreateOfficer registers a new first-stage reviewer account.
func (hc *HeadController) CreateOfficer(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username := utils.SanitizeInput(req.Username)
	if !utils.ValidateUsername(username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username format"})
		return
	}
	if ok, msg := utils.ValidatePassword(req.Password); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	officer, err := hc.users.CreateOfficer(username, utils.SanitizeInput(req.FullName),
		utils.SanitizeInput(req.Designation), req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Officer account created successfully",
		"user":    officer,
	})
}
