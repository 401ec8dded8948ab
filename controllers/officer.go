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

type OfficerController struct {
	users   *services.UserService
	letters *services.LetterService
}

func NewOfficerController(users *services.UserService, letters *services.LetterService) *OfficerController {
	return &OfficerController{users: users, letters: letters}
}

type ReviewRequest struct {
	Remark string `json:"remark"`
}

// Dashboard lists letters waiting on the officer stage and the officer's
// own past decisions.
func (oc *OfficerController) Dashboard(c *gin.Context) {
	user := middleware.CurrentUser(c)

	pending, err := oc.letters.PendingForReviewer(user)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	reviewed, err := oc.letters.ReviewedBy(user)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pending_letters":  pending,
		"reviewed_letters": reviewed,
	})
}

// CompleteProfile is the mandatory one-time step for a newly created
// officer: department, phone and two proof documents.
func (oc *OfficerController) CompleteProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	department := utils.SanitizeInput(c.PostForm("department"))
	phone := utils.SanitizeInput(c.PostForm("phone"))
	if department == "" || phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Department and phone are required"})
		return
	}

	var identityRef, residenceRef *string
	if file, err := c.FormFile("identity_proof"); err == nil {
		stored, err := saveUpload(c, file)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		identityRef = &stored
	}
	if file, err := c.FormFile("residence_proof"); err == nil {
		stored, err := saveUpload(c, file)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		residenceRef = &stored
	}

	updated, err := oc.users.CompleteOfficerProfile(user.UserID, department, phone, identityRef, residenceRef)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Profile completed successfully",
		"user":      updated,
		"next_step": services.NextStep(updated),
	})
}

// ApproveLetter moves a submitted letter to officer_approved.
func (oc *OfficerController) ApproveLetter(c *gin.Context) {
	oc.review(c, true)
}

// RejectLetter moves a submitted letter to officer_rejected. The remark is
// mandatory.
func (oc *OfficerController) RejectLetter(c *gin.Context) {
	oc.review(c, false)
}

func (oc *OfficerController) review(c *gin.Context, approve bool) {
	letterID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid letter id"})
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil && approve {
		// An empty body is fine for approvals; the remark defaults to "".
		req.Remark = ""
	}

	user := middleware.CurrentUser(c)
	var letter *models.Letter
	if approve {
		letter, err = oc.letters.Approve(user, letterID, req.Remark)
	} else {
		letter, err = oc.letters.Reject(user, letterID, req.Remark)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Letter approved and sent to head for final review"
	if !approve {
		message = "Letter rejected"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"letter":  letter,
	})
}
