package controllers

import (
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"letter-approval-api/middleware"
	"letter-approval-api/models"
	"letter-approval-api/services"
	"letter-approval-api/utils"

	"github.com/gin-gonic/gin"
)

type DocumentController struct {
	users *services.UserService
}

func NewDocumentController(users *services.UserService) *DocumentController {
	return &DocumentController{users: users}
}

func uploadDir() string {
	dir := os.Getenv("UPLOAD_PATH")
	if dir == "" {
		dir = "./uploads"
	}
	return dir
}

// saveUpload validates the extension against the allow-list and stores the
// file under an opaque name, returning the reference.
func saveUpload(c *gin.Context, file *multipart.FileHeader) (string, error) {
	if !utils.AllowedUploadExt(file.Filename) {
		return "", services.ErrUnsupportedFileType
	}

	stored := utils.StoredFilename(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(uploadDir(), stored)); err != nil {
		return "", err
	}
	return stored, nil
}

// UploadDocuments accepts any subset of the three onboarding documents from
// an applicant. Each accepted file replaces the previous reference for that
// slot; eligibility is recomputed on read.
func (dc *DocumentController) UploadDocuments(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var refs services.DocumentRefs
	uploaded := 0
	fields := []struct {
		name string
		dest **string
	}{
		{"identity_proof", &refs.IdentityProof},
		{"residence_proof", &refs.ResidenceProof},
		{"incident_report", &refs.IncidentReport},
	}
	for _, field := range fields {
		file, err := c.FormFile(field.name)
		if err != nil {
			continue
		}
		stored, err := saveUpload(c, file)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		*field.dest = &stored
		uploaded++
	}

	if uploaded == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No documents provided"})
		return
	}

	updated, err := dc.users.SubmitDocuments(user.UserID, refs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Documents uploaded successfully",
		"user":      updated,
		"eligible":  updated.HasSubmittedDocs(),
		"next_step": services.NextStep(updated),
	})
}

// DownloadDocument streams a stored onboarding document. Users may fetch
// their own documents; the head may fetch anyone's.
func (dc *DocumentController) DownloadDocument(c *gin.Context) {
	user := middleware.CurrentUser(c)

	owner := user
	if ownerParam := c.Query("user_id"); ownerParam != "" {
		if user.Role != models.RoleHead {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		ownerID, err := strconv.Atoi(ownerParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}
		fetched, err := dc.users.GetByID(ownerID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		owner = fetched
	}

	var ref *string
	switch c.Param("kind") {
	case "identity_proof":
		ref = owner.IdentityProof
	case "residence_proof":
		ref = owner.ResidenceProof
	case "incident_report":
		ref = owner.IncidentReport
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown document kind"})
		return
	}

	if ref == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrNotFound.Error()})
		return
	}

	c.FileAttachment(filepath.Join(uploadDir(), *ref), *ref)
}
