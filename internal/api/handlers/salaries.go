package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/mlb-dfs-projections/internal/providers/draftkings"
	"github.com/jstittsworth/mlb-dfs-projections/internal/services"
	"github.com/jstittsworth/mlb-dfs-projections/pkg/utils"
)

const maxSalaryUpload = 5 << 20

type SalaryHandler struct {
	service *services.ProjectionService
	logger  *logrus.Logger
}

func NewSalaryHandler(service *services.ProjectionService, logger *logrus.Logger) *SalaryHandler {
	return &SalaryHandler{service: service, logger: logger}
}

// UploadSalaries replaces the DraftKings salary file used by subsequent runs.
// Expects a multipart form with the CSV under "file".
func (h *SalaryHandler) UploadSalaries(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		utils.SendValidationError(c, "Missing salary file", err.Error())
		return
	}
	if header.Size > maxSalaryUpload {
		utils.SendValidationError(c, "Salary file too large", header.Filename)
		return
	}

	f, err := header.Open()
	if err != nil {
		utils.SendValidationError(c, "Unreadable salary file", err.Error())
		return
	}
	defer f.Close()

	salaries, err := draftkings.ParseSalaries(f)
	if err != nil {
		utils.SendValidationError(c, "Invalid salary file", err.Error())
		return
	}

	rows, err := h.service.SetSalaries(salaries)
	if err != nil {
		_ = c.Error(err)
		utils.SendInternalError(c, "Failed to load salaries")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"file": header.Filename,
		"rows": rows,
	}).Info("Salary file uploaded")
	utils.SendSuccess(c, gin.H{"rows": rows, "file": header.Filename})
}
