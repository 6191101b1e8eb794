package endpoint

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ariebrainware/sisreg/middleware"
	"github.com/ariebrainware/sisreg/model"
	"github.com/ariebrainware/sisreg/referral"
	"github.com/ariebrainware/sisreg/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// searchPatients matches the keyword against name, CPF and phone digits.
func searchPatients(db *gorm.DB, keyword string, page pagination) ([]model.Patient, int64, error) {
	query := db.Model(&model.Patient{})
	if kw := strings.TrimSpace(keyword); kw != "" {
		clauses := []string{"LOWER(full_name) LIKE ?"}
		args := []interface{}{"%" + strings.ToLower(kw) + "%"}
		if digits := model.NormalizePhone(kw); digits != "" {
			clauses = append(clauses, "cpf LIKE ?", "phone_number LIKE ?")
			args = append(args, "%"+digits+"%", "%"+digits+"%")
		}
		query = query.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit := page.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	patients := []model.Patient{}
	err := query.Order("full_name ASC").Limit(limit).Offset(max(page.Offset, 0)).Find(&patients).Error
	return patients, total, err
}

// ListPatients godoc
// @Summary      Search patients
// @Description  Paginated patient search by name, CPF or phone
// @Tags         Patient
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        keyword query string false "Name, CPF or phone"
// @Param        limit query int false "Limit number of results (default 20, max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200 {object} util.APIResponse{data=object} "Patients retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient [get]
func ListPatients(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	patients, total, err := searchPatients(db, c.Query("keyword"), parsePagination(c))
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve patients", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Patients retrieved",
		Data: map[string]interface{}{"total": total, "total_fetched": len(patients), "patients": patients},
	})
}

// CreatePatient godoc
// @Summary      Get or create patient
// @Description  Find a patient by CPF, then by name and phone, and register a new one when neither matches
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        request body referral.PatientInput true "Patient details"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Existing patient found"
// @Success      201 {object} util.APIResponse{data=model.Patient} "Patient created"
// @Failure      400 {object} util.APIResponse "Invalid patient"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient [post]
func CreatePatient(c *gin.Context) {
	var req referral.PatientInput
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	svc, ok := getServiceOrRespond(c)
	if !ok {
		return
	}
	patient, created, err := svc.GetOrCreatePatient(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, "Failed to register patient", err)
		return
	}
	if created {
		util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Patient created", Data: patient})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Existing patient found", Data: patient})
}

// GetPatient godoc
// @Summary      Get patient
// @Description  A patient with their visible requests. Pending and suspended requests are left out.
// @Tags         Patient
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Patient ID"
// @Success      200 {object} util.APIResponse{data=object} "Patient retrieved"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient/{id} [get]
func GetPatient(c *gin.Context) {
	id, ok := idParam(c, "patient")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	svc, ok := getServiceOrRespond(c)
	if !ok {
		return
	}
	var patient model.Patient
	if err := db.First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Patient not found", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve patient", Err: err})
		return
	}
	requests, total, err := svc.List(c.Request.Context(), referral.ListFilter{PatientID: id, Limit: 500})
	if err != nil {
		respondError(c, "Failed to retrieve patient requests", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Patient retrieved",
		Data: map[string]interface{}{
			"patient":        patient,
			"requests":       requests,
			"total_requests": total,
		},
	})
}

// UploadPatientDocument godoc
// @Summary      Upload patient ID photo
// @Tags         Patient
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Patient ID"
// @Param        side formData string true "front or back"
// @Param        file formData file true "Image or PDF"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Document uploaded"
// @Failure      400 {object} util.APIResponse "Invalid upload"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient/{id}/documents [post]
func UploadPatientDocument(c *gin.Context) {
	id, ok := idParam(c, "patient")
	if !ok {
		return
	}
	svc, ok := getServiceOrRespond(c)
	if !ok {
		return
	}
	file, closeFile, err := formFile(c, "file")
	defer closeFile()
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid upload", Err: err})
		return
	}
	side := strings.ToLower(strings.TrimSpace(c.PostForm("side")))
	patient, err := svc.UploadPatientDocument(c.Request.Context(), middleware.GetActor(c), id, side, file)
	if err != nil {
		respondError(c, "Failed to upload document", err)
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Document uploaded", Data: patient})
}

// DownloadPatientDocument godoc
// @Summary      Download patient ID photo
// @Tags         Patient
// @Produce      octet-stream
// @Security     BearerAuth
// @Security     SessionToken
// @Param        id path int true "Patient ID"
// @Param        side path string true "front or back"
// @Success      200 {file} file "Stored document"
// @Failure      404 {object} util.APIResponse "Document not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /patient/{id}/documents/{side} [get]
func DownloadPatientDocument(c *gin.Context) {
	id, ok := idParam(c, "patient")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	var patient model.Patient
	if err := db.First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Patient not found", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve patient", Err: err})
		return
	}
	var key string
	switch c.Param("side") {
	case referral.DocumentFront:
		key = patient.IDPhotoFront
	case referral.DocumentBack:
		key = patient.IDPhotoBack
	default:
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid document side", Err: fmt.Errorf("side must be front or back")})
		return
	}
	streamFile(c, key, fmt.Sprintf("patient-%d-%s", id, c.Param("side")))
}

// streamFile copies a stored object to the response.
func streamFile(c *gin.Context, key, name string) {
	if key == "" {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "File not found", Err: fmt.Errorf("no file stored")})
		return
	}
	svc, ok := getServiceOrRespond(c)
	if !ok {
		return
	}
	rc, err := svc.OpenFile(c.Request.Context(), key)
	if err != nil {
		respondError(c, "Failed to open file", err)
		return
	}
	defer rc.Close()
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		util.Logger().Sugar().Warnw("file download interrupted", "key", key, "error", err)
	}
}
