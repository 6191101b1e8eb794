package referral

import (
	"context"
	"errors"
	"strings"

	"github.com/ariebrainware/sisreg/model"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// PatientInput identifies an existing patient or describes a new one.
type PatientInput struct {
	FullName    string `json:"full_name" example:"Maria da Silva"`
	CPF         string `json:"cpf" example:"123.456.789-09"`
	CNS         string `json:"cns"`
	BirthDate   string `json:"birth_date" example:"1980-05-17"`
	PhoneNumber string `json:"phone_number" example:"(11) 99999-8888"`
	Address     string `json:"address"`
}

// CreateInput describes a referral for one patient. One request is created
// per listed exam or consultation type.
type CreateInput struct {
	PatientID           uint          `json:"patient_id"`
	Patient             *PatientInput `json:"patient"`
	ExamTypeID          *uint         `json:"exam_type_id"`
	ConsultationTypeID  *uint         `json:"consultation_type_id"`
	ExamTypeIDs         []uint        `json:"exam_type_ids"`
	ConsultationTypeIDs []uint        `json:"consultation_type_ids"`
	HealthUnitID        uint          `json:"health_unit_id"`
	IsUrgent            bool          `json:"is_urgent"`
	Notes               string        `json:"notes"`
}

func (in CreateInput) serviceSelection() (exams, consultations []uint, err error) {
	if in.ExamTypeID != nil && in.ConsultationTypeID != nil {
		return nil, nil, conflictError("a request names either an exam type or a consultation type, not both")
	}
	exams = lo.Uniq(in.ExamTypeIDs)
	consultations = lo.Uniq(in.ConsultationTypeIDs)
	if in.ExamTypeID != nil && !lo.Contains(exams, *in.ExamTypeID) {
		exams = append(exams, *in.ExamTypeID)
	}
	if in.ConsultationTypeID != nil && !lo.Contains(consultations, *in.ConsultationTypeID) {
		consultations = append(consultations, *in.ConsultationTypeID)
	}
	if len(exams)+len(consultations) == 0 {
		return nil, nil, conflictError("a request must name an exam type or a consultation type")
	}
	if lo.Contains(exams, 0) || lo.Contains(consultations, 0) {
		return nil, nil, validationError("service type ids must be positive")
	}
	return exams, consultations, nil
}

// Create registers one request per selected type for a patient. Types that
// need secretary approval start pending; the rest start received.
func (s *Service) Create(ctx context.Context, actor Actor, in CreateInput) ([]model.Request, error) {
	if err := actor.require("create requests", createRoles...); err != nil {
		return nil, err
	}
	exams, consultations, err := in.serviceSelection()
	if err != nil {
		return nil, err
	}
	if in.PatientID == 0 && in.Patient == nil {
		return nil, validationError("patient_id or patient is required")
	}

	var created []model.Request
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		unitID, err := s.resolveHealthUnit(tx, actor, in.HealthUnitID)
		if err != nil {
			return err
		}

		var patient model.Patient
		if in.PatientID != 0 {
			if err := tx.First(&patient, in.PatientID).Error; err != nil {
				return classifyDBError(err, "patient", in.PatientID)
			}
		} else if patient, _, err = s.getOrCreatePatient(tx, actor, *in.Patient); err != nil {
			return err
		}

		now := s.now()
		period := PeriodOf(now)
		base := model.Request{
			CreatedAt:      now,
			UpdatedAt:      now,
			PatientID:      patient.ID,
			CreatedByID:    actor.UserID,
			HealthUnitID:   unitID,
			IsUrgent:       in.IsUrgent,
			Notes:          strings.TrimSpace(in.Notes),
			ReportingYear:  period.Year,
			ReportingMonth: period.Month,
		}

		for _, id := range exams {
			var et model.ExamType
			if err := tx.First(&et, id).Error; err != nil {
				return classifyDBError(err, "exam type", id)
			}
			req := base
			req.ExamTypeID = ptr(et.ID)
			if err := s.insertRequest(tx, actor, &req, et.CatalogEntry); err != nil {
				return err
			}
			req.ExamType = &et
			created = append(created, req)
		}
		for _, id := range consultations {
			var ct model.ConsultationType
			if err := tx.First(&ct, id).Error; err != nil {
				return classifyDBError(err, "consultation type", id)
			}
			req := base
			req.ConsultationTypeID = ptr(ct.ID)
			if err := s.insertRequest(tx, actor, &req, ct.CatalogEntry); err != nil {
				return err
			}
			req.ConsultationType = &ct
			created = append(created, req)
		}
		for i := range created {
			created[i].Patient = &patient
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) insertRequest(tx *gorm.DB, actor Actor, req *model.Request, entry model.CatalogEntry) error {
	if !entry.IsActive {
		return validationError("%s is not active", entry.Name)
	}
	req.Status = entry.InitialStatus()
	if err := tx.Create(req).Error; err != nil {
		return classifyDBError(err, "request", 0)
	}
	description := "Request created for " + entry.Name
	if req.Status == model.StatusPending {
		description += ", awaiting secretary approval"
	}
	return s.logActivity(tx, activity{
		actor:       actor,
		action:      model.ActionCreate,
		requestID:   ptr(req.ID),
		patientID:   ptr(req.PatientID),
		newStatus:   req.Status,
		description: description,
	})
}

// resolveHealthUnit falls back to the creator's own unit.
func (s *Service) resolveHealthUnit(tx *gorm.DB, actor Actor, unitID uint) (uint, error) {
	if unitID == 0 {
		var user model.User
		if err := tx.First(&user, actor.UserID).Error; err != nil {
			return 0, classifyDBError(err, "user", actor.UserID)
		}
		if user.HealthUnitID == nil {
			return 0, validationError("health_unit_id is required")
		}
		unitID = *user.HealthUnitID
	}
	var unit model.HealthUnit
	if err := tx.First(&unit, unitID).Error; err != nil {
		return 0, classifyDBError(err, "health unit", unitID)
	}
	return unit.ID, nil
}

// GetOrCreatePatient finds a patient by CPF, then by name and phone, and
// creates one when neither matches.
func (s *Service) GetOrCreatePatient(ctx context.Context, actor Actor, in PatientInput) (model.Patient, bool, error) {
	if err := actor.require("register patients", staffRoles...); err != nil {
		return model.Patient{}, false, err
	}
	var (
		patient model.Patient
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		patient, created, err = s.getOrCreatePatient(tx, actor, in)
		return err
	})
	return patient, created, err
}

func (s *Service) getOrCreatePatient(tx *gorm.DB, actor Actor, in PatientInput) (model.Patient, bool, error) {
	name := strings.Join(strings.Fields(in.FullName), " ")
	phone := model.NormalizePhone(in.PhoneNumber)
	cpf := model.NormalizeCPF(in.CPF)
	if strings.TrimSpace(in.CPF) != "" && cpf == "" {
		return model.Patient{}, false, validationError("cpf must have 11 digits")
	}

	var patient model.Patient
	if cpf != "" {
		err := tx.Where("cpf = ?", cpf).First(&patient).Error
		if err == nil {
			return patient, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Patient{}, false, err
		}
	}
	if name != "" && phone != "" {
		err := tx.Where("LOWER(full_name) = LOWER(?) AND phone_number = ?", name, phone).First(&patient).Error
		if err == nil {
			if cpf != "" && patient.CPF == nil {
				if err := tx.Model(&patient).Update("cpf", cpf).Error; err != nil {
					return model.Patient{}, false, err
				}
			}
			return patient, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Patient{}, false, err
		}
	}

	if name == "" {
		return model.Patient{}, false, validationError("full_name is required to register a patient")
	}
	patient = model.Patient{
		FullName:    name,
		CNS:         strings.TrimSpace(in.CNS),
		BirthDate:   strings.TrimSpace(in.BirthDate),
		PhoneNumber: phone,
		Address:     strings.TrimSpace(in.Address),
	}
	if cpf != "" {
		patient.CPF = &cpf
	}
	if err := tx.Create(&patient).Error; err != nil {
		return model.Patient{}, false, err
	}
	err := s.logActivity(tx, activity{
		actor:       actor,
		action:      model.ActionPatientCreate,
		patientID:   ptr(patient.ID),
		description: "Patient registered: " + patient.FullName,
	})
	return patient, true, err
}
