package referral

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ariebrainware/sisreg/model"
	"github.com/ariebrainware/sisreg/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileUpload is a file received from a client.
type FileUpload struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

func (f *FileUpload) validate(field string) error {
	if f == nil || f.Body == nil || strings.TrimSpace(f.Name) == "" {
		return validationError("%s is required", field)
	}
	if f.Size <= 0 {
		return validationError("%s is empty", field)
	}
	return nil
}

func (s *Service) upload(ctx context.Context, prefix string, f *FileUpload) (storage.Object, error) {
	if s.files == nil {
		return storage.Object{}, errors.New("file storage is not configured")
	}
	return storage.Upload(ctx, s.files, prefix, f.Name, f.Body, f.Size, f.ContentType)
}

// removeFiles deletes stored objects on a best-effort basis.
func (s *Service) removeFiles(ctx context.Context, keys ...string) {
	if s.files == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.files.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			s.log.Warn("failed to remove stored file", zap.String("key", key), zap.Error(err))
		}
	}
}

// AttachFile stores a supporting document on a request, replacing any
// previous attachment.
func (s *Service) AttachFile(ctx context.Context, actor Actor, id uint, f *FileUpload) (model.Request, error) {
	if err := actor.require("attach files", staffRoles...); err != nil {
		return model.Request{}, err
	}
	if err := f.validate("file"); err != nil {
		return model.Request{}, err
	}
	if _, err := s.loadRequest(s.db.WithContext(ctx), id); err != nil {
		return model.Request{}, err
	}

	obj, err := s.upload(ctx, fmt.Sprintf("requests/%d/attachments", id), f)
	if err != nil {
		return model.Request{}, err
	}

	var (
		req     model.Request
		oldKey  string
		now     = s.now()
		updates = map[string]interface{}{
			"attachment_key":            obj.Key,
			"attachment_name":           obj.Name,
			"attachment_size":           obj.Size,
			"attachment_mime":           obj.ContentType,
			"attachment_uploaded_by_id": actor.UserID,
			"attachment_uploaded_at":    now,
			"updated_at":                now,
		}
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if req, err = s.loadRequest(tx, id); err != nil {
			return err
		}
		oldKey = req.AttachmentKey
		if err := tx.Model(&model.Request{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.First(&req, id).Error; err != nil {
			return err
		}
		return s.logActivity(tx, activity{
			actor:       actor,
			action:      model.ActionAttach,
			requestID:   ptr(req.ID),
			patientID:   ptr(req.PatientID),
			description: "Attachment uploaded: " + obj.Name,
		})
	})
	if err != nil {
		s.removeFiles(ctx, obj.Key)
		return model.Request{}, err
	}
	s.removeFiles(ctx, oldKey)
	return req, nil
}

// Patient document sides.
const (
	DocumentFront = "front"
	DocumentBack  = "back"
)

// UploadPatientDocument stores the front or back photo of a patient's ID.
func (s *Service) UploadPatientDocument(ctx context.Context, actor Actor, patientID uint, side string, f *FileUpload) (model.Patient, error) {
	if err := actor.require("upload patient documents", staffRoles...); err != nil {
		return model.Patient{}, err
	}
	column := map[string]string{DocumentFront: "id_photo_front", DocumentBack: "id_photo_back"}[side]
	if column == "" {
		return model.Patient{}, validationError("side must be %q or %q", DocumentFront, DocumentBack)
	}
	if err := f.validate("photo"); err != nil {
		return model.Patient{}, err
	}
	if !strings.HasPrefix(f.ContentType, "image/") && f.ContentType != "application/pdf" {
		return model.Patient{}, validationError("photo must be an image or a PDF")
	}

	var patient model.Patient
	if err := s.db.WithContext(ctx).First(&patient, patientID).Error; err != nil {
		return model.Patient{}, classifyDBError(err, "patient", patientID)
	}
	obj, err := s.upload(ctx, fmt.Sprintf("patients/%d", patientID), f)
	if err != nil {
		return model.Patient{}, err
	}

	oldKey := patient.IDPhotoFront
	if side == DocumentBack {
		oldKey = patient.IDPhotoBack
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&patient).Update(column, obj.Key).Error; err != nil {
			return err
		}
		return s.logActivity(tx, activity{
			actor:       actor,
			action:      model.ActionPatientPhoto,
			patientID:   ptr(patient.ID),
			description: "Patient ID photo uploaded (" + side + ")",
		})
	})
	if err != nil {
		s.removeFiles(ctx, obj.Key)
		return model.Patient{}, err
	}
	if side == DocumentFront {
		patient.IDPhotoFront = obj.Key
	} else {
		patient.IDPhotoBack = obj.Key
	}
	s.removeFiles(ctx, oldKey)
	return patient, nil
}

// OpenFile streams a stored object.
func (s *Service) OpenFile(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.files == nil {
		return nil, errors.New("file storage is not configured")
	}
	rc, err := s.files.Get(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, &Error{Kind: KindNotFound, Msg: "file not found", Err: err}
	}
	return rc, err
}
