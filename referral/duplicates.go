package referral

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ariebrainware/sisreg/model"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// DuplicateWindow is how close two requests for the same patient and service
// must be to be flagged.
const DuplicateWindow = 30 * 24 * time.Hour

// DuplicateEntry is a request flagged as a likely duplicate.
type DuplicateEntry struct {
	RequestID   uint                `json:"request_id"`
	PatientID   uint                `json:"patient_id"`
	PatientName string              `json:"patient_name"`
	ServiceName string              `json:"service_name"`
	Status      model.RequestStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	MatchedWith []uint              `json:"matched_with"`
}

// duplicateKey groups by patient and the service name exactly as stored.
func duplicateKey(r model.Request) string {
	return fmt.Sprintf("%d|%s", r.PatientID, r.ServiceName())
}

// FindDuplicates flags every request that has another request for the same
// patient and service name created within window of it. Each flagged request
// appears once, oldest first. Types must be preloaded.
func FindDuplicates(requests []model.Request, window time.Duration) []DuplicateEntry {
	groups := lo.GroupBy(lo.Filter(requests, func(r model.Request, _ int) bool {
		return r.ServiceName() != ""
	}), duplicateKey)

	matches := map[uint][]uint{}
	byID := map[uint]model.Request{}
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].CreatedAt.Equal(group[j].CreatedAt) {
				return group[i].ID < group[j].ID
			}
			return group[i].CreatedAt.Before(group[j].CreatedAt)
		})
		for i := range group {
			for j := i + 1; j < len(group); j++ {
				// group is sorted, so later pairs are only further apart
				if group[j].CreatedAt.Sub(group[i].CreatedAt) > window {
					break
				}
				a, b := group[i], group[j]
				matches[a.ID] = append(matches[a.ID], b.ID)
				matches[b.ID] = append(matches[b.ID], a.ID)
				byID[a.ID], byID[b.ID] = a, b
			}
		}
	}

	out := make([]DuplicateEntry, 0, len(byID))
	for id, r := range byID {
		entry := DuplicateEntry{
			RequestID:   id,
			PatientID:   r.PatientID,
			ServiceName: r.ServiceName(),
			Status:      r.Status,
			CreatedAt:   r.CreatedAt,
			MatchedWith: lo.Uniq(matches[id]),
		}
		if r.Patient != nil {
			entry.PatientName = r.Patient.FullName
		}
		sort.Slice(entry.MatchedWith, func(i, j int) bool { return entry.MatchedWith[i] < entry.MatchedWith[j] })
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].RequestID < out[j].RequestID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Duplicates scans every stored request, pending and suspended included.
// Requests are compared by created_at, which forwarding never changes, so a
// forwarded request can still match requests from the month it was created
// in even though it now reports in a later month.
func (s *Service) Duplicates(ctx context.Context) ([]DuplicateEntry, error) {
	var requests []model.Request
	err := s.db.WithContext(ctx).
		Select("id", "patient_id", "exam_type_id", "consultation_type_id", "status", "created_at").
		Preload("Patient", unscoped).Preload("ExamType", unscoped).Preload("ConsultationType", unscoped).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return FindDuplicates(requests, DuplicateWindow), nil
}

func unscoped(db *gorm.DB) *gorm.DB { return db.Unscoped() }
