package model

import (
	"strings"
	"unicode"

	"gorm.io/gorm"
)

// Patient is keyed by CPF when one is known. IDPhotoFront and IDPhotoBack hold
// storage object keys.
type Patient struct {
	gorm.Model
	FullName     string  `json:"full_name" gorm:"type:varchar(191);not null;index" example:"Maria da Silva"`
	CPF          *string `json:"cpf" gorm:"type:varchar(11);uniqueIndex" example:"12345678909"`
	CNS          string  `json:"cns" gorm:"type:varchar(20)" example:"898001160660006"`
	BirthDate    string  `json:"birth_date" example:"1980-05-17"`
	PhoneNumber  string  `json:"phone_number" gorm:"type:varchar(32);index" example:"11999998888"`
	Address      string  `json:"address"`
	IDPhotoFront string  `json:"id_photo_front,omitempty"`
	IDPhotoBack  string  `json:"id_photo_back,omitempty"`
}

// NormalizeCPF keeps only the digits of a CPF. It returns "" when the
// result is not an 11-digit number.
func NormalizeCPF(cpf string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, cpf)
	if len(digits) != 11 {
		return ""
	}
	return digits
}

// NormalizePhone keeps only the digits of a phone number.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}
