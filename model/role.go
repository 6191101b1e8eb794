package model

import (
	"fmt"

	"gorm.io/gorm"
)

// Role ids are fixed so sessions cached as "userID:roleID" stay meaningful across restarts.
const (
	RoleAdmin     uint32 = 1
	RoleRegulacao uint32 = 2
	RoleRecepcao  uint32 = 3
)

const (
	RoleNameAdmin     = "admin"
	RoleNameRegulacao = "regulacao"
	RoleNameRecepcao  = "recepcao"
)

type Role struct {
	gorm.Model
	ID   uint32 `gorm:"primary_key;auto_increment" json:"id"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
}

var roleNames = map[uint32]string{
	RoleAdmin:     RoleNameAdmin,
	RoleRegulacao: RoleNameRegulacao,
	RoleRecepcao:  RoleNameRecepcao,
}

// RoleName returns the role name for a seeded role id, or "" if unknown.
func RoleName(id uint32) string {
	return roleNames[id]
}

// RoleID returns the seeded role id for a role name.
func RoleID(name string) (uint32, bool) {
	for id, n := range roleNames {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

func SeedRoles(db *gorm.DB) error {
	roles := []Role{
		{ID: RoleAdmin, Name: RoleNameAdmin},
		{ID: RoleRegulacao, Name: RoleNameRegulacao},
		{ID: RoleRecepcao, Name: RoleNameRecepcao},
	}

	for _, role := range roles {
		var existingRole Role
		err := db.Where("id = ?", role.ID).First(&existingRole).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", role.Name, err)
		}
	}
	return nil
}
