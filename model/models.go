package model

// AllModels lists every table in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Role{}, &HealthUnit{}, &User{}, &Session{},
		&ExamType{}, &ConsultationType{}, &Patient{},
		&Request{}, &ActivityLog{}, &Notification{}, &SecurityLog{},
	}
}
