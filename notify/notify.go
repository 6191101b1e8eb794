// Package notify dispatches patient notifications produced by the request
// workflow.
package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ChannelWhatsApp is the only channel messages are produced for today.
const ChannelWhatsApp = "whatsapp"

// Message is the payload published for one notification row.
type Message struct {
	NotificationID uint   `json:"notification_id"`
	RequestID      uint   `json:"request_id"`
	PatientID      uint   `json:"patient_id"`
	Recipient      string `json:"recipient"`
	Channel        string `json:"channel"`
	Body           string `json:"body"`
}

// Publisher hands a message to whatever delivers it.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// LogPublisher only logs messages. Used when no broker is configured.
type LogPublisher struct {
	Log *zap.Logger
}

func (p LogPublisher) Publish(ctx context.Context, msg Message) error {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("notification not dispatched, no broker configured",
		zap.Uint("notification_id", msg.NotificationID),
		zap.Uint("request_id", msg.RequestID),
		zap.String("channel", msg.Channel),
	)
	return nil
}

// Appointment holds what a completion notice tells the patient.
type Appointment struct {
	PatientName string
	ServiceName string
	Location    string
	Date        string // YYYY-MM-DD
	Time        string // HH:MM
}

// CompletionMessage renders the notice sent to a patient once the exam or
// consultation has been scheduled and the request completed.
func CompletionMessage(a Appointment) string {
	date := a.Date
	if d, err := time.Parse("2006-01-02", a.Date); err == nil {
		date = d.Format("02/01/2006")
	}
	return fmt.Sprintf(
		"Olá, %s! Seu agendamento de %s foi confirmado para %s às %s, no local: %s. Compareça com 15 minutos de antecedência levando documento com foto e cartão do SUS.",
		a.PatientName, a.ServiceName, date, a.Time, a.Location,
	)
}
