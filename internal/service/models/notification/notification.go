package notification

import (
	"errors"
	"time"
)

var ErrInvalidPayload = errors.New("invalid push payload")

// Content is the visible part of a push message.
type Content struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Data carries the application fields of a push message.
type Data struct {
	Subject        string `json:"subject"`
	Message        string `json:"message"`
	NotificationID string `json:"notificationId"`
	ActionURL      string `json:"actionUrl" validate:"omitempty,url"`
}

// PushPayload is the message published by the push notification service.
type PushPayload struct {
	Notification Content `json:"notification"`
	Data         Data    `json:"data"`
}

// Notification is what gets shown to the operator.
type Notification struct {
	ID          int64     `json:"id"`
	ExternalID  string    `json:"notificationId"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	ActionURL   string    `json:"actionUrl,omitempty"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

// ToNotification builds the displayed notification. The notification block
// wins over data.subject and data.message when both are present.
func (p PushPayload) ToNotification() (Notification, error) {
	title := p.Notification.Title
	if title == "" {
		title = p.Data.Subject
	}
	body := p.Notification.Body
	if body == "" {
		body = p.Data.Message
	}
	if title == "" {
		return Notification{}, ErrInvalidPayload
	}

	return Notification{
		ExternalID: p.Data.NotificationID,
		Title:      title,
		Body:       body,
		ActionURL:  p.Data.ActionURL,
	}, nil
}
