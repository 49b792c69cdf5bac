package errors

import "fmt"

var (
	ErrSourceUnreadable = fmt.Errorf("question source unreadable")
	ErrEmptyPool        = fmt.Errorf("question pool is empty")
	ErrPersist          = fmt.Errorf("durable write failed")
	ErrEmptyBody        = fmt.Errorf("message body is empty")
	ErrNotOwner         = fmt.Errorf("message belongs to another sender")
	ErrMessageNotFound  = fmt.Errorf("message not found")
	ErrUnknownSender    = fmt.Errorf("sender is not part of this chat")
)
