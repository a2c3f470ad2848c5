package dispatcher

import (
	"fmt"

	custerror "github.com/CE-Thesis-2023/hikcamerabot/internal/error"
	"github.com/CE-Thesis-2023/hikcamerabot/models/chat"
)

// Outcome is the terminal result of one dispatched event.
type Outcome struct {
	Reply *chat.Reply
	Err   *custerror.CustomError
}

func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

func (o Outcome) Label() string {
	if o.Err == nil {
		return "success"
	}
	return custerror.CodeName(o.Err.Code)
}

func newOutcome(evt *Event, reply *chat.Reply, err error) Outcome {
	if err != nil {
		custErr := custerror.Classify(err)
		return Outcome{
			Reply: chat.FailureReply(failureText(evt, custErr)),
			Err:   custErr,
		}
	}
	if reply == nil {
		reply = chat.TextReply(fmt.Sprintf("Done: %s on %s", evt.Payload.Action(), evt.Camera.Description))
	}
	return Outcome{Reply: reply}
}

func failureText(evt *Event, err *custerror.CustomError) string {
	action := evt.Payload.Action()
	camera := evt.Camera.Description
	switch err.Code {
	case custerror.CodeTimeout:
		return fmt.Sprintf("Timed out trying to %s on %s, try later", action, camera)
	case custerror.CodeUnavailable:
		return fmt.Sprintf("%s is unavailable, failed to %s. Try later or /list_cams", camera, action)
	case custerror.CodeUnsupported:
		return fmt.Sprintf("%s does not support this: %s", camera, err.Message)
	case custerror.CodeNoHandler, custerror.CodeInternal:
		return fmt.Sprintf("Failed to %s, something went wrong on our side", action)
	}
	return fmt.Sprintf("Failed to %s on %s: %s", action, camera, err.Message)
}
