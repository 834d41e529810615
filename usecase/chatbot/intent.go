package chatbot

import "github.com/taskflow/backend/domain"

// Intent is the closed set of operations a chatbot message can resolve to.
// Wire strings are converted exactly once, at ParseAction; everything past
// that point dispatches on the enum.
type Intent uint8

const (
	// IntentNone marks a message that matched nothing; the reply is the
	// static help text and no operation runs.
	IntentNone Intent = iota
	IntentAdd
	IntentEnhance
	IntentList
	IntentComplete
	// IntentFreeText re-enters keyword classification on the raw message.
	IntentFreeText
)

// Wire action keys accepted by the chatbot endpoint.
const (
	ActionAddTask      = "add_task"
	ActionEnhanceTask  = "enhance_task"
	ActionListTasks    = "list_tasks"
	ActionCompleteTask = "complete_task"
	ActionFreeText     = "process_free_text"
)

// ParseAction maps a wire action key to an Intent. Unknown keys abort
// dispatch before any side effect.
func ParseAction(action string) (Intent, error) {
	switch action {
	case ActionAddTask:
		return IntentAdd, nil
	case ActionEnhanceTask:
		return IntentEnhance, nil
	case ActionListTasks:
		return IntentList, nil
	case ActionCompleteTask:
		return IntentComplete, nil
	case ActionFreeText:
		return IntentFreeText, nil
	default:
		return IntentNone, domain.ErrInvalidAction
	}
}

func (i Intent) String() string {
	switch i {
	case IntentAdd:
		return ActionAddTask
	case IntentEnhance:
		return ActionEnhanceTask
	case IntentList:
		return ActionListTasks
	case IntentComplete:
		return ActionCompleteTask
	case IntentFreeText:
		return ActionFreeText
	default:
		return "none"
	}
}
