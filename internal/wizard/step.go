package wizard

// FormStage represents a stage of the linear form wizard.
type FormStage string

const (
	StageVerifyPhone FormStage = "verify_phone"
	StageFillForm    FormStage = "fill_form"
	StageSuccess     FormStage = "success"
)

// ChatStep represents a step of the conversational wizard. Progression is
// linear except ConfirmDate, which loops back to SelectDate on rejection.
type ChatStep string

const (
	StepVerifyPhone   ChatStep = "verify_phone"
	StepSelectDate    ChatStep = "select_date"
	StepConfirmDate   ChatStep = "confirm_date"
	StepInputName     ChatStep = "input_name"
	StepInputBirthday ChatStep = "input_birthday"
	StepInputID       ChatStep = "input_id"
	StepSelectDoctor  ChatStep = "select_doctor"
	StepSelectTime    ChatStep = "select_time"
	StepSelectType    ChatStep = "select_type"
	StepCompleted     ChatStep = "completed"
)

// Sender tags a chat message author.
type Sender string

const (
	SenderSystem Sender = "system"
	SenderUser   Sender = "user"
)
