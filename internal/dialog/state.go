package dialog

// State identifies which step of which flow a chat is currently waiting on.
// Idle chats hold no session at all, so the zero value never leaks into the
// directory.
type State int

const (
	StateIdle State = iota

	// Registration
	StateRegisterLogin
	StateRegisterPassword

	// Password change
	StateNewPassword

	// Character services
	StateServiceCharacter
	StateServiceChoice

	// Admin console
	StateAdminMenu
	StateBanCharacter
	StateBanDuration
	StateBanReason
	StateUnbanCharacter
	StateSendCharacter
	StateSendSubject
	StateSendBody
	StateSendGoldAmount
	StateSendItemList
	StateRestartDelay
	StateRestartExitCode
	StateRawCommand
)

var stateNames = map[State]string{
	StateIdle:             "idle",
	StateRegisterLogin:    "register_login",
	StateRegisterPassword: "register_password",
	StateNewPassword:      "new_password",
	StateServiceCharacter: "service_character",
	StateServiceChoice:    "service_choice",
	StateAdminMenu:        "admin_menu",
	StateBanCharacter:     "ban_character",
	StateBanDuration:      "ban_duration",
	StateBanReason:        "ban_reason",
	StateUnbanCharacter:   "unban_character",
	StateSendCharacter:    "send_character",
	StateSendSubject:      "send_subject",
	StateSendBody:         "send_body",
	StateSendGoldAmount:   "send_gold_amount",
	StateSendItemList:     "send_item_list",
	StateRestartDelay:     "restart_delay",
	StateRestartExitCode:  "restart_exit_code",
	StateRawCommand:       "raw_command",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
