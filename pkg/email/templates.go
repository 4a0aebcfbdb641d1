package email

// Flow identifies a transactional email category, its template and its
// parameter contract.
type Flow string

const (
	FlowEmailVerification Flow = "email_verification"
	FlowPasswordReset     Flow = "password_reset"
	FlowMagicLink         Flow = "magic_link"
	FlowInvitation        Flow = "invitation"
	FlowWelcome           Flow = "welcome"
)

// Settings holding the Brevo template id for each flow.
const (
	SettingTemplateEmailVerification = "BREVO_TEMPLATE_EMAIL_VERIFICATION"
	SettingTemplatePasswordReset     = "BREVO_TEMPLATE_PASSWORD_RESET"
	SettingTemplateMagicLink         = "BREVO_TEMPLATE_MAGIC_LINK"
	SettingTemplateInvitation        = "BREVO_TEMPLATE_INVITE"
	SettingTemplateWelcome           = "BREVO_TEMPLATE_WELCOME"
)

var templateSettings = map[Flow]string{
	FlowEmailVerification: SettingTemplateEmailVerification,
	FlowPasswordReset:     SettingTemplatePasswordReset,
	FlowMagicLink:         SettingTemplateMagicLink,
	FlowInvitation:        SettingTemplateInvitation,
	FlowWelcome:           SettingTemplateWelcome,
}

// Flows returns every supported flow in declaration order.
func Flows() []Flow {
	return []Flow{
		FlowEmailVerification,
		FlowPasswordReset,
		FlowMagicLink,
		FlowInvitation,
		FlowWelcome,
	}
}

// Valid reports whether f is one of the supported flows.
func (f Flow) Valid() bool {
	_, ok := templateSettings[f]
	return ok
}

func (f Flow) String() string {
	return string(f)
}

// TemplateSetting returns the name of the setting that holds the template id
// for flow.
func TemplateSetting(flow Flow) (string, bool) {
	field, ok := templateSettings[flow]
	return field, ok
}
