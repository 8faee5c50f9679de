package domain

// Field names an editable agent field. Values match the JSON field names of the API.
type Field string

const (
	FieldName           Field = "name"
	FieldDescription    Field = "description"
	FieldSystemPrompt   Field = "system_prompt"
	FieldTools          Field = "agentpress_tools"
	FieldConfiguredMCPs Field = "configured_mcps"
	FieldCustomMCPs     Field = "custom_mcps"
	FieldIsDefault      Field = "is_default"
	FieldAvatar         Field = "avatar"
	FieldAvatarColor    Field = "avatar_color"
)

// Label returns a human-readable name used in user notices.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldDescription:
		return "Description"
	case FieldSystemPrompt:
		return "System prompt"
	case FieldTools:
		return "Tools"
	case FieldConfiguredMCPs:
		return "Integrations"
	case FieldCustomMCPs:
		return "Custom integrations"
	case FieldIsDefault:
		return "Default flag"
	case FieldAvatar:
		return "Avatar"
	case FieldAvatarColor:
		return "Avatar color"
	default:
		return string(f)
	}
}

// IsVersioned reports whether changes to the field require a new AgentVersion.
func (f Field) IsVersioned() bool {
	switch f {
	case FieldSystemPrompt, FieldTools, FieldConfiguredMCPs, FieldCustomMCPs:
		return true
	default:
		return false
	}
}
