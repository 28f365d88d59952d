package resets

// RequestPayload asks for a reset link to be mailed.
type RequestPayload struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// SubmitPayload redeems a mailed token for a new password.
type SubmitPayload struct {
	Token     string `json:"token" validate:"required,len=16"`
	ResetUUID string `json:"resetUuid" validate:"required,uuid4"`
	Password  string `json:"password" validate:"required,min=8,max=30"`
}
