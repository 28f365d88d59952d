package types

// SuccessEnvelope wraps every successful JSON body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every error body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Message is the payload of endpoints that only acknowledge an action.
type Message struct {
	Message string `json:"message"`
}

// TokenResponse carries a freshly minted identity token.
type TokenResponse struct {
	Token string `json:"token"`
}
