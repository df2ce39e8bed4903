package models

// Session is the authenticated identity persisted by the device client
// between CLI invocations.
type Session struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Token    string `json:"token"`
}
