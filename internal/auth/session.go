package auth

// Identity is the claim carried by a session token and the only part of an
// admin record ever returned to clients.
type Identity struct {
	AdminID  string `json:"adminId"`
	UserName string `json:"userName"`
}
