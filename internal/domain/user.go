package domain

import "time"

type User struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"`
	IsVerified          bool       `json:"is_verified"`
	VerificationToken   string     `json:"-"`
	VerificationExpires *time.Time `json:"-"`
	ResetToken          string     `json:"-"`
	ResetExpires        *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
}

// TokenChange describe el nuevo valor de un par token/expiracion.
// El valor cero limpia ambos campos; nunca se escribe uno sin el otro.
type TokenChange struct {
	Token     string
	ExpiresAt time.Time
}

// ClearToken devuelve el cambio que deja token y expiracion en NULL.
func ClearToken() *TokenChange {
	return &TokenChange{}
}

// IssueToken devuelve el cambio que asigna token y expiracion juntos.
func IssueToken(token string, expiresAt time.Time) *TokenChange {
	return &TokenChange{Token: token, ExpiresAt: expiresAt}
}

func (t TokenChange) IsClear() bool {
	return t.Token == ""
}

// UserUpdate agrupa los campos que se escriben en una sola sentencia.
// Los campos nil no se tocan. Los Expect* convierten la escritura en un
// compare-and-set sobre el token vigente; ExpectUnverified exige que la
// cuenta siga sin verificar.
type UserUpdate struct {
	PasswordHash            *string
	IsVerified              *bool
	Verification            *TokenChange
	Reset                   *TokenChange
	ExpectVerificationToken string
	ExpectResetToken        string
	ExpectUnverified        bool
}

func (u UserUpdate) Empty() bool {
	return u.PasswordHash == nil && u.IsVerified == nil && u.Verification == nil && u.Reset == nil
}
