package container

import (
	"github.com/pentimento/pentimento/internal/envelope"
	perrors "github.com/pentimento/pentimento/internal/errors"
)

// Role tags which secret a password unlocked.
type Role int

const (
	RoleReal Role = iota
	RoleDecoy
)

func (r Role) String() string {
	switch r {
	case RoleReal:
		return "real"
	case RoleDecoy:
		return "decoy"
	}
	return "unknown"
}

// KeyMaterial carries the per-secret salts and nonces fetched from the
// metadata store, plus the KDF cost the secrets were sealed with.
type KeyMaterial struct {
	RealSalt   []byte
	RealNonce  []byte
	DecoySalt  []byte
	DecoyNonce []byte
	Params     envelope.Params
}

// Unlocked is a successfully resolved secret.
type Unlocked struct {
	Name string
	Data []byte
	Role Role
}

// Resolve tries the password against both secrets and reports which one
// it unlocked. Both open attempts always run, so a real unlock, a decoy
// unlock, and a failure all cost two key derivations; the first attempt's
// outcome is not observable from timing. The two failure arms collapse
// into a single ErrInvalidPassword that carries no trace of which arm
// failed or why. A password can never unlock both secrets, because the
// two passwords are required to differ when the container is created;
// should both opens somehow succeed, the real secret wins.
func Resolve(c *Container, keys KeyMaterial, password string) (*Unlocked, error) {
	realData, realErr := envelope.Open(password, keys.RealSalt, keys.RealNonce, c.Real.Ciphertext, keys.Params)
	decoyData, decoyErr := envelope.Open(password, keys.DecoySalt, keys.DecoyNonce, c.Decoy.Ciphertext, keys.Params)

	if realErr == nil {
		return &Unlocked{Name: c.Real.Name, Data: realData, Role: RoleReal}, nil
	}
	if decoyErr == nil {
		return &Unlocked{Name: c.Decoy.Name, Data: decoyData, Role: RoleDecoy}, nil
	}
	return nil, perrors.ErrInvalidPassword
}
