package session

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/hectane/go-acl"
	"gopkg.in/yaml.v3"

	"github.com/atelier-works/atelier/pkg/portal/identity"
)

var ErrStoreNotFound = errors.New("session store file is not found")
var ErrCannotCreateStore = errors.New("cannot create session store file")
var ErrCannotUpdateStore = errors.New("cannot update session store file")
var ErrRecordInvalid = errors.New("session record is invalid")
var ErrUnknownRole = errors.New("unknown role")

// Role is the portal role a session was issued for.
type Role string

const (
	RoleClient     Role = "client"
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

// Roles is the whitelist of session store keys.
var Roles = []Role{RoleClient, RoleInstructor, RoleStudent}

func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownRole, s)
}

// Record is a persisted session for one role.
//
// Payload is the identity object exactly as the backend issued it.
// Its shape varies between backend generations, so it is kept verbatim
// and only ever interpreted by the identity resolver.
type Record struct {
	// portal API root
	Server string `yaml:"server"`

	// identity payload, raw JSON
	Payload string `yaml:"payload"`

	// access token, opaque to this client (may be a JWT)
	Token string `yaml:"token,omitempty"`
}

// Verify Record.
//
// # Return
//
// nil if it is valid. Otherwise, ErrRecordInvalid error.
func (r *Record) Verify() error {
	if !verifyURL(r.Server) {
		return fmt.Errorf("%w: server is not URL: %s", ErrRecordInvalid, r.Server)
	}
	if r.Payload == "" {
		return fmt.Errorf("%w: payload is empty", ErrRecordInvalid)
	}
	return nil
}

// Identity resolves the actor id from the persisted payload.
func (r *Record) Identity() (int64, bool) {
	return identity.Resolve([]byte(r.Payload))
}

func verifyURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}

// Store is a map from role to its session Record.
type Store map[Role]*Record

// LoadStore loads session store from file.
func LoadStore(filepath string) (Store, error) {
	buf, err := os.ReadFile(filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrStoreNotFound, filepath)
		}
		return nil, err
	}
	return Unmarshal(buf)
}

// Unmarshal session store from yaml in byte array.
func Unmarshal(buf []byte) (Store, error) {
	ret := map[Role]*Record{}
	if err := yaml.Unmarshal(buf, &ret); err != nil {
		return nil, err
	}
	for role := range ret {
		if _, err := ParseRole(string(role)); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// Save session store to file.
//
// Session records carry tokens, so the file is forced to 0600 and
// updated through a backup copy.
func (st *Store) Save(path string) error {
	saving := false

	if err := os.MkdirAll(filepath.Dir(path), os.FileMode(0700)); err != nil {
		return err
	}

	bkpath := path + ".backup"
	bk, err := newSafeFile(bkpath)
	if err != nil {
		return err
	}
	defer func() {
		if !saving {
			os.Remove(bkpath)
		}
	}()
	defer bk.Close()

	f, err := os.OpenFile(path, os.O_RDWR, os.FileMode(0600))
	if err == nil {
		// In case of the existing file with loose permissions,
		// enforce permission to 0600.
		if err := acl.Chmod(path, os.FileMode(0600)); err != nil {
			return err
		}
	} else {
		if os.IsPermission(err) {
			return fmt.Errorf(
				"%w, because no permission to write file at %s",
				ErrCannotUpdateStore, path,
			)
		} else if os.IsNotExist(err) {
			f_, err_ := newSafeFile(path)
			if err_ != nil {
				return fmt.Errorf(
					"%w: cannot create a file at %s",
					ErrCannotCreateStore, path,
				)
			}
			f = f_
		} else {
			return err
		}
	}
	defer f.Close()

	if err := bk.Truncate(0); err != nil {
		return err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	if _, err := io.Copy(bk, f); err != nil {
		return err
	}

	saving = true
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	if err := f.Truncate(0); err != nil {
		return err
	}
	buf, err := yaml.Marshal(st)
	if err != nil {
		return err
	}
	_, err = f.Write(buf)

	if err == nil {
		saving = false
	}
	return err
}

// newSafeFile creates a file accessible only by its owner.
func newSafeFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, os.FileMode(0600))
	if err != nil {
		return nil, err
	}
	if err := acl.Chmod(path, os.FileMode(0600)); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
