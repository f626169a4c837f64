package common

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/atelier-works/atelier/pkg/portal/session"
)

type CommonFlags struct {
	Role         string `flag:"role" alias:"r" help:"role of the session to act as. client|instructor|student"`
	SessionStore string `flag:"session-store" help:"path to session store file"`
}

type commonFlagDetection struct {
	home string
}

type CommonFlagDetectionOption func(*commonFlagDetection) *commonFlagDetection

func WithHome(home string) CommonFlagDetectionOption {
	return func(opt *commonFlagDetection) *commonFlagDetection {
		opt.home = home
		return opt
	}
}

// Flags builds the default CommonFlags.
//
// The default role is "client". A ".atelier-role" file found in `from`
// or one of its ancestors overrides it, so project directories can pin
// the role they are worked on with.
func Flags(from string, opt ...CommonFlagDetectionOption) (CommonFlags, error) {
	detparam := commonFlagDetection{
		home: "",
	}
	for _, o := range opt {
		detparam = *o(&detparam)
	}

	home := detparam.home
	if home == "" {
		_home, err := os.UserHomeDir()
		if err != nil {
			_home = ""
		}
		home = _home
	}

	if _from, err := filepath.Abs(from); err == nil {
		from = _from
	}

	role := string(session.RoleClient)
	for searchpath := from; ; {
		candidate := path.Join(searchpath, ".atelier-role")
		if s, err := os.Stat(candidate); err == nil && s.Mode().IsRegular() {
			content, err := os.ReadFile(candidate)
			if err != nil {
				return CommonFlags{}, err
			}
			if p := strings.Split(string(content), "\n"); 0 < len(p) {
				role = strings.TrimSpace(p[0])
			}
			break
		}

		next := path.Dir(searchpath)
		if next == searchpath {
			break
		}
		searchpath = next
	}

	return CommonFlags{
		Role:         role,
		SessionStore: path.Join(home, ".atelier", "session"),
	}, nil
}

type CommonFlagOption func(*CommonFlags) *CommonFlags

func WithRole(role string) CommonFlagOption {
	return func(opt *CommonFlags) *CommonFlags {
		opt.Role = role
		return opt
	}
}

func WithSessionStore(store string) CommonFlagOption {
	return func(opt *CommonFlags) *CommonFlags {
		opt.SessionStore = store
		return opt
	}
}
