// Package guard holds the predicates that gate protected pages.
package guard

import "course-portal/internal/session"

const (
	LoginPath       = "/login"
	ExamHistoryPath = "/admin/mis-examenes"
)

// Decision pairs denial with a redirect target. Redirect is empty only when
// Allowed is true.
type Decision struct {
	Allowed  bool
	Redirect string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(target string) Decision {
	return Decision{Redirect: target}
}

type Guard func(store *session.Store) Decision

// Auth permits authenticated sessions.
func Auth(store *session.Store) Decision {
	if store == nil || !store.IsAuthenticated() {
		return deny(LoginPath)
	}
	return allow()
}

// Admin permits authenticated admins. Other signed-in users are sent to
// their exam history instead of the login page.
func Admin(store *session.Store) Decision {
	if store == nil || !store.IsAuthenticated() {
		return deny(LoginPath)
	}
	if !store.IsAdmin() {
		return deny(ExamHistoryPath)
	}
	return allow()
}

// All evaluates guards in order and returns the first denial.
func All(guards ...Guard) Guard {
	return func(store *session.Store) Decision {
		for _, g := range guards {
			if d := g(store); !d.Allowed {
				return d
			}
		}
		return allow()
	}
}
